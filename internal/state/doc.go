// Package state provides thread-safe state management for the partpick TUI.
//
// # Overview
//
// Driver events arrive on a channel and are folded into a Store by the app's
// event pump. The UI reads the Store by snapshot on its own tick, so the UI
// never touches the driver's session directly.
//
//	Producer (event pump):          Consumer (UI):
//	┌─────────────────────┐        ┌──────────────────┐
//	│ <-notifier.Events() │        │                  │
//	│ store.Apply(ev)     │───────→│ store.Snapshot() │
//	└─────────────────────┘ (mutex)└──────────────────┘
//
// # Update Semantics
//
//   - FoundPartsEvent replaces Results and clears the selected detail
//   - PartDetailEvent replaces Detail
//   - StatusEvent appends to a bounded history (MaxStatuses)
//   - SetConnected and RecordResult track errors and consecutive failures;
//     a failure keeps the previous data
//
// # Defensive Copying
//
// Snapshot clones slices, maps and the last error so the UI can hold on to a
// snapshot while the pump keeps writing.
//
// The zero Store is ready to use.
package state
