// Package app provides the orchestration layer for partpick.
//
// # Overview
//
// This package wires together configuration, logging, the asset fetcher,
// the InvenTree driver, state management and the UI. It is the composition
// root shared by the TUI and the CLI commands.
//
// # Components
//
//   - app.go: Bootstrap (config, logger, asset fetcher, driver) and Run (TUI)
//   - pump.go: background goroutine that folds driver events into state.Store
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        Read config, .env, environment
//	       ├─────> logging.New()        Rotated JSON log file
//	       ├─────> asset.New()          Image download directory
//	       ├─────> inventree.NewDriver  Driver with a channel notifier
//	       ├─────> StartPump()          Events → state.Store
//	       └─────> ui.Run()             TUI (blocks); connects on start
//
// The driver is only ever called from the UI's command goroutines, one call
// at a time. The pump folds events into the store; the UI adds the outcome of
// each call through SetConnected and RecordResult.
//
// # Shutdown
//
// Run cancels its context when the UI returns, waits for the pump to exit
// and flushes the log.
package app
