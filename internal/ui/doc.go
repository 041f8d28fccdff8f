// Package ui provides the Bubble Tea TUI for partpick.
//
// The screen is a search bar over a split pane: search results on the left
// and the assembled detail of the selected part on the right, with a kitty
// graphics preview of the part image when the terminal supports it. A log
// view shows the tail of partpick's own log file.
//
// Driver calls (connect, search, select) run as tea.Cmds one at a time; a
// request made while another is in flight is ignored. Results and statuses
// reach the view through state.Store snapshots polled on every tick, so the
// UI never reads driver state directly.
package ui
