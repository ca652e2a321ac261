// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI renders a live view of one sync run:
//  1. [RunView] : Spinner, current phase, and a tail of recent events
//  2. [ResultView] : Final counts for the run
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ImportEngine, providing
// non-blocking status reporting during the run.
package ui
