// Package tui is the terminal calendar grid, a bubbletea program over
// grid.ViewState. Events load in the background; a failed load shows the
// calendar alert in the status bar. Table and Title are also used by the
// render command for plain text output.
package tui
