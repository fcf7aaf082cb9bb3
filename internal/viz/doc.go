// Package viz renders closed-loop runs live in the terminal. [Model] is a
// bubbletea program that steps a system under its controller on a timer
// and plots per-state histories; the exported lipgloss styles are shared
// with the CLI summary output.
package viz
