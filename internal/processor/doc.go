// Package processor wires the parsed command line into a running
// application: the Fyne GUI by default, or the terminal reading mode with
// --no-gui.
package processor
