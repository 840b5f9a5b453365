// Package viz renders a running session in the terminal.
//
// The package implements the live view with the Bubble Tea framework. A
// tea.Tick loop is the scheduler: each tick runs one batch and the grid is
// repainted as one colored disk per tree.
//
// # Key Bindings
//
//	Space - Start/Pause/Resume
//	R     - Reset with the same seed
//	N     - Reset with a new seed
//	+/-   - Cycle the immigration interval
//	←/→   - Shift the resource split
//	?     - Show help overlay
//	Q     - Quit
package viz
