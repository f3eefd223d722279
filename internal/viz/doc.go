// Package viz draws a running particle simulation in the terminal.
//
// Particles are projected through a [Camera] onto a Braille [Canvas] and
// tinted by cluster. [Model] is a Bubble Tea program that steps an
// experiment on a timer and lets physics parameters be tuned live.
//
// # Key Bindings
//
//	Space     - Pause/Resume
//	N         - Single step while paused
//	R         - Rebuild from the initial configuration
//	Tab       - Select next parameter
//	Up/Down   - Scale the selected parameter by ±5%
//	X/Y/Z     - Rotate the camera (shift reverses)
//	+/-       - Zoom
//	E         - Toggle graph edges
//	T         - Cycle color themes
//	?         - Show help overlay
package viz
