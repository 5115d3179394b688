// Package viz draws trajectories in the terminal.
//
// Paths are plotted on a braille [Canvas], where each character cell holds
// 2x4 dots, through a [Frame] that keeps the x/y aspect ratio. [LiveModel]
// is a Bubble Tea program that steps a simulation and redraws the true
// path, the odometry path and the GPS fixes as they appear.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart from the initial pose with the same seed
//	+/-   - Double/halve steps per frame
//	Q     - Quit
package viz
