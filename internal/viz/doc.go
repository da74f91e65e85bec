// Package viz renders a live balancing session in the terminal.
//
// The [Model] is a Bubble Tea program that advances the body in real time
// and draws it on a Braille [Canvas].
//
// # Key Bindings
//
//	←/h   - Drive wheel left
//	→/l   - Drive wheel right
//	↓/s   - Stop wheel
//	Space - Pause/Resume
//	R     - Rebuild body and controller
//	T     - Cycle color themes
//	Q     - Quit
package viz
