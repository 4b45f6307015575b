// Package viz provides a live terminal view of a running buoy simulation,
// built on Bubble Tea.
//
//   - [Model]: steps the simulation on a timer and draws the buoy riding
//     the incident wave, with a heave history chart
//   - [Canvas]: Braille-based pixel canvas with a world-coordinate window
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	+/-   - Change simulation speed
//	Q     - Quit
package viz
