// Package viz draws force-directed layouts in the terminal.
//
// A [Model] drives a scene in real time with Bubble Tea and renders it on a
// braille [Canvas], nodes tinted by group. A [Picker] lists the built-in
// presets and opens the chosen one in a Model.
//
// # Key Bindings
//
//	Space    - Stop/restart the simulation
//	r        - Reheat (alpha back to 1)
//	Arrows   - Move the cursor; drags a held node or the pointer
//	g, Enter - Grab/release the node under the cursor
//	+/-, f   - Zoom, fit to view
//	t        - Cycle color themes
//	R        - Toggle GIF recording
//	?        - Show help overlay
package viz
