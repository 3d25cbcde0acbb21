// Package viz provides terminal render surfaces for the engine loop.
//
//   - [Canvas]: Braille-based pixel canvas with per-cell colors
//   - [TerminalSurface]: sizes the canvas to the terminal and hands every
//     finished frame to a sink, usually a Bubble Tea program
//   - [HeadlessSurface]: fixed size canvas keeping the last frame as text
//
// A braille cell packs 2x4 sub-pixels, so a terminal of 80x24 cells is a
// 160x96 pixel canvas.
package viz
