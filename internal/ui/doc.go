// Package ui renders non-interactive output for the pidash CLI: the readout
// table printed by `pidash once`, the one-line status written by `pidash
// watch` when stdout is not a terminal, and a spinner for one-shot requests.
//
// # Color Scheme
//
// Colors are ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Healthy readings, successful requests
//	ColorError     (red)    - Failures, hot or high readings
//	ColorWarning   (yellow) - Medium band, warm temperature
//	ColorInfo      (cyan)   - Section headings
//	ColorMuted     (gray)   - Secondary text, timing info
//
// Use DisableColors() to switch to monochrome output (for --no-color).
//
// # Readout
//
//	board := render.NewBoard()
//	dashboard.Present(board, snap)
//	fmt.Print(ui.RenderReadout(board.View()))
package ui
