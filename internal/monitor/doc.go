// Package monitor implements the live terminal view of a pidash dashboard.
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: terminal size, help state, the last board view
//   - Update: keystrokes, focus changes, board updates, clock ticks
//   - View: renders the board to a string
//
// The model never polls. A dashboard.Controller does that on its own loop
// and writes into a render.Board through the Sink in this package; the Sink
// nudges the running program with a boardMsg after each change.
//
// # Message Flow
//
//  1. The controller finishes a poll cycle and writes to the Sink
//  2. The Sink coalesces the change into one boardMsg
//  3. Update copies the board view into the model
//  4. View() re-renders header, gauges, cards and chart
//
// Terminal focus is reported with tea.WithReportFocus. When pause-on-blur is
// enabled, losing focus publishes platform.Hidden and regaining it publishes
// platform.Visible, which the controller turns into Stop and Resume.
//
// # Layout Modes
//
//	LayoutMinimal  (<80 cols)  - readouts only, no chart
//	LayoutCompact  (80-120)    - stacked gauges, one-row sparklines
//	LayoutStandard (120-160)   - gauge row and braille chart
//	LayoutWide     (160+)      - gauge row, cards side by side, taller chart
//
// # Keyboard Shortcuts
//
//	q, Ctrl+C   - Quit
//	r           - Refresh now
//	p           - Pause / resume polling
//	?           - Toggle help overlay
//	Esc         - Close help
package monitor
