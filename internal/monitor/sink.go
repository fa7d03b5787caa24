package monitor

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rileyhilliard/pidash/internal/dashboard"
	"github.com/rileyhilliard/pidash/internal/render"
	"github.com/rileyhilliard/pidash/internal/window"
)

// Sink is the dashboard.Sink for the terminal view. Writes go to the board;
// each one leaves a pending notification that Forward turns into a single
// boardMsg, so a whole poll cycle costs one redraw.
type Sink struct {
	board  *render.Board
	notify chan struct{}
}

// NewSink wraps board.
func NewSink(board *render.Board) *Sink {
	return &Sink{board: board, notify: make(chan struct{}, 1)}
}

func (s *Sink) SetText(target, text string) error {
	defer s.nudge()
	return s.board.SetText(target, text)
}

func (s *Sink) SetGauge(target string, percent, max float64) error {
	defer s.nudge()
	return s.board.SetGauge(target, percent, max)
}

func (s *Sink) SetState(target, class string) error {
	defer s.nudge()
	return s.board.SetState(target, class)
}

func (s *Sink) UpdateChart(series window.Series) error {
	defer s.nudge()
	return s.board.UpdateChart(series)
}

func (s *Sink) SetConnection(c dashboard.Connectivity, label string) error {
	defer s.nudge()
	return s.board.SetConnection(c, label)
}

// nudge never blocks; the controller loop calls it.
func (s *Sink) nudge() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Forward delivers board changes to send (usually tea.Program.Send) until
// ctx ends.
func (s *Sink) Forward(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.notify:
			send(boardMsg{version: s.board.Version()})
		}
	}
}

// Changes exposes the raw notification channel for non-TUI consumers.
func (s *Sink) Changes() <-chan struct{} {
	return s.notify
}
