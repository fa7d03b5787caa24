package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerSuccess
	SpinnerFailed
)

var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const spinnerInterval = 80 * time.Millisecond

// Spinner shows an animated label while a request is in flight, then a
// final line with the outcome and elapsed time.
type Spinner struct {
	mu       sync.Mutex
	w        io.Writer
	label    string
	state    SpinnerState
	frame    int
	animate  bool
	start    time.Time
	stop     chan struct{}
	done     chan struct{}
	lastLine string
}

// NewSpinner creates a spinner writing to w. When animate is false (stdout
// is not a terminal) only the final line is written.
func NewSpinner(w io.Writer, label string, animate bool) *Spinner {
	return &Spinner{w: w, label: label, animate: animate}
}

// Start begins the animation. Calling it twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.state == SpinnerInProgress {
		s.mu.Unlock()
		return
	}
	s.state = SpinnerInProgress
	s.start = time.Now()
	if !s.animate {
		s.mu.Unlock()
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	s.drawLocked()
	s.mu.Unlock()

	go s.run()
}

// Success stops the spinner and reports detail after the label.
func (s *Spinner) Success(detail string) {
	s.finish(SpinnerSuccess, detail)
}

// Fail stops the spinner and reports detail after the label.
func (s *Spinner) Fail(detail string) {
	s.finish(SpinnerFailed, detail)
}

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Spinner) run() {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.drawLocked()
			s.mu.Unlock()
		}
	}
}

func (s *Spinner) drawLocked() {
	color := GradientColors[(s.frame/2)%len(GradientColors)]
	line := lipgloss.NewStyle().Foreground(color).Render(spinnerFrames[s.frame]) + " " + s.label + "..."
	s.clearLocked()
	fmt.Fprint(s.w, "\r"+line)
	s.lastLine = line
}

func (s *Spinner) clearLocked() {
	if s.lastLine == "" {
		return
	}
	fmt.Fprint(s.w, "\r"+strings.Repeat(" ", lipgloss.Width(s.lastLine))+"\r")
	s.lastLine = ""
}

func (s *Spinner) finish(state SpinnerState, detail string) {
	s.mu.Lock()
	stop, done := s.stop, s.done
	running := s.state == SpinnerInProgress && stop != nil
	s.stop, s.done = nil, nil
	s.mu.Unlock()

	if running {
		close(stop)
		<-done
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	elapsed := time.Duration(0)
	if !s.start.IsZero() {
		elapsed = time.Since(s.start)
	}
	s.state = state
	s.clearLocked()

	symbol := successStyle.Render(SymbolSuccess)
	if state == SpinnerFailed {
		symbol = errorStyle.Render(SymbolFail)
	}
	line := symbol + " " + s.label
	if detail != "" {
		line += " " + detail
	}
	fmt.Fprintln(s.w, line+" "+mutedStyle.Render(formatDuration(elapsed)))
}

// formatDuration formats a duration for display (e.g., "0.03s", "1.2s").
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
