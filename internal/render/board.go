// Package render holds the last rendered state of the dashboard. A Board is
// the render sink the controller writes to; views read from it.
package render

import (
	"sync"

	"github.com/rileyhilliard/pidash/internal/dashboard"
	"github.com/rileyhilliard/pidash/internal/status"
	"github.com/rileyhilliard/pidash/internal/window"
)

// Gauge is the drawn state of one circular gauge.
type Gauge struct {
	Percent float64
	Max     float64
	Band    status.Band
	Degrees float64 // sweep of the gauge arc, 0-360
}

// Fraction returns Percent/Max, 0 when Max is zero.
func (g Gauge) Fraction() float64 {
	if g.Max == 0 {
		return 0
	}
	return g.Percent / g.Max
}

// View is a copy of everything on the board.
type View struct {
	Texts        map[string]string
	Gauges       map[string]Gauge
	States       map[string]string
	Series       window.Series
	Connectivity dashboard.Connectivity
	Label        string
	Version      uint64 // bumped on every update
}

// Text returns the text for target, "" when unset.
func (v View) Text(target string) string {
	return v.Texts[target]
}

// Rendered reports whether at least one snapshot has been presented.
func (v View) Rendered() bool {
	return len(v.Texts) > 0
}

// Board is a concurrency-safe dashboard.Sink that remembers what it was told.
type Board struct {
	mu    sync.RWMutex
	known map[string]bool
	view  View
}

// NewBoard creates a board that accepts the dashboard's standard targets.
func NewBoard() *Board {
	known := make(map[string]bool)
	for _, list := range [][]string{dashboard.TextTargets, dashboard.GaugeTargets, dashboard.StateTargets} {
		for _, t := range list {
			known[t] = true
		}
	}
	return &Board{
		known: known,
		view: View{
			Texts:  make(map[string]string),
			Gauges: make(map[string]Gauge),
			States: make(map[string]string),
		},
	}
}

func (b *Board) SetText(target, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.known[target] {
		return dashboard.UnknownTarget(target)
	}
	b.view.Texts[target] = text
	b.view.Version++
	return nil
}

func (b *Board) SetGauge(target string, percent, max float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.known[target] {
		return dashboard.UnknownTarget(target)
	}
	if max <= 0 {
		max = 100
	}
	b.view.Gauges[target] = Gauge{
		Percent: percent,
		Max:     max,
		Band:    status.ColorBand(percent),
		Degrees: percent / max * 360,
	}
	b.view.Version++
	return nil
}

func (b *Board) SetState(target, class string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.known[target] {
		return dashboard.UnknownTarget(target)
	}
	b.view.States[target] = class
	b.view.Version++
	return nil
}

func (b *Board) UpdateChart(series window.Series) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view.Series = series
	b.view.Version++
	return nil
}

func (b *Board) SetConnection(c dashboard.Connectivity, label string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.view.Connectivity = c
	b.view.Label = label
	b.view.Version++
	return nil
}

// View returns a copy of the board.
func (b *Board) View() View {
	b.mu.RLock()
	defer b.mu.RUnlock()

	v := b.view
	v.Texts = make(map[string]string, len(b.view.Texts))
	for k, s := range b.view.Texts {
		v.Texts[k] = s
	}
	v.Gauges = make(map[string]Gauge, len(b.view.Gauges))
	for k, g := range b.view.Gauges {
		v.Gauges[k] = g
	}
	v.States = make(map[string]string, len(b.view.States))
	for k, s := range b.view.States {
		v.States[k] = s
	}
	return v
}

// Version returns the update counter without copying the board.
func (b *Board) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.view.Version
}
