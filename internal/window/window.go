// Package window keeps the rolling series that feed the dashboard chart.
package window

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of points the chart shows.
const DefaultCapacity = 20

// Point is one chart sample. Storing the four values together keeps the
// series co-indexed: eviction always removes a whole point.
type Point struct {
	Time        time.Time
	CPU         float64
	Memory      float64
	Temperature float64
}

// Buffer is a fixed-capacity ring of points, oldest evicted first.
// It is safe for concurrent use.
type Buffer struct {
	mu    sync.RWMutex
	data  []Point
	head  int
	count int
	size  int
}

// New creates an empty buffer. Non-positive capacities fall back to
// DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{
		data: make([]Point, capacity),
		size: capacity,
	}
}

// Append pushes one point to every series. Once the buffer is full the oldest
// point is overwritten.
func (b *Buffer) Append(at time.Time, cpu, memory, temperature float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data[b.head] = Point{Time: at, CPU: cpu, Memory: memory, Temperature: temperature}
	b.head = (b.head + 1) % b.size
	if b.count < b.size {
		b.count++
	}
}

// Len returns the number of points currently held.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Cap returns the configured capacity.
func (b *Buffer) Cap() int {
	return b.size
}

// Points returns the held points in chronological order (oldest first).
func (b *Buffer) Points() []Point {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return nil
	}

	result := make([]Point, b.count)
	// head is the next write position, so the oldest point is count slots back
	start := (b.head - b.count + b.size) % b.size
	for i := 0; i < b.count; i++ {
		result[i] = b.data[(start+i)%b.size]
	}
	return result
}

// Snapshot returns a copy of the four series in chronological order.
func (b *Buffer) Snapshot() Series {
	points := b.Points()
	s := Series{
		Times:       make([]time.Time, len(points)),
		CPU:         make([]float64, len(points)),
		Memory:      make([]float64, len(points)),
		Temperature: make([]float64, len(points)),
	}
	for i, p := range points {
		s.Times[i] = p.Time
		s.CPU[i] = p.CPU
		s.Memory[i] = p.Memory
		s.Temperature[i] = p.Temperature
	}
	return s
}

// Series is a read-only view of the window. All four slices share one length.
type Series struct {
	Times       []time.Time
	CPU         []float64
	Memory      []float64
	Temperature []float64
}

// Len returns the number of points in the series.
func (s Series) Len() int {
	return len(s.Times)
}

// Labels formats the time axis with the given layout (time.Kitchen, "15:04:05", ...).
func (s Series) Labels(layout string) []string {
	labels := make([]string, len(s.Times))
	for i, t := range s.Times {
		labels[i] = t.Format(layout)
	}
	return labels
}

// Last returns the most recent point, if any.
func (s Series) Last() (Point, bool) {
	n := len(s.Times)
	if n == 0 {
		return Point{}, false
	}
	return Point{Time: s.Times[n-1], CPU: s.CPU[n-1], Memory: s.Memory[n-1], Temperature: s.Temperature[n-1]}, true
}
