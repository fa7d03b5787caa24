package dashboard

import (
	"time"

	"github.com/rileyhilliard/pidash/internal/window"
)

// State is the polling lifecycle state.
type State int

const (
	Stopped State = iota
	Running
	Closed
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case Running:
		return "running"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Connectivity is the online/offline indicator.
type Connectivity int

const (
	Online Connectivity = iota
	Offline
)

func (c Connectivity) String() string {
	if c == Offline {
		return "offline"
	}
	return "online"
}

// Stats counts what the controller has done since construction.
type Stats struct {
	Cycles       int // fetches started
	Applied      int // valid snapshots rendered
	Failures     int // transport or parse failures
	Rejected     int // snapshots carrying an error marker
	Discarded    int // late results for a stopped or stale lifecycle
	Dropped      int // ticks skipped by the single-flight guard
	RenderErrors int // sink updates that failed
}

// Status is a read-only view of a controller.
type Status struct {
	State        State
	Connectivity Connectivity
	LastUpdate   time.Time
	LastLatency  time.Duration
	LastError    error
	InFlight     int
	Window       window.Series
	Stats        Stats
}
