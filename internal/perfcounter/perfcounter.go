// Package perfcounter measures hardware events around a code region.
//
// A [Session] is opened once per process and then started and ended around each
// measured region. On Linux the session is backed by a perf_event_open group of
// cycles, instructions, branch instructions and branch misses. Where counters are
// not accessible the session still reports elapsed time, and [Session.HasEvents]
// returns false.
package perfcounter

import (
	"errors"
	"time"
)

// ErrNoEvents is returned when the host exposes no accessible hardware events.
var ErrNoEvents = errors.New("performance counters are not accessible")

// ErrNotStarted is returned by End when no region is open.
var ErrNotStarted = errors.New("counter session not started")

// EventCount is the snapshot of one measured region.
type EventCount struct {
	Elapsed      time.Duration
	Instructions float64
	Cycles       float64
	Branches     float64
	BranchMisses float64
}

// Add returns the field-wise sum of c and o.
func (c EventCount) Add(o EventCount) EventCount {
	return EventCount{
		Elapsed:      c.Elapsed + o.Elapsed,
		Instructions: c.Instructions + o.Instructions,
		Cycles:       c.Cycles + o.Cycles,
		Branches:     c.Branches + o.Branches,
		BranchMisses: c.BranchMisses + o.BranchMisses,
	}
}

// Session scopes counting to one region at a time.
type Session interface {
	Start() error
	End() (EventCount, error)
	HasEvents() bool
	Close() error
}

// Opener constructs a Session.
type Opener func() (Session, error)

// clockSession measures wall-clock time only.
type clockSession struct {
	start   time.Time
	running bool
}

// NewClockSession returns a Session that only records elapsed time.
func NewClockSession() Session {
	return &clockSession{}
}

func (s *clockSession) Start() error {
	s.running = true
	s.start = time.Now()
	return nil
}

func (s *clockSession) End() (EventCount, error) {
	elapsed := time.Since(s.start)
	if !s.running {
		return EventCount{}, ErrNotStarted
	}
	s.running = false
	return EventCount{Elapsed: elapsed}, nil
}

func (s *clockSession) HasEvents() bool { return false }

func (s *clockSession) Close() error { return nil }
