// Package tracker holds the per-target failure-threshold state machine.
//
// A target is Up until it accumulates threshold consecutive failed probes;
// the failure that reaches the threshold flips it to Down and produces a
// single EventDown. While Down, further failures are silent. The first
// success flips it back to Up and produces a single EventRecovered carrying
// the downtime. A success before the threshold is reached silently resets
// the counter, which is what tolerates transient blips.
package tracker

import (
	"sync"
	"time"

	"github.com/fers4t/kg-uptime-monitor/internal/domain"
)

type entry struct {
	target domain.Target
	state  domain.TargetState
}

// Tracker owns every TargetState. Outcomes for the same target must be
// applied in arrival order; the internal lock makes Apply safe to call from
// concurrent per-target workers but does not reorder anything for the caller.
type Tracker struct {
	mu      sync.Mutex
	entries map[domain.TargetID]*entry
}

func New(targets []domain.Target) *Tracker {
	t := &Tracker{entries: make(map[domain.TargetID]*entry, len(targets))}
	for _, tgt := range targets {
		if tgt.FailureThreshold < 1 {
			tgt.FailureThreshold = 1
		}
		t.entries[tgt.ID] = &entry{target: tgt}
	}
	return t
}

// Apply feeds one probe outcome through the state machine and returns the
// transition event, or nil when nothing notification-worthy happened.
// Outcomes for unknown targets are ignored.
func (t *Tracker) Apply(out domain.ProbeOutcome) *domain.Event {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[out.TargetID]
	if !ok {
		return nil
	}

	at := out.CheckedAt
	if at.IsZero() {
		at = time.Now().UTC()
	}

	if out.Success {
		wasDown := e.state.Down
		downSince := e.state.DownSince
		e.state.ConsecutiveFailures = 0
		e.state.Down = false
		e.state.DownSince = time.Time{}
		if !wasDown {
			// counter reset on an Up target is a silent no-op transition
			return nil
		}
		return &domain.Event{
			Kind:      domain.EventRecovered,
			TargetID:  e.target.ID,
			URL:       e.target.URL,
			Threshold: e.target.FailureThreshold,
			Downtime:  at.Sub(downSince),
			At:        at,
		}
	}

	e.state.ConsecutiveFailures++

	// The crossing fires exactly once: on the failure that makes the counter
	// equal the threshold while the target is still Up. Anything past that
	// is an already-alerted episode.
	if e.state.Down || e.state.ConsecutiveFailures != e.target.FailureThreshold {
		return nil
	}

	e.state.Down = true
	e.state.DownSince = at
	return &domain.Event{
		Kind:      domain.EventDown,
		TargetID:  e.target.ID,
		URL:       e.target.URL,
		Failures:  e.state.ConsecutiveFailures,
		Threshold: e.target.FailureThreshold,
		LastError: out.Reason,
		At:        at,
	}
}

// State returns a copy of the current state for one target.
func (t *Tracker) State(id domain.TargetID) (domain.TargetState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[id]
	if !ok {
		return domain.TargetState{}, false
	}
	return e.state, true
}
