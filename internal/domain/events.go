package domain

import "time"

type EventKind string

const (
	EventDown      EventKind = "DOWN"
	EventRecovered EventKind = "RECOVERED"
)

// Event is a notification-worthy state transition. Exactly one EventDown is
// produced per down episode (on the failure that reaches the threshold) and
// exactly one EventRecovered per recovery (on the first success after it).
type Event struct {
	Kind      EventKind
	TargetID  TargetID
	URL       string
	Failures  int           // consecutive failures at the time of the event
	Threshold int           // the target's configured failure threshold
	LastError string        // reason of the failure that triggered EventDown
	Downtime  time.Duration // only set on EventRecovered
	At        time.Time
}
