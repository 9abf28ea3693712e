package domain

import "time"

// TargetState is the mutable per-target health record. One exists per
// configured target and it is written only by the tracker.
//
// DownSince is set once per down episode, at the failure that crosses the
// threshold, and cleared by the recovering success.
type TargetState struct {
	ConsecutiveFailures int       `json:"consecutive_failures"`
	Down                bool      `json:"down"`
	DownSince           time.Time `json:"down_since,omitempty"`
}
