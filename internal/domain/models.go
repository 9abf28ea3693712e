package domain

import "time"

type TargetID string

// Target is one monitored endpoint. Loaded once at startup and never
// mutated afterwards; thresholds are fixed for the lifetime of the run.
type Target struct {
	ID               TargetID          `json:"id"`
	URL              string            `json:"url"`
	Method           string            `json:"method"`
	Headers          map[string]string `json:"headers,omitempty"`
	ExpectedStatus   int               `json:"expected_status_code"`
	FailureThreshold int               `json:"failure_threshold"`
}

// ProbeOutcome is the result of a single check against a target.
type ProbeOutcome struct {
	TargetID   TargetID  `json:"target_id"`
	Success    bool      `json:"success"`
	HTTPStatus int       `json:"http_status,omitempty"` // 0 on transport error
	LatencyMS  float64   `json:"latency_ms"`
	Reason     string    `json:"reason,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}
