package repo

import (
	"context"
	"time"

	"github.com/fers4t/kg-uptime-monitor/internal/domain"
)

// StatusRow is the latest known status of one target, as served by the
// status API. It combines the last probe outcome with the tracked state.
type StatusRow struct {
	TargetID            domain.TargetID `json:"target_id"`
	URL                 string          `json:"url"`
	Up                  bool            `json:"up"`
	ConsecutiveFailures int             `json:"consecutive_failures"`
	HTTPStatus          *int            `json:"http_status"` // nil on transport error
	LatencyMS           *float64        `json:"latency_ms"`
	Reason              string          `json:"reason,omitempty"`
	DownSince           *time.Time      `json:"down_since,omitempty"`
	CheckedAt           time.Time       `json:"checked_at"`
}

// StatusStore holds the latest row per target. In-memory only; history is
// out of scope for this monitor.
type StatusStore interface {
	Upsert(ctx context.Context, row StatusRow) error
	Get(ctx context.Context, id domain.TargetID) (*StatusRow, error)
	List(ctx context.Context) ([]StatusRow, error)
}
