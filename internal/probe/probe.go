package probe

import (
	"context"

	"github.com/fers4t/kg-uptime-monitor/internal/domain"
)

// Checker performs a single probe for a target. One invocation issues one
// request; retry policy, if any, belongs to the caller.
type Checker interface {
	Check(ctx context.Context, target domain.Target) domain.ProbeOutcome
}
