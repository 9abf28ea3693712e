package probe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fers4t/kg-uptime-monitor/internal/domain"
)

type HTTPChecker struct {
	Client *http.Client
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPChecker{
		Client: &http.Client{Timeout: timeout},
	}
}

// Check issues one request using the target's method, URL and headers.
// Success means a response arrived in time AND the status code matched the
// target's expected one. Transport errors and status mismatches both come
// back as a failed outcome; only the reason text differs.
func (h *HTTPChecker) Check(ctx context.Context, t domain.Target) domain.ProbeOutcome {
	start := time.Now()
	out := domain.ProbeOutcome{
		TargetID:  t.ID,
		CheckedAt: start.UTC(),
	}

	method := t.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, t.URL, nil)
	if err != nil {
		out.Reason = fmt.Sprintf("build request: %v", err)
		out.LatencyMS = time.Since(start).Seconds() * 1000
		return out
	}
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}

	resp, err := h.Client.Do(req)
	out.LatencyMS = time.Since(start).Seconds() * 1000
	if err != nil {
		out.Reason = classifyTransportError(err)
		return out
	}
	defer resp.Body.Close()

	out.HTTPStatus = resp.StatusCode
	if resp.StatusCode != t.ExpectedStatus {
		out.Reason = fmt.Sprintf("unexpected status: got %d want %d", resp.StatusCode, t.ExpectedStatus)
		return out
	}

	out.Success = true
	return out
}

func classifyTransportError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return err.Error()
}
