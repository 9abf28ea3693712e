package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fers4t/kg-uptime-monitor/internal/domain"
)

// Dispatcher turns transition events into human-readable alerts and sends
// them best-effort: one attempt per event, delivery failures are logged and
// swallowed so the check loop never waits on a broken channel.
type Dispatcher struct {
	Logger   *zap.Logger
	Notifier Notifier
	Timeout  time.Duration // cap on a single delivery attempt
}

func NewDispatcher(logger *zap.Logger, n Notifier, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{Logger: logger, Notifier: n, Timeout: timeout}
}

func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.Event) {
	title, text := FormatEvent(ev)

	if d.Notifier == nil {
		d.Logger.Debug("notify_skipped",
			zap.String("target_id", string(ev.TargetID)),
			zap.String("event", string(ev.Kind)),
		)
		return
	}

	sctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	if err := d.Notifier.Send(sctx, title, text); err != nil {
		d.Logger.Warn("notify_failed",
			zap.String("target_id", string(ev.TargetID)),
			zap.String("event", string(ev.Kind)),
			zap.Error(err),
		)
		return
	}
	d.Logger.Info("notify_sent",
		zap.String("target_id", string(ev.TargetID)),
		zap.String("event", string(ev.Kind)),
	)
}

// FormatEvent renders the alert title and body for a transition event.
func FormatEvent(ev domain.Event) (title, text string) {
	switch ev.Kind {
	case domain.EventRecovered:
		title = "🟢 Target RECOVERED"
		text = fmt.Sprintf(
			"Target: %s\nURL: %s\nDowntime: %s\nRecovered: %s",
			ev.TargetID, ev.URL, humanDuration(ev.Downtime), ev.At.Format(time.RFC3339),
		)
	default:
		title = "🔴 Target DOWN"
		text = fmt.Sprintf(
			"Target: %s\nURL: %s\nFailed checks: %d (threshold %d)\nReason: %s\nTime: %s",
			ev.TargetID, ev.URL, ev.Failures, ev.Threshold, ev.LastError, ev.At.Format(time.RFC3339),
		)
	}
	return title, text
}

// humanDuration rounds a downtime to the coarsest unit that still reads
// naturally: seconds under a minute, minutes under an hour, hours above.
func humanDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh %dm", h, m)
	}
}
