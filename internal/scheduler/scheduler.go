// Package scheduler drives the periodic check loop: one global ticker fans
// out to one owner goroutine per target, so targets never block each other
// and a target's own outcomes are applied strictly in order.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fers4t/kg-uptime-monitor/internal/domain"
	"github.com/fers4t/kg-uptime-monitor/internal/notify"
	"github.com/fers4t/kg-uptime-monitor/internal/probe"
	"github.com/fers4t/kg-uptime-monitor/internal/repo"
	"github.com/fers4t/kg-uptime-monitor/internal/tracker"
)

type Scheduler struct {
	Logger      *zap.Logger
	Targets     []domain.Target
	Checker     probe.Checker
	Tracker     *tracker.Tracker
	Dispatcher  *notify.Dispatcher
	Statuses    repo.StatusStore // optional
	Interval    time.Duration
	Timeout     time.Duration
	MaxInFlight int
}

func New(
	logger *zap.Logger,
	targets []domain.Target,
	checker probe.Checker,
	trk *tracker.Tracker,
	dispatcher *notify.Dispatcher,
	statuses repo.StatusStore,
	interval time.Duration,
	timeout time.Duration,
	maxInFlight int,
) *Scheduler {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxInFlight < 1 {
		maxInFlight = len(targets)
	}
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &Scheduler{
		Logger:      logger,
		Targets:     targets,
		Checker:     checker,
		Tracker:     trk,
		Dispatcher:  dispatcher,
		Statuses:    statuses,
		Interval:    interval,
		Timeout:     timeout,
		MaxInFlight: maxInFlight,
	}
}

// Run does an immediate pass, then one pass per interval, until ctx is
// cancelled. A tick is a broadcast: each target worker gets a coalescing
// signal, so a worker still probing simply skips the ticks it missed
// instead of queueing them. Blocks until all workers have drained.
func (s *Scheduler) Run(ctx context.Context) {
	if len(s.Targets) == 0 {
		s.Logger.Info("scheduler_no_targets")
		return
	}

	sem := make(chan struct{}, s.MaxInFlight)
	ticks := make([]chan struct{}, len(s.Targets))
	var wg sync.WaitGroup

	for i, tgt := range s.Targets {
		tick := make(chan struct{}, 1)
		ticks[i] = tick
		wg.Add(1)
		go func(t domain.Target) {
			defer wg.Done()
			s.watch(ctx, t, tick, sem)
		}(tgt)
	}

	broadcast := func() {
		for _, tick := range ticks {
			select {
			case tick <- struct{}{}:
			default: // worker busy; coalesce
			}
		}
	}

	s.Logger.Info("scheduler_started",
		zap.Int("targets", len(s.Targets)),
		zap.Duration("interval", s.Interval),
		zap.Duration("timeout", s.Timeout),
		zap.Int("max_in_flight", s.MaxInFlight),
	)

	broadcast() // immediate first pass

	t := time.NewTicker(s.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			s.Logger.Info("scheduler_stopped")
			return
		case <-t.C:
			broadcast()
		}
	}
}

// watch is the single owner of one target: it runs at most one probe at a
// time and applies that target's outcomes sequentially.
func (s *Scheduler) watch(ctx context.Context, t domain.Target, tick <-chan struct{}, sem chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return
		}

		pctx, cancel := context.WithTimeout(ctx, s.Timeout)
		out := s.Checker.Check(pctx, t)
		cancel()
		<-sem

		// A probe cut short by shutdown records no outcome; an abandoned
		// check must not count toward the failure streak.
		if ctx.Err() != nil {
			return
		}

		s.apply(ctx, t, out)
	}
}

func (s *Scheduler) apply(ctx context.Context, t domain.Target, out domain.ProbeOutcome) {
	ev := s.Tracker.Apply(out)
	st, _ := s.Tracker.State(t.ID)

	s.Logger.Info("target_checked",
		zap.String("target_id", string(t.ID)),
		zap.String("url", t.URL),
		zap.Bool("up", out.Success),
		zap.Int("status", out.HTTPStatus),
		zap.Float64("latency_ms", out.LatencyMS),
		zap.String("reason", out.Reason),
		zap.Int("consecutive_failures", st.ConsecutiveFailures),
		zap.Bool("down", st.Down),
	)

	if s.Statuses != nil {
		if err := s.Statuses.Upsert(ctx, statusRow(t, out, st)); err != nil {
			s.Logger.Warn("status_upsert_error",
				zap.String("target_id", string(t.ID)),
				zap.Error(err),
			)
		}
	}

	if ev != nil {
		s.Logger.Warn("target_transition",
			zap.String("target_id", string(t.ID)),
			zap.String("event", string(ev.Kind)),
			zap.Duration("downtime", ev.Downtime),
		)
		s.Dispatcher.Dispatch(ctx, *ev)
	}
}

func statusRow(t domain.Target, out domain.ProbeOutcome, st domain.TargetState) repo.StatusRow {
	row := repo.StatusRow{
		TargetID:            t.ID,
		URL:                 t.URL,
		Up:                  !st.Down,
		ConsecutiveFailures: st.ConsecutiveFailures,
		Reason:              out.Reason,
		CheckedAt:           out.CheckedAt,
	}
	if out.HTTPStatus != 0 {
		v := out.HTTPStatus
		row.HTTPStatus = &v
	}
	lat := out.LatencyMS
	row.LatencyMS = &lat
	if st.Down {
		ds := st.DownSince
		row.DownSince = &ds
	}
	return row
}
