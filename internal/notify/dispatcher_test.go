package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fers4t/kg-uptime-monitor/internal/domain"
)

type fakeNotifier struct {
	sent []string
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, title, text string) error {
	f.sent = append(f.sent, title+"\n"+text)
	return f.err
}

func downEvent() domain.Event {
	return domain.Event{
		Kind:      domain.EventDown,
		TargetID:  "api",
		URL:       "https://api.example.com/health",
		Failures:  3,
		Threshold: 3,
		LastError: "timeout",
		At:        time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC),
	}
}

func TestDispatch_DownMessageContents(t *testing.T) {
	f := &fakeNotifier{}
	d := NewDispatcher(zap.NewNop(), f, time.Second)

	d.Dispatch(context.Background(), downEvent())

	if len(f.sent) != 1 {
		t.Fatalf("want exactly one delivery attempt, got %d", len(f.sent))
	}
	msg := f.sent[0]
	for _, want := range []string{"DOWN", "api", "3 (threshold 3)", "timeout"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestDispatch_RecoveredMessageContents(t *testing.T) {
	f := &fakeNotifier{}
	d := NewDispatcher(zap.NewNop(), f, time.Second)

	d.Dispatch(context.Background(), domain.Event{
		Kind:     domain.EventRecovered,
		TargetID: "api",
		URL:      "https://api.example.com/health",
		Downtime: 2 * time.Second,
		At:       time.Date(2025, 8, 18, 12, 0, 4, 0, time.UTC),
	})

	if len(f.sent) != 1 {
		t.Fatalf("want one delivery, got %d", len(f.sent))
	}
	msg := f.sent[0]
	if !strings.Contains(msg, "RECOVERED") || !strings.Contains(msg, "Downtime: 2s") {
		t.Fatalf("unexpected recovered message:\n%s", msg)
	}
}

func TestDispatch_DeliveryFailureIsLoggedNotRaised(t *testing.T) {
	core, obs := observer.New(zap.WarnLevel)
	f := &fakeNotifier{err: errors.New("webhook 500")}
	d := NewDispatcher(zap.New(core), f, time.Second)

	d.Dispatch(context.Background(), downEvent()) // must not panic or block

	entries := obs.FilterMessage("notify_failed").All()
	if len(entries) != 1 {
		t.Fatalf("want one notify_failed log, got %d", len(entries))
	}
}

func TestDispatch_NilNotifierIsNoop(t *testing.T) {
	d := NewDispatcher(zap.NewNop(), nil, time.Second)
	d.Dispatch(context.Background(), downEvent())
}

func TestHumanDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{2 * time.Second, "2s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1m"},
		{3*time.Minute + 12*time.Second, "3m 12s"},
		{time.Hour, "1h"},
		{2*time.Hour + 30*time.Minute, "2h 30m"},
		{-time.Second, "0s"},
	}
	for _, c := range cases {
		if got := humanDuration(c.in); got != c.want {
			t.Errorf("humanDuration(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
