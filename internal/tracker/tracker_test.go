package tracker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fers4t/kg-uptime-monitor/internal/domain"
)

var t0 = time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC)

func newTracker(threshold int, ids ...domain.TargetID) *Tracker {
	if len(ids) == 0 {
		ids = []domain.TargetID{"a"}
	}
	targets := make([]domain.Target, 0, len(ids))
	for _, id := range ids {
		targets = append(targets, domain.Target{
			ID:               id,
			URL:              "https://" + string(id) + ".example.com",
			Method:           "GET",
			ExpectedStatus:   200,
			FailureThreshold: threshold,
		})
	}
	return New(targets)
}

func outcome(id domain.TargetID, ok bool, at time.Time, reason string) domain.ProbeOutcome {
	return domain.ProbeOutcome{TargetID: id, Success: ok, Reason: reason, CheckedAt: at}
}

func TestDownFiresExactlyOnThresholdCrossing(t *testing.T) {
	tr := newTracker(3)

	require.Nil(t, tr.Apply(outcome("a", false, t0, "timeout")))
	require.Nil(t, tr.Apply(outcome("a", false, t0.Add(time.Second), "timeout")))

	ev := tr.Apply(outcome("a", false, t0.Add(2*time.Second), "timeout"))
	require.NotNil(t, ev, "third consecutive failure must fire DOWN")
	assert.Equal(t, domain.EventDown, ev.Kind)
	assert.Equal(t, domain.TargetID("a"), ev.TargetID)
	assert.Equal(t, 3, ev.Failures)
	assert.Equal(t, 3, ev.Threshold)
	assert.Equal(t, "timeout", ev.LastError)

	st, ok := tr.State("a")
	require.True(t, ok)
	assert.True(t, st.Down)
	assert.Equal(t, t0.Add(2*time.Second), st.DownSince)
}

func TestFailuresPastThresholdAreSilent(t *testing.T) {
	tr := newTracker(2)

	require.Nil(t, tr.Apply(outcome("a", false, t0, "x")))
	require.NotNil(t, tr.Apply(outcome("a", false, t0.Add(time.Second), "x")))

	for i := 2; i < 10; i++ {
		ev := tr.Apply(outcome("a", false, t0.Add(time.Duration(i)*time.Second), "x"))
		assert.Nil(t, ev, "failure %d while already down must not re-alert", i+1)
	}

	st, _ := tr.State("a")
	assert.True(t, st.Down)
	// DownSince must not move during the episode
	assert.Equal(t, t0.Add(time.Second), st.DownSince)
}

func TestSuccessBeforeThresholdResetsSilently(t *testing.T) {
	tr := newTracker(3)

	require.Nil(t, tr.Apply(outcome("a", false, t0, "x")))
	require.Nil(t, tr.Apply(outcome("a", false, t0.Add(time.Second), "x")))
	require.Nil(t, tr.Apply(outcome("a", true, t0.Add(2*time.Second), "")), "partial recovery is not an event")

	st, _ := tr.State("a")
	assert.Equal(t, 0, st.ConsecutiveFailures)
	assert.False(t, st.Down)

	// streak restarts from zero after the reset
	require.Nil(t, tr.Apply(outcome("a", false, t0.Add(3*time.Second), "x")))
	require.Nil(t, tr.Apply(outcome("a", false, t0.Add(4*time.Second), "x")))
	require.NotNil(t, tr.Apply(outcome("a", false, t0.Add(5*time.Second), "x")))
}

func TestRecoveredCarriesDowntime(t *testing.T) {
	tr := newTracker(3)

	// fail, fail, fail, fail, success at t=0..4s
	require.Nil(t, tr.Apply(outcome("a", false, t0, "x")))
	require.Nil(t, tr.Apply(outcome("a", false, t0.Add(1*time.Second), "x")))
	down := tr.Apply(outcome("a", false, t0.Add(2*time.Second), "x"))
	require.NotNil(t, down)
	assert.Equal(t, domain.EventDown, down.Kind)
	require.Nil(t, tr.Apply(outcome("a", false, t0.Add(3*time.Second), "x")))

	rec := tr.Apply(outcome("a", true, t0.Add(4*time.Second), ""))
	require.NotNil(t, rec)
	assert.Equal(t, domain.EventRecovered, rec.Kind)
	assert.Equal(t, 2*time.Second, rec.Downtime, "downtime runs from the crossing failure to the recovering success")

	st, _ := tr.State("a")
	assert.False(t, st.Down)
	assert.True(t, st.DownSince.IsZero())
	assert.Equal(t, 0, st.ConsecutiveFailures)
}

func TestThresholdOneAlertsOnFirstFailure(t *testing.T) {
	tr := newTracker(1)

	ev := tr.Apply(outcome("a", false, t0, "refused"))
	require.NotNil(t, ev)
	assert.Equal(t, domain.EventDown, ev.Kind)
	assert.Equal(t, 1, ev.Failures)

	rec := tr.Apply(outcome("a", true, t0.Add(time.Second), ""))
	require.NotNil(t, rec)
	assert.Equal(t, domain.EventRecovered, rec.Kind)

	// next single failure opens a fresh episode
	again := tr.Apply(outcome("a", false, t0.Add(2*time.Second), "refused"))
	require.NotNil(t, again)
	assert.Equal(t, domain.EventDown, again.Kind)
}

func TestResetThenConsecutiveFailuresScenario(t *testing.T) {
	// threshold=2, probes [fail, success, fail, fail]:
	// nothing after the reset, DOWN on the second consecutive failure.
	tr := newTracker(2)

	require.Nil(t, tr.Apply(outcome("a", false, t0, "x")))
	require.Nil(t, tr.Apply(outcome("a", true, t0.Add(time.Second), "")))
	require.Nil(t, tr.Apply(outcome("a", false, t0.Add(2*time.Second), "x")))

	ev := tr.Apply(outcome("a", false, t0.Add(3*time.Second), "x"))
	require.NotNil(t, ev)
	assert.Equal(t, domain.EventDown, ev.Kind)
}

func TestTargetsAreIndependent(t *testing.T) {
	tr := newTracker(2, "a", "b")

	require.Nil(t, tr.Apply(outcome("a", false, t0, "x")))
	require.NotNil(t, tr.Apply(outcome("a", false, t0.Add(time.Second), "x")))

	stB, ok := tr.State("b")
	require.True(t, ok)
	assert.Equal(t, 0, stB.ConsecutiveFailures)
	assert.False(t, stB.Down)

	// b still needs its own full streak
	require.Nil(t, tr.Apply(outcome("b", false, t0.Add(2*time.Second), "x")))
	require.NotNil(t, tr.Apply(outcome("b", false, t0.Add(3*time.Second), "x")))
}

func TestUnknownTargetIgnored(t *testing.T) {
	tr := newTracker(1)
	assert.Nil(t, tr.Apply(outcome("nope", false, t0, "x")))
	_, ok := tr.State("nope")
	assert.False(t, ok)
}

func TestZeroThresholdBehavesAsOne(t *testing.T) {
	tr := newTracker(0)
	ev := tr.Apply(outcome("a", false, t0, "x"))
	require.NotNil(t, ev)
	assert.Equal(t, 1, ev.Threshold)
}

func TestSuccessWhileUpKeepsStateClean(t *testing.T) {
	tr := newTracker(3)
	for i := 0; i < 5; i++ {
		require.Nil(t, tr.Apply(outcome("a", true, t0.Add(time.Duration(i)*time.Second), "")))
	}
	st, _ := tr.State("a")
	assert.Equal(t, domain.TargetState{}, st)
}
