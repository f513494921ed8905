package telemetry_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/telemetry"
	"github.com/jrsteele09/go-auth-client/telemetry/telemetryfakes"
)

// panickyTracker panics on the configured operations and records the rest.
type panickyTracker struct {
	lock          sync.Mutex
	panicIdentify bool
	panicErrors   bool
	panicFlows    bool
	errors        []string
}

func (t *panickyTracker) TrackFlow(_, _ string, _ bool) telemetry.Flow {
	if t.panicFlows {
		panic("flow delivery failure")
	}
	return panickyFlow{}
}

func (t *panickyTracker) TrackError(_, name string, _ error, _ map[string]any) {
	if t.panicErrors {
		panic("error delivery failure")
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	t.errors = append(t.errors, name)
}

func (t *panickyTracker) Identify(map[string]any) {
	if t.panicIdentify {
		panic("identify delivery failure")
	}
}

func (t *panickyTracker) trackedErrors() []string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]string(nil), t.errors...)
}

type panickyFlow struct{}

func (panickyFlow) AddEvent(string, map[string]any) { panic("event delivery failure") }
func (panickyFlow) End()                            {}

func TestSafeNilTrackerIsNoop(t *testing.T) {
	tracker := telemetry.Safe(nil, zerolog.Nop())

	require.NotPanics(t, func() {
		flow := tracker.TrackFlow("auth", "login", true)
		flow.AddEvent("step", nil)
		flow.End()
		tracker.TrackError("auth", "failure", errors.New("boom"), nil)
		tracker.Identify(map[string]any{"sub": "user-1"})
	})
}

func TestSafeDelegates(t *testing.T) {
	inner := telemetryfakes.NewFakeTracker()
	tracker := telemetry.Safe(inner, zerolog.Nop())

	tracker.TrackFlow("auth", "login", true)
	tracker.TrackError("auth", "failure", errors.New("boom"), nil)
	tracker.Identify(map[string]any{"sub": "user-1"})

	require.Equal(t, []string{"auth.login"}, inner.Flows())
	require.Len(t, inner.Errors(), 1)
	require.Len(t, inner.Identities(), 1)
}

// A panicking tracker must never fail the manager's own operation. The panic
// is converted into a marker error event on the same tracker.
func TestSafeConvertsPanicToMarker(t *testing.T) {
	inner := &panickyTracker{panicIdentify: true}
	tracker := telemetry.Safe(inner, zerolog.Nop())

	require.NotPanics(t, func() {
		tracker.Identify(map[string]any{"sub": "user-1"})
	})

	require.Equal(t, []string{"deliveryFailure"}, inner.trackedErrors())
}

// A tracker broken enough to panic on the marker emission too is swallowed.
func TestSafeSurvivesDoublePanic(t *testing.T) {
	inner := &panickyTracker{panicIdentify: true, panicErrors: true}
	tracker := telemetry.Safe(inner, zerolog.Nop())

	require.NotPanics(t, func() {
		tracker.Identify(map[string]any{"sub": "user-1"})
	})
}

func TestSafeFlowPanics(t *testing.T) {
	inner := &panickyTracker{}
	tracker := telemetry.Safe(inner, zerolog.Nop())

	flow := tracker.TrackFlow("auth", "login", true)
	require.NotPanics(t, func() { flow.AddEvent("step", nil) })
	require.Equal(t, []string{"deliveryFailure"}, inner.trackedErrors())
}

func TestSafeTrackFlowPanicYieldsUsableFlow(t *testing.T) {
	inner := &panickyTracker{panicFlows: true}
	tracker := telemetry.Safe(inner, zerolog.Nop())

	var flow telemetry.Flow
	require.NotPanics(t, func() { flow = tracker.TrackFlow("auth", "login", true) })
	require.NotNil(t, flow)
	require.NotPanics(t, func() {
		flow.AddEvent("step", nil)
		flow.End()
	})
}
