package telemetry

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Safe wraps a tracker so that panics raised during delivery are caught and
// converted into a marker error event instead of propagating into the
// caller's operation. The marker emission itself is guarded too - a tracker
// broken enough to panic twice is only logged.
func Safe(tracker Tracker, log zerolog.Logger) Tracker {
	if tracker == nil {
		tracker = NoopTracker{}
	}
	return &safeTracker{tracker: tracker, log: log}
}

type safeTracker struct {
	tracker Tracker
	log     zerolog.Logger
}

var _ Tracker = (*safeTracker)(nil)

func (s *safeTracker) TrackFlow(domain, name string, emitStart bool) Flow {
	var flow Flow
	s.guard("TrackFlow", func() {
		flow = s.tracker.TrackFlow(domain, name, emitStart)
	})
	if flow == nil {
		return noopFlow{}
	}
	return &safeFlow{flow: flow, parent: s}
}

func (s *safeTracker) TrackError(domain, name string, err error, details map[string]any) {
	s.guard("TrackError", func() {
		s.tracker.TrackError(domain, name, err, details)
	})
}

func (s *safeTracker) Identify(claims map[string]any) {
	s.guard("Identify", func() {
		s.tracker.Identify(claims)
	})
}

// guard runs fn, converting a panic into a telemetry marker event.
func (s *safeTracker) guard(op string, fn func()) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		s.log.Warn().Str("op", op).Interface("panic", r).Msg("telemetry delivery failure")
		func() {
			defer func() { _ = recover() }()
			s.tracker.TrackError("telemetry", "deliveryFailure", fmt.Errorf("%s panicked: %v", op, r), nil)
		}()
	}()
	fn()
}

type safeFlow struct {
	flow   Flow
	parent *safeTracker
}

func (f *safeFlow) AddEvent(name string, properties map[string]any) {
	f.parent.guard("Flow.AddEvent", func() {
		f.flow.AddEvent(name, properties)
	})
}

func (f *safeFlow) End() {
	f.parent.guard("Flow.End", func() {
		f.flow.End()
	})
}
