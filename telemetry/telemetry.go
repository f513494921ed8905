// Package telemetry defines the flow-tracking collaborator contract. The
// session manager only emits through these interfaces; delivery is the host
// application's concern and must never fail the manager's own operations.
package telemetry

// Flow is a handle on an in-progress tracked flow.
type Flow interface {
	// AddEvent records a named step within the flow.
	AddEvent(name string, properties map[string]any)
	// End closes the flow.
	End()
}

// Tracker receives flow, error and identity signals from the session
// manager.
type Tracker interface {
	// TrackFlow opens a flow in the given domain, optionally emitting a
	// start event immediately.
	TrackFlow(domain, name string, emitStart bool) Flow
	// TrackError records a failure with optional context details.
	TrackError(domain, name string, err error, details map[string]any)
	// Identify associates subsequent signals with the authenticated user.
	Identify(claims map[string]any)
}

// NoopTracker discards everything. Used when the host wires no telemetry.
type NoopTracker struct{}

var _ Tracker = NoopTracker{}

func (NoopTracker) TrackFlow(string, string, bool) Flow { return noopFlow{} }

func (NoopTracker) TrackError(string, string, error, map[string]any) {}

func (NoopTracker) Identify(map[string]any) {}

type noopFlow struct{}

func (noopFlow) AddEvent(string, map[string]any) {}

func (noopFlow) End() {}
