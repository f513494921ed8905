package telemetryfakes

import (
	"sync"

	"github.com/jrsteele09/go-auth-client/telemetry"
)

var _ telemetry.Tracker = (*FakeTracker)(nil)

// TrackedError records one TrackError invocation.
type TrackedError struct {
	Domain  string
	Name    string
	Err     error
	Details map[string]any
}

// FakeTracker records all calls for assertion in tests.
type FakeTracker struct {
	lock       sync.Mutex
	errors     []TrackedError
	identities []map[string]any
	flows      []string
}

func NewFakeTracker() *FakeTracker {
	return &FakeTracker{}
}

func (t *FakeTracker) TrackFlow(domain, name string, _ bool) telemetry.Flow {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.flows = append(t.flows, domain+"."+name)
	return fakeFlow{}
}

func (t *FakeTracker) TrackError(domain, name string, err error, details map[string]any) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.errors = append(t.errors, TrackedError{Domain: domain, Name: name, Err: err, Details: details})
}

func (t *FakeTracker) Identify(claims map[string]any) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.identities = append(t.identities, claims)
}

func (t *FakeTracker) Errors() []TrackedError {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]TrackedError(nil), t.errors...)
}

func (t *FakeTracker) Identities() []map[string]any {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]map[string]any(nil), t.identities...)
}

func (t *FakeTracker) Flows() []string {
	t.lock.Lock()
	defer t.lock.Unlock()
	return append([]string(nil), t.flows...)
}

type fakeFlow struct{}

func (fakeFlow) AddEvent(string, map[string]any) {}

func (fakeFlow) End() {}
