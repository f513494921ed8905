package storefakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/store"
)

var _ store.SessionRepo = (*FakeSessionRepo)(nil)

// FakeSessionRepo is a call-counting session store for tests. Error fields,
// when set, are returned by the corresponding method.
type FakeSessionRepo struct {
	lock    sync.RWMutex
	current *session.Session

	GetErr    error
	SetErr    error
	RemoveErr error

	getCalls        int
	setCalls        int
	removeCalls     int
	clearStaleCalls int
}

func NewFakeSessionRepo() *FakeSessionRepo {
	return &FakeSessionRepo{}
}

func (r *FakeSessionRepo) Get(_ context.Context) (*session.Session, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.getCalls++
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	return r.current, nil
}

func (r *FakeSessionRepo) Set(_ context.Context, s *session.Session) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.setCalls++
	if r.SetErr != nil {
		return r.SetErr
	}
	r.current = s
	return nil
}

func (r *FakeSessionRepo) Remove(_ context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.removeCalls++
	if r.RemoveErr != nil {
		return r.RemoveErr
	}
	r.current = nil
	return nil
}

func (r *FakeSessionRepo) ClearStale(_ context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.clearStaleCalls++
	return nil
}

// Seed stores a session without counting the call.
func (r *FakeSessionRepo) Seed(s *session.Session) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.current = s
}

func (r *FakeSessionRepo) Current() *session.Session {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.current
}

func (r *FakeSessionRepo) GetCalls() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.getCalls
}

func (r *FakeSessionRepo) SetCalls() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.setCalls
}

func (r *FakeSessionRepo) RemoveCalls() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.removeCalls
}

func (r *FakeSessionRepo) ClearStaleCalls() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.clearStaleCalls
}
