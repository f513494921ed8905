package store

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-auth-client/pkce"
	"github.com/jrsteele09/go-auth-client/session"
)

var _ SessionRepo = (*InMemorySessionRepo)(nil)

// InMemorySessionRepo keeps the active session in process memory. Suitable
// for embedded hosts that hold the session for the process lifetime only.
type InMemorySessionRepo struct {
	lock    sync.RWMutex
	current *session.Session
}

func NewInMemorySessionRepo() *InMemorySessionRepo {
	return &InMemorySessionRepo{}
}

func (r *InMemorySessionRepo) Get(_ context.Context) (*session.Session, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.current, nil
}

func (r *InMemorySessionRepo) Set(_ context.Context, s *session.Session) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.current = s
	return nil
}

func (r *InMemorySessionRepo) Remove(_ context.Context) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.current = nil
	return nil
}

func (r *InMemorySessionRepo) ClearStale(_ context.Context) error {
	return nil
}

var _ FlowStateRepo = (*InMemoryFlowStateRepo)(nil)

// InMemoryFlowStateRepo keeps PKCE exchange state in process memory.
type InMemoryFlowStateRepo struct {
	lock   sync.RWMutex
	states map[string]*pkce.ExchangeState
}

func NewInMemoryFlowStateRepo() *InMemoryFlowStateRepo {
	return &InMemoryFlowStateRepo{
		states: make(map[string]*pkce.ExchangeState),
	}
}

func (r *InMemoryFlowStateRepo) Get(_ context.Context, key string) (*pkce.ExchangeState, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.states[key], nil
}

func (r *InMemoryFlowStateRepo) Set(_ context.Context, key string, state *pkce.ExchangeState) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.states[key] = state
	return nil
}

func (r *InMemoryFlowStateRepo) Remove(_ context.Context, key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.states, key)
	return nil
}
