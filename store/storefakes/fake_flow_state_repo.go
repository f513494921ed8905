package storefakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-auth-client/pkce"
	"github.com/jrsteele09/go-auth-client/store"
)

var _ store.FlowStateRepo = (*FakeFlowStateRepo)(nil)

// FakeFlowStateRepo is a call-counting flow state store for tests.
type FakeFlowStateRepo struct {
	lock   sync.RWMutex
	states map[string]*pkce.ExchangeState

	GetErr error
	SetErr error

	removeCalls int
}

func NewFakeFlowStateRepo() *FakeFlowStateRepo {
	return &FakeFlowStateRepo{
		states: make(map[string]*pkce.ExchangeState),
	}
}

func (r *FakeFlowStateRepo) Get(_ context.Context, key string) (*pkce.ExchangeState, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.GetErr != nil {
		return nil, r.GetErr
	}
	return r.states[key], nil
}

func (r *FakeFlowStateRepo) Set(_ context.Context, key string, state *pkce.ExchangeState) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.SetErr != nil {
		return r.SetErr
	}
	r.states[key] = state
	return nil
}

func (r *FakeFlowStateRepo) Remove(_ context.Context, key string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.removeCalls++
	delete(r.states, key)
	return nil
}

// Seed stores state without counting the call.
func (r *FakeFlowStateRepo) Seed(key string, state *pkce.ExchangeState) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.states[key] = state
}

func (r *FakeFlowStateRepo) Stored(key string) *pkce.ExchangeState {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.states[key]
}

func (r *FakeFlowStateRepo) RemoveCalls() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.removeCalls
}
