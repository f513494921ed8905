// Package store defines the persistence boundaries of the session manager:
// the session store adapter and the device-local credential store holding
// in-flight PKCE state. Concrete backends (browser local storage, encrypted
// files, key-value services) are supplied by the host application; in-memory
// implementations are provided for embedded use and tests.
package store

import (
	"context"

	"github.com/jrsteele09/go-auth-client/pkce"
	"github.com/jrsteele09/go-auth-client/session"
)

// SessionRepo persists and retrieves the active OIDC session. All methods
// are safe for the manager's access pattern: writes are funnelled through
// the single-flight refresh handle or strictly sequential login/logout
// calls, so no transaction semantics beyond last-write-wins are required.
//
// Get returns (nil, nil) when no session is stored.
type SessionRepo interface {
	Get(ctx context.Context) (*session.Session, error)
	Set(ctx context.Context, s *session.Session) error
	Remove(ctx context.Context) error
	// ClearStale drops leftovers of abandoned flows (orphaned flow state,
	// half-written sessions). Called once at manager construction.
	ClearStale(ctx context.Context) error
}

// FlowStateRepo is the device-local credential store for PKCE exchange
// state, keyed by flow instance. Get returns (nil, nil) when no state is
// stored under the key.
type FlowStateRepo interface {
	Get(ctx context.Context, key string) (*pkce.ExchangeState, error)
	Set(ctx context.Context, key string, state *pkce.ExchangeState) error
	Remove(ctx context.Context, key string) error
}
