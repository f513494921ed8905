package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/pkce"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/store"
)

func TestInMemorySessionRepo(t *testing.T) {
	ctx := context.Background()
	repo := store.NewInMemorySessionRepo()

	sess, err := repo.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, sess)

	stored := &session.Session{AccessToken: "access-token"}
	require.NoError(t, repo.Set(ctx, stored))

	sess, err = repo.Get(ctx)
	require.NoError(t, err)
	require.Same(t, stored, sess)

	require.NoError(t, repo.Remove(ctx))
	sess, err = repo.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, sess)

	require.NoError(t, repo.ClearStale(ctx))
}

func TestInMemoryFlowStateRepo(t *testing.T) {
	ctx := context.Background()
	repo := store.NewInMemoryFlowStateRepo()

	state, err := repo.Get(ctx, "flow-1")
	require.NoError(t, err)
	require.Nil(t, state)

	stored := &pkce.ExchangeState{State: "state-1", Verifier: "verifier-1"}
	require.NoError(t, repo.Set(ctx, "flow-1", stored))
	require.NoError(t, repo.Set(ctx, "flow-2", &pkce.ExchangeState{State: "state-2"}))

	state, err = repo.Get(ctx, "flow-1")
	require.NoError(t, err)
	require.Same(t, stored, state)

	require.NoError(t, repo.Remove(ctx, "flow-1"))
	state, err = repo.Get(ctx, "flow-1")
	require.NoError(t, err)
	require.Nil(t, state)

	// Removal is keyed; other flows survive.
	state, err = repo.Get(ctx, "flow-2")
	require.NoError(t, err)
	require.NotNil(t, state)
}
