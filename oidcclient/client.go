// Package oidcclient is the boundary to the delegated OIDC protocol client:
// the component that performs the actual token-endpoint calls for silent
// renewal and drives the interactive flow inside a popup window.
package oidcclient

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-auth-client/popup"
	"github.com/jrsteele09/go-auth-client/session"
)

// ErrNoRefreshToken is returned by SigninSilent when no stored session
// carries a refresh token. The session manager treats this condition as
// "nothing cached", not as a reportable failure.
var ErrNoRefreshToken = errors.New("no stored refresh token")

// ExchangeFunc exchanges an authorization code and returned state for a
// normalized session. Supplied by the session manager so that PKCE state
// validation stays in one place.
type ExchangeFunc func(ctx context.Context, code, state string) (*session.Session, error)

// Client is the delegated OIDC protocol client.
type Client interface {
	// SigninSilent renews the session without user interaction, using the
	// stored refresh token. Returns ErrNoRefreshToken when there is none.
	SigninSilent(ctx context.Context) (*session.Session, error)

	// SigninPopup runs the interactive authorization-code flow inside w.
	// Implementations check w.Closed() exactly once, at the start - later
	// closures are the popup controller's polling to detect.
	SigninPopup(ctx context.Context, w popup.Window, exchange ExchangeFunc) (*session.Session, error)
}
