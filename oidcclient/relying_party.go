package oidcclient

import (
	"context"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	xoauth2 "golang.org/x/oauth2"

	"github.com/jrsteele09/go-auth-client/popup"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/store"
	"github.com/jrsteele09/go-auth-client/token"
)

// defaultRenewalTimeout bounds the silent renewal round trip. Exceeding it
// surfaces as a timeout classification upstream, which deliberately does
// not clear the stored session.
const defaultRenewalTimeout = 30 * time.Second

// CodeReceiver delivers the authorization code and state returned on the
// redirect URI. Host-specific: a loopback HTTP listener for desktop apps, a
// message channel for embedded webviews.
type CodeReceiver interface {
	Receive(ctx context.Context) (code string, state string, err error)
}

// RelyingParty is the default delegated client, built on go-oidc provider
// discovery and the oauth2 refresh-token grant.
type RelyingParty struct {
	cfg      xoauth2.Config
	sessions store.SessionRepo
	receiver CodeReceiver
	timeout  time.Duration
	log      zerolog.Logger
}

var _ Client = (*RelyingParty)(nil)

// RelyingPartyOption defines a function type to modify the RelyingParty instance.
type RelyingPartyOption func(*RelyingParty)

// WithRenewalTimeout overrides the silent renewal timeout.
func WithRenewalTimeout(timeout time.Duration) RelyingPartyOption {
	return func(rp *RelyingParty) {
		if timeout > 0 {
			rp.timeout = timeout
		}
	}
}

// WithLogger sets the relying party's logger.
func WithLogger(log zerolog.Logger) RelyingPartyOption {
	return func(rp *RelyingParty) {
		rp.log = log
	}
}

// Discover builds a RelyingParty against issuer using OIDC provider
// discovery for the endpoint configuration.
func Discover(
	ctx context.Context,
	issuer, clientID, redirectURI string,
	scopes []string,
	sessions store.SessionRepo,
	receiver CodeReceiver,
	options ...RelyingPartyOption,
) (*RelyingParty, error) {
	if sessions == nil {
		return nil, errors.New("[Discover] sessions repo is required")
	}
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, errors.Wrap(err, "[Discover] oidc.NewProvider")
	}
	rp := &RelyingParty{
		cfg: xoauth2.Config{
			ClientID:    clientID,
			Endpoint:    provider.Endpoint(),
			RedirectURL: redirectURI,
			Scopes:      scopes,
		},
		sessions: sessions,
		receiver: receiver,
		timeout:  defaultRenewalTimeout,
		log:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(rp)
	}
	return rp, nil
}

// NewWithEndpoints builds a RelyingParty with explicit endpoint URLs,
// bypassing discovery. Used against providers without a discovery document
// and in tests.
func NewWithEndpoints(
	clientID, redirectURI, authURL, tokenURL string,
	scopes []string,
	sessions store.SessionRepo,
	receiver CodeReceiver,
	options ...RelyingPartyOption,
) (*RelyingParty, error) {
	if sessions == nil {
		return nil, errors.New("[NewWithEndpoints] sessions repo is required")
	}
	rp := &RelyingParty{
		cfg: xoauth2.Config{
			ClientID:    clientID,
			Endpoint:    xoauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL},
			RedirectURL: redirectURI,
			Scopes:      scopes,
		},
		sessions: sessions,
		receiver: receiver,
		timeout:  defaultRenewalTimeout,
		log:      zerolog.Nop(),
	}
	for _, opt := range options {
		opt(rp)
	}
	return rp, nil
}

// SigninSilent renews the session using the stored refresh token and
// persists the renewed session.
func (rp *RelyingParty) SigninSilent(ctx context.Context) (*session.Session, error) {
	current, err := rp.sessions.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[RelyingParty.SigninSilent] sessions.Get")
	}
	if current == nil || current.RefreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	ctx, cancel := context.WithTimeout(ctx, rp.timeout)
	defer cancel()

	source := rp.cfg.TokenSource(ctx, &xoauth2.Token{RefreshToken: current.RefreshToken})
	renewed, err := source.Token()
	if err != nil {
		return nil, errors.Wrap(err, "[RelyingParty.SigninSilent] token renewal")
	}

	sess := token.SessionFromToken(renewed)
	if !sess.Valid() {
		return nil, errors.New("[RelyingParty.SigninSilent] renewal response missing access token")
	}
	if err := rp.sessions.Set(ctx, sess); err != nil {
		return nil, errors.Wrap(err, "[RelyingParty.SigninSilent] sessions.Set")
	}
	rp.log.Debug().Str("sub", sess.Profile.Sub).Msg("silent renewal succeeded")
	return sess, nil
}

// SigninPopup waits for the authorization code delivered via the redirect
// URI and hands it to exchange. The closed check below is the single-shot
// native close detection the popup controller's polling compensates for.
func (rp *RelyingParty) SigninPopup(ctx context.Context, w popup.Window, exchange ExchangeFunc) (*session.Session, error) {
	if rp.receiver == nil {
		return nil, errors.New("[RelyingParty.SigninPopup] no code receiver configured")
	}
	if w.Closed() {
		return nil, popup.ErrClosed
	}
	code, state, err := rp.receiver.Receive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[RelyingParty.SigninPopup] receive authorization code")
	}
	return exchange(ctx, code, state)
}
