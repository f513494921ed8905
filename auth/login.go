package auth

import (
	"context"
	"net/url"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-auth-client/oauth2"
	"github.com/jrsteele09/go-auth-client/oidcclient"
	"github.com/jrsteele09/go-auth-client/pkce"
	"github.com/jrsteele09/go-auth-client/popup"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/token"
)

// DirectLoginOptions hints the authorization request at a login method the
// user already picked, skipping the provider-selection step. Forwarded as
// query parameters; never persisted.
type DirectLoginOptions struct {
	Method                 string
	Email                  string
	MarketingConsentStatus string
}

// LoginOptions controls which login strategies Login may use.
type LoginOptions struct {
	// UseCachedSession restricts Login to the cached session: no
	// interactive fallback, and cached-lookup failures propagate.
	UseCachedSession bool
	// UseSilentLogin forces a silent renewal when no cached session
	// sufficed, instead of an interactive flow.
	UseSilentLogin bool
	// UseRedirectFlow performs interactive login by top-level navigation
	// instead of a popup. Login returns nil immediately; the flow resumes
	// via HandleLoginCallback.
	UseRedirectFlow bool
	// DirectLogin optionally pre-selects the login method.
	DirectLogin *DirectLoginOptions
}

// Login establishes a session, trying strategies in order: cached session,
// silent renewal, then interactive (popup or redirect) login. Returns the
// established session, or nil when no strategy applied (redirect flow, or
// cached-only lookup with nothing cached). At most one LoggedIn event is
// emitted per successful call.
func (m *Manager) Login(ctx context.Context, opts LoginOptions) (*session.Session, error) {
	flow := m.tracker.TrackFlow(telemetryDomain, "login", true)
	defer flow.End()

	sess, err := m.GetUser(ctx)
	if err != nil {
		if !errors.Is(err, oidcclient.ErrNoRefreshToken) {
			m.tracker.TrackError(telemetryDomain, "cachedSessionLookup", err, nil)
		}
		if opts.UseCachedSession {
			return nil, err
		}
		m.log.Debug().Err(err).Msg("cached session lookup failed, continuing with login")
		err = nil
	}

	switch {
	case sess != nil:
		flow.AddEvent("cachedSession", nil)

	case opts.UseSilentLogin:
		flow.AddEvent("silentLogin", nil)
		sess, err = m.refreshSession(ctx)
		if err != nil {
			return nil, err
		}

	case !opts.UseCachedSession:
		if opts.UseRedirectFlow {
			flow.AddEvent("redirectLogin", nil)
			if err := m.loginWithRedirect(ctx, opts.DirectLogin); err != nil {
				return nil, err
			}
			// The flow resumes later via HandleLoginCallback, not here.
			return nil, nil
		}
		flow.AddEvent("popupLogin", nil)
		sess, err = m.loginWithPopup(ctx, opts.DirectLogin)
		if err != nil {
			return nil, err
		}
	}

	if sess != nil {
		m.LoggedIn.Emit(sess)
		m.tracker.Identify(token.IdentityClaims(sess))
	}
	return sess, nil
}

// loginWithRedirect navigates the top-level browsing context to the
// authorization URL. The session arrives later through the callback entry
// point.
func (m *Manager) loginWithRedirect(ctx context.Context, direct *DirectLoginOptions) error {
	if m.nav == nil {
		return newError(KindInvalidConfiguration, "redirect login requires a navigator", nil)
	}
	loginURL, err := m.LoginURL(ctx, direct, "")
	if err != nil {
		return err
	}
	if err := m.nav.Navigate(loginURL); err != nil {
		return newError(KindAuthentication, "redirect navigation failed", err)
	}
	return nil
}

// loginWithPopup runs the interactive flow in a popup. When no direct-login
// hints were supplied and the embedded login prompt is enabled, the prompt
// runs first and its result is spliced into the authorization query.
func (m *Manager) loginWithPopup(ctx context.Context, direct *DirectLoginOptions) (*session.Session, error) {
	if m.popups == nil {
		return nil, newError(KindInvalidConfiguration, "popup login requires a popup opener", nil)
	}

	var traceID string
	if direct == nil && m.prompt != nil {
		result, err := m.prompt.Prompt(ctx)
		if err != nil {
			// The prompt is an affordance, not a gate.
			m.log.Debug().Err(err).Msg("embedded login prompt failed, continuing without hints")
		} else if result != nil {
			direct = &DirectLoginOptions{Method: result.Method}
			traceID = result.TraceID
		}
	}

	loginURL, err := m.LoginURL(ctx, direct, traceID)
	if err != nil {
		return nil, err
	}

	sess, err := m.popups.Run(ctx, loginURL, func(ctx context.Context, w popup.Window) (*session.Session, error) {
		return m.client.SigninPopup(ctx, w, m.HandleLoginCallback)
	})
	if err != nil {
		if IsRetryable(err) {
			return nil, newError(KindAuthentication, "popup login did not complete", err)
		}
		return nil, newError(KindAuthentication, "popup login failed", err)
	}
	if !sess.Valid() {
		return nil, newError(KindAuthentication, "popup login produced no session", nil)
	}
	return sess, nil
}

// IsRetryable reports whether err is a popup-blocked or popup-closed
// condition: a failure the calling UI can answer with a "try again"
// affordance rather than a terminal failure state.
func IsRetryable(err error) bool {
	return errors.Is(err, popup.ErrClosed) || errors.Is(err, popup.ErrBlocked)
}

// LoginURL generates PKCE material, persists the {state, verifier} pair in
// the device-local credential store, and returns the authorization URL. It
// does not navigate.
func (m *Manager) LoginURL(ctx context.Context, direct *DirectLoginOptions, traceID string) (string, error) {
	challenge, err := pkce.Generate()
	if err != nil {
		return "", errors.Wrap(err, "[Manager.LoginURL] pkce.Generate")
	}
	exchangeState := &pkce.ExchangeState{State: challenge.State, Verifier: challenge.Verifier}
	if err := m.flows.Set(ctx, m.flowKey, exchangeState); err != nil {
		return "", errors.Wrap(err, "[Manager.LoginURL] persisting flow state")
	}

	q := url.Values{}
	q.Set("response_type", string(oauth2.CodeResponseType))
	q.Set("code_challenge", challenge.CodeChallenge)
	q.Set("code_challenge_method", string(challenge.Method))
	q.Set("client_id", m.cfg.ClientID)
	q.Set("redirect_uri", m.cfg.RedirectURI)
	q.Set("state", challenge.State)
	if m.cfg.Scope != "" {
		q.Set("scope", m.cfg.Scope)
	}
	if m.cfg.Audience != "" {
		q.Set("audience", m.cfg.Audience)
	}
	if direct != nil {
		q.Set("direct", direct.Method)
		if direct.Email != "" {
			q.Set("login_hint", direct.Email)
		}
		if direct.MarketingConsentStatus != "" {
			q.Set("marketing_consent", direct.MarketingConsentStatus)
		}
	}
	if traceID != "" {
		q.Set("trace_id", traceID)
	}

	return m.cfg.domain() + authorizePath + "?" + q.Encode(), nil
}
