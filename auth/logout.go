package auth

import (
	"context"
	"net/url"
)

// LogoutOptions controls logout behaviour.
type LogoutOptions struct {
	// ReturnTo overrides the configured post-logout redirect URI.
	ReturnTo string
}

// Logout clears the persisted session, emits LoggedOut, and - when a
// navigator is wired - navigates to the provider's logout endpoint.
func (m *Manager) Logout(ctx context.Context, opts LogoutOptions) error {
	if err := m.sessions.Remove(ctx); err != nil {
		return newError(KindLogout, "failed clearing the stored session", err)
	}

	m.LoggedOut.Emit(struct{}{})
	m.log.Debug().Msg("logged out")

	if m.nav != nil {
		if err := m.nav.Navigate(m.LogoutURL(opts.ReturnTo)); err != nil {
			return newError(KindLogout, "logout navigation failed", err)
		}
	}
	return nil
}

// LogoutURL builds the provider logout URL: /v2/logout normally, or
// /im-logged-out in cross-SDK bridge mode.
func (m *Manager) LogoutURL(returnTo string) string {
	if returnTo == "" {
		returnTo = m.cfg.LogoutRedirectURI
	}
	q := url.Values{}
	q.Set("client_id", m.cfg.ClientID)
	if returnTo != "" {
		q.Set("returnTo", returnTo)
	}
	return m.cfg.logoutEndpoint() + "?" + q.Encode()
}
