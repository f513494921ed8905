package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-auth-client/oauth2"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/token"
)

// HandleLoginCallback consumes the authorization response: it validates the
// returned state against the persisted PKCE exchange state (the CSRF
// check), exchanges the code for tokens, and persists the normalized
// session. The exchange state is consumed exactly once - a mismatched state
// is a hard failure and the token endpoint is never called.
func (m *Manager) HandleLoginCallback(ctx context.Context, code, state string) (*session.Session, error) {
	stored, err := m.flows.Get(ctx, m.flowKey)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.HandleLoginCallback] flows.Get")
	}
	if stored == nil {
		return nil, newError(KindInvalidConfiguration, "no PKCE state found for this login attempt", nil)
	}
	if state != stored.State {
		return nil, newError(KindAuthentication, "state received on the login callback does not match the stored state", nil)
	}
	if err := m.flows.Remove(ctx, m.flowKey); err != nil {
		m.log.Warn().Err(err).Msg("failed removing consumed PKCE state")
	}

	response, err := m.exchangeCode(ctx, code, stored.Verifier)
	if err != nil {
		return nil, newError(KindAuthentication, "authorization code exchange failed", err)
	}

	sess := token.SessionFromResponse(response)
	if !sess.Valid() {
		return nil, newError(KindAuthentication, "token response carried no access token", nil)
	}
	if err := m.sessions.Set(ctx, sess); err != nil {
		return nil, errors.Wrap(err, "[Manager.HandleLoginCallback] sessions.Set")
	}
	return sess, nil
}

// HandleTokensReceived is the cross-SDK bridge entry point: the host SDK
// delivers a raw token response it obtained itself, which is normalized and
// persisted exactly like a callback result.
func (m *Manager) HandleTokensReceived(ctx context.Context, response *oauth2.TokenResponse) (*session.Session, error) {
	if response == nil {
		return nil, newError(KindAuthentication, "no token response received", nil)
	}
	sess := token.SessionFromResponse(response)
	if !sess.Valid() {
		return nil, newError(KindAuthentication, "token response carried no access token", nil)
	}
	if err := m.sessions.Set(ctx, sess); err != nil {
		return nil, errors.Wrap(err, "[Manager.HandleTokensReceived] sessions.Set")
	}
	return sess, nil
}

// exchangeCode performs the direct token-endpoint call for the
// authorization-code grant.
func (m *Manager) exchangeCode(ctx context.Context, code, verifier string) (*oauth2.TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", m.cfg.ClientID)
	form.Set("grant_type", string(oauth2.AuthorizationCodeGrant))
	form.Set("code_verifier", verifier)
	form.Set("code", code)
	form.Set("redirect_uri", m.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.domain()+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.exchangeCode] building request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.exchangeCode] token endpoint call")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.exchangeCode] reading response")
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.New(tokenErrorMessage(resp.StatusCode, body))
	}

	// Best effort: a non-parsing body is treated as an absent one.
	var response oauth2.TokenResponse
	_ = json.Unmarshal(body, &response)
	return &response, nil
}

// tokenErrorMessage extracts a failure message from a token endpoint error
// response, in precedence order: error_description, message, error, the raw
// body, then a generic status fallback.
func tokenErrorMessage(status int, body []byte) string {
	var payload oauth2.TokenError
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.ErrorDescription != "":
			return payload.ErrorDescription
		case payload.Message != "":
			return payload.Message
		case payload.ErrorCode != "":
			return payload.ErrorCode
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fmt.Sprintf("token endpoint returned status %d", status)
}
