package oidcclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/oidcclient"
	"github.com/jrsteele09/go-auth-client/popup"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/store"
)

const (
	testClientID    = "test-client-1"
	testRedirectURI = "http://localhost:3000/callback"
)

type stubReceiver struct {
	code  string
	state string
	err   error
}

func (r *stubReceiver) Receive(context.Context) (string, string, error) {
	return r.code, r.state, r.err
}

type stubWindow struct {
	closed bool
}

func (w *stubWindow) Closed() bool { return w.closed }
func (w *stubWindow) Focus()       {}
func (w *stubWindow) Close()       {}

// refreshEndpoint answers refresh-token grants and records each form.
type refreshEndpoint struct {
	lock   sync.Mutex
	status int
	body   string
	forms  []url.Values
}

func (e *refreshEndpoint) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		e.lock.Lock()
		e.forms = append(e.forms, r.PostForm)
		status, body := e.status, e.body
		e.lock.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (e *refreshEndpoint) requests() []url.Values {
	e.lock.Lock()
	defer e.lock.Unlock()
	return append([]url.Values(nil), e.forms...)
}

func newRelyingParty(t *testing.T, endpoint *refreshEndpoint, sessions store.SessionRepo, receiver oidcclient.CodeReceiver) *oidcclient.RelyingParty {
	t.Helper()

	server := httptest.NewServer(endpoint.handler())
	t.Cleanup(server.Close)

	rp, err := oidcclient.NewWithEndpoints(
		testClientID,
		testRedirectURI,
		server.URL+"/authorize",
		server.URL+"/oauth/token",
		[]string{"openid", "offline_access"},
		sessions,
		receiver,
		oidcclient.WithRenewalTimeout(5*time.Second),
	)
	require.NoError(t, err)
	return rp
}

func TestNewWithEndpointsRequiresSessions(t *testing.T) {
	_, err := oidcclient.NewWithEndpoints(testClientID, testRedirectURI, "", "", nil, nil, nil)
	require.Error(t, err)
}

func TestSigninSilentNoStoredSession(t *testing.T) {
	endpoint := &refreshEndpoint{status: http.StatusOK, body: `{}`}
	rp := newRelyingParty(t, endpoint, store.NewInMemorySessionRepo(), nil)

	_, err := rp.SigninSilent(context.Background())
	require.ErrorIs(t, err, oidcclient.ErrNoRefreshToken)
	require.Empty(t, endpoint.requests())
}

func TestSigninSilentNoRefreshToken(t *testing.T) {
	endpoint := &refreshEndpoint{status: http.StatusOK, body: `{}`}
	sessions := store.NewInMemorySessionRepo()
	require.NoError(t, sessions.Set(context.Background(), &session.Session{AccessToken: "access-token"}))
	rp := newRelyingParty(t, endpoint, sessions, nil)

	_, err := rp.SigninSilent(context.Background())
	require.ErrorIs(t, err, oidcclient.ErrNoRefreshToken)
	require.Empty(t, endpoint.requests())
}

func TestSigninSilentRenewsAndPersists(t *testing.T) {
	endpoint := &refreshEndpoint{
		status: http.StatusOK,
		body:   `{"access_token":"renewed-access","refresh_token":"renewed-refresh","token_type":"Bearer","expires_in":3600}`,
	}
	sessions := store.NewInMemorySessionRepo()
	require.NoError(t, sessions.Set(context.Background(), &session.Session{
		AccessToken:  "stale-access",
		RefreshToken: "refresh-token",
	}))
	rp := newRelyingParty(t, endpoint, sessions, nil)

	sess, err := rp.SigninSilent(context.Background())
	require.NoError(t, err)
	require.Equal(t, "renewed-access", sess.AccessToken)
	require.Equal(t, "renewed-refresh", sess.RefreshToken)

	stored, err := sessions.Get(context.Background())
	require.NoError(t, err)
	require.Same(t, sess, stored)

	requests := endpoint.requests()
	require.Len(t, requests, 1)
	require.Equal(t, "refresh_token", requests[0].Get("grant_type"))
	require.Equal(t, "refresh-token", requests[0].Get("refresh_token"))
}

func TestSigninSilentProviderRejection(t *testing.T) {
	endpoint := &refreshEndpoint{
		status: http.StatusBadRequest,
		body:   `{"error":"invalid_grant"}`,
	}
	sessions := store.NewInMemorySessionRepo()
	require.NoError(t, sessions.Set(context.Background(), &session.Session{
		AccessToken:  "stale-access",
		RefreshToken: "refresh-token",
	}))
	rp := newRelyingParty(t, endpoint, sessions, nil)

	_, err := rp.SigninSilent(context.Background())
	require.Error(t, err)

	// Clearing the stored session is the caller's decision, not ours.
	stored, getErr := sessions.Get(context.Background())
	require.NoError(t, getErr)
	require.NotNil(t, stored)
}

func TestSigninSilentEmptyRenewal(t *testing.T) {
	endpoint := &refreshEndpoint{status: http.StatusOK, body: `{"token_type":"Bearer"}`}
	sessions := store.NewInMemorySessionRepo()
	require.NoError(t, sessions.Set(context.Background(), &session.Session{
		AccessToken:  "stale-access",
		RefreshToken: "refresh-token",
	}))
	rp := newRelyingParty(t, endpoint, sessions, nil)

	_, err := rp.SigninSilent(context.Background())
	require.ErrorContains(t, err, "missing access token")
}

func TestSigninPopup(t *testing.T) {
	endpoint := &refreshEndpoint{status: http.StatusOK, body: `{}`}
	receiver := &stubReceiver{code: "auth-code", state: "auth-state"}
	rp := newRelyingParty(t, endpoint, store.NewInMemorySessionRepo(), receiver)

	want := &session.Session{AccessToken: "access-token"}
	sess, err := rp.SigninPopup(context.Background(), &stubWindow{}, func(_ context.Context, code, state string) (*session.Session, error) {
		require.Equal(t, "auth-code", code)
		require.Equal(t, "auth-state", state)
		return want, nil
	})
	require.NoError(t, err)
	require.Same(t, want, sess)
}

func TestSigninPopupWindowAlreadyClosed(t *testing.T) {
	endpoint := &refreshEndpoint{status: http.StatusOK, body: `{}`}
	rp := newRelyingParty(t, endpoint, store.NewInMemorySessionRepo(), &stubReceiver{})

	_, err := rp.SigninPopup(context.Background(), &stubWindow{closed: true}, nil)
	require.ErrorIs(t, err, popup.ErrClosed)
}

func TestSigninPopupWithoutReceiver(t *testing.T) {
	endpoint := &refreshEndpoint{status: http.StatusOK, body: `{}`}
	rp := newRelyingParty(t, endpoint, store.NewInMemorySessionRepo(), nil)

	_, err := rp.SigninPopup(context.Background(), &stubWindow{}, nil)
	require.ErrorContains(t, err, "no code receiver")
}
