package auth_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/auth"
)

func TestLogout(t *testing.T) {
	f := setupTestFixture(t, defaultConfig())
	f.sessions.Seed(freshSession(t))

	loggedOut := 0
	f.manager.LoggedOut.Subscribe(func(struct{}) { loggedOut++ })

	err := f.manager.Logout(context.Background(), auth.LogoutOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, f.sessions.RemoveCalls())
	require.Nil(t, f.sessions.Current())
	require.Equal(t, 1, loggedOut)

	navigations := f.nav.navigations()
	require.Len(t, navigations, 1)
	require.Contains(t, navigations[0], testAuthDomain+"/v2/logout?")
	require.Contains(t, navigations[0], "client_id="+testClientID)
}

func TestLogoutReturnToOverride(t *testing.T) {
	cfg := defaultConfig()
	cfg.LogoutRedirectURI = "http://localhost:3000/goodbye"
	f := setupTestFixture(t, cfg)

	err := f.manager.Logout(context.Background(), auth.LogoutOptions{ReturnTo: "http://localhost:3000/other"})
	require.NoError(t, err)

	parsed, err := url.Parse(f.nav.navigations()[0])
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3000/other", parsed.Query().Get("returnTo"))
}

func TestLogoutURLDefaultReturnTo(t *testing.T) {
	cfg := defaultConfig()
	cfg.LogoutRedirectURI = "http://localhost:3000/goodbye"
	f := setupTestFixture(t, cfg)

	parsed, err := url.Parse(f.manager.LogoutURL(""))
	require.NoError(t, err)
	require.Equal(t, "/v2/logout", parsed.Path)
	require.Equal(t, "http://localhost:3000/goodbye", parsed.Query().Get("returnTo"))
	require.Equal(t, testClientID, parsed.Query().Get("client_id"))
}

// In cross-SDK bridge mode the host SDK owns the provider logout; the
// manager hits the bridge endpoint instead.
func TestLogoutURLBridgeMode(t *testing.T) {
	cfg := defaultConfig()
	cfg.CrossSDKBridge = true
	f := setupTestFixture(t, cfg)

	parsed, err := url.Parse(f.manager.LogoutURL(""))
	require.NoError(t, err)
	require.Equal(t, "/im-logged-out", parsed.Path)
}

func TestLogoutRemoveFailure(t *testing.T) {
	f := setupTestFixture(t, defaultConfig())
	f.sessions.RemoveErr = assertError("store unavailable")

	loggedOut := 0
	f.manager.LoggedOut.Subscribe(func(struct{}) { loggedOut++ })

	err := f.manager.Logout(context.Background(), auth.LogoutOptions{})
	require.Error(t, err)
	require.Equal(t, auth.KindLogout, auth.KindOf(err))
	require.Equal(t, 0, loggedOut)
	require.Empty(t, f.nav.navigations())
}
