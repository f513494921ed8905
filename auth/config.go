package auth

import (
	"strings"
	"time"
)

// Endpoint paths on the auth domain.
const (
	authorizePath = "/authorize"
	tokenPath     = "/oauth/token"

	// logoutPath is the provider's normal logout endpoint.
	logoutPath = "/v2/logout"
	// bridgeLogoutPath replaces it when the manager runs embedded inside
	// another SDK (cross-SDK bridge mode).
	bridgeLogoutPath = "/im-logged-out"
)

// Config is the session manager configuration, constructed once at
// instantiation and passed by reference to all subcomponents. There is no
// ambient global configuration.
type Config struct {
	// AuthDomain is the identity provider's base URL.
	// Example: "https://auth.example.com"
	AuthDomain string

	// ClientID identifies this OAuth2 client.
	ClientID string

	// RedirectURI is where the authorization response is delivered.
	RedirectURI string

	// LogoutRedirectURI is the optional default returnTo for logout.
	LogoutRedirectURI string

	// Scope is the space-separated scope list placed on authorization
	// requests. Optional.
	Scope string

	// Audience is the optional audience parameter for the provider.
	Audience string

	// CrossSDKBridge selects cross-SDK-bridge mode: the manager runs
	// embedded inside another SDK, which changes the logout endpoint.
	CrossSDKBridge bool

	// ExpiryWindow is the freshness safety margin. Zero means the default.
	ExpiryWindow time.Duration

	// PopupPollInterval is how often the popup controller polls for a
	// closed window. Zero means the default.
	PopupPollInterval time.Duration
}

// Validate checks the required fields, returning an INVALID_CONFIGURATION
// error naming the first missing one.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.AuthDomain) == "":
		return newError(KindInvalidConfiguration, "authDomain is required", nil)
	case strings.TrimSpace(c.ClientID) == "":
		return newError(KindInvalidConfiguration, "clientID is required", nil)
	case strings.TrimSpace(c.RedirectURI) == "":
		return newError(KindInvalidConfiguration, "redirectURI is required", nil)
	}
	return nil
}

// domain returns the auth domain without a trailing slash.
func (c *Config) domain() string {
	return strings.TrimSuffix(c.AuthDomain, "/")
}

func (c *Config) logoutEndpoint() string {
	if c.CrossSDKBridge {
		return c.domain() + bridgeLogoutPath
	}
	return c.domain() + logoutPath
}
