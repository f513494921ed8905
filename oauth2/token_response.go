package oauth2

// TokenResponse represents the response from an OAuth2 token request.
// This is the standard OAuth2 token endpoint response format as defined in RFC 6749.
// Returned from the /oauth/token endpoint for all grant types.
type TokenResponse struct {
	// AccessToken is the bearer token used to access protected resources.
	// Example: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."
	// Usage: Include in Authorization header: "Bearer <access_token>"
	// Lifespan: Short-lived (typically 15 minutes - 1 hour)
	AccessToken *string `json:"access_token,omitempty"`

	// IdToken is the OpenID Connect ID token containing user identity information.
	// Example: "eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."
	// Usage: Claims (sub, email, nickname, etc.) are decoded into the session profile
	// Only present: When "openid" scope was requested
	IdToken *string `json:"id_token,omitempty"`

	// TokenType indicates how to use the access token (normally "bearer").
	// Standard: OAuth2 spec requires this field
	TokenType string `json:"token_type,omitempty"`

	// ExpiresIn is the lifetime in seconds of the access token.
	// Example: 900 (for 15 minutes)
	// Note: This is a hint - actual expiration is in the JWT's "exp" claim
	ExpiresIn int `json:"expires_in,omitempty"`

	// RefreshToken is an opaque token used to obtain new access tokens.
	// Example: "tGzv3JOkF0XG5Qx2TlKWIA"
	// Usage: Sent to the token endpoint with grant_type=refresh_token
	// Security: Stored through the session store adapter, rotates on each use
	RefreshToken *string `json:"refresh_token,omitempty"`

	// Scope indicates the access token's granted permissions.
	// Example: "openid profile email api.read"
	// Note: May be less than requested if some scopes were denied
	Scope string `json:"scope,omitempty"`
}

// TokenError is the RFC 6749 error shape returned by the token endpoint on a
// non-success status. All fields are optional - providers differ on which
// they populate, so error message extraction checks them in precedence order.
type TokenError struct {
	// ErrorCode is the machine-readable error identifier.
	// Example: "invalid_grant"
	ErrorCode string `json:"error,omitempty"`

	// ErrorDescription is the human-readable explanation.
	// Example: "The authorization code has expired"
	ErrorDescription string `json:"error_description,omitempty"`

	// Message is a non-standard field some providers use instead.
	Message string `json:"message,omitempty"`
}
