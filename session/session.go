package session

// Profile carries the identity claims extracted from the OIDC ID token.
// Populated best-effort: a missing or undecodable ID token leaves the
// zero value in place without failing the login.
type Profile struct {
	// Sub is the subject identifier assigned by the identity provider.
	// Example: "auth0|64f1c8a2e4b0"
	Sub string

	// Email is the user's email address, when the "email" scope was granted.
	Email string

	// Nickname is the display name claim.
	Nickname string

	// Username is the preferred_username claim. Optional - many providers
	// omit it entirely, which is why this is a pointer.
	Username *string
}

// Rollup holds the linked chain address pair attached to a session when the
// identity provider's ID token carries the matching rollup claims. Absent on
// sessions established against providers that do not issue them.
type Rollup struct {
	EthAddress       string // Rollup Ethereum address linked to this account
	UserAdminAddress string // Rollup user admin key address
}

// Session is the normalized authenticated state, produced by a successful
// login, callback exchange, silent renewal or token-storage call regardless
// of which flow succeeded.
//
// Sessions are replaced, never mutated: a refresh produces a new Session
// value rather than updating fields on an existing one.
type Session struct {
	// AccessToken is the opaque bearer token. Always present while logged
	// in - a session without one is not a valid session.
	AccessToken string

	// IDToken is the OIDC ID token (JWT). Optional.
	IDToken string

	// RefreshToken is the opaque token used for silent renewal. Optional.
	RefreshToken string

	// Expired is set when the issuing layer already knows the tokens are
	// stale, ahead of any freshness evaluation.
	Expired bool

	// Profile holds the decoded identity claims.
	Profile Profile

	// Rollup is only attached when the ID token carries the rollup claims.
	Rollup *Rollup
}

// Valid reports whether s may be returned from a lookup operation.
// A nil session or one lacking an access token never is.
func (s *Session) Valid() bool {
	return s != nil && s.AccessToken != ""
}
