package auth

import "errors"

// Kind classifies session manager failures. Callers branch on the kind, not
// on concrete error types.
type Kind string

const (
	// KindAuthentication - an interactive login flow failed.
	KindAuthentication Kind = "AUTHENTICATION_ERROR"
	// KindSilentLogin - silent renewal timed out. The stored session is
	// NOT cleared: a timeout does not imply the session is invalid.
	KindSilentLogin Kind = "SILENT_LOGIN_ERROR"
	// KindNotLoggedIn - the provider explicitly rejected the renewal (the
	// stored session IS cleared), or no refresh token was stored at all
	// (nothing to clear; the store is left alone).
	KindNotLoggedIn Kind = "NOT_LOGGED_IN_ERROR"
	// KindLogout - logout failed.
	KindLogout Kind = "LOGOUT_ERROR"
	// KindInvalidConfiguration - required config missing, or PKCE
	// state/verifier missing or mismatched.
	KindInvalidConfiguration Kind = "INVALID_CONFIGURATION"
)

// Error is a classified session manager failure. The message always carries
// the underlying cause's message appended, so logs stay useful without
// unwrapping.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// newError builds a classified error, appending the cause's message.
func newError(kind Kind, message string, cause error) *Error {
	if cause != nil {
		message = message + ": " + cause.Error()
	}
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf returns the classification of err, or "" for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
