package token

import (
	"time"

	"github.com/jrsteele09/go-auth-client/session"
)

// DefaultExpiryWindow is the safety margin applied ahead of the actual exp
// claim: a token inside the window is treated as already expiring so that a
// renewal happens before any API call can fail with a 401.
const DefaultExpiryWindow = 30 * time.Second

// Evaluator determines whether a session's access/id token pair is expired
// or within the safety window of expiring.
type Evaluator struct {
	window  time.Duration
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// EvaluatorOption defines a function type to modify the Evaluator instance.
type EvaluatorOption func(*Evaluator)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		e.nowTime = nowFunc
	}
}

// NewEvaluator creates a freshness evaluator with the given safety window.
// A zero or negative window falls back to DefaultExpiryWindow.
func NewEvaluator(window time.Duration, options ...EvaluatorOption) *Evaluator {
	if window <= 0 {
		window = DefaultExpiryWindow
	}
	e := &Evaluator{
		window:  window,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

// IsExpiring reports whether the session's tokens are expired or about to
// expire. A missing exp claim on either token classifies the session as
// expiring - the security-conservative default - and so does an undecodable
// token. Nil sessions and sessions already flagged expired are expiring.
func (e *Evaluator) IsExpiring(s *session.Session) bool {
	if s == nil || s.Expired {
		return true
	}

	deadline, ok := Expiry(s.AccessToken)
	if !ok {
		return true
	}
	if s.IDToken != "" {
		idExp, ok := Expiry(s.IDToken)
		if !ok {
			return true
		}
		if idExp.Before(deadline) {
			deadline = idExp
		}
	}

	return !e.nowTime().Add(e.window).Before(deadline)
}
