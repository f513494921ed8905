package auth

import (
	"context"
	"net"

	"github.com/pkg/errors"
	xoauth2 "golang.org/x/oauth2"

	"github.com/jrsteele09/go-auth-client/oidcclient"
	"github.com/jrsteele09/go-auth-client/session"
)

// refreshCall is the refresh coordination token: a single-flight handle on
// one silent renewal. Callers that observe an existing handle await it
// instead of starting a second renewal, so concurrent callers share one
// network round trip and one settled outcome.
type refreshCall struct {
	done chan struct{}
	sess *session.Session
	err  error
}

func (c *refreshCall) wait(ctx context.Context) (*session.Session, error) {
	select {
	case <-c.done:
		return c.sess, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ForceUserRefresh performs (or joins) a silent session renewal regardless
// of the stored session's freshness.
func (m *Manager) ForceUserRefresh(ctx context.Context) (*session.Session, error) {
	return m.refreshSession(ctx)
}

// refreshSession is the single-flight refresh. The handle reference is
// cleared before waiters are released, so the next caller starts fresh.
func (m *Manager) refreshSession(ctx context.Context) (*session.Session, error) {
	m.refreshLock.Lock()
	if existing := m.refresh; existing != nil {
		m.refreshLock.Unlock()
		return existing.wait(ctx)
	}
	call := &refreshCall{done: make(chan struct{})}
	m.refresh = call
	m.refreshLock.Unlock()

	m.runRefresh(ctx, call)
	return call.wait(ctx)
}

func (m *Manager) runRefresh(ctx context.Context, call *refreshCall) {
	defer func() {
		m.refreshLock.Lock()
		m.refresh = nil
		m.refreshLock.Unlock()
		close(call.done)
	}()

	sess, err := m.client.SigninSilent(ctx)
	if err != nil {
		call.err = m.classifyRenewalError(ctx, err)
		return
	}
	if sess != nil && !sess.Valid() {
		// Invariant: never hand out a session without an access token.
		sess = nil
	}
	call.sess = sess
}

// classifyRenewalError maps delegated-client failures onto the error
// taxonomy. Except for timeouts, the persisted session is cleared so a
// stale, unrefreshable session is never returned later; a timeout does not
// imply the session is invalid, so it survives.
func (m *Manager) classifyRenewalError(ctx context.Context, cause error) error {
	if errors.Is(cause, oidcclient.ErrNoRefreshToken) {
		// "Nothing cached", not a provider rejection: unlike the non-timeout
		// branches below, the store is left alone. Whatever is stored lacks a
		// refresh token, so GetUser will never hand it out once expired.
		return newError(KindNotLoggedIn, "no stored refresh token", cause)
	}
	if isTimeout(cause) {
		return newError(KindSilentLogin, "silent session renewal timed out", cause)
	}

	if err := m.sessions.Remove(ctx); err != nil {
		m.log.Warn().Err(err).Msg("failed clearing session after renewal failure")
	}

	var retrieveErr *xoauth2.RetrieveError
	if errors.As(cause, &retrieveErr) {
		return newError(KindNotLoggedIn, "identity provider rejected the session renewal", cause)
	}
	return newError(KindAuthentication, "session renewal failed", cause)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
