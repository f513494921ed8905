package token_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/token"
)

var testNow = time.Date(2026, time.March, 14, 12, 0, 0, 0, time.UTC)

func signedToken(t *testing.T, claims jwtlib.MapClaims) string {
	t.Helper()
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func expiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	return signedToken(t, jwtlib.MapClaims{"exp": exp.Unix()})
}

func newEvaluator(window time.Duration) *token.Evaluator {
	return token.NewEvaluator(window, token.WithNowTime(func() time.Time { return testNow }))
}

func TestIsExpiring(t *testing.T) {
	evaluator := newEvaluator(30 * time.Second)

	tests := []struct {
		name     string
		session  *session.Session
		expiring bool
	}{
		{
			name:     "nil session",
			session:  nil,
			expiring: true,
		},
		{
			name:     "already flagged expired",
			session:  &session.Session{AccessToken: expiringAt(t, testNow.Add(time.Hour)), Expired: true},
			expiring: true,
		},
		{
			name:     "fresh access token, no id token",
			session:  &session.Session{AccessToken: expiringAt(t, testNow.Add(time.Hour))},
			expiring: false,
		},
		{
			name: "fresh pair",
			session: &session.Session{
				AccessToken: expiringAt(t, testNow.Add(time.Hour)),
				IDToken:     expiringAt(t, testNow.Add(time.Hour)),
			},
			expiring: false,
		},
		{
			name:     "access token inside the safety window",
			session:  &session.Session{AccessToken: expiringAt(t, testNow.Add(10*time.Second))},
			expiring: true,
		},
		{
			name:     "access token already expired",
			session:  &session.Session{AccessToken: expiringAt(t, testNow.Add(-time.Minute))},
			expiring: true,
		},
		{
			name: "id token expires before access token",
			session: &session.Session{
				AccessToken: expiringAt(t, testNow.Add(time.Hour)),
				IDToken:     expiringAt(t, testNow.Add(5*time.Second)),
			},
			expiring: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expiring, evaluator.IsExpiring(tt.session))
		})
	}
}

// A missing exp claim must classify as expired, never as fresh.
func TestIsExpiringMissingExpClaim(t *testing.T) {
	evaluator := newEvaluator(30 * time.Second)

	noExp := signedToken(t, jwtlib.MapClaims{"sub": "user-1"})

	require.True(t, evaluator.IsExpiring(&session.Session{AccessToken: noExp}))
	require.True(t, evaluator.IsExpiring(&session.Session{
		AccessToken: expiringAt(t, testNow.Add(time.Hour)),
		IDToken:     noExp,
	}))
}

func TestIsExpiringUndecodableToken(t *testing.T) {
	evaluator := newEvaluator(30 * time.Second)

	require.True(t, evaluator.IsExpiring(&session.Session{AccessToken: "not-a-jwt"}))
	require.True(t, evaluator.IsExpiring(&session.Session{
		AccessToken: expiringAt(t, testNow.Add(time.Hour)),
		IDToken:     "not-a-jwt",
	}))
}
