package token

import (
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// DecodeClaims decodes the payload segment of a JWT into a claims map without
// verifying the signature. The client trusts transport-level TLS and
// provider-side issuance rather than verifying tokens itself, so the
// unverified parse is intentional - do not replace it with a verifying parse
// without revisiting that decision.
func DecodeClaims(rawToken string) (jwtlib.MapClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, errors.New("[DecodeClaims] empty token")
	}

	unverifiedToken, _, err := jwtlib.NewParser().ParseUnverified(rawToken, jwtlib.MapClaims{})
	if err != nil {
		return nil, errors.Wrap(err, "[DecodeClaims] parse")
	}

	claims, ok := unverifiedToken.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("[DecodeClaims] error extracting claims")
	}
	return claims, nil
}

// StringClaim returns the named claim when present and a string, otherwise "".
func StringClaim(claims jwtlib.MapClaims, name string) string {
	v, _ := claims[name].(string)
	return v
}

// Expiry returns the exp claim of rawToken as a time. The second return is
// false when the token cannot be decoded or carries no exp claim - callers
// treat that as expired, never as fresh.
func Expiry(rawToken string) (time.Time, bool) {
	claims, err := DecodeClaims(rawToken)
	if err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
