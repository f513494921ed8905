// Package pkce generates the verifier/challenge/state material for the
// OAuth2 Proof Key for Code Exchange extension (RFC 7636).
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-auth-client/oauth2"
)

// entropyLength is the number of random bytes behind the verifier and the
// state parameter.
const entropyLength = 32

// Encoding is the base64url-no-padding scheme RFC 7636 mandates for the
// verifier and challenge.
var Encoding = base64.URLEncoding.WithPadding(base64.NoPadding)

// Challenge is a generated verifier/challenge/state triple ready to be
// placed on an authorization request.
type Challenge struct {
	Verifier      string
	CodeChallenge string
	State         string
	Method        oauth2.CodeMethodType
}

// ExchangeState is the {state, verifier} pair persisted in the device-local
// credential store between building the authorization URL and handling the
// matching callback. Consumed exactly once; a state mismatch on the callback
// is a hard failure.
type ExchangeState struct {
	State    string
	Verifier string
}

// Generate produces a fresh verifier/challenge/state triple from platform
// cryptographic randomness.
func Generate() (*Challenge, error) {
	verifier, err := randomValue()
	if err != nil {
		return nil, errors.Wrap(err, "[pkce.Generate] verifier")
	}
	state, err := randomValue()
	if err != nil {
		return nil, errors.Wrap(err, "[pkce.Generate] state")
	}
	return &Challenge{
		Verifier:      verifier,
		CodeChallenge: ChallengeFromVerifier(verifier),
		State:         state,
		Method:        oauth2.CodeMethodTypeS256,
	}, nil
}

// ChallengeFromVerifier computes the S256 code challenge for a verifier:
// BASE64URL(SHA256(verifier)), no padding. Deterministic for a fixed
// verifier.
func ChallengeFromVerifier(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return Encoding.EncodeToString(hash[:])
}

func randomValue() (string, error) {
	bytes := make([]byte, entropyLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", errors.Wrap(err, "rand.Read")
	}
	return Encoding.EncodeToString(bytes), nil
}
