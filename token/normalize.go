package token

import (
	xoauth2 "golang.org/x/oauth2"

	"github.com/jrsteele09/go-auth-client/internal/utils"
	"github.com/jrsteele09/go-auth-client/oauth2"
	"github.com/jrsteele09/go-auth-client/session"
)

// Claim names carried by the provider's ID token.
const (
	subClaim      = "sub"
	emailClaim    = "email"
	nicknameClaim = "nickname"
	usernameClaim = "preferred_username"
	audienceClaim = "aud"

	// rollupClaim holds the linked chain address pair issued for accounts
	// registered with the rollup. Absent for everyone else.
	rollupClaim            = "passport"
	rollupEthAddress       = "zkevm_eth_address"
	rollupUserAdminAddress = "zkevm_user_admin_address"
)

// SessionFromResponse normalizes a token endpoint response into the Session
// model, decoding identity claims from the ID token when one is present.
func SessionFromResponse(tr *oauth2.TokenResponse) *session.Session {
	s := &session.Session{
		AccessToken:  utils.Value(tr.AccessToken),
		IDToken:      utils.Value(tr.IdToken),
		RefreshToken: utils.Value(tr.RefreshToken),
	}
	applyIdentityClaims(s)
	return s
}

// SessionFromToken normalizes a renewed oauth2 token into the Session model.
// Used by the silent-renewal path, where the delegated client returns
// tokens through golang.org/x/oauth2.
func SessionFromToken(tok *xoauth2.Token) *session.Session {
	s := &session.Session{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
	if idToken, ok := tok.Extra("id_token").(string); ok {
		s.IDToken = idToken
	}
	applyIdentityClaims(s)
	return s
}

// IdentityClaims extracts the claims forwarded to the telemetry identify
// hook. Returns nil when the session carries no decodable ID token.
func IdentityClaims(s *session.Session) map[string]any {
	if s == nil || s.IDToken == "" {
		return nil
	}
	claims, err := DecodeClaims(s.IDToken)
	if err != nil {
		return nil
	}
	identity := map[string]any{
		subClaim:   StringClaim(claims, subClaim),
		emailClaim: StringClaim(claims, emailClaim),
	}
	if aud, ok := claims[audienceClaim].([]any); ok {
		identity[audienceClaim] = utils.ToStringSlice(aud)
	} else if aud := StringClaim(claims, audienceClaim); aud != "" {
		identity[audienceClaim] = aud
	}
	return identity
}

// applyIdentityClaims fills the profile and rollup extension fields from the
// ID token. Decoding failures are tolerated: absence of a parseable ID token
// degrades only the optional fields, it never fails a login.
func applyIdentityClaims(s *session.Session) {
	if s.IDToken == "" {
		return
	}
	claims, err := DecodeClaims(s.IDToken)
	if err != nil {
		return
	}

	s.Profile = session.Profile{
		Sub:      StringClaim(claims, subClaim),
		Email:    StringClaim(claims, emailClaim),
		Nickname: StringClaim(claims, nicknameClaim),
	}
	if username, ok := claims[usernameClaim].(string); ok {
		s.Profile.Username = utils.Ptr(username)
	}

	rollup, ok := claims[rollupClaim].(map[string]any)
	if !ok {
		return
	}
	ethAddress, _ := rollup[rollupEthAddress].(string)
	adminAddress, _ := rollup[rollupUserAdminAddress].(string)
	if ethAddress != "" && adminAddress != "" {
		s.Rollup = &session.Rollup{
			EthAddress:       ethAddress,
			UserAdminAddress: adminAddress,
		}
	}
}
