package auth

import (
	"context"

	"github.com/jrsteele09/go-auth-client/oidcclient"
	"github.com/jrsteele09/go-auth-client/popup"
	"github.com/jrsteele09/go-auth-client/store"
	"github.com/jrsteele09/go-auth-client/telemetry"
)

// Navigator performs top-level browser navigation for the redirect login
// and logout flows. Implemented by the host shell.
type Navigator interface {
	Navigate(url string) error
}

// PromptResult is what the embedded login prompt captured from the user.
type PromptResult struct {
	// Method is the login method the user picked (e.g. "google", "email").
	Method string
	// TraceID optionally correlates the prompt interaction with the
	// authorization request.
	TraceID string
}

// LoginPrompt is the optional embedded (in-page) login prompt affordance.
// When present, it is shown ahead of the popup so the provider-selection
// step inside the popup can be skipped.
type LoginPrompt interface {
	Prompt(ctx context.Context) (*PromptResult, error)
}

// Collaborators holds all external dependencies of the Manager.
type Collaborators struct {
	Client   oidcclient.Client   // Delegated OIDC protocol client
	Sessions store.SessionRepo   // Session store adapter
	Flows    store.FlowStateRepo // Device-local PKCE credential store
	Opener   popup.Opener        // Popup window opener (popup flow)
	Overlay  popup.Overlay       // Popup-blocked retry affordance, optional
	Nav      Navigator           // Redirect/logout navigation, optional
	Prompt   LoginPrompt         // Embedded login prompt, optional
	Tracker  telemetry.Tracker   // Telemetry, optional (noop when nil)
}
