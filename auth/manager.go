// Package auth implements the authentication session manager: the single
// entry point for establishing, refreshing and tearing down a user's
// session against an OAuth2/OIDC identity provider.
package auth

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-auth-client/events"
	"github.com/jrsteele09/go-auth-client/oidcclient"
	"github.com/jrsteele09/go-auth-client/popup"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/jrsteele09/go-auth-client/store"
	"github.com/jrsteele09/go-auth-client/telemetry"
	"github.com/jrsteele09/go-auth-client/token"
)

const defaultHTTPTimeout = 30 * time.Second

// telemetry flow domain for this subsystem
const telemetryDomain = "auth"

// Manager orchestrates login, logout, callback handling and single-flight
// token refresh. One Manager instance owns one session.
type Manager struct {
	cfg       Config
	client    oidcclient.Client
	sessions  store.SessionRepo
	flows     store.FlowStateRepo
	popups    *popup.Controller
	nav       Navigator
	prompt    LoginPrompt
	tracker   telemetry.Tracker
	freshness *token.Evaluator
	http      *http.Client
	log       zerolog.Logger
	nowTime   func() time.Time // nowTime function (injectable for testing)

	// flowKey keys this manager's PKCE exchange state in the device-local
	// credential store.
	flowKey string

	// refresh is the single-flight handle: at most one outstanding refresh
	// exists per manager. Guarded by refreshLock.
	refreshLock sync.Mutex
	refresh     *refreshCall

	// LoggedIn fires once per successful login with the new session.
	LoggedIn *events.Topic[*session.Session]
	// LoggedOut fires when logout completes.
	LoggedOut *events.Topic[struct{}]
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithLogger sets the manager's logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// WithHTTPClient sets the HTTP client used for the token endpoint.
func WithHTTPClient(client *http.Client) ManagerOption {
	return func(m *Manager) {
		if client != nil {
			m.http = client
		}
	}
}

// New initializes a session manager with required collaborators. Optional
// configuration can be provided via options (e.g. WithNowTime for testing).
func New(cfg Config, c Collaborators, options ...ManagerOption) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if c.Client == nil {
		return nil, errors.New("[New] OIDC client is required")
	}
	if c.Sessions == nil {
		return nil, errors.New("[New] Sessions repo is required")
	}
	if c.Flows == nil {
		return nil, errors.New("[New] Flows repo is required")
	}

	m := &Manager{
		cfg:       cfg,
		client:    c.Client,
		sessions:  c.Sessions,
		flows:     c.Flows,
		nav:       c.Nav,
		prompt:    c.Prompt,
		freshness: token.NewEvaluator(cfg.ExpiryWindow),
		http:      &http.Client{Timeout: defaultHTTPTimeout},
		log:       zerolog.Nop(),
		nowTime:   time.Now,
		flowKey:   uuid.New().String(),
		LoggedIn:  events.NewTopic[*session.Session](),
		LoggedOut: events.NewTopic[struct{}](),
	}

	// Apply optional configuration
	for _, opt := range options {
		opt(m)
	}

	m.tracker = telemetry.Safe(c.Tracker, m.log)

	if c.Opener != nil {
		controller, err := popup.NewController(
			c.Opener,
			c.Overlay,
			popup.WithPollInterval(cfg.PopupPollInterval),
			popup.WithLogger(m.log),
		)
		if err != nil {
			return nil, errors.Wrap(err, "[New] popup controller")
		}
		m.popups = controller
	}

	// Drop leftovers of abandoned flows. Best effort.
	if err := m.sessions.ClearStale(context.Background()); err != nil {
		m.log.Debug().Err(err).Msg("clearing stale session state failed")
	}

	return m, nil
}

// GetUser returns the current valid session, refreshing it when it is
// expiring, or nil when there is none. If a refresh is already in flight
// its outcome is awaited and returned, so a lookup never races a refresh
// against the store.
func (m *Manager) GetUser(ctx context.Context) (*session.Session, error) {
	m.refreshLock.Lock()
	call := m.refresh
	m.refreshLock.Unlock()
	if call != nil {
		return call.wait(ctx)
	}

	sess, err := m.sessions.Get(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "[Manager.GetUser] sessions.Get")
	}
	if !sess.Valid() {
		return nil, nil
	}
	if !m.freshness.IsExpiring(sess) {
		return sess, nil
	}
	if sess.RefreshToken == "" {
		return nil, nil
	}
	return m.refreshSession(ctx)
}
