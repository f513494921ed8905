package popup

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-auth-client/session"
)

var (
	// ErrClosed is returned when the user closed the popup (or dismissed
	// the retry overlay) before the flow completed.
	ErrClosed = errors.New("popup closed by user")
	// ErrBlocked is returned by openers when the host refused to open the
	// popup window.
	ErrBlocked = errors.New("popup blocked")
	// ErrDisposed is returned when the popup window object was disposed
	// before or during navigation.
	ErrDisposed = errors.New("navigate on disposed window")
)

// DefaultPollInterval is how often the controller polls Window.Closed.
// The delegated flow's own close detection only fires at the instant the
// popup is first checked, so polling is what catches closures after the
// user has navigated within the popup.
const DefaultPollInterval = 500 * time.Millisecond

// State of the retry-on-failure machine.
type State int32

const (
	StateIdle State = iota
	StateAwaitingRetryConsent
	StateRetrying
	StateDone
	StateFailed
)

// FlowFunc is the delegated interactive flow run inside the popup. It
// resolves with the established session, or with an error; ErrClosed from
// the flow marks its own (single-shot) close detection, ErrDisposed marks a
// window disposed mid-flow.
type FlowFunc func(ctx context.Context, w Window) (*session.Session, error)

// Controller opens, monitors and tears down the popup running the
// interactive login. Safe for sequential use; one Run at a time.
type Controller struct {
	opener       Opener
	overlay      Overlay
	pollInterval time.Duration
	log          zerolog.Logger

	lock  sync.Mutex
	state State
}

// ControllerOption defines a function type to modify the Controller instance.
type ControllerOption func(*Controller)

// WithPollInterval overrides the closed-window polling interval
// (primarily for testing).
func WithPollInterval(interval time.Duration) ControllerOption {
	return func(c *Controller) {
		if interval > 0 {
			c.pollInterval = interval
		}
	}
}

// WithLogger sets the controller's logger.
func WithLogger(log zerolog.Logger) ControllerOption {
	return func(c *Controller) {
		c.log = log
	}
}

// NewController creates a popup flow controller. overlay may be nil, in
// which case a blocked popup fails immediately instead of offering a retry.
func NewController(opener Opener, overlay Overlay, options ...ControllerOption) (*Controller, error) {
	if opener == nil {
		return nil, errors.New("[NewController] opener is required")
	}
	c := &Controller{
		opener:       opener,
		overlay:      overlay,
		pollInterval: DefaultPollInterval,
		log:          zerolog.Nop(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// State returns the current retry-machine state.
func (c *Controller) State() State {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.lock.Lock()
	c.state = s
	c.lock.Unlock()
}

// Run opens a popup at url and executes flow inside it, racing the flow's
// completion against closed-window detection. A blocked or disposed window
// is retried exactly once through the overlay; a dismissed overlay rejects
// with ErrClosed.
func (c *Controller) Run(ctx context.Context, url string, flow FlowFunc) (*session.Session, error) {
	c.setState(StateIdle)

	w, err := c.opener.Open(ctx, url)
	if isRetryableOpenFailure(err) {
		c.log.Debug().Err(err).Msg("popup open failed, offering retry")
		w, err = c.awaitRetry(ctx, url)
	}
	if err != nil {
		c.setState(StateFailed)
		return nil, err
	}

	sess, err := c.monitor(ctx, w, flow)
	if errors.Is(err, ErrDisposed) {
		// The window died mid-flow. Same affordance as a blocked open:
		// one retry within this invocation.
		c.log.Debug().Msg("popup disposed mid-flow, offering retry")
		retryWindow, retryErr := c.awaitRetry(ctx, url)
		if retryErr != nil {
			c.setState(StateFailed)
			return nil, retryErr
		}
		sess, err = c.monitor(ctx, retryWindow, flow)
	}
	if err != nil {
		c.setState(StateFailed)
		return nil, err
	}
	c.setState(StateDone)
	return sess, nil
}

// monitor races the delegated flow against manual closed-window polling.
// Whichever settles first wins; the loser's resources (the polling ticker,
// the flow's context) are released before the winner's result is returned.
func (c *Controller) monitor(ctx context.Context, w Window, flow FlowFunc) (*session.Session, error) {
	type flowResult struct {
		sess *session.Session
		err  error
	}

	flowCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultCh := make(chan flowResult, 1)
	go func() {
		sess, err := flow(flowCtx, w)
		resultCh <- flowResult{sess: sess, err: err}
	}()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case r := <-resultCh:
			return r.sess, r.err
		case <-ticker.C:
			if w.Closed() {
				return nil, ErrClosed
			}
		case <-ctx.Done():
			w.Close()
			return nil, ctx.Err()
		}
	}
}

// awaitRetry shows the overlay and waits for the user to retry or dismiss.
// The retry opens the popup once; further retry clicks while one is pending
// re-focus the opened window instead of opening a second one.
func (c *Controller) awaitRetry(ctx context.Context, url string) (Window, error) {
	if c.overlay == nil {
		return nil, ErrBlocked
	}
	c.setState(StateAwaitingRetryConsent)

	type outcome struct {
		w   Window
		err error
	}
	outcomeCh := make(chan outcome, 1)

	var lock sync.Mutex
	var pending Window
	retried := false

	onRetry := func() {
		lock.Lock()
		if retried {
			existing := pending
			lock.Unlock()
			if existing != nil {
				existing.Focus()
			}
			return
		}
		retried = true
		lock.Unlock()

		c.setState(StateRetrying)
		w, err := c.opener.Open(ctx, url)
		lock.Lock()
		pending = w
		lock.Unlock()
		deliver(outcomeCh, outcome{w: w, err: err})
	}

	onDismiss := func() {
		lock.Lock()
		alreadyRetried := retried
		lock.Unlock()
		if alreadyRetried {
			return
		}
		deliver(outcomeCh, outcome{err: ErrClosed})
	}

	c.overlay.Show(onRetry, onDismiss)
	defer c.overlay.Hide()

	select {
	case o := <-outcomeCh:
		if o.err != nil {
			return nil, o.err
		}
		return o.w, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func isRetryableOpenFailure(err error) bool {
	return errors.Is(err, ErrBlocked) || errors.Is(err, ErrDisposed)
}

// deliver sends without blocking; only the first outcome counts.
func deliver[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}
