// Package popup runs the interactive login flow inside a host-provided
// popup window and detects window closure through two independent signals.
package popup

import "context"

// Window is a handle on an open popup. Implemented by the host shell
// (browser window proxy, embedded webview, desktop browser tab).
type Window interface {
	// Closed reports whether the window has been closed. Polled by the
	// controller; must be cheap.
	Closed() bool
	// Focus brings the window to the foreground.
	Focus()
	// Close tears the window down.
	Close()
}

// Opener opens a popup window at the given URL. Open returns ErrBlocked
// when the host refused to open the window, and ErrDisposed when the
// underlying window object was disposed before it could be navigated.
type Opener interface {
	Open(ctx context.Context, url string) (Window, error)
}

// Overlay is the popup-blocked affordance: a host-rendered prompt offering
// the user a retry. Show must invoke onRetry when the user asks to try
// again and onDismiss when the user gives up; Hide removes the prompt.
// Either callback may be invoked more than once - the controller treats
// repeats as no-ops.
type Overlay interface {
	Show(onRetry, onDismiss func())
	Hide()
}
