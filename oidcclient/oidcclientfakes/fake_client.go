package oidcclientfakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-auth-client/oidcclient"
	"github.com/jrsteele09/go-auth-client/popup"
	"github.com/jrsteele09/go-auth-client/session"
)

var _ oidcclient.Client = (*FakeClient)(nil)

// FakeClient is a stub-driven delegated client for tests. Unstubbed methods
// return nil results.
type FakeClient struct {
	lock sync.Mutex

	SigninSilentStub func(ctx context.Context) (*session.Session, error)
	SigninPopupStub  func(ctx context.Context, w popup.Window, exchange oidcclient.ExchangeFunc) (*session.Session, error)

	signinSilentCalls int
	signinPopupCalls  int
}

func NewFakeClient() *FakeClient {
	return &FakeClient{}
}

func (c *FakeClient) SigninSilent(ctx context.Context) (*session.Session, error) {
	c.lock.Lock()
	c.signinSilentCalls++
	stub := c.SigninSilentStub
	c.lock.Unlock()
	if stub == nil {
		return nil, nil
	}
	return stub(ctx)
}

func (c *FakeClient) SigninPopup(ctx context.Context, w popup.Window, exchange oidcclient.ExchangeFunc) (*session.Session, error) {
	c.lock.Lock()
	c.signinPopupCalls++
	stub := c.SigninPopupStub
	c.lock.Unlock()
	if stub == nil {
		return nil, nil
	}
	return stub(ctx, w, exchange)
}

func (c *FakeClient) SigninSilentCalls() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.signinSilentCalls
}

func (c *FakeClient) SigninPopupCalls() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.signinPopupCalls
}
