// Package client holds the application core: the session gateway, the
// live catalog and booking mirrors, and the screen controller that ties
// user intents to them. It depends only on the domain ports, so it runs
// the same against the real backend adapter or in-memory fakes.
package client

import (
	"context"
	"sync"

	"booknstay/internal/domain"
)

// Gateway wraps the identity provider and remembers the authenticated
// user for the rest of the session. There is at most one user at a time.
type Gateway struct {
	identity domain.Identity

	mu     sync.Mutex
	userID string
}

func NewGateway(identity domain.Identity) *Gateway {
	return &Gateway{identity: identity}
}

func (g *Gateway) SignIn(ctx context.Context, email, password string) (string, error) {
	uid, err := g.identity.SignIn(ctx, email, password)
	if err != nil {
		return "", err
	}
	g.mu.Lock()
	g.userID = uid
	g.mu.Unlock()
	return uid, nil
}

func (g *Gateway) SignUp(ctx context.Context, fullName, email, password string) (string, error) {
	uid, err := g.identity.SignUp(ctx, fullName, email, password)
	if err != nil {
		return "", err
	}
	g.mu.Lock()
	g.userID = uid
	g.mu.Unlock()
	return uid, nil
}

// SignOut clears the local session even when the provider call fails;
// a stale identifier must never outlive an explicit sign-out.
func (g *Gateway) SignOut(ctx context.Context) error {
	err := g.identity.SignOut(ctx)
	g.mu.Lock()
	g.userID = ""
	g.mu.Unlock()
	return err
}

// CurrentUserID returns the authenticated user identifier, or "" when
// nobody is signed in.
func (g *Gateway) CurrentUserID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.userID
}
