// Package backend is the client SDK for the booknstay API: one-shot
// calls over HTTP plus live-query subscriptions over websockets. It is
// the concrete implementation of the domain's Identity, Catalog and
// Bookings ports.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"booknstay/internal/domain"
)

type Client struct {
	base string
	hc   *http.Client
	rl   *rate.Limiter

	mu     sync.Mutex
	token  string
	userID string
}

func New(base string, rps int) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}
}

type authResult struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

func (c *Client) SignIn(ctx context.Context, email, password string) (string, error) {
	var res authResult
	err := c.post(ctx, "/v1/auth/signin", map[string]string{
		"email": email, "password": password,
	}, &res, "")
	if err != nil {
		return "", err
	}
	c.setSession(res)
	return res.UserID, nil
}

func (c *Client) SignUp(ctx context.Context, fullName, email, password string) (string, error) {
	var res authResult
	err := c.post(ctx, "/v1/auth/signup", map[string]string{
		"fullName": fullName, "email": email, "password": password,
	}, &res, "")
	if err != nil {
		return "", err
	}
	c.setSession(res)
	return res.UserID, nil
}

// SignOut drops the local session. Tokens are stateless; there is nothing
// to revoke server-side.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token, c.userID = "", ""
	return nil
}

func (c *Client) CreateBooking(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	tok := c.sessionToken()
	if tok == "" {
		return domain.Booking{}, domain.ErrNotAuthenticated
	}
	var created domain.Booking
	// single attempt: a failed append is reported, never replayed
	if err := c.post(ctx, "/v1/bookings", b, &created, tok); err != nil {
		return domain.Booking{}, err
	}
	return created, nil
}

func (c *Client) setSession(res authResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token, c.userID = res.Token, res.UserID
}

func (c *Client) sessionToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

type problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func (c *Client) post(ctx context.Context, path string, body, out any, token string) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return json.NewDecoder(resp.Body).Decode(out)
	case resp.StatusCode == http.StatusUnauthorized:
		if path == "/v1/auth/signin" {
			return domain.ErrInvalidCredentials
		}
		return domain.ErrNotAuthenticated
	case resp.StatusCode == http.StatusConflict:
		return domain.ErrEmailTaken
	default:
		var p problem
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(b, &p) == nil && p.Detail != "" {
			return fmt.Errorf("%s: %s", p.Title, p.Detail)
		}
		return fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
