package camedomotic

import (
	"context"
)

// Client is the high-level CAME Domotic API client. It wraps a Session and
// exposes the gateway's entities (users, lights, openings, server info,
// status updates) as typed operations. All methods are safe for concurrent
// use.
type Client struct {
	session *Session
}

// NewClient creates a client for the gateway at host and probes the
// endpoint. Returns an error wrapping ErrServerNotFound if the gateway does
// not answer. The session is not logged in until the first operation needs
// one.
func NewClient(ctx context.Context, host, username, password string, opts ...Option) (*Client, error) {
	session, err := NewSession(ctx, host, username, password, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{session: session}, nil
}

// Session exposes the underlying session manager for callers that need to
// drive the protocol directly (custom commands, explicit keep-alives).
func (c *Client) Session() *Session {
	return c.session
}

// Close disposes the client: best-effort logout, credential scrub, and
// release of the owned HTTP client. Close never fails.
func (c *Client) Close(ctx context.Context) {
	c.session.Close(ctx)
}
