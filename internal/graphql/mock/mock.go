// Package mock provides an in-memory GraphQL client for testing.
package mock

import (
	"context"
	"sync"
	"time"
)

// Call records one request made through the client.
type Call struct {
	Query     string
	Variables map[string]any
}

// Config holds mock client configuration.
type Config struct {
	Data    map[string]any // "data" object returned for every request
	Handler func(query string, vars map[string]any) (map[string]any, error)
	Err     error         // returned for every request when set
	Delay   time.Duration // delay before responding
}

// Client records calls and answers with canned data.
type Client struct {
	cfg   Config
	mu    sync.Mutex
	calls []Call
}

// New creates a new mock client.
func New(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// Do records the call and returns the configured response.
func (c *Client) Do(ctx context.Context, query string, vars map[string]any) (map[string]any, error) {
	if c.cfg.Delay > 0 {
		select {
		case <-time.After(c.cfg.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	c.mu.Lock()
	c.calls = append(c.calls, Call{Query: query, Variables: vars})
	c.mu.Unlock()

	if c.cfg.Err != nil {
		return nil, c.cfg.Err
	}
	if c.cfg.Handler != nil {
		return c.cfg.Handler(query, vars)
	}
	return c.cfg.Data, nil
}

// Calls returns a copy of the recorded calls.
func (c *Client) Calls() []Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Call(nil), c.calls...)
}
