// Package graphql provides the HTTP GraphQL client for the orchestration API.
package graphql

import (
	"context"
	"fmt"
	"net/http"

	"github.com/machinebox/graphql"
	"github.com/rs/zerolog"

	"github.com/pfadmin/pfadmin/internal/logging"
)

// TenantHeader carries the tenant id on Prefect Cloud requests.
const TenantHeader = "X-Prefect-Tenant-Id"

// Options configures a Client.
type Options struct {
	URL        string
	APIKey     string
	TenantID   string
	Headers    map[string]string
	HTTPClient *http.Client
}

// Client sends GraphQL documents over HTTP.
type Client struct {
	client *graphql.Client
	opts   Options
	log    zerolog.Logger
}

// New creates a new client for the endpoint in opts.
func New(opts Options) *Client {
	var clientOpts []graphql.ClientOption
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, graphql.WithHTTPClient(opts.HTTPClient))
	}

	logger := logging.For("graphql")
	client := graphql.NewClient(opts.URL, clientOpts...)
	client.Log = func(s string) { logger.Debug().Msg(s) }

	return &Client{client: client, opts: opts, log: logger}
}

// Endpoint returns the API URL.
func (c *Client) Endpoint() string {
	return c.opts.URL
}

// Do sends query with vars and returns the decoded "data" object. GraphQL
// errors in the response are returned as errors.
func (c *Client) Do(ctx context.Context, query string, vars map[string]any) (map[string]any, error) {
	req := graphql.NewRequest(query)
	for k, v := range vars {
		req.Var(k, v)
	}
	for k, v := range c.opts.Headers {
		req.Header.Set(k, v)
	}
	if c.opts.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	}
	if c.opts.TenantID != "" {
		req.Header.Set(TenantHeader, c.opts.TenantID)
	}

	c.log.Debug().Str("endpoint", c.opts.URL).Int("variables", len(vars)).Msg("sending request")

	var data map[string]any
	if err := c.client.Run(ctx, req, &data); err != nil {
		return nil, fmt.Errorf("graphql request failed: %w", err)
	}
	return data, nil
}
