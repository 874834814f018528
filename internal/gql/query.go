package gql

import (
	"context"
	"fmt"

	"github.com/pfadmin/pfadmin/pkg/types"
)

// Client sends a GraphQL document with variables and returns the decoded
// "data" object.
type Client interface {
	Do(ctx context.Context, query string, vars map[string]any) (map[string]any, error)
}

// Executor runs one operation and returns its shaped result.
type Executor interface {
	Execute(ctx context.Context, vars types.Variables) (*Result, error)
}

// Result is the outcome of an executed operation.
type Result struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	// Raw is the value found under the descriptor's result key, unmodified.
	Raw  any     `json:"raw"`
	Rows [][]any `json:"rows"`
}

// Query is the generic Executor for a Descriptor.
type Query struct {
	desc   Descriptor
	client Client
}

// New creates a Query bound to client.
func New(client Client, desc Descriptor) *Query {
	return &Query{desc: desc, client: client}
}

// Descriptor returns the descriptor the query was built from.
func (q *Query) Descriptor() Descriptor {
	return q.desc
}

// Execute sends the document and shapes the value under the result key.
func (q *Query) Execute(ctx context.Context, vars types.Variables) (*Result, error) {
	if vars == nil {
		vars = types.Variables{}
	}
	data, err := q.client.Do(ctx, q.desc.Query, vars)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", q.desc.Name, err)
	}
	return q.desc.Shape(data[q.desc.Object]), nil
}
