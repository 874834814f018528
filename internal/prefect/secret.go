package prefect

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pfadmin/pfadmin/internal/gql"
	"github.com/pfadmin/pfadmin/pkg/types"
)

// SecretAll asks SecretQuery for every secret.
const SecretAll = "all"

// secret_value requests run one at a time, in listing order.
const maxSecretRequests = 1

// SecretQuery reads secret values, one request per secret.
type SecretQuery struct {
	client gql.Client
}

// NewSecretQuery creates a SecretQuery bound to client.
func NewSecretQuery(client gql.Client) *SecretQuery {
	return &SecretQuery{client: client}
}

// Execute queries the secret named by vars["secret_name"]. An empty name or
// "all" first lists every secret name. The raw result is a list of
// [name, value] pairs in listing order.
func (q *SecretQuery) Execute(ctx context.Context, vars types.Variables) (*gql.Result, error) {
	name, _ := vars["secret_name"].(string)

	names := []string{name}
	if name == "" || name == SecretAll {
		var err error
		if names, err = q.names(ctx); err != nil {
			return nil, err
		}
	}

	pairs := make([]any, len(names))
	rows := make([][]any, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxSecretRequests)
	for i, n := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := q.client.Do(gctx, SecretValue.Query, map[string]any{"secret_name": n})
			if err != nil {
				return fmt.Errorf("%s %q: %w", SecretValue.Name, n, err)
			}
			pair := []any{n, data[SecretValue.Object]}
			pairs[i] = pair
			rows[i] = pair
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &gql.Result{
		Name:    SecretValue.Name,
		Columns: SecretValue.Cols(),
		Raw:     pairs,
		Rows:    rows,
	}, nil
}

func (q *SecretQuery) names(ctx context.Context) ([]string, error) {
	res, err := gql.New(q.client, SecretList).Execute(ctx, nil)
	if err != nil {
		return nil, err
	}
	list, _ := res.Raw.([]any)
	names := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			names = append(names, s)
		}
	}
	return names, nil
}
