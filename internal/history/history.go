// Package history defines the local log of executed operations.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pfadmin/pfadmin/pkg/types"
)

// Redacted replaces variable values that must not be stored.
const Redacted = "***"

var (
	// ErrEmptyID is returned when a record is looked up without an ID.
	ErrEmptyID = errors.New("empty record ID")
	// ErrAmbiguousPrefix is returned when an ID prefix matches several records.
	ErrAmbiguousPrefix = errors.New("ambiguous ID prefix")
)

// Store persists history records.
type Store interface {
	// Initialize the storage (run migrations, etc.)
	Init(ctx context.Context) error

	// Close the storage connection
	Close() error

	Add(ctx context.Context, rec *types.Record) error
	Get(ctx context.Context, id string) (*types.Record, error)
	GetByPrefix(ctx context.Context, prefix string) (*types.Record, error)
	List(ctx context.Context, limit int) ([]*types.Record, error)
	Delete(ctx context.Context, id string) error
}

// NewRecord builds a record for an operation, replacing the values of the
// redact keys.
func NewRecord(operation, endpoint string, vars types.Variables, redact []string) (*types.Record, error) {
	safe := Redact(vars, redact)
	data, err := json.Marshal(safe)
	if err != nil {
		return nil, err
	}
	return &types.Record{
		ID:        uuid.NewString(),
		Operation: operation,
		Endpoint:  endpoint,
		Variables: data,
		Status:    types.StatusOK,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Finish stores the outcome of the operation on rec.
func Finish(rec *types.Record, rows int, elapsed time.Duration, err error) {
	rec.Rows = rows
	rec.LatencyMs = elapsed.Milliseconds()
	if err != nil {
		rec.Status = types.StatusFailed
		rec.Error = err.Error()
	}
}

// Redact returns a copy of vars with the values of keys replaced.
func Redact(vars types.Variables, keys []string) types.Variables {
	out := vars.Clone()
	for _, k := range keys {
		if _, ok := out[k]; ok {
			out[k] = Redacted
		}
	}
	return out
}
