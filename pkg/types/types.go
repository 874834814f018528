// Package types defines shared types used across the pfadmin codebase.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Variables maps GraphQL variable names to their values.
type Variables map[string]any

// Clone returns a shallow copy of the variables.
func (v Variables) Clone() Variables {
	out := make(Variables, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Merge copies every entry of other into v, overwriting existing keys.
func (v Variables) Merge(other map[string]any) {
	for k, val := range other {
		v[k] = val
	}
}

// Format is an output format for rendered results.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a user supplied format name into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("invalid output format %q (valid: text, json, yaml)", s)
	}
}

// RecordStatus is the outcome of an executed operation.
type RecordStatus string

const (
	StatusOK     RecordStatus = "ok"
	StatusFailed RecordStatus = "failed"
)

// Record is one entry of the local operation history.
type Record struct {
	ID        string          `json:"id"`
	Operation string          `json:"operation"`
	Endpoint  string          `json:"endpoint,omitempty"`
	Variables json.RawMessage `json:"variables,omitempty"`
	Status    RecordStatus    `json:"status"`
	Rows      int             `json:"rows"`
	Error     string          `json:"error,omitempty"`
	LatencyMs int64           `json:"latency_ms"`
	CreatedAt time.Time       `json:"created_at"`
}
