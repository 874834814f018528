package gql

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmespath/go-jmespath"
)

// DisplayTimeLayout is the local time layout used for date fields.
const DisplayTimeLayout = "2006-01-02_15:04:05"

// DateTimeFields are the field expressions whose values are reformatted
// from ISO-8601 to DisplayTimeLayout.
var DateTimeFields = map[string]bool{
	"created":              true,
	"updated":              true,
	"last_queried":         true,
	"deleted_at":           true,
	"start_time":           true,
	"end_time":             true,
	"scheduled_start_time": true,
}

// BuildRows extracts one row per result object. A list yields one row per
// element in order, a single value yields one row and nil yields none.
func BuildRows(fields []string, raw any) [][]any {
	switch v := raw.(type) {
	case nil:
		return [][]any{}
	case []any:
		rows := make([][]any, 0, len(v))
		for _, item := range v {
			rows = append(rows, buildRow(fields, item))
		}
		return rows
	default:
		return [][]any{buildRow(fields, v)}
	}
}

// buildRow extracts every field from item. Scalar items land in the first
// column.
func buildRow(fields []string, item any) []any {
	row := make([]any, len(fields))
	if _, ok := item.(map[string]any); !ok {
		if len(row) > 0 {
			row[0] = item
		}
		return row
	}
	for i, f := range fields {
		row[i] = Extract(f, item)
	}
	return row
}

// Extract evaluates the JMESPath expression path against data. Missing
// nodes and malformed expressions yield nil.
func Extract(path string, data any) (v any) {
	defer func() {
		if recover() != nil {
			v = nil
		}
	}()
	v, err := jmespath.Search(path, data)
	if err != nil {
		return nil
	}
	if DateTimeFields[path] {
		return FormatDate(v)
	}
	return v
}

// FormatDate converts an RFC 3339 timestamp to local DisplayTimeLayout.
// Anything else is returned unchanged.
func FormatDate(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return v
	}
	return t.Local().Format(DisplayTimeLayout)
}

// FormatCell renders an extracted value for a text table.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case []string:
		return strings.Join(x, ",")
	case []any:
		parts := make([]string, len(x))
		for i, elem := range x {
			if inner, ok := elem.([]any); ok {
				parts[i] = "(" + FormatCell(inner) + ")"
				continue
			}
			parts[i] = FormatCell(elem)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
