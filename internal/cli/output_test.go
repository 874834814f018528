package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pfadmin/pfadmin/internal/gql"
	"github.com/pfadmin/pfadmin/pkg/types"
)

func testResult() *gql.Result {
	raw := []any{
		map[string]any{"name": "etl", "labels": []any{"a", "b"}, "archived": false},
		map[string]any{"name": "report", "labels": nil, "archived": true},
	}
	return gql.Descriptor{
		Name:   "flow.test",
		Query:  "query { flow { name } }",
		Object: "flow",
		Fields: []string{"name", "labels", "archived"},
	}.Shape(raw)
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, types.FormatText, testResult()))

	assert.Equal(t, [][]string{
		{"NAME", "LABELS", "ARCHIVED"},
		{"etl", "a,b", "false"},
		{"report", "true"},
	}, lines(buf.String()))
}

func TestRenderJSONKeepsRawResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, types.FormatJSON, testResult()))
	assert.JSONEq(t, `[
  {"name": "etl", "labels": ["a", "b"], "archived": false},
  {"name": "report", "labels": null, "archived": true}
]`, buf.String())
}

func TestRenderYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, types.FormatYAML, testResult()))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "report", got[1]["name"])
}

func TestRenderTextWithoutRows(t *testing.T) {
	var buf bytes.Buffer
	res := &gql.Result{Name: "agent.list", Columns: []string{"ID", "NAME"}}
	require.NoError(t, renderResult(&buf, types.FormatText, res))
	assert.Equal(t, [][]string{{"ID", "NAME"}}, lines(buf.String()))
}
