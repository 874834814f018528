package gql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeScalarList(t *testing.T) {
	d := Descriptor{Name: "secret.list", Query: "query {secret_names}", Object: "secret_names", Fields: []string{"secret_name"}}

	res := d.Shape([]any{"a", "b"})

	assert.Equal(t, []string{"SECRET_NAME"}, res.Columns)
	assert.Equal(t, [][]any{{"a"}, {"b"}}, res.Rows)
	assert.Equal(t, []any{"a", "b"}, res.Raw)
}

func TestShapeKeepsResultOrder(t *testing.T) {
	d := Descriptor{Name: "x", Query: "query {x}", Object: "x", Fields: []string{"id"}}
	raw := []any{
		map[string]any{"id": "3"},
		map[string]any{"id": "1"},
		map[string]any{"id": "2"},
	}

	res := d.Shape(raw)

	assert.Equal(t, [][]any{{"3"}, {"1"}, {"2"}}, res.Rows)
}

func TestShapeSingleObjectAndNull(t *testing.T) {
	d := Descriptor{Name: "x", Query: "query {x}", Object: "x", Fields: []string{"id", "name"}}

	res := d.Shape(map[string]any{"id": "f1", "name": "etl"})
	assert.Equal(t, [][]any{{"f1", "etl"}}, res.Rows)

	res = d.Shape(nil)
	assert.Empty(t, res.Rows)
	assert.Equal(t, []string{"ID", "NAME"}, res.Columns)
}

func TestShapeWithoutFieldsUsesObjectKeys(t *testing.T) {
	d := Descriptor{Name: "flow.schedule_enable", Query: "mutation {x}", Object: "set_schedule_active"}

	res := d.Shape(map[string]any{"success": true, "error": nil})

	assert.Equal(t, []string{"ERROR", "SUCCESS"}, res.Columns)
	assert.Equal(t, [][]any{{nil, true}}, res.Rows)
}

func TestShapeWithoutFieldsScalar(t *testing.T) {
	d := Descriptor{Name: "secret.value", Query: "query {x}", Object: "secret_value"}

	res := d.Shape("s3cr3t")

	assert.Equal(t, []string{"SECRET_VALUE"}, res.Columns)
	assert.Equal(t, [][]any{{"s3cr3t"}}, res.Rows)
}

func TestMissingPathsGiveEmptyCells(t *testing.T) {
	fields := []string{"id", "agent.id", "agent.name", "run_config.labels", "nope", "bad[", "a..b"}
	raw := []any{
		map[string]any{"id": "r1", "agent": nil},
		map[string]any{"id": "r2", "agent": map[string]any{"id": "a1"}, "run_config": map[string]any{}},
	}

	rows := BuildRows(fields, raw)

	require.Len(t, rows, 2)
	assert.Equal(t, []any{"r1", nil, nil, nil, nil, nil, nil}, rows[0])
	assert.Equal(t, []any{"r2", "a1", nil, nil, nil, nil, nil}, rows[1])
	for _, row := range rows {
		for _, cell := range row[2:] {
			assert.Equal(t, "", FormatCell(cell))
		}
	}
}

func TestExtractProjection(t *testing.T) {
	flow := map[string]any{
		"parameters": []any{
			map[string]any{"name": "x", "default": 1.0, "required": true},
			map[string]any{"name": "y", "default": nil, "required": false},
		},
		"flow_group": map[string]any{"default_parameters": map[string]any{"x": 2.0}},
	}

	got := Extract("parameters[*][name,default,required]", flow)

	assert.Equal(t, []any{[]any{"x", 1.0, true}, []any{"y", nil, false}}, got)
	assert.Equal(t, "(x,1,true),(y,,false)", FormatCell(got))
	assert.Equal(t, `{"x":2}`, FormatCell(Extract("flow_group.default_parameters", flow)))
}

func TestDateFieldsAreReformatted(t *testing.T) {
	ts := "2021-09-01T10:11:12.123456+00:00"
	want := time.Date(2021, 9, 1, 10, 11, 12, 123456000, time.UTC).Local().Format(DisplayTimeLayout)

	for field := range DateTimeFields {
		obj := map[string]any{field: ts}
		assert.Equal(t, want, Extract(field, obj), field)
	}
}

func TestDateFieldsPassThroughInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"garbage", "not-a-date"},
		{"date only", "2021-09-01"},
		{"number", 12.0},
		{"null", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := map[string]any{"created": tt.value}
			assert.Equal(t, tt.value, Extract("created", obj))
		})
	}
}

func TestNonDateFieldKeepsTimestamp(t *testing.T) {
	ts := "2021-09-01T10:11:12+00:00"
	assert.Equal(t, ts, Extract("state_timestamp", map[string]any{"state_timestamp": ts}))
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"text", "text"},
		{true, "true"},
		{3.0, "3"},
		{2.5, "2.5"},
		{[]any{"a", "b"}, "a,b"},
		{[]any{}, ""},
		{[]string{"x", "y"}, "x,y"},
		{map[string]any{"k": "v"}, `{"k":"v"}`},
		{42, "42"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCell(tt.in), "%#v", tt.in)
	}
}
