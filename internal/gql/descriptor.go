// Package gql binds GraphQL documents to tabular views of their results.
//
// A Descriptor names a query, the key its result lives under and the
// JMESPath expressions that pull each display column out of a result
// object. Query executes a descriptor through a Client and shapes the
// response into rows.
package gql

import (
	"sort"
	"strings"
)

// Descriptor is the static description of one GraphQL operation.
type Descriptor struct {
	Name        string   `json:"name" yaml:"name" validate:"required"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Query       string   `json:"query" yaml:"query" validate:"required"`
	Object      string   `json:"object" yaml:"object" validate:"required"`
	Fields      []string `json:"fields,omitempty" yaml:"fields,omitempty" validate:"dive,required"`
	Columns     []string `json:"columns,omitempty" yaml:"columns,omitempty" validate:"dive,required"`
	// Redact lists top-level variable keys whose values must not be persisted.
	Redact []string `json:"redact,omitempty" yaml:"redact,omitempty"`
}

// Cols returns the display headers. When no columns are configured the
// upper-cased field expressions are used.
func (d Descriptor) Cols() []string {
	if len(d.Columns) > 0 {
		return append([]string(nil), d.Columns...)
	}
	return upper(d.Fields)
}

// clone copies the slices so later changes to d do not leak into the copy.
func (d Descriptor) clone() Descriptor {
	d.Fields = append([]string(nil), d.Fields...)
	d.Columns = append([]string(nil), d.Columns...)
	d.Redact = append([]string(nil), d.Redact...)
	return d
}

// IsMutation reports whether the document is a mutation.
func (d Descriptor) IsMutation() bool {
	return strings.HasPrefix(strings.TrimSpace(d.Query), "mutation")
}

// Shape turns the raw value found under Object into a Result.
func (d Descriptor) Shape(raw any) *Result {
	fields, cols := d.layout(raw)
	return &Result{
		Name:    d.Name,
		Columns: cols,
		Raw:     raw,
		Rows:    BuildRows(fields, raw),
	}
}

// layout picks the field expressions and headers used for raw. Descriptors
// without fields fall back to the keys of the first result object, or to the
// result key itself for scalars.
func (d Descriptor) layout(raw any) (fields, cols []string) {
	if len(d.Fields) > 0 {
		return d.Fields, d.Cols()
	}
	sample := raw
	if list, ok := raw.([]any); ok && len(list) > 0 {
		sample = list[0]
	}
	if obj, ok := sample.(map[string]any); ok {
		fields = make([]string, 0, len(obj))
		for k := range obj {
			fields = append(fields, k)
		}
		sort.Strings(fields)
	} else {
		fields = []string{d.Object}
	}
	return fields, upper(fields)
}

func upper(fields []string) []string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = strings.ToUpper(f)
	}
	return cols
}
