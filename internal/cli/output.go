package cli

import (
	"encoding/json"
	"io"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/pfadmin/pfadmin/internal/gql"
	"github.com/pfadmin/pfadmin/pkg/types"
)

// printJSON marshals v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printYAML marshals v as YAML.
func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(v)
}

// printFormatted prints v in JSON or YAML format.
// Returns true if output was printed, false if the table should be used.
func printFormatted(w io.Writer, format types.Format, v any) (bool, error) {
	switch format {
	case types.FormatJSON:
		return true, printJSON(w, v)
	case types.FormatYAML:
		return true, printYAML(w, v)
	}
	return false, nil
}

// newTable returns a borderless, left-aligned table.
func newTable(w io.Writer, headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(headers)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	return table
}

// renderResult prints a query result. Text mode prints the table of shaped
// rows; JSON and YAML print the unshaped result object.
func renderResult(w io.Writer, format types.Format, res *gql.Result) error {
	if ok, err := printFormatted(w, format, res.Raw); ok {
		return err
	}

	table := newTable(w, res.Columns)
	for _, row := range res.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = gql.FormatCell(v)
		}
		table.Append(cells)
	}
	table.Render()
	return nil
}
