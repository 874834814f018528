package cli

import (
	"github.com/spf13/cobra"
)

func newAPICmd(a *app) *cobra.Command {
	var (
		execute string
		params  []string
		names   bool
	)

	cmd := &cobra.Command{
		Use:   "api",
		Short: "Execute a registered GraphQL operation",
		Long: `Execute any registered GraphQL operation by name.

Variables are KEY=VALUE pairs or JSON files whose object is merged in.
Operations come from the built-in set and from descriptor files in the
queries directory.

Examples:
  pfadmin api --names
  pfadmin api -e flow.query -p flow_name=etl
  pfadmin api -e log.list -p /tmp/gql_log.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 && len(params) == 0 {
				return usageError(cmd, "unexpected arguments: %v", args)
			}
			if names {
				return a.listOperations()
			}
			if execute == "" {
				return usageError(cmd, "missing arguments")
			}

			vars, err := BuildVariables(append(params, args...))
			if err != nil {
				a.log.Error().Err(err).Msg("invalid variables")
				return err
			}
			return a.run(cmd.Context(), execute, vars)
		},
	}

	cmd.Flags().StringVarP(&execute, "execute", "e", "", "operation NAME to execute")
	cmd.Flags().StringArrayVarP(&params, "variables", "p", nil, "variable KEY=VALUE or JSON file, repeatable")
	cmd.Flags().BoolVar(&names, "names", false, "list registered operations")

	return cmd
}

func (a *app) listOperations() error {
	descs := a.registry.Descriptors()
	if ok, err := printFormatted(a.stdout, a.out, descs); ok {
		return err
	}

	table := newTable(a.stdout, []string{"NAME", "OBJECT", "DESCRIPTION"})
	for _, d := range descs {
		table.Append([]string{d.Name, d.Object, d.Description})
	}
	table.Render()
	return nil
}
