package cli

import (
	"github.com/spf13/cobra"

	"github.com/pfadmin/pfadmin/internal/prefect"
	"github.com/pfadmin/pfadmin/pkg/types"
)

type flowOptions struct {
	list            bool
	query           string
	enable          string
	disable         string
	params          []string
	group           string
	includeArchived bool
}

func newFlowCmd(a *app) *cobra.Command {
	var o flowOptions

	cmd := &cobra.Command{
		Use:   "flow",
		Short: "List, query and configure flows",
		Long: `List and query flows, toggle flow schedules and set the default
parameters of a flow group.

Parameters are KEY=VALUE pairs or JSON files whose object is merged in:
  pfadmin flow -p A=1 B=2 -g <flow-group-id>
  pfadmin flow -p params.json -g <flow-group-id>`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(o.params) > 0 && o.group == "" {
				return usageError(cmd, "--parameter requires --group, use 'flow -l' to find the flow group id")
			}
			if len(args) > 0 && len(o.params) == 0 {
				return usageError(cmd, "unexpected arguments: %v", args)
			}

			ctx := cmd.Context()
			switch {
			case o.list:
				return a.run(ctx, prefect.OpFlowList, flowListVariables(o.includeArchived))
			case o.query != "":
				return a.run(ctx, prefect.OpFlowQuery, flowQueryVariables(o.query, o.includeArchived))
			case len(o.params) > 0:
				params, err := BuildVariables(append(o.params, args...))
				if err != nil {
					a.log.Error().Err(err).Msg("invalid parameters")
					return err
				}
				return a.run(ctx, prefect.OpFlowSetParameters, types.Variables{
					"flow_group_id": o.group,
					"parameters":    map[string]any(params),
				})
			case o.enable != "":
				return a.run(ctx, prefect.OpFlowScheduleEnable, types.Variables{"flow_id": o.enable})
			case o.disable != "":
				return a.run(ctx, prefect.OpFlowScheduleDisable, types.Variables{"flow_id": o.disable})
			}
			return usageError(cmd, "missing arguments")
		},
	}

	cmd.Flags().BoolVarP(&o.list, "list", "l", false, "list flows")
	cmd.Flags().StringVarP(&o.query, "query", "q", "", "show versions and parameters of flow NAME")
	cmd.Flags().StringVar(&o.enable, "schedule_enable", "", "activate the schedule of flow ID")
	cmd.Flags().StringVar(&o.disable, "schedule_disable", "", "deactivate the schedule of flow ID")
	cmd.Flags().StringArrayVarP(&o.params, "parameter", "p", nil, "default parameter KEY=VALUE or JSON file, repeatable (requires --group)")
	cmd.Flags().StringVarP(&o.group, "group", "g", "", "flow group ID for --parameter")
	cmd.Flags().BoolVarP(&o.includeArchived, "archived", "a", false, "include archived flows")

	return cmd
}

// flowListVariables hides archived flows unless all is set.
func flowListVariables(all bool) types.Variables {
	if all {
		return types.Variables{}
	}
	return types.Variables{"archived": false}
}

func flowQueryVariables(name string, all bool) types.Variables {
	vars := flowListVariables(all)
	vars["flow_name"] = name
	return vars
}
