package cli

import (
	"github.com/spf13/cobra"

	"github.com/pfadmin/pfadmin/internal/prefect"
	"github.com/pfadmin/pfadmin/pkg/types"
)

func newFlowRunCmd(a *app) *cobra.Command {
	var flowName string

	cmd := &cobra.Command{
		Use:   "flow_run",
		Short: "List flow runs",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flowName == "" {
				return usageError(cmd, "missing arguments")
			}
			return a.run(cmd.Context(), prefect.OpFlowRunList, types.Variables{"flow_name": flowName})
		},
	}

	cmd.Flags().StringVarP(&flowName, "list", "l", "", "list the runs of flow NAME")

	return cmd
}

func newAgentCmd(a *app) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "List agents",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !list {
				return usageError(cmd, "missing arguments")
			}
			return a.run(cmd.Context(), prefect.OpAgentList, nil)
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "list agents")

	return cmd
}

func newProjectCmd(a *app) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "project",
		Short: "List projects",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !list {
				return usageError(cmd, "missing arguments")
			}
			return a.run(cmd.Context(), prefect.OpProjectList, nil)
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", true, "list projects")

	return cmd
}
