package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfadmin/pfadmin/pkg/types"
)

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect executed operations",
		Long:  `Commands for the local history of executed operations.`,
	}

	var limit int
	lsCmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List recent operations",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.historyList(cmd.Context(), limit)
		},
	}
	lsCmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of records to show (0 for all)")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one operation",
		Long:  `Show a history record. The ID may be abbreviated to a unique prefix.`,
		Args:  recordIDArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.historyShow(cmd.Context(), args[0])
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete one operation",
		Args:  recordIDArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.historyDelete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(lsCmd, showCmd, rmCmd)
	return cmd
}

func (a *app) historyList(ctx context.Context, limit int) error {
	store, err := a.historyStore(ctx)
	if err != nil {
		return err
	}
	records, err := store.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if ok, err := printFormatted(a.stdout, a.out, records); ok {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(a.stdout, "No history records found.")
		return nil
	}

	table := newTable(a.stdout, []string{"ID", "OPERATION", "STATUS", "ROWS", "LATENCY_MS", "CREATED"})
	for _, r := range records {
		table.Append([]string{
			shortID(r.ID),
			r.Operation,
			string(r.Status),
			strconv.Itoa(r.Rows),
			strconv.FormatInt(r.LatencyMs, 10),
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
		})
	}
	table.Render()
	return nil
}

func (a *app) historyShow(ctx context.Context, id string) error {
	rec, err := a.findRecord(ctx, id)
	if err != nil {
		return err
	}

	if ok, err := printFormatted(a.stdout, a.out, rec); ok {
		return err
	}

	fmt.Fprintf(a.stdout, "ID:        %s\n", rec.ID)
	fmt.Fprintf(a.stdout, "Operation: %s\n", rec.Operation)
	fmt.Fprintf(a.stdout, "Endpoint:  %s\n", rec.Endpoint)
	fmt.Fprintf(a.stdout, "Status:    %s\n", rec.Status)
	fmt.Fprintf(a.stdout, "Rows:      %d\n", rec.Rows)
	fmt.Fprintf(a.stdout, "Latency:   %dms\n", rec.LatencyMs)
	fmt.Fprintf(a.stdout, "Created:   %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	if len(rec.Variables) > 0 {
		fmt.Fprintf(a.stdout, "Variables: %s\n", rec.Variables)
	}
	if rec.Error != "" {
		fmt.Fprintf(a.stdout, "Error:     %s\n", rec.Error)
	}
	return nil
}

func (a *app) historyDelete(ctx context.Context, id string) error {
	rec, err := a.findRecord(ctx, id)
	if err != nil {
		return err
	}
	store, _ := a.historyStore(ctx)
	if err := store.Delete(ctx, rec.ID); err != nil {
		return fmt.Errorf("failed to delete history record: %w", err)
	}
	fmt.Fprintf(a.stdout, "Deleted %s\n", shortID(rec.ID))
	return nil
}

// findRecord resolves a full or abbreviated record ID.
func (a *app) findRecord(ctx context.Context, id string) (*types.Record, error) {
	store, err := a.historyStore(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get history record: %w", err)
	}
	if rec == nil {
		rec, err = store.GetByPrefix(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get history record: %w", err)
		}
	}
	if rec == nil {
		return nil, fmt.Errorf("history record not found: %s", id)
	}
	return rec, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// recordIDArg requires one non-empty record ID.
func recordIDArg(cmd *cobra.Command, args []string) error {
	if err := exactArgs(1)(cmd, args); err != nil {
		return err
	}
	if strings.TrimSpace(args[0]) == "" {
		return usageError(cmd, "record ID must not be empty")
	}
	return nil
}

// exactArgs requires n positional arguments, as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError(cmd, "accepts %d arg(s), received %d", n, len(args))
		}
		return nil
	}
}
