package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/pfadmin/pfadmin/internal/gql"
	"github.com/pfadmin/pfadmin/internal/history"
	"github.com/pfadmin/pfadmin/pkg/types"
)

// run executes the registered operation name, records it in the history
// and prints the result.
func (a *app) run(ctx context.Context, name string, vars types.Variables) error {
	factory, ok := a.registry.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown operation %q (see 'pfadmin api --names')", name)
	}
	desc, _ := a.registry.Describe(name)

	a.log.Info().Str("operation", name).Msg("executing")
	a.log.Debug().Str("operation", name).Interface("variables", history.Redact(vars, desc.Redact)).Msg("variables")

	start := time.Now()
	res, err := factory(a.client).Execute(ctx, vars)
	elapsed := time.Since(start)
	a.record(ctx, desc, vars, res, elapsed, err)
	if err != nil {
		a.log.Error().Err(err).Str("operation", name).Msg("operation failed")
		return err
	}

	a.log.Info().Str("operation", name).Int("rows", len(res.Rows)).Dur("elapsed", elapsed).Msg("done")
	return renderResult(a.stdout, a.out, res)
}

// record adds the executed operation to the history. Failures are logged
// and otherwise ignored.
func (a *app) record(ctx context.Context, desc gql.Descriptor, vars types.Variables, res *gql.Result, elapsed time.Duration, runErr error) {
	if !a.cfg.History.Enabled {
		return
	}

	store, err := a.historyStore(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("history unavailable")
		return
	}

	rec, err := history.NewRecord(desc.Name, a.cfg.API.URL, vars, desc.Redact)
	if err != nil {
		a.log.Warn().Err(err).Msg("failed to encode history variables")
		return
	}
	rows := 0
	if res != nil {
		rows = len(res.Rows)
	}
	history.Finish(rec, rows, elapsed, runErr)

	if err := store.Add(ctx, rec); err != nil {
		a.log.Warn().Err(err).Msg("failed to record history")
	}
}

// historyStore opens the history store on first use.
func (a *app) historyStore(ctx context.Context) (history.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := a.openHistory(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}
