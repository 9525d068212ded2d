package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clings-dev/clings/bulk"
	"github.com/clings-dev/clings/config"
)

var bulkActions = map[string]bulk.Action{
	"complete":  bulk.ActionComplete,
	"cancel":    bulk.ActionCancel,
	"tag":       bulk.ActionTag,
	"move":      bulk.ActionMove,
	"set-due":   bulk.ActionSetDue,
	"clear-due": bulk.ActionClearDue,
}

func (a *App) cmdBulk(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: clings bulk <complete|cancel|tag|move|set-due|clear-due> --where <filter>")
	}
	action, ok := bulkActions[args[0]]
	if !ok {
		return fmt.Errorf("unknown bulk command %q", args[0])
	}

	fs := a.flagSet("bulk " + args[0])
	where := fs.StringP("where", "w", "", "filter expression selecting the todos")
	dryRun := fs.Bool("dry-run", false, "preview without making changes")
	yes := fs.Bool("yes", false, "skip confirmation prompts")
	limit := fs.Int("limit", config.GetBulkLimit(), "maximum items to process, 0 for unlimited")
	to := fs.String("to", "", "target project (move)")
	date := fs.String("date", "", "due date yyyy-mm-dd (set-due)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	op := bulk.Operation{
		Filter: *where,
		Action: action,
		Target: *to,
		Due:    *date,
	}
	if action == bulk.ActionTag {
		for _, t := range fs.Args() {
			op.Tags = append(op.Tags, strings.TrimSpace(t))
		}
	}

	opts := bulk.Options{
		Limit:            *limit,
		ConfirmThreshold: config.GetBulkConfirmThreshold(),
		DryRun:           *dryRun,
		Yes:              *yes,
	}
	var runnerOpts []bulk.RunnerOption
	if a.confirm != nil {
		runnerOpts = append(runnerOpts, bulk.WithConfirm(a.confirm))
	}

	summary, err := bulk.NewRunner(a.bridge, opts, runnerOpts...).Run(ctx, op)
	if err != nil {
		return err
	}
	return a.renderer(fs).BulkSummary(summary)
}
