// Package bulk applies a single mutation to every todo matching a filter
// expression, with guard rails against accidental mass changes: a batch
// size limit, a confirmation prompt above a threshold, and a dry-run mode
// that previews the outcome without touching Things.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/clings-dev/clings/filter"
	"github.com/clings-dev/clings/task"
	"github.com/clings-dev/clings/things"
)

// Action identifies the mutation a bulk run performs.
type Action int

const (
	ActionComplete Action = iota
	ActionCancel
	ActionTag
	ActionMove
	ActionSetDue
	ActionClearDue
)

func (a Action) String() string {
	switch a {
	case ActionComplete:
		return "complete"
	case ActionCancel:
		return "cancel"
	case ActionTag:
		return "tag"
	case ActionMove:
		return "move"
	case ActionSetDue:
		return "set-due"
	case ActionClearDue:
		return "clear-due"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Operation describes one bulk run: the filter selecting the todos and the
// action applied to them. Tags, Target, and Due are only read by the
// actions that need them.
type Operation struct {
	Filter string
	Action Action
	Tags   []string // ActionTag
	Target string   // ActionMove, destination project or area name
	Due    string   // ActionSetDue, yyyy-mm-dd
}

// Options carries the safety settings for a run.
type Options struct {
	// Limit caps how many todos one run may touch. Zero means unlimited,
	// which is only honored together with Yes.
	Limit int
	// ConfirmThreshold is the match count above which a confirmation
	// prompt is required.
	ConfirmThreshold int
	// DryRun previews the run without applying any change.
	DryRun bool
	// Yes skips the confirmation prompt, for scripting.
	Yes bool
}

// Client is the slice of the Things bridge a bulk run needs.
type Client interface {
	AllTodos(ctx context.Context) ([]*task.Todo, error)
	CompleteBatch(ctx context.Context, ids []string) (things.BatchResult, error)
	CancelBatch(ctx context.Context, ids []string) (things.BatchResult, error)
	AddTagsBatch(ctx context.Context, ids []string, tags string) (things.BatchResult, error)
	MoveBatch(ctx context.Context, ids []string, projectName string) (things.BatchResult, error)
	SetDueBatch(ctx context.Context, ids []string, due string) (things.BatchResult, error)
	ClearDueBatch(ctx context.Context, ids []string) (things.BatchResult, error)
}

// ItemResult records the outcome for a single todo.
type ItemResult struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Summary reports what a run did, or would do under dry-run.
type Summary struct {
	Action    string       `json:"action"`
	Filter    string       `json:"filter"`
	DryRun    bool         `json:"dry_run"`
	Matched   int          `json:"matched"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Items     []ItemResult `json:"items"`
}

// ErrCancelled is returned when the user declines the confirmation prompt.
var ErrCancelled = errors.New("operation cancelled, no changes were made")

// LimitError reports a match count over the configured limit when the run
// was not authorized to truncate.
type LimitError struct {
	Matched int
	Limit   int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf(
		"operation would affect %d items, which exceeds the limit of %d\n"+
			"Use --limit %d to raise the limit, or --yes to process the first %d.\n"+
			"Use --dry-run first to preview what would be affected.",
		e.Matched, e.Limit, e.Matched, e.Limit)
}

// ConfirmFunc asks the user to approve an action over the previewed items.
// more is the count of matched items beyond the preview.
type ConfirmFunc func(action string, preview []string, more int) (bool, error)

// Runner executes bulk operations against a Things client.
type Runner struct {
	client  Client
	opts    Options
	confirm ConfirmFunc
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithConfirm replaces the interactive confirmation prompt.
func WithConfirm(f ConfirmFunc) RunnerOption {
	return func(r *Runner) { r.confirm = f }
}

// NewRunner builds a Runner over the given client and safety options.
func NewRunner(client Client, opts Options, options ...RunnerOption) *Runner {
	r := &Runner{client: client, opts: opts, confirm: promptConfirm}
	for _, o := range options {
		o(r)
	}
	return r
}

const previewCount = 10

// Run selects the todos matching op.Filter and applies op.Action to them,
// enforcing the limit and confirmation rails. A parse failure surfaces the
// filter error unchanged so callers can print its diagnostic.
func (r *Runner) Run(ctx context.Context, op Operation) (Summary, error) {
	if strings.TrimSpace(op.Filter) == "" {
		return Summary{}, fmt.Errorf("a filter is required for bulk %s, pass one with --where", op.Action)
	}
	if op.Action == ActionTag && len(op.Tags) == 0 {
		return Summary{}, errors.New("at least one tag is required for bulk tag")
	}
	if op.Action == ActionMove && op.Target == "" {
		return Summary{}, errors.New("a destination is required for bulk move, pass one with --to")
	}
	if op.Action == ActionSetDue && op.Due == "" {
		return Summary{}, errors.New("a date is required for bulk set-due, pass one with --date")
	}

	expr, err := filter.ParseFilter(op.Filter)
	if err != nil {
		return Summary{}, err
	}

	todos, err := r.client.AllTodos(ctx)
	if err != nil {
		return Summary{}, err
	}
	matched := filter.Select(todos, expr)
	total := len(matched)

	if r.opts.Limit > 0 && total > r.opts.Limit {
		if !r.opts.Yes {
			return Summary{}, &LimitError{Matched: total, Limit: r.opts.Limit}
		}
		matched = matched[:r.opts.Limit]
	}

	if !r.opts.DryRun && !r.opts.Yes && len(matched) > r.opts.ConfirmThreshold {
		preview := make([]string, 0, previewCount)
		for _, t := range matched {
			if len(preview) == previewCount {
				break
			}
			preview = append(preview, fmt.Sprintf("%s (%s)", t.Name, t.ID))
		}
		ok, err := r.confirm(strings.ToUpper(op.Action.String()), preview, len(matched)-len(preview))
		if err != nil {
			return Summary{}, err
		}
		if !ok {
			return Summary{}, ErrCancelled
		}
	}

	summary := Summary{
		Action:  op.Action.String(),
		Filter:  op.Filter,
		DryRun:  r.opts.DryRun,
		Matched: len(matched),
	}

	if r.opts.DryRun {
		for _, t := range matched {
			summary.Items = append(summary.Items, ItemResult{ID: t.ID, Name: t.Name, Success: true})
		}
		return summary, nil
	}

	ids := make([]string, len(matched))
	for i, t := range matched {
		ids[i] = t.ID
	}

	result, err := r.dispatch(ctx, op, ids)
	if err != nil {
		return Summary{}, err
	}

	failures := make(map[string]string, len(result.Errors))
	for _, e := range result.Errors {
		failures[e.ID] = e.Error
	}
	for _, t := range matched {
		item := ItemResult{ID: t.ID, Name: t.Name, Success: true}
		if msg, ok := failures[t.ID]; ok {
			item.Success = false
			item.Error = msg
		}
		summary.Items = append(summary.Items, item)
	}
	summary.Succeeded = result.Succeeded
	summary.Failed = result.Failed
	return summary, nil
}

func (r *Runner) dispatch(ctx context.Context, op Operation, ids []string) (things.BatchResult, error) {
	switch op.Action {
	case ActionComplete:
		return r.client.CompleteBatch(ctx, ids)
	case ActionCancel:
		return r.client.CancelBatch(ctx, ids)
	case ActionTag:
		return r.client.AddTagsBatch(ctx, ids, strings.Join(op.Tags, ", "))
	case ActionMove:
		return r.client.MoveBatch(ctx, ids, op.Target)
	case ActionSetDue:
		return r.client.SetDueBatch(ctx, ids, op.Due)
	case ActionClearDue:
		return r.client.ClearDueBatch(ctx, ids)
	default:
		return things.BatchResult{}, fmt.Errorf("unknown bulk action %q", op.Action)
	}
}
