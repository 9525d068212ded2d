package cli

import (
	"context"

	"github.com/spf13/pflag"

	"github.com/clings-dev/clings/config"
	"github.com/clings-dev/clings/output"
	"github.com/clings-dev/clings/review"
)

func (a *App) cmdReview(ctx context.Context, args []string) error {
	fs := a.flagSet("review")
	resume := fs.BoolP("resume", "r", false, "resume a paused review")
	status := fs.BoolP("status", "s", false, "show review progress")
	clear := fs.Bool("clear", false, "discard the saved review session")
	if err := fs.Parse(args); err != nil {
		return err
	}

	statePath := a.statePath
	if statePath == "" {
		statePath = config.GetReviewStateFile()
	}
	var opts []review.ReviewerOption
	if a.prompter != nil {
		opts = append(opts, review.WithPrompter(a.prompter))
	}
	reviewer := review.NewReviewer(a.bridge, review.NewStore(statePath), opts...)
	r := a.renderer(fs)

	if *clear {
		if err := reviewer.Clear(); err != nil {
			return err
		}
		r.Message("Review state cleared.")
		return nil
	}

	if *status {
		summary, err := reviewer.Status()
		if err != nil {
			return err
		}
		if summary == nil {
			if a.format(fs) == output.FormatJSON {
				return r.JSON(map[string]any{"in_progress": false})
			}
			r.Message("No review in progress.")
			return nil
		}
		return a.renderReviewSummary(r, fs, *summary)
	}

	summary, err := reviewer.Run(ctx, *resume)
	if err != nil {
		return err
	}
	return a.renderReviewSummary(r, fs, summary)
}

func (a *App) renderReviewSummary(r *output.Renderer, fs *pflag.FlagSet, s review.Summary) error {
	if a.format(fs) == output.FormatJSON {
		return r.JSON(s)
	}
	state := "paused at " + string(s.Stage)
	if s.Completed {
		state = "complete"
	}
	r.Message("Review %s (session %s)", state, s.SessionID)
	r.Message("Reviewed: %d", s.Reviewed)
	for action, count := range s.Actions {
		r.Message("  %s: %d", action, count)
	}
	return nil
}
