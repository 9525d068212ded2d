package review

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/clings-dev/clings/task"
)

var stageTitles = map[Stage]string{
	StageInbox:    "Inbox triage",
	StageOverdue:  "Overdue check",
	StageUpcoming: "Upcoming deadlines",
	StageSomeday:  "Someday scan",
}

// huhPrompter is the default interactive prompt.
type huhPrompter struct{}

func (p *huhPrompter) Decide(stage Stage, t *task.Todo, remaining int) (Decision, string, error) {
	title := fmt.Sprintf("%s: %s", stageTitles[stage], t.Name)
	desc := fmt.Sprintf("%d more in this stage", remaining)
	if t.DueDate != nil {
		desc = fmt.Sprintf("due %s, %s", t.DueDate, desc)
	}

	options := []huh.Option[Decision]{
		huh.NewOption("Keep as is", DecisionKeep),
		huh.NewOption("Complete", DecisionComplete),
		huh.NewOption("Cancel", DecisionCancel),
		huh.NewOption("Move to Today", DecisionToday),
		huh.NewOption("Move to Someday", DecisionSomeday),
		huh.NewOption("Set due date", DecisionSetDue),
		huh.NewOption("Stop review", DecisionStop),
	}

	var decision Decision
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[Decision]().
				Title(title).
				Description(desc).
				Options(options...).
				Value(&decision),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return DecisionStop, "", nil
		}
		return DecisionStop, "", fmt.Errorf("review prompt: %w", err)
	}

	if decision != DecisionSetDue {
		return decision, "", nil
	}

	var due string
	input := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Due date (YYYY-MM-DD)").
				Validate(func(s string) error {
					_, err := task.ParseDate(s)
					return err
				}).
				Value(&due),
		),
	).WithTheme(huh.ThemeCharm())

	if err := input.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return DecisionKeep, "", nil
		}
		return DecisionStop, "", fmt.Errorf("review prompt: %w", err)
	}
	return DecisionSetDue, due, nil
}
