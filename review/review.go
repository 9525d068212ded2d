package review

import (
	"context"
	"fmt"
	"time"

	"github.com/clings-dev/clings/task"
	"github.com/clings-dev/clings/things"
)

// Decision is the action chosen for one reviewed todo.
type Decision string

const (
	DecisionKeep     Decision = "keep"
	DecisionComplete Decision = "complete"
	DecisionCancel   Decision = "cancel"
	DecisionToday    Decision = "today"
	DecisionSomeday  Decision = "someday"
	DecisionSetDue   Decision = "set-due"
	DecisionStop     Decision = "stop"
)

// Prompter asks the user what to do with one todo. The second return
// carries the decision's argument, currently only the set-due date.
type Prompter interface {
	Decide(stage Stage, t *task.Todo, remaining int) (Decision, string, error)
}

// Client is the slice of the Things bridge a review needs.
type Client interface {
	OpenListsAll(ctx context.Context) (things.OpenLists, error)
	Complete(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Move(ctx context.Context, id, listName string) error
	SetDue(ctx context.Context, id, due string) error
}

// Summary reports how a review run ended.
type Summary struct {
	SessionID string         `json:"session_id"`
	Stage     Stage          `json:"stage"`
	Reviewed  int            `json:"reviewed"`
	Actions   map[string]int `json:"actions"`
	Completed bool           `json:"completed"`
}

// Reviewer drives a review session over the bridge.
type Reviewer struct {
	client Client
	store  *Store
	prompt Prompter
	now    func() time.Time
}

// ReviewerOption configures a Reviewer.
type ReviewerOption func(*Reviewer)

// WithPrompter replaces the interactive prompt.
func WithPrompter(p Prompter) ReviewerOption {
	return func(r *Reviewer) { r.prompt = p }
}

// NewReviewer builds a Reviewer over the given client and state store.
func NewReviewer(client Client, store *Store, options ...ReviewerOption) *Reviewer {
	r := &Reviewer{client: client, store: store, prompt: &huhPrompter{}, now: time.Now}
	for _, o := range options {
		o(r)
	}
	return r
}

// upcomingWindow is how far ahead the deadline stage looks.
const upcomingWindow = 7

// Run executes a review. With resume true it continues the saved session;
// otherwise any saved session is discarded and a new one starts. State is
// saved after every reviewed item, and a stop decision ends the run with
// the session kept for later resumption.
func (r *Reviewer) Run(ctx context.Context, resume bool) (Summary, error) {
	var sess *Session
	if resume {
		saved, err := r.store.Load()
		if err != nil {
			return Summary{}, err
		}
		sess = saved
	}
	if sess == nil || sess.Stage == StageDone {
		sess = NewSession(r.now())
	}

	lists, err := r.client.OpenListsAll(ctx)
	if err != nil {
		return Summary{}, err
	}
	queues := buildQueues(lists, task.DateOf(r.now()))

	stageIdx := stageIndex(sess.Stage)
	for ; stageIdx < len(stageOrder); stageIdx++ {
		stage := stageOrder[stageIdx]
		queue := queues[stage]
		pos := 0
		if stage == sess.Stage {
			pos = sess.Position
		}
		for ; pos < len(queue); pos++ {
			t := queue[pos]
			decision, arg, err := r.prompt.Decide(stage, t, len(queue)-pos-1)
			if err != nil {
				return Summary{}, err
			}
			if decision == DecisionStop {
				sess.Stage = stage
				sess.Position = pos
				sess.UpdatedAt = r.now()
				if err := r.store.Save(sess); err != nil {
					return Summary{}, err
				}
				return summarize(sess, false), nil
			}
			if err := r.apply(ctx, t, decision, arg); err != nil {
				return Summary{}, err
			}
			sess.Reviewed++
			sess.Actions[string(decision)]++
			sess.Stage = stage
			sess.Position = pos + 1
			sess.UpdatedAt = r.now()
			if err := r.store.Save(sess); err != nil {
				return Summary{}, err
			}
		}
		sess.Position = 0
	}

	sess.Stage = StageDone
	sess.UpdatedAt = r.now()
	if err := r.store.Save(sess); err != nil {
		return Summary{}, err
	}
	return summarize(sess, true), nil
}

// Status reports the saved session without touching the bridge. A nil
// summary means no review is in progress.
func (r *Reviewer) Status() (*Summary, error) {
	sess, err := r.store.Load()
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	s := summarize(sess, sess.Stage == StageDone)
	return &s, nil
}

// Clear discards the saved session.
func (r *Reviewer) Clear() error {
	return r.store.Clear()
}

func (r *Reviewer) apply(ctx context.Context, t *task.Todo, d Decision, arg string) error {
	switch d {
	case DecisionKeep:
		return nil
	case DecisionComplete:
		return r.client.Complete(ctx, t.ID)
	case DecisionCancel:
		return r.client.Cancel(ctx, t.ID)
	case DecisionToday:
		return r.client.Move(ctx, t.ID, "Today")
	case DecisionSomeday:
		return r.client.Move(ctx, t.ID, "Someday")
	case DecisionSetDue:
		return r.client.SetDue(ctx, t.ID, arg)
	default:
		return fmt.Errorf("unknown review decision %q", d)
	}
}

func stageIndex(s Stage) int {
	for i, stage := range stageOrder {
		if stage == s {
			return i
		}
	}
	return 0
}

// buildQueues assigns todos to the review stages. Overdue items are
// checked in their own stage, so the upcoming stage only holds due dates
// from today through the next week.
func buildQueues(lists things.OpenLists, today task.Date) map[Stage][]*task.Todo {
	queues := map[Stage][]*task.Todo{
		StageInbox:   lists.Inbox,
		StageSomeday: lists.Someday,
	}

	weekEnd := today.AddDays(upcomingWindow)
	all := make([]*task.Todo, 0, len(lists.Today)+len(lists.Upcoming)+len(lists.Anytime))
	all = append(all, lists.Today...)
	all = append(all, lists.Upcoming...)
	all = append(all, lists.Anytime...)
	for _, t := range all {
		switch {
		case t.Overdue(today):
			queues[StageOverdue] = append(queues[StageOverdue], t)
		case t.DueDate != nil && !t.DueDate.After(weekEnd):
			queues[StageUpcoming] = append(queues[StageUpcoming], t)
		}
	}
	return queues
}

func summarize(sess *Session, completed bool) Summary {
	return Summary{
		SessionID: sess.ID,
		Stage:     sess.Stage,
		Reviewed:  sess.Reviewed,
		Actions:   sess.Actions,
		Completed: completed,
	}
}
