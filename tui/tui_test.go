package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/clings-dev/clings/config"
	"github.com/clings-dev/clings/task"
	"github.com/clings-dev/clings/things"
)

var tuiNow = time.Date(2026, time.March, 16, 12, 0, 0, 0, time.Local)

type fakeBridge struct {
	lists     map[things.ListView][]*task.Todo
	completed []string
	cancelled []string
	opened    []string
}

func (f *fakeBridge) List(_ context.Context, view things.ListView) ([]*task.Todo, error) {
	return f.lists[view], nil
}

func (f *fakeBridge) Complete(_ context.Context, id string) error {
	f.completed = append(f.completed, id)
	f.remove(id)
	return nil
}

func (f *fakeBridge) Cancel(_ context.Context, id string) error {
	f.cancelled = append(f.cancelled, id)
	f.remove(id)
	return nil
}

func (f *fakeBridge) Open(_ context.Context, target string) error {
	f.opened = append(f.opened, target)
	return nil
}

func (f *fakeBridge) remove(id string) {
	for view, todos := range f.lists {
		kept := todos[:0]
		for _, t := range todos {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		f.lists[view] = kept
	}
}

func newTestUI(t *testing.T) (*UI, *fakeBridge) {
	t.Helper()
	bridge := &fakeBridge{
		lists: map[things.ListView][]*task.Todo{
			things.ListToday: {
				{ID: "t1", Name: "Buy milk", Status: task.StatusOpen},
				{ID: "t2", Name: "Write report", Status: task.StatusOpen},
			},
			things.ListInbox: {
				{ID: "t3", Name: "Sort mail", Status: task.StatusOpen},
			},
		},
	}
	u := NewUI(bridge, WithNow(func() time.Time { return tuiNow }))
	if err := u.reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return u, bridge
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestReloadBuildsRows(t *testing.T) {
	u, _ := newTestUI(t)

	if got := u.list.GetItemCount(); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}
	if got := u.list.GetTitle(); got != " Today (2) " {
		t.Fatalf("unexpected title %q", got)
	}
}

func TestNavigationKeysRemap(t *testing.T) {
	u, _ := newTestUI(t)
	ctx := context.Background()

	down := u.handleKey(ctx, key('j'))
	if down == nil || down.Key() != tcell.KeyDown {
		t.Fatalf("expected j to remap to KeyDown, got %v", down)
	}
	up := u.handleKey(ctx, key('k'))
	if up == nil || up.Key() != tcell.KeyUp {
		t.Fatalf("expected k to remap to KeyUp, got %v", up)
	}
	if passed := u.handleKey(ctx, key('z')); passed == nil {
		t.Fatal("expected unbound key to fall through")
	}
}

func TestJumpKeys(t *testing.T) {
	u, _ := newTestUI(t)
	ctx := context.Background()

	u.handleKey(ctx, key('G'))
	if got := u.list.GetCurrentItem(); got != 1 {
		t.Fatalf("expected G to jump to last row, got %d", got)
	}
	u.handleKey(ctx, key('g'))
	if got := u.list.GetCurrentItem(); got != 0 {
		t.Fatalf("expected g to jump to first row, got %d", got)
	}
}

func TestCompleteSelectedRefreshesList(t *testing.T) {
	u, bridge := newTestUI(t)

	u.handleKey(context.Background(), key('c'))

	if len(bridge.completed) != 1 || bridge.completed[0] != "t1" {
		t.Fatalf("expected t1 completed, got %v", bridge.completed)
	}
	if got := u.list.GetItemCount(); got != 1 {
		t.Fatalf("expected 1 row after complete, got %d", got)
	}
}

func TestCancelSelected(t *testing.T) {
	u, bridge := newTestUI(t)

	u.list.SetCurrentItem(1)
	u.handleKey(context.Background(), key('x'))

	if len(bridge.cancelled) != 1 || bridge.cancelled[0] != "t2" {
		t.Fatalf("expected t2 cancelled, got %v", bridge.cancelled)
	}
}

func TestEnterOpensSelection(t *testing.T) {
	u, bridge := newTestUI(t)

	u.handleKey(context.Background(), tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

	if len(bridge.opened) != 1 || bridge.opened[0] != "t1" {
		t.Fatalf("expected t1 opened, got %v", bridge.opened)
	}
}

func TestTabCyclesLists(t *testing.T) {
	u, _ := newTestUI(t)

	u.handleKey(context.Background(), tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))

	if u.view != things.ListInbox {
		t.Fatalf("expected Inbox after tab, got %s", u.view)
	}
	if got := u.list.GetItemCount(); got != 1 {
		t.Fatalf("expected 1 inbox row, got %d", got)
	}
}

func TestMutateOnEmptyListIsNoop(t *testing.T) {
	bridge := &fakeBridge{lists: map[things.ListView][]*task.Todo{}}
	u := NewUI(bridge, WithNow(func() time.Time { return tuiNow }))
	if err := u.reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	u.handleKey(context.Background(), key('c'))

	if len(bridge.completed) != 0 {
		t.Fatalf("expected no completion calls, got %v", bridge.completed)
	}
}

func TestTodoLineMarkup(t *testing.T) {
	colors := config.DefaultColors()
	today := task.Date{Year: 2026, Month: time.March, Day: 16}
	overdue := task.Date{Year: 2026, Month: time.March, Day: 10}
	project := "Website"

	todo := &task.Todo{
		ID:      "t1",
		Name:    "Fix login",
		Status:  task.StatusOpen,
		DueDate: &overdue,
		Project: &project,
		Tags:    []string{"urgent"},
	}

	line := todoLine(todo, colors, today)
	for _, want := range []string{"Fix login", colors.OverdueText + "2026-03-10", colors.ProjectText + "Website", colors.TagText + "#urgent"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}

	done := &task.Todo{ID: "t2", Name: "Done thing", Status: task.StatusCompleted}
	doneLine := todoLine(done, colors, today)
	if !strings.HasPrefix(doneLine, colors.CompletedText) {
		t.Errorf("completed line %q should start with %q", doneLine, colors.CompletedText)
	}
}

func TestHelpLineListsBindings(t *testing.T) {
	line := helpLine(config.DefaultColors())
	for _, want := range []string{"j/k", "complete", "cancel", "quit", "open in Things"} {
		if !strings.Contains(line, want) {
			t.Errorf("help line missing %q", want)
		}
	}
}
