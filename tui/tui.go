// Package tui implements the interactive terminal view: a single navigable
// todo list backed by the Things bridge.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/clings-dev/clings/config"
	"github.com/clings-dev/clings/task"
	"github.com/clings-dev/clings/things"
)

// Bridge is the slice of the Things client the terminal view drives.
type Bridge interface {
	List(ctx context.Context, view things.ListView) ([]*task.Todo, error)
	Complete(ctx context.Context, id string) error
	Cancel(ctx context.Context, id string) error
	Open(ctx context.Context, target string) error
}

// cycleOrder is the tab rotation through the open lists.
var cycleOrder = []things.ListView{
	things.ListToday,
	things.ListInbox,
	things.ListUpcoming,
	things.ListAnytime,
	things.ListSomeday,
}

// UI owns the tview application and the widgets of the list screen.
type UI struct {
	app    *tview.Application
	bridge Bridge
	colors *config.ColorConfig
	now    func() time.Time

	view  things.ListView
	todos []*task.Todo

	list   *tview.List
	status *tview.TextView
	help   *tview.TextView
}

// Option customizes a UI.
type Option func(*UI)

// WithListView sets the list shown on startup instead of Today.
func WithListView(view things.ListView) Option {
	return func(u *UI) { u.view = view }
}

// WithNow overrides the clock used for overdue highlighting.
func WithNow(now func() time.Time) Option {
	return func(u *UI) { u.now = now }
}

// NewUI builds the list screen against the given bridge.
func NewUI(bridge Bridge, opts ...Option) *UI {
	u := &UI{
		app:    tview.NewApplication(),
		bridge: bridge,
		colors: config.GetColors(),
		now:    time.Now,
		view:   things.ListToday,
	}
	for _, opt := range opts {
		opt(u)
	}

	u.list = tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true).
		SetSelectedTextColor(u.colors.TodoSelectedText).
		SetSelectedBackgroundColor(u.colors.TodoSelectedBackground)
	u.list.SetBorder(true).
		SetBorderColor(u.colors.Border).
		SetTitleColor(u.colors.TitleText)

	u.status = tview.NewTextView().SetDynamicColors(true)
	u.status.SetTextColor(u.colors.StatusText)

	u.help = tview.NewTextView().SetDynamicColors(true)
	u.help.SetText(helpLine(u.colors))

	return u
}

// Run loads the initial list and blocks in the tview event loop until the
// user quits. The context is passed to every bridge call.
func (u *UI) Run(ctx context.Context) error {
	if err := u.reload(ctx); err != nil {
		return err
	}

	u.list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		return u.handleKey(ctx, event)
	})

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(u.list, 0, 1, true).
		AddItem(u.status, 1, 0, false).
		AddItem(u.help, 1, 0, false)

	u.app.SetRoot(layout, true).EnableMouse(false)
	if err := u.app.Run(); err != nil {
		return fmt.Errorf("run application: %w", err)
	}
	return nil
}

// handleKey translates the key bindings into bridge calls and list motion.
// Unhandled events fall through to the list widget.
func (u *UI) handleKey(ctx context.Context, event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		u.app.Stop()
		return nil
	case tcell.KeyTab:
		u.cycleView(ctx)
		return nil
	case tcell.KeyEnter:
		u.openSelected(ctx)
		return nil
	}

	switch event.Rune() {
	case 'q':
		u.app.Stop()
		return nil
	case 'j':
		return tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)
	case 'k':
		return tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)
	case 'g':
		u.list.SetCurrentItem(0)
		return nil
	case 'G':
		u.list.SetCurrentItem(u.list.GetItemCount() - 1)
		return nil
	case 'r':
		if err := u.reload(ctx); err != nil {
			u.setStatus("reload failed: %v", err)
		}
		return nil
	case 'c':
		u.mutateSelected(ctx, "completed", u.bridge.Complete)
		return nil
	case 'x':
		u.mutateSelected(ctx, "canceled", u.bridge.Cancel)
		return nil
	}

	return event
}

// reload fetches the current list and rebuilds the rows, keeping the
// selection clamped to the new item count.
func (u *UI) reload(ctx context.Context) error {
	todos, err := u.bridge.List(ctx, u.view)
	if err != nil {
		return fmt.Errorf("load %s: %w", u.view, err)
	}

	selected := u.list.GetCurrentItem()
	u.todos = todos
	u.list.Clear()

	today := task.DateOf(u.now())
	for _, t := range todos {
		u.list.AddItem(todoLine(t, u.colors, today), "", 0, nil)
	}
	u.list.SetTitle(listTitle(u.view.String(), len(todos)))

	if len(todos) > 0 {
		if selected >= len(todos) {
			selected = len(todos) - 1
		}
		if selected < 0 {
			selected = 0
		}
		u.list.SetCurrentItem(selected)
	}
	return nil
}

// cycleView advances to the next open list.
func (u *UI) cycleView(ctx context.Context) {
	for i, view := range cycleOrder {
		if view == u.view {
			u.view = cycleOrder[(i+1)%len(cycleOrder)]
			break
		}
	}
	u.list.SetCurrentItem(0)
	if err := u.reload(ctx); err != nil {
		u.setStatus("load failed: %v", err)
	}
}

// selected returns the todo under the cursor, or nil on an empty list.
func (u *UI) selected() *task.Todo {
	i := u.list.GetCurrentItem()
	if i < 0 || i >= len(u.todos) {
		return nil
	}
	return u.todos[i]
}

// mutateSelected applies a single-item mutation to the cursor row and
// refreshes the list afterwards.
func (u *UI) mutateSelected(ctx context.Context, verb string, fn func(context.Context, string) error) {
	t := u.selected()
	if t == nil {
		return
	}
	if err := fn(ctx, t.ID); err != nil {
		u.setStatus("%v", err)
		return
	}
	u.setStatus("%s %q", verb, t.Name)
	if err := u.reload(ctx); err != nil {
		u.setStatus("reload failed: %v", err)
	}
}

// openSelected shows the cursor row in the Things app.
func (u *UI) openSelected(ctx context.Context) {
	t := u.selected()
	if t == nil {
		return
	}
	if err := u.bridge.Open(ctx, t.ID); err != nil {
		u.setStatus("%v", err)
		return
	}
	u.setStatus("opened %q in Things", t.Name)
}

func (u *UI) setStatus(format string, args ...any) {
	u.status.SetText(" " + fmt.Sprintf(format, args...))
}
