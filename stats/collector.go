// Package stats computes productivity metrics from a snapshot of the
// Things lists and renders them as a dashboard, trends, or a heatmap.
package stats

import (
	"context"
	"time"

	"github.com/clings-dev/clings/task"
	"github.com/clings-dev/clings/things"
)

// Source fetches the list snapshot the collector works from.
type Source interface {
	AllListsAll(ctx context.Context) (things.AllLists, error)
}

// Snapshot is one point-in-time view of every list.
type Snapshot struct {
	Inbox    []*task.Todo
	Today    []*task.Todo
	Upcoming []*task.Todo
	Anytime  []*task.Todo
	Someday  []*task.Todo

	// Completed holds logbook entries, newest first as Things reports them.
	Completed []*task.Todo

	Taken time.Time
}

// Collector snapshots the Things lists over the bridge.
type Collector struct {
	source Source
	now    func() time.Time
}

// NewCollector builds a Collector reading from the given source.
func NewCollector(source Source) *Collector {
	return &Collector{source: source, now: time.Now}
}

// Collect fetches all lists in one round trip.
func (c *Collector) Collect(ctx context.Context) (Snapshot, error) {
	lists, err := c.source.AllListsAll(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Inbox:     lists.Inbox,
		Today:     lists.Today,
		Upcoming:  lists.Upcoming,
		Anytime:   lists.Anytime,
		Someday:   lists.Someday,
		Completed: lists.Logbook,
		Taken:     c.now(),
	}, nil
}

// Open returns every open todo across the non-logbook lists.
func (s Snapshot) Open() []*task.Todo {
	var open []*task.Todo
	for _, list := range [][]*task.Todo{s.Inbox, s.Today, s.Upcoming, s.Anytime, s.Someday} {
		open = append(open, list...)
	}
	return open
}

// completedOn reports the calendar day a logbook entry was closed on.
// Things bumps the modification date when a todo is completed, so that is
// the best available completion timestamp.
func completedOn(t *task.Todo) (task.Date, bool) {
	if t.ModificationDate == nil {
		return task.Date{}, false
	}
	return task.DateOf(*t.ModificationDate), true
}
