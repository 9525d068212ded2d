package things

import (
	"fmt"
	"strings"

	"github.com/clings-dev/clings/task"
)

// ListView names one of the built-in Things 3 lists.
type ListView int

const (
	ListInbox ListView = iota
	ListToday
	ListUpcoming
	ListAnytime
	ListSomeday
	ListLogbook
	ListTrash
)

var listViewNames = map[ListView]string{
	ListInbox:    "Inbox",
	ListToday:    "Today",
	ListUpcoming: "Upcoming",
	ListAnytime:  "Anytime",
	ListSomeday:  "Someday",
	ListLogbook:  "Logbook",
	ListTrash:    "Trash",
}

func (v ListView) String() string {
	if name, ok := listViewNames[v]; ok {
		return name
	}
	return fmt.Sprintf("ListView(%d)", int(v))
}

// ParseListView resolves a user-supplied list name. The second return is
// false for names that match no built-in list.
func ParseListView(name string) (ListView, bool) {
	for view, label := range listViewNames {
		if strings.EqualFold(name, label) {
			return view, true
		}
	}
	return ListInbox, false
}

// ListViewNames returns the built-in list names in display order.
func ListViewNames() []string {
	return []string{"Inbox", "Today", "Upcoming", "Anytime", "Someday", "Logbook", "Trash"}
}

// CreateResponse is returned by todo and project creation.
type CreateResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BatchError records one failed item inside a batch operation.
type BatchError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BatchResult summarizes a batch mutation. Batch scripts count per-item
// failures instead of aborting, so Succeeded+Failed equals the request size.
type BatchResult struct {
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Errors    []BatchError `json:"errors"`
}

// OpenLists holds the open (not yet logged) built-in lists fetched in a
// single round trip.
type OpenLists struct {
	Inbox    []*task.Todo `json:"inbox"`
	Today    []*task.Todo `json:"today"`
	Upcoming []*task.Todo `json:"upcoming"`
	Anytime  []*task.Todo `json:"anytime"`
	Someday  []*task.Todo `json:"someday"`
}

// AllLists extends OpenLists with the Logbook, capped to recent completions.
type AllLists struct {
	OpenLists
	Logbook []*task.Todo `json:"logbook"`
}
