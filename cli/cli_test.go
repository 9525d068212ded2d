package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/clings-dev/clings/filter"
	"github.com/clings-dev/clings/review"
	"github.com/clings-dev/clings/task"
	"github.com/clings-dev/clings/things"
)

var cliNow = time.Date(2026, time.March, 16, 12, 0, 0, 0, time.Local)

// fakeBridge satisfies Bridge with canned data and call recording.
type fakeBridge struct {
	todos    []*task.Todo
	projects []*task.Project
	areas    []*task.Area
	tags     []*task.Tag

	added     []things.NewTodo
	completed []string
	cancelled []string
	deleted   []string
	updated   map[string]things.TodoUpdate
	opened    []string
	batchIDs  []string
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{updated: map[string]things.TodoUpdate{}}
}

func (f *fakeBridge) List(ctx context.Context, view things.ListView) ([]*task.Todo, error) {
	return f.todos, nil
}

func (f *fakeBridge) AllTodos(ctx context.Context) ([]*task.Todo, error) { return f.todos, nil }

func (f *fakeBridge) Todo(ctx context.Context, id string) (*task.Todo, error) {
	for _, t := range f.todos {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, &things.Error{Kind: things.ErrNotFound, Detail: "todo " + id}
}

func (f *fakeBridge) Search(ctx context.Context, query string) ([]*task.Todo, error) {
	var out []*task.Todo
	for _, t := range f.todos {
		if strings.Contains(strings.ToLower(t.Name), strings.ToLower(query)) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeBridge) Add(ctx context.Context, t things.NewTodo) (things.CreateResponse, error) {
	f.added = append(f.added, t)
	return things.CreateResponse{ID: "new-1", Name: t.Name}, nil
}

func (f *fakeBridge) Update(ctx context.Context, id string, u things.TodoUpdate) error {
	f.updated[id] = u
	return nil
}

func (f *fakeBridge) Complete(ctx context.Context, id string) error {
	f.completed = append(f.completed, id)
	return nil
}

func (f *fakeBridge) Cancel(ctx context.Context, id string) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

func (f *fakeBridge) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeBridge) Move(ctx context.Context, id, listName string) error { return nil }

func (f *fakeBridge) SetDue(ctx context.Context, id, due string) error { return nil }

func (f *fakeBridge) Projects(ctx context.Context) ([]*task.Project, error) {
	return f.projects, nil
}

func (f *fakeBridge) AddProject(ctx context.Context, p things.NewProject) (things.CreateResponse, error) {
	return things.CreateResponse{ID: "proj-1", Name: p.Name}, nil
}

func (f *fakeBridge) Areas(ctx context.Context) ([]*task.Area, error) { return f.areas, nil }

func (f *fakeBridge) Tags(ctx context.Context) ([]*task.Tag, error) { return f.tags, nil }

func (f *fakeBridge) Open(ctx context.Context, target string) error {
	f.opened = append(f.opened, target)
	return nil
}

func (f *fakeBridge) batch(ids []string) (things.BatchResult, error) {
	f.batchIDs = ids
	return things.BatchResult{Succeeded: len(ids)}, nil
}

func (f *fakeBridge) CompleteBatch(ctx context.Context, ids []string) (things.BatchResult, error) {
	return f.batch(ids)
}

func (f *fakeBridge) CancelBatch(ctx context.Context, ids []string) (things.BatchResult, error) {
	return f.batch(ids)
}

func (f *fakeBridge) AddTagsBatch(ctx context.Context, ids []string, tags string) (things.BatchResult, error) {
	return f.batch(ids)
}

func (f *fakeBridge) MoveBatch(ctx context.Context, ids []string, projectName string) (things.BatchResult, error) {
	return f.batch(ids)
}

func (f *fakeBridge) SetDueBatch(ctx context.Context, ids []string, due string) (things.BatchResult, error) {
	return f.batch(ids)
}

func (f *fakeBridge) ClearDueBatch(ctx context.Context, ids []string) (things.BatchResult, error) {
	return f.batch(ids)
}

func (f *fakeBridge) OpenListsAll(ctx context.Context) (things.OpenLists, error) {
	return things.OpenLists{Inbox: f.todos}, nil
}

func (f *fakeBridge) AllListsAll(ctx context.Context) (things.AllLists, error) {
	return things.AllLists{OpenLists: things.OpenLists{Inbox: f.todos}}, nil
}

type cliFixture struct {
	bridge *fakeBridge
	app    *App
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newFixture(t *testing.T, opts ...AppOption) *cliFixture {
	t.Helper()
	bridge := newFakeBridge()
	bridge.todos = []*task.Todo{
		{ID: "t1", Name: "Buy milk", Status: task.StatusOpen, Tags: []string{"errand"}},
		{ID: "t2", Name: "Write report", Status: task.StatusOpen},
	}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	opts = append([]AppOption{
		WithOutput(stdout, stderr),
		WithNow(func() time.Time { return cliNow }),
		WithStatePath(filepath.Join(t.TempDir(), "review.yaml")),
	}, opts...)
	return &cliFixture{
		bridge: bridge,
		app:    NewApp(bridge, opts...),
		stdout: stdout,
		stderr: stderr,
	}
}

func (f *cliFixture) run(t *testing.T, args ...string) int {
	t.Helper()
	return f.app.Run(context.Background(), args)
}

func TestListDefaultsToToday(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "list"); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, f.stderr)
	}
	out := f.stdout.String()
	for _, want := range []string{"Today", "Buy milk", "Write report"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestListViewAliases(t *testing.T) {
	for _, cmd := range []string{"today", "t", "inbox", "i", "someday", "s", "logbook", "l"} {
		f := newFixture(t)
		if code := f.run(t, cmd); code != 0 {
			t.Errorf("%q exit = %d, stderr: %s", cmd, code, f.stderr)
		}
	}
}

func TestListUnknownView(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "list", "nope"); code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(f.stderr.String(), "unknown list view") {
		t.Errorf("stderr = %q", f.stderr.String())
	}
}

func TestListJSONOutput(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "-o", "json", "list"); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, f.stderr)
	}
	var todos []map[string]any
	if err := json.Unmarshal(f.stdout.Bytes(), &todos); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, f.stdout)
	}
	if len(todos) != 2 {
		t.Errorf("decoded %d todos, want 2", len(todos))
	}
}

func TestOutputFlagAfterSubcommand(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "list", "--output", "json"); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, f.stderr)
	}
	if !json.Valid(f.stdout.Bytes()) {
		t.Errorf("output is not valid JSON:\n%s", f.stdout)
	}
}

func TestOutputFlagBeforeCommandPropagates(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "--output", "json", "todo", "show", "t1"); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, f.stderr)
	}
	if !json.Valid(f.stdout.Bytes()) {
		t.Errorf("output is not valid JSON:\n%s", f.stdout)
	}
}

func TestOutputFlagSubcommandOverridesRoot(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "-o", "pretty", "list", "--output", "json"); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, f.stderr)
	}
	if !json.Valid(f.stdout.Bytes()) {
		t.Errorf("output is not valid JSON:\n%s", f.stdout)
	}
}

func TestListSpecialViews(t *testing.T) {
	f := newFixture(t)
	f.bridge.areas = []*task.Area{{ID: "a1", Name: "Work"}}
	f.bridge.tags = []*task.Tag{{ID: "g1", Name: "urgent"}}
	f.bridge.projects = []*task.Project{{ID: "p1", Name: "Launch", Status: task.StatusOpen}}

	cases := map[string]string{"areas": "Work", "tags": "urgent", "projects": "Launch"}
	for view, want := range cases {
		f.stdout.Reset()
		if code := f.run(t, "list", view); code != 0 {
			t.Fatalf("list %s exit = %d", view, code)
		}
		if !strings.Contains(f.stdout.String(), want) {
			t.Errorf("list %s output missing %q:\n%s", view, want, f.stdout)
		}
	}
}

func TestAddCreatesTodo(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "add", "Buy", "bread", "tomorrow", "#errand"); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, f.stderr)
	}
	if len(f.bridge.added) != 1 {
		t.Fatalf("added %d todos, want 1", len(f.bridge.added))
	}
	nt := f.bridge.added[0]
	if nt.Name != "Buy bread" {
		t.Errorf("Name = %q", nt.Name)
	}
	if nt.When != "2026-03-17" {
		t.Errorf("When = %q", nt.When)
	}
	if len(nt.Tags) != 1 || nt.Tags[0] != "errand" {
		t.Errorf("Tags = %v", nt.Tags)
	}
	if !strings.Contains(f.stdout.String(), "Created todo") {
		t.Errorf("output = %q", f.stdout.String())
	}
}

func TestAddParseOnly(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "add", "--parse-only", "Call", "mom", "friday"); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, f.stderr)
	}
	if len(f.bridge.added) != 0 {
		t.Error("parse-only still created a todo")
	}
	var parsed map[string]any
	if err := json.Unmarshal(f.stdout.Bytes(), &parsed); err != nil {
		t.Fatalf("parse-only output is not JSON: %v", err)
	}
	if parsed["title"] != "Call mom" {
		t.Errorf("title = %v", parsed["title"])
	}
}

func TestAddOverrides(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "add", "--project", "Launch", "-w", "2026-04-01", "Ship", "it"); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, f.stderr)
	}
	nt := f.bridge.added[0]
	if nt.List != "Launch" {
		t.Errorf("List = %q", nt.List)
	}
	if nt.When != "2026-04-01" {
		t.Errorf("When = %q", nt.When)
	}
}

func TestTodoLifecycle(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "todo", "complete", "t1"); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if code := f.run(t, "todo", "cancel", "t2"); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if code := f.run(t, "todo", "delete", "t1"); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if len(f.bridge.completed) != 1 || f.bridge.completed[0] != "t1" {
		t.Errorf("completed = %v", f.bridge.completed)
	}
	if len(f.bridge.cancelled) != 1 || f.bridge.cancelled[0] != "t2" {
		t.Errorf("cancelled = %v", f.bridge.cancelled)
	}
	if len(f.bridge.deleted) != 1 {
		t.Errorf("deleted = %v", f.bridge.deleted)
	}
}

func TestTodoShow(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "todo", "show", "t1"); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, f.stderr)
	}
	if !strings.Contains(f.stdout.String(), "Buy milk") {
		t.Errorf("output = %q", f.stdout.String())
	}
}

func TestTodoShowMissing(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "todo", "show", "ghost"); code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(f.stderr.String(), "not found") {
		t.Errorf("stderr = %q", f.stderr.String())
	}
}

func TestTodoUpdateOnlyChangedFlags(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "todo", "update", "t1", "--title", "New name", "--deadline", "2026-05-01"); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, f.stderr)
	}
	u, ok := f.bridge.updated["t1"]
	if !ok {
		t.Fatal("no update recorded")
	}
	if u.Name == nil || *u.Name != "New name" {
		t.Errorf("Name = %v", u.Name)
	}
	if u.Deadline == nil || *u.Deadline != "2026-05-01" {
		t.Errorf("Deadline = %v", u.Deadline)
	}
	if u.Notes != nil || u.Project != nil {
		t.Error("untouched fields were set")
	}
}

func TestSearchText(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "search", "milk"); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	out := f.stdout.String()
	if !strings.Contains(out, "Buy milk") || strings.Contains(out, "Write report") {
		t.Errorf("output = %q", out)
	}
}

func TestSearchWithFilterExpression(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "search", "--filter", "tags CONTAINS 'errand'"); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, f.stderr)
	}
	out := f.stdout.String()
	if !strings.Contains(out, "Buy milk") || strings.Contains(out, "Write report") {
		t.Errorf("output = %q", out)
	}
}

func TestSearchBadFilterPrintsDiagnostic(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "search", "--filter", "status = "); code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(f.stderr.String(), "^") {
		t.Errorf("stderr missing caret diagnostic:\n%s", f.stderr)
	}
}

func TestSearchTagConvenience(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "search", "--tag", "errand"); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	out := f.stdout.String()
	if !strings.Contains(out, "Buy milk") || strings.Contains(out, "Write report") {
		t.Errorf("output = %q", out)
	}
}

func TestOpenTarget(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "open", "today"); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if len(f.bridge.opened) != 1 || f.bridge.opened[0] != "today" {
		t.Errorf("opened = %v", f.bridge.opened)
	}
}

func TestBulkCompleteDryRun(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "bulk", "complete", "--where", "status = open", "--dry-run"); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, f.stderr)
	}
	if f.bridge.batchIDs != nil {
		t.Error("dry run reached the bridge")
	}
	out := f.stdout.String()
	if !strings.Contains(out, "DRY RUN") || !strings.Contains(out, "Matched: 2") {
		t.Errorf("output = %q", out)
	}
}

func TestBulkCompleteYes(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "bulk", "complete", "--where", "status = open", "--yes"); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, f.stderr)
	}
	if len(f.bridge.batchIDs) != 2 {
		t.Errorf("batch ids = %v", f.bridge.batchIDs)
	}
}

func TestBulkRequiresWhere(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "bulk", "complete"); code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(f.stderr.String(), "--where") {
		t.Errorf("stderr = %q", f.stderr.String())
	}
}

func TestStatsDashboard(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "stats"); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, f.stderr)
	}
	out := f.stdout.String()
	for _, want := range []string{"CURRENT STATUS", "COMPLETIONS", "STREAK"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestStatsJSON(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "-o", "json", "stats"); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	var m map[string]any
	if err := json.Unmarshal(f.stdout.Bytes(), &m); err != nil {
		t.Fatalf("stats JSON invalid: %v", err)
	}
	if _, ok := m["completion"]; !ok {
		t.Error("stats JSON missing completion block")
	}
}

// keepAllPrompter reviews every item with keep.
type keepAllPrompter struct{}

func (keepAllPrompter) Decide(stage review.Stage, t *task.Todo, remaining int) (review.Decision, string, error) {
	return review.DecisionKeep, "", nil
}

func TestReviewRunAndStatus(t *testing.T) {
	f := newFixture(t, WithReviewPrompter(keepAllPrompter{}))
	if code := f.run(t, "review"); code != 0 {
		t.Fatalf("exit = %d, stderr: %s", code, f.stderr)
	}
	if !strings.Contains(f.stdout.String(), "Review complete") {
		t.Errorf("output = %q", f.stdout.String())
	}

	f.stdout.Reset()
	if code := f.run(t, "review", "--status"); code != 0 {
		t.Fatalf("status exit = %d", code)
	}
	if code := f.run(t, "review", "--clear"); code != 0 {
		t.Fatalf("clear exit = %d", code)
	}
}

func TestShellCompletions(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish"} {
		f := newFixture(t)
		if code := f.run(t, "shell", "completions", shell); code != 0 {
			t.Fatalf("%s exit = %d", shell, code)
		}
		if !strings.Contains(f.stdout.String(), "clings") {
			t.Errorf("%s script missing command name", shell)
		}
	}
}

func TestShellUnknown(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "shell", "completions", "tcsh"); code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
}

func TestUnknownCommand(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "frobnicate"); code != 1 {
		t.Fatalf("exit = %d, want 1", code)
	}
	if !strings.Contains(f.stderr.String(), "unknown command") {
		t.Errorf("stderr = %q", f.stderr.String())
	}
}

func TestVersionCommand(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t, "version"); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(f.stdout.String(), "clings version") {
		t.Errorf("output = %q", f.stdout.String())
	}
}

func TestNoArgsPrintsUsage(t *testing.T) {
	f := newFixture(t)
	if code := f.run(t); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(f.stdout.String(), "Usage:") {
		t.Errorf("output = %q", f.stdout.String())
	}
}

func TestUsageAdvertisesOnlySupportedOperators(t *testing.T) {
	for _, op := range []string{"<=", ">="} {
		if strings.Contains(usage, op) {
			t.Errorf("usage lists %q, which the filter language rejects", op)
		}
	}
	if _, err := filter.ParseFilter("status = open AND (due < today OR tags CONTAINS 'urgent')"); err != nil {
		t.Errorf("usage example does not parse: %v", err)
	}
}
