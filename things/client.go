// Package things bridges to the Things 3 application on macOS. Reads prefer
// the read-only database mirror and fall back to JXA automation scripts run
// through osascript; all mutations go through JXA.
package things

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/clings-dev/clings/task"
)

// Runner executes a JXA script and returns its stdout. Implementations
// classify failures into *Error values.
type Runner interface {
	Run(ctx context.Context, script string) ([]byte, error)
}

// osascriptRunner shells out to /usr/bin/osascript with the JavaScript
// language flag.
type osascriptRunner struct{}

func (osascriptRunner) Run(ctx context.Context, script string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "osascript", "-l", "JavaScript", "-e", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, ClassifyStderr(stderr.String())
		}
		return nil, &Error{Kind: ErrScript, Detail: err.Error()}
	}
	return stdout.Bytes(), nil
}

// Client talks to Things 3. The zero value is not usable; construct with
// NewClient.
type Client struct {
	run    Runner
	mirror *Mirror
	log    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRunner replaces the osascript runner, mainly for tests.
func WithRunner(r Runner) Option {
	return func(c *Client) { c.run = r }
}

// WithMirror attaches a read-only database mirror. Reads go to the mirror
// first and fall back to JXA when the mirror fails.
func WithMirror(m *Mirror) Option {
	return func(c *Client) { c.mirror = m }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient returns a Client backed by osascript.
func NewClient(opts ...Option) *Client {
	c := &Client{
		run: osascriptRunner{},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// execute runs a script and decodes its JSON output into T. Empty output
// decodes as the zero value, which for slice types is an empty list.
func execute[T any](ctx context.Context, c *Client, script string) (T, error) {
	var result T

	out, err := c.run.Run(ctx, script)
	if err != nil {
		return result, err
	}

	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return result, nil
	}
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return result, &Error{Kind: ErrParse, Detail: err.Error()}
	}
	return result, nil
}

// executeVoid runs a script whose output is discarded.
func (c *Client) executeVoid(ctx context.Context, script string) error {
	_, err := c.run.Run(ctx, script)
	return err
}

// List returns the todos in a built-in list.
func (c *Client) List(ctx context.Context, view ListView) ([]*task.Todo, error) {
	if c.mirror != nil {
		todos, err := c.mirror.List(ctx, view)
		if err == nil {
			return todos, nil
		}
		c.log.Debug("mirror read failed, falling back to JXA", "view", view.String(), "error", err)
	}
	return execute[[]*task.Todo](ctx, c, listScript(view))
}

// AllTodos returns every todo Things knows about, including logged ones.
func (c *Client) AllTodos(ctx context.Context) ([]*task.Todo, error) {
	if c.mirror != nil {
		todos, err := c.mirror.AllTodos(ctx)
		if err == nil {
			return todos, nil
		}
		c.log.Debug("mirror read failed, falling back to JXA", "error", err)
	}
	return execute[[]*task.Todo](ctx, c, allTodosScript())
}

// Todo fetches a single todo by ID, including its checklist.
func (c *Client) Todo(ctx context.Context, id string) (*task.Todo, error) {
	if c.mirror != nil {
		todo, err := c.mirror.Todo(ctx, id)
		if err == nil {
			return todo, nil
		}
		c.log.Debug("mirror read failed, falling back to JXA", "id", id, "error", err)
	}
	return execute[*task.Todo](ctx, c, todoScript(id))
}

// Search returns todos whose name or notes contain the query,
// case-insensitively.
func (c *Client) Search(ctx context.Context, query string) ([]*task.Todo, error) {
	if c.mirror != nil {
		todos, err := c.mirror.Search(ctx, query)
		if err == nil {
			return todos, nil
		}
		c.log.Debug("mirror search failed, falling back to JXA", "error", err)
	}
	return execute[[]*task.Todo](ctx, c, searchScript(query))
}

// Add creates a todo and returns its ID.
func (c *Client) Add(ctx context.Context, t NewTodo) (CreateResponse, error) {
	return execute[CreateResponse](ctx, c, addTodoScript(t))
}

// Update applies a partial update to a todo.
func (c *Client) Update(ctx context.Context, id string, u TodoUpdate) error {
	return c.executeVoid(ctx, updateTodoScript(id, u))
}

// Complete marks a todo completed.
func (c *Client) Complete(ctx context.Context, id string) error {
	return c.executeVoid(ctx, setStatusScript(id, "completed"))
}

// Cancel marks a todo canceled.
func (c *Client) Cancel(ctx context.Context, id string) error {
	return c.executeVoid(ctx, setStatusScript(id, "canceled"))
}

// Delete cancels a todo. The Things scripting dictionary has no way to move
// items to the trash, so true deletion must happen in the app.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.Cancel(ctx, id)
}

// AddTags appends comma-separated tags to a todo's existing tags.
func (c *Client) AddTags(ctx context.Context, id, tags string) error {
	return c.executeVoid(ctx, addTagsScript(id, tags))
}

// Move moves a todo into a built-in list or a project, by name.
func (c *Client) Move(ctx context.Context, id, listName string) error {
	return c.executeVoid(ctx, moveScript(id, listName))
}

// SetDue sets a todo's due date. The date is passed to JavaScript's Date
// constructor, so YYYY-MM-DD works.
func (c *Client) SetDue(ctx context.Context, id, due string) error {
	return c.executeVoid(ctx, setDueScript(id, due))
}

// ClearDue removes a todo's due date.
func (c *Client) ClearDue(ctx context.Context, id string) error {
	return c.executeVoid(ctx, clearDueScript(id))
}

// Projects returns all projects.
func (c *Client) Projects(ctx context.Context) ([]*task.Project, error) {
	if c.mirror != nil {
		projects, err := c.mirror.Projects(ctx)
		if err == nil {
			return projects, nil
		}
		c.log.Debug("mirror read failed, falling back to JXA", "error", err)
	}
	return execute[[]*task.Project](ctx, c, projectsScript())
}

// AddProject creates a project and returns its ID.
func (c *Client) AddProject(ctx context.Context, p NewProject) (CreateResponse, error) {
	return execute[CreateResponse](ctx, c, addProjectScript(p))
}

// ProjectTodos returns the todos belonging to a project, by project name.
func (c *Client) ProjectTodos(ctx context.Context, projectName string) ([]*task.Todo, error) {
	if c.mirror != nil {
		todos, err := c.mirror.ProjectTodos(ctx, projectName)
		if err == nil {
			return todos, nil
		}
		c.log.Debug("mirror read failed, falling back to JXA", "project", projectName, "error", err)
	}
	return execute[[]*task.Todo](ctx, c, projectTodosScript(projectName))
}

// Areas returns all areas.
func (c *Client) Areas(ctx context.Context) ([]*task.Area, error) {
	if c.mirror != nil {
		areas, err := c.mirror.Areas(ctx)
		if err == nil {
			return areas, nil
		}
		c.log.Debug("mirror read failed, falling back to JXA", "error", err)
	}
	return execute[[]*task.Area](ctx, c, areasScript())
}

// Tags returns all tags.
func (c *Client) Tags(ctx context.Context) ([]*task.Tag, error) {
	if c.mirror != nil {
		tags, err := c.mirror.Tags(ctx)
		if err == nil {
			return tags, nil
		}
		c.log.Debug("mirror read failed, falling back to JXA", "error", err)
	}
	return execute[[]*task.Tag](ctx, c, tagsScript())
}

// Open activates Things and shows a built-in list, todo, or project. The
// target is treated as a list name when it matches one, otherwise as an ID.
func (c *Client) Open(ctx context.Context, target string) error {
	if view, ok := ParseListView(target); ok {
		return c.executeVoid(ctx, openListScript(view.String()))
	}
	return c.executeVoid(ctx, openItemScript(target))
}

// CompleteBatch completes multiple todos in one osascript round trip.
func (c *Client) CompleteBatch(ctx context.Context, ids []string) (BatchResult, error) {
	if len(ids) == 0 {
		return BatchResult{}, nil
	}
	return execute[BatchResult](ctx, c, batchStatusScript(ids, "completed"))
}

// CancelBatch cancels multiple todos in one osascript round trip.
func (c *Client) CancelBatch(ctx context.Context, ids []string) (BatchResult, error) {
	if len(ids) == 0 {
		return BatchResult{}, nil
	}
	return execute[BatchResult](ctx, c, batchStatusScript(ids, "canceled"))
}

// AddTagsBatch appends tags to multiple todos in one round trip.
func (c *Client) AddTagsBatch(ctx context.Context, ids []string, tags string) (BatchResult, error) {
	if len(ids) == 0 {
		return BatchResult{}, nil
	}
	return execute[BatchResult](ctx, c, batchAddTagsScript(ids, tags))
}

// MoveBatch moves multiple todos into a project in one round trip.
func (c *Client) MoveBatch(ctx context.Context, ids []string, projectName string) (BatchResult, error) {
	if len(ids) == 0 {
		return BatchResult{}, nil
	}
	return execute[BatchResult](ctx, c, batchMoveScript(ids, projectName))
}

// SetDueBatch sets the due date on multiple todos in one round trip.
func (c *Client) SetDueBatch(ctx context.Context, ids []string, due string) (BatchResult, error) {
	if len(ids) == 0 {
		return BatchResult{}, nil
	}
	return execute[BatchResult](ctx, c, batchSetDueScript(ids, due))
}

// ClearDueBatch clears the due date on multiple todos in one round trip.
func (c *Client) ClearDueBatch(ctx context.Context, ids []string) (BatchResult, error) {
	if len(ids) == 0 {
		return BatchResult{}, nil
	}
	return execute[BatchResult](ctx, c, batchClearDueScript(ids))
}

// OpenListsAll fetches the five open lists in a single round trip. Used by
// stats collection to avoid five osascript launches.
func (c *Client) OpenListsAll(ctx context.Context) (OpenLists, error) {
	return execute[OpenLists](ctx, c, openListsScript())
}

// AllListsAll fetches the open lists plus recent Logbook entries in a
// single round trip.
func (c *Client) AllListsAll(ctx context.Context) (AllLists, error) {
	return execute[AllLists](ctx, c, allListsScript())
}
