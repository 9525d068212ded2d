package things

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/clings-dev/clings/task"
)

// Things stores todos, projects, and headings in one table discriminated by
// the type column.
const (
	taskTypeTodo    = 0
	taskTypeProject = 1

	taskStatusOpen      = 0
	taskStatusCanceled  = 2
	taskStatusCompleted = 3

	taskStartInbox   = 0
	taskStartAnytime = 1
	taskStartSomeday = 2
)

// Mirror reads the Things 3 sqlite database directly. It is strictly
// read-only; the schema is Cultured Code's and can change between releases,
// so every caller must be prepared to fall back to the JXA bridge.
type Mirror struct {
	db *sql.DB
}

// DefaultDatabasePath locates the Things 3 database inside the app's group
// container. Returns an error when no database exists, which usually means
// Things is not installed.
func DefaultDatabasePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	pattern := filepath.Join(home,
		"Library", "Group Containers", "JLMPQHK86H.com.culturedcode.ThingsMac",
		"ThingsData-*", "Things Database.thingsdatabase", "main.sqlite")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", &Error{Kind: ErrDatabase, Detail: "Things database not found"}
	}
	return matches[0], nil
}

// OpenMirror opens the database read-only.
func OpenMirror(path string) (*Mirror, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro", url.PathEscape(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, &Error{Kind: ErrDatabase, Detail: err.Error()}
	}
	// A single connection avoids sqlite lock contention with the app.
	db.SetMaxOpenConns(1)
	return &Mirror{db: db}, nil
}

// Close releases the database handle.
func (m *Mirror) Close() error {
	return m.db.Close()
}

// todoColumns is the shared SELECT list for todo queries. Tags come back as
// a comma-joined string from the join table.
const todoColumns = `
    t.uuid, t.title, t.notes, t.status, t.deadline,
    p.title, a.title, t.creationDate, t.userModificationDate,
    (SELECT group_concat(tag.title, ',')
       FROM TMTaskTag tt JOIN TMTag tag ON tt.tags = tag.uuid
      WHERE tt.tasks = t.uuid)`

const todoFrom = `
    FROM TMTask t
    LEFT JOIN TMTask p ON t.project = p.uuid
    LEFT JOIN TMArea a ON t.area = a.uuid`

func scanTodo(rows *sql.Rows) (*task.Todo, error) {
	var (
		todo     task.Todo
		status   int
		deadline sql.NullFloat64
		project  sql.NullString
		area     sql.NullString
		created  sql.NullFloat64
		modified sql.NullFloat64
		tags     sql.NullString
	)
	err := rows.Scan(&todo.ID, &todo.Name, &todo.Notes, &status, &deadline,
		&project, &area, &created, &modified, &tags)
	if err != nil {
		return nil, err
	}

	todo.Status = statusFromDB(status)
	if deadline.Valid {
		d := task.DateOf(epochToTime(deadline.Float64))
		todo.DueDate = &d
	}
	if project.Valid {
		todo.Project = &project.String
	}
	if area.Valid {
		todo.Area = &area.String
	}
	if created.Valid {
		ts := epochToTime(created.Float64)
		todo.CreationDate = &ts
	}
	if modified.Valid {
		ts := epochToTime(modified.Float64)
		todo.ModificationDate = &ts
	}
	if tags.Valid && tags.String != "" {
		todo.Tags = strings.Split(tags.String, ",")
	}
	return &todo, nil
}

func statusFromDB(status int) task.Status {
	switch status {
	case taskStatusCompleted:
		return task.StatusCompleted
	case taskStatusCanceled:
		return task.StatusCanceled
	default:
		return task.StatusOpen
	}
}

// Things stores timestamps as seconds since the Cocoa epoch, 2001-01-01 UTC.
func epochToTime(seconds float64) time.Time {
	cocoaEpoch := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return cocoaEpoch.Add(time.Duration(seconds * float64(time.Second)))
}

func (m *Mirror) queryTodos(ctx context.Context, where string, args ...any) ([]*task.Todo, error) {
	query := "SELECT" + todoColumns + todoFrom +
		" WHERE t.type = ? AND t.trashed = 0 AND " + where +
		" ORDER BY t.\"index\""
	allArgs := append([]any{taskTypeTodo}, args...)

	rows, err := m.db.QueryContext(ctx, query, allArgs...)
	if err != nil {
		return nil, &Error{Kind: ErrDatabase, Detail: err.Error()}
	}
	defer rows.Close()

	var todos []*task.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, &Error{Kind: ErrDatabase, Detail: err.Error()}
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Kind: ErrDatabase, Detail: err.Error()}
	}
	return todos, nil
}

// List returns the todos in a built-in list.
func (m *Mirror) List(ctx context.Context, view ListView) ([]*task.Todo, error) {
	switch view {
	case ListInbox:
		return m.queryTodos(ctx, "t.status = ? AND t.start = ?",
			taskStatusOpen, taskStartInbox)
	case ListToday:
		return m.queryTodos(ctx,
			"t.status = ? AND t.startDate IS NOT NULL AND t.startDate <= ?",
			taskStatusOpen, cocoaNow())
	case ListUpcoming:
		return m.queryTodos(ctx,
			"t.status = ? AND t.startDate IS NOT NULL AND t.startDate > ?",
			taskStatusOpen, cocoaNow())
	case ListAnytime:
		return m.queryTodos(ctx,
			"t.status = ? AND t.start = ? AND t.startDate IS NULL",
			taskStatusOpen, taskStartAnytime)
	case ListSomeday:
		return m.queryTodos(ctx, "t.status = ? AND t.start = ?",
			taskStatusOpen, taskStartSomeday)
	case ListLogbook:
		return m.queryTodos(ctx, "t.status IN (?, ?)",
			taskStatusCompleted, taskStatusCanceled)
	default:
		// Trash contents are excluded by every mirror query; the bridge
		// handles that view.
		return nil, &Error{Kind: ErrDatabase,
			Detail: fmt.Sprintf("list %s not available from mirror", view)}
	}
}

func cocoaNow() float64 {
	cocoaEpoch := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	return time.Since(cocoaEpoch).Seconds()
}

// AllTodos returns every non-trashed todo.
func (m *Mirror) AllTodos(ctx context.Context) ([]*task.Todo, error) {
	return m.queryTodos(ctx, "1 = 1")
}

// Todo returns a single todo by ID.
func (m *Mirror) Todo(ctx context.Context, id string) (*task.Todo, error) {
	todos, err := m.queryTodos(ctx, "t.uuid = ?", id)
	if err != nil {
		return nil, err
	}
	if len(todos) == 0 {
		return nil, &Error{Kind: ErrNotFound, Detail: id}
	}
	return todos[0], nil
}

// Search returns todos whose title or notes contain the query,
// case-insensitively.
func (m *Mirror) Search(ctx context.Context, query string) ([]*task.Todo, error) {
	pattern := "%" + escapeLike(query) + "%"
	return m.queryTodos(ctx,
		"(t.title LIKE ? ESCAPE '\\' OR t.notes LIKE ? ESCAPE '\\')",
		pattern, pattern)
}

// ProjectTodos returns the todos inside a project, by project name.
func (m *Mirror) ProjectTodos(ctx context.Context, projectName string) ([]*task.Todo, error) {
	return m.queryTodos(ctx, "p.title = ? AND p.type = ?", projectName, taskTypeProject)
}

// Projects returns all non-trashed projects.
func (m *Mirror) Projects(ctx context.Context) ([]*task.Project, error) {
	rows, err := m.db.QueryContext(ctx, `
        SELECT t.uuid, t.title, t.notes, t.status, t.deadline, a.title
        FROM TMTask t
        LEFT JOIN TMArea a ON t.area = a.uuid
        WHERE t.type = ? AND t.trashed = 0
        ORDER BY t."index"`, taskTypeProject)
	if err != nil {
		return nil, &Error{Kind: ErrDatabase, Detail: err.Error()}
	}
	defer rows.Close()

	var projects []*task.Project
	for rows.Next() {
		var (
			p        task.Project
			status   int
			deadline sql.NullFloat64
			area     sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Notes, &status, &deadline, &area); err != nil {
			return nil, &Error{Kind: ErrDatabase, Detail: err.Error()}
		}
		p.Status = statusFromDB(status)
		if deadline.Valid {
			d := task.DateOf(epochToTime(deadline.Float64))
			p.DueDate = &d
		}
		if area.Valid {
			p.Area = &area.String
		}
		projects = append(projects, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Kind: ErrDatabase, Detail: err.Error()}
	}
	return projects, nil
}

// Areas returns all areas.
func (m *Mirror) Areas(ctx context.Context) ([]*task.Area, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT uuid, title FROM TMArea ORDER BY "index"`)
	if err != nil {
		return nil, &Error{Kind: ErrDatabase, Detail: err.Error()}
	}
	defer rows.Close()

	var areas []*task.Area
	for rows.Next() {
		var a task.Area
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, &Error{Kind: ErrDatabase, Detail: err.Error()}
		}
		areas = append(areas, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Kind: ErrDatabase, Detail: err.Error()}
	}
	return areas, nil
}

// Tags returns all tags.
func (m *Mirror) Tags(ctx context.Context) ([]*task.Tag, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT uuid, title FROM TMTag ORDER BY "index"`)
	if err != nil {
		return nil, &Error{Kind: ErrDatabase, Detail: err.Error()}
	}
	defer rows.Close()

	var tags []*task.Tag
	for rows.Next() {
		var t task.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, &Error{Kind: ErrDatabase, Detail: err.Error()}
		}
		tags = append(tags, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, &Error{Kind: ErrDatabase, Detail: err.Error()}
	}
	return tags, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
