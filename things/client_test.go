package things

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clings-dev/clings/task"
)

// scriptedRunner returns canned output and records what it was asked to run.
type scriptedRunner struct {
	output  string
	err     error
	scripts []string
}

func (r *scriptedRunner) Run(_ context.Context, script string) ([]byte, error) {
	r.scripts = append(r.scripts, script)
	if r.err != nil {
		return nil, r.err
	}
	return []byte(r.output), nil
}

func TestClientListDecodesTodos(t *testing.T) {
	runner := &scriptedRunner{output: `[
        {"id":"t1","name":"Buy milk","notes":"","status":"open","dueDate":"2026-09-01","tags":["errand"],"project":null,"area":null,"checklistItems":[],"creationDate":null,"modificationDate":null},
        {"id":"t2","name":"Write report","notes":"","status":"open","dueDate":null,"tags":[],"project":"Work","area":null,"checklistItems":[],"creationDate":null,"modificationDate":null}
    ]`}
	client := NewClient(WithRunner(runner))

	todos, err := client.List(context.Background(), ListToday)
	require.NoError(t, err)
	require.Len(t, todos, 2)

	assert.Equal(t, "t1", todos[0].ID)
	assert.Equal(t, "Buy milk", todos[0].Name)
	require.NotNil(t, todos[0].DueDate)
	assert.Equal(t, "2026-09-01", todos[0].DueDate.String())
	assert.Equal(t, []string{"errand"}, todos[0].Tags)

	assert.Nil(t, todos[1].DueDate)
	require.NotNil(t, todos[1].Project)
	assert.Equal(t, "Work", *todos[1].Project)

	require.Len(t, runner.scripts, 1)
	assert.Contains(t, runner.scripts[0], `Things.lists.byName("Today")`)
}

func TestClientEmptyOutputIsEmptyList(t *testing.T) {
	client := NewClient(WithRunner(&scriptedRunner{output: "  \n"}))
	todos, err := client.AllTodos(context.Background())
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestClientPropagatesClassifiedError(t *testing.T) {
	runner := &scriptedRunner{err: &Error{Kind: ErrNotRunning}}
	client := NewClient(WithRunner(runner))

	_, err := client.List(context.Background(), ListInbox)
	var thingsErr *Error
	require.ErrorAs(t, err, &thingsErr)
	assert.Equal(t, ErrNotRunning, thingsErr.Kind)
}

func TestClientMalformedOutputIsParseError(t *testing.T) {
	client := NewClient(WithRunner(&scriptedRunner{output: "not json"}))

	_, err := client.AllTodos(context.Background())
	var thingsErr *Error
	require.ErrorAs(t, err, &thingsErr)
	assert.Equal(t, ErrParse, thingsErr.Kind)
}

func TestClientAddReturnsCreateResponse(t *testing.T) {
	runner := &scriptedRunner{output: `{"id":"new-1","name":"Buy milk"}`}
	client := NewClient(WithRunner(runner))

	resp, err := client.Add(context.Background(), NewTodo{Name: "Buy milk"})
	require.NoError(t, err)
	assert.Equal(t, "new-1", resp.ID)
	assert.Equal(t, "Buy milk", resp.Name)
}

func TestClientBatchEmptyIDsSkipsScript(t *testing.T) {
	runner := &scriptedRunner{}
	client := NewClient(WithRunner(runner))

	result, err := client.CompleteBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, BatchResult{}, result)
	assert.Empty(t, runner.scripts, "no osascript launch for an empty batch")
}

func TestClientBatchDecodesResult(t *testing.T) {
	runner := &scriptedRunner{
		output: `{"succeeded":2,"failed":1,"errors":[{"id":"t3","error":"Not found"}]}`,
	}
	client := NewClient(WithRunner(runner))

	result, err := client.CompleteBatch(context.Background(), []string{"t1", "t2", "t3"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "t3", result.Errors[0].ID)
}

func TestClientOpenRoutesListVsItem(t *testing.T) {
	runner := &scriptedRunner{}
	client := NewClient(WithRunner(runner))

	require.NoError(t, client.Open(context.Background(), "today"))
	require.NoError(t, client.Open(context.Background(), "abc-123"))

	require.Len(t, runner.scripts, 2)
	assert.Contains(t, runner.scripts[0], `Things.lists.byName("Today")`)
	assert.Contains(t, runner.scripts[1], `Things.toDos.byId("abc-123")`)
}

func TestClientDeleteCancels(t *testing.T) {
	runner := &scriptedRunner{}
	client := NewClient(WithRunner(runner))

	require.NoError(t, client.Delete(context.Background(), "t1"))
	require.Len(t, runner.scripts, 1)
	assert.Contains(t, runner.scripts[0], `todo.status = "canceled"`)
}

func TestParseListView(t *testing.T) {
	view, ok := ParseListView("today")
	assert.True(t, ok)
	assert.Equal(t, ListToday, view)

	view, ok = ParseListView("LOGBOOK")
	assert.True(t, ok)
	assert.Equal(t, ListLogbook, view)

	_, ok = ParseListView("bogus")
	assert.False(t, ok)
}

func TestStatusJSONFromBridge(t *testing.T) {
	// The bridge reports status as the scripting dictionary strings.
	client := NewClient(WithRunner(&scriptedRunner{
		output: `[{"id":"t1","name":"x","status":"completed","tags":[]}]`,
	}))
	todos, err := client.AllTodos(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, task.StatusCompleted, todos[0].Status)
}
