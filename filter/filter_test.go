package filter

import (
	"testing"

	"github.com/clings-dev/clings/task"
)

func TestParseFilterEmpty(t *testing.T) {
	for _, input := range []string{"", "   ", "\t\n"} {
		expr, err := ParseFilter(input)
		if err != nil {
			t.Errorf("ParseFilter(%q) returned error: %v", input, err)
		}
		if expr != nil {
			t.Errorf("ParseFilter(%q) = %v, want nil (match everything)", input, expr)
		}
	}
}

func TestSelectNilExpr(t *testing.T) {
	todos := []*task.Todo{
		{Name: "a"},
		{Name: "b"},
	}
	got := Select(todos, nil)
	if len(got) != len(todos) {
		t.Fatalf("Select with nil expr returned %d todos, want %d", len(got), len(todos))
	}
	for i := range todos {
		if got[i] != todos[i] {
			t.Errorf("todo %d: identity changed", i)
		}
	}
}

func TestSelectEmptySlice(t *testing.T) {
	expr := mustParse(t, "status = 'open'")
	if got := Select(nil, expr); len(got) != 0 {
		t.Errorf("Select(nil, expr) returned %d todos, want 0", len(got))
	}
	if got := Select([]*task.Todo{}, expr); len(got) != 0 {
		t.Errorf("Select(empty, expr) returned %d todos, want 0", len(got))
	}
}

func TestSelectSubsetAndOrder(t *testing.T) {
	todos := []*task.Todo{
		{Name: "one", Status: task.StatusOpen},
		{Name: "two", Status: task.StatusCompleted},
		{Name: "three", Status: task.StatusOpen},
		{Name: "four", Status: task.StatusCanceled},
		{Name: "five", Status: task.StatusOpen},
	}
	expr := mustParse(t, "status = 'open'")
	got := Select(todos, expr)

	if len(got) > len(todos) {
		t.Fatalf("result larger than input: %d > %d", len(got), len(todos))
	}

	// Every result is one of the input pointers, in input order.
	seen := make(map[*task.Todo]int, len(todos))
	for i, todo := range todos {
		seen[todo] = i
	}
	last := -1
	for _, todo := range got {
		idx, ok := seen[todo]
		if !ok {
			t.Fatalf("result contains todo %q not present in input", todo.Name)
		}
		if idx <= last {
			t.Fatalf("result out of input order at %q", todo.Name)
		}
		last = idx
	}

	want := []string{"one", "three", "five"}
	if len(got) != len(want) {
		t.Fatalf("got %d todos, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Errorf("result %d = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestSelectIdempotent(t *testing.T) {
	todos := []*task.Todo{
		{Name: "a", Status: task.StatusOpen, Tags: []string{"urgent"}},
		{Name: "b", Status: task.StatusOpen},
		{Name: "c", Status: task.StatusCompleted, Tags: []string{"urgent"}},
	}
	expr := mustParse(t, "status = 'open' AND tags CONTAINS 'urgent'")

	once := Select(todos, expr)
	twice := Select(once, expr)

	if len(once) != len(twice) {
		t.Fatalf("second pass changed size: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("second pass changed element %d", i)
		}
	}
}

func TestSelectScenarioOpenDueSoon(t *testing.T) {
	taskA := &task.Todo{
		Name:    "A",
		Status:  task.StatusOpen,
		DueDate: datePtr(t, task.DateOf(evalNow).String()),
	}
	taskB := &task.Todo{
		Name:    "B",
		Status:  task.StatusCompleted,
		DueDate: datePtr(t, task.DateOf(evalNow).String()),
	}
	taskC := &task.Todo{
		Name:    "C",
		Status:  task.StatusOpen,
		DueDate: datePtr(t, task.DateOf(evalNow).AddDays(5).String()),
	}

	expr := mustParse(t, "status = 'open' AND due < today+1")

	var got []*task.Todo
	for _, todo := range []*task.Todo{taskA, taskB, taskC} {
		if expr.Evaluate(todo, evalNow) {
			got = append(got, todo)
		}
	}

	if len(got) != 1 || got[0] != taskA {
		names := make([]string, len(got))
		for i, todo := range got {
			names[i] = todo.Name
		}
		t.Errorf("matched %v, want [A]", names)
	}
}

func TestSelectScenarioNotesIsNull(t *testing.T) {
	blank := &task.Todo{Name: "blank", Notes: ""}
	filled := &task.Todo{Name: "filled", Notes: "call first"}

	expr := mustParse(t, "notes IS NULL")
	got := Select([]*task.Todo{blank, filled}, expr)

	if len(got) != 1 || got[0] != blank {
		t.Errorf("notes IS NULL matched %d todos, want only the blank one", len(got))
	}
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	todos := []*task.Todo{
		{Name: "a", Status: task.StatusOpen},
		{Name: "b", Status: task.StatusCompleted},
	}
	expr := mustParse(t, "status = 'open'")
	Select(todos, expr)

	if todos[0].Name != "a" || todos[1].Name != "b" || len(todos) != 2 {
		t.Error("Select mutated its input slice")
	}
}
