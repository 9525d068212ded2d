package filter

import (
	"strings"
	"time"

	"github.com/clings-dev/clings/task"
)

// Evaluate resolves the field against the record and applies the operator.
// Date keywords resolve against now, so the same parsed expression stays
// accurate when evaluated on a different day than it was parsed.
func (c *CompareExpr) Evaluate(todo *task.Todo, now time.Time) bool {
	if c.Op == OpIsNull {
		return evalIsNull(c.Field, todo)
	}

	switch c.Field {
	case FieldStatus:
		return evalStatus(todo.Status, c.Op, c.Literal.Text)
	case FieldDue:
		return evalDue(todo.DueDate, c.Op, c.Literal, task.DateOf(now))
	case FieldTags:
		// parse-time validity leaves only CONTAINS here
		return todo.HasTag(c.Literal.Text)
	case FieldProject:
		return evalOptionalString(todo.Project, c.Op, c.Literal.Text)
	case FieldArea:
		return evalOptionalString(todo.Area, c.Op, c.Literal.Text)
	case FieldName:
		return evalString(todo.Name, c.Op, c.Literal.Text)
	case FieldNotes:
		return evalString(todo.Notes, c.Op, c.Literal.Text)
	default:
		return false
	}
}

func evalIsNull(field Field, todo *task.Todo) bool {
	switch field {
	case FieldDue:
		return todo.DueDate == nil
	case FieldProject:
		return todo.Project == nil
	case FieldArea:
		return todo.Area == nil
	case FieldTags:
		return len(todo.Tags) == 0
	case FieldNotes:
		return todo.Notes == ""
	default:
		return false
	}
}

// evalStatus compares against the status enum. Common synonyms (done,
// open, cancelled) normalize to their canonical status before comparing.
func evalStatus(status task.Status, op Op, literal string) bool {
	want := literal
	if normalized, known := task.ParseStatus(literal); known {
		want = string(normalized)
	}
	equal := strings.EqualFold(string(status), want)
	if op == OpNotEquals {
		return !equal
	}
	return equal
}

// evalString compares a scalar string field. Equality is full-string and
// case-insensitive; LIKE and CONTAINS both mean substring.
func evalString(value string, op Op, literal string) bool {
	switch op {
	case OpEquals:
		return strings.EqualFold(value, literal)
	case OpNotEquals:
		return !strings.EqualFold(value, literal)
	case OpLike, OpContains:
		return strings.Contains(strings.ToLower(value), strings.ToLower(literal))
	default:
		return false
	}
}

// evalOptionalString treats an absent field as satisfying no comparison;
// only IS NULL (handled elsewhere) matches a missing value.
func evalOptionalString(value *string, op Op, literal string) bool {
	if value == nil {
		return false
	}
	return evalString(*value, op, literal)
}

// evalDue compares calendar dates. A record without a due date fails every
// ordering or equality comparison; absence never satisfies an inequality.
func evalDue(due *task.Date, op Op, literal Literal, today task.Date) bool {
	if due == nil {
		return false
	}
	want, ok := resolveDate(literal.Text, today)
	if !ok {
		return false
	}
	switch op {
	case OpEquals:
		return due.Equal(want)
	case OpNotEquals:
		return !due.Equal(want)
	case OpLess:
		return due.Before(want)
	case OpGreater:
		return due.After(want)
	default:
		return false
	}
}

// resolveDate turns a raw date literal into a concrete calendar date
// relative to today. Supported forms: today, tomorrow, keyword±N, and
// explicit YYYY-MM-DD.
func resolveDate(raw string, today task.Date) (task.Date, bool) {
	if base, days, ok := splitDateOffset(raw); ok && isDateKeyword(base) {
		return resolveKeyword(base, today).AddDays(days), true
	}
	if isDateKeyword(raw) {
		return resolveKeyword(raw, today), true
	}
	parsed, err := task.ParseDate(raw)
	if err != nil {
		return task.Date{}, false
	}
	return parsed, true
}

func resolveKeyword(keyword string, today task.Date) task.Date {
	if strings.EqualFold(keyword, "tomorrow") {
		return today.AddDays(1)
	}
	return today
}
