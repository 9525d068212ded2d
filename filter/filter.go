// Package filter implements the SQL-flavored filter expression language used
// by search --filter and the bulk --where selectors.
//
// Example expressions:
//
//	status = 'open'
//	due < today AND status = 'open'
//	tags CONTAINS 'urgent' AND NOT project = 'Archive'
//	(area = 'Work' OR area IS NULL) AND name LIKE 'report'
//
// Grammar, informally:
//
//	expr       := or_expr
//	or_expr    := and_expr ( "OR" and_expr )*
//	and_expr   := not_expr ( "AND" not_expr )*
//	not_expr   := "NOT" not_expr | comparison | "(" expr ")"
//	comparison := field operator literal | field "IS" "NULL"
//
// Field and keyword matching is case-insensitive. Quoted strings may use
// single or double quotes. Date literals (today, tomorrow, today+N,
// YYYY-MM-DD) resolve when the expression is evaluated, not when parsed.
package filter

import (
	"strings"
	"time"

	"github.com/clings-dev/clings/task"
)

// ParseFilter compiles filter text into an expression tree. An empty or
// blank string yields a nil expression, which Select treats as match-all.
// Errors are *FilterError values carrying the offending offset; callers can
// render Diagnostic() for a caret pointer into the input.
//
// The parser holds no shared state; ParseFilter is safe for concurrent use.
func ParseFilter(text string) (Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	tokens, err := Tokenize(text)
	if err != nil {
		return nil, newFilterError(text, err)
	}

	p := newParser(tokens)
	expr, err := p.parseExpr()
	if err != nil {
		return nil, newFilterError(text, err)
	}
	if err := p.finish(); err != nil {
		return nil, newFilterError(text, err)
	}
	return expr, nil
}

// Select applies the expression to each todo in input order and returns the
// matches, preserving relative order. A nil expression matches everything.
// The result is always a subset of the input by identity; records are never
// copied or mutated.
func Select(todos []*task.Todo, expr Expr) []*task.Todo {
	if expr == nil {
		return todos
	}
	now := time.Now()
	matched := make([]*task.Todo, 0, len(todos))
	for _, todo := range todos {
		if expr.Evaluate(todo, now) {
			matched = append(matched, todo)
		}
	}
	return matched
}
