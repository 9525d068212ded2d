package filter

import (
	"strings"
	"time"

	"github.com/clings-dev/clings/task"
)

// Expr is a parsed filter expression that can be evaluated against a todo.
// Trees are immutable after construction; each node owns its children.
// Evaluate is total: a well-typed tree produced by the parser never errors.
type Expr interface {
	Evaluate(todo *task.Todo, now time.Time) bool
	String() string
}

// LiteralKind distinguishes plain text from date keywords.
type LiteralKind int

const (
	LiteralText LiteralKind = iota
	LiteralDate
)

// Literal is a user-supplied constant. Date literals stay raw until
// evaluation so a parsed expression never bakes in a stale date.
type Literal struct {
	Kind LiteralKind
	Text string
}

func (l Literal) String() string {
	if l.Kind == LiteralDate {
		return l.Text
	}
	if strings.Contains(l.Text, "'") {
		return `"` + l.Text + `"`
	}
	return "'" + l.Text + "'"
}

// CompareExpr is a single field comparison like status = 'open'.
// For IS NULL the literal is unused.
type CompareExpr struct {
	Field   Field
	Op      Op
	Literal Literal
}

func (c *CompareExpr) String() string {
	if c.Op == OpIsNull {
		return string(c.Field) + " IS NULL"
	}
	return string(c.Field) + " " + string(c.Op) + " " + c.Literal.String()
}

// BinaryExpr is an AND or OR node.
type BinaryExpr struct {
	Op    string // "AND" or "OR"
	Left  Expr
	Right Expr
}

func (b *BinaryExpr) Evaluate(todo *task.Todo, now time.Time) bool {
	// Short-circuit: the right operand is skipped when the left already
	// decides the result.
	if b.Op == "AND" {
		return b.Left.Evaluate(todo, now) && b.Right.Evaluate(todo, now)
	}
	return b.Left.Evaluate(todo, now) || b.Right.Evaluate(todo, now)
}

func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + b.Op + " " + b.Right.String() + ")"
}

// NotExpr negates its operand.
type NotExpr struct {
	Expr Expr
}

func (n *NotExpr) Evaluate(todo *task.Todo, now time.Time) bool {
	return !n.Expr.Evaluate(todo, now)
}

func (n *NotExpr) String() string {
	return "NOT " + n.Expr.String()
}
