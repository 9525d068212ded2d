package filter

import (
	"fmt"
	"strings"
)

// LexErrorKind classifies tokenizer failures.
type LexErrorKind int

const (
	LexUnexpectedCharacter LexErrorKind = iota
	LexUnterminatedString
)

// LexError is a tokenizer failure at a byte offset in the filter text.
type LexError struct {
	Kind   LexErrorKind
	Offset int
	Ch     rune
}

func (e *LexError) Error() string {
	switch e.Kind {
	case LexUnterminatedString:
		return fmt.Sprintf("unterminated string starting at position %d", e.Offset)
	default:
		return fmt.Sprintf("unexpected character %q at position %d", e.Ch, e.Offset)
	}
}

// ParseErrorKind classifies parser failures.
type ParseErrorKind int

const (
	ParseUnexpectedToken ParseErrorKind = iota
	ParseUnexpectedEnd
	ParseUnbalancedParens
	ParseUnknownField
	ParseOperatorNotValidForField
	ParseTrailingInput
)

// ParseError is a grammar failure. Found carries the offending token text
// where one exists; Expected describes what the grammar required.
type ParseError struct {
	Kind     ParseErrorKind
	Offset   int
	Found    string
	Expected string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case ParseUnexpectedEnd:
		return fmt.Sprintf("unexpected end of input, expected %s", e.Expected)
	case ParseUnbalancedParens:
		return fmt.Sprintf("unbalanced parentheses at position %d", e.Offset)
	case ParseUnknownField:
		return fmt.Sprintf("unknown field %q at position %d (valid fields: %s)",
			e.Found, e.Offset, strings.Join(fieldNames(), ", "))
	case ParseOperatorNotValidForField:
		return fmt.Sprintf("operator %s is not valid for field %q at position %d",
			e.Found, e.Expected, e.Offset)
	case ParseTrailingInput:
		return fmt.Sprintf("unexpected input after complete expression at position %d: %q",
			e.Offset, e.Found)
	default:
		return fmt.Sprintf("unexpected %q at position %d, expected %s",
			e.Found, e.Offset, e.Expected)
	}
}

// FilterError wraps a lex or parse failure together with the original filter
// text so callers can render a pointer into the offending input.
type FilterError struct {
	Input  string
	Offset int
	Err    error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid filter: %v", e.Err)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}

// Diagnostic renders the error with a caret pointing at the offending
// position in the original text.
func (e *FilterError) Diagnostic() string {
	offset := e.Offset
	if offset > len(e.Input) {
		offset = len(e.Input)
	}
	var b strings.Builder
	b.WriteString(e.Error())
	b.WriteString("\n  ")
	b.WriteString(e.Input)
	b.WriteString("\n  ")
	b.WriteString(strings.Repeat(" ", offset))
	b.WriteString("^")
	return b.String()
}

func newFilterError(input string, err error) error {
	offset := 0
	switch e := err.(type) {
	case *LexError:
		offset = e.Offset
	case *ParseError:
		offset = e.Offset
	}
	return &FilterError{Input: input, Offset: offset, Err: err}
}
