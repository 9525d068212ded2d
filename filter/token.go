package filter

import "fmt"

// TokenType identifies the lexical class of a token.
type TokenType int

const (
	TokenIdent TokenType = iota
	TokenString
	TokenDate
	TokenOperator
	TokenIsNull
	TokenAnd
	TokenOr
	TokenNot
	TokenLParen
	TokenRParen
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenIdent:
		return "identifier"
	case TokenString:
		return "string"
	case TokenDate:
		return "date"
	case TokenOperator:
		return "operator"
	case TokenIsNull:
		return "IS NULL"
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenNot:
		return "NOT"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenEOF:
		return "end of input"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Token is a single lexical unit. Offset is the byte position of the token's
// first character in the original filter text, kept for error diagnostics.
type Token struct {
	Type   TokenType
	Value  string
	Offset int
}
