package filter

// Recursive descent over the token stream. Precedence, lowest to highest:
// OR < AND < NOT < comparison < parenthesized group, so a AND b OR c parses
// as (a AND b) OR c and NOT a AND b parses as (NOT a) AND b.

type parser struct {
	tokens []Token
	pos    int
}

func newParser(tokens []Token) *parser {
	return &parser{tokens: tokens}
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) next() Token {
	tok := p.tokens[p.pos]
	if tok.Type != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "OR", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.peek().Type == TokenAnd {
		p.next()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &BinaryExpr{Op: "AND", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.peek().Type == TokenNot {
		p.next()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Expr: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	if p.peek().Type == TokenLParen {
		open := p.next()
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.peek().Type != TokenRParen {
			return nil, &ParseError{Kind: ParseUnbalancedParens, Offset: open.Offset}
		}
		p.next()
		return expr, nil
	}
	return p.parseComparison()
}

func (p *parser) parseComparison() (Expr, error) {
	tok := p.next()
	switch tok.Type {
	case TokenEOF:
		return nil, &ParseError{Kind: ParseUnexpectedEnd, Offset: tok.Offset, Expected: "field name"}
	case TokenIdent:
		// fall through to field resolution
	default:
		return nil, &ParseError{
			Kind: ParseUnexpectedToken, Offset: tok.Offset,
			Found: tokenText(tok), Expected: "field name",
		}
	}

	field, ok := ParseField(tok.Value)
	if !ok {
		return nil, &ParseError{Kind: ParseUnknownField, Offset: tok.Offset, Found: tok.Value}
	}

	opTok := p.next()
	switch opTok.Type {
	case TokenEOF:
		return nil, &ParseError{Kind: ParseUnexpectedEnd, Offset: opTok.Offset, Expected: "operator"}
	case TokenIsNull:
		if !OpValidForField(field, OpIsNull) {
			return nil, &ParseError{
				Kind: ParseOperatorNotValidForField, Offset: opTok.Offset,
				Found: "IS NULL", Expected: string(field),
			}
		}
		return &CompareExpr{Field: field, Op: OpIsNull}, nil
	case TokenOperator:
		// fall through to literal
	default:
		return nil, &ParseError{
			Kind: ParseUnexpectedToken, Offset: opTok.Offset,
			Found: tokenText(opTok), Expected: "operator",
		}
	}

	op := Op(opTok.Value)
	if !OpValidForField(field, op) {
		return nil, &ParseError{
			Kind: ParseOperatorNotValidForField, Offset: opTok.Offset,
			Found: string(op), Expected: string(field),
		}
	}

	litTok := p.next()
	switch litTok.Type {
	case TokenEOF:
		return nil, &ParseError{Kind: ParseUnexpectedEnd, Offset: litTok.Offset, Expected: "literal"}
	case TokenString, TokenIdent:
		return &CompareExpr{
			Field: field, Op: op,
			Literal: Literal{Kind: LiteralText, Text: litTok.Value},
		}, nil
	case TokenDate:
		return &CompareExpr{
			Field: field, Op: op,
			Literal: Literal{Kind: LiteralDate, Text: litTok.Value},
		}, nil
	default:
		return nil, &ParseError{
			Kind: ParseUnexpectedToken, Offset: litTok.Offset,
			Found: tokenText(litTok), Expected: "literal",
		}
	}
}

// finish rejects trailing tokens: the whole input must parse as exactly one
// expression. A dangling ) reads as an unbalanced paren rather than
// generic trailing input.
func (p *parser) finish() error {
	tok := p.peek()
	if tok.Type == TokenEOF {
		return nil
	}
	if tok.Type == TokenRParen {
		return &ParseError{Kind: ParseUnbalancedParens, Offset: tok.Offset}
	}
	return &ParseError{Kind: ParseTrailingInput, Offset: tok.Offset, Found: tokenText(tok)}
}

func tokenText(tok Token) string {
	if tok.Value != "" {
		return tok.Value
	}
	return tok.Type.String()
}
