package filter

import (
	"errors"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "simple comparison",
			input:    "status = 'open'",
			expected: []TokenType{TokenIdent, TokenOperator, TokenString, TokenEOF},
		},
		{
			name:     "double quoted string",
			input:    `name = "Buy milk"`,
			expected: []TokenType{TokenIdent, TokenOperator, TokenString, TokenEOF},
		},
		{
			name:     "not equals",
			input:    "project != 'Archive'",
			expected: []TokenType{TokenIdent, TokenOperator, TokenString, TokenEOF},
		},
		{
			name:     "date comparison",
			input:    "due < today",
			expected: []TokenType{TokenIdent, TokenOperator, TokenDate, TokenEOF},
		},
		{
			name:     "explicit iso date",
			input:    "due > 2026-03-15",
			expected: []TokenType{TokenIdent, TokenOperator, TokenDate, TokenEOF},
		},
		{
			name:     "date offset forms",
			input:    "due < today+1 OR due > tomorrow-2",
			expected: []TokenType{TokenIdent, TokenOperator, TokenDate, TokenOr, TokenIdent, TokenOperator, TokenDate, TokenEOF},
		},
		{
			name:     "is null collapses to one token",
			input:    "due IS NULL",
			expected: []TokenType{TokenIdent, TokenIsNull, TokenEOF},
		},
		{
			name:     "is null lowercase",
			input:    "area is null",
			expected: []TokenType{TokenIdent, TokenIsNull, TokenEOF},
		},
		{
			name:     "logical keywords and parens",
			input:    "(status = 'open' AND due < today) OR NOT tags CONTAINS 'urgent'",
			expected: []TokenType{TokenLParen, TokenIdent, TokenOperator, TokenString, TokenAnd, TokenIdent, TokenOperator, TokenDate, TokenRParen, TokenOr, TokenNot, TokenIdent, TokenOperator, TokenString, TokenEOF},
		},
		{
			name:     "keywords are case-insensitive",
			input:    "status = 'open' and due < today or name like 'x'",
			expected: []TokenType{TokenIdent, TokenOperator, TokenString, TokenAnd, TokenIdent, TokenOperator, TokenDate, TokenOr, TokenIdent, TokenOperator, TokenString, TokenEOF},
		},
		{
			name:     "bareword literal",
			input:    "status = open",
			expected: []TokenType{TokenIdent, TokenOperator, TokenIdent, TokenEOF},
		},
		{
			name:     "empty input is just eof",
			input:    "",
			expected: []TokenType{TokenEOF},
		},
		{
			name:     "lone is stays an identifier",
			input:    "status IS",
			expected: []TokenType{TokenIdent, TokenIdent, TokenEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize failed: %v", err)
			}
			if len(tokens) != len(tt.expected) {
				t.Fatalf("expected %d tokens, got %d: %v", len(tt.expected), len(tokens), tokens)
			}
			for i, tok := range tokens {
				if tok.Type != tt.expected[i] {
					t.Errorf("token %d: expected %v, got %v (value %q)",
						i, tt.expected[i], tok.Type, tok.Value)
				}
			}
		})
	}
}

func TestTokenizeStringValues(t *testing.T) {
	tokens, err := Tokenize(`name = 'Buy milk'`)
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	// the quote characters are consumed, not part of the value
	if tokens[2].Value != "Buy milk" {
		t.Errorf("unexpected string value: %q", tokens[2].Value)
	}
	if tokens[2].Offset != 7 {
		t.Errorf("unexpected offset: %d", tokens[2].Offset)
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		kind   LexErrorKind
		offset int
	}{
		{"unterminated single quote", "name = 'open", LexUnterminatedString, 7},
		{"unterminated double quote", `name = "open`, LexUnterminatedString, 7},
		{"stray semicolon", "status = 'open';", LexUnexpectedCharacter, 15},
		{"stray bang", "status ! 'open'", LexUnexpectedCharacter, 7},
		{"stray hash", "# comment", LexUnexpectedCharacter, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *LexError, got %T", err)
			}
			if lexErr.Kind != tt.kind {
				t.Errorf("expected kind %d, got %d", tt.kind, lexErr.Kind)
			}
			if lexErr.Offset != tt.offset {
				t.Errorf("expected offset %d, got %d", tt.offset, lexErr.Offset)
			}
		})
	}
}

func TestTokenOffsets(t *testing.T) {
	tokens, err := Tokenize("status = 'open' AND due < today")
	if err != nil {
		t.Fatalf("Tokenize failed: %v", err)
	}
	offsets := []int{0, 7, 9, 16, 20, 24, 26, 31}
	if len(tokens) != len(offsets) {
		t.Fatalf("expected %d tokens, got %d", len(offsets), len(tokens))
	}
	for i, tok := range tokens {
		if tok.Offset != offsets[i] {
			t.Errorf("token %d (%q): expected offset %d, got %d",
				i, tok.Value, offsets[i], tok.Offset)
		}
	}
}
