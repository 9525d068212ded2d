package filter

import (
	"strings"
)

// Tokenize scans filter text into a flat token sequence. The sequence always
// ends with an explicit EOF token so the parser never special-cases end of
// input. Keyword matching is case-insensitive.
func Tokenize(text string) ([]Token, error) {
	lex := &lexer{input: text}
	return lex.run()
}

type lexer struct {
	input  string
	pos    int
	tokens []Token
}

func (l *lexer) run() ([]Token, error) {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			l.pos++
		case ch == '\'' || ch == '"':
			if err := l.scanString(ch); err != nil {
				return nil, err
			}
		case ch == '(':
			l.emit(TokenLParen, "(", l.pos)
			l.pos++
		case ch == ')':
			l.emit(TokenRParen, ")", l.pos)
			l.pos++
		case ch == '=':
			l.emit(TokenOperator, "=", l.pos)
			l.pos++
		case ch == '<':
			l.emit(TokenOperator, "<", l.pos)
			l.pos++
		case ch == '>':
			l.emit(TokenOperator, ">", l.pos)
			l.pos++
		case ch == '!':
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == '=' {
				l.emit(TokenOperator, "!=", l.pos)
				l.pos += 2
			} else {
				return nil, &LexError{Kind: LexUnexpectedCharacter, Offset: l.pos, Ch: rune(ch)}
			}
		case isWordChar(ch):
			l.scanWord()
		default:
			return nil, &LexError{Kind: LexUnexpectedCharacter, Offset: l.pos, Ch: rune(ch)}
		}
	}

	l.emit(TokenEOF, "", len(l.input))
	return l.tokens, nil
}

func (l *lexer) emit(t TokenType, value string, offset int) {
	l.tokens = append(l.tokens, Token{Type: t, Value: value, Offset: offset})
}

// scanString consumes a quoted literal. The quote character is not part of
// the literal's value.
func (l *lexer) scanString(quote byte) error {
	start := l.pos
	l.pos++
	for l.pos < len(l.input) {
		if l.input[l.pos] == quote {
			l.emit(TokenString, l.input[start+1:l.pos], start)
			l.pos++
			return nil
		}
		l.pos++
	}
	return &LexError{Kind: LexUnterminatedString, Offset: start}
}

// isWordChar reports whether ch can appear in a bare word. Digits and dashes
// are included so ISO dates (2026-03-15) and offset forms (today-3) scan as
// single words.
func isWordChar(ch byte) bool {
	return ch >= 'a' && ch <= 'z' ||
		ch >= 'A' && ch <= 'Z' ||
		ch >= '0' && ch <= '9' ||
		ch == '_' || ch == '-'
}

func (l *lexer) scanWord() {
	start := l.pos
	for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
		l.pos++
	}
	word := l.input[start:l.pos]

	// Date keywords may carry a day offset: today+1 scans as keyword plus
	// sign and digits, today-1 already scanned as one word.
	if isDateKeyword(word) && l.pos < len(l.input) && l.input[l.pos] == '+' {
		end := l.pos + 1
		for end < len(l.input) && l.input[end] >= '0' && l.input[end] <= '9' {
			end++
		}
		if end > l.pos+1 {
			word = l.input[start:end]
			l.pos = end
		}
	}

	switch strings.ToUpper(word) {
	case "AND":
		l.emit(TokenAnd, word, start)
	case "OR":
		l.emit(TokenOr, word, start)
	case "NOT":
		l.emit(TokenNot, word, start)
	case "LIKE":
		l.emit(TokenOperator, "LIKE", start)
	case "CONTAINS":
		l.emit(TokenOperator, "CONTAINS", start)
	case "IS":
		// IS NULL is a single two-word operator when the words are adjacent.
		if l.peekWordIs("NULL") {
			l.skipSpaceAndWord()
			l.emit(TokenIsNull, "IS NULL", start)
		} else {
			l.emit(TokenIdent, word, start)
		}
	default:
		if isDateLiteral(word) {
			l.emit(TokenDate, word, start)
		} else {
			l.emit(TokenIdent, word, start)
		}
	}
}

// peekWordIs reports whether the next word (after whitespace) matches,
// case-insensitively, without consuming it.
func (l *lexer) peekWordIs(want string) bool {
	pos := l.pos
	for pos < len(l.input) && (l.input[pos] == ' ' || l.input[pos] == '\t') {
		pos++
	}
	end := pos
	for end < len(l.input) && isWordChar(l.input[end]) {
		end++
	}
	return strings.EqualFold(l.input[pos:end], want)
}

func (l *lexer) skipSpaceAndWord() {
	for l.pos < len(l.input) && (l.input[l.pos] == ' ' || l.input[l.pos] == '\t') {
		l.pos++
	}
	for l.pos < len(l.input) && isWordChar(l.input[l.pos]) {
		l.pos++
	}
}

func isDateKeyword(word string) bool {
	return strings.EqualFold(word, "today") || strings.EqualFold(word, "tomorrow")
}

// isDateLiteral recognizes the raw date forms the evaluator can resolve:
// today, tomorrow, keyword±N day offsets, and explicit YYYY-MM-DD.
func isDateLiteral(word string) bool {
	if isDateKeyword(word) {
		return true
	}
	if base, _, ok := splitDateOffset(word); ok && isDateKeyword(base) {
		return true
	}
	return isISODate(word)
}

// splitDateOffset splits forms like today+2 or tomorrow-1 into base and
// signed day offset.
func splitDateOffset(word string) (base string, days int, ok bool) {
	idx := strings.IndexAny(word, "+-")
	if idx <= 0 || idx == len(word)-1 {
		return "", 0, false
	}
	n := 0
	for _, ch := range word[idx+1:] {
		if ch < '0' || ch > '9' {
			return "", 0, false
		}
		n = n*10 + int(ch-'0')
	}
	if word[idx] == '-' {
		n = -n
	}
	return word[:idx], n, true
}

func isISODate(word string) bool {
	if len(word) != 10 || word[4] != '-' || word[7] != '-' {
		return false
	}
	for i, ch := range word {
		if i == 4 || i == 7 {
			continue
		}
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
