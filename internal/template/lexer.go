package template

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenIdent
	tokenString
	tokenNumber
	tokenLParen
	tokenRParen
	tokenLBrace
	tokenRBrace
	tokenLBracket
	tokenRBracket
	tokenLAngle
	tokenRAngle
	tokenComma
	tokenEquals
)

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

func (t token) String() string {
	if t.kind == tokenEOF {
		return "end of template"
	}
	return fmt.Sprintf("%q", t.text)
}

// ParseError carries the position of the offending token.
type ParseError struct {
	Line    int
	Col     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("template:%d:%d: %s", e.Line, e.Col, e.Message)
}

type lexer struct {
	input []rune
	pos   int
	line  int
	col   int
}

func newLexer(input string) *lexer {
	return &lexer{input: []rune(input), line: 1, col: 1}
}

func (l *lexer) errorf(line, col int, format string, args ...interface{}) error {
	return &ParseError{Line: line, Col: col, Message: fmt.Sprintf(format, args...)}
}

func (l *lexer) advance() rune {
	r := l.input[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipSpaceAndComments() {
	for l.pos < len(l.input) {
		r := l.input[l.pos]
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpaceAndComments()

	if l.pos >= len(l.input) {
		return token{kind: tokenEOF, line: l.line, col: l.col}, nil
	}

	line, col := l.line, l.col
	r := l.input[l.pos]

	punct := map[rune]tokenKind{
		'(': tokenLParen, ')': tokenRParen,
		'{': tokenLBrace, '}': tokenRBrace,
		'[': tokenLBracket, ']': tokenRBracket,
		'<': tokenLAngle, '>': tokenRAngle,
		',': tokenComma, '=': tokenEquals,
	}
	if kind, ok := punct[r]; ok {
		l.advance()
		return token{kind: kind, text: string(r), line: line, col: col}, nil
	}

	if r == '"' {
		return l.scanString(line, col)
	}

	if unicode.IsDigit(r) || r == '-' || r == '.' {
		return l.scanNumber(line, col)
	}

	if unicode.IsLetter(r) || r == '_' {
		var sb strings.Builder
		for l.pos < len(l.input) {
			r := l.input[l.pos]
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			sb.WriteRune(l.advance())
		}
		return token{kind: tokenIdent, text: sb.String(), line: line, col: col}, nil
	}

	return token{}, l.errorf(line, col, "unexpected character %q", r)
}

func (l *lexer) scanString(line, col int) (token, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.input) {
			return token{}, l.errorf(line, col, "unterminated string")
		}
		r := l.advance()
		switch r {
		case '"':
			return token{kind: tokenString, text: sb.String(), line: line, col: col}, nil
		case '\\':
			if l.pos >= len(l.input) {
				return token{}, l.errorf(line, col, "unterminated string")
			}
			esc := l.advance()
			switch esc {
			case '"', '\\':
				sb.WriteRune(esc)
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			default:
				return token{}, l.errorf(l.line, l.col, "unknown escape \\%c", esc)
			}
		default:
			sb.WriteRune(r)
		}
	}
}

func (l *lexer) scanNumber(line, col int) (token, error) {
	var sb strings.Builder
	if l.input[l.pos] == '-' {
		sb.WriteRune(l.advance())
	}
	seenDot := false
	for l.pos < len(l.input) {
		r := l.input[l.pos]
		if r == '.' && !seenDot {
			seenDot = true
			sb.WriteRune(l.advance())
			continue
		}
		if !unicode.IsDigit(r) {
			break
		}
		sb.WriteRune(l.advance())
	}
	text := sb.String()
	if text == "" || text == "-" || text == "." {
		return token{}, l.errorf(line, col, "malformed number")
	}
	return token{kind: tokenNumber, text: text, line: line, col: col}, nil
}
