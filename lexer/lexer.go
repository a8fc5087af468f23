package lexer

import (
	"math"
	"strconv"

	"github.com/cmmlang/cmmc/token"
)

type Lexer struct {
	input        []rune
	position     int  // current position in input (points to current rune)
	readPosition int  // current reading position in input (after current rune)
	curr         rune // current rune under examination

	line   int // line of curr, 1-based
	column int // column of curr, 1-based

	errors   []*token.CompileError
	warnings []*token.CompileError
}

func New(input string) *Lexer {
	l := &Lexer{input: []rune(input), line: 1}
	l.readRune()
	return l
}

// Errors returns the fatal lexical errors seen so far.
func (l *Lexer) Errors() []*token.CompileError {
	return l.errors
}

// Warnings returns the lexical warnings seen so far.
func (l *Lexer) Warnings() []*token.CompileError {
	return l.warnings
}

func (l *Lexer) NextToken() token.Token {
	for {
		l.skipWhitespace()
		if !l.skipComment() {
			break
		}
	}

	line, col := l.line, l.column
	var tok token.Token

	switch l.curr {
	case '=':
		tok = l.either('=', token.EQL, token.ASSIGN)
	case '!':
		tok = l.either('=', token.NEQ, token.NOT)
	case '<':
		tok = l.either('=', token.LEQ, token.LSS)
	case '>':
		tok = l.either('=', token.GEQ, token.GTR)
	case '+':
		tok = l.either('=', token.ADD_ASSIGN, token.ADD)
	case '-':
		tok = l.either('=', token.SUB_ASSIGN, token.SUB)
	case '*':
		tok = l.either('=', token.MUL_ASSIGN, token.MUL)
	case '/':
		tok = l.either('=', token.QUO_ASSIGN, token.QUO)
	case '%':
		tok = newToken(token.REM, l.curr)
	case '&':
		tok = l.either('&', token.LAND, token.ADDR)
	case '|':
		if l.peekRune() == '|' {
			l.readRune()
			tok = token.Token{Type: token.LOR, Literal: "||"}
		} else {
			l.fatal(line, col, "ignoring illegal character: |")
			l.readRune()
			return l.NextToken()
		}
	case ',':
		tok = newToken(token.COMMA, l.curr)
	case ';':
		tok = newToken(token.SEMICOLON, l.curr)
	case '(':
		tok = newToken(token.LPAREN, l.curr)
	case ')':
		tok = newToken(token.RPAREN, l.curr)
	case '[':
		tok = newToken(token.LBRACK, l.curr)
	case ']':
		tok = newToken(token.RBRACK, l.curr)
	case '{':
		tok = newToken(token.LBRACE, l.curr)
	case '}':
		tok = newToken(token.RBRACE, l.curr)
	case '"':
		lit, ok := l.readString(line, col)
		if !ok {
			return l.NextToken()
		}
		return token.Token{Type: token.STRING, Literal: lit, Line: line, Column: col}
	case 0:
		return token.Token{Type: token.EOF, Literal: "", Line: line, Column: col}
	default:
		if isLetter(l.curr) {
			literal := l.readIdentifier()
			return token.Token{Type: token.LookupIdent(literal), Literal: literal, Line: line, Column: col}
		} else if isDigit(l.curr) {
			return token.Token{Type: token.INT, Literal: l.readNumber(line, col), Line: line, Column: col}
		}
		l.fatal(line, col, "ignoring illegal character: "+string(l.curr))
		l.readRune()
		return l.NextToken()
	}

	l.readRune()
	tok.Line, tok.Column = line, col
	return tok
}

// either returns the two-rune token when the next rune is second,
// otherwise the single-rune token.
func (l *Lexer) either(second rune, two, one token.TokenType) token.Token {
	if l.peekRune() == second {
		first := l.curr
		l.readRune()
		return token.Token{Type: two, Literal: string(first) + string(l.curr)}
	}
	return newToken(one, l.curr)
}

func (l *Lexer) skipWhitespace() {
	for l.curr == ' ' || l.curr == '\t' || l.curr == '\n' || l.curr == '\r' {
		l.readRune()
	}
}

// skipComment consumes a // or # comment up to the end of line.
func (l *Lexer) skipComment() bool {
	if l.curr == '#' || (l.curr == '/' && l.peekRune() == '/') {
		for l.curr != '\n' && l.curr != 0 {
			l.readRune()
		}
		return true
	}
	return false
}

func (l *Lexer) readRune() {
	if l.curr == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.curr = 0
	} else {
		l.curr = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekRune() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.curr) || isDigit(l.curr) {
		l.readRune()
	}
	return string(l.input[position:l.position])
}

// readNumber clamps literals that do not fit in 32 bits.
func (l *Lexer) readNumber(line, col int) string {
	position := l.position
	for isDigit(l.curr) {
		l.readRune()
	}
	literal := string(l.input[position:l.position])
	if _, err := strconv.ParseInt(literal, 10, 32); err != nil {
		l.warnings = append(l.warnings, &token.CompileError{
			Token: token.Token{Type: token.INT, Literal: literal, Line: line, Column: col},
			Msg:   "integer literal too large; using max value",
		})
		return strconv.Itoa(math.MaxInt32)
	}
	return literal
}

// readString scans a string literal and returns its raw text, quotes included.
// Escapes are validated but kept unexpanded.
func (l *Lexer) readString(line, col int) (string, bool) {
	position := l.position
	badEscape := false
	l.readRune() // opening quote
	for l.curr != '"' {
		if l.curr == '\n' || l.curr == 0 {
			msg := "ignoring unterminated string literal"
			if badEscape {
				msg = "ignoring unterminated string literal with bad escaped character"
			}
			l.fatal(line, col, msg)
			return "", false
		}
		if l.curr == '\\' {
			switch l.peekRune() {
			case 'n', 't', '"', '\\', '\'':
				l.readRune()
			default:
				badEscape = true
			}
		}
		l.readRune()
	}
	l.readRune() // closing quote

	if badEscape {
		l.fatal(line, col, "ignoring string literal with bad escaped character")
		return "", false
	}
	return string(l.input[position:l.position]), true
}

func (l *Lexer) fatal(line, col int, msg string) {
	l.errors = append(l.errors, &token.CompileError{
		Token: token.Token{Type: token.ILLEGAL, Line: line, Column: col},
		Msg:   msg,
	})
}

func isLetter(ch rune) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func newToken(tokenType token.TokenType, curr rune) token.Token {
	return token.Token{Type: tokenType, Literal: string(curr)}
}
