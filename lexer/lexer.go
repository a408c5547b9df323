// lexer.go runs the deterministic state machine described in
// SPEC_FULL.md §4.1 over the source buffer, emitting one token per
// lexeme.
package lexer

import (
	"fmt"

	"github.com/skx/math-compiler/token"
)

// state is one of the DFA's control states: EMPTY, NUM, IDENT, EQUAL,
// NOT, LT, GT, plus the terminal END.
type state int

const (
	stateEmpty state = iota
	stateNum
	stateIdent
	stateEqual
	stateNot
	stateLT
	stateGT
	stateEnd
)

// Lexer holds our object-state.
type Lexer struct {
	input   string // the whole source buffer
	pos     int    // current character position
	readPos int    // next character position
	ch      byte   // current character
	state   state
}

// New creates a Lexer instance from string input.
func New(input string) *Lexer {
	l := &Lexer{input: input, state: stateEmpty}
	l.readChar()
	return l
}

// read one character forward.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// NextToken reads and returns the next token, skipping whitespace.
// It returns an error, per spec.md §4.1, the first time it meets a
// byte with no transition out of EMPTY.
func (l *Lexer) NextToken() (token.Token, error) {
	l.skipWhitespace()

	start := l.pos

	switch {
	case l.ch == 0:
		l.state = stateEnd
		return token.New(token.EOF, l.input, start, 0), nil

	case isDigit(l.ch):
		l.state = stateNum
		for isDigit(l.ch) {
			l.readChar()
		}
		l.state = stateEmpty
		return token.New(token.NUM, l.input, start, l.pos-start), nil

	case isIdentStart(l.ch):
		l.state = stateIdent
		for isIdentPart(l.ch) {
			l.readChar()
		}
		l.state = stateEmpty
		lit := l.input[start:l.pos]
		return token.New(token.LookupIdentifier(lit), l.input, start, l.pos-start), nil

	case l.ch == '=':
		l.state = stateEqual
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			l.state = stateEmpty
			return token.New(token.EQ, l.input, start, l.pos-start), nil
		}
		l.state = stateEmpty
		return token.New(token.ASSIGN, l.input, start, l.pos-start), nil

	case l.ch == '!':
		l.state = stateNot
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			l.state = stateEmpty
			return token.New(token.NE, l.input, start, l.pos-start), nil
		}
		return token.Token{}, fmt.Errorf("unexpected character '!' at offset %d", start)

	case l.ch == '<':
		l.state = stateLT
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			l.state = stateEmpty
			return token.New(token.LE, l.input, start, l.pos-start), nil
		}
		l.state = stateEmpty
		return token.New(token.LT, l.input, start, l.pos-start), nil

	case l.ch == '>':
		l.state = stateGT
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			l.state = stateEmpty
			return token.New(token.GE, l.input, start, l.pos-start), nil
		}
		l.state = stateEmpty
		return token.New(token.GT, l.input, start, l.pos-start), nil
	}

	if typ, ok := singleCharToken(l.ch); ok {
		l.readChar()
		return token.New(typ, l.input, start, l.pos-start), nil
	}

	return token.Token{}, fmt.Errorf("unexpected character '%c' at offset %d", l.ch, start)
}

// Tokenize scans the whole buffer and returns the complete token
// sequence: a ROOT sentinel, every real token in source order, then
// a terminating EOF, per spec.md §4.1.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	toks := []token.Token{token.New(token.ROOT, l.input, 0, 0)}

	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	return toks, nil
}

// singleCharToken maps a single punctuation/operator byte directly
// to its token type.
func singleCharToken(ch byte) (token.Type, bool) {
	switch ch {
	case '+':
		return token.PLUS, true
	case '-':
		return token.MINUS, true
	case '*':
		return token.ASTERISK, true
	case '/':
		return token.SLASH, true
	case '(':
		return token.LPAREN, true
	case ')':
		return token.RPAREN, true
	case '[':
		return token.LBRACKET, true
	case ']':
		return token.RBRACKET, true
	case '{':
		return token.LBRACE, true
	case '}':
		return token.RBRACE, true
	case ';':
		return token.SEMICOLON, true
	case ',':
		return token.COMMA, true
	}
	return "", false
}

// skip white space: space, tab, CR and LF are insignificant.
func (l *Lexer) skipWhitespace() {
	for isWhitespace(l.ch) {
		l.readChar()
	}
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// isIdentStart matches the first character of an identifier: a
// lowercase letter, per spec.md §4.1.
func isIdentStart(ch byte) bool {
	return 'a' <= ch && ch <= 'z'
}

// isIdentPart matches any subsequent identifier character: lowercase
// letters or digits.
func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
