package pascalet

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer turns source text into a token stream, one token per scan. It is
// constructed with the first token already computed, so tok always holds the
// most recently produced token (pull-once-ahead).
type lexer struct {
	input string

	pos    int
	line   int
	column int

	tok Token

	saved []lexState
}

// lexState is a full snapshot of the visible lexer state. Snapshots are
// pushed and popped in strictly nested pairs by lookahead probes.
type lexState struct {
	pos    int
	line   int
	column int
	tok    Token
}

func newLexer(input string) (*lexer, error) {
	l := &lexer{input: input, line: 1, column: 1}
	if err := l.scanToken(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *lexer) current() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *lexer) advanceChar() {
	if l.pos >= len(l.input) {
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos += w
}

func (l *lexer) advanceChars(n int) {
	for i := 0; i < n; i++ {
		l.advanceChar()
	}
}

// nextCharsAre reports whether the upcoming characters equal s without
// consuming anything.
func (l *lexer) nextCharsAre(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

func (l *lexer) save() {
	l.saved = append(l.saved, lexState{pos: l.pos, line: l.line, column: l.column, tok: l.tok})
}

func (l *lexer) restore() {
	if len(l.saved) == 0 {
		panic("pascalet: lexer restore without matching save")
	}
	st := l.saved[len(l.saved)-1]
	l.saved = l.saved[:len(l.saved)-1]
	l.pos = st.pos
	l.line = st.line
	l.column = st.column
	l.tok = st.tok
}

// peekToken returns the token after the current one, leaving the visible
// lexer state untouched.
func (l *lexer) peekToken() (Token, error) {
	l.save()
	defer l.restore()
	if err := l.scanToken(); err != nil {
		return Token{}, err
	}
	return l.tok, nil
}

func (l *lexer) errorf(kind LexErrorKind, format string, args ...any) error {
	return newLexError(kind, Position{Line: l.line, Column: l.column}, l.input, format, args...)
}

// scanToken advances to the next token, storing it in tok.
func (l *lexer) scanToken() error {
	for {
		ch := l.current()
		switch {
		case ch == 0:
			l.tok = Token{Type: tokenEOF}
			return nil
		case unicode.IsDigit(ch):
			return l.scanNumber()
		case ch == '\'' || ch == '"':
			return l.scanString(ch)
		case l.nextCharsAre("//"):
			l.skipLineComment()
			continue
		case l.nextCharsAre("{{"):
			if err := l.skipBlockComment(); err != nil {
				return err
			}
			continue
		case unicode.IsLetter(ch):
			l.scanIdentifier()
			return nil
		case unicode.IsSpace(ch):
			l.advanceChar()
			continue
		default:
			return l.scanOperator(ch)
		}
	}
}

func (l *lexer) scanOperator(ch rune) error {
	switch {
	case l.nextCharsAre("!="):
		l.emit(tokenNotEQ, 2)
	case l.nextCharsAre(">="):
		l.emit(tokenGTE, 2)
	case l.nextCharsAre("<="):
		l.emit(tokenLTE, 2)
	case l.nextCharsAre("=="):
		l.emit(tokenEQ, 2)
	case ch == '+':
		l.emit(tokenPlus, 1)
	case ch == '-':
		l.emit(tokenMinus, 1)
	case ch == '*':
		l.emit(tokenMult, 1)
	case ch == '/':
		l.emit(tokenFloatDiv, 1)
	case ch == '(':
		l.emit(tokenLParen, 1)
	case ch == ')':
		l.emit(tokenRParen, 1)
	case ch == '{':
		l.emit(tokenLBrace, 1)
	case ch == '}':
		l.emit(tokenRBrace, 1)
	case ch == ':':
		l.emit(tokenColon, 1)
	case ch == ',':
		l.emit(tokenComma, 1)
	case ch == ';':
		l.emit(tokenSemi, 1)
	case ch == '.':
		l.emit(tokenDot, 1)
	case ch == '>':
		l.emit(tokenGT, 1)
	case ch == '<':
		l.emit(tokenLT, 1)
	case ch == '=':
		l.emit(tokenAssign, 1)
	case ch == '!':
		l.emit(tokenNot, 1)
	default:
		return l.errorf(LexErrUnsupportedChar, "unsupported character %q", string(ch))
	}
	return nil
}

func (l *lexer) emit(tt TokenType, width int) {
	l.tok = Token{Type: tt, Literal: string(tt)}
	l.advanceChars(width)
}

// scanNumber consumes a maximal run of digits and dots. More than one dot in
// the run is a malformed literal.
func (l *lexer) scanNumber() error {
	start := l.pos
	dots := 0
	for {
		ch := l.current()
		if ch == '.' {
			dots++
		} else if !unicode.IsDigit(ch) {
			break
		}
		l.advanceChar()
	}

	literal := l.input[start:l.pos]
	if dots > 1 {
		return l.errorf(LexErrMalformedNumber, "malformed number %q", literal)
	}
	if dots == 1 {
		l.tok = Token{Type: tokenFloat, Literal: literal}
	} else {
		l.tok = Token{Type: tokenInt, Literal: literal}
	}
	return nil
}

// scanString consumes a literal delimited by delim, verbatim; there are no
// escape sequences.
func (l *lexer) scanString(delim rune) error {
	l.advanceChar()
	start := l.pos
	for {
		ch := l.current()
		if ch == 0 {
			return l.errorf(LexErrUnterminatedString, "unterminated string literal")
		}
		if ch == delim {
			break
		}
		l.advanceChar()
	}
	literal := l.input[start:l.pos]
	l.advanceChar()
	l.tok = Token{Type: tokenString, Literal: literal}
	return nil
}

func (l *lexer) scanIdentifier() {
	start := l.pos
	for {
		ch := l.current()
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) {
			break
		}
		l.advanceChar()
	}
	literal := l.input[start:l.pos]
	if tok, ok := lookupKeyword(literal); ok {
		l.tok = tok
		return
	}
	l.tok = Token{Type: tokenIdent, Literal: literal}
}

func (l *lexer) skipLineComment() {
	for l.current() != 0 && l.current() != '\n' {
		l.advanceChar()
	}
	l.advanceChar()
}

// skipBlockComment consumes a {{ ... }} comment. The closing marker must be
// two adjacent closing braces; a lone } inside the comment is malformed.
func (l *lexer) skipBlockComment() error {
	l.advanceChars(2)
	for l.current() != '}' {
		if l.current() == 0 {
			return l.errorf(LexErrUnterminatedComment, "unterminated block comment")
		}
		l.advanceChar()
	}
	l.advanceChar()
	if l.current() != '}' {
		return l.errorf(LexErrMalformedComment, "block comment must close with \"}}\"")
	}
	l.advanceChar()
	return nil
}
