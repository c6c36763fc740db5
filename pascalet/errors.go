package pascalet

import (
	"fmt"
	"strconv"
	"strings"
)

// LexErrorKind tags the lexer error taxonomy.
type LexErrorKind int

const (
	LexErrUnsupportedChar LexErrorKind = iota
	LexErrMalformedNumber
	LexErrUnterminatedString
	LexErrMalformedComment
	LexErrUnterminatedComment
)

// LexError reports a scanning failure with its source position.
type LexError struct {
	Kind LexErrorKind
	Msg  string
	Pos  Position

	source string
}

func newLexError(kind LexErrorKind, pos Position, source, format string, args ...any) *LexError {
	return &LexError{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: pos, source: source}
}

func (e *LexError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lex error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
	if frame := formatCodeFrame(e.source, e.Pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

// ParseErrorKind tags the parser error taxonomy.
type ParseErrorKind int

const (
	ParseErrUnexpectedToken ParseErrorKind = iota
	ParseErrUndecidableExpr
	ParseErrTrailingInput
	ParseErrTooDeep
)

// ParseError reports a parse failure with its source position and a short
// window of the tokens surrounding it.
type ParseError struct {
	Kind   ParseErrorKind
	Msg    string
	Pos    Position
	Window []Token

	source string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
	if frame := formatCodeFrame(e.source, e.Pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	if len(e.Window) > 0 {
		labels := make([]string, len(e.Window))
		for i, tok := range e.Window {
			labels[i] = tok.Literal
		}
		fmt.Fprintf(&b, "\n  near: %s", strings.Join(labels, " "))
	}
	return b.String()
}

// SemanticError reports a failed static check on a parsed program.
type SemanticError struct {
	Msg string
}

func (e *SemanticError) Error() string {
	return "semantic error: " + e.Msg
}

// RuntimeError reports a failure while evaluating a program.
type RuntimeError struct {
	Msg string
}

func (e *RuntimeError) Error() string {
	return "runtime error: " + e.Msg
}

func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	lineText := lines[pos.Line-1]
	lineRunes := []rune(lineText)

	column := pos.Column
	if column <= 0 {
		column = 1
	}
	if column > len(lineRunes)+1 {
		column = len(lineRunes) + 1
	}

	lineLabel := strconv.Itoa(pos.Line)
	gutterPad := strings.Repeat(" ", len(lineLabel))
	caretPad := strings.Repeat(" ", column-1)

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line,
		column,
		lineLabel,
		lineText,
		gutterPad,
		caretPad,
	)
}
