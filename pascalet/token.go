package pascalet

import "strings"

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenEOF TokenType = "EOF"

	tokenIdent   TokenType = "IDENT"
	tokenInt     TokenType = "INT"
	tokenFloat   TokenType = "FLOAT"
	tokenString  TokenType = "STRING"
	tokenBoolean TokenType = "BOOLEAN"

	tokenProgram  TokenType = "PROGRAM"
	tokenVar      TokenType = "VAR"
	tokenFunction TokenType = "FUNCTION"
	tokenIf       TokenType = "IF"
	tokenElif     TokenType = "ELIF"
	tokenElse     TokenType = "ELSE"
	tokenFor      TokenType = "FOR"
	tokenBreak    TokenType = "BREAK"
	tokenReturn   TokenType = "RETURN"
	tokenAnd      TokenType = "AND"
	tokenOr       TokenType = "OR"
	tokenNot      TokenType = "NOT"

	tokenIntegerType TokenType = "INTEGER_TYPE"
	tokenRealType    TokenType = "REAL_TYPE"
	tokenStringType  TokenType = "STRING_TYPE"
	tokenBooleanType TokenType = "BOOLEAN_TYPE"
	tokenObjectType  TokenType = "OBJECT_TYPE"

	tokenAssign     TokenType = "="
	tokenPlus       TokenType = "+"
	tokenMinus      TokenType = "-"
	tokenMult       TokenType = "*"
	tokenFloatDiv   TokenType = "/"
	tokenIntegerDiv TokenType = "DIV"
	tokenGT         TokenType = ">"
	tokenGTE        TokenType = ">="
	tokenLT         TokenType = "<"
	tokenLTE        TokenType = "<="
	tokenEQ         TokenType = "=="
	tokenNotEQ      TokenType = "!="

	tokenComma  TokenType = ","
	tokenColon  TokenType = ":"
	tokenSemi   TokenType = ";"
	tokenDot    TokenType = "."
	tokenLParen TokenType = "("
	tokenRParen TokenType = ")"
	tokenLBrace TokenType = "{"
	tokenRBrace TokenType = "}"
)

// Token captures lexical information for the parser. Positions are not
// embedded; diagnostics reconstruct them from the lexer cursor.
type Token struct {
	Type    TokenType
	Literal string
}

// Position identifies a line/column pair in the source text.
type Position struct {
	Line   int
	Column int
}

// keywords maps canonical reserved spellings to their tokens. Lookups probe
// the uppercased run first, then the lowercased run, so keywords are
// case-insensitive while identifiers keep their literal spelling.
var keywords = map[string]Token{
	"PROGRAM":  {Type: tokenProgram, Literal: "program"},
	"VAR":      {Type: tokenVar, Literal: "var"},
	"FUNCTION": {Type: tokenFunction, Literal: "function"},
	"IF":       {Type: tokenIf, Literal: "if"},
	"ELIF":     {Type: tokenElif, Literal: "elif"},
	"ELSE":     {Type: tokenElse, Literal: "else"},
	"FOR":      {Type: tokenFor, Literal: "for"},
	"BREAK":    {Type: tokenBreak, Literal: "break"},
	"RETURN":   {Type: tokenReturn, Literal: "return"},
	"AND":      {Type: tokenAnd, Literal: "and"},
	"OR":       {Type: tokenOr, Literal: "or"},
	"NOT":      {Type: tokenNot, Literal: "not"},
	"DIV":      {Type: tokenIntegerDiv, Literal: "div"},
	"TRUE":     {Type: tokenBoolean, Literal: "true"},
	"FALSE":    {Type: tokenBoolean, Literal: "false"},
	"INTEGER":  {Type: tokenIntegerType, Literal: "integer"},
	"REAL":     {Type: tokenRealType, Literal: "real"},
	"STRING":   {Type: tokenStringType, Literal: "string"},
	"BOOLEAN":  {Type: tokenBooleanType, Literal: "boolean"},
	"OBJECT":   {Type: tokenObjectType, Literal: "object"},
}

func lookupKeyword(ident string) (Token, bool) {
	if tok, ok := keywords[strings.ToUpper(ident)]; ok {
		return tok, true
	}
	if tok, ok := keywords[strings.ToLower(ident)]; ok {
		return tok, true
	}
	return Token{}, false
}

func tokenLabel(tt TokenType) string {
	switch tt {
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenInt:
		return "integer literal"
	case tokenFloat:
		return "float literal"
	case tokenString:
		return "string literal"
	case tokenBoolean:
		return "boolean literal"
	case tokenIntegerType:
		return "'integer'"
	case tokenRealType:
		return "'real'"
	case tokenStringType:
		return "'string'"
	case tokenBooleanType:
		return "'boolean'"
	case tokenObjectType:
		return "'object'"
	case tokenIntegerDiv:
		return "'div'"
	case tokenProgram, tokenVar, tokenFunction, tokenIf, tokenElif, tokenElse,
		tokenFor, tokenBreak, tokenReturn, tokenAnd, tokenOr, tokenNot:
		return "'" + strings.ToLower(string(tt)) + "'"
	default:
		return "'" + string(tt) + "'"
	}
}
