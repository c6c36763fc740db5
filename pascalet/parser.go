package pascalet

import "fmt"

// maxParseDepth bounds the recursion of mutually recursive productions so
// pathological nesting fails with a dedicated error instead of exhausting
// the call stack.
const maxParseDepth = 500

// errorWindowSize is how many surrounding tokens a parse error captures.
const errorWindowSize = 5

type parser struct {
	lex   *lexer
	depth int
}

// Parse turns source text into a Program. The whole input must be consumed;
// trailing characters after a structurally complete program are an error. On
// failure no partial AST is returned.
func Parse(input string) (*Program, error) {
	lex, err := newLexer(input)
	if err != nil {
		return nil, err
	}
	p := &parser{lex: lex}

	program, err := p.program()
	if err != nil {
		return nil, err
	}
	if p.lex.tok.Type != tokenEOF {
		return nil, p.errorf(ParseErrTrailingInput, "unexpected input after end of program")
	}
	return program, nil
}

func (p *parser) errorf(kind ParseErrorKind, format string, args ...any) error {
	window := p.tokenWindow()
	return &ParseError{
		Kind:   kind,
		Msg:    fmt.Sprintf(format, args...),
		Pos:    Position{Line: p.lex.line, Column: p.lex.column},
		Window: window,
		source: p.lex.input,
	}
}

// tokenWindow captures the current token and a few after it through a
// snapshot, leaving the lexer untouched even though the error path is about
// to unwind.
func (p *parser) tokenWindow() []Token {
	p.lex.save()
	defer p.lex.restore()

	var window []Token
	for i := 0; i < errorWindowSize; i++ {
		if p.lex.tok.Type == tokenEOF {
			break
		}
		window = append(window, p.lex.tok)
		if err := p.lex.scanToken(); err != nil {
			break
		}
	}
	return window
}

func (p *parser) expect(tt TokenType) (Token, error) {
	tok := p.lex.tok
	if tok.Type != tt {
		return Token{}, p.errorf(ParseErrUnexpectedToken, "expected %s, got %s", tokenLabel(tt), tokenLabel(tok.Type))
	}
	if err := p.lex.scanToken(); err != nil {
		return Token{}, err
	}
	return tok, nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxParseDepth {
		return p.errorf(ParseErrTooDeep, "nesting exceeds %d levels", maxParseDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// nextTokensAre reports whether the upcoming tokens, starting with the
// current one, have exactly the given types. The probe leaves lexer state
// unchanged on both branches.
func (p *parser) nextTokensAre(tts ...TokenType) (bool, error) {
	p.lex.save()
	defer p.lex.restore()

	for _, tt := range tts {
		if p.lex.tok.Type != tt {
			return false, nil
		}
		if err := p.lex.scanToken(); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (p *parser) isFunctionCall() (bool, error) {
	return p.nextTokensAre(tokenIdent, tokenLParen)
}

func (p *parser) isAssignment() (bool, error) {
	return p.nextTokensAre(tokenIdent, tokenAssign)
}

func (p *parser) isDeclaration() bool {
	return p.lex.tok.Type == tokenVar || p.lex.tok.Type == tokenFunction
}

// program -> PROGRAM variable block
func (p *parser) program() (*Program, error) {
	if _, err := p.expect(tokenProgram); err != nil {
		return nil, err
	}
	// The program name is matched but not retained.
	if _, err := p.expect(tokenIdent); err != nil {
		return nil, err
	}
	block, err := p.block()
	if err != nil {
		return nil, err
	}
	return &Program{Block: block}, nil
}

// block -> LCBRACE declarations compound_statement RCBRACE
func (p *parser) block() (*Block, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if _, err := p.expect(tokenLBrace); err != nil {
		return nil, err
	}
	declarations, err := p.declarations()
	if err != nil {
		return nil, err
	}
	compound, err := p.compoundStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenRBrace); err != nil {
		return nil, err
	}
	return &Block{Declarations: declarations, Compound: compound}, nil
}

// declarations alternates VAR groups and FUNCTION groups for as long as
// either keyword recurs at this nesting level; both kinds may interleave.
func (p *parser) declarations() ([]Statement, error) {
	var declarations []Statement

	for p.isDeclaration() {
		if p.lex.tok.Type == tokenVar {
			if err := p.lex.scanToken(); err != nil {
				return nil, err
			}
			for {
				listed, err := p.nextTokensAre(tokenIdent, tokenComma)
				if err != nil {
					return nil, err
				}
				typed, err := p.nextTokensAre(tokenIdent, tokenColon)
				if err != nil {
					return nil, err
				}
				if !listed && !typed {
					break
				}
				decl, err := p.variableDeclaration()
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(tokenSemi); err != nil {
					return nil, err
				}
				declarations = append(declarations, decl)
			}
		}

		for p.lex.tok.Type == tokenFunction {
			decl, err := p.functionDeclaration()
			if err != nil {
				return nil, err
			}
			declarations = append(declarations, decl)
		}
	}

	return declarations, nil
}

// functionDeclaration -> FUNCTION ID (LPARENT params RPARENT)? block
func (p *parser) functionDeclaration() (*FunctionDecl, error) {
	if _, err := p.expect(tokenFunction); err != nil {
		return nil, err
	}
	name, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}

	var params []Param
	if p.lex.tok.Type == tokenLParen {
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		params, err = p.parameterList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen); err != nil {
			return nil, err
		}
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &FunctionDecl{Name: name.Literal, Params: params, Body: body}, nil
}

// parameterList -> ID (COMMA ID)* COLON base_type (SEMI parameterList)?
// Every identifier in a group shares the group's type.
func (p *parser) parameterList() ([]Param, error) {
	if p.lex.tok.Type == tokenRParen {
		return nil, nil
	}

	name, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	names := []string{name.Literal}
	for p.lex.tok.Type == tokenComma {
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		name, err := p.expect(tokenIdent)
		if err != nil {
			return nil, err
		}
		names = append(names, name.Literal)
	}

	if _, err := p.expect(tokenColon); err != nil {
		return nil, err
	}
	baseType, err := p.baseType()
	if err != nil {
		return nil, err
	}

	params := make([]Param, 0, len(names))
	for _, n := range names {
		params = append(params, Param{Name: n, Type: baseType})
	}

	if p.lex.tok.Type != tokenRParen {
		if _, err := p.expect(tokenSemi); err != nil {
			return nil, err
		}
		rest, err := p.parameterList()
		if err != nil {
			return nil, err
		}
		params = append(params, rest...)
	}

	return params, nil
}

// variableDeclaration -> ID (COMMA ID)* COLON base_type (ASSIGN base_expr)?
func (p *parser) variableDeclaration() (*VarDecs, error) {
	name, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	names := []string{name.Literal}
	for p.lex.tok.Type == tokenComma {
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		name, err := p.expect(tokenIdent)
		if err != nil {
			return nil, err
		}
		names = append(names, name.Literal)
	}

	if _, err := p.expect(tokenColon); err != nil {
		return nil, err
	}
	baseType, err := p.baseType()
	if err != nil {
		return nil, err
	}

	var init Expression
	if p.lex.tok.Type == tokenAssign {
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		init, err = p.baseExpr()
		if err != nil {
			return nil, err
		}
	}

	return &VarDecs{Names: names, Type: baseType, Init: init}, nil
}

func (p *parser) baseType() (TokenType, error) {
	tok := p.lex.tok
	switch tok.Type {
	case tokenIntegerType, tokenRealType, tokenStringType, tokenBooleanType, tokenObjectType:
		if err := p.lex.scanToken(); err != nil {
			return "", err
		}
		return tok.Type, nil
	}
	return "", p.errorf(ParseErrUnexpectedToken, "expected a base type, got %s", tokenLabel(tok.Type))
}

func (p *parser) compoundStatement() (*Compound, error) {
	statements, err := p.statementList()
	if err != nil {
		return nil, err
	}
	return &Compound{Statements: statements}, nil
}

func (p *parser) statementList() ([]Statement, error) {
	statements, err := p.statement()
	if err != nil {
		return nil, err
	}

	for {
		more, err := p.startsStatement()
		if err != nil {
			return nil, err
		}
		if !more {
			return statements, nil
		}
		next, err := p.statement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, next...)
	}
}

func (p *parser) startsStatement() (bool, error) {
	if call, err := p.isFunctionCall(); err != nil || call {
		return call, err
	}
	if assign, err := p.isAssignment(); err != nil || assign {
		return assign, err
	}
	switch p.lex.tok.Type {
	case tokenVar, tokenFunction, tokenIf, tokenFor, tokenBreak, tokenReturn:
		return true, nil
	}
	return false, nil
}

// statement dispatches with fixed priority: function call, assignment,
// declaration, if, for, break, return, empty.
func (p *parser) statement() ([]Statement, error) {
	if call, err := p.isFunctionCall(); err != nil {
		return nil, err
	} else if call {
		node, err := p.functionCall()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenSemi); err != nil {
			return nil, err
		}
		return []Statement{node}, nil
	}

	if assign, err := p.isAssignment(); err != nil {
		return nil, err
	} else if assign {
		node, err := p.assignmentStatement()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenSemi); err != nil {
			return nil, err
		}
		return []Statement{node}, nil
	}

	switch p.lex.tok.Type {
	case tokenVar, tokenFunction:
		return p.declarations()
	case tokenIf:
		node, err := p.ifStatement()
		if err != nil {
			return nil, err
		}
		return []Statement{node}, nil
	case tokenFor:
		node, err := p.forLoop()
		if err != nil {
			return nil, err
		}
		return []Statement{node}, nil
	case tokenBreak:
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenSemi); err != nil {
			return nil, err
		}
		return []Statement{&Break{}}, nil
	case tokenReturn:
		node, err := p.returnStatement()
		if err != nil {
			return nil, err
		}
		return []Statement{node}, nil
	case tokenRBrace:
		return []Statement{&NoOp{}}, nil
	}

	return nil, p.errorf(ParseErrUnexpectedToken, "expected a statement, got %s", tokenLabel(p.lex.tok.Type))
}

// ifStatement -> IF bool_expr block (ELIF bool_expr block)* (ELSE block)?
func (p *parser) ifStatement() (*IfStat, error) {
	if _, err := p.expect(tokenIf); err != nil {
		return nil, err
	}
	cond, err := p.boolExpr()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	branches := []IfBranch{{Cond: cond, Body: body}}

	for p.lex.tok.Type == tokenElif {
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		cond, err := p.boolExpr()
		if err != nil {
			return nil, err
		}
		body, err := p.block()
		if err != nil {
			return nil, err
		}
		branches = append(branches, IfBranch{Cond: cond, Body: body})
	}

	var elseBlock *Block
	if p.lex.tok.Type == tokenElse {
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		elseBlock, err = p.block()
		if err != nil {
			return nil, err
		}
	}

	return &IfStat{Branches: branches, Else: elseBlock}, nil
}

// forLoop -> FOR assignment SEMI bool_expr SEMI assignment block
func (p *parser) forLoop() (*ForLoop, error) {
	if _, err := p.expect(tokenFor); err != nil {
		return nil, err
	}
	init, err := p.assignmentStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenSemi); err != nil {
		return nil, err
	}
	cond, err := p.boolExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenSemi); err != nil {
		return nil, err
	}
	step, err := p.assignmentStatement()
	if err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}
	return &ForLoop{Init: init, Cond: cond, Step: step, Body: body}, nil
}

// returnStatement -> RETURN base_expr? SEMI
func (p *parser) returnStatement() (*ReturnStat, error) {
	if _, err := p.expect(tokenReturn); err != nil {
		return nil, err
	}
	if p.lex.tok.Type == tokenSemi {
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		return &ReturnStat{}, nil
	}
	value, err := p.baseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenSemi); err != nil {
		return nil, err
	}
	return &ReturnStat{Value: value}, nil
}

// functionCall -> ID LPARENT (base_expr (COMMA base_expr)*)? RPARENT
func (p *parser) functionCall() (*FunctionCall, error) {
	origin := p.lex.tok
	name, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenLParen); err != nil {
		return nil, err
	}

	if p.lex.tok.Type == tokenRParen {
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		return &FunctionCall{Name: name.Literal, Origin: origin}, nil
	}

	arg, err := p.baseExpr()
	if err != nil {
		return nil, err
	}
	args := []Expression{arg}
	for p.lex.tok.Type == tokenComma {
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		arg, err := p.baseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	if _, err := p.expect(tokenRParen); err != nil {
		return nil, err
	}
	return &FunctionCall{Name: name.Literal, Args: args, Origin: origin}, nil
}

func (p *parser) assignmentStatement() (*Assign, error) {
	target, err := p.variable()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokenAssign); err != nil {
		return nil, err
	}
	value, err := p.baseExpr()
	if err != nil {
		return nil, err
	}
	return &Assign{Target: target, Value: value}, nil
}

func (p *parser) variable() (*Var, error) {
	tok, err := p.expect(tokenIdent)
	if err != nil {
		return nil, err
	}
	return &Var{Name: tok.Literal}, nil
}
