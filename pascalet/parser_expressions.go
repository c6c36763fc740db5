package pascalet

import "strconv"

// boolMarkers are the token types whose appearance before a statement
// terminator marks a slot as a boolean expression.
var boolMarkers = []TokenType{
	tokenAnd, tokenOr, tokenBoolean, tokenNot, tokenNotEQ,
	tokenGT, tokenGTE, tokenLT, tokenLTE, tokenEQ,
}

// arithMarkers likewise mark a slot as an arithmetic expression.
var arithMarkers = []TokenType{
	tokenMult, tokenIntegerDiv, tokenFloatDiv, tokenMinus, tokenPlus,
	tokenIdent, tokenInt, tokenFloat,
}

// scanAheadForAny scans forward token-by-token, without consuming, until a
// statement terminator (SEMI, LCBRACE, or EOF), reporting whether any of the
// given token types appears first. The scan is a pure probe.
func (p *parser) scanAheadForAny(tts ...TokenType) (bool, error) {
	p.lex.save()
	defer p.lex.restore()

	for {
		cur := p.lex.tok.Type
		if cur == tokenSemi || cur == tokenLBrace || cur == tokenEOF {
			return false, nil
		}
		for _, tt := range tts {
			if cur == tt {
				return true, nil
			}
		}
		if err := p.lex.scanToken(); err != nil {
			return false, err
		}
	}
}

// baseExpr resolves the expression kind of a slot that may be string,
// boolean, or arithmetic. The priority order string > boolean > arithmetic
// is the sole mechanism resolving the grammar's ambiguity and must not
// change: it decides which programs are accepted.
func (p *parser) baseExpr() (Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if isStr, err := p.scanAheadForAny(tokenString); err != nil {
		return nil, err
	} else if isStr {
		return p.strExpr()
	}

	if isBool, err := p.scanAheadForAny(boolMarkers...); err != nil {
		return nil, err
	} else if isBool {
		return p.boolExpr()
	}

	if isArith, err := p.scanAheadForAny(arithMarkers...); err != nil {
		return nil, err
	} else if isArith {
		return p.expr()
	}

	return nil, p.errorf(ParseErrUndecidableExpr, "cannot decide the expression kind")
}

// boolExpr -> bool_term ((OR|AND) bool_term)*
func (p *parser) boolExpr() (Expression, error) {
	node, err := p.boolTerm()
	if err != nil {
		return nil, err
	}
	for p.lex.tok.Type == tokenOr || p.lex.tok.Type == tokenAnd {
		op := p.lex.tok.Type
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		right, err := p.boolTerm()
		if err != nil {
			return nil, err
		}
		if op == tokenOr {
			node = &BoolOr{Left: node, Right: right}
		} else {
			node = &BoolAnd{Left: node, Right: right}
		}
	}
	return node, nil
}

// boolTerm -> bool_factor (cmp_op bool_factor)*
func (p *parser) boolTerm() (Expression, error) {
	node, err := p.boolFactor()
	if err != nil {
		return nil, err
	}
	for {
		op := p.lex.tok.Type
		switch op {
		case tokenGT, tokenGTE, tokenLT, tokenLTE, tokenEQ, tokenNotEQ:
		default:
			return node, nil
		}
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		right, err := p.boolFactor()
		if err != nil {
			return nil, err
		}
		switch op {
		case tokenGT:
			node = &BoolGreaterThan{Left: node, Right: right}
		case tokenGTE:
			node = &BoolGreaterThanOrEqual{Left: node, Right: right}
		case tokenLT:
			node = &BoolLessThan{Left: node, Right: right}
		case tokenLTE:
			node = &BoolLessThanOrEqual{Left: node, Right: right}
		case tokenEQ:
			node = &BoolIsEqual{Left: node, Right: right}
		case tokenNotEQ:
			node = &BoolNotEqual{Left: node, Right: right}
		}
	}
}

// boolFactor -> NOT bool_term | LPARENT bool_expr RPARENT | BOOLEAN
//             | function_call | ID | INTEGER | FLOAT
func (p *parser) boolFactor() (Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.lex.tok
	switch tok.Type {
	case tokenNot:
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		operand, err := p.boolTerm()
		if err != nil {
			return nil, err
		}
		return &NotOp{Operand: operand}, nil
	case tokenBoolean:
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		return &BooleanSymbol{Value: tok.Literal == "true"}, nil
	}

	if call, err := p.isFunctionCall(); err != nil {
		return nil, err
	} else if call {
		return p.functionCall()
	}

	switch tok.Type {
	case tokenIdent:
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		return &Var{Name: tok.Literal}, nil
	case tokenInt, tokenFloat:
		return p.numberLiteral()
	case tokenLParen:
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		node, err := p.boolExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen); err != nil {
			return nil, err
		}
		return node, nil
	}

	return nil, p.errorf(ParseErrUnexpectedToken, "expected a boolean factor, got %s", tokenLabel(tok.Type))
}

// strExpr -> (STRING|ID|function_call) (PLUS str_expr)?
// Chains are right-recursive: the remainder after PLUS is parsed as one
// nested str_expr, even though arithmetic folding is left-associative.
func (p *parser) strExpr() (Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.lex.tok
	var node Expression
	switch {
	case tok.Type == tokenString:
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		node = &Str{Value: tok.Literal}
	case tok.Type == tokenIdent:
		call, err := p.isFunctionCall()
		if err != nil {
			return nil, err
		}
		if call {
			node, err = p.functionCall()
			if err != nil {
				return nil, err
			}
		} else {
			if err := p.lex.scanToken(); err != nil {
				return nil, err
			}
			node = &Var{Name: tok.Literal}
		}
	default:
		return nil, p.errorf(ParseErrUnexpectedToken,
			"string expressions may only contain string literals, identifiers, and calls; got %s", tokenLabel(tok.Type))
	}

	if p.lex.tok.Type == tokenPlus {
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		rest, err := p.strExpr()
		if err != nil {
			return nil, err
		}
		return &StrConcat{Left: node, Right: rest}, nil
	}
	return node, nil
}

// expr -> term ((PLUS|MINUS) term)*
func (p *parser) expr() (Expression, error) {
	node, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.lex.tok.Type == tokenPlus || p.lex.tok.Type == tokenMinus {
		op := p.lex.tok.Type
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		node = &BinOp{Left: node, Op: op, Right: right}
	}
	return node, nil
}

// term -> factor ((MULT|FLOAT_DIV|INTEGER_DIV) factor)*
func (p *parser) term() (Expression, error) {
	node, err := p.factor()
	if err != nil {
		return nil, err
	}
	for {
		op := p.lex.tok.Type
		switch op {
		case tokenMult, tokenFloatDiv, tokenIntegerDiv:
		default:
			return node, nil
		}
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		right, err := p.factor()
		if err != nil {
			return nil, err
		}
		node = &BinOp{Left: node, Op: op, Right: right}
	}
}

// factor -> (PLUS|MINUS) factor | INTEGER | FLOAT | LPARENT expr RPARENT
//         | function_call | ID
func (p *parser) factor() (Expression, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.lex.tok
	switch tok.Type {
	case tokenPlus, tokenMinus:
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		operand, err := p.factor()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: tok.Type, Operand: operand}, nil
	case tokenInt, tokenFloat:
		return p.numberLiteral()
	case tokenLParen:
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		node, err := p.expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokenRParen); err != nil {
			return nil, err
		}
		return node, nil
	}

	if call, err := p.isFunctionCall(); err != nil {
		return nil, err
	} else if call {
		return p.functionCall()
	}

	if tok.Type == tokenIdent {
		if err := p.lex.scanToken(); err != nil {
			return nil, err
		}
		return &Var{Name: tok.Literal}, nil
	}

	return nil, p.errorf(ParseErrUnexpectedToken, "expected a factor, got %s", tokenLabel(tok.Type))
}

func (p *parser) numberLiteral() (*Num, error) {
	tok := p.lex.tok
	if err := p.lex.scanToken(); err != nil {
		return nil, err
	}
	if tok.Type == tokenFloat {
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errorf(ParseErrUnexpectedToken, "invalid float literal %q", tok.Literal)
		}
		return &Num{Float: value, IsFloat: true}, nil
	}
	value, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		return nil, p.errorf(ParseErrUnexpectedToken, "invalid integer literal %q", tok.Literal)
	}
	return &Num{Int: value}, nil
}
