package pascalet

import "fmt"

// valueType is the coarse static type used by the analyzer.
type valueType int

const (
	typeUnknown valueType = iota
	typeInteger
	typeReal
	typeString
	typeBoolean
	typeObject
)

func (t valueType) String() string {
	switch t {
	case typeInteger:
		return "integer"
	case typeReal:
		return "real"
	case typeString:
		return "string"
	case typeBoolean:
		return "boolean"
	case typeObject:
		return "object"
	}
	return "unknown"
}

func baseTypeOf(tt TokenType) valueType {
	switch tt {
	case tokenIntegerType:
		return typeInteger
	case tokenRealType:
		return typeReal
	case tokenStringType:
		return typeString
	case tokenBooleanType:
		return typeBoolean
	case tokenObjectType:
		return typeObject
	}
	return typeUnknown
}

// symScope tracks declared variables and functions for one lexical level.
type symScope struct {
	parent *symScope
	vars   map[string]valueType
	funcs  map[string]*FunctionDecl
}

func newSymScope(parent *symScope) *symScope {
	return &symScope{parent: parent, vars: make(map[string]valueType), funcs: make(map[string]*FunctionDecl)}
}

func (s *symScope) lookupVar(name string) (valueType, bool) {
	if t, ok := s.vars[name]; ok {
		return t, true
	}
	if s.parent != nil {
		return s.parent.lookupVar(name)
	}
	return typeUnknown, false
}

func (s *symScope) lookupFunc(name string) (*FunctionDecl, bool) {
	if fd, ok := s.funcs[name]; ok {
		return fd, true
	}
	if s.parent != nil {
		return s.parent.lookupFunc(name)
	}
	return nil, false
}

type analyzer struct {
	loopDepth int
}

// Analyze performs the static checks a parsed program must pass before
// interpretation: declared-before-use, duplicate declarations, type
// compatibility of initializers and assignments, and call arity.
func Analyze(program *Program) error {
	a := &analyzer{}
	return a.block(program.Block, newSymScope(nil))
}

func (a *analyzer) errorf(format string, args ...any) error {
	return &SemanticError{Msg: fmt.Sprintf(format, args...)}
}

func (a *analyzer) block(b *Block, scope *symScope) error {
	for _, decl := range b.Declarations {
		if err := a.statement(decl, scope); err != nil {
			return err
		}
	}
	for _, stmt := range b.Compound.Statements {
		if err := a.statement(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

func (a *analyzer) statement(stmt Statement, scope *symScope) error {
	switch node := stmt.(type) {
	case *VarDecs:
		return a.varDecs(node, scope)
	case *FunctionDecl:
		return a.functionDecl(node, scope)
	case *Assign:
		return a.assign(node, scope)
	case *FunctionCall:
		_, err := a.call(node, scope)
		return err
	case *IfStat:
		for _, branch := range node.Branches {
			if _, err := a.expression(branch.Cond, scope); err != nil {
				return err
			}
			if err := a.block(branch.Body, newSymScope(scope)); err != nil {
				return err
			}
		}
		if node.Else != nil {
			return a.block(node.Else, newSymScope(scope))
		}
		return nil
	case *ForLoop:
		if err := a.assign(node.Init, scope); err != nil {
			return err
		}
		if _, err := a.expression(node.Cond, scope); err != nil {
			return err
		}
		if err := a.assign(node.Step, scope); err != nil {
			return err
		}
		a.loopDepth++
		defer func() { a.loopDepth-- }()
		return a.block(node.Body, newSymScope(scope))
	case *Break:
		if a.loopDepth == 0 {
			return a.errorf("break outside of a loop")
		}
		return nil
	case *ReturnStat:
		if node.Value != nil {
			_, err := a.expression(node.Value, scope)
			return err
		}
		return nil
	case *NoOp:
		return nil
	}
	return a.errorf("unexpected statement node %T", stmt)
}

func (a *analyzer) varDecs(node *VarDecs, scope *symScope) error {
	declared := baseTypeOf(node.Type)

	var initType valueType
	if node.Init != nil {
		t, err := a.expression(node.Init, scope)
		if err != nil {
			return err
		}
		initType = t
	}

	for _, name := range node.Names {
		if _, dup := scope.vars[name]; dup {
			return a.errorf("duplicate declaration of %q", name)
		}
		if _, dup := scope.funcs[name]; dup {
			return a.errorf("%q is already declared as a function", name)
		}
		if node.Init != nil && !assignable(declared, initType) {
			return a.errorf("cannot initialize %s variable %q with a %s value", declared, name, initType)
		}
		scope.vars[name] = declared
	}
	return nil
}

func (a *analyzer) functionDecl(node *FunctionDecl, scope *symScope) error {
	if _, dup := scope.funcs[node.Name]; dup {
		return a.errorf("duplicate declaration of function %q", node.Name)
	}
	if _, dup := scope.vars[node.Name]; dup {
		return a.errorf("%q is already declared as a variable", node.Name)
	}
	scope.funcs[node.Name] = node

	inner := newSymScope(scope)
	for _, param := range node.Params {
		if _, dup := inner.vars[param.Name]; dup {
			return a.errorf("duplicate parameter %q in function %q", param.Name, node.Name)
		}
		inner.vars[param.Name] = baseTypeOf(param.Type)
	}
	return a.block(node.Body, inner)
}

func (a *analyzer) assign(node *Assign, scope *symScope) error {
	declared, ok := scope.lookupVar(node.Target.Name)
	if !ok {
		return a.errorf("assignment to undeclared variable %q", node.Target.Name)
	}
	valueType, err := a.expression(node.Value, scope)
	if err != nil {
		return err
	}
	if !assignable(declared, valueType) {
		return a.errorf("cannot assign a %s value to %s variable %q", valueType, declared, node.Target.Name)
	}
	return nil
}

func (a *analyzer) call(node *FunctionCall, scope *symScope) (valueType, error) {
	for _, arg := range node.Args {
		if _, err := a.expression(arg, scope); err != nil {
			return typeUnknown, err
		}
	}
	if node.Name == "print" {
		return typeUnknown, nil
	}
	decl, ok := scope.lookupFunc(node.Name)
	if !ok {
		return typeUnknown, a.errorf("call to undeclared function %q", node.Name)
	}
	if len(node.Args) != len(decl.Params) {
		return typeUnknown, a.errorf("function %q expects %d arguments, got %d", node.Name, len(decl.Params), len(node.Args))
	}
	return typeUnknown, nil
}

func (a *analyzer) expression(expr Expression, scope *symScope) (valueType, error) {
	switch node := expr.(type) {
	case *Num:
		if node.IsFloat {
			return typeReal, nil
		}
		return typeInteger, nil
	case *Str:
		return typeString, nil
	case *StrConcat:
		if _, err := a.expression(node.Left, scope); err != nil {
			return typeUnknown, err
		}
		if _, err := a.expression(node.Right, scope); err != nil {
			return typeUnknown, err
		}
		return typeString, nil
	case *BooleanSymbol:
		return typeBoolean, nil
	case *NotOp:
		if _, err := a.expression(node.Operand, scope); err != nil {
			return typeUnknown, err
		}
		return typeBoolean, nil
	case *BoolOr:
		return a.boolPair(node.Left, node.Right, scope)
	case *BoolAnd:
		return a.boolPair(node.Left, node.Right, scope)
	case *BoolGreaterThan:
		return a.boolPair(node.Left, node.Right, scope)
	case *BoolGreaterThanOrEqual:
		return a.boolPair(node.Left, node.Right, scope)
	case *BoolLessThan:
		return a.boolPair(node.Left, node.Right, scope)
	case *BoolLessThanOrEqual:
		return a.boolPair(node.Left, node.Right, scope)
	case *BoolIsEqual:
		return a.boolPair(node.Left, node.Right, scope)
	case *BoolNotEqual:
		return a.boolPair(node.Left, node.Right, scope)
	case *UnaryOp:
		return a.expression(node.Operand, scope)
	case *BinOp:
		left, err := a.expression(node.Left, scope)
		if err != nil {
			return typeUnknown, err
		}
		right, err := a.expression(node.Right, scope)
		if err != nil {
			return typeUnknown, err
		}
		if node.Op == tokenFloatDiv {
			return typeReal, nil
		}
		// PLUS over identifiers parses as arithmetic even when the operands
		// hold strings, so concatenation surfaces here.
		if node.Op == tokenPlus && left == typeString && right == typeString {
			return typeString, nil
		}
		if left == typeUnknown || right == typeUnknown {
			return typeUnknown, nil
		}
		if left == typeReal || right == typeReal {
			return typeReal, nil
		}
		return typeInteger, nil
	case *Var:
		t, ok := scope.lookupVar(node.Name)
		if !ok {
			return typeUnknown, a.errorf("use of undeclared variable %q", node.Name)
		}
		return t, nil
	case *FunctionCall:
		return a.call(node, scope)
	}
	return typeUnknown, a.errorf("unexpected expression node %T", expr)
}

func (a *analyzer) boolPair(left, right Expression, scope *symScope) (valueType, error) {
	if _, err := a.expression(left, scope); err != nil {
		return typeUnknown, err
	}
	if _, err := a.expression(right, scope); err != nil {
		return typeUnknown, err
	}
	return typeBoolean, nil
}

// assignable reports whether a value of type have may be stored in a slot
// declared as want. Integer widens to real; object accepts anything; unknown
// values (calls into user functions) are accepted everywhere.
func assignable(want, have valueType) bool {
	if want == typeObject || have == typeUnknown || want == typeUnknown {
		return true
	}
	if want == typeReal {
		return have == typeReal || have == typeInteger
	}
	return want == have
}
