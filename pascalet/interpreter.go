package pascalet

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config controls interpreter output and execution bounds.
type Config struct {
	Output         io.Writer
	RecursionLimit int
	StepQuota      int

	// Globals pre-seeds the global environment, letting a host persist
	// variables across runs.
	Globals map[string]any
}

// Interpreter is a tree-walking evaluator over a parsed program.
type Interpreter struct {
	out     io.Writer
	limit   int
	quota   int
	seed    map[string]any
	steps   int
	depth   int
	globals *Env
}

var errLoopBreak = errors.New("loop break")

// NewInterpreter constructs an Interpreter, applying defaults for zero
// config values.
func NewInterpreter(cfg Config) *Interpreter {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = 128
	}
	if cfg.StepQuota <= 0 {
		cfg.StepQuota = 1_000_000
	}
	return &Interpreter{out: cfg.Output, limit: cfg.RecursionLimit, quota: cfg.StepQuota, seed: cfg.Globals}
}

// Interpret evaluates a program with default configuration.
func Interpret(program *Program) error {
	return NewInterpreter(Config{}).Run(program)
}

// Run evaluates the program. A top-level return terminates it normally.
func (in *Interpreter) Run(program *Program) error {
	in.steps = 0
	in.depth = 0
	in.globals = newEnv(nil)
	for name, val := range in.seed {
		in.globals.Define(name, val)
	}

	_, _, err := in.execBlock(program.Block, in.globals)
	if errors.Is(err, errLoopBreak) {
		return &RuntimeError{Msg: "break outside of a loop"}
	}
	return err
}

// Globals returns a snapshot of the global environment after a run.
func (in *Interpreter) Globals() map[string]any {
	snapshot := make(map[string]any)
	if in.globals == nil {
		return snapshot
	}
	for name, val := range in.globals.values {
		snapshot[name] = val
	}
	return snapshot
}

// funcValue binds a function declaration to the environment it was declared
// in.
type funcValue struct {
	decl *FunctionDecl
	env  *Env
}

func (in *Interpreter) execBlock(b *Block, env *Env) (any, bool, error) {
	for _, decl := range b.Declarations {
		if val, returned, err := in.execStatement(decl, env); returned || err != nil {
			return val, returned, err
		}
	}
	return in.execStatements(b.Compound.Statements, env)
}

func (in *Interpreter) execStatements(stmts []Statement, env *Env) (any, bool, error) {
	for _, stmt := range stmts {
		if val, returned, err := in.execStatement(stmt, env); returned || err != nil {
			return val, returned, err
		}
	}
	return nil, false, nil
}

func (in *Interpreter) execStatement(stmt Statement, env *Env) (any, bool, error) {
	if err := in.step(); err != nil {
		return nil, false, err
	}

	switch node := stmt.(type) {
	case *VarDecs:
		var val any
		if node.Init != nil {
			v, err := in.eval(node.Init, env)
			if err != nil {
				return nil, false, err
			}
			val = v
		} else {
			val = zeroValue(node.Type)
		}
		for _, name := range node.Names {
			env.Define(name, val)
		}
		return nil, false, nil

	case *FunctionDecl:
		env.Define(node.Name, &funcValue{decl: node, env: env})
		return nil, false, nil

	case *Assign:
		val, err := in.eval(node.Value, env)
		if err != nil {
			return nil, false, err
		}
		env.Assign(node.Target.Name, val)
		return nil, false, nil

	case *FunctionCall:
		_, err := in.call(node, env)
		return nil, false, err

	case *IfStat:
		for _, branch := range node.Branches {
			cond, err := in.eval(branch.Cond, env)
			if err != nil {
				return nil, false, err
			}
			if truthy(cond) {
				return in.execBlock(branch.Body, newEnv(env))
			}
		}
		if node.Else != nil {
			return in.execBlock(node.Else, newEnv(env))
		}
		return nil, false, nil

	case *ForLoop:
		return in.execForLoop(node, env)

	case *Break:
		return nil, false, errLoopBreak

	case *ReturnStat:
		if node.Value == nil {
			return nil, true, nil
		}
		val, err := in.eval(node.Value, env)
		if err != nil {
			return nil, false, err
		}
		return val, true, nil

	case *NoOp:
		return nil, false, nil
	}

	return nil, false, &RuntimeError{Msg: fmt.Sprintf("unexpected statement node %T", stmt)}
}

func (in *Interpreter) execForLoop(node *ForLoop, env *Env) (any, bool, error) {
	loopEnv := newEnv(env)
	if _, _, err := in.execStatement(node.Init, loopEnv); err != nil {
		return nil, false, err
	}

	for {
		if err := in.step(); err != nil {
			return nil, false, err
		}
		cond, err := in.eval(node.Cond, loopEnv)
		if err != nil {
			return nil, false, err
		}
		if !truthy(cond) {
			return nil, false, nil
		}

		val, returned, err := in.execBlock(node.Body, newEnv(loopEnv))
		if err != nil {
			if errors.Is(err, errLoopBreak) {
				return nil, false, nil
			}
			return nil, false, err
		}
		if returned {
			return val, true, nil
		}

		if _, _, err := in.execStatement(node.Step, loopEnv); err != nil {
			return nil, false, err
		}
	}
}

func (in *Interpreter) call(node *FunctionCall, env *Env) (any, error) {
	args := make([]any, len(node.Args))
	for i, argExpr := range node.Args {
		val, err := in.eval(argExpr, env)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}

	if node.Name == "print" {
		parts := make([]string, len(args))
		for i, arg := range args {
			parts[i] = formatValue(arg)
		}
		fmt.Fprintln(in.out, strings.Join(parts, " "))
		return nil, nil
	}

	callee, ok := env.Get(node.Name)
	if !ok {
		return nil, &RuntimeError{Msg: fmt.Sprintf("call to undefined function %q", node.Name)}
	}
	fn, ok := callee.(*funcValue)
	if !ok {
		return nil, &RuntimeError{Msg: fmt.Sprintf("%q is not a function", node.Name)}
	}
	if len(args) != len(fn.decl.Params) {
		return nil, &RuntimeError{Msg: fmt.Sprintf("function %q expects %d arguments, got %d", node.Name, len(fn.decl.Params), len(args))}
	}

	in.depth++
	defer func() { in.depth-- }()
	if in.depth > in.limit {
		return nil, &RuntimeError{Msg: fmt.Sprintf("recursion limit exceeded calling %q", node.Name)}
	}

	fnEnv := newEnv(fn.env)
	for i, param := range fn.decl.Params {
		fnEnv.Define(param.Name, args[i])
	}

	val, _, err := in.execBlock(fn.decl.Body, fnEnv)
	if err != nil {
		if errors.Is(err, errLoopBreak) {
			return nil, &RuntimeError{Msg: "break outside of a loop"}
		}
		return nil, err
	}
	return val, nil
}

func (in *Interpreter) step() error {
	in.steps++
	if in.steps > in.quota {
		return &RuntimeError{Msg: "step quota exceeded"}
	}
	return nil
}

func (in *Interpreter) eval(expr Expression, env *Env) (any, error) {
	switch node := expr.(type) {
	case *Num:
		if node.IsFloat {
			return node.Float, nil
		}
		return node.Int, nil

	case *Str:
		return node.Value, nil

	case *StrConcat:
		left, err := in.eval(node.Left, env)
		if err != nil {
			return nil, err
		}
		right, err := in.eval(node.Right, env)
		if err != nil {
			return nil, err
		}
		ls, lok := left.(string)
		rs, rok := right.(string)
		if !lok || !rok {
			return nil, &RuntimeError{Msg: "string concatenation requires string operands"}
		}
		return ls + rs, nil

	case *Var:
		val, ok := env.Get(node.Name)
		if !ok {
			return nil, &RuntimeError{Msg: fmt.Sprintf("undefined variable %q", node.Name)}
		}
		return val, nil

	case *BooleanSymbol:
		return node.Value, nil

	case *NotOp:
		val, err := in.eval(node.Operand, env)
		if err != nil {
			return nil, err
		}
		return !truthy(val), nil

	case *BoolAnd:
		left, err := in.eval(node.Left, env)
		if err != nil {
			return nil, err
		}
		if !truthy(left) {
			return false, nil
		}
		right, err := in.eval(node.Right, env)
		if err != nil {
			return nil, err
		}
		return truthy(right), nil

	case *BoolOr:
		left, err := in.eval(node.Left, env)
		if err != nil {
			return nil, err
		}
		if truthy(left) {
			return true, nil
		}
		right, err := in.eval(node.Right, env)
		if err != nil {
			return nil, err
		}
		return truthy(right), nil

	case *BoolGreaterThan:
		return in.compare(node.Left, node.Right, tokenGT, env)
	case *BoolGreaterThanOrEqual:
		return in.compare(node.Left, node.Right, tokenGTE, env)
	case *BoolLessThan:
		return in.compare(node.Left, node.Right, tokenLT, env)
	case *BoolLessThanOrEqual:
		return in.compare(node.Left, node.Right, tokenLTE, env)
	case *BoolIsEqual:
		return in.compare(node.Left, node.Right, tokenEQ, env)
	case *BoolNotEqual:
		return in.compare(node.Left, node.Right, tokenNotEQ, env)

	case *UnaryOp:
		val, err := in.eval(node.Operand, env)
		if err != nil {
			return nil, err
		}
		if node.Op == tokenPlus {
			return val, nil
		}
		switch v := val.(type) {
		case int64:
			return -v, nil
		case float64:
			return -v, nil
		}
		return nil, &RuntimeError{Msg: fmt.Sprintf("cannot negate %s", valueKind(val))}

	case *BinOp:
		return in.binOp(node, env)

	case *FunctionCall:
		return in.call(node, env)
	}

	return nil, &RuntimeError{Msg: fmt.Sprintf("unexpected expression node %T", expr)}
}

func (in *Interpreter) binOp(node *BinOp, env *Env) (any, error) {
	left, err := in.eval(node.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(node.Right, env)
	if err != nil {
		return nil, err
	}

	// The disambiguation scan routes ID-only slots to the arithmetic
	// grammar, so PLUS must also concatenate when both operands are
	// strings at run time.
	if node.Op == tokenPlus {
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
	}

	if node.Op == tokenIntegerDiv {
		li, lok := left.(int64)
		ri, rok := right.(int64)
		if !lok || !rok {
			return nil, &RuntimeError{Msg: "div requires integer operands"}
		}
		if ri == 0 {
			return nil, &RuntimeError{Msg: "division by zero"}
		}
		return li / ri, nil
	}

	if node.Op == tokenFloatDiv {
		lf, lok := toFloat(left)
		rf, rok := toFloat(right)
		if !lok || !rok {
			return nil, &RuntimeError{Msg: fmt.Sprintf("cannot divide %s by %s", valueKind(left), valueKind(right))}
		}
		if rf == 0 {
			return nil, &RuntimeError{Msg: "division by zero"}
		}
		return lf / rf, nil
	}

	li, lInt := left.(int64)
	ri, rInt := right.(int64)
	if lInt && rInt {
		switch node.Op {
		case tokenPlus:
			return li + ri, nil
		case tokenMinus:
			return li - ri, nil
		case tokenMult:
			return li * ri, nil
		}
	}

	lf, lok := toFloat(left)
	rf, rok := toFloat(right)
	if !lok || !rok {
		return nil, &RuntimeError{Msg: fmt.Sprintf("cannot apply %s to %s and %s", node.Op, valueKind(left), valueKind(right))}
	}
	switch node.Op {
	case tokenPlus:
		return lf + rf, nil
	case tokenMinus:
		return lf - rf, nil
	case tokenMult:
		return lf * rf, nil
	}
	return nil, &RuntimeError{Msg: fmt.Sprintf("unsupported operator %s", node.Op)}
}

func (in *Interpreter) compare(leftExpr, rightExpr Expression, op TokenType, env *Env) (any, error) {
	left, err := in.eval(leftExpr, env)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(rightExpr, env)
	if err != nil {
		return nil, err
	}

	if lf, lok := toFloat(left); lok {
		if rf, rok := toFloat(right); rok {
			return orderedCompare(lf, rf, op), nil
		}
	}
	if ls, lok := left.(string); lok {
		if rs, rok := right.(string); rok {
			return orderedCompare(ls, rs, op), nil
		}
	}
	if lb, lok := left.(bool); lok {
		if rb, rok := right.(bool); rok {
			switch op {
			case tokenEQ:
				return lb == rb, nil
			case tokenNotEQ:
				return lb != rb, nil
			}
			return nil, &RuntimeError{Msg: fmt.Sprintf("cannot order booleans with %s", op)}
		}
	}

	// Mixed kinds are never equal but cannot be ordered.
	switch op {
	case tokenEQ:
		return false, nil
	case tokenNotEQ:
		return true, nil
	}
	return nil, &RuntimeError{Msg: fmt.Sprintf("cannot compare %s with %s", valueKind(left), valueKind(right))}
}

func orderedCompare[T int64 | float64 | string](left, right T, op TokenType) bool {
	switch op {
	case tokenGT:
		return left > right
	case tokenGTE:
		return left >= right
	case tokenLT:
		return left < right
	case tokenLTE:
		return left <= right
	case tokenEQ:
		return left == right
	case tokenNotEQ:
		return left != right
	}
	return false
}

func toFloat(val any) (float64, bool) {
	switch v := val.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func truthy(val any) bool {
	switch v := val.(type) {
	case nil:
		return false
	case bool:
		return v
	case int64:
		return v != 0
	case float64:
		return v != 0
	case string:
		return v != ""
	}
	return true
}

func zeroValue(tt TokenType) any {
	switch tt {
	case tokenIntegerType:
		return int64(0)
	case tokenRealType:
		return float64(0)
	case tokenStringType:
		return ""
	case tokenBooleanType:
		return false
	}
	return nil
}

func valueKind(val any) string {
	switch val.(type) {
	case nil:
		return "nil"
	case bool:
		return "boolean"
	case int64:
		return "integer"
	case float64:
		return "real"
	case string:
		return "string"
	case *funcValue:
		return "function"
	}
	return fmt.Sprintf("%T", val)
}

func formatValue(val any) string {
	switch v := val.(type) {
	case nil:
		return "nil"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case string:
		return v
	case *funcValue:
		return "function " + v.decl.Name
	}
	return fmt.Sprintf("%v", val)
}
