package pascalet

// Statement is any construct that can appear in a compound statement or a
// declarations list. Nodes are built bottom-up by the parser and never
// mutated afterwards.
type Statement interface {
	stmtNode()
}

// Expression is any construct that produces a value.
type Expression interface {
	exprNode()
}

// Program is the AST root.
type Program struct {
	Block *Block
}

// Block pairs an ordered declarations list with its executable body.
// Declaration order is load-bearing: later stages scope names by it.
type Block struct {
	Declarations []Statement
	Compound     *Compound
}

// VarDecs declares one or more names sharing a base type, with an optional
// initializer.
type VarDecs struct {
	Names []string
	Type  TokenType
	Init  Expression
}

func (*VarDecs) stmtNode() {}

// Param is a single typed function parameter.
type Param struct {
	Name string
	Type TokenType
}

// FunctionDecl declares a named function with its parameters and body.
type FunctionDecl struct {
	Name   string
	Params []Param
	Body   *Block
}

func (*FunctionDecl) stmtNode() {}

// Compound is an ordered sequence of statements.
type Compound struct {
	Statements []Statement
}

func (*Compound) stmtNode() {}

// Assign stores the value of an expression into a variable.
type Assign struct {
	Target *Var
	Value  Expression
}

func (*Assign) stmtNode() {}

// FunctionCall invokes a named function. It retains its originating token so
// later stages can report call-site diagnostics. A call is both a statement
// and an expression.
type FunctionCall struct {
	Name   string
	Args   []Expression
	Origin Token
}

func (*FunctionCall) stmtNode() {}
func (*FunctionCall) exprNode() {}

// IfBranch is one condition/body pair of an if statement.
type IfBranch struct {
	Cond Expression
	Body *Block
}

// IfStat holds the if/elif branches in order plus an optional else block.
type IfStat struct {
	Branches []IfBranch
	Else     *Block
}

func (*IfStat) stmtNode() {}

// ForLoop is a counted loop: init, condition, step, body.
type ForLoop struct {
	Init *Assign
	Cond Expression
	Step *Assign
	Body *Block
}

func (*ForLoop) stmtNode() {}

// Break exits the innermost enclosing loop.
type Break struct{}

func (*Break) stmtNode() {}

// ReturnStat returns from the enclosing function, optionally with a value.
type ReturnStat struct {
	Value Expression
}

func (*ReturnStat) stmtNode() {}

// NoOp is the empty statement.
type NoOp struct{}

func (*NoOp) stmtNode() {}

// BinOp is an arithmetic binary operation.
type BinOp struct {
	Left  Expression
	Op    TokenType
	Right Expression
}

func (*BinOp) exprNode() {}

// UnaryOp is an arithmetic sign operation.
type UnaryOp struct {
	Op      TokenType
	Operand Expression
}

func (*UnaryOp) exprNode() {}

// Num is a numeric literal. Integer literals keep IsFloat false.
type Num struct {
	Int     int64
	Float   float64
	IsFloat bool
}

func (*Num) exprNode() {}

// Str is a string literal.
type Str struct {
	Value string
}

func (*Str) exprNode() {}

// StrConcat joins two string expressions. Chains are right-recursive: the
// Right side of a chain holds the remainder.
type StrConcat struct {
	Left  Expression
	Right Expression
}

func (*StrConcat) exprNode() {}

// BoolOr is a boolean disjunction.
type BoolOr struct {
	Left  Expression
	Right Expression
}

func (*BoolOr) exprNode() {}

// BoolAnd is a boolean conjunction.
type BoolAnd struct {
	Left  Expression
	Right Expression
}

func (*BoolAnd) exprNode() {}

// NotOp negates a boolean term.
type NotOp struct {
	Operand Expression
}

func (*NotOp) exprNode() {}

// BooleanSymbol is a true/false literal.
type BooleanSymbol struct {
	Value bool
}

func (*BooleanSymbol) exprNode() {}

type BoolGreaterThan struct {
	Left  Expression
	Right Expression
}

func (*BoolGreaterThan) exprNode() {}

type BoolGreaterThanOrEqual struct {
	Left  Expression
	Right Expression
}

func (*BoolGreaterThanOrEqual) exprNode() {}

type BoolLessThan struct {
	Left  Expression
	Right Expression
}

func (*BoolLessThan) exprNode() {}

type BoolLessThanOrEqual struct {
	Left  Expression
	Right Expression
}

func (*BoolLessThanOrEqual) exprNode() {}

type BoolIsEqual struct {
	Left  Expression
	Right Expression
}

func (*BoolIsEqual) exprNode() {}

type BoolNotEqual struct {
	Left  Expression
	Right Expression
}

func (*BoolNotEqual) exprNode() {}

// Var references a variable by name.
type Var struct {
	Name string
}

func (*Var) exprNode() {}
