package pascalet

import (
	"errors"
	"strings"
	"testing"
)

func analyze(t *testing.T, input string) error {
	t.Helper()
	program, err := Parse(input)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return Analyze(program)
}

func wantSemanticError(t *testing.T, input, fragment string) {
	t.Helper()
	err := analyze(t, input)
	if err == nil {
		t.Fatal("expected a semantic error")
	}
	var semErr *SemanticError
	if !errors.As(err, &semErr) {
		t.Fatalf("expected *SemanticError, got %T: %v", err, err)
	}
	if !strings.Contains(semErr.Msg, fragment) {
		t.Fatalf("expected error mentioning %q, got %q", fragment, semErr.Msg)
	}
}

func TestAnalyzeValidProgram(t *testing.T) {
	err := analyze(t, `
		program t {
			var total : integer = 0;
			var i : integer;
			function add(a, b : integer) {
				return a + b;
			}
			for i = 0; total < 10; i = i + 1 {
				total = add(total, i);
			}
			print(total);
		}`)
	if err != nil {
		t.Fatalf("expected a clean analysis, got: %v", err)
	}
}

func TestAnalyzeDuplicateVariable(t *testing.T) {
	wantSemanticError(t, `
		program t {
			var x : integer;
			var x : string;
		}`, "duplicate")
}

func TestAnalyzeVariableShadowingFunctionName(t *testing.T) {
	wantSemanticError(t, `
		program t {
			function f() { }
			var f : integer;
		}`, "already declared as a function")
}

func TestAnalyzeUndeclaredAssignment(t *testing.T) {
	wantSemanticError(t, "program t { x = 1; }", "undeclared")
}

func TestAnalyzeUndeclaredUse(t *testing.T) {
	wantSemanticError(t, `
		program t {
			var x : integer;
			x = y + 1;
		}`, "undeclared")
}

func TestAnalyzeInitializerTypeMismatch(t *testing.T) {
	wantSemanticError(t, `
		program t {
			var sum : integer = "something";
		}`, "initialize")
}

func TestAnalyzeAssignmentTypeMismatch(t *testing.T) {
	wantSemanticError(t, `
		program t {
			var flag : boolean;
			flag = 1 + 2;
		}`, "assign")
}

func TestAnalyzeIntegerWidensToReal(t *testing.T) {
	err := analyze(t, `
		program t {
			var ratio : real = 1;
			ratio = 2 + 3;
		}`)
	if err != nil {
		t.Fatalf("integer values should widen to real, got: %v", err)
	}
}

func TestAnalyzeObjectAcceptsAnything(t *testing.T) {
	err := analyze(t, `
		program t {
			var anything : object;
			anything = 1;
			anything = "text";
			anything = true;
		}`)
	if err != nil {
		t.Fatalf("object slots should accept every kind, got: %v", err)
	}
}

func TestAnalyzeCallArityMismatch(t *testing.T) {
	wantSemanticError(t, `
		program t {
			function pair(a, b : integer) { }
			pair(1);
		}`, "expects 2 arguments")
}

func TestAnalyzeUndeclaredFunctionCall(t *testing.T) {
	wantSemanticError(t, "program t { missing(); }", "undeclared function")
}

func TestAnalyzePrintIsBuiltin(t *testing.T) {
	if err := analyze(t, `program t { print("hi", 1, true); }`); err != nil {
		t.Fatalf("print should be known without a declaration, got: %v", err)
	}
}

func TestAnalyzeBreakOutsideLoop(t *testing.T) {
	wantSemanticError(t, "program t { break; }", "break outside")
}

func TestAnalyzeBreakInsideLoop(t *testing.T) {
	err := analyze(t, `
		program t {
			var i : integer;
			for i = 0; i < 10; i = i + 1 {
				break;
			}
		}`)
	if err != nil {
		t.Fatalf("break inside a loop should pass, got: %v", err)
	}
}

func TestAnalyzeDuplicateParameter(t *testing.T) {
	wantSemanticError(t, `
		program t {
			function f(a : integer; a : string) { }
		}`, "duplicate parameter")
}

func TestAnalyzeParametersVisibleInBody(t *testing.T) {
	err := analyze(t, `
		program t {
			function scale(value : real; by : integer) {
				return value * by;
			}
		}`)
	if err != nil {
		t.Fatalf("parameters should be in scope, got: %v", err)
	}
}

func TestAnalyzeNestedFunctionSeesOuterScope(t *testing.T) {
	err := analyze(t, `
		program t {
			var base : integer = 10;
			function outer() {
				function inner() {
					return base + 1;
				}
				return inner();
			}
		}`)
	if err != nil {
		t.Fatalf("nested functions should see enclosing names, got: %v", err)
	}
}
