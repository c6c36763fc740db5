package pascalet

import (
	"bytes"
	"strings"
	"testing"
)

func runProgram(t *testing.T, input string) string {
	t.Helper()
	program, err := Parse(input)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if err := Analyze(program); err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	var out bytes.Buffer
	interp := NewInterpreter(Config{Output: &out})
	if err := interp.Run(program); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return out.String()
}

func runtimeError(t *testing.T, input string) string {
	t.Helper()
	program, err := Parse(input)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	var out bytes.Buffer
	err = NewInterpreter(Config{Output: &out}).Run(program)
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	return err.Error()
}

func TestInterpretPrint(t *testing.T) {
	got := runProgram(t, `program t { print("hello", 1, true); }`)
	if got != "hello 1 true\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretArithmetic(t *testing.T) {
	got := runProgram(t, `
		program t {
			var x : integer;
			x = 2 + 3 * 4 - 1;
			print(x);
		}`)
	if got != "13\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretIntegerDivision(t *testing.T) {
	got := runProgram(t, `
		program t {
			var q : integer = 7 div 2;
			print(q);
		}`)
	if got != "3\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretFloatDivision(t *testing.T) {
	got := runProgram(t, `
		program t {
			var q : real = 7 / 2;
			print(q);
		}`)
	if got != "3.5\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretDivisionByZero(t *testing.T) {
	msg := runtimeError(t, `
		program t {
			var x : integer;
			x = 1 div 0;
		}`)
	if !strings.Contains(msg, "division by zero") {
		t.Fatalf("unexpected error: %q", msg)
	}
}

func TestInterpretStringConcat(t *testing.T) {
	got := runProgram(t, `
		program t {
			var s : string;
			s = "foo" + "bar" + "baz";
			print(s);
		}`)
	if got != "foobarbaz\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretStringVariableConcat(t *testing.T) {
	// Two identifiers make the slot parse as arithmetic, so + must still
	// join the runtime strings.
	got := runProgram(t, `
		program t {
			var a : string = "left";
			var b : string = "right";
			var s : string;
			s = a + b;
			print(s);
		}`)
	if got != "leftright\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretForLoopSum(t *testing.T) {
	got := runProgram(t, `
		program t {
			var sum, i : integer;
			for i = 1; i <= 10; i = i + 1 {
				sum = sum + i;
			}
			print(sum);
		}`)
	if got != "55\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretBreak(t *testing.T) {
	got := runProgram(t, `
		program t {
			var i : integer;
			for i = 0; i < 100; i = i + 1 {
				if i == 3 {
					break;
				}
				print(i);
			}
		}`)
	if got != "0\n1\n2\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretIfElifElse(t *testing.T) {
	got := runProgram(t, `
		program t {
			var x : integer = 2;
			if x == 1 { print("one"); }
			elif x == 2 { print("two"); }
			else { print("many"); }
		}`)
	if got != "two\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretFactorial(t *testing.T) {
	got := runProgram(t, `
		program t {
			function fact(n : integer) {
				if n <= 1 {
					return 1;
				}
				return n * fact(n - 1);
			}
			print(fact(10));
		}`)
	if got != "3628800\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretBareReturnStopsFunction(t *testing.T) {
	got := runProgram(t, `
		program t {
			function f() {
				print("before");
				return;
				print("after");
			}
			f();
		}`)
	if got != "before\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretClosureOverDeclarationEnv(t *testing.T) {
	got := runProgram(t, `
		program t {
			var counter : integer = 0;
			function bump() {
				counter = counter + 1;
			}
			bump();
			bump();
			print(counter);
		}`)
	if got != "2\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretBooleanOperators(t *testing.T) {
	got := runProgram(t, `
		program t {
			print(true and false);
			print(true or false);
			print(not false);
			print(1 < 2 and 2 < 3);
		}`)
	if got != "false\ntrue\ntrue\ntrue\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretMixedKindEquality(t *testing.T) {
	got := runProgram(t, `
		program t {
			var s : string = "1";
			print(s == 1);
			print(s != 1);
		}`)
	if got != "false\ntrue\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretRecursionLimit(t *testing.T) {
	program, err := Parse(`
		program t {
			function loop() {
				return loop();
			}
			loop();
		}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	err = NewInterpreter(Config{RecursionLimit: 16}).Run(program)
	if err == nil || !strings.Contains(err.Error(), "recursion limit") {
		t.Fatalf("expected a recursion limit error, got: %v", err)
	}
}

func TestInterpretStepQuota(t *testing.T) {
	program, err := Parse(`
		program t {
			var i : integer;
			for i = 0; i < 1000000; i = i + 1 { }
		}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	err = NewInterpreter(Config{StepQuota: 100}).Run(program)
	if err == nil || !strings.Contains(err.Error(), "step quota") {
		t.Fatalf("expected a step quota error, got: %v", err)
	}
}

func TestInterpretSeededGlobals(t *testing.T) {
	program, err := Parse(`
		program t {
			x = x + 1;
		}`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	interp := NewInterpreter(Config{Globals: map[string]any{"x": int64(41)}})
	if err := interp.Run(program); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	globals := interp.Globals()
	if got, ok := globals["x"].(int64); !ok || got != 42 {
		t.Fatalf("expected x=42 in globals, got %#v", globals["x"])
	}
}

func TestInterpretZeroValues(t *testing.T) {
	got := runProgram(t, `
		program t {
			var i : integer;
			var r : real;
			var s : string;
			var b : boolean;
			print(i, r, s, b);
		}`)
	if got != "0 0  false\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretUnaryMinus(t *testing.T) {
	got := runProgram(t, `
		program t {
			var x : integer = -5;
			print(-x);
			print(--x);
		}`)
	if got != "5\n-5\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}

func TestInterpretRealPromotion(t *testing.T) {
	got := runProgram(t, `
		program t {
			var r : real;
			r = 1 + 0.5;
			print(r);
		}`)
	if got != "1.5\n" {
		t.Fatalf("unexpected output: %q", got)
	}
}
