package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSource(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "script.pas")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	return path
}

func TestRunCommandCheckOnly(t *testing.T) {
	path := writeSource(t, `
		program t {
			var x : integer = 1;
			print(x);
		}`)
	if err := runCommand([]string{"-check", path}); err != nil {
		t.Fatalf("check failed: %v", err)
	}
}

func TestRunCommandReportsParseErrors(t *testing.T) {
	path := writeSource(t, "program t { x = ; }")
	err := runCommand([]string{"-check", path})
	if err == nil || !strings.Contains(err.Error(), "parse failed") {
		t.Fatalf("expected a parse failure, got: %v", err)
	}
}

func TestRunCommandReportsAnalysisErrors(t *testing.T) {
	path := writeSource(t, "program t { x = 1; }")
	err := runCommand([]string{"-check", path})
	if err == nil || !strings.Contains(err.Error(), "analysis failed") {
		t.Fatalf("expected an analysis failure, got: %v", err)
	}
}

func TestRunCommandRequiresPath(t *testing.T) {
	if err := runCommand(nil); err == nil {
		t.Fatal("expected an error without a source path")
	}
}

func TestRunCLIRejectsUnknownCommand(t *testing.T) {
	if err := runCLI([]string{"pascalet", "frobnicate"}); err == nil {
		t.Fatal("expected an error for an unknown command")
	}
}

func TestREPLEvaluatePersistsVariables(t *testing.T) {
	m := newREPLModel()
	if out, isErr := m.evaluate("var x : integer = 41"); isErr {
		t.Fatalf("declaration failed: %s", out)
	}
	if out, isErr := m.evaluate("x = x + 1"); isErr {
		t.Fatalf("assignment failed: %s", out)
	}
	out, isErr := m.evaluate("print(x)")
	if isErr {
		t.Fatalf("print failed: %s", out)
	}
	if out != "42" {
		t.Fatalf("expected 42, got %q", out)
	}
}

func TestREPLEvaluateReportsErrors(t *testing.T) {
	m := newREPLModel()
	if _, isErr := m.evaluate("x = "); !isErr {
		t.Fatal("expected an error for an undecidable expression")
	}
}
