package tests

import (
	"strings"
	"testing"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/interpreter"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/parser"
)

// TestGlobalsPersistAcrossEvals mirrors a REPL session: definitions from
// one line are visible on the next.
func TestGlobalsPersistAcrossEvals(t *testing.T) {
	interp := interpreter.New()

	lines := []struct {
		input    string
		expected string
	}{
		{"let x = 10", "10"},
		{"fun square(n: i32) -> i32 { n * n }", "fun square(n: i32)"},
		{"square(x)", "100"},
		{"let mut total = 0", "0"},
		{"for i in 1..=4 { total = total + i }", "()"},
		{"total", "10"},
	}

	for _, line := range lines {
		result := interp.EvalSource(line.input)
		if result == nil {
			t.Fatalf("%s: nil result", line.input)
		}
		if !strings.Contains(result.Inspect(), line.expected) {
			t.Errorf("%s: got %s, want %s", line.input, result.Inspect(), line.expected)
		}
	}
}

// TestResultHistory checks the _ and __ bindings the REPL exposes.
func TestResultHistory(t *testing.T) {
	interp := interpreter.New()

	interp.EvalSource("1 + 1")
	interp.EvalSource("10 * 10")

	if last := interp.LastResult(); last == nil || last.Inspect() != "100" {
		t.Errorf("last result: %v", last)
	}
	if prior := interp.PriorResult(); prior == nil || prior.Inspect() != "2" {
		t.Errorf("prior result: %v", prior)
	}

	// errors do not displace history
	interp.EvalSource("missing_name")
	if last := interp.LastResult(); last == nil || last.Inspect() != "100" {
		t.Errorf("errors should not enter history: %v", last)
	}
}

// TestTransactionalRollback verifies that a failing program leaves the
// global scope untouched while a clean one commits.
func TestTransactionalRollback(t *testing.T) {
	interp := interpreter.New()
	interp.EvalSource("let mut x = 1")

	program := mustParse(t, "x = 2\nboom()")
	result := interp.EvalTransactional(program)
	if result.Type() != interpreter.ERROR_OBJ {
		t.Fatalf("expected an error, got %s", result.Inspect())
	}
	if got := interp.EvalSource("x"); got.Inspect() != "1" {
		t.Errorf("failed transaction should roll back: x = %s", got.Inspect())
	}

	program = mustParse(t, "x = 2\nx")
	result = interp.EvalTransactional(program)
	if result.Inspect() != "2" {
		t.Fatalf("clean transaction result: %s", result.Inspect())
	}
	if got := interp.EvalSource("x"); got.Inspect() != "2" {
		t.Errorf("clean transaction should commit: x = %s", got.Inspect())
	}
}

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse failed: %v", errs)
	}
	return program
}
