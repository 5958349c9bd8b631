package format

import (
	"strings"
	"testing"

	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
)

func formatSource(t *testing.T, input string) string {
	t.Helper()
	out, err := Source(input)
	if err != nil {
		t.Fatalf("formatting %q failed: %v", input, err)
	}
	return out
}

func TestSimpleStatements(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let x=5", "let x = 5\n"},
		{"let mut count  =0", "let mut count = 0\n"},
		{"let x: i32 = 5", "let x: i32 = 5\n"},
		{"let (a,b)=(1,2)", "let (a, b) = (1, 2)\n"},
		{"return  x+1", "return x + 1\n"},
		{"x  =  y", "x = y\n"},
		{"1+2 * 3", "1 + 2 * 3\n"},
		{"xs.map(f)", "xs.map(f)\n"},
	}

	for _, tt := range tests {
		if got := formatSource(t, tt.input); got != tt.expected {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFunctionFormatting(t *testing.T) {
	got := formatSource(t, "fun add(x:i32,y:i32)->i32{x+y}")
	want := "fun add(x: i32, y: i32) -> i32 {\n    x + y\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestIfElseFormatting(t *testing.T) {
	got := formatSource(t, "if x>0 {1} else {2}")
	want := "if x > 0 {\n    1\n} else {\n    2\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNestedBlocksIndent(t *testing.T) {
	got := formatSource(t, "fun f(x: i32) { if x > 0 { x } else { 0 } }")
	want := "fun f(x: i32) {\n" +
		"    if x > 0 {\n" +
		"        x\n" +
		"    } else {\n" +
		"        0\n" +
		"    }\n" +
		"}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMatchFormatting(t *testing.T) {
	got := formatSource(t, "match x { 1 => one(), _ => other() }")
	want := "match x {\n    1 => one(),\n    _ => other(),\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestStructFormatting(t *testing.T) {
	got := formatSource(t, "struct Point{x:i32,y:i32}")
	want := "struct Point {\n    x: i32,\n    y: i32,\n}\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBlankLineBetweenItems(t *testing.T) {
	got := formatSource(t, `fun one() { 1 }
fun two() { 2 }`)
	if !strings.Contains(got, "}\n\nfun two") {
		t.Errorf("item declarations should be separated by a blank line: %q", got)
	}

	// consecutive plain statements stay adjacent
	got = formatSource(t, "let a = 1\nlet b = 2")
	if got != "let a = 1\nlet b = 2\n" {
		t.Errorf("plain statements should not gain blank lines: %q", got)
	}
}

func TestGroupedParensSurvive(t *testing.T) {
	got := formatSource(t, "(a+b)*c")
	if got != "(a + b) * c\n" {
		t.Errorf("explicit parens should be preserved: %q", got)
	}
}

func TestIdempotent(t *testing.T) {
	sources := []string{
		"let x = (1 + 2) * 3",
		"fun fib(n: i32) -> i32 { if n < 2 { n } else { fib(n - 1) + fib(n - 2) } }",
		"match x { 1 => one(), _ => other() }",
		"struct Point { x: i32, y: i32 }",
		"for i in 0..10 { total = total + i }",
	}

	for _, src := range sources {
		once := formatSource(t, src)
		twice := formatSource(t, once)
		if once != twice {
			t.Errorf("formatting %q is not idempotent:\nfirst:  %q\nsecond: %q", src, once, twice)
		}
	}
}

func TestSourceParseError(t *testing.T) {
	_, err := Source("let = 5")
	if err == nil {
		t.Fatal("expected a parse error")
	}
	rerr, ok := err.(*rerrors.RuchyError)
	if !ok {
		t.Fatalf("expected a structured error, got %T", err)
	}
	if rerr.Class != rerrors.ClassParse {
		t.Errorf("wrong error class: %v", rerr.Class)
	}
}
