package interpreter

import (
	"bytes"
	"strings"
	"testing"
)

func TestMathBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"sin(0)", "0.0"},
		{"cos(0)", "1.0"},
		{"tan(0)", "0.0"},
		{"log(1)", "0.0"},
		{"log10(1.0)", "0.0"},
		{"exp(0)", "1.0"},
		{"sin(0.0) + cos(0.0)", "1.0"},
	}
	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}

	testErrorCode(t, `sin("x")`, "TYPE-0001")
	testErrorCode(t, "log(1, 2)", "ARITY-0001")
}

func TestRangeBuiltin(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"range(3)", "[0, 1, 2]"},
		{"range(0)", "[]"},
		{"range(1, 4)", "[1, 2, 3]"},
		{"range(0, 10, 3)", "[0, 3, 6, 9]"},
		{"range(5, 0, -2)", "[5, 3, 1]"},
		{"range(4).sum()", "6"},
	}
	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}

	testErrorCode(t, "range(0, 1, 0)", "TYPE-0006")
	testErrorCode(t, `range("a")`, "TYPE-0001")
}

func TestIterationBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"sorted([3, 1, 2])", "[1, 2, 3]"},
		{"reversed([1, 2, 3])", "[3, 2, 1]"},
		{"enumerate([10, 20])", "[(0, 10), (1, 20)]"},
		{"zip([1, 2], [3, 4, 5])", "[(1, 3), (2, 4)]"},
		{"take([1, 2, 3], 2)", "[1, 2]"},
		{"drop([1, 2, 3], 2)", "[3]"},
		{"take(range(10), 3)", "[0, 1, 2]"},
	}
	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}

	testErrorCode(t, "sorted(5)", "TYPE-0001")
}

func TestTypePredicateBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"bool(true)", "true"},
		{"bool(false)", "false"},
		{"bool(nil)", "false"},
		{"bool(1)", "true"},
		{"is_nil(nil)", "true"},
		{"is_nil(0)", "false"},
		{"is_int(1)", "true"},
		{"is_int(1.0)", "false"},
		{"is_float(1.5)", "true"},
		{`is_string("x")`, "true"},
		{"is_bool(false)", "true"},
		{"is_array([1])", "true"},
		{"is_array((1, 2))", "false"},
		{"is_fn(println)", "true"},
		{"is_fn(|x| x)", "true"},
		{"is_fn(3)", "false"},
	}
	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestHashBuiltin(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`hash("x") == hash("x")`, "true"},
		{`hash("a") == hash("b")`, "false"},
		{"hash(1) == hash(1)", "true"},
		{`is_int(hash("x"))`, "true"},
		{`hash("x") >= 0`, "true"},
	}
	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}

	testErrorCode(t, "hash([1])", "TYPE-0001")
}

func TestRandomBuiltin(t *testing.T) {
	testInspect(t, "let r = random()\n0.0 <= r && r < 1.0", "true")
	testErrorCode(t, "random(1)", "ARITY-0001")
}

func TestDbgBuiltin(t *testing.T) {
	var out bytes.Buffer
	interp := New()
	interp.SetOutput(&out)

	result := interp.EvalSource("dbg(6 * 7)")
	if n, ok := result.(*Integer); !ok || n.Value != 42 {
		t.Fatalf("dbg should pass the value through, got %s", result.Inspect())
	}
	if out.String() != "42\n" {
		t.Errorf("dbg output: got %q, want %q", out.String(), "42\n")
	}
}

func TestAssertEqBuiltin(t *testing.T) {
	testInspect(t, "assert_eq(2 + 2, 4)", "()")

	result := testEval("assert_eq(1, 2)")
	if result.Type() != THROWN_OBJ {
		t.Fatalf("expected THROWN, got %s (%s)", result.Type(), result.Inspect())
	}
	if !strings.Contains(result.Inspect(), "assertion failed") {
		t.Errorf("unexpected assertion message: %s", result.Inspect())
	}
}

func TestPathBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`path_join("a", "b")`, "a/b"},
		{`path_join("a/b", "../c")`, "a/c"},
		{`path_parent("/a/b")`, "/a"},
		{`path_file_name("/a/b.txt")`, "b.txt"},
		{`path_file_stem("/a/b.txt")`, "b"},
		{`path_file_stem("archive.tar.gz")`, "archive.tar"},
		{`path_extension("a/b.tar.gz")`, "gz"},
		{`path_with_extension("a/b.txt", "md")`, "a/b.md"},
		{`path_with_file_name("a/b.txt", "c.md")`, "a/c.md"},
		{`path_normalize("a/./b/../c")`, "a/c"},
		{`path_components("/a/b").join(",")`, "/,a,b"},
	}
	for _, tt := range tests {
		result := testEval(tt.input)
		str, ok := result.(*String)
		if !ok {
			t.Errorf("expected STRING, got %s (%s) for input %q", result.Type(), result.Inspect(), tt.input)
			continue
		}
		if str.Value != tt.expected {
			t.Errorf("expected %q, got %q for input %q", tt.expected, str.Value, tt.input)
		}
	}

	booleans := []struct {
		input    string
		expected string
	}{
		{`path_is_absolute("/x")`, "true"},
		{`path_is_absolute("x")`, "false"},
		{`path_is_relative("x")`, "true"},
		{`is_nil(path_extension("Makefile"))`, "true"},
		{`is_nil(path_parent("/"))`, "true"},
		{`path_is_absolute(path_canonicalize("."))`, "true"},
	}
	for _, tt := range booleans {
		testInspect(t, tt.input, tt.expected)
	}

	testErrorCode(t, "path_join(1, 2)", "TYPE-0001")
	testErrorCode(t, `path_parent("a", "b")`, "ARITY-0001")
}
