package interpreter

import (
	"bytes"
	"testing"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/parser"
)

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.StructuredErrors(); len(errs) > 0 {
		t.Fatalf("parse error: %s", errs[0])
	}
	return program
}

// Helper to parse and evaluate source in a fresh interpreter
func testEval(input string) Object {
	i := New()
	i.SetOutput(&bytes.Buffer{})
	return i.EvalSource(input)
}

func testInteger(t *testing.T, input string, expected int64) {
	t.Helper()
	result := testEval(input)
	intObj, ok := result.(*Integer)
	if !ok {
		t.Errorf("expected INTEGER, got %s (%s) for input %q", result.Type(), result.Inspect(), input)
		return
	}
	if intObj.Value != expected {
		t.Errorf("expected %d, got %d for input %q", expected, intObj.Value, input)
	}
}

func testErrorCode(t *testing.T, input string, code string) {
	t.Helper()
	result := testEval(input)
	errObj, ok := result.(*Error)
	if !ok {
		t.Errorf("expected error %s, got %s (%s) for input %q", code, result.Type(), result.Inspect(), input)
		return
	}
	if errObj.Err.Code != code {
		t.Errorf("expected code %s, got %s for input %q", code, errObj.Err.Code, input)
	}
}

func TestIntegerArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"42", 42},
		{"-5", -5},
		{"1 + 2 + 3", 6},
		{"2 * 3 + 4", 10},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"7 / 2", 3},
		{"-7 / 2", -3},
		{"7 % 3", 1},
		{"-7 % 3", -1},
		{"2 ** 10", 1024},
		{"1_000_000", 1000000},
		{"~0", -1},
		{"1 << 4", 16},
		{"255 >> 4", 15},
		{"6 & 3", 2},
		{"6 | 3", 7},
		{"6 ^ 3", 5},
	}
	for _, tt := range tests {
		testInteger(t, tt.input, tt.expected)
	}
}

func TestDivModIdentity(t *testing.T) {
	// (a / b) * b + (a % b) == a with truncation toward zero
	pairs := []struct{ a, b int64 }{
		{7, 2}, {-7, 2}, {7, -2}, {-7, -2}, {100, 7}, {1, 3},
	}
	for _, p := range pairs {
		q := testEval("let a = " + itoa(p.a) + "\nlet b = " + itoa(p.b) + "\n(a / b) * b + (a % b)")
		intObj, ok := q.(*Integer)
		if !ok {
			t.Fatalf("expected INTEGER, got %s for a=%d b=%d", q.Type(), p.a, p.b)
		}
		if intObj.Value != p.a {
			t.Errorf("identity broken: got %d for a=%d b=%d", intObj.Value, p.a, p.b)
		}
	}
}

func itoa(n int64) string {
	return (&Integer{Value: n}).Inspect()
}

func TestFloatArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"3.14", 3.14},
		{"1.5 + 2.5", 4.0},
		{"1 + 2.0", 3.0},
		{"7.0 / 2", 3.5},
		{"2.0 ** 3", 8.0},
	}
	for _, tt := range tests {
		result := testEval(tt.input)
		floatObj, ok := result.(*Float)
		if !ok {
			t.Errorf("expected FLOAT, got %s for input %q", result.Type(), tt.input)
			continue
		}
		if floatObj.Value != tt.expected {
			t.Errorf("expected %f, got %f for input %q", tt.expected, floatObj.Value, tt.input)
		}
	}
}

func TestBooleanOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"true", true},
		{"!true", false},
		{"1 < 2", true},
		{"2 <= 2", true},
		{"3 > 4", false},
		{"1 == 1", true},
		{"1 != 1", false},
		{`"a" == "a"`, true},
		{`"a" < "b"`, true},
		{"[1, 2] == [1, 2]", true},
		{"[1, 2] == [2, 1]", false},
		{"(1, 2) == (1, 2)", true},
		{"1 == 1.0", true},
		{"true && false", false},
		{"true || false", true},
	}
	for _, tt := range tests {
		result := testEval(tt.input)
		boolObj, ok := result.(*Boolean)
		if !ok {
			t.Errorf("expected BOOLEAN, got %s for input %q", result.Type(), tt.input)
			continue
		}
		if boolObj.Value != tt.expected {
			t.Errorf("expected %v, got %v for input %q", tt.expected, boolObj.Value, tt.input)
		}
	}
}

func TestShortCircuitEvaluation(t *testing.T) {
	// the right side would raise on evaluation
	tests := []struct {
		input    string
		expected bool
	}{
		{"false && (1 / 0 == 0)", false},
		{"true || (1 / 0 == 0)", true},
	}
	for _, tt := range tests {
		result := testEval(tt.input)
		boolObj, ok := result.(*Boolean)
		if !ok {
			t.Errorf("expected BOOLEAN, got %s for input %q", result.Type(), tt.input)
			continue
		}
		if boolObj.Value != tt.expected {
			t.Errorf("expected %v, got %v for input %q", tt.expected, boolObj.Value, tt.input)
		}
	}
}

func TestLetBindings(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"let x = 42", 42},
		{"let x = 5\nx", 5},
		{"let x = 5\nlet y = x * 2\ny", 10},
		{"let mut x = 1\nx = 2\nx", 2},
		{"let mut x = 1\nx += 4\nx", 5},
		{"var x = 3\nx *= 3\nx", 9},
		{"let (a, b) = (1, 2)\na + b", 3},
		{"let [first, second] = [10, 20]\nfirst + second", 30},
	}
	for _, tt := range tests {
		testInteger(t, tt.input, tt.expected)
	}
}

func TestImmutableAssignment(t *testing.T) {
	testErrorCode(t, "let x = 1\nx = 2", rerrors.ErrImmutableAssignment)
	testErrorCode(t, "y = 2", rerrors.ErrUnboundVariable)
}

func TestIfExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"if true { 1 } else { 2 }", 1},
		{"if false { 1 } else { 2 }", 2},
		{"if 1 < 2 { 10 }", 10},
		{"if 1 > 2 { 10 } else if 1 == 1 { 20 } else { 30 }", 20},
		{"let x = if true { 1 } else { 2 }\nx + 10", 11},
		{"1 < 2 ? 100 : 200", 100},
	}
	for _, tt := range tests {
		testInteger(t, tt.input, tt.expected)
	}
}

func TestWhileAndLoops(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"let mut i = 0\nwhile i < 5 { i += 1 }\ni", 5},
		{"let mut total = 0\nfor x in [1, 2, 3] { total += x }\ntotal", 6},
		{"let mut total = 0\nfor i in 0..5 { total += i }\ntotal", 10},
		{"let mut total = 0\nfor i in 0..=5 { total += i }\ntotal", 15},
		{"let mut i = 0\nloop { i += 1\nif i == 7 { break } }\ni", 7},
		{"loop { break 42 }", 42},
		{"let mut total = 0\nfor i in 0..10 { if i % 2 == 0 { continue }\ntotal += i }\ntotal", 25},
	}
	for _, tt := range tests {
		testInteger(t, tt.input, tt.expected)
	}
}

func TestWhileBuildsArray(t *testing.T) {
	input := `
let mut v = []
let mut i = 2
while i < 5 {
    v.push(i)
    i += 1
}
v`
	result := testEval(input)
	arr, ok := result.(*Array)
	if !ok {
		t.Fatalf("expected ARRAY, got %s (%s)", result.Type(), result.Inspect())
	}
	if arr.Inspect() != "[2, 3, 4]" {
		t.Errorf("expected [2, 3, 4], got %s", arr.Inspect())
	}
}

func TestFunctions(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"fun add(a, b) { a + b }\nadd(2, 3)", 5},
		{"fun add(a, b) { return a + b }\nadd(2, 3)", 5},
		{"fun early(x) { if x > 0 { return 1 }\nreturn -1 }\nearly(5)", 1},
		{"let double = |x| x * 2\ndouble(21)", 42},
		{"let add = |a, b| { a + b }\nadd(1, 2)", 3},
		{"fun make_adder(n) { |x| x + n }\nlet add5 = make_adder(5)\nadd5(10)", 15},
		{"fun greet(name, punct = 1) { punct }\ngreet(0)", 1},
		{"fun greet(name, punct = 1) { punct }\ngreet(0, 9)", 9},
		{"5 |> |x| x * 2", 10},
		{"fun add(a, b) { a + b }\n3 |> add(4)", 7},
	}
	for _, tt := range tests {
		testInteger(t, tt.input, tt.expected)
	}
}

func TestRecursion(t *testing.T) {
	input := `
fun fib(n) {
    if n <= 1 {
        n
    } else {
        fib(n - 1) + fib(n - 2)
    }
}
fib(10)`
	testInteger(t, input, 55)
}

func TestArityErrors(t *testing.T) {
	testErrorCode(t, "fun f(a, b) { a }\nf(1)", rerrors.ErrWrongArity)
	testErrorCode(t, "fun f(a) { a }\nf(1, 2)", rerrors.ErrWrongArity)
	testErrorCode(t, "let x = 5\nx(1)", rerrors.ErrNotCallable)
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{"1 / 0", rerrors.ErrDivisionByZero},
		{"1 % 0", rerrors.ErrModuloByZero},
		{"unknown_name", rerrors.ErrUnboundVariable},
		{"[1, 2][5]", rerrors.ErrIndexOutOfBounds},
		{`1 + "a"`, rerrors.ErrUnknownOperator},
		{"for x in 5 { x }", rerrors.ErrNotIterable},
	}
	for _, tt := range tests {
		testErrorCode(t, tt.input, tt.code)
	}
}

func TestUnboundVariableHint(t *testing.T) {
	result := testEval("let counter = 1\ncountr")
	errObj, ok := result.(*Error)
	if !ok {
		t.Fatalf("expected error, got %s", result.Type())
	}
	if len(errObj.Err.Hints) == 0 {
		t.Fatal("expected a close-match hint")
	}
}

func TestThrowAndCatch(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{`try { throw "boom" } catch (e) { 0 }`, 0},
		{"try { 1 / 0 } catch (e) { -1 }", -1},
		{"try { 42 } catch (e) { 0 }", 42},
		{"let mut x = 0\ntry { throw 1 } catch (e) { x = 1 } finally { x += 10 }\nx", 11},
		{"try { throw 5 } catch (n) { n + 1 }", 6},
	}
	for _, tt := range tests {
		testInteger(t, tt.input, tt.expected)
	}
}

func TestCatchRuntimeErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"try { 1 / 0 } catch (e) { 0 }", 0},
		{"try { [1, 2][9] } catch (e) { -1 }", -1},
		{"try { no_such_name } catch (e) { 7 }", 7},
		{"try { 10 % 0 } catch (e) { 3 }", 3},
	}
	for _, tt := range tests {
		testInteger(t, tt.input, tt.expected)
	}

	// the catch binding carries the diagnostic message
	testInspect(t, `try { [1][5] } catch (e) { e }`, "index 5 out of bounds for length 1")

	// break unwinds past try/catch to the enclosing loop
	testInteger(t, `
		let mut n = 0
		for i in 0..5 {
			try { if i == 2 { break } } catch (e) { n = 100 }
			n = n + 1
		}
		n`, 2)
}

func TestIfWithoutElseIsNull(t *testing.T) {
	result := testEval("if false { 1 }")
	if result != NULL {
		t.Errorf("expected null, got %s (%s)", result.Type(), result.Inspect())
	}
	testInspect(t, "let x = if 1 > 2 { 10 }\nx", "null")
	testInspect(t, "is_nil(if false { 1 })", "true")
}

func TestCompoundAssignEvaluatesTargetOnce(t *testing.T) {
	testInspect(t, `
		let mut calls = 0
		let mut a = [10, 20]
		fun idx() { calls = calls + 1; 1 }
		a[idx()] += 5
		[calls, a[1]]`, "[1, 25]")

	testInspect(t, `
		let mut calls = 0
		let mut a = [10, 20]
		fun idx() { calls = calls + 1; 0 }
		a[idx()]++
		[calls, a[0]]`, "[1, 11]")
}

func TestUncaughtThrow(t *testing.T) {
	result := testEval(`throw "boom"`)
	if result.Type() != THROWN_OBJ {
		t.Fatalf("expected THROWN, got %s", result.Type())
	}
}

func TestStringsAndInterpolation(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello" + " " + "world"`, "hello world"},
		{`let name = "ruchy"` + "\n" + `f"hi {name}"`, "hi ruchy"},
		{`f"2 + 2 = {2 + 2}"`, "2 + 2 = 4"},
		{`"ab" + 'c'`, "abc"},
	}
	for _, tt := range tests {
		result := testEval(tt.input)
		strObj, ok := result.(*String)
		if !ok {
			t.Errorf("expected STRING, got %s (%s) for input %q", result.Type(), result.Inspect(), tt.input)
			continue
		}
		if strObj.Value != tt.expected {
			t.Errorf("expected %q, got %q for input %q", tt.expected, strObj.Value, tt.input)
		}
	}
}

func TestPrintlnOutput(t *testing.T) {
	var buf bytes.Buffer
	i := New()
	i.SetOutput(&buf)
	result := i.EvalSource(`println("hello")` + "\n" + `println(1 + 2)`)
	if errObj, ok := result.(*Error); ok {
		t.Fatalf("unexpected error: %s", errObj.Err)
	}
	if buf.String() != "hello\n3\n" {
		t.Errorf("expected %q, got %q", "hello\n3\n", buf.String())
	}
}

func TestResultHistory(t *testing.T) {
	i := New()
	i.SetOutput(&bytes.Buffer{})
	i.EvalSource("1 + 1")
	i.EvalSource("10 * 10")
	last, ok := i.LastResult().(*Integer)
	if !ok || last.Value != 100 {
		t.Fatalf("expected last result 100, got %v", i.LastResult())
	}
	prior, ok := i.PriorResult().(*Integer)
	if !ok || prior.Value != 2 {
		t.Fatalf("expected prior result 2, got %v", i.PriorResult())
	}
}

func TestTransactionalRollback(t *testing.T) {
	i := New()
	i.SetOutput(&bytes.Buffer{})
	i.EvalSource("let mut x = 1")

	program := mustParse(t, "x = 2\n1 / 0")
	result := i.EvalTransactional(program)
	if _, ok := result.(*Error); !ok {
		t.Fatalf("expected error, got %s", result.Type())
	}
	value, _ := i.Env().Get("x")
	if value.Inspect() != "1" {
		t.Errorf("expected rollback to 1, got %s", value.Inspect())
	}

	program = mustParse(t, "x = 3")
	i.EvalTransactional(program)
	value, _ = i.Env().Get("x")
	if value.Inspect() != "3" {
		t.Errorf("expected commit to 3, got %s", value.Inspect())
	}
}
