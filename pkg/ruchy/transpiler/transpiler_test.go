package transpiler

import (
	"strings"
	"testing"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/parser"
)

func parseExpr(t *testing.T, input string) ast.Expression {
	t.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse of %q failed: %v", input, errs)
	}
	stmt, ok := program.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("%q: expected an expression statement, got %T", input, program.Statements[0])
	}
	return stmt.Expression
}

func transpileExpr(t *testing.T, input string) string {
	t.Helper()
	code, err := New().TranspileExpression(parseExpr(t, input))
	if err != nil {
		t.Fatalf("transpile of %q failed: %v", input, err)
	}
	return code
}

func transpileSource(t *testing.T, input string) string {
	t.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse of %q failed: %v", input, errs)
	}
	code, err := New().Transpile(program)
	if err != nil {
		t.Fatalf("transpile of %q failed: %v", input, err)
	}
	return code
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"42", "42"},
		{"42i64", "42i64"},
		{"255u8", "255u8"},
		{"3.14", "3.14"},
		{"2.0", "2.0"},
		{"1e10", "1e+10"},
		{"true", "true"},
		{"false", "false"},
		{`"hello"`, `"hello"`},
		{"'a'", "'a'"},
		{"()", "()"},
		{"null", "None"},
		{"[1, 2, 3]", "vec![1, 2, 3]"},
		{"[0; 10]", "vec![0; 10 as usize]"},
		{"(1, true)", "(1, true)"},
		{"0..10", "0..10"},
		{"0..=10", "0..=10"},
	}

	for _, tt := range tests {
		if got := transpileExpr(t, tt.input); got != tt.expected {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2", "1 + 2"},
		{"a - b", "a - b"},
		{"a % b", "a % b"},
		// Rust has no ** operator
		{"2 ** 8", "(2).pow(8 as u32)"},
		{"x ** n", "(x).pow(n as u32)"},
		// Rust reuses ! for bitwise not
		{"~x", "!x"},
		{"!done", "!done"},
		{"-x", "-x"},
		{"a << 2", "a << 2"},
		{"a && b", "a && b"},
	}

	for _, tt := range tests {
		if got := transpileExpr(t, tt.input); got != tt.expected {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestLenComparisonCasts(t *testing.T) {
	// .len() yields usize; the other operand needs a cast, whichever
	// side it is on
	operators := []string{"<", ">", "<=", ">=", "==", "!="}

	for _, op := range operators {
		got := transpileExpr(t, "xs.len() "+op+" n")
		want := "xs.len() " + op + " (n as usize)"
		if got != want {
			t.Errorf("len %s n: got %q, want %q", op, got, want)
		}

		got = transpileExpr(t, "n "+op+" xs.len()")
		want = "(n as usize) " + op + " xs.len()"
		if got != want {
			t.Errorf("n %s len: got %q, want %q", op, got, want)
		}
	}

	// len on both sides needs no cast
	if got := transpileExpr(t, "xs.len() == ys.len()"); got != "xs.len() == ys.len()" {
		t.Errorf("len == len: got %q", got)
	}
}

func TestIncrementDecrement(t *testing.T) {
	if got := transpileExpr(t, "i++"); got != "{ i += 1; i }" {
		t.Errorf("i++: got %q", got)
	}
	if got := transpileExpr(t, "i--"); got != "{ i -= 1; i }" {
		t.Errorf("i--: got %q", got)
	}
}

func TestIndexing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"xs[0]", "xs[0 as usize]"},
		{"xs[i + 1]", "xs[i + 1 as usize]"},
		{"xs[1..3]", "xs[1..3].to_vec()"},
	}

	for _, tt := range tests {
		if got := transpileExpr(t, tt.input); got != tt.expected {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestIteratorMethods(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"xs.map(|x| x * 2)", "xs.into_iter().map(|x| x * 2).collect::<Vec<_>>()"},
		{"xs.flat_map(f)", "xs.into_iter().flat_map(f).collect::<Vec<_>>()"},
		{"xs.sum()", "xs.iter().sum()"},
		{"xs.enumerate()", "xs.into_iter().enumerate().collect::<Vec<_>>()"},
		{"xs.take(3)", "xs.into_iter().take(3 as usize).collect::<Vec<_>>()"},
		{"xs.skip(2)", "xs.into_iter().skip(2 as usize).collect::<Vec<_>>()"},
		{"xs.reduce(0, |a, b| a + b)", "xs.into_iter().fold(0, |a, b| a + b)"},
		{"xs.first()", "xs.first().cloned()"},
		{"xs.push(4)", "xs.push(4)"},
	}

	for _, tt := range tests {
		if got := transpileExpr(t, tt.input); got != tt.expected {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestMapAndSetMethods(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`m.get("a")`, `m.get(&"a").cloned()`},
		{`m.contains_key("a")`, `m.contains_key(&"a")`},
		{`m.insert("c", 3)`, `m.insert("c", 3)`},
		{"a.union(b)", "a.union(&b).cloned().collect::<std::collections::HashSet<_>>()"},
		{"a.intersection(b)", "a.intersection(&b).cloned().collect::<std::collections::HashSet<_>>()"},
		{"a.difference(b)", "a.difference(&b).cloned().collect::<std::collections::HashSet<_>>()"},
	}

	for _, tt := range tests {
		if got := transpileExpr(t, tt.input); got != tt.expected {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestStringMethods(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"s.upper()", "s.to_uppercase()"},
		{"s.to_upper()", "s.to_uppercase()"},
		{"s.strip()", "s.trim().to_string()"},
		{`s.startswith("a")`, `s.starts_with("a")`},
		{`s.split(",")`, `s.split(",").map(|__s| __s.to_string()).collect::<Vec<String>>()`},
		{"s.substring(1, 3)", "s.chars().skip(1 as usize).take((3 - 1) as usize).collect::<String>()"},
		{"s.to_i()", "s.parse::<i64>().unwrap()"},
		{"s.chars()", "s.chars().collect::<Vec<char>>()"},
	}

	for _, tt := range tests {
		if got := transpileExpr(t, tt.input); got != tt.expected {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`f"hello {name}"`, `format!("hello {}", name)`},
		{`f"{a} + {b} = {a + b}"`, `format!("{} + {} = {}", a, b, a + b)`},
		{`f"plain"`, `"plain".to_string()`},
	}

	for _, tt := range tests {
		if got := transpileExpr(t, tt.input); got != tt.expected {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestThrowAndTryCatch(t *testing.T) {
	if got := transpileExpr(t, `throw "boom"`); got != `panic!("{:?}", "boom")` {
		t.Errorf("throw: got %q", got)
	}

	got := transpileExpr(t, "try { risky() } catch e { 0 }")
	if !strings.Contains(got, "std::panic::catch_unwind") {
		t.Errorf("try/catch should lower to catch_unwind: %q", got)
	}
	if !strings.Contains(got, "Err(e)") {
		t.Errorf("catch binding should survive: %q", got)
	}
}

func TestPipeline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"5 |> double", "double(5)"},
		{"x |> add(1)", "add(x, 1)"},
	}

	for _, tt := range tests {
		if got := transpileExpr(t, tt.input); got != tt.expected {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSpawnAndMessaging(t *testing.T) {
	got := transpileExpr(t, "spawn Counter(0)")
	if got != "std::sync::Arc::new(std::sync::Mutex::new(Counter(0)))" {
		t.Errorf("spawn: got %q", got)
	}

	if got := transpileExpr(t, "c <? GetBalance()"); got != "c.lock().unwrap().get_balance()" {
		t.Errorf("ask: got %q", got)
	}
	if got := transpileExpr(t, "c <- Deposit(50)"); got != "c.lock().unwrap().deposit(50);" {
		t.Errorf("send: got %q", got)
	}
}

func TestFunctions(t *testing.T) {
	got := transpileSource(t, "fun add(x: i32, y: i32) -> i32 { x + y }")
	if !strings.Contains(got, "fn add(x: i32, y: i32) -> i32 {") {
		t.Errorf("wrong signature: %q", got)
	}
	if !strings.Contains(got, "    x + y\n") {
		t.Errorf("tail expression should stay unterminated: %q", got)
	}

	// str parameters borrow
	got = transpileSource(t, "fun greet(name: str) { name }")
	if !strings.Contains(got, "fn greet(name: &str)") {
		t.Errorf("str params should become &str: %q", got)
	}

	// untyped parameters default to i64
	got = transpileSource(t, "fun inc(n) { n + 1 }")
	if !strings.Contains(got, "fn inc(n: i64)") {
		t.Errorf("untyped params should default to i64: %q", got)
	}
}

func TestStructsAndEnums(t *testing.T) {
	got := transpileSource(t, "struct Point { x: i32, y: i32 }")
	if !strings.Contains(got, "#[derive(Debug, Clone, PartialEq)]") {
		t.Errorf("missing derive: %q", got)
	}
	if !strings.Contains(got, "pub x: i32,") {
		t.Errorf("missing field: %q", got)
	}

	got = transpileSource(t, "enum Shape { Circle(f64), Empty }")
	if !strings.Contains(got, "Circle(f64),") || !strings.Contains(got, "Empty,") {
		t.Errorf("wrong enum body: %q", got)
	}
}

func TestActorLowering(t *testing.T) {
	got := transpileSource(t, `actor Counter {
		count: i32
		receive {
			inc() { count += 1 },
			get() { count }
		}
	}`)

	if !strings.Contains(got, "struct Counter {") {
		t.Errorf("actor should lower to a struct: %q", got)
	}
	if !strings.Contains(got, "fn inc(&mut self)") {
		t.Errorf("handlers should take &mut self: %q", got)
	}
	if !strings.Contains(got, "self.count += 1") {
		t.Errorf("state fields should become self accesses: %q", got)
	}
}

func TestMainAssembly(t *testing.T) {
	got := transpileSource(t, `fun double(x: i32) -> i32 { x * 2 }
let n = double(21);
println!("{}", n)`)

	if !strings.Contains(got, "fn double(x: i32) -> i32") {
		t.Errorf("items should precede main: %q", got)
	}
	if !strings.Contains(got, "fn main() {") {
		t.Errorf("missing fn main: %q", got)
	}
	if !strings.Contains(got, "let n = double(21);") {
		t.Errorf("main body should carry the let: %q", got)
	}
	if strings.Index(got, "fn double") > strings.Index(got, "fn main") {
		t.Errorf("functions should be emitted before main: %q", got)
	}
}

func TestImports(t *testing.T) {
	got := transpileSource(t, "import std::collections")
	if !strings.Contains(got, "use std::collections;") {
		t.Errorf("import: %q", got)
	}
}

func TestMatchLowering(t *testing.T) {
	got := transpileExpr(t, `match x {
		Some(n) if n > 3 => n,
		1 | 2 => 0,
		_ => -1,
	}`)

	if !strings.Contains(got, "Some(n) if n > 3 => n,") {
		t.Errorf("guard arm: %q", got)
	}
	if !strings.Contains(got, "1 | 2 => 0,") {
		t.Errorf("or-pattern arm: %q", got)
	}
	if !strings.Contains(got, "_ => -1,") {
		t.Errorf("wildcard arm: %q", got)
	}
}

func TestMacroPassthrough(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`println!("hi")`, `println!("hi")`},
		{`println!("{}", x + 1)`, `println!("{}", x + 1)`},
		{"vec![1, 2]", "vec!(1, 2)"},
		{"assert_eq!(a, b)", "assert_eq!(a, b)"},
		{"todo!()", "todo!()"},
	}

	for _, tt := range tests {
		if got := transpileExpr(t, tt.input); got != tt.expected {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestUserMacroExpansion(t *testing.T) {
	got := transpileSource(t, `macro_rules! twice { ($x:expr) => { $x + $x } }
let n = twice!(21);`)

	if !strings.Contains(got, "let n = 21 + 21;") {
		t.Errorf("macro should expand before lowering: %q", got)
	}
}

func TestMacroHygiene(t *testing.T) {
	got := transpileSource(t, `macro_rules! swapped { ($a:expr, $b:expr) => { let tmp = $a; $b + tmp } }
let tmp = 1;
let r = swapped!(tmp, 2);`)

	// the macro's own tmp must not capture the caller's tmp
	if !strings.Contains(got, "tmp_") {
		t.Errorf("macro-local bindings should be renamed: %q", got)
	}
}

func TestUndefinedMacro(t *testing.T) {
	l := lexer.New("nope!(1)")
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse failed: %v", errs)
	}

	_, err := New().Transpile(program)
	if err == nil {
		t.Fatal("expected an error for an undefined macro")
	}
	if !strings.Contains(err.Error(), "nope") {
		t.Errorf("error should name the macro: %v", err)
	}
}

func TestRustTypeMapping(t *testing.T) {
	tests := []struct {
		anno     string
		param    bool
		expected string
	}{
		{"i32", false, "i32"},
		{"int", false, "i64"},
		{"float", false, "f64"},
		{"str", true, "&str"},
		{"str", false, "String"},
		{"", true, "i64"},
		{"[i32]", false, "Vec<i32>"},
		{"[u8; 4]", false, "[u8; 4]"},
		{"(i32, bool)", false, "(i32, bool)"},
		{"Option<String>", false, "Option<String>"},
		{"HashMap<String, [i32]>", false, "HashMap<String, Vec<i32>>"},
	}

	for _, tt := range tests {
		if got := rustType(tt.anno, tt.param); got != tt.expected {
			t.Errorf("rustType(%q, %v) = %q, want %q", tt.anno, tt.param, got, tt.expected)
		}
	}
}

func TestSnakeCase(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"Deposit", "deposit"},
		{"GetBalance", "get_balance"},
		{"inc", "inc"},
		{"HTTPGet", "h_t_t_p_get"},
	}

	for _, tt := range tests {
		if got := snakeCase(tt.in); got != tt.out {
			t.Errorf("snakeCase(%q) = %q, want %q", tt.in, got, tt.out)
		}
	}
}
