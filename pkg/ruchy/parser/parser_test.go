package parser

import (
	"fmt"
	"testing"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse of %q failed: %v", input, errs)
	}
	return program
}

func TestLetStatements(t *testing.T) {
	tests := []struct {
		input    string
		name     string
		mutable  bool
		typeAnno string
	}{
		{"let x = 5;", "x", false, ""},
		{"let mut count = 0;", "count", true, ""},
		{"var speed = 3", "speed", true, ""},
		{"let total: i64 = 100", "total", false, "i64"},
		{"let name: String = \"ada\"", "name", false, "String"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("%q: expected 1 statement, got %d", tt.input, len(program.Statements))
		}
		stmt, ok := program.Statements[0].(*ast.LetStatement)
		if !ok {
			t.Fatalf("%q: expected *ast.LetStatement, got %T", tt.input, program.Statements[0])
		}
		if stmt.Name.Value != tt.name {
			t.Errorf("%q: wrong name. expected=%q, got=%q", tt.input, tt.name, stmt.Name.Value)
		}
		if stmt.Mutable != tt.mutable {
			t.Errorf("%q: wrong mutability. expected=%v, got=%v", tt.input, tt.mutable, stmt.Mutable)
		}
		if stmt.TypeAnno != tt.typeAnno {
			t.Errorf("%q: wrong type annotation. expected=%q, got=%q", tt.input, tt.typeAnno, stmt.TypeAnno)
		}
	}
}

func TestLetDestructuring(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let (a, b) = (1, 2)", "let (a, b) = (1, 2)"},
		{"let [x, y] = [1, 2]", "let [x, y] = [1, 2]"},
		{"let [head, ..tail] = xs", "let [head, ..tail] = xs"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		stmt, ok := program.Statements[0].(*ast.LetStatement)
		if !ok {
			t.Fatalf("%q: expected *ast.LetStatement, got %T", tt.input, program.Statements[0])
		}
		if stmt.Pattern == nil {
			t.Fatalf("%q: expected a destructuring pattern", tt.input)
		}
		if got := stmt.String(); got != tt.expected {
			t.Errorf("%q: String() = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestReturnStatements(t *testing.T) {
	program := parseProgram(t, "fun f() { return 5 }")
	fn, ok := program.Statements[0].(*ast.FunctionLiteral)
	if !ok {
		t.Fatalf("expected *ast.FunctionLiteral, got %T", program.Statements[0])
	}
	ret, ok := fn.Body.Statements[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected *ast.ReturnStatement, got %T", fn.Body.Statements[0])
	}
	if ret.ReturnValue.String() != "5" {
		t.Errorf("wrong return value: %s", ret.ReturnValue.String())
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"-a * b", "((-a) * b)"},
		{"!-a", "(!(-a))"},
		{"a + b + c", "((a + b) + c)"},
		{"a + b - c", "((a + b) - c)"},
		{"a * b * c", "((a * b) * c)"},
		{"a * b / c", "((a * b) / c)"},
		{"a + b / c", "(a + (b / c))"},
		{"a + b * c + d / e - f", "(((a + (b * c)) + (d / e)) - f)"},
		{"5 > 4 == 3 < 4", "((5 > 4) == (3 < 4))"},
		{"5 < 4 != 3 > 4", "((5 < 4) != (3 > 4))"},
		{"3 + 4 * 5 == 3 * 1 + 4 * 5", "((3 + (4 * 5)) == ((3 * 1) + (4 * 5)))"},
		{"true == !false", "(true == (!false))"},
		{"a && b || c", "((a && b) || c)"},
		{"a || b && c", "(a || (b && c))"},
		// power is right associative
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"-2 ** 2", "((-2) ** 2)"},
		// bitwise sits between logic and comparison
		{"a | b ^ c & d", "(a | (b ^ (c & d)))"},
		{"a << 2 + 1", "(a << (2 + 1))"},
		// explicit parens are kept as a grouping node
		{"(a + b) * c", "(((a + b)) * c)"},
		{"1 + (2 + 3) + 4", "((1 + ((2 + 3))) + 4)"},
		{"-(5 + 5)", "(-((5 + 5)))"},
		// calls and indexing bind tightest
		{"a + add(b * c) + d", "((a + add((b * c))) + d)"},
		{"a * [1, 2, 3, 4][b * c] * d", "((a * ([1, 2, 3, 4][(b * c)])) * d)"},
		{"add(a + b + c * d / f + g)", "add((((a + b) + ((c * d) / f)) + g))"},
		// pipeline binds looser than arithmetic
		{"a + b |> f", "((a + b) |> f)"},
		// modulo
		{"a % b + c", "((a % b) + c)"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if got := program.String(); got != tt.expected {
			t.Errorf("%q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestIfExpressions(t *testing.T) {
	program := parseProgram(t, "if x < y { x } else if x > y { y } else { 0 }")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	ifExpr, ok := stmt.Expression.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected *ast.IfExpression, got %T", stmt.Expression)
	}
	if ifExpr.Condition.String() != "(x < y)" {
		t.Errorf("wrong condition: %s", ifExpr.Condition.String())
	}

	// the alternative of an else-if chain is another IfExpression
	chained, ok := ifExpr.Alternative.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected chained *ast.IfExpression, got %T", ifExpr.Alternative)
	}
	if chained.Alternative == nil {
		t.Error("expected a final else block")
	}
}

func TestFunctionLiterals(t *testing.T) {
	tests := []struct {
		input  string
		name   string
		params []string
	}{
		{"fun add(x, y) { x + y }", "add", []string{"x", "y"}},
		{"fn id(x) { x }", "id", []string{"x"}},
		{"fun zero() { 0 }", "zero", []string{}},
		{"fun greet(name: String) { name }", "greet", []string{"name"}},
		{"fun step(n, by = 1) { n + by }", "step", []string{"n", "by"}},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		fn, ok := program.Statements[0].(*ast.FunctionLiteral)
		if !ok {
			t.Fatalf("%q: expected *ast.FunctionLiteral, got %T", tt.input, program.Statements[0])
		}
		if fn.Name != tt.name {
			t.Errorf("%q: wrong name. expected=%q, got=%q", tt.input, tt.name, fn.Name)
		}
		if len(fn.Params) != len(tt.params) {
			t.Fatalf("%q: expected %d params, got %d", tt.input, len(tt.params), len(fn.Params))
		}
		for i, want := range tt.params {
			if fn.Params[i].Name != want {
				t.Errorf("%q: param[%d] = %q, want %q", tt.input, i, fn.Params[i].Name, want)
			}
		}
	}
}

func TestLambdaForms(t *testing.T) {
	tests := []struct {
		input  string
		params int
	}{
		{"|x| x * 2", 1},
		{"|x, y| x + y", 2},
		{"|| 42", 0},
		{"|x| { x * 2 }", 1},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		stmt := program.Statements[0].(*ast.ExpressionStatement)
		lambda, ok := stmt.Expression.(*ast.LambdaLiteral)
		if !ok {
			t.Errorf("%q: expected *ast.LambdaLiteral, got %T", tt.input, stmt.Expression)
			continue
		}
		if len(lambda.Params) != tt.params {
			t.Errorf("%q: expected %d params, got %d", tt.input, tt.params, len(lambda.Params))
		}
	}
}

func TestMethodCallsAndFieldAccess(t *testing.T) {
	program := parseProgram(t, "user.name")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	field, ok := stmt.Expression.(*ast.FieldAccessExpression)
	if !ok {
		t.Fatalf("expected *ast.FieldAccessExpression, got %T", stmt.Expression)
	}
	if field.Field != "name" {
		t.Errorf("wrong field: %s", field.Field)
	}

	program = parseProgram(t, "xs.map(|x| x * 2)")
	stmt = program.Statements[0].(*ast.ExpressionStatement)
	call, ok := stmt.Expression.(*ast.MethodCallExpression)
	if !ok {
		t.Fatalf("expected *ast.MethodCallExpression, got %T", stmt.Expression)
	}
	if call.Method != "map" || len(call.Arguments) != 1 {
		t.Errorf("wrong method call: %s", call.String())
	}
}

func TestMatchExpressions(t *testing.T) {
	program := parseProgram(t, `match x {
		0 => "zero",
		Some(n) if n > 3 => "big",
		1 | 2 => "small",
		0..10 => "digit",
		_ => "other",
	}`)

	stmt := program.Statements[0].(*ast.ExpressionStatement)
	match, ok := stmt.Expression.(*ast.MatchExpression)
	if !ok {
		t.Fatalf("expected *ast.MatchExpression, got %T", stmt.Expression)
	}
	if len(match.Arms) != 5 {
		t.Fatalf("expected 5 arms, got %d", len(match.Arms))
	}
	if match.Arms[1].Guard == nil {
		t.Error("expected a guard on the second arm")
	}
	if _, ok := match.Arms[2].Pattern.(*ast.OrPattern); !ok {
		t.Errorf("expected *ast.OrPattern, got %T", match.Arms[2].Pattern)
	}
	if _, ok := match.Arms[3].Pattern.(*ast.RangePattern); !ok {
		t.Errorf("expected *ast.RangePattern, got %T", match.Arms[3].Pattern)
	}
	if _, ok := match.Arms[4].Pattern.(*ast.WildcardPattern); !ok {
		t.Errorf("expected *ast.WildcardPattern, got %T", match.Arms[4].Pattern)
	}
}

func TestStructAndEnumDeclarations(t *testing.T) {
	program := parseProgram(t, "struct Point { x: i32, y: i32 }")
	structDecl, ok := program.Statements[0].(*ast.StructDeclaration)
	if !ok {
		t.Fatalf("expected *ast.StructDeclaration, got %T", program.Statements[0])
	}
	if structDecl.Name != "Point" || len(structDecl.Fields) != 2 {
		t.Errorf("wrong struct: %s", structDecl.String())
	}

	program = parseProgram(t, "enum Shape { Circle(f64), Square(f64), Empty }")
	enumDecl, ok := program.Statements[0].(*ast.EnumDeclaration)
	if !ok {
		t.Fatalf("expected *ast.EnumDeclaration, got %T", program.Statements[0])
	}
	if enumDecl.Name != "Shape" || len(enumDecl.Variants) != 3 {
		t.Errorf("wrong enum: %s", enumDecl.String())
	}
	if len(enumDecl.Variants[0].Fields) != 1 {
		t.Errorf("Circle should carry a payload")
	}
}

func TestImplBlocks(t *testing.T) {
	program := parseProgram(t, `impl Point {
		fun norm(self) { self.x * self.x + self.y * self.y }
	}`)
	impl, ok := program.Statements[0].(*ast.ImplBlock)
	if !ok {
		t.Fatalf("expected *ast.ImplBlock, got %T", program.Statements[0])
	}
	if impl.TypeName != "Point" || len(impl.Methods) != 1 {
		t.Errorf("wrong impl block: %s", impl.String())
	}
}

func TestActorDeclarations(t *testing.T) {
	program := parseProgram(t, `actor Counter {
		count: i32

		receive {
			inc() { count += 1 },
			get() { count }
		}
	}`)

	decl, ok := program.Statements[0].(*ast.ActorDeclaration)
	if !ok {
		t.Fatalf("expected *ast.ActorDeclaration, got %T", program.Statements[0])
	}
	if decl.Name != "Counter" {
		t.Errorf("wrong actor name: %s", decl.Name)
	}
	if len(decl.State) != 1 || decl.State[0].Name != "count" {
		t.Errorf("wrong state fields: %v", decl.State)
	}
	if len(decl.Handlers) != 2 {
		t.Fatalf("expected 2 handlers, got %d", len(decl.Handlers))
	}
	if decl.Handlers[0].Message != "inc" || decl.Handlers[1].Message != "get" {
		t.Errorf("wrong handler names: %s, %s", decl.Handlers[0].Message, decl.Handlers[1].Message)
	}
}

func TestTryCatch(t *testing.T) {
	program := parseProgram(t, `try { risky() } catch e { 0 } finally { cleanup() }`)
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	tryExpr, ok := stmt.Expression.(*ast.TryCatchExpression)
	if !ok {
		t.Fatalf("expected *ast.TryCatchExpression, got %T", stmt.Expression)
	}
	if len(tryExpr.Catches) != 1 {
		t.Fatalf("expected 1 catch clause, got %d", len(tryExpr.Catches))
	}
	if tryExpr.Catches[0].Param != "e" {
		t.Errorf("wrong catch param: %s", tryExpr.Catches[0].Param)
	}
	if tryExpr.Finally == nil {
		t.Error("expected a finally block")
	}
}

func TestMacros(t *testing.T) {
	program := parseProgram(t, `macro_rules! twice { ($x:expr) => { $x + $x } }`)
	def, ok := program.Statements[0].(*ast.MacroDefinition)
	if !ok {
		t.Fatalf("expected *ast.MacroDefinition, got %T", program.Statements[0])
	}
	if def.Name != "twice" || len(def.Rules) != 1 {
		t.Errorf("wrong macro definition: %s", def.String())
	}

	program = parseProgram(t, `println!("x = {}", x)`)
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	inv, ok := stmt.Expression.(*ast.MacroInvocation)
	if !ok {
		t.Fatalf("expected *ast.MacroInvocation, got %T", stmt.Expression)
	}
	if inv.Name != "println" {
		t.Errorf("wrong macro name: %s", inv.Name)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{"let = 5", "PARSE-0001"},
		{"fun f( { }", "PARSE-0001"},
		{"match x { }", "PARSE-0005"},
	}

	for _, tt := range tests {
		l := lexer.New(tt.input)
		p := New(l)
		p.ParseProgram()
		errs := p.StructuredErrors()
		if len(errs) == 0 {
			t.Errorf("%q: expected a parse error", tt.input)
			continue
		}
		found := false
		for _, err := range errs {
			if err.Code == tt.code {
				found = true
			}
		}
		if !found {
			var codes []string
			for _, err := range errs {
				codes = append(codes, err.Code)
			}
			t.Errorf("%q: expected code %s, got %v", tt.input, tt.code, codes)
		}
	}
}

func TestErrorPositions(t *testing.T) {
	l := lexer.New("let x = 1\nlet = 2")
	p := New(l)
	p.ParseProgram()

	errs := p.StructuredErrors()
	if len(errs) == 0 {
		t.Fatal("expected a parse error")
	}
	if errs[0].Line != 2 {
		t.Errorf("error should point at line 2, got line %d", errs[0].Line)
	}
}

func TestNeedsContinuation(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"let x = 5", false},
		{"1 + 2", false},
		{"fun add(x, y) {", true},
		{"let xs = [1, 2,", true},
		{"if x > 0 {", true},
		{"1 +", true},
		{"x |>", true},
		{"match x {", true},
		{`let s = "never closed`, true},
		{"a.b", false},
		{"xs.", true},
		{"fun add(x, y) { x + y }", false},
	}

	for _, tt := range tests {
		if got := NeedsContinuation(tt.input); got != tt.expected {
			t.Errorf("NeedsContinuation(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func BenchmarkParseProgram(b *testing.B) {
	var source string
	for i := 0; i < 50; i++ {
		source += fmt.Sprintf("fun f%d(x) { x * %d + f%d(x - 1) }\n", i, i, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		l := lexer.New(source)
		p := New(l)
		p.ParseProgram()
	}
}
