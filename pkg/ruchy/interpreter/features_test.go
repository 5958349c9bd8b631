package interpreter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStructs(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"struct Point { x: i32, y: i32 } let p = Point { x: 3, y: 4 }; p.x", "3"},
		{"struct Point { x: i32, y: i32 } let p = Point { x: 3, y: 4 }; p.y", "4"},
		{"struct Point { x: i32, y: i32 } Point { x: 3, y: 4 }", "Point { x: 3, y: 4 }"},
		{`struct User { name: String, age: i32 } User { name: "ada", age: 36 }`,
			`User { name: "ada", age: 36 }`},
		// ..base spread keeps unmentioned fields
		{"struct Point { x: i32, y: i32 } let p = Point { x: 1, y: 2 }; let q = Point { x: 9, ..p }; q.y", "2"},
		{"struct Point { x: i32, y: i32 } let p = Point { x: 1, y: 2 }; let q = Point { x: 9, ..p }; q.x", "9"},
		// mutation through a mutable binding
		{"struct Point { x: i32, y: i32 } let mut p = Point { x: 1, y: 2 }; p.x = 10; p.x", "10"},
	}

	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestImplMethods(t *testing.T) {
	source := `
		struct Rect { w: i32, h: i32 }
		impl Rect {
			fun area(self) { self.w * self.h }
			fun scaled(self, k) { Rect { w: self.w * k, h: self.h * k } }
		}
	`

	tests := []struct {
		input    string
		expected string
	}{
		{source + "Rect { w: 3, h: 4 }.area()", "12"},
		{source + "let r = Rect { w: 2, h: 5 }; r.scaled(3).area()", "30"},
	}

	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestEnums(t *testing.T) {
	source := `
		enum Shape {
			Circle(f64),
			Square(f64),
			Empty,
		}
	`

	tests := []struct {
		input    string
		expected string
	}{
		{source + "Shape::Empty", "Shape::Empty"},
		{source + "Shape::Circle(2.0)", "Shape::Circle(2.0)"},
		{source + `match Shape::Square(3.0) {
			Shape::Circle(r) => r * 2.0,
			Shape::Square(s) => s * s,
			Shape::Empty => 0.0,
		}`, "9.0"},
		// built-in Option renders without the enum prefix
		{"Some(1)", "Some(1)"},
		{"None", "None"},
		{`Some("hi")`, `Some("hi")`},
	}

	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestMatchExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"match 3 { 1 => 10, 2 => 20, _ => 99 }", "99"},
		{"match 2 { 1 => 10, 2 => 20, _ => 99 }", "20"},
		{`match "b" { "a" => 1, "b" => 2, _ => 3 }`, "2"},
		// guards
		{"match Some(5) { Some(n) if n > 3 => n * 10, Some(n) => n, None => 0 }", "50"},
		{"match Some(2) { Some(n) if n > 3 => n * 10, Some(n) => n, None => 0 }", "2"},
		{"match None { Some(n) => n, None => -1 }", "-1"},
		// or-patterns
		{"match 2 { 1 | 2 | 3 => true, _ => false }", "true"},
		{"match 7 { 1 | 2 | 3 => true, _ => false }", "false"},
		// range patterns
		{"match 5 { 0..10 => 1, _ => 2 }", "1"},
		{"match 10 { 0..10 => 1, _ => 2 }", "2"},
		{"match 10 { 0..=10 => 1, _ => 2 }", "1"},
		{`match 42 { 0..10 => "small", 10..100 => "medium", _ => "large" }`, "medium"},
		// tuple and list destructuring in arms
		{"match (1, 2) { (0, _) => 10, (1, b) => b, _ => 99 }", "2"},
		{"match [1, 2, 3] { [] => 0, [x] => x, [x, ..rest] => x + rest.len() }", "3"},
		{"match [] { [] => 0, [x] => x, _ => 9 }", "0"},
		// binding scoped to the arm
		{"let n = 1; match 5 { m => m + n }", "6"},
	}

	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestMatchErrors(t *testing.T) {
	// no arm matched
	testErrorCode(t, "match 7 { 1 => 1, 2 => 2 }", "PATTERN-0001")
	// every or-pattern alternative must bind the same names
	testErrorCode(t, "match (1, 2) { (a, 0) | (0, b) => a, _ => 0 }", "PATTERN-0002")
	testErrorCode(t, "match 2 { 1 | x => x, _ => 0 }", "PATTERN-0002")
	testErrorCode(t, "match [5] { [x] | [] => 1, _ => 0 }", "PATTERN-0002")

	// alternatives agreeing on their bindings are fine
	testInspect(t, "match (1, 2) { (a, 2) | (2, a) => a, _ => 0 }", "1")
}

func TestLetPatterns(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"let (x, y, z) = (1, 2, 3); x + y + z", "6"},
		{"let [head, ..tail] = [1, 2, 3]; head", "1"},
		{"let [head, ..tail] = [1, 2, 3]; tail", "[2, 3]"},
		{"struct Point { x: i32, y: i32 } let Point { x, y } = Point { x: 7, y: 8 }; x + y", "15"},
		{"let Some(v) = Some(41); v + 1", "42"},
	}

	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}

	// refutable pattern that does not match
	testErrorCode(t, "let Some(v) = None; v", "PATTERN-0001")
}

func TestActors(t *testing.T) {
	source := `
		actor Counter {
			count: i32

			receive {
				inc() { count += 1 },
				add(n) { count += n },
				get() { count }
			}
		}
		let c = Counter(0);
	`

	tests := []struct {
		input    string
		expected string
	}{
		{source + "c <? get()", "0"},
		{source + "c <- inc(); c <- inc(); c <? get()", "2"},
		{source + "c <- add(10); c <- inc(); c <? get()", "11"},
		// send returns unit
		{source + "c <- inc()", "()"},
	}

	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestActorErrors(t *testing.T) {
	source := "actor A { n: i32 receive { get() { n } } }\n"

	// wrong state arity at instantiation
	testErrorCode(t, source+"A()", "ARITY-0001")
	// sending to a non-actor
	testErrorCode(t, "5 <- inc()", "TYPE-0001")
}

func TestBuiltinMacros(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"vec![1, 2, 3]", "[1, 2, 3]"},
		{"vec![]", "[]"},
		{`format!("{} + {} = {}", 1, 2, 3)`, "1 + 2 = 3"},
		{`format!("hi {}", "there")`, "hi there"},
		{"assert!(1 < 2)", "()"},
		{"assert_eq!(2 + 2, 4)", "()"},
		{"assert_ne!(1, 2)", "()"},
		{"dbg!(2 + 3)", "5"},
		{"stringify!(1 + 2)", "1 + 2"},
		{"line!()", "1"},
		{"file!()", "<repl>"},
	}

	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}

	for _, input := range []string{"todo!()", "unreachable!()", "assert_ne!(3, 3)"} {
		result := testEval(input)
		if result.Type() != THROWN_OBJ {
			t.Errorf("%s should unwind, got %s (%s)", input, result.Type(), result.Inspect())
		}
	}
}

func TestIncludeStrMacro(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snippet.txt")
	if err := os.WriteFile(path, []byte("included text"), 0o644); err != nil {
		t.Fatal(err)
	}

	interp := New()
	interp.SetOutput(&strings.Builder{})

	result := interp.EvalSource(`include_str!("` + path + `")`)
	str, ok := result.(*String)
	if !ok {
		t.Fatalf("include_str returned %T (%s)", result, result.Inspect())
	}
	if str.Value != "included text" {
		t.Errorf("include_str: got %q, want %q", str.Value, "included text")
	}

	result = interp.EvalSource(`include_str!("` + filepath.Join(dir, "missing.txt") + `")`)
	if _, ok := result.(*Error); !ok {
		t.Errorf("include_str of a missing file returned %s, want an error", result.Inspect())
	}
}

func TestFileMacroReportsScript(t *testing.T) {
	interp := New()
	interp.SetOutput(&strings.Builder{})
	interp.SetFile("scripts/build.ruchy")

	result := interp.EvalSource("file!()")
	if str, ok := result.(*String); !ok || str.Value != "scripts/build.ruchy" {
		t.Errorf("file! returned %s, want scripts/build.ruchy", result.Inspect())
	}
}

func TestMacroOutput(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`println!("hello")`, "hello\n"},
		{`println!("{} world", "hello")`, "hello world\n"},
		{`print!("a"); print!("b")`, "ab"},
		{"dbg!(1 + 1)", "1 + 1 = 2\n"},
	}

	for _, tt := range tests {
		interp := New()
		var buf strings.Builder
		interp.SetOutput(&buf)
		result := interp.EvalSource(tt.input)
		if errObj, ok := result.(*Error); ok {
			t.Errorf("eval of %q failed: %s", tt.input, errObj.Err.String())
			continue
		}
		if buf.String() != tt.expected {
			t.Errorf("output of %q: got %q, want %q", tt.input, buf.String(), tt.expected)
		}
	}
}

func TestUserMacros(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`macro_rules! twice { ($x:expr) => { $x + $x } }
		  twice!(21)`, "42"},
		{`macro_rules! pick {
			() => { 0 };
			($a:expr) => { $a };
			($a:expr, $b:expr) => { $a * $b }
		  }
		  pick!() + pick!(5) + pick!(2, 3)`, "11"},
		// expansion may reference bindings at the call site
		{`macro_rules! double { ($x:expr) => { $x * 2 } }
		  let n = 7; double!(n)`, "14"},
		// nested expansion
		{`macro_rules! twice { ($x:expr) => { $x + $x } }
		  twice!(twice!(10))`, "40"},
	}

	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestUserMacroErrors(t *testing.T) {
	// unknown macro name
	testErrorCode(t, "nope!(1)", "TRANS-0002")
	// no rule accepts the argument shape
	testErrorCode(t, `macro_rules! one { ($a:expr) => { $a } } one!(1, 2)`, "PATTERN-0001")
	// self-expansion blows the depth limit
	testErrorCode(t, `macro_rules! loopy { () => { loopy!() } } loopy!()`, "TRANS-0003")
}

func TestTimeoutLimit(t *testing.T) {
	interp := New()
	interp.SetOutput(&strings.Builder{})
	interp.SetLimits(Limits{Timeout: 10 * time.Millisecond})

	result := interp.EvalSource("let mut n = 0; loop { n += 1 }")
	errObj, ok := result.(*Error)
	if !ok {
		t.Fatalf("expected a timeout error, got %T (%s)", result, result.Inspect())
	}
	if errObj.Err.Code != "LIMIT-0001" {
		t.Errorf("wrong error code: got %s, want LIMIT-0001", errObj.Err.Code)
	}
}

func TestRecursionLimit(t *testing.T) {
	interp := New()
	interp.SetOutput(&strings.Builder{})
	interp.SetLimits(Limits{MaxDepth: 50})

	result := interp.EvalSource("fun down(n) { down(n + 1) } down(0)")
	errObj, ok := result.(*Error)
	if !ok {
		t.Fatalf("expected a recursion error, got %T (%s)", result, result.Inspect())
	}
	if errObj.Err.Code != "LIMIT-0003" {
		t.Errorf("wrong error code: got %s, want LIMIT-0003", errObj.Err.Code)
	}
}

func TestAllocationLimit(t *testing.T) {
	interp := New()
	interp.SetOutput(&strings.Builder{})
	interp.SetLimits(Limits{MaxAllocs: 100})

	result := interp.EvalSource("let mut a = []; let mut i = 0; while i < 1000 { a.push(i); i += 1 }")
	errObj, ok := result.(*Error)
	if !ok {
		t.Fatalf("expected an allocation error, got %T (%s)", result, result.Inspect())
	}
	if errObj.Err.Code != "LIMIT-0002" {
		t.Errorf("wrong error code: got %s, want LIMIT-0002", errObj.Err.Code)
	}
}

func TestConversionBuiltins(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"len([1, 2, 3])", "3"},
		{`len("hello")`, "5"},
		{"str(42)", "42"},
		{`int("10")`, "10"},
		{"int(3.9)", "3"},
		{"int(true)", "1"},
		{`float("2.5")`, "2.5"},
		{"float(4)", "4.0"},
		{"min(3, 7)", "3"},
		{"max(3, 7)", "7"},
		{"min(1.5, 1.2)", "1.2"},
		{"type_of([1])", "Array"},
		{"assert(true)", "()"},
	}

	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}

	testErrorCode(t, "len(5)", "TYPE-0001")
	testErrorCode(t, `int("not a number")`, "PARSE-0003")
}

func TestFileBuiltins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")

	interp := New()
	interp.SetOutput(&strings.Builder{})

	result := interp.EvalSource(`write_file("` + path + `", "some text")`)
	if errObj, ok := result.(*Error); ok {
		t.Fatalf("write_file failed: %s", errObj.Err.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back %s: %v", path, err)
	}
	if string(data) != "some text" {
		t.Errorf("file content: got %q, want %q", string(data), "some text")
	}

	result = interp.EvalSource(`read_file("` + path + `")`)
	str, ok := result.(*String)
	if !ok {
		t.Fatalf("read_file returned %T (%s)", result, result.Inspect())
	}
	if str.Value != "some text" {
		t.Errorf("read_file: got %q, want %q", str.Value, "some text")
	}
}

func TestTimeBuiltins(t *testing.T) {
	interp := New()
	interp.SetOutput(&strings.Builder{})

	before := time.Now().UnixMilli()
	result := interp.EvalSource("timestamp()")
	now, ok := result.(*Integer)
	if !ok {
		t.Fatalf("timestamp returned %T (%s)", result, result.Inspect())
	}
	after := time.Now().UnixMilli()
	if now.Value < before || now.Value > after {
		t.Errorf("timestamp %d outside [%d, %d]", now.Value, before, after)
	}

	result = interp.EvalSource(`parse_time("2024-06-01T12:00:00Z")`)
	parsed, ok := result.(*EnumVariantValue)
	if !ok || parsed.Variant != "Some" {
		t.Fatalf("parse_time of a valid stamp returned %s", result.Inspect())
	}
	want := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	if millis := parsed.Values[0].(*Integer).Value; millis != want {
		t.Errorf("parse_time: got %d, want %d", millis, want)
	}

	result = interp.EvalSource(`parse_time("definitely not a date")`)
	if parsed, ok := result.(*EnumVariantValue); !ok || parsed.Variant != "None" {
		t.Errorf("parse_time of garbage returned %s, want None", result.Inspect())
	}
}
