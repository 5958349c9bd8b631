package tests

import (
	"strings"
	"testing"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/parser"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/transpiler"
)

func transpileProgram(t *testing.T, input string) string {
	t.Helper()
	p := parser.New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse failed: %v", errs)
	}
	code, err := transpiler.New().Transpile(program)
	if err != nil {
		t.Fatalf("transpile failed: %v", err)
	}
	return code
}

// TestTranspileWholeProgram runs a small but complete script through the
// transpiler and checks the shape of the generated Rust.
func TestTranspileWholeProgram(t *testing.T) {
	got := transpileProgram(t, `
struct Point {
	x: i32,
	y: i32
}

fun manhattan(p: Point) -> i32 {
	p.x + p.y
}

let p = Point { x: 3, y: 4 }
println!("{}", manhattan(p))`)

	checks := []string{
		"#[derive(Debug, Clone, PartialEq)]",
		"struct Point {",
		"pub x: i32,",
		"fn manhattan(p: Point) -> i32 {",
		"fn main() {",
		`println!("{}", manhattan(p));`,
	}
	for _, want := range checks {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in output:\n%s", want, got)
		}
	}
}

// TestTranspileControlFlow checks loops and match survive the trip.
func TestTranspileControlFlow(t *testing.T) {
	got := transpileProgram(t, `
fun classify(n: i32) -> i32 {
	match n {
		0 => 0,
		1 | 2 => 1,
		_ => 2,
	}
}

let mut total = 0
for i in 0..10 {
	total += classify(i)
}`)

	checks := []string{
		"match n {",
		"1 | 2 => 1,",
		"let mut total = 0;",
		"for i in 0..10 {",
		"total += classify(i)",
	}
	for _, want := range checks {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in output:\n%s", want, got)
		}
	}
}

// TestTranspiledActorProgram checks the actor to Arc<Mutex> lowering in
// a full program context.
func TestTranspiledActorProgram(t *testing.T) {
	got := transpileProgram(t, `
actor Logger {
	count: i32
	receive {
		log(line: str) { count += 1 }
	}
}

let logger = spawn Logger(0)
logger <- log("starting")`)

	checks := []string{
		"struct Logger {",
		"fn log(&mut self, line: &str)",
		"self.count += 1",
		"std::sync::Arc::new(std::sync::Mutex::new(Logger(0)))",
		`logger.lock().unwrap().log("starting");`,
	}
	for _, want := range checks {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in output:\n%s", want, got)
		}
	}
}
