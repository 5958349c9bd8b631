// Package interpreter implements the tree-walking evaluator: globals,
// resource bounds, result history, and transactional evaluation.
package interpreter

import (
	"io"
	"os"
	"time"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/parser"
)

// Limits bounds a single evaluation. Zero values mean unlimited.
type Limits struct {
	Timeout   time.Duration // wall-clock deadline
	MaxDepth  int           // call stack depth
	MaxAllocs int64         // rough cap on allocated collection cells
}

// DefaultLimits keeps runaway programs from wedging the REPL while
// staying out of the way of normal code.
var DefaultLimits = Limits{
	MaxDepth: 10_000,
}

// Interpreter evaluates programs against a persistent global scope
type Interpreter struct {
	env    *Environment
	out    io.Writer
	limits Limits

	deadline   time.Time
	depth      int
	allocs     int64
	macroDepth int

	macros map[string]*ast.MacroDefinition
	file   string

	// last and prior evaluation results, for the REPL's _ and __
	lastResult  Object
	priorResult Object
}

// New creates an interpreter with default limits writing to stdout
func New() *Interpreter {
	i := &Interpreter{
		env:    NewEnvironment(),
		out:    os.Stdout,
		limits: DefaultLimits,
		macros: make(map[string]*ast.MacroDefinition),
	}
	return i
}

// SetOutput redirects print output
func (i *Interpreter) SetOutput(w io.Writer) { i.out = w }

// SetFile records the script path reported by the file! macro
func (i *Interpreter) SetFile(name string) { i.file = name }

// SetLimits replaces the resource bounds used by subsequent evaluations
func (i *Interpreter) SetLimits(limits Limits) { i.limits = limits }

// Env exposes the global scope, for REPL introspection
func (i *Interpreter) Env() *Environment { return i.env }

// EvalProgram evaluates a parsed program in the global scope. The
// deadline and counters reset per call, so a REPL session gets a fresh
// budget each line.
func (i *Interpreter) EvalProgram(program *ast.Program) Object {
	i.depth = 0
	i.allocs = 0
	if i.limits.Timeout > 0 {
		i.deadline = time.Now().Add(i.limits.Timeout)
	} else {
		i.deadline = time.Time{}
	}

	result := i.Eval(program, i.env)
	i.recordResult(result)
	return result
}

// EvalSource lexes, parses, and evaluates source text. Parse errors are
// returned as an *Error without evaluating anything.
func (i *Interpreter) EvalSource(src string) Object {
	l := lexer.New(src)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.StructuredErrors(); len(errs) > 0 {
		return &Error{Err: errs[0]}
	}
	return i.EvalProgram(program)
}

// EvalTransactional evaluates a program, rolling the global scope back
// if evaluation produces an error. Successful evaluations commit.
func (i *Interpreter) EvalTransactional(program *ast.Program) Object {
	snapshot := i.env.Snapshot()
	result := i.EvalProgram(program)
	if isError(result) {
		i.env.Restore(snapshot)
	}
	return result
}

// recordResult shifts the result history. Errors and unit don't displace
// useful results.
func (i *Interpreter) recordResult(result Object) {
	if result == nil || isError(result) {
		return
	}
	if result == UNIT {
		return
	}
	i.priorResult = i.lastResult
	i.lastResult = result
}

// LastResult returns the value bound to _ in the REPL
func (i *Interpreter) LastResult() Object { return i.lastResult }

// PriorResult returns the value bound to __ in the REPL
func (i *Interpreter) PriorResult() Object { return i.priorResult }

// checkInterrupt enforces the wall-clock deadline. Called on loop
// iterations and function calls rather than every node, to keep the
// common path cheap.
func (i *Interpreter) checkInterrupt() Object {
	if !i.deadline.IsZero() && time.Now().After(i.deadline) {
		return &Error{Err: rerrors.New(rerrors.ErrDeadlineExceeded, nil)}
	}
	return nil
}

// trackAlloc counts approximate cells allocated into collections and
// trips the memory cap
func (i *Interpreter) trackAlloc(n int64) Object {
	i.allocs += n
	if i.limits.MaxAllocs > 0 && i.allocs > i.limits.MaxAllocs {
		return &Error{Err: rerrors.New(rerrors.ErrMemoryExceeded, nil)}
	}
	return nil
}

// enterCall guards recursion depth; the matching exitCall must run on
// all paths
func (i *Interpreter) enterCall() Object {
	i.depth++
	if i.limits.MaxDepth > 0 && i.depth > i.limits.MaxDepth {
		i.depth--
		return &Error{Err: rerrors.New(rerrors.ErrRecursionLimit, nil)}
	}
	return nil
}

func (i *Interpreter) exitCall() {
	i.depth--
}
