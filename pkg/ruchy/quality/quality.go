package quality

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
)

// Finding is one lint diagnostic.
type Finding struct {
	Rule    string
	Message string
	Line    int
}

// Report aggregates the metrics the score, lint, provability, runtime,
// and quality-gate commands print.
type Report struct {
	Functions   int
	Findings    []Finding
	Score       float64 // 0.0 to 1.0
	Provability float64 // fraction of functions with no observable side effects
	Runtime     string  // asymptotic estimate from loop nesting: O(1), O(n), ...
}

// effectBuiltins are calls that make a function observable from outside
var effectBuiltins = map[string]bool{
	"println":    true,
	"print":      true,
	"input":      true,
	"read_file":  true,
	"write_file": true,
	"sleep":      true,
	"dbg":        true,
	"random":     true,
}

// Analyze runs every metric over a parsed program.
func Analyze(program *ast.Program, cfg Config) Report {
	report := Report{}

	var functions []*ast.FunctionLiteral
	walk(program, 0, func(node ast.Node, depth int) {
		if fn, ok := node.(*ast.FunctionLiteral); ok && fn.Name != "" {
			functions = append(functions, fn)
		}
	})
	report.Functions = len(functions)

	report.Findings = lint(program, functions, cfg)
	report.Score = score(report.Findings)
	report.Provability = provability(functions)
	report.Runtime = runtimeEstimate(program)
	return report
}

// Passes reports whether the quality gate accepts this score.
func (r Report) Passes(cfg Config) bool {
	return r.Score >= cfg.Score.Threshold
}

// Summary renders the report the way `score` prints it.
func (r Report) Summary() string {
	var out strings.Builder
	fmt.Fprintf(&out, "score:       %.2f\n", r.Score)
	fmt.Fprintf(&out, "provability: %.0f%%\n", r.Provability*100)
	fmt.Fprintf(&out, "runtime:     %s\n", r.Runtime)
	fmt.Fprintf(&out, "functions:   %d\n", r.Functions)
	fmt.Fprintf(&out, "findings:    %d\n", len(r.Findings))
	return out.String()
}

func lint(program *ast.Program, functions []*ast.FunctionLiteral, cfg Config) []Finding {
	var findings []Finding
	add := func(rule, message string, line int) {
		if cfg.lintEnabled(rule) {
			findings = append(findings, Finding{Rule: rule, Message: message, Line: line})
		}
	}

	for _, fn := range functions {
		if len(fn.Params) > cfg.Lint.MaxParams {
			add("too-many-params",
				fmt.Sprintf("function %q has %d parameters, limit is %d", fn.Name, len(fn.Params), cfg.Lint.MaxParams),
				fn.Token.Line)
		}
		if span := functionSpan(fn); span > cfg.Lint.MaxFunctionLines {
			add("long-function",
				fmt.Sprintf("function %q spans %d lines, limit is %d", fn.Name, span, cfg.Lint.MaxFunctionLines),
				fn.Token.Line)
		}
		if fn.Name != strings.ToLower(fn.Name) {
			add("naming",
				fmt.Sprintf("function %q should be snake_case", fn.Name),
				fn.Token.Line)
		}
	}

	walk(program, 0, func(node ast.Node, depth int) {
		if depth <= cfg.Lint.MaxNestingDepth {
			return
		}
		switch node := node.(type) {
		case *ast.IfExpression:
			add("deep-nesting",
				fmt.Sprintf("control flow nested %d deep, limit is %d", depth, cfg.Lint.MaxNestingDepth),
				node.Token.Line)
		case *ast.ForExpression:
			add("deep-nesting",
				fmt.Sprintf("loop nested %d deep, limit is %d", depth, cfg.Lint.MaxNestingDepth),
				node.Token.Line)
		}
	})

	findings = append(findings, unusedBindings(program, cfg)...)
	sort.SliceStable(findings, func(a, b int) bool {
		return findings[a].Line < findings[b].Line
	})
	return findings
}

// unusedBindings flags let bindings whose name is never read. Uses are
// collected module-wide, so shadowed reuse in another scope keeps a
// binding alive. Names starting with underscore opt out.
func unusedBindings(program *ast.Program, cfg Config) []Finding {
	if !cfg.lintEnabled("unused-binding") {
		return nil
	}
	type binding struct {
		name string
		line int
	}
	var bindings []binding
	uses := map[string]int{}

	walk(program, 0, func(node ast.Node, depth int) {
		switch node := node.(type) {
		case *ast.LetStatement:
			if node.Name != nil && !strings.HasPrefix(node.Name.Value, "_") {
				bindings = append(bindings, binding{node.Name.Value, node.Token.Line})
			}
		case *ast.Identifier:
			uses[node.Value]++
		}
	})

	var findings []Finding
	for _, b := range bindings {
		// the binding's own Name identifier is not visited by the
		// walker, so any use count means a real read or write
		if uses[b.name] == 0 {
			findings = append(findings, Finding{
				Rule:    "unused-binding",
				Message: fmt.Sprintf("binding %q is never used", b.name),
				Line:    b.line,
			})
		}
	}
	return findings
}

func functionSpan(fn *ast.FunctionLiteral) int {
	last := fn.Token.Line
	walk(fn.Body, 0, func(node ast.Node, depth int) {
		if line := nodeLine(node); line > last {
			last = line
		}
	})
	return last - fn.Token.Line + 1
}

func nodeLine(node ast.Node) int {
	switch node := node.(type) {
	case *ast.ExpressionStatement:
		return node.Token.Line
	case *ast.LetStatement:
		return node.Token.Line
	case *ast.ReturnStatement:
		return node.Token.Line
	case *ast.Identifier:
		return node.Token.Line
	case *ast.CallExpression:
		return node.Token.Line
	case *ast.IfExpression:
		return node.Token.Line
	}
	return 0
}

func score(findings []Finding) float64 {
	weights := map[string]float64{
		"long-function":   0.1,
		"deep-nesting":    0.1,
		"too-many-params": 0.05,
		"naming":          0.02,
		"unused-binding":  0.05,
	}
	total := 1.0
	for _, finding := range findings {
		weight, ok := weights[finding.Rule]
		if !ok {
			weight = 0.05
		}
		total -= weight
	}
	if total < 0 {
		return 0
	}
	return total
}

// provability counts the fraction of named functions with no observable
// effects: no I/O builtins, no shell commands, no actor messaging, no
// assignment to anything but local bindings.
func provability(functions []*ast.FunctionLiteral) float64 {
	if len(functions) == 0 {
		return 1.0
	}
	pure := 0
	for _, fn := range functions {
		if isPure(fn) {
			pure++
		}
	}
	return float64(pure) / float64(len(functions))
}

func isPure(fn *ast.FunctionLiteral) bool {
	result := true
	walk(fn.Body, 0, func(node ast.Node, depth int) {
		switch node := node.(type) {
		case *ast.CallExpression:
			if ident, ok := node.Function.(*ast.Identifier); ok && effectBuiltins[ident.Value] {
				result = false
			}
		case *ast.CommandLiteral, *ast.SendExpression, *ast.AskExpression,
			*ast.SpawnExpression, *ast.ThrowExpression:
			result = false
		case *ast.AssignExpression:
			// field and index writes can escape the function
			if _, isIdent := node.Target.(*ast.Identifier); !isIdent {
				result = false
			}
		}
	})
	return result
}

// runtimeEstimate reports the deepest loop nesting as an asymptotic
// class. It is a static heuristic, not a proof.
func runtimeEstimate(program *ast.Program) string {
	deepest := 0
	var measure func(node ast.Node, loops int)
	measure = func(node ast.Node, loops int) {
		if node == nil {
			return
		}
		switch node.(type) {
		case *ast.ForExpression, *ast.WhileExpression, *ast.LoopExpression:
			loops++
			if loops > deepest {
				deepest = loops
			}
		}
		for _, child := range children(node) {
			measure(child, loops)
		}
	}
	measure(program, 0)

	switch deepest {
	case 0:
		return "O(1)"
	case 1:
		return "O(n)"
	default:
		return fmt.Sprintf("O(n^%d)", deepest)
	}
}
