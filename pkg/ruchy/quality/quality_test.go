package quality

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/parser"
)

func parseSource(t *testing.T, input string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse failed: %v", errs)
	}
	return program
}

func analyze(t *testing.T, input string) Report {
	t.Helper()
	return Analyze(parseSource(t, input), DefaultConfig())
}

func findingRules(report Report) []string {
	rules := make([]string, len(report.Findings))
	for i, f := range report.Findings {
		rules[i] = f.Rule
	}
	return rules
}

func hasFinding(report Report, rule string) bool {
	for _, f := range report.Findings {
		if f.Rule == rule {
			return true
		}
	}
	return false
}

func TestCleanProgram(t *testing.T) {
	report := analyze(t, `fun add(x: i32, y: i32) -> i32 { x + y }
fun double(x: i32) -> i32 { add(x, x) }`)

	if report.Functions != 2 {
		t.Errorf("expected 2 functions, got %d", report.Functions)
	}
	if len(report.Findings) != 0 {
		t.Errorf("expected no findings, got %v", findingRules(report))
	}
	if report.Score != 1.0 {
		t.Errorf("expected score 1.0, got %v", report.Score)
	}
	if report.Provability != 1.0 {
		t.Errorf("expected provability 1.0, got %v", report.Provability)
	}
}

func TestTooManyParams(t *testing.T) {
	report := analyze(t, "fun wide(a, b, c, d, e, f) { a }")
	if !hasFinding(report, "too-many-params") {
		t.Errorf("expected too-many-params, got %v", findingRules(report))
	}
}

func TestNamingRule(t *testing.T) {
	report := analyze(t, "fun BadName() { 1 }")
	if !hasFinding(report, "naming") {
		t.Errorf("expected a naming finding, got %v", findingRules(report))
	}
}

func TestDeepNesting(t *testing.T) {
	report := analyze(t, `fun deep(x: i32) {
	if x > 0 {
		if x > 1 {
			if x > 2 {
				if x > 3 {
					if x > 4 {
						if x > 5 {
							x
						}
					}
				}
			}
		}
	}
}`)
	if !hasFinding(report, "deep-nesting") {
		t.Errorf("expected deep-nesting, got %v", findingRules(report))
	}
}

func TestUnusedBinding(t *testing.T) {
	report := analyze(t, "let unused = 5\nlet used = 6\nused + 1")
	if !hasFinding(report, "unused-binding") {
		t.Errorf("expected unused-binding, got %v", findingRules(report))
	}
	for _, f := range report.Findings {
		if f.Rule == "unused-binding" && !strings.Contains(f.Message, "unused") {
			t.Errorf("finding should name the binding: %q", f.Message)
		}
	}

	// underscore names opt out
	report = analyze(t, "let _ignored = 5")
	if hasFinding(report, "unused-binding") {
		t.Errorf("underscore bindings should be exempt: %v", findingRules(report))
	}
}

func TestScoreDecreasesWithFindings(t *testing.T) {
	clean := analyze(t, "fun ok() { 1 }")
	dirty := analyze(t, "fun BadName(a, b, c, d, e, f) { a }")
	if dirty.Score >= clean.Score {
		t.Errorf("findings should lower the score: clean %v, dirty %v", clean.Score, dirty.Score)
	}
}

func TestScoreFloorsAtZero(t *testing.T) {
	var parts []string
	for i := 0; i < 15; i++ {
		parts = append(parts, "fun BadName"+string(rune('A'+i))+"(a, b, c, d, e, f) { a }")
	}
	report := analyze(t, strings.Join(parts, "\n"))
	if report.Score < 0 {
		t.Errorf("score must not go negative: %v", report.Score)
	}
}

func TestProvability(t *testing.T) {
	report := analyze(t, `fun pure(x: i32) -> i32 { x * 2 }
fun noisy(x: i32) { println(x) }`)
	if report.Provability != 0.5 {
		t.Errorf("expected provability 0.5, got %v", report.Provability)
	}

	// actor messaging is an observable effect
	report = analyze(t, "fun tell(a) { a <- inc() }")
	if report.Provability != 0.0 {
		t.Errorf("messaging should count as an effect, got %v", report.Provability)
	}

	// assignment to a local stays pure, a field write does not
	report = analyze(t, "fun local_write() { let mut x = 0\nx = 1 }")
	if report.Provability != 1.0 {
		t.Errorf("local assignment should stay pure, got %v", report.Provability)
	}
	report = analyze(t, "fun field_write(p) { p.x = 1 }")
	if report.Provability != 0.0 {
		t.Errorf("field writes should count as effects, got %v", report.Provability)
	}
}

func TestRuntimeEstimate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2", "O(1)"},
		{"for i in 0..10 { i }", "O(n)"},
		{"for i in 0..10 { for j in 0..10 { i * j } }", "O(n^2)"},
		{"for i in xs { while true { i } }", "O(n^2)"},
	}

	for _, tt := range tests {
		report := analyze(t, tt.input)
		if report.Runtime != tt.expected {
			t.Errorf("%q: got %s, want %s", tt.input, report.Runtime, tt.expected)
		}
	}
}

func TestFindingsSortedByLine(t *testing.T) {
	report := analyze(t, `let unused_a = 1
fun BadName() { 2 }
let unused_b = 3`)
	for i := 1; i < len(report.Findings); i++ {
		if report.Findings[i-1].Line > report.Findings[i].Line {
			t.Fatalf("findings out of order: %v", report.Findings)
		}
	}
}

func TestDisabledRules(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lint.Disabled = []string{"naming", "unused-binding"}
	report := Analyze(parseSource(t, "fun BadName() { 1 }\nlet unused = 5"), cfg)
	if hasFinding(report, "naming") || hasFinding(report, "unused-binding") {
		t.Errorf("disabled rules should not fire: %v", findingRules(report))
	}
}

func TestQualityGate(t *testing.T) {
	cfg := DefaultConfig()
	report := analyze(t, "fun ok() { 1 }")
	if !report.Passes(cfg) {
		t.Errorf("clean program should pass the gate at score %v", report.Score)
	}

	cfg.Score.Threshold = 1.0
	dirty := analyze(t, "fun BadName(a, b, c, d, e, f) { a }")
	if dirty.Passes(cfg) {
		t.Errorf("findings should fail a 1.0 threshold, score %v", dirty.Score)
	}
}

func TestSummary(t *testing.T) {
	report := analyze(t, "fun ok() { 1 }")
	out := report.Summary()
	for _, field := range []string{"score:", "provability:", "runtime:", "functions:", "findings:"} {
		if !strings.Contains(out, field) {
			t.Errorf("summary missing %q:\n%s", field, out)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Score.Threshold != 0.8 {
		t.Errorf("threshold: %v", cfg.Score.Threshold)
	}
	if cfg.Lint.MaxParams != 5 || cfg.Lint.MaxNestingDepth != 4 || cfg.Lint.MaxFunctionLines != 50 {
		t.Errorf("unexpected lint defaults: %+v", cfg.Lint)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	yaml := `score:
  threshold: 0.9
lint:
  max_params: 3
  disabled:
    - naming
`
	if err := os.WriteFile(filepath.Join(dir, ".ruchy.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Score.Threshold != 0.9 {
		t.Errorf("threshold: %v", cfg.Score.Threshold)
	}
	if cfg.Lint.MaxParams != 3 {
		t.Errorf("max_params: %v", cfg.Lint.MaxParams)
	}
	if len(cfg.Lint.Disabled) != 1 || cfg.Lint.Disabled[0] != "naming" {
		t.Errorf("disabled: %v", cfg.Lint.Disabled)
	}
	// unset keys keep their defaults
	if cfg.Lint.MaxNestingDepth != 4 {
		t.Errorf("max_nesting_depth should keep its default: %v", cfg.Lint.MaxNestingDepth)
	}
}

func TestLoadConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, ".ruchy.yaml"), []byte("score:\n  threshold: 0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(nested)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Score.Threshold != 0.5 {
		t.Errorf("config from an ancestor directory should apply: %v", cfg.Score.Threshold)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("a missing file should fall back to defaults: %v", err)
	}
	if cfg.Score.Threshold != 0.8 {
		t.Errorf("threshold: %v", cfg.Score.Threshold)
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".ruchy.yaml"), []byte("score: [not a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected an error for a malformed file")
	}
}
