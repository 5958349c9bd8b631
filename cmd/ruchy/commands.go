package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/doc"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/format"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/interpreter"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/parser"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/quality"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/transpiler"
)

func readSource(args []string, command string) (string, string) {
	if len(args) == 0 {
		fail("usage: ruchy %s <file>", command)
	}
	path := args[len(args)-1]
	data, err := os.ReadFile(path)
	if err != nil {
		fail("ruchy %s: %v", command, err)
	}
	return path, string(data)
}

func parseOrFail(source string) *ast.Program {
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if errs := p.StructuredErrors(); len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintln(os.Stderr, err.PrettyString())
		}
		os.Exit(1)
	}
	return program
}

func checkCommand(args []string) {
	path, source := readSource(args, "check")
	parseOrFail(source)
	fmt.Printf("%s: ok\n", path)
}

func parseCommand(args []string) {
	_, source := readSource(args, "parse")
	program := parseOrFail(source)
	fmt.Println(program.String())
}

func astCommand(args []string) {
	flags := flag.NewFlagSet("ast", flag.ExitOnError)
	asJSON := flags.Bool("json", false, "emit the tree as JSON")
	metrics := flags.Bool("metrics", false, "emit node counts by kind")
	flags.Parse(args)

	_, source := readSource(flags.Args(), "ast")
	program := parseOrFail(source)

	switch {
	case *metrics:
		counts := map[string]int{}
		quality.Walk(program, func(node ast.Node, depth int) {
			counts[nodeKind(node)]++
		})
		emitJSON(counts)
	case *asJSON:
		var nodes []map[string]any
		for _, stmt := range program.Statements {
			nodes = append(nodes, map[string]any{
				"kind": nodeKind(stmt),
				"text": stmt.String(),
			})
		}
		emitJSON(nodes)
	default:
		for _, stmt := range program.Statements {
			fmt.Printf("%-28s %s\n", nodeKind(stmt), stmt.String())
		}
	}
}

func nodeKind(node ast.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", node), "*ast.")
}

func emitJSON(value any) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		fail("ruchy ast: %v", err)
	}
}

func fmtCommand(args []string) {
	flags := flag.NewFlagSet("fmt", flag.ExitOnError)
	write := flags.Bool("w", false, "write the result back to the file")
	flags.Parse(args)

	path, source := readSource(flags.Args(), "fmt")
	formatted, err := format.Source(source)
	if err != nil {
		if rerr, ok := err.(*rerrors.RuchyError); ok {
			fail("%s", rerr.PrettyString())
		}
		fail("ruchy fmt: %v", err)
	}
	if *write {
		if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
			fail("ruchy fmt: %v", err)
		}
		return
	}
	fmt.Print(formatted)
}

func loadConfigFor(path string) quality.Config {
	cfg, err := quality.LoadConfig(filepath.Dir(path))
	if err != nil {
		fail("ruchy: bad .ruchy.yaml: %v", err)
	}
	return cfg
}

func lintCommand(args []string) {
	path, source := readSource(args, "lint")
	program := parseOrFail(source)
	report := quality.Analyze(program, loadConfigFor(path))
	if len(report.Findings) == 0 {
		fmt.Printf("%s: clean\n", path)
		return
	}
	for _, finding := range report.Findings {
		fmt.Printf("%s:%d: [%s] %s\n", path, finding.Line, finding.Rule, finding.Message)
	}
	os.Exit(1)
}

func transpileCommand(args []string) {
	flags := flag.NewFlagSet("transpile", flag.ExitOnError)
	output := flags.String("o", "", "output file, stdout when empty")
	watch := flags.Bool("watch", false, "re-transpile when the file changes")
	flags.Parse(args)

	path := pathArg(flags.Args(), "transpile")
	job := func() error { return transpileFile(path, *output) }
	if *watch {
		watchFile(path, job)
		return
	}
	if err := job(); err != nil {
		fail("%v", err)
	}
}

func pathArg(args []string, command string) string {
	if len(args) == 0 {
		fail("usage: ruchy %s <file>", command)
	}
	return args[0]
}

func transpileFile(path, output string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	p := parser.New(lexer.New(string(data)))
	program := p.ParseProgram()
	if errs := p.StructuredErrors(); len(errs) > 0 {
		return errs[0]
	}
	code, err := transpiler.New().Transpile(program)
	if err != nil {
		return err
	}
	if output == "" {
		fmt.Print(code)
		return nil
	}
	return os.WriteFile(output, []byte(code), 0o644)
}

func compileCommand(args []string) {
	flags := flag.NewFlagSet("compile", flag.ExitOnError)
	output := flags.String("o", "", "binary name, defaults to the source name")
	flags.Parse(args)

	path, source := readSource(flags.Args(), "compile")
	program := parseOrFail(source)
	code, err := transpiler.New().Transpile(program)
	if err != nil {
		fail("%v", err)
	}

	binary := *output
	if binary == "" {
		binary = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	hostSource := binary + ".rs"
	if err := os.WriteFile(hostSource, []byte(code), 0o644); err != nil {
		fail("ruchy compile: %v", err)
	}
	cmd := exec.Command("rustc", "-o", binary, hostSource)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fail("ruchy compile: rustc failed: %v", err)
	}
	fmt.Printf("compiled %s\n", binary)
}

func runCommand(args []string) {
	flags := flag.NewFlagSet("run", flag.ExitOnError)
	watch := flags.Bool("watch", false, "re-run when the file changes")
	flags.Parse(args)

	path := pathArg(flags.Args(), "run")
	job := func() error { return runFile(path) }
	if *watch {
		watchFile(path, job)
		return
	}
	if err := job(); err != nil {
		fail("%v", err)
	}
}

func runFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	interp := interpreter.New()
	interp.SetFile(path)
	result := interp.EvalSource(string(data))
	if errObj, ok := result.(*interpreter.Error); ok {
		return errObj.Err
	}
	return nil
}

func evalCommand(args []string) {
	if len(args) == 0 {
		fail("usage: ruchy -e <expr>")
	}
	interp := interpreter.New()
	result := interp.EvalSource(args[0])
	if errObj, ok := result.(*interpreter.Error); ok {
		fail("%s", errObj.Err.PrettyString())
	}
	if result != nil && result != interpreter.UNIT && result.Type() != interpreter.NULL_OBJ {
		fmt.Println(result.Inspect())
	}
}

func testCommand(args []string) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	files, err := filepath.Glob(filepath.Join(dir, "*_test.ruchy"))
	if err != nil {
		fail("ruchy test: %v", err)
	}
	if len(files) == 0 {
		fail("ruchy test: no *_test.ruchy files in %s", dir)
	}

	failed := 0
	for _, file := range files {
		if err := runFile(file); err != nil {
			failed++
			fmt.Printf("FAIL %s\n", file)
			if rerr, ok := err.(*rerrors.RuchyError); ok {
				fmt.Println(rerr.PrettyString())
			} else {
				fmt.Println(err)
			}
			continue
		}
		fmt.Printf("ok   %s\n", file)
	}
	fmt.Printf("%d passed, %d failed\n", len(files)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

func docCommand(args []string) {
	flags := flag.NewFlagSet("doc", flag.ExitOnError)
	asHTML := flags.Bool("html", false, "render HTML instead of markdown")
	flags.Parse(args)

	path, source := readSource(flags.Args(), "doc")
	items := doc.Extract(source)
	title := filepath.Base(path)
	if *asHTML {
		page, err := doc.HTML(items, title)
		if err != nil {
			fail("ruchy doc: %v", err)
		}
		fmt.Print(page)
		return
	}
	fmt.Print(doc.Markdown(items, title))
}

const benchRuns = 10

func benchCommand(args []string) {
	_, source := readSource(args, "bench")
	program := parseOrFail(source)

	interp := interpreter.New()
	var total time.Duration
	for run := 0; run < benchRuns; run++ {
		start := time.Now()
		result := interp.EvalProgram(program)
		total += time.Since(start)
		if errObj, ok := result.(*interpreter.Error); ok {
			fail("%s", errObj.Err.PrettyString())
		}
	}
	fmt.Printf("%d runs, avg %s\n", benchRuns, (total / benchRuns).Round(time.Nanosecond))
}

func scoreCommand(args []string) {
	path, source := readSource(args, "score")
	program := parseOrFail(source)
	report := quality.Analyze(program, loadConfigFor(path))
	fmt.Print(report.Summary())
}

func provabilityCommand(args []string) {
	path, source := readSource(args, "provability")
	program := parseOrFail(source)
	report := quality.Analyze(program, loadConfigFor(path))
	fmt.Printf("%.0f%%\n", report.Provability*100)
}

func runtimeCommand(args []string) {
	path, source := readSource(args, "runtime")
	program := parseOrFail(source)
	report := quality.Analyze(program, loadConfigFor(path))
	fmt.Println(report.Runtime)
}

func qualityGateCommand(args []string) {
	path, source := readSource(args, "quality-gate")
	program := parseOrFail(source)
	cfg := loadConfigFor(path)
	report := quality.Analyze(program, cfg)
	fmt.Print(report.Summary())
	if !report.Passes(cfg) {
		fmt.Printf("quality gate failed: score %.2f below threshold %.2f\n",
			report.Score, cfg.Score.Threshold)
		os.Exit(1)
	}
	fmt.Println("quality gate passed")
}
