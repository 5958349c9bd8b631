package repl

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/doc"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/interpreter"
)

const helpText = `REPL commands:
  :help                 show this help
  :quit, :exit          leave the REPL
  :history              show evaluated inputs
  :clear                clear the screen
  :bindings, :env, :vars  list bindings with types and values
  :functions            list bound functions
  :ls                   list binding names
  :state                show session statistics
  :inspect <name>       show one binding in detail
  :doc <name>           show documentation loaded with :load
  :type <expr>          evaluate without committing, show the value type
  :ast <expr>           show the parsed tree
  :parse <expr>         show the canonical parse
  :transpile <expr>     show the host-language lowering
  :compile              compile the session with the host compiler
  :load <file>          evaluate a source file into the session
  :save <file>          save current bindings as let statements
  :export <file>        save the raw session history
  :mode [normal|debug]  switch result display mode
  :debug on|off         same as :mode
  :trace <expr>         show the parse, then evaluate
  :time <expr>          evaluate and report wall time
  :bench <expr>         evaluate repeatedly and report the average
  :reset                discard all bindings
  !<cmd>                run a shell command`

// command dispatches one ':' input. It returns true when the session
// should end.
func (s *Session) command(input string) bool {
	name, arg := input, ""
	if idx := strings.IndexByte(input, ' '); idx > 0 {
		name, arg = input[:idx], strings.TrimSpace(input[idx+1:])
	}

	switch name {
	case ":help", ":h", ":?":
		fmt.Fprintln(s.out, helpText)
	case ":quit", ":exit", ":q":
		return true
	case ":history":
		for idx, entry := range s.history {
			fmt.Fprintf(s.out, "%4d  %s\n", idx+1, entry)
		}
	case ":clear":
		fmt.Fprint(s.out, "\033[2J\033[H")
	case ":bindings", ":env", ":vars":
		s.printBindings(false)
	case ":functions":
		s.printBindings(true)
	case ":ls":
		for _, name := range sortedNames(s.interp.Env()) {
			fmt.Fprintln(s.out, name)
		}
	case ":state":
		fmt.Fprintf(s.out, "bindings: %d\n", len(s.interp.Env().Names()))
		fmt.Fprintf(s.out, "history:  %d\n", len(s.history))
		fmt.Fprintf(s.out, "mode:     %s\n", s.modeName())
	case ":inspect":
		s.inspect(arg)
	case ":doc":
		s.showDoc(arg)
	case ":type":
		s.showType(arg)
	case ":ast":
		s.showAST(arg)
	case ":parse":
		s.showParse(arg)
	case ":transpile":
		s.transpile(arg)
	case ":compile":
		s.compile()
	case ":load":
		s.load(arg)
	case ":save":
		s.save(arg)
	case ":export":
		s.export(arg)
	case ":mode":
		s.setMode(arg)
	case ":debug":
		s.setMode(map[string]string{"on": "debug", "off": "normal"}[arg])
	case ":trace":
		s.showParse(arg)
		s.eval(arg)
	case ":time":
		s.timeExpr(arg)
	case ":bench":
		s.bench(arg)
	case ":reset":
		s.interp = interpreter.New()
		s.interp.SetOutput(s.out)
		s.history = nil
		fmt.Fprintln(s.out, "session reset")
	default:
		fmt.Fprintf(s.out, "unknown command %s (type :help for commands)\n", name)
	}
	return false
}

func (s *Session) modeName() string {
	if s.debug {
		return "debug"
	}
	return "normal"
}

func (s *Session) setMode(arg string) {
	switch arg {
	case "debug":
		s.debug = true
		fmt.Fprintln(s.out, "debug mode on")
	case "normal", "":
		s.debug = false
		fmt.Fprintln(s.out, "debug mode off")
	default:
		fmt.Fprintf(s.out, "unknown mode %q (normal or debug)\n", arg)
	}
}

func (s *Session) printBindings(functionsOnly bool) {
	env := s.interp.Env()
	printed := 0
	for _, name := range sortedNames(env) {
		value, ok := env.Get(name)
		if !ok {
			continue
		}
		if functionsOnly && value.Type() != interpreter.FUNCTION_OBJ {
			continue
		}
		rendered := value.Inspect()
		if len(rendered) > 60 {
			rendered = rendered[:57] + "..."
		}
		fmt.Fprintf(s.out, "  %s: %s = %s\n", name, value.Type(), rendered)
		printed++
	}
	if printed == 0 {
		fmt.Fprintln(s.out, "(no bindings)")
	}
}

func (s *Session) inspect(name string) {
	if name == "" {
		fmt.Fprintln(s.out, "usage: :inspect <name>")
		return
	}
	value, ok := s.interp.Env().Get(name)
	if !ok {
		fmt.Fprintf(s.out, "%s is not bound\n", name)
		return
	}
	fmt.Fprintf(s.out, "name:  %s\n", name)
	fmt.Fprintf(s.out, "type:  %s\n", value.Type())
	fmt.Fprintf(s.out, "value: %s\n", value.Inspect())
	fmt.Fprintf(s.out, "mutable: %v\n", s.interp.Env().IsMutable(name))
}

func (s *Session) showDoc(name string) {
	if name == "" {
		fmt.Fprintln(s.out, "usage: :doc <name>")
		return
	}
	item, ok := doc.Lookup(s.docs, name)
	if !ok {
		fmt.Fprintf(s.out, "no documentation for %s (load its file with :load)\n", name)
		return
	}
	fmt.Fprintf(s.out, "%s %s\n", item.Kind, item.Signature)
	if item.Doc != "" {
		fmt.Fprintln(s.out, item.Doc)
	}
}

func (s *Session) showType(src string) {
	if src == "" {
		fmt.Fprintln(s.out, "usage: :type <expr>")
		return
	}
	program, perr := parseSource(src)
	if perr != nil {
		printError(s.out, perr)
		return
	}
	result := s.interp.EvalTransactional(program)
	if errObj, ok := result.(*interpreter.Error); ok {
		printError(s.out, errObj.Err)
		return
	}
	fmt.Fprintln(s.out, result.Type())
}

func (s *Session) showAST(src string) {
	if src == "" {
		fmt.Fprintln(s.out, "usage: :ast <expr>")
		return
	}
	program, perr := parseSource(src)
	if perr != nil {
		printError(s.out, perr)
		return
	}
	for _, stmt := range program.Statements {
		fmt.Fprintf(s.out, "%T  %s\n", stmt, stmt.String())
	}
}

func (s *Session) showParse(src string) {
	if src == "" {
		fmt.Fprintln(s.out, "usage: :parse <expr>")
		return
	}
	program, perr := parseSource(src)
	if perr != nil {
		printError(s.out, perr)
		return
	}
	fmt.Fprintln(s.out, program.String())
}

func (s *Session) transpile(src string) {
	if src == "" {
		fmt.Fprintln(s.out, "usage: :transpile <expr>")
		return
	}
	code, err := s.transpileSession(src)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	fmt.Fprintln(s.out, code)
}

// compile lowers the session to host source and hands it to the host
// compiler when one is installed
func (s *Session) compile() {
	if len(s.history) == 0 {
		fmt.Fprintln(s.out, "nothing to compile")
		return
	}
	code, err := s.transpileSession("")
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	dir, err := os.MkdirTemp("", "ruchy-repl-*")
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	src := dir + "/session.rs"
	if err := os.WriteFile(src, []byte(code), 0o644); err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	binary := dir + "/session"
	cmd := exec.Command("rustc", "-o", binary, src)
	cmd.Stdout = s.out
	cmd.Stderr = s.out
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(s.out, "rustc failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "compiled %s\n", binary)
}

func (s *Session) load(path string) {
	if path == "" {
		fmt.Fprintln(s.out, "usage: :load <file>")
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	source := string(data)
	s.docs = append(s.docs, doc.Extract(source)...)
	result := s.interp.EvalSource(source)
	s.bindResults()
	if errObj, ok := result.(*interpreter.Error); ok {
		printError(s.out, errObj.Err)
		return
	}
	s.history = append(s.history, source)
	fmt.Fprintf(s.out, "loaded %s\n", path)
}

// save writes current bindings back out as let statements so a later
// :load rebuilds the same scope
func (s *Session) save(path string) {
	if path == "" {
		fmt.Fprintln(s.out, "usage: :save <file>")
		return
	}
	env := s.interp.Env()
	var out strings.Builder
	for _, name := range sortedNames(env) {
		if name == "_" || name == "__" {
			continue
		}
		value, ok := env.Get(name)
		if !ok || value.Type() == interpreter.BUILTIN_OBJ {
			continue
		}
		if env.IsMutable(name) {
			fmt.Fprintf(&out, "let mut %s = %s\n", name, value.Inspect())
		} else {
			fmt.Fprintf(&out, "let %s = %s\n", name, value.Inspect())
		}
	}
	if err := os.WriteFile(path, []byte(out.String()), 0o644); err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	fmt.Fprintf(s.out, "saved bindings to %s\n", path)
}

func (s *Session) export(path string) {
	if path == "" {
		fmt.Fprintln(s.out, "usage: :export <file>")
		return
	}
	content := strings.Join(s.history, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	fmt.Fprintf(s.out, "exported session to %s\n", path)
}

func (s *Session) timeExpr(src string) {
	if src == "" {
		fmt.Fprintln(s.out, "usage: :time <expr>")
		return
	}
	start := time.Now()
	s.eval(src)
	fmt.Fprintf(s.out, "elapsed: %s\n", time.Since(start).Round(time.Microsecond))
}

const benchRuns = 10

func (s *Session) bench(src string) {
	if src == "" {
		fmt.Fprintln(s.out, "usage: :bench <expr>")
		return
	}
	program, perr := parseSource(src)
	if perr != nil {
		printError(s.out, perr)
		return
	}
	var total time.Duration
	for run := 0; run < benchRuns; run++ {
		start := time.Now()
		result := s.interp.EvalTransactional(program)
		total += time.Since(start)
		if errObj, ok := result.(*interpreter.Error); ok {
			printError(s.out, errObj.Err)
			return
		}
	}
	fmt.Fprintf(s.out, "%d runs, avg %s\n", benchRuns, (total / benchRuns).Round(time.Nanosecond))
}
