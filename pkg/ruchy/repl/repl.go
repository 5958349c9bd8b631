// Package repl implements the interactive session: line editing,
// history, tab completion, multiline buffering, and the ':' command set.
package repl

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/doc"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/interpreter"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/parser"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/transpiler"
)

const prompt = "ruchy> "
const continuationPrompt = "   ... "

// keywords and builtins offered by tab completion
var completionWords = []string{
	"let", "mut", "var", "fun", "fn", "if", "else", "match", "for", "in",
	"while", "loop", "break", "continue", "return", "struct", "enum",
	"trait", "impl", "actor", "spawn", "async", "await", "try", "catch",
	"finally", "throw", "import", "export", "macro_rules!",
	"true", "false", "null",
	"println", "print", "len", "type_of", "str", "int", "float", "abs",
	"min", "max", "sqrt", "pow", "floor", "ceil", "round", "assert",
	"Some", "None", "HashMap", "HashSet",
	"read_file", "write_file", "input", "sleep", "timestamp", "parse_time",
}

// Session holds the state one REPL run mutates
type Session struct {
	out     io.Writer
	interp  *interpreter.Interpreter
	history []string   // successfully evaluated inputs, for :save and :export
	docs    []doc.Item // documentation gathered from :load'ed files
	debug   bool
}

// Start runs the interactive loop until :quit or EOF.
func Start(out io.Writer, version string) {
	line := liner.NewLiner()
	defer line.Close()

	line.SetCtrlCAborts(true)
	line.SetCompleter(completions)

	historyFile := filepath.Join(os.TempDir(), ".ruchy_history")
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	session := &Session{out: out, interp: interpreter.New()}
	session.interp.SetOutput(out)
	session.interp.SetLimits(interpreter.Limits{
		Timeout:  10 * time.Second,
		MaxDepth: 10_000,
	})

	fmt.Fprintf(out, "ruchy %s\n", version)
	fmt.Fprintln(out, "Type :help for commands, :quit or Ctrl+D to exit")

	var buffer strings.Builder
	for {
		current := prompt
		if buffer.Len() > 0 {
			current = continuationPrompt
		}
		input, err := line.Prompt(current)
		if err != nil {
			if err == liner.ErrPromptAborted {
				buffer.Reset()
				fmt.Fprintln(out, "^C")
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out)
				return
			}
			fmt.Fprintf(out, "error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if buffer.Len() == 0 {
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, ":") {
				line.AppendHistory(trimmed)
				if quit := session.command(trimmed); quit {
					return
				}
				continue
			}
			if strings.HasPrefix(trimmed, "!") {
				line.AppendHistory(trimmed)
				session.shell(strings.TrimPrefix(trimmed, "!"))
				continue
			}
		}

		if buffer.Len() > 0 {
			buffer.WriteString("\n")
		}
		buffer.WriteString(input)

		full := buffer.String()
		if parser.NeedsContinuation(full) {
			continue
		}
		buffer.Reset()
		line.AppendHistory(full)
		session.eval(full)
	}
}

// eval runs one complete input and prints its value
func (s *Session) eval(src string) {
	start := time.Now()
	result := s.interp.EvalSource(src)
	elapsed := time.Since(start)

	s.bindResults()

	if errObj, ok := result.(*interpreter.Error); ok {
		printError(s.out, errObj.Err)
		return
	}
	s.history = append(s.history, src)
	if result != nil && result != interpreter.UNIT && result.Type() != interpreter.NULL_OBJ {
		if s.debug {
			fmt.Fprintf(s.out, "%s : %s  (%s)\n", result.Inspect(), result.Type(), elapsed.Round(time.Microsecond))
		} else {
			fmt.Fprintln(s.out, result.Inspect())
		}
	}
}

// bindResults refreshes the _ and __ convenience bindings
func (s *Session) bindResults() {
	if last := s.interp.LastResult(); last != nil {
		s.interp.Env().Define("_", last, false)
	}
	if prior := s.interp.PriorResult(); prior != nil {
		s.interp.Env().Define("__", prior, false)
	}
}

func (s *Session) shell(cmd string) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return
	}
	c := exec.Command("sh", "-c", cmd)
	c.Stdout = s.out
	c.Stderr = s.out
	if err := c.Run(); err != nil {
		fmt.Fprintf(s.out, "!%s: %v\n", cmd, err)
	}
}

func completions(line string) []string {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasSuffix(line, " ") {
		return nil
	}
	last := fields[len(fields)-1]
	var matches []string
	for _, word := range completionWords {
		if strings.HasPrefix(word, last) {
			matches = append(matches, word)
		}
	}
	return matches
}

func printError(out io.Writer, err *rerrors.RuchyError) {
	io.WriteString(out, err.PrettyString())
	io.WriteString(out, "\n")
}

func parseSource(src string) (*ast.Program, *rerrors.RuchyError) {
	p := parser.New(lexer.New(src))
	program := p.ParseProgram()
	if errs := p.StructuredErrors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return program, nil
}

func sortedNames(env *interpreter.Environment) []string {
	names := env.Names()
	sort.Strings(names)
	return names
}

// transpileSession lowers the whole session history plus an optional
// extra fragment to host source
func (s *Session) transpileSession(extra string) (string, error) {
	src := strings.Join(s.history, "\n")
	if extra != "" {
		src += "\n" + extra
	}
	program, perr := parseSource(src)
	if perr != nil {
		return "", perr
	}
	return transpiler.New().Transpile(program)
}
