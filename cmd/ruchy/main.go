package main

import (
	"fmt"
	"os"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/repl"
)

// Version is set at compile time via -ldflags
var Version = "0.4.0"

func main() {
	if len(os.Args) < 2 {
		repl.Start(os.Stdout, Version)
		return
	}

	switch os.Args[1] {
	case "check":
		checkCommand(os.Args[2:])
	case "parse":
		parseCommand(os.Args[2:])
	case "ast":
		astCommand(os.Args[2:])
	case "fmt":
		fmtCommand(os.Args[2:])
	case "lint":
		lintCommand(os.Args[2:])
	case "transpile":
		transpileCommand(os.Args[2:])
	case "compile":
		compileCommand(os.Args[2:])
	case "run":
		runCommand(os.Args[2:])
	case "test":
		testCommand(os.Args[2:])
	case "doc":
		docCommand(os.Args[2:])
	case "bench":
		benchCommand(os.Args[2:])
	case "score":
		scoreCommand(os.Args[2:])
	case "provability":
		provabilityCommand(os.Args[2:])
	case "runtime":
		runtimeCommand(os.Args[2:])
	case "quality-gate":
		qualityGateCommand(os.Args[2:])
	case "repl":
		repl.Start(os.Stdout, Version)
	case "new":
		newCommand(os.Args[2:])
	case "-e", "--eval":
		evalCommand(os.Args[2:])
	case "-V", "--version", "version":
		fmt.Printf("ruchy %s\n", Version)
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "ruchy: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Printf(`ruchy %s

Usage: ruchy <command> [flags] [args]

Commands:
  check <file>         parse only, report diagnostics
  parse <file>         print the canonical parse
  ast <file>           print the tree (--json, --metrics)
  fmt <file>           format a file (-w writes in place)
  lint <file>          report lint findings
  transpile <file>     lower to host source (-o <out>, --watch)
  compile <file>       transpile and build a native binary (-o <out>)
  run <file>           parse and interpret (--watch)
  test <dir>           run every *_test.ruchy file
  doc <file>           extract documentation (--html)
  bench <file>         run repeatedly, report the average
  score <file>         maintainability score
  provability <file>   fraction of functions with no observable effects
  runtime <file>       asymptotic runtime estimate
  quality-gate <file>  exit nonzero when the score misses the threshold
  repl                 interactive session
  new <name>           generate a project skeleton
  -e <expr>            evaluate a one-liner

Exit status is 0 on success and 1 on the first error.
`, Version)
}

// fail prints a message and exits with status 1
func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
