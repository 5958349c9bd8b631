// Package errors provides structured error types for the Ruchy language.
//
// This package defines RuchyError, a unified error type that can represent
// lexer, parser, transpiler, and runtime errors with rich metadata for
// display and programmatic handling.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// ErrorClass categorizes errors for filtering and templating.
type ErrorClass string

const (
	ClassLex       ErrorClass = "lex"       // Lexical errors
	ClassParse     ErrorClass = "parse"     // Parser/syntax errors
	ClassType      ErrorClass = "type"      // Type mismatches
	ClassArity     ErrorClass = "arity"     // Wrong argument count
	ClassUndefined ErrorClass = "undefined" // Not found/defined
	ClassDivision  ErrorClass = "division"  // Division or modulo by zero
	ClassIndex     ErrorClass = "index"     // Out of bounds
	ClassPattern   ErrorClass = "pattern"   // Pattern match failure
	ClassImmutable ErrorClass = "immutable" // Assignment to immutable binding
	ClassTimeout   ErrorClass = "timeout"   // Deadline exceeded
	ClassMemory    ErrorClass = "memory"    // Memory cap exceeded
	ClassRecursion ErrorClass = "recursion" // Recursion depth exceeded
	ClassIO        ErrorClass = "io"        // File operations
	ClassTranspile ErrorClass = "transpile" // Transpiler errors
	ClassNotImpl   ErrorClass = "notimpl"   // Unsupported construct
	ClassRuntime   ErrorClass = "runtime"   // Catch-all runtime error
)

// RuchyError represents any error from lexing, parsing, transpilation,
// or evaluation.
type RuchyError struct {
	Class   ErrorClass     `json:"class"`           // Error category
	Code    string         `json:"code"`            // Error code (e.g., "TYPE-0001")
	Message string         `json:"message"`         // Human-readable message
	Hints   []string       `json:"hints,omitempty"` // Suggestions for fixing
	Line    int            `json:"line"`            // 1-based line (0 if unknown)
	Column  int            `json:"column"`          // 1-based column (0 if unknown)
	File    string         `json:"file,omitempty"`  // File path (if known)
	Data    map[string]any `json:"data,omitempty"`  // Template variables
}

// Error implements the error interface.
func (e *RuchyError) Error() string {
	return e.String()
}

// String returns a formatted string representation of the error.
func (e *RuchyError) String() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(": ")
	}
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf("line %d, column %d: ", e.Line, e.Column))
	}

	sb.WriteString(e.Message)

	for _, hint := range e.Hints {
		sb.WriteString("\n  ")
		sb.WriteString(hint)
	}

	return sb.String()
}

// PrettyString returns a multi-line formatted string for display.
func (e *RuchyError) PrettyString() string {
	var sb strings.Builder

	switch e.Class {
	case ClassLex, ClassParse:
		sb.WriteString("Syntax error")
	case ClassTranspile:
		sb.WriteString("Transpile error")
	default:
		sb.WriteString("Runtime error")
	}

	if e.File != "" {
		sb.WriteString(":\n  in: ")
		sb.WriteString(e.File)
		if e.Line > 0 {
			sb.WriteString(fmt.Sprintf("\n  at: line %d, column %d", e.Line, e.Column))
		}
		sb.WriteString("\n  ")
	} else if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d, column %d\n  ", e.Line, e.Column))
	} else {
		sb.WriteString(":\n  ")
	}

	sb.WriteString(e.Message)

	for i, hint := range e.Hints {
		sb.WriteString("\n  ")
		if i == 0 {
			sb.WriteString("Use: ")
		} else {
			sb.WriteString(" or: ")
		}
		sb.WriteString(hint)
	}

	return sb.String()
}

// ToJSON returns the error as JSON bytes.
func (e *RuchyError) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// WithFile returns a copy of the error with the file path set.
func (e *RuchyError) WithFile(file string) *RuchyError {
	copy := *e
	copy.File = file
	return &copy
}

// WithPosition returns a copy of the error with line and column set.
func (e *RuchyError) WithPosition(line, column int) *RuchyError {
	copy := *e
	copy.Line = line
	copy.Column = column
	return &copy
}

// IsParseError returns true if this is a lexer or parser error.
func (e *RuchyError) IsParseError() bool {
	return e.Class == ClassLex || e.Class == ClassParse
}

// Catalog code constants, so call sites don't scatter raw strings.
const (
	ErrUnexpectedChar      = "LEX-0001"
	ErrUnknownEscape       = "LEX-0002"
	ErrUnterminated        = "LEX-0003"
	ErrExpectedToken       = "PARSE-0001"
	ErrUnexpectedToken     = "PARSE-0002"
	ErrInvalidNumber       = "PARSE-0003"
	ErrNoPrefixParse       = "PARSE-0004"
	ErrEmptyMatch          = "PARSE-0005"
	ErrBreakOutsideLoop    = "PARSE-0006"
	ErrUnexpectedEOF       = "PARSE-0007"
	ErrTypeMismatch        = "TYPE-0001"
	ErrUnification         = "TYPE-0002"
	ErrNotCallable         = "TYPE-0003"
	ErrNotIterable         = "TYPE-0004"
	ErrNotIndexable        = "TYPE-0005"
	ErrBadRangeBound       = "TYPE-0006"
	ErrUnknownOperator     = "TYPE-0007"
	ErrWrongArity          = "ARITY-0001"
	ErrUnboundVariable     = "UNDEF-0001"
	ErrDivisionByZero      = "DIV-0001"
	ErrModuloByZero        = "DIV-0002"
	ErrIndexOutOfBounds    = "INDEX-0001"
	ErrNoPatternMatched    = "PATTERN-0001"
	ErrOrPatternBindings   = "PATTERN-0002"
	ErrImmutableAssignment = "IMMUT-0001"
	ErrDeadlineExceeded    = "LIMIT-0001"
	ErrMemoryExceeded      = "LIMIT-0002"
	ErrRecursionLimit      = "LIMIT-0003"
	ErrCannotTranspile     = "TRANS-0001"
	ErrUndefinedMacro      = "TRANS-0002"
	ErrMacroDepth          = "TRANS-0003"
	ErrNotImplemented      = "NOTIMPL-0001"
)

// ErrorDef defines an error in the catalog.
type ErrorDef struct {
	Class    ErrorClass // Error category
	Template string     // Message template with {{.placeholders}}
	Hints    []string   // Hint templates (may use {{.placeholders}})
}

// ErrorCatalog maps error codes to their definitions.
var ErrorCatalog = map[string]ErrorDef{
	// Lex errors (LEX-0xxx)
	"LEX-0001": {
		Class:    ClassLex,
		Template: "unexpected character {{.Byte}}",
	},
	"LEX-0002": {
		Class:    ClassLex,
		Template: "unknown escape sequence '\\{{.Escape}}'",
		Hints:    []string{`valid escapes: \n \t \r \\ \" \' \0`},
	},
	"LEX-0003": {
		Class:    ClassLex,
		Template: "unterminated {{.Kind}} literal",
	},

	// Parse errors (PARSE-0xxx)
	"PARSE-0001": {
		Class:    ClassParse,
		Template: "expected {{.Expected}}, got '{{.Got}}'",
	},
	"PARSE-0002": {
		Class:    ClassParse,
		Template: "unexpected token '{{.Token}}'",
	},
	"PARSE-0003": {
		Class:    ClassParse,
		Template: "invalid number literal: {{.Literal}}",
	},
	"PARSE-0004": {
		Class:    ClassParse,
		Template: "no prefix parse rule for '{{.Token}}'",
	},
	"PARSE-0005": {
		Class:    ClassParse,
		Template: "match expression requires at least one arm",
	},
	"PARSE-0006": {
		Class:    ClassParse,
		Template: "break and continue are only allowed inside loops",
	},
	"PARSE-0007": {
		Class:    ClassParse,
		Template: "unexpected end of input, expected {{.Expected}}",
	},

	// Type errors (TYPE-0xxx)
	"TYPE-0001": {
		Class:    ClassType,
		Template: "{{.Function}} expected {{.Expected}}, got {{.Got}}",
	},
	"TYPE-0002": {
		Class:    ClassType,
		Template: "cannot unify {{.Expected}} with {{.Got}}",
	},
	"TYPE-0003": {
		Class:    ClassType,
		Template: "cannot call {{.Got}} as a function",
	},
	"TYPE-0004": {
		Class:    ClassType,
		Template: "cannot iterate over {{.Got}}",
		Hints:    []string{"for works with ranges, arrays, tuples, strings, maps, and sets"},
	},
	"TYPE-0005": {
		Class:    ClassType,
		Template: "cannot index {{.Got}} with {{.IndexType}}",
	},
	"TYPE-0006": {
		Class:    ClassType,
		Template: "range endpoints must be integers, got {{.Got}}",
	},
	"TYPE-0007": {
		Class:    ClassType,
		Template: "unknown operator: {{.Left}} {{.Operator}} {{.Right}}",
	},

	// Arity errors
	"ARITY-0001": {
		Class:    ClassArity,
		Template: "wrong number of arguments: expected {{.Expected}}, got {{.Got}}",
	},

	// Undefined
	"UNDEF-0001": {
		Class:    ClassUndefined,
		Template: "identifier not found: {{.Name}}",
	},

	// Division
	"DIV-0001": {
		Class:    ClassDivision,
		Template: "division by zero",
	},
	"DIV-0002": {
		Class:    ClassDivision,
		Template: "modulo by zero",
	},

	// Index
	"INDEX-0001": {
		Class:    ClassIndex,
		Template: "index {{.Index}} out of bounds for length {{.Length}}",
	},

	// Pattern
	"PATTERN-0001": {
		Class:    ClassPattern,
		Template: "no pattern matched value {{.Value}}",
	},
	"PATTERN-0002": {
		Class:    ClassPattern,
		Template: "or-pattern alternatives must bind the same identifiers",
	},

	// Immutable
	"IMMUT-0001": {
		Class:    ClassImmutable,
		Template: "cannot assign to immutable binding '{{.Name}}'",
		Hints:    []string{"declare it with 'let mut {{.Name}} = ...' or 'var {{.Name}} = ...'"},
	},

	// Resource limits
	"LIMIT-0001": {
		Class:    ClassTimeout,
		Template: "evaluation exceeded the configured deadline",
	},
	"LIMIT-0002": {
		Class:    ClassMemory,
		Template: "evaluation exceeded the configured memory cap",
	},
	"LIMIT-0003": {
		Class:    ClassRecursion,
		Template: "recursion depth limit exceeded",
	},

	// Transpile
	"TRANS-0001": {
		Class:    ClassTranspile,
		Template: "cannot transpile {{.Kind}}",
	},
	"TRANS-0002": {
		Class:    ClassTranspile,
		Template: "undefined macro '{{.Name}}!'",
	},
	"TRANS-0003": {
		Class:    ClassTranspile,
		Template: "macro expansion depth limit exceeded in '{{.Name}}!'",
	},

	// Not implemented
	"NOTIMPL-0001": {
		Class:    ClassNotImpl,
		Template: "{{.Feature}} is not supported by the interpreter",
	},
}

// New creates a RuchyError from a catalog code, rendering its message
// template with the given data.
func New(code string, data map[string]any) *RuchyError {
	def, ok := ErrorCatalog[code]
	if !ok {
		return &RuchyError{
			Class:   ClassRuntime,
			Code:    code,
			Message: fmt.Sprintf("unknown error code %s", code),
			Data:    data,
		}
	}

	return &RuchyError{
		Class:   def.Class,
		Code:    code,
		Message: renderTemplate(def.Template, data),
		Hints:   renderHints(def.Hints, data),
		Data:    data,
	}
}

// NewWithPosition creates a RuchyError from a catalog code with a source
// position attached.
func NewWithPosition(code string, line, column int, data map[string]any) *RuchyError {
	err := New(code, data)
	err.Line = line
	err.Column = column
	return err
}

// Newf creates a free-form RuchyError with the given class.
func Newf(class ErrorClass, format string, args ...any) *RuchyError {
	return &RuchyError{
		Class:   class,
		Message: fmt.Sprintf(format, args...),
	}
}

func renderTemplate(tmpl string, data map[string]any) string {
	if !strings.Contains(tmpl, "{{") {
		return tmpl
	}
	t, err := template.New("err").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return tmpl
	}
	return buf.String()
}

func renderHints(hints []string, data map[string]any) []string {
	if len(hints) == 0 {
		return nil
	}
	out := make([]string, len(hints))
	for i, h := range hints {
		out[i] = renderTemplate(h, data)
	}
	return out
}

// ClosestMatch returns the candidate with the smallest edit distance from
// name, or "" when nothing is close enough to be a plausible typo.
func ClosestMatch(name string, candidates []string) string {
	best := ""
	bestDist := len(name)/2 + 1 // only suggest plausible typos
	for _, c := range candidates {
		d := editDistance(name, c)
		if d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	if a == b {
		return 0
	}
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, min(cur[j-1]+1, prev[j-1]+cost))
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
