package interpreter

import (
	"os"
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/parser"
)

// macroExpansionLimit bounds nested user macro expansion
const macroExpansionLimit = 64

func (i *Interpreter) evalMacroInvocation(node *ast.MacroInvocation, env *Environment) Object {
	switch node.Name {
	case "println":
		return i.macroPrintln(node, env, true)
	case "print":
		return i.macroPrintln(node, env, false)
	case "format":
		return i.macroFormat(node, env)
	case "vec":
		return i.macroVec(node, env)
	case "assert":
		return i.macroAssert(node, env)
	case "assert_eq":
		return i.macroAssertEq(node, env)
	case "assert_ne":
		return i.macroAssertNe(node, env)
	case "panic":
		return i.macroPanic(node, env)
	case "dbg":
		return i.macroDbg(node, env)
	case "stringify":
		return &String{Value: ast.RenderTokens(node.Tokens)}
	case "line":
		return &Integer{Value: int64(node.Token.Line)}
	case "file":
		name := i.file
		if name == "" {
			name = "<repl>"
		}
		return &String{Value: name}
	case "include_str":
		return i.macroIncludeStr(node, env)
	case "todo":
		return &Thrown{Value: &String{Value: "not yet implemented"}}
	case "unreachable":
		return &Thrown{Value: &String{Value: "entered unreachable code"}}
	}

	if def, ok := i.macros[node.Name]; ok {
		return i.expandUserMacro(node, def, env)
	}

	return newErrorWithPos(rerrors.ErrUndefinedMacro, node.Token, map[string]any{
		"Name": node.Name,
	})
}

// macroArgs splits the invocation's raw tokens on top-level commas and
// evaluates each group as an expression
func (i *Interpreter) macroArgs(node *ast.MacroInvocation, env *Environment) ([]Object, Object) {
	groups := ast.SplitTokenGroups(node.Tokens)
	args := make([]Object, 0, len(groups))
	for _, group := range groups {
		value := i.evalTokenGroup(node, group, env)
		if isControl(value) {
			return nil, value
		}
		args = append(args, value)
	}
	return args, nil
}

func (i *Interpreter) evalTokenGroup(node *ast.MacroInvocation, tokens []lexer.Token, env *Environment) Object {
	source := ast.RenderTokens(tokens)
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.StructuredErrors(); len(errs) > 0 {
		err := errs[0]
		err.Line, err.Column = node.Token.Line, node.Token.Column
		return &Error{Err: err}
	}

	var result Object = UNIT
	for _, stmt := range program.Statements {
		result = i.Eval(stmt, env)
		if isControl(result) {
			return result
		}
	}
	return result
}



// applyFormat substitutes {} holes positionally
func applyFormat(format string, args []Object) string {
	var out strings.Builder
	next := 0
	for idx := 0; idx < len(format); idx++ {
		if format[idx] == '{' && idx+1 < len(format) && format[idx+1] == '}' {
			if next < len(args) {
				out.WriteString(args[next].Inspect())
				next++
			}
			idx++
			continue
		}
		out.WriteByte(format[idx])
	}
	return out.String()
}

func (i *Interpreter) macroPrintln(node *ast.MacroInvocation, env *Environment, newline bool) Object {
	args, errObj := i.macroArgs(node, env)
	if errObj != nil {
		return errObj
	}

	var text string
	if len(args) > 0 {
		if format, ok := args[0].(*String); ok && strings.Contains(format.Value, "{}") {
			text = applyFormat(format.Value, args[1:])
		} else {
			parts := make([]string, len(args))
			for idx, arg := range args {
				parts[idx] = arg.Inspect()
			}
			text = strings.Join(parts, " ")
		}
	}

	if newline {
		text += "\n"
	}
	i.out.Write([]byte(text))
	return UNIT
}

func (i *Interpreter) macroFormat(node *ast.MacroInvocation, env *Environment) Object {
	args, errObj := i.macroArgs(node, env)
	if errObj != nil {
		return errObj
	}
	if len(args) == 0 {
		return &String{Value: ""}
	}

	format, ok := args[0].(*String)
	if !ok {
		return &String{Value: args[0].Inspect()}
	}
	return &String{Value: applyFormat(format.Value, args[1:])}
}

func (i *Interpreter) macroVec(node *ast.MacroInvocation, env *Environment) Object {
	// vec![value; n] repetition
	if groups := ast.SplitTokenSemicolons(node.Tokens); len(groups) == 2 {
		value := i.evalTokenGroup(node, groups[0], env)
		if isControl(value) {
			return value
		}
		size := i.evalTokenGroup(node, groups[1], env)
		if isControl(size) {
			return size
		}
		n, ok := size.(*Integer)
		if !ok || n.Value < 0 {
			return newErrorWithPos(rerrors.ErrBadRangeBound, node.Token, map[string]any{
				"Got": string(size.Type()),
			})
		}
		if errObj := i.trackAlloc(n.Value); errObj != nil {
			return errObj
		}
		elements := make([]Object, n.Value)
		for idx := range elements {
			elements[idx] = value
		}
		return &Array{Elements: elements}
	}

	if len(node.Tokens) == 0 {
		return &Array{}
	}
	args, errObj := i.macroArgs(node, env)
	if errObj != nil {
		return errObj
	}
	return &Array{Elements: args}
}


func (i *Interpreter) macroAssert(node *ast.MacroInvocation, env *Environment) Object {
	args, errObj := i.macroArgs(node, env)
	if errObj != nil {
		return errObj
	}
	if len(args) == 0 {
		return newErrorWithPos(rerrors.ErrWrongArity, node.Token, map[string]any{
			"Expected": 1, "Got": 0,
		})
	}
	if isTruthy(args[0]) {
		return UNIT
	}

	message := "assertion failed: " + ast.RenderTokens(ast.SplitTokenGroups(node.Tokens)[0])
	if len(args) > 1 {
		if s, ok := args[1].(*String); ok {
			message = s.Value
		}
	}
	return &Thrown{Value: &String{Value: message}}
}

func (i *Interpreter) macroAssertEq(node *ast.MacroInvocation, env *Environment) Object {
	args, errObj := i.macroArgs(node, env)
	if errObj != nil {
		return errObj
	}
	if len(args) < 2 {
		return newErrorWithPos(rerrors.ErrWrongArity, node.Token, map[string]any{
			"Expected": 2, "Got": len(args),
		})
	}
	if objectEquals(args[0], args[1]) {
		return UNIT
	}
	return &Thrown{Value: &String{
		Value: "assertion failed: " + args[0].Inspect() + " != " + args[1].Inspect(),
	}}
}

func (i *Interpreter) macroAssertNe(node *ast.MacroInvocation, env *Environment) Object {
	args, errObj := i.macroArgs(node, env)
	if errObj != nil {
		return errObj
	}
	if len(args) < 2 {
		return newErrorWithPos(rerrors.ErrWrongArity, node.Token, map[string]any{
			"Expected": 2, "Got": len(args),
		})
	}
	if !objectEquals(args[0], args[1]) {
		return UNIT
	}
	return &Thrown{Value: &String{
		Value: "assertion failed: " + args[0].Inspect() + " == " + args[1].Inspect(),
	}}
}

// macroIncludeStr reads a file at evaluation time, standing in for the
// compile-time inclusion the transpiled form gets
func (i *Interpreter) macroIncludeStr(node *ast.MacroInvocation, env *Environment) Object {
	arg := i.evalTokenGroup(node, node.Tokens, env)
	if isControl(arg) {
		return arg
	}
	path, ok := arg.(*String)
	if !ok {
		return newErrorWithPos(rerrors.ErrTypeMismatch, node.Token, map[string]any{
			"Function": "include_str", "Expected": "a path string", "Got": string(arg.Type()),
		})
	}
	data, err := os.ReadFile(path.Value)
	if err != nil {
		return &Error{Err: rerrors.Newf(rerrors.ClassIO, "include_str: %v", err)}
	}
	if errObj := i.trackAlloc(int64(len(data))); errObj != nil {
		return errObj
	}
	return &String{Value: string(data)}
}

func (i *Interpreter) macroPanic(node *ast.MacroInvocation, env *Environment) Object {
	args, errObj := i.macroArgs(node, env)
	if errObj != nil {
		return errObj
	}

	message := "panic"
	if len(args) > 0 {
		if format, ok := args[0].(*String); ok {
			message = applyFormat(format.Value, args[1:])
		} else {
			message = args[0].Inspect()
		}
	}
	return &Thrown{Value: &String{Value: message}}
}

// macroDbg prints the expression source and its value, then yields the
// value
func (i *Interpreter) macroDbg(node *ast.MacroInvocation, env *Environment) Object {
	value := i.evalTokenGroup(node, node.Tokens, env)
	if isControl(value) {
		return value
	}
	i.out.Write([]byte(ast.RenderTokens(node.Tokens) + " = " + value.Inspect() + "\n"))
	return value
}

// expandUserMacro matches the invocation against the definition's rules,
// substitutes captured metavariables into the matching rule's body, and
// evaluates the result
func (i *Interpreter) expandUserMacro(node *ast.MacroInvocation, def *ast.MacroDefinition, env *Environment) Object {
	i.macroDepth++
	defer func() { i.macroDepth-- }()
	if i.macroDepth > macroExpansionLimit {
		return newErrorWithPos(rerrors.ErrMacroDepth, node.Token, map[string]any{
			"Name": node.Name,
		})
	}

	for _, rule := range def.Rules {
		captures, ok := ast.MatchMacroRule(rule.Matchers, node.Tokens)
		if !ok {
			continue
		}
		body := ast.SubstituteTokens(rule.Body, captures)
		return i.evalTokenGroup(node, body, env)
	}

	return newErrorWithPos(rerrors.ErrNoPatternMatched, node.Token, map[string]any{
		"Value": node.Name + "!(" + ast.RenderTokens(node.Tokens) + ")",
	})
}





