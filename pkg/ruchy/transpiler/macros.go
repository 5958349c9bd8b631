package transpiler

import (
	"fmt"
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/parser"
)

// macroExpansionLimit bounds recursive user macro expansion
const macroExpansionLimit = 64

// passthroughMacros exist in the host language with the same meaning
var passthroughMacros = map[string]bool{
	"println":     true,
	"print":       true,
	"format":      true,
	"vec":         true,
	"assert":      true,
	"assert_eq":   true,
	"assert_ne":   true,
	"panic":       true,
	"dbg":         true,
	"stringify":   true,
	"line":        true,
	"file":        true,
	"include_str": true,
	"todo":        true,
	"unreachable": true,
}

func (t *Transpiler) transpileMacroInvocation(node *ast.MacroInvocation) (string, error) {
	if passthroughMacros[node.Name] {
		return t.passthroughMacro(node)
	}
	if def, ok := t.macros[node.Name]; ok {
		return t.expandMacro(node, def, 0)
	}
	return "", rerrors.NewWithPosition(rerrors.ErrUndefinedMacro, node.Token.Line, node.Token.Column, map[string]any{
		"Name": node.Name,
	})
}

// passthroughMacro re-emits the invocation, transpiling each top-level
// argument so nested source constructs become host constructs
func (t *Transpiler) passthroughMacro(node *ast.MacroInvocation) (string, error) {
	groups := ast.SplitTokenGroups(node.Tokens)
	args := make([]string, 0, len(groups))
	for _, group := range groups {
		expr, err := t.parseTokenGroup(node, group)
		if err != nil {
			return "", err
		}
		code, err := t.transpileExpression(expr)
		if err != nil {
			return "", err
		}
		args = append(args, code)
	}
	return node.Name + "!(" + strings.Join(args, ", ") + ")", nil
}

func (t *Transpiler) parseTokenGroup(node *ast.MacroInvocation, tokens []lexer.Token) (ast.Expression, error) {
	source := ast.RenderTokens(tokens)
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if errs := p.StructuredErrors(); len(errs) > 0 {
		err := errs[0]
		err.Line, err.Column = node.Token.Line, node.Token.Column
		return nil, err
	}
	if len(program.Statements) != 1 {
		return nil, rerrors.NewWithPosition(rerrors.ErrCannotTranspile, node.Token.Line, node.Token.Column, map[string]any{
			"Kind": "macro argument '" + source + "'",
		})
	}
	if exprStmt, ok := program.Statements[0].(*ast.ExpressionStatement); ok {
		return exprStmt.Expression, nil
	}
	if expr, ok := program.Statements[0].(ast.Expression); ok {
		return expr, nil
	}
	return nil, rerrors.NewWithPosition(rerrors.ErrCannotTranspile, node.Token.Line, node.Token.Column, map[string]any{
		"Kind": "macro argument '" + source + "'",
	})
}

// expandMacro substitutes a matching rule's body, hygienically renames
// macro-local temporaries, re-parses, and transpiles the result
func (t *Transpiler) expandMacro(node *ast.MacroInvocation, def *ast.MacroDefinition, depth int) (string, error) {
	if depth > macroExpansionLimit {
		return "", rerrors.NewWithPosition(rerrors.ErrMacroDepth, node.Token.Line, node.Token.Column, map[string]any{
			"Name": node.Name,
		})
	}

	for _, rule := range def.Rules {
		captures, ok := ast.MatchMacroRule(rule.Matchers, node.Tokens)
		if !ok {
			continue
		}

		body := ast.SubstituteTokens(t.hygienicBody(rule.Body, captures), captures)
		source := ast.RenderTokens(body)
		p := parser.New(lexer.New(source))
		program := p.ParseProgram()
		if errs := p.StructuredErrors(); len(errs) > 0 {
			err := errs[0]
			err.Line, err.Column = node.Token.Line, node.Token.Column
			return "", err
		}

		var parts []string
		for _, stmt := range program.Statements {
			// nested macro invocations recurse with the depth budget
			if inner, ok := macroInvocationOf(stmt); ok {
				if innerDef, known := t.macros[inner.Name]; known {
					code, err := t.expandMacro(inner, innerDef, depth+1)
					if err != nil {
						return "", err
					}
					parts = append(parts, code+";")
					continue
				}
			}
			code, err := t.transpileStatement(stmt)
			if err != nil {
				return "", err
			}
			parts = append(parts, code)
		}
		if len(parts) == 1 {
			return strings.TrimSuffix(parts[0], ";"), nil
		}
		return "{ " + strings.Join(parts, " ") + " }", nil
	}

	return "", rerrors.NewWithPosition(rerrors.ErrCannotTranspile, node.Token.Line, node.Token.Column, map[string]any{
		"Kind": "macro invocation " + node.Name + "!(" + ast.RenderTokens(node.Tokens) + ")",
	})
}

func macroInvocationOf(stmt ast.Statement) (*ast.MacroInvocation, bool) {
	if inv, ok := stmt.(*ast.MacroInvocation); ok {
		return inv, true
	}
	if exprStmt, ok := stmt.(*ast.ExpressionStatement); ok {
		if inv, ok := exprStmt.Expression.(*ast.MacroInvocation); ok {
			return inv, true
		}
	}
	return nil, false
}

// hygienicBody renames identifiers bound by let inside the macro body so
// each expansion gets fresh temporaries that cannot capture or collide
// with caller bindings
func (t *Transpiler) hygienicBody(body []lexer.Token, captures map[string][][]lexer.Token) []lexer.Token {
	locals := make(map[string]string)
	for idx := 0; idx+1 < len(body); idx++ {
		if body[idx].Type != lexer.LET && body[idx].Type != lexer.VAR {
			continue
		}
		next := body[idx+1]
		bindIdx := idx + 1
		if next.Type == lexer.MUT && idx+2 < len(body) {
			next = body[idx+2]
			bindIdx = idx + 2
		}
		if next.Type != lexer.IDENT {
			continue
		}
		// a $metavar follows the dollar token, not an IDENT binding
		if bindIdx > 0 && body[bindIdx-1].Type == lexer.DOLLAR {
			continue
		}
		if _, seen := locals[next.Literal]; !seen {
			if _, isCapture := captures[next.Literal]; !isCapture {
				t.hygiene++
				locals[next.Literal] = fmt.Sprintf("%s_%d", next.Literal, t.hygiene)
			}
		}
	}

	if len(locals) == 0 {
		return body
	}
	renamed := make([]lexer.Token, len(body))
	for idx, tok := range body {
		renamed[idx] = tok
		if tok.Type == lexer.IDENT {
			if idx > 0 && body[idx-1].Type == lexer.DOLLAR {
				continue
			}
			if fresh, ok := locals[tok.Literal]; ok {
				renamed[idx].Literal = fresh
			}
		}
	}
	return renamed
}
