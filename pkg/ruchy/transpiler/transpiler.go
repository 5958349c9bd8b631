// Package transpiler lowers parsed programs to Rust source text.
//
// The transpiler is pure: it holds no global state and performs no I/O.
// A small counter supports hygienic renaming during macro expansion, and
// a per-run registry collects macro definitions.
package transpiler

import (
	"fmt"
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
)

type Transpiler struct {
	macros  map[string]*ast.MacroDefinition
	hygiene int
	// function return types gathered from annotations, used when a call
	// result feeds a typed context
	returnTypes map[string]string
}

func New() *Transpiler {
	return &Transpiler{
		macros:      make(map[string]*ast.MacroDefinition),
		returnTypes: make(map[string]string),
	}
}

// Transpile emits a complete Rust source file. Top-level statements that
// are not items are gathered into fn main.
func (t *Transpiler) Transpile(program *ast.Program) (string, error) {
	var items []string
	var mainBody []string

	for _, stmt := range program.Statements {
		switch stmt := stmt.(type) {
		case *ast.FunctionLiteral:
			code, err := t.transpileFunction(stmt)
			if err != nil {
				return "", err
			}
			items = append(items, code)
		case *ast.StructDeclaration:
			items = append(items, t.transpileStruct(stmt))
		case *ast.EnumDeclaration:
			items = append(items, t.transpileEnum(stmt))
		case *ast.TraitDeclaration:
			code, err := t.transpileTrait(stmt)
			if err != nil {
				return "", err
			}
			items = append(items, code)
		case *ast.ImplBlock:
			code, err := t.transpileImpl(stmt)
			if err != nil {
				return "", err
			}
			items = append(items, code)
		case *ast.ActorDeclaration:
			code, err := t.transpileActor(stmt)
			if err != nil {
				return "", err
			}
			items = append(items, code)
		case *ast.MacroDefinition:
			t.macros[stmt.Name] = stmt
		case *ast.ImportStatement:
			items = append(items, t.transpileImport(stmt))
		case *ast.ExportStatement:
			if stmt.Decl != nil {
				code, err := t.transpileStatement(stmt.Decl)
				if err != nil {
					return "", err
				}
				items = append(items, "pub "+code)
			}
		default:
			code, err := t.transpileStatement(stmt)
			if err != nil {
				return "", err
			}
			mainBody = append(mainBody, code)
		}
	}

	var out strings.Builder
	for _, item := range items {
		out.WriteString(item)
		out.WriteString("\n\n")
	}

	out.WriteString("fn main() {\n")
	for idx, line := range mainBody {
		out.WriteString("    ")
		out.WriteString(line)
		// the final expression's value is printed, REPL-style, unless it
		// is already a statement
		if idx == len(mainBody)-1 && !strings.HasSuffix(line, ";") && !strings.HasSuffix(line, "}") {
			out.WriteString(";")
		}
		out.WriteString("\n")
	}
	out.WriteString("}\n")
	return out.String(), nil
}

// TranspileExpression emits a single expression, for the REPL's
// :transpile command
func (t *Transpiler) TranspileExpression(expr ast.Expression) (string, error) {
	return t.transpileExpression(expr)
}

func (t *Transpiler) transpileStatement(stmt ast.Statement) (string, error) {
	switch stmt := stmt.(type) {
	case *ast.LetStatement:
		return t.transpileLet(stmt)
	case *ast.ExpressionStatement:
		code, err := t.transpileExpression(stmt.Expression)
		if err != nil {
			return "", err
		}
		if needsSemicolon(stmt.Expression) {
			code += ";"
		}
		return code, nil
	case *ast.ReturnStatement:
		if stmt.ReturnValue == nil {
			return "return;", nil
		}
		code, err := t.transpileExpression(stmt.ReturnValue)
		if err != nil {
			return "", err
		}
		return "return " + code + ";", nil
	case *ast.BreakStatement:
		if stmt.Value == nil {
			return "break;", nil
		}
		code, err := t.transpileExpression(stmt.Value)
		if err != nil {
			return "", err
		}
		return "break " + code + ";", nil
	case *ast.ContinueStatement:
		return "continue;", nil
	case *ast.FunctionLiteral:
		return t.transpileFunction(stmt)
	case *ast.StructDeclaration:
		return t.transpileStruct(stmt), nil
	case *ast.EnumDeclaration:
		return t.transpileEnum(stmt), nil
	case *ast.ImplBlock:
		return t.transpileImpl(stmt)
	case *ast.MacroDefinition:
		t.macros[stmt.Name] = stmt
		return "", nil
	case *ast.BlockStatement:
		return t.transpileBlock(stmt)
	case *ast.MacroInvocation:
		code, err := t.transpileMacroInvocation(stmt)
		if err != nil {
			return "", err
		}
		return code + ";", nil
	}
	return "", rerrors.New(rerrors.ErrCannotTranspile, map[string]any{
		"Kind": fmt.Sprintf("%T", stmt),
	})
}

// needsSemicolon reports whether an expression statement requires a
// terminating semicolon in Rust
func needsSemicolon(expr ast.Expression) bool {
	switch expr.(type) {
	case *ast.IfExpression, *ast.MatchExpression, *ast.ForExpression,
		*ast.WhileExpression, *ast.LoopExpression, *ast.BlockStatement:
		return false
	}
	return true
}

func (t *Transpiler) transpileLet(stmt *ast.LetStatement) (string, error) {
	value, err := t.transpileExpression(stmt.Value)
	if err != nil {
		return "", err
	}

	var target string
	if stmt.Pattern != nil {
		target = t.transpilePattern(stmt.Pattern)
	} else {
		target = stmt.Name.Value
	}
	if stmt.Mutable {
		target = "mut " + target
	}

	decl := "let " + target
	if stmt.TypeAnno != "" {
		decl += ": " + rustType(stmt.TypeAnno, false)
	}
	decl += " = " + value + ";"

	if stmt.Body != nil {
		body, err := t.transpileExpression(stmt.Body)
		if err != nil {
			return "", err
		}
		return "{ " + decl + " " + body + " }", nil
	}
	return decl, nil
}

func (t *Transpiler) transpileFunction(fn *ast.FunctionLiteral) (string, error) {
	params := make([]string, len(fn.Params))
	for idx, param := range fn.Params {
		params[idx] = param.Name + ": " + rustType(param.Type, true)
	}

	signature := "fn " + fn.Name + "(" + strings.Join(params, ", ") + ")"
	if fn.IsAsync {
		signature = "async " + signature
	}
	if fn.ReturnType != "" {
		ret := rustType(fn.ReturnType, false)
		signature += " -> " + ret
		t.returnTypes[fn.Name] = ret
	}

	body, err := t.transpileBlock(fn.Body)
	if err != nil {
		return "", err
	}
	return signature + " " + body, nil
}

func (t *Transpiler) transpileBlock(block *ast.BlockStatement) (string, error) {
	if len(block.Statements) == 0 {
		return "{ }", nil
	}

	var out strings.Builder
	out.WriteString("{\n")
	for idx, stmt := range block.Statements {
		code, err := t.transpileStatement(stmt)
		if err != nil {
			return "", err
		}
		if code == "" {
			continue
		}
		// the block's tail expression stays unterminated so it is the
		// block's value
		if idx == len(block.Statements)-1 {
			if exprStmt, ok := stmt.(*ast.ExpressionStatement); ok && needsSemicolon(exprStmt.Expression) {
				code = strings.TrimSuffix(code, ";")
			}
		}
		out.WriteString("    ")
		out.WriteString(code)
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String(), nil
}

func (t *Transpiler) transpileStruct(stmt *ast.StructDeclaration) string {
	var out strings.Builder
	out.WriteString("#[derive(Debug, Clone, PartialEq)]\n")
	if stmt.Public {
		out.WriteString("pub ")
	}
	out.WriteString("struct " + stmt.Name + " {\n")
	for _, field := range stmt.Fields {
		out.WriteString("    pub " + field.Name + ": " + rustType(field.Type, false) + ",\n")
	}
	out.WriteString("}")
	return out.String()
}

func (t *Transpiler) transpileEnum(stmt *ast.EnumDeclaration) string {
	var out strings.Builder
	out.WriteString("#[derive(Debug, Clone, PartialEq)]\n")
	if stmt.Public {
		out.WriteString("pub ")
	}
	out.WriteString("enum " + stmt.Name + " {\n")
	for _, variant := range stmt.Variants {
		out.WriteString("    " + variant.Name)
		if len(variant.Fields) > 0 {
			fields := make([]string, len(variant.Fields))
			for idx, field := range variant.Fields {
				fields[idx] = rustType(field, false)
			}
			out.WriteString("(" + strings.Join(fields, ", ") + ")")
		}
		out.WriteString(",\n")
	}
	out.WriteString("}")
	return out.String()
}

func (t *Transpiler) transpileTrait(stmt *ast.TraitDeclaration) (string, error) {
	var out strings.Builder
	out.WriteString("trait " + stmt.Name + " {\n")
	for _, method := range stmt.Methods {
		params := []string{"&self"}
		for _, param := range method.Params {
			if param.Name == "self" {
				continue
			}
			params = append(params, param.Name+": "+rustType(param.Type, true))
		}
		out.WriteString("    fn " + method.Name + "(" + strings.Join(params, ", ") + ")")
		if method.ReturnType != "" {
			out.WriteString(" -> " + rustType(method.ReturnType, false))
		}
		if method.Body != nil {
			body, err := t.transpileBlock(method.Body)
			if err != nil {
				return "", err
			}
			out.WriteString(" " + indentLines(body, "    "))
		} else {
			out.WriteString(";")
		}
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String(), nil
}

func (t *Transpiler) transpileImpl(stmt *ast.ImplBlock) (string, error) {
	var out strings.Builder
	if stmt.Trait != "" {
		out.WriteString("impl " + stmt.Trait + " for " + stmt.TypeName + " {\n")
	} else {
		out.WriteString("impl " + stmt.TypeName + " {\n")
	}

	for _, method := range stmt.Methods {
		params := []string{}
		for _, param := range method.Params {
			if param.Name == "self" {
				params = append(params, "&self")
				continue
			}
			params = append(params, param.Name+": "+rustType(param.Type, true))
		}
		if len(params) == 0 || params[0] != "&self" {
			params = append([]string{"&self"}, params...)
		}

		signature := "    fn " + method.Name + "(" + strings.Join(params, ", ") + ")"
		if method.ReturnType != "" {
			signature += " -> " + rustType(method.ReturnType, false)
		}
		body, err := t.transpileBlock(method.Body)
		if err != nil {
			return "", err
		}
		out.WriteString(signature + " " + indentLines(body, "    ") + "\n")
	}
	out.WriteString("}")
	return out.String(), nil
}

// transpileActor lowers an actor to a struct plus an impl whose handler
// methods take &mut self
func (t *Transpiler) transpileActor(stmt *ast.ActorDeclaration) (string, error) {
	var out strings.Builder
	out.WriteString("#[derive(Debug, Clone)]\n")
	out.WriteString("struct " + stmt.Name + " {\n")
	for _, field := range stmt.State {
		out.WriteString("    " + field.Name + ": " + rustType(field.Type, false) + ",\n")
	}
	out.WriteString("}\n\n")

	out.WriteString("impl " + stmt.Name + " {\n")
	for _, handler := range stmt.Handlers {
		params := []string{"&mut self"}
		for _, param := range handler.Params {
			params = append(params, param.Name+": "+rustType(param.Type, true))
		}
		body, err := t.transpileActorBody(handler, stmt)
		if err != nil {
			return "", err
		}
		out.WriteString("    fn " + snakeCase(handler.Message) + "(" + strings.Join(params, ", ") + ") " + indentLines(body, "    ") + "\n")
	}
	out.WriteString("}")
	return out.String(), nil
}

// handler bodies refer to state fields as bare names; rewrite them to
// self.field accesses after transpilation
func (t *Transpiler) transpileActorBody(handler *ast.ActorHandler, actor *ast.ActorDeclaration) (string, error) {
	body, err := t.transpileBlock(handler.Body)
	if err != nil {
		return "", err
	}
	for _, field := range actor.State {
		body = rewriteBareName(body, field.Name, "self."+field.Name)
	}
	return body, nil
}

func (t *Transpiler) transpileImport(stmt *ast.ImportStatement) string {
	path := strings.Join(stmt.Path, "::")
	if stmt.All {
		return "use " + path + "::*;"
	}
	if len(stmt.Items) == 0 {
		return "use " + path + ";"
	}
	items := make([]string, len(stmt.Items))
	for idx, item := range stmt.Items {
		items[idx] = item.Name
		if item.Alias != "" {
			items[idx] += " as " + item.Alias
		}
	}
	return "use " + path + "::{" + strings.Join(items, ", ") + "};"
}

// rustType maps a source type annotation to its Rust spelling. In
// parameter position a bare str becomes the borrowed &str.
func rustType(anno string, paramPosition bool) string {
	anno = strings.TrimSpace(anno)
	switch anno {
	case "":
		return "i64"
	case "str":
		if paramPosition {
			return "&str"
		}
		return "String"
	case "int":
		return "i64"
	case "float":
		return "f64"
	case "bool", "String", "char", "()":
		return anno
	case "i8", "i16", "i32", "i64", "i128", "u8", "u16", "u32", "u64", "u128", "f32", "f64", "usize", "isize":
		return anno
	}

	if strings.HasPrefix(anno, "[") && strings.HasSuffix(anno, "]") {
		inner := anno[1 : len(anno)-1]
		if idx := strings.LastIndex(inner, ";"); idx >= 0 {
			return "[" + rustType(inner[:idx], false) + ";" + inner[idx+1:] + "]"
		}
		return "Vec<" + rustType(inner, false) + ">"
	}
	if strings.HasPrefix(anno, "(") && strings.HasSuffix(anno, ")") {
		parts := splitTopLevel(anno[1:len(anno)-1], ',')
		for idx := range parts {
			parts[idx] = rustType(parts[idx], false)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	if open := strings.Index(anno, "<"); open > 0 && strings.HasSuffix(anno, ">") {
		base := anno[:open]
		args := splitTopLevel(anno[open+1:len(anno)-1], ',')
		for idx := range args {
			args[idx] = rustType(args[idx], false)
		}
		return base + "<" + strings.Join(args, ", ") + ">"
	}
	return anno
}

func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for idx := 0; idx < len(s); idx++ {
		switch s[idx] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case sep:
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(s[start:idx]))
				start = idx + 1
			}
		}
	}
	parts = append(parts, strings.TrimSpace(s[start:]))
	return parts
}

func indentLines(block, indent string) string {
	lines := strings.Split(block, "\n")
	for idx := 1; idx < len(lines); idx++ {
		lines[idx] = indent + lines[idx]
	}
	return strings.Join(lines, "\n")
}

// snakeCase converts a message name like Deposit to deposit
func snakeCase(name string) string {
	var out strings.Builder
	for idx, r := range name {
		if r >= 'A' && r <= 'Z' {
			if idx > 0 {
				out.WriteByte('_')
			}
			out.WriteRune(r - 'A' + 'a')
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// rewriteBareName replaces whole-word occurrences of name
func rewriteBareName(code, name, replacement string) string {
	var out strings.Builder
	for idx := 0; idx < len(code); {
		pos := strings.Index(code[idx:], name)
		if pos < 0 {
			out.WriteString(code[idx:])
			break
		}
		pos += idx
		before := byte(0)
		if pos > 0 {
			before = code[pos-1]
		}
		after := byte(0)
		if pos+len(name) < len(code) {
			after = code[pos+len(name)]
		}
		out.WriteString(code[idx:pos])
		if isWordChar(before) || isWordChar(after) || before == '.' {
			out.WriteString(name)
		} else {
			out.WriteString(replacement)
		}
		idx = pos + len(name)
	}
	return out.String()
}

func isWordChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
