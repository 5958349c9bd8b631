// Package format pretty-prints parsed programs back to canonical source.
//
// The printer and the parser form a round trip: formatting a file and
// parsing the result yields the same tree. Formatting is idempotent.
package format

import (
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/parser"
)

const indentUnit = "    "

// Source parses input and returns it formatted. The first parse error is
// returned unchanged so callers can render it.
func Source(input string) (string, error) {
	p := parser.New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.StructuredErrors(); len(errs) > 0 {
		return "", errs[0]
	}
	return Program(program), nil
}

// Program renders a parsed program as canonical source text.
func Program(program *ast.Program) string {
	pr := &printer{}
	for i, stmt := range program.Statements {
		if i > 0 {
			pr.out.WriteString(blankBetween(program.Statements[i-1], stmt))
		}
		pr.statement(stmt)
		pr.out.WriteString("\n")
	}
	return pr.out.String()
}

// blankBetween separates item declarations with a blank line, the way
// rustfmt and gofmt separate top-level definitions
func blankBetween(prev, next ast.Statement) string {
	if isItem(prev) || isItem(next) {
		return "\n"
	}
	return ""
}

func isItem(stmt ast.Statement) bool {
	switch stmt.(type) {
	case *ast.FunctionLiteral, *ast.StructDeclaration, *ast.EnumDeclaration,
		*ast.TraitDeclaration, *ast.ImplBlock, *ast.ActorDeclaration,
		*ast.MacroDefinition:
		return true
	case *ast.ExpressionStatement:
		if es, ok := stmt.(*ast.ExpressionStatement); ok {
			if _, isFn := es.Expression.(*ast.FunctionLiteral); isFn {
				return true
			}
		}
	}
	return false
}

type printer struct {
	out    strings.Builder
	indent int
}

func (p *printer) pad() {
	for i := 0; i < p.indent; i++ {
		p.out.WriteString(indentUnit)
	}
}

func (p *printer) statement(stmt ast.Statement) {
	p.pad()
	switch stmt := stmt.(type) {
	case *ast.LetStatement:
		p.letStatement(stmt)
	case *ast.ReturnStatement:
		p.out.WriteString("return")
		if stmt.ReturnValue != nil {
			p.out.WriteString(" ")
			p.expression(stmt.ReturnValue)
		}
	case *ast.BreakStatement:
		p.out.WriteString("break")
		if stmt.Value != nil {
			p.out.WriteString(" ")
			p.expression(stmt.Value)
		}
	case *ast.ContinueStatement:
		p.out.WriteString("continue")
	case *ast.ExpressionStatement:
		p.expression(stmt.Expression)
	case *ast.FunctionLiteral:
		p.function(stmt)
	case *ast.StructDeclaration:
		p.structDecl(stmt)
	case *ast.EnumDeclaration:
		p.enumDecl(stmt)
	case *ast.TraitDeclaration:
		p.traitDecl(stmt)
	case *ast.ImplBlock:
		p.implBlock(stmt)
	case *ast.ActorDeclaration:
		p.actorDecl(stmt)
	case *ast.ImportStatement, *ast.ExportStatement, *ast.MacroDefinition:
		p.out.WriteString(stmt.String())
	case *ast.BlockStatement:
		p.block(stmt)
	default:
		p.out.WriteString(stmt.String())
	}
}

func (p *printer) letStatement(stmt *ast.LetStatement) {
	p.out.WriteString("let ")
	if stmt.Mutable {
		p.out.WriteString("mut ")
	}
	if stmt.Pattern != nil {
		p.out.WriteString(stmt.Pattern.String())
	} else {
		p.out.WriteString(stmt.Name.Value)
	}
	if stmt.TypeAnno != "" {
		p.out.WriteString(": " + stmt.TypeAnno)
	}
	if stmt.Value != nil {
		p.out.WriteString(" = ")
		p.expression(stmt.Value)
	}
	if stmt.Body != nil {
		p.out.WriteString(" in ")
		p.expression(stmt.Body)
	}
}

// expression prints block-bearing expressions multiline and everything
// else through the node's own String
func (p *printer) expression(expr ast.Expression) {
	switch expr := expr.(type) {
	case *ast.IfExpression:
		p.ifExpression(expr)
	case *ast.MatchExpression:
		p.matchExpression(expr)
	case *ast.ForExpression:
		p.out.WriteString("for " + expr.Pattern.String() + " in ")
		p.expression(expr.Iter)
		p.out.WriteString(" ")
		p.block(expr.Body)
	case *ast.WhileExpression:
		p.out.WriteString("while ")
		p.expression(expr.Condition)
		p.out.WriteString(" ")
		p.block(expr.Body)
	case *ast.LoopExpression:
		p.out.WriteString("loop ")
		p.block(expr.Body)
	case *ast.TryCatchExpression:
		p.tryCatch(expr)
	case *ast.FunctionLiteral:
		p.function(expr)
	case *ast.LambdaLiteral:
		p.lambda(expr)
	case *ast.BlockStatement:
		p.block(expr)
	case *ast.AsyncBlockExpression:
		p.out.WriteString("async ")
		p.block(expr.Body)
	case *ast.LetStatement:
		p.letStatement(expr)
	case *ast.GroupedExpression:
		p.out.WriteString("(")
		p.expression(expr.Inner)
		p.out.WriteString(")")
	case *ast.InfixExpression:
		p.expression(expr.Left)
		p.out.WriteString(" " + expr.Operator + " ")
		p.expression(expr.Right)
	case *ast.AssignExpression:
		p.expression(expr.Target)
		p.out.WriteString(" = ")
		p.expression(expr.Value)
	default:
		p.out.WriteString(expr.String())
	}
}

func (p *printer) block(block *ast.BlockStatement) {
	if len(block.Statements) == 0 {
		p.out.WriteString("{}")
		return
	}
	p.out.WriteString("{\n")
	p.indent++
	for _, stmt := range block.Statements {
		p.statement(stmt)
		p.out.WriteString("\n")
	}
	p.indent--
	p.pad()
	p.out.WriteString("}")
}

func (p *printer) ifExpression(expr *ast.IfExpression) {
	p.out.WriteString("if ")
	p.expression(expr.Condition)
	p.out.WriteString(" ")
	p.block(expr.Consequence)
	if expr.Alternative != nil {
		p.out.WriteString(" else ")
		p.expression(expr.Alternative)
	}
}

func (p *printer) matchExpression(expr *ast.MatchExpression) {
	p.out.WriteString("match ")
	p.expression(expr.Expr)
	p.out.WriteString(" {\n")
	p.indent++
	for _, arm := range expr.Arms {
		p.pad()
		p.out.WriteString(arm.Pattern.String())
		if arm.Guard != nil {
			p.out.WriteString(" if ")
			p.expression(arm.Guard)
		}
		p.out.WriteString(" => ")
		p.expression(arm.Body)
		p.out.WriteString(",\n")
	}
	p.indent--
	p.pad()
	p.out.WriteString("}")
}

func (p *printer) tryCatch(expr *ast.TryCatchExpression) {
	p.out.WriteString("try ")
	p.block(expr.Try)
	for _, clause := range expr.Catches {
		p.out.WriteString(" catch (")
		if clause.Pattern != nil {
			p.out.WriteString(clause.Pattern.String())
		} else {
			p.out.WriteString(clause.Param)
		}
		p.out.WriteString(") ")
		p.block(clause.Body)
	}
	if expr.Finally != nil {
		p.out.WriteString(" finally ")
		p.block(expr.Finally)
	}
}

func (p *printer) function(fn *ast.FunctionLiteral) {
	if fn.IsAsync {
		p.out.WriteString("async ")
	}
	p.out.WriteString("fun ")
	p.out.WriteString(fn.Name)
	p.out.WriteString("(")
	for i, param := range fn.Params {
		if i > 0 {
			p.out.WriteString(", ")
		}
		p.out.WriteString(param.String())
	}
	p.out.WriteString(")")
	if fn.ReturnType != "" {
		p.out.WriteString(" -> " + fn.ReturnType)
	}
	p.out.WriteString(" ")
	p.block(fn.Body)
}

func (p *printer) lambda(fn *ast.LambdaLiteral) {
	if fn.IsAsync {
		p.out.WriteString("async ")
	}
	p.out.WriteString("|")
	for i, param := range fn.Params {
		if i > 0 {
			p.out.WriteString(", ")
		}
		p.out.WriteString(param.String())
	}
	p.out.WriteString("| ")
	p.expression(fn.Body)
}

func (p *printer) structDecl(decl *ast.StructDeclaration) {
	if decl.Public {
		p.out.WriteString("pub ")
	}
	p.out.WriteString("struct " + decl.Name + " ")
	if len(decl.Fields) == 0 {
		p.out.WriteString("{}")
		return
	}
	p.out.WriteString("{\n")
	p.indent++
	for _, field := range decl.Fields {
		p.pad()
		p.out.WriteString(field.Name + ": " + field.Type + ",\n")
	}
	p.indent--
	p.pad()
	p.out.WriteString("}")
}

func (p *printer) enumDecl(decl *ast.EnumDeclaration) {
	if decl.Public {
		p.out.WriteString("pub ")
	}
	p.out.WriteString("enum " + decl.Name + " {\n")
	p.indent++
	for _, variant := range decl.Variants {
		p.pad()
		p.out.WriteString(variant.String() + ",\n")
	}
	p.indent--
	p.pad()
	p.out.WriteString("}")
}

func (p *printer) traitDecl(decl *ast.TraitDeclaration) {
	if decl.Public {
		p.out.WriteString("pub ")
	}
	p.out.WriteString("trait " + decl.Name + " {\n")
	p.indent++
	for _, method := range decl.Methods {
		p.pad()
		p.out.WriteString("fun " + method.Name + "(")
		for i, param := range method.Params {
			if i > 0 {
				p.out.WriteString(", ")
			}
			p.out.WriteString(param.String())
		}
		p.out.WriteString(")")
		if method.ReturnType != "" {
			p.out.WriteString(" -> " + method.ReturnType)
		}
		if method.Body != nil {
			p.out.WriteString(" ")
			p.block(method.Body)
		}
		p.out.WriteString("\n")
	}
	p.indent--
	p.pad()
	p.out.WriteString("}")
}

func (p *printer) implBlock(block *ast.ImplBlock) {
	p.out.WriteString("impl ")
	if block.Trait != "" {
		p.out.WriteString(block.Trait + " for ")
	}
	p.out.WriteString(block.TypeName + " {\n")
	p.indent++
	for i, method := range block.Methods {
		if i > 0 {
			p.out.WriteString("\n")
		}
		p.pad()
		p.function(method)
		p.out.WriteString("\n")
	}
	p.indent--
	p.pad()
	p.out.WriteString("}")
}

func (p *printer) actorDecl(decl *ast.ActorDeclaration) {
	p.out.WriteString("actor " + decl.Name + " {\n")
	p.indent++
	for _, field := range decl.State {
		p.pad()
		p.out.WriteString(field.Name + ": " + field.Type + ";\n")
	}
	p.pad()
	p.out.WriteString("receive {\n")
	p.indent++
	for _, handler := range decl.Handlers {
		p.pad()
		p.out.WriteString(handler.Message + "(")
		for i, param := range handler.Params {
			if i > 0 {
				p.out.WriteString(", ")
			}
			p.out.WriteString(param.String())
		}
		p.out.WriteString(") ")
		p.block(handler.Body)
		p.out.WriteString("\n")
	}
	p.indent--
	p.pad()
	p.out.WriteString("}\n")
	p.indent--
	p.pad()
	p.out.WriteString("}")
}
