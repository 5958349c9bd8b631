package interpreter

import (
	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

// Eval evaluates an AST node in the given scope
func (i *Interpreter) Eval(node ast.Node, env *Environment) Object {
	switch node := node.(type) {

	// Statements
	case *ast.Program:
		return i.evalProgram(node.Statements, env)
	case *ast.ExpressionStatement:
		return i.Eval(node.Expression, env)
	case *ast.LetStatement:
		return i.evalLetStatement(node, env)
	case *ast.ReturnStatement:
		return i.evalReturnStatement(node, env)
	case *ast.BreakStatement:
		return i.evalBreakStatement(node, env)
	case *ast.ContinueStatement:
		return &ContinueValue{}
	case *ast.BlockStatement:
		return i.evalBlockStatement(node, NewEnclosedEnvironment(env))
	case *ast.FunctionLiteral:
		return i.evalFunctionLiteral(node, env)
	case *ast.StructDeclaration:
		return i.evalStructDeclaration(node, env)
	case *ast.EnumDeclaration:
		return i.evalEnumDeclaration(node, env)
	case *ast.TraitDeclaration:
		return UNIT
	case *ast.ImplBlock:
		return i.evalImplBlock(node, env)
	case *ast.ActorDeclaration:
		return i.evalActorDeclaration(node, env)
	case *ast.ImportStatement:
		// builtins are globally visible; importing is a no-op at runtime
		return UNIT
	case *ast.ExportStatement:
		if node.Decl != nil {
			return i.Eval(node.Decl, env)
		}
		return UNIT
	case *ast.MacroDefinition:
		i.macros[node.Name] = node
		return UNIT
	case *ast.MacroInvocation:
		return i.evalMacroInvocation(node, env)

	// Literals
	case *ast.IntegerLiteral:
		return &Integer{Value: node.Value}
	case *ast.FloatLiteral:
		return &Float{Value: node.Value}
	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value)
	case *ast.StringLiteral:
		return &String{Value: node.Value}
	case *ast.FStringLiteral:
		return i.evalFStringLiteral(node, env)
	case *ast.CharLiteral:
		return &Char{Value: node.Value}
	case *ast.ByteLiteral:
		return &Byte{Value: node.Value}
	case *ast.UnitLiteral:
		return UNIT
	case *ast.NullLiteral:
		return NULL
	case *ast.CommandLiteral:
		return i.evalCommandLiteral(node, env)
	case *ast.ArrayLiteral:
		return i.evalArrayLiteral(node, env)
	case *ast.ArrayInitExpression:
		return i.evalArrayInit(node, env)
	case *ast.TupleLiteral:
		return i.evalTupleLiteral(node, env)
	case *ast.ObjectLiteral:
		return i.evalObjectLiteral(node, env)
	case *ast.StructLiteral:
		return i.evalStructLiteral(node, env)
	case *ast.DataFrameLiteral:
		return i.evalDataFrameLiteral(node, env)
	case *ast.RangeExpression:
		return i.evalRangeExpression(node, env)
	case *ast.LambdaLiteral:
		return &Function{
			Params:  node.Params,
			Body:    node.Body,
			Env:     env,
			IsAsync: node.IsAsync,
		}

	// Expressions
	case *ast.Identifier:
		return i.evalIdentifier(node, env)
	case *ast.QualifiedName:
		return i.evalQualifiedName(node, env)
	case *ast.GroupedExpression:
		return i.Eval(node.Inner, env)
	case *ast.PrefixExpression:
		return i.evalPrefixExpression(node, env)
	case *ast.InfixExpression:
		return i.evalInfixExpression(node, env)
	case *ast.AssignExpression:
		return i.evalAssignExpression(node, env)
	case *ast.CompoundAssignExpression:
		return i.evalCompoundAssign(node, env)
	case *ast.IncDecExpression:
		return i.evalIncDecExpression(node, env)
	case *ast.IfExpression:
		return i.evalIfExpression(node, env)
	case *ast.TernaryExpression:
		return i.evalTernaryExpression(node, env)
	case *ast.MatchExpression:
		return i.evalMatchExpression(node, env)
	case *ast.ForExpression:
		return i.evalForExpression(node, env)
	case *ast.WhileExpression:
		return i.evalWhileExpression(node, env)
	case *ast.LoopExpression:
		return i.evalLoopExpression(node, env)
	case *ast.ThrowExpression:
		return i.evalThrowExpression(node, env)
	case *ast.TryCatchExpression:
		return i.evalTryCatchExpression(node, env)
	case *ast.CallExpression:
		return i.evalCallExpression(node, env)
	case *ast.MethodCallExpression:
		return i.evalMethodCallExpression(node, env)
	case *ast.FieldAccessExpression:
		return i.evalFieldAccess(node, env)
	case *ast.IndexExpression:
		return i.evalIndexExpression(node, env)
	case *ast.PipelineExpression:
		return i.evalPipelineExpression(node, env)
	case *ast.PostfixExpression:
		return i.evalPostfixExpression(node, env)
	case *ast.AsyncBlockExpression:
		return i.evalAsyncBlock(node, env)
	case *ast.AwaitExpression:
		return i.evalAwaitExpression(node, env)
	case *ast.SpawnExpression:
		return i.evalSpawnExpression(node, env)
	case *ast.SendExpression:
		return i.evalSendExpression(node, env)
	case *ast.AskExpression:
		return i.evalAskExpression(node, env)

	case nil:
		return newError(rerrors.ErrUnexpectedToken, map[string]any{"Token": "<nil>"})
	default:
		return &Error{Err: rerrors.Newf(rerrors.ClassNotImpl, "cannot evaluate %T", node)}
	}
}

func (i *Interpreter) evalProgram(stmts []ast.Statement, env *Environment) Object {
	var result Object = UNIT

	for _, stmt := range stmts {
		result = i.Eval(stmt, env)

		switch result := result.(type) {
		case *ReturnValue:
			return result.Value
		case *Error:
			return result
		case *Thrown:
			return &Error{Err: rerrors.Newf(rerrors.ClassRuntime, "uncaught throw: %s", result.Value.Inspect())}
		case *BreakValue, *ContinueValue:
			return newError(rerrors.ErrBreakOutsideLoop, nil)
		}
	}

	return result
}

// evalBlockStatement evaluates a block's statements in its own scope.
// The block's value is its last statement's value.
func (i *Interpreter) evalBlockStatement(block *ast.BlockStatement, env *Environment) Object {
	var result Object = UNIT

	for _, stmt := range block.Statements {
		result = i.Eval(stmt, env)

		if result != nil {
			switch result.Type() {
			case RETURN_OBJ, BREAK_OBJ, CONTINUE_OBJ, THROWN_OBJ, ERROR_OBJ:
				return result
			}
		}
	}

	return result
}

// evalLetStatement binds a name or destructuring pattern. The statement
// form yields the bound value, which is what the REPL echoes.
func (i *Interpreter) evalLetStatement(node *ast.LetStatement, env *Environment) Object {
	value := i.Eval(node.Value, env)
	if isControl(value) {
		return value
	}

	if node.Body != nil {
		// expression form: let x = v in body
		inner := NewEnclosedEnvironment(env)
		if bindErr := i.bindLetTarget(node, value, inner); bindErr != nil {
			return bindErr
		}
		return i.Eval(node.Body, inner)
	}

	if bindErr := i.bindLetTarget(node, value, env); bindErr != nil {
		return bindErr
	}
	return value
}

func (i *Interpreter) bindLetTarget(node *ast.LetStatement, value Object, env *Environment) Object {
	if node.Pattern != nil {
		if !i.matchPattern(node.Pattern, value, env, node.Mutable) {
			return newErrorWithPos(rerrors.ErrNoPatternMatched, node.Token, map[string]any{
				"Value": value.Inspect(),
			})
		}
		return nil
	}
	env.Define(node.Name.Value, value, node.Mutable)
	return nil
}

func (i *Interpreter) evalReturnStatement(node *ast.ReturnStatement, env *Environment) Object {
	if node.ReturnValue == nil {
		return &ReturnValue{Value: UNIT}
	}
	value := i.Eval(node.ReturnValue, env)
	if isControl(value) {
		return value
	}
	return &ReturnValue{Value: value}
}

func (i *Interpreter) evalBreakStatement(node *ast.BreakStatement, env *Environment) Object {
	if node.Value == nil {
		return &BreakValue{}
	}
	value := i.Eval(node.Value, env)
	if isControl(value) {
		return value
	}
	return &BreakValue{Value: value}
}

func (i *Interpreter) evalFunctionLiteral(node *ast.FunctionLiteral, env *Environment) Object {
	fn := &Function{
		Name:    node.Name,
		Params:  node.Params,
		Body:    node.Body,
		Env:     env,
		IsAsync: node.IsAsync,
	}
	if node.Name != "" {
		env.Define(node.Name, fn, false)
	}
	return fn
}

func (i *Interpreter) evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if value, ok := env.Get(node.Value); ok {
		return value
	}

	switch node.Value {
	case "_":
		if i.lastResult != nil {
			return i.lastResult
		}
	case "__":
		if i.priorResult != nil {
			return i.priorResult
		}
	case "None":
		return None()
	}

	if builtin, ok := builtins[node.Value]; ok {
		return builtin
	}

	err := rerrors.NewWithPosition(rerrors.ErrUnboundVariable, node.Token.Line, node.Token.Column, map[string]any{
		"Name": node.Value,
	})
	if suggestion := rerrors.ClosestMatch(node.Value, env.AllNames()); suggestion != "" {
		err.Hints = append(err.Hints, "did you mean '"+suggestion+"'?")
	}
	return &Error{Err: err}
}

// evalQualifiedName resolves Enum::Variant paths
func (i *Interpreter) evalQualifiedName(node *ast.QualifiedName, env *Environment) Object {
	if len(node.Parts) != 2 {
		return newErrorWithPos(rerrors.ErrUnboundVariable, node.Token, map[string]any{
			"Name": node.String(),
		})
	}

	base, ok := env.Get(node.Parts[0])
	if !ok {
		return newErrorWithPos(rerrors.ErrUnboundVariable, node.Token, map[string]any{
			"Name": node.Parts[0],
		})
	}

	enum, ok := base.(*EnumDef)
	if !ok {
		return newErrorWithPos(rerrors.ErrUnboundVariable, node.Token, map[string]any{
			"Name": node.String(),
		})
	}

	variant, ok := enum.Variants[node.Parts[1]]
	if !ok {
		return newErrorWithPos(rerrors.ErrUnboundVariable, node.Token, map[string]any{
			"Name": node.String(),
		})
	}

	if len(variant.Fields) == 0 {
		return &EnumVariantValue{Enum: enum, Variant: variant.Name}
	}
	// payload variants are constructed by calling them
	return &variantConstructor{enum: enum, variant: variant}
}

// variantConstructor is an internal callable produced by referencing a
// payload-carrying enum variant
type variantConstructor struct {
	enum    *EnumDef
	variant *ast.EnumVariant
}

func (vc *variantConstructor) Inspect() string {
	return vc.enum.Name + "::" + vc.variant.Name
}
func (vc *variantConstructor) Type() ObjectType { return ENUM_VARIANT_OBJ }

func (i *Interpreter) evalFStringLiteral(node *ast.FStringLiteral, env *Environment) Object {
	var out []byte
	for _, part := range node.Parts {
		if !part.IsExpr {
			out = append(out, part.Text...)
			continue
		}
		value := i.Eval(part.Expr, env)
		if isControl(value) {
			return value
		}
		out = append(out, value.Inspect()...)
	}
	return &String{Value: string(out)}
}

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// isTruthy drives conditions: false, null, and unit are falsy
func isTruthy(obj Object) bool {
	switch obj {
	case FALSE, NULL, UNIT:
		return false
	}
	if b, ok := obj.(*Boolean); ok {
		return b.Value
	}
	return true
}

func newError(code string, data map[string]any) *Error {
	return &Error{Err: rerrors.New(code, data)}
}

func newErrorWithPos(code string, tok lexer.Token, data map[string]any) *Error {
	return &Error{Err: rerrors.NewWithPosition(code, tok.Line, tok.Column, data)}
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

// isControl reports whether evaluation should stop and propagate:
// errors, returns, breaks, continues, and thrown values
func isControl(obj Object) bool {
	if obj == nil {
		return false
	}
	switch obj.Type() {
	case ERROR_OBJ, RETURN_OBJ, BREAK_OBJ, CONTINUE_OBJ, THROWN_OBJ:
		return true
	}
	return false
}
