package interpreter

import (
	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

func (i *Interpreter) evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	callee := i.Eval(node.Function, env)
	if isControl(callee) {
		return callee
	}

	args, errObj := i.evalArguments(node.Arguments, env)
	if errObj != nil {
		return errObj
	}

	return i.applyCallable(node.Token, callee, args)
}

func (i *Interpreter) evalArguments(exprs []ast.Expression, env *Environment) ([]Object, Object) {
	args := make([]Object, 0, len(exprs))
	for _, expr := range exprs {
		value := i.Eval(expr, env)
		if isControl(value) {
			return nil, value
		}
		args = append(args, value)
	}
	return args, nil
}

func (i *Interpreter) applyCallable(tok lexer.Token, callee Object, args []Object) Object {
	switch callee := callee.(type) {
	case *Function:
		return i.applyFunction(tok, callee, args)

	case *Builtin:
		result := callee.Fn(i, args...)
		if result == nil {
			return UNIT
		}
		return result

	case *variantConstructor:
		if len(args) != len(callee.variant.Fields) {
			return newErrorWithPos(rerrors.ErrWrongArity, tok, map[string]any{
				"Expected": len(callee.variant.Fields), "Got": len(args),
			})
		}
		return &EnumVariantValue{Enum: callee.enum, Variant: callee.variant.Name, Values: args}

	case *ActorDef:
		return i.instantiateActor(tok, callee, args)
	}

	return newErrorWithPos(rerrors.ErrNotCallable, tok, map[string]any{
		"Got": string(callee.Type()),
	})
}

func (i *Interpreter) applyFunction(tok lexer.Token, fn *Function, args []Object) Object {
	if errObj := i.enterCall(); errObj != nil {
		return errObj
	}
	defer i.exitCall()
	if errObj := i.checkInterrupt(); errObj != nil {
		return errObj
	}

	fnEnv, errObj := i.bindParams(tok, fn, args)
	if errObj != nil {
		return errObj
	}

	result := i.evalFunctionBody(fn, fnEnv)
	if returned, ok := result.(*ReturnValue); ok {
		result = returned.Value
	}

	if fn.IsAsync {
		if isControl(result) {
			return result
		}
		return &Future{Value: result}
	}
	return result
}

func (i *Interpreter) bindParams(tok lexer.Token, fn *Function, args []Object) (*Environment, Object) {
	required := 0
	for _, param := range fn.Params {
		if param.Default == nil {
			required++
		}
	}
	if len(args) < required || len(args) > len(fn.Params) {
		return nil, newErrorWithPos(rerrors.ErrWrongArity, tok, map[string]any{
			"Expected": len(fn.Params), "Got": len(args),
		})
	}

	fnEnv := NewEnclosedEnvironment(fn.Env)
	if fn.Self != nil {
		fnEnv.Define("self", fn.Self, false)
	}
	for idx, param := range fn.Params {
		if idx < len(args) {
			fnEnv.Define(param.Name, args[idx], true)
			continue
		}
		// defaults evaluate in the function's closure scope
		value := i.Eval(param.Default, fnEnv)
		if isControl(value) {
			return nil, value
		}
		fnEnv.Define(param.Name, value, true)
	}
	return fnEnv, nil
}

func (i *Interpreter) evalFunctionBody(fn *Function, env *Environment) Object {
	if block, ok := fn.Body.(*ast.BlockStatement); ok {
		return i.evalBlockStatement(block, env)
	}
	return i.Eval(fn.Body, env)
}

// evalPipelineExpression rewrites x |> f into f(x), and x |> f(a) into
// f(x, a)
func (i *Interpreter) evalPipelineExpression(node *ast.PipelineExpression, env *Environment) Object {
	value := i.Eval(node.Left, env)
	if isControl(value) {
		return value
	}

	if call, ok := node.Right.(*ast.CallExpression); ok {
		callee := i.Eval(call.Function, env)
		if isControl(callee) {
			return callee
		}
		rest, errObj := i.evalArguments(call.Arguments, env)
		if errObj != nil {
			return errObj
		}
		return i.applyCallable(call.Token, callee, append([]Object{value}, rest...))
	}

	callee := i.Eval(node.Right, env)
	if isControl(callee) {
		return callee
	}
	return i.applyCallable(node.Token, callee, []Object{value})
}

// evalPostfixExpression handles the '?' early-return operator: Some(x)?
// unwraps to x, None? propagates as a return of None
func (i *Interpreter) evalPostfixExpression(node *ast.PostfixExpression, env *Environment) Object {
	value := i.Eval(node.Left, env)
	if isControl(value) {
		return value
	}

	if node.Operator != "?" {
		return newErrorWithPos(rerrors.ErrUnknownOperator, node.Token, map[string]any{
			"Left": string(value.Type()), "Operator": node.Operator, "Right": "",
		})
	}

	if variant, ok := value.(*EnumVariantValue); ok && IsOption(variant) {
		if variant.Variant == "Some" && len(variant.Values) == 1 {
			return variant.Values[0]
		}
		return &ReturnValue{Value: None()}
	}
	if value == NULL {
		return &ReturnValue{Value: None()}
	}
	return value
}

// async blocks and awaits run eagerly: there is no scheduler, the Future
// wrapper only preserves the surface semantics
func (i *Interpreter) evalAsyncBlock(node *ast.AsyncBlockExpression, env *Environment) Object {
	result := i.evalBlockStatement(node.Body, NewEnclosedEnvironment(env))
	if isControl(result) {
		return result
	}
	return &Future{Value: result}
}

func (i *Interpreter) evalAwaitExpression(node *ast.AwaitExpression, env *Environment) Object {
	value := i.Eval(node.Value, env)
	if isControl(value) {
		return value
	}
	if future, ok := value.(*Future); ok {
		return future.Value
	}
	return value
}

func (i *Interpreter) evalSpawnExpression(node *ast.SpawnExpression, env *Environment) Object {
	value := i.Eval(node.Value, env)
	if isControl(value) {
		return value
	}
	if future, ok := value.(*Future); ok {
		return future
	}
	return &Future{Value: value}
}
