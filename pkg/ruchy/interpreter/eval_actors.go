package interpreter

import (
	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

func (i *Interpreter) evalStructDeclaration(node *ast.StructDeclaration, env *Environment) Object {
	def := &StructDef{
		Name:    node.Name,
		Fields:  node.Fields,
		Methods: make(map[string]*Function),
	}
	env.Define(node.Name, def, false)
	return UNIT
}

func (i *Interpreter) evalEnumDeclaration(node *ast.EnumDeclaration, env *Environment) Object {
	def := &EnumDef{
		Name:     node.Name,
		Variants: make(map[string]*ast.EnumVariant, len(node.Variants)),
		Methods:  make(map[string]*Function),
	}
	for _, variant := range node.Variants {
		def.Variants[variant.Name] = variant
	}
	env.Define(node.Name, def, false)
	return UNIT
}

// evalImplBlock attaches methods to an existing struct or enum definition
func (i *Interpreter) evalImplBlock(node *ast.ImplBlock, env *Environment) Object {
	target, ok := env.Get(node.TypeName)
	if !ok {
		return newErrorWithPos(rerrors.ErrUnboundVariable, node.Token, map[string]any{
			"Name": node.TypeName,
		})
	}

	var methods map[string]*Function
	switch target := target.(type) {
	case *StructDef:
		methods = target.Methods
	case *EnumDef:
		methods = target.Methods
	default:
		return newErrorWithPos(rerrors.ErrTypeMismatch, node.Token, map[string]any{
			"Function": "impl", "Expected": "struct or enum", "Got": string(target.Type()),
		})
	}

	for _, method := range node.Methods {
		fn := &Function{
			Name:    method.Name,
			Params:  filterSelfParam(method.Params),
			Body:    method.Body,
			Env:     env,
			IsAsync: method.IsAsync,
		}
		methods[method.Name] = fn
	}
	return UNIT
}

// filterSelfParam drops a leading self parameter; the receiver is bound
// separately when the method is called
func filterSelfParam(params []*ast.Param) []*ast.Param {
	if len(params) > 0 && params[0].Name == "self" {
		return params[1:]
	}
	return params
}

func (i *Interpreter) evalActorDeclaration(node *ast.ActorDeclaration, env *Environment) Object {
	def := &ActorDef{
		Name:     node.Name,
		State:    node.State,
		Handlers: make(map[string]*ast.ActorHandler, len(node.Handlers)),
	}
	for _, handler := range node.Handlers {
		def.Handlers[handler.Message] = handler
	}
	env.Define(node.Name, def, false)
	return UNIT
}

// instantiateActor builds an actor from positional state arguments, in
// declaration order
func (i *Interpreter) instantiateActor(tok lexer.Token, def *ActorDef, args []Object) Object {
	if len(args) != len(def.State) {
		return newErrorWithPos(rerrors.ErrWrongArity, tok, map[string]any{
			"Expected": len(def.State), "Got": len(args),
		})
	}

	instance := &ActorInstance{
		Def:   def,
		State: make(map[string]Object, len(def.State)),
	}
	for idx, field := range def.State {
		instance.State[field.Name] = args[idx]
	}
	return instance
}

// Message passing is synchronous: handlers run immediately on the
// caller's goroutine. Send discards the handler's value, ask returns it.

func (i *Interpreter) evalSendExpression(node *ast.SendExpression, env *Environment) Object {
	result := i.deliverMessage(node.Token, node.Actor, node.Message, env)
	if isControl(result) {
		return result
	}
	return UNIT
}

func (i *Interpreter) evalAskExpression(node *ast.AskExpression, env *Environment) Object {
	return i.deliverMessage(node.Token, node.Actor, node.Message, env)
}

func (i *Interpreter) deliverMessage(tok lexer.Token, actorExpr, messageExpr ast.Expression, env *Environment) Object {
	target := i.Eval(actorExpr, env)
	if isControl(target) {
		return target
	}
	actor, ok := target.(*ActorInstance)
	if !ok {
		return newErrorWithPos(rerrors.ErrTypeMismatch, tok, map[string]any{
			"Function": "message send", "Expected": "actor", "Got": string(target.Type()),
		})
	}

	name, args, errObj := i.evalMessage(tok, messageExpr, env)
	if errObj != nil {
		return errObj
	}

	handler, ok := actor.Def.Handlers[name]
	if !ok {
		err := rerrors.NewWithPosition(rerrors.ErrUnboundVariable, tok.Line, tok.Column, map[string]any{
			"Name": actor.Def.Name + "::" + name,
		})
		names := make([]string, 0, len(actor.Def.Handlers))
		for n := range actor.Def.Handlers {
			names = append(names, n)
		}
		if suggestion := rerrors.ClosestMatch(name, names); suggestion != "" {
			err.Hints = append(err.Hints, "did you mean '"+suggestion+"'?")
		}
		return &Error{Err: err}
	}
	if len(args) != len(handler.Params) {
		return newErrorWithPos(rerrors.ErrWrongArity, tok, map[string]any{
			"Expected": len(handler.Params), "Got": len(args),
		})
	}

	if errObj := i.enterCall(); errObj != nil {
		return errObj
	}
	defer i.exitCall()

	// handlers see the actor's state fields as mutable locals
	handlerEnv := NewEnclosedEnvironment(env)
	handlerEnv.Define("self", actor, false)
	for name, value := range actor.State {
		handlerEnv.Define(name, value, true)
	}
	for idx, param := range handler.Params {
		handlerEnv.Define(param.Name, args[idx], true)
	}

	result := i.evalBlockStatement(handler.Body, handlerEnv)

	// write mutated state back
	for _, field := range actor.Def.State {
		if value, ok := handlerEnv.Get(field.Name); ok {
			actor.State[field.Name] = value
		}
	}

	if returned, ok := result.(*ReturnValue); ok {
		return returned.Value
	}
	return result
}

// evalMessage splits a message expression into its handler name and
// argument values. Messages look like calls (Deposit(50)) or bare
// identifiers (Get).
func (i *Interpreter) evalMessage(tok lexer.Token, expr ast.Expression, env *Environment) (string, []Object, Object) {
	switch expr := expr.(type) {
	case *ast.Identifier:
		return expr.Value, nil, nil
	case *ast.CallExpression:
		name, ok := expr.Function.(*ast.Identifier)
		if !ok {
			break
		}
		args, errObj := i.evalArguments(expr.Arguments, env)
		if errObj != nil {
			return "", nil, errObj
		}
		return name.Value, args, nil
	}
	return "", nil, newErrorWithPos(rerrors.ErrUnexpectedToken, tok, map[string]any{
		"Token": expr.String(),
	})
}
