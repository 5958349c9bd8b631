package types

import (
	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
)

// Checker walks a program, inferring expression types and checking them
// against annotations. It reports mismatches without stopping, so one
// bad annotation doesn't mask the rest.
type Checker struct {
	env    map[string]Type
	outer  *Checker
	subst  Substitution
	errors []*rerrors.RuchyError
}

// NewChecker creates a checker with an empty top-level scope.
func NewChecker() *Checker {
	return &Checker{
		env:   make(map[string]Type),
		subst: make(Substitution),
	}
}

func (c *Checker) enclosed() *Checker {
	return &Checker{
		env:   make(map[string]Type),
		outer: c,
		subst: c.subst,
	}
}

func (c *Checker) lookup(name string) (Type, bool) {
	if t, ok := c.env[name]; ok {
		return t, true
	}
	if c.outer != nil {
		return c.outer.lookup(name)
	}
	return nil, false
}

func (c *Checker) define(name string, t Type) {
	c.env[name] = t
}

func (c *Checker) addError(err error, line, column int) {
	var rerr *rerrors.RuchyError
	if re, ok := err.(*rerrors.RuchyError); ok {
		rerr = re
	} else {
		rerr = rerrors.Newf(rerrors.ClassType, "%s", err.Error())
	}
	root := c
	for root.outer != nil {
		root = root.outer
	}
	root.errors = append(root.errors, rerr.WithPosition(line, column))
}

// Errors returns the type errors found so far.
func (c *Checker) Errors() []*rerrors.RuchyError {
	return c.errors
}

// CheckProgram type-checks a whole program and returns its errors.
func (c *Checker) CheckProgram(program *ast.Program) []*rerrors.RuchyError {
	for _, stmt := range program.Statements {
		c.checkStatement(stmt)
	}
	return c.errors
}

func (c *Checker) checkStatement(stmt ast.Statement) Type {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		return c.checkLet(s)
	case *ast.ExpressionStatement:
		if s.Expression != nil {
			return c.Infer(s.Expression)
		}
		return Unit
	case *ast.ReturnStatement:
		if s.ReturnValue != nil {
			return c.Infer(s.ReturnValue)
		}
		return Unit
	case *ast.FunctionLiteral:
		return c.checkFunction(s)
	case *ast.StructDeclaration:
		c.define(s.Name, &Named{Name: s.Name})
		return Unit
	case *ast.EnumDeclaration:
		c.define(s.Name, &Named{Name: s.Name})
		return Unit
	case *ast.BlockStatement:
		return c.checkBlock(s)
	default:
		return Unit
	}
}

func (c *Checker) checkLet(s *ast.LetStatement) Type {
	valueType := c.Infer(s.Value)

	if s.TypeAnno != "" {
		annotated := FromAnnotation(s.TypeAnno)
		if err := UnifyInto(annotated, valueType, c.subst); err != nil {
			c.addError(err, s.Token.Line, s.Token.Column)
		}
		valueType = annotated
	}

	if s.Name != nil {
		c.define(s.Name.Value, valueType)
	}
	if s.Body != nil {
		inner := c.enclosed()
		if s.Name != nil {
			inner.define(s.Name.Value, valueType)
		}
		return inner.Infer(s.Body)
	}
	return valueType
}

func (c *Checker) checkFunction(fn *ast.FunctionLiteral) Type {
	params := make([]Type, len(fn.Params))
	inner := c.enclosed()
	for i, p := range fn.Params {
		params[i] = FromAnnotation(p.Type)
		inner.define(p.Name, params[i])
	}

	ret := FromAnnotation(fn.ReturnType)
	fnType := &Function{Params: params, Return: ret}
	if fn.Name != "" {
		// visible inside the body too, so recursion checks
		c.define(fn.Name, fnType)
		inner.define(fn.Name, fnType)
	}

	bodyType := inner.checkBlock(fn.Body)
	if fn.ReturnType != "" {
		if err := UnifyInto(ret, bodyType, c.subst); err != nil {
			c.addError(err, fn.Token.Line, fn.Token.Column)
		}
	}
	return fnType
}

func (c *Checker) checkBlock(block *ast.BlockStatement) Type {
	if block == nil {
		return Unit
	}
	inner := c.enclosed()
	var last Type = Unit
	for _, stmt := range block.Statements {
		last = inner.checkStatement(stmt)
	}
	return last
}

// Infer returns the type of an expression, applying the substitution
// accumulated so far.
func (c *Checker) Infer(expr ast.Expression) Type {
	t := c.infer(expr)
	return Apply(t, c.subst)
}

func (c *Checker) infer(expr ast.Expression) Type {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		if e.Suffix != "" {
			return &Primitive{Kind: e.Suffix}
		}
		return Int
	case *ast.FloatLiteral:
		return Float
	case *ast.BooleanLiteral:
		return Bool
	case *ast.StringLiteral, *ast.FStringLiteral, *ast.CommandLiteral:
		return Str
	case *ast.CharLiteral:
		return Char
	case *ast.ByteLiteral:
		return &Primitive{Kind: "u8"}
	case *ast.UnitLiteral:
		return Unit
	case *ast.NullLiteral:
		return Anything
	case *ast.Identifier:
		if t, ok := c.lookup(e.Value); ok {
			return t
		}
		return Anything
	case *ast.GroupedExpression:
		return c.infer(e.Inner)
	case *ast.ArrayLiteral:
		elem := Type(FreshVar())
		for _, el := range e.Elements {
			if err := UnifyInto(elem, c.infer(el), c.subst); err != nil {
				c.addError(err, e.Token.Line, e.Token.Column)
				return &List{Elem: Anything}
			}
		}
		return &List{Elem: elem}
	case *ast.ArrayInitExpression:
		return &List{Elem: c.infer(e.Value)}
	case *ast.TupleLiteral:
		elems := make([]Type, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = c.infer(el)
		}
		return &Tuple{Elems: elems}
	case *ast.RangeExpression:
		for _, bound := range []ast.Expression{e.Start, e.End} {
			if err := UnifyInto(Int, c.infer(bound), c.subst); err != nil {
				c.addError(err, e.Token.Line, e.Token.Column)
			}
		}
		return &Named{Name: "Range"}
	case *ast.PrefixExpression:
		right := c.infer(e.Right)
		if e.Operator == "!" {
			return Bool
		}
		return right
	case *ast.InfixExpression:
		return c.inferInfix(e)
	case *ast.IfExpression:
		condType := c.infer(e.Condition)
		_ = condType
		result := c.checkBlock(e.Consequence)
		if e.Alternative != nil {
			altType := c.infer(e.Alternative)
			if err := UnifyInto(result, altType, c.subst); err != nil {
				// branches of different types widen to Any
				return Anything
			}
		}
		return result
	case *ast.BlockStatement:
		return c.checkBlock(e)
	case *ast.TernaryExpression:
		thenType := c.infer(e.Then)
		if err := UnifyInto(thenType, c.infer(e.Else), c.subst); err != nil {
			return Anything
		}
		return thenType
	case *ast.MatchExpression:
		c.infer(e.Expr)
		var result Type
		for _, arm := range e.Arms {
			armType := c.infer(arm.Body)
			if result == nil {
				result = armType
				continue
			}
			if err := UnifyInto(result, armType, c.subst); err != nil {
				result = Anything
			}
		}
		if result == nil {
			return Unit
		}
		return result
	case *ast.FunctionLiteral:
		return c.checkFunction(e)
	case *ast.LambdaLiteral:
		params := make([]Type, len(e.Params))
		inner := c.enclosed()
		for i, p := range e.Params {
			params[i] = FromAnnotation(p.Type)
			inner.define(p.Name, params[i])
		}
		return &Function{Params: params, Return: inner.infer(e.Body)}
	case *ast.CallExpression:
		return c.inferCall(e)
	case *ast.LetStatement:
		return c.checkLet(e)
	case *ast.AssignExpression:
		return c.infer(e.Value)
	case *ast.CompoundAssignExpression:
		return c.infer(e.Value)
	case *ast.IndexExpression:
		left := c.infer(e.Left)
		if list, ok := left.(*List); ok {
			return list.Elem
		}
		if left == Str {
			return Str
		}
		return Anything
	case *ast.ForExpression, *ast.WhileExpression:
		return Unit
	case *ast.LoopExpression:
		return Anything
	case *ast.ThrowExpression:
		c.infer(e.Value)
		return Never
	case *ast.AwaitExpression:
		return c.infer(e.Value)
	case *ast.StructLiteral:
		return &Named{Name: e.Name}
	case *ast.QualifiedName:
		if len(e.Parts) > 0 {
			return &Named{Name: e.Parts[0]}
		}
		return Anything
	default:
		return Anything
	}
}

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
}

func (c *Checker) inferInfix(e *ast.InfixExpression) Type {
	left := c.infer(e.Left)
	right := c.infer(e.Right)

	if comparisonOps[e.Operator] {
		if err := UnifyInto(left, right, c.subst); err != nil {
			c.addError(err, e.Token.Line, e.Token.Column)
		}
		return Bool
	}
	if e.Operator == "&&" || e.Operator == "||" {
		return Bool
	}

	// + on strings concatenates, so only unify operand types
	if err := UnifyInto(left, right, c.subst); err != nil {
		c.addError(err, e.Token.Line, e.Token.Column)
		return Anything
	}
	return Apply(left, c.subst)
}

func (c *Checker) inferCall(e *ast.CallExpression) Type {
	fnType := c.infer(e.Function)

	fn, ok := Apply(fnType, c.subst).(*Function)
	if !ok {
		for _, arg := range e.Arguments {
			c.infer(arg)
		}
		return Anything
	}

	if len(fn.Params) != len(e.Arguments) {
		c.addError(rerrors.New(rerrors.ErrWrongArity, map[string]any{
			"Expected": len(fn.Params),
			"Got":      len(e.Arguments),
		}), e.Token.Line, e.Token.Column)
		return Apply(fn.Return, c.subst)
	}

	for i, arg := range e.Arguments {
		argType := c.infer(arg)
		if err := UnifyInto(fn.Params[i], argType, c.subst); err != nil {
			c.addError(err, e.Token.Line, e.Token.Column)
		}
	}
	return Apply(fn.Return, c.subst)
}
