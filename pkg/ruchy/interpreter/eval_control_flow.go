package interpreter

import (
	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
)

func (i *Interpreter) evalIfExpression(node *ast.IfExpression, env *Environment) Object {
	condition := i.Eval(node.Condition, env)
	if isControl(condition) {
		return condition
	}

	if isTruthy(condition) {
		return i.evalBlockStatement(node.Consequence, NewEnclosedEnvironment(env))
	}
	if node.Alternative != nil {
		return i.Eval(node.Alternative, env)
	}
	return NULL
}

func (i *Interpreter) evalTernaryExpression(node *ast.TernaryExpression, env *Environment) Object {
	condition := i.Eval(node.Condition, env)
	if isControl(condition) {
		return condition
	}
	if isTruthy(condition) {
		return i.Eval(node.Then, env)
	}
	return i.Eval(node.Else, env)
}

func (i *Interpreter) evalMatchExpression(node *ast.MatchExpression, env *Environment) Object {
	subject := i.Eval(node.Expr, env)
	if isControl(subject) {
		return subject
	}

	for _, arm := range node.Arms {
		if mismatchedOrPattern(arm.Pattern) {
			return newErrorWithPos(rerrors.ErrOrPatternBindings, node.Token, nil)
		}
		armEnv := NewEnclosedEnvironment(env)
		if !i.matchPattern(arm.Pattern, subject, armEnv, false) {
			continue
		}
		if arm.Guard != nil {
			guard := i.Eval(arm.Guard, armEnv)
			if isControl(guard) {
				return guard
			}
			if !isTruthy(guard) {
				continue
			}
		}
		if block, ok := arm.Body.(*ast.BlockStatement); ok {
			return i.evalBlockStatement(block, armEnv)
		}
		return i.Eval(arm.Body, armEnv)
	}

	return newErrorWithPos(rerrors.ErrNoPatternMatched, node.Token, map[string]any{
		"Value": subject.Inspect(),
	})
}

func (i *Interpreter) evalForExpression(node *ast.ForExpression, env *Environment) Object {
	iter := i.Eval(node.Iter, env)
	if isControl(iter) {
		return iter
	}

	elements, errObj := i.iterate(node, iter)
	if errObj != nil {
		return errObj
	}

	for _, element := range elements {
		if errObj := i.checkInterrupt(); errObj != nil {
			return errObj
		}

		loopEnv := NewEnclosedEnvironment(env)
		if !i.matchPattern(node.Pattern, element, loopEnv, false) {
			return newErrorWithPos(rerrors.ErrNoPatternMatched, node.Token, map[string]any{
				"Value": element.Inspect(),
			})
		}

		result := i.evalBlockStatement(node.Body, loopEnv)
		switch result := result.(type) {
		case *BreakValue:
			if result.Value != nil {
				return result.Value
			}
			return UNIT
		case *ContinueValue:
			continue
		case *ReturnValue, *Error, *Thrown:
			return result
		}
	}

	return UNIT
}

// iterate materializes an iterable into its element sequence
func (i *Interpreter) iterate(node *ast.ForExpression, iter Object) ([]Object, Object) {
	switch iter := iter.(type) {
	case *Range:
		length := iter.Len()
		if errObj := i.trackAlloc(length); errObj != nil {
			return nil, errObj
		}
		elements := make([]Object, 0, length)
		end := iter.End
		if iter.Inclusive {
			end++
		}
		for n := iter.Start; n < end; n++ {
			elements = append(elements, &Integer{Value: n})
		}
		return elements, nil
	case *Array:
		return iter.Elements, nil
	case *Tuple:
		return iter.Elements, nil
	case *String:
		runes := []rune(iter.Value)
		elements := make([]Object, len(runes))
		for idx, r := range runes {
			elements[idx] = &Char{Value: r}
		}
		return elements, nil
	case *HashMap:
		elements := make([]Object, 0, len(iter.Pairs))
		for _, key := range iter.SortedKeys() {
			pair := iter.Pairs[key]
			elements = append(elements, &Tuple{Elements: []Object{pair.Key, pair.Value}})
		}
		return elements, nil
	case *HashSet:
		elements := make([]Object, 0, len(iter.Elements))
		for _, key := range iter.SortedKeys() {
			elements = append(elements, iter.Elements[key])
		}
		return elements, nil
	}
	return nil, newErrorWithPos(rerrors.ErrNotIterable, node.Token, map[string]any{
		"Got": string(iter.Type()),
	})
}

func (i *Interpreter) evalWhileExpression(node *ast.WhileExpression, env *Environment) Object {
	for {
		if errObj := i.checkInterrupt(); errObj != nil {
			return errObj
		}

		condition := i.Eval(node.Condition, env)
		if isControl(condition) {
			return condition
		}
		if !isTruthy(condition) {
			return UNIT
		}

		result := i.evalBlockStatement(node.Body, NewEnclosedEnvironment(env))
		switch result := result.(type) {
		case *BreakValue:
			if result.Value != nil {
				return result.Value
			}
			return UNIT
		case *ContinueValue:
			continue
		case *ReturnValue, *Error, *Thrown:
			return result
		}
	}
}

func (i *Interpreter) evalLoopExpression(node *ast.LoopExpression, env *Environment) Object {
	for {
		if errObj := i.checkInterrupt(); errObj != nil {
			return errObj
		}

		result := i.evalBlockStatement(node.Body, NewEnclosedEnvironment(env))
		switch result := result.(type) {
		case *BreakValue:
			if result.Value != nil {
				return result.Value
			}
			return UNIT
		case *ContinueValue:
			continue
		case *ReturnValue, *Error, *Thrown:
			return result
		}
	}
}

func (i *Interpreter) evalThrowExpression(node *ast.ThrowExpression, env *Environment) Object {
	value := i.Eval(node.Value, env)
	if isControl(value) {
		return value
	}
	return &Thrown{Value: value}
}

func (i *Interpreter) evalTryCatchExpression(node *ast.TryCatchExpression, env *Environment) Object {
	result := i.evalBlockStatement(node.Try, NewEnclosedEnvironment(env))

	// Runtime errors unwind like thrown values; only break, continue,
	// and return pass through uncaught
	switch caught := result.(type) {
	case *Thrown:
		result = i.evalCatchClauses(node, caught, env)
	case *Error:
		result = i.evalCatchClauses(node, &Thrown{Value: &String{Value: caught.Err.Message}}, env)
	}

	if node.Finally != nil {
		finallyResult := i.evalBlockStatement(node.Finally, NewEnclosedEnvironment(env))
		if isControl(finallyResult) {
			return finallyResult
		}
	}

	return result
}

func (i *Interpreter) evalCatchClauses(node *ast.TryCatchExpression, thrown *Thrown, env *Environment) Object {
	for _, clause := range node.Catches {
		catchEnv := NewEnclosedEnvironment(env)
		if clause.Pattern != nil {
			if !i.matchPattern(clause.Pattern, thrown.Value, catchEnv, false) {
				continue
			}
		} else if clause.Param != "" {
			catchEnv.Define(clause.Param, thrown.Value, false)
		}
		return i.evalBlockStatement(clause.Body, catchEnv)
	}
	// no clause matched: keep unwinding
	return thrown
}
