package interpreter

import (
	"math"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

func (i *Interpreter) evalPrefixExpression(node *ast.PrefixExpression, env *Environment) Object {
	right := i.Eval(node.Right, env)
	if isControl(right) {
		return right
	}

	switch node.Operator {
	case "!":
		return nativeBoolToBooleanObject(!isTruthy(right))
	case "-":
		switch right := right.(type) {
		case *Integer:
			return &Integer{Value: -right.Value}
		case *Float:
			return &Float{Value: -right.Value}
		}
		return newErrorWithPos(rerrors.ErrUnknownOperator, node.Token, map[string]any{
			"Left": "", "Operator": "-", "Right": string(right.Type()),
		})
	case "~":
		if right, ok := right.(*Integer); ok {
			return &Integer{Value: ^right.Value}
		}
		return newErrorWithPos(rerrors.ErrUnknownOperator, node.Token, map[string]any{
			"Left": "", "Operator": "~", "Right": string(right.Type()),
		})
	case "&":
		// references are a transpiler concern; at runtime they are the value
		return right
	default:
		return newErrorWithPos(rerrors.ErrUnknownOperator, node.Token, map[string]any{
			"Left": "", "Operator": node.Operator, "Right": string(right.Type()),
		})
	}
}

func (i *Interpreter) evalInfixExpression(node *ast.InfixExpression, env *Environment) Object {
	// short-circuit logic before evaluating the right side
	if node.Operator == "&&" || node.Operator == "||" {
		left := i.Eval(node.Left, env)
		if isControl(left) {
			return left
		}
		if node.Operator == "&&" && !isTruthy(left) {
			return FALSE
		}
		if node.Operator == "||" && isTruthy(left) {
			return TRUE
		}
		right := i.Eval(node.Right, env)
		if isControl(right) {
			return right
		}
		return nativeBoolToBooleanObject(isTruthy(right))
	}

	left := i.Eval(node.Left, env)
	if isControl(left) {
		return left
	}
	right := i.Eval(node.Right, env)
	if isControl(right) {
		return right
	}

	return i.applyInfix(node, node.Operator, left, right)
}

func (i *Interpreter) applyInfix(node *ast.InfixExpression, operator string, left, right Object) Object {
	switch {
	case operator == "==":
		return nativeBoolToBooleanObject(objectEquals(left, right))
	case operator == "!=":
		return nativeBoolToBooleanObject(!objectEquals(left, right))

	case left.Type() == INTEGER_OBJ && right.Type() == INTEGER_OBJ:
		return i.evalIntegerInfix(node, operator, left.(*Integer), right.(*Integer))
	case isNumeric(left) && isNumeric(right):
		return i.evalFloatInfix(node, operator, toFloat(left), toFloat(right))
	case left.Type() == STRING_OBJ && right.Type() == STRING_OBJ:
		return i.evalStringInfix(node, operator, left.(*String), right.(*String))
	case left.Type() == STRING_OBJ && right.Type() == CHAR_OBJ && operator == "+":
		return &String{Value: left.(*String).Value + string(right.(*Char).Value)}
	case left.Type() == CHAR_OBJ && right.Type() == CHAR_OBJ:
		return i.evalCharInfix(node, operator, left.(*Char), right.(*Char))
	case left.Type() == ARRAY_OBJ && right.Type() == ARRAY_OBJ && operator == "+":
		l, r := left.(*Array), right.(*Array)
		if errObj := i.trackAlloc(int64(len(l.Elements) + len(r.Elements))); errObj != nil {
			return errObj
		}
		elements := make([]Object, 0, len(l.Elements)+len(r.Elements))
		elements = append(elements, l.Elements...)
		elements = append(elements, r.Elements...)
		return &Array{Elements: elements}
	case left.Type() == BOOLEAN_OBJ && right.Type() == BOOLEAN_OBJ:
		l, r := left.(*Boolean).Value, right.(*Boolean).Value
		switch operator {
		case "&":
			return nativeBoolToBooleanObject(l && r)
		case "|":
			return nativeBoolToBooleanObject(l || r)
		case "^":
			return nativeBoolToBooleanObject(l != r)
		}
	}

	return newErrorWithPos(rerrors.ErrUnknownOperator, node.Token, map[string]any{
		"Left": string(left.Type()), "Operator": operator, "Right": string(right.Type()),
	})
}

func (i *Interpreter) evalIntegerInfix(node *ast.InfixExpression, operator string, left, right *Integer) Object {
	l, r := left.Value, right.Value

	switch operator {
	case "+":
		return &Integer{Value: l + r}
	case "-":
		return &Integer{Value: l - r}
	case "*":
		return &Integer{Value: l * r}
	case "/":
		if r == 0 {
			return newErrorWithPos(rerrors.ErrDivisionByZero, node.Token, nil)
		}
		// truncating division, like the transpile target
		return &Integer{Value: l / r}
	case "%":
		if r == 0 {
			return newErrorWithPos(rerrors.ErrModuloByZero, node.Token, nil)
		}
		return &Integer{Value: l % r}
	case "**":
		return &Integer{Value: intPow(l, r)}
	case "<":
		return nativeBoolToBooleanObject(l < r)
	case ">":
		return nativeBoolToBooleanObject(l > r)
	case "<=":
		return nativeBoolToBooleanObject(l <= r)
	case ">=":
		return nativeBoolToBooleanObject(l >= r)
	case "&":
		return &Integer{Value: l & r}
	case "|":
		return &Integer{Value: l | r}
	case "^":
		return &Integer{Value: l ^ r}
	case "<<":
		return &Integer{Value: l << uint64(r)}
	case ">>":
		return &Integer{Value: l >> uint64(r)}
	}

	return newErrorWithPos(rerrors.ErrUnknownOperator, node.Token, map[string]any{
		"Left": "INTEGER", "Operator": operator, "Right": "INTEGER",
	})
}

func intPow(base, exp int64) int64 {
	if exp < 0 {
		return 0
	}
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func (i *Interpreter) evalFloatInfix(node *ast.InfixExpression, operator string, l, r float64) Object {
	switch operator {
	case "+":
		return &Float{Value: l + r}
	case "-":
		return &Float{Value: l - r}
	case "*":
		return &Float{Value: l * r}
	case "/":
		if r == 0 {
			return newErrorWithPos(rerrors.ErrDivisionByZero, node.Token, nil)
		}
		return &Float{Value: l / r}
	case "%":
		if r == 0 {
			return newErrorWithPos(rerrors.ErrModuloByZero, node.Token, nil)
		}
		return &Float{Value: math.Mod(l, r)}
	case "**":
		return &Float{Value: math.Pow(l, r)}
	case "<":
		return nativeBoolToBooleanObject(l < r)
	case ">":
		return nativeBoolToBooleanObject(l > r)
	case "<=":
		return nativeBoolToBooleanObject(l <= r)
	case ">=":
		return nativeBoolToBooleanObject(l >= r)
	}

	return newErrorWithPos(rerrors.ErrUnknownOperator, node.Token, map[string]any{
		"Left": "FLOAT", "Operator": operator, "Right": "FLOAT",
	})
}

func (i *Interpreter) evalStringInfix(node *ast.InfixExpression, operator string, left, right *String) Object {
	switch operator {
	case "+":
		return &String{Value: left.Value + right.Value}
	case "<":
		return nativeBoolToBooleanObject(left.Value < right.Value)
	case ">":
		return nativeBoolToBooleanObject(left.Value > right.Value)
	case "<=":
		return nativeBoolToBooleanObject(left.Value <= right.Value)
	case ">=":
		return nativeBoolToBooleanObject(left.Value >= right.Value)
	}

	return newErrorWithPos(rerrors.ErrUnknownOperator, node.Token, map[string]any{
		"Left": "STRING", "Operator": operator, "Right": "STRING",
	})
}

func (i *Interpreter) evalCharInfix(node *ast.InfixExpression, operator string, left, right *Char) Object {
	switch operator {
	case "+":
		return &String{Value: string(left.Value) + string(right.Value)}
	case "<":
		return nativeBoolToBooleanObject(left.Value < right.Value)
	case ">":
		return nativeBoolToBooleanObject(left.Value > right.Value)
	case "<=":
		return nativeBoolToBooleanObject(left.Value <= right.Value)
	case ">=":
		return nativeBoolToBooleanObject(left.Value >= right.Value)
	}

	return newErrorWithPos(rerrors.ErrUnknownOperator, node.Token, map[string]any{
		"Left": "CHAR", "Operator": operator, "Right": "CHAR",
	})
}

func isNumeric(obj Object) bool {
	return obj.Type() == INTEGER_OBJ || obj.Type() == FLOAT_OBJ
}

func toFloat(obj Object) float64 {
	switch obj := obj.(type) {
	case *Integer:
		return float64(obj.Value)
	case *Float:
		return obj.Value
	}
	return 0
}

// objectEquals is deep structural equality
func objectEquals(left, right Object) bool {
	// mixed int/float compares numerically
	if isNumeric(left) && isNumeric(right) && left.Type() != right.Type() {
		return toFloat(left) == toFloat(right)
	}
	if left.Type() != right.Type() {
		return false
	}

	switch l := left.(type) {
	case *Integer:
		return l.Value == right.(*Integer).Value
	case *Float:
		return l.Value == right.(*Float).Value
	case *Boolean:
		return l.Value == right.(*Boolean).Value
	case *String:
		return l.Value == right.(*String).Value
	case *Char:
		return l.Value == right.(*Char).Value
	case *Byte:
		return l.Value == right.(*Byte).Value
	case *Unit, *Null:
		return true
	case *Array:
		r := right.(*Array)
		if len(l.Elements) != len(r.Elements) {
			return false
		}
		for idx := range l.Elements {
			if !objectEquals(l.Elements[idx], r.Elements[idx]) {
				return false
			}
		}
		return true
	case *Tuple:
		r := right.(*Tuple)
		if len(l.Elements) != len(r.Elements) {
			return false
		}
		for idx := range l.Elements {
			if !objectEquals(l.Elements[idx], r.Elements[idx]) {
				return false
			}
		}
		return true
	case *HashMap:
		r := right.(*HashMap)
		if len(l.Pairs) != len(r.Pairs) {
			return false
		}
		for key, pair := range l.Pairs {
			other, ok := r.Pairs[key]
			if !ok || !objectEquals(pair.Value, other.Value) {
				return false
			}
		}
		return true
	case *HashSet:
		r := right.(*HashSet)
		if len(l.Elements) != len(r.Elements) {
			return false
		}
		for key := range l.Elements {
			if _, ok := r.Elements[key]; !ok {
				return false
			}
		}
		return true
	case *Range:
		r := right.(*Range)
		return l.Start == r.Start && l.End == r.End && l.Inclusive == r.Inclusive
	case *StructInstance:
		r := right.(*StructInstance)
		if l.Def != r.Def || len(l.Fields) != len(r.Fields) {
			return false
		}
		for name, value := range l.Fields {
			other, ok := r.Fields[name]
			if !ok || !objectEquals(value, other) {
				return false
			}
		}
		return true
	case *EnumVariantValue:
		r := right.(*EnumVariantValue)
		if l.Variant != r.Variant || len(l.Values) != len(r.Values) {
			return false
		}
		for idx := range l.Values {
			if !objectEquals(l.Values[idx], r.Values[idx]) {
				return false
			}
		}
		return true
	}
	return left == right
}

func (i *Interpreter) evalAssignExpression(node *ast.AssignExpression, env *Environment) Object {
	value := i.Eval(node.Value, env)
	if isControl(value) {
		return value
	}
	return i.assignTo(node.Target, value, env)
}

// assignTo stores a value into an identifier, index, or field target
func (i *Interpreter) assignTo(target ast.Expression, value Object, env *Environment) Object {
	switch target := target.(type) {
	case *ast.Identifier:
		found, mutable := env.Assign(target.Value, value)
		if !found {
			return newErrorWithPos(rerrors.ErrUnboundVariable, target.Token, map[string]any{
				"Name": target.Value,
			})
		}
		if !mutable {
			return newErrorWithPos(rerrors.ErrImmutableAssignment, target.Token, map[string]any{
				"Name": target.Value,
			})
		}
		return value

	case *ast.IndexExpression:
		container := i.Eval(target.Left, env)
		if isControl(container) {
			return container
		}
		index := i.Eval(target.Index, env)
		if isControl(index) {
			return index
		}
		return i.assignIndex(target, container, index, value)

	case *ast.FieldAccessExpression:
		object := i.Eval(target.Object, env)
		if isControl(object) {
			return object
		}
		switch object := object.(type) {
		case *StructInstance:
			if _, ok := object.Fields[target.Field]; !ok {
				return newErrorWithPos(rerrors.ErrUnboundVariable, target.Token, map[string]any{
					"Name": target.Field,
				})
			}
			object.Fields[target.Field] = value
			return value
		case *ActorInstance:
			object.State[target.Field] = value
			return value
		}
		return newErrorWithPos(rerrors.ErrNotIndexable, target.Token, map[string]any{
			"Got": string(object.Type()), "IndexType": "field",
		})
	}

	tok := tokenOf(target)
	return newErrorWithPos(rerrors.ErrUnexpectedToken, tok, map[string]any{"Token": target.String()})
}

func (i *Interpreter) assignIndex(node *ast.IndexExpression, container, index, value Object) Object {
	switch container := container.(type) {
	case *Array:
		idx, ok := index.(*Integer)
		if !ok {
			return newErrorWithPos(rerrors.ErrNotIndexable, node.Token, map[string]any{
				"Got": "ARRAY", "IndexType": string(index.Type()),
			})
		}
		n := idx.Value
		if n < 0 {
			n += int64(len(container.Elements))
		}
		if n < 0 || n >= int64(len(container.Elements)) {
			return newErrorWithPos(rerrors.ErrIndexOutOfBounds, node.Token, map[string]any{
				"Index": idx.Value, "Length": len(container.Elements),
			})
		}
		container.Elements[n] = value
		return value

	case *HashMap:
		key, ok := index.(Hashable)
		if !ok {
			return newErrorWithPos(rerrors.ErrNotIndexable, node.Token, map[string]any{
				"Got": "HASHMAP", "IndexType": string(index.Type()),
			})
		}
		container.Pairs[key.HashKey()] = HashPair{Key: index, Value: value}
		return value
	}

	return newErrorWithPos(rerrors.ErrNotIndexable, node.Token, map[string]any{
		"Got": string(container.Type()), "IndexType": string(index.Type()),
	})
}

// location is a resolved assignment target. Index and field targets
// hold their evaluated container so read-modify-write forms run the
// target's sub-expressions exactly once.
type location struct {
	ident     *ast.Identifier
	index     *ast.IndexExpression
	container Object
	key       Object
	field     *ast.FieldAccessExpression
	object    Object
}

func (i *Interpreter) resolveLocation(target ast.Expression, env *Environment) (*location, Object) {
	switch target := target.(type) {
	case *ast.Identifier:
		return &location{ident: target}, nil

	case *ast.IndexExpression:
		container := i.Eval(target.Left, env)
		if isControl(container) {
			return nil, container
		}
		key := i.Eval(target.Index, env)
		if isControl(key) {
			return nil, key
		}
		return &location{index: target, container: container, key: key}, nil

	case *ast.FieldAccessExpression:
		object := i.Eval(target.Object, env)
		if isControl(object) {
			return nil, object
		}
		return &location{field: target, object: object}, nil
	}

	tok := tokenOf(target)
	return nil, newErrorWithPos(rerrors.ErrUnexpectedToken, tok, map[string]any{"Token": target.String()})
}

func (i *Interpreter) loadLocation(loc *location, env *Environment) Object {
	switch {
	case loc.ident != nil:
		if value, ok := env.Get(loc.ident.Value); ok {
			return value
		}
		return newErrorWithPos(rerrors.ErrUnboundVariable, loc.ident.Token, map[string]any{
			"Name": loc.ident.Value,
		})

	case loc.index != nil:
		switch container := loc.container.(type) {
		case *Array:
			return i.indexArray(loc.index, container.Elements, loc.key)
		case *Tuple:
			return i.indexArray(loc.index, container.Elements, loc.key)
		case *HashMap:
			key, ok := loc.key.(Hashable)
			if !ok {
				return newErrorWithPos(rerrors.ErrNotIndexable, loc.index.Token, map[string]any{
					"Got": "HASHMAP", "IndexType": string(loc.key.Type()),
				})
			}
			if pair, ok := container.Pairs[key.HashKey()]; ok {
				return pair.Value
			}
			return NULL
		}
		return newErrorWithPos(rerrors.ErrNotIndexable, loc.index.Token, map[string]any{
			"Got": string(loc.container.Type()), "IndexType": string(loc.key.Type()),
		})
	}

	switch object := loc.object.(type) {
	case *StructInstance:
		if value, ok := object.Fields[loc.field.Field]; ok {
			return value
		}
	case *ActorInstance:
		if value, ok := object.State[loc.field.Field]; ok {
			return value
		}
	}
	return newErrorWithPos(rerrors.ErrUnboundVariable, loc.field.Token, map[string]any{
		"Name": loc.field.Field,
	})
}

func (i *Interpreter) storeLocation(loc *location, value Object, env *Environment) Object {
	switch {
	case loc.ident != nil:
		return i.assignTo(loc.ident, value, env)
	case loc.index != nil:
		return i.assignIndex(loc.index, loc.container, loc.key, value)
	}

	switch object := loc.object.(type) {
	case *StructInstance:
		if _, ok := object.Fields[loc.field.Field]; !ok {
			return newErrorWithPos(rerrors.ErrUnboundVariable, loc.field.Token, map[string]any{
				"Name": loc.field.Field,
			})
		}
		object.Fields[loc.field.Field] = value
		return value
	case *ActorInstance:
		object.State[loc.field.Field] = value
		return value
	}
	return newErrorWithPos(rerrors.ErrNotIndexable, loc.field.Token, map[string]any{
		"Got": string(loc.object.Type()), "IndexType": "field",
	})
}

func (i *Interpreter) evalCompoundAssign(node *ast.CompoundAssignExpression, env *Environment) Object {
	loc, errObj := i.resolveLocation(node.Target, env)
	if errObj != nil {
		return errObj
	}
	current := i.loadLocation(loc, env)
	if isControl(current) {
		return current
	}
	operand := i.Eval(node.Value, env)
	if isControl(operand) {
		return operand
	}

	pseudo := &ast.InfixExpression{Token: node.Token, Operator: node.Operator}
	result := i.applyInfix(pseudo, node.Operator, current, operand)
	if isControl(result) {
		return result
	}
	return i.storeLocation(loc, result, env)
}

func (i *Interpreter) evalIncDecExpression(node *ast.IncDecExpression, env *Environment) Object {
	loc, errObj := i.resolveLocation(node.Target, env)
	if errObj != nil {
		return errObj
	}
	current := i.loadLocation(loc, env)
	if isControl(current) {
		return current
	}

	var updated Object
	switch current := current.(type) {
	case *Integer:
		if node.Operator == "++" {
			updated = &Integer{Value: current.Value + 1}
		} else {
			updated = &Integer{Value: current.Value - 1}
		}
	case *Float:
		if node.Operator == "++" {
			updated = &Float{Value: current.Value + 1}
		} else {
			updated = &Float{Value: current.Value - 1}
		}
	default:
		return newErrorWithPos(rerrors.ErrUnknownOperator, node.Token, map[string]any{
			"Left": string(current.Type()), "Operator": node.Operator, "Right": "",
		})
	}

	if result := i.storeLocation(loc, updated, env); isControl(result) {
		return result
	}
	if node.IsPostfix {
		return current
	}
	return updated
}

// tokenOf pulls a representative token out of an expression for error
// positions
func tokenOf(expr ast.Expression) (tok lexer.Token) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e.Token
	case *ast.IndexExpression:
		return e.Token
	case *ast.FieldAccessExpression:
		return e.Token
	case *ast.TupleLiteral:
		return e.Token
	}
	return
}
