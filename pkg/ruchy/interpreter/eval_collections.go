package interpreter

import (
	"os/exec"
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
)

func (i *Interpreter) evalArrayLiteral(node *ast.ArrayLiteral, env *Environment) Object {
	if errObj := i.trackAlloc(int64(len(node.Elements))); errObj != nil {
		return errObj
	}
	elements, errObj := i.evalArguments(node.Elements, env)
	if errObj != nil {
		return errObj
	}
	return &Array{Elements: elements}
}

// evalArrayInit handles [value; n] repetition
func (i *Interpreter) evalArrayInit(node *ast.ArrayInitExpression, env *Environment) Object {
	value := i.Eval(node.Value, env)
	if isControl(value) {
		return value
	}
	size := i.Eval(node.Size, env)
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

func (i *Interpreter) evalTupleLiteral(node *ast.TupleLiteral, env *Environment) Object {
	elements, errObj := i.evalArguments(node.Elements, env)
	if errObj != nil {
		return errObj
	}
	return &Tuple{Elements: elements}
}

func (i *Interpreter) evalObjectLiteral(node *ast.ObjectLiteral, env *Environment) Object {
	if errObj := i.trackAlloc(int64(len(node.Pairs))); errObj != nil {
		return errObj
	}

	hash := NewHashMap()
	for _, pair := range node.Pairs {
		value := i.Eval(pair.Value, env)
		if isControl(value) {
			return value
		}
		key := &String{Value: pair.Key}
		hash.Pairs[key.HashKey()] = HashPair{Key: key, Value: value}
	}
	return hash
}

func (i *Interpreter) evalStructLiteral(node *ast.StructLiteral, env *Environment) Object {
	def, errObj := i.lookupStructDef(node, env)
	if errObj != nil {
		return errObj
	}

	instance := &StructInstance{
		Def:    def,
		Fields: make(map[string]Object, len(def.Fields)),
	}
	for _, field := range def.Fields {
		instance.Order = append(instance.Order, field.Name)
	}

	// ..base spread first, explicit fields override
	if node.Base != nil {
		base := i.Eval(node.Base, env)
		if isControl(base) {
			return base
		}
		baseInstance, ok := base.(*StructInstance)
		if !ok || baseInstance.Def != def {
			return newErrorWithPos(rerrors.ErrTypeMismatch, node.Token, map[string]any{
				"Function": "struct update", "Expected": def.Name, "Got": string(base.Type()),
			})
		}
		for name, value := range baseInstance.Fields {
			instance.Fields[name] = value
		}
	}

	for _, field := range node.Fields {
		value := i.Eval(field.Value, env)
		if isControl(value) {
			return value
		}
		instance.Fields[field.Name] = value
	}

	for _, field := range def.Fields {
		if _, ok := instance.Fields[field.Name]; !ok {
			return newErrorWithPos(rerrors.ErrUnboundVariable, node.Token, map[string]any{
				"Name": node.Name + "." + field.Name,
			})
		}
	}
	return instance
}

func (i *Interpreter) lookupStructDef(node *ast.StructLiteral, env *Environment) (*StructDef, Object) {
	value, ok := env.Get(node.Name)
	if !ok {
		return nil, newErrorWithPos(rerrors.ErrUnboundVariable, node.Token, map[string]any{
			"Name": node.Name,
		})
	}
	def, ok := value.(*StructDef)
	if !ok {
		return nil, newErrorWithPos(rerrors.ErrTypeMismatch, node.Token, map[string]any{
			"Function": node.Name, "Expected": "struct", "Got": string(value.Type()),
		})
	}
	return def, nil
}

func (i *Interpreter) evalDataFrameLiteral(node *ast.DataFrameLiteral, env *Environment) Object {
	df := &DataFrame{}
	for _, col := range node.Columns {
		values, errObj := i.evalArguments(col.Values, env)
		if errObj != nil {
			return errObj
		}
		df.Columns = append(df.Columns, DataFrameColumn{Name: col.Name, Values: values})
	}
	return df
}

func (i *Interpreter) evalRangeExpression(node *ast.RangeExpression, env *Environment) Object {
	start := i.Eval(node.Start, env)
	if isControl(start) {
		return start
	}
	end := i.Eval(node.End, env)
	if isControl(end) {
		return end
	}

	lo, ok1 := start.(*Integer)
	hi, ok2 := end.(*Integer)
	if !ok1 || !ok2 {
		bad := start
		if ok1 {
			bad = end
		}
		return newErrorWithPos(rerrors.ErrBadRangeBound, node.Token, map[string]any{
			"Got": string(bad.Type()),
		})
	}

	return &Range{Start: lo.Value, End: hi.Value, Inclusive: node.Inclusive}
}

func (i *Interpreter) evalIndexExpression(node *ast.IndexExpression, env *Environment) Object {
	left := i.Eval(node.Left, env)
	if isControl(left) {
		return left
	}
	index := i.Eval(node.Index, env)
	if isControl(index) {
		return index
	}

	switch left := left.(type) {
	case *Array:
		return i.indexArray(node, left.Elements, index)

	case *Tuple:
		return i.indexArray(node, left.Elements, index)

	case *String:
		idx, ok := index.(*Integer)
		if !ok {
			// string[range] slices
			if r, ok := index.(*Range); ok {
				return i.sliceString(node, left, r)
			}
			return newErrorWithPos(rerrors.ErrNotIndexable, node.Token, map[string]any{
				"Got": "STRING", "IndexType": string(index.Type()),
			})
		}
		runes := []rune(left.Value)
		n := normalizeIndex(idx.Value, len(runes))
		if n < 0 {
			return newErrorWithPos(rerrors.ErrIndexOutOfBounds, node.Token, map[string]any{
				"Index": idx.Value, "Length": len(runes),
			})
		}
		return &Char{Value: runes[n]}

	case *HashMap:
		key, ok := index.(Hashable)
		if !ok {
			return newErrorWithPos(rerrors.ErrNotIndexable, node.Token, map[string]any{
				"Got": "HASHMAP", "IndexType": string(index.Type()),
			})
		}
		if pair, ok := left.Pairs[key.HashKey()]; ok {
			return pair.Value
		}
		return NULL
	}

	return newErrorWithPos(rerrors.ErrNotIndexable, node.Token, map[string]any{
		"Got": string(left.Type()), "IndexType": string(index.Type()),
	})
}

func (i *Interpreter) indexArray(node *ast.IndexExpression, elements []Object, index Object) Object {
	switch index := index.(type) {
	case *Integer:
		n := normalizeIndex(index.Value, len(elements))
		if n < 0 {
			return newErrorWithPos(rerrors.ErrIndexOutOfBounds, node.Token, map[string]any{
				"Index": index.Value, "Length": len(elements),
			})
		}
		return elements[n]
	case *Range:
		lo, hi, ok := sliceBounds(index, len(elements))
		if !ok {
			return newErrorWithPos(rerrors.ErrIndexOutOfBounds, node.Token, map[string]any{
				"Index": index.Inspect(), "Length": len(elements),
			})
		}
		slice := make([]Object, hi-lo)
		copy(slice, elements[lo:hi])
		return &Array{Elements: slice}
	}
	return newErrorWithPos(rerrors.ErrNotIndexable, node.Token, map[string]any{
		"Got": "ARRAY", "IndexType": string(index.Type()),
	})
}

func (i *Interpreter) sliceString(node *ast.IndexExpression, s *String, r *Range) Object {
	runes := []rune(s.Value)
	lo, hi, ok := sliceBounds(r, len(runes))
	if !ok {
		return newErrorWithPos(rerrors.ErrIndexOutOfBounds, node.Token, map[string]any{
			"Index": r.Inspect(), "Length": len(runes),
		})
	}
	return &String{Value: string(runes[lo:hi])}
}

// normalizeIndex supports negative indexing from the end; returns -1 when
// out of bounds
func normalizeIndex(idx int64, length int) int64 {
	if idx < 0 {
		idx += int64(length)
	}
	if idx < 0 || idx >= int64(length) {
		return -1
	}
	return idx
}

func sliceBounds(r *Range, length int) (lo, hi int64, ok bool) {
	lo, hi = r.Start, r.End
	if r.Inclusive {
		hi++
	}
	if lo < 0 {
		lo += int64(length)
	}
	if hi < 0 {
		hi += int64(length)
	}
	if lo < 0 || hi < lo || hi > int64(length) {
		return 0, 0, false
	}
	return lo, hi, true
}

func (i *Interpreter) evalFieldAccess(node *ast.FieldAccessExpression, env *Environment) Object {
	object := i.Eval(node.Object, env)
	if isControl(object) {
		return object
	}

	if node.Optional {
		if object == NULL {
			return NULL
		}
		if variant, ok := object.(*EnumVariantValue); ok && IsOption(variant) {
			if variant.Variant == "None" {
				return None()
			}
			if len(variant.Values) == 1 {
				object = variant.Values[0]
			}
		}
	}

	switch object := object.(type) {
	case *StructInstance:
		if value, ok := object.Fields[node.Field]; ok {
			return value
		}
		if method, ok := object.Def.Methods[node.Field]; ok {
			return bindMethod(method, object)
		}

	case *ActorInstance:
		if value, ok := object.State[node.Field]; ok {
			return value
		}

	case *Tuple:
		// tuple.0 positional access
		if idx, ok := tupleIndex(node.Field); ok {
			if idx < len(object.Elements) {
				return object.Elements[idx]
			}
			return newErrorWithPos(rerrors.ErrIndexOutOfBounds, node.Token, map[string]any{
				"Index": idx, "Length": len(object.Elements),
			})
		}

	case *HashMap:
		key := &String{Value: node.Field}
		if pair, ok := object.Pairs[key.HashKey()]; ok {
			return pair.Value
		}
		if node.Optional {
			return NULL
		}
	}

	err := rerrors.NewWithPosition(rerrors.ErrUnboundVariable, node.Token.Line, node.Token.Column, map[string]any{
		"Name": node.Field,
	})
	err.Hints = append(err.Hints, "no field or method '"+node.Field+"' on "+strings.ToLower(string(object.Type())))
	return &Error{Err: err}
}

func tupleIndex(field string) (int, bool) {
	n := 0
	for _, r := range field {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int(r-'0')
	}
	return n, field != ""
}

// bindMethod clones a method with the receiver attached as self
func bindMethod(method *Function, receiver Object) *Function {
	bound := *method
	bound.Self = receiver
	return &bound
}

// evalCommandLiteral runs a backtick shell command and yields its stdout
func (i *Interpreter) evalCommandLiteral(node *ast.CommandLiteral, env *Environment) Object {
	cmd := exec.Command("sh", "-c", node.Command)
	out, err := cmd.Output()
	if err != nil {
		return &Error{Err: rerrors.Newf(rerrors.ClassIO, "command failed: %v", err)}
	}
	return &String{Value: strings.TrimRight(string(out), "\n")}
}
