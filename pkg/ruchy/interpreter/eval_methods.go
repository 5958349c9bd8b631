package interpreter

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

func (i *Interpreter) evalMethodCallExpression(node *ast.MethodCallExpression, env *Environment) Object {
	receiver := i.Eval(node.Receiver, env)
	if isControl(receiver) {
		return receiver
	}

	args, errObj := i.evalArguments(node.Arguments, env)
	if errObj != nil {
		return errObj
	}

	return i.callMethod(node.Token, receiver, node.Method, args)
}

func (i *Interpreter) callMethod(tok lexer.Token, receiver Object, method string, args []Object) Object {
	// universal methods first
	switch method {
	case "to_string":
		if len(args) == 0 {
			return &String{Value: receiver.Inspect()}
		}
	case "type_of":
		if len(args) == 0 {
			return &String{Value: typeName(receiver)}
		}
	}

	switch receiver := receiver.(type) {
	case *Integer:
		return i.integerMethod(tok, receiver, method, args)
	case *Float:
		return i.floatMethod(tok, receiver, method, args)
	case *String:
		return i.stringMethod(tok, receiver, method, args)
	case *Char:
		return i.charMethod(tok, receiver, method, args)
	case *Array:
		return i.arrayMethod(tok, receiver, method, args)
	case *Tuple:
		if method == "len" && len(args) == 0 {
			return &Integer{Value: int64(len(receiver.Elements))}
		}
	case *Range:
		return i.rangeMethod(tok, receiver, method, args)
	case *HashMap:
		return i.hashMapMethod(tok, receiver, method, args)
	case *HashSet:
		return i.hashSetMethod(tok, receiver, method, args)
	case *EnumVariantValue:
		return i.enumMethod(tok, receiver, method, args)
	case *StructInstance:
		if fn, ok := receiver.Def.Methods[method]; ok {
			return i.applyFunction(tok, bindMethod(fn, receiver), args)
		}
		// field holding a function is callable as a method
		if value, ok := receiver.Fields[method]; ok {
			return i.applyCallable(tok, value, args)
		}
	case *Future:
		return i.callMethod(tok, receiver.Value, method, args)
	case *DataFrame:
		return i.dataFrameMethod(tok, receiver, method, args)
	}

	return unknownMethod(tok, receiver, method)
}

func unknownMethod(tok lexer.Token, receiver Object, method string) Object {
	err := rerrors.NewWithPosition(rerrors.ErrUnboundVariable, tok.Line, tok.Column, map[string]any{
		"Name": method,
	})
	err.Hints = append(err.Hints, "no method '"+method+"' on "+strings.ToLower(string(receiver.Type())))
	return &Error{Err: err}
}

func arityError(tok lexer.Token, expected, got int) Object {
	return newErrorWithPos(rerrors.ErrWrongArity, tok, map[string]any{
		"Expected": expected, "Got": got,
	})
}

func typeName(obj Object) string {
	switch obj := obj.(type) {
	case *Integer:
		return "i32"
	case *Float:
		return "f64"
	case *Boolean:
		return "bool"
	case *String:
		return "String"
	case *Char:
		return "char"
	case *Byte:
		return "u8"
	case *Unit:
		return "()"
	case *Null:
		return "null"
	case *Array:
		return "Array"
	case *Tuple:
		return "Tuple"
	case *HashMap:
		return "HashMap"
	case *HashSet:
		return "HashSet"
	case *Range:
		return "Range"
	case *Function, *Builtin:
		return "Function"
	case *StructInstance:
		return obj.Def.Name
	case *EnumVariantValue:
		return obj.Enum.Name
	case *ActorInstance:
		return obj.Def.Name
	case *DataFrame:
		return "DataFrame"
	case *Future:
		return "Future"
	}
	return strings.ToLower(string(obj.Type()))
}

func (i *Interpreter) integerMethod(tok lexer.Token, n *Integer, method string, args []Object) Object {
	switch method {
	case "abs":
		if n.Value < 0 {
			return &Integer{Value: -n.Value}
		}
		return n
	case "to_f", "to_float":
		return &Float{Value: float64(n.Value)}
	case "to_i", "to_int":
		return n
	case "sqrt":
		return &Float{Value: math.Sqrt(float64(n.Value))}
	case "pow":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		switch exp := args[0].(type) {
		case *Integer:
			return &Integer{Value: intPow(n.Value, exp.Value)}
		case *Float:
			return &Float{Value: math.Pow(float64(n.Value), exp.Value)}
		}
	case "min":
		if len(args) == 1 {
			if other, ok := args[0].(*Integer); ok {
				if other.Value < n.Value {
					return other
				}
				return n
			}
		}
	case "max":
		if len(args) == 1 {
			if other, ok := args[0].(*Integer); ok {
				if other.Value > n.Value {
					return other
				}
				return n
			}
		}
	}
	return unknownMethod(tok, n, method)
}

func (i *Interpreter) floatMethod(tok lexer.Token, f *Float, method string, args []Object) Object {
	switch method {
	case "abs":
		return &Float{Value: math.Abs(f.Value)}
	case "sqrt":
		return &Float{Value: math.Sqrt(f.Value)}
	case "floor":
		return &Float{Value: math.Floor(f.Value)}
	case "ceil":
		return &Float{Value: math.Ceil(f.Value)}
	case "round":
		return &Float{Value: math.Round(f.Value)}
	case "to_i", "to_int":
		return &Integer{Value: int64(f.Value)}
	case "to_f", "to_float":
		return f
	case "pow":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		return &Float{Value: math.Pow(f.Value, toFloat(args[0]))}
	}
	return unknownMethod(tok, f, method)
}

func (i *Interpreter) stringMethod(tok lexer.Token, s *String, method string, args []Object) Object {
	switch method {
	case "len", "length":
		return &Integer{Value: int64(len([]rune(s.Value)))}
	case "to_upper", "to_uppercase", "upper":
		return &String{Value: strings.ToUpper(s.Value)}
	case "to_lower", "to_lowercase", "lower":
		return &String{Value: strings.ToLower(s.Value)}
	case "trim":
		return &String{Value: strings.TrimSpace(s.Value)}
	case "trim_start":
		return &String{Value: strings.TrimLeft(s.Value, " \t\n\r")}
	case "trim_end":
		return &String{Value: strings.TrimRight(s.Value, " \t\n\r")}
	case "is_empty":
		return nativeBoolToBooleanObject(s.Value == "")
	case "chars":
		runes := []rune(s.Value)
		elements := make([]Object, len(runes))
		for idx, r := range runes {
			elements[idx] = &Char{Value: r}
		}
		return &Array{Elements: elements}
	case "bytes":
		elements := make([]Object, len(s.Value))
		for idx := 0; idx < len(s.Value); idx++ {
			elements[idx] = &Byte{Value: s.Value[idx]}
		}
		return &Array{Elements: elements}
	case "lines":
		var elements []Object
		for _, line := range strings.Split(strings.TrimRight(s.Value, "\n"), "\n") {
			elements = append(elements, &String{Value: line})
		}
		return &Array{Elements: elements}
	case "reverse", "rev":
		runes := []rune(s.Value)
		for a, b := 0, len(runes)-1; a < b; a, b = a+1, b-1 {
			runes[a], runes[b] = runes[b], runes[a]
		}
		return &String{Value: string(runes)}
	case "contains":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		switch needle := args[0].(type) {
		case *String:
			return nativeBoolToBooleanObject(strings.Contains(s.Value, needle.Value))
		case *Char:
			return nativeBoolToBooleanObject(strings.ContainsRune(s.Value, needle.Value))
		}
	case "starts_with":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		if prefix, ok := args[0].(*String); ok {
			return nativeBoolToBooleanObject(strings.HasPrefix(s.Value, prefix.Value))
		}
	case "ends_with":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		if suffix, ok := args[0].(*String); ok {
			return nativeBoolToBooleanObject(strings.HasSuffix(s.Value, suffix.Value))
		}
	case "index_of", "find":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		if needle, ok := args[0].(*String); ok {
			idx := strings.Index(s.Value, needle.Value)
			if idx < 0 {
				return None()
			}
			return Some(&Integer{Value: int64(len([]rune(s.Value[:idx])))})
		}
	case "replace":
		if len(args) != 2 {
			return arityError(tok, 2, len(args))
		}
		from, ok1 := args[0].(*String)
		to, ok2 := args[1].(*String)
		if ok1 && ok2 {
			return &String{Value: strings.ReplaceAll(s.Value, from.Value, to.Value)}
		}
	case "split":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		if sep, ok := args[0].(*String); ok {
			var elements []Object
			for _, part := range strings.Split(s.Value, sep.Value) {
				elements = append(elements, &String{Value: part})
			}
			return &Array{Elements: elements}
		}
	case "repeat":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		if n, ok := args[0].(*Integer); ok && n.Value >= 0 {
			if errObj := i.trackAlloc(int64(len(s.Value)) * n.Value); errObj != nil {
				return errObj
			}
			return &String{Value: strings.Repeat(s.Value, int(n.Value))}
		}
	case "parse", "to_i", "to_int":
		n, err := strconv.ParseInt(strings.TrimSpace(s.Value), 10, 64)
		if err != nil {
			if method == "parse" {
				return None()
			}
			return newErrorWithPos(rerrors.ErrInvalidNumber, tok, map[string]any{
				"Literal": s.Value,
			})
		}
		if method == "parse" {
			return Some(&Integer{Value: n})
		}
		return &Integer{Value: n}
	case "to_f", "to_float":
		f, err := strconv.ParseFloat(strings.TrimSpace(s.Value), 64)
		if err != nil {
			return newErrorWithPos(rerrors.ErrInvalidNumber, tok, map[string]any{
				"Literal": s.Value,
			})
		}
		return &Float{Value: f}
	}
	return unknownMethod(tok, s, method)
}

func (i *Interpreter) charMethod(tok lexer.Token, c *Char, method string, args []Object) Object {
	switch method {
	case "to_upper", "to_uppercase":
		return &Char{Value: []rune(strings.ToUpper(string(c.Value)))[0]}
	case "to_lower", "to_lowercase":
		return &Char{Value: []rune(strings.ToLower(string(c.Value)))[0]}
	case "is_digit":
		return nativeBoolToBooleanObject(c.Value >= '0' && c.Value <= '9')
	case "is_alpha", "is_alphabetic":
		return nativeBoolToBooleanObject((c.Value >= 'a' && c.Value <= 'z') || (c.Value >= 'A' && c.Value <= 'Z'))
	case "is_whitespace":
		return nativeBoolToBooleanObject(c.Value == ' ' || c.Value == '\t' || c.Value == '\n' || c.Value == '\r')
	case "to_i", "to_int":
		return &Integer{Value: int64(c.Value)}
	}
	return unknownMethod(tok, c, method)
}

func (i *Interpreter) arrayMethod(tok lexer.Token, array *Array, method string, args []Object) Object {
	switch method {
	case "len", "length":
		return &Integer{Value: int64(len(array.Elements))}
	case "is_empty":
		return nativeBoolToBooleanObject(len(array.Elements) == 0)
	case "push", "append":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		if errObj := i.trackAlloc(1); errObj != nil {
			return errObj
		}
		array.Elements = append(array.Elements, args[0])
		return UNIT
	case "pop":
		if len(array.Elements) == 0 {
			return None()
		}
		last := array.Elements[len(array.Elements)-1]
		array.Elements = array.Elements[:len(array.Elements)-1]
		return Some(last)
	case "insert":
		if len(args) != 2 {
			return arityError(tok, 2, len(args))
		}
		idx, ok := args[0].(*Integer)
		if !ok || idx.Value < 0 || idx.Value > int64(len(array.Elements)) {
			return newErrorWithPos(rerrors.ErrIndexOutOfBounds, tok, map[string]any{
				"Index": args[0].Inspect(), "Length": len(array.Elements),
			})
		}
		array.Elements = append(array.Elements, nil)
		copy(array.Elements[idx.Value+1:], array.Elements[idx.Value:])
		array.Elements[idx.Value] = args[1]
		return UNIT
	case "remove":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		idx, ok := args[0].(*Integer)
		if !ok || idx.Value < 0 || idx.Value >= int64(len(array.Elements)) {
			return newErrorWithPos(rerrors.ErrIndexOutOfBounds, tok, map[string]any{
				"Index": args[0].Inspect(), "Length": len(array.Elements),
			})
		}
		removed := array.Elements[idx.Value]
		array.Elements = append(array.Elements[:idx.Value], array.Elements[idx.Value+1:]...)
		return removed
	case "first", "head":
		if len(array.Elements) == 0 {
			return None()
		}
		return Some(array.Elements[0])
	case "last":
		if len(array.Elements) == 0 {
			return None()
		}
		return Some(array.Elements[len(array.Elements)-1])
	case "contains":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		for _, element := range array.Elements {
			if objectEquals(element, args[0]) {
				return TRUE
			}
		}
		return FALSE
	case "index_of":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		for idx, element := range array.Elements {
			if objectEquals(element, args[0]) {
				return Some(&Integer{Value: int64(idx)})
			}
		}
		return None()
	case "reverse", "rev":
		reversed := make([]Object, len(array.Elements))
		for idx, element := range array.Elements {
			reversed[len(array.Elements)-1-idx] = element
		}
		return &Array{Elements: reversed}
	case "concat":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		if other, ok := args[0].(*Array); ok {
			joined := make([]Object, 0, len(array.Elements)+len(other.Elements))
			joined = append(joined, array.Elements...)
			joined = append(joined, other.Elements...)
			return &Array{Elements: joined}
		}
	case "join":
		sep := ", "
		if len(args) == 1 {
			if s, ok := args[0].(*String); ok {
				sep = s.Value
			}
		}
		parts := make([]string, len(array.Elements))
		for idx, element := range array.Elements {
			parts[idx] = element.Inspect()
		}
		return &String{Value: strings.Join(parts, sep)}
	case "sum":
		return sumObjects(tok, array.Elements)
	case "min":
		return minMaxObjects(tok, array.Elements, true)
	case "max":
		return minMaxObjects(tok, array.Elements, false)
	case "sort", "sorted":
		sorted := make([]Object, len(array.Elements))
		copy(sorted, array.Elements)
		sort.SliceStable(sorted, func(a, b int) bool {
			return objectLess(sorted[a], sorted[b])
		})
		return &Array{Elements: sorted}
	case "unique", "dedup":
		seen := make(map[HashKey]bool)
		var unique []Object
		for _, element := range array.Elements {
			hashable, ok := element.(Hashable)
			if !ok {
				unique = append(unique, element)
				continue
			}
			key := hashable.HashKey()
			if !seen[key] {
				seen[key] = true
				unique = append(unique, element)
			}
		}
		return &Array{Elements: unique}
	case "to_set":
		set := NewHashSet()
		for _, element := range array.Elements {
			hashable, ok := element.(Hashable)
			if !ok {
				return newErrorWithPos(rerrors.ErrNotIndexable, tok, map[string]any{
					"Got": "HASHSET", "IndexType": string(element.Type()),
				})
			}
			set.Elements[hashable.HashKey()] = element
		}
		return set
	case "enumerate":
		pairs := make([]Object, len(array.Elements))
		for idx, element := range array.Elements {
			pairs[idx] = &Tuple{Elements: []Object{&Integer{Value: int64(idx)}, element}}
		}
		return &Array{Elements: pairs}
	case "zip":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		if other, ok := args[0].(*Array); ok {
			n := len(array.Elements)
			if len(other.Elements) < n {
				n = len(other.Elements)
			}
			pairs := make([]Object, n)
			for idx := 0; idx < n; idx++ {
				pairs[idx] = &Tuple{Elements: []Object{array.Elements[idx], other.Elements[idx]}}
			}
			return &Array{Elements: pairs}
		}
	case "take":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		if n, ok := args[0].(*Integer); ok {
			count := n.Value
			if count > int64(len(array.Elements)) {
				count = int64(len(array.Elements))
			}
			if count < 0 {
				count = 0
			}
			taken := make([]Object, count)
			copy(taken, array.Elements[:count])
			return &Array{Elements: taken}
		}
	case "skip", "drop":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		if n, ok := args[0].(*Integer); ok {
			start := n.Value
			if start > int64(len(array.Elements)) {
				start = int64(len(array.Elements))
			}
			if start < 0 {
				start = 0
			}
			rest := make([]Object, int64(len(array.Elements))-start)
			copy(rest, array.Elements[start:])
			return &Array{Elements: rest}
		}
	case "map":
		return i.arrayMap(tok, array.Elements, args)
	case "filter":
		return i.arrayFilter(tok, array.Elements, args)
	case "find":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		for _, element := range array.Elements {
			result := i.applyCallable(tok, args[0], []Object{element})
			if isControl(result) {
				return result
			}
			if isTruthy(result) {
				return Some(element)
			}
		}
		return None()
	case "reduce", "fold":
		return i.arrayReduce(tok, array.Elements, args)
	case "any":
		return i.arrayAnyAll(tok, array.Elements, args, true)
	case "all":
		return i.arrayAnyAll(tok, array.Elements, args, false)
	case "each", "for_each":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		for _, element := range array.Elements {
			result := i.applyCallable(tok, args[0], []Object{element})
			if isControl(result) {
				return result
			}
		}
		return UNIT
	case "flat_map":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		var flattened []Object
		for _, element := range array.Elements {
			result := i.applyCallable(tok, args[0], []Object{element})
			if isControl(result) {
				return result
			}
			if inner, ok := result.(*Array); ok {
				flattened = append(flattened, inner.Elements...)
			} else {
				flattened = append(flattened, result)
			}
		}
		return &Array{Elements: flattened}
	case "to_array", "collect":
		return array
	}
	return unknownMethod(tok, array, method)
}

func (i *Interpreter) arrayMap(tok lexer.Token, elements []Object, args []Object) Object {
	if len(args) != 1 {
		return arityError(tok, 1, len(args))
	}
	if errObj := i.trackAlloc(int64(len(elements))); errObj != nil {
		return errObj
	}
	mapped := make([]Object, len(elements))
	for idx, element := range elements {
		result := i.applyCallable(tok, args[0], []Object{element})
		if isControl(result) {
			return result
		}
		mapped[idx] = result
	}
	return &Array{Elements: mapped}
}

func (i *Interpreter) arrayFilter(tok lexer.Token, elements []Object, args []Object) Object {
	if len(args) != 1 {
		return arityError(tok, 1, len(args))
	}
	var kept []Object
	for _, element := range elements {
		result := i.applyCallable(tok, args[0], []Object{element})
		if isControl(result) {
			return result
		}
		if isTruthy(result) {
			kept = append(kept, element)
		}
	}
	return &Array{Elements: kept}
}

func (i *Interpreter) arrayReduce(tok lexer.Token, elements []Object, args []Object) Object {
	var acc Object
	var fn Object
	switch len(args) {
	case 1:
		// reduce(f) seeds with the first element
		if len(elements) == 0 {
			return None()
		}
		acc, fn = elements[0], args[0]
		elements = elements[1:]
	case 2:
		acc, fn = args[0], args[1]
	default:
		return arityError(tok, 2, len(args))
	}

	for _, element := range elements {
		result := i.applyCallable(tok, fn, []Object{acc, element})
		if isControl(result) {
			return result
		}
		acc = result
	}
	return acc
}

func (i *Interpreter) arrayAnyAll(tok lexer.Token, elements []Object, args []Object, any bool) Object {
	if len(args) != 1 {
		return arityError(tok, 1, len(args))
	}
	for _, element := range elements {
		result := i.applyCallable(tok, args[0], []Object{element})
		if isControl(result) {
			return result
		}
		if isTruthy(result) == any {
			return nativeBoolToBooleanObject(any)
		}
	}
	return nativeBoolToBooleanObject(!any)
}

func sumObjects(tok lexer.Token, elements []Object) Object {
	intSum := int64(0)
	floatSum := 0.0
	sawFloat := false
	for _, element := range elements {
		switch element := element.(type) {
		case *Integer:
			intSum += element.Value
		case *Float:
			sawFloat = true
			floatSum += element.Value
		default:
			return newErrorWithPos(rerrors.ErrTypeMismatch, tok, map[string]any{
				"Function": "sum", "Expected": "numbers", "Got": string(element.Type()),
			})
		}
	}
	if sawFloat {
		return &Float{Value: floatSum + float64(intSum)}
	}
	return &Integer{Value: intSum}
}

func minMaxObjects(tok lexer.Token, elements []Object, wantMin bool) Object {
	if len(elements) == 0 {
		return None()
	}
	best := elements[0]
	for _, element := range elements[1:] {
		if objectLess(element, best) == wantMin {
			best = element
		}
	}
	return Some(best)
}

// objectLess orders numbers numerically and everything else by display
// form; used by sort, min, and max
func objectLess(a, b Object) bool {
	if isNumeric(a) && isNumeric(b) {
		return toFloat(a) < toFloat(b)
	}
	if as, ok := a.(*String); ok {
		if bs, ok := b.(*String); ok {
			return as.Value < bs.Value
		}
	}
	return a.Inspect() < b.Inspect()
}

func (i *Interpreter) rangeMethod(tok lexer.Token, r *Range, method string, args []Object) Object {
	switch method {
	case "len", "length":
		return &Integer{Value: r.Len()}
	case "contains":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		if n, ok := args[0].(*Integer); ok {
			if r.Inclusive {
				return nativeBoolToBooleanObject(n.Value >= r.Start && n.Value <= r.End)
			}
			return nativeBoolToBooleanObject(n.Value >= r.Start && n.Value < r.End)
		}
		return FALSE
	}

	// the remaining methods materialize the range
	elements, errObj := i.rangeElements(r)
	if errObj != nil {
		return errObj
	}
	switch method {
	case "to_array", "collect":
		return &Array{Elements: elements}
	case "rev", "reverse":
		reversed := make([]Object, len(elements))
		for idx, element := range elements {
			reversed[len(elements)-1-idx] = element
		}
		return &Array{Elements: reversed}
	case "sum":
		return sumObjects(tok, elements)
	case "map":
		return i.arrayMap(tok, elements, args)
	case "filter":
		return i.arrayFilter(tok, elements, args)
	case "reduce", "fold":
		return i.arrayReduce(tok, elements, args)
	case "any":
		return i.arrayAnyAll(tok, elements, args, true)
	case "all":
		return i.arrayAnyAll(tok, elements, args, false)
	case "each", "for_each":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		for _, element := range elements {
			result := i.applyCallable(tok, args[0], []Object{element})
			if isControl(result) {
				return result
			}
		}
		return UNIT
	}
	return unknownMethod(tok, r, method)
}

func (i *Interpreter) rangeElements(r *Range) ([]Object, Object) {
	if errObj := i.trackAlloc(r.Len()); errObj != nil {
		return nil, errObj
	}
	elements := make([]Object, 0, r.Len())
	end := r.End
	if r.Inclusive {
		end++
	}
	for n := r.Start; n < end; n++ {
		elements = append(elements, &Integer{Value: n})
	}
	return elements, nil
}

func (i *Interpreter) hashMapMethod(tok lexer.Token, hash *HashMap, method string, args []Object) Object {
	switch method {
	case "len", "length":
		return &Integer{Value: int64(len(hash.Pairs))}
	case "is_empty":
		return nativeBoolToBooleanObject(len(hash.Pairs) == 0)
	case "get":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		key, ok := args[0].(Hashable)
		if !ok {
			return None()
		}
		if pair, ok := hash.Pairs[key.HashKey()]; ok {
			return Some(pair.Value)
		}
		return None()
	case "insert", "set":
		if len(args) != 2 {
			return arityError(tok, 2, len(args))
		}
		key, ok := args[0].(Hashable)
		if !ok {
			return newErrorWithPos(rerrors.ErrNotIndexable, tok, map[string]any{
				"Got": "HASHMAP", "IndexType": string(args[0].Type()),
			})
		}
		hash.Pairs[key.HashKey()] = HashPair{Key: args[0], Value: args[1]}
		return UNIT
	case "remove":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		key, ok := args[0].(Hashable)
		if !ok {
			return None()
		}
		if pair, ok := hash.Pairs[key.HashKey()]; ok {
			delete(hash.Pairs, key.HashKey())
			return Some(pair.Value)
		}
		return None()
	case "contains_key", "has_key", "contains":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		key, ok := args[0].(Hashable)
		if !ok {
			return FALSE
		}
		_, found := hash.Pairs[key.HashKey()]
		return nativeBoolToBooleanObject(found)
	case "keys":
		var keys []Object
		for _, key := range hash.SortedKeys() {
			keys = append(keys, hash.Pairs[key].Key)
		}
		return &Array{Elements: keys}
	case "values":
		var values []Object
		for _, key := range hash.SortedKeys() {
			values = append(values, hash.Pairs[key].Value)
		}
		return &Array{Elements: values}
	case "items", "entries":
		var items []Object
		for _, key := range hash.SortedKeys() {
			pair := hash.Pairs[key]
			items = append(items, &Tuple{Elements: []Object{pair.Key, pair.Value}})
		}
		return &Array{Elements: items}
	}
	return unknownMethod(tok, hash, method)
}

func (i *Interpreter) hashSetMethod(tok lexer.Token, set *HashSet, method string, args []Object) Object {
	switch method {
	case "len", "length":
		return &Integer{Value: int64(len(set.Elements))}
	case "is_empty":
		return nativeBoolToBooleanObject(len(set.Elements) == 0)
	case "insert", "add":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		key, ok := args[0].(Hashable)
		if !ok {
			return newErrorWithPos(rerrors.ErrNotIndexable, tok, map[string]any{
				"Got": "HASHSET", "IndexType": string(args[0].Type()),
			})
		}
		_, existed := set.Elements[key.HashKey()]
		set.Elements[key.HashKey()] = args[0]
		return nativeBoolToBooleanObject(!existed)
	case "remove":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		key, ok := args[0].(Hashable)
		if !ok {
			return FALSE
		}
		_, existed := set.Elements[key.HashKey()]
		delete(set.Elements, key.HashKey())
		return nativeBoolToBooleanObject(existed)
	case "contains", "has":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		key, ok := args[0].(Hashable)
		if !ok {
			return FALSE
		}
		_, found := set.Elements[key.HashKey()]
		return nativeBoolToBooleanObject(found)
	case "union":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		if other, ok := args[0].(*HashSet); ok {
			merged := NewHashSet()
			for key, element := range set.Elements {
				merged.Elements[key] = element
			}
			for key, element := range other.Elements {
				merged.Elements[key] = element
			}
			return merged
		}
	case "intersection":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		if other, ok := args[0].(*HashSet); ok {
			common := NewHashSet()
			for key, element := range set.Elements {
				if _, found := other.Elements[key]; found {
					common.Elements[key] = element
				}
			}
			return common
		}
	case "difference":
		if len(args) != 1 {
			return arityError(tok, 1, len(args))
		}
		if other, ok := args[0].(*HashSet); ok {
			diff := NewHashSet()
			for key, element := range set.Elements {
				if _, found := other.Elements[key]; !found {
					diff.Elements[key] = element
				}
			}
			return diff
		}
	case "to_array", "collect":
		var elements []Object
		for _, key := range set.SortedKeys() {
			elements = append(elements, set.Elements[key])
		}
		return &Array{Elements: elements}
	}
	return unknownMethod(tok, set, method)
}

func (i *Interpreter) enumMethod(tok lexer.Token, variant *EnumVariantValue, method string, args []Object) Object {
	if fn, ok := variant.Enum.Methods[method]; ok {
		return i.applyFunction(tok, bindMethod(fn, variant), args)
	}

	if IsOption(variant) {
		switch method {
		case "is_some":
			return nativeBoolToBooleanObject(variant.Variant == "Some")
		case "is_none":
			return nativeBoolToBooleanObject(variant.Variant == "None")
		case "unwrap":
			if variant.Variant == "Some" && len(variant.Values) == 1 {
				return variant.Values[0]
			}
			return &Error{Err: rerrors.Newf(rerrors.ClassRuntime, "called unwrap on None")}
		case "unwrap_or":
			if len(args) != 1 {
				return arityError(tok, 1, len(args))
			}
			if variant.Variant == "Some" && len(variant.Values) == 1 {
				return variant.Values[0]
			}
			return args[0]
		case "expect":
			if variant.Variant == "Some" && len(variant.Values) == 1 {
				return variant.Values[0]
			}
			message := "called expect on None"
			if len(args) == 1 {
				if s, ok := args[0].(*String); ok {
					message = s.Value
				}
			}
			return &Error{Err: rerrors.Newf(rerrors.ClassRuntime, "%s", message)}
		case "map":
			if len(args) != 1 {
				return arityError(tok, 1, len(args))
			}
			if variant.Variant == "Some" && len(variant.Values) == 1 {
				result := i.applyCallable(tok, args[0], []Object{variant.Values[0]})
				if isControl(result) {
					return result
				}
				return Some(result)
			}
			return None()
		}
	}
	return unknownMethod(tok, variant, method)
}

func (i *Interpreter) dataFrameMethod(tok lexer.Token, df *DataFrame, method string, args []Object) Object {
	switch method {
	case "columns":
		var names []Object
		for _, col := range df.Columns {
			names = append(names, &String{Value: col.Name})
		}
		return &Array{Elements: names}
	case "rows":
		n := 0
		for _, col := range df.Columns {
			if len(col.Values) > n {
				n = len(col.Values)
			}
		}
		return &Integer{Value: int64(n)}
	}
	return newErrorWithPos(rerrors.ErrNotImplemented, tok, map[string]any{
		"Feature": "DataFrame." + method,
	})
}
