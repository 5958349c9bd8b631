package interpreter

import (
	"fmt"
	"math"

	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

// noToken is passed where an error position is unavailable
var noToken lexer.Token

// builtins are globally visible native functions. Identifier lookup
// falls through to this table, so a user binding shadows a builtin.
var builtins map[string]*Builtin

func init() {
	builtins = map[string]*Builtin{
		"println": {Name: "println", Fn: builtinPrintln},
		"print":   {Name: "print", Fn: builtinPrint},
		"len":     {Name: "len", Fn: builtinLen},
		"type_of": {Name: "type_of", Fn: builtinTypeOf},
		"str":     {Name: "str", Fn: builtinStr},
		"int":     {Name: "int", Fn: builtinInt},
		"float":   {Name: "float", Fn: builtinFloat},
		"abs":     {Name: "abs", Fn: builtinAbs},
		"min":     {Name: "min", Fn: builtinMin},
		"max":     {Name: "max", Fn: builtinMax},
		"sqrt":    {Name: "sqrt", Fn: builtinSqrt},
		"pow":     {Name: "pow", Fn: builtinPow},
		"floor":   {Name: "floor", Fn: builtinFloor},
		"ceil":    {Name: "ceil", Fn: builtinCeil},
		"round":   {Name: "round", Fn: builtinRound},
		"assert":  {Name: "assert", Fn: builtinAssert},
		"Some":    {Name: "Some", Fn: builtinSome},
		"HashMap": {Name: "HashMap", Fn: builtinHashMap},
		"HashSet": {Name: "HashSet", Fn: builtinHashSet},

		"sin":   {Name: "sin", Fn: builtinSin},
		"cos":   {Name: "cos", Fn: builtinCos},
		"tan":   {Name: "tan", Fn: builtinTan},
		"log":   {Name: "log", Fn: builtinLog},
		"log10": {Name: "log10", Fn: builtinLog10},
		"exp":   {Name: "exp", Fn: builtinExp},

		"range":     {Name: "range", Fn: builtinRange},
		"sorted":    {Name: "sorted", Fn: builtinSorted},
		"reversed":  {Name: "reversed", Fn: builtinReversed},
		"enumerate": {Name: "enumerate", Fn: builtinEnumerate},
		"zip":       {Name: "zip", Fn: builtinZip},
		"take":      {Name: "take", Fn: builtinTake},
		"drop":      {Name: "drop", Fn: builtinDrop},

		"bool":      {Name: "bool", Fn: builtinBool},
		"is_nil":    {Name: "is_nil", Fn: builtinIsNil},
		"is_int":    {Name: "is_int", Fn: builtinIsInt},
		"is_float":  {Name: "is_float", Fn: builtinIsFloat},
		"is_string": {Name: "is_string", Fn: builtinIsString},
		"is_bool":   {Name: "is_bool", Fn: builtinIsBool},
		"is_array":  {Name: "is_array", Fn: builtinIsArray},
		"is_fn":     {Name: "is_fn", Fn: builtinIsFn},
		"hash":      {Name: "hash", Fn: builtinHash},
		"random":    {Name: "random", Fn: builtinRandom},
		"dbg":       {Name: "dbg", Fn: builtinDbg},
		"assert_eq": {Name: "assert_eq", Fn: builtinAssertEq},

		"path_join":           {Name: "path_join", Fn: builtinPathJoin},
		"path_parent":         {Name: "path_parent", Fn: builtinPathParent},
		"path_file_name":      {Name: "path_file_name", Fn: builtinPathFileName},
		"path_file_stem":      {Name: "path_file_stem", Fn: builtinPathFileStem},
		"path_extension":      {Name: "path_extension", Fn: builtinPathExtension},
		"path_is_absolute":    {Name: "path_is_absolute", Fn: builtinPathIsAbsolute},
		"path_is_relative":    {Name: "path_is_relative", Fn: builtinPathIsRelative},
		"path_canonicalize":   {Name: "path_canonicalize", Fn: builtinPathCanonicalize},
		"path_with_extension": {Name: "path_with_extension", Fn: builtinPathWithExtension},
		"path_with_file_name": {Name: "path_with_file_name", Fn: builtinPathWithFileName},
		"path_components":     {Name: "path_components", Fn: builtinPathComponents},
		"path_normalize":      {Name: "path_normalize", Fn: builtinPathNormalize},

		"read_file":  {Name: "read_file", Fn: builtinReadFile},
		"write_file": {Name: "write_file", Fn: builtinWriteFile},
		"input":      {Name: "input", Fn: builtinInput},

		"sleep":      {Name: "sleep", Fn: builtinSleep},
		"timestamp":  {Name: "timestamp", Fn: builtinTimestamp},
		"parse_time": {Name: "parse_time", Fn: builtinParseTime},
	}
}

func builtinArityError(name string, expected, got int) Object {
	return newError(rerrors.ErrWrongArity, map[string]any{
		"Expected": fmt.Sprintf("%d (%s)", expected, name), "Got": got,
	})
}

func builtinPrintln(i *Interpreter, args ...Object) Object {
	parts := make([]any, len(args))
	for idx, arg := range args {
		parts[idx] = arg.Inspect()
	}
	fmt.Fprintln(i.out, parts...)
	return UNIT
}

func builtinPrint(i *Interpreter, args ...Object) Object {
	parts := make([]any, len(args))
	for idx, arg := range args {
		parts[idx] = arg.Inspect()
	}
	fmt.Fprint(i.out, parts...)
	return UNIT
}

func builtinLen(i *Interpreter, args ...Object) Object {
	if len(args) != 1 {
		return builtinArityError("len", 1, len(args))
	}
	switch arg := args[0].(type) {
	case *String:
		return &Integer{Value: int64(len([]rune(arg.Value)))}
	case *Array:
		return &Integer{Value: int64(len(arg.Elements))}
	case *Tuple:
		return &Integer{Value: int64(len(arg.Elements))}
	case *HashMap:
		return &Integer{Value: int64(len(arg.Pairs))}
	case *HashSet:
		return &Integer{Value: int64(len(arg.Elements))}
	case *Range:
		return &Integer{Value: arg.Len()}
	}
	return newError(rerrors.ErrTypeMismatch, map[string]any{
		"Function": "len", "Expected": "a collection", "Got": string(args[0].Type()),
	})
}

func builtinTypeOf(i *Interpreter, args ...Object) Object {
	if len(args) != 1 {
		return builtinArityError("type_of", 1, len(args))
	}
	return &String{Value: typeName(args[0])}
}

func builtinStr(i *Interpreter, args ...Object) Object {
	if len(args) != 1 {
		return builtinArityError("str", 1, len(args))
	}
	return &String{Value: args[0].Inspect()}
}

func builtinInt(i *Interpreter, args ...Object) Object {
	if len(args) != 1 {
		return builtinArityError("int", 1, len(args))
	}
	switch arg := args[0].(type) {
	case *Integer:
		return arg
	case *Float:
		return &Integer{Value: int64(arg.Value)}
	case *Boolean:
		if arg.Value {
			return &Integer{Value: 1}
		}
		return &Integer{Value: 0}
	case *Char:
		return &Integer{Value: int64(arg.Value)}
	case *Byte:
		return &Integer{Value: int64(arg.Value)}
	case *String:
		return i.stringMethod(noToken, arg, "to_i", nil)
	}
	return newError(rerrors.ErrTypeMismatch, map[string]any{
		"Function": "int", "Expected": "a number, bool, char, or string", "Got": string(args[0].Type()),
	})
}

func builtinFloat(i *Interpreter, args ...Object) Object {
	if len(args) != 1 {
		return builtinArityError("float", 1, len(args))
	}
	switch arg := args[0].(type) {
	case *Integer:
		return &Float{Value: float64(arg.Value)}
	case *Float:
		return arg
	case *String:
		return i.stringMethod(noToken, arg, "to_f", nil)
	}
	return newError(rerrors.ErrTypeMismatch, map[string]any{
		"Function": "float", "Expected": "a number or string", "Got": string(args[0].Type()),
	})
}

func builtinAbs(i *Interpreter, args ...Object) Object {
	if len(args) != 1 {
		return builtinArityError("abs", 1, len(args))
	}
	switch arg := args[0].(type) {
	case *Integer:
		if arg.Value < 0 {
			return &Integer{Value: -arg.Value}
		}
		return arg
	case *Float:
		return &Float{Value: math.Abs(arg.Value)}
	}
	return newError(rerrors.ErrTypeMismatch, map[string]any{
		"Function": "abs", "Expected": "a number", "Got": string(args[0].Type()),
	})
}

func builtinMin(i *Interpreter, args ...Object) Object {
	if len(args) == 1 {
		if array, ok := args[0].(*Array); ok {
			return minMaxObjects(noToken, array.Elements, true)
		}
	}
	if len(args) < 2 {
		return builtinArityError("min", 2, len(args))
	}
	return minMaxStrict(args, true)
}

func builtinMax(i *Interpreter, args ...Object) Object {
	if len(args) == 1 {
		if array, ok := args[0].(*Array); ok {
			return minMaxObjects(noToken, array.Elements, false)
		}
	}
	if len(args) < 2 {
		return builtinArityError("max", 2, len(args))
	}
	return minMaxStrict(args, false)
}

// minMaxStrict is min/max over explicit arguments, yielding the value
// directly rather than an Option
func minMaxStrict(args []Object, wantMin bool) Object {
	best := args[0]
	for _, arg := range args[1:] {
		if objectLess(arg, best) == wantMin {
			best = arg
		}
	}
	return best
}

func builtinSqrt(i *Interpreter, args ...Object) Object {
	if len(args) != 1 {
		return builtinArityError("sqrt", 1, len(args))
	}
	if !isNumeric(args[0]) {
		return newError(rerrors.ErrTypeMismatch, map[string]any{
			"Function": "sqrt", "Expected": "a number", "Got": string(args[0].Type()),
		})
	}
	return &Float{Value: math.Sqrt(toFloat(args[0]))}
}

func builtinPow(i *Interpreter, args ...Object) Object {
	if len(args) != 2 {
		return builtinArityError("pow", 2, len(args))
	}
	base, ok1 := args[0].(*Integer)
	exp, ok2 := args[1].(*Integer)
	if ok1 && ok2 && exp.Value >= 0 {
		return &Integer{Value: intPow(base.Value, exp.Value)}
	}
	if !isNumeric(args[0]) || !isNumeric(args[1]) {
		return newError(rerrors.ErrTypeMismatch, map[string]any{
			"Function": "pow", "Expected": "numbers", "Got": string(args[0].Type()),
		})
	}
	return &Float{Value: math.Pow(toFloat(args[0]), toFloat(args[1]))}
}

func builtinFloor(i *Interpreter, args ...Object) Object {
	if len(args) != 1 || !isNumeric(args[0]) {
		return builtinArityError("floor", 1, len(args))
	}
	return &Float{Value: math.Floor(toFloat(args[0]))}
}

func builtinCeil(i *Interpreter, args ...Object) Object {
	if len(args) != 1 || !isNumeric(args[0]) {
		return builtinArityError("ceil", 1, len(args))
	}
	return &Float{Value: math.Ceil(toFloat(args[0]))}
}

func builtinRound(i *Interpreter, args ...Object) Object {
	if len(args) != 1 || !isNumeric(args[0]) {
		return builtinArityError("round", 1, len(args))
	}
	return &Float{Value: math.Round(toFloat(args[0]))}
}

func builtinAssert(i *Interpreter, args ...Object) Object {
	if len(args) < 1 || len(args) > 2 {
		return builtinArityError("assert", 1, len(args))
	}
	if isTruthy(args[0]) {
		return UNIT
	}
	message := "assertion failed"
	if len(args) == 2 {
		if s, ok := args[1].(*String); ok {
			message = s.Value
		}
	}
	return &Thrown{Value: &String{Value: message}}
}

func builtinSome(i *Interpreter, args ...Object) Object {
	if len(args) != 1 {
		return builtinArityError("Some", 1, len(args))
	}
	return Some(args[0])
}

func builtinHashMap(i *Interpreter, args ...Object) Object {
	hash := NewHashMap()
	// HashMap(("a", 1), ("b", 2)) seeds from key-value tuples
	for _, arg := range args {
		pair, ok := arg.(*Tuple)
		if !ok || len(pair.Elements) != 2 {
			return newError(rerrors.ErrTypeMismatch, map[string]any{
				"Function": "HashMap", "Expected": "(key, value) tuples", "Got": string(arg.Type()),
			})
		}
		key, ok := pair.Elements[0].(Hashable)
		if !ok {
			return newError(rerrors.ErrTypeMismatch, map[string]any{
				"Function": "HashMap", "Expected": "a hashable key", "Got": string(pair.Elements[0].Type()),
			})
		}
		hash.Pairs[key.HashKey()] = HashPair{Key: pair.Elements[0], Value: pair.Elements[1]}
	}
	return hash
}

func builtinHashSet(i *Interpreter, args ...Object) Object {
	set := NewHashSet()
	for _, arg := range args {
		key, ok := arg.(Hashable)
		if !ok {
			return newError(rerrors.ErrTypeMismatch, map[string]any{
				"Function": "HashSet", "Expected": "hashable values", "Got": string(arg.Type()),
			})
		}
		set.Elements[key.HashKey()] = arg
	}
	return set
}
