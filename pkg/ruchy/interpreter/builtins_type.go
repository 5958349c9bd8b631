package interpreter

import (
	"hash/fnv"
	"math/rand"

	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
)

func builtinBool(i *Interpreter, args ...Object) Object {
	if len(args) != 1 {
		return builtinArityError("bool", 1, len(args))
	}
	return nativeBoolToBooleanObject(isTruthy(args[0]))
}

func typePredicate(name string, matches func(Object) bool) func(*Interpreter, ...Object) Object {
	return func(i *Interpreter, args ...Object) Object {
		if len(args) != 1 {
			return builtinArityError(name, 1, len(args))
		}
		return nativeBoolToBooleanObject(matches(args[0]))
	}
}

var (
	builtinIsNil = typePredicate("is_nil", func(obj Object) bool {
		return obj == NULL || obj == UNIT
	})
	builtinIsInt = typePredicate("is_int", func(obj Object) bool {
		_, ok := obj.(*Integer)
		return ok
	})
	builtinIsFloat = typePredicate("is_float", func(obj Object) bool {
		_, ok := obj.(*Float)
		return ok
	})
	builtinIsString = typePredicate("is_string", func(obj Object) bool {
		_, ok := obj.(*String)
		return ok
	})
	builtinIsBool = typePredicate("is_bool", func(obj Object) bool {
		_, ok := obj.(*Boolean)
		return ok
	})
	builtinIsArray = typePredicate("is_array", func(obj Object) bool {
		_, ok := obj.(*Array)
		return ok
	})
	builtinIsFn = typePredicate("is_fn", func(obj Object) bool {
		switch obj.(type) {
		case *Function, *Builtin:
			return true
		}
		return false
	})
)

// builtinHash folds a hashable value to a stable non-negative integer
func builtinHash(i *Interpreter, args ...Object) Object {
	if len(args) != 1 {
		return builtinArityError("hash", 1, len(args))
	}
	hashable, ok := args[0].(Hashable)
	if !ok {
		return newError(rerrors.ErrTypeMismatch, map[string]any{
			"Function": "hash", "Expected": "a hashable value", "Got": string(args[0].Type()),
		})
	}
	key := hashable.HashKey()
	h := fnv.New64a()
	h.Write([]byte(key.Type))
	h.Write([]byte{0})
	h.Write([]byte(key.Value))
	return &Integer{Value: int64(h.Sum64() &^ (1 << 63))}
}

func builtinRandom(i *Interpreter, args ...Object) Object {
	if len(args) != 0 {
		return builtinArityError("random", 0, len(args))
	}
	return &Float{Value: rand.Float64()}
}

// builtinDbg prints the value and passes it through
func builtinDbg(i *Interpreter, args ...Object) Object {
	if len(args) != 1 {
		return builtinArityError("dbg", 1, len(args))
	}
	i.out.Write([]byte(args[0].Inspect() + "\n"))
	return args[0]
}

func builtinAssertEq(i *Interpreter, args ...Object) Object {
	if len(args) != 2 {
		return builtinArityError("assert_eq", 2, len(args))
	}
	if objectEquals(args[0], args[1]) {
		return UNIT
	}
	return &Thrown{Value: &String{
		Value: "assertion failed: " + args[0].Inspect() + " != " + args[1].Inspect(),
	}}
}
