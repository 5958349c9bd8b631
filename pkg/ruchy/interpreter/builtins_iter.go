package interpreter

import (
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
)

// builtinRange materializes an integer sequence: range(end),
// range(start, end), or range(start, end, step)
func builtinRange(i *Interpreter, args ...Object) Object {
	bounds := make([]int64, len(args))
	for idx, arg := range args {
		n, ok := arg.(*Integer)
		if !ok {
			return newError(rerrors.ErrTypeMismatch, map[string]any{
				"Function": "range", "Expected": "integer bounds", "Got": string(arg.Type()),
			})
		}
		bounds[idx] = n.Value
	}

	var start, end, step int64
	switch len(args) {
	case 1:
		start, end, step = 0, bounds[0], 1
	case 2:
		start, end, step = bounds[0], bounds[1], 1
	case 3:
		start, end, step = bounds[0], bounds[1], bounds[2]
		if step == 0 {
			return newError(rerrors.ErrBadRangeBound, map[string]any{"Got": "step 0"})
		}
	default:
		return builtinArityError("range", 2, len(args))
	}

	var elements []Object
	if step > 0 {
		for n := start; n < end; n += step {
			elements = append(elements, &Integer{Value: n})
		}
	} else {
		for n := start; n > end; n += step {
			elements = append(elements, &Integer{Value: n})
		}
	}
	if errObj := i.trackAlloc(int64(len(elements))); errObj != nil {
		return errObj
	}
	return &Array{Elements: elements}
}

// iterArg delegates the free-function form to the matching array method,
// so sorted(xs) and xs.sorted() agree
func iterArg(name, method string, extraArgs int) func(*Interpreter, ...Object) Object {
	return func(i *Interpreter, args ...Object) Object {
		if len(args) != 1+extraArgs {
			return builtinArityError(name, 1+extraArgs, len(args))
		}
		array, ok := args[0].(*Array)
		if !ok {
			return newError(rerrors.ErrTypeMismatch, map[string]any{
				"Function": name, "Expected": "an array", "Got": string(args[0].Type()),
			})
		}
		return i.arrayMethod(noToken, array, method, args[1:])
	}
}

var (
	builtinSorted    = iterArg("sorted", "sorted", 0)
	builtinReversed  = iterArg("reversed", "reverse", 0)
	builtinEnumerate = iterArg("enumerate", "enumerate", 0)
	builtinZip       = iterArg("zip", "zip", 1)
	builtinTake      = iterArg("take", "take", 1)
	builtinDrop      = iterArg("drop", "drop", 1)
)
