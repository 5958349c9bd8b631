package interpreter

import (
	"math"

	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
)

// The trig and log family always yields a float, promoting integer
// arguments first.
func mathUnary(name string, fn func(float64) float64) func(*Interpreter, ...Object) Object {
	return func(i *Interpreter, args ...Object) Object {
		if len(args) != 1 {
			return builtinArityError(name, 1, len(args))
		}
		if !isNumeric(args[0]) {
			return newError(rerrors.ErrTypeMismatch, map[string]any{
				"Function": name, "Expected": "a number", "Got": string(args[0].Type()),
			})
		}
		return &Float{Value: fn(toFloat(args[0]))}
	}
}

var (
	builtinSin   = mathUnary("sin", math.Sin)
	builtinCos   = mathUnary("cos", math.Cos)
	builtinTan   = mathUnary("tan", math.Tan)
	builtinLog   = mathUnary("log", math.Log)
	builtinLog10 = mathUnary("log10", math.Log10)
	builtinExp   = mathUnary("exp", math.Exp)
)
