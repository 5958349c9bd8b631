package interpreter

import (
	"time"

	"github.com/araddon/dateparse"

	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
)

func builtinSleep(i *Interpreter, args ...Object) Object {
	if len(args) != 1 {
		return builtinArityError("sleep", 1, len(args))
	}
	millis, ok := args[0].(*Integer)
	if !ok || millis.Value < 0 {
		return newError(rerrors.ErrTypeMismatch, map[string]any{
			"Function": "sleep", "Expected": "milliseconds", "Got": string(args[0].Type()),
		})
	}

	duration := time.Duration(millis.Value) * time.Millisecond
	// clip to the remaining deadline so sleep cannot out-wait the budget
	if !i.deadline.IsZero() {
		if remaining := time.Until(i.deadline); duration > remaining {
			time.Sleep(remaining)
			return i.checkInterrupt()
		}
	}
	time.Sleep(duration)
	return UNIT
}

func builtinTimestamp(i *Interpreter, args ...Object) Object {
	if len(args) != 0 {
		return builtinArityError("timestamp", 0, len(args))
	}
	return &Integer{Value: time.Now().UnixMilli()}
}

// builtinParseTime accepts most common date formats and yields the epoch
// milliseconds as Some(int), or None when the input is unparseable
func builtinParseTime(i *Interpreter, args ...Object) Object {
	if len(args) != 1 {
		return builtinArityError("parse_time", 1, len(args))
	}
	input, ok := args[0].(*String)
	if !ok {
		return newError(rerrors.ErrTypeMismatch, map[string]any{
			"Function": "parse_time", "Expected": "a string", "Got": string(args[0].Type()),
		})
	}

	t, err := dateparse.ParseAny(input.Value)
	if err != nil {
		return None()
	}
	return Some(&Integer{Value: t.UnixMilli()})
}
