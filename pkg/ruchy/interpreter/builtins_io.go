package interpreter

import (
	"bufio"
	"os"
	"strings"

	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
)

func builtinReadFile(i *Interpreter, args ...Object) Object {
	if len(args) != 1 {
		return builtinArityError("read_file", 1, len(args))
	}
	path, ok := args[0].(*String)
	if !ok {
		return newError(rerrors.ErrTypeMismatch, map[string]any{
			"Function": "read_file", "Expected": "a path string", "Got": string(args[0].Type()),
		})
	}

	data, err := os.ReadFile(path.Value)
	if err != nil {
		return &Error{Err: rerrors.Newf(rerrors.ClassIO, "read_file: %v", err)}
	}
	if errObj := i.trackAlloc(int64(len(data))); errObj != nil {
		return errObj
	}
	return &String{Value: string(data)}
}

func builtinWriteFile(i *Interpreter, args ...Object) Object {
	if len(args) != 2 {
		return builtinArityError("write_file", 2, len(args))
	}
	path, ok := args[0].(*String)
	if !ok {
		return newError(rerrors.ErrTypeMismatch, map[string]any{
			"Function": "write_file", "Expected": "a path string", "Got": string(args[0].Type()),
		})
	}
	content, ok := args[1].(*String)
	if !ok {
		content = &String{Value: args[1].Inspect()}
	}

	if err := os.WriteFile(path.Value, []byte(content.Value), 0o644); err != nil {
		return &Error{Err: rerrors.Newf(rerrors.ClassIO, "write_file: %v", err)}
	}
	return UNIT
}

func builtinInput(i *Interpreter, args ...Object) Object {
	if len(args) > 1 {
		return builtinArityError("input", 1, len(args))
	}
	if len(args) == 1 {
		if prompt, ok := args[0].(*String); ok {
			os.Stdout.WriteString(prompt.Value)
		}
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return &Error{Err: rerrors.Newf(rerrors.ClassIO, "input: %v", err)}
	}
	return &String{Value: strings.TrimRight(line, "\r\n")}
}
