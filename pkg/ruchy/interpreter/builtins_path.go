package interpreter

import (
	"path/filepath"
	"strings"

	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
)

func pathArg(name string, args []Object, want int) ([]string, Object) {
	if len(args) != want {
		return nil, builtinArityError(name, want, len(args))
	}
	parts := make([]string, len(args))
	for idx, arg := range args {
		s, ok := arg.(*String)
		if !ok {
			return nil, newError(rerrors.ErrTypeMismatch, map[string]any{
				"Function": name, "Expected": "a path string", "Got": string(arg.Type()),
			})
		}
		parts[idx] = s.Value
	}
	return parts, nil
}

func builtinPathJoin(i *Interpreter, args ...Object) Object {
	parts, errObj := pathArg("path_join", args, 2)
	if errObj != nil {
		return errObj
	}
	return &String{Value: filepath.Join(parts[0], parts[1])}
}

// builtinPathParent yields null at the filesystem root
func builtinPathParent(i *Interpreter, args ...Object) Object {
	parts, errObj := pathArg("path_parent", args, 1)
	if errObj != nil {
		return errObj
	}
	parent := filepath.Dir(parts[0])
	if parent == parts[0] {
		return NULL
	}
	return &String{Value: parent}
}

func builtinPathFileName(i *Interpreter, args ...Object) Object {
	parts, errObj := pathArg("path_file_name", args, 1)
	if errObj != nil {
		return errObj
	}
	base := filepath.Base(parts[0])
	if base == "." || base == string(filepath.Separator) {
		return NULL
	}
	return &String{Value: base}
}

func builtinPathFileStem(i *Interpreter, args ...Object) Object {
	parts, errObj := pathArg("path_file_stem", args, 1)
	if errObj != nil {
		return errObj
	}
	base := filepath.Base(parts[0])
	if base == "." || base == string(filepath.Separator) {
		return NULL
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		// dotfiles keep their name
		stem = base
	}
	return &String{Value: stem}
}

// builtinPathExtension yields the extension without its dot, or null
func builtinPathExtension(i *Interpreter, args ...Object) Object {
	parts, errObj := pathArg("path_extension", args, 1)
	if errObj != nil {
		return errObj
	}
	ext := filepath.Ext(parts[0])
	if ext == "" || ext == filepath.Base(parts[0]) {
		return NULL
	}
	return &String{Value: ext[1:]}
}

func builtinPathIsAbsolute(i *Interpreter, args ...Object) Object {
	parts, errObj := pathArg("path_is_absolute", args, 1)
	if errObj != nil {
		return errObj
	}
	return nativeBoolToBooleanObject(filepath.IsAbs(parts[0]))
}

func builtinPathIsRelative(i *Interpreter, args ...Object) Object {
	parts, errObj := pathArg("path_is_relative", args, 1)
	if errObj != nil {
		return errObj
	}
	return nativeBoolToBooleanObject(!filepath.IsAbs(parts[0]))
}

func builtinPathCanonicalize(i *Interpreter, args ...Object) Object {
	parts, errObj := pathArg("path_canonicalize", args, 1)
	if errObj != nil {
		return errObj
	}
	abs, err := filepath.Abs(parts[0])
	if err != nil {
		return &Error{Err: rerrors.Newf(rerrors.ClassIO, "path_canonicalize: %v", err)}
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	return &String{Value: abs}
}

func builtinPathWithExtension(i *Interpreter, args ...Object) Object {
	parts, errObj := pathArg("path_with_extension", args, 2)
	if errObj != nil {
		return errObj
	}
	stripped := strings.TrimSuffix(parts[0], filepath.Ext(parts[0]))
	if parts[1] == "" {
		return &String{Value: stripped}
	}
	return &String{Value: stripped + "." + parts[1]}
}

func builtinPathWithFileName(i *Interpreter, args ...Object) Object {
	parts, errObj := pathArg("path_with_file_name", args, 2)
	if errObj != nil {
		return errObj
	}
	return &String{Value: filepath.Join(filepath.Dir(parts[0]), parts[1])}
}

func builtinPathComponents(i *Interpreter, args ...Object) Object {
	parts, errObj := pathArg("path_components", args, 1)
	if errObj != nil {
		return errObj
	}
	var components []Object
	slashed := filepath.ToSlash(parts[0])
	if strings.HasPrefix(slashed, "/") {
		components = append(components, &String{Value: "/"})
	}
	for _, component := range strings.Split(slashed, "/") {
		if component == "" || component == "." {
			continue
		}
		components = append(components, &String{Value: component})
	}
	return &Array{Elements: components}
}

// builtinPathNormalize drops "." segments and resolves ".." lexically
func builtinPathNormalize(i *Interpreter, args ...Object) Object {
	parts, errObj := pathArg("path_normalize", args, 1)
	if errObj != nil {
		return errObj
	}
	slashed := filepath.ToSlash(parts[0])
	absolute := strings.HasPrefix(slashed, "/")
	var kept []string
	for _, component := range strings.Split(slashed, "/") {
		switch component {
		case "", ".":
		case "..":
			if len(kept) > 0 {
				kept = kept[:len(kept)-1]
			}
		default:
			kept = append(kept, component)
		}
	}
	normalized := strings.Join(kept, "/")
	if absolute {
		normalized = "/" + normalized
	}
	return &String{Value: filepath.FromSlash(normalized)}
}
