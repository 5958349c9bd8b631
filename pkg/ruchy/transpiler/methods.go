package transpiler

import (
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
)

// transpileMethodCall applies the method-family adapters: iterator
// auto-wrapping, map/set rewrites, and Python-flavored string aliases.
func (t *Transpiler) transpileMethodCall(expr *ast.MethodCallExpression) (string, error) {
	receiver, err := t.transpileExpression(expr.Receiver)
	if err != nil {
		return "", err
	}
	args, err := t.transpileExpressions(expr.Arguments)
	if err != nil {
		return "", err
	}

	switch expr.Method {
	// iterator family: wrap non-iterator receivers, collect results
	case "map":
		if alreadyIterator(receiver) {
			return receiver + ".map(" + join(args) + ")", nil
		}
		return receiver + ".into_iter().map(" + join(args) + ").collect::<Vec<_>>()", nil
	case "filter":
		if alreadyIterator(receiver) {
			return receiver + ".filter(" + join(args) + ")", nil
		}
		// borrow-dereferencing wrapper so user closures see values
		return receiver + ".into_iter().filter(|__x| (" + join(args) + ")(__x.clone())).collect::<Vec<_>>()", nil
	case "reduce", "fold":
		if len(args) == 2 {
			return receiver + ".into_iter().fold(" + args[0] + ", " + args[1] + ")", nil
		}
		return receiver + ".into_iter().reduce(" + join(args) + ").unwrap()", nil
	case "flat_map":
		return receiver + ".into_iter().flat_map(" + join(args) + ").collect::<Vec<_>>()", nil
	case "flatten":
		return receiver + ".into_iter().flatten().collect::<Vec<_>>()", nil
	case "any":
		return receiver + ".iter().any(|__x| (" + join(args) + ")(__x.clone()))", nil
	case "all":
		return receiver + ".iter().all(|__x| (" + join(args) + ")(__x.clone()))", nil
	case "zip":
		return receiver + ".into_iter().zip(" + join(args) + ".into_iter()).collect::<Vec<_>>()", nil
	case "enumerate":
		return receiver + ".into_iter().enumerate().collect::<Vec<_>>()", nil
	case "sum":
		return receiver + ".iter().sum()", nil
	case "rev", "reverse":
		return receiver + ".into_iter().rev().collect::<Vec<_>>()", nil
	case "sorted", "sort":
		return "{ let mut __v = " + receiver + ".clone(); __v.sort(); __v }", nil
	case "unique", "dedup":
		// round-trip through a set preserves uniqueness
		return receiver + ".into_iter().collect::<std::collections::HashSet<_>>().into_iter().collect::<Vec<_>>()", nil

	// advanced collection methods
	case "slice":
		if len(args) == 2 {
			return receiver + "[" + args[0] + " as usize.." + args[1] + " as usize].to_vec()", nil
		}
	case "concat":
		return "[" + receiver + ", " + join(args) + "].concat()", nil
	case "join":
		sep := `", "`
		if len(args) == 1 {
			sep = args[0]
		}
		return receiver + ".iter().map(|__x| __x.to_string()).collect::<Vec<_>>().join(&" + sep + ")", nil
	case "push", "append":
		return receiver + ".push(" + join(args) + ")", nil
	case "pop":
		return receiver + ".pop()", nil
	case "first", "head":
		return receiver + ".first().cloned()", nil
	case "last":
		return receiver + ".last().cloned()", nil
	case "take":
		return receiver + ".into_iter().take(" + join(args) + " as usize).collect::<Vec<_>>()", nil
	case "skip", "drop":
		return receiver + ".into_iter().skip(" + join(args) + " as usize).collect::<Vec<_>>()", nil

	// map/set family
	case "contains_key", "keys", "values", "entry", "contains":
		return receiver + "." + expr.Method + "(" + joinBorrowed(args) + ")", nil
	case "items", "entries":
		// by-value (k, v) tuples
		return receiver + ".iter().map(|(__k, __v)| (__k.clone(), __v.clone())).collect::<Vec<_>>()", nil
	case "update":
		return receiver + ".extend(" + join(args) + ")", nil
	case "get":
		return receiver + ".get(" + joinBorrowed(args) + ").cloned()", nil
	case "insert", "set":
		return receiver + ".insert(" + join(args) + ")", nil
	case "remove":
		return receiver + ".remove(" + joinBorrowed(args) + ")", nil
	case "union", "intersection", "difference", "symmetric_difference":
		return receiver + "." + expr.Method + "(&" + join(args) + ").cloned().collect::<std::collections::HashSet<_>>()", nil

	// string family, Python aliases unified
	case "to_upper", "to_uppercase", "upper":
		return receiver + ".to_uppercase()", nil
	case "to_lower", "to_lowercase", "lower":
		return receiver + ".to_lowercase()", nil
	case "strip", "trim":
		return receiver + ".trim().to_string()", nil
	case "lstrip", "trim_start":
		return receiver + ".trim_start().to_string()", nil
	case "rstrip", "trim_end":
		return receiver + ".trim_end().to_string()", nil
	case "startswith", "starts_with":
		return receiver + ".starts_with(" + join(args) + ")", nil
	case "endswith", "ends_with":
		return receiver + ".ends_with(" + join(args) + ")", nil
	case "split":
		return receiver + ".split(" + join(args) + ").map(|__s| __s.to_string()).collect::<Vec<String>>()", nil
	case "replace":
		return receiver + ".replace(" + join(args) + ")", nil
	case "length", "len":
		return receiver + ".len()", nil
	case "is_empty":
		return receiver + ".is_empty()", nil
	case "chars":
		return receiver + ".chars().collect::<Vec<char>>()", nil
	case "lines":
		return receiver + ".lines().map(|__s| __s.to_string()).collect::<Vec<String>>()", nil
	case "repeat":
		return receiver + ".repeat(" + join(args) + " as usize)", nil
	case "substring":
		// Unicode-safe character subrange
		if len(args) == 2 {
			return receiver + ".chars().skip(" + args[0] + " as usize).take((" + args[1] + " - " + args[0] + ") as usize).collect::<String>()", nil
		}
	case "to_s", "to_string":
		return receiver + ".to_string()", nil
	case "parse", "to_i", "to_int":
		return receiver + ".parse::<i64>().unwrap()", nil
	case "to_f", "to_float":
		return receiver + ".parse::<f64>().unwrap()", nil

	// numeric family
	case "abs", "sqrt", "floor", "ceil", "round":
		return "(" + receiver + " as f64)." + expr.Method + "()", nil
	case "pow":
		return receiver + ".pow(" + join(args) + " as u32)", nil

	// option family
	case "unwrap", "unwrap_or", "expect", "is_some", "is_none":
		return receiver + "." + expr.Method + "(" + join(args) + ")", nil

	case "await":
		return receiver + ".await", nil

	// DataFrame surface
	case "select", "groupby", "agg":
		return receiver + "." + dataFrameMethod(expr.Method) + "(" + join(args) + ")", nil
	}

	// unknown methods pass through unchanged
	return receiver + "." + expr.Method + "(" + join(args) + ")", nil
}

func dataFrameMethod(name string) string {
	if name == "groupby" {
		return "group_by"
	}
	return name
}

// alreadyIterator reports whether the emitted receiver already ends in
// an explicit iterator call, so wrapping would double-iterate
func alreadyIterator(receiver string) bool {
	return strings.HasSuffix(receiver, ".iter()") || strings.HasSuffix(receiver, ".into_iter()")
}

func join(args []string) string {
	return strings.Join(args, ", ")
}

func joinBorrowed(args []string) string {
	borrowed := make([]string, len(args))
	for idx, arg := range args {
		borrowed[idx] = "&" + arg
	}
	return strings.Join(borrowed, ", ")
}
