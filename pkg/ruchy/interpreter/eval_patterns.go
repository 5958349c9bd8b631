package interpreter

import (
	"sort"
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
)

// matchPattern tries to match value against pattern, binding any captured
// names into env. Bindings made before a failing sub-pattern are left in
// env; callers discard the scratch scope on failure.
func (i *Interpreter) matchPattern(pattern ast.Pattern, value Object, env *Environment, mutable bool) bool {
	switch pattern := pattern.(type) {
	case *ast.WildcardPattern:
		return true

	case *ast.IdentifierPattern:
		if pattern.Name == "_" {
			return true
		}
		env.Define(pattern.Name, value, mutable)
		return true

	case *ast.LiteralPattern:
		expected := i.Eval(pattern.Value, env)
		if isControl(expected) {
			return false
		}
		return objectEquals(expected, value)

	case *ast.RangePattern:
		return i.matchRangePattern(pattern, value, env)

	case *ast.TuplePattern:
		tuple, ok := value.(*Tuple)
		if !ok || len(tuple.Elements) != len(pattern.Elements) {
			return false
		}
		for idx, sub := range pattern.Elements {
			if !i.matchPattern(sub, tuple.Elements[idx], env, mutable) {
				return false
			}
		}
		return true

	case *ast.ListPattern:
		return i.matchListPattern(pattern, value, env, mutable)

	case *ast.OrPattern:
		for _, alt := range pattern.Alternatives {
			if i.matchPattern(alt, value, env, mutable) {
				return true
			}
		}
		return false

	case *ast.SomePattern:
		variant, ok := value.(*EnumVariantValue)
		if !ok || !IsOption(variant) || variant.Variant != "Some" || len(variant.Values) != 1 {
			return false
		}
		return i.matchPattern(pattern.Inner, variant.Values[0], env, mutable)

	case *ast.NonePattern:
		variant, ok := value.(*EnumVariantValue)
		return ok && IsOption(variant) && variant.Variant == "None"

	case *ast.QualifiedNamePattern:
		variant, ok := value.(*EnumVariantValue)
		if !ok || len(pattern.Parts) != 2 {
			return false
		}
		return variant.Enum.Name == pattern.Parts[0] && variant.Variant == pattern.Parts[1] && len(variant.Values) == 0

	case *ast.TupleVariantPattern:
		return i.matchTupleVariantPattern(pattern, value, env, mutable)

	case *ast.StructPattern:
		return i.matchStructPattern(pattern, value, env, mutable)
	}

	return false
}

// patternBindings collects the identifiers a pattern introduces
func patternBindings(pattern ast.Pattern, names map[string]bool) {
	switch pattern := pattern.(type) {
	case *ast.IdentifierPattern:
		if pattern.Name != "_" {
			names[pattern.Name] = true
		}
	case *ast.TuplePattern:
		for _, sub := range pattern.Elements {
			patternBindings(sub, names)
		}
	case *ast.ListPattern:
		for _, sub := range pattern.Elements {
			patternBindings(sub, names)
		}
		if pattern.HasRest && pattern.Rest != "" && pattern.Rest != "_" {
			names[pattern.Rest] = true
		}
	case *ast.OrPattern:
		for _, alt := range pattern.Alternatives {
			patternBindings(alt, names)
		}
	case *ast.SomePattern:
		patternBindings(pattern.Inner, names)
	case *ast.TupleVariantPattern:
		for _, sub := range pattern.Elements {
			patternBindings(sub, names)
		}
	case *ast.StructPattern:
		for _, field := range pattern.Fields {
			if field.Pattern == nil {
				names[field.Name] = true
			} else {
				patternBindings(field.Pattern, names)
			}
		}
	}
}

func bindingKey(pattern ast.Pattern) string {
	names := make(map[string]bool)
	patternBindings(pattern, names)
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// mismatchedOrPattern reports whether any or-pattern inside pattern has
// alternatives that disagree on the names they bind. A match arm like
// `1 | x` would leave x unbound on the first alternative.
func mismatchedOrPattern(pattern ast.Pattern) bool {
	switch pattern := pattern.(type) {
	case *ast.OrPattern:
		want := bindingKey(pattern.Alternatives[0])
		for _, alt := range pattern.Alternatives {
			if mismatchedOrPattern(alt) {
				return true
			}
			if bindingKey(alt) != want {
				return true
			}
		}
	case *ast.TuplePattern:
		for _, sub := range pattern.Elements {
			if mismatchedOrPattern(sub) {
				return true
			}
		}
	case *ast.ListPattern:
		for _, sub := range pattern.Elements {
			if mismatchedOrPattern(sub) {
				return true
			}
		}
	case *ast.SomePattern:
		return mismatchedOrPattern(pattern.Inner)
	case *ast.TupleVariantPattern:
		for _, sub := range pattern.Elements {
			if mismatchedOrPattern(sub) {
				return true
			}
		}
	case *ast.StructPattern:
		for _, field := range pattern.Fields {
			if field.Pattern != nil && mismatchedOrPattern(field.Pattern) {
				return true
			}
		}
	}
	return false
}

func (i *Interpreter) matchRangePattern(pattern *ast.RangePattern, value Object, env *Environment) bool {
	n, ok := value.(*Integer)
	if !ok {
		return false
	}

	start := i.Eval(pattern.Start, env)
	end := i.Eval(pattern.End, env)
	lo, ok1 := start.(*Integer)
	hi, ok2 := end.(*Integer)
	if !ok1 || !ok2 {
		return false
	}

	if pattern.Inclusive {
		return n.Value >= lo.Value && n.Value <= hi.Value
	}
	return n.Value >= lo.Value && n.Value < hi.Value
}

func (i *Interpreter) matchListPattern(pattern *ast.ListPattern, value Object, env *Environment, mutable bool) bool {
	array, ok := value.(*Array)
	if !ok {
		return false
	}

	if !pattern.HasRest {
		if len(array.Elements) != len(pattern.Elements) {
			return false
		}
		for idx, sub := range pattern.Elements {
			if !i.matchPattern(sub, array.Elements[idx], env, mutable) {
				return false
			}
		}
		return true
	}

	// [a, b, ..rest] requires at least the named head elements
	if len(array.Elements) < len(pattern.Elements) {
		return false
	}
	for idx, sub := range pattern.Elements {
		if !i.matchPattern(sub, array.Elements[idx], env, mutable) {
			return false
		}
	}
	if pattern.Rest != "" && pattern.Rest != "_" {
		rest := make([]Object, len(array.Elements)-len(pattern.Elements))
		copy(rest, array.Elements[len(pattern.Elements):])
		env.Define(pattern.Rest, &Array{Elements: rest}, mutable)
	}
	return true
}

func (i *Interpreter) matchTupleVariantPattern(pattern *ast.TupleVariantPattern, value Object, env *Environment, mutable bool) bool {
	variant, ok := value.(*EnumVariantValue)
	if !ok {
		return false
	}

	// Variant(x) or Enum::Variant(x)
	name := pattern.Parts[len(pattern.Parts)-1]
	if variant.Variant != name {
		return false
	}
	if len(pattern.Parts) == 2 && variant.Enum.Name != pattern.Parts[0] {
		return false
	}
	if len(variant.Values) != len(pattern.Elements) {
		return false
	}

	for idx, sub := range pattern.Elements {
		if !i.matchPattern(sub, variant.Values[idx], env, mutable) {
			return false
		}
	}
	return true
}

func (i *Interpreter) matchStructPattern(pattern *ast.StructPattern, value Object, env *Environment, mutable bool) bool {
	instance, ok := value.(*StructInstance)
	if !ok || instance.Def.Name != pattern.Name {
		return false
	}

	matched := make(map[string]bool, len(pattern.Fields))
	for _, field := range pattern.Fields {
		fieldValue, ok := instance.Fields[field.Name]
		if !ok {
			return false
		}
		matched[field.Name] = true

		if field.Pattern == nil {
			// shorthand: Point { x } binds x
			env.Define(field.Name, fieldValue, mutable)
			continue
		}
		if !i.matchPattern(field.Pattern, fieldValue, env, mutable) {
			return false
		}
	}

	if !pattern.HasRest && len(matched) != len(instance.Fields) {
		return false
	}
	return true
}
