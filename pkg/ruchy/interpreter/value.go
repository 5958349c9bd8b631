package interpreter

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/ast"
	rerrors "github.com/ruchy-lang/ruchy/pkg/ruchy/errors"
)

// ObjectType identifies the runtime type of a value
type ObjectType string

const (
	INTEGER_OBJ      = "INTEGER"
	FLOAT_OBJ        = "FLOAT"
	BOOLEAN_OBJ      = "BOOLEAN"
	STRING_OBJ       = "STRING"
	CHAR_OBJ         = "CHAR"
	BYTE_OBJ         = "BYTE"
	UNIT_OBJ         = "UNIT"
	NULL_OBJ         = "NULL"
	RETURN_OBJ       = "RETURN_VALUE"
	BREAK_OBJ        = "BREAK"
	CONTINUE_OBJ     = "CONTINUE"
	THROWN_OBJ       = "THROWN"
	ERROR_OBJ        = "ERROR"
	FUNCTION_OBJ     = "FUNCTION"
	BUILTIN_OBJ      = "BUILTIN"
	ARRAY_OBJ        = "ARRAY"
	TUPLE_OBJ        = "TUPLE"
	HASHMAP_OBJ      = "HASHMAP"
	HASHSET_OBJ      = "HASHSET"
	RANGE_OBJ        = "RANGE"
	STRUCT_DEF_OBJ   = "STRUCT_DEF"
	STRUCT_OBJ       = "STRUCT"
	ENUM_DEF_OBJ     = "ENUM_DEF"
	ENUM_VARIANT_OBJ = "ENUM_VARIANT"
	ACTOR_DEF_OBJ    = "ACTOR_DEF"
	ACTOR_OBJ        = "ACTOR"
	MACRO_OBJ        = "MACRO"
	FUTURE_OBJ       = "FUTURE"
	DATAFRAME_OBJ    = "DATAFRAME"
)

// Object is the interface all runtime values implement
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Integer is a 64-bit signed integer value
type Integer struct {
	Value int64
}

func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) Type() ObjectType { return INTEGER_OBJ }

// Float is a 64-bit floating-point value
type Float struct {
	Value float64
}

func (f *Float) Inspect() string {
	s := strconv.FormatFloat(f.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
func (f *Float) Type() ObjectType { return FLOAT_OBJ }

// Boolean is true or false
type Boolean struct {
	Value bool
}

func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }
func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }

// String is an immutable UTF-8 string
type String struct {
	Value string
}

func (s *String) Inspect() string  { return s.Value }
func (s *String) Type() ObjectType { return STRING_OBJ }

// Char is a single Unicode scalar value
type Char struct {
	Value rune
}

func (c *Char) Inspect() string  { return string(c.Value) }
func (c *Char) Type() ObjectType { return CHAR_OBJ }

// Byte is an unsigned 8-bit value from b'x' literals
type Byte struct {
	Value byte
}

func (b *Byte) Inspect() string  { return strconv.Itoa(int(b.Value)) }
func (b *Byte) Type() ObjectType { return BYTE_OBJ }

// Unit is the result of expressions evaluated for effect
type Unit struct{}

func (u *Unit) Inspect() string  { return "()" }
func (u *Unit) Type() ObjectType { return UNIT_OBJ }

// Null is the absence of a value
type Null struct{}

func (n *Null) Inspect() string  { return "null" }
func (n *Null) Type() ObjectType { return NULL_OBJ }

// Shared instances so identity comparison works
var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NULL  = &Null{}
	UNIT  = &Unit{}
)

// ReturnValue wraps a value propagating out of a function body
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }
func (rv *ReturnValue) Type() ObjectType { return RETURN_OBJ }

// BreakValue propagates out of a loop, optionally carrying a value
type BreakValue struct {
	Value Object
}

func (bv *BreakValue) Inspect() string {
	if bv.Value != nil {
		return "break " + bv.Value.Inspect()
	}
	return "break"
}
func (bv *BreakValue) Type() ObjectType { return BREAK_OBJ }

// ContinueValue skips to the next loop iteration
type ContinueValue struct{}

func (cv *ContinueValue) Inspect() string  { return "continue" }
func (cv *ContinueValue) Type() ObjectType { return CONTINUE_OBJ }

// Thrown wraps a user-thrown value propagating toward a catch
type Thrown struct {
	Value Object
}

func (t *Thrown) Inspect() string  { return "thrown: " + t.Value.Inspect() }
func (t *Thrown) Type() ObjectType { return THROWN_OBJ }

// Error wraps a structured error flowing through evaluation in-band
type Error struct {
	Err *rerrors.RuchyError
}

func (e *Error) Inspect() string  { return "ERROR: " + e.Err.String() }
func (e *Error) Type() ObjectType { return ERROR_OBJ }

// Function is a user-defined function or lambda with its closure
type Function struct {
	Name    string
	Params  []*ast.Param
	Body    ast.Node // *ast.BlockStatement or a lambda's expression
	Env     *Environment
	IsAsync bool
	// Self is set on bound methods so the body sees the receiver
	Self Object
}

func (f *Function) Inspect() string {
	params := []string{}
	for _, p := range f.Params {
		params = append(params, p.String())
	}
	name := f.Name
	if name == "" {
		name = "<lambda>"
	}
	return "fun " + name + "(" + strings.Join(params, ", ") + ")"
}
func (f *Function) Type() ObjectType { return FUNCTION_OBJ }

// BuiltinFunction is the signature of a native builtin
type BuiltinFunction func(i *Interpreter, args ...Object) Object

// Builtin is a native function exposed to programs
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Inspect() string  { return "builtin function " + b.Name }
func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }

// Array is a mutable ordered list
type Array struct {
	Elements []Object
}

func (a *Array) Inspect() string {
	var out bytes.Buffer
	elements := []string{}
	for _, e := range a.Elements {
		elements = append(elements, inspectQuoted(e))
	}
	out.WriteString("[")
	out.WriteString(strings.Join(elements, ", "))
	out.WriteString("]")
	return out.String()
}
func (a *Array) Type() ObjectType { return ARRAY_OBJ }

// Tuple is a fixed-size heterogeneous sequence
type Tuple struct {
	Elements []Object
}

func (t *Tuple) Inspect() string {
	elements := []string{}
	for _, e := range t.Elements {
		elements = append(elements, inspectQuoted(e))
	}
	return "(" + strings.Join(elements, ", ") + ")"
}
func (t *Tuple) Type() ObjectType { return TUPLE_OBJ }

// HashKey is the comparable form of a hashable value
type HashKey struct {
	Type  ObjectType
	Value string
}

// Hashable values can be used as map keys and set members
type Hashable interface {
	HashKey() HashKey
}

func (i *Integer) HashKey() HashKey { return HashKey{Type: INTEGER_OBJ, Value: i.Inspect()} }
func (f *Float) HashKey() HashKey   { return HashKey{Type: FLOAT_OBJ, Value: f.Inspect()} }
func (b *Boolean) HashKey() HashKey { return HashKey{Type: BOOLEAN_OBJ, Value: b.Inspect()} }
func (s *String) HashKey() HashKey  { return HashKey{Type: STRING_OBJ, Value: s.Value} }
func (c *Char) HashKey() HashKey    { return HashKey{Type: CHAR_OBJ, Value: string(c.Value)} }

// HashPair preserves the original key object alongside its value
type HashPair struct {
	Key   Object
	Value Object
}

// HashMap is a mutable key-value map
type HashMap struct {
	Pairs map[HashKey]HashPair
}

func NewHashMap() *HashMap {
	return &HashMap{Pairs: make(map[HashKey]HashPair)}
}

func (h *HashMap) Inspect() string {
	pairs := []string{}
	for _, pair := range h.Pairs {
		pairs = append(pairs, inspectQuoted(pair.Key)+": "+inspectQuoted(pair.Value))
	}
	sort.Strings(pairs)
	return "{" + strings.Join(pairs, ", ") + "}"
}
func (h *HashMap) Type() ObjectType { return HASHMAP_OBJ }

// SortedKeys returns the hash keys ordered by their key's display form,
// so iteration is deterministic
func (h *HashMap) SortedKeys() []HashKey {
	keys := make([]HashKey, 0, len(h.Pairs))
	for key := range h.Pairs {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(a, b int) bool {
		return h.Pairs[keys[a]].Key.Inspect() < h.Pairs[keys[b]].Key.Inspect()
	})
	return keys
}

// HashSet is a mutable set of hashable values
type HashSet struct {
	Elements map[HashKey]Object
}

func NewHashSet() *HashSet {
	return &HashSet{Elements: make(map[HashKey]Object)}
}

func (h *HashSet) Inspect() string {
	elements := []string{}
	for _, e := range h.Elements {
		elements = append(elements, inspectQuoted(e))
	}
	sort.Strings(elements)
	return "{" + strings.Join(elements, ", ") + "}"
}
func (h *HashSet) Type() ObjectType { return HASHSET_OBJ }

func (h *HashSet) SortedKeys() []HashKey {
	keys := make([]HashKey, 0, len(h.Elements))
	for key := range h.Elements {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(a, b int) bool {
		return h.Elements[keys[a]].Inspect() < h.Elements[keys[b]].Inspect()
	})
	return keys
}

// Range is a lazy integer range
type Range struct {
	Start     int64
	End       int64
	Inclusive bool
}

func (r *Range) Inspect() string {
	op := ".."
	if r.Inclusive {
		op = "..="
	}
	return fmt.Sprintf("%d%s%d", r.Start, op, r.End)
}
func (r *Range) Type() ObjectType { return RANGE_OBJ }

// Len returns the number of elements the range yields
func (r *Range) Len() int64 {
	n := r.End - r.Start
	if r.Inclusive {
		n++
	}
	if n < 0 {
		return 0
	}
	return n
}

// StructDef is a struct declaration plus its impl methods
type StructDef struct {
	Name    string
	Fields  []*ast.StructField
	Methods map[string]*Function
}

func (sd *StructDef) Inspect() string  { return "struct " + sd.Name }
func (sd *StructDef) Type() ObjectType { return STRUCT_DEF_OBJ }

// StructInstance is a struct value with named fields
type StructInstance struct {
	Def    *StructDef
	Fields map[string]Object
	Order  []string
}

func (si *StructInstance) Inspect() string {
	fields := []string{}
	for _, name := range si.Order {
		fields = append(fields, name+": "+inspectQuoted(si.Fields[name]))
	}
	return si.Def.Name + " { " + strings.Join(fields, ", ") + " }"
}
func (si *StructInstance) Type() ObjectType { return STRUCT_OBJ }

// EnumDef is an enum declaration plus its impl methods
type EnumDef struct {
	Name     string
	Variants map[string]*ast.EnumVariant
	Methods  map[string]*Function
}

func (ed *EnumDef) Inspect() string  { return "enum " + ed.Name }
func (ed *EnumDef) Type() ObjectType { return ENUM_DEF_OBJ }

// EnumVariantValue is a value of an enum variant, with any payload
type EnumVariantValue struct {
	Enum    *EnumDef
	Variant string
	Values  []Object
}

func (ev *EnumVariantValue) Inspect() string {
	name := ev.Variant
	if ev.Enum != nil && ev.Enum.Name != "" && ev.Enum.Name != "Option" {
		name = ev.Enum.Name + "::" + ev.Variant
	}
	if len(ev.Values) == 0 {
		return name
	}
	values := []string{}
	for _, v := range ev.Values {
		values = append(values, inspectQuoted(v))
	}
	return name + "(" + strings.Join(values, ", ") + ")"
}
func (ev *EnumVariantValue) Type() ObjectType { return ENUM_VARIANT_OBJ }

// optionEnum backs the built-in Some/None constructors
var optionEnum = &EnumDef{
	Name: "Option",
	Variants: map[string]*ast.EnumVariant{
		"Some": {Name: "Some", Fields: []string{"T"}},
		"None": {Name: "None"},
	},
}

// Some wraps a value in the built-in Option enum
func Some(value Object) *EnumVariantValue {
	return &EnumVariantValue{Enum: optionEnum, Variant: "Some", Values: []Object{value}}
}

// None is the empty Option value
func None() *EnumVariantValue {
	return &EnumVariantValue{Enum: optionEnum, Variant: "None"}
}

// IsOption reports whether a value is a built-in Option variant
func IsOption(obj Object) bool {
	ev, ok := obj.(*EnumVariantValue)
	return ok && ev.Enum == optionEnum
}

// ActorDef is an actor declaration
type ActorDef struct {
	Name     string
	State    []*ast.StructField
	Handlers map[string]*ast.ActorHandler
}

func (ad *ActorDef) Inspect() string  { return "actor " + ad.Name }
func (ad *ActorDef) Type() ObjectType { return ACTOR_DEF_OBJ }

// ActorInstance holds an actor's state. Message processing is
// synchronous: a send runs the handler before returning.
type ActorInstance struct {
	Def   *ActorDef
	State map[string]Object
}

func (ai *ActorInstance) Inspect() string {
	fields := []string{}
	for _, f := range ai.Def.State {
		if v, ok := ai.State[f.Name]; ok {
			fields = append(fields, f.Name+": "+inspectQuoted(v))
		}
	}
	return ai.Def.Name + " { " + strings.Join(fields, ", ") + " }"
}
func (ai *ActorInstance) Type() ObjectType { return ACTOR_OBJ }

// Future is the result of an async call or block. Evaluation is eager,
// so the value is already resolved; await just unwraps it.
type Future struct {
	Value Object
}

func (f *Future) Inspect() string  { return "future " + f.Value.Inspect() }
func (f *Future) Type() ObjectType { return FUTURE_OBJ }

// DataFrame is a columnar table literal. Only construction and display
// are supported at runtime.
type DataFrame struct {
	Columns []DataFrameColumn
}

type DataFrameColumn struct {
	Name   string
	Values []Object
}

func (df *DataFrame) Inspect() string {
	cols := []string{}
	for _, c := range df.Columns {
		values := []string{}
		for _, v := range c.Values {
			values = append(values, inspectQuoted(v))
		}
		cols = append(cols, c.Name+": ["+strings.Join(values, ", ")+"]")
	}
	return "df![" + strings.Join(cols, ", ") + "]"
}
func (df *DataFrame) Type() ObjectType { return DATAFRAME_OBJ }

// inspectQuoted renders a value the way it nests inside containers:
// strings and chars keep their quotes there
func inspectQuoted(obj Object) string {
	switch obj := obj.(type) {
	case *String:
		return strconv.Quote(obj.Value)
	case *Char:
		return "'" + string(obj.Value) + "'"
	case nil:
		return "null"
	}
	return obj.Inspect()
}
