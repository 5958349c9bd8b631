package ast

import (
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

// Pattern represents match and destructuring patterns
type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern matches anything without binding: '_'
type WildcardPattern struct {
	Token lexer.Token // the '_' token
}

func (wp *WildcardPattern) patternNode()         {}
func (wp *WildcardPattern) TokenLiteral() string { return wp.Token.Literal }
func (wp *WildcardPattern) String() string       { return "_" }

// LiteralPattern matches a literal value by equality
type LiteralPattern struct {
	Token lexer.Token
	Value Expression
}

func (lp *LiteralPattern) patternNode()         {}
func (lp *LiteralPattern) TokenLiteral() string { return lp.Token.Literal }
func (lp *LiteralPattern) String() string       { return lp.Value.String() }

// IdentifierPattern binds the matched value to a name
type IdentifierPattern struct {
	Token lexer.Token // the lexer.IDENT token
	Name  string
}

func (ip *IdentifierPattern) patternNode()         {}
func (ip *IdentifierPattern) TokenLiteral() string { return ip.Token.Literal }
func (ip *IdentifierPattern) String() string       { return ip.Name }

// TuplePattern destructures tuples: (a, b, _)
type TuplePattern struct {
	Token    lexer.Token // the '(' token
	Elements []Pattern
}

func (tp *TuplePattern) patternNode()         {}
func (tp *TuplePattern) TokenLiteral() string { return tp.Token.Literal }
func (tp *TuplePattern) String() string {
	parts := []string{}
	for _, e := range tp.Elements {
		parts = append(parts, e.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ListPattern destructures lists: [a, b, ..rest]
type ListPattern struct {
	Token    lexer.Token // the '[' token
	Elements []Pattern
	Rest     string // "" if no rest binding, "_" for an unnamed rest
	HasRest  bool
}

func (lp *ListPattern) patternNode()         {}
func (lp *ListPattern) TokenLiteral() string { return lp.Token.Literal }
func (lp *ListPattern) String() string {
	parts := []string{}
	for _, e := range lp.Elements {
		parts = append(parts, e.String())
	}
	if lp.HasRest {
		parts = append(parts, ".."+lp.Rest)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// RangePattern matches values within a range: 1..5 or 'a'..='z'
type RangePattern struct {
	Token     lexer.Token // the '..' or '..=' token
	Start     Expression
	End       Expression
	Inclusive bool
}

func (rp *RangePattern) patternNode()         {}
func (rp *RangePattern) TokenLiteral() string { return rp.Token.Literal }
func (rp *RangePattern) String() string {
	op := ".."
	if rp.Inclusive {
		op = "..="
	}
	return rp.Start.String() + op + rp.End.String()
}

// OrPattern matches any of its alternatives: 1 | 2 | 3
type OrPattern struct {
	Token        lexer.Token // the '|' token
	Alternatives []Pattern
}

func (op *OrPattern) patternNode()         {}
func (op *OrPattern) TokenLiteral() string { return op.Token.Literal }
func (op *OrPattern) String() string {
	parts := []string{}
	for _, a := range op.Alternatives {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " | ")
}

// SomePattern matches Some(inner)
type SomePattern struct {
	Token lexer.Token // the 'Some' token
	Inner Pattern
}

func (sp *SomePattern) patternNode()         {}
func (sp *SomePattern) TokenLiteral() string { return sp.Token.Literal }
func (sp *SomePattern) String() string       { return "Some(" + sp.Inner.String() + ")" }

// NonePattern matches None
type NonePattern struct {
	Token lexer.Token // the 'None' token
}

func (np *NonePattern) patternNode()         {}
func (np *NonePattern) TokenLiteral() string { return np.Token.Literal }
func (np *NonePattern) String() string       { return "None" }

// QualifiedNamePattern matches a unit enum variant by path:
// Ordering::Less
type QualifiedNamePattern struct {
	Token lexer.Token // the first segment token
	Parts []string
}

func (qp *QualifiedNamePattern) patternNode()         {}
func (qp *QualifiedNamePattern) TokenLiteral() string { return qp.Token.Literal }
func (qp *QualifiedNamePattern) String() string       { return strings.Join(qp.Parts, "::") }

// TupleVariantPattern matches and destructures a tuple enum variant:
// Shape::Circle(r)
type TupleVariantPattern struct {
	Token    lexer.Token // the first segment token
	Parts    []string
	Elements []Pattern
}

func (tv *TupleVariantPattern) patternNode()         {}
func (tv *TupleVariantPattern) TokenLiteral() string { return tv.Token.Literal }
func (tv *TupleVariantPattern) String() string {
	parts := []string{}
	for _, e := range tv.Elements {
		parts = append(parts, e.String())
	}
	return strings.Join(tv.Parts, "::") + "(" + strings.Join(parts, ", ") + ")"
}

// StructPatternField is one field of a struct pattern. A nil Pattern is
// the shorthand form binding the field to its own name.
type StructPatternField struct {
	Name    string
	Pattern Pattern
}

func (sf StructPatternField) String() string {
	if sf.Pattern == nil {
		return sf.Name
	}
	return sf.Name + ": " + sf.Pattern.String()
}

// StructPattern destructures struct values: Point { x, y: b, .. }
type StructPattern struct {
	Token   lexer.Token // the struct name token
	Name    string
	Fields  []StructPatternField
	HasRest bool // trailing .. ignoring remaining fields
}

func (sp *StructPattern) patternNode()         {}
func (sp *StructPattern) TokenLiteral() string { return sp.Token.Literal }
func (sp *StructPattern) String() string {
	parts := []string{}
	for _, f := range sp.Fields {
		parts = append(parts, f.String())
	}
	if sp.HasRest {
		parts = append(parts, "..")
	}
	return sp.Name + " { " + strings.Join(parts, ", ") + " }"
}
