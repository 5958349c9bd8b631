package ast

import (
	"bytes"
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

// StructField is one field declaration in a struct or actor
type StructField struct {
	Name string
	Type string
}

func (sf *StructField) String() string { return sf.Name + ": " + sf.Type }

// StructDeclaration represents 'struct Name { field: Type, ... }'
type StructDeclaration struct {
	Token  lexer.Token // the 'struct' token
	Name   string
	Fields []*StructField
	Public bool
}

func (sd *StructDeclaration) statementNode()       {}
func (sd *StructDeclaration) TokenLiteral() string { return sd.Token.Literal }
func (sd *StructDeclaration) String() string {
	fields := []string{}
	for _, f := range sd.Fields {
		fields = append(fields, f.String())
	}
	return "struct " + sd.Name + " { " + strings.Join(fields, ", ") + " }"
}

// EnumVariant is one variant of an enum declaration. Fields holds the
// payload type names for tuple variants; empty for unit variants.
type EnumVariant struct {
	Name   string
	Fields []string
}

func (ev *EnumVariant) String() string {
	if len(ev.Fields) == 0 {
		return ev.Name
	}
	return ev.Name + "(" + strings.Join(ev.Fields, ", ") + ")"
}

// EnumDeclaration represents 'enum Name { Variant, Variant(T), ... }'
type EnumDeclaration struct {
	Token    lexer.Token // the 'enum' token
	Name     string
	Variants []*EnumVariant
	Public   bool
}

func (ed *EnumDeclaration) statementNode()       {}
func (ed *EnumDeclaration) TokenLiteral() string { return ed.Token.Literal }
func (ed *EnumDeclaration) String() string {
	variants := []string{}
	for _, v := range ed.Variants {
		variants = append(variants, v.String())
	}
	return "enum " + ed.Name + " { " + strings.Join(variants, ", ") + " }"
}

// TraitMethod is one method signature (or default implementation) in a
// trait declaration.
type TraitMethod struct {
	Name       string
	Params     []*Param
	ReturnType string
	Body       *BlockStatement // nil for signatures without a default body
}

func (tm *TraitMethod) String() string {
	params := []string{}
	for _, p := range tm.Params {
		params = append(params, p.String())
	}
	s := "fun " + tm.Name + "(" + strings.Join(params, ", ") + ")"
	if tm.ReturnType != "" {
		s += " -> " + tm.ReturnType
	}
	if tm.Body != nil {
		s += " " + tm.Body.String()
	}
	return s
}

// TraitDeclaration represents 'trait Name { fun sig(...) ... }'
type TraitDeclaration struct {
	Token   lexer.Token // the 'trait' token
	Name    string
	Methods []*TraitMethod
	Public  bool
}

func (td *TraitDeclaration) statementNode()       {}
func (td *TraitDeclaration) TokenLiteral() string { return td.Token.Literal }
func (td *TraitDeclaration) String() string {
	methods := []string{}
	for _, m := range td.Methods {
		methods = append(methods, m.String())
	}
	return "trait " + td.Name + " { " + strings.Join(methods, " ") + " }"
}

// ImplBlock represents 'impl Type { ... }' or 'impl Trait for Type { ... }'
type ImplBlock struct {
	Token    lexer.Token // the 'impl' token
	TypeName string
	Trait    string // "" for inherent impls
	Methods  []*FunctionLiteral
}

func (ib *ImplBlock) statementNode()       {}
func (ib *ImplBlock) TokenLiteral() string { return ib.Token.Literal }
func (ib *ImplBlock) String() string {
	var out bytes.Buffer
	out.WriteString("impl ")
	if ib.Trait != "" {
		out.WriteString(ib.Trait)
		out.WriteString(" for ")
	}
	out.WriteString(ib.TypeName)
	out.WriteString(" { ")
	methods := []string{}
	for _, m := range ib.Methods {
		methods = append(methods, m.String())
	}
	out.WriteString(strings.Join(methods, " "))
	out.WriteString(" }")
	return out.String()
}

// ActorHandler is one 'receive' handler of an actor declaration
type ActorHandler struct {
	Message string
	Params  []*Param
	Body    *BlockStatement
}

func (ah *ActorHandler) String() string {
	params := []string{}
	for _, p := range ah.Params {
		params = append(params, p.String())
	}
	return ah.Message + "(" + strings.Join(params, ", ") + ") " + ah.Body.String()
}

// ActorDeclaration represents actor definitions with state fields and
// receive handlers.
type ActorDeclaration struct {
	Token    lexer.Token // the 'actor' token
	Name     string
	State    []*StructField
	Handlers []*ActorHandler
}

func (ad *ActorDeclaration) statementNode()       {}
func (ad *ActorDeclaration) TokenLiteral() string { return ad.Token.Literal }
func (ad *ActorDeclaration) String() string {
	var out bytes.Buffer
	out.WriteString("actor ")
	out.WriteString(ad.Name)
	out.WriteString(" { ")
	for _, f := range ad.State {
		out.WriteString(f.String())
		out.WriteString("; ")
	}
	out.WriteString("receive { ")
	handlers := []string{}
	for _, h := range ad.Handlers {
		handlers = append(handlers, h.String())
	}
	out.WriteString(strings.Join(handlers, " "))
	out.WriteString(" } }")
	return out.String()
}

// ImportItem is one imported name, with an optional 'as' alias
type ImportItem struct {
	Name  string
	Alias string
}

func (ii ImportItem) String() string {
	if ii.Alias != "" {
		return ii.Name + " as " + ii.Alias
	}
	return ii.Name
}

// ImportStatement represents 'import path::{a, b as c}' and
// 'import path::*'.
type ImportStatement struct {
	Token lexer.Token // the 'import' token
	Path  []string
	Items []ImportItem // empty imports the path's last segment
	All   bool         // true for trailing ::*
}

func (is *ImportStatement) statementNode()       {}
func (is *ImportStatement) TokenLiteral() string { return is.Token.Literal }
func (is *ImportStatement) String() string {
	var out bytes.Buffer
	out.WriteString("import ")
	out.WriteString(strings.Join(is.Path, "::"))
	if is.All {
		out.WriteString("::*")
	} else if len(is.Items) > 0 {
		items := []string{}
		for _, it := range is.Items {
			items = append(items, it.String())
		}
		out.WriteString("::{" + strings.Join(items, ", ") + "}")
	}
	return out.String()
}

// ExportStatement represents 'export { a, b }' and 'export fun f() ...'
type ExportStatement struct {
	Token lexer.Token // the 'export' token
	Names []string
	Decl  Statement // exported inline declaration, nil for name lists
}

func (es *ExportStatement) statementNode()       {}
func (es *ExportStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExportStatement) String() string {
	if es.Decl != nil {
		return "export " + es.Decl.String()
	}
	return "export { " + strings.Join(es.Names, ", ") + " }"
}

// MacroMatcher is one element of a macro rule's pattern: a literal token,
// a metavariable like $x:expr, or a repetition group $(...)sep*.
type MacroMatcher struct {
	Literal    *lexer.Token    // literal token to match, nil otherwise
	MetaVar    string          // metavariable name without '$'
	Fragment   string          // "expr", "ident", "ty", "tt", ...
	Repetition []*MacroMatcher // inner matchers for $(...) groups
	Separator  string          // "," or ";" between repetitions, "" if none
	RepOp      string          // "*" or "+" for repetition groups
}

// MacroRule is one 'pattern => { body }' rule of a macro definition. The
// body is kept as a raw token stream and substituted at expansion time.
type MacroRule struct {
	Matchers []*MacroMatcher
	Body     []lexer.Token
}

// MacroDefinition represents 'macro_rules! name { rule; rule; }'
type MacroDefinition struct {
	Token lexer.Token // the 'macro_rules' token
	Name  string
	Rules []*MacroRule
}

func (md *MacroDefinition) statementNode()       {}
func (md *MacroDefinition) TokenLiteral() string { return md.Token.Literal }
func (md *MacroDefinition) String() string {
	return "macro_rules! " + md.Name + " { ... }"
}

// MacroInvocation represents 'name!(args)'. The arguments are kept as a
// raw token stream for matching against the macro's rules.
type MacroInvocation struct {
	Token  lexer.Token // the macro name token
	Name   string
	Tokens []lexer.Token
}

func (mi *MacroInvocation) expressionNode()      {}
func (mi *MacroInvocation) statementNode()       {}
func (mi *MacroInvocation) TokenLiteral() string { return mi.Token.Literal }
func (mi *MacroInvocation) String() string {
	parts := []string{}
	for _, t := range mi.Tokens {
		parts = append(parts, t.Literal)
	}
	return mi.Name + "!(" + strings.Join(parts, " ") + ")"
}
