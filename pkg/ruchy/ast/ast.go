package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
)

// Node represents any node in the AST
type Node interface {
	TokenLiteral() string
	String() string
}

// Statement represents statement nodes
type Statement interface {
	Node
	statementNode()
}

// Expression represents expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Program represents the root node of every AST
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

// LetStatement represents let/var bindings like 'let x = 5' or
// 'let mut xs = []'. A nil Body is the statement form; a non-nil Body is
// the expression form 'let x = v in body'. Implements both Statement and
// Expression so a let can appear wherever an expression is accepted.
type LetStatement struct {
	Token    lexer.Token // the 'let' or 'var' token
	Name     *Identifier
	Pattern  Pattern // non-nil for destructuring lets, Name is nil then
	TypeAnno string  // annotated type name, "" if none
	Mutable  bool    // true for 'let mut' and 'var'
	Value    Expression
	Body     Expression // nil for statement form
}

func (ls *LetStatement) statementNode()       {}
func (ls *LetStatement) expressionNode()      {}
func (ls *LetStatement) TokenLiteral() string { return ls.Token.Literal }
func (ls *LetStatement) String() string {
	var out bytes.Buffer
	out.WriteString("let ")
	if ls.Mutable {
		out.WriteString("mut ")
	}
	if ls.Pattern != nil {
		out.WriteString(ls.Pattern.String())
	} else {
		out.WriteString(ls.Name.String())
	}
	if ls.TypeAnno != "" {
		out.WriteString(": " + ls.TypeAnno)
	}
	out.WriteString(" = ")
	if ls.Value != nil {
		out.WriteString(ls.Value.String())
	}
	if ls.Body != nil {
		out.WriteString(" in ")
		out.WriteString(ls.Body.String())
	}
	return out.String()
}

// ReturnStatement represents return statements like 'return 5'
type ReturnStatement struct {
	Token       lexer.Token // the 'return' token
	ReturnValue Expression  // nil returns unit
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) expressionNode()      {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) String() string {
	var out bytes.Buffer
	out.WriteString("return")
	if rs.ReturnValue != nil {
		out.WriteString(" ")
		out.WriteString(rs.ReturnValue.String())
	}
	return out.String()
}

// BreakStatement represents 'break' with an optional value.
// Implements both Statement and Expression so it can be used as:
// if done { break }
type BreakStatement struct {
	Token lexer.Token // the 'break' token
	Value Expression  // optional break value
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) expressionNode()      {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BreakStatement) String() string {
	if bs.Value != nil {
		return "break " + bs.Value.String()
	}
	return "break"
}

// ContinueStatement represents 'continue'
type ContinueStatement struct {
	Token lexer.Token // the 'continue' token
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) expressionNode()      {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ContinueStatement) String() string       { return "continue" }

// ExpressionStatement represents expression statements
type ExpressionStatement struct {
	Token      lexer.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

// BlockStatement represents block statements like '{...}'. Blocks are also
// expressions: the value of a block is the value of its last statement.
type BlockStatement struct {
	Token      lexer.Token // the '{' token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) expressionNode()      {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for i, s := range bs.Statements {
		if i > 0 {
			out.WriteString("; ")
		}
		out.WriteString(s.String())
	}
	out.WriteString(" }")
	return out.String()
}

// Identifier represents identifier expressions
type Identifier struct {
	Token lexer.Token // the lexer.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// QualifiedName represents a path like Ordering::Less or std::fs::read
type QualifiedName struct {
	Token lexer.Token // the first segment token
	Parts []string
}

func (qn *QualifiedName) expressionNode()      {}
func (qn *QualifiedName) TokenLiteral() string { return qn.Token.Literal }
func (qn *QualifiedName) String() string       { return strings.Join(qn.Parts, "::") }

// IntegerLiteral represents integer literals, with an optional width
// suffix such as i64 or u8.
type IntegerLiteral struct {
	Token  lexer.Token // the lexer.INT token
	Value  int64
	Suffix string // "", "i8".."u128"
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string {
	return fmt.Sprintf("%d%s", il.Value, il.Suffix)
}

// FloatLiteral represents floating-point literals
type FloatLiteral struct {
	Token lexer.Token // the lexer.FLOAT token
	Value float64
}

func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FloatLiteral) String() string       { return fl.Token.Literal }

// StringLiteral represents string literals (escape-processed)
type StringLiteral struct {
	Token lexer.Token // the lexer.STRING or RAWSTRING token
	Value string
	Raw   bool // true for r"..." literals
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return fmt.Sprintf("%q", sl.Value) }

// FStringPart is one segment of an interpolated string: either literal
// text or an embedded expression.
type FStringPart struct {
	IsExpr bool
	Text   string     // literal text when IsExpr is false
	Expr   Expression // parsed hole when IsExpr is true
}

// FStringLiteral represents interpolated strings like f"hello {name}"
type FStringLiteral struct {
	Token lexer.Token // the lexer.FSTRING token
	Parts []FStringPart
}

func (fs *FStringLiteral) expressionNode()      {}
func (fs *FStringLiteral) TokenLiteral() string { return fs.Token.Literal }
func (fs *FStringLiteral) String() string {
	var out bytes.Buffer
	out.WriteString(`f"`)
	for _, p := range fs.Parts {
		if p.IsExpr {
			out.WriteString("{")
			out.WriteString(p.Expr.String())
			out.WriteString("}")
		} else {
			out.WriteString(p.Text)
		}
	}
	out.WriteString(`"`)
	return out.String()
}

// CharLiteral represents character literals like 'a'
type CharLiteral struct {
	Token lexer.Token // the lexer.CHAR token
	Value rune
}

func (cl *CharLiteral) expressionNode()      {}
func (cl *CharLiteral) TokenLiteral() string { return cl.Token.Literal }
func (cl *CharLiteral) String() string       { return fmt.Sprintf("%q", cl.Value) }

// ByteLiteral represents byte literals like b'a'
type ByteLiteral struct {
	Token lexer.Token // the lexer.BYTE token
	Value byte
}

func (bl *ByteLiteral) expressionNode()      {}
func (bl *ByteLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *ByteLiteral) String() string       { return fmt.Sprintf("b%q", rune(bl.Value)) }

// BooleanLiteral represents boolean literals
type BooleanLiteral struct {
	Token lexer.Token // the lexer.TRUE or lexer.FALSE token
	Value bool
}

func (b *BooleanLiteral) expressionNode()      {}
func (b *BooleanLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BooleanLiteral) String() string       { return b.Token.Literal }

// UnitLiteral represents the unit value '()'
type UnitLiteral struct {
	Token lexer.Token // the '(' token
}

func (ul *UnitLiteral) expressionNode()      {}
func (ul *UnitLiteral) TokenLiteral() string { return ul.Token.Literal }
func (ul *UnitLiteral) String() string       { return "()" }

// NullLiteral represents 'null'
type NullLiteral struct {
	Token lexer.Token // the 'null' token
}

func (nl *NullLiteral) expressionNode()      {}
func (nl *NullLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NullLiteral) String() string       { return "null" }

// CommandLiteral represents backtick shell command literals
type CommandLiteral struct {
	Token   lexer.Token // the lexer.COMMAND token
	Command string
}

func (cl *CommandLiteral) expressionNode()      {}
func (cl *CommandLiteral) TokenLiteral() string { return cl.Token.Literal }
func (cl *CommandLiteral) String() string       { return "`" + cl.Command + "`" }

// PrefixExpression represents prefix expressions like '!x', '-x', '~x', '&x'
type PrefixExpression struct {
	Token    lexer.Token // the prefix token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

// InfixExpression represents infix expressions like 'x + y'
type InfixExpression struct {
	Token    lexer.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (oe *InfixExpression) expressionNode()      {}
func (oe *InfixExpression) TokenLiteral() string { return oe.Token.Literal }
func (oe *InfixExpression) String() string {
	return "(" + oe.Left.String() + " " + oe.Operator + " " + oe.Right.String() + ")"
}

// AssignExpression represents assignment to an identifier, index, or field
type AssignExpression struct {
	Token  lexer.Token // the '=' token
	Target Expression
	Value  Expression
}

func (ae *AssignExpression) expressionNode()      {}
func (ae *AssignExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AssignExpression) String() string {
	return ae.Target.String() + " = " + ae.Value.String()
}

// CompoundAssignExpression represents compound assignments like 'x += 1'
type CompoundAssignExpression struct {
	Token    lexer.Token // the operator token
	Target   Expression
	Operator string // the base operator: "+", "-", "<<", ...
	Value    Expression
}

func (ca *CompoundAssignExpression) expressionNode()      {}
func (ca *CompoundAssignExpression) TokenLiteral() string { return ca.Token.Literal }
func (ca *CompoundAssignExpression) String() string {
	return ca.Target.String() + " " + ca.Operator + "= " + ca.Value.String()
}

// IncDecExpression represents ++x, x++, --x, x--
type IncDecExpression struct {
	Token     lexer.Token // the '++' or '--' token
	Target    Expression
	Operator  string // "++" or "--"
	IsPrefix  bool
	IsPostfix bool
}

func (id *IncDecExpression) expressionNode()      {}
func (id *IncDecExpression) TokenLiteral() string { return id.Token.Literal }
func (id *IncDecExpression) String() string {
	if id.IsPrefix {
		return "(" + id.Operator + id.Target.String() + ")"
	}
	return "(" + id.Target.String() + id.Operator + ")"
}

// Param represents a function or lambda parameter
type Param struct {
	Name    string
	Type    string     // annotated type name, "" if none
	Default Expression // default value, nil if none
}

func (p *Param) String() string {
	s := p.Name
	if p.Type != "" {
		s += ": " + p.Type
	}
	if p.Default != nil {
		s += " = " + p.Default.String()
	}
	return s
}

// FunctionLiteral represents named or anonymous function definitions
type FunctionLiteral struct {
	Token      lexer.Token // the 'fun'/'fn' token
	Name       string      // "" for anonymous functions
	Params     []*Param
	ReturnType string // "" if none
	IsAsync    bool
	Body       *BlockStatement
}

func (fl *FunctionLiteral) expressionNode()      {}
func (fl *FunctionLiteral) statementNode()       {}
func (fl *FunctionLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FunctionLiteral) String() string {
	var out bytes.Buffer
	if fl.IsAsync {
		out.WriteString("async ")
	}
	out.WriteString("fun ")
	out.WriteString(fl.Name)
	out.WriteString("(")
	params := []string{}
	for _, p := range fl.Params {
		params = append(params, p.String())
	}
	out.WriteString(strings.Join(params, ", "))
	out.WriteString(")")
	if fl.ReturnType != "" {
		out.WriteString(" -> " + fl.ReturnType)
	}
	out.WriteString(" ")
	out.WriteString(fl.Body.String())
	return out.String()
}

// LambdaLiteral represents closures like |x| x * 2 or |x, y| { x + y }
type LambdaLiteral struct {
	Token   lexer.Token // the '|' or '||' token
	Params  []*Param
	IsAsync bool
	Body    Expression
}

func (ll *LambdaLiteral) expressionNode()      {}
func (ll *LambdaLiteral) TokenLiteral() string { return ll.Token.Literal }
func (ll *LambdaLiteral) String() string {
	var out bytes.Buffer
	if ll.IsAsync {
		out.WriteString("async ")
	}
	out.WriteString("|")
	params := []string{}
	for _, p := range ll.Params {
		params = append(params, p.String())
	}
	out.WriteString(strings.Join(params, ", "))
	out.WriteString("| ")
	out.WriteString(ll.Body.String())
	return out.String()
}

// CallExpression represents function calls
type CallExpression struct {
	Token     lexer.Token // the '(' token
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) String() string {
	args := []string{}
	for _, a := range ce.Arguments {
		args = append(args, a.String())
	}
	return ce.Function.String() + "(" + strings.Join(args, ", ") + ")"
}

// MethodCallExpression represents method calls like xs.map(f)
type MethodCallExpression struct {
	Token     lexer.Token // the '.' token
	Receiver  Expression
	Method    string
	Arguments []Expression
}

func (mc *MethodCallExpression) expressionNode()      {}
func (mc *MethodCallExpression) TokenLiteral() string { return mc.Token.Literal }
func (mc *MethodCallExpression) String() string {
	args := []string{}
	for _, a := range mc.Arguments {
		args = append(args, a.String())
	}
	return mc.Receiver.String() + "." + mc.Method + "(" + strings.Join(args, ", ") + ")"
}

// FieldAccessExpression represents field access like p.x or p?.x
type FieldAccessExpression struct {
	Token    lexer.Token // the '.' or '?.' token
	Object   Expression
	Field    string
	Optional bool // true for ?. safe navigation
}

func (fa *FieldAccessExpression) expressionNode()      {}
func (fa *FieldAccessExpression) TokenLiteral() string { return fa.Token.Literal }
func (fa *FieldAccessExpression) String() string {
	op := "."
	if fa.Optional {
		op = "?."
	}
	return "(" + fa.Object.String() + op + fa.Field + ")"
}

// IndexExpression represents indexing like arr[0]
type IndexExpression struct {
	Token lexer.Token // the '[' token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) String() string {
	return "(" + ie.Left.String() + "[" + ie.Index.String() + "])"
}

// IfExpression represents if expressions. Alternative is nil, a
// *BlockStatement, or another *IfExpression (else-if chain).
type IfExpression struct {
	Token       lexer.Token // the 'if' token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Expression
}

func (ie *IfExpression) expressionNode()      {}
func (ie *IfExpression) statementNode()       {}
func (ie *IfExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IfExpression) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(ie.Condition.String())
	out.WriteString(" ")
	out.WriteString(ie.Consequence.String())
	if ie.Alternative != nil {
		out.WriteString(" else ")
		out.WriteString(ie.Alternative.String())
	}
	return out.String()
}

// TernaryExpression represents 'cond ? then : else'
type TernaryExpression struct {
	Token     lexer.Token // the '?' token
	Condition Expression
	Then      Expression
	Else      Expression
}

func (te *TernaryExpression) expressionNode()      {}
func (te *TernaryExpression) TokenLiteral() string { return te.Token.Literal }
func (te *TernaryExpression) String() string {
	return "(" + te.Condition.String() + " ? " + te.Then.String() + " : " + te.Else.String() + ")"
}

// MatchArm is one arm of a match expression
type MatchArm struct {
	Pattern Pattern
	Guard   Expression // optional, nil if none
	Body    Expression
}

func (ma *MatchArm) String() string {
	var out bytes.Buffer
	out.WriteString(ma.Pattern.String())
	if ma.Guard != nil {
		out.WriteString(" if ")
		out.WriteString(ma.Guard.String())
	}
	out.WriteString(" => ")
	out.WriteString(ma.Body.String())
	return out.String()
}

// MatchExpression represents match expressions
type MatchExpression struct {
	Token lexer.Token // the 'match' token
	Expr  Expression
	Arms  []*MatchArm
}

func (me *MatchExpression) expressionNode()      {}
func (me *MatchExpression) statementNode()       {}
func (me *MatchExpression) TokenLiteral() string { return me.Token.Literal }
func (me *MatchExpression) String() string {
	var out bytes.Buffer
	out.WriteString("match ")
	out.WriteString(me.Expr.String())
	out.WriteString(" { ")
	arms := []string{}
	for _, a := range me.Arms {
		arms = append(arms, a.String())
	}
	out.WriteString(strings.Join(arms, ", "))
	out.WriteString(" }")
	return out.String()
}

// ForExpression represents 'for pat in iter { body }'
type ForExpression struct {
	Token   lexer.Token // the 'for' token
	Pattern Pattern     // loop variable or destructuring pattern
	Iter    Expression
	Body    *BlockStatement
}

func (fe *ForExpression) expressionNode()      {}
func (fe *ForExpression) statementNode()       {}
func (fe *ForExpression) TokenLiteral() string { return fe.Token.Literal }
func (fe *ForExpression) String() string {
	return "for " + fe.Pattern.String() + " in " + fe.Iter.String() + " " + fe.Body.String()
}

// WhileExpression represents 'while cond { body }'
type WhileExpression struct {
	Token     lexer.Token // the 'while' token
	Condition Expression
	Body      *BlockStatement
}

func (we *WhileExpression) expressionNode()      {}
func (we *WhileExpression) statementNode()       {}
func (we *WhileExpression) TokenLiteral() string { return we.Token.Literal }
func (we *WhileExpression) String() string {
	return "while " + we.Condition.String() + " " + we.Body.String()
}

// LoopExpression represents 'loop { body }'
type LoopExpression struct {
	Token lexer.Token // the 'loop' token
	Body  *BlockStatement
}

func (le *LoopExpression) expressionNode()      {}
func (le *LoopExpression) statementNode()       {}
func (le *LoopExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LoopExpression) String() string       { return "loop " + le.Body.String() }

// ThrowExpression represents 'throw expr'
type ThrowExpression struct {
	Token lexer.Token // the 'throw' token
	Value Expression
}

func (te *ThrowExpression) expressionNode()      {}
func (te *ThrowExpression) statementNode()       {}
func (te *ThrowExpression) TokenLiteral() string { return te.Token.Literal }
func (te *ThrowExpression) String() string       { return "throw " + te.Value.String() }

// CatchClause is one catch arm of a try/catch expression
type CatchClause struct {
	Param   string  // the bound error identifier: catch (e) { ... }
	Pattern Pattern // optional typed pattern, nil for a bare identifier
	Body    *BlockStatement
}

func (cc *CatchClause) String() string {
	if cc.Pattern != nil {
		return "catch (" + cc.Pattern.String() + ") " + cc.Body.String()
	}
	return "catch (" + cc.Param + ") " + cc.Body.String()
}

// TryCatchExpression represents try/catch/finally
type TryCatchExpression struct {
	Token   lexer.Token // the 'try' token
	Try     *BlockStatement
	Catches []*CatchClause
	Finally *BlockStatement // nil if none
}

func (tc *TryCatchExpression) expressionNode()      {}
func (tc *TryCatchExpression) statementNode()       {}
func (tc *TryCatchExpression) TokenLiteral() string { return tc.Token.Literal }
func (tc *TryCatchExpression) String() string {
	var out bytes.Buffer
	out.WriteString("try ")
	out.WriteString(tc.Try.String())
	for _, c := range tc.Catches {
		out.WriteString(" ")
		out.WriteString(c.String())
	}
	if tc.Finally != nil {
		out.WriteString(" finally ")
		out.WriteString(tc.Finally.String())
	}
	return out.String()
}

// ArrayLiteral represents list literals like [1, 2, 3]
type ArrayLiteral struct {
	Token    lexer.Token // the '[' token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Literal }
func (al *ArrayLiteral) String() string {
	elements := []string{}
	for _, el := range al.Elements {
		elements = append(elements, el.String())
	}
	return "[" + strings.Join(elements, ", ") + "]"
}

// ArrayInitExpression represents repeated-value arrays like [0; 10]
type ArrayInitExpression struct {
	Token lexer.Token // the '[' token
	Value Expression
	Size  Expression
}

func (ai *ArrayInitExpression) expressionNode()      {}
func (ai *ArrayInitExpression) TokenLiteral() string { return ai.Token.Literal }
func (ai *ArrayInitExpression) String() string {
	return "[" + ai.Value.String() + "; " + ai.Size.String() + "]"
}

// TupleLiteral represents tuple literals like (1, "a", true)
type TupleLiteral struct {
	Token    lexer.Token // the '(' token
	Elements []Expression
}

func (tl *TupleLiteral) expressionNode()      {}
func (tl *TupleLiteral) TokenLiteral() string { return tl.Token.Literal }
func (tl *TupleLiteral) String() string {
	elements := []string{}
	for _, el := range tl.Elements {
		elements = append(elements, el.String())
	}
	return "(" + strings.Join(elements, ", ") + ")"
}

// RangeExpression represents ranges like 0..10 and 0..=10
type RangeExpression struct {
	Token     lexer.Token // the '..' or '..=' token
	Start     Expression
	End       Expression
	Inclusive bool
}

func (re *RangeExpression) expressionNode()      {}
func (re *RangeExpression) TokenLiteral() string { return re.Token.Literal }
func (re *RangeExpression) String() string {
	op := ".."
	if re.Inclusive {
		op = "..="
	}
	return re.Start.String() + op + re.End.String()
}

// StructLiteralField is one field initializer in a struct literal
type StructLiteralField struct {
	Name  string
	Value Expression
}

// StructLiteral represents struct construction like Point { x: 1, y: 2 }
type StructLiteral struct {
	Token  lexer.Token // the struct name token
	Name   string
	Fields []StructLiteralField
	Base   Expression // optional ..base spread, nil if none
}

func (sl *StructLiteral) expressionNode()      {}
func (sl *StructLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StructLiteral) String() string {
	var out bytes.Buffer
	out.WriteString(sl.Name)
	out.WriteString(" { ")
	fields := []string{}
	for _, f := range sl.Fields {
		fields = append(fields, f.Name+": "+f.Value.String())
	}
	if sl.Base != nil {
		fields = append(fields, ".."+sl.Base.String())
	}
	out.WriteString(strings.Join(fields, ", "))
	out.WriteString(" }")
	return out.String()
}

// ObjectPair is one key-value pair of an object literal, in source order
type ObjectPair struct {
	Key   string
	Value Expression
}

// ObjectLiteral represents anonymous objects like { name: "a", age: 3 }
type ObjectLiteral struct {
	Token lexer.Token // the '{' token
	Pairs []ObjectPair
}

func (ol *ObjectLiteral) expressionNode()      {}
func (ol *ObjectLiteral) TokenLiteral() string { return ol.Token.Literal }
func (ol *ObjectLiteral) String() string {
	pairs := []string{}
	for _, p := range ol.Pairs {
		pairs = append(pairs, p.Key+": "+p.Value.String())
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

// DataFrameColumn is one column of a DataFrame literal
type DataFrameColumn struct {
	Name   string
	Values []Expression
}

// DataFrameLiteral represents df![{col: [vals], ...}] literals
type DataFrameLiteral struct {
	Token   lexer.Token // the 'df' token
	Columns []DataFrameColumn
}

func (df *DataFrameLiteral) expressionNode()      {}
func (df *DataFrameLiteral) TokenLiteral() string { return df.Token.Literal }
func (df *DataFrameLiteral) String() string {
	cols := []string{}
	for _, c := range df.Columns {
		vals := []string{}
		for _, v := range c.Values {
			vals = append(vals, v.String())
		}
		cols = append(cols, c.Name+": ["+strings.Join(vals, ", ")+"]")
	}
	return "df![" + strings.Join(cols, ", ") + "]"
}

// PipelineExpression represents 'value |> stage'
type PipelineExpression struct {
	Token lexer.Token // the '|>' token
	Left  Expression
	Right Expression
}

func (pe *PipelineExpression) expressionNode()      {}
func (pe *PipelineExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PipelineExpression) String() string {
	return "(" + pe.Left.String() + " |> " + pe.Right.String() + ")"
}

// AsyncBlockExpression represents 'async { body }'
type AsyncBlockExpression struct {
	Token lexer.Token // the 'async' token
	Body  *BlockStatement
}

func (ab *AsyncBlockExpression) expressionNode()      {}
func (ab *AsyncBlockExpression) TokenLiteral() string { return ab.Token.Literal }
func (ab *AsyncBlockExpression) String() string       { return "async " + ab.Body.String() }

// AwaitExpression represents 'await e' and 'e.await'
type AwaitExpression struct {
	Token lexer.Token // the 'await' token
	Value Expression
}

func (ae *AwaitExpression) expressionNode()      {}
func (ae *AwaitExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AwaitExpression) String() string       { return "await " + ae.Value.String() }

// SpawnExpression represents 'spawn expr'
type SpawnExpression struct {
	Token lexer.Token // the 'spawn' token
	Value Expression
}

func (se *SpawnExpression) expressionNode()      {}
func (se *SpawnExpression) TokenLiteral() string { return se.Token.Literal }
func (se *SpawnExpression) String() string       { return "spawn " + se.Value.String() }

// SendExpression represents fire-and-forget actor sends: 'actor <- msg'
type SendExpression struct {
	Token   lexer.Token // the '<-' token
	Actor   Expression
	Message Expression
}

func (se *SendExpression) expressionNode()      {}
func (se *SendExpression) statementNode()       {}
func (se *SendExpression) TokenLiteral() string { return se.Token.Literal }
func (se *SendExpression) String() string {
	return se.Actor.String() + " <- " + se.Message.String()
}

// AskExpression represents actor queries: 'actor <? msg'
type AskExpression struct {
	Token   lexer.Token // the '<?' token
	Actor   Expression
	Message Expression
}

func (ae *AskExpression) expressionNode()      {}
func (ae *AskExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AskExpression) String() string {
	return ae.Actor.String() + " <? " + ae.Message.String()
}

// PostfixExpression represents postfix operators, currently just '?'
// (error propagation).
type PostfixExpression struct {
	Token    lexer.Token // the operator token
	Operator string
	Left     Expression
}

func (pe *PostfixExpression) expressionNode()      {}
func (pe *PostfixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PostfixExpression) String() string {
	return "(" + pe.Left.String() + pe.Operator + ")"
}

// GroupedExpression preserves explicit parentheses so the printer can
// round-trip them.
type GroupedExpression struct {
	Token lexer.Token // the '(' token
	Inner Expression
}

func (ge *GroupedExpression) expressionNode()      {}
func (ge *GroupedExpression) TokenLiteral() string { return ge.Token.Literal }
func (ge *GroupedExpression) String() string {
	return "(" + ge.Inner.String() + ")"
}
