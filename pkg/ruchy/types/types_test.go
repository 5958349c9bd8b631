package types

import (
	"testing"

	"github.com/ruchy-lang/ruchy/pkg/ruchy/lexer"
	"github.com/ruchy-lang/ruchy/pkg/ruchy/parser"
)

func TestUnifyPrimitives(t *testing.T) {
	tests := []struct {
		t1, t2 Type
		ok     bool
	}{
		{Int, Int, true},
		{Float, Float, true},
		{Int, Float, false},
		{Bool, Str, false},
		{Unit, Unit, true},
		{Anything, Int, true},
		{Int, Anything, true},
		{Never, Str, true},
		{&Primitive{Kind: "i32"}, Int, true},
		{&Primitive{Kind: "u8"}, &Primitive{Kind: "u16"}, false},
	}

	for _, tt := range tests {
		_, err := Unify(tt.t1, tt.t2)
		if tt.ok && err != nil {
			t.Errorf("Unify(%s, %s) failed: %v", tt.t1, tt.t2, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("Unify(%s, %s) should have failed", tt.t1, tt.t2)
		}
	}
}

func TestUnifyVariables(t *testing.T) {
	ResetVars()
	a := FreshVar()

	subst, err := Unify(a, Int)
	if err != nil {
		t.Fatalf("Unify failed: %v", err)
	}
	if got := Apply(a, subst); got != Int {
		t.Errorf("variable should resolve to i32, got %s", got)
	}

	// binding a variable to itself is a no-op
	b := FreshVar()
	subst, err = Unify(b, b)
	if err != nil {
		t.Fatalf("self unification failed: %v", err)
	}
	if len(subst) != 0 {
		t.Errorf("self unification should not bind, got %v", subst)
	}
}

func TestUnifyChains(t *testing.T) {
	ResetVars()
	a, b := FreshVar(), FreshVar()

	subst := make(Substitution)
	if err := UnifyInto(a, b, subst); err != nil {
		t.Fatalf("var-var unification failed: %v", err)
	}
	if err := UnifyInto(b, Str, subst); err != nil {
		t.Fatalf("var-primitive unification failed: %v", err)
	}

	// a -> b -> String
	if got := Apply(a, subst); got != Str {
		t.Errorf("chained variable should resolve to String, got %s", got)
	}
}

func TestUnifyCompound(t *testing.T) {
	ResetVars()

	tests := []struct {
		t1, t2 Type
		ok     bool
	}{
		{&List{Elem: Int}, &List{Elem: Int}, true},
		{&List{Elem: Int}, &List{Elem: Str}, false},
		{&List{Elem: Int}, Int, false},
		{&Tuple{Elems: []Type{Int, Str}}, &Tuple{Elems: []Type{Int, Str}}, true},
		{&Tuple{Elems: []Type{Int, Str}}, &Tuple{Elems: []Type{Str, Int}}, false},
		{&Tuple{Elems: []Type{Int}}, &Tuple{Elems: []Type{Int, Int}}, false},
		{
			&Function{Params: []Type{Int}, Return: Bool},
			&Function{Params: []Type{Int}, Return: Bool},
			true,
		},
		{
			&Function{Params: []Type{Int}, Return: Bool},
			&Function{Params: []Type{Str}, Return: Bool},
			false,
		},
		{
			&Function{Params: []Type{Int}, Return: Bool},
			&Function{Params: []Type{Int, Int}, Return: Bool},
			false,
		},
		{&Named{Name: "Point"}, &Named{Name: "Point"}, true},
		{&Named{Name: "Point"}, &Named{Name: "Rect"}, false},
		{
			&Named{Name: "Option", Args: []Type{Int}},
			&Named{Name: "Option", Args: []Type{Int}},
			true,
		},
		{
			&Named{Name: "Option", Args: []Type{Int}},
			&Named{Name: "Option", Args: []Type{Str}},
			false,
		},
	}

	for _, tt := range tests {
		_, err := Unify(tt.t1, tt.t2)
		if tt.ok && err != nil {
			t.Errorf("Unify(%s, %s) failed: %v", tt.t1, tt.t2, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("Unify(%s, %s) should have failed", tt.t1, tt.t2)
		}
	}
}

func TestUnifyThroughVariables(t *testing.T) {
	ResetVars()
	elem := FreshVar()

	subst, err := Unify(&List{Elem: elem}, &List{Elem: Float})
	if err != nil {
		t.Fatalf("Unify failed: %v", err)
	}
	if got := Apply(elem, subst); got != Float {
		t.Errorf("list element should resolve to f64, got %s", got)
	}
}

func TestUnificationErrorCode(t *testing.T) {
	_, err := Unify(Int, Str)
	if err == nil {
		t.Fatal("expected a unification error")
	}
	if got := err.Error(); got != "cannot unify i32 with String" {
		t.Errorf("wrong message: %q", got)
	}
}

func TestFromAnnotation(t *testing.T) {
	tests := []struct {
		anno     string
		expected string
	}{
		{"i32", "i32"},
		{"int", "i32"},
		{"i64", "i64"},
		{"u8", "u8"},
		{"f64", "f64"},
		{"float", "f64"},
		{"bool", "bool"},
		{"String", "String"},
		{"str", "String"},
		{"char", "char"},
		{"()", "()"},
		{"[i32]", "[i32]"},
		{"[i32; 4]", "[i32]"},
		{"(i32, String)", "(i32, String)"},
		{"Vec<i32>", "[i32]"},
		{"Option<String>", "Option<String>"},
		{"HashMap<String, i32>", "HashMap<String, i32>"},
		{"Point", "Point"},
	}

	for _, tt := range tests {
		if got := FromAnnotation(tt.anno).String(); got != tt.expected {
			t.Errorf("FromAnnotation(%q) = %s, want %s", tt.anno, got, tt.expected)
		}
	}
}

func TestFreshVarNames(t *testing.T) {
	ResetVars()
	if a := FreshVar(); a.Name != "t1" {
		t.Errorf("first variable should be t1, got %s", a.Name)
	}
	if b := FreshVar(); b.Name != "t2" {
		t.Errorf("second variable should be t2, got %s", b.Name)
	}
	ResetVars()
	if c := FreshVar(); c.Name != "t1" {
		t.Errorf("reset should restart numbering, got %s", c.Name)
	}
}

func checkSource(t *testing.T, input string) []string {
	t.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse of %q failed: %v", input, errs)
	}

	ResetVars()
	checker := NewChecker()
	var codes []string
	for _, err := range checker.CheckProgram(program) {
		codes = append(codes, err.Code)
	}
	return codes
}

func TestCheckProgram(t *testing.T) {
	valid := []string{
		"let x: i32 = 5",
		"let s: String = \"hi\"",
		"let xs: [i32] = [1, 2, 3]",
		"let pair: (i32, bool) = (1, true)",
		"fun add(x: i32, y: i32) -> i32 { x + y }",
		"let x = 5; let y: i32 = x",
		"let f: f64 = 2.5",
	}
	for _, input := range valid {
		if codes := checkSource(t, input); len(codes) != 0 {
			t.Errorf("%q: unexpected type errors: %v", input, codes)
		}
	}

	invalid := []string{
		"let x: i32 = \"hello\"",
		"let b: bool = 42",
		"let xs: [i32] = [1, true]",
		"let pair: (i32, bool) = (1, 2, 3)",
	}
	for _, input := range invalid {
		codes := checkSource(t, input)
		if len(codes) == 0 {
			t.Errorf("%q: expected a type error", input)
			continue
		}
		if codes[0] != "TYPE-0002" {
			t.Errorf("%q: expected TYPE-0002, got %v", input, codes)
		}
	}
}

func TestCheckAnnotatedPositions(t *testing.T) {
	l := lexer.New("let ok = 1\nlet bad: bool = 99")
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse failed: %v", errs)
	}

	checker := NewChecker()
	errors := checker.CheckProgram(program)
	if len(errors) != 1 {
		t.Fatalf("expected 1 type error, got %d", len(errors))
	}
	if errors[0].Line != 2 {
		t.Errorf("error should point at line 2, got line %d", errors[0].Line)
	}
}
