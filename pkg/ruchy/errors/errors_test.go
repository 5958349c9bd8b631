package errors

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRuchyError_String(t *testing.T) {
	tests := []struct {
		name     string
		err      *RuchyError
		expected string
	}{
		{
			name: "message only",
			err: &RuchyError{
				Message: "something went wrong",
			},
			expected: "something went wrong",
		},
		{
			name: "with line and column",
			err: &RuchyError{
				Message: "unexpected token",
				Line:    5,
				Column:  10,
			},
			expected: "line 5, column 10: unexpected token",
		},
		{
			name: "with file",
			err: &RuchyError{
				Message: "parse error",
				File:    "script.ruchy",
				Line:    3,
				Column:  1,
			},
			expected: "script.ruchy: line 3, column 1: parse error",
		},
		{
			name: "with hints",
			err: &RuchyError{
				Message: "unbound variable 'lenght'",
				Line:    1,
				Column:  1,
				Hints:   []string{"did you mean 'length'?"},
			},
			expected: "line 1, column 1: unbound variable 'lenght'\n  did you mean 'length'?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCatalogRendering(t *testing.T) {
	tests := []struct {
		code     string
		data     map[string]any
		expected string
	}{
		{"DIV-0001", nil, "division by zero"},
		{"UNDEF-0001", map[string]any{"Name": "foo"}, "identifier not found: foo"},
		{"ARITY-0001", map[string]any{"Expected": 2, "Got": 3}, "wrong number of arguments: expected 2, got 3"},
		{"PARSE-0002", map[string]any{"Token": "}"}, "unexpected token '}'"},
		{"LEX-0003", map[string]any{"Kind": "string"}, "unterminated string literal"},
		{"LIMIT-0001", nil, "evaluation exceeded the configured deadline"},
	}

	for _, tt := range tests {
		err := New(tt.code, tt.data)
		if err.Code != tt.code {
			t.Errorf("%s: wrong code on error: %s", tt.code, err.Code)
		}
		if err.Message != tt.expected {
			t.Errorf("%s: message = %q, want %q", tt.code, err.Message, tt.expected)
		}
	}
}

func TestCatalogClasses(t *testing.T) {
	tests := []struct {
		code  string
		class ErrorClass
	}{
		{"LEX-0001", ClassLex},
		{"PARSE-0001", ClassParse},
		{"TYPE-0001", ClassType},
		{"DIV-0001", ClassDivision},
		{"LIMIT-0003", ClassRecursion},
		{"TRANS-0001", ClassTranspile},
	}

	for _, tt := range tests {
		if err := New(tt.code, nil); err.Class != tt.class {
			t.Errorf("%s: class = %s, want %s", tt.code, err.Class, tt.class)
		}
	}
}

func TestUnknownCode(t *testing.T) {
	err := New("NOPE-9999", nil)
	if err.Class != ClassRuntime {
		t.Errorf("unknown codes should fall back to the runtime class, got %s", err.Class)
	}
	if !strings.Contains(err.Message, "NOPE-9999") {
		t.Errorf("message should name the unknown code: %q", err.Message)
	}
}

func TestNewWithPosition(t *testing.T) {
	err := NewWithPosition("DIV-0001", 7, 12, nil)
	if err.Line != 7 || err.Column != 12 {
		t.Errorf("position = %d:%d, want 7:12", err.Line, err.Column)
	}
}

func TestPrettyString(t *testing.T) {
	parse := NewWithPosition("PARSE-0002", 2, 5, map[string]any{"Token": ";"})
	pretty := parse.PrettyString()
	if !strings.HasPrefix(pretty, "Syntax error") {
		t.Errorf("parse errors should render as syntax errors: %q", pretty)
	}
	if !strings.Contains(pretty, "line 2, column 5") {
		t.Errorf("pretty output should carry the position: %q", pretty)
	}

	runtime := New("DIV-0001", nil)
	if !strings.HasPrefix(runtime.PrettyString(), "Runtime error") {
		t.Errorf("division errors should render as runtime errors: %q", runtime.PrettyString())
	}
}

func TestToJSON(t *testing.T) {
	err := NewWithPosition("UNDEF-0001", 1, 4, map[string]any{"Name": "x"})
	data, jerr := err.ToJSON()
	if jerr != nil {
		t.Fatalf("ToJSON failed: %v", jerr)
	}

	var decoded map[string]any
	if uerr := json.Unmarshal(data, &decoded); uerr != nil {
		t.Fatalf("output is not valid JSON: %v", uerr)
	}
	if decoded["code"] != "UNDEF-0001" {
		t.Errorf("wrong code in JSON: %v", decoded["code"])
	}
	if decoded["line"] != float64(1) {
		t.Errorf("wrong line in JSON: %v", decoded["line"])
	}
}

func TestClosestMatch(t *testing.T) {
	candidates := []string{"length", "filter", "reduce", "counter"}

	tests := []struct {
		name     string
		expected string
	}{
		{"lenght", "length"},
		{"fliter", "filter"},
		{"countr", "counter"},
		{"zzzzzz", ""},
		{"x", ""},
	}

	for _, tt := range tests {
		if got := ClosestMatch(tt.name, candidates); got != tt.expected {
			t.Errorf("ClosestMatch(%q) = %q, want %q", tt.name, got, tt.expected)
		}
	}
}

func TestEditDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"abc", "", 3},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}

	for _, tt := range tests {
		if got := editDistance(tt.a, tt.b); got != tt.expected {
			t.Errorf("editDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.expected)
		}
	}
}
