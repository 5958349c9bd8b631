package interpreter

import (
	"testing"
)

func testInspect(t *testing.T, input, expected string) {
	t.Helper()
	result := testEval(input)
	if errObj, ok := result.(*Error); ok {
		t.Errorf("unexpected error %s for input %q", errObj.Err, input)
		return
	}
	if result.Inspect() != expected {
		t.Errorf("expected %s, got %s for input %q", expected, result.Inspect(), input)
	}
}

func TestArrayMethods(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[1, 2, 3].len()", "3"},
		{"[].is_empty()", "true"},
		{"[1, 2, 3].reverse()", "[3, 2, 1]"},
		{"[3, 1, 2].sort()", "[1, 2, 3]"},
		{"[1, 2, 2, 3, 1].unique()", "[1, 2, 3]"},
		{"[1, 2, 3].contains(2)", "true"},
		{"[1, 2, 3].sum()", "6"},
		{"[1, 2, 3].first()", "Some(1)"},
		{"[].first()", "None"},
		{"[1, 2, 3].take(2)", "[1, 2]"},
		{"[1, 2, 3].skip(1)", "[2, 3]"},
		{"[1, 2].concat([3, 4])", "[1, 2, 3, 4]"},
		{`["a", "b"].join("-")`, "a-b"},
		{"[1, 2, 3].enumerate()", "[(0, 1), (1, 2), (2, 3)]"},
		{"[1, 2].zip([3, 4])", "[(1, 3), (2, 4)]"},
		{"[[1, 2], [3]].flat_map(|x| x)", "[1, 2, 3]"},
	}
	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestHigherOrderMethods(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[1, 2, 3].map(|x| x * 2)", "[2, 4, 6]"},
		{"[1, 2, 3, 4].filter(|x| x % 2 == 0)", "[2, 4]"},
		{"[1, 2, 3].map(|x| x * 2).filter(|x| x > 2)", "[4, 6]"},
		{"[1, 2, 3, 4].reduce(|a, b| a + b, 0)", "10"},
		{"[1, 2, 3].reduce(|a, b| a + b)", "6"},
		{"[1, 2, 3].any(|x| x > 2)", "true"},
		{"[1, 2, 3].all(|x| x > 0)", "true"},
		{"[1, 2, 3].all(|x| x > 1)", "false"},
		{"[1, 2, 3].find(|x| x > 1)", "Some(2)"},
		{"[1, 2, 3].find(|x| x > 9)", "None"},
		{"[].find(|x| true)", "None"},
	}
	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestSingleEvaluationOfArguments(t *testing.T) {
	// an effectful argument expression runs exactly once per call
	input := `
let mut count = 0
fun bump() { count += 1
count }
[10, 20].map(|x| x + bump())
count`
	testInteger(t, input, 2)
}

func TestStringMethods(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello".len()`, "5"},
		{`"hello".to_upper()`, "HELLO"},
		{`"HELLO".to_lower()`, "hello"},
		{`"  pad  ".trim()`, "pad"},
		{`"hello".contains("ell")`, "true"},
		{`"hello".starts_with("he")`, "true"},
		{`"hello".ends_with("lo")`, "true"},
		{`"hello".reverse()`, "olleh"},
		{`"a,b,c".split(",")`, `["a", "b", "c"]`},
		{`"ab".repeat(3)`, "ababab"},
		{`"hello".replace("l", "L")`, "heLLo"},
		{`"42".to_i()`, "42"},
		{`"hello".index_of("ll")`, "Some(2)"},
		{`"hello".index_of("z")`, "None"},
	}
	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestNumericMethods(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"(-5).abs()", "5"},
		{"2.pow(8)", "256"},
		{"9.sqrt()", "3.0"},
		{"3.7.floor()", "3.0"},
		{"3.2.ceil()", "4.0"},
		{"3.5.round()", "4.0"},
		{"3.9.to_i()", "3"},
		{"5.to_f()", "5.0"},
		{"3.min(7)", "3"},
		{"3.max(7)", "7"},
	}
	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestIndexingAndSlicing(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[10, 20, 30][0]", "10"},
		{"[10, 20, 30][-1]", "30"},
		{"[10, 20, 30, 40][1..3]", "[20, 30]"},
		{"(1, 2, 3).1", "2"},
		{`"hello"[1]`, "e"},
		{`"hello"[1..3]`, "el"},
		{"let mut a = [1, 2, 3]\na[0] = 9\na", "[9, 2, 3]"},
	}
	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestHashMaps(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`let m = {"a": 1, "b": 2}` + "\n" + `m["a"]`, "1"},
		{`let m = {"a": 1}` + "\n" + `m.get("a")`, "Some(1)"},
		{`let m = {"a": 1}` + "\n" + `m.get("z")`, "None"},
		{`let m = {"a": 1}` + "\n" + `m.contains_key("a")`, "true"},
		{`let m = {"b": 2, "a": 1}` + "\n" + `m.keys()`, `["a", "b"]`},
		{`let m = {"b": 2, "a": 1}` + "\n" + `m.values()`, "[1, 2]"},
		{`let mut m = {"a": 1}` + "\n" + `m.insert("b", 2)` + "\n" + `m.len()`, "2"},
		{`let m = {"a": 1}` + "\n" + `m["missing"]`, "null"},
	}
	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestHashSets(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[1, 2, 2, 3].to_set().len()", "3"},
		{"[1, 2].to_set().contains(2)", "true"},
		{"[1, 2].to_set().union([2, 3].to_set()).to_array().sort()", "[1, 2, 3]"},
		{"[1, 2, 3].to_set().intersection([2, 3, 4].to_set()).to_array().sort()", "[2, 3]"},
		{"[1, 2, 3].to_set().difference([2].to_set()).to_array().sort()", "[1, 3]"},
	}
	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestDeterministicMapIteration(t *testing.T) {
	input := `let m = {"c": 3, "a": 1, "b": 2}
let mut out = []
for (k, v) in m {
    out.push(k)
}
out`
	for run := 0; run < 5; run++ {
		testInspect(t, input, `["a", "b", "c"]`)
	}
}

func TestRanges(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"(1..5).len()", "4"},
		{"(1..=5).len()", "5"},
		{"(1..5).contains(4)", "true"},
		{"(1..5).contains(5)", "false"},
		{"(1..4).map(|x| x * x)", "[1, 4, 9]"},
		{"(1..=3).sum()", "6"},
	}
	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestOptionMethods(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Some(5).is_some()", "true"},
		{"Some(5).is_none()", "false"},
		{"Some(5).unwrap()", "5"},
		{"Some(5).unwrap_or(0)", "5"},
		{"None.unwrap_or(7)", "7"},
		{"Some(5).map(|x| x * 2)", "Some(10)"},
		{"None.map(|x| x * 2)", "None"},
	}
	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}

func TestUniversalMethods(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"42.to_string()", "42"},
		{"42.type_of()", "i32"},
		{"3.5.type_of()", "f64"},
		{`"s".type_of()`, "String"},
		{"[1].type_of()", "Array"},
		{"true.type_of()", "bool"},
	}
	for _, tt := range tests {
		testInspect(t, tt.input, tt.expected)
	}
}
