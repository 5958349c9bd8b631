package doc

import (
	"strings"
	"testing"
)

const sampleSource = `/// Adds two integers.
///
/// Overflow wraps.
fun add(x: i32, y: i32) -> i32 {
	x + y
}

// a regular comment, not documentation
fun undocumented() {
	1
}

/// A point in 2D space.
pub struct Point {
	x: i32,
	y: i32,
}

/// Shapes we can draw.
enum Shape {
	Circle(f64),
	Square(f64),
}

/// A counting actor.
actor Counter {
	count: i32
	receive {
		inc() { count += 1 }
	}
}

/// Doubles its argument.
macro_rules! twice {
	($x:expr) => { $x + $x }
}
`

func TestExtract(t *testing.T) {
	items := Extract(sampleSource)

	expected := []struct {
		kind string
		name string
	}{
		{"function", "add"},
		{"function", "undocumented"},
		{"struct", "Point"},
		{"enum", "Shape"},
		{"actor", "Counter"},
		{"macro", "twice"},
	}
	if len(items) != len(expected) {
		t.Fatalf("expected %d items, got %d: %+v", len(expected), len(items), items)
	}
	for i, want := range expected {
		if items[i].Kind != want.kind || items[i].Name != want.name {
			t.Errorf("item %d: got %s %q, want %s %q", i, items[i].Kind, items[i].Name, want.kind, want.name)
		}
	}
}

func TestExtractDocText(t *testing.T) {
	items := Extract(sampleSource)

	add, ok := Lookup(items, "add")
	if !ok {
		t.Fatal("add not found")
	}
	if add.Doc != "Adds two integers.\n\nOverflow wraps." {
		t.Errorf("wrong doc text: %q", add.Doc)
	}
	if add.Signature != "fun add(x: i32, y: i32) -> i32" {
		t.Errorf("wrong signature: %q", add.Signature)
	}
	if add.Line != 4 {
		t.Errorf("wrong line: %d", add.Line)
	}

	// a plain // comment breaks the doc block
	un, _ := Lookup(items, "undocumented")
	if un.Doc != "" {
		t.Errorf("undocumented should have no doc text: %q", un.Doc)
	}
}

func TestExtractBlankLineResetsDoc(t *testing.T) {
	items := Extract(`/// orphaned comment

fun later() { 1 }`)
	later, ok := Lookup(items, "later")
	if !ok {
		t.Fatal("later not found")
	}
	if later.Doc != "" {
		t.Errorf("a blank line should detach the doc comment: %q", later.Doc)
	}
}

func TestExtractVisibilityPrefixes(t *testing.T) {
	items := Extract(`/// Exported.
pub fun visible() { 1 }
/// Async.
async fun fetch() { 2 }`)

	if _, ok := Lookup(items, "visible"); !ok {
		t.Error("pub declarations should be extracted")
	}
	fetched, ok := Lookup(items, "fetch")
	if !ok {
		t.Fatal("async declarations should be extracted")
	}
	if fetched.Kind != "function" {
		t.Errorf("wrong kind: %q", fetched.Kind)
	}
}

func TestLookupMissing(t *testing.T) {
	if _, ok := Lookup(Extract(sampleSource), "nope"); ok {
		t.Error("Lookup should miss on unknown names")
	}
}

func TestMarkdown(t *testing.T) {
	out := Markdown(Extract(sampleSource), "sample")

	if !strings.HasPrefix(out, "# sample\n") {
		t.Errorf("missing title: %q", out[:40])
	}
	if !strings.Contains(out, "## function `add`") {
		t.Errorf("missing add heading:\n%s", out)
	}
	if !strings.Contains(out, "```ruchy\nfun add(x: i32, y: i32) -> i32\n```") {
		t.Errorf("missing signature block:\n%s", out)
	}
	if !strings.Contains(out, "Adds two integers.") {
		t.Errorf("missing doc body:\n%s", out)
	}
	if !strings.Contains(out, "## struct `Point`") {
		t.Errorf("missing struct heading:\n%s", out)
	}
}

func TestMarkdownEmpty(t *testing.T) {
	out := Markdown(nil, "empty")
	if !strings.Contains(out, "No documented items.") {
		t.Errorf("empty input should say so:\n%s", out)
	}
}

func TestHTML(t *testing.T) {
	out, err := HTML(Extract(sampleSource), "sample")
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(out, "<!DOCTYPE html>") {
		t.Error("missing doctype")
	}
	if !strings.Contains(out, "<title>sample</title>") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "<h2") {
		t.Errorf("markdown headings should render as HTML:\n%s", out)
	}
	if !strings.Contains(out, "add") {
		t.Error("missing item content")
	}
}
