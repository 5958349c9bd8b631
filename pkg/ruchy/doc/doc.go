// Package doc extracts /// documentation comments from source files and
// renders them as markdown or HTML.
package doc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkParser "github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Item is one documented definition: a function, struct, enum, trait,
// actor, or macro.
type Item struct {
	Kind      string // "function", "struct", "enum", "trait", "actor", "macro"
	Name      string
	Signature string // the declaration line without its body
	Doc       string // the /// comment text, markdown
	Line      int    // 1-based line of the declaration
}

// declKinds maps declaration keywords to item kinds. Both 'fun' and 'fn'
// introduce functions.
var declKinds = map[string]string{
	"fun":          "function",
	"fn":           "function",
	"struct":       "struct",
	"enum":         "enum",
	"trait":        "trait",
	"actor":        "actor",
	"macro_rules!": "macro",
}

// Extract scans source for /// comments and the declarations they
// precede. Declarations without doc comments are included with an empty
// Doc so `doc` can still list a file's surface.
func Extract(source string) []Item {
	var items []Item
	var docLines []string

	for idx, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "///") {
			text := strings.TrimPrefix(trimmed, "///")
			docLines = append(docLines, strings.TrimPrefix(text, " "))
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			docLines = nil
			continue
		}

		if item, ok := parseDeclaration(trimmed); ok {
			item.Doc = strings.Join(docLines, "\n")
			item.Line = idx + 1
			items = append(items, item)
		}
		docLines = nil
	}
	return items
}

func parseDeclaration(line string) (Item, bool) {
	rest := strings.TrimPrefix(line, "pub ")
	rest = strings.TrimPrefix(rest, "export ")
	rest = strings.TrimPrefix(rest, "async ")

	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return Item{}, false
	}
	kind, ok := declKinds[fields[0]]
	if !ok {
		return Item{}, false
	}

	name := fields[1]
	if cut := strings.IndexAny(name, "({<"); cut > 0 {
		name = name[:cut]
	}
	name = strings.TrimSuffix(name, "{")
	if name == "" {
		return Item{}, false
	}

	signature := strings.TrimSpace(strings.TrimSuffix(rest, "{"))
	return Item{Kind: kind, Name: name, Signature: signature}, true
}

// Lookup finds a documented item by name, for the REPL's :doc command.
func Lookup(items []Item, name string) (Item, bool) {
	for _, item := range items {
		if item.Name == name {
			return item, true
		}
	}
	return Item{}, false
}

// Markdown renders extracted items as a markdown document.
func Markdown(items []Item, title string) string {
	var out strings.Builder
	fmt.Fprintf(&out, "# %s\n\n", title)
	if len(items) == 0 {
		out.WriteString("No documented items.\n")
		return out.String()
	}
	for _, item := range items {
		fmt.Fprintf(&out, "## %s `%s`\n\n", item.Kind, item.Name)
		fmt.Fprintf(&out, "```ruchy\n%s\n```\n\n", item.Signature)
		if item.Doc != "" {
			out.WriteString(item.Doc)
			out.WriteString("\n\n")
		}
	}
	return out.String()
}

// HTML renders extracted items as a standalone HTML page. The markdown
// body goes through goldmark with GFM extensions, matching how the rest
// of the toolchain renders markdown.
func HTML(items []Item, title string) (string, error) {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(goldmarkParser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(items, title)), &body); err != nil {
		return "", err
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", title)
	page.WriteString("<meta charset=\"utf-8\">\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}
