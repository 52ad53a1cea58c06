package importer

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractTitle returns the first level-1 heading of a markdown document, or
// empty when it has none.
func ExtractTitle(md string) string {
	src := []byte(md)
	docNode := goldmark.New().Parser().Parse(text.NewReader(src))
	for n := docNode.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			return string(h.Text(src))
		}
	}
	return ""
}

// ExtractSections returns all level-2 heading titles in document order.
func ExtractSections(md string) []string {
	src := []byte(md)
	docNode := goldmark.New().Parser().Parse(text.NewReader(src))
	var out []string
	for n := docNode.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 2 {
			out = append(out, string(h.Text(src)))
		}
	}
	return out
}
