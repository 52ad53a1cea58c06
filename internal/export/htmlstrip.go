package export

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// StripEditorMarkup removes the editor plugin's stylesheet link and script
// tag from a shell page so the exported site is read-only.
func StripEditorMarkup(page string) (string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return "", err
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			if isEditorNode(c) {
				n.RemoveChild(c)
			} else {
				walk(c)
			}
			c = next
		}
	}
	walk(doc)

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func isEditorNode(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch n.Data {
	case "link":
		return hasAttr(n, "href", "docsify-editor.css")
	case "script":
		return hasAttr(n, "src", "docsify-editor.js")
	}
	return false
}

func hasAttr(n *html.Node, key, val string) bool {
	for _, a := range n.Attr {
		if a.Key == key && a.Val == val {
			return true
		}
	}
	return false
}
