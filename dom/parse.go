package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseFragment parses an HTML fragment into detached elements, as if it
// appeared inside a body tag. Text nodes fold into the owning element's
// TextContent; interleaving with child elements is not preserved.
func ParseFragment(fragment string) ([]*Element, error) {
	ctx := &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	var elems []*Element
	for _, n := range nodes {
		if e := fromNode(n); e != nil {
			elems = append(elems, e)
		}
	}
	return elems, nil
}

func fromNode(n *html.Node) *Element {
	if n.Type != html.ElementNode {
		return nil
	}

	e := NewElement(n.Data)
	for _, attr := range n.Attr {
		e.SetAttribute(attr.Key, attr.Val)
	}

	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			text.WriteString(c.Data)
		case html.ElementNode:
			if child := fromNode(c); child != nil {
				e.AddElement(child)
			}
		}
	}
	e.TextContent = strings.TrimSpace(text.String())

	return e
}
