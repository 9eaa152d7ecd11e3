package dom

import (
	"html"
	"sort"
	"strings"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// OuterHTML renders the element and its subtree as HTML text. Attributes
// are written in a stable order so output is comparable in tests.
func (e *Element) OuterHTML() string {
	var b strings.Builder
	e.writeTo(&b)
	return b.String()
}

// InnerHTML renders the element's text and children without the
// enclosing tag
func (e *Element) InnerHTML() string {
	var b strings.Builder
	e.writeInner(&b)
	return b.String()
}

// Text returns the element's text content including descendants
func (e *Element) Text() string {
	parts := []string{}
	if e.TextContent != "" {
		parts = append(parts, e.TextContent)
	}
	for _, child := range e.Children {
		if t := child.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func (e *Element) writeTo(b *strings.Builder) {
	b.WriteString("<")
	b.WriteString(e.TagName)

	if e.ID != "" {
		writeAttr(b, "id", e.ID)
	}
	if e.ClassName != "" {
		writeAttr(b, "class", e.ClassName)
	}

	keys := make([]string, 0, len(e.Attributes))
	for k := range e.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		writeAttr(b, k, e.Attributes[k])
	}

	if voidElements[e.TagName] {
		b.WriteString("/>")
		return
	}

	b.WriteString(">")
	e.writeInner(b)
	b.WriteString("</")
	b.WriteString(e.TagName)
	b.WriteString(">")
}

func (e *Element) writeInner(b *strings.Builder) {
	if e.TextContent != "" {
		b.WriteString(html.EscapeString(e.TextContent))
	}
	for _, child := range e.Children {
		child.writeTo(b)
	}
}

func writeAttr(b *strings.Builder, key, value string) {
	b.WriteString(" ")
	b.WriteString(key)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`"`)
}
