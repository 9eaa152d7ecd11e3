package webenv

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// The built-in document queries understand only #id, .class and tag
// selectors. The helpers here parse the serialized document with real
// selector engines for anything richer. Each call sees a snapshot:
// mutate the tree, query again.

// Select runs a full CSS selector over the current document.
func (e *Env) Select(selector string) (*goquery.Selection, error) {
	if e.closed {
		return nil, ErrClosed
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(e.doc.Root.OuterHTML()))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc.Find(selector), nil
}

// SelectText returns the combined text of everything a CSS selector
// matches.
func (e *Env) SelectText(selector string) (string, error) {
	sel, err := e.Select(selector)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sel.Text()), nil
}

// XPath returns the rendered HTML of every XPath match in document
// order.
func (e *Env) XPath(expr string) ([]string, error) {
	if e.closed {
		return nil, ErrClosed
	}

	root, err := htmlquery.Parse(strings.NewReader(e.doc.Root.OuterHTML()))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	nodes, err := htmlquery.QueryAll(root, expr)
	if err != nil {
		return nil, fmt.Errorf("xpath query: %w", err)
	}

	out := make([]string, 0, len(nodes))
	for _, node := range nodes {
		out = append(out, htmlquery.OutputHTML(node, true))
	}
	return out, nil
}

// XPathText returns the text content of the first XPath match, and
// whether anything matched.
func (e *Env) XPathText(expr string) (string, bool, error) {
	if e.closed {
		return "", false, ErrClosed
	}

	root, err := htmlquery.Parse(strings.NewReader(e.doc.Root.OuterHTML()))
	if err != nil {
		return "", false, fmt.Errorf("parse document: %w", err)
	}

	node, err := htmlquery.Query(root, expr)
	if err != nil {
		return "", false, fmt.Errorf("xpath query: %w", err)
	}
	if node == nil {
		return "", false, nil
	}
	return strings.TrimSpace(htmlquery.InnerText(node)), true, nil
}
