package dom

import (
	"strings"
	"sync"
)

// Document is the root of the simulated page: a fixed
// html/head/body skeleton elements are mounted into.
type Document struct {
	Root *Element
	Head *Element
	Body *Element

	mu sync.RWMutex
}

// NewDocument creates an empty document
func NewDocument() *Document {
	root := NewElement("html")
	head := NewElement("head")
	body := NewElement("body")
	root.AddElement(head)
	root.AddElement(body)

	return &Document{
		Root: root,
		Head: head,
		Body: body,
	}
}

// CreateElement creates a detached element owned by this document
func (d *Document) CreateElement(tag string) *Element {
	return NewElement(tag)
}

// Query finds elements matching selector. The grammar covers what the
// querySelector surface needs: #id, .class, and bare tag names.
// Combinators and attribute selectors are not supported. An id query
// yields at most one element.
func (d *Document) Query(selector string) []*Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	match := matchSelector(selector)
	if strings.HasPrefix(selector, "#") {
		if elem := firstMatch(d.Root, match); elem != nil {
			return []*Element{elem}
		}
		return nil
	}
	return collect(d.Root, match)
}

// QueryOne returns the first match for selector, or nil
func (d *Document) QueryOne(selector string) *Element {
	matches := d.Query(selector)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// GetElementByID finds an element by its id attribute
func (d *Document) GetElementByID(id string) *Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return firstMatch(d.Root, func(e *Element) bool { return e.ID == id })
}

// ListenerCount returns the number of listeners in the whole document
func (d *Document) ListenerCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.Root.ListenerCount()
}

// matchSelector compiles one selector into a predicate.
func matchSelector(selector string) func(*Element) bool {
	switch {
	case strings.HasPrefix(selector, "#"):
		id := strings.TrimPrefix(selector, "#")
		return func(e *Element) bool { return e.ID == id }
	case strings.HasPrefix(selector, "."):
		class := strings.TrimPrefix(selector, ".")
		return func(e *Element) bool { return e.HasClass(class) }
	default:
		return func(e *Element) bool { return strings.EqualFold(e.TagName, selector) }
	}
}

// walk visits elem and its descendants in document order until visit
// returns false.
func walk(elem *Element, visit func(*Element) bool) bool {
	if !visit(elem) {
		return false
	}
	for _, child := range elem.Children {
		if !walk(child, visit) {
			return false
		}
	}
	return true
}

func firstMatch(elem *Element, match func(*Element) bool) *Element {
	var found *Element
	walk(elem, func(e *Element) bool {
		if match(e) {
			found = e
			return false
		}
		return true
	})
	return found
}

func collect(elem *Element, match func(*Element) bool) []*Element {
	var result []*Element
	walk(elem, func(e *Element) bool {
		if match(e) {
			result = append(result, e)
		}
		return true
	})
	return result
}
