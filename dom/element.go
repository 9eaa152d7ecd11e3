// Package dom provides the lightweight document model behind the
// simulated environment. It favors predictable behavior over fidelity:
// simplified selectors, target-only event dispatch, no layout.
package dom

import "strings"

// Element represents a document element
type Element struct {
	TagName     string
	ID          string
	ClassName   string
	TextContent string
	Attributes  map[string]string
	Children    []*Element
	Parent      *Element

	listeners map[string][]listenerEntry
}

type listenerEntry struct {
	key interface{}
	fn  Listener
}

// NewElement creates an element with the given tag
func NewElement(tag string) *Element {
	return &Element{
		TagName:    strings.ToLower(tag),
		Attributes: make(map[string]string),
	}
}

// GetAttribute retrieves attribute value
func (e *Element) GetAttribute(name string) string {
	switch name {
	case "id":
		return e.ID
	case "class":
		return e.ClassName
	}
	return e.Attributes[name]
}

// SetAttribute sets attribute value, keeping id and class in sync
func (e *Element) SetAttribute(name, value string) {
	switch name {
	case "id":
		e.ID = value
	case "class":
		e.ClassName = value
	default:
		e.Attributes[name] = value
	}
}

// LookupAttribute retrieves an attribute and whether it is present
func (e *Element) LookupAttribute(name string) (string, bool) {
	switch name {
	case "id":
		return e.ID, e.ID != ""
	case "class":
		return e.ClassName, e.ClassName != ""
	}
	val, ok := e.Attributes[name]
	return val, ok
}

// RemoveAttribute deletes an attribute
func (e *Element) RemoveAttribute(name string) {
	switch name {
	case "id":
		e.ID = ""
	case "class":
		e.ClassName = ""
	default:
		delete(e.Attributes, name)
	}
}

// HasClass reports whether the class list contains name
func (e *Element) HasClass(name string) bool {
	for _, c := range strings.Fields(e.ClassName) {
		if c == name {
			return true
		}
	}
	return false
}

// Query finds descendants by selector, using the same grammar as
// Document.Query. The element itself is never a match.
func (e *Element) Query(selector string) []*Element {
	match := matchSelector(selector)
	byID := strings.HasPrefix(selector, "#")

	var result []*Element
	for _, child := range e.Children {
		if byID {
			if found := firstMatch(child, match); found != nil {
				return []*Element{found}
			}
			continue
		}
		result = append(result, collect(child, match)...)
	}
	return result
}

// AddElement adds a child element
func (e *Element) AddElement(child *Element) {
	child.Parent = e
	e.Children = append(e.Children, child)
}

// Remove removes element from parent
func (e *Element) Remove() {
	if e.Parent == nil {
		return
	}
	children := e.Parent.Children[:0]
	for _, child := range e.Parent.Children {
		if child != e {
			children = append(children, child)
		}
	}
	e.Parent.Children = children
	e.Parent = nil
}

// AddListener registers a listener for the event type. The key
// identifies the listener for later removal; registering the same key
// for the same type twice keeps a single entry.
func (e *Element) AddListener(typ string, key interface{}, fn Listener) {
	if e.listeners == nil {
		e.listeners = make(map[string][]listenerEntry)
	}
	for _, entry := range e.listeners[typ] {
		if entry.key == key {
			return
		}
	}
	e.listeners[typ] = append(e.listeners[typ], listenerEntry{key: key, fn: fn})
}

// RemoveListener unregisters the listener identified by key
func (e *Element) RemoveListener(typ string, key interface{}) {
	entries := e.listeners[typ]
	for i, entry := range entries {
		if entry.key == key {
			e.listeners[typ] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// Dispatch invokes the element's own listeners for the event type and
// returns how many ran. Events do not bubble.
func (e *Element) Dispatch(ev *Event) int {
	ev.Target = e
	entries := e.listeners[ev.Type]
	fns := make([]Listener, len(entries))
	for i, entry := range entries {
		fns[i] = entry.fn
	}
	for _, fn := range fns {
		fn(ev)
	}
	return len(fns)
}

// DetachListeners drops every listener on this element and its subtree
func (e *Element) DetachListeners() {
	e.listeners = nil
	for _, child := range e.Children {
		child.DetachListeners()
	}
}

// ListenerCount returns the number of listeners on this element and its
// subtree
func (e *Element) ListenerCount() int {
	n := 0
	for _, entries := range e.listeners {
		n += len(entries)
	}
	for _, child := range e.Children {
		n += child.ListenerCount()
	}
	return n
}
