package dom

import (
	"strings"
	"testing"
)

func TestNewDocumentSkeleton(t *testing.T) {
	doc := NewDocument()

	if doc.Root.TagName != "html" {
		t.Errorf("Root tag = %q, want html", doc.Root.TagName)
	}
	if doc.Head.Parent != doc.Root || doc.Body.Parent != doc.Root {
		t.Error("head and body should hang off the root")
	}
}

func TestQueryByID(t *testing.T) {
	doc := NewDocument()
	btn := NewElement("button")
	btn.SetAttribute("id", "submit")
	doc.Body.AddElement(btn)

	matches := doc.Query("#submit")
	if len(matches) != 1 || matches[0] != btn {
		t.Fatalf("Query(#submit) = %v", matches)
	}

	if doc.GetElementByID("submit") != btn {
		t.Error("GetElementByID should find the same element")
	}

	if len(doc.Query("#missing")) != 0 {
		t.Error("Query for absent id should return no matches")
	}
}

func TestQueryByClass(t *testing.T) {
	doc := NewDocument()

	a := NewElement("div")
	a.SetAttribute("class", "card highlight")
	b := NewElement("span")
	b.SetAttribute("class", "card")
	c := NewElement("div")
	c.SetAttribute("class", "cardigan")

	doc.Body.AddElement(a)
	doc.Body.AddElement(b)
	a.AddElement(c)

	matches := doc.Query(".card")
	if len(matches) != 2 {
		t.Fatalf("Query(.card) returned %d matches, want 2", len(matches))
	}
	// Class matching is word-based, not substring
	for _, m := range matches {
		if m == c {
			t.Error("'.card' should not match class 'cardigan'")
		}
	}
}

func TestQueryByTag(t *testing.T) {
	doc := NewDocument()
	doc.Body.AddElement(NewElement("p"))
	doc.Body.AddElement(NewElement("p"))

	if got := len(doc.Query("p")); got != 2 {
		t.Errorf("Query(p) returned %d matches, want 2", got)
	}
}

func TestQueryOne(t *testing.T) {
	doc := NewDocument()
	first := NewElement("li")
	doc.Body.AddElement(first)
	doc.Body.AddElement(NewElement("li"))

	if doc.QueryOne("li") != first {
		t.Error("QueryOne should return the first match")
	}
	if doc.QueryOne(".absent") != nil {
		t.Error("QueryOne with no match should return nil")
	}
}

func TestAttributeSync(t *testing.T) {
	e := NewElement("input")
	e.SetAttribute("id", "name")
	e.SetAttribute("class", "field")
	e.SetAttribute("type", "text")

	if e.ID != "name" || e.GetAttribute("id") != "name" {
		t.Error("id attribute should sync with the ID field")
	}
	if e.ClassName != "field" || e.GetAttribute("class") != "field" {
		t.Error("class attribute should sync with the ClassName field")
	}
	if e.GetAttribute("type") != "text" {
		t.Error("plain attributes should round-trip")
	}
}

func TestLookupAttribute(t *testing.T) {
	e := NewElement("a")
	e.SetAttribute("href", "/jobs")

	if val, ok := e.LookupAttribute("href"); !ok || val != "/jobs" {
		t.Errorf("LookupAttribute(href) = %q, %v", val, ok)
	}
	if _, ok := e.LookupAttribute("target"); ok {
		t.Error("absent attribute should report ok=false")
	}
	if _, ok := e.LookupAttribute("id"); ok {
		t.Error("empty id should report ok=false")
	}
}

func TestRemoveAttribute(t *testing.T) {
	e := NewElement("div")
	e.SetAttribute("id", "x")
	e.SetAttribute("data-k", "v")

	e.RemoveAttribute("id")
	e.RemoveAttribute("data-k")

	if e.ID != "" {
		t.Error("RemoveAttribute(id) should clear the ID field")
	}
	if _, ok := e.LookupAttribute("data-k"); ok {
		t.Error("removed attribute should be absent")
	}
}

func TestElementQuery(t *testing.T) {
	root := NewElement("div")
	root.SetAttribute("class", "item")
	inner := NewElement("span")
	inner.SetAttribute("class", "item")
	root.AddElement(inner)

	matches := root.Query(".item")
	if len(matches) != 1 || matches[0] != inner {
		t.Errorf("Query should cover descendants only, got %d matches", len(matches))
	}
}

func TestRemove(t *testing.T) {
	parent := NewElement("ul")
	child := NewElement("li")
	parent.AddElement(child)

	child.Remove()

	if len(parent.Children) != 0 {
		t.Error("Remove should detach the child from its parent")
	}
	if child.Parent != nil {
		t.Error("Remove should clear the parent pointer")
	}

	// Removing a detached element is a no-op
	child.Remove()
}

func TestListeners(t *testing.T) {
	e := NewElement("button")

	fired := 0
	key := "handler-key"
	e.AddListener("click", key, func(*Event) { fired++ })

	// Same key registered twice keeps one entry
	e.AddListener("click", key, func(*Event) { fired += 100 })

	if n := e.Dispatch(NewEvent("click")); n != 1 {
		t.Errorf("Dispatch ran %d listeners, want 1", n)
	}
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}

	e.RemoveListener("click", key)
	if n := e.Dispatch(NewEvent("click")); n != 0 {
		t.Errorf("Dispatch after removal ran %d listeners, want 0", n)
	}
}

func TestDispatchSetsTarget(t *testing.T) {
	e := NewElement("div")

	var target *Element
	e.AddListener("custom", "k", func(ev *Event) { target = ev.Target })
	e.Dispatch(NewEvent("custom"))

	if target != e {
		t.Error("Dispatch should set the event target")
	}
}

func TestDispatchDoesNotBubble(t *testing.T) {
	parent := NewElement("div")
	child := NewElement("button")
	parent.AddElement(child)

	parentFired := false
	parent.AddListener("click", "p", func(*Event) { parentFired = true })

	child.Dispatch(NewEvent("click"))

	if parentFired {
		t.Error("events should not bubble to ancestors")
	}
}

func TestDetachListeners(t *testing.T) {
	parent := NewElement("div")
	child := NewElement("button")
	parent.AddElement(child)

	parent.AddListener("click", "a", func(*Event) {})
	child.AddListener("click", "b", func(*Event) {})
	child.AddListener("focus", "c", func(*Event) {})

	if parent.ListenerCount() != 3 {
		t.Fatalf("ListenerCount = %d, want 3", parent.ListenerCount())
	}

	parent.DetachListeners()

	if parent.ListenerCount() != 0 {
		t.Errorf("ListenerCount after detach = %d, want 0", parent.ListenerCount())
	}
}

func TestParseFragment(t *testing.T) {
	elems, err := ParseFragment(`<div id="app" class="root"><p data-x="1">hello</p><br/></div>`)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	if len(elems) != 1 {
		t.Fatalf("got %d top-level elements, want 1", len(elems))
	}

	div := elems[0]
	if div.TagName != "div" || div.ID != "app" || div.ClassName != "root" {
		t.Errorf("unexpected root element: %+v", div)
	}
	if len(div.Children) != 2 {
		t.Fatalf("got %d children, want 2", len(div.Children))
	}

	p := div.Children[0]
	if p.TagName != "p" || p.TextContent != "hello" || p.GetAttribute("data-x") != "1" {
		t.Errorf("unexpected child element: %+v", p)
	}
}

func TestParseFragmentMultipleRoots(t *testing.T) {
	elems, err := ParseFragment(`<span>a</span><span>b</span>`)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	if len(elems) != 2 {
		t.Fatalf("got %d top-level elements, want 2", len(elems))
	}
}

func TestParseFragmentError(t *testing.T) {
	// The HTML parser is forgiving; garbage yields elements or nothing,
	// never a panic
	elems, err := ParseFragment(`<<<>`)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	_ = elems
}

func TestOuterHTML(t *testing.T) {
	div := NewElement("div")
	div.SetAttribute("id", "x")
	div.SetAttribute("class", "a b")
	div.SetAttribute("data-z", "3")
	div.SetAttribute("data-a", "1")

	p := NewElement("p")
	p.TextContent = "hi <there>"
	div.AddElement(p)
	div.AddElement(NewElement("br"))

	want := `<div id="x" class="a b" data-a="1" data-z="3"><p>hi &lt;there&gt;</p><br/></div>`
	if got := div.OuterHTML(); got != want {
		t.Errorf("OuterHTML =\n%s\nwant\n%s", got, want)
	}
}

func TestOuterHTMLEscapesAttributes(t *testing.T) {
	e := NewElement("span")
	e.SetAttribute("title", `a"b`)

	if got := e.OuterHTML(); !strings.Contains(got, "&#34;") {
		t.Errorf("attribute value should be escaped, got %s", got)
	}
}

func TestText(t *testing.T) {
	div := NewElement("div")
	div.TextContent = "outer"
	p := NewElement("p")
	p.TextContent = "inner"
	div.AddElement(p)

	if got := div.Text(); got != "outer inner" {
		t.Errorf("Text = %q, want %q", got, "outer inner")
	}
}

func TestRoundTrip(t *testing.T) {
	elems, err := ParseFragment(`<ul class="list"><li>one</li><li>two</li></ul>`)
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}

	out := elems[0].OuterHTML()
	want := `<ul class="list"><li>one</li><li>two</li></ul>`
	if out != want {
		t.Errorf("round trip =\n%s\nwant\n%s", out, want)
	}
}
