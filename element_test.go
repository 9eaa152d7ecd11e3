package webenv

import (
	"strings"
	"testing"
)

func TestCreateAndQueryElement(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`
		var el = document.createElement('div');
		el.id = 'box';
		document.body.appendChild(el);
		document.getElementById('box') === el
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v != true {
		t.Error("getElementById should return the same proxy that created the element")
	}
}

func TestElementAttributes(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`
		var el = document.createElement('input');
		var before = el.getAttribute('placeholder');
		el.setAttribute('placeholder', 'name');
		var after = el.getAttribute('placeholder');
		var has = el.hasAttribute('placeholder');
		el.removeAttribute('placeholder');
		[before, after, has, el.hasAttribute('placeholder')]
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	got := v.([]interface{})
	if got[0] != nil {
		t.Errorf("absent attribute = %v, want null", got[0])
	}
	if got[1] != "name" || got[2] != true || got[3] != false {
		t.Errorf("attribute lifecycle: %v", got)
	}
}

func TestElementIDSyncsWithAttribute(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`
		var el = document.createElement('div');
		el.setAttribute('id', 'via-attr');
		var one = el.id;
		el.id = 'via-prop';
		[one, el.getAttribute('id')]
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	got := v.([]interface{})
	if got[0] != "via-attr" || got[1] != "via-prop" {
		t.Errorf("id/attribute sync: %v", got)
	}
}

func TestElementTextContent(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`
		var el = document.createElement('p');
		el.textContent = 'hello world';
		el.textContent
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v != "hello world" {
		t.Errorf("textContent = %v", v)
	}
}

func TestElementTree(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`
		var parent = document.createElement('ul');
		var child = document.createElement('li');
		parent.appendChild(child);
		document.body.appendChild(parent);
		[
			child.parentElement === parent,
			parent.children.length,
			parent.contains(child),
			child.contains(parent),
		]
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	got := v.([]interface{})
	if got[0] != true || got[1] != int64(1) || got[2] != true || got[3] != false {
		t.Errorf("tree relations: %v", got)
	}
}

func TestElementRemoveChild(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`
		var parent = document.createElement('div');
		var child = document.createElement('span');
		parent.appendChild(child);
		parent.removeChild(child);
		parent.children.length
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v != int64(0) {
		t.Errorf("children after removeChild = %v", v)
	}

	if _, err := env.Eval(`
		var a = document.createElement('div');
		var b = document.createElement('div');
		a.removeChild(b)
	`); err == nil {
		t.Error("removeChild of a non-child should throw")
	}
}

func TestElementSubtreeQuery(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`
		var root = document.createElement('div');
		var item = document.createElement('span');
		item.className = 'hit';
		root.appendChild(item);
		document.body.appendChild(root);

		var other = document.createElement('span');
		other.className = 'hit';
		document.body.appendChild(other);

		[root.querySelectorAll('.hit').length, root.querySelector('.hit') === item]
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	got := v.([]interface{})
	if got[0] != int64(1) {
		t.Errorf("subtree query leaked outside the subtree: %v", got[0])
	}
	if got[1] != true {
		t.Error("querySelector should return the matching child proxy")
	}
}

func TestClickDispatchesToListener(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`
		var btn = document.createElement('button');
		document.body.appendChild(btn);
		var clicks = 0;
		var onClick = function () { clicks++; };
		btn.addEventListener('click', onClick);
		btn.addEventListener('click', onClick);
		btn.click();
		btn.click();
		btn.removeEventListener('click', onClick);
		btn.click();
		clicks
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v != int64(2) {
		t.Errorf("clicks = %v, want 2 (dedupe + removal)", v)
	}
}

func TestDispatchEventDeliversSameObject(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`
		var el = document.createElement('div');
		var seenDetail = 0, sameTarget = false;
		el.addEventListener('ping', function (ev) {
			seenDetail = ev.detail.n;
			sameTarget = ev.target === el;
		});
		el.dispatchEvent(new CustomEvent('ping', {detail: {n: 41}}));
		[seenDetail, sameTarget]
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	got := v.([]interface{})
	if got[0] != int64(41) {
		t.Errorf("detail = %v, want 41", got[0])
	}
	if got[1] != true {
		t.Error("event target should be the dispatching element")
	}
}

func TestEventDoesNotBubble(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`
		var parent = document.createElement('div');
		var child = document.createElement('button');
		parent.appendChild(child);
		var parentSaw = false;
		parent.addEventListener('click', function () { parentSaw = true; });
		child.click();
		parentSaw
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v != false {
		t.Error("dispatch is target-only; parent listener must not fire")
	}
}

func TestPointerCapturePatch(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`
		var el = document.createElement('div');
		el.setPointerCapture(1);
		var captured = el.hasPointerCapture(1);
		el.releasePointerCapture(1);
		captured
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v != false {
		t.Errorf("hasPointerCapture = %v, want false even after set", v)
	}

	set, ok := env.Registry().GetFn("Element.setPointerCapture")
	if !ok || set.CallCount() != 1 {
		t.Error("setPointerCapture call not recorded")
	}
	release, ok := env.Registry().GetFn("Element.releasePointerCapture")
	if !ok || release.CallCount() != 1 {
		t.Error("releasePointerCapture call not recorded")
	}
}

func TestPointerEventAliasedToMouseEvent(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`
		[typeof PointerEvent, PointerEvent === MouseEvent, new PointerEvent('pointerdown').button]
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	got := v.([]interface{})
	if got[0] != "function" {
		t.Errorf("typeof PointerEvent = %v", got[0])
	}
	if got[1] != true {
		t.Error("PointerEvent should alias MouseEvent when absent")
	}
	if got[2] != int64(0) {
		t.Errorf("pointer event button = %v, want 0", got[2])
	}
}

func TestElementSerializationAccessors(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`
		var el = document.createElement('a');
		el.setAttribute('href', '/docs');
		el.textContent = 'Docs';
		el.outerHTML
	`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	html, ok := v.(string)
	if !ok {
		t.Fatalf("outerHTML = %v", v)
	}
	for _, want := range []string{"<a", `href="/docs"`, "Docs", "</a>"} {
		if !strings.Contains(html, want) {
			t.Errorf("outerHTML %q missing %q", html, want)
		}
	}
}

func TestDocumentTitle(t *testing.T) {
	env := newTestEnv(t)

	v, err := env.Eval(`document.title = 'My Page'; document.title`)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if v != "My Page" {
		t.Errorf("title = %v", v)
	}
}
