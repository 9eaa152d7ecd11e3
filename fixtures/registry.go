package fixtures

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
	"github.com/microcosm-cc/bluemonday"
)

// Fixture is one canned response body.
type Fixture struct {
	Name        string
	ContentType string
	Body        []byte
}

// Registry stores fixtures by name. All methods are safe for concurrent
// use, so parallel test packages can share one registry.
type Registry struct {
	mu        sync.RWMutex
	fixtures  map[string]Fixture
	sanitizer *bluemonday.Policy
}

// NewRegistry creates an empty fixture registry.
func NewRegistry() *Registry {
	return &Registry{
		fixtures:  make(map[string]Fixture),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

// Add registers v under name, encoded as JSON.
func (r *Registry) Add(name string, v interface{}) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode fixture %q: %w", name, err)
	}
	r.put(Fixture{Name: clean(name), ContentType: "application/json", Body: data})
	return nil
}

// AddText registers a plain text fixture.
func (r *Registry) AddText(name, text string) {
	r.put(Fixture{Name: clean(name), ContentType: "text/plain; charset=utf-8", Body: []byte(text)})
}

// AddHTML registers an HTML fixture. The markup is sanitized first so a
// canned page cannot smuggle script into the runtime under test.
func (r *Registry) AddHTML(name, markup string) {
	body := r.sanitizer.Sanitize(markup)
	r.put(Fixture{Name: clean(name), ContentType: "text/html; charset=utf-8", Body: []byte(body)})
}

// AddFile registers raw bytes with a sniffed content type.
func (r *Registry) AddFile(name string, data []byte) {
	body := append([]byte(nil), data...)
	r.put(Fixture{Name: clean(name), ContentType: mimetype.Detect(body).String(), Body: body})
}

// Get returns the fixture registered under name.
func (r *Registry) Get(name string) (Fixture, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.fixtures[clean(name)]
	return f, ok
}

// Remove deletes the fixture registered under name.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.fixtures, clean(name))
}

// List returns all fixture names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.fixtures))
	for name := range r.fixtures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered fixtures.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fixtures)
}

func (r *Registry) put(f Fixture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fixtures[f.Name] = f
}

// clean normalizes a fixture name to the form the routes use: forward
// slashes and no leading slash.
func clean(name string) string {
	return strings.TrimLeft(strings.ReplaceAll(name, "\\", "/"), "/")
}
