package fetchmock

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/iaalcantara17/webenv/internal/httpclient"
)

const stubName = "fetch"

type route struct {
	method  string
	pattern string
	handler Handler
	once    bool
}

func (rt *route) matches(call Call) bool {
	if rt.method != "" && rt.method != "*" && !strings.EqualFold(rt.method, call.Method) {
		return false
	}
	if matchTarget(rt.pattern, call.URL) {
		return true
	}
	// Path-only patterns also match against the URL's path, so routes
	// registered as "/api/items" catch calls recorded with a base URL.
	if strings.HasPrefix(rt.pattern, "/") {
		if u, err := url.Parse(call.URL); err == nil && matchTarget(rt.pattern, u.Path) {
			return true
		}
	}
	return false
}

func matchTarget(pattern, target string) bool {
	if pattern == target {
		return true
	}
	ok, err := doublestar.Match(pattern, target)
	return err == nil && ok
}

// Stub is the network-fetch stand-in. The zero value is not usable; use
// New or NewPassthrough.
type Stub struct {
	mu     sync.Mutex
	routes []route
	calls  []Call

	// createPT is wired at creation and survives Reset; testPT is
	// per-test configuration and does not.
	createPT *httpclient.Client
	testPT   *httpclient.Client
}

// New creates a stub whose default behavior rejects every call.
func New() *Stub {
	return &Stub{}
}

// NewPassthrough creates a stub whose unmatched calls proxy over real
// HTTP, for pointing at a local fixture server. A nil client gets the
// package default.
func NewPassthrough(client *httpclient.Client) *Stub {
	if client == nil {
		client = httpclient.New()
	}
	return &Stub{createPT: client}
}

// Name identifies the stand-in in a mock registry.
func (s *Stub) Name() string { return stubName }

// Handle registers a handler for calls whose method and URL match.
// Method "*" (or "") matches any method; the pattern is compared exactly
// and as a doublestar glob, and patterns starting with "/" also match
// the URL's path alone. The newest matching route wins, so a test can
// override a route registered during setup.
func (s *Stub) Handle(method, pattern string, h Handler) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = append(s.routes, route{method: method, pattern: pattern, handler: h})
	return s
}

// HandleOnce registers a handler consumed by a single matching call.
func (s *Stub) HandleOnce(method, pattern string, h Handler) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = append(s.routes, route{method: method, pattern: pattern, handler: h, once: true})
	return s
}

// Respond registers a fixed response for matching calls.
func (s *Stub) Respond(method, pattern string, resp Response) *Stub {
	return s.Handle(method, pattern, func(Call) (Response, error) { return resp, nil })
}

// RespondOnce registers a fixed response consumed by a single call.
func (s *Stub) RespondOnce(method, pattern string, resp Response) *Stub {
	return s.HandleOnce(method, pattern, func(Call) (Response, error) { return resp, nil })
}

// FailWith makes matching calls reject with err.
func (s *Stub) FailWith(method, pattern string, err error) *Stub {
	return s.Handle(method, pattern, func(Call) (Response, error) { return Response{}, err })
}

// Passthrough proxies this test's unmatched calls through the client.
// Cleared by Reset; use NewPassthrough for a passthrough that persists.
func (s *Stub) Passthrough(client *httpclient.Client) *Stub {
	if client == nil {
		client = httpclient.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.testPT = client
	return s
}

// Dispatch routes one call: newest matching route first, then
// passthrough if configured, then the fail-fast default. Every call is
// recorded regardless of outcome.
func (s *Stub) Dispatch(call Call) (Response, error) {
	if call.Time.IsZero() {
		call.Time = time.Now()
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)

	var handler Handler
	for i := len(s.routes) - 1; i >= 0; i-- {
		if s.routes[i].matches(call) {
			handler = s.routes[i].handler
			if s.routes[i].once {
				s.routes = append(s.routes[:i], s.routes[i+1:]...)
			}
			break
		}
	}
	pt := s.testPT
	if pt == nil {
		pt = s.createPT
	}
	s.mu.Unlock()

	if handler != nil {
		return handler(call)
	}
	if pt != nil {
		return forward(pt, call)
	}
	return Response{}, fmt.Errorf("fetch called but not mocked: %s %s",
		strings.ToUpper(call.Method), call.URL)
}

// Calls returns a copy of the recorded calls in call order.
func (s *Stub) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	calls := make([]Call, len(s.calls))
	copy(calls, s.calls)
	return calls
}

// CallCount returns the number of recorded calls.
func (s *Stub) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// LastCall returns the most recent call, if any.
func (s *Stub) LastCall() (Call, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.calls) == 0 {
		return Call{}, false
	}
	return s.calls[len(s.calls)-1], true
}

// Reset drops recorded calls, registered routes, and per-test
// passthrough. The creation-time behavior stays: a stub created with
// New keeps rejecting unmocked calls, one created with NewPassthrough
// keeps proxying.
func (s *Stub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = nil
	s.routes = nil
	s.testPT = nil
}
