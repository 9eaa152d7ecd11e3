// Package fetchmock provides the network-fetch stand-in for the
// simulated environment.
//
// The stand-in never performs real network work by default: every call
// rejects with an error naming the method and URL so an unmocked fetch
// fails loudly instead of hanging a test. Individual tests register
// responses per method and URL pattern; an optional passthrough proxies
// unmatched calls to a local fixture server.
package fetchmock

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

// Call records one fetch invocation.
type Call struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
	Time    time.Time
}

// Response describes what a mocked fetch yields.
type Response struct {
	Status  int
	Headers map[string]string
	Body    []byte
}

// Handler computes a response for a matched call. Returning an error
// rejects the fetch promise with it.
type Handler func(call Call) (Response, error)

// StatusText returns the standard reason phrase for the response status.
func (r Response) StatusText() string {
	return http.StatusText(r.Status)
}

// OK reports whether the status is in the 2xx range.
func (r Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Header returns a response header value, or "".
func (r Response) Header(name string) string {
	for k, v := range r.Headers {
		if http.CanonicalHeaderKey(k) == http.CanonicalHeaderKey(name) {
			return v
		}
	}
	return ""
}

// JSON builds a 200 response with a sonic-encoded body. Encoding
// failures panic: a fixture that cannot be serialized is a test bug.
func JSON(v interface{}) Response {
	data, err := sonic.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("fetchmock: encode JSON response: %v", err))
	}
	return Response{
		Status:  http.StatusOK,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    data,
	}
}

// Text builds a 200 response with a plain text body.
func Text(s string) Response {
	return Response{
		Status:  http.StatusOK,
		Headers: map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		Body:    []byte(s),
	}
}

// Status builds an empty response with the given status code.
func Status(code int) Response {
	return Response{Status: code}
}
