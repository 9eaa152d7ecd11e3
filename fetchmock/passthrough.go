package fetchmock

import (
	"context"
	"strings"

	"github.com/iaalcantara17/webenv/internal/httpclient"
)

// forward proxies an unmatched call over real HTTP and converts the
// result back into a Response.
func forward(client *httpclient.Client, call Call) (Response, error) {
	method := strings.ToUpper(call.Method)
	if method == "" {
		method = "GET"
	}

	resp, err := client.Do(context.Background(), method, call.URL, call.Headers, call.Body)
	if err != nil {
		return Response{}, err
	}

	headers := make(map[string]string)
	for k, v := range resp.Header() {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	return Response{
		Status:  resp.StatusCode(),
		Headers: headers,
		Body:    body,
	}, nil
}
