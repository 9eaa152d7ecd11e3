package fetchmock

import (
	"bytes"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// DecodeText returns the response body as UTF-8 text. The charset comes
// from the Content-Type header when present; otherwise it is detected
// from the bytes. Undecodable bodies fall back to a raw string.
func (r Response) DecodeText() string {
	if len(r.Body) == 0 {
		return ""
	}

	contentType := r.Header("Content-Type")
	if contentType != "" {
		if s, ok := decodeAs(r.Body, contentType); ok {
			return s
		}
	}

	if label := detectCharset(r.Body); label != "" {
		if s, ok := decodeAs(r.Body, "text/plain; charset="+label); ok {
			return s
		}
	}

	return string(r.Body)
}

// detectCharset detects the charset label from raw bytes
func detectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return ""
	}
	return strings.ToLower(result.Charset)
}

func decodeAs(data []byte, contentType string) (string, bool) {
	reader, err := charset.NewReader(bytes.NewReader(data), contentType)
	if err != nil {
		return "", false
	}
	out, err := io.ReadAll(reader)
	if err != nil {
		return "", false
	}
	return string(out), true
}
