package splunk

import (
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var (
	// Matches "Splunk <session key>" and "Bearer <token>" authorization values.
	authTokenRe = regexp.MustCompile(`(?i)\b(Splunk|Bearer)\s+[^\s"']+`)
	// password=..., "clear_password":"..." and similar.
	passwordKVRe = regexp.MustCompile(`(?i)("?\w*password"?\s*[:=]\s*)("[^"]*"|[^\s,"']+)`)
)

// redactSecrets removes credential-bearing substrings from error text.
func redactSecrets(s string) string {
	if s == "" {
		return ""
	}
	out := authTokenRe.ReplaceAllString(s, "$1 <redacted>")
	out = passwordKVRe.ReplaceAllString(out, "$1<redacted>")
	return strings.TrimSpace(out)
}

// HTTPError is a sanitized summary of a non-2xx REST API response.
type HTTPError struct {
	Op         string
	StatusCode int
	Status     string
	// Snippet is a redacted, truncated part of the response body.
	Snippet string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("splunk api error: op=%s status=%s", e.Op, strings.TrimSpace(e.Status))
	if e.Snippet != "" {
		msg += " body=" + e.Snippet
	}
	return msg
}

func newHTTPError(op string, resp *http.Response, body []byte) error {
	h := &HTTPError{Op: op}
	if resp != nil {
		h.StatusCode = resp.StatusCode
		h.Status = resp.Status
	}
	h.Snippet = redactAndTruncate(body)
	return h
}

func redactAndTruncate(body []byte) string {
	const max = 256
	b := body
	if len(b) > max {
		b = b[:max]
	}
	s := redactSecrets(string(b))
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.TrimSpace(s)
	if s != "" && len(body) > max {
		s += "..."
	}
	return s
}
