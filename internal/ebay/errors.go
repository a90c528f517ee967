package ebay

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"
)

var (
	ErrMissingCredentials = errors.New("ebay: missing client credentials")
	// ErrRateLimited matches any StatusError the upstream used to signal
	// throttling or quota exhaustion.
	ErrRateLimited = errors.New("ebay: rate limited")
	ErrBadResponse = errors.New("ebay: malformed response")
	// ErrNoToken wraps every failure to obtain an application token.
	ErrNoToken = errors.New("ebay: no application token")
)

// maxHint bounds how much of an error body is kept.
const maxHint = 240

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Op         string
	StatusCode int
	// Body is the start of the response body.
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrRateLimited) classify throttling answers.
func (e *StatusError) Is(target error) bool {
	return target == ErrRateLimited && IsRateLimited(e.StatusCode, e.Body)
}

var limitMarkers = []string{
	"rate limit",
	"ratelimit",
	"rate-limit",
	"quota",
	"throttl",
	"too many requests",
	"limit exceeded",
}

// IsRateLimited classifies an unsuccessful answer as throttling: HTTP 429,
// or a non-2xx body that talks about rate limits or quotas.
func IsRateLimited(status int, body string) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	if status >= 200 && status < 300 {
		return false
	}
	lower := strings.ToLower(body)
	for _, m := range limitMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// hint trims a response body for errors and diagnostics.
func hint(b []byte) string {
	s := strings.TrimSpace(string(b))
	if utf8.RuneCountInString(s) <= maxHint {
		return s
	}
	r := []rune(s)
	return string(r[:maxHint])
}
