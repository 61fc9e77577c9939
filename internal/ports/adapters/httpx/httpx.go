// Package httpx holds the failure mapping and retry policy shared by the
// transcription and summarization HTTP clients.
package httpx

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/forPelevin/scribe/internal/types"
)

const (
	// MaxAttempts bounds retryable calls: one initial attempt plus two
	// retries before the failure becomes fatal.
	MaxAttempts = 3

	// BaseDelay is the pause between attempts when the service does not
	// suggest its own via Retry-After.
	BaseDelay = 2 * time.Second
)

// ClassifyStatus maps a non-2xx HTTP status to a typed API error. The body
// should already be redacted and truncated by the caller.
func ClassifyStatus(service string, status int, body string) *types.APIError {
	var kind types.APIErrorKind
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = types.APIAuthFailed
	case status == http.StatusTooManyRequests:
		kind = types.APIRateLimited
	case status >= 500:
		kind = types.APIServiceUnavailable
	default:
		// 400/404/413/415/422 and anything else client-shaped: the request
		// itself is wrong and a retry cannot fix it.
		kind = types.APIInvalidRequest
	}
	return &types.APIError{Service: service, Kind: kind, Status: status, Msg: body}
}

// ConnectionError wraps a transport-level failure (DNS, TCP, TLS, timeout).
func ConnectionError(service string, err error) *types.APIError {
	return &types.APIError{Service: service, Kind: types.APIConnectionFailed, Msg: err.Error()}
}

// RetryDelay returns the pause before the next attempt, honoring a
// Retry-After header (in seconds) when the response carries one.
func RetryDelay(resp *http.Response) time.Duration {
	if resp != nil {
		if s := resp.Header.Get("Retry-After"); s != "" {
			if sec, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && sec >= 0 {
				return time.Duration(sec) * time.Second
			}
		}
	}
	return BaseDelay
}

// Sleep waits for d or until ctx is done, whichever comes first.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

// Redact strips credentials from service error bodies before they end up in
// logs or error messages.
func Redact(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}

// Truncate caps s at n runes for error messages.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
