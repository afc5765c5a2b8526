package main

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Builds a request against the given base URL. Paths that already carry a scheme are used as-is.
func BuildRequestWithBody(ctx context.Context, method string, baseURL string, path string, body io.Reader) (*http.Request, error) {
	target := path
	if !strings.HasPrefix(path, "http") {
		target = strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
	}

	return http.NewRequestWithContext(ctx, method, target, body)
}

// EncodeForm converts a field mapping into a form-urlencoded body.
func EncodeForm(fields map[string]string) string {
	values := url.Values{}
	for key, value := range fields {
		values.Set(key, value)
	}
	return values.Encode()
}

func Plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// Sets User-Agent, Accept, Content-Type and Authorization headers on the given request.
// If contentType is nil, "application/x-www-form-urlencoded; charset=UTF-8" is used.
// If token is empty, no Authorization header is sent.
func SetTypicalHeaders(req *http.Request, contentType *string, token string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	if contentType == nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	} else {
		req.Header.Set("Content-Type", *contentType)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}
