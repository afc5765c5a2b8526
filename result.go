package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
)

// Document is a parsed JSON object returned by the API.
type Document map[string]interface{}

// HttpResult is produced once per request and consumed once by the issuing flow.
type HttpResult struct {
	StatusCode int
	Body       Document
	Err        error
}

// OK reports whether the request completed with a 200 and a parseable body.
// Transport and parse failures are never OK.
func (r HttpResult) OK() bool {
	return r.Err == nil && r.StatusCode == http.StatusOK
}

// ParseDocument parses a JSON object. An empty body yields an empty document.
func ParseDocument(raw []byte) (Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Document{}, nil
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("expected a JSON object, got %q", raw)
	}
	return doc, nil
}

// String extracts a non-empty string field.
func (d Document) String(field string) (string, error) {
	if d == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	value, err := jsonpath.Get("$."+field, map[string]interface{}(d))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMissingField, field, err)
	}

	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T, not a string", ErrMalformedPayload, field, value)
	}
	if str == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrMissingField, field)
	}
	return str, nil
}

// Message returns the server's human-readable message, if any.
func (d Document) Message() string {
	for _, field := range []string{"message", "result", "error"} {
		if msg, err := d.String(field); err == nil {
			return msg
		}
	}
	return ""
}

var redactedFields = []string{"password", "session_token", "token"}

// RedactDocument returns a copy of the document safe for logging.
func RedactDocument(doc Document) Document {
	out := make(Document, len(doc))
	for key, value := range doc {
		out[key] = value
	}
	for _, field := range redactedFields {
		if _, ok := out[field]; ok {
			out[field] = "[redacted]"
		}
	}
	return out
}
