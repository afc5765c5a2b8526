package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// DebugRequest renders a request for trace logs. The body is restored after reading,
// and credentials are redacted.
func DebugRequest(req *http.Request) string {
	str := fmt.Sprintf("[%s %s]", req.Method, req.URL.String())

	// Add all headers
	for name, values := range req.Header {
		for _, value := range values {
			if name == "Authorization" {
				value = "[redacted]"
			}
			str += fmt.Sprintf("\n%s: %s", name, value)
		}
	}

	// Add body
	if req.Body != nil {
		body, err := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))

		if err != nil {
			str += fmt.Sprintf("\n\n {error while reading request body buffer: %s}", err)
		} else {
			str += fmt.Sprintf("\n\n%s", redactForm(body))
		}
	}

	return str
}

func redactForm(body []byte) string {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return string(body)
	}
	for _, field := range redactedFields {
		if values.Has(field) {
			values.Set(field, "[redacted]")
		}
	}
	return values.Encode()
}
