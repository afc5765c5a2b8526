package main

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DescribeErrorPage summarises a non-JSON response body for diagnostics.
// HTML pages (server error pages, proxies) are reduced to their title or first heading.
func DescribeErrorPage(contentType string, body []byte) string {
	if !strings.Contains(contentType, "html") && !bytes.Contains(bytes.ToLower(body[:min(len(body), 512)]), []byte("<html")) {
		return truncate(strings.TrimSpace(string(body)), 120)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	for _, selector := range []string{"title", "h1", "h2"} {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return truncate(strings.Join(strings.Fields(text), " "), 120)
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
