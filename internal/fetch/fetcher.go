// Package fetch retrieves pages from company sites and job portals with
// the politeness controls scraping demands: per-host rate limiting,
// randomized delays, user-agent rotation, and bot-mitigation detection.
package fetch

import (
	"context"
	"strings"
	"time"
)

// Result is a fetched page. Body is decoded text, already capped at the
// client's size limit.
type Result struct {
	URL         string
	FinalURL    string
	StatusCode  int
	ContentType string
	Body        string
	FetchedAt   time.Time
}

// OK reports whether the fetch produced usable page content.
func (r *Result) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300 && r.Body != ""
}

// IsHTML reports whether the response declared an HTML content type.
// Servers that omit the header are given the benefit of the doubt.
func (r *Result) IsHTML() bool {
	if r == nil {
		return false
	}
	if r.ContentType == "" {
		return true
	}
	return strings.Contains(r.ContentType, "text/html") ||
		strings.Contains(r.ContentType, "application/xhtml")
}

// Fetcher retrieves a single page. Implementations handle retries and
// politeness internally; callers just see the final outcome.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Result, error)
}
