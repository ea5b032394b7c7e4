// Package fetcher downloads investor web pages and reads firm lists from CSV
// and XLSX files.
package fetcher

import (
	"context"
	"net/http"
)

// Page is a successfully fetched HTML document, decoded to UTF-8.
type Page struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
}

// PageFetcher retrieves a single page. Any non-200 response is an error.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// Browser user agents rotated across requests.
var DefaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
}
