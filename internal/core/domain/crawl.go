package domain

import (
	"strings"
	"time"
)

// Crawl defaults.
const (
	DefaultCrawlMaxPages     = 50
	DefaultCrawlDelay        = time.Second
	DefaultCrawlFetchTimeout = 10 * time.Second
)

// CrawlOptions bounds a single website crawl.
type CrawlOptions struct {
	// MaxPages caps the number of successfully fetched pages.
	MaxPages int

	// Delay is the minimum spacing between fetches.
	Delay time.Duration

	// FetchTimeout bounds each individual page fetch.
	FetchTimeout time.Duration

	// Budget bounds the whole crawl. Zero means no budget.
	Budget time.Duration
}

// DefaultCrawlOptions returns the standard crawl bounds.
func DefaultCrawlOptions() CrawlOptions {
	return CrawlOptions{
		MaxPages:     DefaultCrawlMaxPages,
		Delay:        DefaultCrawlDelay,
		FetchTimeout: DefaultCrawlFetchTimeout,
	}
}

// WithDefaults fills unset fields from DefaultCrawlOptions.
// A negative delay disables spacing between fetches.
func (o CrawlOptions) WithDefaults() CrawlOptions {
	d := DefaultCrawlOptions()
	if o.MaxPages <= 0 {
		o.MaxPages = d.MaxPages
	}
	if o.Delay == 0 {
		o.Delay = d.Delay
	}
	if o.Delay < 0 {
		o.Delay = 0
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = d.FetchTimeout
	}
	if o.Budget < 0 {
		o.Budget = 0
	}
	return o
}

// Settings converts options back into their persisted form.
func (o CrawlOptions) Settings() CrawlSettings {
	return CrawlSettings{
		MaxPages:     o.MaxPages,
		Delay:        o.Delay,
		FetchTimeout: o.FetchTimeout,
		Budget:       o.Budget,
	}
}

// PageContent is the text extracted from one crawled page.
type PageContent struct {
	URL  string
	Text string
}

// CrawlResult is the outcome of a website crawl.
type CrawlResult struct {
	// Pages holds non-empty page texts in visit order.
	Pages []PageContent

	// Visited lists every successfully fetched URL in visit order,
	// including pages that yielded no text.
	Visited []string

	// Failed counts fetches or parses that were skipped.
	Failed int

	// Truncated is set when the crawl budget ran out before the queue
	// drained or the page cap was reached.
	Truncated bool
}

// Text aggregates page texts, each headed by its source URL.
// An empty string means no content was found.
func (r *CrawlResult) Text() string {
	if r == nil || len(r.Pages) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.Pages))
	for _, p := range r.Pages {
		parts = append(parts, "\n--- Content from "+p.URL+" ---\n"+p.Text)
	}
	return strings.Join(parts, "\n\n")
}
