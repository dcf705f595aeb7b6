package driven

import (
	"context"

	"github.com/custodia-labs/botly/internal/core/domain"
)

// SiteCrawler walks a website breadth-first, staying on the start URL's host.
type SiteCrawler interface {
	// Crawl fetches pages reachable from startURL within opts.
	// Per-page failures are skipped. An empty result is not an error.
	// Returns the context error if ctx is cancelled; an expired
	// opts.Budget yields a partial, truncated result instead.
	Crawl(ctx context.Context, startURL string, opts domain.CrawlOptions) (*domain.CrawlResult, error)
}
