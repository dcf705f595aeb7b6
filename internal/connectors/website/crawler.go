package website

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
	"github.com/custodia-labs/botly/internal/logger"
	"github.com/custodia-labs/botly/internal/normalisers/html"
)

// Ensure Crawler implements the interface.
var _ driven.SiteCrawler = (*Crawler)(nil)

const (
	// DefaultUserAgent identifies the crawler to servers.
	DefaultUserAgent = "botly-crawler/1.0"

	// DefaultMaxBodyBytes caps how much of a page body is read.
	DefaultMaxBodyBytes = 5 << 20
)

// Crawler is a sequential, same-host website crawler.
type Crawler struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithHTTPClient sets the HTTP client used for fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Crawler) {
		if client != nil {
			c.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Crawler) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithMaxBodyBytes caps the bytes read per page.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// New creates a crawler. Per-fetch timeouts come from CrawlOptions, so the
// default client carries none of its own.
func New(opts ...Option) *Crawler {
	c := &Crawler{
		client:       &http.Client{},
		userAgent:    DefaultUserAgent,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// crawl holds the state of one Crawl call.
type crawl struct {
	host    string
	queue   []string
	queued  map[string]bool
	limiter *rate.Limiter
	result  *domain.CrawlResult
}

// Crawl walks startURL's host breadth-first until the queue drains,
// opts.MaxPages pages have been fetched, or the budget runs out.
func (c *Crawler) Crawl(ctx context.Context, startURL string, opts domain.CrawlOptions) (*domain.CrawlResult, error) {
	start, err := url.Parse(strings.TrimSpace(startURL))
	if err != nil || start.Host == "" || (start.Scheme != "http" && start.Scheme != "https") {
		return nil, fmt.Errorf("%w: start url %q", domain.ErrInvalidInput, startURL)
	}
	opts = opts.WithDefaults()

	crawlCtx := ctx
	if opts.Budget > 0 {
		var cancel context.CancelFunc
		crawlCtx, cancel = context.WithTimeout(ctx, opts.Budget)
		defer cancel()
	}

	first := start.String()
	st := &crawl{
		host:   start.Host,
		queue:  []string{first},
		queued: map[string]bool{first: true},
		result: &domain.CrawlResult{},
	}
	if opts.Delay > 0 {
		st.limiter = rate.NewLimiter(rate.Every(opts.Delay), 1)
	}

	logger.Debug("crawl %s: max_pages=%d delay=%s budget=%s", first, opts.MaxPages, opts.Delay, opts.Budget)

	for len(st.queue) > 0 && len(st.result.Visited) < opts.MaxPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if crawlCtx.Err() != nil {
			st.result.Truncated = true
			break
		}

		pageURL := st.queue[0]
		st.queue = st.queue[1:]

		if st.limiter != nil {
			if err := st.limiter.Wait(crawlCtx); err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				st.result.Truncated = true
				break
			}
		}

		page, err := c.fetch(crawlCtx, pageURL, opts.FetchTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if crawlCtx.Err() != nil {
				st.result.Truncated = true
				break
			}
			logger.Warn("crawl: skipping %s: %v", pageURL, err)
			st.result.Failed++
			continue
		}

		st.result.Visited = append(st.result.Visited, pageURL)
		if page.Text != "" {
			st.result.Pages = append(st.result.Pages, domain.PageContent{URL: pageURL, Text: page.Text})
		}
		st.discover(pageURL, page.Links)
	}

	logger.Debug("crawl %s: visited=%d pages=%d failed=%d truncated=%t",
		first, len(st.result.Visited), len(st.result.Pages), st.result.Failed, st.result.Truncated)
	return st.result, nil
}

// discover enqueues the eligible links found on pageURL.
func (st *crawl) discover(pageURL string, links []string) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return
	}
	for _, href := range links {
		u, ok := resolve(base, href)
		if !ok || !eligible(u, st.host) {
			continue
		}
		abs := u.String()
		if st.queued[abs] {
			continue
		}
		st.queued[abs] = true
		st.queue = append(st.queue, abs)
	}
}

// errUnsupportedContent marks responses that are not HTML or text.
var errUnsupportedContent = errors.New("unsupported content type")

// fetch downloads and parses one page within timeout.
func (c *Crawler) fetch(ctx context.Context, pageURL string, timeout time.Duration) (*html.Page, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.1")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetch: status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || !textual(mediaType) {
			return nil, fmt.Errorf("%w: %s", errUnsupportedContent, ct)
		}
	}

	page, err := html.Parse(io.LimitReader(resp.Body, c.maxBodyBytes))
	if err != nil {
		return nil, err
	}
	return page, nil
}

func textual(mediaType string) bool {
	return strings.HasPrefix(mediaType, "text/") || strings.Contains(mediaType, "html") ||
		strings.Contains(mediaType, "xml")
}
