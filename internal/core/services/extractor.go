package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
	"github.com/custodia-labs/botly/internal/logger"
	"github.com/custodia-labs/botly/internal/normalisers"
)

// MaxFileBytes caps the size of an uploaded file.
const MaxFileBytes = 64 << 20

// Extraction is the text pulled from one upload.
type Extraction struct {
	Document *domain.Document

	// Pages is the page count for paged files or the number of fetched
	// pages for a website.
	Pages int

	// Truncated is set when a crawl budget cut the website short.
	Truncated bool
}

// Extractor turns a file path or a website URL into plain text.
type Extractor struct {
	registry driven.NormaliserRegistry
	crawler  driven.SiteCrawler
	detect   func(path string) string
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithTypeDetector replaces the extension-based MIME type lookup.
func WithTypeDetector(detect func(path string) string) ExtractorOption {
	return func(e *Extractor) {
		if detect != nil {
			e.detect = detect
		}
	}
}

// NewExtractor creates an extractor. The crawler may be nil, in which case
// website extraction returns ErrNotImplemented.
func NewExtractor(registry driven.NormaliserRegistry, crawler driven.SiteCrawler, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		registry: registry,
		crawler:  crawler,
		detect:   normalisers.MIMETypeFor,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFile reads and normalises a local file.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (*Extraction, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty file path", domain.ErrInvalidInput)
	}
	if e.registry == nil {
		return nil, fmt.Errorf("extract %s: normaliser registry not configured", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: file %s", domain.ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if info.Size() > MaxFileBytes {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", domain.ErrInvalidInput, path, MaxFileBytes)
	}

	mimeType := e.detect(path)
	if mimeType == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Ext(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	raw := &domain.RawDocument{
		URI:      path,
		MIMEType: mimeType,
		Content:  content,
		Metadata: map[string]any{
			"filename": filepath.Base(path),
			"size":     info.Size(),
		},
	}

	result, err := e.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", filepath.Base(path), err)
	}

	doc := result.Document
	logger.Debug("Extracted %d characters from %s", len(doc.Content), path)
	return &Extraction{Document: &doc, Pages: result.Pages}, nil
}

// ExtractWebsite crawls startURL and returns the aggregated page text.
// A crawl that finds nothing yields an empty document, not an error.
func (e *Extractor) ExtractWebsite(ctx context.Context, startURL string, opts domain.CrawlOptions) (*Extraction, error) {
	if e.crawler == nil {
		return nil, fmt.Errorf("%w: website crawling is not configured", domain.ErrNotImplemented)
	}

	result, err := e.crawler.Crawl(ctx, startURL, opts)
	if err != nil {
		return nil, fmt.Errorf("crawl %s: %w", startURL, err)
	}

	logger.Info("Crawled %s: %d pages fetched, %d with text, %d failed",
		startURL, len(result.Visited), len(result.Pages), result.Failed)
	if result.Truncated {
		logger.Warn("Crawl of %s stopped early: budget exhausted", startURL)
	}

	doc := &domain.Document{
		URI:       startURL,
		Title:     startURL,
		Content:   result.Text(),
		CreatedAt: time.Now(),
		Metadata: map[string]any{
			"pages":  len(result.Pages),
			"failed": result.Failed,
		},
	}
	return &Extraction{Document: doc, Pages: len(result.Visited), Truncated: result.Truncated}, nil
}
