package pdf

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
	"github.com/custodia-labs/botly/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// PageSeparator is written between the text of consecutive pages.
const PageSeparator = "\n"

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts the text of every page in order.
// A page that fails to decode is logged and contributes no text.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	pages, err := extractPages(ctx, raw.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", raw.URI, err)
	}

	var texts []string
	for _, text := range pages {
		if text = strings.TrimSpace(text); text != "" {
			texts = append(texts, text)
		}
	}
	content := strings.Join(texts, PageSeparator)

	metadata := make(map[string]any, len(raw.Metadata)+3)
	for k, v := range raw.Metadata {
		metadata[k] = v
	}
	metadata["mime_type"] = raw.MIMEType
	metadata["format"] = "pdf"
	metadata["pages"] = len(pages)

	return &driven.NormaliseResult{
		Document: domain.Document{
			URI:       raw.URI,
			Title:     extractTitle(content, raw.URI),
			Content:   content,
			Metadata:  metadata,
			CreatedAt: time.Now(),
		},
		Pages: len(pages),
	}, nil
}

// extractPages returns the plain text of each page. The parser panics on
// some malformed inputs, so panics are turned into errors.
func extractPages(ctx context.Context, data []byte) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("%w: malformed pdf: %v", domain.ErrInvalidInput, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: open pdf: %w", domain.ErrInvalidInput, err)
	}

	total := reader.NumPage()
	pages = make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logger.Warn("pdf: page %d: %v", i, err)
			text = ""
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// maxTitleLength rules out lines that are body text rather than a heading.
const maxTitleLength = 200

// extractTitle uses the first short non-empty line, falling back to the filename.
func extractTitle(content, uri string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && len(line) <= maxTitleLength {
			return line
		}
	}

	name := filepath.Base(uri)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}
