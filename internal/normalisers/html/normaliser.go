package html

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/html", "application/xhtml+xml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise converts an HTML document into its visible text.
func (n *Normaliser) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := Parse(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", raw.URI, err)
	}

	title := page.Title
	if title == "" {
		title = titleFromURI(raw.URI)
	}

	metadata := copyMetadata(raw.Metadata)
	metadata["mime_type"] = raw.MIMEType
	metadata["format"] = "html"
	metadata["links"] = len(page.Links)

	return &driven.NormaliseResult{
		Document: domain.Document{
			URI:       raw.URI,
			Title:     title,
			Content:   page.Text,
			Metadata:  metadata,
			CreatedAt: time.Now(),
		},
	}, nil
}

// titleFromURI turns "docs/getting-started.html" into "getting started".
func titleFromURI(uri string) string {
	name := filepath.Base(uri)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}

func copyMetadata(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src)+3)
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
