package plaintext

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text and Markdown documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{
		"text/plain",
		"text/markdown",
		"text/x-markdown",
		"text/csv",
	}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 5
}

// Normalise decodes the bytes as UTF-8 text. A leading byte order mark is
// dropped, line endings are normalised to "\n", and invalid sequences are
// replaced with U+FFFD.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	data := bytes.TrimPrefix(raw.Content, []byte("\xef\xbb\xbf"))
	content := string(data)
	if !utf8.ValidString(content) {
		content = strings.ToValidUTF8(content, "�")
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")

	metadata := make(map[string]any, len(raw.Metadata)+1)
	for k, v := range raw.Metadata {
		metadata[k] = v
	}
	metadata["mime_type"] = raw.MIMEType

	return &driven.NormaliseResult{
		Document: domain.Document{
			URI:       raw.URI,
			Title:     titleFor(raw),
			Content:   content,
			Metadata:  metadata,
			CreatedAt: time.Now(),
		},
	}, nil
}

// titleFor prefers an explicit metadata title, then the filename.
func titleFor(raw *domain.RawDocument) string {
	if title, ok := raw.Metadata["title"].(string); ok && title != "" {
		return title
	}
	name := filepath.Base(raw.URI)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}
