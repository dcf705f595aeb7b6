package normalisers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
	"github.com/custodia-labs/botly/internal/normalisers/docx"
	"github.com/custodia-labs/botly/internal/normalisers/html"
	"github.com/custodia-labs/botly/internal/normalisers/pdf"
	"github.com/custodia-labs/botly/internal/normalisers/plaintext"
)

// Ensure Registry implements the interface.
var _ driven.NormaliserRegistry = (*Registry)(nil)

// extensionTypes maps the supported upload extensions to MIME types.
var extensionTypes = map[string]string{
	".pdf":      "application/pdf",
	".txt":      "text/plain",
	".text":     "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".csv":      "text/csv",
	".html":     "text/html",
	".htm":      "text/html",
	".xhtml":    "application/xhtml+xml",
	".docx":     docx.MIMEType,
}

// MIMETypeFor returns the MIME type for a file path by extension, or ""
// when the extension is not supported.
func MIMETypeFor(path string) string {
	return extensionTypes[strings.ToLower(filepath.Ext(path))]
}

// SupportedExtensions returns the upload extensions in sorted order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(extensionTypes))
	for ext := range extensionTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Registry dispatches documents to normalisers by MIME type.
type Registry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Default returns a registry with the PDF, DOCX, HTML and plain text
// normalisers registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register(pdf.New())
	r.Register(docx.New())
	r.Register(html.New())
	r.Register(plaintext.New())
	return r
}

// Register adds a normaliser, keeping the list ordered by priority.
func (r *Registry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, n)
	sort.SliceStable(r.normalisers, func(i, j int) bool {
		return r.normalisers[i].Priority() > r.normalisers[j].Priority()
	})
}

// Normalise uses the highest-priority normaliser for raw.MIMEType.
// Parameters such as "; charset=utf-8" are ignored when matching.
func (r *Registry) Normalise(ctx context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	n := r.lookup(baseType(raw.MIMEType))
	if n == nil {
		return nil, fmt.Errorf("%w: %q (%s)", domain.ErrUnsupportedType, raw.MIMEType, raw.URI)
	}
	return n.Normalise(ctx, raw)
}

// SupportedMIMETypes returns every MIME type any normaliser handles.
func (r *Registry) SupportedMIMETypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var types []string
	for _, n := range r.normalisers {
		for _, t := range n.SupportedMIMETypes() {
			if !seen[t] {
				seen[t] = true
				types = append(types, t)
			}
		}
	}
	sort.Strings(types)
	return types
}

func (r *Registry) lookup(mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, n := range r.normalisers {
		for _, t := range n.SupportedMIMETypes() {
			if t == mimeType {
				return n
			}
		}
	}
	return nil
}

func baseType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
