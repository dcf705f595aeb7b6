package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/botly/internal/core/domain"
)

// buildPDF writes a minimal uncompressed PDF with one text line per page.
func buildPDF(pages ...string) []byte {
	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}
	kids := make([]string, 0, len(pages))
	for _, text := range pages {
		pageObj := len(objs) + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageObj))
		stream := fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
				"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", pageObj+1),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}
	objs[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, obj := range objs {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return buf.Bytes()
}

func TestSupportedMIMETypes(t *testing.T) {
	assert.Equal(t, []string{"application/pdf"}, New().SupportedMIMETypes())
	assert.Equal(t, 50, New().Priority())
}

func TestNormalise_PagesInOrder(t *testing.T) {
	raw := &domain.RawDocument{
		URI:      "/docs/manual.pdf",
		MIMEType: "application/pdf",
		Content:  buildPDF("First page text", "Second page text", "Third page text"),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Pages)
	content := result.Document.Content
	first := strings.Index(content, "First page text")
	second := strings.Index(content, "Second page text")
	third := strings.Index(content, "Third page text")
	require.GreaterOrEqual(t, first, 0)
	assert.Greater(t, second, first)
	assert.Greater(t, third, second)
	assert.Equal(t, "pdf", result.Document.Metadata["format"])
	assert.Equal(t, 3, result.Document.Metadata["pages"])
	assert.Equal(t, raw.URI, result.Document.URI)
}

func TestNormalise_InvalidPDF(t *testing.T) {
	raw := &domain.RawDocument{URI: "/bad.pdf", Content: []byte("definitely not a pdf")}

	result, err := New().Normalise(context.Background(), raw)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "/bad.pdf")
	assert.Nil(t, result)
}

func TestNormalise_TruncatedPDF(t *testing.T) {
	full := buildPDF("text")
	raw := &domain.RawDocument{URI: "/cut.pdf", Content: full[:len(full)/2]}

	_, err := New().Normalise(context.Background(), raw)

	assert.Error(t, err)
}

func TestNormalise_NilDocument(t *testing.T) {
	result, err := New().Normalise(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)
}

func TestNormalise_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Normalise(ctx, &domain.RawDocument{Content: buildPDF("a")})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		uri      string
		expected string
	}{
		{
			name:     "first line as title",
			content:  "Document Title\n\nSome content here.",
			uri:      "/doc.pdf",
			expected: "Document Title",
		},
		{
			name:     "skip empty lines",
			content:  "\n\n\nActual Title\nContent",
			uri:      "/doc.pdf",
			expected: "Actual Title",
		},
		{
			name:     "fallback to filename",
			content:  "",
			uri:      "/path/to/my_document.pdf",
			expected: "my document",
		},
		{
			name:     "skip very long first line",
			content:  strings.Repeat("x", 250) + "\nShort Title\nContent",
			uri:      "/doc.pdf",
			expected: "Short Title",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, extractTitle(tc.content, tc.uri))
		})
	}
}
