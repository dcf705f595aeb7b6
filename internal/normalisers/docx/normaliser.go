package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/botly/internal/core/domain"
	"github.com/custodia-labs/botly/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// MIMEType is the Office Open XML word-processing type.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const (
	documentPart = "word/document.xml"
	corePart     = "docProps/core.xml"
)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts paragraph text from word/document.xml, one line per
// paragraph, including paragraphs inside tables.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not a docx archive: %w", domain.ErrInvalidInput, raw.URI, err)
	}

	body, err := readPart(reader, documentPart)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, raw.URI, err)
	}
	content, err := paragraphs(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, raw.URI, err)
	}

	metadata := make(map[string]any, len(raw.Metadata)+2)
	for k, v := range raw.Metadata {
		metadata[k] = v
	}
	metadata["mime_type"] = raw.MIMEType
	metadata["format"] = "docx"

	return &driven.NormaliseResult{
		Document: domain.Document{
			URI:       raw.URI,
			Title:     title(reader, raw.URI),
			Content:   content,
			Metadata:  metadata,
			CreatedAt: time.Now(),
		},
	}, nil
}

var errMissingPart = errors.New("missing archive part")

func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
	return nil, fmt.Errorf("%w: %s", errMissingPart, name)
}

// paragraphs streams the document XML, emitting the text runs of each
// <w:p> on its own line. Tabs and breaks inside a paragraph are kept.
func paragraphs(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))

	var lines []string
	var line strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				line.WriteByte('\t')
			case "br", "cr":
				line.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				lines = append(lines, line.String())
				line.Reset()
			}
		case xml.CharData:
			if inText {
				line.Write(t)
			}
		}
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

type coreProperties struct {
	Title string `xml:"title"`
}

// title reads docProps/core.xml, falling back to the filename.
func title(reader *zip.Reader, uri string) string {
	if data, err := readPart(reader, corePart); err == nil {
		var core coreProperties
		if err := xml.Unmarshal(data, &core); err == nil {
			if t := strings.TrimSpace(core.Title); t != "" {
				return t
			}
		}
	}

	name := filepath.Base(uri)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.NewReplacer("_", " ", "-", " ").Replace(name)
}
