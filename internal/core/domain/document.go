package domain

import "time"

// Document is one unit of extracted text.
// Its identity is its origin; it is immutable once produced.
type Document struct {
	// URI is the origin (file path or URL).
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full extracted text before chunking.
	Content string

	// Metadata contains extractor-specific key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the text was extracted.
	CreatedAt time.Time
}

// IsEmpty reports whether the document carries no text.
func (d *Document) IsEmpty() bool {
	return d == nil || d.Content == ""
}

// Chunk is a fixed-size substring of a document body.
// Once embedded, only the ID and the text survive in the index.
type Chunk struct {
	// ID is the dense identifier assigned in left-to-right order (0..N-1).
	ID int

	// DocumentURI links to the parent Document.
	DocumentURI string

	// Content is the text of this chunk.
	Content string
}

// DataType identifies the kind of source a chatbot was trained on.
type DataType string

// Available data types.
const (
	DataTypeFile    DataType = "file"
	DataTypeWebsite DataType = "website"
)
