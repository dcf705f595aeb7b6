package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Fields(t *testing.T) {
	now := time.Now()
	doc := Document{
		URI:       "https://example.com/",
		Title:     "Example",
		Content:   "hello",
		Metadata:  map[string]any{"pages": 3},
		CreatedAt: now,
	}

	assert.Equal(t, "https://example.com/", doc.URI)
	assert.Equal(t, "Example", doc.Title)
	assert.Equal(t, 3, doc.Metadata["pages"])
	assert.Equal(t, now, doc.CreatedAt)
}

func TestDocument_IsEmpty(t *testing.T) {
	var nilDoc *Document
	assert.True(t, nilDoc.IsEmpty())
	assert.True(t, (&Document{URI: "a.pdf"}).IsEmpty())
	assert.False(t, (&Document{Content: "x"}).IsEmpty())
}

func TestChunk_Fields(t *testing.T) {
	c := Chunk{ID: 2, DocumentURI: "a.pdf", Content: "abc"}
	assert.Equal(t, 2, c.ID)
	assert.Equal(t, "a.pdf", c.DocumentURI)
	assert.Equal(t, "abc", c.Content)
}
