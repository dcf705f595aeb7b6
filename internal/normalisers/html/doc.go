// Package html provides a Normaliser implementation for HTML documents.
// It extracts the human-readable text of a page, skipping scripts and
// styles, and also exposes the page's links for the website crawler.
package html
