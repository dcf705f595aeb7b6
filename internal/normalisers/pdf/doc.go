// Package pdf provides a Normaliser implementation for PDF documents.
// Text is extracted page by page with github.com/ledongthuc/pdf and
// joined in page order.
package pdf
