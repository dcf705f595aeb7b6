// Package normalisers turns uploaded files into text documents.
// Each sub-package handles one format; Registry dispatches a raw document
// to the highest-priority normaliser for its MIME type.
package normalisers
