// Package flat implements an exact, brute-force L2 vector index.
//
// Vectors are held row-wise in a gonum dense matrix and searched by
// computing the Euclidean distance to every row. An index is immutable
// once built; retraining builds a new one.
//
// # On-disk layout
//
// A persisted index is a directory containing:
//
//   - manifest.toml: format version, embedding provider, model, dimensions, count
//   - vectors.bin: count*dimensions little-endian float32 values, row-major
//   - chunks.jsonl: one {"id":N,"text":"..."} record per line, ids 0..count-1
package flat
