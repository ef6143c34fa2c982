// Package vector implements semantic search over catalog entries using
// externally supplied embeddings and cosine similarity.
//
// Embeddings are computed once per entry during catalog build and cached
// in a SQLite database keyed by (model id, content hash), so rebuilding
// after an unrelated catalog change skips unchanged content. The cache
// uses a pure Go SQLite driver by default; build with the cgo_sqlite tag
// to use the C implementation.
//
// When no embedding provider is configured the index is simply absent and
// Available() reports false; callers degrade to keyword-only retrieval
// rather than failing.
package vector
