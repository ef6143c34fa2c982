// Package retriever fuses keyword and vector search results with
// reciprocal rank fusion and re-ranks them by importance. It is the
// single query entry point over a published catalog snapshot; when the
// vector capability is unavailable it degrades to keyword-only mode and
// reports that mode to the caller.
package retriever
