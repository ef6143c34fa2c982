// Package embedder generates vector embeddings for catalog entries.
//
// The embedding model is an external capability. Two providers are
// available: OpenAI (via the official embeddings API) and a deterministic
// local provider for offline use. Provider "none" disables the capability
// entirely, in which case the retriever runs in keyword-only mode.
//
// Provider calls are wrapped in a bounded exponential backoff; retry lives
// only here, never in the retrieval path. An in-memory LRU cache keyed by
// content hash sits in front of the persistent embedding cache so one
// build never embeds the same text twice.
package embedder
