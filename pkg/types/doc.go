// Package types defines the shared domain types for the documentation
// knowledge base: catalog entries, feedback issues, and search results.
//
// Catalog types (APIEntry, ExampleEntry, LibraryOverview, KnowledgeBase)
// are immutable after build. A generation run produces a complete new
// snapshot; nothing is mutated in place. Cross-references between APIs and
// examples are string ids resolved through the KnowledgeBase maps, which
// keeps the aggregate acyclic and safe to share across goroutines.
//
// FeedbackIssue records are append-only. Status transitions append a new
// record with the same correlation id rather than rewriting history.
package types
