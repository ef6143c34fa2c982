// Package catalog builds, loads, and publishes immutable knowledge base
// snapshots. A build validates and ingests API and example records,
// derives the keyword and vector indexes concurrently, and publishes the
// result with an atomic pointer swap; in-flight queries keep reading the
// previous snapshot until the swap completes.
package catalog
