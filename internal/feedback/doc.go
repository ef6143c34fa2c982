// Package feedback stores user-reported documentation issues in an
// append-only JSONL log and analyzes the log into clusters, a
// prioritized issue list, and maintainer recommendations.
package feedback
