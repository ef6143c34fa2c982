// Package keyword implements deterministic lexical search over a catalog
// snapshot using TF-IDF scoring.
//
// Each entry's searchable text (id, description, tags, parameter names) is
// tokenized into lowercase word tokens. A query is scored against a
// document as the sum over query terms of tf(t,d) * idf(t), with
// idf(t) = ln(N / df(t)). Two boosts apply on top: an exact-match
// multiplier when a query token equals the entry's bare id, and a
// tag-overlap multiplier proportional to the fraction of query tokens
// found in the tag set. The final score is multiplied by the entry's
// importance score.
//
// Ties are broken by importance and then by id, so repeated searches over
// the same corpus always return the identical ordered list.
package keyword
