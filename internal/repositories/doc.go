// Package repositories implements SQLite persistence for the track
// resolution cache.
//
// [ResolutionRepository] stores verified catalog matches keyed by the
// normalized search query that produced them, letting the reconciliation
// pipeline skip repeat catalog lookups for popular suggestions. The cache
// holds only public catalog metadata; credentials and session state are
// never written here.
//
// The cache is best-effort end to end: a miss, a conflict, or a broken
// database degrades to a live catalog search, never to a failed request.
package repositories
