// Package tasks implements the curation pipelines that sit between the
// suggestion generator and the music catalog.
//
// # Reconciliation
//
// [Reconciler] turns AI-generated, potentially nonexistent track references
// into a best-effort real playlist. Lookups fan out across a bounded worker
// pool behind a shared rate limiter; results are reassembled by original
// index, so output order always matches input order regardless of which
// lookup finishes first. Every per-track failure degrades to the verbatim
// candidate; a single bad lookup can never abort the batch. When no
// authenticated search is available at all, the candidate list passes
// through untouched: suggestions without verified URIs are still worth
// showing.
//
// Matching is approximate on purpose. A same-title cover or alternate
// recording may be substituted for the intended one; that trade is accepted
// over returning nothing.
//
// # Commit
//
// [CommitEngine] turns a resolved draft into a real playlist: resolve the
// owner, create the shell, insert tracks as one batch. There is no
// transactional guarantee against the external catalog, so a failure after
// shell creation surfaces as [shared.PartialCommitError] carrying the
// created playlist id so callers retry the insertion instead of recreating
// the playlist.
package tasks
