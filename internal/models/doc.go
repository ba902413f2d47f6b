// Package models defines domain entities for the Curator playlist service.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs exchanged with external services
//   - [Track] : AI-suggested candidate track, unverified against the catalog
//   - [ResolvedTrack] : Track after reconciliation, catalog-verified or an explicit fallback
//   - [PlaylistSuggestion] : Generated playlist (name, description, ordered tracks)
//   - [PlaylistDraft] : Ephemeral commit payload (name, description, visibility, track URIs)
//
// 2. Persistent Entities: Cache-backed records
//   - [CachedTrack] : Verified catalog resolution keyed by search query
//
// The resolved list returned by reconciliation always has the same length and
// order as its candidate list; per-track lookup failures degrade to fallbacks,
// never to shorter output.
package models
