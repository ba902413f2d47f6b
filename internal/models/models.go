// package models defines the data model for the Curator playlist service
package models

import (
	"strings"
	"time"
)

// Artist is a single credited artist on a track.
type Artist struct {
	Name string `json:"name"`
}

// Track represents a suggested track as emitted by the generator.
//
// The URI, when present, is unverified and may reference a recording that
// does not exist. It must never be treated as real before reconciliation.
type Track struct {
	Name    string   `json:"name"`
	Artists []Artist `json:"artists"`
	URI     string   `json:"uri,omitempty"`
}

// Valid reports whether a generated track entry is usable.
// Malformed entries (missing title or artist list) are dropped, not fatal.
func (t Track) Valid() bool {
	if strings.TrimSpace(t.Name) == "" || len(t.Artists) == 0 {
		return false
	}
	for _, a := range t.Artists {
		if strings.TrimSpace(a.Name) == "" {
			return false
		}
	}
	return true
}

// SearchQuery builds the catalog search query for this track by
// concatenating the title with all artist names.
func (t Track) SearchQuery() string {
	parts := make([]string, 0, len(t.Artists)+1)
	parts = append(parts, t.Name)
	for _, a := range t.Artists {
		parts = append(parts, a.Name)
	}
	return strings.Join(parts, " ")
}

// ResolvedTrack is a track after reconciliation. Verified is true when the
// URI is a real catalog identifier; false means the track is the original
// candidate carried through as a fallback.
type ResolvedTrack struct {
	Track
	Verified bool `json:"verified"`
}

// Fallback wraps a candidate track as an unverified resolution.
func Fallback(t Track) ResolvedTrack {
	return ResolvedTrack{Track: t}
}

// PlaylistSuggestion is a generated candidate playlist.
type PlaylistSuggestion struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Tracks      []Track `json:"tracks"`
}

// PlaylistDraft is the ephemeral payload for one commit operation.
// It has no persistence beyond the request that carries it.
type PlaylistDraft struct {
	Name        string
	Description string
	Public      bool
	TrackURIs   []string
}

// CachedTrack is a persisted catalog resolution, keyed by the normalized
// search query that produced it.
type CachedTrack struct {
	ID        int64
	Query     string
	Name      string
	Artists   []string
	URI       string
	CreatedAt time.Time
}

// Resolved converts a cache row back into a verified resolution.
func (c CachedTrack) Resolved() ResolvedTrack {
	artists := make([]Artist, 0, len(c.Artists))
	for _, name := range c.Artists {
		artists = append(artists, Artist{Name: name})
	}
	return ResolvedTrack{
		Track:    Track{Name: c.Name, Artists: artists, URI: c.URI},
		Verified: true,
	}
}

// NormalizeQuery canonicalizes a search query for cache lookups.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}
