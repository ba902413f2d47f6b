// Package services implements clients for the external collaborators of the
// curation pipeline.
//
// [SpotifyCatalog] is a stateless REST client for the Spotify Web API. It
// deliberately avoids the set-token-then-call pattern: bearer tokens are
// parameters on every method, so a single client instance serves all
// concurrent sessions without cross-request interference. HTTP failures are
// classified into the shared error taxonomy (401 authorization rejection,
// 429/5xx transient, everything else an API error) so callers branch on
// error kind rather than status code.
//
// [OpenAIGenerator] drives an OpenAI-compatible chat completion API to turn
// free-text intent into candidate playlists. The model is prompted for a
// strict JSON shape but its output is treated as hostile: the parser digs
// the outermost JSON object out of surrounding prose, drops malformed track
// entries, and reports unparseable output as a generation error.
package services
