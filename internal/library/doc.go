// Package library implements the application services behind the HTTP API.
//
// The central piece is the [Materializer], which maps external music
// references to local [models.Song] records, creating each record exactly
// once on first reference. Every consumer service (playlists, per-user
// recents and favorites, posts) goes through the materializer and then
// operates on stable local song identity, insulating the rest of the system
// from external provider instability.
//
// Concurrency contract: at most one song is ever created per external
// reference. The unique index on songs.external_ref is the authoritative
// guard; an in-process singleflight group collapses concurrent resolutions of
// the same reference so the provider is queried once per miss.
package library
