// Package models defines domain entities and persistence interfaces for the Resona music platform.
//
// Persistent entities:
//   - [User] : platform accounts; recents and favorites live in join tables keyed by user id
//   - [Song] : locally materialized copy of an externally referenced track, unique per external reference
//   - [Playlist] : user-owned ordered song collections
//   - [Post] : social posts carrying either a song snapshot or a playlist reference
//
// Song metadata is a write-once snapshot captured at materialization time and
// never refreshed against the provider; read stability is preferred over
// freshness.
//
// All persistent entities implement the [Model] interface providing ID
// generation, timestamps, validation, and soft delete support. The
// [Repository] interface defines standard CRUD operations for database access.
package models
