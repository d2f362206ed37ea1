package models

import (
	"fmt"
)

// Song is the locally owned record materialized from an external music
// reference. At most one Song exists per external reference; the songs table
// enforces this with a unique index.
type Song struct {
	entity
	externalRef string
	name        string
	artist      string
	duration    int // seconds, 0 when the provider omitted it
	viewCount   int64
	thumbnails  []Thumbnail
}

// NewSong creates a Song snapshot from provider metadata.
func NewSong(sequence int, externalRef, name, artist string, duration int, thumbnails []Thumbnail) *Song {
	return &Song{
		entity:      newEntity(sequence),
		externalRef: externalRef,
		name:        name,
		artist:      artist,
		duration:    duration,
		thumbnails:  thumbnails,
	}
}

func (s *Song) ExternalRef() string     { return s.externalRef }
func (s *Song) Name() string            { return s.name }
func (s *Song) Artist() string          { return s.artist }
func (s *Song) Duration() int           { return s.duration }
func (s *Song) ViewCount() int64        { return s.viewCount }
func (s *Song) SetViewCount(n int64)    { s.viewCount = n }
func (s *Song) Thumbnails() []Thumbnail { return s.thumbnails }

// Validate checks required fields.
func (s *Song) Validate() error {
	if s.externalRef == "" {
		return fmt.Errorf("song external reference is required")
	}
	if s.name == "" {
		return fmt.Errorf("song name is required")
	}
	return nil
}
