package models

import (
	"fmt"
)

// Playlist is a user-owned ordered collection of songs. Membership rows live
// in the playlist_songs join table; SongIDs is populated on detail reads.
type Playlist struct {
	entity
	name    string
	userID  string
	songIDs []string
}

// NewPlaylist creates a Playlist owned by the given user.
func NewPlaylist(sequence int, name, userID string) *Playlist {
	return &Playlist{entity: newEntity(sequence), name: name, userID: userID}
}

func (p *Playlist) Name() string           { return p.name }
func (p *Playlist) SetName(name string)    { p.name = name }
func (p *Playlist) UserID() string         { return p.userID }
func (p *Playlist) SongIDs() []string      { return p.songIDs }
func (p *Playlist) SetSongIDs(ids []string) { p.songIDs = ids }

// Validate checks required fields.
func (p *Playlist) Validate() error {
	if p.name == "" {
		return fmt.Errorf("playlist name is required")
	}
	if p.userID == "" {
		return fmt.Errorf("playlist owner is required")
	}
	return nil
}
