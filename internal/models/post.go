package models

import (
	"fmt"
)

// PostType discriminates the post attachment variant.
type PostType string

const (
	PostTypeSong     PostType = "SONG"
	PostTypePlaylist PostType = "PLAYLIST"
)

// SongSnapshot is the denormalized song metadata attached to a song post.
// Captured once at post creation and never refreshed.
type SongSnapshot struct {
	SongID      string      `json:"songId"`
	ExternalRef string      `json:"externalRef"`
	Name        string      `json:"name"`
	Artist      string      `json:"artist"`
	Thumbnails  []Thumbnail `json:"thumbnails"`
	ViewCount   int64       `json:"viewCount"`
}

// Post is a social post referencing either a song (by snapshot) or a
// playlist (by id), discriminated by PostType. Exactly one attachment is set.
type Post struct {
	entity
	userID      string
	description string
	postType    PostType
	song        *SongSnapshot
	playlistID  string
	likes       []string
}

// NewSongPost creates a Post carrying a song snapshot.
func NewSongPost(sequence int, userID, description string, song SongSnapshot) *Post {
	return &Post{
		entity:      newEntity(sequence),
		userID:      userID,
		description: description,
		postType:    PostTypeSong,
		song:        &song,
	}
}

// NewPlaylistPost creates a Post referencing an existing playlist.
func NewPlaylistPost(sequence int, userID, description, playlistID string) *Post {
	return &Post{
		entity:      newEntity(sequence),
		userID:      userID,
		description: description,
		postType:    PostTypePlaylist,
		playlistID:  playlistID,
	}
}

func (p *Post) UserID() string        { return p.userID }
func (p *Post) Description() string   { return p.description }
func (p *Post) Type() PostType        { return p.postType }
func (p *Post) Song() *SongSnapshot   { return p.song }
func (p *Post) PlaylistID() string    { return p.playlistID }
func (p *Post) Likes() []string       { return p.likes }
func (p *Post) SetLikes(ids []string) { p.likes = ids }

// Validate checks that exactly one attachment matches the post type.
func (p *Post) Validate() error {
	if p.userID == "" {
		return fmt.Errorf("post author is required")
	}
	switch p.postType {
	case PostTypeSong:
		if p.song == nil {
			return fmt.Errorf("song post requires a song snapshot")
		}
		if p.playlistID != "" {
			return fmt.Errorf("song post cannot reference a playlist")
		}
	case PostTypePlaylist:
		if p.playlistID == "" {
			return fmt.Errorf("playlist post requires a playlist id")
		}
		if p.song != nil {
			return fmt.Errorf("playlist post cannot carry a song snapshot")
		}
	default:
		return fmt.Errorf("unknown post type: %q", p.postType)
	}
	return nil
}
