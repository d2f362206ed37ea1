package library

import (
	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/repositories"
)

// SongService exposes the local song catalog. Creation is not offered here;
// songs only come into existence through the [Materializer].
type SongService struct {
	songs *repositories.SongRepository
}

// NewSongService creates a SongService.
func NewSongService(songs *repositories.SongRepository) *SongService {
	return &SongService{songs: songs}
}

// Get returns a song by local id.
func (s *SongService) Get(id string) (*models.Song, error) {
	return s.songs.Get(id)
}

// List returns songs, optionally filtered by a keyword over name and artist.
func (s *SongService) List(keyword string) ([]*models.Song, error) {
	criteria := map[string]any{}
	if keyword != "" {
		criteria["keyword"] = keyword
	}
	return s.songs.List(criteria)
}

// Delete soft-deletes a song on behalf of a user. Playlist memberships and
// favorites referencing the song keep their rows; reads skip deleted songs.
func (s *SongService) Delete(id, deletedBy string) error {
	if _, err := s.songs.Get(id); err != nil {
		return err
	}
	return s.songs.DeleteBy(id, deletedBy)
}
