package library

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/repositories"
	"github.com/lunarpine/resona/internal/shared"
)

// PlaylistDetail is a playlist with its songs populated.
type PlaylistDetail struct {
	Playlist *models.Playlist
	Songs    []*models.Song
}

// PlaylistService manages user playlists. Song additions go through the
// materializer so playlists always reference local song identity.
type PlaylistService struct {
	playlists    *repositories.PlaylistRepository
	songs        *repositories.SongRepository
	materializer *Materializer
	logger       *log.Logger
}

// NewPlaylistService creates a PlaylistService.
func NewPlaylistService(
	playlists *repositories.PlaylistRepository,
	songs *repositories.SongRepository,
	materializer *Materializer,
	logger *log.Logger,
) *PlaylistService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PlaylistService{
		playlists:    playlists,
		songs:        songs,
		materializer: materializer,
		logger:       logger.With("service", "playlist"),
	}
}

// Create creates an empty playlist owned by the given user.
func (s *PlaylistService) Create(userID, name string) (*models.Playlist, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: playlist name is required", shared.ErrInvalidInput)
	}

	playlist := models.NewPlaylist(0, name, userID)
	if err := s.playlists.Create(playlist); err != nil {
		return nil, fmt.Errorf("failed to create playlist: %w", err)
	}

	return playlist, nil
}

// ListByUser returns the user's playlists.
func (s *PlaylistService) ListByUser(userID string) ([]*models.Playlist, error) {
	return s.playlists.List(map[string]any{"user_id": userID})
}

// Get returns a playlist without its songs.
func (s *PlaylistService) Get(id string) (*models.Playlist, error) {
	return s.playlists.Get(id)
}

// GetDetail returns a playlist with its songs populated in membership order.
func (s *PlaylistService) GetDetail(id string) (*PlaylistDetail, error) {
	playlist, err := s.playlists.Get(id)
	if err != nil {
		return nil, err
	}

	ids, err := s.playlists.SongIDs(id)
	if err != nil {
		return nil, err
	}
	playlist.SetSongIDs(ids)

	songs, err := s.songs.GetByIDs(ids)
	if err != nil {
		return nil, err
	}

	return &PlaylistDetail{Playlist: playlist, Songs: songs}, nil
}

// AddSong materializes the external reference and adds the resulting song to
// the playlist. Adding a song that is already a member is a no-op.
func (s *PlaylistService) AddSong(ctx context.Context, playlistID, externalRef string) (*models.Song, error) {
	playlist, err := s.playlists.Get(playlistID)
	if err != nil {
		return nil, err
	}

	song, err := s.materializer.Materialize(ctx, externalRef)
	if err != nil {
		return nil, err
	}

	if err := s.playlists.AddSong(playlist.ID(), song.ID()); err != nil {
		return nil, err
	}

	s.logger.Info("added song to playlist", "playlist", playlist.ID(), "song", song.ID())
	return song, nil
}

// RemoveSong removes a song from the playlist by local song id.
func (s *PlaylistService) RemoveSong(playlistID, songID string) error {
	if _, err := s.playlists.Get(playlistID); err != nil {
		return err
	}
	if _, err := s.songs.Get(songID); err != nil {
		return err
	}

	return s.playlists.RemoveSong(playlistID, songID)
}

// Delete soft-deletes a playlist on behalf of a user.
func (s *PlaylistService) Delete(id, deletedBy string) error {
	if _, err := s.playlists.Get(id); err != nil {
		return err
	}
	return s.playlists.DeleteBy(id, deletedBy)
}
