package library

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/repositories"
	"github.com/lunarpine/resona/internal/shared"
)

// RecentlyPlayedLimit bounds the per-user recently-played list.
const RecentlyPlayedLimit = 20

// RecentSong is a recently-played entry annotated with favorite membership.
type RecentSong struct {
	Song       *models.Song
	IsFavorite bool
}

// UserMusicService manages per-user music state: the bounded recently-played
// list and the favorites set. Both accept external references and materialize
// them before mutating local state.
type UserMusicService struct {
	users        *repositories.UserRepository
	songs        *repositories.SongRepository
	materializer *Materializer
	logger       *log.Logger
}

// NewUserMusicService creates a UserMusicService.
func NewUserMusicService(
	users *repositories.UserRepository,
	songs *repositories.SongRepository,
	materializer *Materializer,
	logger *log.Logger,
) *UserMusicService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &UserMusicService{
		users:        users,
		songs:        songs,
		materializer: materializer,
		logger:       logger.With("service", "usermusic"),
	}
}

// RecordPlay materializes the reference and pushes the song to the front of
// the user's recently-played list. A repeated play moves the song to the
// front; the list never exceeds [RecentlyPlayedLimit] entries.
func (s *UserMusicService) RecordPlay(ctx context.Context, userID, externalRef string) (*models.Song, error) {
	if _, err := s.users.Get(userID); err != nil {
		return nil, err
	}

	song, err := s.materializer.Materialize(ctx, externalRef)
	if err != nil {
		return nil, err
	}

	if err := s.users.RecordPlay(userID, song.ID(), RecentlyPlayedLimit); err != nil {
		return nil, err
	}

	return song, nil
}

// RecentlyPlayed returns the user's recently-played songs, most recent first,
// each annotated with whether it is also a favorite.
func (s *UserMusicService) RecentlyPlayed(userID string) ([]RecentSong, error) {
	if _, err := s.users.Get(userID); err != nil {
		return nil, err
	}

	ids, err := s.users.RecentSongIDs(userID)
	if err != nil {
		return nil, err
	}

	songs, err := s.songs.GetByIDs(ids)
	if err != nil {
		return nil, err
	}

	favoriteIDs, err := s.users.FavoriteSongIDs(userID)
	if err != nil {
		return nil, err
	}
	favorites := make(map[string]bool, len(favoriteIDs))
	for _, id := range favoriteIDs {
		favorites[id] = true
	}

	recents := make([]RecentSong, len(songs))
	for i, song := range songs {
		recents[i] = RecentSong{Song: song, IsFavorite: favorites[song.ID()]}
	}

	return recents, nil
}

// RemoveRecent drops a song from the user's recently-played list by local id.
func (s *UserMusicService) RemoveRecent(userID, songID string) error {
	if _, err := s.users.Get(userID); err != nil {
		return err
	}
	return s.users.RemoveRecent(userID, songID)
}

// AddFavorite materializes the reference and inserts the song into the
// user's favorites set. Adding an existing favorite is a no-op.
func (s *UserMusicService) AddFavorite(ctx context.Context, userID, externalRef string) (*models.Song, error) {
	if _, err := s.users.Get(userID); err != nil {
		return nil, err
	}

	song, err := s.materializer.Materialize(ctx, externalRef)
	if err != nil {
		return nil, err
	}

	if err := s.users.AddFavorite(userID, song.ID()); err != nil {
		return nil, err
	}

	return song, nil
}

// RemoveFavorite drops a song from the user's favorites set by local id.
// Removing a non-member is a no-op that does not fail.
func (s *UserMusicService) RemoveFavorite(userID, songID string) error {
	if _, err := s.users.Get(userID); err != nil {
		return err
	}
	return s.users.RemoveFavorite(userID, songID)
}

// Favorites returns the user's favorite songs.
func (s *UserMusicService) Favorites(userID string) ([]*models.Song, error) {
	if _, err := s.users.Get(userID); err != nil {
		return nil, err
	}

	ids, err := s.users.FavoriteSongIDs(userID)
	if err != nil {
		return nil, err
	}

	return s.songs.GetByIDs(ids)
}
