package library

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/repositories"
	"github.com/lunarpine/resona/internal/shared"
)

// PostCreate is the input for creating a post. Exactly one of ExternalRef
// (song post) or PlaylistID (playlist post) is used, selected by Type.
type PostCreate struct {
	Type        models.PostType
	Description string
	ExternalRef string
	PlaylistID  string
}

// PostService manages social posts. Song posts capture a denormalized
// snapshot of the song at creation time; playlist posts reference the
// playlist by id.
type PostService struct {
	posts        *repositories.PostRepository
	playlists    *repositories.PlaylistRepository
	materializer *Materializer
	logger       *log.Logger
}

// NewPostService creates a PostService.
func NewPostService(
	posts *repositories.PostRepository,
	playlists *repositories.PlaylistRepository,
	materializer *Materializer,
	logger *log.Logger,
) *PostService {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PostService{
		posts:        posts,
		playlists:    playlists,
		materializer: materializer,
		logger:       logger.With("service", "post"),
	}
}

// Create creates a post for the given user.
//
// A song post materializes the external reference first, then snapshots the
// resulting song's metadata into the post. A playlist post verifies the
// playlist exists.
func (s *PostService) Create(ctx context.Context, userID string, input PostCreate) (*models.Post, error) {
	var post *models.Post

	switch input.Type {
	case models.PostTypeSong:
		song, err := s.materializer.Materialize(ctx, input.ExternalRef)
		if err != nil {
			return nil, err
		}

		snapshot := models.SongSnapshot{
			SongID:      song.ID(),
			ExternalRef: song.ExternalRef(),
			Name:        song.Name(),
			Artist:      song.Artist(),
			Thumbnails:  song.Thumbnails(),
			ViewCount:   song.ViewCount(),
		}
		post = models.NewSongPost(0, userID, input.Description, snapshot)

	case models.PostTypePlaylist:
		if _, err := s.playlists.Get(input.PlaylistID); err != nil {
			return nil, err
		}
		post = models.NewPlaylistPost(0, userID, input.Description, input.PlaylistID)

	default:
		return nil, fmt.Errorf("%w: unknown post type %q", shared.ErrInvalidInput, input.Type)
	}

	if err := s.posts.Create(post); err != nil {
		return nil, err
	}

	s.logger.Info("created post", "id", post.ID(), "type", post.Type(), "user", userID)
	return post, nil
}

// Get returns a post by id with its likes.
func (s *PostService) Get(id string) (*models.Post, error) {
	return s.posts.Get(id)
}

// List returns posts, newest first, optionally filtered by author.
func (s *PostService) List(userID string) ([]*models.Post, error) {
	criteria := map[string]any{}
	if userID != "" {
		criteria["user_id"] = userID
	}
	return s.posts.List(criteria)
}

// ToggleLike flips the user's like on a post and returns the resulting like set.
func (s *PostService) ToggleLike(postID, userID string) ([]string, error) {
	if _, err := s.posts.Get(postID); err != nil {
		return nil, err
	}

	liked, err := s.posts.HasLike(postID, userID)
	if err != nil {
		return nil, err
	}

	if liked {
		if _, err := s.posts.RemoveLike(postID, userID); err != nil {
			return nil, err
		}
	} else {
		if _, err := s.posts.AddLike(postID, userID); err != nil {
			return nil, err
		}
	}

	return s.posts.Likes(postID)
}

// Delete soft-deletes a post on behalf of a user. Only the author may delete
// their post.
func (s *PostService) Delete(id, userID string) error {
	post, err := s.posts.Get(id)
	if err != nil {
		return err
	}
	if post.UserID() != userID {
		return shared.ErrForbidden
	}
	return s.posts.DeleteBy(id, userID)
}
