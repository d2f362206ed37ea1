package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/shared"
)

// PostRepository implements models.Repository[*models.Post].
//
// The song attachment is stored as a JSON snapshot column; the playlist
// attachment is a foreign key. Likes live in the post_likes join table with
// set semantics.
type PostRepository struct {
	db *sql.DB
}

// NewPostRepository creates a new PostRepository with the given database connection
func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create inserts a new [models.Post] with generated ID and sequence
func (r *PostRepository) Create(post *models.Post) error {
	sequence, err := NextSequence(r.db, "posts")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	post.SetSequence(sequence)

	id := shared.GenerateID()
	post.SetID(id)

	if err := post.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var snapshot any
	if post.Song() != nil {
		data, err := json.Marshal(post.Song())
		if err != nil {
			return fmt.Errorf("failed to encode song snapshot: %w", err)
		}
		snapshot = string(data)
	}

	var playlistID any
	if post.PlaylistID() != "" {
		playlistID = post.PlaylistID()
	}

	query := `
		INSERT INTO posts (id, sequence, user_id, description, post_type, song_snapshot, playlist_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		post.UserID(),
		post.Description(),
		string(post.Type()),
		snapshot,
		playlistID,
		post.CreatedAt(),
		post.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// Get retrieves a post by ID with its likes, excluding soft-deleted posts
func (r *PostRepository) Get(id string) (*models.Post, error) {
	query := postSelect + ` WHERE id = ? AND deleted_at IS NULL`

	post, err := r.scan(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, shared.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	likes, err := r.Likes(id)
	if err != nil {
		return nil, err
	}
	post.SetLikes(likes)

	return post, nil
}

// Update modifies a post's description
func (r *PostRepository) Update(post *models.Post) error {
	if err := post.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	post.SetUpdatedAt(now)

	result, err := r.db.Exec(
		`UPDATE posts SET description = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		post.Description(), now, post.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPostNotFound, post.ID())
	}

	return nil
}

// Delete soft-deletes a post by ID
func (r *PostRepository) Delete(id string) error {
	return r.DeleteBy(id, "")
}

// DeleteBy soft-deletes a post recording who deleted it.
func (r *PostRepository) DeleteBy(id, deletedBy string) error {
	now := time.Now()

	var by any
	if deletedBy != "" {
		by = deletedBy
	}

	result, err := r.db.Exec(
		`UPDATE posts SET deleted_at = ?, deleted_by = ? WHERE id = ? AND deleted_at IS NULL`,
		now, by, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPostNotFound, id)
	}

	return nil
}

// List retrieves posts matching the given criteria, newest first, excluding soft-deleted posts
func (r *PostRepository) List(criteria map[string]any) ([]*models.Post, error) {
	query := postSelect + ` WHERE deleted_at IS NULL`
	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, post := range posts {
		likes, err := r.Likes(post.ID())
		if err != nil {
			return nil, err
		}
		post.SetLikes(likes)
	}

	return posts, nil
}

// AddLike inserts the user into the post's like set. Reports whether the set changed.
func (r *PostRepository) AddLike(postID, userID string) (bool, error) {
	result, err := r.db.Exec(
		`INSERT OR IGNORE INTO post_likes (post_id, user_id, liked_at) VALUES (?, ?, ?)`,
		postID, userID, time.Now(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to add like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}

// RemoveLike deletes the user from the post's like set. Reports whether the set changed.
func (r *PostRepository) RemoveLike(postID, userID string) (bool, error) {
	result, err := r.db.Exec(
		`DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`,
		postID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to remove like: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}

// HasLike reports whether the user already likes the post.
func (r *PostRepository) HasLike(postID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = ? AND user_id = ?)`,
		postID, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return exists, nil
}

// Likes returns the ids of users who like the post.
func (r *PostRepository) Likes(postID string) ([]string, error) {
	rows, err := r.db.Query(
		`SELECT user_id FROM post_likes WHERE post_id = ? ORDER BY liked_at ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

const postSelect = `
	SELECT id, sequence, user_id, description, post_type, song_snapshot, playlist_id, created_at, updated_at, deleted_at
	FROM posts`

type postScanner interface {
	Scan(dest ...any) error
}

func (r *PostRepository) scan(s postScanner) (*models.Post, error) {
	var (
		id          string
		sequence    int
		userID      string
		description string
		postType    string
		snapshot    sql.NullString
		playlistID  sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := s.Scan(&id, &sequence, &userID, &description, &postType, &snapshot, &playlistID, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	var post *models.Post
	switch models.PostType(postType) {
	case models.PostTypeSong:
		var song models.SongSnapshot
		if snapshot.Valid {
			if err := json.Unmarshal([]byte(snapshot.String), &song); err != nil {
				return nil, fmt.Errorf("failed to decode song snapshot: %w", err)
			}
		}
		post = models.NewSongPost(sequence, userID, description, song)
	case models.PostTypePlaylist:
		post = models.NewPlaylistPost(sequence, userID, description, playlistID.String)
	default:
		return nil, fmt.Errorf("unknown post type in storage: %q", postType)
	}

	post.SetID(id)
	post.SetCreatedAt(createdAt)
	post.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		post.SetDeletedAt(&deletedAt.Time)
	}

	return post, nil
}
