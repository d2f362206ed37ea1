package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/shared"
)

// PlaylistRepository implements models.Repository[*models.Playlist].
//
// Playlist membership lives in the playlist_songs join table with stable
// positions; AddSong is idempotent so repeated adds of the same song leave a
// single membership row.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new [models.Playlist] with generated ID and sequence
func (r *PlaylistRepository) Create(playlist *models.Playlist) error {
	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	playlist.SetSequence(sequence)

	id := shared.GenerateID()
	playlist.SetID(id)

	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO playlists (id, sequence, name, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, playlist.Name(), playlist.UserID(), playlist.CreatedAt(), playlist.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a playlist by ID, excluding soft-deleted playlists.
// Song membership is not loaded; use SongIDs for that.
func (r *PlaylistRepository) Get(id string) (*models.Playlist, error) {
	query := `
		SELECT id, sequence, name, user_id, created_at, updated_at, deleted_at
		FROM playlists
		WHERE id = ? AND deleted_at IS NULL
	`

	var (
		pid       string
		sequence  int
		name      string
		userID    string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := r.db.QueryRow(query, id).Scan(&pid, &sequence, &name, &userID, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	playlist := models.NewPlaylist(sequence, name, userID)
	playlist.SetID(pid)
	playlist.SetCreatedAt(createdAt)
	playlist.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		playlist.SetDeletedAt(&deletedAt.Time)
	}

	return playlist, nil
}

// Update renames an existing playlist
func (r *PlaylistRepository) Update(playlist *models.Playlist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	playlist.SetUpdatedAt(now)

	result, err := r.db.Exec(
		`UPDATE playlists SET name = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		playlist.Name(), now, playlist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlist.ID())
	}

	return nil
}

// Delete soft-deletes a playlist by ID
func (r *PlaylistRepository) Delete(id string) error {
	return r.DeleteBy(id, "")
}

// DeleteBy soft-deletes a playlist recording who deleted it.
func (r *PlaylistRepository) DeleteBy(id, deletedBy string) error {
	now := time.Now()

	var by any
	if deletedBy != "" {
		by = deletedBy
	}

	result, err := r.db.Exec(
		`UPDATE playlists SET deleted_at = ?, deleted_by = ? WHERE id = ? AND deleted_at IS NULL`,
		now, by, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	return nil
}

// List retrieves playlists matching the given criteria, excluding soft-deleted playlists
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.Playlist, error) {
	query := `
		SELECT id, sequence, name, user_id, created_at, updated_at, deleted_at
		FROM playlists
		WHERE deleted_at IS NULL
	`
	args := []any{}

	if userID, ok := criteria["user_id"].(string); ok && userID != "" {
		query += " AND user_id = ?"
		args = append(args, userID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		var (
			pid       string
			sequence  int
			name      string
			userID    string
			createdAt time.Time
			updatedAt time.Time
			deletedAt sql.NullTime
		)

		if err := rows.Scan(&pid, &sequence, &name, &userID, &createdAt, &updatedAt, &deletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan playlist: %w", err)
		}

		playlist := models.NewPlaylist(sequence, name, userID)
		playlist.SetID(pid)
		playlist.SetCreatedAt(createdAt)
		playlist.SetUpdatedAt(updatedAt)
		if deletedAt.Valid {
			playlist.SetDeletedAt(&deletedAt.Time)
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// AddSong inserts a membership row at the end of the playlist. Adding a song
// that is already a member is a no-op.
func (r *PlaylistRepository) AddSong(playlistID, songID string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var position int
	err = tx.QueryRow(
		`SELECT COALESCE(MAX(position), 0) + 1 FROM playlist_songs WHERE playlist_id = ?`,
		playlistID,
	).Scan(&position)
	if err != nil {
		return fmt.Errorf("failed to compute position: %w", err)
	}

	_, err = tx.Exec(
		`INSERT OR IGNORE INTO playlist_songs (playlist_id, song_id, position, added_at) VALUES (?, ?, ?, ?)`,
		playlistID, songID, position, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to add song to playlist: %w", err)
	}

	return tx.Commit()
}

// RemoveSong deletes a membership row. Removing a non-member is a no-op.
func (r *PlaylistRepository) RemoveSong(playlistID, songID string) error {
	_, err := r.db.Exec(
		`DELETE FROM playlist_songs WHERE playlist_id = ? AND song_id = ?`,
		playlistID, songID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove song from playlist: %w", err)
	}
	return nil
}

// SongIDs returns the playlist's song ids in membership order.
func (r *PlaylistRepository) SongIDs(playlistID string) ([]string, error) {
	rows, err := r.db.Query(
		`SELECT song_id FROM playlist_songs WHERE playlist_id = ? ORDER BY position ASC`,
		playlistID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlist songs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan song id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}
