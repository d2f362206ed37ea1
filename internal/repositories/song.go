package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/shared"
)

// SongRepository implements models.Repository[*models.Song].
//
// Songs are write-once snapshots of external metadata. The unique index on
// external_ref is the authoritative guard against duplicate materialization:
// Create maps its violation to [shared.ErrSongExists] instead of a generic
// failure so callers can re-fetch the winning record.
type SongRepository struct {
	db *sql.DB
}

// NewSongRepository creates a new SongRepository with the given database connection
func NewSongRepository(db *sql.DB) *SongRepository {
	return &SongRepository{db: db}
}

// Create inserts a new [models.Song] with generated ID and sequence.
//
// Returns [shared.ErrSongExists] when a song with the same external reference
// already exists.
func (r *SongRepository) Create(song *models.Song) error {
	sequence, err := NextSequence(r.db, "songs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	song.SetSequence(sequence)

	id := shared.GenerateID()
	song.SetID(id)

	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	thumbnails, err := json.Marshal(song.Thumbnails())
	if err != nil {
		return fmt.Errorf("failed to encode thumbnails: %w", err)
	}

	query := `
		INSERT INTO songs (id, sequence, external_ref, name, artist, duration, view_count, thumbnails, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		song.ExternalRef(),
		song.Name(),
		song.Artist(),
		song.Duration(),
		song.ViewCount(),
		string(thumbnails),
		song.CreatedAt(),
		song.UpdatedAt(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: external_ref %s", shared.ErrSongExists, song.ExternalRef())
		}
		return fmt.Errorf("failed to insert song: %w", err)
	}

	return nil
}

// Get retrieves a song by ID, excluding soft-deleted songs
func (r *SongRepository) Get(id string) (*models.Song, error) {
	query := songSelect + ` WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByExternalRef retrieves a song by its external reference.
//
// The match is exact; references are not normalized here.
func (r *SongRepository) GetByExternalRef(ref string) (*models.Song, error) {
	query := songSelect + ` WHERE external_ref = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, ref))
}

// GetByIDs retrieves multiple songs, returned in the order of the input ids.
// Missing or deleted ids are skipped, not errors.
func (r *SongRepository) GetByIDs(ids []string) ([]*models.Song, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	query := songSelect + ` WHERE id IN (` + placeholders + `) AND deleted_at IS NULL`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*models.Song, len(ids))
	for rows.Next() {
		song, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		byID[song.ID()] = song
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	songs := make([]*models.Song, 0, len(ids))
	for _, id := range ids {
		if song, ok := byID[id]; ok {
			songs = append(songs, song)
		}
	}

	return songs, nil
}

// Update is intentionally unsupported for regular flows: song metadata is a
// write-once snapshot. It exists to satisfy [models.Repository].
func (r *SongRepository) Update(song *models.Song) error {
	if err := song.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	song.SetUpdatedAt(now)

	query := `
		UPDATE songs
		SET name = ?, artist = ?, duration = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, song.Name(), song.Artist(), song.Duration(), now, song.ID())
	if err != nil {
		return fmt.Errorf("failed to update song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, song.ID())
	}

	return nil
}

// Delete soft-deletes a song by ID
func (r *SongRepository) Delete(id string) error {
	return r.DeleteBy(id, "")
}

// DeleteBy soft-deletes a song recording who deleted it.
func (r *SongRepository) DeleteBy(id, deletedBy string) error {
	now := time.Now()

	var by any
	if deletedBy != "" {
		by = deletedBy
	}

	query := `
		UPDATE songs
		SET deleted_at = ?, deleted_by = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, by, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, id)
	}

	return nil
}

// List retrieves all songs matching the given criteria, excluding soft-deleted songs
func (r *SongRepository) List(criteria map[string]any) ([]*models.Song, error) {
	query := songSelect + ` WHERE deleted_at IS NULL`
	args := []any{}

	if keyword, ok := criteria["keyword"].(string); ok && keyword != "" {
		query += " AND (name LIKE ? OR artist LIKE ?)"
		pattern := "%" + keyword + "%"
		args = append(args, pattern, pattern)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query songs: %w", err)
	}
	defer rows.Close()

	var songs []*models.Song
	for rows.Next() {
		song, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return songs, nil
}

const songSelect = `
	SELECT id, sequence, external_ref, name, artist, duration, view_count, thumbnails, created_at, updated_at, deleted_at
	FROM songs`

type songScanner interface {
	Scan(dest ...any) error
}

func (r *SongRepository) scanOne(row *sql.Row) (*models.Song, error) {
	song, err := scanSong(row)
	if err == sql.ErrNoRows {
		return nil, shared.ErrSongNotFound
	}
	return song, err
}

func (r *SongRepository) scanRow(rows *sql.Rows) (*models.Song, error) {
	return scanSong(rows)
}

func scanSong(s songScanner) (*models.Song, error) {
	var (
		id          string
		sequence    int
		externalRef string
		name        string
		artist      string
		duration    sql.NullInt64
		viewCount   int64
		thumbJSON   string
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := s.Scan(&id, &sequence, &externalRef, &name, &artist, &duration, &viewCount, &thumbJSON, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan song: %w", err)
	}

	var thumbnails []models.Thumbnail
	if thumbJSON != "" {
		if err := json.Unmarshal([]byte(thumbJSON), &thumbnails); err != nil {
			return nil, fmt.Errorf("failed to decode thumbnails: %w", err)
		}
	}

	song := models.NewSong(sequence, externalRef, name, artist, int(duration.Int64), thumbnails)
	song.SetID(id)
	song.SetViewCount(viewCount)
	song.SetCreatedAt(createdAt)
	song.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		song.SetDeletedAt(&deletedAt.Time)
	}

	return song, nil
}
