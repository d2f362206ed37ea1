package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/shared"
)

// UserRepository implements models.Repository[*models.User].
//
// Beyond account CRUD it owns the two per-user music collections: the
// recently-played list (bounded most-recent-first sequence) and the favorites
// set (unordered, idempotent inserts and deletes).
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new [models.User] with generated ID and sequence.
//
// Returns [shared.ErrUserExists] when the email is already taken.
func (r *UserRepository) Create(user *models.User) error {
	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	user.SetSequence(sequence)

	id := shared.GenerateID()
	user.SetID(id)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO users (id, sequence, email, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, user.Email(), user.Name(), user.CreatedAt(), user.UpdatedAt())
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %s", shared.ErrUserExists, user.Email())
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID, excluding soft-deleted users
func (r *UserRepository) Get(id string) (*models.User, error) {
	return r.getBy("id", id)
}

// GetByEmail retrieves a user by email, excluding soft-deleted users
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getBy("email", email)
}

func (r *UserRepository) getBy(field, value string) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, sequence, email, name, created_at, updated_at, deleted_at
		FROM users
		WHERE %s = ? AND deleted_at IS NULL
	`, field)

	var (
		id        string
		sequence  int
		email     string
		name      string
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	err := r.db.QueryRow(query, value).Scan(&id, &sequence, &email, &name, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user := models.NewUser(sequence, email, name)
	user.SetID(id)
	user.SetCreatedAt(createdAt)
	user.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		user.SetDeletedAt(&deletedAt.Time)
	}

	return user, nil
}

// Update modifies an existing user in the database.
//
// Returns [shared.ErrUserExists] when the new email collides with another
// account.
func (r *UserRepository) Update(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	user.SetUpdatedAt(now)

	result, err := r.db.Exec(
		`UPDATE users SET email = ?, name = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		user.Email(), user.Name(), now, user.ID(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: %s", shared.ErrUserExists, user.Email())
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, user.ID())
	}

	return nil
}

// Delete soft-deletes a user by ID
func (r *UserRepository) Delete(id string) error {
	return r.DeleteBy(id, "")
}

// DeleteBy soft-deletes a user recording who deleted it.
func (r *UserRepository) DeleteBy(id, deletedBy string) error {
	now := time.Now()

	var by any
	if deletedBy != "" {
		by = deletedBy
	}

	result, err := r.db.Exec(
		`UPDATE users SET deleted_at = ?, deleted_by = ? WHERE id = ? AND deleted_at IS NULL`,
		now, by, id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, id)
	}

	return nil
}

// List retrieves users matching the given criteria, excluding soft-deleted users
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := `
		SELECT id, sequence, email, name, created_at, updated_at, deleted_at
		FROM users
		WHERE deleted_at IS NULL
	`
	args := []any{}

	if keyword, ok := criteria["keyword"].(string); ok && keyword != "" {
		query += " AND (email LIKE ? OR name LIKE ?)"
		pattern := "%" + keyword + "%"
		args = append(args, pattern, pattern)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var (
			id        string
			sequence  int
			email     string
			name      string
			createdAt time.Time
			updatedAt time.Time
			deletedAt sql.NullTime
		)

		if err := rows.Scan(&id, &sequence, &email, &name, &createdAt, &updatedAt, &deletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}

		user := models.NewUser(sequence, email, name)
		user.SetID(id)
		user.SetCreatedAt(createdAt)
		user.SetUpdatedAt(updatedAt)
		if deletedAt.Valid {
			user.SetDeletedAt(&deletedAt.Time)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// RecordPlay pushes a song to the front of the user's recently-played list.
//
// A duplicate moves to the front without growing the list; entries beyond
// limit are dropped. The whole move-insert-trim runs in one transaction so
// interleaved plays never corrupt the ordering sequence.
func (r *UserRepository) RecordPlay(userID, songID string, limit int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM user_recent_songs WHERE user_id = ? AND song_id = ?`,
		userID, songID,
	); err != nil {
		return fmt.Errorf("failed to clear previous play: %w", err)
	}

	var seq int
	if err := tx.QueryRow(
		`SELECT COALESCE(MAX(played_seq), 0) + 1 FROM user_recent_songs WHERE user_id = ?`,
		userID,
	).Scan(&seq); err != nil {
		return fmt.Errorf("failed to compute play sequence: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO user_recent_songs (user_id, song_id, played_seq, played_at) VALUES (?, ?, ?, ?)`,
		userID, songID, seq, time.Now(),
	); err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}

	if _, err := tx.Exec(`
		DELETE FROM user_recent_songs
		WHERE user_id = ? AND song_id NOT IN (
			SELECT song_id FROM user_recent_songs
			WHERE user_id = ?
			ORDER BY played_seq DESC
			LIMIT ?
		)`,
		userID, userID, limit,
	); err != nil {
		return fmt.Errorf("failed to trim recent plays: %w", err)
	}

	return tx.Commit()
}

// RecentSongIDs returns the user's recently-played song ids, most recent first.
func (r *UserRepository) RecentSongIDs(userID string) ([]string, error) {
	rows, err := r.db.Query(
		`SELECT song_id FROM user_recent_songs WHERE user_id = ? ORDER BY played_seq DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent songs: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

// RemoveRecent drops a song from the user's recently-played list.
// Returns [shared.ErrSongNotFound] when the song is not in the list.
func (r *UserRepository) RemoveRecent(userID, songID string) error {
	result, err := r.db.Exec(
		`DELETE FROM user_recent_songs WHERE user_id = ? AND song_id = ?`,
		userID, songID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove recent song: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSongNotFound, songID)
	}

	return nil
}

// AddFavorite inserts the song into the user's favorites set. Adding an
// existing member leaves the set unchanged.
func (r *UserRepository) AddFavorite(userID, songID string) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO user_favorite_songs (user_id, song_id, added_at) VALUES (?, ?, ?)`,
		userID, songID, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite deletes the song from the user's favorites set. Removing a
// non-member is a no-op.
func (r *UserRepository) RemoveFavorite(userID, songID string) error {
	_, err := r.db.Exec(
		`DELETE FROM user_favorite_songs WHERE user_id = ? AND song_id = ?`,
		userID, songID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// FavoriteSongIDs returns the user's favorite song ids. No ordering is
// guaranteed beyond insertion time.
func (r *UserRepository) FavoriteSongIDs(userID string) ([]string, error) {
	rows, err := r.db.Query(
		`SELECT song_id FROM user_favorite_songs WHERE user_id = ? ORDER BY added_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorite songs: %w", err)
	}
	defer rows.Close()

	return scanIDs(rows)
}

func scanIDs(rows *sql.Rows) ([]string, error) {
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return ids, nil
}
