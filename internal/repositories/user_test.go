package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/shared"
)

func TestUserRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("assigns id and sequence", func(t *testing.T) {
			db := setupTestDB(t)
			repo := NewUserRepository(db)

			user := createTestUser(t, repo, "alice@example.com")
			if user.ID() == "" {
				t.Error("expected id to be assigned")
			}
		})

		t.Run("rejects duplicate email", func(t *testing.T) {
			db := setupTestDB(t)
			repo := NewUserRepository(db)

			createTestUser(t, repo, "alice@example.com")

			dupe := models.NewUser(0, "alice@example.com", "Other")
			err := repo.Create(dupe)
			if !errors.Is(err, shared.ErrUserExists) {
				t.Errorf("expected ErrUserExists, got %v", err)
			}
		})

		t.Run("rejects malformed email", func(t *testing.T) {
			db := setupTestDB(t)
			repo := NewUserRepository(db)

			user := models.NewUser(0, "not-an-email", "Bad")
			if err := repo.Create(user); err == nil {
				t.Error("expected validation error")
			}
		})
	})

	t.Run("GetByEmail", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		created := createTestUser(t, repo, "alice@example.com")

		user, err := repo.GetByEmail("alice@example.com")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.ID() != created.ID() {
			t.Errorf("expected id %s, got %s", created.ID(), user.ID())
		}

		if _, err := repo.GetByEmail("nobody@example.com"); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewUserRepository(db)

		user := createTestUser(t, repo, "alice@example.com")
		user.SetName("Alice Renamed")

		if err := repo.Update(user); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		got, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got.Name() != "Alice Renamed" {
			t.Errorf("expected updated name, got %s", got.Name())
		}
	})

	t.Run("RecordPlay", func(t *testing.T) {
		t.Run("orders most recent first", func(t *testing.T) {
			db := setupTestDB(t)
			users := NewUserRepository(db)
			songs := NewSongRepository(db)

			user := createTestUser(t, users, "alice@example.com")
			first := createTestSong(t, songs, "ref-1", "First")
			second := createTestSong(t, songs, "ref-2", "Second")

			for _, song := range []*models.Song{first, second} {
				if err := users.RecordPlay(user.ID(), song.ID(), 20); err != nil {
					t.Fatalf("failed to record play: %v", err)
				}
			}

			ids, err := users.RecentSongIDs(user.ID())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(ids) != 2 {
				t.Fatalf("expected 2 recent songs, got %d", len(ids))
			}
			if ids[0] != second.ID() || ids[1] != first.ID() {
				t.Error("expected most recent play first")
			}
		})

		t.Run("repeat play moves song to the front", func(t *testing.T) {
			db := setupTestDB(t)
			users := NewUserRepository(db)
			songs := NewSongRepository(db)

			user := createTestUser(t, users, "alice@example.com")
			first := createTestSong(t, songs, "ref-1", "First")
			second := createTestSong(t, songs, "ref-2", "Second")

			for _, id := range []string{first.ID(), second.ID(), first.ID()} {
				if err := users.RecordPlay(user.ID(), id, 20); err != nil {
					t.Fatalf("failed to record play: %v", err)
				}
			}

			ids, err := users.RecentSongIDs(user.ID())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(ids) != 2 {
				t.Fatalf("expected 2 entries, not %d; replay must not duplicate", len(ids))
			}
			if ids[0] != first.ID() {
				t.Error("expected replayed song at the front")
			}
		})

		t.Run("trims beyond the limit", func(t *testing.T) {
			db := setupTestDB(t)
			users := NewUserRepository(db)
			songs := NewSongRepository(db)

			user := createTestUser(t, users, "alice@example.com")

			limit := 5
			var created []*models.Song
			for i := range limit + 3 {
				song := createTestSong(t, songs, fmt.Sprintf("ref-%d", i), fmt.Sprintf("Song %d", i))
				created = append(created, song)
				if err := users.RecordPlay(user.ID(), song.ID(), limit); err != nil {
					t.Fatalf("failed to record play: %v", err)
				}
			}

			ids, err := users.RecentSongIDs(user.ID())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(ids) != limit {
				t.Fatalf("expected list bounded at %d, got %d", limit, len(ids))
			}
			if ids[0] != created[len(created)-1].ID() {
				t.Error("expected newest play at the front after trimming")
			}
			for _, id := range ids {
				if id == created[0].ID() {
					t.Error("expected oldest play to be evicted")
				}
			}
		})
	})

	t.Run("RemoveRecent", func(t *testing.T) {
		db := setupTestDB(t)
		users := NewUserRepository(db)
		songs := NewSongRepository(db)

		user := createTestUser(t, users, "alice@example.com")
		song := createTestSong(t, songs, "ref-1", "First")

		if err := users.RecordPlay(user.ID(), song.ID(), 20); err != nil {
			t.Fatalf("failed to record play: %v", err)
		}

		if err := users.RemoveRecent(user.ID(), song.ID()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		ids, err := users.RecentSongIDs(user.ID())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(ids) != 0 {
			t.Errorf("expected empty list, got %d entries", len(ids))
		}

		t.Run("fails for song not in the list", func(t *testing.T) {
			if err := users.RemoveRecent(user.ID(), song.ID()); !errors.Is(err, shared.ErrSongNotFound) {
				t.Errorf("expected ErrSongNotFound, got %v", err)
			}
		})
	})

	t.Run("Favorites", func(t *testing.T) {
		db := setupTestDB(t)
		users := NewUserRepository(db)
		songs := NewSongRepository(db)

		user := createTestUser(t, users, "alice@example.com")
		song := createTestSong(t, songs, "ref-1", "First")

		t.Run("add is idempotent", func(t *testing.T) {
			if err := users.AddFavorite(user.ID(), song.ID()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if err := users.AddFavorite(user.ID(), song.ID()); err != nil {
				t.Fatalf("expected repeat add to be a no-op, got %v", err)
			}

			ids, err := users.FavoriteSongIDs(user.ID())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(ids) != 1 {
				t.Errorf("expected 1 favorite, got %d", len(ids))
			}
		})

		t.Run("remove is idempotent", func(t *testing.T) {
			if err := users.RemoveFavorite(user.ID(), song.ID()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if err := users.RemoveFavorite(user.ID(), song.ID()); err != nil {
				t.Fatalf("expected repeat remove to be a no-op, got %v", err)
			}

			ids, err := users.FavoriteSongIDs(user.ID())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(ids) != 0 {
				t.Errorf("expected no favorites, got %d", len(ids))
			}
		})
	})
}
