package library

import (
	"context"
	"errors"
	"testing"

	"github.com/lunarpine/resona/internal/shared"
)

func TestPlaylistService(t *testing.T) {
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		env := setupTestEnv(t)
		svc := NewPlaylistService(env.playlists, env.songs, env.materializer, nil)
		user := env.createUser(t, "alice@example.com")

		playlist, err := svc.Create(user.ID(), "Road Trip")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if playlist.Name() != "Road Trip" {
			t.Errorf("expected name 'Road Trip', got %s", playlist.Name())
		}

		t.Run("rejects empty name", func(t *testing.T) {
			if _, err := svc.Create(user.ID(), ""); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("AddSong", func(t *testing.T) {
		t.Run("materializes the reference", func(t *testing.T) {
			env := setupTestEnv(t)
			svc := NewPlaylistService(env.playlists, env.songs, env.materializer, nil)
			user := env.createUser(t, "alice@example.com")
			env.provider.addDetail("ref-1", "A Song")

			playlist, err := svc.Create(user.ID(), "Mix")
			if err != nil {
				t.Fatalf("failed to create playlist: %v", err)
			}

			song, err := svc.AddSong(ctx, playlist.ID(), "ref-1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if _, err := env.songs.GetByExternalRef("ref-1"); err != nil {
				t.Errorf("expected song to be materialized, got %v", err)
			}

			detail, err := svc.GetDetail(playlist.ID())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(detail.Songs) != 1 || detail.Songs[0].ID() != song.ID() {
				t.Errorf("expected 1 song in the playlist, got %d", len(detail.Songs))
			}
		})

		t.Run("fails for unresolvable reference", func(t *testing.T) {
			env := setupTestEnv(t)
			svc := NewPlaylistService(env.playlists, env.songs, env.materializer, nil)
			user := env.createUser(t, "alice@example.com")

			playlist, err := svc.Create(user.ID(), "Mix")
			if err != nil {
				t.Fatalf("failed to create playlist: %v", err)
			}

			if _, err := svc.AddSong(ctx, playlist.ID(), "ghost"); !errors.Is(err, shared.ErrMusicNotFound) {
				t.Errorf("expected ErrMusicNotFound, got %v", err)
			}
		})

		t.Run("fails for unknown playlist", func(t *testing.T) {
			env := setupTestEnv(t)
			svc := NewPlaylistService(env.playlists, env.songs, env.materializer, nil)
			env.provider.addDetail("ref-1", "A Song")

			if _, err := svc.AddSong(ctx, "nope", "ref-1"); !errors.Is(err, shared.ErrPlaylistNotFound) {
				t.Errorf("expected ErrPlaylistNotFound, got %v", err)
			}
		})

		t.Run("repeat add keeps a single membership", func(t *testing.T) {
			env := setupTestEnv(t)
			svc := NewPlaylistService(env.playlists, env.songs, env.materializer, nil)
			user := env.createUser(t, "alice@example.com")
			env.provider.addDetail("ref-1", "A Song")

			playlist, err := svc.Create(user.ID(), "Mix")
			if err != nil {
				t.Fatalf("failed to create playlist: %v", err)
			}

			for range 2 {
				if _, err := svc.AddSong(ctx, playlist.ID(), "ref-1"); err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
			}

			detail, err := svc.GetDetail(playlist.ID())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(detail.Songs) != 1 {
				t.Errorf("expected 1 membership, got %d", len(detail.Songs))
			}
		})
	})

	t.Run("GetDetail keeps membership order", func(t *testing.T) {
		env := setupTestEnv(t)
		svc := NewPlaylistService(env.playlists, env.songs, env.materializer, nil)
		user := env.createUser(t, "alice@example.com")

		playlist, err := svc.Create(user.ID(), "Mix")
		if err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		for _, ref := range []string{"ref-c", "ref-a", "ref-b"} {
			env.provider.addDetail(ref, "Song "+ref)
			if _, err := svc.AddSong(ctx, playlist.ID(), ref); err != nil {
				t.Fatalf("failed to add song: %v", err)
			}
		}

		detail, err := svc.GetDetail(playlist.ID())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(detail.Songs) != 3 {
			t.Fatalf("expected 3 songs, got %d", len(detail.Songs))
		}

		want := []string{"ref-c", "ref-a", "ref-b"}
		for i, song := range detail.Songs {
			if song.ExternalRef() != want[i] {
				t.Errorf("position %d: expected %s, got %s", i, want[i], song.ExternalRef())
			}
		}
	})

	t.Run("RemoveSong", func(t *testing.T) {
		env := setupTestEnv(t)
		svc := NewPlaylistService(env.playlists, env.songs, env.materializer, nil)
		user := env.createUser(t, "alice@example.com")
		env.provider.addDetail("ref-1", "A Song")

		playlist, err := svc.Create(user.ID(), "Mix")
		if err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}
		song, err := svc.AddSong(ctx, playlist.ID(), "ref-1")
		if err != nil {
			t.Fatalf("failed to add song: %v", err)
		}

		if err := svc.RemoveSong(playlist.ID(), song.ID()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		detail, err := svc.GetDetail(playlist.ID())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(detail.Songs) != 0 {
			t.Errorf("expected empty playlist, got %d songs", len(detail.Songs))
		}

		t.Run("fails for unknown song", func(t *testing.T) {
			if err := svc.RemoveSong(playlist.ID(), "nope"); !errors.Is(err, shared.ErrSongNotFound) {
				t.Errorf("expected ErrSongNotFound, got %v", err)
			}
		})
	})

	t.Run("Delete hides the playlist", func(t *testing.T) {
		env := setupTestEnv(t)
		svc := NewPlaylistService(env.playlists, env.songs, env.materializer, nil)
		user := env.createUser(t, "alice@example.com")

		playlist, err := svc.Create(user.ID(), "Mix")
		if err != nil {
			t.Fatalf("failed to create playlist: %v", err)
		}

		if err := svc.Delete(playlist.ID(), user.ID()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := svc.Get(playlist.ID()); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})
}
