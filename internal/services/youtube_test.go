package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lunarpine/resona/internal/shared"
)

func TestYouTubeProvider(t *testing.T) {
	t.Run("NewYouTubeProvider", func(t *testing.T) {
		t.Run("creates provider with default URL", func(t *testing.T) {
			if p := NewYouTubeProvider("", nil); p == nil {
				t.Fatal("expected provider to be created")
			} else if p.baseURL != defaultYTBaseURL {
				t.Errorf("expected baseURL to be %s, got %s", defaultYTBaseURL, p.baseURL)
			}
		})

		t.Run("creates provider with custom URL", func(t *testing.T) {
			customURL := "http://localhost:9000"
			if p := NewYouTubeProvider(customURL, nil); p.baseURL != customURL {
				t.Errorf("expected baseURL to be %s, got %s", customURL, p.baseURL)
			}
		})
	})

	t.Run("Name", func(t *testing.T) {
		if p := NewYouTubeProvider("", nil); p.Name() != "YouTube Music" {
			t.Errorf("expected name to be 'YouTube Music', got %s", p.Name())
		}
	})

	t.Run("Search", func(t *testing.T) {
		mockResults := []map[string]any{
			{
				"videoId":          "vid123",
				"title":            "First Song",
				"artists":          []map[string]any{{"name": "Artist A", "id": "a1"}},
				"duration_seconds": 215,
			},
			{
				"videoId":          "vid456",
				"title":            "Second Song",
				"artists":          []map[string]any{{"name": "Artist B", "id": "b1"}},
				"duration_seconds": 180,
			},
		}

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/search" {
				t.Errorf("expected path /api/search, got %s", r.URL.Path)
			}
			if q := r.URL.Query().Get("q"); q != "test query" {
				t.Errorf("expected query 'test query', got %s", q)
			}
			if filter := r.URL.Query().Get("filter"); filter != "songs" {
				t.Errorf("expected filter songs, got %s", filter)
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(mockResults)
		}))
		defer server.Close()

		p := NewYouTubeProvider(server.URL, nil)

		results, err := p.Search(context.Background(), "test query")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].ExternalRef != "vid123" {
			t.Errorf("expected first ref to be vid123, got %s", results[0].ExternalRef)
		}
		if results[0].Artist != "Artist A" {
			t.Errorf("expected first artist to be 'Artist A', got %s", results[0].Artist)
		}
		if results[1].Duration != 180 {
			t.Errorf("expected second duration to be 180, got %d", results[1].Duration)
		}
	})

	t.Run("GetDetail", func(t *testing.T) {
		t.Run("selects best audio format", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				switch r.URL.Path {
				case "/api/videos/vid123/metadata":
					json.NewEncoder(w).Encode(map[string]any{
						"videoId":          "vid123",
						"title":            "A Song",
						"author":           map[string]any{"name": "Artist A", "id": "a1"},
						"duration_seconds": 215,
						"viewCount":        98765,
					})
				case "/api/videos/vid123/formats":
					json.NewEncoder(w).Encode([]map[string]any{
						{"mimeType": "video/mp4", "audioBitrate": 512, "url": "http://cdn/video"},
						{"mimeType": "audio/webm", "audioBitrate": 160, "url": "http://cdn/best"},
						{"mimeType": "audio/mp4", "audioBitrate": 128, "url": "http://cdn/worse"},
					})
				default:
					t.Errorf("unexpected path %s", r.URL.Path)
					w.WriteHeader(http.StatusNotFound)
				}
			}))
			defer server.Close()

			p := NewYouTubeProvider(server.URL, nil)

			detail, err := p.GetDetail(context.Background(), "vid123")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if detail == nil {
				t.Fatal("expected detail to be resolved")
			}

			if detail.Title != "A Song" {
				t.Errorf("expected title 'A Song', got %s", detail.Title)
			}
			if detail.Artist != "Artist A" {
				t.Errorf("expected artist 'Artist A', got %s", detail.Artist)
			}
			if detail.ViewCount != 98765 {
				t.Errorf("expected view count 98765, got %d", detail.ViewCount)
			}
			if detail.StreamURL != "http://cdn/best" {
				t.Errorf("expected stream URL http://cdn/best, got %s", detail.StreamURL)
			}
			if detail.Bitrate != 160 {
				t.Errorf("expected bitrate 160, got %d", detail.Bitrate)
			}
		})

		t.Run("returns nil for unknown reference", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			p := NewYouTubeProvider(server.URL, nil)

			detail, err := p.GetDetail(context.Background(), "missing")
			if err != nil {
				t.Fatalf("expected no error for absent content, got %v", err)
			}
			if detail != nil {
				t.Error("expected nil detail for absent content")
			}
		})

		t.Run("returns nil when no audio formats exist", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				switch r.URL.Path {
				case "/api/videos/vid123/metadata":
					json.NewEncoder(w).Encode(map[string]any{"videoId": "vid123", "title": "A Song"})
				case "/api/videos/vid123/formats":
					json.NewEncoder(w).Encode([]map[string]any{
						{"mimeType": "video/mp4", "audioBitrate": 256, "url": "http://cdn/video"},
					})
				}
			}))
			defer server.Close()

			p := NewYouTubeProvider(server.URL, nil)

			detail, err := p.GetDetail(context.Background(), "vid123")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if detail != nil {
				t.Error("expected nil detail when no audio formats exist")
			}
		})

		t.Run("wraps server errors as provider errors", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer server.Close()

			p := NewYouTubeProvider(server.URL, nil, WithRetries(0))

			_, err := p.GetDetail(context.Background(), "vid123")
			if err == nil {
				t.Fatal("expected error for server failure")
			}
			if !errors.Is(err, shared.ErrProvider) {
				t.Errorf("expected provider error, got %v", err)
			}
		})

		t.Run("retries transient server errors", func(t *testing.T) {
			attempts := 0
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/api/videos/vid123/metadata" {
					attempts++
					if attempts == 1 {
						w.WriteHeader(http.StatusInternalServerError)
						return
					}
					w.Header().Set("Content-Type", "application/json")
					json.NewEncoder(w).Encode(map[string]any{"videoId": "vid123", "title": "A Song"})
					return
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode([]map[string]any{
					{"mimeType": "audio/webm", "audioBitrate": 128, "url": "http://cdn/a"},
				})
			}))
			defer server.Close()

			p := NewYouTubeProvider(server.URL, nil, WithRetries(2))

			detail, err := p.GetDetail(context.Background(), "vid123")
			if err != nil {
				t.Fatalf("expected retry to succeed, got %v", err)
			}
			if detail == nil {
				t.Fatal("expected detail after retry")
			}
			if attempts != 2 {
				t.Errorf("expected 2 metadata attempts, got %d", attempts)
			}
		})
	})
}
