package formatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lunarpine/resona/internal/library"
	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/services"
)

func testDetail() *library.PlaylistDetail {
	return &library.PlaylistDetail{
		Playlist: models.NewPlaylist(1, "Road Trip", "user-1"),
		Songs: []*models.Song{
			models.NewSong(1, "ref-1", "Midnight Drive", "Neon Artist", 215, nil),
			models.NewSong(2, "ref-2", "Sunrise", "Dawn Artist", 184, nil),
		},
	}
}

func TestFormatSearchResults(t *testing.T) {
	results := []services.SongSummary{
		{ExternalRef: "ref-1", Title: "Midnight Drive", Artist: "Neon Artist", Duration: 215},
	}

	out := FormatSearchResults(results)
	for _, want := range []string{"Midnight Drive", "Neon Artist", "3:35", "ref-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}

	t.Run("empty results", func(t *testing.T) {
		if out := FormatSearchResults(nil); !strings.Contains(out, "no results") {
			t.Errorf("expected placeholder, got %q", out)
		}
	})
}

func TestFormatSongDetail(t *testing.T) {
	out := FormatSongDetail(&services.SongDetail{
		ExternalRef: "ref-1",
		Title:       "Midnight Drive",
		Artist:      "Neon Artist",
		Duration:    215,
		ViewCount:   12345,
		Bitrate:     160,
	})

	for _, want := range []string{"Midnight Drive", "Neon Artist", "3:35", "12345", "160 kbps"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestExports(t *testing.T) {
	detail := testDetail()

	t.Run("csv", func(t *testing.T) {
		data, err := ExportToCSV(detail)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 records, got %d lines", len(lines))
		}
		if lines[0] != "ID,Name,Artist,Duration,ExternalRef" {
			t.Errorf("unexpected header: %s", lines[0])
		}
		if !strings.Contains(lines[1], "Midnight Drive") || !strings.Contains(lines[1], "215") {
			t.Errorf("unexpected first record: %s", lines[1])
		}
	})

	t.Run("markdown", func(t *testing.T) {
		data, err := ExportToMarkdown(detail)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := string(data)
		for _, want := range []string{"# Road Trip", "**Songs**: 2", "1. Neon Artist - Midnight Drive [3:35]"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("text", func(t *testing.T) {
		data, err := ExportToText(detail)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := string(data)
		for _, want := range []string{"Playlist: Road Trip", "Songs: 2", "2. Dawn Artist - Sunrise"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})
}

func TestWriteExport(t *testing.T) {
	detail := testDetail()

	t.Run("writes to the given path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "export.csv")

		written, err := WriteExport(detail, "csv", path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if written != path {
			t.Errorf("expected path %s, got %s", path, written)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read export: %v", err)
		}
		if !strings.Contains(string(data), "Midnight Drive") {
			t.Error("expected export file to contain the playlist songs")
		}
	})

	t.Run("accepts format aliases", func(t *testing.T) {
		dir := t.TempDir()
		for format, ext := range map[string]string{"md": ".md", "txt": ".txt"} {
			path := filepath.Join(dir, "export"+ext)
			if _, err := WriteExport(detail, format, path); err != nil {
				t.Errorf("format %s: expected no error, got %v", format, err)
			}
		}
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		if _, err := WriteExport(detail, "xml", ""); err == nil {
			t.Error("expected an error for an unsupported format")
		}
	})
}
