// package formatter renders songs and playlists for the CLI and exports
// playlist data to CSV, Markdown, and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/lunarpine/resona/internal/library"
	"github.com/lunarpine/resona/internal/services"
	"github.com/lunarpine/resona/internal/shared"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	artistStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true)
)

// FormatSearchResults renders provider search results as a numbered,
// styled list for terminal output.
func FormatSearchResults(results []services.SongSummary) string {
	if len(results) == 0 {
		return metaStyle.Render("no results") + "\n"
	}

	var buf bytes.Buffer
	for i, r := range results {
		buf.WriteString(fmt.Sprintf("%2d. %s - %s %s\n",
			i+1,
			artistStyle.Render(r.Artist),
			titleStyle.Render(r.Title),
			metaStyle.Render("["+shared.FormatDuration(r.Duration)+"] "+r.ExternalRef),
		))
	}
	return buf.String()
}

// FormatSongDetail renders one resolved song with its stream selection.
func FormatSongDetail(d *services.SongDetail) string {
	var buf bytes.Buffer
	buf.WriteString(titleStyle.Render(d.Title) + "\n")
	buf.WriteString(artistStyle.Render(d.Artist) + "\n")
	buf.WriteString(metaStyle.Render(fmt.Sprintf("duration %s, %d views, %d kbps",
		shared.FormatDuration(d.Duration), d.ViewCount, d.Bitrate)) + "\n")
	return buf.String()
}

// ExportToCSV converts a playlist to CSV format with columns: ID, Name, Artist, Duration, ExternalRef
func ExportToCSV(detail *library.PlaylistDetail) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artist", "Duration", "ExternalRef"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, song := range detail.Songs {
		record := []string{
			song.ID(),
			song.Name(),
			song.Artist(),
			strconv.Itoa(song.Duration()),
			song.ExternalRef(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a playlist to Markdown format
func ExportToMarkdown(detail *library.PlaylistDetail) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", detail.Playlist.Name()))
	buf.WriteString(fmt.Sprintf("**Songs**: %d\n\n", len(detail.Songs)))

	buf.WriteString("## Songs\n\n")
	for i, song := range detail.Songs {
		duration := shared.FormatDuration(song.Duration())
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, song.Artist(), song.Name(), duration))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a playlist to plain text format
func ExportToText(detail *library.PlaylistDetail) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Playlist: %s\n", detail.Playlist.Name()))
	buf.WriteString(fmt.Sprintf("Songs: %d\n\n", len(detail.Songs)))

	for i, song := range detail.Songs {
		buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, song.Artist(), song.Name()))
	}

	return buf.Bytes(), nil
}

// WriteExport exports a playlist to the given format ("csv", "markdown", or
// "text") and writes it to path. An empty path defaults to the playlist ID
// with a format-appropriate extension.
func WriteExport(detail *library.PlaylistDetail, format, path string) (string, error) {
	var data []byte
	var err error
	var ext string

	switch format {
	case "csv":
		data, err = ExportToCSV(detail)
		ext = ".csv"
	case "markdown", "md":
		data, err = ExportToMarkdown(detail)
		ext = ".md"
	case "text", "txt":
		data, err = ExportToText(detail)
		ext = ".txt"
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate export: %w", err)
	}

	if path == "" {
		path = detail.Playlist.ID() + ext
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
