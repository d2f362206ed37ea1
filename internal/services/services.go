// package services defines interface Provider for the external music platform
//
// YouTube (via proxy)
package services

import (
	"context"

	"github.com/lunarpine/resona/internal/models"
)

// Provider is the external music platform the song catalog is resolved
// against. Implementations must distinguish "content does not exist"
// (GetDetail returns nil, nil) from provider failures (non-nil error wrapping
// [shared.ErrProvider]); callers treat the former as terminal and the latter
// as transient.
type Provider interface {
	// Search performs a keyword search and returns lightweight song
	// summaries in provider relevance order.
	Search(ctx context.Context, keyword string) ([]SongSummary, error)

	// GetDetail resolves one external reference to its metadata and best
	// audio stream. A nil detail with a nil error means the reference does
	// not resolve to playable content.
	GetDetail(ctx context.Context, externalRef string) (*SongDetail, error)

	// Name returns the provider name (e.g., "YouTube Music")
	Name() string
}

// SongSummary is a search result entry.
type SongSummary struct {
	ExternalRef string
	Title       string
	Artist      string
	Duration    int // seconds
	Thumbnails  []models.Thumbnail
}

// SongDetail is the full metadata for one external reference, including the
// selected audio stream.
type SongDetail struct {
	ExternalRef string
	Title       string
	Artist      string
	Duration    int // seconds
	ViewCount   int64
	Thumbnails  []models.Thumbnail
	StreamURL   string
	Bitrate     int // kbps of the selected audio format
}

// AudioFormat is one stream format candidate returned by the provider.
// Candidates are ephemeral; only the selected one survives into SongDetail.
type AudioFormat struct {
	MimeType     string `json:"mimeType"`
	AudioBitrate int    `json:"audioBitrate"`
	URL          string `json:"url"`
}

// SelectAudioFormat picks the audio-only candidate with the highest declared
// bitrate. Ties break in favor of the earlier candidate, preserving provider
// order. Returns false when no audio-only candidate exists; video formats are
// never selected regardless of bitrate fields.
func SelectAudioFormat(formats []AudioFormat) (AudioFormat, bool) {
	var best AudioFormat
	found := false

	for _, f := range formats {
		if !isAudio(f.MimeType) {
			continue
		}
		if !found || f.AudioBitrate > best.AudioBitrate {
			best = f
			found = true
		}
	}

	return best, found
}

func isAudio(mimeType string) bool {
	return len(mimeType) >= 6 && mimeType[:6] == "audio/"
}
