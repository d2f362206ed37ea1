package services

import (
	"testing"
)

func TestSelectAudioFormat(t *testing.T) {
	t.Run("picks highest bitrate audio format", func(t *testing.T) {
		formats := []AudioFormat{
			{MimeType: "audio/webm", AudioBitrate: 128, URL: "http://cdn/a"},
			{MimeType: "audio/mp4", AudioBitrate: 256, URL: "http://cdn/b"},
			{MimeType: "audio/webm", AudioBitrate: 64, URL: "http://cdn/c"},
		}

		best, ok := SelectAudioFormat(formats)
		if !ok {
			t.Fatal("expected a format to be selected")
		}
		if best.AudioBitrate != 256 {
			t.Errorf("expected bitrate 256, got %d", best.AudioBitrate)
		}
		if best.URL != "http://cdn/b" {
			t.Errorf("expected URL http://cdn/b, got %s", best.URL)
		}
	})

	t.Run("ignores video formats regardless of bitrate", func(t *testing.T) {
		formats := []AudioFormat{
			{MimeType: "video/mp4", AudioBitrate: 512, URL: "http://cdn/video"},
			{MimeType: "audio/webm", AudioBitrate: 96, URL: "http://cdn/audio"},
		}

		best, ok := SelectAudioFormat(formats)
		if !ok {
			t.Fatal("expected a format to be selected")
		}
		if best.MimeType != "audio/webm" {
			t.Errorf("expected audio format, got %s", best.MimeType)
		}
	})

	t.Run("tie keeps the earlier candidate", func(t *testing.T) {
		formats := []AudioFormat{
			{MimeType: "audio/webm", AudioBitrate: 128, URL: "http://cdn/first"},
			{MimeType: "audio/mp4", AudioBitrate: 128, URL: "http://cdn/second"},
		}

		best, ok := SelectAudioFormat(formats)
		if !ok {
			t.Fatal("expected a format to be selected")
		}
		if best.URL != "http://cdn/first" {
			t.Errorf("expected first candidate to win the tie, got %s", best.URL)
		}
	})

	t.Run("returns false when no audio formats exist", func(t *testing.T) {
		formats := []AudioFormat{
			{MimeType: "video/mp4", AudioBitrate: 256, URL: "http://cdn/video"},
			{MimeType: "video/webm", AudioBitrate: 128, URL: "http://cdn/video2"},
		}

		if _, ok := SelectAudioFormat(formats); ok {
			t.Error("expected no selection for video-only formats")
		}
	})

	t.Run("returns false for empty input", func(t *testing.T) {
		if _, ok := SelectAudioFormat(nil); ok {
			t.Error("expected no selection for empty input")
		}
	})
}
