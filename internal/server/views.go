package server

import (
	"time"

	"github.com/lunarpine/resona/internal/library"
	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/services"
)

// View types are the JSON shapes the API serves. Models keep unexported
// fields, so each gets an explicit projection here.

type songView struct {
	ID          string             `json:"id"`
	ExternalRef string             `json:"externalRef"`
	Name        string             `json:"name"`
	Artist      string             `json:"artist"`
	Duration    int                `json:"duration"`
	ViewCount   int64              `json:"viewCount"`
	Thumbnails  []models.Thumbnail `json:"thumbnails"`
	CreatedAt   time.Time          `json:"createdAt"`
}

func newSongView(s *models.Song) songView {
	return songView{
		ID:          s.ID(),
		ExternalRef: s.ExternalRef(),
		Name:        s.Name(),
		Artist:      s.Artist(),
		Duration:    s.Duration(),
		ViewCount:   s.ViewCount(),
		Thumbnails:  s.Thumbnails(),
		CreatedAt:   s.CreatedAt(),
	}
}

func newSongViews(songs []*models.Song) []songView {
	views := make([]songView, len(songs))
	for i, s := range songs {
		views[i] = newSongView(s)
	}
	return views
}

type recentSongView struct {
	songView
	IsFavorite bool `json:"isFavorite"`
}

type searchResultView struct {
	ExternalRef string             `json:"externalRef"`
	Title       string             `json:"title"`
	Artist      string             `json:"artist"`
	Duration    int                `json:"duration"`
	Thumbnails  []models.Thumbnail `json:"thumbnails"`
}

func newSearchResultViews(results []services.SongSummary) []searchResultView {
	views := make([]searchResultView, len(results))
	for i, r := range results {
		views[i] = searchResultView{
			ExternalRef: r.ExternalRef,
			Title:       r.Title,
			Artist:      r.Artist,
			Duration:    r.Duration,
			Thumbnails:  r.Thumbnails,
		}
	}
	return views
}

type songDetailView struct {
	ExternalRef string             `json:"externalRef"`
	Title       string             `json:"title"`
	Artist      string             `json:"artist"`
	Duration    int                `json:"duration"`
	ViewCount   int64              `json:"viewCount"`
	Thumbnails  []models.Thumbnail `json:"thumbnails"`
	StreamURL   string             `json:"streamUrl"`
	Bitrate     int                `json:"bitrate"`
}

func newSongDetailView(d *services.SongDetail) songDetailView {
	return songDetailView{
		ExternalRef: d.ExternalRef,
		Title:       d.Title,
		Artist:      d.Artist,
		Duration:    d.Duration,
		ViewCount:   d.ViewCount,
		Thumbnails:  d.Thumbnails,
		StreamURL:   d.StreamURL,
		Bitrate:     d.Bitrate,
	}
}

type playlistView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func newPlaylistView(p *models.Playlist) playlistView {
	return playlistView{
		ID:        p.ID(),
		Name:      p.Name(),
		UserID:    p.UserID(),
		CreatedAt: p.CreatedAt(),
	}
}

type playlistDetailView struct {
	playlistView
	Songs []songView `json:"songs"`
}

func newPlaylistDetailView(d *library.PlaylistDetail) playlistDetailView {
	return playlistDetailView{
		playlistView: newPlaylistView(d.Playlist),
		Songs:        newSongViews(d.Songs),
	}
}

type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserView(u *models.User) userView {
	return userView{
		ID:        u.ID(),
		Email:     u.Email(),
		Name:      u.Name(),
		CreatedAt: u.CreatedAt(),
	}
}

type postView struct {
	ID          string               `json:"id"`
	UserID      string               `json:"userId"`
	Type        models.PostType      `json:"type"`
	Description string               `json:"description"`
	Song        *models.SongSnapshot `json:"song,omitempty"`
	PlaylistID  string               `json:"playlistId,omitempty"`
	Likes       []string             `json:"likes"`
	CreatedAt   time.Time            `json:"createdAt"`
}

func newPostView(p *models.Post) postView {
	likes := p.Likes()
	if likes == nil {
		likes = []string{}
	}
	return postView{
		ID:          p.ID(),
		UserID:      p.UserID(),
		Type:        p.Type(),
		Description: p.Description(),
		Song:        p.Song(),
		PlaylistID:  p.PlaylistID(),
		Likes:       likes,
		CreatedAt:   p.CreatedAt(),
	}
}
