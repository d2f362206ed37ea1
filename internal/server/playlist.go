package server

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/lunarpine/resona/internal/library"
	"github.com/lunarpine/resona/internal/shared"
)

// PlaylistHandler serves playlist CRUD and membership operations. Mutations
// require the authenticated user to own the playlist.
type PlaylistHandler struct {
	playlists *library.PlaylistService
	logger    *log.Logger
	mux       *http.ServeMux
}

// NewPlaylistHandler creates a PlaylistHandler.
func NewPlaylistHandler(playlists *library.PlaylistService, logger *log.Logger) *PlaylistHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	h := &PlaylistHandler{
		playlists: playlists,
		logger:    logger.With("handler", "playlist"),
		mux:       http.NewServeMux(),
	}

	h.mux.HandleFunc("POST /api/playlists", h.create)
	h.mux.HandleFunc("GET /api/playlists", h.list)
	h.mux.HandleFunc("GET /api/playlists/{id}", h.get)
	h.mux.HandleFunc("DELETE /api/playlists/{id}", h.delete)
	h.mux.HandleFunc("POST /api/playlists/{id}/songs", h.addSong)
	h.mux.HandleFunc("DELETE /api/playlists/{id}/songs/{songID}", h.removeSong)

	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *PlaylistHandler) Routes() []string {
	return []string{"/api/playlists", "/api/playlists/"}
}

// ServeHTTP implements [http.Handler].
func (h *PlaylistHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// owned fetches the playlist and verifies the authenticated user owns it.
func (h *PlaylistHandler) owned(r *http.Request, id string) (string, error) {
	user, err := CurrentUser(r)
	if err != nil {
		return "", err
	}

	playlist, err := h.playlists.Get(id)
	if err != nil {
		return "", err
	}
	if playlist.UserID() != user.ID() {
		return "", fmt.Errorf("%w: not the playlist owner", shared.ErrForbidden)
	}

	return user.ID(), nil
}

func (h *PlaylistHandler) create(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, h.logger, err)
		return
	}

	playlist, err := h.playlists.Create(user.ID(), body.Name)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respond(w, http.StatusCreated, newPlaylistView(playlist))
}

func (h *PlaylistHandler) list(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	playlists, err := h.playlists.ListByUser(user.ID())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	views := make([]playlistView, len(playlists))
	for i, p := range playlists {
		views[i] = newPlaylistView(p)
	}
	respond(w, http.StatusOK, views)
}

func (h *PlaylistHandler) get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.playlists.GetDetail(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, newPlaylistDetailView(detail))
}

func (h *PlaylistHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	userID, err := h.owned(r, id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.playlists.Delete(id, userID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PlaylistHandler) addSong(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := h.owned(r, id); err != nil {
		respondError(w, h.logger, err)
		return
	}

	var body struct {
		ExternalRef string `json:"externalRef"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, h.logger, err)
		return
	}

	song, err := h.playlists.AddSong(r.Context(), id, body.ExternalRef)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respond(w, http.StatusCreated, newSongView(song))
}

func (h *PlaylistHandler) removeSong(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := h.owned(r, id); err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.playlists.RemoveSong(id, r.PathValue("songID")); err != nil {
		respondError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
