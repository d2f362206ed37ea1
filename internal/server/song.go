package server

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/lunarpine/resona/internal/library"
	"github.com/lunarpine/resona/internal/shared"
)

// SongHandler serves the local song catalog. Songs are created only through
// materialization, so there is no POST route here.
type SongHandler struct {
	songs  *library.SongService
	logger *log.Logger
	mux    *http.ServeMux
}

// NewSongHandler creates a SongHandler.
func NewSongHandler(songs *library.SongService, logger *log.Logger) *SongHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	h := &SongHandler{
		songs:  songs,
		logger: logger.With("handler", "song"),
		mux:    http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /api/songs", h.list)
	h.mux.HandleFunc("GET /api/songs/{id}", h.get)
	h.mux.HandleFunc("DELETE /api/songs/{id}", h.delete)

	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *SongHandler) Routes() []string {
	return []string{"/api/songs", "/api/songs/"}
}

// ServeHTTP implements [http.Handler].
func (h *SongHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *SongHandler) list(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songs.List(r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, newSongViews(songs))
}

func (h *SongHandler) get(w http.ResponseWriter, r *http.Request) {
	song, err := h.songs.Get(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, newSongView(song))
}

func (h *SongHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.songs.Delete(r.PathValue("id"), user.ID()); err != nil {
		respondError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
