package server

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/lunarpine/resona/internal/cache"
	"github.com/lunarpine/resona/internal/library"
	"github.com/lunarpine/resona/internal/shared"
)

// MusicHandler serves provider-backed search and detail lookups. Neither
// endpoint materializes songs locally; responses are cached read-through.
type MusicHandler struct {
	materializer *library.Materializer
	cache        *cache.Cache
	logger       *log.Logger
	mux          *http.ServeMux
}

// NewMusicHandler creates a MusicHandler.
func NewMusicHandler(materializer *library.Materializer, c *cache.Cache, logger *log.Logger) *MusicHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	h := &MusicHandler{
		materializer: materializer,
		cache:        c,
		logger:       logger.With("handler", "music"),
		mux:          http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /api/music/search", h.search)
	h.mux.HandleFunc("GET /api/music/{ref}", h.detail)

	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *MusicHandler) Routes() []string {
	return []string{"/api/music/"}
}

// ServeHTTP implements [http.Handler].
func (h *MusicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *MusicHandler) search(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	if keyword == "" {
		respondError(w, h.logger, fmt.Errorf("%w: query parameter q is required", shared.ErrInvalidInput))
		return
	}

	key := cache.Key("search", keyword)
	var views []searchResultView
	if h.cache.GetJSON(r.Context(), key, &views) {
		respond(w, http.StatusOK, views)
		return
	}

	results, err := h.materializer.Search(r.Context(), keyword)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	views = newSearchResultViews(results)
	h.cache.SetJSON(r.Context(), key, views)
	respond(w, http.StatusOK, views)
}

func (h *MusicHandler) detail(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")

	key := cache.Key("detail", ref)
	var view songDetailView
	if h.cache.GetJSON(r.Context(), key, &view) {
		respond(w, http.StatusOK, view)
		return
	}

	detail, err := h.materializer.Detail(r.Context(), ref)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	view = newSongDetailView(detail)
	h.cache.SetJSON(r.Context(), key, view)
	respond(w, http.StatusOK, view)
}
