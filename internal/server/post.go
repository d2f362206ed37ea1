package server

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/lunarpine/resona/internal/library"
	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/shared"
)

// PostHandler serves the social feed: post creation, listing, like toggling,
// and author-only deletion.
type PostHandler struct {
	posts  *library.PostService
	logger *log.Logger
	mux    *http.ServeMux
}

// NewPostHandler creates a PostHandler.
func NewPostHandler(posts *library.PostService, logger *log.Logger) *PostHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	h := &PostHandler{
		posts:  posts,
		logger: logger.With("handler", "post"),
		mux:    http.NewServeMux(),
	}

	h.mux.HandleFunc("POST /api/posts", h.create)
	h.mux.HandleFunc("GET /api/posts", h.list)
	h.mux.HandleFunc("GET /api/posts/{id}", h.get)
	h.mux.HandleFunc("DELETE /api/posts/{id}", h.delete)
	h.mux.HandleFunc("POST /api/posts/{id}/like", h.toggleLike)

	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *PostHandler) Routes() []string {
	return []string{"/api/posts", "/api/posts/"}
}

// ServeHTTP implements [http.Handler].
func (h *PostHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *PostHandler) create(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	var body struct {
		Type        models.PostType `json:"type"`
		Description string          `json:"description"`
		ExternalRef string          `json:"externalRef"`
		PlaylistID  string          `json:"playlistId"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, h.logger, err)
		return
	}

	post, err := h.posts.Create(r.Context(), user.ID(), library.PostCreate{
		Type:        body.Type,
		Description: body.Description,
		ExternalRef: body.ExternalRef,
		PlaylistID:  body.PlaylistID,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respond(w, http.StatusCreated, newPostView(post))
}

func (h *PostHandler) list(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.URL.Query().Get("user"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	views := make([]postView, len(posts))
	for i, p := range posts {
		views[i] = newPostView(p)
	}
	respond(w, http.StatusOK, views)
}

func (h *PostHandler) get(w http.ResponseWriter, r *http.Request) {
	post, err := h.posts.Get(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, newPostView(post))
}

func (h *PostHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.posts.Delete(r.PathValue("id"), user.ID()); err != nil {
		respondError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) toggleLike(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	likes, err := h.posts.ToggleLike(r.PathValue("id"), user.ID())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if likes == nil {
		likes = []string{}
	}

	respond(w, http.StatusOK, map[string]any{"likes": likes})
}
