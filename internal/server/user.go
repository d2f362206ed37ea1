package server

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/lunarpine/resona/internal/cache"
	"github.com/lunarpine/resona/internal/library"
	"github.com/lunarpine/resona/internal/shared"
)

// UserHandler serves account CRUD plus the authenticated user's music state
// under /api/me: the recently-played list and the favorites set. Both GET
// endpoints read through the cache; every mutation invalidates the user's
// entries.
type UserHandler struct {
	users  *library.UserService
	music  *library.UserMusicService
	cache  *cache.Cache
	logger *log.Logger
	mux    *http.ServeMux
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *library.UserService, music *library.UserMusicService, c *cache.Cache, logger *log.Logger) *UserHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	h := &UserHandler{
		users:  users,
		music:  music,
		cache:  c,
		logger: logger.With("handler", "user"),
		mux:    http.NewServeMux(),
	}

	h.mux.HandleFunc("POST /api/users", h.create)
	h.mux.HandleFunc("GET /api/users", h.list)
	h.mux.HandleFunc("GET /api/users/{id}", h.get)
	h.mux.HandleFunc("PATCH /api/users/{id}", h.update)
	h.mux.HandleFunc("DELETE /api/users/{id}", h.delete)

	h.mux.HandleFunc("GET /api/me/recents", h.recents)
	h.mux.HandleFunc("POST /api/me/recents", h.recordPlay)
	h.mux.HandleFunc("DELETE /api/me/recents/{songID}", h.removeRecent)
	h.mux.HandleFunc("GET /api/me/favorites", h.favorites)
	h.mux.HandleFunc("POST /api/me/favorites", h.addFavorite)
	h.mux.HandleFunc("DELETE /api/me/favorites/{songID}", h.removeFavorite)

	return h
}

func recentsKey(userID string) string   { return cache.Key("recents", userID) }
func favoritesKey(userID string) string { return cache.Key("favorites", userID) }

// Routes returns the HTTP routes this handler serves.
func (h *UserHandler) Routes() []string {
	return []string{"/api/users", "/api/users/", "/api/me/"}
}

// ServeHTTP implements [http.Handler].
func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, h.logger, err)
		return
	}

	user, err := h.users.Create(body.Email, body.Name)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respond(w, http.StatusCreated, newUserView(user))
}

func (h *UserHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	views := make([]userView, len(users))
	for i, u := range users {
		views[i] = newUserView(u)
	}
	respond(w, http.StatusOK, views)
}

func (h *UserHandler) get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respond(w, http.StatusOK, newUserView(user))
}

func (h *UserHandler) update(w http.ResponseWriter, r *http.Request) {
	current, err := CurrentUser(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	id := r.PathValue("id")
	if id != current.ID() {
		respondError(w, h.logger, shared.ErrForbidden)
		return
	}

	var body struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, h.logger, err)
		return
	}

	user, err := h.users.Update(id, body.Email, body.Name)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respond(w, http.StatusOK, newUserView(user))
}

func (h *UserHandler) delete(w http.ResponseWriter, r *http.Request) {
	current, err := CurrentUser(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.users.Delete(r.PathValue("id"), current.ID()); err != nil {
		respondError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) recents(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	var cached []recentSongView
	if h.cache.GetJSON(r.Context(), recentsKey(user.ID()), &cached) {
		respond(w, http.StatusOK, cached)
		return
	}

	recents, err := h.music.RecentlyPlayed(user.ID())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	views := make([]recentSongView, len(recents))
	for i, rec := range recents {
		views[i] = recentSongView{songView: newSongView(rec.Song), IsFavorite: rec.IsFavorite}
	}

	h.cache.SetJSON(r.Context(), recentsKey(user.ID()), views)
	respond(w, http.StatusOK, views)
}

func (h *UserHandler) recordPlay(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(r)
	if err != nil {
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

	song, err := h.music.RecordPlay(r.Context(), user.ID(), body.ExternalRef)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.cache.Invalidate(r.Context(), recentsKey(user.ID()))
	respond(w, http.StatusCreated, newSongView(song))
}

func (h *UserHandler) removeRecent(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.music.RemoveRecent(user.ID(), r.PathValue("songID")); err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.cache.Invalidate(r.Context(), recentsKey(user.ID()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) favorites(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	var cached []songView
	if h.cache.GetJSON(r.Context(), favoritesKey(user.ID()), &cached) {
		respond(w, http.StatusOK, cached)
		return
	}

	songs, err := h.music.Favorites(user.ID())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	views := newSongViews(songs)
	h.cache.SetJSON(r.Context(), favoritesKey(user.ID()), views)
	respond(w, http.StatusOK, views)
}

func (h *UserHandler) addFavorite(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(r)
	if err != nil {
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

	song, err := h.music.AddFavorite(r.Context(), user.ID(), body.ExternalRef)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	// Recents carry the favorite annotation, so both entries go stale.
	h.cache.Invalidate(r.Context(), favoritesKey(user.ID()), recentsKey(user.ID()))
	respond(w, http.StatusCreated, newSongView(song))
}

func (h *UserHandler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	user, err := CurrentUser(r)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.music.RemoveFavorite(user.ID(), r.PathValue("songID")); err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.cache.Invalidate(r.Context(), favoritesKey(user.ID()), recentsKey(user.ID()))
	w.WriteHeader(http.StatusNoContent)
}
