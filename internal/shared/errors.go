package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Provider errors. ErrProvider covers transport failures, malformed
	// responses and provider-side 5xx. It is never used for "content does
	// not exist", which is a terminal business outcome, not a failure.
	ErrProvider = fmt.Errorf("music provider request failed")

	// Not-found outcomes, matched with errors.Is and mapped to 404s.
	ErrMusicNotFound    = fmt.Errorf("music not found")
	ErrSongNotFound     = fmt.Errorf("song not found")
	ErrPlaylistNotFound = fmt.Errorf("playlist not found")
	ErrUserNotFound     = fmt.Errorf("user not found")
	ErrPostNotFound     = fmt.Errorf("post not found")

	// Uniqueness conflicts. ErrSongExists is raised by the song repository
	// when the unique index on external_ref rejects an insert; the
	// materializer recovers from it by returning the winning record.
	ErrSongExists = fmt.Errorf("song already exists")
	ErrUserExists = fmt.Errorf("user already exists")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")

	// Authorization errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrForbidden        = fmt.Errorf("forbidden")
)
