package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/repositories"
	"github.com/lunarpine/resona/internal/services"
	"github.com/lunarpine/resona/internal/shared"
)

// Materializer resolves external music references to local song records.
//
// The lookup-miss path is structured as "insert, and on conflict fetch the
// winner" rather than check-then-create, so two callers racing on the same
// unseen reference converge on a single record. Negative outcomes are not
// cached; a reference that failed to resolve is re-queried on the next call.
type Materializer struct {
	songs    *repositories.SongRepository
	provider services.Provider
	group    singleflight.Group
	logger   *log.Logger
}

// NewMaterializer creates a Materializer over the given repository and provider.
func NewMaterializer(songs *repositories.SongRepository, provider services.Provider, logger *log.Logger) *Materializer {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Materializer{
		songs:    songs,
		provider: provider,
		logger:   logger.With("service", "materializer"),
	}
}

// Materialize returns the canonical local song for an external reference,
// creating it on first reference.
//
// Returns [shared.ErrMusicNotFound] when the reference does not resolve to
// playable content; nothing is persisted in that case. Provider failures
// propagate wrapped in [shared.ErrProvider].
func (m *Materializer) Materialize(ctx context.Context, externalRef string) (*models.Song, error) {
	ref := strings.TrimSpace(externalRef)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty external reference", shared.ErrInvalidInput)
	}

	if song, err := m.songs.GetByExternalRef(ref); err == nil {
		return song, nil
	} else if !errors.Is(err, shared.ErrSongNotFound) {
		return nil, fmt.Errorf("failed to look up song: %w", err)
	}

	// Collapse concurrent misses on the same reference to one resolution.
	// The storage-level unique index still backstops materializations
	// racing across processes.
	v, err, _ := m.group.Do(ref, func() (any, error) {
		return m.resolve(ctx, ref)
	})
	if err != nil {
		return nil, err
	}

	return v.(*models.Song), nil
}

func (m *Materializer) resolve(ctx context.Context, ref string) (*models.Song, error) {
	// Re-check under the flight: a concurrent caller may have finished
	// between our miss and entering the group.
	if song, err := m.songs.GetByExternalRef(ref); err == nil {
		return song, nil
	} else if !errors.Is(err, shared.ErrSongNotFound) {
		return nil, fmt.Errorf("failed to look up song: %w", err)
	}

	detail, err := m.provider.GetDetail(ctx, ref)
	if err != nil {
		m.logger.Error("provider detail lookup failed", "ref", ref, "error", err)
		return nil, err
	}
	if detail == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrMusicNotFound, ref)
	}

	song := models.NewSong(0, ref, detail.Title, detail.Artist, detail.Duration, detail.Thumbnails)
	song.SetViewCount(detail.ViewCount)

	if err := m.songs.Create(song); err != nil {
		if errors.Is(err, shared.ErrSongExists) {
			// Someone else just created it; theirs is canonical.
			winner, ferr := m.songs.GetByExternalRef(ref)
			if ferr != nil {
				return nil, fmt.Errorf("failed to fetch winning song after conflict: %w", ferr)
			}
			m.logger.Debug("lost materialization race", "ref", ref, "winner", winner.ID())
			return winner, nil
		}
		return nil, fmt.Errorf("failed to create song: %w", err)
	}

	m.logger.Info("materialized song", "ref", ref, "id", song.ID(), "name", song.Name())
	return song, nil
}

// Search passes a keyword search through to the provider.
func (m *Materializer) Search(ctx context.Context, keyword string) ([]services.SongSummary, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("%w: empty search keyword", shared.ErrInvalidInput)
	}

	results, err := m.provider.Search(ctx, keyword)
	if err != nil {
		m.logger.Error("provider search failed", "keyword", keyword, "error", err)
		return nil, err
	}

	return results, nil
}

// Detail passes a detail lookup through to the provider without
// materializing anything locally.
func (m *Materializer) Detail(ctx context.Context, externalRef string) (*services.SongDetail, error) {
	ref := strings.TrimSpace(externalRef)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty external reference", shared.ErrInvalidInput)
	}

	detail, err := m.provider.GetDetail(ctx, ref)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, fmt.Errorf("%w: %s", shared.ErrMusicNotFound, ref)
	}

	return detail, nil
}
