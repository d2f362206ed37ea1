package library

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/lunarpine/resona/internal/models"
	"github.com/lunarpine/resona/internal/repositories"
	"github.com/lunarpine/resona/internal/services"
	"github.com/lunarpine/resona/internal/shared"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// One connection so the in-memory database is shared across queries.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

// mockProvider implements [services.Provider] with canned responses and
// call counting.
type mockProvider struct {
	mu          sync.Mutex
	details     map[string]*services.SongDetail
	results     []services.SongSummary
	err         error
	detailCalls int
	searchCalls int
	onDetail    func()
}

func newMockProvider() *mockProvider {
	return &mockProvider{details: map[string]*services.SongDetail{}}
}

func (m *mockProvider) addDetail(ref, title string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.details[ref] = &services.SongDetail{
		ExternalRef: ref,
		Title:       title,
		Artist:      "Mock Artist",
		Duration:    200,
		ViewCount:   1000,
		StreamURL:   "http://cdn/" + ref,
		Bitrate:     160,
	}
}

func (m *mockProvider) Search(ctx context.Context, keyword string) ([]services.SongSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *mockProvider) GetDetail(ctx context.Context, externalRef string) (*services.SongDetail, error) {
	m.mu.Lock()
	m.detailCalls++
	err := m.err
	detail := m.details[externalRef]
	hook := m.onDetail
	m.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if hook != nil {
		hook()
	}
	return detail, nil
}

func (m *mockProvider) Name() string { return "Mock" }

func mockSummary(ref, title string) services.SongSummary {
	return services.SongSummary{
		ExternalRef: ref,
		Title:       title,
		Artist:      "Mock Artist",
		Duration:    200,
	}
}

func (m *mockProvider) calls() (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.searchCalls, m.detailCalls
}

type testEnv struct {
	db           *sql.DB
	provider     *mockProvider
	songs        *repositories.SongRepository
	playlists    *repositories.PlaylistRepository
	users        *repositories.UserRepository
	posts        *repositories.PostRepository
	materializer *Materializer
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	provider := newMockProvider()
	songs := repositories.NewSongRepository(db)

	return &testEnv{
		db:           db,
		provider:     provider,
		songs:        songs,
		playlists:    repositories.NewPlaylistRepository(db),
		users:        repositories.NewUserRepository(db),
		posts:        repositories.NewPostRepository(db),
		materializer: NewMaterializer(songs, provider, nil),
	}
}

func (e *testEnv) createUser(t *testing.T, email string) *models.User {
	t.Helper()

	user := models.NewUser(0, email, "Test User")
	if err := e.users.Create(user); err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}
