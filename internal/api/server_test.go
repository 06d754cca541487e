package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameshelfapp/gameshelf-server/internal/auth"
	"github.com/gameshelfapp/gameshelf-server/internal/bgg"
	"github.com/gameshelfapp/gameshelf-server/internal/gameimport"
	"github.com/gameshelfapp/gameshelf-server/internal/logger"
	"github.com/gameshelfapp/gameshelf-server/internal/search"
	"github.com/gameshelfapp/gameshelf-server/internal/service"
	"github.com/gameshelfapp/gameshelf-server/internal/store"
)

const testKeyHex = "0000000000000000000000000000000000000000000000000000000000000001"

// fakeBGG stands in for the BoardGameGeek client in API tests.
type fakeBGG struct {
	searchResults []bgg.SearchResult
	details       []bgg.GameDetails
	err           error
}

func (f *fakeBGG) Search(_ context.Context, _ string) ([]bgg.SearchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.searchResults, nil
}

func (f *fakeBGG) GetGames(_ context.Context, _ []int) ([]bgg.GameDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.details, nil
}

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api          humatest.TestAPI
	tokenService *auth.TokenService
	bgg          *fakeBGG
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpDir := t.TempDir()

	st, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	searchIndex, err := search.NewSearchIndex(search.Options{
		DataPath: filepath.Join(tmpDir, "search"),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	st.SetSearchIndexer(searchIndex)

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	log := logger.New(logger.Config{
		Writer: io.Discard,
		Format: "json",
		Level:  slog.LevelError,
	})
	slogger := log.Logger

	fake := &fakeBGG{}

	libraryService := service.NewLibraryService(st, slogger)
	services := &Services{
		Auth:     service.NewAuthService(st, tokenService, slogger),
		Library:  libraryService,
		Game:     service.NewGameService(st, libraryService, slogger),
		Borrow:   service.NewBorrowService(st, libraryService, slogger),
		Playlist: service.NewPlaylistService(st, libraryService, slogger),
		Import:   service.NewImportService(st, fake, libraryService, slogger),
		Search:   service.NewSearchService(searchIndex, st, libraryService, slogger),
	}

	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig("GameShelf API Test", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		api:             api,
		logger:          log,
		authRateLimiter: NewRateLimiter(1000, time.Minute, 500),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerLibraryRoutes()
	s.registerGameRoutes()
	s.registerBorrowRoutes()
	s.registerPlaylistRoutes()
	s.registerImportRoutes()
	s.registerSearchRoutes()

	t.Cleanup(func() {
		_ = searchIndex.Close()
		_ = st.Close()
	})

	return &testServer{
		Server:       s,
		api:          humatest.Wrap(t, api),
		tokenService: tokenService,
		bgg:          fake,
	}
}

// registerUser creates a user and returns their access token.
func (ts *testServer) registerUser(t *testing.T, email string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        email,
		"password":     "correct horse battery",
		"display_name": "Test User",
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)

	return envelope.Data.AccessToken
}

// createLibrary creates a library and returns its ID.
func (ts *testServer) createLibrary(t *testing.T, token string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/libraries",
		map[string]any{"name": "Game Night"},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, "create library failed: %s", resp.Body.String())

	var envelope testEnvelope[LibraryResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	return envelope.Data.ID
}

// createGame creates a game and returns its ID.
func (ts *testServer) createGame(t *testing.T, token, libraryID string, body map[string]any) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/libraries/"+libraryID+"/games", body,
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, "create game failed: %s", resp.Body.String())

	var envelope testEnvelope[GameResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	return envelope.Data.ID
}

// === Tests ===

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[HealthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Equal(t, "healthy", envelope.Data.Components["database"].Status)
	// Nothing indexed yet, so search reads as degraded.
	assert.Equal(t, "degraded", envelope.Data.Components["search"].Status)
}

func TestAuth_RegisterAndCurrentUser(t *testing.T) {
	ts := setupTestServer(t)

	token := ts.registerUser(t, "alice@example.com")

	resp := ts.api.Get("/api/v1/users/me", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[UserResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "alice@example.com", envelope.Data.Email)

	// The password hash must never appear on the wire.
	assert.NotContains(t, resp.Body.String(), "password_hash")
}

func TestAuth_RegisterResponseOmitsHash(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "bob@example.com",
		"password":     "correct horse battery",
		"display_name": "Bob",
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), "password_hash")
	assert.NotContains(t, resp.Body.String(), "argon2")
}

func TestAuth_MissingToken(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/libraries")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, 1, envelope.Version)
}

func TestAuth_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "alice@example.com")

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "alice@example.com",
		"password": "wrong password entirely",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Code)
}

func TestAuth_RefreshRotation(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":        "alice@example.com",
		"password":     "correct horse battery",
		"display_name": "Alice",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var reg testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &reg))

	// Rotate once.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": reg.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	// The old refresh token is now dead.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": reg.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLibrary_CRUD(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "alice@example.com")

	libraryID := ts.createLibrary(t, token)

	resp := ts.api.Get("/api/v1/libraries", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var list testEnvelope[ListLibrariesResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	require.Len(t, list.Data.Libraries, 1)
	assert.Equal(t, "Game Night", list.Data.Libraries[0].Name)
	assert.Equal(t, "OWNER", list.Data.Libraries[0].Members[0].Role)

	resp = ts.api.Delete("/api/v1/libraries/"+libraryID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/libraries/"+libraryID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestLibrary_NonMemberForbidden(t *testing.T) {
	ts := setupTestServer(t)
	owner := ts.registerUser(t, "alice@example.com")
	stranger := ts.registerUser(t, "mallory@example.com")

	libraryID := ts.createLibrary(t, owner)

	resp := ts.api.Get("/api/v1/libraries/"+libraryID+"/games", "Authorization: Bearer "+stranger)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "FORBIDDEN", envelope.Code)
}

func TestGame_FilteredList(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "alice@example.com")
	libraryID := ts.createLibrary(t, token)

	ts.createGame(t, token, libraryID, map[string]any{
		"title": "Catan", "min_players": 3, "max_players": 4,
		"playtime_min": 60, "playtime_max": 120,
	})
	ts.createGame(t, token, libraryID, map[string]any{
		"title": "Love Letter", "min_players": 2, "max_players": 4,
		"playtime_min": 20, "playtime_max": 20,
	})
	ts.createGame(t, token, libraryID, map[string]any{
		"title": "Twilight Imperium", "min_players": 3, "max_players": 6,
		"playtime_min": 240, "playtime_max": 480,
	})

	resp := ts.api.Get("/api/v1/libraries/"+libraryID+"/games?q=quick+2+player",
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var list testEnvelope[ListGamesResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))

	require.Equal(t, 1, list.Data.Total)
	assert.Equal(t, "Love Letter", list.Data.Games[0].Title)
	assert.NotEmpty(t, list.Data.Summary)

	// No filters returns the whole shelf.
	resp = ts.api.Get("/api/v1/libraries/"+libraryID+"/games",
		"Authorization: Bearer "+token)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Equal(t, 3, list.Data.Total)
}

func TestGame_UpdateAndDelete(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "alice@example.com")
	libraryID := ts.createLibrary(t, token)

	gameID := ts.createGame(t, token, libraryID, map[string]any{
		"title": "Wingspan", "min_players": 1, "max_players": 5,
	})

	resp := ts.api.Put("/api/v1/games/"+gameID, map[string]any{
		"title": "Wingspan", "min_players": 1, "max_players": 5,
		"location": "Shelf B", "rating": 8.5,
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var game testEnvelope[GameResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &game))
	assert.Equal(t, "Shelf B", game.Data.Location)
	assert.InDelta(t, 8.5, game.Data.Rating, 0.001)

	resp = ts.api.Delete("/api/v1/games/"+gameID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/games/"+gameID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBorrow_FlowOverHTTP(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "alice@example.com")
	libraryID := ts.createLibrary(t, token)
	gameID := ts.createGame(t, token, libraryID, map[string]any{
		"title": "Wingspan", "min_players": 1, "max_players": 5,
	})

	resp := ts.api.Post("/api/v1/games/"+gameID+"/borrow",
		map[string]any{"borrower_name": "Dana"},
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	// The game flips to borrowed.
	resp = ts.api.Get("/api/v1/games/"+gameID, "Authorization: Bearer "+token)
	var game testEnvelope[GameResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &game))
	assert.Equal(t, "BORROWED", game.Data.Status)

	// A second borrow conflicts.
	resp = ts.api.Post("/api/v1/games/"+gameID+"/borrow",
		map[string]any{"borrower_name": "Eve"},
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusConflict, resp.Code)

	// Open borrows for the library show it.
	resp = ts.api.Get("/api/v1/libraries/"+libraryID+"/borrows", "Authorization: Bearer "+token)
	var open testEnvelope[BorrowListResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &open))
	require.Len(t, open.Data.Borrows, 1)
	assert.Equal(t, "Dana", open.Data.Borrows[0].BorrowerName)

	// Return closes it.
	resp = ts.api.Post("/api/v1/games/"+gameID+"/return", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/libraries/"+libraryID+"/borrows", "Authorization: Bearer "+token)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &open))
	assert.Empty(t, open.Data.Borrows)
}

func TestPlaylist_SmartOverHTTP(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "alice@example.com")
	libraryID := ts.createLibrary(t, token)

	ts.createGame(t, token, libraryID, map[string]any{
		"title": "Catan", "min_players": 3, "max_players": 4,
		"playtime_min": 60, "playtime_max": 120,
	})
	ts.createGame(t, token, libraryID, map[string]any{
		"title": "Love Letter", "min_players": 2, "max_players": 4,
		"playtime_min": 20, "playtime_max": 20,
	})

	resp := ts.api.Post("/api/v1/libraries/"+libraryID+"/playlists", map[string]any{
		"name":    "Fillers",
		"kind":    "SMART",
		"filters": map[string]any{"max_playtime": 30},
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var created testEnvelope[PlaylistResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = ts.api.Get("/api/v1/playlists/"+created.Data.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var resolved testEnvelope[ResolvedPlaylistResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &resolved))
	require.Len(t, resolved.Data.Games, 1)
	assert.Equal(t, "Love Letter", resolved.Data.Games[0].Title)

	// Curating a smart playlist by hand is rejected.
	resp = ts.api.Post("/api/v1/playlists/"+created.Data.ID+"/games/some-game",
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestImport_PreviewAndConfirmOverHTTP(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "alice@example.com")
	libraryID := ts.createLibrary(t, token)

	// Seed the reference catalog.
	ctx := context.Background()
	require.NoError(t, ts.store.PutCatalogEntry(ctx, &gameimport.CatalogEntry{BggID: 13, Title: "Catan"}))
	require.NoError(t, ts.store.PutCatalogEntry(ctx, &gameimport.CatalogEntry{BggID: 30549, Title: "Pandemic"}))

	resp := ts.api.Post("/api/v1/libraries/"+libraryID+"/import/preview",
		map[string]any{"list": "Catan\nPandemic\nSome Game Nobody Knows"},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var preview testEnvelope[gameimport.Preview]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &preview))
	assert.Equal(t, 3, preview.Data.Total)
	assert.Equal(t, 2, preview.Data.Matched)
	assert.Equal(t, 1, preview.Data.Unmatched)

	resp = ts.api.Post("/api/v1/libraries/"+libraryID+"/import/confirm", map[string]any{
		"games": []map[string]any{
			{"title": "Catan", "bgg_id": 13},
			{"title": "Some Game Nobody Knows"},
		},
	}, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var confirmed testEnvelope[ConfirmImportResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &confirmed))
	assert.Len(t, confirmed.Data.Created, 2)
}

func TestImport_BGGDownReturnsBadGateway(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "alice@example.com")
	libraryID := ts.createLibrary(t, token)

	ts.bgg.err = bgg.ErrServer

	resp := ts.api.Post("/api/v1/libraries/"+libraryID+"/import/confirm", map[string]any{
		"games":  []map[string]any{{"title": "Catan", "bgg_id": 13}},
		"enrich": true,
	}, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadGateway, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "UNAVAILABLE", envelope.Code)

	// Nothing was written.
	resp = ts.api.Get("/api/v1/libraries/"+libraryID+"/games", "Authorization: Bearer "+token)
	var list testEnvelope[ListGamesResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Equal(t, 0, list.Data.Total)
}

func TestSearch_OverHTTP(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "alice@example.com")
	libraryID := ts.createLibrary(t, token)

	ts.createGame(t, token, libraryID, map[string]any{
		"title": "Wingspan", "min_players": 1, "max_players": 5,
	})

	resp := ts.api.Get("/api/v1/libraries/"+libraryID+"/search?q=wingspan",
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var result testEnvelope[SearchLibraryResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.NotEmpty(t, result.Data.Hits)
	assert.Equal(t, "Wingspan", result.Data.Hits[0].Title)
}

func TestSearch_Reindex(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.registerUser(t, "alice@example.com")
	libraryID := ts.createLibrary(t, token)

	ts.createGame(t, token, libraryID, map[string]any{
		"title": "Wingspan", "min_players": 1, "max_players": 5,
	})
	ts.createGame(t, token, libraryID, map[string]any{
		"title": "Catan", "min_players": 3, "max_players": 4,
	})

	resp := ts.api.Post("/api/v1/admin/search/reindex", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var result testEnvelope[ReindexResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Data.Documents)
}
