package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gameshelfapp/gameshelf-server/internal/domain"
	domainerrors "github.com/gameshelfapp/gameshelf-server/internal/errors"
	"github.com/gameshelfapp/gameshelf-server/internal/id"
	"github.com/gameshelfapp/gameshelf-server/internal/query"
	"github.com/gameshelfapp/gameshelf-server/internal/store"
)

// PlaylistService manages manual playlists and smart playlists. Smart
// playlists store a filter expression that is re-evaluated against the
// collection on every read, so they never go stale.
type PlaylistService struct {
	store     *store.Store
	libraries *LibraryService
	logger    *slog.Logger
}

// NewPlaylistService creates a new playlist service.
func NewPlaylistService(store *store.Store, libraries *LibraryService, logger *slog.Logger) *PlaylistService {
	return &PlaylistService{
		store:     store,
		libraries: libraries,
		logger:    logger,
	}
}

// CreatePlaylistRequest contains the data for a new playlist.
type CreatePlaylistRequest struct {
	Name string `json:"name" validate:"required,max=200"`
	Kind string `json:"kind" validate:"required,oneof=MANUAL SMART"`

	// Filters is required for smart playlists, ignored for manual ones.
	Filters domain.GameFilters `json:"filters,omitzero"`
}

// ResolvedPlaylist is a playlist together with its current games.
type ResolvedPlaylist struct {
	Playlist *domain.Playlist `json:"playlist"`
	Games    []*domain.Game   `json:"games"`
}

// Create creates a playlist in a library. Requires a managing role.
func (s *PlaylistService) Create(ctx context.Context, libraryID, actorID string, req CreatePlaylistRequest) (*domain.Playlist, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	kind := domain.PlaylistKind(req.Kind)
	if kind == domain.PlaylistKindSmart && req.Filters.IsZero() {
		return nil, domainerrors.Validation("smart playlists need at least one filter")
	}

	if _, _, err := s.libraries.RequireManager(ctx, libraryID, actorID); err != nil {
		return nil, err
	}

	playlistID, err := id.Generate("pl")
	if err != nil {
		return nil, fmt.Errorf("generate playlist ID: %w", err)
	}

	now := time.Now()
	playlist := &domain.Playlist{
		ID:        playlistID,
		LibraryID: libraryID,
		Name:      req.Name,
		Kind:      kind,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if kind == domain.PlaylistKindSmart {
		playlist.Filters = req.Filters
	}

	if err := s.store.Playlists.Create(ctx, playlist.ID, playlist); err != nil {
		return nil, fmt.Errorf("create playlist: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("playlist created",
			"playlist_id", playlistID,
			"library_id", libraryID,
			"kind", req.Kind,
		)
	}

	return playlist, nil
}

// ListForLibrary returns every playlist in a library.
func (s *PlaylistService) ListForLibrary(ctx context.Context, libraryID, actorID string) ([]*domain.Playlist, error) {
	if _, _, err := s.libraries.RequireMember(ctx, libraryID, actorID); err != nil {
		return nil, err
	}

	var playlists []*domain.Playlist
	for playlist, err := range s.store.Playlists.ListByIndex(ctx, "library", libraryID) {
		if err != nil {
			return nil, fmt.Errorf("list playlists: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	return playlists, nil
}

// Resolve returns a playlist with its current games. Manual playlists
// keep their curated order; games that were deleted since they were
// added are skipped. Smart playlists evaluate their saved filters.
func (s *PlaylistService) Resolve(ctx context.Context, playlistID, actorID string) (*ResolvedPlaylist, error) {
	playlist, err := s.getChecked(ctx, playlistID, actorID)
	if err != nil {
		return nil, err
	}

	var games []*domain.Game
	switch playlist.Kind {
	case domain.PlaylistKindSmart:
		games, err = s.evaluateSmart(ctx, playlist)
	default:
		games, err = s.resolveManual(ctx, playlist)
	}
	if err != nil {
		return nil, err
	}

	return &ResolvedPlaylist{Playlist: playlist, Games: games}, nil
}

// AddGame appends a game to a manual playlist.
func (s *PlaylistService) AddGame(ctx context.Context, playlistID, gameID, actorID string) (*domain.Playlist, error) {
	playlist, err := s.getChecked(ctx, playlistID, actorID)
	if err != nil {
		return nil, err
	}
	if playlist.Kind != domain.PlaylistKindManual {
		return nil, domainerrors.Validation("games cannot be added to a smart playlist")
	}

	if _, _, err := s.libraries.RequireManager(ctx, playlist.LibraryID, actorID); err != nil {
		return nil, err
	}

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("game not found")
		}
		return nil, fmt.Errorf("get game: %w", err)
	}
	if game.LibraryID != playlist.LibraryID {
		return nil, domainerrors.Validation("game belongs to a different library")
	}

	playlist.AddGame(gameID)
	playlist.UpdatedAt = time.Now()

	if err := s.store.Playlists.Update(ctx, playlist.ID, playlist); err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}

	return playlist, nil
}

// RemoveGame drops a game from a manual playlist.
func (s *PlaylistService) RemoveGame(ctx context.Context, playlistID, gameID, actorID string) (*domain.Playlist, error) {
	playlist, err := s.getChecked(ctx, playlistID, actorID)
	if err != nil {
		return nil, err
	}
	if playlist.Kind != domain.PlaylistKindManual {
		return nil, domainerrors.Validation("games cannot be removed from a smart playlist")
	}

	if _, _, err := s.libraries.RequireManager(ctx, playlist.LibraryID, actorID); err != nil {
		return nil, err
	}

	playlist.RemoveGame(gameID)
	playlist.UpdatedAt = time.Now()

	if err := s.store.Playlists.Update(ctx, playlist.ID, playlist); err != nil {
		return nil, fmt.Errorf("update playlist: %w", err)
	}

	return playlist, nil
}

// Delete removes a playlist. Requires a managing role.
func (s *PlaylistService) Delete(ctx context.Context, playlistID, actorID string) error {
	playlist, err := s.getChecked(ctx, playlistID, actorID)
	if err != nil {
		return err
	}

	if _, _, err := s.libraries.RequireManager(ctx, playlist.LibraryID, actorID); err != nil {
		return err
	}

	return s.store.Playlists.Delete(ctx, playlistID)
}

// getChecked loads a playlist and verifies library membership.
func (s *PlaylistService) getChecked(ctx context.Context, playlistID, actorID string) (*domain.Playlist, error) {
	playlist, err := s.store.Playlists.Get(ctx, playlistID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("playlist not found")
		}
		return nil, fmt.Errorf("get playlist: %w", err)
	}

	if _, _, err := s.libraries.RequireMember(ctx, playlist.LibraryID, actorID); err != nil {
		return nil, err
	}

	return playlist, nil
}

// resolveManual fetches the curated games, keeping order and skipping
// any that have been deleted.
func (s *PlaylistService) resolveManual(ctx context.Context, playlist *domain.Playlist) ([]*domain.Game, error) {
	games := make([]*domain.Game, 0, len(playlist.GameIDs))
	for _, gameID := range playlist.GameIDs {
		game, err := s.store.GetGame(ctx, gameID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get game %s: %w", gameID, err)
		}
		games = append(games, game)
	}
	return games, nil
}

// evaluateSmart runs the saved filters against the library's current
// collection.
func (s *PlaylistService) evaluateSmart(ctx context.Context, playlist *domain.Playlist) ([]*domain.Game, error) {
	all, err := s.store.ListGamesByLibrary(ctx, playlist.LibraryID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	parsed := query.Parse(playlist.Filters.Query)

	games := make([]*domain.Game, 0, len(all))
	for _, game := range all {
		if query.MatchesParsed(game, parsed, playlist.Filters) {
			games = append(games, game)
		}
	}

	query.SortGames(games, playlist.Filters.Sort, playlist.Filters.Order)

	return games, nil
}
