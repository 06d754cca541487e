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

// GameService manages the games in a collection, including the
// free-text filtered listing that backs the main shelf view.
type GameService struct {
	store     *store.Store
	libraries *LibraryService
	logger    *slog.Logger
}

// NewGameService creates a new game service.
func NewGameService(store *store.Store, libraries *LibraryService, logger *slog.Logger) *GameService {
	return &GameService{
		store:     store,
		libraries: libraries,
		logger:    logger,
	}
}

// GameInput contains the writable fields of a game.
type GameInput struct {
	Title       string `json:"title" validate:"required,max=500"`
	Description string `json:"description,omitempty" validate:"max=10000"`
	CoverURL    string `json:"cover_url,omitempty" validate:"omitempty,url"`

	BggID         int `json:"bgg_id,omitempty" validate:"min=0"`
	YearPublished int `json:"year_published,omitempty" validate:"min=0"`

	MinPlayers int `json:"min_players" validate:"min=0"`
	MaxPlayers int `json:"max_players" validate:"min=0"`

	PlaytimeMin int `json:"playtime_min,omitempty" validate:"min=0"`
	PlaytimeMax int `json:"playtime_max,omitempty" validate:"min=0"`

	Categories []string `json:"categories,omitempty"`
	Mechanics  []string `json:"mechanics,omitempty"`

	Status   string  `json:"status,omitempty" validate:"omitempty,oneof=AVAILABLE BORROWED STORAGE"`
	Location string  `json:"location,omitempty" validate:"max=200"`
	Rating   float64 `json:"rating,omitempty" validate:"min=0,max=10"`
}

// ListResult is a filtered, sorted shelf view plus a human-readable
// summary of how the free-text query was understood.
type ListResult struct {
	Games   []*domain.Game `json:"games"`
	Total   int            `json:"total"`
	Summary string         `json:"summary"`
}

// Create adds a game to a library. Requires a managing role.
func (s *GameService) Create(ctx context.Context, libraryID, actorID string, input GameInput) (*domain.Game, error) {
	if err := validate.Validate(input); err != nil {
		return nil, err
	}
	if err := validatePlayerRange(input); err != nil {
		return nil, err
	}

	if _, _, err := s.libraries.RequireManager(ctx, libraryID, actorID); err != nil {
		return nil, err
	}

	gameID, err := id.Generate("game")
	if err != nil {
		return nil, fmt.Errorf("generate game ID: %w", err)
	}

	now := time.Now()
	game := &domain.Game{
		ID:        gameID,
		LibraryID: libraryID,
		CreatedAt: now,
		UpdatedAt: now,
		Status:    domain.GameStatusAvailable,
	}
	applyInput(game, input)

	if err := s.store.CreateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	return game, nil
}

// Get returns one game, checking library membership.
func (s *GameService) Get(ctx context.Context, gameID, actorID string) (*domain.Game, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("game not found")
		}
		return nil, fmt.Errorf("get game: %w", err)
	}

	if _, _, err := s.libraries.RequireMember(ctx, game.LibraryID, actorID); err != nil {
		return nil, err
	}

	return game, nil
}

// Update replaces the writable fields of a game. Requires a managing role.
func (s *GameService) Update(ctx context.Context, gameID, actorID string, input GameInput) (*domain.Game, error) {
	if err := validate.Validate(input); err != nil {
		return nil, err
	}
	if err := validatePlayerRange(input); err != nil {
		return nil, err
	}

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("game not found")
		}
		return nil, fmt.Errorf("get game: %w", err)
	}

	if _, _, err := s.libraries.RequireManager(ctx, game.LibraryID, actorID); err != nil {
		return nil, err
	}

	applyInput(game, input)
	game.UpdatedAt = time.Now()

	if err := s.store.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("update game: %w", err)
	}

	return game, nil
}

// Delete removes a game. Requires a managing role.
func (s *GameService) Delete(ctx context.Context, gameID, actorID string) error {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("game not found")
		}
		return fmt.Errorf("get game: %w", err)
	}

	if _, _, err := s.libraries.RequireManager(ctx, game.LibraryID, actorID); err != nil {
		return err
	}

	return s.store.DeleteGame(ctx, gameID)
}

// MarkPlayed records a play of the game right now.
func (s *GameService) MarkPlayed(ctx context.Context, gameID, actorID string) (*domain.Game, error) {
	game, err := s.Get(ctx, gameID, actorID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	game.LastPlayedAt = &now
	game.UpdatedAt = now

	if err := s.store.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("update game: %w", err)
	}

	return game, nil
}

// List returns the games in a library matching the given filters, sorted
// as requested. The free-text query inside the filters is parsed once
// and evaluated against every game.
func (s *GameService) List(ctx context.Context, libraryID, actorID string, filters domain.GameFilters) (*ListResult, error) {
	if _, _, err := s.libraries.RequireMember(ctx, libraryID, actorID); err != nil {
		return nil, err
	}

	games, err := s.store.ListGamesByLibrary(ctx, libraryID)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}

	parsed := query.Parse(filters.Query)

	matched := make([]*domain.Game, 0, len(games))
	for _, game := range games {
		if query.MatchesParsed(game, parsed, filters) {
			matched = append(matched, game)
		}
	}

	query.SortGames(matched, filters.Sort, filters.Order)

	return &ListResult{
		Games:   matched,
		Total:   len(matched),
		Summary: query.Describe(parsed),
	}, nil
}

// applyInput copies writable fields onto the game. Status is only
// changed when the input names one, since borrow operations own the
// available/borrowed flip.
func applyInput(game *domain.Game, input GameInput) {
	game.Title = input.Title
	game.Description = input.Description
	game.CoverURL = input.CoverURL
	game.BggID = input.BggID
	game.YearPublished = input.YearPublished
	game.MinPlayers = input.MinPlayers
	game.MaxPlayers = input.MaxPlayers
	game.PlaytimeMin = input.PlaytimeMin
	game.PlaytimeMax = input.PlaytimeMax
	game.Categories = input.Categories
	game.Mechanics = input.Mechanics
	game.Location = input.Location
	game.Rating = input.Rating

	if input.Status != "" {
		game.Status = domain.GameStatus(input.Status)
	}
}

// validatePlayerRange rejects inverted ranges the tag validators can't
// express.
func validatePlayerRange(input GameInput) error {
	if input.MinPlayers > 0 && input.MaxPlayers > 0 && input.MinPlayers > input.MaxPlayers {
		return domainerrors.Validation("min_players cannot exceed max_players")
	}
	if input.PlaytimeMin > 0 && input.PlaytimeMax > 0 && input.PlaytimeMin > input.PlaytimeMax {
		return domainerrors.Validation("playtime_min cannot exceed playtime_max")
	}
	return nil
}
