package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gameshelfapp/gameshelf-server/internal/bgg"
	"github.com/gameshelfapp/gameshelf-server/internal/domain"
	domainerrors "github.com/gameshelfapp/gameshelf-server/internal/errors"
	"github.com/gameshelfapp/gameshelf-server/internal/gameimport"
	"github.com/gameshelfapp/gameshelf-server/internal/id"
	"github.com/gameshelfapp/gameshelf-server/internal/store"
)

// BGGClient is the slice of the BoardGameGeek client the import flow
// needs. Satisfied by *bgg.Client.
type BGGClient interface {
	Search(ctx context.Context, query string) ([]bgg.SearchResult, error)
	GetGames(ctx context.Context, ids []int) ([]bgg.GameDetails, error)
}

// ImportService turns pasted game lists into collection entries. The
// flow is two-step: Preview matches the list against the reference
// catalog without writing anything, then Confirm creates the games the
// user accepted.
type ImportService struct {
	store     *store.Store
	bgg       BGGClient
	libraries *LibraryService
	logger    *slog.Logger
}

// NewImportService creates a new import service.
func NewImportService(store *store.Store, bgg BGGClient, libraries *LibraryService, logger *slog.Logger) *ImportService {
	return &ImportService{
		store:     store,
		bgg:       bgg,
		libraries: libraries,
		logger:    logger,
	}
}

// PreviewRequest carries the pasted list.
type PreviewRequest struct {
	List string `json:"list" validate:"required,max=100000"`
}

// ConfirmGame is one accepted line of the preview. BggID is set when
// the line matched the catalog, zero for free-form entries.
type ConfirmGame struct {
	Title string `json:"title" validate:"required,max=500"`
	BggID int    `json:"bgg_id,omitempty" validate:"min=0"`
}

// ConfirmRequest creates the accepted games. When Enrich is set, games
// with a BGG ID are filled in from the BGG API before being stored.
type ConfirmRequest struct {
	Games  []ConfirmGame `json:"games" validate:"required,min=1,max=500,dive"`
	Enrich bool          `json:"enrich,omitempty"`
}

// ImportResult reports what Confirm created.
type ImportResult struct {
	Created  []*domain.Game `json:"created"`
	Enriched int            `json:"enriched"`
}

// Preview parses a pasted list and matches each line against the
// reference catalog. Nothing is written.
func (s *ImportService) Preview(ctx context.Context, libraryID, actorID string, req PreviewRequest) (*gameimport.Preview, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, _, err := s.libraries.RequireMember(ctx, libraryID, actorID); err != nil {
		return nil, err
	}

	names := gameimport.ParseList(req.List)
	if len(names) == 0 {
		return nil, domainerrors.Validation("no games found in list")
	}

	catalog, err := s.store.ListCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	preview, err := gameimport.MatchList(ctx, names, catalog)
	if err != nil {
		return nil, fmt.Errorf("match list: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("import preview",
			"library_id", libraryID,
			"total", preview.Total,
			"matched", preview.Matched,
		)
	}

	return preview, nil
}

// Confirm creates the accepted games in the library. Requires a
// managing role. Duplicate titles are allowed; owning two copies of a
// game is a real thing.
func (s *ImportService) Confirm(ctx context.Context, libraryID, actorID string, req ConfirmRequest) (*ImportResult, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	if _, _, err := s.libraries.RequireManager(ctx, libraryID, actorID); err != nil {
		return nil, err
	}

	// Enrichment happens before any game is written so a BGG outage
	// fails the whole request instead of leaving a half-filled batch.
	details := map[int]bgg.GameDetails{}
	if req.Enrich {
		var ids []int
		for _, g := range req.Games {
			if g.BggID > 0 {
				ids = append(ids, g.BggID)
			}
		}
		if len(ids) > 0 {
			fetched, err := s.bgg.GetGames(ctx, ids)
			if err != nil {
				return nil, domainerrors.Unavailable("BGG is not responding, try again without enrichment")
			}
			for _, d := range fetched {
				details[d.BggID] = d
			}
		}
	}

	result := &ImportResult{Created: make([]*domain.Game, 0, len(req.Games))}
	now := time.Now()

	for _, g := range req.Games {
		gameID, err := id.Generate("game")
		if err != nil {
			return nil, fmt.Errorf("generate game ID: %w", err)
		}

		game := &domain.Game{
			ID:        gameID,
			LibraryID: libraryID,
			Title:     g.Title,
			BggID:     g.BggID,
			Status:    domain.GameStatusAvailable,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if d, ok := details[g.BggID]; ok && g.BggID > 0 {
			applyDetails(game, d)
			result.Enriched++
		}

		if err := s.store.CreateGame(ctx, game); err != nil {
			return nil, fmt.Errorf("create game %q: %w", g.Title, err)
		}
		result.Created = append(result.Created, game)
	}

	if s.logger != nil {
		s.logger.Info("import confirmed",
			"library_id", libraryID,
			"created", len(result.Created),
			"enriched", result.Enriched,
		)
	}

	return result, nil
}

// SearchBGG searches BoardGameGeek and folds the results into the
// reference catalog so future imports can match them offline.
func (s *ImportService) SearchBGG(ctx context.Context, query string) ([]bgg.SearchResult, error) {
	if query == "" {
		return nil, domainerrors.Validation("query is required")
	}

	results, err := s.bgg.Search(ctx, query)
	if err != nil {
		return nil, domainerrors.Unavailable("BGG search is not responding")
	}

	for _, r := range results {
		entry := r.CatalogEntry()
		if err := s.store.PutCatalogEntry(ctx, &entry); err != nil {
			// Catalog growth is opportunistic; the search itself succeeded.
			if s.logger != nil {
				s.logger.Warn("failed to store catalog entry", "bgg_id", entry.BggID, "error", err)
			}
		}
	}

	return results, nil
}

// applyDetails copies BGG metadata onto a freshly imported game. The
// user-supplied title wins over BGG's.
func applyDetails(game *domain.Game, d bgg.GameDetails) {
	game.Description = d.Description
	game.CoverURL = d.ImageURL
	game.YearPublished = d.YearPublished
	game.MinPlayers = d.MinPlayers
	game.MaxPlayers = d.MaxPlayers
	game.PlaytimeMin = d.PlaytimeMin
	game.PlaytimeMax = d.PlaytimeMax
	game.Categories = d.Categories
	game.Mechanics = d.Mechanics
	game.Rating = d.AverageRating
}
