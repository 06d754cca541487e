package store

import (
	"context"
	"log/slog"

	"github.com/gameshelfapp/gameshelf-server/internal/domain"
)

// Game operations wrap the generic entity to keep the search index in
// sync and to emit structured logs. Services should go through these
// rather than the raw entity.

// CreateGame creates a new game and indexes it for search.
func (s *Store) CreateGame(ctx context.Context, game *domain.Game) error {
	if err := s.Games.Create(ctx, game.ID, game); err != nil {
		return err
	}

	s.indexGame(ctx, game)

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "game created",
			slog.String("id", game.ID),
			slog.String("library_id", game.LibraryID),
			slog.String("title", game.Title),
		)
	}
	return nil
}

// GetGame retrieves a game by ID.
func (s *Store) GetGame(ctx context.Context, id string) (*domain.Game, error) {
	return s.Games.Get(ctx, id)
}

// UpdateGame updates an existing game and refreshes its search document.
func (s *Store) UpdateGame(ctx context.Context, game *domain.Game) error {
	if err := s.Games.Update(ctx, game.ID, game); err != nil {
		return err
	}

	s.indexGame(ctx, game)
	return nil
}

// DeleteGame deletes a game and removes it from the search index.
func (s *Store) DeleteGame(ctx context.Context, id string) error {
	if err := s.Games.Delete(ctx, id); err != nil {
		return err
	}

	if s.searchIndexer != nil {
		if err := s.searchIndexer.DeleteGame(ctx, id); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove game from search index", "id", id, "error", err)
		}
	}
	return nil
}

// ListGamesByLibrary returns all games in a library, in ID order.
func (s *Store) ListGamesByLibrary(ctx context.Context, libraryID string) ([]*domain.Game, error) {
	var games []*domain.Game
	for game, err := range s.Games.ListByIndex(ctx, "library", libraryID) {
		if err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, nil
}

// indexGame pushes a game into the search index, logging rather than
// failing on index errors. The store is the source of truth; the index
// can always be rebuilt from it.
func (s *Store) indexGame(ctx context.Context, game *domain.Game) {
	if s.searchIndexer == nil {
		return
	}
	if err := s.searchIndexer.IndexGame(ctx, game); err != nil && s.logger != nil {
		s.logger.Warn("failed to index game for search", "id", game.ID, "error", err)
	}
}
