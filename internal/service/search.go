package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gameshelfapp/gameshelf-server/internal/query"
	"github.com/gameshelfapp/gameshelf-server/internal/search"
	"github.com/gameshelfapp/gameshelf-server/internal/store"
)

// SearchService runs full-text searches over the index. Free-text
// queries go through the same parser the shelf listing uses, so "quick
// 2 player coop" filters on the index instead of being treated as
// literal text.
type SearchService struct {
	index     *search.SearchIndex
	store     *store.Store
	libraries *LibraryService
	logger    *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store *store.Store, libraries *LibraryService, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:     index,
		store:     store,
		libraries: libraries,
		logger:    logger,
	}
}

// SearchResult is a search response with the query interpretation
// attached.
type SearchResult struct {
	*search.SearchResult
	Summary string `json:"summary,omitempty"`
}

// Search parses the free-text query, scopes it to the library, and runs
// it against the index.
func (s *SearchService) Search(ctx context.Context, libraryID, actorID, q string, limit, offset int) (*SearchResult, error) {
	if _, _, err := s.libraries.RequireMember(ctx, libraryID, actorID); err != nil {
		return nil, err
	}

	parsed := query.Parse(q)
	params := search.ParamsFromParsed(libraryID, parsed)
	if limit > 0 {
		params.Limit = limit
	}
	if offset > 0 {
		params.Offset = offset
	}

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	return &SearchResult{
		SearchResult: result,
		Summary:      query.Describe(parsed),
	}, nil
}

// DocumentCount returns the number of indexed documents. Used by the
// health check.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// Reindex rebuilds the whole index from the store. Blocks searches
// while it runs.
func (s *SearchService) Reindex(ctx context.Context) (int, error) {
	if err := s.index.Rebuild(); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}

	var docs []*search.GameDocument
	for game, err := range s.store.Games.List(ctx) {
		if err != nil {
			return 0, fmt.Errorf("list games: %w", err)
		}
		docs = append(docs, search.GameToDocument(game))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return 0, fmt.Errorf("index documents: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("search index rebuilt", "documents", len(docs))
	}

	return len(docs), nil
}
