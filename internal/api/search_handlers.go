package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gameshelfapp/gameshelf-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/libraries/{id}/search",
		Summary:     "Search library",
		Description: "Full-text search over a library's games. Free text like 'quick 2 player coop' is parsed into filters",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "reindexSearch",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/search/reindex",
		Summary:     "Rebuild search index",
		Description: "Rebuilds the full-text index from the database",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReindexSearch)
}

// === DTOs ===

// SearchLibraryInput contains parameters for a library search.
type SearchLibraryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`

	Query  string `query:"q" doc:"Free-text query"`
	Limit  int    `query:"limit" doc:"Maximum hits to return"`
	Offset int    `query:"offset" doc:"Hits to skip for paging"`
}

// SearchLibraryResponse contains search hits plus the query interpretation.
type SearchLibraryResponse struct {
	search.SearchResult
	Summary string `json:"summary,omitempty" doc:"How the free-text query was understood"`
}

// SearchLibraryOutput wraps the search response for Huma.
type SearchLibraryOutput struct {
	Body SearchLibraryResponse
}

// ReindexInput contains parameters for a reindex.
type ReindexInput struct {
	Authorization string `header:"Authorization"`
}

// ReindexResponse reports the rebuild result.
type ReindexResponse struct {
	Documents int `json:"documents" doc:"Number of documents indexed"`
}

// ReindexOutput wraps the reindex response for Huma.
type ReindexOutput struct {
	Body ReindexResponse
}

// === Handlers ===

func (s *Server) handleSearchLibrary(ctx context.Context, input *SearchLibraryInput) (*SearchLibraryOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Search.Search(ctx, input.ID, userID, input.Query, input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}

	return &SearchLibraryOutput{
		Body: SearchLibraryResponse{
			SearchResult: *result.SearchResult,
			Summary:      result.Summary,
		},
	}, nil
}

func (s *Server) handleReindexSearch(ctx context.Context, input *ReindexInput) (*ReindexOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	count, err := s.services.Search.Reindex(ctx)
	if err != nil {
		return nil, err
	}

	return &ReindexOutput{Body: ReindexResponse{Documents: count}}, nil
}
