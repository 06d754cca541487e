package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gameshelfapp/gameshelf-server/internal/bgg"
	"github.com/gameshelfapp/gameshelf-server/internal/gameimport"
	"github.com/gameshelfapp/gameshelf-server/internal/service"
)

func (s *Server) registerImportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "previewImport",
		Method:      http.MethodPost,
		Path:        "/api/v1/libraries/{id}/import/preview",
		Summary:     "Preview import",
		Description: "Parses a pasted game list and matches each line against the reference catalog. Nothing is written",
		Tags:        []string{"Import"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePreviewImport)

	huma.Register(s.api, huma.Operation{
		OperationID: "confirmImport",
		Method:      http.MethodPost,
		Path:        "/api/v1/libraries/{id}/import/confirm",
		Summary:     "Confirm import",
		Description: "Creates the accepted games, optionally enriched from BGG",
		Tags:        []string{"Import"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleConfirmImport)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBGG",
		Method:      http.MethodGet,
		Path:        "/api/v1/bgg/search",
		Summary:     "Search BoardGameGeek",
		Description: "Searches BGG and folds the results into the reference catalog",
		Tags:        []string{"Import"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchBGG)
}

// === DTOs ===

// PreviewImportRequest carries the pasted list.
type PreviewImportRequest struct {
	List string `json:"list" doc:"Pasted game list, one title per line"`
}

// PreviewImportInput wraps the preview request for Huma.
type PreviewImportInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`
	Body          PreviewImportRequest
}

// PreviewImportOutput wraps the preview response for Huma.
type PreviewImportOutput struct {
	Body gameimport.Preview
}

// ConfirmGameRequest is one accepted line of the preview.
type ConfirmGameRequest struct {
	Title string `json:"title" doc:"Game title as it should be stored"`
	BggID int    `json:"bgg_id,omitempty" doc:"Matched BGG ID, zero for free-form entries"`
}

// ConfirmImportRequest creates the accepted games.
type ConfirmImportRequest struct {
	Games  []ConfirmGameRequest `json:"games" doc:"Accepted games"`
	Enrich bool                 `json:"enrich,omitempty" doc:"Fill in BGG metadata for matched games"`
}

// ConfirmImportInput wraps the confirm request for Huma.
type ConfirmImportInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`
	Body          ConfirmImportRequest
}

// ConfirmImportResponse reports what the import created.
type ConfirmImportResponse struct {
	Created  []GameResponse `json:"created" doc:"Created games"`
	Enriched int            `json:"enriched" doc:"How many games were enriched from BGG"`
}

// ConfirmImportOutput wraps the confirm response for Huma.
type ConfirmImportOutput struct {
	Body ConfirmImportResponse
}

// SearchBGGInput contains parameters for a BGG search.
type SearchBGGInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Search query"`
}

// SearchBGGResponse contains BGG search results.
type SearchBGGResponse struct {
	Results []bgg.SearchResult `json:"results" doc:"BGG search results"`
}

// SearchBGGOutput wraps the BGG search response for Huma.
type SearchBGGOutput struct {
	Body SearchBGGResponse
}

// === Handlers ===

func (s *Server) handlePreviewImport(ctx context.Context, input *PreviewImportInput) (*PreviewImportOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	preview, err := s.services.Import.Preview(ctx, input.ID, userID, service.PreviewRequest{
		List: input.Body.List,
	})
	if err != nil {
		return nil, err
	}

	return &PreviewImportOutput{Body: *preview}, nil
}

func (s *Server) handleConfirmImport(ctx context.Context, input *ConfirmImportInput) (*ConfirmImportOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	games := make([]service.ConfirmGame, len(input.Body.Games))
	for i, g := range input.Body.Games {
		games[i] = service.ConfirmGame{Title: g.Title, BggID: g.BggID}
	}

	result, err := s.services.Import.Confirm(ctx, input.ID, userID, service.ConfirmRequest{
		Games:  games,
		Enrich: input.Body.Enrich,
	})
	if err != nil {
		return nil, err
	}

	return &ConfirmImportOutput{
		Body: ConfirmImportResponse{
			Created:  toGameResponses(result.Created),
			Enriched: result.Enriched,
		},
	}, nil
}

func (s *Server) handleSearchBGG(ctx context.Context, input *SearchBGGInput) (*SearchBGGOutput, error) {
	if _, err := s.authenticateRequest(ctx, input.Authorization); err != nil {
		return nil, err
	}

	results, err := s.services.Import.SearchBGG(ctx, input.Query)
	if err != nil {
		return nil, err
	}

	return &SearchBGGOutput{Body: SearchBGGResponse{Results: results}}, nil
}
