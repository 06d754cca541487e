package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gameshelfapp/gameshelf-server/internal/domain"
	"github.com/gameshelfapp/gameshelf-server/internal/service"
)

func (s *Server) registerBorrowRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "borrowGame",
		Method:      http.MethodPost,
		Path:        "/api/v1/games/{id}/borrow",
		Summary:     "Borrow game",
		Description: "Lends an available game out and flips it to borrowed",
		Tags:        []string{"Borrows"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleBorrowGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "returnGame",
		Method:      http.MethodPost,
		Path:        "/api/v1/games/{id}/return",
		Summary:     "Return game",
		Description: "Closes the open borrow and flips the game back to available",
		Tags:        []string{"Borrows"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReturnGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGameBorrows",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/{id}/borrows",
		Summary:     "Get game borrow history",
		Description: "Returns all borrows of a game, open one first",
		Tags:        []string{"Borrows"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGameBorrows)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLibraryBorrows",
		Method:      http.MethodGet,
		Path:        "/api/v1/libraries/{id}/borrows",
		Summary:     "Get open library borrows",
		Description: "Returns every game currently lent out of a library",
		Tags:        []string{"Borrows"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLibraryBorrows)
}

// === DTOs ===

// BorrowResponse contains borrow data in API responses.
type BorrowResponse struct {
	ID        string `json:"id" doc:"Borrow ID"`
	GameID    string `json:"game_id" doc:"Borrowed game ID"`
	LibraryID string `json:"library_id" doc:"Owning library ID"`

	BorrowerUserID string `json:"borrower_user_id,omitempty" doc:"Registered borrower, if any"`
	BorrowerName   string `json:"borrower_name,omitempty" doc:"Free-form borrower name"`

	BorrowedAt time.Time  `json:"borrowed_at" doc:"When the borrow opened"`
	DueAt      *time.Time `json:"due_at,omitempty" doc:"When the game is due back"`
	ReturnedAt *time.Time `json:"returned_at,omitempty" doc:"When the game came back, nil while open"`

	Notes   string `json:"notes,omitempty" doc:"Free-form notes"`
	Overdue bool   `json:"overdue" doc:"Whether the borrow is past due"`
}

// BorrowRequest is the request body for borrowing a game.
type BorrowRequest struct {
	BorrowerUserID string     `json:"borrower_user_id,omitempty" doc:"Registered borrower user ID"`
	BorrowerName   string     `json:"borrower_name,omitempty" doc:"Free-form borrower name for people outside the app"`
	DueAt          *time.Time `json:"due_at,omitempty" doc:"When the game is due back"`
	Notes          string     `json:"notes,omitempty" doc:"Free-form notes"`
}

// BorrowGameInput wraps the borrow request for Huma.
type BorrowGameInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Game ID"`
	Body          BorrowRequest
}

// BorrowOutput wraps a borrow response for Huma.
type BorrowOutput struct {
	Body BorrowResponse
}

// ReturnGameInput contains parameters for returning a game.
type ReturnGameInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Game ID"`
}

// GameBorrowsInput contains parameters for a game's borrow history.
type GameBorrowsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Game ID"`
}

// LibraryBorrowsInput contains parameters for a library's open borrows.
type LibraryBorrowsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`
}

// BorrowListResponse contains a list of borrows.
type BorrowListResponse struct {
	Borrows []BorrowResponse `json:"borrows" doc:"Borrows"`
}

// BorrowListOutput wraps the borrow list response for Huma.
type BorrowListOutput struct {
	Body BorrowListResponse
}

// === Handlers ===

func (s *Server) handleBorrowGame(ctx context.Context, input *BorrowGameInput) (*BorrowOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	borrow, err := s.services.Borrow.Borrow(ctx, input.ID, userID, service.BorrowRequest{
		BorrowerUserID: input.Body.BorrowerUserID,
		BorrowerName:   input.Body.BorrowerName,
		DueAt:          input.Body.DueAt,
		Notes:          input.Body.Notes,
	})
	if err != nil {
		return nil, err
	}

	return &BorrowOutput{Body: toBorrowResponse(borrow, borrow.IsOverdue(time.Now()))}, nil
}

func (s *Server) handleReturnGame(ctx context.Context, input *ReturnGameInput) (*BorrowOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	borrow, err := s.services.Borrow.Return(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &BorrowOutput{Body: toBorrowResponse(borrow, false)}, nil
}

func (s *Server) handleGameBorrows(ctx context.Context, input *GameBorrowsInput) (*BorrowListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	views, err := s.services.Borrow.HistoryForGame(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &BorrowListOutput{Body: BorrowListResponse{Borrows: toBorrowResponses(views)}}, nil
}

func (s *Server) handleLibraryBorrows(ctx context.Context, input *LibraryBorrowsInput) (*BorrowListOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	views, err := s.services.Borrow.OpenForLibrary(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &BorrowListOutput{Body: BorrowListResponse{Borrows: toBorrowResponses(views)}}, nil
}

func toBorrowResponse(b *domain.Borrow, overdue bool) BorrowResponse {
	return BorrowResponse{
		ID:             b.ID,
		GameID:         b.GameID,
		LibraryID:      b.LibraryID,
		BorrowerUserID: b.BorrowerUserID,
		BorrowerName:   b.BorrowerName,
		BorrowedAt:     b.BorrowedAt,
		DueAt:          b.DueAt,
		ReturnedAt:     b.ReturnedAt,
		Notes:          b.Notes,
		Overdue:        overdue,
	}
}

func toBorrowResponses(views []service.BorrowView) []BorrowResponse {
	resp := make([]BorrowResponse, len(views))
	for i, v := range views {
		resp[i] = toBorrowResponse(&v.Borrow, v.Overdue)
	}
	return resp
}
