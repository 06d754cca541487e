package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gameshelfapp/gameshelf-server/internal/domain"
	"github.com/gameshelfapp/gameshelf-server/internal/service"
)

func (s *Server) registerGameRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/libraries/{id}/games",
		Summary:     "List games",
		Description: "Returns the games in a library, filtered and sorted. The q parameter accepts free text like 'quick 2 player coop'",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "createGame",
		Method:      http.MethodPost,
		Path:        "/api/v1/libraries/{id}/games",
		Summary:     "Create game",
		Description: "Adds a game to a library",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGame",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/{id}",
		Summary:     "Get game",
		Description: "Returns a game by ID",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateGame",
		Method:      http.MethodPut,
		Path:        "/api/v1/games/{id}",
		Summary:     "Update game",
		Description: "Replaces the writable fields of a game",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGame",
		Method:      http.MethodDelete,
		Path:        "/api/v1/games/{id}",
		Summary:     "Delete game",
		Description: "Removes a game from its library",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "markGamePlayed",
		Method:      http.MethodPost,
		Path:        "/api/v1/games/{id}/played",
		Summary:     "Mark game played",
		Description: "Records a play of the game right now",
		Tags:        []string{"Games"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkPlayed)
}

// === DTOs ===

// GameResponse contains game data in API responses.
type GameResponse struct {
	ID        string `json:"id" doc:"Game ID"`
	LibraryID string `json:"library_id" doc:"Owning library ID"`

	BggID int `json:"bgg_id,omitempty" doc:"BoardGameGeek ID, zero when unknown"`

	Title       string `json:"title" doc:"Game title"`
	Description string `json:"description,omitempty" doc:"Game description"`
	CoverURL    string `json:"cover_url,omitempty" doc:"Cover image URL"`

	YearPublished int `json:"year_published,omitempty" doc:"Year of publication"`

	MinPlayers int `json:"min_players" doc:"Minimum player count"`
	MaxPlayers int `json:"max_players" doc:"Maximum player count"`

	PlaytimeMin int `json:"playtime_min,omitempty" doc:"Minimum playtime in minutes"`
	PlaytimeMax int `json:"playtime_max,omitempty" doc:"Maximum playtime in minutes"`

	Categories []string `json:"categories,omitempty" doc:"BGG-style categories"`
	Mechanics  []string `json:"mechanics,omitempty" doc:"BGG-style mechanics"`

	Status   string  `json:"status" doc:"AVAILABLE, BORROWED, or STORAGE"`
	Location string  `json:"location,omitempty" doc:"Physical location, e.g. a shelf name"`
	Rating   float64 `json:"rating,omitempty" doc:"Owner rating, 0-10"`

	LastPlayedAt *time.Time `json:"last_played_at,omitempty" doc:"When the game was last played"`

	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time `json:"updated_at" doc:"Last update time"`
}

// GameRequest is the request body for creating or updating a game.
type GameRequest struct {
	Title       string `json:"title" doc:"Game title"`
	Description string `json:"description,omitempty" doc:"Game description"`
	CoverURL    string `json:"cover_url,omitempty" doc:"Cover image URL"`

	BggID         int `json:"bgg_id,omitempty" doc:"BoardGameGeek ID"`
	YearPublished int `json:"year_published,omitempty" doc:"Year of publication"`

	MinPlayers int `json:"min_players,omitempty" doc:"Minimum player count"`
	MaxPlayers int `json:"max_players,omitempty" doc:"Maximum player count"`

	PlaytimeMin int `json:"playtime_min,omitempty" doc:"Minimum playtime in minutes"`
	PlaytimeMax int `json:"playtime_max,omitempty" doc:"Maximum playtime in minutes"`

	Categories []string `json:"categories,omitempty" doc:"BGG-style categories"`
	Mechanics  []string `json:"mechanics,omitempty" doc:"BGG-style mechanics"`

	Status   string  `json:"status,omitempty" doc:"AVAILABLE, BORROWED, or STORAGE"`
	Location string  `json:"location,omitempty" doc:"Physical location"`
	Rating   float64 `json:"rating,omitempty" doc:"Owner rating, 0-10"`
}

// ListGamesInput contains parameters for the filtered shelf listing.
type ListGamesInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`

	Query       string `query:"q" doc:"Free-text query, e.g. 'quick 2 player coop'"`
	Status      string `query:"status" doc:"Filter by status"`
	Location    string `query:"location" doc:"Filter by location"`
	MinPlayers  int    `query:"min_players" doc:"Games supporting at least this many players"`
	MaxPlayers  int    `query:"max_players" doc:"Games supporting at most this many players"`
	MinPlaytime int    `query:"min_playtime" doc:"Minimum playtime in minutes"`
	MaxPlaytime int    `query:"max_playtime" doc:"Maximum playtime in minutes"`
	Category    string `query:"category" doc:"Filter by category"`
	Sort        string `query:"sort" doc:"Sort key: title, rating, lastPlayed, or playtime"`
	Order       string `query:"order" doc:"Sort order: asc or desc"`
}

// ListGamesResponse is a filtered shelf view.
type ListGamesResponse struct {
	Games   []GameResponse `json:"games" doc:"Matching games"`
	Total   int            `json:"total" doc:"Number of matching games"`
	Summary string         `json:"summary" doc:"How the free-text query was understood"`
}

// ListGamesOutput wraps the list games response for Huma.
type ListGamesOutput struct {
	Body ListGamesResponse
}

// CreateGameInput wraps the create game request for Huma.
type CreateGameInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`
	Body          GameRequest
}

// GameOutput wraps a game response for Huma.
type GameOutput struct {
	Body GameResponse
}

// GetGameInput contains parameters for getting a game.
type GetGameInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Game ID"`
}

// UpdateGameInput wraps the update game request for Huma.
type UpdateGameInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Game ID"`
	Body          GameRequest
}

// DeleteGameInput contains parameters for deleting a game.
type DeleteGameInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Game ID"`
}

// MarkPlayedInput contains parameters for recording a play.
type MarkPlayedInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Game ID"`
}

// === Handlers ===

func (s *Server) handleListGames(ctx context.Context, input *ListGamesInput) (*ListGamesOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Game.List(ctx, input.ID, userID, domain.GameFilters{
		Query:       input.Query,
		Status:      domain.GameStatus(input.Status),
		Location:    input.Location,
		MinPlayers:  input.MinPlayers,
		MaxPlayers:  input.MaxPlayers,
		MinPlaytime: input.MinPlaytime,
		MaxPlaytime: input.MaxPlaytime,
		Category:    input.Category,
		Sort:        input.Sort,
		Order:       input.Order,
	})
	if err != nil {
		return nil, err
	}

	return &ListGamesOutput{
		Body: ListGamesResponse{
			Games:   toGameResponses(result.Games),
			Total:   result.Total,
			Summary: result.Summary,
		},
	}, nil
}

func (s *Server) handleCreateGame(ctx context.Context, input *CreateGameInput) (*GameOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	game, err := s.services.Game.Create(ctx, input.ID, userID, gameInput(input.Body))
	if err != nil {
		return nil, err
	}

	return &GameOutput{Body: toGameResponse(game)}, nil
}

func (s *Server) handleGetGame(ctx context.Context, input *GetGameInput) (*GameOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	game, err := s.services.Game.Get(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &GameOutput{Body: toGameResponse(game)}, nil
}

func (s *Server) handleUpdateGame(ctx context.Context, input *UpdateGameInput) (*GameOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	game, err := s.services.Game.Update(ctx, input.ID, userID, gameInput(input.Body))
	if err != nil {
		return nil, err
	}

	return &GameOutput{Body: toGameResponse(game)}, nil
}

func (s *Server) handleDeleteGame(ctx context.Context, input *DeleteGameInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Game.Delete(ctx, input.ID, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Game deleted"}}, nil
}

func (s *Server) handleMarkPlayed(ctx context.Context, input *MarkPlayedInput) (*GameOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	game, err := s.services.Game.MarkPlayed(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &GameOutput{Body: toGameResponse(game)}, nil
}

func gameInput(req GameRequest) service.GameInput {
	return service.GameInput{
		Title:         req.Title,
		Description:   req.Description,
		CoverURL:      req.CoverURL,
		BggID:         req.BggID,
		YearPublished: req.YearPublished,
		MinPlayers:    req.MinPlayers,
		MaxPlayers:    req.MaxPlayers,
		PlaytimeMin:   req.PlaytimeMin,
		PlaytimeMax:   req.PlaytimeMax,
		Categories:    req.Categories,
		Mechanics:     req.Mechanics,
		Status:        req.Status,
		Location:      req.Location,
		Rating:        req.Rating,
	}
}

func toGameResponse(g *domain.Game) GameResponse {
	return GameResponse{
		ID:            g.ID,
		LibraryID:     g.LibraryID,
		BggID:         g.BggID,
		Title:         g.Title,
		Description:   g.Description,
		CoverURL:      g.CoverURL,
		YearPublished: g.YearPublished,
		MinPlayers:    g.MinPlayers,
		MaxPlayers:    g.MaxPlayers,
		PlaytimeMin:   g.PlaytimeMin,
		PlaytimeMax:   g.PlaytimeMax,
		Categories:    g.Categories,
		Mechanics:     g.Mechanics,
		Status:        string(g.Status),
		Location:      g.Location,
		Rating:        g.Rating,
		LastPlayedAt:  g.LastPlayedAt,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func toGameResponses(games []*domain.Game) []GameResponse {
	resp := make([]GameResponse, len(games))
	for i, g := range games {
		resp[i] = toGameResponse(g)
	}
	return resp
}
