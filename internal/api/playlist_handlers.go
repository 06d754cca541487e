package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gameshelfapp/gameshelf-server/internal/domain"
	"github.com/gameshelfapp/gameshelf-server/internal/service"
)

func (s *Server) registerPlaylistRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPlaylists",
		Method:      http.MethodGet,
		Path:        "/api/v1/libraries/{id}/playlists",
		Summary:     "List playlists",
		Description: "Returns every playlist in a library",
		Tags:        []string{"Playlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPlaylists)

	huma.Register(s.api, huma.Operation{
		OperationID: "createPlaylist",
		Method:      http.MethodPost,
		Path:        "/api/v1/libraries/{id}/playlists",
		Summary:     "Create playlist",
		Description: "Creates a manual or smart playlist in a library",
		Tags:        []string{"Playlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePlaylist)

	huma.Register(s.api, huma.Operation{
		OperationID: "resolvePlaylist",
		Method:      http.MethodGet,
		Path:        "/api/v1/playlists/{id}",
		Summary:     "Resolve playlist",
		Description: "Returns a playlist with its current games. Smart playlists re-evaluate their filters",
		Tags:        []string{"Playlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleResolvePlaylist)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePlaylist",
		Method:      http.MethodDelete,
		Path:        "/api/v1/playlists/{id}",
		Summary:     "Delete playlist",
		Description: "Deletes a playlist",
		Tags:        []string{"Playlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePlaylist)

	huma.Register(s.api, huma.Operation{
		OperationID: "addPlaylistGame",
		Method:      http.MethodPost,
		Path:        "/api/v1/playlists/{id}/games/{gameID}",
		Summary:     "Add game to playlist",
		Description: "Appends a game to a manual playlist",
		Tags:        []string{"Playlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddPlaylistGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "removePlaylistGame",
		Method:      http.MethodDelete,
		Path:        "/api/v1/playlists/{id}/games/{gameID}",
		Summary:     "Remove game from playlist",
		Description: "Drops a game from a manual playlist",
		Tags:        []string{"Playlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemovePlaylistGame)
}

// === DTOs ===

// PlaylistFilters mirrors the saved rule of a smart playlist.
type PlaylistFilters struct {
	Query       string `json:"q,omitempty" doc:"Free-text query"`
	Status      string `json:"status,omitempty" doc:"Filter by status"`
	Location    string `json:"location,omitempty" doc:"Filter by location"`
	MinPlayers  int    `json:"min_players,omitempty" doc:"Minimum player count"`
	MaxPlayers  int    `json:"max_players,omitempty" doc:"Maximum player count"`
	MinPlaytime int    `json:"min_playtime,omitempty" doc:"Minimum playtime in minutes"`
	MaxPlaytime int    `json:"max_playtime,omitempty" doc:"Maximum playtime in minutes"`
	Category    string `json:"category,omitempty" doc:"Filter by category"`
	Sort        string `json:"sort,omitempty" doc:"Sort key"`
	Order       string `json:"order,omitempty" doc:"Sort order"`
}

// PlaylistResponse contains playlist data in API responses.
type PlaylistResponse struct {
	ID        string          `json:"id" doc:"Playlist ID"`
	LibraryID string          `json:"library_id" doc:"Owning library ID"`
	Name      string          `json:"name" doc:"Playlist name"`
	Kind      string          `json:"kind" doc:"MANUAL or SMART"`
	GameIDs   []string        `json:"game_ids,omitempty" doc:"Curated order for manual playlists"`
	Filters   PlaylistFilters `json:"filters,omitzero" doc:"Saved rule for smart playlists"`
	CreatedAt time.Time       `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time       `json:"updated_at" doc:"Last update time"`
}

// CreatePlaylistRequest is the request body for creating a playlist.
type CreatePlaylistRequest struct {
	Name    string          `json:"name" doc:"Playlist name"`
	Kind    string          `json:"kind" doc:"MANUAL or SMART"`
	Filters PlaylistFilters `json:"filters,omitzero" doc:"Required for smart playlists"`
}

// ListPlaylistsInput contains parameters for listing playlists.
type ListPlaylistsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`
}

// ListPlaylistsResponse contains a list of playlists.
type ListPlaylistsResponse struct {
	Playlists []PlaylistResponse `json:"playlists" doc:"Playlists in the library"`
}

// ListPlaylistsOutput wraps the list playlists response for Huma.
type ListPlaylistsOutput struct {
	Body ListPlaylistsResponse
}

// CreatePlaylistInput wraps the create playlist request for Huma.
type CreatePlaylistInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`
	Body          CreatePlaylistRequest
}

// PlaylistOutput wraps a playlist response for Huma.
type PlaylistOutput struct {
	Body PlaylistResponse
}

// ResolvePlaylistInput contains parameters for resolving a playlist.
type ResolvePlaylistInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Playlist ID"`
}

// ResolvedPlaylistResponse is a playlist with its current games.
type ResolvedPlaylistResponse struct {
	Playlist PlaylistResponse `json:"playlist" doc:"The playlist"`
	Games    []GameResponse   `json:"games" doc:"Its current games"`
}

// ResolvedPlaylistOutput wraps the resolved playlist response for Huma.
type ResolvedPlaylistOutput struct {
	Body ResolvedPlaylistResponse
}

// DeletePlaylistInput contains parameters for deleting a playlist.
type DeletePlaylistInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Playlist ID"`
}

// PlaylistGameInput identifies one game in one playlist.
type PlaylistGameInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Playlist ID"`
	GameID        string `path:"gameID" doc:"Game ID"`
}

// === Handlers ===

func (s *Server) handleListPlaylists(ctx context.Context, input *ListPlaylistsInput) (*ListPlaylistsOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	playlists, err := s.services.Playlist.ListForLibrary(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]PlaylistResponse, len(playlists))
	for i, p := range playlists {
		resp[i] = toPlaylistResponse(p)
	}

	return &ListPlaylistsOutput{Body: ListPlaylistsResponse{Playlists: resp}}, nil
}

func (s *Server) handleCreatePlaylist(ctx context.Context, input *CreatePlaylistInput) (*PlaylistOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	playlist, err := s.services.Playlist.Create(ctx, input.ID, userID, service.CreatePlaylistRequest{
		Name:    input.Body.Name,
		Kind:    input.Body.Kind,
		Filters: toGameFilters(input.Body.Filters),
	})
	if err != nil {
		return nil, err
	}

	return &PlaylistOutput{Body: toPlaylistResponse(playlist)}, nil
}

func (s *Server) handleResolvePlaylist(ctx context.Context, input *ResolvePlaylistInput) (*ResolvedPlaylistOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	resolved, err := s.services.Playlist.Resolve(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &ResolvedPlaylistOutput{
		Body: ResolvedPlaylistResponse{
			Playlist: toPlaylistResponse(resolved.Playlist),
			Games:    toGameResponses(resolved.Games),
		},
	}, nil
}

func (s *Server) handleDeletePlaylist(ctx context.Context, input *DeletePlaylistInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Playlist.Delete(ctx, input.ID, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Playlist deleted"}}, nil
}

func (s *Server) handleAddPlaylistGame(ctx context.Context, input *PlaylistGameInput) (*PlaylistOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	playlist, err := s.services.Playlist.AddGame(ctx, input.ID, input.GameID, userID)
	if err != nil {
		return nil, err
	}

	return &PlaylistOutput{Body: toPlaylistResponse(playlist)}, nil
}

func (s *Server) handleRemovePlaylistGame(ctx context.Context, input *PlaylistGameInput) (*PlaylistOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	playlist, err := s.services.Playlist.RemoveGame(ctx, input.ID, input.GameID, userID)
	if err != nil {
		return nil, err
	}

	return &PlaylistOutput{Body: toPlaylistResponse(playlist)}, nil
}

func toGameFilters(f PlaylistFilters) domain.GameFilters {
	return domain.GameFilters{
		Query:       f.Query,
		Status:      domain.GameStatus(f.Status),
		Location:    f.Location,
		MinPlayers:  f.MinPlayers,
		MaxPlayers:  f.MaxPlayers,
		MinPlaytime: f.MinPlaytime,
		MaxPlaytime: f.MaxPlaytime,
		Category:    f.Category,
		Sort:        f.Sort,
		Order:       f.Order,
	}
}

func toPlaylistFilters(f domain.GameFilters) PlaylistFilters {
	return PlaylistFilters{
		Query:       f.Query,
		Status:      string(f.Status),
		Location:    f.Location,
		MinPlayers:  f.MinPlayers,
		MaxPlayers:  f.MaxPlayers,
		MinPlaytime: f.MinPlaytime,
		MaxPlaytime: f.MaxPlaytime,
		Category:    f.Category,
		Sort:        f.Sort,
		Order:       f.Order,
	}
}

func toPlaylistResponse(p *domain.Playlist) PlaylistResponse {
	return PlaylistResponse{
		ID:        p.ID,
		LibraryID: p.LibraryID,
		Name:      p.Name,
		Kind:      string(p.Kind),
		GameIDs:   p.GameIDs,
		Filters:   toPlaylistFilters(p.Filters),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
