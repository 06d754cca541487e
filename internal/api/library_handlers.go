package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gameshelfapp/gameshelf-server/internal/domain"
	"github.com/gameshelfapp/gameshelf-server/internal/service"
)

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLibraries",
		Method:      http.MethodGet,
		Path:        "/api/v1/libraries",
		Summary:     "List libraries",
		Description: "Returns all libraries the current user belongs to",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLibraries)

	huma.Register(s.api, huma.Operation{
		OperationID: "createLibrary",
		Method:      http.MethodPost,
		Path:        "/api/v1/libraries",
		Summary:     "Create library",
		Description: "Creates a new library owned by the current user",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/libraries/{id}",
		Summary:     "Get library",
		Description: "Returns a library by ID",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteLibrary",
		Method:      http.MethodDelete,
		Path:        "/api/v1/libraries/{id}",
		Summary:     "Delete library",
		Description: "Deletes a library and all games in it. Owner only",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "addLibraryMember",
		Method:      http.MethodPost,
		Path:        "/api/v1/libraries/{id}/members",
		Summary:     "Add library member",
		Description: "Adds a user to the library or updates their role",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddMember)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeLibraryMember",
		Method:      http.MethodDelete,
		Path:        "/api/v1/libraries/{id}/members/{userID}",
		Summary:     "Remove library member",
		Description: "Removes a member from the library",
		Tags:        []string{"Libraries"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveMember)
}

// === DTOs ===

// MemberResponse contains one library membership.
type MemberResponse struct {
	UserID   string    `json:"user_id" doc:"Member user ID"`
	Role     string    `json:"role" doc:"Role: OWNER, ADMIN, or MEMBER"`
	JoinedAt time.Time `json:"joined_at" doc:"When the member joined"`
}

// LibraryResponse contains library data in API responses.
type LibraryResponse struct {
	ID        string           `json:"id" doc:"Library ID"`
	Name      string           `json:"name" doc:"Library name"`
	OwnerID   string           `json:"owner_id" doc:"Owner user ID"`
	Members   []MemberResponse `json:"members" doc:"Library members"`
	CreatedAt time.Time        `json:"created_at" doc:"Creation time"`
	UpdatedAt time.Time        `json:"updated_at" doc:"Last update time"`
}

// ListLibrariesInput contains parameters for listing libraries.
type ListLibrariesInput struct {
	Authorization string `header:"Authorization"`
}

// ListLibrariesResponse contains a list of libraries.
type ListLibrariesResponse struct {
	Libraries []LibraryResponse `json:"libraries" doc:"Libraries the user belongs to"`
}

// ListLibrariesOutput wraps the list libraries response for Huma.
type ListLibrariesOutput struct {
	Body ListLibrariesResponse
}

// CreateLibraryRequest is the request body for creating a library.
type CreateLibraryRequest struct {
	Name string `json:"name" doc:"Library name"`
}

// CreateLibraryInput wraps the create library request for Huma.
type CreateLibraryInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateLibraryRequest
}

// LibraryOutput wraps a library response for Huma.
type LibraryOutput struct {
	Body LibraryResponse
}

// GetLibraryInput contains parameters for getting a library.
type GetLibraryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`
}

// DeleteLibraryInput contains parameters for deleting a library.
type DeleteLibraryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`
}

// AddMemberRequest is the request body for adding a member.
type AddMemberRequest struct {
	UserID string `json:"user_id" doc:"User to add"`
	Role   string `json:"role" doc:"Role: ADMIN or MEMBER"`
}

// AddMemberInput wraps the add member request for Huma.
type AddMemberInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`
	Body          AddMemberRequest
}

// RemoveMemberInput contains parameters for removing a member.
type RemoveMemberInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Library ID"`
	UserID        string `path:"userID" doc:"User to remove"`
}

// === Handlers ===

func (s *Server) handleListLibraries(ctx context.Context, input *ListLibrariesInput) (*ListLibrariesOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	libraries, err := s.services.Library.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]LibraryResponse, len(libraries))
	for i, l := range libraries {
		resp[i] = toLibraryResponse(l)
	}

	return &ListLibrariesOutput{Body: ListLibrariesResponse{Libraries: resp}}, nil
}

func (s *Server) handleCreateLibrary(ctx context.Context, input *CreateLibraryInput) (*LibraryOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	library, err := s.services.Library.Create(ctx, userID, service.CreateLibraryRequest{
		Name: input.Body.Name,
	})
	if err != nil {
		return nil, err
	}

	return &LibraryOutput{Body: toLibraryResponse(library)}, nil
}

func (s *Server) handleGetLibrary(ctx context.Context, input *GetLibraryInput) (*LibraryOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	library, err := s.services.Library.Get(ctx, input.ID, userID)
	if err != nil {
		return nil, err
	}

	return &LibraryOutput{Body: toLibraryResponse(library)}, nil
}

func (s *Server) handleDeleteLibrary(ctx context.Context, input *DeleteLibraryInput) (*MessageOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	if err := s.services.Library.Delete(ctx, input.ID, userID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Library deleted"}}, nil
}

func (s *Server) handleAddMember(ctx context.Context, input *AddMemberInput) (*LibraryOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	library, err := s.services.Library.AddMember(ctx, input.ID, userID, service.AddMemberRequest{
		UserID: input.Body.UserID,
		Role:   input.Body.Role,
	})
	if err != nil {
		return nil, err
	}

	return &LibraryOutput{Body: toLibraryResponse(library)}, nil
}

func (s *Server) handleRemoveMember(ctx context.Context, input *RemoveMemberInput) (*LibraryOutput, error) {
	userID, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}

	library, err := s.services.Library.RemoveMember(ctx, input.ID, userID, input.UserID)
	if err != nil {
		return nil, err
	}

	return &LibraryOutput{Body: toLibraryResponse(library)}, nil
}

func toLibraryResponse(l *domain.Library) LibraryResponse {
	members := make([]MemberResponse, len(l.Members))
	for i, m := range l.Members {
		members[i] = MemberResponse{
			UserID:   m.UserID,
			Role:     string(m.Role),
			JoinedAt: m.JoinedAt,
		}
	}
	return LibraryResponse{
		ID:        l.ID,
		Name:      l.Name,
		OwnerID:   l.OwnerID,
		Members:   members,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
