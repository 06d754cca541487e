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
	"github.com/gameshelfapp/gameshelf-server/internal/store"
)

// LibraryService manages libraries and their memberships. It is also
// where other services come for authorization checks, since roles live
// on the library.
type LibraryService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(store *store.Store, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		store:  store,
		logger: logger,
	}
}

// CreateLibraryRequest contains the data for a new library.
type CreateLibraryRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// AddMemberRequest adds or updates a library member.
type AddMemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Role   string `json:"role" validate:"required,oneof=ADMIN MEMBER"`
}

// Create creates a new library owned by the given user.
func (s *LibraryService) Create(ctx context.Context, ownerID string, req CreateLibraryRequest) (*domain.Library, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	libraryID, err := id.Generate("lib")
	if err != nil {
		return nil, fmt.Errorf("generate library ID: %w", err)
	}

	now := time.Now()
	library := &domain.Library{
		ID:      libraryID,
		Name:    req.Name,
		OwnerID: ownerID,
		Members: []domain.Member{
			{UserID: ownerID, Role: domain.RoleOwner, JoinedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Libraries.Create(ctx, library.ID, library); err != nil {
		return nil, fmt.Errorf("create library: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("library created",
			"library_id", libraryID,
			"owner_id", ownerID,
			"name", req.Name,
		)
	}

	return library, nil
}

// Get returns a library the user is a member of.
func (s *LibraryService) Get(ctx context.Context, libraryID, userID string) (*domain.Library, error) {
	library, _, err := s.RequireMember(ctx, libraryID, userID)
	return library, err
}

// ListForUser returns every library the user belongs to.
func (s *LibraryService) ListForUser(ctx context.Context, userID string) ([]*domain.Library, error) {
	var libraries []*domain.Library
	for library, err := range s.store.Libraries.ListByIndex(ctx, "member", userID) {
		if err != nil {
			return nil, fmt.Errorf("list libraries: %w", err)
		}
		libraries = append(libraries, library)
	}
	return libraries, nil
}

// AddMember adds a user to the library or updates their role.
// Requires a managing role.
func (s *LibraryService) AddMember(ctx context.Context, libraryID, actorID string, req AddMemberRequest) (*domain.Library, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	library, _, err := s.RequireManager(ctx, libraryID, actorID)
	if err != nil {
		return nil, err
	}

	// The new member must be a real account.
	if _, err := s.store.Users.Get(ctx, req.UserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if req.UserID == library.OwnerID {
		return nil, domainerrors.Validation("owner role cannot be changed")
	}

	now := time.Now()
	library.AddMember(req.UserID, domain.LibraryRole(req.Role), now)
	library.UpdatedAt = now

	if err := s.store.Libraries.Update(ctx, library.ID, library); err != nil {
		return nil, fmt.Errorf("update library: %w", err)
	}

	return library, nil
}

// RemoveMember drops a member from the library. Requires a managing
// role; members may also remove themselves.
func (s *LibraryService) RemoveMember(ctx context.Context, libraryID, actorID, userID string) (*domain.Library, error) {
	library, role, err := s.RequireMember(ctx, libraryID, actorID)
	if err != nil {
		return nil, err
	}

	if actorID != userID && !role.CanManage() {
		return nil, domainerrors.Forbidden("only library admins can remove other members")
	}
	if userID == library.OwnerID {
		return nil, domainerrors.Validation("the owner cannot be removed")
	}

	library.RemoveMember(userID)
	library.UpdatedAt = time.Now()

	if err := s.store.Libraries.Update(ctx, library.ID, library); err != nil {
		return nil, fmt.Errorf("update library: %w", err)
	}

	return library, nil
}

// Delete removes a library and everything in it. Owner only.
func (s *LibraryService) Delete(ctx context.Context, libraryID, actorID string) error {
	library, err := s.store.Libraries.Get(ctx, libraryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("library not found")
		}
		return fmt.Errorf("get library: %w", err)
	}

	if library.OwnerID != actorID {
		return domainerrors.Forbidden("only the owner can delete a library")
	}

	// Games go first so their search documents are cleaned up too.
	games, err := s.store.ListGamesByLibrary(ctx, libraryID)
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	for _, game := range games {
		if err := s.store.DeleteGame(ctx, game.ID); err != nil {
			return fmt.Errorf("delete game %s: %w", game.ID, err)
		}
	}

	if err := s.store.Libraries.Delete(ctx, libraryID); err != nil {
		return fmt.Errorf("delete library: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("library deleted",
			"library_id", libraryID,
			"games_removed", len(games),
		)
	}

	return nil
}

// RequireMember loads the library and checks that the user belongs to
// it. Returns NotFound for unknown libraries and Forbidden for
// non-members.
func (s *LibraryService) RequireMember(ctx context.Context, libraryID, userID string) (*domain.Library, domain.LibraryRole, error) {
	library, err := s.store.Libraries.Get(ctx, libraryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", domainerrors.NotFound("library not found")
		}
		return nil, "", fmt.Errorf("get library: %w", err)
	}

	role := library.RoleOf(userID)
	if role == "" {
		return nil, "", domainerrors.Forbidden("not a member of this library")
	}

	return library, role, nil
}

// RequireManager is RequireMember plus a managing-role check.
func (s *LibraryService) RequireManager(ctx context.Context, libraryID, userID string) (*domain.Library, domain.LibraryRole, error) {
	library, role, err := s.RequireMember(ctx, libraryID, userID)
	if err != nil {
		return nil, "", err
	}
	if !role.CanManage() {
		return nil, "", domainerrors.Forbidden("requires an admin role in this library")
	}
	return library, role, nil
}
