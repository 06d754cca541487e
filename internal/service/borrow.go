package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/gameshelfapp/gameshelf-server/internal/domain"
	domainerrors "github.com/gameshelfapp/gameshelf-server/internal/errors"
	"github.com/gameshelfapp/gameshelf-server/internal/id"
	"github.com/gameshelfapp/gameshelf-server/internal/store"
)

// BorrowService tracks lending. A game has at most one open borrow,
// and the game's status flips in the same operation that opens or
// closes one.
type BorrowService struct {
	store     *store.Store
	libraries *LibraryService
	logger    *slog.Logger
}

// NewBorrowService creates a new borrow service.
func NewBorrowService(store *store.Store, libraries *LibraryService, logger *slog.Logger) *BorrowService {
	return &BorrowService{
		store:     store,
		libraries: libraries,
		logger:    logger,
	}
}

// BorrowRequest opens a borrow for a game.
type BorrowRequest struct {
	// BorrowerUserID references a registered member; BorrowerName covers
	// lending to someone outside the app. At least one is required.
	BorrowerUserID string     `json:"borrower_user_id,omitempty"`
	BorrowerName   string     `json:"borrower_name,omitempty" validate:"max=200"`
	DueAt          *time.Time `json:"due_at,omitempty"`
	Notes          string     `json:"notes,omitempty" validate:"max=2000"`
}

// BorrowView is a borrow with its overdue state evaluated.
type BorrowView struct {
	domain.Borrow
	Overdue bool `json:"overdue"`
}

// Borrow lends a game out. The game must be available; its status
// flips to borrowed. Requires a managing role.
func (s *BorrowService) Borrow(ctx context.Context, gameID, actorID string, req BorrowRequest) (*domain.Borrow, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}
	if req.BorrowerUserID == "" && req.BorrowerName == "" {
		return nil, domainerrors.Validation("borrower_user_id or borrower_name is required")
	}

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("game not found")
		}
		return nil, fmt.Errorf("get game: %w", err)
	}

	if _, _, err := s.libraries.RequireManager(ctx, game.LibraryID, actorID); err != nil {
		return nil, err
	}

	if game.Status != domain.GameStatusAvailable {
		return nil, domainerrors.Conflictf("game is %s, not available", game.Status)
	}

	// A named borrower must be a real account.
	if req.BorrowerUserID != "" {
		if _, err := s.store.Users.Get(ctx, req.BorrowerUserID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, domainerrors.NotFound("borrower not found")
			}
			return nil, fmt.Errorf("get borrower: %w", err)
		}
	}

	borrowID, err := id.Generate("borrow")
	if err != nil {
		return nil, fmt.Errorf("generate borrow ID: %w", err)
	}

	now := time.Now()
	borrow := &domain.Borrow{
		ID:             borrowID,
		GameID:         gameID,
		LibraryID:      game.LibraryID,
		BorrowerUserID: req.BorrowerUserID,
		BorrowerName:   req.BorrowerName,
		BorrowedAt:     now,
		DueAt:          req.DueAt,
		Notes:          req.Notes,
	}

	if err := s.store.Borrows.Create(ctx, borrow.ID, borrow); err != nil {
		return nil, fmt.Errorf("create borrow: %w", err)
	}

	game.MarkBorrowed(now)
	if err := s.store.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("update game status: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "game borrowed",
			slog.String("borrow_id", borrowID),
			slog.String("game_id", gameID),
			slog.String("library_id", game.LibraryID),
		)
	}

	return borrow, nil
}

// Return closes the open borrow for a game and flips it back to
// available. Requires a managing role.
func (s *BorrowService) Return(ctx context.Context, gameID, actorID string) (*domain.Borrow, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("game not found")
		}
		return nil, fmt.Errorf("get game: %w", err)
	}

	if _, _, err := s.libraries.RequireManager(ctx, game.LibraryID, actorID); err != nil {
		return nil, err
	}

	open, err := s.openBorrow(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if open == nil {
		return nil, domainerrors.Conflict("game has no open borrow")
	}

	now := time.Now()
	open.ReturnedAt = &now

	if err := s.store.Borrows.Update(ctx, open.ID, open); err != nil {
		return nil, fmt.Errorf("update borrow: %w", err)
	}

	game.MarkReturned(now)
	if err := s.store.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("update game status: %w", err)
	}

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "game returned",
			slog.String("borrow_id", open.ID),
			slog.String("game_id", gameID),
		)
	}

	return open, nil
}

// HistoryForGame returns all borrows of a game, open one first.
func (s *BorrowService) HistoryForGame(ctx context.Context, gameID, actorID string) ([]BorrowView, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("game not found")
		}
		return nil, fmt.Errorf("get game: %w", err)
	}

	if _, _, err := s.libraries.RequireMember(ctx, game.LibraryID, actorID); err != nil {
		return nil, err
	}

	now := time.Now()
	var views []BorrowView
	for borrow, err := range s.store.Borrows.ListByIndex(ctx, "game", gameID) {
		if err != nil {
			return nil, fmt.Errorf("list borrows: %w", err)
		}
		views = append(views, BorrowView{Borrow: *borrow, Overdue: borrow.IsOverdue(now)})
	}

	// Open borrow first, then newest first.
	sortBorrowViews(views)

	return views, nil
}

// OpenForLibrary returns every game currently lent out of a library.
func (s *BorrowService) OpenForLibrary(ctx context.Context, libraryID, actorID string) ([]BorrowView, error) {
	if _, _, err := s.libraries.RequireMember(ctx, libraryID, actorID); err != nil {
		return nil, err
	}

	now := time.Now()
	var views []BorrowView
	for borrow, err := range s.store.Borrows.ListByIndex(ctx, "library", libraryID) {
		if err != nil {
			return nil, fmt.Errorf("list borrows: %w", err)
		}
		if !borrow.IsOpen() {
			continue
		}
		views = append(views, BorrowView{Borrow: *borrow, Overdue: borrow.IsOverdue(now)})
	}

	return views, nil
}

// openBorrow finds the open borrow for a game, nil when there is none.
func (s *BorrowService) openBorrow(ctx context.Context, gameID string) (*domain.Borrow, error) {
	for borrow, err := range s.store.Borrows.ListByIndex(ctx, "game", gameID) {
		if err != nil {
			return nil, fmt.Errorf("scan borrows: %w", err)
		}
		if borrow.IsOpen() {
			return borrow, nil
		}
	}
	return nil, nil
}

// sortBorrowViews orders open borrows first, then by borrow time
// descending.
func sortBorrowViews(views []BorrowView) {
	slices.SortStableFunc(views, func(a, b BorrowView) int {
		if a.IsOpen() != b.IsOpen() {
			if a.IsOpen() {
				return -1
			}
			return 1
		}
		return b.BorrowedAt.Compare(a.BorrowedAt)
	})
}
