package domain

import "time"

// Borrow records one lending of a game. A game has at most one open
// borrow (ReturnedAt == nil) at a time.
type Borrow struct {
	ID        string `json:"id"`
	GameID    string `json:"game_id"`
	LibraryID string `json:"library_id"`

	// BorrowerUserID is set when the borrower is a registered member.
	BorrowerUserID string `json:"borrower_user_id,omitempty"`

	// BorrowerName is free text for lending to people outside the app.
	BorrowerName string `json:"borrower_name"`

	BorrowedAt time.Time  `json:"borrowed_at"`
	DueAt      *time.Time `json:"due_at,omitempty"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// IsOpen reports whether the game is still out.
func (b *Borrow) IsOpen() bool {
	return b.ReturnedAt == nil
}

// IsOverdue reports whether an open borrow has passed its due date.
func (b *Borrow) IsOverdue(now time.Time) bool {
	return b.IsOpen() && b.DueAt != nil && now.After(*b.DueAt)
}
