// Package domain contains the core value types for the GameShelf application.
package domain

import (
	"slices"
	"strings"
	"time"
)

// GameStatus tracks where a game currently lives.
type GameStatus string

const (
	// GameStatusAvailable means the game is on the shelf and can be played or lent out.
	GameStatusAvailable GameStatus = "AVAILABLE"

	// GameStatusBorrowed means the game is currently lent out to someone.
	GameStatusBorrowed GameStatus = "BORROWED"

	// GameStatusStorage means the game is boxed up somewhere and not immediately playable.
	GameStatusStorage GameStatus = "STORAGE"
)

// Valid reports whether s is one of the known statuses.
func (s GameStatus) Valid() bool {
	switch s {
	case GameStatusAvailable, GameStatusBorrowed, GameStatusStorage:
		return true
	}
	return false
}

// Game represents a single board game in a library's collection.
type Game struct {
	ID        string `json:"id"`
	LibraryID string `json:"library_id"`

	// BggID links the game to its BoardGameGeek entry. Zero when unknown.
	BggID int `json:"bgg_id,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CoverURL    string `json:"cover_url,omitempty"`

	YearPublished int `json:"year_published,omitempty"`

	MinPlayers int `json:"min_players"`
	MaxPlayers int `json:"max_players"`

	// Playtime bounds in minutes. Zero means unknown.
	PlaytimeMin int `json:"playtime_min,omitempty"`
	PlaytimeMax int `json:"playtime_max,omitempty"`

	Categories []string `json:"categories,omitempty"`
	Mechanics  []string `json:"mechanics,omitempty"`

	Status   GameStatus `json:"status"`
	Location string     `json:"location,omitempty"`

	// Rating is the owner's personal rating, 0-10. Zero means unrated.
	Rating float64 `json:"rating,omitempty"`

	LastPlayedAt *time.Time `json:"last_played_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupportsPlayerCount reports whether n falls within the game's supported
// player range. Games with no recorded range accept any count.
func (g *Game) SupportsPlayerCount(n int) bool {
	if g.MinPlayers == 0 && g.MaxPlayers == 0 {
		return true
	}
	return g.MinPlayers <= n && n <= g.MaxPlayers
}

// HasCategory reports whether the game lists the given category.
// Comparison is case-insensitive since categories come from both BGG
// imports and hand-entered data.
func (g *Game) HasCategory(category string) bool {
	return containsFold(g.Categories, category)
}

// HasMechanic reports whether the game lists the given mechanic.
func (g *Game) HasMechanic(mechanic string) bool {
	return containsFold(g.Mechanics, mechanic)
}

// MarkBorrowed flips the game into the borrowed state.
func (g *Game) MarkBorrowed(now time.Time) {
	g.Status = GameStatusBorrowed
	g.UpdatedAt = now
}

// MarkReturned flips a borrowed game back to available.
func (g *Game) MarkReturned(now time.Time) {
	g.Status = GameStatusAvailable
	g.UpdatedAt = now
}

func containsFold(list []string, s string) bool {
	return slices.ContainsFunc(list, func(v string) bool {
		return strings.EqualFold(v, s)
	})
}
