package domain

import (
	"slices"
	"time"
)

// PlaylistKind distinguishes hand-curated lists from saved searches.
type PlaylistKind string

const (
	// PlaylistKindManual is an ordered list of explicitly added games.
	PlaylistKindManual PlaylistKind = "MANUAL"

	// PlaylistKindSmart stores a filter expression that is re-evaluated
	// against the collection every time the playlist is read.
	PlaylistKindSmart PlaylistKind = "SMART"
)

// Playlist is a curated or rule-based selection of games within a library.
type Playlist struct {
	ID        string       `json:"id"`
	LibraryID string       `json:"library_id"`
	Name      string       `json:"name"`
	Kind      PlaylistKind `json:"kind"`

	// GameIDs holds the curated order for manual playlists.
	GameIDs []string `json:"game_ids,omitempty"`

	// Filters holds the saved rule for smart playlists.
	Filters GameFilters `json:"filters,omitzero"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddGame appends a game to a manual playlist, ignoring duplicates.
func (p *Playlist) AddGame(gameID string) {
	if slices.Contains(p.GameIDs, gameID) {
		return
	}
	p.GameIDs = append(p.GameIDs, gameID)
}

// RemoveGame drops a game from a manual playlist.
func (p *Playlist) RemoveGame(gameID string) {
	p.GameIDs = slices.DeleteFunc(p.GameIDs, func(id string) bool {
		return id == gameID
	})
}
