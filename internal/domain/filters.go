package domain

// GameFilters is the structured filter vocabulary shared by the game list
// endpoint, smart playlists, and the in-memory predicate. Zero values mean
// "not filtering on this dimension".
//
// Query carries free text which may itself encode filters ("quick 2 player
// coop"); the query package owns its interpretation.
type GameFilters struct {
	Query       string     `json:"q,omitempty"`
	Status      GameStatus `json:"status,omitempty"`
	Location    string     `json:"location,omitempty"`
	MinPlayers  int        `json:"min_players,omitempty"`
	MaxPlayers  int        `json:"max_players,omitempty"`
	MinPlaytime int        `json:"min_playtime,omitempty"`
	MaxPlaytime int        `json:"max_playtime,omitempty"`
	Category    string     `json:"category,omitempty"`
	Sort        string     `json:"sort,omitempty"`
	Order       string     `json:"order,omitempty"`
}

// IsZero reports whether no filter dimension is active.
func (f GameFilters) IsZero() bool {
	return f == GameFilters{}
}
