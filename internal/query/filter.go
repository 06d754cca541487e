package query

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/gameshelfapp/gameshelf-server/internal/domain"
)

// Matches reports whether a game satisfies the given filters. Free text
// in f.Query is parsed first, so "quick 2 player coop" behaves the same
// whether it arrives as typed text or as explicit filter fields.
//
// Matches is pure: it never errors and never mutates its arguments. An
// internally inconsistent filter set simply rejects every game.
func Matches(g *domain.Game, f domain.GameFilters) bool {
	return MatchesParsed(g, Parse(f.Query), f)
}

// MatchesParsed is Matches for callers that already parsed the query
// once and are filtering many games against it.
//
// All active constraints combine with AND. Parsed category keywords are
// the one exception internally: any single keyword hit satisfies the
// keyword constraint (OR across keywords), since each keyword is an
// alternative description of what the user is after.
func MatchesParsed(g *domain.Game, p ParsedQuery, f domain.GameFilters) bool {
	// Player count, from parsed text and explicit filter. An explicit
	// MinPlayers is a candidate head-count: the game's supported range
	// must contain it.
	if p.PlayerCount != nil && !g.SupportsPlayerCount(*p.PlayerCount) {
		return false
	}
	if f.MinPlayers > 0 && !g.SupportsPlayerCount(f.MinPlayers) {
		return false
	}
	if f.MaxPlayers > 0 && g.MaxPlayers > f.MaxPlayers {
		return false
	}

	// Playtime bounds, minutes.
	if p.MaxPlaytime != nil && g.PlaytimeMax > *p.MaxPlaytime {
		return false
	}
	if f.MaxPlaytime > 0 && g.PlaytimeMax > f.MaxPlaytime {
		return false
	}
	if p.MinPlaytime != nil && g.PlaytimeMin < *p.MinPlaytime {
		return false
	}
	if f.MinPlaytime > 0 && g.PlaytimeMin < f.MinPlaytime {
		return false
	}

	// Status, exact.
	if p.Status != "" && g.Status != p.Status {
		return false
	}
	if f.Status != "" && g.Status != f.Status {
		return false
	}

	// Location, case-insensitive substring.
	if f.Location != "" && !containsFold(g.Location, f.Location) {
		return false
	}

	// Explicit category filter (a UI chip) is exact membership. It applies
	// on top of any parsed keywords: different filter origins, both hold.
	if f.Category != "" && !g.HasCategory(f.Category) {
		return false
	}

	// Parsed category keywords: any hit satisfies.
	if len(p.Categories) > 0 && !slices.ContainsFunc(p.Categories, func(kw string) bool {
		return matchesKeyword(g, kw)
	}) {
		return false
	}

	// Residual free text against title or any category string.
	if p.Text != nil && !matchesText(g, *p.Text) {
		return false
	}

	return true
}

// matchesKeyword checks one parsed keyword against a game: substring of
// title or description, or exact member of categories or mechanics.
func matchesKeyword(g *domain.Game, kw string) bool {
	return containsFold(g.Title, kw) ||
		containsFold(g.Description, kw) ||
		g.HasCategory(kw) ||
		g.HasMechanic(kw)
}

// matchesText checks residual free text: title substring or any
// category substring, case-insensitive.
func matchesText(g *domain.Game, text string) bool {
	if containsFold(g.Title, text) {
		return true
	}
	return slices.ContainsFunc(g.Categories, func(c string) bool {
		return containsFold(c, text)
	})
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Sort keys accepted by SortGames.
const (
	SortTitle      = "title"
	SortRating     = "rating"
	SortLastPlayed = "lastPlayed"
	SortPlaytime   = "playtime"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SortGames orders games in place by the given sort key and order.
// Unrecognized keys fall back to title ascending; order defaults to
// ascending. The sort is stable so equal keys keep store order.
func SortGames(games []*domain.Game, sortKey, order string) {
	var compare func(a, b *domain.Game) int

	switch sortKey {
	case SortRating:
		compare = func(a, b *domain.Game) int { return cmp.Compare(a.Rating, b.Rating) }
	case SortLastPlayed:
		// Never-played games sort last in either direction, so the order
		// flip applies to the timestamps only.
		desc := order == OrderDesc
		slices.SortStableFunc(games, func(a, b *domain.Game) int {
			return compareLastPlayed(a, b, desc)
		})
		return
	case SortPlaytime:
		compare = func(a, b *domain.Game) int { return cmp.Compare(a.PlaytimeMax, b.PlaytimeMax) }
	case SortTitle:
		compare = compareTitle
	default:
		// Unknown key: title ascending, ignoring order.
		slices.SortStableFunc(games, compareTitle)
		return
	}

	if order == OrderDesc {
		inner := compare
		compare = func(a, b *domain.Game) int { return inner(b, a) }
	}
	slices.SortStableFunc(games, compare)
}

func compareTitle(a, b *domain.Game) int {
	return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
}

func compareLastPlayed(a, b *domain.Game, desc bool) int {
	switch {
	case a.LastPlayedAt == nil && b.LastPlayedAt == nil:
		return 0
	case a.LastPlayedAt == nil:
		return 1
	case b.LastPlayedAt == nil:
		return -1
	case desc:
		return b.LastPlayedAt.Compare(*a.LastPlayedAt)
	default:
		return a.LastPlayedAt.Compare(*b.LastPlayedAt)
	}
}

// Describe renders a parsed query as a short human-readable summary,
// used by clients to show what the search understood.
func Describe(p ParsedQuery) string {
	var parts []string

	switch {
	case p.PlayerCount != nil && p.MinPlayers != nil && p.MaxPlayers != nil:
		parts = append(parts, fmt.Sprintf("%d-%d players", *p.MinPlayers, *p.MaxPlayers))
	case p.PlayerCount != nil:
		parts = append(parts, fmt.Sprintf("%d players", *p.PlayerCount))
	}

	switch {
	case p.MaxPlaytime != nil:
		parts = append(parts, fmt.Sprintf("under %d minutes", *p.MaxPlaytime))
	case p.MinPlaytime != nil:
		parts = append(parts, fmt.Sprintf("at least %d minutes", *p.MinPlaytime))
	}

	if len(p.Categories) > 0 {
		parts = append(parts, strings.Join(p.Categories, ", "))
	}

	if p.Status != "" {
		parts = append(parts, strings.ToLower(string(p.Status)))
	}

	if p.Text != nil {
		parts = append(parts, fmt.Sprintf("%q", *p.Text))
	}

	if len(parts) == 0 {
		return "All games"
	}
	return strings.Join(parts, " · ")
}
