// Package query interprets free-text search queries over a game
// collection and evaluates the resulting filters as in-memory predicates.
//
// The parser recognizes a small fixed grammar of intents:
//
//	"2-4 players"            -> player range
//	"quick 2 player coop"    -> player count, playtime bound, category
//	"under 30 min"           -> playtime bound
//	"borrowed strategy"      -> status, category
//
// Whatever is left over after structured extraction becomes residual
// free text matched against titles and categories.
package query

import (
	"strconv"
	"strings"

	"github.com/gameshelfapp/gameshelf-server/internal/domain"
)

// ParsedQuery is the structured interpretation of one search string.
// Nil pointer fields mean the query did not express that dimension.
type ParsedQuery struct {
	// Text is the residual free text after all structured tokens were
	// stripped, nil when nothing is left.
	Text *string

	// PlayerCount is the preferred player count. When the query gave a
	// range ("2-4 players"), MinPlayers and MaxPlayers are set as well and
	// PlayerCount holds the low bound.
	PlayerCount *int
	MinPlayers  *int
	MaxPlayers  *int

	// Playtime bounds in minutes.
	MinPlaytime *int
	MaxPlaytime *int

	// Categories lists recognized category/mechanic keywords in the fixed
	// order of the keyword table, not the order they appeared in the text.
	Categories []string

	// Status is empty when the query named no status.
	Status domain.GameStatus
}

// Parse interprets a free-text search query. It is a total function: any
// input yields a best-effort result and malformed text simply falls
// through to the residual Text field.
//
// Stages run in a fixed order over a shared "remaining text" buffer, and
// each stage removes what it consumed before the next one runs. The
// order is load-bearing: a number claimed by the player-count stage must
// not be re-read as a playtime ("2 player" vs "2 hours").
func Parse(q string) ParsedQuery {
	var result ParsedQuery

	remaining := strings.ToLower(strings.TrimSpace(q))
	if remaining == "" {
		return result
	}

	remaining = extractPlayers(remaining, &result)
	remaining = extractPlaytime(remaining, &result)
	remaining = extractPlaytimeModifiers(remaining, &result)
	remaining = extractStatus(remaining, &result)
	remaining = extractCategories(remaining, &result)

	remaining = fillerWords.ReplaceAllString(remaining, " ")
	remaining = strings.TrimSpace(whitespace.ReplaceAllString(remaining, " "))
	if remaining != "" {
		result.Text = &remaining
	}

	return result
}

// extractPlayers handles "2-4 players", "for 3 players", "2p". The first
// matching pattern wins and ends the stage.
func extractPlayers(remaining string, result *ParsedQuery) string {
	for _, p := range playerPatterns {
		m := p.re.FindStringSubmatchIndex(remaining)
		if m == nil {
			continue
		}
		if p.isRange {
			low := mustAtoi(remaining[m[2]:m[3]])
			high := mustAtoi(remaining[m[4]:m[5]])
			result.MinPlayers = &low
			result.MaxPlayers = &high
			result.PlayerCount = &low
		} else {
			n := mustAtoi(remaining[m[2]:m[3]])
			result.PlayerCount = &n
		}
		return cut(remaining, m[0], m[1])
	}
	return remaining
}

// extractPlaytime handles explicit numeric bounds like "under 30 min",
// "90 minutes or less", "at least 2 hours". The first matching pattern
// wins and ends the stage.
func extractPlaytime(remaining string, result *ParsedQuery) string {
	for _, p := range timePatterns {
		m := p.re.FindStringSubmatchIndex(remaining)
		if m == nil {
			continue
		}
		value := mustAtoi(remaining[m[2]:m[3]])

		multiplier := 1
		if m[4] >= 0 {
			if mult, ok := timeUnitMinutes[remaining[m[4]:m[5]]]; ok {
				multiplier = mult
			}
		}
		minutes := value * multiplier

		if p.isLowerBound {
			result.MinPlaytime = &minutes
		} else {
			result.MaxPlaytime = &minutes
		}
		return cut(remaining, m[0], m[1])
	}
	return remaining
}

// extractPlaytimeModifiers handles qualitative duration words. Both the
// quick and long checks run; they only apply when the corresponding
// bound was not already set by an explicit pattern.
func extractPlaytimeModifiers(remaining string, result *ParsedQuery) string {
	if quickWords.MatchString(remaining) {
		if result.MaxPlaytime == nil {
			minutes := quickPlaytimeMinutes
			result.MaxPlaytime = &minutes
		}
		remaining = quickWords.ReplaceAllString(remaining, " ")
	}

	if longWords.MatchString(remaining) {
		if result.MinPlaytime == nil {
			minutes := longPlaytimeMinutes
			result.MinPlaytime = &minutes
		}
		remaining = longWords.ReplaceAllString(remaining, " ")
	}

	return remaining
}

// extractStatus recognizes at most one status phrase per query. Aliases
// are checked in table order and the first substring hit wins.
func extractStatus(remaining string, result *ParsedQuery) string {
	for _, alias := range statusAliases {
		if strings.Contains(remaining, alias.phrase) {
			result.Status = alias.status
			return strings.Replace(remaining, alias.phrase, " ", 1)
		}
	}
	return remaining
}

// extractCategories collects every keyword with a whole-word occurrence.
// Output order follows the keyword table.
func extractCategories(remaining string, result *ParsedQuery) string {
	for i, re := range categoryPatterns {
		loc := re.FindStringIndex(remaining)
		if loc == nil {
			continue
		}
		result.Categories = append(result.Categories, categoryKeywords[i])
		remaining = cut(remaining, loc[0], loc[1])
	}
	return remaining
}

// cut removes s[start:end], leaving a space so neighboring words don't fuse.
func cut(s string, start, end int) string {
	return s[:start] + " " + s[end:]
}

// mustAtoi converts digit-only capture groups. The patterns guarantee
// the input is \d+, so overflow of absurd inputs degrades to 0 rather
// than failing the parse.
func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
