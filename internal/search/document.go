// Package search provides full-text search over game collections using
// Bleve. It supports fuzzy title matching, faceted filtering on
// categories and status, and numeric range filters for player counts
// and playtime.
package search

import (
	"strings"

	"github.com/gameshelfapp/gameshelf-server/internal/domain"
)

// GameDocument is the document structure for the Bleve index.
//
// Keyword fields (categories, mechanics, status) are stored lowercased
// so that term queries behave case-insensitively regardless of whether
// the value came from a BGG import or was typed by hand.
type GameDocument struct {
	ID        string `json:"id"`
	LibraryID string `json:"library_id"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`

	Categories []string `json:"categories,omitempty"`
	Mechanics  []string `json:"mechanics,omitempty"`
	Status     string   `json:"status"`

	// Numeric fields for range queries and sorting.
	MinPlayers    int     `json:"min_players"`
	MaxPlayers    int     `json:"max_players"`
	PlaytimeMin   int     `json:"playtime_min"`
	PlaytimeMax   int     `json:"playtime_max"`
	Rating        float64 `json:"rating,omitempty"`
	YearPublished int     `json:"year_published,omitempty"`

	// Timestamps for sorting. LastPlayedAt is zero when never played.
	LastPlayedAt int64 `json:"last_played_at,omitempty"`
	CreatedAt    int64 `json:"created_at"`
	UpdatedAt    int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *GameDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":           d.ID,
		"library_id":   d.LibraryID,
		"title":        d.Title,
		"status":       d.Status,
		"min_players":  d.MinPlayers,
		"max_players":  d.MaxPlayers,
		"playtime_min": d.PlaytimeMin,
		"playtime_max": d.PlaytimeMax,
		"created_at":   d.CreatedAt,
		"updated_at":   d.UpdatedAt,
	}

	// Optional fields - only add if non-empty
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Location != "" {
		m["location"] = d.Location
	}
	if len(d.Categories) > 0 {
		m["categories"] = d.Categories
	}
	if len(d.Mechanics) > 0 {
		m["mechanics"] = d.Mechanics
	}
	if d.Rating > 0 {
		m["rating"] = d.Rating
	}
	if d.YearPublished > 0 {
		m["year_published"] = d.YearPublished
	}
	if d.LastPlayedAt > 0 {
		m["last_played_at"] = d.LastPlayedAt
	}

	return m
}

// GameToDocument converts a domain Game to a GameDocument.
func GameToDocument(g *domain.Game) *GameDocument {
	doc := &GameDocument{
		ID:            g.ID,
		LibraryID:     g.LibraryID,
		Title:         g.Title,
		Description:   g.Description,
		Location:      g.Location,
		Categories:    lowercaseAll(g.Categories),
		Mechanics:     lowercaseAll(g.Mechanics),
		Status:        strings.ToLower(string(g.Status)),
		MinPlayers:    g.MinPlayers,
		MaxPlayers:    g.MaxPlayers,
		PlaytimeMin:   g.PlaytimeMin,
		PlaytimeMax:   g.PlaytimeMax,
		Rating:        g.Rating,
		YearPublished: g.YearPublished,
		CreatedAt:     g.CreatedAt.UnixMilli(),
		UpdatedAt:     g.UpdatedAt.UnixMilli(),
	}

	if g.LastPlayedAt != nil {
		doc.LastPlayedAt = g.LastPlayedAt.UnixMilli()
	}

	return doc
}

func lowercaseAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
