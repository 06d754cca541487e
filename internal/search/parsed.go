package search

import (
	"github.com/gameshelfapp/gameshelf-server/internal/query"
)

// ParamsFromParsed builds SearchParams from a parsed free-text query,
// scoped to one library. Structured tokens become index filters and the
// residual text becomes the full-text query.
func ParamsFromParsed(libraryID string, p query.ParsedQuery) SearchParams {
	params := DefaultSearchParams()
	params.LibraryID = libraryID

	if p.Text != nil {
		params.Query = *p.Text
	}
	if p.PlayerCount != nil {
		params.PlayerCount = *p.PlayerCount
	}
	if p.MinPlaytime != nil {
		params.MinPlaytime = *p.MinPlaytime
	}
	if p.MaxPlaytime != nil {
		params.MaxPlaytime = *p.MaxPlaytime
	}
	if p.Status != "" {
		params.Statuses = []string{string(p.Status)}
	}

	// Parsed keywords can name either a category or a mechanic, so apply
	// them to the category facet where most of them live.
	params.Categories = p.Categories

	return params
}
