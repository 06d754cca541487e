package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query     string // User's search query
	LibraryID string // Scope results to one library (empty = all)

	// Filters
	Statuses    []string // Filter by shelf status (OR across values)
	Categories  []string // Filter by category (OR across values)
	Mechanics   []string // Filter by mechanic (OR across values)
	PlayerCount int      // Head count the game's player range must support
	MinPlaytime int      // Minimum playtime in minutes
	MaxPlaytime int      // Maximum playtime in minutes
	MinRating   float64  // Minimum owner rating

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "title", "rating", "lastPlayed", "playtime", "recent"
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool     // Include facet counts in results
	FacetFields   []string // Which fields to facet on
	Highlight     bool     // Include match highlighting
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         20,
		Offset:        0,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		FacetFields:   []string{"status", "categories"},
		Highlight:     true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets,omitempty"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID          string            `json:"id"`
	Score       float64           `json:"score"`
	Title       string            `json:"title"`
	Status      string            `json:"status,omitempty"`
	Location    string            `json:"location,omitempty"`
	Categories  []string          `json:"categories,omitempty"`
	MinPlayers  int               `json:"min_players,omitempty"`
	MaxPlayers  int               `json:"max_players,omitempty"`
	PlaytimeMin int               `json:"playtime_min,omitempty"`
	PlaytimeMax int               `json:"playtime_max,omitempty"`
	Rating      float64           `json:"rating,omitempty"`
	Highlights  map[string]string `json:"highlights,omitempty"`
}

// SearchFacets contains facet counts.
type SearchFacets struct {
	Statuses   []FacetCount `json:"statuses,omitempty"`
	Categories []FacetCount `json:"categories,omitempty"`
	Mechanics  []FacetCount `json:"mechanics,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Build the query
	searchQuery := buildSearchQuery(params)

	// Create search request
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	// Add sorting
	addSorting(searchRequest, params)

	// Add facets
	if params.IncludeFacets {
		addFacets(searchRequest, params)
	}

	// Add highlighting
	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("location")
	}

	// Request stored fields
	searchRequest.Fields = []string{
		"id", "title", "status", "location", "categories",
		"min_players", "max_players", "playtime_min", "playtime_max", "rating",
	}

	// Execute search
	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	// Convert results
	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		// Extract stored fields
		if t, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = t
		}
		if st, ok := hit.Fields["status"].(string); ok {
			searchHit.Status = st
		}
		if l, ok := hit.Fields["location"].(string); ok {
			searchHit.Location = l
		}
		searchHit.Categories = stringValues(hit.Fields["categories"])
		if v, ok := hit.Fields["min_players"].(float64); ok {
			searchHit.MinPlayers = int(v)
		}
		if v, ok := hit.Fields["max_players"].(float64); ok {
			searchHit.MaxPlayers = int(v)
		}
		if v, ok := hit.Fields["playtime_min"].(float64); ok {
			searchHit.PlaytimeMin = int(v)
		}
		if v, ok := hit.Fields["playtime_max"].(float64); ok {
			searchHit.PlaytimeMax = int(v)
		}
		if v, ok := hit.Fields["rating"].(float64); ok {
			searchHit.Rating = v
		}

		// Extract highlights
		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	// Extract facets
	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// stringValues normalizes a stored field that may come back as a single
// string or a slice, depending on how many values the document had.
func stringValues(field interface{}) []string {
	switch v := field.(type) {
	case string:
		return []string{v}
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	// Main text query
	// Search strategy:
	// - Title match with the highest boost, plus description for thematic
	//   searches ("trains", "zombies")
	// - Fuzzy title match for typo tolerance
	// - Prefix title match for autocomplete
	if params.Query != "" {
		textQueries := []query.Query{}

		// Title match with highest boost
		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		// Description match for thematic queries
		descMatch := bleve.NewMatchQuery(params.Query)
		descMatch.SetField("description")
		textQueries = append(textQueries, descMatch)

		// Add fuzzy matching for typo tolerance on title
		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete (minimum 2 chars)
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		// Combine with OR (match any field)
		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Library scope
	if params.LibraryID != "" {
		lq := bleve.NewTermQuery(params.LibraryID)
		lq.SetField("library_id")
		queries = append(queries, lq)
	}

	// Status filter (exact match, OR across values)
	if len(params.Statuses) > 0 {
		statusQueries := make([]query.Query, len(params.Statuses))
		for i, status := range params.Statuses {
			sq := bleve.NewTermQuery(strings.ToLower(status))
			sq.SetField("status")
			statusQueries[i] = sq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(statusQueries...))
	}

	// Category filter (exact match, OR across values)
	if len(params.Categories) > 0 {
		queries = append(queries, keywordFilter("categories", params.Categories))
	}

	// Mechanic filter (exact match, OR across values)
	if len(params.Mechanics) > 0 {
		queries = append(queries, keywordFilter("mechanics", params.Mechanics))
	}

	// Player count filter: the game's range must contain the head count.
	// Games with no recorded range (both bounds zero) accept any count.
	if params.PlayerCount > 0 {
		queries = append(queries, playerCountQuery(params.PlayerCount))
	}

	// Playtime range filters, minutes
	if params.MinPlaytime > 0 {
		min := float64(params.MinPlaytime)
		rangeQuery := bleve.NewNumericRangeInclusiveQuery(&min, nil, boolPtr(true), nil)
		rangeQuery.SetField("playtime_min")
		queries = append(queries, rangeQuery)
	}
	if params.MaxPlaytime > 0 {
		max := float64(params.MaxPlaytime)
		rangeQuery := bleve.NewNumericRangeInclusiveQuery(nil, &max, nil, boolPtr(true))
		rangeQuery.SetField("playtime_max")
		queries = append(queries, rangeQuery)
	}

	// Rating floor
	if params.MinRating > 0 {
		min := params.MinRating
		rangeQuery := bleve.NewNumericRangeInclusiveQuery(&min, nil, boolPtr(true), nil)
		rangeQuery.SetField("rating")
		queries = append(queries, rangeQuery)
	}

	// Combine all queries with AND
	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// keywordFilter builds an OR of exact term matches on a keyword field.
// Values are lowercased to match how documents are indexed.
func keywordFilter(field string, values []string) query.Query {
	termQueries := make([]query.Query, len(values))
	for i, v := range values {
		tq := bleve.NewTermQuery(strings.ToLower(v))
		tq.SetField(field)
		termQueries[i] = tq
	}
	return bleve.NewDisjunctionQuery(termQueries...)
}

// playerCountQuery matches games whose player range contains n, plus
// games with no recorded range at all.
func playerCountQuery(n int) query.Query {
	count := float64(n)
	zero := float64(0)

	minFits := bleve.NewNumericRangeInclusiveQuery(nil, &count, nil, boolPtr(true))
	minFits.SetField("min_players")
	maxFits := bleve.NewNumericRangeInclusiveQuery(&count, nil, boolPtr(true), nil)
	maxFits.SetField("max_players")
	inRange := bleve.NewConjunctionQuery(minFits, maxFits)

	minUnknown := bleve.NewNumericRangeInclusiveQuery(&zero, &zero, boolPtr(true), boolPtr(true))
	minUnknown.SetField("min_players")
	maxUnknown := bleve.NewNumericRangeInclusiveQuery(&zero, &zero, boolPtr(true), boolPtr(true))
	maxUnknown.SetField("max_players")
	unknownRange := bleve.NewConjunctionQuery(minUnknown, maxUnknown)

	return bleve.NewDisjunctionQuery(inRange, unknownRange)
}

func boolPtr(b bool) *bool {
	return &b
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	switch params.SortBy {
	case "title":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-title"})
		} else {
			req.SortBy([]string{"title"})
		}
	case "rating":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"rating"})
		} else {
			req.SortBy([]string{"-rating"})
		}
	case "lastPlayed":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"last_played_at"})
		} else {
			req.SortBy([]string{"-last_played_at"})
		}
	case "playtime":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-playtime_max"})
		} else {
			req.SortBy([]string{"playtime_max"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"created_at"})
		} else {
			req.SortBy([]string{"-created_at"})
		}
	default:
		// Relevance (score) is default - Bleve handles this
		req.SortBy([]string{"-_score"})
	}
}

// addFacets configures facet requests.
func addFacets(req *bleve.SearchRequest, params SearchParams) {
	for _, field := range params.FacetFields {
		facetReq := bleve.NewFacetRequest(field, 20) // Top 20 values
		req.AddFacet(field, facetReq)
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) SearchFacets {
	facets := SearchFacets{}

	if statusFacet, ok := result.Facets["status"]; ok {
		for _, term := range statusFacet.Terms.Terms() {
			facets.Statuses = append(facets.Statuses, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if categoryFacet, ok := result.Facets["categories"]; ok {
		for _, term := range categoryFacet.Terms.Terms() {
			facets.Categories = append(facets.Categories, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if mechanicFacet, ok := result.Facets["mechanics"]; ok {
		for _, term := range mechanicFacet.Terms.Terms() {
			facets.Mechanics = append(facets.Mechanics, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	return facets
}
