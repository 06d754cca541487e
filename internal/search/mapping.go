package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for game documents.
//
// The mapping is designed with these priorities:
//  1. Fast full-text search on titles with English stemming
//  2. Exact keyword matching for category, mechanic, and status filters
//  3. Numeric range queries for player counts and playtime
//  4. Term vectors enabled on the title for highlighting
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	// Use English analyzer as default for text fields
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Title - primary search target, boosted
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Description - searchable but not stored (too large)
	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = en.AnalyzerName
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	// Location - searchable with simple analyzer (no stemming)
	locationFieldMapping := bleve.NewTextFieldMapping()
	locationFieldMapping.Analyzer = simple.Name
	locationFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("location", locationFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	// ID - stored but not analyzed
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Library ID - for scoping searches to one collection
	libraryFieldMapping := bleve.NewTextFieldMapping()
	libraryFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("library_id", libraryFieldMapping)

	// Status - for filtering by shelf state
	statusFieldMapping := bleve.NewTextFieldMapping()
	statusFieldMapping.Analyzer = keyword.Name
	statusFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("status", statusFieldMapping)

	// Categories - keyword analyzer keeps compound names intact
	// (e.g., "worker placement")
	categoriesFieldMapping := bleve.NewTextFieldMapping()
	categoriesFieldMapping.Analyzer = keyword.Name
	categoriesFieldMapping.Store = true
	categoriesFieldMapping.IncludeTermVectors = true // For faceting
	docMapping.AddFieldMappingsAt("categories", categoriesFieldMapping)

	// Mechanics - same treatment as categories
	mechanicsFieldMapping := bleve.NewTextFieldMapping()
	mechanicsFieldMapping.Analyzer = keyword.Name
	mechanicsFieldMapping.Store = true
	mechanicsFieldMapping.IncludeTermVectors = true // For faceting
	docMapping.AddFieldMappingsAt("mechanics", mechanicsFieldMapping)

	// --- Numeric fields (range queries, sorting) ---

	minPlayersFieldMapping := bleve.NewNumericFieldMapping()
	minPlayersFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("min_players", minPlayersFieldMapping)

	maxPlayersFieldMapping := bleve.NewNumericFieldMapping()
	maxPlayersFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("max_players", maxPlayersFieldMapping)

	playtimeMinFieldMapping := bleve.NewNumericFieldMapping()
	playtimeMinFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("playtime_min", playtimeMinFieldMapping)

	playtimeMaxFieldMapping := bleve.NewNumericFieldMapping()
	playtimeMaxFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("playtime_max", playtimeMaxFieldMapping)

	ratingFieldMapping := bleve.NewNumericFieldMapping()
	ratingFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("rating", ratingFieldMapping)

	yearFieldMapping := bleve.NewNumericFieldMapping()
	yearFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("year_published", yearFieldMapping)

	// Timestamps - for sorting by recency and last play
	lastPlayedFieldMapping := bleve.NewNumericFieldMapping()
	lastPlayedFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("last_played_at", lastPlayedFieldMapping)

	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
