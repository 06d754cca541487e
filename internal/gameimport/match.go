package gameimport

import (
	"cmp"
	"context"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
)

const (
	// maxCandidates is how many scored candidates are retained per input.
	maxCandidates = 5

	// maxAlternates is how many runner-up suggestions accompany an
	// accepted match.
	maxAlternates = 3
)

// CatalogEntry is one known game in the reference catalog.
type CatalogEntry struct {
	BggID         int    `json:"bggId"`
	Title         string `json:"title"`
	YearPublished int    `json:"yearPublished,omitzero"`
}

// Match is the outcome of resolving one input line against the catalog.
type Match struct {
	Input      string  `json:"input"`
	Matched    bool    `json:"matched"`
	Confidence float64 `json:"confidence"`

	// Game is the accepted catalog entry, present iff Matched.
	Game *CatalogEntry `json:"game,omitzero"`

	// Suggestions are runner-up candidates in descending score order:
	// ranks 2-4 when matched, everything retained when not.
	Suggestions []CatalogEntry `json:"suggestions,omitzero"`
}

// Preview aggregates the matches for one pasted list.
// Matched + Unmatched == Total and Games preserves input order.
type Preview struct {
	Total     int     `json:"total"`
	Matched   int     `json:"matched"`
	Unmatched int     `json:"unmatched"`
	Games     []Match `json:"games"`
}

// MatchOne resolves a single input title against the catalog.
//
// Every entry is scored; entries above the consideration threshold are
// kept, sorted by descending score with catalog order breaking ties,
// and capped at five. If the best survivor clears the acceptance
// threshold the input is matched to it and the next three candidates
// ride along as alternates. Otherwise the input is unmatched and all
// survivors become suggestions, with confidence reporting the best
// score seen, or zero when nothing survived.
func MatchOne(input string, catalog []CatalogEntry) Match {
	type candidate struct {
		entry CatalogEntry
		score float64
	}

	var candidates []candidate
	for _, entry := range catalog {
		s := Score(input, entry.Title)
		if s > considerThreshold {
			candidates = append(candidates, candidate{entry: entry, score: s})
		}
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Compare(b.score, a.score)
	})
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	if len(candidates) == 0 {
		return Match{Input: input}
	}

	entries := make([]CatalogEntry, len(candidates))
	for i, c := range candidates {
		entries[i] = c.entry
	}
	top := candidates[0]

	if top.score >= acceptThreshold {
		alternates := entries[1:min(len(entries), 1+maxAlternates)]
		return Match{
			Input:       input,
			Matched:     true,
			Confidence:  top.score,
			Game:        &entries[0],
			Suggestions: alternates,
		}
	}

	return Match{
		Input:       input,
		Confidence:  top.score,
		Suggestions: entries,
	}
}

// MatchList resolves every input title against the catalog and builds
// the preview. Each input is independent, so scoring fans out across a
// bounded errgroup with results slotted by index to keep input order.
// The only error is context cancellation.
func MatchList(ctx context.Context, names []string, catalog []CatalogEntry) (*Preview, error) {
	matches := make([]Match, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			matches[i] = MatchOne(name, catalog)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	preview := &Preview{
		Total: len(matches),
		Games: matches,
	}
	for _, m := range matches {
		if m.Matched {
			preview.Matched++
		} else {
			preview.Unmatched++
		}
	}
	return preview, nil
}
