package query

import (
	"regexp"

	"github.com/gameshelfapp/gameshelf-server/internal/domain"
)

// The tables below drive the parser. They are fixed configuration, never
// mutated at runtime; order is significant everywhere (first match wins
// within a stage, and category output order follows list order).

// categoryKeywords are the category and mechanic terms the parser
// recognizes. Output order of ParsedQuery.Categories follows this list,
// not the order of appearance in the query text.
var categoryKeywords = []string{
	"strategy",
	"party",
	"family",
	"cooperative",
	"coop",
	"co-op",
	"card",
	"dice",
	"abstract",
	"war",
	"wargame",
	"economic",
	"euro",
	"adventure",
	"puzzle",
	"trivia",
	"word",
	"dexterity",
	"fantasy",
	"sci-fi",
	"horror",
	"racing",
	"fighting",
	"civilization",
	"area control",
	"deck building",
	"worker placement",
	"engine building",
}

// categoryPatterns holds a whole-word matcher per keyword, compiled once.
var categoryPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(categoryKeywords))
	for i, kw := range categoryKeywords {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
	}
	return patterns
}()

// statusAlias maps a query phrase to a game status. Scanned in slice
// order; the first phrase found as a substring wins and ends the stage.
type statusAlias struct {
	phrase string
	status domain.GameStatus
}

var statusAliases = []statusAlias{
	{"available", domain.GameStatusAvailable},
	{"on shelf", domain.GameStatusAvailable},
	{"borrowed", domain.GameStatusBorrowed},
	{"lent out", domain.GameStatusBorrowed},
	{"storage", domain.GameStatusStorage},
	{"in storage", domain.GameStatusStorage},
	{"stored", domain.GameStatusStorage},
}

// timeUnitMinutes converts a captured unit token to minutes. Missing
// units default to minutes.
var timeUnitMinutes = map[string]int{
	"min":     1,
	"mins":    1,
	"minute":  1,
	"minutes": 1,
	"m":       1,
	"hour":    60,
	"hours":   60,
	"hr":      60,
	"hrs":     60,
	"h":       60,
}

const (
	// quickPlaytimeMinutes is the implied upper bound for "quick"-style queries.
	quickPlaytimeMinutes = 30

	// longPlaytimeMinutes is the implied lower bound for "long"-style queries.
	longPlaytimeMinutes = 120
)

const unitPattern = `(min|mins|minute|minutes|hour|hours|hr|hrs|h|m)`

// playerPatterns are tried in order; the first hit wins and ends the
// stage. isRange patterns capture two bounds.
type playerPattern struct {
	re      *regexp.Regexp
	isRange bool
}

var playerPatterns = []playerPattern{
	{regexp.MustCompile(`(\d+)\s*-\s*(\d+)\s*(?:players?|people|p)\b`), true},
	{regexp.MustCompile(`(?:for\s+)?(\d+)\s*(?:players?|people|p)\b`), false},
}

// timePatterns are tried in order; the first hit wins and ends the
// stage. isLowerBound patterns set MinPlaytime, the rest MaxPlaytime.
type timePattern struct {
	re           *regexp.Regexp
	isLowerBound bool
}

var timePatterns = []timePattern{
	{regexp.MustCompile(`(?:under|less\s+than|max(?:imum)?|<)\s*(\d+)\s*` + unitPattern + `?\b`), false},
	{regexp.MustCompile(`(\d+)\s*` + unitPattern + `?\s*(?:or\s+less|max)\b`), false},
	{regexp.MustCompile(`(?:at\s+least|minimum|more\s+than|>)\s*(\d+)\s*` + unitPattern + `?\b`), true},
}

var (
	quickWords  = regexp.MustCompile(`\b(?:quick|fast|short|filler)\b`)
	longWords   = regexp.MustCompile(`\b(?:long|epic|marathon)\b`)
	fillerWords = regexp.MustCompile(`\b(?:game|games|for|and|the|a|an)\b`)
	whitespace  = regexp.MustCompile(`\s+`)
)
