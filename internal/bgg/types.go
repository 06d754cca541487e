package bgg

import "github.com/gameshelfapp/gameshelf-server/internal/gameimport"

// SearchResult is one hit from the search endpoint. Search responses
// carry only the basics; GetGame returns the full record.
type SearchResult struct {
	BggID         int    `json:"bggId"`
	Title         string `json:"title"`
	YearPublished int    `json:"yearPublished,omitempty"`
}

// CatalogEntry converts the result into a reference catalog entry.
func (r SearchResult) CatalogEntry() gameimport.CatalogEntry {
	return gameimport.CatalogEntry{
		BggID:         r.BggID,
		Title:         r.Title,
		YearPublished: r.YearPublished,
	}
}

// GameDetails is the full game record from the thing endpoint.
type GameDetails struct {
	BggID         int      `json:"bggId"`
	Title         string   `json:"title"`
	Description   string   `json:"description,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	YearPublished int      `json:"yearPublished,omitempty"`
	MinPlayers    int      `json:"minPlayers,omitempty"`
	MaxPlayers    int      `json:"maxPlayers,omitempty"`
	PlaytimeMin   int      `json:"playtimeMin,omitempty"`
	PlaytimeMax   int      `json:"playtimeMax,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	Mechanics     []string `json:"mechanics,omitempty"`
	AverageRating float64  `json:"averageRating,omitempty"`
}

// Raw XML response types (internal). The XML API2 encodes almost every
// scalar as a value attribute on a child element.

type searchResponse struct {
	Total int          `xml:"total,attr"`
	Items []searchItem `xml:"item"`
}

type searchItem struct {
	Type          string       `xml:"type,attr"`
	ID            int          `xml:"id,attr"`
	Name          nameElement  `xml:"name"`
	YearPublished valueElement `xml:"yearpublished"`
}

type thingResponse struct {
	Items []thingItem `xml:"item"`
}

type thingItem struct {
	Type          string        `xml:"type,attr"`
	ID            int           `xml:"id,attr"`
	Thumbnail     string        `xml:"thumbnail"`
	Image         string        `xml:"image"`
	Names         []nameElement `xml:"name"`
	Description   string        `xml:"description"`
	YearPublished valueElement  `xml:"yearpublished"`
	MinPlayers    valueElement  `xml:"minplayers"`
	MaxPlayers    valueElement  `xml:"maxplayers"`
	PlayingTime   valueElement  `xml:"playingtime"`
	MinPlaytime   valueElement  `xml:"minplaytime"`
	MaxPlaytime   valueElement  `xml:"maxplaytime"`
	Links         []linkElement `xml:"link"`
	Statistics    struct {
		Ratings struct {
			Average floatElement `xml:"average"`
		} `xml:"ratings"`
	} `xml:"statistics"`
}

type nameElement struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

type valueElement struct {
	Value int `xml:"value,attr"`
}

type floatElement struct {
	Value float64 `xml:"value,attr"`
}

type linkElement struct {
	Type  string `xml:"type,attr"`
	ID    int    `xml:"id,attr"`
	Value string `xml:"value,attr"`
}
