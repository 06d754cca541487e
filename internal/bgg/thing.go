package bgg

import (
	"context"
	"encoding/xml"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
)

// GetGame fetches the full record for one game.
func (c *Client) GetGame(ctx context.Context, id int) (*GameDetails, error) {
	if id <= 0 {
		return nil, wrapError("getGame", id, ErrInvalidID)
	}

	games, err := c.GetGames(ctx, []int{id})
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, wrapError("getGame", id, ErrNotFound)
	}
	return &games[0], nil
}

// GetGames fetches full records for several games in one request. The
// thing endpoint accepts a comma-separated ID list, which keeps bulk
// imports inside the fair-use budget.
func (c *Client) GetGames(ctx context.Context, ids []int) ([]GameDetails, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	idStrs := make([]string, len(ids))
	for i, id := range ids {
		if id <= 0 {
			return nil, wrapError("getGames", id, ErrInvalidID)
		}
		idStrs[i] = strconv.Itoa(id)
	}

	params := url.Values{}
	params.Set("id", strings.Join(idStrs, ","))
	params.Set("type", "boardgame")
	params.Set("stats", "1")

	body, err := c.doRequest(ctx, "/thing", params)
	if err != nil {
		return nil, wrapError("getGames", 0, err)
	}

	var resp thingResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("getGames", 0, fmt.Errorf("parse response: %w", err))
	}

	games := make([]GameDetails, 0, len(resp.Items))
	for i := range resp.Items {
		games = append(games, itemToDetails(&resp.Items[i]))
	}
	return games, nil
}

// itemToDetails flattens one thing item into a GameDetails.
func itemToDetails(item *thingItem) GameDetails {
	details := GameDetails{
		BggID:         item.ID,
		Title:         primaryName(item.Names),
		Description:   cleanDescription(item.Description),
		ImageURL:      item.Image,
		YearPublished: item.YearPublished.Value,
		MinPlayers:    item.MinPlayers.Value,
		MaxPlayers:    item.MaxPlayers.Value,
		PlaytimeMin:   item.MinPlaytime.Value,
		PlaytimeMax:   item.MaxPlaytime.Value,
		AverageRating: item.Statistics.Ratings.Average.Value,
	}

	if details.ImageURL == "" {
		details.ImageURL = item.Thumbnail
	}

	// Older entries only fill playingtime.
	if details.PlaytimeMax == 0 {
		details.PlaytimeMax = item.PlayingTime.Value
	}
	if details.PlaytimeMin == 0 {
		details.PlaytimeMin = details.PlaytimeMax
	}

	for _, link := range item.Links {
		switch link.Type {
		case "boardgamecategory":
			details.Categories = append(details.Categories, link.Value)
		case "boardgamemechanic":
			details.Mechanics = append(details.Mechanics, link.Value)
		}
	}

	return details
}

// cleanDescription unescapes the double-encoded entities BGG ships in
// description bodies.
func cleanDescription(s string) string {
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "&#10;", "\n")
	return strings.TrimSpace(s)
}
