package bgg

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
)

// Search searches the BGG catalog for board games matching the query.
// Results carry only the ID, title, and year; use GetGame for the rest.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if query == "" {
		return nil, wrapError("search", 0, ErrBadRequest)
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("type", "boardgame")

	body, err := c.doRequest(ctx, "/search", params)
	if err != nil {
		return nil, wrapError("search", 0, err)
	}

	var resp searchResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, wrapError("search", 0, fmt.Errorf("parse response: %w", err))
	}

	results := make([]SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Name.Value == "" {
			continue
		}
		results = append(results, SearchResult{
			BggID:         item.ID,
			Title:         item.Name.Value,
			YearPublished: item.YearPublished.Value,
		})
	}

	return results, nil
}
