package gameimport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCatalog = []CatalogEntry{
	{BggID: 13, Title: "Catan", YearPublished: 1995},
	{BggID: 926, Title: "Catan: Cities & Knights", YearPublished: 1998},
	{BggID: 278, Title: "Catan: Seafarers", YearPublished: 1997},
	{BggID: 266192, Title: "Wingspan", YearPublished: 2019},
	{BggID: 230802, Title: "Azul", YearPublished: 2017},
	{BggID: 193738, Title: "Great Western Trail", YearPublished: 2016},
}

func TestMatchOne(t *testing.T) {
	t.Run("exact title accepted", func(t *testing.T) {
		m := MatchOne("Catan", testCatalog)

		require.True(t, m.Matched)
		assert.InDelta(t, 1.0, m.Confidence, 1e-9)
		require.NotNil(t, m.Game)
		assert.Equal(t, 13, m.Game.BggID)
	})

	t.Run("accepted match carries alternates", func(t *testing.T) {
		m := MatchOne("Catan", testCatalog)

		// The two expansions score 0.8 as substrings and ride along.
		require.Len(t, m.Suggestions, 2)
		assert.Equal(t, "Catan: Cities & Knights", m.Suggestions[0].Title)
		assert.Equal(t, "Catan: Seafarers", m.Suggestions[1].Title)
	})

	t.Run("substring clears acceptance threshold", func(t *testing.T) {
		m := MatchOne("wingspan european expansion", testCatalog)

		require.True(t, m.Matched)
		assert.InDelta(t, substringScore, m.Confidence, 1e-9)
		assert.Equal(t, "Wingspan", m.Game.Title)
	})

	t.Run("word overlap is ambiguous not accepted", func(t *testing.T) {
		m := MatchOne("Great Western Empire", testCatalog)

		require.False(t, m.Matched)
		assert.Nil(t, m.Game)
		assert.InDelta(t, 0.5*jaccardScale, m.Confidence, 1e-9)
		require.Len(t, m.Suggestions, 1)
		assert.Equal(t, "Great Western Trail", m.Suggestions[0].Title)
	})

	t.Run("typo sharing no words is unmatched with zero confidence", func(t *testing.T) {
		m := MatchOne("Catn", testCatalog)

		require.False(t, m.Matched)
		assert.Zero(t, m.Confidence)
		assert.Nil(t, m.Game)
		assert.Empty(t, m.Suggestions)
	})

	t.Run("candidates capped at five with alternates capped at three", func(t *testing.T) {
		catalog := []CatalogEntry{
			{BggID: 1, Title: "Dune"},
			{BggID: 2, Title: "Dune: Imperium"},
			{BggID: 3, Title: "Dune: Imperium Uprising"},
			{BggID: 4, Title: "Dune: War for Arrakis"},
			{BggID: 5, Title: "Dune: A Game of Conquest"},
			{BggID: 6, Title: "Dune: Betrayal"},
			{BggID: 7, Title: "Dune: House Secrets"},
		}
		m := MatchOne("Dune", catalog)

		require.True(t, m.Matched)
		assert.Equal(t, 1, m.Game.BggID)
		require.Len(t, m.Suggestions, maxAlternates)
		// Ties keep catalog order.
		assert.Equal(t, []int{2, 3, 4}, []int{
			m.Suggestions[0].BggID,
			m.Suggestions[1].BggID,
			m.Suggestions[2].BggID,
		})
	})

	t.Run("empty catalog", func(t *testing.T) {
		m := MatchOne("Catan", nil)

		assert.False(t, m.Matched)
		assert.Zero(t, m.Confidence)
		assert.Empty(t, m.Suggestions)
	})
}

func TestMatchList(t *testing.T) {
	names := []string{"Catan", "Catn", "Azul", "Great Western Empire"}

	preview, err := MatchList(context.Background(), names, testCatalog)
	require.NoError(t, err)

	assert.Equal(t, 4, preview.Total)
	assert.Equal(t, 2, preview.Matched)
	assert.Equal(t, 2, preview.Unmatched)
	assert.Equal(t, preview.Total, preview.Matched+preview.Unmatched)

	require.Len(t, preview.Games, 4)
	for i, name := range names {
		assert.Equal(t, name, preview.Games[i].Input)
	}
	assert.True(t, preview.Games[0].Matched)
	assert.False(t, preview.Games[1].Matched)
	assert.True(t, preview.Games[2].Matched)
	assert.False(t, preview.Games[3].Matched)
}

func TestMatchListEmpty(t *testing.T) {
	preview, err := MatchList(context.Background(), nil, testCatalog)
	require.NoError(t, err)

	assert.Zero(t, preview.Total)
	assert.Empty(t, preview.Games)
}

func TestMatchListCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MatchList(ctx, []string{"Catan"}, testCatalog)
	assert.ErrorIs(t, err, context.Canceled)
}
