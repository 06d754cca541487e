package bgg

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gameshelfapp/gameshelf-server/internal/config"
)

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to load fixture %s: %v", name, err)
	}
	return data
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)

	client := New(config.BGGConfig{
		BaseURL:         server.URL,
		RequestInterval: time.Millisecond, // don't slow down tests
	}, slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))

	return client, server
}

func TestClient_Search(t *testing.T) {
	fixture := loadFixture(t, "search_response.xml")

	tests := []struct {
		name       string
		response   []byte
		statusCode int
		wantCount  int
		wantErr    error
	}{
		{
			name:       "successful search",
			response:   fixture,
			statusCode: http.StatusOK,
			wantCount:  2,
		},
		{
			name:       "empty results",
			response:   []byte(`<?xml version="1.0"?><items total="0"></items>`),
			statusCode: http.StatusOK,
			wantCount:  0,
		},
		{
			name:       "queued response",
			statusCode: http.StatusAccepted,
			wantErr:    ErrQueued,
		},
		{
			name:       "rate limited",
			statusCode: http.StatusTooManyRequests,
			wantErr:    ErrRateLimited,
		},
		{
			name:       "server error",
			statusCode: http.StatusInternalServerError,
			wantErr:    ErrServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				if tt.response != nil {
					w.Write(tt.response)
				}
			}

			client, server := newTestClient(t, handler)
			defer server.Close()
			defer client.Close()

			results, err := client.Search(context.Background(), "catan")

			if tt.wantErr != nil {
				if err == nil {
					t.Errorf("expected error %v, got nil", tt.wantErr)
					return
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected wrapped error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if len(results) != tt.wantCount {
				t.Errorf("got %d results, want %d", len(results), tt.wantCount)
			}
		})
	}
}

func TestClient_Search_ParsesFields(t *testing.T) {
	fixture := loadFixture(t, "search_response.xml")

	handler := func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "boardgame" {
			t.Errorf("expected type=boardgame, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
		w.Write(fixture)
	}

	client, server := newTestClient(t, handler)
	defer server.Close()
	defer client.Close()

	results, err := client.Search(context.Background(), "catan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	first := results[0]
	if first.BggID != 13 {
		t.Errorf("got BggID %d, want 13", first.BggID)
	}
	if first.Title != "CATAN" {
		t.Errorf("got title %q, want CATAN", first.Title)
	}
	if first.YearPublished != 1995 {
		t.Errorf("got year %d, want 1995", first.YearPublished)
	}

	entry := first.CatalogEntry()
	if entry.BggID != 13 || entry.Title != "CATAN" {
		t.Errorf("catalog entry conversion lost fields: %+v", entry)
	}
}

func TestClient_Search_EmptyQuery(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be hit for empty query")
	})
	defer server.Close()
	defer client.Close()

	_, err := client.Search(context.Background(), "")
	if !errors.Is(err, ErrBadRequest) {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}
}

func TestClient_GetGame(t *testing.T) {
	fixture := loadFixture(t, "thing_response.xml")

	handler := func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "13" {
			t.Errorf("expected id=13, got %q", got)
		}
		if got := r.URL.Query().Get("stats"); got != "1" {
			t.Errorf("expected stats=1, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
		w.Write(fixture)
	}

	client, server := newTestClient(t, handler)
	defer server.Close()
	defer client.Close()

	game, err := client.GetGame(context.Background(), 13)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if game.BggID != 13 {
		t.Errorf("got BggID %d, want 13", game.BggID)
	}
	if game.Title != "CATAN" {
		t.Errorf("got title %q, want CATAN (primary name)", game.Title)
	}
	if game.MinPlayers != 3 || game.MaxPlayers != 4 {
		t.Errorf("got player range %d-%d, want 3-4", game.MinPlayers, game.MaxPlayers)
	}
	if game.PlaytimeMin != 60 || game.PlaytimeMax != 120 {
		t.Errorf("got playtime %d-%d, want 60-120", game.PlaytimeMin, game.PlaytimeMax)
	}
	if game.YearPublished != 1995 {
		t.Errorf("got year %d, want 1995", game.YearPublished)
	}
	if game.AverageRating != 7.1 {
		t.Errorf("got rating %v, want 7.1", game.AverageRating)
	}

	wantCategories := []string{"Negotiation", "Economic"}
	if len(game.Categories) != len(wantCategories) {
		t.Fatalf("got categories %v, want %v", game.Categories, wantCategories)
	}
	for i, want := range wantCategories {
		if game.Categories[i] != want {
			t.Errorf("category %d: got %q, want %q", i, game.Categories[i], want)
		}
	}

	wantMechanics := []string{"Dice Rolling", "Trading"}
	if len(game.Mechanics) != len(wantMechanics) {
		t.Fatalf("got mechanics %v, want %v", game.Mechanics, wantMechanics)
	}

	// Designer links must not leak into categories or mechanics
	for _, c := range append(game.Categories, game.Mechanics...) {
		if c == "Klaus Teuber" {
			t.Error("designer link leaked into categories/mechanics")
		}
	}
}

func TestClient_GetGame_CleansDescription(t *testing.T) {
	fixture := loadFixture(t, "thing_response.xml")

	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write(fixture)
	})
	defer server.Close()
	defer client.Close()

	game, err := client.GetGame(context.Background(), 13)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Collect and trade resources to build roads and settlements.\n\nFirst published in 1995."
	if game.Description != want {
		t.Errorf("got description %q, want %q", game.Description, want)
	}
}

func TestClient_GetGame_NotFound(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<?xml version="1.0"?><items></items>`))
	})
	defer server.Close()
	defer client.Close()

	_, err := client.GetGame(context.Background(), 999999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_GetGame_InvalidID(t *testing.T) {
	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be hit for invalid ID")
	})
	defer server.Close()
	defer client.Close()

	_, err := client.GetGame(context.Background(), 0)
	if !errors.Is(err, ErrInvalidID) {
		t.Errorf("expected ErrInvalidID, got %v", err)
	}
}

func TestClient_GetGames_Batch(t *testing.T) {
	fixture := loadFixture(t, "thing_response.xml")

	client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("id"); got != "13,278" {
			t.Errorf("expected id=13,278, got %q", got)
		}
		w.WriteHeader(http.StatusOK)
		w.Write(fixture)
	})
	defer server.Close()
	defer client.Close()

	_, err := client.GetGames(context.Background(), []int{13, 278})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
