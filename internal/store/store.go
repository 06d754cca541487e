package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/gameshelfapp/gameshelf-server/internal/domain"
	"github.com/gameshelfapp/gameshelf-server/internal/gameimport"
)

// SearchIndexer is the interface for updating the search index.
// Store uses this to keep search in sync without depending on search implementation.
type SearchIndexer interface {
	IndexGame(ctx context.Context, game *domain.Game) error
	DeleteGame(ctx context.Context, gameID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexGame is a no-op.
func (NoopSearchIndexer) IndexGame(context.Context, *domain.Game) error { return nil }

// DeleteGame is a no-op.
func (NoopSearchIndexer) DeleteGame(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer for testing.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Search indexer for keeping search in sync with store changes.
	// Set via SetSearchIndexer after store creation to avoid circular dependencies.
	searchIndexer SearchIndexer

	// Generic entities
	Users     *Entity[domain.User]
	Sessions  *Entity[domain.Session]
	Libraries *Entity[domain.Library]
	Games     *Entity[domain.Game]
	Borrows   *Entity[domain.Borrow]
	Playlists *Entity[domain.Playlist]
	Catalog   *Entity[gameimport.CatalogEntry]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	// Initialize generic entities
	store.initUsers()
	store.initSessions()
	store.initLibraries()
	store.initGames()
	store.initBorrows()
	store.initPlaylists()
	store.initCatalog()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// SetSearchIndexer sets the search indexer for keeping search in sync.
// This is set after store creation to avoid circular dependencies
// (store needs to exist before search service can be created).
func (s *Store) SetSearchIndexer(indexer SearchIndexer) {
	s.searchIndexer = indexer
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// initUsers initializes the Users entity on the store.
// Uses case-insensitive email indexing via normalizeEmail transformation.
func (s *Store) initUsers() {
	s.Users = NewEntity[domain.User](s, "user:").
		WithIndexTransform("email",
			func(u *domain.User) []string {
				return []string{normalizeEmail(u.Email)}
			},
			normalizeEmail, // Transform lookups to be case-insensitive
		)
}

// initSessions initializes the Sessions entity on the store.
// Refresh tokens are looked up by hash; user index lists a user's sessions.
func (s *Store) initSessions() {
	s.Sessions = NewEntity[domain.Session](s, "session:").
		WithIndex("token", func(sess *domain.Session) []string {
			return []string{sess.RefreshTokenHash}
		}).
		WithMultiIndex("user", func(sess *domain.Session) []string {
			return []string{sess.UserID}
		})
}

// initLibraries initializes the Libraries entity on the store.
// Indexed by member so a user's libraries can be listed without a full scan.
func (s *Store) initLibraries() {
	s.Libraries = NewEntity[domain.Library](s, "library:").
		WithMultiIndex("member", func(lib *domain.Library) []string {
			ids := make([]string, len(lib.Members))
			for i, m := range lib.Members {
				ids[i] = m.UserID
			}
			return ids
		})
}

// initGames initializes the Games entity on the store.
func (s *Store) initGames() {
	s.Games = NewEntity[domain.Game](s, "game:").
		WithMultiIndex("library", func(g *domain.Game) []string {
			return []string{g.LibraryID}
		})
}

// initBorrows initializes the Borrows entity on the store.
func (s *Store) initBorrows() {
	s.Borrows = NewEntity[domain.Borrow](s, "borrow:").
		WithMultiIndex("game", func(b *domain.Borrow) []string {
			return []string{b.GameID}
		}).
		WithMultiIndex("library", func(b *domain.Borrow) []string {
			return []string{b.LibraryID}
		})
}

// initPlaylists initializes the Playlists entity on the store.
func (s *Store) initPlaylists() {
	s.Playlists = NewEntity[domain.Playlist](s, "playlist:").
		WithMultiIndex("library", func(p *domain.Playlist) []string {
			return []string{p.LibraryID}
		})
}

// initCatalog initializes the reference catalog entity on the store.
// Entries are keyed by BGG ID and serve as the match target for imports.
func (s *Store) initCatalog() {
	s.Catalog = NewEntity[gameimport.CatalogEntry](s, "catalog:")
}

// normalizeEmail normalizes an email address for consistent lookups.
// Lowercases and trims whitespace.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
