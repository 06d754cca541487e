package store

import (
	"context"
	"errors"
	"strconv"

	"github.com/gameshelfapp/gameshelf-server/internal/gameimport"
)

// The reference catalog is the set of known games imports are matched
// against. It is filled from BGG search results and by the seed command.

// PutCatalogEntry inserts or refreshes a catalog entry keyed by BGG ID.
func (s *Store) PutCatalogEntry(ctx context.Context, entry *gameimport.CatalogEntry) error {
	id := strconv.Itoa(entry.BggID)

	err := s.Catalog.Update(ctx, id, entry)
	if errors.Is(err, ErrNotFound) {
		return s.Catalog.Create(ctx, id, entry)
	}
	return err
}

// ListCatalog returns every catalog entry.
func (s *Store) ListCatalog(ctx context.Context) ([]gameimport.CatalogEntry, error) {
	var entries []gameimport.CatalogEntry
	for entry, err := range s.Catalog.List(ctx) {
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}
