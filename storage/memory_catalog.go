package storage

import (
	"context"
	"sync"
	"time"

	"berlin-bridges/models"
)

// MemoryCatalog keeps the catalog in process when PostgreSQL is disabled.
type MemoryCatalog struct {
	mu      sync.RWMutex
	entries []*models.CatalogEntry
}

func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{}
}

// Write replaces the stored entries and assigns sequential IDs.
func (m *MemoryCatalog) Write(ctx context.Context, entries []*models.CatalogEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now()
	stored := make([]*models.CatalogEntry, len(entries))
	for i, e := range entries {
		c := *e
		c.ID = int64(i + 1)
		if c.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		stored[i] = &c
	}

	m.mu.Lock()
	m.entries = stored
	m.mu.Unlock()
	return nil
}

func (m *MemoryCatalog) FetchAll(ctx context.Context) ([]*models.CatalogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.CatalogEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *MemoryCatalog) Close() error { return nil }
