package store

import (
	"context"
	"sync"
	"time"

	"github.com/dunamismax/galleryforge/internal/domain"
)

// MemoryCatalogStore keeps the catalog in process memory. It backs tests
// and lets the worker run without Postgres in development.
type MemoryCatalogStore struct {
	mu          sync.RWMutex
	nextID      int64
	collections map[int64]domain.Collection
	images      map[int64]domain.DerivativeSet
}

func NewMemoryCatalogStore() *MemoryCatalogStore {
	return &MemoryCatalogStore{
		nextID:      1,
		collections: make(map[int64]domain.Collection),
		images:      make(map[int64]domain.DerivativeSet),
	}
}

// AddCollection registers a collection. Collection management belongs to
// the gallery application; this exists so callers can seed state.
func (s *MemoryCatalogStore) AddCollection(c domain.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.collections[c.ID] = c
}

func (s *MemoryCatalogStore) CollectionExists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collections[id]
	return ok, nil
}

func (s *MemoryCatalogStore) CreateDerivativeSet(_ context.Context, set domain.DerivativeSet) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set.ID = s.nextID
	s.nextID++
	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now().UTC()
	}
	s.images[set.ID] = set
	return set.ID, nil
}

func (s *MemoryCatalogStore) GetDerivativeSet(_ context.Context, id int64) (domain.DerivativeSet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.images[id]
	return set, ok, nil
}

func (s *MemoryCatalogStore) ListByCollection(_ context.Context, collectionID int64) ([]domain.DerivativeSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sets []domain.DerivativeSet
	for _, set := range s.images {
		if set.CollectionID == collectionID {
			sets = append(sets, set)
		}
	}
	return sets, nil
}
