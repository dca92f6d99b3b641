package catalog

import (
	"context"
	"sync"

	"MiniCatalog/internal/money"
)

// Store is the catalog surface the HTTP layer consumes. Every method runs to
// completion atomically with respect to the others.
type Store interface {
	Insert(id int64, price money.Money, tags []int64) int
	Find(id int64) money.Money
	Item(id int64) (Item, bool)
	Delete(id int64) int64
	FindMinPrice(tag int64) money.Money
	FindMaxPrice(tag int64) money.Money
	FindPriceRange(tag int64, low, high money.Money) int
	PriceHike(lowID, highID int64, ratePercent float64) (money.Money, error)
	RemoveNames(id int64, tags []int64) (int64, error)
	Stats() Stats
	Ping(ctx context.Context) error
}

type Stats struct {
	Items int
	Tags  int
}

// MemStore guards a Catalog with a single RWMutex.
type MemStore struct {
	mu sync.RWMutex
	c  *Catalog
}

func NewMemStore(degree int) *MemStore {
	return &MemStore{c: New(degree)}
}

func NewStore() Store {
	return NewMemStore(DefaultDegree)
}

// Ping verifies the catalog invariants.
func (s *MemStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.Verify()
}

func (s *MemStore) Insert(id int64, price money.Money, tags []int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Insert(id, price, tags)
}

func (s *MemStore) Find(id int64) money.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.Find(id)
}

func (s *MemStore) Item(id int64) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.Item(id)
}

func (s *MemStore) Delete(id int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Delete(id)
}

func (s *MemStore) FindMinPrice(tag int64) money.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.FindMinPrice(tag)
}

func (s *MemStore) FindMaxPrice(tag int64) money.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.FindMaxPrice(tag)
}

func (s *MemStore) FindPriceRange(tag int64, low, high money.Money) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.c.FindPriceRange(tag, low, high)
}

func (s *MemStore) PriceHike(lowID, highID int64, ratePercent float64) (money.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.PriceHike(lowID, highID, ratePercent)
}

func (s *MemStore) RemoveNames(id int64, tags []int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.RemoveNames(id, tags)
}

func (s *MemStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{Items: s.c.Len(), Tags: s.c.TagCount()}
}
