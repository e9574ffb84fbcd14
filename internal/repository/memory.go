package repository

import (
	"context"
	"sync"

	"github.com/MimiTechAi/MimiSupply-sub001/internal/domain"
)

// MemoryRepository is an in-memory CartRepository for tests and for running
// the engine without a database file.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []string
	items map[string]domain.CartItem
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		items: make(map[string]domain.CartItem),
	}
}

func (r *MemoryRepository) LoadAll(_ context.Context) ([]domain.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.CartItem, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, r.items[id])
	}
	return items, nil
}

func (r *MemoryRepository) Save(_ context.Context, item domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[item.ID]; !exists {
		r.order = append(r.order, item.ID)
	}
	r.items[item.ID] = item
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[itemID]; !exists {
		return nil
	}
	delete(r.items, itemID)
	for i, id := range r.order {
		if id == itemID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MemoryRepository) ClearAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.order = nil
	r.items = make(map[string]domain.CartItem)
	return nil
}

// Len reports the number of stored lines, for assertions in tests.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
