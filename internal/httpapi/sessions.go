package httpapi

import (
	"sync"

	"github.com/MimiTechAi/MimiSupply-sub001/internal/cart"
)

// Sessions hands out one cart store per customer, creating it on first use.
type Sessions struct {
	mu       sync.Mutex
	stores   map[string]*cart.Store
	newStore func(customerID string) *cart.Store
}

// NewSessions creates a session registry. newStore builds (and, if needed,
// rehydrates) the store for a customer seen for the first time.
func NewSessions(newStore func(customerID string) *cart.Store) *Sessions {
	return &Sessions{
		stores:   make(map[string]*cart.Store),
		newStore: newStore,
	}
}

// For returns the customer's store, creating it if absent.
func (s *Sessions) For(customerID string) *cart.Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, exists := s.stores[customerID]
	if !exists {
		store = s.newStore(customerID)
		s.stores[customerID] = store
	}
	return store
}
