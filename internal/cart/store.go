package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/MimiTechAi/MimiSupply-sub001/internal/domain"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/repository"
	"github.com/google/uuid"
)

// Validation errors returned by mutating operations. All are recoverable;
// a failed call leaves the cart untouched.
var (
	ErrInvalidQuantity    = errors.New("quantity out of range")
	ErrProductUnavailable = errors.New("product is not available")
	ErrInsufficientStock  = errors.New("insufficient stock for product")
	ErrCartLimitExceeded  = errors.New("cart line limit exceeded")
	ErrItemNotFound       = errors.New("item not found in cart")
)

// Config bounds the store and hooks persistence failures.
type Config struct {
	// MaxQuantityPerRequest caps the quantity argument of a single call.
	MaxQuantityPerRequest int32

	// MaxDistinctLines caps the number of distinct lines in the cart.
	MaxDistinctLines int

	// OnPersistenceError receives write failures from the persistence
	// adapter. The in-memory mutation has already committed when it is
	// called. Defaults to logging.
	OnPersistenceError func(error)
}

func DefaultConfig() Config {
	return Config{
		MaxQuantityPerRequest: 99,
		MaxDistinctLines:      50,
	}
}

// Store is the line item store for one customer session. Access is
// serialized by an internal mutex; the UI drives it from a single event
// loop, but nothing here depends on that.
type Store struct {
	mu    sync.Mutex
	items []*domain.CartItem
	byID  map[string]*domain.CartItem
	byPID map[string]*domain.CartItem // product ID -> line, for merge lookups

	repo repository.CartRepository
	cfg  Config

	subMu sync.Mutex
	subs  []*subscriber
}

func NewStore(repo repository.CartRepository, cfg Config) *Store {
	if cfg.MaxQuantityPerRequest <= 0 {
		cfg.MaxQuantityPerRequest = DefaultConfig().MaxQuantityPerRequest
	}
	if cfg.MaxDistinctLines <= 0 {
		cfg.MaxDistinctLines = DefaultConfig().MaxDistinctLines
	}
	if cfg.OnPersistenceError == nil {
		cfg.OnPersistenceError = func(err error) {
			log.Printf("cart persistence error: %v", err)
		}
	}
	return &Store{
		byID:  make(map[string]*domain.CartItem),
		byPID: make(map[string]*domain.CartItem),
		repo:  repo,
		cfg:   cfg,
	}
}

// Load rehydrates the store from the persistence adapter. Call once at
// session start, before any mutation.
func (s *Store) Load(ctx context.Context) error {
	items, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	s.mu.Lock()
	s.items = s.items[:0]
	clear(s.byID)
	clear(s.byPID)
	for i := range items {
		item := items[i]
		s.items = append(s.items, &item)
		s.byID[item.ID] = &item
		s.byPID[item.Product.ID] = &item
	}
	count := s.itemCountLocked()
	s.mu.Unlock()

	s.publish(count)
	return nil
}

// AddItem validates and adds the product, merging into an existing line for
// the same product. The merged line keeps its original instructions.
func (s *Store) AddItem(ctx context.Context, product domain.Product, quantity int32, instructions string) (domain.CartItem, error) {
	if quantity < 1 || quantity > s.cfg.MaxQuantityPerRequest {
		return domain.CartItem{}, ErrInvalidQuantity
	}
	if !product.Available {
		return domain.CartItem{}, ErrProductUnavailable
	}

	s.mu.Lock()

	existing := s.byPID[product.ID]
	resulting := quantity
	if existing != nil {
		resulting = existing.Quantity + quantity
	}

	// Stock is checked against the quantity the cart would end up holding,
	// not just this call's delta.
	if product.HasStockTracking() && resulting > *product.StockQuantity {
		s.mu.Unlock()
		return domain.CartItem{}, ErrInsufficientStock
	}
	if existing == nil && len(s.items) >= s.cfg.MaxDistinctLines {
		s.mu.Unlock()
		return domain.CartItem{}, ErrCartLimitExceeded
	}

	var item *domain.CartItem
	if existing != nil {
		existing.Quantity = resulting
		item = existing
	} else {
		item = &domain.CartItem{
			ID:           uuid.New().String(),
			Product:      product,
			Quantity:     quantity,
			Instructions: instructions,
		}
		s.items = append(s.items, item)
		s.byID[item.ID] = item
		s.byPID[product.ID] = item
	}
	snapshot := *item
	count := s.itemCountLocked()
	s.mu.Unlock()

	s.persistSave(ctx, snapshot)
	s.publish(count)
	return snapshot, nil
}

// UpdateQuantity sets the line's quantity. Zero removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, itemID string, quantity int32) error {
	if quantity == 0 {
		return s.RemoveItem(ctx, itemID)
	}
	if quantity < 0 || quantity > s.cfg.MaxQuantityPerRequest {
		return ErrInvalidQuantity
	}

	s.mu.Lock()

	item := s.byID[itemID]
	if item == nil {
		s.mu.Unlock()
		return ErrItemNotFound
	}
	if item.Product.HasStockTracking() && quantity > *item.Product.StockQuantity {
		s.mu.Unlock()
		return ErrInsufficientStock
	}

	item.Quantity = quantity
	snapshot := *item
	count := s.itemCountLocked()
	s.mu.Unlock()

	s.persistSave(ctx, snapshot)
	s.publish(count)
	return nil
}

// RemoveItem deletes the line with the given id.
func (s *Store) RemoveItem(ctx context.Context, itemID string) error {
	s.mu.Lock()

	item := s.byID[itemID]
	if item == nil {
		s.mu.Unlock()
		return ErrItemNotFound
	}

	delete(s.byID, itemID)
	delete(s.byPID, item.Product.ID)
	for i, it := range s.items {
		if it.ID == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	count := s.itemCountLocked()
	s.mu.Unlock()

	if err := s.repo.Delete(ctx, itemID); err != nil {
		s.cfg.OnPersistenceError(fmt.Errorf("%w: delete %s: %v", repository.ErrUnavailable, itemID, err))
	}
	s.publish(count)
	return nil
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.items = s.items[:0]
	clear(s.byID)
	clear(s.byPID)
	s.mu.Unlock()

	if err := s.repo.ClearAll(ctx); err != nil {
		s.cfg.OnPersistenceError(fmt.Errorf("%w: clear: %v", repository.ErrUnavailable, err))
	}
	s.publish(0)
	return nil
}

// Items returns the lines in insertion order as copies.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.CartItem, len(s.items))
	for i, item := range s.items {
		items[i] = *item
	}
	return items
}

// Snapshot returns the cart view for display and pricing.
func (s *Store) Snapshot() domain.Cart {
	return domain.Cart{Items: s.Items()}
}

// ItemForProduct returns the line holding the given product, if any.
func (s *Store) ItemForProduct(productID string) (domain.CartItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.byPID[productID]
	if item == nil {
		return domain.CartItem{}, false
	}
	return *item, true
}

// ItemCount returns the total quantity across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.itemCountLocked()
}

func (s *Store) itemCountLocked() int {
	count := 0
	for _, item := range s.items {
		count += int(item.Quantity)
	}
	return count
}

func (s *Store) persistSave(ctx context.Context, item domain.CartItem) {
	if err := s.repo.Save(ctx, item); err != nil {
		s.cfg.OnPersistenceError(fmt.Errorf("%w: save %s: %v", repository.ErrUnavailable, item.ID, err))
	}
}
