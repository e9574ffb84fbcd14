package repository

import (
	"context"
	"errors"

	"github.com/MimiTechAi/MimiSupply-sub001/internal/domain"
)

// ErrUnavailable marks a persistence failure. The in-memory cart stays the
// source of truth, so callers log and continue rather than roll back.
var ErrUnavailable = errors.New("cart persistence unavailable")

// CartRepository is the persistence adapter boundary for one cart session.
// Consumers define this interface, not the SQLite implementation.
type CartRepository interface {
	// LoadAll returns every stored line in insertion order.
	LoadAll(ctx context.Context) ([]domain.CartItem, error)

	// Save inserts the line or, if the id exists, updates quantity and
	// instructions in place.
	Save(ctx context.Context, item domain.CartItem) error

	// Delete removes the line with the given id. Deleting a missing line
	// is not an error.
	Delete(ctx context.Context, itemID string) error

	// ClearAll removes every stored line.
	ClearAll(ctx context.Context) error
}
