package catalog

import (
	"context"
	"errors"

	"github.com/MimiTechAi/MimiSupply-sub001/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Catalog supplies product lookups. The cart engine only reads price,
// availability and stock at the moment an item is added; it never writes.
type Catalog interface {
	Product(ctx context.Context, id string) (domain.Product, error)
	ProductsByPartner(ctx context.Context, partnerID string) ([]domain.Product, error)
}
