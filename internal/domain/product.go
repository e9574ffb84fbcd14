package domain

// Product is a read-only catalog reference. The cart copies the fields it
// needs at add time; it never mutates a product.
type Product struct {
	ID            string
	PartnerID     string
	Name          string
	Description   string
	PriceCents    int64
	Category      string
	Available     bool
	StockQuantity *int32 // nil means untracked (unlimited)
	Tags          []string
}

// HasStockTracking reports whether the product carries a tracked stock count.
func (p Product) HasStockTracking() bool {
	return p.StockQuantity != nil
}
