package domain

// CartItem is one line in a cart: a product snapshot plus the requested
// quantity. The product fields are copied at add time, so later catalog
// changes do not affect lines already in the cart.
type CartItem struct {
	ID           string
	Product      Product
	Quantity     int32
	Instructions string
}

// LineTotalCents returns quantity times unit price.
func (i CartItem) LineTotalCents() int64 {
	return i.Product.PriceCents * int64(i.Quantity)
}

// Cart is a read snapshot of the line item store, ordered by insertion.
type Cart struct {
	Items []CartItem
}

// ItemCount returns the total quantity across all lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += int(item.Quantity)
	}
	return count
}

// LineCount returns the number of distinct lines.
func (c Cart) LineCount() int {
	return len(c.Items)
}
