package domain

// PricingResult is the full fee breakdown for a cart, in integer cents.
// It is derived on demand and never persisted.
type PricingResult struct {
	SubtotalCents    int64 `json:"subtotal_cents"`
	DeliveryFeeCents int64 `json:"delivery_fee_cents"`
	PlatformFeeCents int64 `json:"platform_fee_cents"`
	TaxCents         int64 `json:"tax_cents"`
	TipCents         int64 `json:"tip_cents"`
	TotalCents       int64 `json:"total_cents"`
}
