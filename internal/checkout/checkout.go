package checkout

import (
	"errors"
	"time"

	"github.com/MimiTechAi/MimiSupply-sub001/internal/domain"
	"github.com/MimiTechAi/MimiSupply-sub001/internal/pricing"
	"github.com/google/uuid"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// Line is one cart line frozen into an order submission, with the unit
// price captured at submission time.
type Line struct {
	ProductID      string `json:"product_id"`
	PartnerID      string `json:"partner_id"`
	ProductName    string `json:"product_name"`
	Quantity       int32  `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	LineTotalCents int64  `json:"line_total_cents"`
	Instructions   string `json:"instructions,omitempty"`
}

// Submission is what the order collaborator receives: the frozen lines plus
// the full fee breakdown. Building one does not place the order.
type Submission struct {
	OrderID    string               `json:"order_id"`
	Lines      []Line               `json:"lines"`
	Pricing    domain.PricingResult `json:"pricing"`
	Currency   string               `json:"currency"`
	CapturedAt time.Time            `json:"captured_at"`
}

// Build freezes the given cart snapshot into a Submission, pricing it with
// the supplied rule set. Returns ErrEmptyCart for a cart with no lines.
func Build(cart domain.Cart, tip pricing.TipChoice, cfg pricing.Config) (*Submission, error) {
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	lines := make([]Line, 0, len(cart.Items))
	for _, item := range cart.Items {
		lines = append(lines, Line{
			ProductID:      item.Product.ID,
			PartnerID:      item.Product.PartnerID,
			ProductName:    item.Product.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.Product.PriceCents,
			LineTotalCents: item.LineTotalCents(),
			Instructions:   item.Instructions,
		})
	}

	capturedAt := time.Now()
	if cfg.Now != nil {
		capturedAt = cfg.Now()
	}

	return &Submission{
		OrderID:    uuid.New().String(),
		Lines:      lines,
		Pricing:    pricing.Quote(cart.Items, tip, cfg),
		Currency:   "EUR",
		CapturedAt: capturedAt,
	}, nil
}
