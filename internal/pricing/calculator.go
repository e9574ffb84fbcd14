package pricing

import (
	"github.com/MimiTechAi/MimiSupply-sub001/internal/domain"
)

type tipMode int

const (
	tipDefault tipMode = iota
	tipPercentage
	tipFixed
)

// TipChoice selects how the tip is derived. The zero value applies the
// configured default percentage.
type TipChoice struct {
	mode  tipMode
	rate  float64
	cents int64
}

// TipPercentage tips a fraction of the subtotal (0.2 = 20%).
func TipPercentage(rate float64) TipChoice {
	return TipChoice{mode: tipPercentage, rate: rate}
}

// TipFixed tips a caller-supplied amount in cents.
func TipFixed(cents int64) TipChoice {
	return TipChoice{mode: tipFixed, cents: cents}
}

// Quote derives the full fee breakdown from the given lines. It is a pure
// function of its inputs plus the configured clock and is safe to call
// repeatedly and concurrently.
//
// All derived amounts use truncation toward zero (float64 multiply, int64
// convert). Checkout totals must match the mobile clients cent for cent, so
// do not switch this to a rounding division.
func Quote(items []domain.CartItem, tip TipChoice, cfg Config) domain.PricingResult {
	var subtotal int64
	for _, item := range items {
		subtotal += item.LineTotalCents()
	}

	deliveryFee := cfg.deliveryFee(subtotal)
	platformFee := cfg.platformFee(subtotal)
	tax := truncMul(subtotal+deliveryFee+platformFee, cfg.TaxRate)
	tipCents := cfg.tip(subtotal, tip)

	return domain.PricingResult{
		SubtotalCents:    subtotal,
		DeliveryFeeCents: deliveryFee,
		PlatformFeeCents: platformFee,
		TaxCents:         tax,
		TipCents:         tipCents,
		TotalCents:       subtotal + deliveryFee + platformFee + tax + tipCents,
	}
}

// deliveryFee waives the fee entirely at or above the free-delivery
// threshold; otherwise the base fee, surged during peak windows.
func (c Config) deliveryFee(subtotal int64) int64 {
	if subtotal >= c.FreeDeliveryThresholdCents {
		return 0
	}

	fee := c.BaseDeliveryFeeCents
	if c.inPeakWindow(c.now()) {
		fee = truncMul(fee, c.PeakMultiplier)
	}
	return fee
}

// platformFee is percentage-based below the high-value threshold and a
// reduced flat fee above it.
func (c Config) platformFee(subtotal int64) int64 {
	if subtotal > c.PlatformFlatThresholdCents {
		return c.PlatformFlatFeeCents
	}
	return truncMul(subtotal, c.PlatformFeeRate)
}

func (c Config) tip(subtotal int64, choice TipChoice) int64 {
	switch choice.mode {
	case tipPercentage:
		return truncMul(subtotal, choice.rate)
	case tipFixed:
		if choice.cents < 0 {
			return 0
		}
		return choice.cents
	default:
		return truncMul(subtotal, c.DefaultTipRate)
	}
}

func truncMul(amount int64, rate float64) int64 {
	return int64(float64(amount) * rate)
}
