package pricing

import "time"

// PeakWindow is a daily hour range [StartHour, EndHour) during which the
// delivery fee surge multiplier applies.
type PeakWindow struct {
	StartHour int
	EndHour   int
}

// Contains reports whether t falls inside the window.
func (w PeakWindow) Contains(t time.Time) bool {
	hour := t.Hour()
	return hour >= w.StartHour && hour < w.EndHour
}

// Config is the named rule set the calculator runs on. All amounts are in
// integer cents, all rates are fractions (0.07 = 7%).
type Config struct {
	BaseDeliveryFeeCents       int64
	FreeDeliveryThresholdCents int64
	PeakMultiplier             float64
	PeakWindows                []PeakWindow

	PlatformFeeRate            float64
	PlatformFlatFeeCents       int64
	PlatformFlatThresholdCents int64

	TaxRate        float64
	DefaultTipRate float64

	// Now supplies the clock for peak window checks. Quotes are computed
	// live at calculation time; callers wanting a locked quote inject a
	// fixed clock.
	Now func() time.Time
}

// DefaultConfig returns the production rule set: 2.99 base delivery, free
// above 25.00, 1.5x surge over lunch and dinner, 5% platform fee capped at
// a flat 0.49 above 50.00, 7% tax, 15% default tip.
func DefaultConfig() Config {
	return Config{
		BaseDeliveryFeeCents:       299,
		FreeDeliveryThresholdCents: 2500,
		PeakMultiplier:             1.5,
		PeakWindows: []PeakWindow{
			{StartHour: 11, EndHour: 14},
			{StartHour: 18, EndHour: 21},
		},
		PlatformFeeRate:            0.05,
		PlatformFlatFeeCents:       49,
		PlatformFlatThresholdCents: 5000,
		TaxRate:                    0.07,
		DefaultTipRate:             0.15,
		Now:                        time.Now,
	}
}

func (c Config) inPeakWindow(t time.Time) bool {
	for _, w := range c.PeakWindows {
		if w.Contains(t) {
			return true
		}
	}
	return false
}

func (c Config) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
