package touch

// DefaultSpread is the offset above the baseline that marks a definite touch.
// This is the observed range distance between the base and the threshold that
// stays stable across the devices tested; other hardware may need a different
// value.
const DefaultSpread = 63

// TouchClassifier decides touch/no-touch by comparing a live reading against
// the current baseline plus a fixed spread. There is no debounce: a touch is
// recognized on every qualifying tick, and recording the touch timestamp is
// the caller's job.
type TouchClassifier struct {
	spread int
}

// NewTouchClassifier creates a classifier with the given spread.
func NewTouchClassifier(spread int) *TouchClassifier {
	if spread <= 0 {
		spread = DefaultSpread
	}
	return &TouchClassifier{spread: spread}
}

// Threshold returns the touch-detection boundary for the given baseline.
func (c *TouchClassifier) Threshold(baseline int) int {
	return baseline + c.spread
}

// IsTouch reports whether the reading is at or above the touch threshold.
func (c *TouchClassifier) IsTouch(reading, baseline int) bool {
	return reading >= c.Threshold(baseline)
}
