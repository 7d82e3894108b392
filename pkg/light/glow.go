package light

import "github.com/mamacker/FairyFun/pkg/touch"

// DefaultMinOverThreshold is how far above the baseline a reading must sit to
// count as "near" for the glow, and how far below the baseline the smoothed
// average may fall before the LED is switched hard off.
const DefaultMinOverThreshold = 3

// Glow maps proximity to brightness: the closer the finger, the brighter the
// LED. Readings are smoothed through a ProximityAverager, and when the finger
// withdraws the averager is fed zeros so the light fades down instead of
// snapping off.
type Glow struct {
	avg     *touch.ProximityAverager
	minOver int

	// Brightness computed on the last near-branch call. The fade-out is
	// clamped to it so withdrawal is monotonic non-increasing.
	last int
}

// NewGlow creates a glow stage around the given averager.
func NewGlow(avg *touch.ProximityAverager, minOverThreshold int) *Glow {
	if minOverThreshold <= 0 {
		minOverThreshold = DefaultMinOverThreshold
	}
	return &Glow{avg: avg, minOver: minOverThreshold}
}

// Update consumes one reading against the current baseline and returns the
// brightness to output. write is false when the LED must hold its previous
// state: a near reading whose smoothed average has not caught up yet is
// neither trusted for a new brightness nor reason to blank the light.
func (g *Glow) Update(reading, baseline int) (brightness uint8, write bool) {
	if reading > baseline+g.minOver {
		avg := g.avg.Add(reading)
		g.last = avg - baseline

		if avg > baseline+g.minOver {
			return clampByte(g.last), true
		}
		return 0, false
	}

	// Finger is gone (or too far): feed a zero so the average sinks and the
	// light closes down over roughly one averager window.
	avg := g.avg.Add(0)

	closing := avg - baseline
	if closing > g.last {
		closing = g.last
	}
	if closing < 0 {
		closing = 0
	}

	if avg > baseline-g.minOver {
		return clampByte(closing), true
	}
	return 0, true
}
