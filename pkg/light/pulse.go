package light

const (
	// DefaultStepsMax is the number of brightness steps from floor to full.
	// Higher values make the pulse slower and smoother; the wave period is
	// 2*StepsMax ticks.
	DefaultStepsMax = 150
	// DefaultMinBrightness is the pulse floor. Fully dark looks like the
	// device turned off, so the pulse bottoms out just above that.
	DefaultMinBrightness = 10
)

// Pulser generates a triangle-wave brightness animation: one step up or down
// per call between MinBrightness and 255, reversing direction at the ends.
// It is driven purely by call count; proximity has no effect while pulsing.
type Pulser struct {
	step          int
	rising        bool
	stepsMax      int
	minBrightness int
}

// NewPulser creates a pulser at the bottom of the wave, about to rise.
func NewPulser(stepsMax, minBrightness int) *Pulser {
	if stepsMax <= 0 {
		stepsMax = DefaultStepsMax
	}
	if minBrightness <= 0 {
		minBrightness = DefaultMinBrightness
	}
	return &Pulser{
		rising:        true,
		stepsMax:      stepsMax,
		minBrightness: minBrightness,
	}
}

// Next advances the wave one step and returns the brightness for it.
func (p *Pulser) Next() uint8 {
	if p.step >= p.stepsMax {
		p.rising = false
	}
	if p.step <= 0 {
		p.rising = true
	}

	if p.rising {
		p.step++
	} else {
		p.step--
	}

	return clampByte(p.minBrightness + (255-p.minBrightness)*p.step/p.stepsMax)
}

// clampByte bounds v to the 0..255 range the analog output accepts. Values
// below zero would otherwise wrap to a large byte and light the LED at full.
func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
