package light

// DefaultLightOnMillis is how long the pulse animation keeps running after a
// touch, in milliseconds.
const DefaultLightOnMillis = 30000

// Mode identifies which output behavior drives the LED on a given tick.
type Mode int

const (
	// ModePulsing runs the timed triangle-wave animation after a touch.
	ModePulsing Mode = iota
	// ModeProximityGlow makes brightness proportional to sensed proximity.
	ModeProximityGlow
)

func (m Mode) String() string {
	if m == ModePulsing {
		return "pulsing"
	}
	return "glow"
}

// Controller selects between the pulse animation and the proximity glow and
// computes the brightness byte for one tick. The selection is a pure function
// of elapsed time since the last touch, re-evaluated every tick, so a re-touch
// during the glow snaps straight back to pulsing.
type Controller struct {
	pulser *Pulser
	glow   *Glow

	lightOnMillis uint32
}

// NewController wires a controller from its two output stages.
func NewController(pulser *Pulser, glow *Glow, lightOnMillis uint32) *Controller {
	if lightOnMillis == 0 {
		lightOnMillis = DefaultLightOnMillis
	}
	return &Controller{
		pulser:        pulser,
		glow:          glow,
		lightOnMillis: lightOnMillis,
	}
}

// Mode returns the behavior for a tick that happens sinceTouch milliseconds
// after the most recent touch.
func (c *Controller) Mode(sinceTouch uint32) Mode {
	if sinceTouch < c.lightOnMillis {
		return ModePulsing
	}
	return ModeProximityGlow
}

// Tick computes the brightness for one tick. write is false when the LED
// should hold its previous state rather than be rewritten.
func (c *Controller) Tick(sinceTouch uint32, reading, baseline int) (brightness uint8, write bool) {
	if c.Mode(sinceTouch) == ModePulsing {
		return c.pulser.Next(), true
	}
	return c.glow.Update(reading, baseline)
}
