package light

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamacker/FairyFun/pkg/touch"
)

func TestGlow_HoldsLEDUntilAverageCatchesUp(t *testing.T) {
	avg := touch.NewProximityAverager(10)
	g := NewGlow(avg, 3)

	// A single near reading leaves the smoothed average well under the
	// baseline, so the LED holds its previous state instead of being blanked.
	_, write := g.Update(750, 700)
	assert.False(t, write)

	// Once the window fills with near readings the average clears the
	// baseline and the glow writes proximity-proportional brightness.
	var brightness uint8
	for i := 0; i < 10; i++ {
		brightness, write = g.Update(750, 700)
	}
	assert.True(t, write)
	assert.Equal(t, uint8(50), brightness)
}

func TestGlow_FadeOutIsMonotonicAndReachesZero(t *testing.T) {
	const window = 50
	avg := touch.NewProximityAverager(window)
	g := NewGlow(avg, 3)

	// Hold a finger nearby until the glow is steady around avg-baseline = 40.
	for i := 0; i < window; i++ {
		g.Update(740, 700)
	}
	brightness, write := g.Update(740, 700)
	assert.True(t, write)
	assert.Equal(t, uint8(40), brightness)

	// Withdraw the finger: readings drop below baseline+minOver, zeros flow
	// into the averager, and the output fades without ever increasing.
	prev := brightness
	for i := 1; i <= window; i++ {
		b, w := g.Update(650, 700)
		assert.True(t, w, "tick %d", i)
		assert.LessOrEqual(t, b, prev, "tick %d", i)
		prev = b
	}
	assert.Equal(t, uint8(0), prev)
}

func TestGlow_ClosingValueClampedToLastBrightness(t *testing.T) {
	avg := touch.NewProximityAverager(10)
	g := NewGlow(avg, 3)

	// Saturate the average high, then record a much dimmer near brightness.
	for i := 0; i < 10; i++ {
		g.Update(900, 700)
	}
	g.last = 5

	// avg-baseline is ~200 but the fade must not jump above the retained 5.
	b, w := g.Update(650, 700)
	assert.True(t, w)
	assert.LessOrEqual(t, b, uint8(5))
}

func TestGlow_NegativeClosingClampsToZero(t *testing.T) {
	avg := touch.NewProximityAverager(10)
	g := NewGlow(avg, 3)
	g.last = 40

	// Average is far below baseline: the subtraction goes negative and must
	// clamp to 0 instead of wrapping into a bright byte.
	b, w := g.Update(650, 700)
	assert.True(t, w)
	assert.Equal(t, uint8(0), b)
}

func TestGlow_HardOffBelowBaseline(t *testing.T) {
	const window = 10
	avg := touch.NewProximityAverager(window)
	g := NewGlow(avg, 3)

	for i := 0; i < window; i++ {
		g.Update(740, 700)
	}

	// Drain the average until it drops below baseline-minOver; from there the
	// glow writes a hard 0 every tick.
	var b uint8
	for i := 0; i < window; i++ {
		b, _ = g.Update(650, 700)
	}
	assert.Equal(t, uint8(0), b)
}

func TestController_ModeSelection(t *testing.T) {
	c := NewController(NewPulser(150, 10), NewGlow(touch.NewProximityAverager(50), 3), 30000)

	tests := []struct {
		name       string
		sinceTouch uint32
		want       Mode
	}{
		{"just touched", 0, ModePulsing},
		{"mid animation", 15000, ModePulsing},
		{"last pulsing tick", 29999, ModePulsing},
		{"exactly at cutoff", 30000, ModeProximityGlow},
		{"long after touch", 120000, ModeProximityGlow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Mode(tt.sinceTouch))
		})
	}
}

func TestController_TickDispatch(t *testing.T) {
	c := NewController(NewPulser(150, 10), NewGlow(touch.NewProximityAverager(50), 3), 30000)

	// Within the light-on window the pulse runs regardless of proximity.
	b, write := c.Tick(0, 0, 700)
	assert.True(t, write)
	assert.Equal(t, uint8(11), b)

	// A re-touch during glow snaps straight back to pulsing: the wave picks
	// up where it left off.
	b2, _ := c.Tick(40000, 650, 700)
	assert.NotEqual(t, uint8(12), b2)
	b3, write := c.Tick(0, 650, 700)
	assert.True(t, write)
	assert.Equal(t, uint8(12), b3)
}
