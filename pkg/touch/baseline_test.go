package touch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaselineEstimator_SteadyState(t *testing.T) {
	b := NewBaselineEstimator(100, 725)

	// Feeding the seed value must never move the baseline.
	for i := 0; i < 250; i++ {
		assert.Equal(t, 725, b.Update(725))
	}
}

func TestBaselineEstimator_ExactMeanAfterFullWrap(t *testing.T) {
	const window = 50
	b := NewBaselineEstimator(window, 700)

	// Feed exactly window distinct readings. The first call writes slot 1 and
	// the last call wraps around to slot 0, so after window calls every slot
	// holds one of our readings.
	var sum int64
	var got int
	for i := 0; i < window; i++ {
		reading := 600 + i*3
		sum += int64(reading)
		got = b.Update(reading)
	}

	assert.Equal(t, int(sum/window), got)
}

func TestBaselineEstimator_FirstSlotLagsUntilWrap(t *testing.T) {
	b := NewBaselineEstimator(5, 10)

	// Four calls write slots 1..4; slot 0 still holds the seed.
	var got int
	for i := 0; i < 4; i++ {
		got = b.Update(20)
	}
	assert.Equal(t, (10+4*20)/5, got)

	// The fifth call wraps to slot 0 and evicts the seed.
	assert.Equal(t, 20, b.Update(20))
}

func TestBaselineEstimator_TruncatingMean(t *testing.T) {
	b := NewBaselineEstimator(4, 0)

	b.Update(1)
	b.Update(1)
	// Buffer is {0, 1, 1, 1}: 3/4 truncates to 0.
	assert.Equal(t, 0, b.Update(1))
}

func TestBaselineEstimator_SustainedTouchDragsBaselineUp(t *testing.T) {
	b := NewBaselineEstimator(100, 700)

	base := 700
	for i := 0; i < 100; i++ {
		base = b.Update(900)
	}

	// The estimator keeps ingesting readings during a touch, so a held finger
	// pulls the baseline toward the touched value.
	assert.Greater(t, base, 700)
	assert.Equal(t, 900, base)
}

func TestBaselineEstimator_DefaultWindow(t *testing.T) {
	b := NewBaselineEstimator(0, 725)
	assert.Equal(t, DefaultBaselineWindow, b.Window())
	assert.Equal(t, 725, b.Update(725))
}
