package touch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTouchClassifier_Threshold(t *testing.T) {
	c := NewTouchClassifier(63)
	assert.Equal(t, 788, c.Threshold(725))
}

func TestTouchClassifier_IsTouch(t *testing.T) {
	c := NewTouchClassifier(63)

	tests := []struct {
		name     string
		reading  int
		baseline int
		want     bool
	}{
		{"well below threshold", 725, 725, false},
		{"one below threshold", 787, 725, false},
		{"exactly at threshold", 788, 725, true},
		{"above threshold", 800, 725, true},
		{"negative reading", -10, 725, false},
		{"baseline shifted up", 850, 800, false},
		{"baseline shifted up, touched", 863, 800, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsTouch(tt.reading, tt.baseline))
		})
	}
}

func TestTouchClassifier_MonotonicInReading(t *testing.T) {
	c := NewTouchClassifier(63)

	// Once a reading qualifies, every higher reading must qualify too.
	baseline := 725
	for r := baseline; r < baseline+200; r++ {
		if c.IsTouch(r, baseline) {
			assert.True(t, c.IsTouch(r+1, baseline), "reading %d touched but %d did not", r, r+1)
		}
	}
}

func TestTouchClassifier_DefaultSpread(t *testing.T) {
	c := NewTouchClassifier(0)
	assert.Equal(t, 725+DefaultSpread, c.Threshold(725))
}
