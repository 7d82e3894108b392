package light

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPulser_FirstStep(t *testing.T) {
	p := NewPulser(150, 10)

	// 10 + 245*1/150 = 11
	assert.Equal(t, uint8(11), p.Next())
}

func TestPulser_TriangleWave(t *testing.T) {
	p := NewPulser(150, 10)

	var wave []uint8
	for i := 0; i < 300; i++ {
		wave = append(wave, p.Next())
	}

	// Rising half: strictly increasing up to full brightness at call 150.
	for i := 1; i < 150; i++ {
		assert.Greater(t, wave[i], wave[i-1], "call %d", i+1)
	}
	assert.Equal(t, uint8(255), wave[149])

	// Falling half: strictly decreasing back to the floor at call 300.
	for i := 151; i < 300; i++ {
		assert.Less(t, wave[i], wave[i-1], "call %d", i+1)
	}
	assert.Equal(t, uint8(10), wave[299])

	// Direction has reversed; the next call climbs off the floor again.
	assert.Equal(t, uint8(11), p.Next())
}

func TestPulser_PeriodicExactRepeat(t *testing.T) {
	p := NewPulser(150, 10)

	first := make([]uint8, 300)
	second := make([]uint8, 300)
	for i := range first {
		first[i] = p.Next()
	}
	for i := range second {
		second[i] = p.Next()
	}

	assert.Equal(t, first, second)
}

func TestPulser_Bounds(t *testing.T) {
	p := NewPulser(150, 10)

	for i := 0; i < 1000; i++ {
		b := p.Next()
		assert.GreaterOrEqual(t, b, uint8(10))
		assert.LessOrEqual(t, b, uint8(255))
	}
}

func TestClampByte(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want uint8
	}{
		{"negative", -40, 0},
		{"zero", 0, 0},
		{"in range", 127, 127},
		{"max", 255, 255},
		{"overflow", 300, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, clampByte(tt.in))
		})
	}
}
