package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamacker/FairyFun/pkg/fairy"
)

func makePoints(n int) []fairy.Telemetry {
	points := make([]fairy.Telemetry, n)
	for i := range points {
		points[i] = fairy.Telemetry{Millis: uint32(i * 10), Reading: 725 + i}
	}
	return points
}

func TestDownsample_FewerThanMax(t *testing.T) {
	points := makePoints(5)
	got := Downsample(nil, points, 10)
	assert.Equal(t, points, got)
}

func TestDownsample_Decimates(t *testing.T) {
	points := makePoints(100)
	got := Downsample(nil, points, 10)

	require.Len(t, got, 10)
	assert.Equal(t, points[0], got[0])
	// Step is 10, so the k-th kept point is the 10k-th original.
	assert.Equal(t, points[90], got[9])
}

func TestDownsample_ReusesDst(t *testing.T) {
	points := makePoints(100)
	dst := make([]fairy.Telemetry, 0, 20)

	got := Downsample(dst, points, 10)
	require.Len(t, got, 10)
	assert.Equal(t, 20, cap(got), "should reuse the provided backing array")
}

func TestDownsample_AllocatesWhenDstTooSmall(t *testing.T) {
	points := makePoints(100)
	dst := make([]fairy.Telemetry, 0, 2)

	got := Downsample(dst, points, 10)
	require.Len(t, got, 10)
}

func TestDownsample_Empty(t *testing.T) {
	got := Downsample(nil, nil, 10)
	assert.Empty(t, got)
}
