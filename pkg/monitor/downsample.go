package monitor

import "github.com/mamacker/FairyFun/pkg/fairy"

// Downsample decimates telemetry to at most maxPoints for display.
// Destination-based: reuses dst when it has sufficient capacity, otherwise
// allocates. Returns the destination slice either way.
func Downsample(dst []fairy.Telemetry, points []fairy.Telemetry, maxPoints int) []fairy.Telemetry {
	if len(points) <= maxPoints {
		if cap(dst) >= len(points) {
			dst = dst[:len(points)]
			copy(dst, points)
			return dst
		}
		result := make([]fairy.Telemetry, len(points))
		copy(result, points)
		return result
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0]
	} else {
		dst = make([]fairy.Telemetry, 0, maxPoints)
	}

	step := float64(len(points)) / float64(maxPoints)

	for i := range maxPoints {
		idx := int(float64(i) * step)
		if idx < len(points) {
			dst = append(dst, points[idx])
		}
	}

	return dst
}
