package touch

// DefaultAveragerWindow is the number of measurements smoothed for the
// proximity glow. Much shorter than the baseline window so the glow tracks
// the finger instead of the weather.
const DefaultAveragerWindow = 50

// ProximityAverager smooths recent measurements into a running average used
// for proportional brightness. The caller feeds it live readings while the
// finger is near and synthetic zeros while it is not, which drags the average
// toward zero and produces a fade-out instead of an instant cutoff.
type ProximityAverager struct {
	measurements []int
	window       int
	count        uint32
}

// NewProximityAverager creates an averager over the given window. Slots start
// at zero.
func NewProximityAverager(window int) *ProximityAverager {
	if window <= 0 {
		window = DefaultAveragerWindow
	}
	return &ProximityAverager{
		measurements: make([]int, window),
		window:       window,
	}
}

// Add stores the measurement and returns the truncating integer mean of the
// buffer. Same pre-incremented modulo indexing as the baseline buffer.
func (a *ProximityAverager) Add(measurement int) int {
	a.count++
	a.measurements[a.count%uint32(a.window)] = measurement

	var sum int64
	for _, m := range a.measurements {
		sum += int64(m)
	}
	return int(sum / int64(a.window))
}

// Window returns the configured buffer size.
func (a *ProximityAverager) Window() int {
	return a.window
}
