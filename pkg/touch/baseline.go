package touch

const (
	// DefaultBaselineWindow is the number of readings averaged into the baseline.
	DefaultBaselineWindow = 5000
	// DefaultBaselineSeed is the assumed untouched reading the buffer starts from.
	// Tuned on real hardware; readings drift around this value with humidity,
	// temperature and nearby metal.
	DefaultBaselineSeed = 725
)

// BaselineEstimator maintains a rolling average of recent raw readings as the
// adaptive "no-touch" reference value. It is updated on every tick, touch or
// not, so a sustained touch slowly drags the baseline upward. That is a known
// limitation of the sensing scheme, not something Update compensates for.
type BaselineEstimator struct {
	readings []int
	window   int
	count    uint32
}

// NewBaselineEstimator creates an estimator over the given window, with every
// slot seeded to seed so the first ticks report a plausible baseline instead
// of converging up from zero.
func NewBaselineEstimator(window, seed int) *BaselineEstimator {
	if window <= 0 {
		window = DefaultBaselineWindow
	}

	readings := make([]int, window)
	for i := range readings {
		readings[i] = seed
	}

	return &BaselineEstimator{
		readings: readings,
		window:   window,
	}
}

// Update stores the reading in the circular buffer and returns the truncating
// integer mean of the whole buffer.
//
// The slot index is the pre-incremented call count modulo the window, so slot
// 0 is only ever overwritten after a full wrap. The skew this causes in
// convergence is bounded and tiny, and matching the deployed behavior exactly
// matters more than fixing it.
func (b *BaselineEstimator) Update(reading int) int {
	b.count++
	b.readings[b.count%uint32(b.window)] = reading

	var sum int64
	for _, r := range b.readings {
		sum += int64(r)
	}
	return int(sum / int64(b.window))
}

// Window returns the configured buffer size.
func (b *BaselineEstimator) Window() int {
	return b.window
}
