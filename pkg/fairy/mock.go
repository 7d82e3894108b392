package fairy

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/mamacker/FairyFun/pkg/control"
)

// MockOptions tunes the simulated device.
type MockOptions struct {
	Noise         int           // Peak reading jitter in sensor units
	TouchReading  int           // Reading produced while the simulated finger is down
	TouchDuration time.Duration // How long the finger stays down
	TouchPeriod   time.Duration // Time between simulated touches
	SampleRate    time.Duration // Tick and telemetry rate
	BufSize       int           // Telemetry channel buffer
}

// DefaultMockOptions returns a simulation that brushes the sensor every 45
// seconds, long enough to watch a full pulse-then-glow cycle.
func DefaultMockOptions() MockOptions {
	return MockOptions{
		Noise:         4,
		TouchReading:  820,
		TouchDuration: 2 * time.Second,
		TouchPeriod:   45 * time.Second,
		SampleRate:    100 * time.Millisecond,
		BufSize:       DefaultBufferSize,
	}
}

// Mock simulates a fairy light device for testing without hardware. It runs
// the real control loop against a synthetic sensor, so the telemetry it emits
// has the same baseline, threshold, and brightness dynamics as a physical
// unit.
type Mock struct {
	opts MockOptions
	cfg  control.Config

	loop      *control.Loop
	telemetry chan Telemetry
	mu        sync.RWMutex
	cancel    context.CancelFunc
	done      chan struct{}
	connected bool
}

// NewMock creates a mock device. cfg carries the same loop tuning a real
// device would run; zero-value fields select the hardware defaults.
func NewMock(cfg control.Config, opts MockOptions) *Mock {
	def := DefaultMockOptions()
	if opts.TouchReading == 0 {
		opts.TouchReading = def.TouchReading
	}
	if opts.TouchDuration == 0 {
		opts.TouchDuration = def.TouchDuration
	}
	if opts.TouchPeriod == 0 {
		opts.TouchPeriod = def.TouchPeriod
	}
	if opts.SampleRate == 0 {
		opts.SampleRate = def.SampleRate
	}
	if opts.BufSize == 0 {
		opts.BufSize = def.BufSize
	}

	return &Mock{
		opts:      opts,
		cfg:       cfg,
		telemetry: make(chan Telemetry, opts.BufSize),
	}
}

// Connect starts the simulated control loop.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected {
		return fmt.Errorf("already connected")
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})

	cfg := m.cfg
	// Diagnostics always on and the settle window collapsed, so telemetry
	// starts flowing the moment the caller connects.
	cfg.Debug = true
	cfg.SettleMillis = 1
	cfg.TickInterval = m.opts.SampleRate
	// Emit on every tick; the sample rate already paces the stream.
	cfg.DebugEvery = 1

	clock := &simClock{start: time.Now()}
	sensor := &simSensor{
		opts:  m.opts,
		seed:  cfg.BaselineSeed,
		clock: clock,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if sensor.seed == 0 {
		sensor.seed = control.DefaultConfig().BaselineSeed
	}

	m.loop = control.New(sensor, nopOutput{}, clock, &diagSink{ch: m.telemetry}, cfg)
	m.connected = true

	go func() {
		defer close(m.done)
		m.loop.Run(ctx)
	}()

	return nil
}

// Close stops the simulation.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return nil
	}

	m.cancel()
	<-m.done

	m.connected = false
	close(m.telemetry)

	return nil
}

// Telemetry returns the channel for reading simulated telemetry.
func (m *Mock) Telemetry() <-chan Telemetry {
	return m.telemetry
}

// SetDebug toggles the simulated loop's diagnostic output.
func (m *Mock) SetDebug(on bool) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.connected {
		return fmt.Errorf("not connected")
	}

	m.loop.SetDebug(on)
	return nil
}

// IsConnected returns whether the mock is running.
func (m *Mock) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// simClock reports wall-clock milliseconds since the mock connected, like the
// MCU's uptime counter.
type simClock struct {
	start time.Time
}

func (c *simClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

func (c *simClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// simSensor produces readings around the seed value with slow sinusoidal
// drift plus jitter, and jumps to the touch reading for a short stretch of
// every period.
type simSensor struct {
	opts  MockOptions
	seed  int
	clock *simClock
	rng   *rand.Rand
}

func (s *simSensor) Read() int {
	elapsed := time.Since(s.clock.start)

	if elapsed%s.opts.TouchPeriod < s.opts.TouchDuration {
		return s.opts.TouchReading + s.jitter()
	}

	drift := 2.0 * math.Sin(elapsed.Seconds()/20.0)
	return s.seed + int(drift) + s.jitter()
}

func (s *simSensor) jitter() int {
	if s.opts.Noise <= 0 {
		return 0
	}
	return s.rng.Intn(2*s.opts.Noise+1) - s.opts.Noise
}

// nopOutput discards brightness writes; the mock has no LED, and the
// telemetry stream already carries the brightness byte.
type nopOutput struct{}

func (nopOutput) SetBrightness(uint8) {}

// diagSink forwards loop snapshots onto the telemetry channel, dropping when
// the consumer falls behind.
type diagSink struct {
	ch chan Telemetry
}

func (d *diagSink) Emit(s control.Status) {
	t := Telemetry{
		Millis:     s.Millis,
		Reading:    s.Reading,
		Baseline:   s.Baseline,
		Threshold:  s.Threshold,
		Brightness: s.Brightness,
		Touched:    s.Touched,
	}
	select {
	case d.ch <- t:
	default:
	}
}
