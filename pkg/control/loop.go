package control

import (
	"context"
	"time"

	"github.com/mamacker/FairyFun/pkg/light"
	"github.com/mamacker/FairyFun/pkg/touch"
)

const (
	// DefaultTickInterval paces the loop. It sets both the sampling rate and
	// the animation speed, since the pulse advances one step per tick.
	DefaultTickInterval = 10 * time.Millisecond
	// DefaultSettleMillis is the startup window during which only the
	// baseline accumulates and the light logic is skipped.
	DefaultSettleMillis = 5000
	// DefaultDebugEvery is how many ticks pass between diagnostic snapshots
	// while debugging is on.
	DefaultDebugEvery = 51
)

// Config carries the tuning constants for one control loop. The zero value of
// any field selects the default tuned on real hardware.
type Config struct {
	BaselineWindow   int
	BaselineSeed     int
	Spread           int
	MinOverThreshold int
	AverageWindow    int

	StepsMax      int
	MinBrightness int
	LightOnMillis uint32

	TickInterval time.Duration
	SettleMillis uint32
	DebugEvery   uint32
	Debug        bool
}

// DefaultConfig returns the configuration the shipped devices run with.
func DefaultConfig() Config {
	return Config{
		BaselineWindow:   touch.DefaultBaselineWindow,
		BaselineSeed:     touch.DefaultBaselineSeed,
		Spread:           touch.DefaultSpread,
		MinOverThreshold: light.DefaultMinOverThreshold,
		AverageWindow:    touch.DefaultAveragerWindow,
		StepsMax:         light.DefaultStepsMax,
		MinBrightness:    light.DefaultMinBrightness,
		LightOnMillis:    light.DefaultLightOnMillis,
		TickInterval:     DefaultTickInterval,
		SettleMillis:     DefaultSettleMillis,
		DebugEvery:       DefaultDebugEvery,
	}
}

// Loop orchestrates one sampling tick: pull a raw reading, feed the baseline
// estimator and the touch classifier, pick pulse-vs-glow from elapsed time
// since the last touch, and push the brightness byte to the output. It is a
// single cooperative actor; nothing here needs locking.
type Loop struct {
	sensor Sensor
	output Output
	clock  Clock
	diag   Diagnostics

	cfg        Config
	baseline   *touch.BaselineEstimator
	classifier *touch.TouchClassifier
	controller *light.Controller

	touchAt    uint32
	ticks      uint32
	brightness uint8
	debug      bool
}

// New wires a control loop. diag may be nil when no diagnostic channel
// exists; the debug flag then stays off.
func New(sensor Sensor, output Output, clock Clock, diag Diagnostics, cfg Config) *Loop {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.SettleMillis == 0 {
		cfg.SettleMillis = DefaultSettleMillis
	}
	if cfg.DebugEvery == 0 {
		cfg.DebugEvery = DefaultDebugEvery
	}
	if cfg.BaselineSeed == 0 {
		cfg.BaselineSeed = touch.DefaultBaselineSeed
	}
	if cfg.LightOnMillis == 0 {
		cfg.LightOnMillis = light.DefaultLightOnMillis
	}

	avg := touch.NewProximityAverager(cfg.AverageWindow)
	l := &Loop{
		sensor:     sensor,
		output:     output,
		clock:      clock,
		diag:       diag,
		cfg:        cfg,
		baseline:   touch.NewBaselineEstimator(cfg.BaselineWindow, cfg.BaselineSeed),
		classifier: touch.NewTouchClassifier(cfg.Spread),
		controller: light.NewController(
			light.NewPulser(cfg.StepsMax, cfg.MinBrightness),
			light.NewGlow(avg, cfg.MinOverThreshold),
			cfg.LightOnMillis,
		),
		debug: cfg.Debug && diag != nil,
	}

	// Start with the last touch a full light-on period in the past (the
	// subtraction wraps on purpose) so the device boots into glow mode
	// instead of pulsing.
	l.touchAt = clock.Millis() - cfg.LightOnMillis

	return l
}

// SetDebug toggles diagnostic output at runtime. With the flag off, Tick
// never calls Diagnostics at all.
func (l *Loop) SetDebug(on bool) {
	l.debug = on && l.diag != nil
}

// Debug reports whether diagnostic output is enabled.
func (l *Loop) Debug() bool {
	return l.debug
}

// Tick executes one iteration of the control loop without the inter-tick
// delay. Exposed separately from Run so hosts can drive the loop with a fake
// clock.
func (l *Loop) Tick() {
	l.ticks++

	reading := l.sensor.Read()
	baseline := l.baseline.Update(reading)
	threshold := l.classifier.Threshold(baseline)
	now := l.clock.Millis()

	touched := l.classifier.IsTouch(reading, baseline)
	if touched {
		l.touchAt = now
		if l.debug {
			l.diag.Emit(Status{
				Millis:     now,
				Reading:    reading,
				Baseline:   baseline,
				Threshold:  threshold,
				Brightness: l.brightness,
				Touched:    true,
			})
		}
	}

	// Startup settling window: keep accumulating the baseline but leave the
	// light alone until the readings have had a few seconds to stabilize.
	if now < l.cfg.SettleMillis {
		return
	}

	b, write := l.controller.Tick(now-l.touchAt, reading, baseline)
	if write {
		l.output.SetBrightness(b)
		l.brightness = b
	}

	if l.debug && l.ticks%l.cfg.DebugEvery == 0 {
		l.diag.Emit(Status{
			Millis:     now,
			Reading:    reading,
			Baseline:   baseline,
			Threshold:  threshold,
			Brightness: l.brightness,
			Touched:    touched,
		})
	}
}

// Run ticks forever at the configured cadence until ctx is cancelled. On the
// device ctx never fires; the loop ends at power-off.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		l.Tick()
		l.clock.Sleep(l.cfg.TickInterval)
	}
}

// Brightness returns the last brightness byte written to the output.
func (l *Loop) Brightness() uint8 {
	return l.brightness
}

// TouchedAt returns the millisecond timestamp of the most recent touch.
func (l *Loop) TouchedAt() uint32 {
	return l.touchAt
}

// Mode returns the light behavior the next tick would select.
func (l *Loop) Mode() light.Mode {
	return l.controller.Mode(l.clock.Millis() - l.touchAt)
}
