package monitor

import (
	"sync"
	"time"

	"github.com/mamacker/FairyFun/pkg/fairy"
)

var _ TelemetryMonitor = (*Monitor)(nil)

// DefaultWindow is how much telemetry history the monitor retains, measured
// against the device's millisecond counter.
const DefaultWindow = 60 * time.Second

// touchMergeGapMillis merges touch lines closer than this into one event.
// The loop stamps a line on every tick a touch is held, so a single brush of
// the sensor otherwise shows up as dozens of events.
const touchMergeGapMillis = 500

// TouchEvent represents one detected touch: possibly many consecutive touch
// lines collapsed into a start/end span.
type TouchEvent struct {
	StartMillis uint32 // Device timestamp of the first touch line
	EndMillis   uint32 // Device timestamp of the last line (updated as the touch continues)
	PeakReading int    // Highest raw reading seen during the touch
}

// TelemetryMonitor buffers device telemetry and extracts touch events.
type TelemetryMonitor interface {
	Process(input <-chan fairy.Telemetry)
	Points() []fairy.Telemetry // Current buffer, oldest first
	Touches() []TouchEvent     // Touch events within the window
	OnUpdate(func(points []fairy.Telemetry, touches []TouchEvent))
}

// Monitor implements TelemetryMonitor. The buffer is a FIFO ordered oldest
// first; points are evicted by device timestamp, not by count, so the scope
// always shows the same span of time regardless of the telemetry rate.
type Monitor struct {
	window uint32 // Retention window in device milliseconds

	points  []fairy.Telemetry
	touches []TouchEvent

	mu sync.RWMutex

	callbacks []func(points []fairy.Telemetry, touches []TouchEvent)
	cbMu      sync.RWMutex

	shutdown bool
}

// New creates a monitor retaining the given span of telemetry. A zero window
// selects DefaultWindow.
func New(window time.Duration) *Monitor {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Monitor{
		window: uint32(window.Milliseconds()),
	}
}

// Process consumes telemetry from the input channel until it closes. When the
// channel closes the monitor stops invoking callbacks; the buffered data
// stays readable.
func (m *Monitor) Process(input <-chan fairy.Telemetry) {
	for t := range input {
		m.add(t)
	}
	m.mu.Lock()
	m.shutdown = true
	m.mu.Unlock()
}

func (m *Monitor) add(t fairy.Telemetry) {
	m.mu.Lock()

	m.points = append(m.points, t)

	// Evict points older than the window. Unsigned subtraction keeps this
	// correct across the device's counter wrapping.
	cutoff := 0
	for i, p := range m.points {
		if t.Millis-p.Millis <= m.window {
			cutoff = i
			break
		}
	}
	if cutoff > 0 {
		m.points = m.points[cutoff:]
	}

	if t.Touched {
		m.recordTouch(t)
	}

	// Drop touch events that have aged out of the window entirely.
	valid := m.touches[:0]
	for _, ev := range m.touches {
		if t.Millis-ev.EndMillis <= m.window {
			valid = append(valid, ev)
		}
	}
	m.touches = valid

	shouldNotify := !m.shutdown
	m.mu.Unlock()

	if shouldNotify {
		m.notifyCallbacks()
	}
}

// recordTouch extends the most recent event when the new line is close enough
// to it, otherwise starts a new one. Called with mu held.
func (m *Monitor) recordTouch(t fairy.Telemetry) {
	if n := len(m.touches); n > 0 {
		last := &m.touches[n-1]
		if t.Millis-last.EndMillis <= touchMergeGapMillis {
			last.EndMillis = t.Millis
			if t.Reading > last.PeakReading {
				last.PeakReading = t.Reading
			}
			return
		}
	}

	m.touches = append(m.touches, TouchEvent{
		StartMillis: t.Millis,
		EndMillis:   t.Millis,
		PeakReading: t.Reading,
	})
}

// Points returns a copy of the current telemetry buffer.
func (m *Monitor) Points() []fairy.Telemetry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]fairy.Telemetry, len(m.points))
	copy(result, m.points)
	return result
}

// Touches returns a copy of the touch events within the window.
func (m *Monitor) Touches() []TouchEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]TouchEvent, len(m.touches))
	copy(result, m.touches)
	return result
}

// OnUpdate registers a callback invoked after each processed line. The
// callback receives copies and should return quickly.
func (m *Monitor) OnUpdate(callback func(points []fairy.Telemetry, touches []TouchEvent)) {
	m.cbMu.Lock()
	defer m.cbMu.Unlock()
	m.callbacks = append(m.callbacks, callback)
}

// ResetShutdown re-enables callbacks before a new telemetry stream is
// attached.
func (m *Monitor) ResetShutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shutdown = false
}

// notifyCallbacks invokes all registered callbacks with copies of the
// current data, without holding any locks during the calls.
func (m *Monitor) notifyCallbacks() {
	m.mu.RLock()
	pointsCopy := make([]fairy.Telemetry, len(m.points))
	copy(pointsCopy, m.points)
	touchesCopy := make([]TouchEvent, len(m.touches))
	copy(touchesCopy, m.touches)
	m.mu.RUnlock()

	m.cbMu.RLock()
	callbacks := make([]func(points []fairy.Telemetry, touches []TouchEvent), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.cbMu.RUnlock()

	for _, cb := range callbacks {
		if cb != nil {
			cb(pointsCopy, touchesCopy)
		}
	}
}
