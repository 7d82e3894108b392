package monitor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamacker/FairyFun/pkg/fairy"
)

func quietLine(millis uint32) fairy.Telemetry {
	return fairy.Telemetry{
		Millis:    millis,
		Reading:   725,
		Baseline:  725,
		Threshold: 788,
	}
}

func touchLine(millis uint32, reading int) fairy.Telemetry {
	return fairy.Telemetry{
		Millis:    millis,
		Reading:   reading,
		Baseline:  725,
		Threshold: 788,
		Touched:   true,
	}
}

func feed(m *Monitor, lines ...fairy.Telemetry) {
	ch := make(chan fairy.Telemetry, len(lines))
	for _, l := range lines {
		ch <- l
	}
	close(ch)
	m.Process(ch)
}

func TestMonitor_BuffersInOrder(t *testing.T) {
	m := New(time.Minute)
	feed(m, quietLine(100), quietLine(200), quietLine(300))

	points := m.Points()
	require.Len(t, points, 3)
	assert.Equal(t, uint32(100), points[0].Millis)
	assert.Equal(t, uint32(300), points[2].Millis)
}

func TestMonitor_EvictsByTimestamp(t *testing.T) {
	m := New(time.Second)
	feed(m,
		quietLine(0),
		quietLine(500),
		quietLine(1000),
		quietLine(2500),
	)

	// The window is 1000ms behind the newest line, so only 1500..2500 stays.
	points := m.Points()
	require.Len(t, points, 1)
	assert.Equal(t, uint32(2500), points[0].Millis)
}

func TestMonitor_WindowSurvivesCounterWrap(t *testing.T) {
	m := New(time.Second)
	// The device counter wraps: a point right before the wrap must still be
	// considered recent by the point right after it.
	feed(m,
		quietLine(0xFFFFFF00),
		quietLine(100),
	)

	points := m.Points()
	require.Len(t, points, 2)
	assert.Equal(t, uint32(0xFFFFFF00), points[0].Millis)
}

func TestMonitor_MergesConsecutiveTouchLines(t *testing.T) {
	m := New(time.Minute)
	// A held touch stamps a line every 10ms tick. All of them fold into one
	// event spanning the hold.
	feed(m,
		touchLine(10000, 800),
		touchLine(10010, 805),
		touchLine(10020, 812),
		touchLine(10030, 801),
	)

	touches := m.Touches()
	require.Len(t, touches, 1)
	assert.Equal(t, uint32(10000), touches[0].StartMillis)
	assert.Equal(t, uint32(10030), touches[0].EndMillis)
	assert.Equal(t, 812, touches[0].PeakReading)
}

func TestMonitor_SeparatesDistantTouches(t *testing.T) {
	m := New(time.Minute)
	feed(m,
		touchLine(10000, 800),
		quietLine(10500),
		touchLine(12000, 830),
	)

	touches := m.Touches()
	require.Len(t, touches, 2)
	assert.Equal(t, uint32(10000), touches[0].StartMillis)
	assert.Equal(t, uint32(12000), touches[1].StartMillis)
	assert.Equal(t, 830, touches[1].PeakReading)
}

func TestMonitor_TouchEventsAgeOut(t *testing.T) {
	m := New(time.Second)
	feed(m,
		touchLine(1000, 800),
		quietLine(5000),
	)

	assert.Empty(t, m.Touches())
}

func TestMonitor_OnUpdateReceivesCopies(t *testing.T) {
	m := New(time.Minute)

	var mu sync.Mutex
	var calls int
	var lastPoints []fairy.Telemetry
	m.OnUpdate(func(points []fairy.Telemetry, touches []TouchEvent) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		lastPoints = points
	})

	feed(m, quietLine(100), quietLine(200))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
	require.Len(t, lastPoints, 2)

	// Mutating the callback's slice must not touch the monitor's buffer.
	lastPoints[0].Reading = -1
	assert.Equal(t, 725, m.Points()[0].Reading)
}

func TestMonitor_NoCallbacksAfterShutdown(t *testing.T) {
	m := New(time.Minute)

	var mu sync.Mutex
	var calls int
	m.OnUpdate(func([]fairy.Telemetry, []TouchEvent) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	feed(m, quietLine(100))
	feed(m, quietLine(200)) // Channel already closed once: shutdown set.

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestMonitor_ResetShutdownReenablesCallbacks(t *testing.T) {
	m := New(time.Minute)

	var mu sync.Mutex
	var calls int
	m.OnUpdate(func([]fairy.Telemetry, []TouchEvent) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	feed(m, quietLine(100))
	m.ResetShutdown()
	feed(m, quietLine(200))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}

func TestMonitor_DefaultWindow(t *testing.T) {
	m := New(0)
	assert.Equal(t, uint32(60000), m.window)
}
