package scope

import (
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/chewxy/math32"

	"github.com/mamacker/FairyFun/pkg/fairy"
	"github.com/mamacker/FairyFun/pkg/monitor"
)

// Widget is a custom Fyne widget that draws oscilloscope-style telemetry
// traces: the raw proximity reading, the adaptive baseline and threshold in
// sensor units, the LED brightness on its own 0-255 scale, and vertical
// markers for detected touches.
type Widget struct {
	widget.BaseWidget

	// Data (protected by mu)
	mu      sync.RWMutex
	points  []fairy.Telemetry
	touches []monitor.TouchEvent

	// Display buffer (reused for downsampling)
	displayPoints []fairy.Telemetry

	// Auto-scaling. The Y range covers the sensor-unit traces; brightness
	// is always drawn against a fixed 0-255 scale. The X axis is the
	// device's millisecond counter.
	yMin, yMax float32
	xMin, xMax uint32

	window           uint32 // Minimum X span in device milliseconds
	maxDisplayPoints int
}

// New creates a scope widget that spreads at least the given time span across
// its width.
func New(window time.Duration) *Widget {
	if window <= 0 {
		window = monitor.DefaultWindow
	}
	s := &Widget{
		displayPoints:    make([]fairy.Telemetry, 0, 1000),
		window:           uint32(window.Milliseconds()),
		maxDisplayPoints: 1000, // Limit points for efficient rendering
	}
	s.ExtendBaseWidget(s)
	// Trigger initial refresh to display empty scope
	s.Refresh()
	return s
}

// UpdateData updates the widget with new telemetry. Call from the monitor
// callback using fyne.Do().
func (s *Widget) UpdateData(points []fairy.Telemetry, touches []monitor.TouchEvent) {
	s.mu.Lock()

	// Downsample for display (reuse buffer)
	s.displayPoints = monitor.Downsample(s.displayPoints, points, s.maxDisplayPoints)

	s.points = points
	s.touches = touches

	s.updateAutoScale()

	s.mu.Unlock()

	// Refresh the widget (must be outside lock to avoid potential deadlock)
	s.Refresh()
}

// updateAutoScale calculates the Y range from the sensor-unit traces.
func (s *Widget) updateAutoScale() {
	if len(s.displayPoints) == 0 {
		s.yMin = 0
		s.yMax = 1024
		s.xMin = 0
		s.xMax = s.window
		return
	}

	first := s.displayPoints[0]
	s.yMin = float32(first.Reading)
	s.yMax = float32(first.Reading)
	for _, p := range s.displayPoints {
		s.yMin = math32.Min(s.yMin, float32(p.Reading))
		s.yMin = math32.Min(s.yMin, float32(p.Baseline))
		s.yMax = math32.Max(s.yMax, float32(p.Reading))
		s.yMax = math32.Max(s.yMax, float32(p.Threshold))
	}

	// Add a 10% margin, at least a few sensor units so a flat quiet trace
	// does not sit on the plot edge.
	margin := math32.Max((s.yMax-s.yMin)*0.1, 4)
	s.yMin -= margin
	s.yMax += margin

	s.xMin = s.displayPoints[0].Millis
	s.xMax = s.displayPoints[len(s.displayPoints)-1].Millis
	// Ensure minimum window (unsigned math, wrap-safe)
	if s.xMax-s.xMin < s.window {
		s.xMax = s.xMin + s.window
	}
}

// CreateRenderer creates the widget renderer.
func (s *Widget) CreateRenderer() fyne.WidgetRenderer {
	grid := canvas.NewRectangle(color.RGBA{R: 20, G: 20, B: 20, A: 255}) // Dark background
	return &scopeRenderer{
		scope:    s,
		grid:     grid,
		objects:  []fyne.CanvasObject{grid},
		lastSize: fyne.Size{Width: 0, Height: 0},
	}
}
