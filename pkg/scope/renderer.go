package scope

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/chewxy/math32"

	"github.com/mamacker/FairyFun/pkg/fairy"
	"github.com/mamacker/FairyFun/pkg/monitor"
)

var (
	colorGrid      = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	colorLabel     = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	colorReading   = color.RGBA{R: 255, G: 165, B: 0, A: 255}   // Orange
	colorBaseline  = color.RGBA{R: 100, G: 200, B: 255, A: 255} // Light blue
	colorThreshold = color.RGBA{R: 200, G: 80, B: 80, A: 255}   // Red
	colorBright    = color.RGBA{R: 120, G: 220, B: 120, A: 255} // Green
	colorTouch     = color.RGBA{R: 0, G: 100, B: 200, A: 255}   // Dark blue
)

// scopeRenderer renders the scope widget.
type scopeRenderer struct {
	scope *Widget

	// Background
	grid *canvas.Rectangle

	// Grid lines and axis labels
	gridLines []*canvas.Line
	gridTexts []*canvas.Text

	// Touch markers and their labels
	touchLines  []*canvas.Line
	touchLabels []*canvas.Text

	// Objects list for Fyne
	objects []fyne.CanvasObject

	// Track last size to detect changes
	lastSize fyne.Size
}

// MinSize returns the minimum size of the widget.
func (r *scopeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(400, 300)
}

// Layout arranges the widget components.
func (r *scopeRenderer) Layout(size fyne.Size) {
	// Background fills entire widget
	r.grid.Resize(size)

	if r.lastSize.Width != size.Width || r.lastSize.Height != size.Height {
		r.lastSize = size
		// Size changed, redraw with the new dimensions through Fyne's
		// refresh cycle.
		r.scope.BaseWidget.Refresh()
	}
}

// Refresh updates the widget display.
func (r *scopeRenderer) Refresh() {
	r.scope.mu.RLock()
	points := r.scope.displayPoints
	touches := r.scope.touches
	yMin := r.scope.yMin
	yMax := r.scope.yMax
	xMin := r.scope.xMin
	xMax := r.scope.xMax
	r.scope.mu.RUnlock()

	size := r.scope.Size()
	if size.Width == 0 || size.Height == 0 {
		return
	}

	// Clear old objects (but keep grid)
	r.objects = []fyne.CanvasObject{r.grid}
	r.gridLines = r.gridLines[:0]
	r.gridTexts = r.gridTexts[:0]
	r.touchLines = r.touchLines[:0]
	r.touchLabels = r.touchLabels[:0]

	marginLeft := float32(60.0)
	marginRight := float32(20.0)
	marginTop := float32(20.0)
	marginBottom := float32(40.0)

	plot := plotArea{
		x:      marginLeft,
		y:      marginTop,
		width:  size.Width - marginLeft - marginRight,
		height: size.Height - marginTop - marginBottom,
		yMin:   yMin,
		yMax:   yMax,
		xMin:   xMin,
		xMax:   xMax,
	}

	r.drawGrid(plot)

	if len(points) > 1 {
		r.drawTrace(plot, points, colorThreshold, 1, func(p fairy.Telemetry) float32 {
			return float32(p.Threshold)
		})
		r.drawTrace(plot, points, colorBaseline, 2.5, func(p fairy.Telemetry) float32 {
			return float32(p.Baseline)
		})
		r.drawTrace(plot, points, colorReading, 1.5, func(p fairy.Telemetry) float32 {
			return float32(p.Reading)
		})
		r.drawBrightness(plot, points)
	}

	r.drawTouches(plot, touches)
}

// plotArea carries the plot rectangle and both axis ranges so the coordinate
// mapping lives in one place.
type plotArea struct {
	x, y          float32
	width, height float32
	yMin, yMax    float32
	xMin, xMax    uint32
}

// mapX converts a device timestamp to a screen X coordinate. The subtraction
// is unsigned so a counter wrap inside the window still maps correctly.
func (p plotArea) mapX(millis uint32) float32 {
	span := float32(p.xMax - p.xMin)
	if span == 0 {
		span = 1
	}
	return p.x + float32(millis-p.xMin)/span*p.width
}

// mapY converts a sensor-unit value to a screen Y coordinate.
func (p plotArea) mapY(v float32) float32 {
	span := p.yMax - p.yMin
	if span == 0 {
		span = 1
	}
	return p.y + p.height - (v-p.yMin)/span*p.height
}

// mapBrightnessY converts a brightness byte to a screen Y coordinate on the
// fixed 0-255 scale.
func (p plotArea) mapBrightnessY(b uint8) float32 {
	return p.y + p.height - float32(b)/255.0*p.height
}

// drawGrid draws the oscilloscope-style grid with axis labels.
func (r *scopeRenderer) drawGrid(plot plotArea) {
	// Horizontal grid lines (sensor units)
	numHLines := 8
	for i := range numHLines + 1 {
		y := plot.y + float32(i)*plot.height/float32(numHLines)
		line := canvas.NewLine(colorGrid)
		line.Position1 = fyne.NewPos(plot.x, y)
		line.Position2 = fyne.NewPos(plot.x+plot.width, y)
		line.StrokeWidth = 1
		r.gridLines = append(r.gridLines, line)
		r.objects = append(r.objects, line)

		// Y-axis label: raw sensor counts, rounded to whole units
		value := plot.yMax - float32(i)*(plot.yMax-plot.yMin)/float32(numHLines)
		text := canvas.NewText(strconv.Itoa(int(math32.Round(value))), colorLabel)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignTrailing
		text.Move(fyne.NewPos(plot.x-5, y-6))
		r.gridTexts = append(r.gridTexts, text)
		r.objects = append(r.objects, text)
	}

	// Vertical grid lines (time)
	numVLines := 10
	for i := range numVLines + 1 {
		x := plot.x + float32(i)*plot.width/float32(numVLines)
		line := canvas.NewLine(colorGrid)
		line.Position1 = fyne.NewPos(x, plot.y)
		line.Position2 = fyne.NewPos(x, plot.y+plot.height)
		line.StrokeWidth = 1
		r.gridLines = append(r.gridLines, line)
		r.objects = append(r.objects, line)

		// X-axis label: seconds since the left edge of the window
		offsetMillis := float32(i) * float32(plot.xMax-plot.xMin) / float32(numVLines)
		text := canvas.NewText(formatSeconds(offsetMillis/1000.0), colorLabel)
		text.TextSize = 10
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(x-20, plot.y+plot.height+5))
		r.gridTexts = append(r.gridTexts, text)
		r.objects = append(r.objects, text)
	}
}

// drawTrace draws one sensor-unit trace as connected line segments.
func (r *scopeRenderer) drawTrace(plot plotArea, points []fairy.Telemetry, col color.RGBA, stroke float32, value func(fairy.Telemetry) float32) {
	if len(points) < 2 {
		return
	}

	positions := make([]fyne.Position, 0, len(points))
	for _, p := range points {
		positions = append(positions, fyne.NewPos(plot.mapX(p.Millis), plot.mapY(value(p))))
	}

	for i := range len(positions) - 1 {
		line := canvas.NewLine(col)
		line.Position1 = positions[i]
		line.Position2 = positions[i+1]
		line.StrokeWidth = stroke
		r.objects = append(r.objects, line)
	}
}

// drawBrightness draws the LED brightness trace on the fixed 0-255 scale.
func (r *scopeRenderer) drawBrightness(plot plotArea, points []fairy.Telemetry) {
	if len(points) < 2 {
		return
	}

	positions := make([]fyne.Position, 0, len(points))
	for _, p := range points {
		positions = append(positions, fyne.NewPos(plot.mapX(p.Millis), plot.mapBrightnessY(p.Brightness)))
	}

	for i := range len(positions) - 1 {
		line := canvas.NewLine(colorBright)
		line.Position1 = positions[i]
		line.Position2 = positions[i+1]
		line.StrokeWidth = 1.5
		r.objects = append(r.objects, line)
	}
}

// drawTouches draws vertical start/end markers for each touch event with the
// peak reading labeled between them.
func (r *scopeRenderer) drawTouches(plot plotArea, touches []monitor.TouchEvent) {
	for _, ev := range touches {
		xStart := plot.mapX(ev.StartMillis)
		lineStart := canvas.NewLine(colorTouch)
		lineStart.Position1 = fyne.NewPos(xStart, plot.y)
		lineStart.Position2 = fyne.NewPos(xStart, plot.y+plot.height)
		lineStart.StrokeWidth = 1
		r.touchLines = append(r.touchLines, lineStart)
		r.objects = append(r.objects, lineStart)

		xEnd := plot.mapX(ev.EndMillis)
		lineEnd := canvas.NewLine(colorTouch)
		lineEnd.Position1 = fyne.NewPos(xEnd, plot.y)
		lineEnd.Position2 = fyne.NewPos(xEnd, plot.y+plot.height)
		lineEnd.StrokeWidth = 1
		r.touchLines = append(r.touchLines, lineEnd)
		r.objects = append(r.objects, lineEnd)

		// Label at the marker midpoint, just below the top of the plot
		xCenter := (xStart + xEnd) / 2
		y := plot.mapY(float32(ev.PeakReading))
		y = math32.Max(y-15, plot.y)
		text := canvas.NewText(strconv.Itoa(ev.PeakReading), colorReading)
		text.TextSize = 12
		text.Alignment = fyne.TextAlignCenter
		text.Move(fyne.NewPos(xCenter-15, y))
		r.touchLabels = append(r.touchLabels, text)
		r.objects = append(r.objects, text)
	}
}

// Objects returns all canvas objects for rendering.
func (r *scopeRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *scopeRenderer) Destroy() {
	// Cleanup handled by Fyne
}

// formatSeconds renders an axis label like "1.5s" without trailing noise.
func formatSeconds(s float32) string {
	if math32.Abs(s) < 0.05 {
		return "0s"
	}
	return strconv.FormatFloat(float64(s), 'f', 1, 32) + "s"
}
