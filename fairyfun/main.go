package main

import (
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/mamacker/FairyFun/pkg/config"
	"github.com/mamacker/FairyFun/pkg/fairy"
	"github.com/mamacker/FairyFun/pkg/monitor"
	"github.com/mamacker/FairyFun/pkg/scope"
)

func main() {
	var (
		portFlag   = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		configFlag = flag.String("config", "config.yaml", "Configuration file path")
		mockFlag   = flag.Bool("mock", false, "Use a simulated device instead of a serial port")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override serial port if provided via command line
	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}

	// Create Fyne application
	application := app.NewWithID("com.mamacker.fairyfun")

	// Create main window
	window := application.NewWindow("Fairy Fun")
	window.Resize(fyne.NewSize(1200, 800))
	window.CenterOnScreen()

	// Create telemetry monitor
	mon := monitor.New(monitor.DefaultWindow)

	// Create application state
	appState := &appState{
		cfg:     cfg,
		device:  nil,
		monitor: mon,
		window:  window,
		useMock: *mockFlag,
	}

	// Create toolbar
	toolbar := createToolbar(appState)

	// Create scope widget for the telemetry traces
	scopeWidget := scope.New(monitor.DefaultWindow)
	appState.scopeWidget = scopeWidget

	// Create border layout with toolbar at top and scope widget as content
	container := container.NewBorder(
		toolbar,
		nil,
		nil,
		nil,
		scopeWidget,
	)

	window.SetContent(container)
	window.ShowAndRun()
}

// telemetryChain tracks the components of the telemetry chain for graceful
// shutdown.
type telemetryChain struct {
	device           fairy.Device
	monitorGoroutine chan struct{} // Closed when the monitor goroutine exits
}

// appState holds the application state.
type appState struct {
	cfg         *config.Config
	device      fairy.Device
	monitor     *monitor.Monitor
	scopeWidget *scope.Widget
	window      fyne.Window
	connectBtn  *widget.Button
	debugBtn    *widget.Button
	useMock     bool
	debugOn     bool
	chain       *telemetryChain // Current telemetry chain (nil if not connected)

	// Throttling for scope updates
	lastUpdateTime time.Time
	updateMu       sync.Mutex
}

// createToolbar creates the application toolbar with Connect, Settings, and
// Telemetry buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	// Connect button with icon
	connectBtn := widget.NewButtonWithIcon("", theme.LoginIcon(), func() {
		handleConnect(state)
	})
	state.connectBtn = connectBtn

	// Settings button with icon
	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	// Telemetry toggle: the device goes silent with the flag off, which is
	// how it normally runs (the onboard TX LED would flicker otherwise).
	debugBtn := widget.NewButtonWithIcon("Telemetry", theme.VisibilityIcon(), func() {
		handleDebugToggle(state)
	})
	debugBtn.Disable()
	state.debugBtn = debugBtn

	return container.NewBorder(
		nil, // top
		nil, // bottom
		container.NewHBox(connectBtn, settingsBtn), // left
		container.NewHBox(debugBtn),                // right
		nil, // center (spacer)
	)
}

// closeTelemetryChain gracefully closes the telemetry chain, waiting for the
// monitor goroutine to drain the channel and exit.
func closeTelemetryChain(chain *telemetryChain) {
	if chain == nil {
		return
	}

	// Closing the device closes the telemetry channel, which ends the
	// monitor goroutine.
	if chain.device != nil {
		chain.device.Close()
	}

	if chain.monitorGoroutine != nil {
		<-chain.monitorGoroutine
	}
}

// handleConnect handles the connect/disconnect button click.
func handleConnect(state *appState) {
	if state.device != nil && state.device.IsConnected() {
		// Disconnect - gracefully close telemetry chain
		closeTelemetryChain(state.chain)
		state.chain = nil
		state.device = nil
		state.debugOn = false
		state.debugBtn.Disable()
		updateDebugButtonState(state)
		if state.useMock {
			fmt.Println("Disconnected from simulated device")
		} else {
			fmt.Println("Disconnected from serial port")
		}
		return
	}

	// Connect
	var device fairy.Device
	if state.useMock {
		device = fairy.NewMock(state.cfg.Control(), mockOptions(state.cfg))
		fmt.Println("Using simulated device")
	} else {
		device = fairy.New(state.cfg.Serial.Port, fairy.DefaultBaudRate, fairy.DefaultBufferSize)
	}

	if err := device.Connect(); err != nil {
		if state.useMock {
			dialog.ShowError(fmt.Errorf("failed to start simulated device: %w", err), state.window)
		} else {
			dialog.ShowError(fmt.Errorf("failed to connect to %s: %w", state.cfg.Serial.Port, err), state.window)
		}
		return
	}
	state.device = device
	if state.useMock {
		fmt.Println("Connected to simulated device")
	} else {
		fmt.Printf("Connected to serial port: %s\n", state.cfg.Serial.Port)
	}

	// Telemetry on so there is something to watch; the button can turn it
	// back off.
	if err := device.SetDebug(true); err != nil {
		log.Printf("Failed to enable telemetry: %v", err)
	} else {
		state.debugOn = true
	}
	state.debugBtn.Enable()
	updateDebugButtonState(state)

	// Reset monitor shutdown flag for the new chain
	state.monitor.ResetShutdown()

	// Register callback to update the scope widget, throttled to ~60 FPS so
	// a chatty device cannot overwhelm the UI.
	const updateInterval = 16 * time.Millisecond
	state.monitor.OnUpdate(func(points []fairy.Telemetry, touches []monitor.TouchEvent) {
		state.updateMu.Lock()
		now := time.Now()
		timeSinceLastUpdate := now.Sub(state.lastUpdateTime)
		state.updateMu.Unlock()

		if timeSinceLastUpdate < updateInterval {
			return
		}

		state.updateMu.Lock()
		state.lastUpdateTime = now
		state.updateMu.Unlock()

		// Update scope widget on main thread. The widget downsamples
		// internally, so pass full data.
		fyne.Do(func() {
			state.scopeWidget.UpdateData(points, touches)
		})
	})

	// Process telemetry through the monitor until the device closes.
	monitorDone := make(chan struct{})
	go func() {
		defer close(monitorDone)
		state.monitor.Process(device.Telemetry())
	}()

	state.chain = &telemetryChain{
		device:           device,
		monitorGoroutine: monitorDone,
	}
}

// mockOptions maps the mock section of the configuration onto the simulated
// device's options.
func mockOptions(cfg *config.Config) fairy.MockOptions {
	return fairy.MockOptions{
		Noise:         cfg.Mock.Noise,
		TouchReading:  cfg.Mock.TouchReading,
		TouchDuration: cfg.Mock.TouchDuration,
		TouchPeriod:   cfg.Mock.TouchPeriod,
		SampleRate:    cfg.Mock.SampleRate,
	}
}
