package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/mamacker/FairyFun/pkg/fairy"
)

// showSettingsDialog displays a settings dialog with tabs for all
// configuration options.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createSensorTab(state),
		createLightTab(state),
		createLoopTab(state),
		createMockTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 500))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 500))
	d.Show()
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	// Get available serial ports
	ports, err := fairy.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name

	if err == nil {
		for _, port := range ports {
			displayName := port.Name
			if port.Description != "" && port.Description != port.Name {
				displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			portOptions = append(portOptions, displayName)
			portMap[displayName] = port.Name
		}
	}

	// Add current port if not in list
	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
		currentDisplay = currentPort
	}

	portSelect := widget.NewSelect(portOptions, func(selected string) {
		// Selection handler - will be called on submit
	})
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
		},
		OnSubmit: func() {
			if portSelect.Selected == "" {
				return
			}
			selectedPort := portMap[portSelect.Selected]
			if selectedPort == "" {
				selectedPort = portSelect.Selected // Fallback to selected text
			}

			// Check if port changed and device is connected
			portChanged := state.cfg.Serial.Port != selectedPort
			wasConnected := state.device != nil && state.device.IsConnected()

			state.cfg.Serial.Port = selectedPort
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
				return
			}

			// If port changed and device was connected, restart the chain
			if portChanged && wasConnected {
				closeTelemetryChain(state.chain)
				state.chain = nil
				state.device = nil

				// Reconnect with new port
				handleConnect(state)
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createSensorTab creates the capacitive sensing configuration tab. These
// values only affect the simulated device; a physical unit carries its own
// compiled-in tuning.
func createSensorTab(state *appState) *container.TabItem {
	baselineWindowEntry := widget.NewEntry()
	baselineWindowEntry.SetText(strconv.Itoa(state.cfg.Sensor.BaselineWindow))

	baselineSeedEntry := widget.NewEntry()
	baselineSeedEntry.SetText(strconv.Itoa(state.cfg.Sensor.BaselineSeed))

	spreadEntry := widget.NewEntry()
	spreadEntry.SetText(strconv.Itoa(state.cfg.Sensor.Spread))

	minOverEntry := widget.NewEntry()
	minOverEntry.SetText(strconv.Itoa(state.cfg.Sensor.MinOverThreshold))

	averageWindowEntry := widget.NewEntry()
	averageWindowEntry.SetText(strconv.Itoa(state.cfg.Sensor.AverageWindow))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Baseline Window (readings)", Widget: baselineWindowEntry},
			{Text: "Baseline Seed", Widget: baselineSeedEntry},
			{Text: "Touch Spread", Widget: spreadEntry},
			{Text: "Min Over Threshold", Widget: minOverEntry},
			{Text: "Average Window (readings)", Widget: averageWindowEntry},
		},
		OnSubmit: func() {
			if bw, err := strconv.Atoi(baselineWindowEntry.Text); err == nil {
				state.cfg.Sensor.BaselineWindow = bw
			}
			if bs, err := strconv.Atoi(baselineSeedEntry.Text); err == nil {
				state.cfg.Sensor.BaselineSeed = bs
			}
			if sp, err := strconv.Atoi(spreadEntry.Text); err == nil {
				state.cfg.Sensor.Spread = sp
			}
			if mo, err := strconv.Atoi(minOverEntry.Text); err == nil {
				state.cfg.Sensor.MinOverThreshold = mo
			}
			if aw, err := strconv.Atoi(averageWindowEntry.Text); err == nil {
				state.cfg.Sensor.AverageWindow = aw
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Sensor", form)
}

// createLightTab creates the LED behavior configuration tab.
func createLightTab(state *appState) *container.TabItem {
	stepsMaxEntry := widget.NewEntry()
	stepsMaxEntry.SetText(strconv.Itoa(state.cfg.Light.StepsMax))

	minBrightnessEntry := widget.NewEntry()
	minBrightnessEntry.SetText(strconv.Itoa(state.cfg.Light.MinBrightness))

	lightOnEntry := widget.NewEntry()
	lightOnEntry.SetText(state.cfg.Light.LightOn.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Pulse Steps (per half)", Widget: stepsMaxEntry},
			{Text: "Min Brightness (0-255)", Widget: minBrightnessEntry},
			{Text: "Light On Duration", Widget: lightOnEntry},
		},
		OnSubmit: func() {
			if sm, err := strconv.Atoi(stepsMaxEntry.Text); err == nil {
				state.cfg.Light.StepsMax = sm
			}
			if mb, err := strconv.Atoi(minBrightnessEntry.Text); err == nil {
				state.cfg.Light.MinBrightness = mb
			}
			if lo, err := time.ParseDuration(lightOnEntry.Text); err == nil {
				state.cfg.Light.LightOn = lo
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Light", form)
}

// createLoopTab creates the control loop configuration tab.
func createLoopTab(state *appState) *container.TabItem {
	tickIntervalEntry := widget.NewEntry()
	tickIntervalEntry.SetText(state.cfg.Loop.TickInterval.String())

	settleTimeEntry := widget.NewEntry()
	settleTimeEntry.SetText(state.cfg.Loop.SettleTime.String())

	debugEveryEntry := widget.NewEntry()
	debugEveryEntry.SetText(strconv.Itoa(state.cfg.Loop.DebugEvery))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Tick Interval", Widget: tickIntervalEntry},
			{Text: "Settle Time", Widget: settleTimeEntry},
			{Text: "Telemetry Every (ticks)", Widget: debugEveryEntry},
		},
		OnSubmit: func() {
			if ti, err := time.ParseDuration(tickIntervalEntry.Text); err == nil {
				state.cfg.Loop.TickInterval = ti
			}
			if st, err := time.ParseDuration(settleTimeEntry.Text); err == nil {
				state.cfg.Loop.SettleTime = st
			}
			if de, err := strconv.Atoi(debugEveryEntry.Text); err == nil {
				state.cfg.Loop.DebugEvery = de
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Loop", form)
}

// createMockTab creates the simulated device configuration tab.
func createMockTab(state *appState) *container.TabItem {
	noiseEntry := widget.NewEntry()
	noiseEntry.SetText(strconv.Itoa(state.cfg.Mock.Noise))

	touchReadingEntry := widget.NewEntry()
	touchReadingEntry.SetText(strconv.Itoa(state.cfg.Mock.TouchReading))

	touchDurationEntry := widget.NewEntry()
	touchDurationEntry.SetText(state.cfg.Mock.TouchDuration.String())

	touchPeriodEntry := widget.NewEntry()
	touchPeriodEntry.SetText(state.cfg.Mock.TouchPeriod.String())

	sampleRateEntry := widget.NewEntry()
	sampleRateEntry.SetText(state.cfg.Mock.SampleRate.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Noise (sensor units)", Widget: noiseEntry},
			{Text: "Touch Reading", Widget: touchReadingEntry},
			{Text: "Touch Duration", Widget: touchDurationEntry},
			{Text: "Touch Period", Widget: touchPeriodEntry},
			{Text: "Sample Rate", Widget: sampleRateEntry},
		},
		OnSubmit: func() {
			if n, err := strconv.Atoi(noiseEntry.Text); err == nil {
				state.cfg.Mock.Noise = n
			}
			if tr, err := strconv.Atoi(touchReadingEntry.Text); err == nil {
				state.cfg.Mock.TouchReading = tr
			}
			if td, err := time.ParseDuration(touchDurationEntry.Text); err == nil {
				state.cfg.Mock.TouchDuration = td
			}
			if tp, err := time.ParseDuration(touchPeriodEntry.Text); err == nil {
				state.cfg.Mock.TouchPeriod = tp
			}
			if sr, err := time.ParseDuration(sampleRateEntry.Text); err == nil {
				state.cfg.Mock.SampleRate = sr
			}
			if err := state.cfg.Save("config.yaml"); err != nil {
				dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
			}
		},
	}

	return container.NewTabItem("Mock", form)
}
