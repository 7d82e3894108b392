package main

import (
	"fmt"

	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// handleDebugToggle toggles the device's telemetry output.
func handleDebugToggle(state *appState) {
	if state.device == nil || !state.device.IsConnected() {
		return
	}

	state.debugOn = !state.debugOn

	if err := state.device.SetDebug(state.debugOn); err != nil {
		// Revert state on error
		state.debugOn = !state.debugOn
		dialog.ShowError(fmt.Errorf("failed to toggle telemetry: %w", err), state.window)
		return
	}

	updateDebugButtonState(state)
}

// updateDebugButtonState updates the telemetry button's visual state.
func updateDebugButtonState(state *appState) {
	if state.debugOn {
		state.debugBtn.Importance = widget.HighImportance
	} else {
		state.debugBtn.Importance = widget.MediumImportance
	}
	state.debugBtn.Refresh()
}
