//go:build tinygo

package main

import "machine"

const (
	// Capacitive sensor configuration
	SENSOR_CHANNEL    = 0    // MPR121 electrode wired to the brass touch pad
	SENSOR_FULL_SCALE = 1023 // 10-bit filtered counts from the MPR121

	// On-chip touch thresholds. The control loop does its own detection on
	// the raw counts; these only shape the chip's internal baseline filter.
	TOUCH_THRESHOLD   = 12
	RELEASE_THRESHOLD = 6

	// LED string MOSFET gate
	PIN_LED = machine.D1

	// Serial configuration
	// Baud rate calculation: Format "millis,reading,baseline,threshold,brightness,touched\n"
	// Example: "4294967295,1023,1023,1086,255,1\n" = ~33 bytes max per line
	// Telemetry runs every 51 ticks of a 10ms loop: ~2 lines/sec = ~70 bytes/sec,
	// plus one line per tick during a held touch: ~100 lines/sec = 3,300 bytes/sec
	// UART 8N1: 10 bits/byte = 33,000 baud minimum. 115200 provides ~3.5x headroom.
	UART_BAUD_RATE = 115200
)

// PWM_LED is the timer driving the LED pin. On the XIAO SAMD21, D1 sits on
// TCC0.
var PWM_LED = machine.TCC0
