//go:build tinygo

//go:generate tinygo flash -target=xiao

package main

import (
	"machine"
	"time"

	"github.com/mamacker/FairyFun/pkg/control"
)

var (
	uart = machine.UART0

	// Serial buffer for reading debug commands
	serialBuffer [8]byte
	serialPos    int

	loop *control.Loop
)

func main() {
	// Configure UART for telemetry and debug commands
	uart.Configure(machine.UARTConfig{
		BaudRate: UART_BAUD_RATE,
	})

	// A dead sensor is reported once and never retried: the loop keeps
	// running on whatever readings arrive, and the baseline arithmetic
	// absorbs implausible numbers.
	sensor, err := newCapSensor(SENSOR_CHANNEL)
	if err != nil {
		print("sensor init failed: ")
		print(err.Error())
		print("\n")
	}

	// Without the PWM timer there is no light to control at all.
	output, err := newLEDOutput(PWM_LED, PIN_LED)
	if err != nil {
		haltWithError("pwm init failed: ", err)
	}

	clock := &mcuClock{start: time.Now()}

	loop = control.New(sensor, output, clock, serialDiag{}, control.DefaultConfig())

	// Main loop. Run is not used because debug commands have to be polled
	// between ticks.
	for {
		processSerial()
		loop.Tick()
		clock.Sleep(control.DefaultTickInterval)
	}
}

// mcuClock reports milliseconds since boot. The counter wraps after ~49 days;
// the control loop's elapsed-time math survives that.
type mcuClock struct {
	start time.Time
}

func (c *mcuClock) Millis() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}

func (c *mcuClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// serialDiag prints one status line per snapshot.
// Format: "millis,reading,baseline,threshold,brightness,touched\n"
// Example: "123450,731,725,788,40,0\n"
type serialDiag struct{}

func (serialDiag) Emit(s control.Status) {
	print(s.Millis)
	print(",")
	print(s.Reading)
	print(",")
	print(s.Baseline)
	print(",")
	print(s.Threshold)
	print(",")
	print(s.Brightness)
	print(",")
	if s.Touched {
		print("1")
	} else {
		print("0")
	}
	print("\n")
}

// processSerial reads debug commands from the serial port (non-blocking).
// "d1" turns telemetry on, "d0" turns it off. Telemetry defaults to off so
// the board's TX LED stays dark during normal operation.
func processSerial() {
	for uart.Buffered() > 0 {
		data, err := uart.ReadByte()
		if err != nil {
			break
		}

		// Check for newline (end of line)
		if data == '\n' || data == '\r' {
			if serialPos == 2 && serialBuffer[0] == 'd' {
				loop.SetDebug(serialBuffer[1] == '1')
			}
			// Reset buffer regardless of length
			serialPos = 0
			continue
		}

		// Ignore whitespace
		if data == ' ' || data == '\t' {
			continue
		}

		if serialPos < len(serialBuffer) {
			serialBuffer[serialPos] = data
			serialPos++
		}
		// Overlong garbage is discarded at the next newline
	}
}

// haltWithError reports a fatal init error over serial once a second and
// blinks the onboard LED. The device is not usable at this point.
func haltWithError(msg string, err error) {
	machine.LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		print(msg)
		print(err.Error())
		print("\n")
		machine.LED.High()
		time.Sleep(500 * time.Millisecond)
		machine.LED.Low()
		time.Sleep(500 * time.Millisecond)
	}
}
