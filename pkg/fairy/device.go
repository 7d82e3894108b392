package fairy

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the standard baud rate for XIAO SAMD21.
	DefaultBaudRate = 115200
	// DefaultBufferSize is the default size for the telemetry channel buffer.
	DefaultBufferSize = 100
)

// Telemetry is one diagnostic line from the device: the raw reading, the
// adaptive baseline and threshold it was judged against, the brightness the
// LED was last set to, and whether this tick registered a touch. Lines only
// flow while the device's debug flag is on.
type Telemetry struct {
	Millis     uint32 // Device uptime counter, wraps at uint32 max
	Reading    int
	Baseline   int
	Threshold  int
	Brightness uint8
	Touched    bool
}

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial represents a connection to the fairy light MCU.
type Serial struct {
	port     string
	baudRate int
	bufSize  int

	conn      serial.Port
	telemetry chan Telemetry
	done      chan struct{}
	mu        sync.RWMutex
	ctx       context.Context
	cancel    context.CancelFunc
	connected bool
}

// New creates a new Serial device instance with the specified port, baud
// rate, and buffer size.
func New(port string, baudRate int, bufSize int) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if bufSize == 0 {
		bufSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Serial{
		port:      port,
		baudRate:  baudRate,
		bufSize:   bufSize,
		telemetry: make(chan Telemetry, bufSize),
		ctx:       ctx,
		cancel:    cancel,
		connected: false,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect connects to the serial port and starts reading telemetry.
func (d *Serial) Connect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: d.baudRate,
	}

	port, err := serial.Open(d.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", d.port, err)
	}

	d.conn = port
	d.connected = true
	d.done = make(chan struct{})

	go d.readTelemetry(port)

	return nil
}

// Close closes the connection and stops reading telemetry.
func (d *Serial) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		return nil
	}

	d.cancel()

	// Closing the port unblocks a reader stuck in Scan.
	if d.conn != nil {
		if err := d.conn.Close(); err != nil {
			log.Printf("Error closing serial port: %v", err)
		}
		d.conn = nil
	}

	// The reader must be gone before the channel closes, or a send in
	// flight panics.
	if d.done != nil {
		<-d.done
	}

	d.connected = false
	close(d.telemetry)

	return nil
}

// Telemetry returns the channel for reading telemetry lines.
func (d *Serial) Telemetry() <-chan Telemetry {
	return d.telemetry
}

// SetDebug toggles the device's diagnostic output. The MCU emits no serial
// traffic at all while the flag is off (the onboard TX LED blinking on every
// transmission ruins the magic).
func (d *Serial) SetDebug(on bool) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.connected {
		return fmt.Errorf("not connected")
	}

	cmd := "d0\n"
	if on {
		cmd = "d1\n"
	}

	if _, err := d.conn.Write([]byte(cmd)); err != nil {
		return fmt.Errorf("failed to send debug command: %w", err)
	}

	return nil
}

// IsConnected returns whether the device is currently connected.
func (d *Serial) IsConnected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.connected
}

// readTelemetry reads lines from the serial port and parses them into
// Telemetry values. Close waits on done before it closes the telemetry
// channel.
func (d *Serial) readTelemetry(r io.Reader) {
	defer close(d.done)
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("Panic in readTelemetry: %v", rec)
		}
	}()

	scanner := bufio.NewScanner(r)
	for {
		select {
		case <-d.ctx.Done():
			return
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil && err != io.EOF {
					log.Printf("Error reading from serial port: %v", err)
				}
				return
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			t, err := parseLine(line)
			if err != nil {
				log.Printf("Failed to parse line '%s': %v", line, err)
				continue
			}

			select {
			case d.telemetry <- t:
			case <-d.ctx.Done():
				return
			default:
				// Channel full, log and skip
				log.Printf("Telemetry channel full, dropping line")
			}
		}
	}
}

// parseLine parses a telemetry line from the MCU.
// Format: millis,reading,baseline,threshold,brightness,touched
// Example: 123450,731,725,788,40,0
func parseLine(line string) (Telemetry, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 6 {
		return Telemetry{}, fmt.Errorf("invalid line format: expected 6 comma-separated values, got %d", len(parts))
	}

	millis, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil {
		return Telemetry{}, fmt.Errorf("invalid millis: %w", err)
	}

	reading, err := strconv.Atoi(parts[1])
	if err != nil {
		return Telemetry{}, fmt.Errorf("invalid reading: %w", err)
	}

	baseline, err := strconv.Atoi(parts[2])
	if err != nil {
		return Telemetry{}, fmt.Errorf("invalid baseline: %w", err)
	}

	threshold, err := strconv.Atoi(parts[3])
	if err != nil {
		return Telemetry{}, fmt.Errorf("invalid threshold: %w", err)
	}

	brightness, err := strconv.ParseUint(parts[4], 10, 8)
	if err != nil {
		return Telemetry{}, fmt.Errorf("invalid brightness: %w", err)
	}

	var touched bool
	switch parts[5] {
	case "0":
		touched = false
	case "1":
		touched = true
	default:
		return Telemetry{}, fmt.Errorf("invalid touched flag: %q", parts[5])
	}

	return Telemetry{
		Millis:     uint32(millis),
		Reading:    reading,
		Baseline:   baseline,
		Threshold:  threshold,
		Brightness: uint8(brightness),
		Touched:    touched,
	}, nil
}
