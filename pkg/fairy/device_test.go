package fairy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chatterReader hands out telemetry lines as fast as Read is called, so a
// reader goroutine is almost always mid-send against a tiny channel buffer.
type chatterReader struct{}

func (chatterReader) Read(p []byte) (int, error) {
	return copy(p, "123450,731,725,788,40,0\n"), nil
}

func TestNew_Defaults(t *testing.T) {
	d := New("/dev/ttyACM0", 0, 0)

	assert.Equal(t, "/dev/ttyACM0", d.port)
	assert.Equal(t, DefaultBaudRate, d.baudRate)
	assert.Equal(t, DefaultBufferSize, d.bufSize)
	assert.False(t, d.IsConnected())
}

func TestNew_CustomValues(t *testing.T) {
	d := New("COM3", 9600, 10)

	assert.Equal(t, "COM3", d.port)
	assert.Equal(t, 9600, d.baudRate)
	assert.Equal(t, 10, d.bufSize)
}

func TestSerial_SetDebugNotConnected(t *testing.T) {
	d := New("/dev/ttyACM0", 0, 0)

	err := d.SetDebug(true)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")
}

func TestSerial_CloseNotConnected(t *testing.T) {
	d := New("/dev/ttyACM0", 0, 0)
	assert.NoError(t, d.Close())
}

func TestSerial_CloseWaitsForReader(t *testing.T) {
	d := New("/dev/ttyACM0", 0, 1)
	d.connected = true
	d.done = make(chan struct{})
	go d.readTelemetry(chatterReader{})

	// Let the reader hammer the full channel for a bit before shutting down.
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, d.Close())

	// The reader has exited, so the channel drains to closed and no send
	// lands after the close.
	for range d.Telemetry() {
	}
	assert.False(t, d.IsConnected())
}

func TestParseLine_Valid(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Telemetry
	}{
		{
			name: "quiet tick",
			line: "123450,731,725,788,40,0",
			want: Telemetry{
				Millis:     123450,
				Reading:    731,
				Baseline:   725,
				Threshold:  788,
				Brightness: 40,
				Touched:    false,
			},
		},
		{
			name: "touch tick",
			line: "50010,800,725,788,0,1",
			want: Telemetry{
				Millis:     50010,
				Reading:    800,
				Baseline:   725,
				Threshold:  788,
				Brightness: 0,
				Touched:    true,
			},
		},
		{
			name: "zero values",
			line: "0,0,0,0,0,0",
			want: Telemetry{},
		},
		{
			name: "full brightness",
			line: "1500000,900,726,789,255,1",
			want: Telemetry{
				Millis:     1500000,
				Reading:    900,
				Baseline:   726,
				Threshold:  789,
				Brightness: 255,
				Touched:    true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLine_Invalid(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"empty", ""},
		{"too few fields", "123,725,788,40,0"},
		{"too many fields", "123,725,725,788,40,0,7"},
		{"non-numeric millis", "abc,725,725,788,40,0"},
		{"negative millis", "-5,725,725,788,40,0"},
		{"non-numeric reading", "123,x,725,788,40,0"},
		{"brightness out of range", "123,725,725,788,300,0"},
		{"bad touched flag", "123,725,725,788,40,2"},
		{"boot banner", "fairy lights v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseLine(tt.line)
			assert.Error(t, err)
		})
	}
}
