package fairy

// Device defines the interface for fairy light devices (real or mocked).
type Device interface {
	Connect() error
	Close() error
	Telemetry() <-chan Telemetry
	SetDebug(on bool) error
	IsConnected() bool
}

// Ensure Serial implements Device.
var _ Device = (*Serial)(nil)

// Ensure Mock implements Device.
var _ Device = (*Mock)(nil)
