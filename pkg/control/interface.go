package control

import "time"

// Sensor produces one fresh proximity reading per call. Higher readings mean
// more capacitance (a closer finger or larger dielectric load). Readings are
// not validated; the baseline arithmetic absorbs implausible values from a
// misbehaving sensor.
type Sensor interface {
	Read() int
}

// Output accepts a brightness byte; 0 is off, 255 is full on. The loop clamps
// before calling, out-of-range behavior upstream is undefined.
type Output interface {
	SetBrightness(v uint8)
}

// Clock is the loop's time source: a free-running millisecond counter that is
// zero at process start, plus the inter-tick delay. Elapsed-time math is done
// with unsigned subtraction so counter wraparound does not crash the loop.
type Clock interface {
	Millis() uint32
	Sleep(d time.Duration)
}

// Diagnostics receives periodic status snapshots. It is only invoked while
// the debug flag is on; with the flag off the loop produces no diagnostic
// side effects at all.
type Diagnostics interface {
	Emit(s Status)
}

// Status is one diagnostic snapshot of a tick.
type Status struct {
	Millis     uint32
	Reading    int
	Baseline   int
	Threshold  int
	Brightness uint8
	Touched    bool
}
