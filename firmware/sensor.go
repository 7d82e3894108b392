//go:build tinygo

package main

import (
	"machine"

	"github.com/mamacker/FairyFun/pkg/mpr121"
)

// capSensor adapts the MPR121's filtered electrode counts to the control
// loop's convention. The chip reports lower counts as a finger approaches, so
// readings are inverted against full scale to make higher mean closer.
type capSensor struct {
	dev     *mpr121.Device
	channel uint8
	last    int
}

// newCapSensor configures the I2C bus and the MPR121. A returned error means
// the chip did not come up; the sensor is still usable and the caller decides
// whether garbage readings are acceptable.
func newCapSensor(channel uint8) (*capSensor, error) {
	err := machine.I2C0.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
	})

	s := &capSensor{
		dev:     mpr121.New(machine.I2C0),
		channel: channel,
	}
	if err != nil {
		return s, err
	}

	err = s.dev.Configure(mpr121.Config{
		TouchThreshold:   TOUCH_THRESHOLD,
		ReleaseThreshold: RELEASE_THRESHOLD,
	})
	return s, err
}

// Read returns the inverted filtered count. A bus error repeats the previous
// reading rather than injecting a spike into the baseline.
func (s *capSensor) Read() int {
	raw, err := s.dev.FilteredData(s.channel)
	if err != nil {
		return s.last
	}
	s.last = SENSOR_FULL_SCALE - int(raw)
	return s.last
}
