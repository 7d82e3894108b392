// Package mpr121 drives the MPR121 capacitive touch controller over I2C.
// Beyond the chip's own touch/release detection it exposes the filtered
// electrode counts, which is what an adaptive-baseline consumer wants.
//
// Datasheet: https://cdn-shop.adafruit.com/datasheets/MPR121.pdf
package mpr121

import (
	"time"

	"tinygo.org/x/drivers"
)

// DefaultAddress is the chip's I2C address with ADDR tied to ground.
const DefaultAddress = 0x5A

// Register map.
const (
	regTouchStatusL  = 0x00
	regFilteredDataL = 0x04 // 2 bytes per channel, little endian, channels 0-12
	regBaselineData  = 0x1E // 1 byte per channel

	regMHDR = 0x2B
	regNHDR = 0x2C
	regNCLR = 0x2D
	regFDLR = 0x2E
	regMHDF = 0x2F
	regNHDF = 0x30
	regNCLF = 0x31
	regFDLF = 0x32
	regNHDT = 0x33
	regNCLT = 0x34
	regFDLT = 0x35

	regTouchTh0   = 0x41
	regReleaseTh0 = 0x42
	regDebounce   = 0x5B
	regConfig1    = 0x5C
	regConfig2    = 0x5D
	regECR        = 0x5E

	regSoftReset = 0x80
)

const softResetValue = 0x63

// Device represents an MPR121 on an I2C bus.
type Device struct {
	bus  drivers.I2C
	addr uint8
}

// Config holds the chip configuration.
type Config struct {
	Address          uint8
	TouchThreshold   uint8
	ReleaseThreshold uint8
}

// New creates a new MPR121 driver on the provided I2C bus. The bus must
// already be configured.
func New(bus drivers.I2C) *Device {
	return &Device{
		bus: bus,
	}
}

// Configure soft-resets the chip, programs the baseline filter and the
// touch/release thresholds, and enables all 12 electrodes.
func (d *Device) Configure(c Config) error {
	if c.Address == 0 {
		c.Address = DefaultAddress
	}
	d.addr = c.Address

	if err := d.writeReg(regSoftReset, softResetValue); err != nil {
		return err
	}
	time.Sleep(time.Millisecond)

	// Stop mode while configuring
	if err := d.writeReg(regECR, 0); err != nil {
		return err
	}

	if err := d.SetThresholds(c.TouchThreshold, c.ReleaseThreshold); err != nil {
		return err
	}

	// Baseline filter tuning, the datasheet's quick-start values: rising,
	// falling, then touched sections.
	filter := []struct{ reg, val uint8 }{
		{regMHDR, 0x01},
		{regNHDR, 0x01},
		{regNCLR, 0x0E},
		{regFDLR, 0x00},
		{regMHDF, 0x01},
		{regNHDF, 0x05},
		{regNCLF, 0x01},
		{regFDLF, 0x00},
		{regNHDT, 0x00},
		{regNCLT, 0x00},
		{regFDLT, 0x00},
	}
	for _, f := range filter {
		if err := d.writeReg(f.reg, f.val); err != nil {
			return err
		}
	}

	if err := d.writeReg(regDebounce, 0); err != nil {
		return err
	}
	if err := d.writeReg(regConfig1, 0x10); err != nil { // 16uA charge current
		return err
	}
	if err := d.writeReg(regConfig2, 0x20); err != nil { // 0.5uS encoding, 1ms period
		return err
	}

	// Run mode: all 12 electrodes with baseline tracking on
	return d.writeReg(regECR, 0b1000_0000+12)
}

// SetThresholds sets every channel to the specified touch and release
// thresholds. Touch is typically several counts above release to provide
// hysteresis.
func (d *Device) SetThresholds(touch, release uint8) error {
	for ch := uint8(0); ch <= 12; ch++ {
		if err := d.SetThreshold(ch, touch, release); err != nil {
			return err
		}
	}
	return nil
}

// SetThreshold sets one channel's touch and release thresholds.
func (d *Device) SetThreshold(channel, touch, release uint8) error {
	if err := d.writeReg(regTouchTh0+2*channel, touch); err != nil {
		return err
	}
	return d.writeReg(regReleaseTh0+2*channel, release)
}

// FilteredData returns the 10-bit filtered count for the given channel.
// Counts decrease as capacitance increases (a finger approaching).
func (d *Device) FilteredData(channel uint8) (uint16, error) {
	return d.readReg16(regFilteredDataL + 2*channel)
}

// BaselineData returns the chip's own 10-bit baseline estimate for the given
// channel. The register holds the high 8 bits.
func (d *Device) BaselineData(channel uint8) (uint16, error) {
	v, err := d.readReg8(regBaselineData + channel)
	return uint16(v) << 2, err
}

// Status returns the touch status bits for all channels in one transaction;
// bit n is channel n.
func (d *Device) Status() (uint16, error) {
	return d.readReg16(regTouchStatusL)
}

func (d *Device) readReg8(reg uint8) (uint8, error) {
	buf := [1]byte{}
	err := d.bus.Tx(uint16(d.addr), []byte{reg}, buf[:])
	return buf[0], err
}

func (d *Device) readReg16(reg uint8) (uint16, error) {
	buf := [2]byte{}
	err := d.bus.Tx(uint16(d.addr), []byte{reg}, buf[:])
	return uint16(buf[1])<<8 | uint16(buf[0]), err
}

// writeReg writes one register. Most registers only accept writes in stop
// mode, so the electrode configuration is cleared and restored around them.
func (d *Device) writeReg(reg, val uint8) error {
	mustStop := reg != regECR && !(0x73 <= reg && reg <= 0x7A)

	var ecrBackup uint8
	if mustStop {
		cur, err := d.readReg8(regECR)
		if err != nil {
			return err
		}
		if cur != 0 {
			ecrBackup = cur
			if err := d.bus.Tx(uint16(d.addr), []byte{regECR, 0}, nil); err != nil {
				return err
			}
		}
	}

	if err := d.bus.Tx(uint16(d.addr), []byte{reg, val}, nil); err != nil {
		return err
	}

	if mustStop && ecrBackup != 0 {
		return d.bus.Tx(uint16(d.addr), []byte{regECR, ecrBackup}, nil)
	}
	return nil
}
