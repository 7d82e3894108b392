//go:build tinygo

package main

import "machine"

// pwm covers the parts of TinyGo's timer peripherals the LED driver needs.
type pwm interface {
	// Configure enables and configures this PWM.
	Configure(config machine.PWMConfig) error
	// Channel returns a PWM channel for the given pin. It also configures
	// pin as PWM output.
	Channel(pin machine.Pin) (channel uint8, err error)
	// Top returns the current counter top, for use in duty cycle calculation.
	Top() uint32
	// Set updates the channel value, controlling the duty cycle.
	Set(channel uint8, value uint32)
}

// ledOutput drives the LED string's MOSFET gate. Brightness 0 is fully off,
// 255 is fully on.
type ledOutput struct {
	pwm     pwm
	channel uint8
}

func newLEDOutput(p pwm, pin machine.Pin) (*ledOutput, error) {
	// Period 0 picks a frequency suitable for LEDs.
	if err := p.Configure(machine.PWMConfig{}); err != nil {
		return nil, err
	}

	ch, err := p.Channel(pin)
	if err != nil {
		return nil, err
	}

	return &ledOutput{
		pwm:     p,
		channel: ch,
	}, nil
}

func (o *ledOutput) SetBrightness(v uint8) {
	// 64-bit intermediate so Top values near the uint32 ceiling cannot
	// overflow the multiply.
	o.pwm.Set(o.channel, uint32(uint64(o.pwm.Top())*uint64(v)/255))
}
