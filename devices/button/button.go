// Package button reads the board's user switch. Each Button owns its input
// pin.
package button

import (
	"feather-nrf52840/errcode"
	"feather-nrf52840/pac"
	"feather-nrf52840/pins"
	"feather-nrf52840/types"
)

// Button is an active-low switch on a pull-up input: the line idles high and
// the switch pulls it to ground. It owns the pin.
//
// Pin faults are fatal, as for led.LED.
type Button struct {
	pin *pins.Input
}

// New configures p as a pull-up input.
func New(p *pins.Disconnected) *Button {
	return &Button{pin: p.IntoPullUpInput()}
}

// IsPressed reports whether the line reads low.
func (b *Button) IsPressed() bool {
	lo, err := b.pin.IsLow()
	if err != nil {
		panic(errcode.Wrap(errcode.Fault, "button.IsPressed", err))
	}
	return lo
}

// IsReleased is the complement of IsPressed.
func (b *Button) IsReleased() bool {
	hi, err := b.pin.IsHigh()
	if err != nil {
		panic(errcode.Wrap(errcode.Fault, "button.IsReleased", err))
	}
	return hi
}

// Line returns the line the switch is wired to.
func (b *Button) Line() pac.Line { return b.pin.Line() }

// Pin exposes the owned input for inspection.
func (b *Button) Pin() *pins.Input { return b.pin }

// Value snapshots the switch for reporting.
func (b *Button) Value() types.ButtonValue { return types.ButtonValue{Pressed: b.IsPressed()} }
