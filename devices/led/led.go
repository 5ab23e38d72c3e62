// Package led drives the board's user LEDs. Each LED owns its output pin.
package led

import (
	"periph.io/x/conn/v3/gpio"

	"feather-nrf52840/errcode"
	"feather-nrf52840/pac"
	"feather-nrf52840/pins"
	"feather-nrf52840/types"
)

// LED is an active-high LED on a push-pull output. It owns the pin.
//
// Pin faults are fatal: a failed OUT access panics with errcode.Fault, since
// a correctly wired output cannot produce one.
type LED struct {
	pin *pins.Output
}

// New configures p as a push-pull output driving low (LED off).
func New(p *pins.Disconnected) *LED {
	return &LED{pin: p.IntoPushPullOutput(gpio.Low)}
}

// must panics with errcode.Fault if err is set.
func must(op string, err error) {
	if err != nil {
		panic(errcode.Wrap(errcode.Fault, op, err))
	}
}

// Enable turns the LED on.
func (l *LED) Enable() { must("led.Enable", l.pin.SetHigh()) }

// Disable turns the LED off.
func (l *LED) Disable() { must("led.Disable", l.pin.SetLow()) }

// Toggle flips the LED.
func (l *LED) Toggle() { must("led.Toggle", l.pin.Toggle()) }

// IsOn reports the driven level, not the pad.
func (l *LED) IsOn() bool {
	on, err := l.pin.IsSetHigh()
	must("led.IsOn", err)
	return on
}

// IsOff is the complement of IsOn.
func (l *LED) IsOff() bool {
	off, err := l.pin.IsSetLow()
	must("led.IsOff", err)
	return off
}

// Line returns the line the LED is wired to.
func (l *LED) Line() pac.Line { return l.pin.Line() }

// Pin exposes the owned output for inspection (state, level).
func (l *LED) Pin() *pins.Output { return l.pin }

// Value snapshots the LED for reporting.
func (l *LED) Value() types.LEDValue { return types.LEDValue{On: l.IsOn()} }
