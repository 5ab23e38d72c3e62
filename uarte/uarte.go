// Package uarte is the UART bus handle. It owns its UARTE token and the pins
// wired to TXD/RXD (and the optional flow-control lines).
package uarte

import (
	"feather-nrf52840/errcode"
	"feather-nrf52840/pac"
	"feather-nrf52840/pins"
	"feather-nrf52840/x/conv"
)

// Parity selects whether a parity bit is sent.
type Parity uint8

const (
	ParityExcluded Parity = iota
	ParityIncluded        // even parity
)

// Baudrate is a line rate in bits per second.
type Baudrate uint32

const (
	Baud1200    Baudrate = 1200
	Baud2400    Baudrate = 2400
	Baud4800    Baudrate = 4800
	Baud9600    Baudrate = 9600
	Baud14400   Baudrate = 14400
	Baud19200   Baudrate = 19200
	Baud28800   Baudrate = 28800
	Baud31250   Baudrate = 31250
	Baud38400   Baudrate = 38400
	Baud56000   Baudrate = 56000
	Baud57600   Baudrate = 57600
	Baud76800   Baudrate = 76800
	Baud115200  Baudrate = 115200
	Baud230400  Baudrate = 230400
	Baud250000  Baudrate = 250000
	Baud460800  Baudrate = 460800
	Baud921600  Baudrate = 921600
	Baud1000000 Baudrate = 1000000
)

func (b Baudrate) valid() bool {
	switch b {
	case Baud1200, Baud2400, Baud4800, Baud9600, Baud14400, Baud19200, Baud28800,
		Baud31250, Baud38400, Baud56000, Baud57600, Baud76800, Baud115200,
		Baud230400, Baud250000, Baud460800, Baud921600, Baud1000000:
		return true
	}
	return false
}

// Pins wires a UARTE instance. CTS and RTS may be nil.
type Pins struct {
	TXD *pins.Output
	RXD *pins.Input
	CTS *pins.Input
	RTS *pins.Output
}

// UARTE is a configured UART.
type UARTE struct {
	tok  *pac.Token
	pins Pins
	cfg  pac.UARTEConfig
}

// New enables a UARTE instance on the given pins.
func New(tok *pac.Token, p Pins, parity Parity, baud Baudrate) (*UARTE, error) {
	const op = "uarte.New"
	if id := tok.ID(); id != pac.UARTE0 && id != pac.UARTE1 {
		return nil, errcode.New(errcode.WrongPeripheral, op, id.String())
	}
	if p.TXD == nil || !p.TXD.State().IsOutput() {
		return nil, errcode.New(errcode.WrongPinState, op, "txd must be an output")
	}
	if p.RXD == nil {
		return nil, errcode.New(errcode.WrongPinState, op, "rxd is required")
	}
	if p.RTS != nil && !p.RTS.State().IsOutput() {
		return nil, errcode.New(errcode.WrongPinState, op, "rts must be an output")
	}
	if !baud.valid() {
		return nil, errcode.New(errcode.InvalidParams, op, "baud "+conv.Utoa(uint64(baud)))
	}

	cfg := pac.UARTEConfig{
		TXD:    p.TXD.Line(),
		RXD:    p.RXD.Line(),
		CTS:    pac.NoLine,
		RTS:    pac.NoLine,
		Parity: parity == ParityIncluded,
		Baud:   uint32(baud),
	}
	if p.CTS != nil {
		cfg.CTS = p.CTS.Line()
	}
	if p.RTS != nil {
		cfg.RTS = p.RTS.Line()
	}

	if err := tok.Backend().ConfigureUARTE(tok.ID(), cfg); err != nil {
		return nil, errcode.Wrap(errcode.Fault, op, err)
	}
	return &UARTE{tok: tok.Move(), pins: p, cfg: cfg}, nil
}

// Config returns the programmed configuration.
func (u *UARTE) Config() pac.UARTEConfig { return u.cfg }

// ID returns the UARTE instance.
func (u *UARTE) ID() pac.ID { return u.tok.ID() }

// Write transmits p.
func (u *UARTE) Write(p []byte) (int, error) {
	return u.tok.Backend().WriteUARTE(u.tok.ID(), p)
}

// Read copies received bytes into p.
func (u *UARTE) Read(p []byte) (int, error) {
	return u.tok.Backend().ReadUARTE(u.tok.ID(), p)
}

// Free returns the token and pins; the UARTE must not be used afterwards.
func (u *UARTE) Free() (*pac.Token, Pins) {
	tok, p := u.tok.Move(), u.pins
	u.pins = Pins{}
	return tok, p
}

// Signals lists the wired lines by role, for inspection.
func (u *UARTE) Signals() []pins.Signal {
	var out []pins.Signal
	if u.pins.TXD != nil {
		out = append(out, pins.Signal{Name: "txd", Pin: u.pins.TXD})
	}
	if u.pins.RXD != nil {
		out = append(out, pins.Signal{Name: "rxd", Pin: u.pins.RXD})
	}
	if u.pins.CTS != nil {
		out = append(out, pins.Signal{Name: "cts", Pin: u.pins.CTS})
	}
	if u.pins.RTS != nil {
		out = append(out, pins.Signal{Name: "rts", Pin: u.pins.RTS})
	}
	return out
}
