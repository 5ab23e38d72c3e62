// Package spim is the SPI master bus handle. It owns its SPIM token and the
// pins wired to SCK/MOSI/MISO for as long as it lives.
package spim

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"tinygo.org/x/drivers"

	"feather-nrf52840/errcode"
	"feather-nrf52840/pac"
	"feather-nrf52840/pins"
)

// Ensure compile-time conformance with drivers.SPI.
var _ drivers.SPI = (*SPIM)(nil)

// Supported SCK rates.
const (
	K125 = 125 * physic.KiloHertz
	K250 = 250 * physic.KiloHertz
	K500 = 500 * physic.KiloHertz
	M1   = 1 * physic.MegaHertz
	M2   = 2 * physic.MegaHertz
	M4   = 4 * physic.MegaHertz
	M8   = 8 * physic.MegaHertz
	M16  = 16 * physic.MegaHertz // SPIM3 only
	M32  = 32 * physic.MegaHertz // SPIM3 only
)

// Pins wires a SPIM instance. MOSI and MISO may be nil for unidirectional use.
type Pins struct {
	SCK  *pins.Output
	MOSI *pins.Output
	MISO *pins.Input
}

// SPIM is a configured SPI master.
type SPIM struct {
	tok  *pac.Token
	pins Pins
	cfg  pac.SPIMConfig
}

func validFrequency(id pac.ID, f physic.Frequency) bool {
	switch f {
	case K125, K250, K500, M1, M2, M4, M8:
		return true
	case M16, M32:
		return id == pac.SPIM3
	}
	return false
}

func lineOf[P interface{ Line() pac.Line }](p P, present bool) pac.Line {
	if !present {
		return pac.NoLine
	}
	return p.Line()
}

// New enables a SPIM instance on the given pins. orc is clocked out when a
// transfer reads more bytes than it writes.
func New(tok *pac.Token, p Pins, freq physic.Frequency, mode spi.Mode, orc byte) (*SPIM, error) {
	const op = "spim.New"
	switch tok.ID() {
	case pac.SPIM0, pac.SPIM1, pac.SPIM2, pac.SPIM3:
	default:
		return nil, errcode.New(errcode.WrongPeripheral, op, tok.ID().String())
	}
	if p.SCK == nil || p.SCK.State() != pins.StateOutputPushPull {
		return nil, errcode.New(errcode.WrongPinState, op, "sck must be a push-pull output")
	}
	if p.MOSI != nil && !p.MOSI.State().IsOutput() {
		return nil, errcode.New(errcode.WrongPinState, op, "mosi must be an output")
	}
	if !validFrequency(tok.ID(), freq) {
		return nil, errcode.New(errcode.InvalidParams, op, "frequency "+freq.String())
	}
	if mode&^(spi.Mode3|spi.LSBFirst) != 0 {
		return nil, errcode.New(errcode.Unsupported, op, "mode "+mode.String())
	}

	cfg := pac.SPIMConfig{
		SCK:       p.SCK.Line(),
		MOSI:      lineOf(p.MOSI, p.MOSI != nil),
		MISO:      lineOf(p.MISO, p.MISO != nil),
		Frequency: freq,
		Mode:      mode,
		ORC:       orc,
	}
	// The caller keeps a live token if the backend refuses.
	if err := tok.Backend().ConfigureSPIM(tok.ID(), cfg); err != nil {
		return nil, errcode.Wrap(errcode.Fault, op, err)
	}
	return &SPIM{tok: tok.Move(), pins: p, cfg: cfg}, nil
}

// Config returns the programmed configuration.
func (s *SPIM) Config() pac.SPIMConfig { return s.cfg }

// ID returns the SPIM instance.
func (s *SPIM) ID() pac.ID { return s.tok.ID() }

// Tx writes w and simultaneously reads into r. Either may be nil; the longer
// of the two sets the transfer length.
func (s *SPIM) Tx(w, r []byte) error {
	// Backend panics with token_consumed once the SPIM has been freed.
	return s.tok.Backend().TransferSPIM(s.tok.ID(), w, r)
}

// Transfer clocks out one byte and returns the byte read.
func (s *SPIM) Transfer(b byte) (byte, error) {
	var r [1]byte
	err := s.Tx([]byte{b}, r[:])
	return r[0], err
}

// Transact runs Tx framed by cs: low for the transfer, high afterwards even
// when the transfer fails.
func (s *SPIM) Transact(cs *pins.Output, w, r []byte) (err error) {
	if err := cs.Set(gpio.Low); err != nil {
		return errcode.Wrap(errcode.Fault, "spim.Transact", err)
	}
	defer func() {
		if e := cs.Set(gpio.High); e != nil && err == nil {
			err = errcode.Wrap(errcode.Fault, "spim.Transact", e)
		}
	}()
	return s.Tx(w, r)
}

// Free returns the token and pins; the SPIM must not be used afterwards.
func (s *SPIM) Free() (*pac.Token, Pins) {
	tok, p := s.tok.Move(), s.pins
	s.pins = Pins{}
	return tok, p
}

// Signals lists the wired lines by role, for inspection. It is empty once
// the SPIM has been freed.
func (s *SPIM) Signals() []pins.Signal {
	var out []pins.Signal
	if s.pins.SCK != nil {
		out = append(out, pins.Signal{Name: "sck", Pin: s.pins.SCK})
	}
	if s.pins.MOSI != nil {
		out = append(out, pins.Signal{Name: "mosi", Pin: s.pins.MOSI})
	}
	if s.pins.MISO != nil {
		out = append(out, pins.Signal{Name: "miso", Pin: s.pins.MISO})
	}
	return out
}
