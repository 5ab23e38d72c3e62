package pac

import (
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"feather-nrf52840/x/conv"
)

// ---- GPIO lines ----

// Port is a GPIO port index (P0 or P1).
type Port uint8

// Line identifies one physical GPIO line.
type Line struct {
	Port Port
	Pin  uint8
}

// NoLine marks an unconnected signal in a bus configuration.
var NoLine = Line{Port: 0xff, Pin: 0xff}

// PortWidth is the number of lines on each port of the nRF52840.
var PortWidth = [2]uint8{32, 16}

func (l Line) String() string {
	if l == NoLine {
		return "NC"
	}
	b := conv.AppendUint([]byte{'P'}, uint64(l.Port), 0)
	b = append(b, '.')
	return string(conv.AppendUint(b, uint64(l.Pin), 2))
}

// Valid reports whether l exists on the chip.
func (l Line) Valid() bool {
	return int(l.Port) < len(PortWidth) && l.Pin < PortWidth[l.Port]
}

// Index is a flat line number (P0 lines 0..31, P1 lines 32..47).
func (l Line) Index() int { return int(l.Port)*32 + int(l.Pin) }

// ---- PIN_CNF model ----

type Direction uint8

const (
	DirInput Direction = iota
	DirOutput
)

type Drive uint8

const (
	DriveStandard  Drive = iota // S0S1
	DriveOpenDrain              // S0D1
)

// PinConfig mirrors the PIN_CNF fields the board layer programs.
type PinConfig struct {
	Dir         Direction
	InputBuffer bool // true when the input buffer is connected
	Pull        gpio.Pull
	Drive       Drive
}

// Disconnected is the reset value of PIN_CNF.
var Disconnected = PinConfig{Dir: DirInput, InputBuffer: false, Pull: gpio.Float}

// ---- Bus configurations ----

// SPIMConfig is what a SPIM instance is programmed with.
type SPIMConfig struct {
	SCK, MOSI, MISO Line
	Frequency       physic.Frequency
	Mode            spi.Mode
	ORC             byte // over-read character clocked out when w is shorter than r
}

// UARTEConfig is what a UARTE instance is programmed with.
type UARTEConfig struct {
	TXD, RXD, CTS, RTS Line
	Parity             bool // true => parity included (even)
	Baud               uint32
}

// ---- Register backend ----

// GPIO is the P0/P1 register surface. PIN_CNF writes cannot fail; OUT/IN
// access returns an error only when the backend models a fault.
type GPIO interface {
	ConfigurePin(l Line, cfg PinConfig)
	PinConfig(l Line) PinConfig
	WriteOut(l Line, level gpio.Level) error
	ReadOut(l Line) (gpio.Level, error)
	ReadIn(l Line) (gpio.Level, error)
}

// SPIM is the SPI master register surface.
type SPIM interface {
	ConfigureSPIM(id ID, cfg SPIMConfig) error
	TransferSPIM(id ID, w, r []byte) error
}

// UARTE is the UART (EasyDMA) register surface.
type UARTE interface {
	ConfigureUARTE(id ID, cfg UARTEConfig) error
	WriteUARTE(id ID, p []byte) (int, error)
	ReadUARTE(id ID, p []byte) (int, error)
}

// Backend is the whole register model a Registry hands out access to.
type Backend interface {
	GPIO
	SPIM
	UARTE
}
