package board

import (
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"feather-nrf52840/pac"
	"feather-nrf52840/spim"
	"feather-nrf52840/uarte"
)

// Plan specifies the wiring and operating parameters of the board.
// newBoard consumes it to claim pins and bring up the buses.
type Plan struct {
	Name string

	Flash FlashPlan
	CDC   UARTPlan

	LEDD3, LEDConn pac.Line
	Switch         pac.Line
	Reset          pac.Line

	// Header pins broken out on the Feather edge connectors, by silkscreen
	// label. Every entry must have a matching field in Pins.
	Header []HeaderPin
}

// FlashPlan wires the on-board SPI flash.
type FlashPlan struct {
	ID              pac.ID
	SCK, MOSI, MISO pac.Line
	CS              pac.Line
	Frequency       physic.Frequency
	Mode            spi.Mode
	ORC             byte
}

// UARTPlan wires the USB-bridged UART.
type UARTPlan struct {
	ID     pac.ID
	TX, RX pac.Line
	Parity uarte.Parity
	Baud   uarte.Baudrate
}

// HeaderPin names one broken-out line.
type HeaderPin struct {
	Name string
	Line pac.Line
}

func p0(n uint8) pac.Line { return pac.Line{Port: 0, Pin: n} }
func p1(n uint8) pac.Line { return pac.Line{Port: 1, Pin: n} }

// Wiring is the Adafruit Feather nRF52840 Express.
var Wiring = Plan{
	Name: "adafruit_feather_nrf52840_express",

	// The 2 MB flash also supports QSPI; only plain SPI is brought up.
	Flash: FlashPlan{
		ID:  pac.SPIM2,
		SCK: p0(19), MOSI: p0(21), MISO: p0(17),
		CS:        p0(20),
		Frequency: spim.K500,
		Mode:      spi.Mode0,
		ORC:       0,
	},

	// The CDC bridge supports HWFC and up to 1 Mbaud; neither is used.
	CDC: UARTPlan{
		ID: pac.UARTE0,
		TX: p0(25), RX: p0(24),
		Parity: uarte.ParityExcluded,
		Baud:   uarte.Baud115200,
	},

	LEDD3:   p1(15),
	LEDConn: p1(10),
	Switch:  p1(2),
	Reset:   p0(18),

	Header: []HeaderPin{
		{"a0", p0(4)}, {"a1", p0(5)}, {"a2", p0(30)}, {"a3", p0(28)}, {"a4", p0(2)}, {"a5", p0(3)},
		{"sck", p0(14)}, {"mosi", p0(13)}, {"miso", p0(15)},
		{"scl", p0(11)}, {"sda", p0(12)},
		{"d2", p0(10)}, {"d5", p1(8)}, {"d6", p0(7)}, {"d9", p0(26)}, {"d10", p0(27)},
		{"d11", p0(6)}, {"d12", p0(8)}, {"d13", p1(9)},
	},
}

// Claimed returns every line the plan assigns to a bus, LED or button. None
// of them may appear among the free pins.
func (p Plan) Claimed() []pac.Line {
	return []pac.Line{
		p.Flash.SCK, p.Flash.MOSI, p.Flash.MISO, p.Flash.CS,
		p.CDC.TX, p.CDC.RX,
		p.LEDD3, p.LEDConn, p.Switch,
	}
}
