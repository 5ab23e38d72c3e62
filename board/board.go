// Package board assembles the Adafruit Feather nRF52840 Express from the
// chip's peripheral tokens: the CDC UART, the SPI flash and its chip select,
// the two user LEDs, the user switch and every remaining pin.
package board

import (
	"periph.io/x/conn/v3/gpio"

	"feather-nrf52840/devices/button"
	"feather-nrf52840/devices/led"
	"feather-nrf52840/errcode"
	"feather-nrf52840/pac"
	"feather-nrf52840/pins"
	"feather-nrf52840/spim"
	"feather-nrf52840/uarte"
)

// Pins are the lines not claimed by a bus, LED or button. All of them are
// handed out Disconnected.
type Pins struct {
	A0, A1, A2, A3, A4, A5 *pins.Disconnected

	SCK, MOSI, MISO *pins.Disconnected
	SCL, SDA        *pins.Disconnected

	D2, D5, D6, D9, D10, D11, D12, D13 *pins.Disconnected

	// reset is wired to the RESET button and kept out of reach.
	reset *pins.Disconnected

	// Other holds the lines that are not broken out.
	Other map[pac.Line]*pins.Disconnected
}

// slots maps header labels to their fields.
func (p *Pins) slots() map[string]**pins.Disconnected {
	return map[string]**pins.Disconnected{
		"a0": &p.A0, "a1": &p.A1, "a2": &p.A2, "a3": &p.A3, "a4": &p.A4, "a5": &p.A5,
		"sck": &p.SCK, "mosi": &p.MOSI, "miso": &p.MISO,
		"scl": &p.SCL, "sda": &p.SDA,
		"d2": &p.D2, "d5": &p.D5, "d6": &p.D6, "d9": &p.D9, "d10": &p.D10,
		"d11": &p.D11, "d12": &p.D12, "d13": &p.D13,
	}
}

// LEDs are the user LEDs: D3 (red) and Conn (blue).
type LEDs struct {
	D3   *led.LED
	Conn *led.LED
}

// Buttons are the user buttons.
type Buttons struct {
	Switch *button.Button
}

// Board is the fully initialised board. Fields are owned by the caller.
type Board struct {
	Pins Pins

	CDC     *uarte.UARTE
	Flash   *spim.SPIM
	FlashCS *pins.Output

	LEDs    LEDs
	Buttons Buttons

	// Core holds the Cortex-M4 facilities.
	Core *pac.Set
	// Peripherals holds every device token the board did not consume.
	Peripherals *pac.Set

	plan Plan
	bk   pac.GPIO
}

var defaultRegistry = pac.NewRegistry(platformBackend())

// Registry returns the process-wide registry Take and Steal draw from.
func Registry() *pac.Registry { return defaultRegistry }

// Take returns the board the first time it is called and (nil, false)
// afterwards.
func Take() (*Board, bool) { return TakeFrom(defaultRegistry) }

// TakeFrom is Take against an explicit registry. The core set is taken
// first; if the device set is already gone the core set stays taken.
func TakeFrom(r *pac.Registry) (*Board, bool) {
	core, ok := r.TakeCore()
	if !ok {
		return nil, false
	}
	dev, ok := r.TakePeripherals()
	if !ok {
		return nil, false
	}
	return newBoard(Wiring, r.Backend(), core, dev), true
}

// Steal returns a board regardless of earlier takes.
//
// Safety: the board may alias pins and peripherals held by an earlier
// Board. The caller must prove nothing else drives them.
func Steal() *Board { return StealFrom(defaultRegistry) }

// StealFrom is Steal against an explicit registry.
func StealFrom(r *pac.Registry) *Board {
	return newBoard(Wiring, r.Backend(), r.StealCore(), r.StealPeripherals())
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func take(port [2]*pins.Parts, l pac.Line) *pins.Disconnected {
	return port[l.Port].MustTake(l.Pin)
}

func newBoard(plan Plan, bk pac.GPIO, core, dev *pac.Set) *Board {
	port := [2]*pins.Parts{
		must(pins.Split(dev.MustTake(pac.P0))),
		must(pins.Split(dev.MustTake(pac.P1))),
	}

	fp := plan.Flash
	flash := must(spim.New(dev.MustTake(fp.ID), spim.Pins{
		SCK:  take(port, fp.SCK).IntoPushPullOutput(gpio.Low),
		MOSI: take(port, fp.MOSI).IntoPushPullOutput(gpio.Low),
		MISO: take(port, fp.MISO).IntoFloatingInput(),
	}, fp.Frequency, fp.Mode, fp.ORC))
	cs := take(port, fp.CS).IntoPushPullOutput(gpio.High)

	up := plan.CDC
	cdc := must(uarte.New(dev.MustTake(up.ID), uarte.Pins{
		TXD: take(port, up.TX).IntoPushPullOutput(gpio.High),
		RXD: take(port, up.RX).IntoFloatingInput(),
	}, up.Parity, up.Baud))

	b := &Board{
		CDC:     cdc,
		Flash:   flash,
		FlashCS: cs,
		LEDs: LEDs{
			D3:   led.New(take(port, plan.LEDD3)),
			Conn: led.New(take(port, plan.LEDConn)),
		},
		Buttons: Buttons{
			Switch: button.New(take(port, plan.Switch)),
		},
		Core:        core,
		Peripherals: dev,
		plan:        plan,
		bk:          bk,
	}

	b.Pins.reset = take(port, plan.Reset)
	slots := b.Pins.slots()
	for _, h := range plan.Header {
		slot, ok := slots[h.Name]
		if !ok {
			panic(errcode.New(errcode.InvalidParams, "board.newBoard", "no field for header pin "+h.Name))
		}
		*slot = take(port, h.Line)
	}
	b.Pins.Other = make(map[pac.Line]*pins.Disconnected)
	for _, ps := range port {
		for _, p := range ps.Rest() {
			b.Pins.Other[p.Line()] = p
		}
	}
	return b
}

// Plan returns the wiring the board was built from.
func (b *Board) Plan() Plan { return b.plan }
