package board

import (
	"sort"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3/gpio"

	"feather-nrf52840/errcode"
	"feather-nrf52840/pac"
	"feather-nrf52840/pins"
	"feather-nrf52840/types"
	"feather-nrf52840/x/conv"
)

type held struct {
	name string
	kind types.Kind
	pin  pins.View
}

// held lists every line the board owns, in a stable order: buses, chip
// select, LEDs, button, reset, header, then the rest by line. Fields the
// caller has set to nil are skipped.
func (b *Board) held() []held {
	var out []held
	if b.Flash != nil {
		for _, s := range b.Flash.Signals() {
			out = append(out, held{"flash." + s.Name, types.KindSPI, s.Pin})
		}
	}
	if b.FlashCS != nil {
		out = append(out, held{"flash.cs", types.KindCS, b.FlashCS})
	}
	if b.CDC != nil {
		for _, s := range b.CDC.Signals() {
			out = append(out, held{"cdc." + s.Name, types.KindUART, s.Pin})
		}
	}
	if b.LEDs.D3 != nil {
		out = append(out, held{"led.d3", types.KindLED, b.LEDs.D3.Pin()})
	}
	if b.LEDs.Conn != nil {
		out = append(out, held{"led.conn", types.KindLED, b.LEDs.Conn.Pin()})
	}
	if b.Buttons.Switch != nil {
		out = append(out, held{"switch", types.KindButton, b.Buttons.Switch.Pin()})
	}
	out = append(out, held{"reset", types.KindPin, b.Pins.reset})
	slots := b.Pins.slots()
	for _, h := range b.plan.Header {
		if p := *slots[h.Name]; p != nil {
			out = append(out, held{h.Name, types.KindPin, p})
		}
	}
	rest := make([]pac.Line, 0, len(b.Pins.Other))
	for l := range b.Pins.Other {
		rest = append(rest, l)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Index() < rest[j].Index() })
	for _, l := range rest {
		if p := b.Pins.Other[l]; p != nil {
			out = append(out, held{l.String(), types.KindPin, p})
		}
	}
	return out
}

func levelOf(v pins.View) *bool {
	var (
		lv  gpio.Level
		err error
	)
	switch p := v.(type) {
	case *pins.Output:
		lv, err = p.Level()
	case *pins.Input:
		lv, err = p.Read()
	default:
		return nil
	}
	if err != nil {
		return nil
	}
	hi := bool(lv)
	return &hi
}

// Describe snapshots every line and bus the board owns. Handles the caller
// has since consumed are skipped.
func (b *Board) Describe() types.BoardInfo {
	info := types.BoardInfo{Name: b.plan.Name}
	for _, h := range b.held() {
		if !h.pin.Live() {
			continue
		}
		info.Pins = append(info.Pins, types.PinInfo{
			Name:  h.name,
			Line:  h.pin.Line().String(),
			Kind:  h.kind,
			State: h.pin.State().String(),
			Level: levelOf(h.pin),
		})
	}

	if b.Flash != nil {
		fc := b.Flash.Config()
		info.Buses = append(info.Buses, types.BusInfo{
			Name:       "flash",
			Peripheral: b.Flash.ID().String(),
			Kind:       types.KindSPI,
			Detail:     fc.Frequency.String() + " " + fc.Mode.String(),
		})
	}
	if b.CDC != nil {
		uc := b.CDC.Config()
		frame := "8N1"
		if uc.Parity {
			frame = "8E1"
		}
		info.Buses = append(info.Buses, types.BusInfo{
			Name:       "cdc",
			Peripheral: b.CDC.ID().String(),
			Kind:       types.KindUART,
			Detail:     conv.Utoa(uint64(uc.Baud)) + " " + frame,
		})
	}

	for _, id := range b.Core.IDs() {
		info.Core = append(info.Core, id.String())
	}
	for _, id := range b.Peripherals.IDs() {
		info.Peripherals = append(info.Peripherals, id.String())
	}
	return info
}

// Audit checks that every live handle's state matches the PIN_CNF programmed
// in hardware. Each mismatch is an *errcode.E with errcode.StateMismatch.
func (b *Board) Audit() error {
	var err error
	for _, h := range b.held() {
		if !h.pin.Live() {
			continue
		}
		l := h.pin.Line()
		want, got := h.pin.State().Config(), b.bk.PinConfig(l)
		if want != got {
			err = multierr.Append(err, errcode.New(errcode.StateMismatch, "board.Audit",
				l.String()+" held as "+h.pin.State().String()))
		}
	}
	return err
}
