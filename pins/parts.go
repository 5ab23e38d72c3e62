package pins

import (
	"feather-nrf52840/errcode"
	"feather-nrf52840/pac"
)

// Parts is one GPIO port split into individually claimable lines.
type Parts struct {
	port  pac.Port
	lines []*line
	taken []bool
}

// Split consumes a P0 or P1 token and returns its lines, all Disconnected.
// PIN_CNF is not touched: the lines are assumed to be in reset state.
func Split(tok *pac.Token) (*Parts, error) {
	var port pac.Port
	switch tok.ID() {
	case pac.P0:
		port = 0
	case pac.P1:
		port = 1
	default:
		return nil, errcode.New(errcode.WrongPeripheral, "pins.Split", tok.ID().String())
	}
	gpo := tok.Move().Backend()

	n := pac.PortWidth[port]
	ps := &Parts{
		port:  port,
		lines: make([]*line, n),
		taken: make([]bool, n),
	}
	for i := range ps.lines {
		ps.lines[i] = &line{id: pac.Line{Port: port, Pin: uint8(i)}, gpo: gpo}
	}
	return ps, nil
}

// Port returns the port index.
func (ps *Parts) Port() pac.Port { return ps.port }

// Take claims line n.
func (ps *Parts) Take(n uint8) (*Disconnected, error) {
	if int(n) >= len(ps.lines) {
		return nil, errcode.New(errcode.UnknownPin, "pins.Parts.Take", pac.Line{Port: ps.port, Pin: n}.String())
	}
	if ps.taken[n] {
		return nil, errcode.New(errcode.PinInUse, "pins.Parts.Take", ps.lines[n].id.String())
	}
	ps.taken[n] = true
	l := ps.lines[n]
	return &Disconnected{pin{l: l, gen: l.gen, state: StateDisconnected}}, nil
}

// MustTake is Take for lines the caller knows are free.
func (ps *Parts) MustTake(n uint8) *Disconnected {
	p, err := ps.Take(n)
	if err != nil {
		panic(err)
	}
	return p
}

// Rest claims every line not yet taken, in line order.
func (ps *Parts) Rest() []*Disconnected {
	var out []*Disconnected
	for i := range ps.lines {
		if !ps.taken[i] {
			out = append(out, ps.MustTake(uint8(i)))
		}
	}
	return out
}
