// Package pins models GPIO lines as typestate handles. A line is held as
// exactly one of *Disconnected, *Input or *Output; every Into* transition
// programs PIN_CNF, consumes the receiver and returns the handle for the new
// state. Using a consumed handle panics with errcode.PinConsumed.
package pins

import (
	"periph.io/x/conn/v3/gpio"

	"feather-nrf52840/errcode"
	"feather-nrf52840/pac"
)

// State is the electrical configuration a handle stands for.
type State uint8

const (
	StateDisconnected State = iota
	StateInputFloating
	StateInputPullUp
	StateInputPullDown
	StateOutputPushPull
	StateOutputOpenDrain
)

var stateNames = [...]string{
	StateDisconnected:    "disconnected",
	StateInputFloating:   "input_floating",
	StateInputPullUp:     "input_pullup",
	StateInputPullDown:   "input_pulldown",
	StateOutputPushPull:  "output_push_pull",
	StateOutputOpenDrain: "output_open_drain",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// IsOutput reports whether s drives the line.
func (s State) IsOutput() bool { return s == StateOutputPushPull || s == StateOutputOpenDrain }

// Config is the PIN_CNF value that realises s.
func (s State) Config() pac.PinConfig {
	switch s {
	case StateInputFloating:
		return pac.PinConfig{Dir: pac.DirInput, InputBuffer: true, Pull: gpio.Float}
	case StateInputPullUp:
		return pac.PinConfig{Dir: pac.DirInput, InputBuffer: true, Pull: gpio.PullUp}
	case StateInputPullDown:
		return pac.PinConfig{Dir: pac.DirInput, InputBuffer: true, Pull: gpio.PullDown}
	case StateOutputPushPull:
		// Input buffer stays connected so OUT can be read back through IN.
		return pac.PinConfig{Dir: pac.DirOutput, InputBuffer: true, Pull: gpio.Float, Drive: pac.DriveStandard}
	case StateOutputOpenDrain:
		return pac.PinConfig{Dir: pac.DirOutput, InputBuffer: false, Pull: gpio.Float, Drive: pac.DriveOpenDrain}
	default:
		return pac.Disconnected
	}
}

// line is shared by every handle ever created for one physical line.
type line struct {
	id  pac.Line
	gpo pac.GPIO
	gen uint32
}

// pin is the part common to every state. Its methods are promoted onto the
// public state types.
type pin struct {
	l     *line
	gen   uint32
	state State
}

func (p *pin) check(op string) {
	if p == nil || p.l == nil || p.gen != p.l.gen {
		var name string
		if p != nil && p.l != nil {
			name = p.l.id.String()
		}
		panic(errcode.New(errcode.PinConsumed, op, name))
	}
}

// consume invalidates p and returns a fresh pin in state s, with PIN_CNF
// already programmed. For outputs, OUT is written before DIR flips so the
// line never glitches to the previous level. A failed OUT write panics with
// errcode.Fault and leaves p live.
func (p *pin) consume(op string, s State, initial gpio.Level) pin {
	p.check(op)
	l := p.l
	if s.IsOutput() {
		if err := l.gpo.WriteOut(l.id, initial); err != nil {
			panic(errcode.Wrap(errcode.Fault, op, err))
		}
	}
	l.gpo.ConfigurePin(l.id, s.Config())
	l.gen++
	return pin{l: l, gen: l.gen, state: s}
}

// Line returns the physical line identity.
func (p *pin) Line() pac.Line { return p.l.id }

// State returns the configuration the handle stands for.
func (p *pin) State() State { return p.state }

// Live reports whether the handle is still the owner of its line.
func (p *pin) Live() bool { return p != nil && p.l != nil && p.gen == p.l.gen }

func (p *pin) String() string { return p.l.id.String() + " " + p.state.String() }

// IntoDisconnected releases the line to its reset configuration.
func (p *pin) IntoDisconnected() *Disconnected {
	return &Disconnected{p.consume("pins.IntoDisconnected", StateDisconnected, gpio.Low)}
}

// IntoFloatingInput configures the line as an input without pull.
func (p *pin) IntoFloatingInput() *Input {
	return &Input{p.consume("pins.IntoFloatingInput", StateInputFloating, gpio.Low)}
}

// IntoPullUpInput configures the line as an input with the internal pull-up.
func (p *pin) IntoPullUpInput() *Input {
	return &Input{p.consume("pins.IntoPullUpInput", StateInputPullUp, gpio.Low)}
}

// IntoPullDownInput configures the line as an input with the internal pull-down.
func (p *pin) IntoPullDownInput() *Input {
	return &Input{p.consume("pins.IntoPullDownInput", StateInputPullDown, gpio.Low)}
}

// IntoPushPullOutput configures the line as a push-pull output driving initial.
func (p *pin) IntoPushPullOutput(initial gpio.Level) *Output {
	return &Output{p.consume("pins.IntoPushPullOutput", StateOutputPushPull, initial)}
}

// IntoOpenDrainOutput configures the line as an open-drain (S0D1) output.
func (p *pin) IntoOpenDrainOutput(initial gpio.Level) *Output {
	return &Output{p.consume("pins.IntoOpenDrainOutput", StateOutputOpenDrain, initial)}
}

// ---- States ----

// Disconnected is a line in its reset configuration.
type Disconnected struct{ pin }

// Input is a line configured as an input.
type Input struct{ pin }

// Pull returns the pull resistor selection.
func (p *Input) Pull() gpio.Pull { return p.state.Config().Pull }

// Read returns the level on the pad.
func (p *Input) Read() (gpio.Level, error) {
	p.check("pins.Input.Read")
	return p.l.gpo.ReadIn(p.l.id)
}

// IsHigh reports whether the pad reads high.
func (p *Input) IsHigh() (bool, error) {
	v, err := p.Read()
	return v == gpio.High, err
}

// IsLow reports whether the pad reads low.
func (p *Input) IsLow() (bool, error) {
	v, err := p.Read()
	return v == gpio.Low && err == nil, err
}

// Output is a line configured as an output.
type Output struct{ pin }

// Drive returns the output driver selection.
func (p *Output) Drive() pac.Drive { return p.state.Config().Drive }

// Set drives level onto the line.
func (p *Output) Set(level gpio.Level) error {
	p.check("pins.Output.Set")
	return p.l.gpo.WriteOut(p.l.id, level)
}

// SetHigh drives the line high.
func (p *Output) SetHigh() error { return p.Set(gpio.High) }

// SetLow drives the line low.
func (p *Output) SetLow() error { return p.Set(gpio.Low) }

// Level returns the driven level (the OUT register), not the pad.
func (p *Output) Level() (gpio.Level, error) {
	p.check("pins.Output.Level")
	return p.l.gpo.ReadOut(p.l.id)
}

// IsSetHigh reports whether OUT holds a high level.
func (p *Output) IsSetHigh() (bool, error) {
	v, err := p.Level()
	return v == gpio.High, err
}

// IsSetLow reports whether OUT holds a low level.
func (p *Output) IsSetLow() (bool, error) {
	v, err := p.Level()
	return v == gpio.Low && err == nil, err
}

// Toggle inverts the driven level.
func (p *Output) Toggle() error {
	v, err := p.Level()
	if err != nil {
		return err
	}
	return p.Set(!v)
}

// View is the read-only face every pin state shares.
type View interface {
	Line() pac.Line
	State() State
	Live() bool
}

// Signal is a pin in a named role inside a larger handle (a bus line).
type Signal struct {
	Name string
	Pin  View
}
