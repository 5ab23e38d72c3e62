package button

import (
	"errors"
	"testing"

	"periph.io/x/conn/v3/gpio"

	"feather-nrf52840/errcode"
	"feather-nrf52840/pac"
	"feather-nrf52840/pins"
	"feather-nrf52840/sim"
)

func newButton(t *testing.T) (*sim.Chip, *Button) {
	t.Helper()
	chip := sim.New()
	set, _ := pac.NewRegistry(chip).TakePeripherals()
	p1, err := pins.Split(set.MustTake(pac.P1))
	if err != nil {
		t.Fatal(err)
	}
	return chip, New(p1.MustTake(2))
}

func TestNewIsPullUpInput(t *testing.T) {
	chip, b := newButton(t)
	if b.Pin().State() != pins.StateInputPullUp || b.Pin().Pull() != gpio.PullUp {
		t.Fatalf("state %v", b.Pin().State())
	}
	if chip.PinConfig(b.Line()) != pins.StateInputPullUp.Config() {
		t.Fatalf("hardware config %+v", chip.PinConfig(b.Line()))
	}
}

func TestActiveLow(t *testing.T) {
	chip, b := newButton(t)

	tests := []struct {
		name    string
		drive   *gpio.Level
		pressed bool
	}{
		{"idle", nil, false},
		{"switch closed", lvl(gpio.Low), true},
		{"driven high", lvl(gpio.High), false},
		{"released again", nil, false},
	}
	for _, tc := range tests {
		chip.Float(b.Line())
		if tc.drive != nil {
			chip.Drive(b.Line(), *tc.drive)
		}
		// Repeated reads with no line change are identical.
		for i := 0; i < 3; i++ {
			p, r := b.IsPressed(), b.IsReleased()
			if p != tc.pressed || r == p {
				t.Fatalf("%s read %d: pressed=%v released=%v", tc.name, i, p, r)
			}
		}
		if b.Value().Pressed != tc.pressed {
			t.Fatalf("%s: Value mismatch", tc.name)
		}
	}
}

func TestReadsHaveNoSideEffects(t *testing.T) {
	chip, b := newButton(t)
	before := chip.PinConfig(b.Line())
	out, _ := chip.ReadOut(b.Line())
	for i := 0; i < 10; i++ {
		b.IsPressed()
		b.IsReleased()
	}
	if chip.PinConfig(b.Line()) != before {
		t.Fatal("config changed by reads")
	}
	if after, _ := chip.ReadOut(b.Line()); after != out {
		t.Fatal("OUT changed by reads")
	}
}

func TestFaultIsFatal(t *testing.T) {
	chip, b := newButton(t)
	chip.InjectFault(b.Line(), errors.New("open"))
	defer func() {
		err, _ := recover().(error)
		if errcode.Of(err) != errcode.Fault {
			t.Fatalf("recover=%v", err)
		}
	}()
	b.IsPressed()
}

func lvl(v gpio.Level) *gpio.Level { return &v }
