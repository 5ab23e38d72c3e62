package spim

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"feather-nrf52840/errcode"
	"feather-nrf52840/pac"
	"feather-nrf52840/pins"
	"feather-nrf52840/sim"
)

type rig struct {
	chip *sim.Chip
	set  *pac.Set
	p0   *pins.Parts
}

func newRig(t *testing.T) *rig {
	t.Helper()
	chip := sim.New()
	set, _ := pac.NewRegistry(chip).TakePeripherals()
	p0, err := pins.Split(set.MustTake(pac.P0))
	if err != nil {
		t.Fatal(err)
	}
	return &rig{chip: chip, set: set, p0: p0}
}

func (r *rig) flashPins() Pins {
	return Pins{
		SCK:  r.p0.MustTake(19).IntoPushPullOutput(gpio.Low),
		MOSI: r.p0.MustTake(21).IntoPushPullOutput(gpio.Low),
		MISO: r.p0.MustTake(17).IntoFloatingInput(),
	}
}

func TestNewProgramsBackend(t *testing.T) {
	r := newRig(t)
	s, err := New(r.set.MustTake(pac.SPIM2), r.flashPins(), K500, spi.Mode0, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := pac.SPIMConfig{
		SCK:       pac.Line{Port: 0, Pin: 19},
		MOSI:      pac.Line{Port: 0, Pin: 21},
		MISO:      pac.Line{Port: 0, Pin: 17},
		Frequency: 500 * physic.KiloHertz,
		Mode:      spi.Mode0,
	}
	got, enabled := r.chip.SPIMConfig(pac.SPIM2)
	if !enabled {
		t.Fatal("SPIM2 not enabled")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
	if s.Config() != got || s.ID() != pac.SPIM2 {
		t.Fatalf("handle config %+v id %v", s.Config(), s.ID())
	}
}

func TestNewOptionalLines(t *testing.T) {
	r := newRig(t)
	sck := r.p0.MustTake(14).IntoPushPullOutput(gpio.Low)
	s, err := New(r.set.MustTake(pac.SPIM0), Pins{SCK: sck}, M1, spi.Mode3, 0xFF)
	if err != nil {
		t.Fatal(err)
	}
	if s.Config().MOSI != pac.NoLine || s.Config().MISO != pac.NoLine {
		t.Fatalf("absent lines not NC: %+v", s.Config())
	}
}

func TestNewRejects(t *testing.T) {
	tests := []struct {
		name string
		id   pac.ID
		sck  func(*rig) *pins.Output
		freq physic.Frequency
		mode spi.Mode
		want errcode.Code
	}{
		{"uart token", pac.UARTE1, pushPull, K500, spi.Mode0, errcode.WrongPeripheral},
		{"open-drain sck", pac.SPIM1, openDrain, K500, spi.Mode0, errcode.WrongPinState},
		{"nil sck", pac.SPIM1, func(*rig) *pins.Output { return nil }, K500, spi.Mode0, errcode.WrongPinState},
		{"odd frequency", pac.SPIM1, pushPull, 3 * physic.MegaHertz, spi.Mode0, errcode.InvalidParams},
		{"32M off SPIM3", pac.SPIM1, pushPull, M32, spi.Mode0, errcode.InvalidParams},
		{"half duplex", pac.SPIM1, pushPull, K500, spi.HalfDuplex, errcode.Unsupported},
	}
	for _, tc := range tests {
		r := newRig(t)
		_, err := New(r.set.MustTake(tc.id), Pins{SCK: tc.sck(r)}, tc.freq, tc.mode, 0)
		if errcode.Of(err) != tc.want {
			t.Fatalf("%s: err=%v want %s", tc.name, err, tc.want)
		}
	}

	r := newRig(t)
	if _, err := New(r.set.MustTake(pac.SPIM3), Pins{SCK: pushPull(r)}, M32, spi.Mode0, 0); err != nil {
		t.Fatalf("SPIM3 at 32M: %v", err)
	}
}

func pushPull(r *rig) *pins.Output  { return r.p0.MustTake(4).IntoPushPullOutput(gpio.Low) }
func openDrain(r *rig) *pins.Output { return r.p0.MustTake(4).IntoOpenDrainOutput(gpio.Low) }

func TestTxAndTransfer(t *testing.T) {
	r := newRig(t)
	s, _ := New(r.set.MustTake(pac.SPIM2), r.flashPins(), K500, spi.Mode0, 0)

	rx := make([]byte, 3)
	if err := s.Tx([]byte{0x9F, 1, 2}, rx); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0x9F, 1, 2}, rx); diff != "" {
		t.Fatalf("loopback mismatch:\n%s", diff)
	}
	b, err := s.Transfer(0x5A)
	if err != nil || b != 0x5A {
		t.Fatalf("Transfer = %#x, %v", b, err)
	}
}

func TestTransactFramesChipSelect(t *testing.T) {
	r := newRig(t)
	s, _ := New(r.set.MustTake(pac.SPIM2), r.flashPins(), K500, spi.Mode0, 0)
	cs := r.p0.MustTake(20).IntoPushPullOutput(gpio.High)

	var seen []gpio.Level
	r.chip.AttachSPI(pac.SPIM2, sim.SPIDeviceFunc(func(b byte) byte {
		lv, _ := r.chip.ReadOut(cs.Line())
		seen = append(seen, lv)
		return b
	}))

	if err := s.Transact(cs, []byte{0x05, 0x00}, nil); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]gpio.Level{gpio.Low, gpio.Low}, seen); diff != "" {
		t.Fatalf("cs during transfer:\n%s", diff)
	}
	if hi, _ := cs.IsSetHigh(); !hi {
		t.Fatal("cs not released")
	}
}

func TestFreeReturnsOwnership(t *testing.T) {
	r := newRig(t)
	s, _ := New(r.set.MustTake(pac.SPIM2), r.flashPins(), K500, spi.Mode0, 0)
	tok, p := s.Free()
	if tok.ID() != pac.SPIM2 || !tok.Live() || p.SCK == nil {
		t.Fatalf("Free returned %v %+v", tok, p)
	}
	defer func() {
		err, _ := recover().(error)
		if errcode.Of(err) != errcode.TokenConsumed {
			t.Fatalf("Tx after Free: recover=%v", err)
		}
	}()
	_ = s.Tx([]byte{1}, nil)
}

func TestSignalsFollowOwnership(t *testing.T) {
	r := newRig(t)
	s, err := New(r.set.MustTake(pac.SPIM2), r.flashPins(), K500, spi.Mode0, 0)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, sig := range s.Signals() {
		names = append(names, sig.Name+"="+sig.Pin.Line().String())
	}
	if diff := cmp.Diff([]string{"sck=P0.19", "mosi=P0.21", "miso=P0.17"}, names); diff != "" {
		t.Fatalf("signals (-want +got):\n%s", diff)
	}
	s.Free()
	if n := len(s.Signals()); n != 0 {
		t.Fatalf("%d signals after Free", n)
	}
}

// refusing is a chip whose SPIM blocks reject configuration.
type refusing struct{ *sim.Chip }

func (refusing) ConfigureSPIM(pac.ID, pac.SPIMConfig) error {
	return errors.New("unsupported instance")
}

func TestNewKeepsTokenWhenBackendRefuses(t *testing.T) {
	chip := sim.New()
	set, _ := pac.NewRegistry(refusing{chip}).TakePeripherals()
	p0, err := pins.Split(set.MustTake(pac.P0))
	if err != nil {
		t.Fatal(err)
	}
	r := &rig{chip: chip, set: set, p0: p0}

	tok := set.MustTake(pac.SPIM3)
	_, err = New(tok, r.flashPins(), M8, spi.Mode0, 0)
	if !errors.Is(err, errcode.Fault) {
		t.Fatalf("err=%v, want %s", err, errcode.Fault)
	}
	if !tok.Live() {
		t.Fatal("token lost on configure failure")
	}
	if _, enabled := chip.SPIMConfig(pac.SPIM3); enabled {
		t.Fatal("SPIM3 enabled despite failure")
	}
}
