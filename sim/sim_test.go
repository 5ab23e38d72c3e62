package sim

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"periph.io/x/conn/v3/gpio"

	"feather-nrf52840/pac"
)

var l = pac.Line{Port: 0, Pin: 7}

func TestResetStateIsDisconnected(t *testing.T) {
	c := New()
	for p := pac.Port(0); p < 2; p++ {
		for n := uint8(0); n < pac.PortWidth[p]; n++ {
			if got := c.PinConfig(pac.Line{Port: p, Pin: n}); got != pac.Disconnected {
				t.Fatalf("P%d.%02d reset config %+v", p, n, got)
			}
		}
	}
	if lv, _ := c.ReadIn(l); lv != gpio.Low {
		t.Fatal("disconnected input buffer read high")
	}
}

func TestPadLevels(t *testing.T) {
	c := New()
	tests := []struct {
		name string
		cfg  pac.PinConfig
		out  gpio.Level
		ext  *gpio.Level
		want gpio.Level
	}{
		{"pullup idle", pac.PinConfig{InputBuffer: true, Pull: gpio.PullUp}, gpio.Low, nil, gpio.High},
		{"pulldown idle", pac.PinConfig{InputBuffer: true, Pull: gpio.PullDown}, gpio.High, nil, gpio.Low},
		{"pullup driven low", pac.PinConfig{InputBuffer: true, Pull: gpio.PullUp}, gpio.Low, ptr(gpio.Low), gpio.Low},
		{"push-pull follows OUT", pac.PinConfig{Dir: pac.DirOutput, InputBuffer: true}, gpio.High, ptr(gpio.Low), gpio.High},
		{"open-drain released", pac.PinConfig{Dir: pac.DirOutput, InputBuffer: true, Pull: gpio.PullUp, Drive: pac.DriveOpenDrain}, gpio.High, nil, gpio.High},
		{"open-drain sinking", pac.PinConfig{Dir: pac.DirOutput, InputBuffer: true, Pull: gpio.PullUp, Drive: pac.DriveOpenDrain}, gpio.Low, nil, gpio.Low},
	}
	for _, tc := range tests {
		c.Float(l)
		c.ConfigurePin(l, tc.cfg)
		if err := c.WriteOut(l, tc.out); err != nil {
			t.Fatalf("%s: WriteOut: %v", tc.name, err)
		}
		if tc.ext != nil {
			c.Drive(l, *tc.ext)
		}
		got, err := c.ReadIn(l)
		if err != nil || got != tc.want {
			t.Fatalf("%s: ReadIn = %v, %v; want %v", tc.name, got, err, tc.want)
		}
	}
}

func TestFaultInjection(t *testing.T) {
	c := New()
	boom := errors.New("boom")
	c.InjectFault(l, boom)
	if err := c.WriteOut(l, gpio.High); !errors.Is(err, boom) {
		t.Fatalf("WriteOut err=%v", err)
	}
	if _, err := c.ReadOut(l); !errors.Is(err, boom) {
		t.Fatalf("ReadOut err=%v", err)
	}
	c.InjectFault(l, nil)
	if _, err := c.ReadIn(l); err != nil {
		t.Fatalf("fault not cleared: %v", err)
	}
}

func TestInvalidLine(t *testing.T) {
	c := New()
	bad := pac.Line{Port: 1, Pin: 20}
	if err := c.WriteOut(bad, gpio.High); err == nil {
		t.Fatal("write to P1.20 accepted")
	}
	c.ConfigurePin(bad, pac.PinConfig{Dir: pac.DirOutput})
	if c.PinConfig(bad) != pac.Disconnected {
		t.Fatal("config of invalid line stored")
	}
}

func TestSPIMTransferUsesORCAndDevice(t *testing.T) {
	c := New()
	if err := c.TransferSPIM(pac.SPIM1, []byte{1}, nil); err == nil {
		t.Fatal("transfer on disabled SPIM accepted")
	}
	_ = c.ConfigureSPIM(pac.SPIM1, pac.SPIMConfig{ORC: 0xFF})
	c.AttachSPI(pac.SPIM1, SPIDeviceFunc(func(b byte) byte { return ^b }))

	r := make([]byte, 3)
	if err := c.TransferSPIM(pac.SPIM1, []byte{0x0F}, r); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]byte{0xF0, 0x00, 0x00}, r); diff != "" {
		t.Fatalf("rx mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]byte{0x0F, 0xFF, 0xFF}, c.SPITraffic(pac.SPIM1)); diff != "" {
		t.Fatalf("traffic mismatch (-want +got):\n%s", diff)
	}
}

type closeBuf struct {
	bytes.Buffer
	closed bool
}

func (b *closeBuf) Close() error { b.closed = true; return nil }

func TestUARTESinkSourceAndClose(t *testing.T) {
	sink := &closeBuf{}
	c := New(WithUARTSink(sink), WithUARTSource(bytes.NewReader([]byte("from-host"))))
	_ = c.ConfigureUARTE(pac.UARTE0, pac.UARTEConfig{Baud: 115200})

	if _, err := c.WriteUARTE(pac.UARTE0, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	if sink.String() != "hello" || string(c.UARTOutput(pac.UARTE0)) != "hello" {
		t.Fatalf("sink=%q out=%q", sink.String(), c.UARTOutput(pac.UARTE0))
	}

	c.FeedUART(pac.UARTE0, []byte("q"))
	buf := make([]byte, 16)
	n, _ := c.ReadUARTE(pac.UARTE0, buf)
	if string(buf[:n]) != "q" {
		t.Fatalf("queued read %q", buf[:n])
	}
	n, _ = c.ReadUARTE(pac.UARTE0, buf)
	if string(buf[:n]) != "from-host" {
		t.Fatalf("source read %q", buf[:n])
	}

	if err := c.Close(); err != nil || !sink.closed {
		t.Fatalf("Close err=%v closed=%v", err, sink.closed)
	}
	if _, err := c.ReadUARTE(pac.UARTE0, buf); err != io.EOF {
		t.Fatalf("read after close err=%v", err)
	}
}

func ptr(v gpio.Level) *gpio.Level { return &v }
