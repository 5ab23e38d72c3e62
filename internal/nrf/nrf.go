//go:build nrf52840

// Package nrf is the register backend for real nRF52840 silicon. GPIO goes
// straight to the P0/P1 blocks; the buses go through TinyGo's machine
// drivers, with the few settings machine does not expose written directly.
package nrf

import (
	"device/nrf"
	"machine"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	"feather-nrf52840/errcode"
	"feather-nrf52840/pac"
)

// Ensure the backend satisfies the contract at compile time.
var _ pac.Backend = Backend{}

// Backend drives the chip the program runs on. It has no state of its own.
type Backend struct{}

// -----------------------------------------------------------------------------
// GPIO
// -----------------------------------------------------------------------------

func port(l pac.Line) *nrf.GPIO_Type {
	if l.Port == 1 {
		return nrf.P1
	}
	return nrf.P0
}

func encode(cfg pac.PinConfig) uint32 {
	var v uint32
	if cfg.Dir == pac.DirOutput {
		v |= nrf.GPIO_PIN_CNF_DIR_Output << nrf.GPIO_PIN_CNF_DIR_Pos
	} else {
		v |= nrf.GPIO_PIN_CNF_DIR_Input << nrf.GPIO_PIN_CNF_DIR_Pos
	}
	if cfg.InputBuffer {
		v |= nrf.GPIO_PIN_CNF_INPUT_Connect << nrf.GPIO_PIN_CNF_INPUT_Pos
	} else {
		v |= nrf.GPIO_PIN_CNF_INPUT_Disconnect << nrf.GPIO_PIN_CNF_INPUT_Pos
	}
	switch cfg.Pull {
	case gpio.PullUp:
		v |= nrf.GPIO_PIN_CNF_PULL_Pullup << nrf.GPIO_PIN_CNF_PULL_Pos
	case gpio.PullDown:
		v |= nrf.GPIO_PIN_CNF_PULL_Pulldown << nrf.GPIO_PIN_CNF_PULL_Pos
	default:
		v |= nrf.GPIO_PIN_CNF_PULL_Disabled << nrf.GPIO_PIN_CNF_PULL_Pos
	}
	if cfg.Drive == pac.DriveOpenDrain {
		v |= nrf.GPIO_PIN_CNF_DRIVE_S0D1 << nrf.GPIO_PIN_CNF_DRIVE_Pos
	} else {
		v |= nrf.GPIO_PIN_CNF_DRIVE_S0S1 << nrf.GPIO_PIN_CNF_DRIVE_Pos
	}
	return v
}

func decode(v uint32) pac.PinConfig {
	var cfg pac.PinConfig
	if (v&nrf.GPIO_PIN_CNF_DIR_Msk)>>nrf.GPIO_PIN_CNF_DIR_Pos == nrf.GPIO_PIN_CNF_DIR_Output {
		cfg.Dir = pac.DirOutput
	}
	cfg.InputBuffer = (v&nrf.GPIO_PIN_CNF_INPUT_Msk)>>nrf.GPIO_PIN_CNF_INPUT_Pos == nrf.GPIO_PIN_CNF_INPUT_Connect
	switch (v & nrf.GPIO_PIN_CNF_PULL_Msk) >> nrf.GPIO_PIN_CNF_PULL_Pos {
	case nrf.GPIO_PIN_CNF_PULL_Pullup:
		cfg.Pull = gpio.PullUp
	case nrf.GPIO_PIN_CNF_PULL_Pulldown:
		cfg.Pull = gpio.PullDown
	default:
		cfg.Pull = gpio.Float
	}
	if (v&nrf.GPIO_PIN_CNF_DRIVE_Msk)>>nrf.GPIO_PIN_CNF_DRIVE_Pos == nrf.GPIO_PIN_CNF_DRIVE_S0D1 {
		cfg.Drive = pac.DriveOpenDrain
	}
	return cfg
}

func (Backend) ConfigurePin(l pac.Line, cfg pac.PinConfig) {
	port(l).PIN_CNF[l.Pin].Set(encode(cfg))
}

func (Backend) PinConfig(l pac.Line) pac.PinConfig {
	return decode(port(l).PIN_CNF[l.Pin].Get())
}

func (Backend) WriteOut(l pac.Line, level gpio.Level) error {
	if level {
		port(l).OUTSET.Set(1 << l.Pin)
	} else {
		port(l).OUTCLR.Set(1 << l.Pin)
	}
	return nil
}

func (Backend) ReadOut(l pac.Line) (gpio.Level, error) {
	return port(l).OUT.Get()&(1<<l.Pin) != 0, nil
}

func (Backend) ReadIn(l pac.Line) (gpio.Level, error) {
	return port(l).IN.Get()&(1<<l.Pin) != 0, nil
}

// -----------------------------------------------------------------------------
// SPIM
// -----------------------------------------------------------------------------

func spiFor(id pac.ID) (*machine.SPI, *nrf.SPIM_Type, bool) {
	switch id {
	case pac.SPIM0:
		return machine.SPI0, nrf.SPIM0, true
	case pac.SPIM1:
		return machine.SPI1, nrf.SPIM1, true
	case pac.SPIM2:
		return machine.SPI2, nrf.SPIM2, true
	}
	return nil, nil, false
}

func (Backend) ConfigureSPIM(id pac.ID, cfg pac.SPIMConfig) error {
	bus, regs, ok := spiFor(id)
	if !ok {
		return errcode.New(errcode.Unsupported, "nrf.ConfigureSPIM", id.String())
	}
	mc := machine.SPIConfig{
		Frequency: uint32(cfg.Frequency / physic.Hertz),
		SCK:       machine.Pin(cfg.SCK.Index()),
		SDO:       machine.NoPin,
		SDI:       machine.NoPin,
		Mode:      uint8(cfg.Mode & spi.Mode3),
		LSBFirst:  cfg.Mode&spi.LSBFirst != 0,
	}
	if cfg.MOSI != pac.NoLine {
		mc.SDO = machine.Pin(cfg.MOSI.Index())
	}
	if cfg.MISO != pac.NoLine {
		mc.SDI = machine.Pin(cfg.MISO.Index())
	}
	if err := bus.Configure(mc); err != nil {
		return err
	}
	regs.ORC.Set(uint32(cfg.ORC))
	return nil
}

func (Backend) TransferSPIM(id pac.ID, w, r []byte) error {
	bus, _, ok := spiFor(id)
	if !ok {
		return errcode.New(errcode.Unsupported, "nrf.TransferSPIM", id.String())
	}
	return bus.Tx(w, r)
}

// -----------------------------------------------------------------------------
// UARTE
// -----------------------------------------------------------------------------

// Only UARTE0 is exposed by machine on this chip.
func uartFor(op string, id pac.ID) (*machine.UART, error) {
	if id != pac.UARTE0 {
		return nil, errcode.New(errcode.Unsupported, op, id.String())
	}
	return machine.UART0, nil
}

// Local interfaces: machine's UART.Configure returns an error on some
// targets and nothing on others.
type (
	uartConfigurer      interface{ Configure(machine.UARTConfig) error }
	uartConfigurerNoErr interface{ Configure(machine.UARTConfig) }
)

func configure(u *machine.UART, mc machine.UARTConfig) error {
	switch c := any(u).(type) {
	case uartConfigurer:
		return c.Configure(mc)
	case uartConfigurerNoErr:
		c.Configure(mc)
	}
	return nil
}

func (Backend) ConfigureUARTE(id pac.ID, cfg pac.UARTEConfig) error {
	u, err := uartFor("nrf.ConfigureUARTE", id)
	if err != nil {
		return err
	}
	mc := machine.UARTConfig{
		BaudRate: cfg.Baud,
		TX:       machine.Pin(cfg.TXD.Index()),
		RX:       machine.Pin(cfg.RXD.Index()),
	}
	if cfg.CTS != pac.NoLine {
		mc.CTS = machine.Pin(cfg.CTS.Index())
	}
	if cfg.RTS != pac.NoLine {
		mc.RTS = machine.Pin(cfg.RTS.Index())
	}
	if err := configure(u, mc); err != nil {
		return err
	}
	if cfg.Parity {
		nrf.UARTE0.CONFIG.SetBits(nrf.UARTE_CONFIG_PARITY_Included << nrf.UARTE_CONFIG_PARITY_Pos)
	} else {
		nrf.UARTE0.CONFIG.ClearBits(nrf.UARTE_CONFIG_PARITY_Msk)
	}
	return nil
}

func (Backend) WriteUARTE(id pac.ID, p []byte) (int, error) {
	u, err := uartFor("nrf.WriteUARTE", id)
	if err != nil {
		return 0, err
	}
	return u.Write(p)
}

func (Backend) ReadUARTE(id pac.ID, p []byte) (int, error) {
	u, err := uartFor("nrf.ReadUARTE", id)
	if err != nil {
		return 0, err
	}
	return u.Read(p)
}
