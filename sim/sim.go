// Package sim is a register-level model of the nRF52840 blocks the board
// layer drives: the two GPIO ports, the SPIM instances and the UARTE
// instances. It backs host builds, tests and the feather CLI.
package sim

import (
	"bytes"
	"io"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"periph.io/x/conn/v3/gpio"

	"feather-nrf52840/pac"
)

// Ensure the simulator satisfies the register contract at compile time.
var _ pac.Backend = (*Chip)(nil)

const numLines = 48

// SPIDevice is a slave on a simulated SPIM bus. Exchange receives the byte
// clocked out on MOSI and returns the byte presented on MISO.
type SPIDevice interface {
	Exchange(mosi byte) byte
}

// SPIDeviceFunc adapts a function to SPIDevice.
type SPIDeviceFunc func(mosi byte) byte

func (f SPIDeviceFunc) Exchange(mosi byte) byte { return f(mosi) }

// Loopback echoes MOSI on MISO. It is the default device on every SPIM.
var Loopback SPIDevice = SPIDeviceFunc(func(b byte) byte { return b })

type spimState struct {
	cfg     pac.SPIMConfig
	enabled bool
	dev     SPIDevice
	traffic bytes.Buffer
}

type uarteState struct {
	cfg     pac.UARTEConfig
	enabled bool
	tx      bytes.Buffer
	rx      bytes.Buffer
}

// Chip is a simulated nRF52840.
type Chip struct {
	mu sync.Mutex

	log *zap.Logger

	cnf    [numLines]pac.PinConfig
	out    [numLines]gpio.Level
	ext    map[int]gpio.Level // levels driven onto lines from outside the chip
	faults map[int]error

	spim  map[pac.ID]*spimState
	uarte map[pac.ID]*uarteState

	sink   io.Writer
	source io.Reader
}

// Option configures a Chip.
type Option func(*Chip)

// WithLogger routes register activity to l at Debug level.
func WithLogger(l *zap.Logger) Option {
	return func(c *Chip) {
		if l != nil {
			c.log = l
		}
	}
}

// WithUARTSink mirrors every byte written to any UARTE into w.
func WithUARTSink(w io.Writer) Option { return func(c *Chip) { c.sink = w } }

// WithUARTSource feeds UARTE reads from r once the queued RX bytes run out.
func WithUARTSource(r io.Reader) Option { return func(c *Chip) { c.source = r } }

// New returns a chip in its reset state: every line disconnected, every bus
// disabled.
func New(opts ...Option) *Chip {
	c := &Chip{
		log:    zap.NewNop(),
		ext:    make(map[int]gpio.Level),
		faults: make(map[int]error),
		spim:   make(map[pac.ID]*spimState),
		uarte:  make(map[pac.ID]*uarteState),
	}
	for i := range c.cnf {
		c.cnf[i] = pac.Disconnected
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Close releases the UART sink and source when they are closers.
func (c *Chip) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	if cl, ok := c.sink.(io.Closer); ok {
		err = multierr.Append(err, cl.Close())
	}
	if cl, ok := c.source.(io.Closer); ok {
		err = multierr.Append(err, cl.Close())
	}
	c.sink, c.source = nil, nil
	return err
}

// -----------------------------------------------------------------------------
// GPIO
// -----------------------------------------------------------------------------

func index(l pac.Line) (int, error) {
	if !l.Valid() {
		return 0, errors.Errorf("sim: no such line %v", l)
	}
	return l.Index(), nil
}

func (c *Chip) ConfigurePin(l pac.Line, cfg pac.PinConfig) {
	i, err := index(l)
	if err != nil {
		c.log.Warn("PIN_CNF write ignored", zap.Error(err))
		return
	}
	c.mu.Lock()
	c.cnf[i] = cfg
	c.mu.Unlock()
	c.log.Debug("PIN_CNF",
		zap.Stringer("line", l),
		zap.Bool("output", cfg.Dir == pac.DirOutput),
		zap.Bool("input_buffer", cfg.InputBuffer),
		zap.Stringer("pull", cfg.Pull),
		zap.Uint8("drive", uint8(cfg.Drive)))
}

func (c *Chip) PinConfig(l pac.Line) pac.PinConfig {
	i, err := index(l)
	if err != nil {
		return pac.Disconnected
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cnf[i]
}

func (c *Chip) WriteOut(l pac.Line, level gpio.Level) error {
	i, err := index(l)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.faults[i]; err != nil {
		return errors.Wrapf(err, "OUT write %v", l)
	}
	c.out[i] = level
	return nil
}

func (c *Chip) ReadOut(l pac.Line) (gpio.Level, error) {
	i, err := index(l)
	if err != nil {
		return gpio.Low, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.faults[i]; err != nil {
		return gpio.Low, errors.Wrapf(err, "OUT read %v", l)
	}
	return c.out[i], nil
}

func (c *Chip) ReadIn(l pac.Line) (gpio.Level, error) {
	i, err := index(l)
	if err != nil {
		return gpio.Low, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.faults[i]; err != nil {
		return gpio.Low, errors.Wrapf(err, "IN read %v", l)
	}
	return c.padLevel(i), nil
}

// caller holds lock
func (c *Chip) padLevel(i int) gpio.Level {
	cfg := c.cnf[i]
	if !cfg.InputBuffer {
		return gpio.Low
	}
	if cfg.Dir == pac.DirOutput {
		if cfg.Drive == pac.DriveStandard || c.out[i] == gpio.Low {
			return c.out[i]
		}
	}
	if v, ok := c.ext[i]; ok {
		return v
	}
	return cfg.Pull == gpio.PullUp
}

// Drive forces a level onto l from outside the chip (a switch, a jumper).
func (c *Chip) Drive(l pac.Line, level gpio.Level) {
	i, err := index(l)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.ext[i] = level
	c.mu.Unlock()
}

// Float stops driving l from outside the chip.
func (c *Chip) Float(l pac.Line) {
	i, err := index(l)
	if err != nil {
		return
	}
	c.mu.Lock()
	delete(c.ext, i)
	c.mu.Unlock()
}

// InjectFault makes every OUT/IN access on l fail with err. A nil err clears
// the fault.
func (c *Chip) InjectFault(l pac.Line, err error) {
	i, ierr := index(l)
	if ierr != nil {
		return
	}
	c.mu.Lock()
	if err == nil {
		delete(c.faults, i)
	} else {
		c.faults[i] = err
	}
	c.mu.Unlock()
	c.log.Debug("fault", zap.Stringer("line", l), zap.Error(err))
}

// -----------------------------------------------------------------------------
// SPIM
// -----------------------------------------------------------------------------

func (c *Chip) spimFor(id pac.ID) *spimState {
	s := c.spim[id]
	if s == nil {
		s = &spimState{dev: Loopback}
		c.spim[id] = s
	}
	return s
}

func (c *Chip) ConfigureSPIM(id pac.ID, cfg pac.SPIMConfig) error {
	c.mu.Lock()
	s := c.spimFor(id)
	s.cfg = cfg
	s.enabled = true
	c.mu.Unlock()
	c.log.Debug("SPIM enable",
		zap.Stringer("id", id),
		zap.Stringer("sck", cfg.SCK),
		zap.Stringer("mosi", cfg.MOSI),
		zap.Stringer("miso", cfg.MISO),
		zap.Stringer("freq", cfg.Frequency),
		zap.Uint8("mode", uint8(cfg.Mode)))
	return nil
}

func (c *Chip) TransferSPIM(id pac.ID, w, r []byte) error {
	c.mu.Lock()
	s := c.spim[id]
	if s == nil || !s.enabled {
		c.mu.Unlock()
		return errors.Errorf("sim: %v not enabled", id)
	}
	dev, orc := s.dev, s.cfg.ORC
	c.mu.Unlock()

	// The device runs without the chip lock so it may inspect lines (CS).
	n := max(len(w), len(r))
	sent := make([]byte, n)
	for i := 0; i < n; i++ {
		b := orc
		if i < len(w) {
			b = w[i]
		}
		sent[i] = b
		in := dev.Exchange(b)
		if i < len(r) {
			r[i] = in
		}
	}

	c.mu.Lock()
	s.traffic.Write(sent)
	c.mu.Unlock()
	return nil
}

// AttachSPI replaces the slave on a SPIM instance.
func (c *Chip) AttachSPI(id pac.ID, dev SPIDevice) {
	c.mu.Lock()
	c.spimFor(id).dev = dev
	c.mu.Unlock()
}

// SPIMConfig returns the last configuration programmed into id and whether
// the instance was enabled.
func (c *Chip) SPIMConfig(id pac.ID) (pac.SPIMConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.spim[id]
	if s == nil {
		return pac.SPIMConfig{}, false
	}
	return s.cfg, s.enabled
}

// SPITraffic returns every byte clocked out on id so far.
func (c *Chip) SPITraffic(id pac.ID) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s := c.spim[id]; s != nil {
		return append([]byte(nil), s.traffic.Bytes()...)
	}
	return nil
}

// -----------------------------------------------------------------------------
// UARTE
// -----------------------------------------------------------------------------

func (c *Chip) uarteFor(id pac.ID) *uarteState {
	u := c.uarte[id]
	if u == nil {
		u = &uarteState{}
		c.uarte[id] = u
	}
	return u
}

func (c *Chip) ConfigureUARTE(id pac.ID, cfg pac.UARTEConfig) error {
	c.mu.Lock()
	u := c.uarteFor(id)
	u.cfg = cfg
	u.enabled = true
	c.mu.Unlock()
	c.log.Debug("UARTE enable",
		zap.Stringer("id", id),
		zap.Stringer("txd", cfg.TXD),
		zap.Stringer("rxd", cfg.RXD),
		zap.Uint32("baud", cfg.Baud),
		zap.Bool("parity", cfg.Parity))
	return nil
}

func (c *Chip) WriteUARTE(id pac.ID, p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := c.uarte[id]
	if u == nil || !u.enabled {
		return 0, errors.Errorf("sim: %v not enabled", id)
	}
	u.tx.Write(p)
	if c.sink != nil {
		if _, err := c.sink.Write(p); err != nil {
			return len(p), errors.Wrap(err, "uart sink")
		}
	}
	return len(p), nil
}

func (c *Chip) ReadUARTE(id pac.ID, p []byte) (int, error) {
	c.mu.Lock()
	u := c.uarte[id]
	if u == nil || !u.enabled {
		c.mu.Unlock()
		return 0, errors.Errorf("sim: %v not enabled", id)
	}
	if u.rx.Len() > 0 {
		n, _ := u.rx.Read(p)
		c.mu.Unlock()
		return n, nil
	}
	src := c.source
	c.mu.Unlock()
	if src == nil {
		return 0, io.EOF
	}
	return src.Read(p)
}

// FeedUART queues bytes for the next reads on id.
func (c *Chip) FeedUART(id pac.ID, p []byte) {
	c.mu.Lock()
	c.uarteFor(id).rx.Write(p)
	c.mu.Unlock()
}

// UARTOutput returns everything written to id so far.
func (c *Chip) UARTOutput(id pac.ID) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u := c.uarte[id]; u != nil {
		return append([]byte(nil), u.tx.Bytes()...)
	}
	return nil
}

// UARTEConfig returns the last configuration programmed into id and whether
// the instance was enabled.
func (c *Chip) UARTEConfig(id pac.ID) (pac.UARTEConfig, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := c.uarte[id]
	if u == nil {
		return pac.UARTEConfig{}, false
	}
	return u.cfg, u.enabled
}
