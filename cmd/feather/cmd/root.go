package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tarm/serial"
	"go.uber.org/zap"

	"feather-nrf52840/sim"
)

var (
	// Global flags
	verbose    bool
	serialPort string
	serialBaud int
)

var rootCmd = &cobra.Command{
	Use:   "feather",
	Short: "Adafruit Feather nRF52840 Express board support, on a simulated chip",
	Long: `Bring up the Feather nRF52840 Express board layer against a host-side
register simulator and inspect what it owns.

Examples:
  feather info                         # Pin and bus table
  feather info --json                  # Same, as JSON
  feather blink --count 10             # Alternate the LEDs ten times
  feather blink --serial /dev/ttyUSB0  # Mirror the CDC UART to a real port
  feather steal                        # Show what Steal aliases`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log simulator register traffic")
	rootCmd.PersistentFlags().StringVar(&serialPort, "serial", "", "mirror CDC UART output to this serial device")
	rootCmd.PersistentFlags().IntVar(&serialBaud, "baud", 115200, "baud rate for --serial")
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

// openSink opens the --serial port, or returns nil when none was given.
func openSink() (io.WriteCloser, error) {
	if serialPort == "" {
		return nil, nil
	}
	p, err := serial.OpenPort(&serial.Config{Name: serialPort, Baud: serialBaud})
	if err != nil {
		return nil, errors.Wrapf(err, "open serial port %s", serialPort)
	}
	return p, nil
}

// newChip builds the simulator for one command run. The caller closes it.
func newChip(log *zap.Logger) (*sim.Chip, error) {
	opts := []sim.Option{sim.WithLogger(log)}
	sink, err := openSink()
	if err != nil {
		return nil, err
	}
	if sink != nil {
		opts = append(opts, sim.WithUARTSink(sink))
	}
	return sim.New(opts...), nil
}
