package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"feather-nrf52840/app/blinky"
	"feather-nrf52840/board"
	"feather-nrf52840/pac"
)

var (
	blinkCount  int
	blinkPeriod time.Duration
)

var blinkCmd = &cobra.Command{
	Use:   "blink",
	Short: "Alternate the red and blue LEDs",
	Long: `Run the blinky application on the simulated board. Each step is
reported on the CDC UART, which --serial mirrors to a real port.

Examples:
  feather blink --count 4 --period 250ms
  feather blink -v --serial /dev/ttyUSB0`,
	RunE: runBlink,
}

func init() {
	rootCmd.AddCommand(blinkCmd)

	blinkCmd.Flags().IntVarP(&blinkCount, "count", "c", 6,
		"number of steps (0 runs until interrupted)")
	blinkCmd.Flags().DurationVarP(&blinkPeriod, "period", "p", time.Second,
		"time between steps")
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func runBlink(cmd *cobra.Command, args []string) error {
	if blinkPeriod <= 0 {
		return errors.Errorf("period must be positive, got %v", blinkPeriod)
	}
	log, err := newLogger()
	if err != nil {
		return errors.Wrap(err, "logger")
	}
	defer log.Sync()

	chip, err := newChip(log)
	if err != nil {
		return err
	}
	defer chip.Close()

	b, ok := board.TakeFrom(pac.NewRegistry(chip))
	if !ok {
		return errors.New("board already taken")
	}
	return blink(cmd.Context(), b, clock.New(), log, cmd.OutOrStdout())
}

func blink(ctx context.Context, b *board.Board, clk clock.Clock, log *zap.Logger, out io.Writer) error {
	bl := blinky.New(b.LEDs.D3, b.LEDs.Conn, clk, blinkPeriod)
	bl.OnStep = func(n int) {
		line := fmt.Sprintf("step %d: d3=%s conn=%s", n, onOff(b.LEDs.D3.IsOn()), onOff(b.LEDs.Conn.IsOn()))
		log.Info("blink", zap.Int("step", n), zap.Bool("d3", b.LEDs.D3.IsOn()), zap.Bool("conn", b.LEDs.Conn.IsOn()))
		fmt.Fprintln(out, line)
		if _, err := b.CDC.Write([]byte(line + "\r\n")); err != nil {
			log.Warn("cdc write failed", zap.Error(err))
		}
	}
	if err := bl.Run(ctx, blinkCount); err != nil && !errors.Is(err, context.Canceled) {
		return errors.Wrap(err, "blink")
	}
	return nil
}
