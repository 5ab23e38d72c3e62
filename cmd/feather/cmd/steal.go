package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"feather-nrf52840/board"
	"feather-nrf52840/pac"
)

var stealCmd = &cobra.Command{
	Use:   "steal",
	Short: "Show that a stolen board aliases the taken one",
	Long: `Take the board, then steal a second one from the same registry and
drive the red LED through it. The first board sees the change: Steal hands
out handles to the same hardware, and it is the caller's job to make sure
only one of them is used.`,
	RunE: runSteal,
}

func init() {
	rootCmd.AddCommand(stealCmd)
}

func runSteal(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	r := pac.NewRegistry(chip)

	first, ok := board.TakeFrom(r)
	if !ok {
		return errors.New("board already taken")
	}
	_, again := board.TakeFrom(r)
	fmt.Fprintf(out, "take #1: ok\ntake #2: %v\n", okString(again))

	second := board.StealFrom(r)
	fmt.Fprintln(out, "steal: ok")

	second.LEDs.D3.Enable()
	fmt.Fprintf(out, "stolen d3 enabled; taken d3 on=%v\n", first.LEDs.D3.IsOn())
	second.LEDs.D3.Disable()
	fmt.Fprintf(out, "stolen d3 disabled; taken d3 on=%v\n", first.LEDs.D3.IsOn())
	return nil
}

func okString(ok bool) string {
	if ok {
		return "ok"
	}
	return "refused"
}
