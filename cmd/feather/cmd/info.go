package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"feather-nrf52840/board"
	"feather-nrf52840/pac"
	"feather-nrf52840/types"
)

var (
	outputJSON bool
)

// infoReport is the JSON shape of `feather info`.
type infoReport struct {
	types.BoardInfo
	Audit []string `json:"audit,omitempty"`
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show every pin, bus and spare peripheral the board owns",
	Long: `Take the board on a fresh simulated chip and report what it owns: each
line with its role, state and level, the buses with their settings, and the
peripheral tokens left over. The pin states are audited against the
simulated PIN_CNF registers.

Examples:
  feather info
  feather info --json`,
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolVar(&outputJSON, "json", false,
		"output as JSON (for programmatic access)")
}

func runInfo(cmd *cobra.Command, args []string) error {
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

	rep := infoReport{BoardInfo: b.Describe()}
	for _, e := range multierr.Errors(b.Audit()) {
		rep.Audit = append(rep.Audit, e.Error())
	}

	if outputJSON {
		return writeJSON(cmd.OutOrStdout(), rep)
	}
	return writeTable(cmd.OutOrStdout(), rep)
}

func writeJSON(w io.Writer, rep infoReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(rep), "encode info")
}

func levelString(l *bool) string {
	switch {
	case l == nil:
		return "-"
	case *l:
		return "high"
	default:
		return "low"
	}
}

func writeTable(w io.Writer, rep infoReport) error {
	fmt.Fprintf(w, "Board: %s\n\n", rep.Name)

	pt := table.NewWriter()
	pt.SetOutputMirror(w)
	pt.AppendHeader(table.Row{"Name", "Line", "Kind", "State", "Level"})
	for _, p := range rep.Pins {
		pt.AppendRow(table.Row{p.Name, p.Line, p.Kind, p.State, levelString(p.Level)})
	}
	pt.Render()
	fmt.Fprintln(w)

	bt := table.NewWriter()
	bt.SetOutputMirror(w)
	bt.AppendHeader(table.Row{"Bus", "Peripheral", "Kind", "Settings"})
	for _, b := range rep.Buses {
		bt.AppendRow(table.Row{b.Name, b.Peripheral, b.Kind, b.Detail})
	}
	bt.Render()
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Core (%d): %s\n", len(rep.Core), strings.Join(rep.Core, " "))
	fmt.Fprintf(w, "Peripherals (%d): %s\n", len(rep.Peripherals), strings.Join(rep.Peripherals, " "))

	if len(rep.Audit) == 0 {
		fmt.Fprintln(w, "Audit: ok")
		return nil
	}
	fmt.Fprintln(w, "Audit:")
	for _, a := range rep.Audit {
		fmt.Fprintln(w, "  "+a)
	}
	return errors.Errorf("%d pin state mismatches", len(rep.Audit))
}
