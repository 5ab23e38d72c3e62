//go:build !nrf52840

package board

import (
	"feather-nrf52840/pac"
	"feather-nrf52840/sim"
)

// platformBackend on the host is a fresh simulated chip.
func platformBackend() pac.Backend { return sim.New() }
