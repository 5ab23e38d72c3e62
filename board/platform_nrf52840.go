//go:build nrf52840

package board

import (
	"feather-nrf52840/internal/nrf"
	"feather-nrf52840/pac"
)

func platformBackend() pac.Backend { return nrf.Backend{} }
