// Command feather drives a simulated Feather nRF52840 Express from the host.
package main

import "feather-nrf52840/cmd/feather/cmd"

func main() {
	cmd.Execute()
}
