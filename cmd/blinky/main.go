// Command blinky alternately flashes the red and blue LEDs once a second.
package main

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"feather-nrf52840/app/blinky"
	"feather-nrf52840/board"
)

func main() {
	b, ok := board.Take()
	if !ok {
		panic("board already taken")
	}
	println("blinky", b.Plan().Name)

	bl := blinky.New(b.LEDs.D3, b.LEDs.Conn, clock.New(), time.Second)
	if err := bl.Run(context.Background(), 0); err != nil {
		println("blinky:", err.Error())
	}
}
