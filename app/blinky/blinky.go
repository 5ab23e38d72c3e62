// Package blinky alternates the two user LEDs: each tick turns one on and
// the other off.
package blinky

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
)

// LED is what blinky needs from an LED.
type LED interface {
	Enable()
	Disable()
	IsOn() bool
}

// Blinker owns the tick source. Create it with New before starting Run.
type Blinker struct {
	a, b   LED
	ticker *clock.Ticker

	// OnStep, if set, is called after every step with the step count.
	OnStep func(n int)
}

// New prepares a blinker that steps every period on clk.
func New(a, b LED, clk clock.Clock, period time.Duration) *Blinker {
	return &Blinker{a: a, b: b, ticker: clk.Ticker(period)}
}

// Step flips the pair: if a is on it goes off and b comes on, otherwise the
// reverse.
func Step(a, b LED) {
	if a.IsOn() {
		a.Disable()
		b.Enable()
	} else {
		a.Enable()
		b.Disable()
	}
}

// Run steps immediately and then once per tick until count steps have run
// (count <= 0 means forever) or ctx ends.
func (bl *Blinker) Run(ctx context.Context, count int) error {
	defer bl.ticker.Stop()
	for n := 1; ; n++ {
		Step(bl.a, bl.b)
		if bl.OnStep != nil {
			bl.OnStep(n)
		}
		if count > 0 && n >= count {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-bl.ticker.C:
		}
	}
}
