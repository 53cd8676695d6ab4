//go:build rp2040

package main

import (
	"context"
	"time"

	"costume-go/services/config"
	"costume-go/services/controller"
	"costume-go/services/hal"
	"costume-go/x/timex"
)

const board = "pico"

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot")

	ctx := context.Background()

	cfg, err := config.Embedded(board)
	if err != nil {
		println("[main] config:", err.Error(), "(using defaults)")
		cfg = config.Default()
		cfg.Board = board
		cfg.Normalize()
	}

	b, err := hal.OpenRP2(ctx, cfg)
	if err != nil {
		halt("board", err)
	}
	dev, err := controller.New(cfg, b)
	if err != nil {
		halt("controller", err)
	}

	clock := timex.NewMonotonic()
	dev.Boot(clock.NowMs())
	s := controller.NewScheduler(dev, clock.NowMs())
	_ = s.Run(ctx, clock)
}

// halt reports a fatal startup error forever; there is nothing to return to.
func halt(what string, err error) {
	for {
		println("[main]", what, "failed:", err.Error())
		time.Sleep(5 * time.Second)
	}
}
