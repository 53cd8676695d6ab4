//go:build !tinygo

// costume-sim runs the controller on the host. The host link is stdin and
// stdout unless the config names a serial port; the menu device, fan,
// sensor, LEDs and screen are simulated. Screen changes go to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"costume-go/services/config"
	"costume-go/services/controller"
	"costume-go/services/hal"
	"costume-go/x/timex"
)

var (
	configPath = flag.String("config", "", "YAML config file (default: embedded sim config)")
	storeDir   = flag.String("store", "", "Directory for persisted settings (default: in memory)")
	quiet      = flag.Bool("quiet", false, "Do not print screen changes")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	clock := timex.NewMonotonic()
	opts := hal.HostOptions{
		Clock:    clock,
		StoreDir: *storeDir,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
	}
	if !*quiet {
		opts.OnScreen = func(row int, text string) {
			fmt.Fprintf(os.Stderr, "[screen %d] %s\n", row, strings.TrimRight(text, " "))
		}
	}

	b, _, closeBoard, err := hal.OpenHost(ctx, cfg, opts)
	if err != nil {
		closeBoard()
		fmt.Fprintf(os.Stderr, "Error: open board: %v\n", err)
		os.Exit(1)
	}
	defer closeBoard()

	dev, err := controller.New(cfg, b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	dev.Boot(clock.NowMs())

	s := controller.NewScheduler(dev, clock.NowMs())
	if err := s.Run(ctx, clock); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	if *configPath != "" {
		return config.LoadFile(*configPath)
	}
	return config.Embedded("sim")
}
