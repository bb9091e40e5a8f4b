// Command backlightactor is the backlight actor process (spec.md
// §4.4): a single PWM channel driven by the most recent quantised
// brightness byte, restored to full brightness on shutdown.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/kenavn/skelctl/internal/backlightactor"
)

func main() {
	cfg := backlightactor.DefaultConfig()

	pin := pflag.String("pin", "GPIO19", "periph.io pin name driving the backlight PWM channel")
	freq := pflag.Int("freq", cfg.FreqHz, "PWM frequency in Hz")
	brightness := pflag.Int("brightness", int(cfg.Brightness), "initial brightness, 0-255")
	shutdownChip := pflag.String("shutdown-chip", "", "go-gpiocdev chip gating backlight power, e.g. gpiochip0 (optional)")
	shutdownLine := pflag.Int("shutdown-line", 0, "go-gpiocdev line offset on --shutdown-chip")
	port := pflag.IntP("port", "p", cfg.Port, "UDP port to listen on")
	debug := pflag.Bool("debug", false, "enable debug logging")
	help := pflag.Bool("help", false, "display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - backlight actor: single-channel PWM brightness.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	cfg.Port = *port
	cfg.FreqHz = *freq
	cfg.Brightness = byte(*brightness)

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "backlight"})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	pwm, err := backlightactor.OpenPeriphPWM(*pin, *freq, *shutdownChip, *shutdownLine)
	if err != nil {
		logger.Fatal("failed to open pwm channel", "error", err)
	}
	defer pwm.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := backlightactor.Run(ctx, cfg, logger, pwm); err != nil {
		logger.Fatal("backlight actor exited with error", "error", err)
	}
}
