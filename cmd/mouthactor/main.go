// Command mouthactor is the mouth actor process (spec.md §4.3): a
// single thread applies incoming 0x50 mouth-position commands to a
// servo and eases the jaw closed after idle_timeout of silence.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/kenavn/skelctl/internal/mouthactor"
)

func main() {
	cfg := mouthactor.DefaultConfig()

	min := pflag.Int("min", cfg.Mapping.PWMMin, "minimum PWM ticks (fully closed)")
	max := pflag.Int("max", cfg.Mapping.PWMMax, "maximum PWM ticks (fully open)")
	pin := pflag.String("pin", "GPIO18", "periph.io pin name driving the servo")
	enableChip := pflag.String("enable-chip", "", "go-gpiocdev chip gating servo power, e.g. gpiochip0 (optional)")
	enableLine := pflag.Int("enable-line", 0, "go-gpiocdev line offset on --enable-chip")
	port := pflag.IntP("port", "p", cfg.Port, "UDP port to listen on")
	idle := pflag.Int("idle", int(cfg.Idle), "mouth position to ease toward when idle")
	idleTimeout := pflag.Duration("idle-timeout", cfg.IdleTimeout, "silence before idle easing begins")
	idleEaseDuration := pflag.Duration("idle-ease-duration", cfg.IdleEaseDuration, "duration of the idle ease")
	debug := pflag.Bool("debug", false, "enable debug logging")
	help := pflag.Bool("help", false, "display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - mouth actor: servo-driven jaw position with idle easing.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	cfg.Port = *port
	cfg.Idle = byte(*idle)
	cfg.IdleTimeout = *idleTimeout
	cfg.IdleEaseDuration = *idleEaseDuration
	cfg.Mapping = mouthactor.Mapping{PWMMin: *min, PWMMax: *max}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "mouth"})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	servo, err := mouthactor.OpenPeriphServo(*pin, *enableChip, *enableLine)
	if err != nil {
		logger.Fatal("failed to open servo", "error", err)
	}
	defer servo.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := mouthactor.Run(ctx, cfg, logger, servo); err != nil {
		logger.Fatal("mouth actor exited with error", "error", err)
	}
	_ = time.Second // servo teardown happens inside Run's shutdown path
}
