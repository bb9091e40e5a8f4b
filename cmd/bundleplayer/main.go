// Command bundleplayer loads a saved animation bundle and plays it
// once (or looped) against the eye and mouth actors, synced to an
// audio clock when the bundle carries audio (spec.md §4.10).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/kenavn/skelctl/internal/bundleplayer"
	"github.com/kenavn/skelctl/internal/wire"
)

func main() {
	eyeHost := pflag.String("eye-host", "127.0.0.1", "eye actor host")
	eyePort := pflag.Int("eye-port", wire.DefaultEyePort, "eye actor UDP port")
	mouthHost := pflag.String("mouth-host", "127.0.0.1", "mouth actor host")
	mouthPort := pflag.Int("mouth-port", wire.DefaultMouthPort, "mouth actor UDP port")
	startDelay := pflag.Int64("start-delay", 0, "milliseconds to wait before frame.time_ms=0")
	loop := pflag.Bool("loop", false, "restart from the beginning after the animation ends")
	silent := pflag.Bool("silent", false, "ignore any embedded audio track and play on a wall-clock schedule")
	debug := pflag.Bool("debug", false, "enable debug logging")
	help := pflag.Bool("help", false, "display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s [flags] <bundle-path> - bundle player: replay a saved animation.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		os.Exit(0)
	}
	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one bundle path argument")
		pflag.Usage()
		os.Exit(2)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "bundleplayer"})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	cfg := bundleplayer.RunConfig{
		Config: bundleplayer.Config{
			EyeHost:      *eyeHost,
			EyePort:      *eyePort,
			MouthHost:    *mouthHost,
			MouthPort:    *mouthPort,
			StartDelayMs: *startDelay,
			Loop:         *loop,
		},
		BundlePath: pflag.Arg(0),
	}

	var audio bundleplayer.AudioClock
	if !*silent {
		clock, err := bundleplayer.NewPortaudioClock()
		if err != nil {
			logger.Warn("failed to open audio clock, falling back to wall-clock playback", "error", err)
		} else {
			defer clock.Close()
			audio = clock
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := bundleplayer.PlayPath(ctx, cfg, audio, logger); err != nil {
		logger.Fatal("bundle player exited with error", "error", err)
	}
}
