// Command soundactor is the sound actor process (spec.md §4.5): a
// single-voice player for specifically-named and randomly-chosen
// audio files.
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

	"github.com/kenavn/skelctl/internal/soundactor"
)

func main() {
	cfg := soundactor.DefaultConfig()

	soundsDir := pflag.String("sounds-dir", "", "directory of specifically-named sound files")
	randomDir := pflag.String("random-dir", "", "directory of sound files eligible for random playback")
	port := pflag.IntP("port", "p", cfg.Port, "UDP port to listen on")
	volume := pflag.Int("volume", cfg.Volume, "initial playback volume, 0-100")
	debug := pflag.Bool("debug", false, "enable debug logging")
	help := pflag.Bool("help", false, "display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - sound actor: single-voice named/random playback.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		os.Exit(0)
	}
	if *soundsDir == "" || *randomDir == "" {
		fmt.Fprintln(os.Stderr, "--sounds-dir and --random-dir are required")
		pflag.Usage()
		os.Exit(2)
	}

	cfg.Port = *port
	cfg.SoundsDir = *soundsDir
	cfg.RandomDir = *randomDir
	cfg.Volume = *volume

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "sound"})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	device, err := soundactor.NewPortaudioDevice()
	if err != nil {
		logger.Fatal("failed to open audio device", "error", err)
	}
	defer device.Close()

	lib := soundactor.NewLibrary(cfg.SoundsDir, cfg.RandomDir, time.Now().UnixNano())
	player := soundactor.NewPlayer(lib, device, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := soundactor.Run(ctx, cfg, logger, player); err != nil {
		logger.Fatal("sound actor exited with error", "error", err)
	}
}
