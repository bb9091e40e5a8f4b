package bundleplayer

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/kenavn/skelctl/internal/bundle"
	"github.com/kenavn/skelctl/internal/wire"
)

// RunConfig is everything PlayPath needs to open a bundle and drive
// a Player against it (spec.md §6 CLI flags for the bundle player).
type RunConfig struct {
	Config
	BundlePath string
}

// PlayPath loads path as a bundle, extracts its audio track (if any)
// to a temporary file (spec.md §4.10, "Prepare"), and plays it once
// (or, with cfg.Loop, until ctx is cancelled) using audio, the
// caller's AudioClock implementation (nil plays silently). Cancelling
// ctx calls Player.Stop so a looped animation and the process both
// exit at the next frame boundary (spec.md §4.10, "Stop").
func PlayPath(ctx context.Context, cfg RunConfig, audio AudioClock, logger *log.Logger) error {
	b, err := bundle.Load(cfg.BundlePath)
	if err != nil {
		return fmt.Errorf("bundle player: loading %s: %w", cfg.BundlePath, err)
	}
	frames := BuildFrames(b)

	var audioPath string
	if len(b.AudioData) > 0 {
		ext := ".audio"
		if b.Manifest.AudioFormat != nil && *b.Manifest.AudioFormat != "" {
			ext = "." + *b.Manifest.AudioFormat
		}
		tmp, err := os.CreateTemp("", "bundleplayer-*"+ext)
		if err != nil {
			return fmt.Errorf("bundle player: extracting audio: %w", err)
		}
		audioPath = tmp.Name()
		defer os.Remove(audioPath)
		if _, err := tmp.Write(b.AudioData); err != nil {
			tmp.Close()
			return fmt.Errorf("bundle player: writing extracted audio: %w", err)
		}
		if err := tmp.Close(); err != nil {
			return err
		}
	}

	eye, err := wire.NewSender(cfg.EyeHost, cfg.EyePort)
	if err != nil {
		return fmt.Errorf("bundle player: dialing eye actor: %w", err)
	}
	defer eye.Close()

	mouth, err := wire.NewSender(cfg.MouthHost, cfg.MouthPort)
	if err != nil {
		return fmt.Errorf("bundle player: dialing mouth actor: %w", err)
	}
	defer mouth.Close()

	player := NewPlayer(eye, mouth, audio, logger)

	stopped := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			player.Stop()
		case <-stopped:
		}
	}()
	defer close(stopped)

	return player.Play(frames, audioPath, cfg.Config)
}
