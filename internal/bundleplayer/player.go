package bundleplayer

import (
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kenavn/skelctl/internal/wire"
)

// loopPause is the brief gap between loop iterations (spec.md §4.10:
// "pause briefly (≈100 ms), and restart").
const loopPause = 100 * time.Millisecond

// Config bundles a playback run's destinations and timing (spec.md §6).
type Config struct {
	EyeHost, MouthHost string
	EyePort, MouthPort int
	StartDelayMs       int64
	Loop               bool
}

// Player drives the eye and mouth actors from a frame vector on a
// wall-clock schedule, optionally synced to an audio track (spec.md
// §4.10). The now/sleep hooks default to the real clock; tests
// override them to run a playback schedule without wall-clock delay.
type Player struct {
	eye    *wire.Sender
	mouth  *wire.Sender
	audio  AudioClock
	logger *log.Logger

	now   func() time.Time
	sleep func(time.Duration)

	stopRequested atomic.Bool
}

// NewPlayer wires the eye/mouth senders and an optional audio clock
// (nil when the bundle has no audio track).
func NewPlayer(eye, mouth *wire.Sender, audio AudioClock, logger *log.Logger) *Player {
	return &Player{
		eye:    eye,
		mouth:  mouth,
		audio:  audio,
		logger: logger,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Stop requests the current Play call end at the next frame boundary
// (spec.md §4.10, "Stop"). Safe to call from another goroutine.
func (p *Player) Stop() {
	p.stopRequested.Store(true)
}

// Play runs frames once (or, with cfg.Loop, repeatedly until Stop is
// called) against audioPath, which may be empty. It disables
// autonomous eye movement and blink before the first frame and
// restores them once playback ends (spec.md §4.10).
func (p *Player) Play(frames []Frame, audioPath string, cfg Config) error {
	p.stopRequested.Store(false)

	if err := p.sendEye(wire.Command{Op: wire.OpAutoMovementOff}); err != nil {
		return err
	}
	if err := p.sendEye(wire.Command{Op: wire.OpAutoBlinkOff}); err != nil {
		return err
	}
	defer func() {
		p.sendEye(wire.Command{Op: wire.OpAutoMovementOn})
		p.sendEye(wire.Command{Op: wire.OpAutoBlinkOn})
	}()

	for {
		if err := p.playOnce(frames, audioPath, cfg); err != nil {
			return err
		}
		if !cfg.Loop || p.stopRequested.Load() {
			return nil
		}
		if p.audio != nil {
			p.audio.Stop()
		}
		p.sleep(loopPause)
	}
}

func (p *Player) playOnce(frames []Frame, audioPath string, cfg Config) error {
	audioPlaying := false
	if p.audio != nil && audioPath != "" {
		if err := p.audio.Start(audioPath); err != nil {
			p.logger.Error("bundle player audio start failed", "error", err)
		} else {
			audioPlaying = true
		}
	}

	// now0 is the wall-clock instant frame.time_ms=0 corresponds to.
	// Audio, when present, was already started above, so its own
	// elapsed position runs cfg.StartDelayMs ahead of now0.
	now0 := p.now().Add(time.Duration(cfg.StartDelayMs) * time.Millisecond)

	for _, f := range frames {
		if p.stopRequested.Load() {
			return nil
		}
		p.waitUntilFrame(now0, f.TimeMs, audioPlaying, cfg.StartDelayMs)
		if err := p.emit(f); err != nil {
			p.logger.Error("bundle player emit failed", "time_ms", f.TimeMs, "error", err)
		}
	}

	if !audioPlaying {
		end := now0.Add(time.Duration(LastTimeMs(frames))*time.Millisecond + 100*time.Millisecond)
		for p.now().Before(end) && !p.stopRequested.Load() {
			p.sleep(sleepQuantum(end.Sub(p.now())))
		}
	}
	return nil
}

// sleepQuantum caps a single sleep so Stop and loop cancellation are
// noticed promptly rather than only after one long sleep returns.
func sleepQuantum(remaining time.Duration) time.Duration {
	if remaining > 20*time.Millisecond {
		return 20 * time.Millisecond
	}
	if remaining < 0 {
		return 0
	}
	return remaining
}

// waitUntilFrame blocks until targetMs has elapsed since now0. With an
// audio track playing it re-reads the audio clock on every quantum
// instead of trusting a wall-clock delta computed once, so accumulated
// audio-device drift is corrected frame by frame (spec.md §4.10:
// "Between frames, re-read the audio clock when available so drift
// does not accumulate").
func (p *Player) waitUntilFrame(now0 time.Time, targetMs int64, audioPlaying bool, startDelayMs int64) {
	for {
		var elapsedMs int64
		if audioPlaying {
			if pos, ok := p.audio.Position(); ok {
				elapsedMs = pos.Milliseconds() - startDelayMs
			} else {
				audioPlaying = false
				elapsedMs = p.now().Sub(now0).Milliseconds()
			}
		} else {
			elapsedMs = p.now().Sub(now0).Milliseconds()
		}

		remaining := time.Duration(targetMs-elapsedMs) * time.Millisecond
		if remaining <= 0 {
			return
		}
		p.sleep(sleepQuantum(remaining))
		if p.stopRequested.Load() {
			return
		}
	}
}

func (p *Player) emit(f Frame) error {
	switch f.Kind {
	case FrameEye:
		if err := p.sendEye(wire.Command{Op: wire.OpGazeTarget, X: wire.EncodeUnit(f.Eye.GazeX), Y: wire.EncodeUnit(f.Eye.GazeY)}); err != nil {
			return err
		}
		if err := p.sendEye(wire.Command{Op: wire.OpLeftEyelid, Value: wire.EncodeUnit(f.Eye.LeftClosed)}); err != nil {
			return err
		}
		return p.sendEye(wire.Command{Op: wire.OpRightEyelid, Value: wire.EncodeUnit(f.Eye.RightClosed)})
	case FrameMouth:
		return p.sendMouth(wire.Command{Op: wire.OpMouthPosition, Value: f.Mouth.Position})
	default:
		return nil
	}
}

func (p *Player) sendEye(c wire.Command) error {
	return p.eye.Send(wire.Encode(c))
}

func (p *Player) sendMouth(c wire.Command) error {
	return p.mouth.Send(wire.Encode(c))
}
