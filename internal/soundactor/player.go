package soundactor

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/kenavn/skelctl/internal/wire"
)

// Device is the hardware boundary: the real implementation wraps
// github.com/gordonklaus/portaudio behind a narrow interface so tests
// never touch an audio device.
type Device interface {
	// Play starts playing path asynchronously and returns once
	// playback has begun; the returned stop function must block until
	// the device has actually released the track.
	Play(path string) (stop func(), err error)
	SetVolume(percent int) error
}

// track is the actor's "at most one playing" state (spec.md §3).
type track struct {
	file string
	stop func()
}

// Player owns the audio device and runs one track at a time (spec.md
// §4.5, §5): Run calls it directly for each received command, and a
// new play command stops whatever is current before loading the next.
type Player struct {
	lib    *Library
	device Device
	logger *log.Logger

	mu      sync.Mutex
	current *track
}

// NewPlayer wires a Library and Device together.
func NewPlayer(lib *Library, device Device, logger *log.Logger) *Player {
	return &Player{lib: lib, device: device, logger: logger}
}

// stopCurrentLocked stops the active track, if any. Caller holds mu.
func (p *Player) stopCurrentLocked() {
	if p.current == nil {
		return
	}
	p.current.stop()
	p.current = nil
}

// PlayFile stops any current track then plays the named file. A
// missing file is logged, not fatal (spec.md §7).
func (p *Player) PlayFile(name string) {
	path, err := p.lib.Resolve(name)
	if err != nil {
		p.logger.Error("sound play-file failed", "error", err)
		return
	}
	p.start(path)
}

// PlayRandom stops any current track then plays a uniformly-selected
// file from the random directory.
func (p *Player) PlayRandom() {
	path, err := p.lib.PickRandom()
	if err != nil {
		p.logger.Error("sound play-random failed", "error", err)
		return
	}
	p.start(path)
}

func (p *Player) start(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopCurrentLocked()
	stop, err := p.device.Play(path)
	if err != nil {
		p.logger.Error("sound device failed to start playback", "path", path, "error", err)
		return
	}
	p.current = &track{file: path, stop: stop}
}

// Stop stops any current track; a stop with nothing playing is a
// no-op.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopCurrentLocked()
}

// SetVolume clamps to [0,100] (spec.md §4.5) and forwards to the
// device.
func (p *Player) SetVolume(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if err := p.device.SetVolume(percent); err != nil {
		p.logger.Error("sound volume set failed", "error", err)
	}
}

// Config bundles the sound actor's CLI-derived settings (spec.md §6):
// --sounds-dir, --random-dir, --port, --volume.
type Config struct {
	Port      int
	SoundsDir string
	RandomDir string
	Volume    int
}

// DefaultConfig matches spec.md §6's defaults where stated.
func DefaultConfig() Config {
	return Config{Port: wire.DefaultSoundPort, Volume: 80}
}

// Run is the sound actor's main loop (spec.md §4.5, §5): it receives
// each command itself and applies it to Player in the same loop.
// The final Stop on shutdown is bounded by one second; a slower
// device teardown still lets the process exit promptly.
func Run(ctx context.Context, cfg Config, logger *log.Logger, player *Player) error {
	recv, err := wire.NewReceiver(cfg.Port)
	if err != nil {
		return err
	}
	defer recv.Close()

	player.SetVolume(cfg.Volume)

	for {
		select {
		case <-ctx.Done():
			stopped := make(chan struct{})
			go func() { player.Stop(); close(stopped) }()
			select {
			case <-stopped:
			case <-time.After(time.Second):
				logger.Error("sound actor worker shutdown timed out")
			}
			return nil
		default:
		}

		c, err := recv.Recv()
		switch {
		case err == nil:
			applyCommand(player, c, logger)
		case wire.IsTimeout(err):
		default:
			logger.Debug("sound actor recv error", "error", err)
		}
	}
}

func applyCommand(p *Player, c wire.Command, logger *log.Logger) {
	switch c.Op {
	case wire.OpSoundPlayFile:
		p.PlayFile(c.Name)
	case wire.OpSoundPlayRandom:
		p.PlayRandom()
	case wire.OpSoundStop:
		p.Stop()
	case wire.OpSoundVolume:
		p.SetVolume(int(c.Value))
	default:
		logger.Debug("sound actor dropped unexpected opcode", "op", c.Op)
	}
}
