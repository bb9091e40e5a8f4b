package bundleplayer

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/kenavn/skelctl/internal/soundactor"
)

// PortaudioClock plays a WAV file and reports elapsed playback time by
// counting frames actually written to the stream, giving Player's
// drift-correction loop a real audio-device-driven clock instead of a
// wall-clock estimate (spec.md §4.10). Decoding is shared with
// internal/soundactor's device via soundactor.DecodeWAV.
type PortaudioClock struct {
	mu          sync.Mutex
	stream      *portaudio.Stream
	sampleRate  int
	framesSent  atomic.Int64
	playing     atomic.Bool
	stopRequest chan struct{}
	done        chan struct{}
}

// NewPortaudioClock initialises the portaudio library. Callers must
// call Close when the process exits.
func NewPortaudioClock() (*PortaudioClock, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("bundleplayer: portaudio init: %w", err)
	}
	return &PortaudioClock{}, nil
}

// Close terminates the portaudio library.
func (c *PortaudioClock) Close() error {
	return portaudio.Terminate()
}

// Start implements AudioClock.
func (c *PortaudioClock) Start(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	samples, sampleRate, channels, err := soundactor.DecodeWAV(f)
	f.Close()
	if err != nil {
		return err
	}

	const framesPerBuffer = 1024
	buf := make([]float32, framesPerBuffer*channels)
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(sampleRate), framesPerBuffer, &buf)
	if err != nil {
		return fmt.Errorf("bundleplayer: opening audio clock stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return fmt.Errorf("bundleplayer: starting audio clock stream: %w", err)
	}

	c.stream = stream
	c.sampleRate = sampleRate
	c.framesSent.Store(0)
	c.playing.Store(true)
	c.stopRequest = make(chan struct{})
	c.done = make(chan struct{})

	go func() {
		defer close(c.done)
		defer stream.Stop()
		defer stream.Close()

		framesPerWrite := len(buf) / channels
		cursor := 0
		total := len(samples) / channels
		for cursor < total {
			select {
			case <-c.stopRequest:
				return
			default:
			}
			n := framesPerWrite
			if total-cursor < n {
				n = total - cursor
			}
			copy(buf, samples[cursor*channels:(cursor+n)*channels])
			for i := n * channels; i < len(buf); i++ {
				buf[i] = 0
			}
			if err := stream.Write(); err != nil {
				return
			}
			cursor += n
			c.framesSent.Store(int64(cursor))
		}
		c.playing.Store(false)
	}()
	return nil
}

// Position implements AudioClock: elapsed time derived from frames
// actually written to the device, not wall-clock time since Start.
func (c *PortaudioClock) Position() (time.Duration, bool) {
	if !c.playing.Load() {
		return 0, false
	}
	frames := c.framesSent.Load()
	sampleRate := c.sampleRate
	if sampleRate == 0 {
		return 0, false
	}
	return time.Duration(frames) * time.Second / time.Duration(sampleRate), true
}

// Stop implements AudioClock.
func (c *PortaudioClock) Stop() {
	c.mu.Lock()
	stopRequest, done := c.stopRequest, c.done
	c.mu.Unlock()
	if stopRequest == nil {
		return
	}
	select {
	case <-stopRequest:
	default:
		close(stopRequest)
	}
	if done != nil {
		<-done
	}
	c.playing.Store(false)
}
