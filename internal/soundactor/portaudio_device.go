package soundactor

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
)

// PortaudioDevice streams decoded PCM samples to the default output
// device via github.com/gordonklaus/portaudio. Only uncompressed WAV
// is decoded; mp3/ogg/flac playback requires a codec this package
// does not carry (see DESIGN.md).
type PortaudioDevice struct {
	mu     sync.Mutex
	volume atomic.Int32 // percent, 0-100
}

// NewPortaudioDevice initialises the portaudio library. Callers must
// call Close when the process exits.
func NewPortaudioDevice() (*PortaudioDevice, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("soundactor: portaudio init: %w", err)
	}
	d := &PortaudioDevice{}
	d.volume.Store(100)
	return d, nil
}

// Close terminates the portaudio library.
func (d *PortaudioDevice) Close() error {
	return portaudio.Terminate()
}

// SetVolume implements Device.
func (d *PortaudioDevice) SetVolume(percent int) error {
	d.volume.Store(int32(percent))
	return nil
}

// Play implements Device: it decodes a WAV file and streams it,
// applying the current volume as linear amplitude scaling, returning
// a stop function that blocks until the stream has actually stopped.
func (d *PortaudioDevice) Play(path string) (func(), error) {
	if !strings.EqualFold(filepathExt(path), ".wav") {
		return nil, fmt.Errorf("soundactor: portaudio device only decodes WAV, got %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	samples, sampleRate, channels, err := DecodeWAV(f)
	f.Close()
	if err != nil {
		return nil, err
	}

	const framesPerBuffer = 1024
	buf := make([]float32, framesPerBuffer*channels)
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(sampleRate), framesPerBuffer, &buf)
	if err != nil {
		return nil, fmt.Errorf("soundactor: opening playback stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("soundactor: starting playback stream: %w", err)
	}

	stopped := make(chan struct{})
	stopRequested := make(chan struct{})
	go func() {
		defer close(stopped)
		defer stream.Stop()
		defer stream.Close()

		cursor := 0
		for cursor < len(samples) {
			select {
			case <-stopRequested:
				return
			default:
			}
			vol := float32(d.volume.Load()) / 100
			n := copy(buf, samples[cursor:])
			for i := n; i < len(buf); i++ {
				buf[i] = 0
			}
			for i := 0; i < n; i++ {
				buf[i] *= vol
			}
			cursor += n
			if err := stream.Write(); err != nil {
				return
			}
		}
	}()

	stop := func() {
		close(stopRequested)
		<-stopped
	}
	return stop, nil
}

func filepathExt(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[i:]
}

// DecodeWAV reads a canonical PCM16 WAV file into float32 samples in
// [-1,1], interleaved by channel. Exported so internal/bundleplayer's
// audio clock can decode the same way without a second WAV parser.
func DecodeWAV(r io.Reader) (samples []float32, sampleRate, channels int, err error) {
	var riffHeader [12]byte
	if _, err = io.ReadFull(r, riffHeader[:]); err != nil {
		return nil, 0, 0, err
	}
	if string(riffHeader[0:4]) != "RIFF" || string(riffHeader[8:12]) != "WAVE" {
		return nil, 0, 0, fmt.Errorf("soundactor: not a RIFF/WAVE file")
	}

	var bitsPerSample uint16
	var dataBytes []byte

	for {
		var chunkHeader [8]byte
		if _, err = io.ReadFull(r, chunkHeader[:]); err != nil {
			break
		}
		id := string(chunkHeader[0:4])
		size := le32(chunkHeader[4:8])
		body := make([]byte, size)
		if _, err = io.ReadFull(r, body); err != nil {
			return nil, 0, 0, err
		}
		if size%2 == 1 {
			var pad [1]byte
			io.ReadFull(r, pad[:])
		}

		switch id {
		case "fmt ":
			channels = int(le16(body[2:4]))
			sampleRate = int(le32(body[4:8]))
			bitsPerSample = le16(body[14:16])
		case "data":
			dataBytes = body
		}
	}

	if channels == 0 || sampleRate == 0 || dataBytes == nil {
		return nil, 0, 0, fmt.Errorf("soundactor: wav missing fmt/data chunks")
	}
	if bitsPerSample != 16 {
		return nil, 0, 0, fmt.Errorf("soundactor: only 16-bit PCM wav is supported, got %d bits", bitsPerSample)
	}

	samples = make([]float32, len(dataBytes)/2)
	for i := range samples {
		v := int16(le16(dataBytes[2*i : 2*i+2]))
		samples[i] = float32(v) / 32768
	}
	return samples, sampleRate, channels, nil
}

func le16(b []byte) uint16 { return uint16(b[0]) | uint16(b[1])<<8 }
func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
