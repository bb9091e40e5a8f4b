// Command joystickadapter is the authoring-side joystick adapter
// (spec.md §4.7): it reads a local gamepad, drives the eye and mouth
// actors over UDP, and mirrors its snapshots into an in-process
// Recorder (spec.md §4.8) that can be saved to a bundle on demand.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pkg/term"
	"github.com/spf13/pflag"

	"github.com/kenavn/skelctl/internal/bundle"
	"github.com/kenavn/skelctl/internal/joystick"
	"github.com/kenavn/skelctl/internal/recorder"
)

func main() {
	cfg := joystick.DefaultConfig()

	deviceIndex := pflag.Int("device-index", 0, "/dev/input/js<index> to open")
	eyeHost := pflag.String("eye-host", cfg.EyeHost, "eye actor host")
	eyePort := pflag.Int("eye-port", cfg.EyePort, "eye actor UDP port")
	mouthHost := pflag.String("mouth-host", cfg.MouthHost, "mouth actor host")
	mouthPort := pflag.Int("mouth-port", cfg.MouthPort, "mouth actor UDP port")
	rightStickMouth := pflag.Bool("right-stick-mouth", false, "bind the right stick's Y axis to mouth position instead of eyelid weight")
	record := pflag.Bool("record", false, "start recording immediately")
	out := pflag.String("out", "", "bundle path to write on stop/exit while recording; may contain strftime directives (e.g. skelanim-%Y%m%d-%H%M%S.skelanim) for a fresh filename per save")
	audio := pflag.String("audio", "", "optional audio file to embed in the saved bundle")
	watchHotplug := pflag.Bool("watch-hotplug", true, "log udev input add/remove events")
	debug := pflag.Bool("debug", false, "enable debug logging")
	help := pflag.Bool("help", false, "display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - joystick adapter: gamepad -> eye/mouth UDP, mirrored into a recorder.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	cfg.DeviceIndex = *deviceIndex
	cfg.EyeHost, cfg.EyePort = *eyeHost, *eyePort
	cfg.MouthHost, cfg.MouthPort = *mouthHost, *mouthPort
	if *rightStickMouth {
		cfg.Mode = joystick.RightStickMouth
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "joystick"})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *watchHotplug {
		go func() {
			if err := joystick.WatchHotplug(ctx, logger); err != nil {
				logger.Debug("joystick: hotplug watcher exited", "error", err)
			}
		}()
	}

	rec := &recorder.Recorder{}
	if *record {
		if *out == "" {
			fmt.Fprintln(os.Stderr, "--record requires --out")
			os.Exit(2)
		}
		rec.Start(time.Now())
		logger.Info("recording started")
	}

	pub := &joystick.Publisher{}
	snapshots := make(chan joystick.Snapshot, 64)
	pub.Subscribe(snapshots)
	go mirrorSnapshots(ctx, rec, snapshots, logger)

	go runConsole(ctx, cancel, rec, out, audio, logger)

	if err := joystick.Run(ctx, cfg, logger, joystick.Open, pub); err != nil {
		logger.Fatal("joystick adapter exited with error", "error", err)
	}

	if rec.IsRecording() && *out != "" {
		saveBundle(rec, *out, *audio, logger)
	}
}

// changeEpsilon matches the mapper's own gaze change-detection
// tolerance (internal/joystick's gazeEpsilon) so the recorder doesn't
// treat analog jitter below that threshold as a real change; it is
// applied to the eyelid weight as well.
const changeEpsilon = 0.03

// mirrorSnapshots reproduces spec.md §4.7/§4.8's "mirrored into the
// Recorder": it gates on the track's own change-only contract (§2.8,
// §3, §4.8) rather than recording every published Snapshot, since the
// joystick publishes one snapshot per 100ms poll regardless of whether
// anything moved. Recording happens synchronously, in channel-arrival
// order, so the recorder's strict-monotonicity guard never sees two
// samples racing for the same tick.
func mirrorSnapshots(ctx context.Context, rec *recorder.Recorder, snapshots <-chan joystick.Snapshot, logger *log.Logger) {
	var last joystick.Snapshot
	haveLast := false

	for {
		select {
		case <-ctx.Done():
			return
		case s := <-snapshots:
			if !rec.IsRecording() {
				haveLast = false
				continue
			}
			now := time.Now()

			eyeChanged := !haveLast ||
				diffExceeds(s.GazeX, last.GazeX, changeEpsilon) ||
				diffExceeds(s.GazeY, last.GazeY, changeEpsilon) ||
				diffExceeds(s.EyelidWeight, last.EyelidWeight, changeEpsilon) ||
				s.South != last.South
			mouthChanged := !haveLast || s.MouthPos != last.MouthPos

			if eyeChanged {
				if err := rec.RecordEye(now, s.GazeX, s.GazeY, s.EyelidWeight, s.EyelidWeight, s.South); err != nil {
					logger.Warn("joystick: dropped eye sample", "error", err)
				}
			}
			if mouthChanged {
				if err := rec.RecordMouth(now, s.MouthPos); err != nil {
					logger.Warn("joystick: dropped mouth sample", "error", err)
				}
			}

			last, haveLast = s, true
		}
	}
}

func diffExceeds(a, b, epsilon float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d > epsilon
}

// runConsole gives an operator bench control over recording without a
// second process, grounded on the same github.com/pkg/term raw-mode
// console as cmd/eyeactor: s toggles start/stop, w saves the current
// tracks without stopping, q requests shutdown.
func runConsole(ctx context.Context, cancel context.CancelFunc, rec *recorder.Recorder, out, audio *string, logger *log.Logger) {
	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		logger.Debug("console unavailable", "error", err)
		return
	}
	defer tty.Restore()
	defer tty.Close()

	logger.Info("console ready: s start/stop recording, w save, q quit")
	buf := make([]byte, 1)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := tty.Read(buf)
		if err != nil || n == 0 {
			continue
		}
		switch buf[0] {
		case 's':
			if rec.IsRecording() {
				saveBundle(rec, *out, *audio, logger)
			} else {
				rec.Start(time.Now())
				logger.Info("recording started")
			}
		case 'w':
			if rec.IsRecording() {
				writeBundleSnapshot(rec, *out, *audio, logger)
			}
		case 'q':
			cancel()
			return
		}
	}
}

func saveBundle(rec *recorder.Recorder, out, audio string, logger *log.Logger) {
	eye, mouth := rec.Stop(100 * time.Millisecond)
	if out == "" {
		logger.Warn("recording stopped with no --out, discarding tracks")
		return
	}
	path, err := writeBundleAndSidecar(out, eye, mouth, audio, time.Now())
	if err != nil {
		logger.Error("failed to save bundle", "error", err)
		return
	}
	logger.Info("bundle saved", "path", path, "eye_samples", len(eye), "mouth_samples", len(mouth))
}

// writeBundleSnapshot stops the recording, saves the tracks recorded
// so far, and starts a new recording immediately. The new recording
// begins with empty tracks and time_ms counting from zero again, so
// each save holds only what was recorded since the previous one.
func writeBundleSnapshot(rec *recorder.Recorder, out, audio string, logger *log.Logger) {
	eye, mouth := rec.Stop(100 * time.Millisecond)
	rec.Start(time.Now())
	if out == "" {
		return
	}
	if _, err := writeBundleAndSidecar(out, eye, mouth, audio, time.Now()); err != nil {
		logger.Error("failed to save bundle snapshot", "error", err)
	}
}

// writeBundleAndSidecar expands out through BackupFileName when it
// carries strftime directives (so repeated saves don't overwrite one
// another), saves the archive, and drops a manifest.yaml sidecar next
// to it for an operator to read without unzipping. The sidecar write
// is best-effort: it is never read back by Load, so a failure there
// is reported but does not undo an otherwise-successful save.
func writeBundleAndSidecar(out string, eye []recorder.EyeSample, mouth []recorder.MouthSample, audio string, now time.Time) (string, error) {
	path := out
	if strings.ContainsRune(out, '%') {
		formatted, err := bundle.BackupFileName(out, now)
		if err != nil {
			return "", fmt.Errorf("expanding --out pattern: %w", err)
		}
		path = formatted
	}

	if err := bundle.Save(path, eye, mouth, audio, now); err != nil {
		return path, err
	}

	manifest := bundle.ManifestFor(audio, len(eye)+len(mouth), now)
	if err := bundle.WriteYAMLSidecar(filepath.Dir(path), manifest); err != nil {
		return path, fmt.Errorf("bundle saved but sidecar write failed: %w", err)
	}
	return path, nil
}
