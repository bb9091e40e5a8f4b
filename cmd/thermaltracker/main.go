// Command thermaltracker is the thermal tracker process (spec.md
// §4.6): it reads an AMG8833 8x8 thermal array, computes a
// temperature-weighted centroid, and drives the eye actor through
// takeover/release hysteresis.
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
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"

	"github.com/kenavn/skelctl/internal/config"
	"github.com/kenavn/skelctl/internal/thermaltracker"
)

func main() {
	cfg := thermaltracker.DefaultServerConfig()

	configPath := pflag.String("config", "", "optional INI file with [network]/[tracking]/[features] sections; CLI flags override it")
	eyeHost := pflag.String("eye-host", cfg.EyeHost, "eye actor host")
	eyePort := pflag.Int("eye-port", cfg.EyePort, "eye actor UDP port")
	thermalPort := pflag.Int("thermal-port", cfg.StatusPort, "UDP port this process answers status queries on")
	rate := pflag.Duration("rate", cfg.Tracking.UpdateRate, "sensor sample rate")
	sensitivity := pflag.Float64("sensitivity", cfg.Tracking.Sensitivity, "temperature-to-weight sensitivity")
	positionThreshold := pflag.Float64("position-threshold", cfg.Tracking.PositionThreshold, "minimum centroid movement to re-issue a gaze command")
	smoothing := pflag.Float64("smoothing", cfg.Tracking.Smoothing, "exponential smoothing alpha applied to the centroid")
	soundHost := pflag.String("sound-host", cfg.SoundHost, "sound actor host")
	soundPort := pflag.Int("sound-port", cfg.SoundPort, "sound actor UDP port")
	enableDetectionSound := pflag.Bool("enable-detection-sound", false, "play a sound on the idle-to-tracking edge")
	detectionSoundFile := pflag.String("detection-sound-file", "", "specific file to request on detection; empty plays a random sound")
	detectionThreshold := pflag.Float64("detection-threshold", cfg.Tracking.DetectionThreshold, "temperature delta required to begin tracking")
	debug := pflag.Bool("debug", false, "enable debug logging")
	help := pflag.Bool("help", false, "display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - thermal tracker: AMG8833-driven eye takeover.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	ini, err := config.LoadOrEmpty(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load --config %s: %v\n", *configPath, err)
		os.Exit(2)
	}

	// File values fill in anything left at its flag default; explicit
	// flags always win (spec.md §6: "CLI overrides file, defaults apply
	// last").
	cfg.EyeHost = ini.String("network", "eye_host", *eyeHost)
	cfg.EyePort = ini.Int("network", "eye_port", *eyePort)
	cfg.StatusPort = ini.Int("network", "thermal_port", *thermalPort)
	cfg.SoundHost = ini.String("network", "sound_host", *soundHost)
	cfg.SoundPort = ini.Int("network", "sound_port", *soundPort)

	cfg.Tracking.UpdateRate = durationOrDefault(ini.String("tracking", "rate", ""), *rate)
	cfg.Tracking.Sensitivity = ini.Float("tracking", "sensitivity", *sensitivity)
	cfg.Tracking.PositionThreshold = ini.Float("tracking", "position_threshold", *positionThreshold)
	cfg.Tracking.Smoothing = ini.Float("tracking", "smoothing", *smoothing)
	cfg.Tracking.DetectionThreshold = ini.Float("tracking", "detection_threshold", *detectionThreshold)

	cfg.EnableDetectionSound = ini.Bool("features", "enable_detection_sound", *enableDetectionSound)
	cfg.RandomSound = ini.String("features", "detection_sound_file", *detectionSoundFile)

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "thermal"})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	if _, err := host.Init(); err != nil {
		logger.Fatal("failed to init periph host drivers", "error", err)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		logger.Fatal("failed to open i2c bus", "error", err)
	}
	sensor := thermaltracker.OpenAMG8833(bus)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := thermaltracker.Run(ctx, cfg, logger, sensor); err != nil {
		logger.Fatal("thermal tracker exited with error", "error", err)
	}
}

func durationOrDefault(raw string, def time.Duration) time.Duration {
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
