// Command mqttshell is the optional remote-control shell (spec.md
// §6): it translates a small MQTT topic hierarchy into bundle-player
// and system commands for one named robot head.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/kenavn/skelctl/internal/bundleplayer"
	"github.com/kenavn/skelctl/internal/mqttbridge"
	"github.com/kenavn/skelctl/internal/wire"
)

func main() {
	configPath := pflag.String("config", "", "YAML file with broker/client_id/name/animations_dir (required)")
	eyeHost := pflag.String("eye-host", "127.0.0.1", "eye actor host")
	eyePort := pflag.Int("eye-port", wire.DefaultEyePort, "eye actor UDP port")
	mouthHost := pflag.String("mouth-host", "127.0.0.1", "mouth actor host")
	mouthPort := pflag.Int("mouth-port", wire.DefaultMouthPort, "mouth actor UDP port")
	mdnsPort := pflag.Int("mdns-port", 1883, "port advertised alongside the mDNS service record")
	noMdns := pflag.Bool("no-mdns", false, "disable mDNS/DNS-SD advertisement")
	debug := pflag.Bool("debug", false, "enable debug logging")
	help := pflag.Bool("help", false, "display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - mqtt shell: remote play/stop/system control over MQTT.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		os.Exit(0)
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "--config is required")
		pflag.Usage()
		os.Exit(2)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "mqttshell"})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	cfg, err := mqttbridge.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ctl := &playbackController{
		eyeHost: *eyeHost, eyePort: *eyePort,
		mouthHost: *mouthHost, mouthPort: *mouthPort,
		logger: logger,
	}

	handlers := mqttbridge.Handlers{
		Play:   ctl.Play,
		Stop:   ctl.Stop,
		System: func(cmd string) { runSystemCommand(cmd, logger) },
	}

	shell, err := mqttbridge.NewShell(cfg, handlers, logger)
	if err != nil {
		logger.Fatal("failed to connect mqtt shell", "error", err)
	}
	defer shell.Close()

	if !*noMdns {
		if err := mqttbridge.AnnounceMDNS(ctx, cfg.Name, *mdnsPort, logger); err != nil {
			logger.Warn("mdns announcement failed", "error", err)
		}
	}

	logger.Info("mqtt shell ready", "name", cfg.Name, "broker", cfg.Broker)
	<-ctx.Done()
	ctl.Stop()
}

// playbackController owns the currently-running bundle player so an
// animation/stop message can cancel an in-progress animation/play
// (spec.md §6's play/stop pair), one at a time per spec.md §3's
// single-voice expectation for authored playback.
type playbackController struct {
	eyeHost, mouthHost string
	eyePort, mouthPort int
	logger             *log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

func (c *playbackController) Play(path string, delayMs int64, loop bool) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	go func() {
		cfg := bundleplayer.RunConfig{
			Config: bundleplayer.Config{
				EyeHost: c.eyeHost, EyePort: c.eyePort,
				MouthHost: c.mouthHost, MouthPort: c.mouthPort,
				StartDelayMs: delayMs,
				Loop:         loop,
			},
			BundlePath: path,
		}
		clock, err := bundleplayer.NewPortaudioClock()
		var audio bundleplayer.AudioClock
		if err != nil {
			c.logger.Warn("mqtt shell: no audio clock, playing silently", "error", err)
		} else {
			defer clock.Close()
			audio = clock
		}
		if err := bundleplayer.PlayPath(ctx, cfg, audio, c.logger); err != nil {
			c.logger.Error("mqtt shell: play failed", "path", path, "error", err)
		}
	}()
}

func (c *playbackController) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// runSystemCommand executes the two operations spec.md §6 names for
// the system topic. Anything else is logged and dropped (spec.md §7).
func runSystemCommand(cmd string, logger *log.Logger) {
	var name string
	switch cmd {
	case "shutdown":
		name = "poweroff"
	case "reboot":
		name = "reboot"
	default:
		logger.Warn("mqtt shell: unknown system command", "command", cmd)
		return
	}
	logger.Info("mqtt shell: executing system command", "command", cmd)
	if err := exec.Command("systemctl", name).Run(); err != nil {
		logger.Error("mqtt shell: system command failed", "command", cmd, "error", err)
	}
}
