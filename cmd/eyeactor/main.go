// Command eyeactor is the eye actor process (spec.md §4.2): it arbitrates
// autonomous saccade/blink/pupil drivers against commands arriving on
// its UDP port and renders one Frame per tick.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/pkg/term"
	"github.com/spf13/pflag"

	"github.com/kenavn/skelctl/internal/eyeactor"
	"github.com/kenavn/skelctl/internal/wire"
)

func main() {
	cfg := eyeactor.DefaultConfig()

	port := pflag.IntP("port", "p", cfg.Port, "UDP port to listen on")
	radius := pflag.Int("radius", cfg.Radius, "eye radius in the rendering backend's units")
	crazyEyes := pflag.Bool("crazy-eyes", false, "disable the left/right gaze-coupling that keeps both eyes aligned")
	interactive := pflag.Bool("interactive", false, "read single-character wire commands from the controlling terminal for bench testing")
	debug := pflag.Bool("debug", false, "enable debug logging")
	help := pflag.Bool("help", false, "display help text")

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - eye actor: autonomous gaze/blink/pupil with wire overrides.\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()
	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	cfg.Port = *port
	cfg.Radius = *radius
	cfg.CrazyEyes = *crazyEyes

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "eye"})
	if *debug {
		logger.SetLevel(log.DebugLevel)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sink := eyeactor.FrameSinkFunc(func(f eyeactor.Frame) {
		logger.Debug("frame", "gaze_x", f.GazeX, "gaze_y", f.GazeY, "lid_l", f.EyelidLeft, "lid_r", f.EyelidRight)
	})

	if *interactive {
		go runInteractiveConsole(ctx, cfg.Port, logger)
	}

	if err := eyeactor.Run(ctx, cfg, logger, sink); err != nil {
		logger.Fatal("eye actor exited with error", "error", err)
	}
}

// runInteractiveConsole lets an operator type single-character wire
// commands at a raw terminal for bench testing without a joystick.
func runInteractiveConsole(ctx context.Context, port int, logger *log.Logger) {
	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		logger.Error("interactive console: failed to open controlling terminal", "error", err)
		return
	}
	defer tty.Restore()
	defer tty.Close()

	sender, err := wire.NewSender("127.0.0.1", port)
	if err != nil {
		logger.Error("interactive console: failed to dial eye actor", "error", err)
		return
	}
	defer sender.Close()

	logger.Info("interactive console ready: l/r blink, b both-blink, a toggle auto-movement, q quit")
	buf := make([]byte, 1)
	autoMovement := true
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
		var cmds []wire.Command
		switch buf[0] {
		case 'l':
			cmds = []wire.Command{{Op: wire.OpLeftBlinkStart}, {Op: wire.OpLeftBlinkEnd}}
		case 'r':
			cmds = []wire.Command{{Op: wire.OpRightBlinkStart}, {Op: wire.OpRightBlinkEnd}}
		case 'b':
			cmds = []wire.Command{{Op: wire.OpBothBlinkStart}, {Op: wire.OpBothBlinkEnd}}
		case 'a':
			autoMovement = !autoMovement
			op := wire.OpAutoMovementOff
			if autoMovement {
				op = wire.OpAutoMovementOn
			}
			cmds = []wire.Command{{Op: op}}
		case 'q':
			return
		default:
			continue
		}
		for _, cmd := range cmds {
			if err := sender.Send(wire.Encode(cmd)); err != nil {
				logger.Error("interactive console: send failed", "error", err)
			}
		}
	}
}
