package mqttbridge

import (
	"context"

	"github.com/brutella/dnssd"

	"github.com/charmbracelet/log"
)

// mdnsServiceType identifies this shell's MQTT control plane on the LAN.
const mdnsServiceType = "_skelctl-mqtt._tcp"

// AnnounceMDNS advertises name on the LAN via mDNS/DNS-SD so a control
// app can discover this head's MQTT shell without a hardcoded broker
// address. It runs the responder in the background and returns
// immediately; cancel ctx to stop advertising.
func AnnounceMDNS(ctx context.Context, name string, port int, logger *log.Logger) error {
	cfg := dnssd.Config{
		Name: name,
		Type: mdnsServiceType,
		Port: port,
	}

	sv, err := dnssd.NewService(cfg)
	if err != nil {
		return err
	}

	rp, err := dnssd.NewResponder()
	if err != nil {
		return err
	}

	if _, err := rp.Add(sv); err != nil {
		return err
	}

	logger.Info("dns-sd: announcing mqtt shell", "name", name, "port", port)
	go func() {
		if err := rp.Respond(ctx); err != nil && ctx.Err() == nil {
			logger.Error("dns-sd: responder error", "error", err)
		}
	}()
	return nil
}
