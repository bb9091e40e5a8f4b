package mqttbridge

import (
	"encoding/json"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/charmbracelet/log"
)

// Config bundles a shell's broker connection and robot identity
// (spec.md §6). AnimationsDir anchors ResolvePlayPath for every play
// request this shell accepts.
type Config struct {
	Broker        string `yaml:"broker"`
	ClientID      string `yaml:"client_id"`
	Name          string `yaml:"name"`
	AnimationsDir string `yaml:"animations_dir"`
}

// Handlers are the callbacks the shell invokes once a payload has been
// parsed and, for play, path-checked. Stop and System never fail in a
// way the shell needs to report back over MQTT; play errors are logged
// here, not published, per spec.md §7 ("the caller displays it").
type Handlers struct {
	Play   func(path string, delayMs int64, loop bool)
	Stop   func()
	System func(command string)
}

// Shell wraps a paho MQTT client subscribed to one robot's topic
// hierarchy: build a client config, connect, and keep a retained
// status topic updated as the service's liveness signal.
type Shell struct {
	cfg      Config
	client   mqtt.Client
	handlers Handlers
	logger   *log.Logger
}

// NewShell builds and connects a Shell. The last-will message
// `{"online":false}` is registered before Connect so the broker
// delivers it if this process dies without a clean disconnect (spec.md
// §6: "publishes a retained LWT {online:false} on its status topic").
func NewShell(cfg Config, handlers Handlers, logger *log.Logger) (*Shell, error) {
	lwt, err := json.Marshal(StatusPayload{Online: false})
	if err != nil {
		return nil, err
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetWill(StatusTopic(cfg.Name), string(lwt), 1, true).
		SetAutoReconnect(true)

	s := &Shell{cfg: cfg, handlers: handlers, logger: logger}
	opts.SetOnConnectHandler(func(c mqtt.Client) { s.onConnect(c) })

	client := mqtt.NewClient(opts)
	if tok := client.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, tok.Error()
	}
	s.client = client
	return s, nil
}

func (s *Shell) onConnect(c mqtt.Client) {
	c.Subscribe(PlayTopic(s.cfg.Name), 1, s.onPlay)
	c.Subscribe(StopTopic(s.cfg.Name), 1, s.onStop)
	c.Subscribe(SystemTopic(s.cfg.Name), 1, s.onSystem)
	s.publishStatus(true)
}

func (s *Shell) onPlay(_ mqtt.Client, msg mqtt.Message) {
	var p PlayPayload
	if err := json.Unmarshal(msg.Payload(), &p); err != nil {
		s.logger.Error("mqtt shell: malformed play payload", "error", err)
		return
	}
	resolved, err := ResolvePlayPath(s.cfg.AnimationsDir, p.File)
	if err != nil {
		s.logger.Error("mqtt shell: rejected play request", "error", err)
		return
	}
	if s.handlers.Play != nil {
		s.handlers.Play(resolved, p.Delay, p.Loop)
	}
}

func (s *Shell) onStop(_ mqtt.Client, _ mqtt.Message) {
	if s.handlers.Stop != nil {
		s.handlers.Stop()
	}
}

func (s *Shell) onSystem(_ mqtt.Client, msg mqtt.Message) {
	var p SystemPayload
	if err := json.Unmarshal(msg.Payload(), &p); err != nil {
		s.logger.Error("mqtt shell: malformed system payload", "error", err)
		return
	}
	if s.handlers.System != nil {
		s.handlers.System(p.Command)
	}
}

func (s *Shell) publishStatus(online bool) {
	body, err := json.Marshal(StatusPayload{Online: online})
	if err != nil {
		s.logger.Error("mqtt shell: encoding status", "error", err)
		return
	}
	s.client.Publish(StatusTopic(s.cfg.Name), 1, true, body)
}

// Close publishes the offline status retained, then disconnects.
func (s *Shell) Close() {
	s.publishStatus(false)
	s.client.Disconnect(250)
}
