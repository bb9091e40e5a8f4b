package backlightactor

import (
	"context"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPWM struct {
	levels []byte
}

func (m *mockPWM) SetBrightness(level byte) error {
	m.levels = append(m.levels, level)
	return nil
}

func TestBacklightShutdownRestoresFullBrightness(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Port = 0 // ephemeral port to avoid clashing with a running actor
	cfg.Brightness = 10

	ln, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	_, portStr, _ := net.SplitHostPort(ln.LocalAddr().String())
	port, _ := strconv.Atoi(portStr)
	require.NoError(t, ln.Close())
	cfg.Port = port

	pwm := &mockPWM{}
	logger := log.New(io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, logger, pwm) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("actor did not shut down")
	}

	require.NotEmpty(t, pwm.levels)
	assert.Equal(t, byte(255), pwm.levels[len(pwm.levels)-1])
}
