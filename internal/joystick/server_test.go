package joystick

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	mu      sync.Mutex
	current RawState
	closed  bool
}

func (f *fakeDevice) Read() (RawState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current, nil
}

func (f *fakeDevice) Close() { f.closed = true }

func TestRunSendsGazeToEyePort(t *testing.T) {
	eyeConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	require.NoError(t, err)
	defer eyeConn.Close()
	eyePort := eyeConn.LocalAddr().(*net.UDPAddr).Port

	mouthConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	require.NoError(t, err)
	defer mouthConn.Close()
	mouthPort := mouthConn.LocalAddr().(*net.UDPAddr).Port

	cfg := DefaultConfig()
	cfg.EyeHost, cfg.MouthHost = "127.0.0.1", "127.0.0.1"
	cfg.EyePort, cfg.MouthPort = eyePort, mouthPort

	dev := &fakeDevice{current: RawState{AxisData: []int{0, 0, 0, 0, 0}}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- Run(ctx, cfg, log.New(io.Discard), func(int) (Device, error) { return dev, nil }, nil)
	}()

	require.NoError(t, eyeConn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 64)
	n, err := eyeConn.Read(buf)
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, 1)
	require.Equal(t, byte(0x20), buf[0])

	cancel()
	<-errCh
}
