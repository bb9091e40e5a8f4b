package joystick

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kenavn/skelctl/internal/wire"
)

func TestResendQueueSendsTwice(t *testing.T) {
	var mu sync.Mutex
	var sent []wire.Command

	q := NewResendQueue(func(c wire.Command) {
		mu.Lock()
		sent = append(sent, c)
		mu.Unlock()
	})
	defer q.Close()

	q.Enqueue(wire.Command{Op: wire.OpLeftBlinkStart})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(sent) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, wire.OpLeftBlinkStart, sent[0].Op)
	assert.Equal(t, wire.OpLeftBlinkStart, sent[1].Op)
}

func TestResendQueueProcessesSequentially(t *testing.T) {
	var mu sync.Mutex
	var sent []wire.Command

	q := NewResendQueue(func(c wire.Command) {
		mu.Lock()
		sent = append(sent, c)
		mu.Unlock()
	})
	defer q.Close()

	q.Enqueue(wire.Command{Op: wire.OpLeftBlinkStart})
	q.Enqueue(wire.Command{Op: wire.OpLeftBlinkEnd})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(sent) == 4
	}, 2*time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, wire.OpLeftBlinkStart, sent[0].Op)
	assert.Equal(t, wire.OpLeftBlinkStart, sent[1].Op)
	assert.Equal(t, wire.OpLeftBlinkEnd, sent[2].Op)
	assert.Equal(t, wire.OpLeftBlinkEnd, sent[3].Op)
}
