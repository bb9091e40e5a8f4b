package joystick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishFanOutToAllSubscribers(t *testing.T) {
	p := &Publisher{}
	a := make(chan Snapshot, 1)
	b := make(chan Snapshot, 1)
	p.Subscribe(a)
	p.Subscribe(b)

	p.Publish(Snapshot{GazeX: 0.25})

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, 0.25, (<-a).GazeX)
	assert.Equal(t, 0.25, (<-b).GazeX)
}

func TestPublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	p := &Publisher{}
	full := make(chan Snapshot, 1)
	full <- Snapshot{}
	p.Subscribe(full)

	done := make(chan struct{})
	go func() {
		p.Publish(Snapshot{GazeX: 0.9})
		close(done)
	}()
	<-done // would hang here if Publish blocked on the full channel
}
