package joystick

import (
	"time"

	"github.com/kenavn/skelctl/internal/wire"
)

const (
	resendSpacing = 10 * time.Millisecond
	quietPeriod   = 40 * time.Millisecond
)

// ResendQueue implements spec.md §4.7's button-edge reliability rule:
// each queued command is sent twice, 10ms apart, then a 40ms quiet
// period follows before the next queued command goes out, so a single
// dropped UDP datagram never loses a blink edge.
type ResendQueue struct {
	commands chan wire.Command
	send     func(wire.Command)
	done     chan struct{}
}

// NewResendQueue starts the worker goroutine; send is called from that
// goroutine only, so it need not be safe for concurrent use.
func NewResendQueue(send func(wire.Command)) *ResendQueue {
	q := &ResendQueue{
		commands: make(chan wire.Command, 32),
		send:     send,
		done:     make(chan struct{}),
	}
	go q.run()
	return q
}

// Enqueue schedules a command for the double-send/quiet-period
// treatment. Nothing is dropped or merged: while the 32-command buffer
// is full, Enqueue blocks until the worker takes a command or the
// queue is closed.
func (q *ResendQueue) Enqueue(c wire.Command) {
	select {
	case q.commands <- c:
	case <-q.done:
	}
}

func (q *ResendQueue) run() {
	for {
		select {
		case c := <-q.commands:
			q.send(c)
			select {
			case <-time.After(resendSpacing):
			case <-q.done:
				return
			}
			q.send(c)
			select {
			case <-time.After(quietPeriod):
			case <-q.done:
				return
			}
		case <-q.done:
			return
		}
	}
}

// Close stops the worker without draining pending commands. The
// commands channel is left for garbage collection rather than closed,
// since Enqueue may still be racing a final send.
func (q *ResendQueue) Close() {
	close(q.done)
}
