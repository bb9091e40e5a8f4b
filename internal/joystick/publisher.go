package joystick

import "sync"

// Publisher fans snapshots out to subscribers -- the eye adapter, the
// mouth adapter, and the recorder each get their own channel, matching
// spec.md §4.7's "publishes immutable snapshots to subscribers."
type Publisher struct {
	mu   sync.Mutex
	subs []chan<- Snapshot
}

// Subscribe registers ch to receive every future Publish. Sends are
// non-blocking: a subscriber that falls behind misses snapshots rather
// than stalling the reader thread that owns the hardware device.
func (p *Publisher) Subscribe(ch chan<- Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, ch)
}

func (p *Publisher) Publish(s Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.subs {
		select {
		case ch <- s:
		default:
		}
	}
}
