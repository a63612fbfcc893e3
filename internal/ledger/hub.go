package ledger

import (
	"sync"

	"github.com/MrJamesThe3rd/finboard/internal/metrics"
)

// hub fans snapshots out to subscribers. Each subscriber has a one-slot
// buffer that always holds the newest undelivered snapshot.
type hub struct {
	mu      sync.Mutex
	subs    map[chan Snapshot]struct{}
	metrics *metrics.Metrics
}

func newHub(m *metrics.Metrics) *hub {
	return &hub{subs: make(map[chan Snapshot]struct{}), metrics: m}
}

// subscribe registers a channel primed with current(). current is read under
// the hub lock so no snapshot published meanwhile is missed.
func (h *hub) subscribe(current func() Snapshot) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	h.mu.Lock()
	ch <- current()
	h.subs[ch] = struct{}{}
	h.metrics.Subscribers(len(h.subs))
	h.mu.Unlock()

	var once sync.Once

	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.metrics.Subscribers(len(h.subs))
			h.mu.Unlock()

			close(ch)
		})
	}
}

func (h *hub) publish(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- s:
			continue
		default:
		}

		// Drop the stale snapshot the subscriber has not read yet.
		select {
		case <-ch:
		default:
		}

		select {
		case ch <- s:
		default:
		}
	}
}
