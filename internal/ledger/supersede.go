package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// recordKey names the record a request targets. The zero key is never
// superseded.
type recordKey struct {
	kind string
	id   uuid.UUID
}

func accountKey(id uuid.UUID) recordKey     { return recordKey{kind: "account", id: id} }
func transactionKey(id uuid.UUID) recordKey { return recordKey{kind: "transaction", id: id} }
func billKey(id uuid.UUID) recordKey        { return recordKey{kind: "bill", id: id} }

type ticket struct {
	key recordKey
	gen uint64
}

type pending struct {
	gen    uint64
	cancel context.CancelFunc
}

// tickets tracks the newest request per record. Registering a request for a
// record cancels the context of the one it replaces.
type tickets struct {
	mu   sync.Mutex
	gen  uint64
	live map[recordKey]pending
}

func newTickets() *tickets {
	return &tickets{live: make(map[recordKey]pending)}
}

func (t *tickets) begin(ctx context.Context, key recordKey) (context.Context, ticket, func()) {
	if key == (recordKey{}) {
		return ctx, ticket{}, func() {}
	}

	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	t.gen++
	tk := ticket{key: key, gen: t.gen}

	if prev, ok := t.live[key]; ok {
		prev.cancel()
	}

	t.live[key] = pending{gen: tk.gen, cancel: cancel}
	t.mu.Unlock()

	done := func() {
		t.mu.Lock()
		if p, ok := t.live[key]; ok && p.gen == tk.gen {
			delete(t.live, key)
		}
		t.mu.Unlock()

		cancel()
	}

	return ctx, tk, done
}

// current reports whether tk is still the newest request for its record.
func (t *tickets) current(tk ticket) bool {
	if tk.key == (recordKey{}) {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.live[tk.key]

	return ok && p.gen == tk.gen
}
