package treestore

import (
	"log/slog"
	"sync"

	"github.com/angkasa-id/angkasa/internal/metrics"
)

// Watch is one live subtree subscription. Snapshots carries full subtree
// states, latest-wins: a consumer that falls behind skips straight to the
// newest snapshot.
type Watch struct {
	base string

	mu        sync.Mutex
	closed    bool
	snapshots chan []Node
	errs      chan error

	once   sync.Once
	remove func()
}

// Snapshots delivers full subtree snapshots. Closed by Unsubscribe.
func (w *Watch) Snapshots() <-chan []Node {
	return w.snapshots
}

// Errs delivers snapshot read failures. A failure does not end the watch.
func (w *Watch) Errs() <-chan error {
	return w.errs
}

// Unsubscribe detaches from the hub and closes both channels. Idempotent.
func (w *Watch) Unsubscribe() {
	w.once.Do(w.remove)
}

func (w *Watch) push(nodes []Node) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case <-w.snapshots:
	default:
	}
	w.snapshots <- nodes
}

func (w *Watch) pushErr(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.errs <- err:
	default:
	}
}

func (w *Watch) shut() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	close(w.snapshots)
	close(w.errs)
}

type watchHub struct {
	logger *slog.Logger

	mu      sync.Mutex
	nextID  int
	watches map[int]*Watch
}

func newWatchHub(logger *slog.Logger) *watchHub {
	return &watchHub{
		logger:  logger,
		watches: map[int]*Watch{},
	}
}

func (h *watchHub) watch(base string) *Watch {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	w := &Watch{
		base:      base,
		snapshots: make(chan []Node, 1),
		errs:      make(chan error, 1),
	}
	w.remove = func() { h.drop(id, w) }
	h.watches[id] = w
	metrics.SubscriptionsActive.WithLabelValues("tree").Inc()
	return w
}

func (h *watchHub) drop(id int, w *Watch) {
	h.mu.Lock()
	delete(h.watches, id)
	h.mu.Unlock()

	w.shut()
	metrics.SubscriptionsActive.WithLabelValues("tree").Dec()
}

// affected returns the watches whose subtree overlaps a change at the given
// path. A late push to a watch dropped mid-fan-out is ignored.
func (h *watchHub) affected(changed string) []*Watch {
	h.mu.Lock()
	defer h.mu.Unlock()

	var out []*Watch
	for _, w := range h.watches {
		if overlaps(w.base, changed) {
			out = append(out, w)
		}
	}
	if len(out) > 0 {
		metrics.StoreSnapshotsTotal.WithLabelValues("tree", Root(changed)).Inc()
	}
	return out
}
