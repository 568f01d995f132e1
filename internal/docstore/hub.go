package docstore

import (
	"log/slog"
	"sync"

	"github.com/angkasa-id/angkasa/internal/metrics"
)

// Subscription is one live view over a collection. Snapshots carries full
// collection states, latest-wins: a consumer that falls behind skips straight
// to the newest snapshot instead of queueing stale ones.
type Subscription struct {
	collection string
	scanOpts   []ScanOption

	mu        sync.Mutex
	closed    bool
	snapshots chan []Document
	errs      chan error

	once   sync.Once
	remove func()
}

// Snapshots delivers full collection snapshots. The channel is closed by
// Unsubscribe.
func (s *Subscription) Snapshots() <-chan []Document {
	return s.snapshots
}

// Errs delivers snapshot read failures. A failure does not end the
// subscription; the next successful write produces a snapshot again.
func (s *Subscription) Errs() <-chan error {
	return s.errs
}

// Unsubscribe detaches from the hub and closes both channels. Idempotent.
func (s *Subscription) Unsubscribe() {
	s.once.Do(s.remove)
}

// push replaces any undelivered snapshot with the newer one. A push after
// Unsubscribe is a no-op.
func (s *Subscription) push(docs []Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case <-s.snapshots:
	default:
	}
	s.snapshots <- docs
}

func (s *Subscription) pushErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.errs <- err:
	default:
	}
}

func (s *Subscription) shut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	close(s.snapshots)
	close(s.errs)
}

// hub tracks the live subscriptions per collection.
type hub struct {
	store  string
	logger *slog.Logger

	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]*Subscription
}

func newHub(store string, logger *slog.Logger) *hub {
	return &hub{
		store:  store,
		logger: logger,
		subs:   map[string]map[int]*Subscription{},
	}
}

func (h *hub) subscribe(collection string, scanOpts []ScanOption) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	id := h.nextID
	sub := &Subscription{
		collection: collection,
		scanOpts:   scanOpts,
		snapshots:  make(chan []Document, 1),
		errs:       make(chan error, 1),
	}
	sub.remove = func() { h.drop(collection, id, sub) }

	if h.subs[collection] == nil {
		h.subs[collection] = map[int]*Subscription{}
	}
	h.subs[collection][id] = sub
	metrics.SubscriptionsActive.WithLabelValues(h.store).Inc()
	return sub
}

func (h *hub) drop(collection string, id int, sub *Subscription) {
	h.mu.Lock()
	delete(h.subs[collection], id)
	if len(h.subs[collection]) == 0 {
		delete(h.subs, collection)
	}
	h.mu.Unlock()

	sub.shut()
	metrics.SubscriptionsActive.WithLabelValues(h.store).Dec()
}

// subscribers returns the live subscriptions for a collection at the time of
// the call. A subscription dropped mid-fan-out simply ignores the late push.
func (h *hub) subscribers(collection string) []*Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := make([]*Subscription, 0, len(h.subs[collection]))
	for _, sub := range h.subs[collection] {
		subs = append(subs, sub)
	}
	metrics.StoreSnapshotsTotal.WithLabelValues(h.store, collection).Inc()
	return subs
}
