package session

import "sync"

// EventType classifies an auth-state change.
type EventType string

const (
	EventSignedIn  EventType = "signed_in"
	EventSignedOut EventType = "signed_out"
	EventVerified  EventType = "verified"
)

// Event is one auth-state change emitted by the identity provider.
type Event struct {
	Type     EventType
	Identity Identity
}

// Watcher mirrors the identity provider's auth-state stream into a State
// value. The provider callback is the sole writer; readers take a snapshot.
type Watcher struct {
	mu          sync.Mutex
	state       State
	unsubscribe func()
}

// NewWatcher starts in the loading state and subscribes through the given
// registration function, which must return the unsubscribe handle.
func NewWatcher(subscribe func(func(Event)) func()) *Watcher {
	w := &Watcher{state: Initial()}
	w.unsubscribe = subscribe(w.apply)
	return w
}

func (w *Watcher) apply(ev Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch ev.Type {
	case EventSignedOut:
		w.state = State{}
	default:
		identity := ev.Identity
		w.state = State{Identity: &identity}
	}
}

// State returns the current snapshot.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Close unsubscribes from the identity provider. Safe to call once.
func (w *Watcher) Close() {
	if w.unsubscribe != nil {
		w.unsubscribe()
		w.unsubscribe = nil
	}
}
