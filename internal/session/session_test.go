package session

import "testing"

// P6: a loaded state with no identity always redirects; with an identity it
// always renders.
func TestDecideAuthenticated(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state State
		want  GuardDecision
	}{
		{name: "loading_no_identity", state: State{Loading: true}, want: DecideLoading},
		{name: "loading_with_identity", state: State{Loading: true, Identity: &Identity{ID: "u1"}}, want: DecideLoading},
		{name: "loaded_anonymous", state: State{}, want: DecideRedirect},
		{name: "loaded_signed_in", state: State{Identity: &Identity{ID: "u1"}}, want: DecideRender},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DecideAuthenticated(tt.state); got != tt.want {
				t.Fatalf("DecideAuthenticated(%+v) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

func TestDecideGuest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state State
		want  GuardDecision
	}{
		{name: "loading", state: State{Loading: true}, want: DecideLoading},
		{name: "loaded_anonymous", state: State{}, want: DecideRender},
		{name: "loaded_signed_in", state: State{Identity: &Identity{ID: "u1"}}, want: DecideRedirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DecideGuest(tt.state); got != tt.want {
				t.Fatalf("DecideGuest(%+v) = %v, want %v", tt.state, got, tt.want)
			}
		})
	}
}

// Scenario D: the guard renders the placeholder while loading regardless of
// identity, then redirects as soon as the state resolves to anonymous.
func TestWatcherDrivesGuardTransitions(t *testing.T) {
	t.Parallel()

	var emit func(Event)
	unsubscribed := false
	w := NewWatcher(func(cb func(Event)) func() {
		emit = cb
		return func() { unsubscribed = true }
	})

	if got := DecideAuthenticated(w.State()); got != DecideLoading {
		t.Fatalf("decision before first event = %v, want %v", got, DecideLoading)
	}

	emit(Event{Type: EventSignedOut})
	if got := DecideAuthenticated(w.State()); got != DecideRedirect {
		t.Fatalf("decision after sign-out event = %v, want %v", got, DecideRedirect)
	}

	emit(Event{Type: EventSignedIn, Identity: Identity{ID: "u1", Email: "a@b.c"}})
	if got := DecideAuthenticated(w.State()); got != DecideRender {
		t.Fatalf("decision after sign-in event = %v, want %v", got, DecideRender)
	}

	w.Close()
	if !unsubscribed {
		t.Fatalf("Close() did not unsubscribe from the provider")
	}
}
