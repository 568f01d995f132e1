package alert

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// manualTimer stands in for time.AfterFunc so tests advance auto-dismiss
// deadlines without sleeping.
type manualTimer struct {
	mu      sync.Mutex
	armed   []*manualEntry
	stopped int
}

type manualEntry struct {
	d       time.Duration
	fn      func()
	stopped bool
}

func (m *manualTimer) after(d time.Duration, fn func()) func() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := &manualEntry{d: d, fn: fn}
	m.armed = append(m.armed, entry)
	return func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		if entry.stopped {
			return false
		}
		entry.stopped = true
		m.stopped++
		return true
	}
}

// advance fires every timer whose duration is within elapsed.
func (m *manualTimer) advance(elapsed time.Duration) {
	m.mu.Lock()
	var due []func()
	for _, entry := range m.armed {
		if !entry.stopped && entry.d <= elapsed {
			entry.stopped = true
			due = append(due, entry.fn)
		}
	}
	m.mu.Unlock()
	for _, fn := range due {
		fn()
	}
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *manualTimer) {
	t.Helper()
	timers := &manualTimer{}
	o := New(
		WithAfterFunc(timers.after),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	t.Cleanup(o.Close)
	return o, timers
}

func ticketSettled(t *Ticket) bool {
	select {
	case <-t.Done():
		return true
	default:
		return false
	}
}

func TestNotifyDefaultsByKind(t *testing.T) {
	t.Parallel()
	o, _ := newTestOrchestrator(t)

	o.Notify("Saved", KindSuccess)
	req, ok := o.Pending()
	if !ok {
		t.Fatalf("Pending() = none, want a request")
	}
	if req.Title != "Success" {
		t.Fatalf("Title = %q, want %q", req.Title, "Success")
	}
	if req.PrimaryLabel != "OK" {
		t.Fatalf("PrimaryLabel = %q, want %q", req.PrimaryLabel, "OK")
	}
	if req.SecondaryLabel != "" {
		t.Fatalf("SecondaryLabel = %q, want empty for notify kinds", req.SecondaryLabel)
	}
	if req.AutoDismiss != DefaultAutoDismiss {
		t.Fatalf("AutoDismiss = %v, want %v", req.AutoDismiss, DefaultAutoDismiss)
	}
}

func TestNotifyCoercesUnknownKindToInfo(t *testing.T) {
	t.Parallel()
	o, _ := newTestOrchestrator(t)

	o.Notify("hello", Kind("confirm"))
	req, _ := o.Pending()
	if req.Kind != KindInfo {
		t.Fatalf("Kind = %q, want %q", req.Kind, KindInfo)
	}
}

func TestNotifyAcknowledgeSettlesTicket(t *testing.T) {
	t.Parallel()
	o, _ := newTestOrchestrator(t)

	ticket := o.Notify("Saved", KindSuccess)
	req, _ := o.Pending()

	if !o.Acknowledge(req.ID) {
		t.Fatalf("Acknowledge(%q) = false, want true", req.ID)
	}
	if !ticketSettled(ticket) {
		t.Fatalf("ticket not settled after acknowledge")
	}
	if _, ok := o.Pending(); ok {
		t.Fatalf("Pending() still set after acknowledge")
	}
}

// Scenario A: a success notification resolves on its own after the
// auto-dismiss delay and the dialog is gone.
func TestNotifyAutoDismissAfterDelay(t *testing.T) {
	t.Parallel()
	o, timers := newTestOrchestrator(t)

	ticket := o.Notify("Saved", KindSuccess)
	if ticketSettled(ticket) {
		t.Fatalf("ticket settled before the delay elapsed")
	}

	timers.advance(3 * time.Second)

	if !ticketSettled(ticket) {
		t.Fatalf("ticket not settled after auto-dismiss delay")
	}
	if _, ok := o.Pending(); ok {
		t.Fatalf("dialog still pending after auto-dismiss")
	}
}

// P2: error and warning notifications never auto-dismiss.
func TestNotifyNoAutoDismissForBlockingKinds(t *testing.T) {
	t.Parallel()

	for _, kind := range []Kind{KindError, KindWarning} {
		o, timers := newTestOrchestrator(t)

		ticket := o.Notify("something happened", kind)
		req, _ := o.Pending()
		if req.AutoDismiss != 0 {
			t.Fatalf("kind %q: AutoDismiss = %v, want 0", kind, req.AutoDismiss)
		}

		timers.advance(time.Hour)
		if ticketSettled(ticket) {
			t.Fatalf("kind %q: ticket settled without interaction", kind)
		}
		o.Close()
	}
}

func TestManualResolutionStopsPendingTimer(t *testing.T) {
	t.Parallel()
	o, timers := newTestOrchestrator(t)

	o.Notify("Saved", KindInfo)
	req, _ := o.Pending()
	o.Acknowledge(req.ID)

	// A second notification must not be hit by the first one's expiry.
	ticket := o.Notify("Also saved", KindError)
	timers.advance(3 * time.Second)
	if ticketSettled(ticket) {
		t.Fatalf("stale timer settled the successor request")
	}
}

func TestConfirmPrimaryResolvesTrue(t *testing.T) {
	t.Parallel()
	o, _ := newTestOrchestrator(t)

	decision := o.Confirm("Delete post X?")
	req, _ := o.Pending()
	if req.Kind != KindConfirm {
		t.Fatalf("Kind = %q, want %q", req.Kind, KindConfirm)
	}
	if req.SecondaryLabel != "Cancel" {
		t.Fatalf("SecondaryLabel = %q, want %q", req.SecondaryLabel, "Cancel")
	}

	o.Acknowledge(req.ID)
	if got := <-decision.Done(); !got {
		t.Fatalf("decision = false, want true after primary action")
	}
}

// P3: a backdrop click on a confirm dialog is a cancel.
func TestConfirmBackdropResolvesFalse(t *testing.T) {
	t.Parallel()
	o, _ := newTestOrchestrator(t)

	decision := o.Confirm("Delete post X?")
	req, _ := o.Pending()

	o.Dismiss(req.ID)
	if got := <-decision.Done(); got {
		t.Fatalf("decision = true, want false after backdrop click")
	}
}

func TestConfirmCancelResolvesFalse(t *testing.T) {
	t.Parallel()
	o, _ := newTestOrchestrator(t)

	decision := o.Confirm("Delete post X?")
	req, _ := o.Pending()

	o.Cancel(req.ID)
	if got := <-decision.Done(); got {
		t.Fatalf("decision = true, want false after cancel")
	}
}

func TestConfirmNeverAutoDismisses(t *testing.T) {
	t.Parallel()
	o, timers := newTestOrchestrator(t)

	decision := o.Confirm("Sure?")
	timers.advance(time.Hour)

	select {
	case got := <-decision.Done():
		t.Fatalf("decision settled to %v without interaction", got)
	default:
	}
}

// P1 / Scenario B: a new request replaces the pending one; exactly one dialog
// is visible and the superseded handle is never settled.
func TestNewRequestSupersedesPending(t *testing.T) {
	t.Parallel()
	o, _ := newTestOrchestrator(t)

	first := o.Confirm("Delete post X?")
	second := o.Confirm("Delete post Y?")

	req, ok := o.Pending()
	if !ok {
		t.Fatalf("Pending() = none, want the second request")
	}
	if req.Message != "Delete post Y?" {
		t.Fatalf("pending message = %q, want the second request", req.Message)
	}

	o.Acknowledge(req.ID)
	if got := <-second.Done(); !got {
		t.Fatalf("second decision = false, want true")
	}

	select {
	case got := <-first.Done():
		t.Fatalf("superseded decision settled to %v, want never settled", got)
	default:
	}
}

func TestSupersededNotifyTimerCannotFire(t *testing.T) {
	t.Parallel()
	o, timers := newTestOrchestrator(t)

	first := o.Notify("one", KindSuccess)
	second := o.Notify("two", KindError)

	timers.advance(3 * time.Second)

	if ticketSettled(first) {
		t.Fatalf("superseded ticket settled by its own timer")
	}
	if ticketSettled(second) {
		t.Fatalf("error notification settled by a stale timer")
	}
}

func TestStaleIDsAreIgnored(t *testing.T) {
	t.Parallel()
	o, _ := newTestOrchestrator(t)

	o.Confirm("first")
	stale, _ := o.Pending()
	decision := o.Confirm("second")

	if o.Acknowledge(stale.ID) {
		t.Fatalf("Acknowledge(stale) = true, want false")
	}
	select {
	case got := <-decision.Done():
		t.Fatalf("live decision settled to %v by a stale acknowledge", got)
	default:
	}
}

func TestWithOwnerScopesResolution(t *testing.T) {
	t.Parallel()
	o, _ := newTestOrchestrator(t)

	o.Confirm("Delete member?", WithOwner("7"))
	req, _ := o.Pending()

	if req.OwnerID != "7" {
		t.Fatalf("OwnerID = %q, want %q", req.OwnerID, "7")
	}
	if req.ResolvableBy("8") {
		t.Fatalf("ResolvableBy(other user) = true, want false")
	}
	if !req.ResolvableBy("7") {
		t.Fatalf("ResolvableBy(owner) = false, want true")
	}
}

func TestRequestWithoutOwnerResolvableByAnyone(t *testing.T) {
	t.Parallel()
	o, _ := newTestOrchestrator(t)

	o.Notify("Saved", KindSuccess)
	req, _ := o.Pending()

	if req.OwnerID != "" {
		t.Fatalf("OwnerID = %q, want empty", req.OwnerID)
	}
	if !req.ResolvableBy("12") || !req.ResolvableBy("") {
		t.Fatalf("unowned request must be resolvable by any user")
	}
}

func TestCloseStopsTimersAndRejectsRequests(t *testing.T) {
	t.Parallel()
	o, timers := newTestOrchestrator(t)

	ticket := o.Notify("bye", KindInfo)
	o.Close()

	timers.advance(time.Hour)
	if ticketSettled(ticket) {
		t.Fatalf("ticket settled after Close")
	}

	after := o.Notify("late", KindInfo)
	if _, ok := o.Pending(); ok {
		t.Fatalf("Pending() set after Close")
	}
	if ticketSettled(after) {
		t.Fatalf("post-close ticket settled")
	}
}
