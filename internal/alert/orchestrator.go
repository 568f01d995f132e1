package alert

import (
	"log/slog"
	"sync"
	"time"

	"github.com/angkasa-id/angkasa/internal/metrics"
)

const (
	// DefaultAutoDismiss is how long a success/info notification stays up
	// without interaction before it resolves on its own.
	DefaultAutoDismiss = 3 * time.Second

	defaultNotifyPrimary  = "OK"
	defaultConfirmPrimary = "Yes, proceed"
	defaultConfirmCancel  = "Cancel"
)

// Orchestrator owns the process-wide pending-dialog slot. At most one request
// is live at any time; issuing a new one replaces the previous request without
// settling its ticket. All public methods are safe for concurrent use.
type Orchestrator struct {
	mu sync.Mutex

	autoDismiss time.Duration
	after       func(d time.Duration, fn func()) func() bool
	logger      *slog.Logger
	now         func() time.Time

	pending *pendingRequest
	closed  bool
}

type pendingRequest struct {
	req       Request
	ticket    *Ticket
	decision  *Decision
	stopTimer func() bool
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithAutoDismiss overrides the auto-dismiss delay for success/info kinds.
func WithAutoDismiss(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.autoDismiss = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAfterFunc replaces the timer hook. Tests use it to fire auto-dismiss
// deterministically instead of sleeping.
func WithAfterFunc(after func(d time.Duration, fn func()) func() bool) Option {
	return func(o *Orchestrator) {
		if after != nil {
			o.after = after
		}
	}
}

// WithClock replaces the wall clock used to stamp requests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates an idle Orchestrator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		autoDismiss: DefaultAutoDismiss,
		logger:      slog.Default(),
		now:         time.Now,
		after: func(d time.Duration, fn func()) func() bool {
			t := time.AfterFunc(d, fn)
			return t.Stop
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RequestOption customizes a single request.
type RequestOption func(*Request)

// WithTitle overrides the kind's default title.
func WithTitle(title string) RequestOption {
	return func(r *Request) {
		if title != "" {
			r.Title = title
		}
	}
}

// WithPrimaryLabel overrides the primary action label.
func WithPrimaryLabel(label string) RequestOption {
	return func(r *Request) {
		if label != "" {
			r.PrimaryLabel = label
		}
	}
}

// WithOwner scopes the dialog to one user. Other sessions neither see nor
// resolve it.
func WithOwner(userID string) RequestOption {
	return func(r *Request) {
		r.OwnerID = userID
	}
}

// Notify presents a transient or blocking notification and returns a Ticket
// settled when the user acknowledges it, dismisses it via the backdrop, or —
// for success/info kinds — when the auto-dismiss timer fires. An invalid kind
// is coerced to info.
func (o *Orchestrator) Notify(message string, kind Kind, opts ...RequestOption) *Ticket {
	if !ValidNotifyKind(kind) {
		kind = KindInfo
	}

	req := Request{
		ID:           newRequestID(),
		Kind:         kind,
		Title:        kind.DefaultTitle(),
		Message:      message,
		PrimaryLabel: defaultNotifyPrimary,
	}
	for _, opt := range opts {
		opt(&req)
	}
	if kind.AutoDismissable() {
		req.AutoDismiss = o.autoDismiss
	}

	ticket := newTicket()

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		o.logger.Warn("alert orchestrator closed; dropping notify", "kind", string(kind))
		return ticket
	}

	req.IssuedAt = o.now()
	o.replaceLocked(&pendingRequest{req: req, ticket: ticket})

	if req.AutoDismiss > 0 {
		o.armTimerLocked(req.ID, req.AutoDismiss)
	}

	metrics.AlertsShownTotal.WithLabelValues(string(kind)).Inc()
	return ticket
}

// Confirm presents a blocking yes/no dialog and returns a Decision settled
// true on the primary action and false on cancel or backdrop click. Confirm
// dialogs never auto-dismiss.
func (o *Orchestrator) Confirm(message string, opts ...RequestOption) *Decision {
	req := Request{
		ID:             newRequestID(),
		Kind:           KindConfirm,
		Title:          KindConfirm.DefaultTitle(),
		Message:        message,
		PrimaryLabel:   defaultConfirmPrimary,
		SecondaryLabel: defaultConfirmCancel,
	}
	for _, opt := range opts {
		opt(&req)
	}

	decision := newDecision()

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		o.logger.Warn("alert orchestrator closed; dropping confirm")
		return decision
	}

	req.IssuedAt = o.now()
	o.replaceLocked(&pendingRequest{req: req, decision: decision})

	metrics.AlertsShownTotal.WithLabelValues(string(KindConfirm)).Inc()
	return decision
}

// Pending returns a snapshot of the live request, if any.
func (o *Orchestrator) Pending() (Request, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.pending == nil {
		return Request{}, false
	}
	return o.pending.req, true
}

// Acknowledge resolves the pending request via its primary action: a notify
// ticket settles, a confirm decision settles true. Stale IDs are ignored.
func (o *Orchestrator) Acknowledge(id string) bool {
	return o.resolve(id, true, "acknowledged")
}

// Cancel resolves a pending confirm decision to false via its secondary
// action. For notify kinds it behaves like Dismiss.
func (o *Orchestrator) Cancel(id string) bool {
	return o.resolve(id, false, "cancelled")
}

// Dismiss resolves the pending request via a backdrop click: a notify ticket
// settles, a confirm decision settles false.
func (o *Orchestrator) Dismiss(id string) bool {
	return o.resolve(id, false, "dismissed")
}

// Close stops any pending auto-dismiss timer and rejects further requests.
// The pending request, if any, is left unsettled.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
	if o.pending != nil && o.pending.stopTimer != nil {
		o.pending.stopTimer()
		o.pending.stopTimer = nil
	}
	o.pending = nil
}

func (o *Orchestrator) resolve(id string, primary bool, outcome string) bool {
	o.mu.Lock()
	p := o.takeLocked(id)
	o.mu.Unlock()
	if p == nil {
		return false
	}

	metrics.AlertsResolvedTotal.WithLabelValues(string(p.req.Kind), outcomeLabel(p, primary, outcome)).Inc()

	if p.decision != nil {
		p.decision.settle(primary)
		return true
	}
	p.ticket.settle()
	return true
}

func (o *Orchestrator) expire(id string) {
	o.mu.Lock()
	p := o.takeLocked(id)
	o.mu.Unlock()
	if p == nil || p.ticket == nil {
		return
	}
	metrics.AlertsResolvedTotal.WithLabelValues(string(p.req.Kind), "auto").Inc()
	p.ticket.settle()
}

// takeLocked removes and returns the pending request when the ID matches,
// stopping its timer so a stale expiry cannot fire against a successor.
func (o *Orchestrator) takeLocked(id string) *pendingRequest {
	if o.pending == nil || o.pending.req.ID != id {
		return nil
	}
	p := o.pending
	o.pending = nil
	if p.stopTimer != nil {
		p.stopTimer()
		p.stopTimer = nil
	}
	return p
}

// replaceLocked installs a new pending request. A still-live predecessor is
// discarded without settling its ticket; see the single-active-alert policy.
func (o *Orchestrator) replaceLocked(next *pendingRequest) {
	if prev := o.pending; prev != nil {
		if prev.stopTimer != nil {
			prev.stopTimer()
			prev.stopTimer = nil
		}
		o.logger.Debug("superseding pending alert",
			"previous_kind", string(prev.req.Kind),
			"next_kind", string(next.req.Kind),
		)
		metrics.AlertsResolvedTotal.WithLabelValues(string(prev.req.Kind), "superseded").Inc()
	}
	o.pending = next
}

func (o *Orchestrator) armTimerLocked(id string, d time.Duration) {
	p := o.pending
	if p == nil || p.req.ID != id {
		return
	}
	p.stopTimer = o.after(d, func() {
		o.expire(id)
	})
}

func outcomeLabel(p *pendingRequest, primary bool, outcome string) string {
	if p.decision == nil {
		return outcome
	}
	if primary {
		return "confirmed"
	}
	return outcome
}
