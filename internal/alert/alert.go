// Package alert coordinates the single application-wide alert/confirmation
// dialog. Callers enqueue a request and wait on its ticket; the HTTP layer
// resolves the pending request from user interaction or an auto-dismiss timer.
package alert

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies a dialog request. It selects default title, labels and
// whether the request is eligible for auto-dismiss.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	KindConfirm Kind = "confirm"
)

// ValidNotifyKind reports whether kind may be passed to Notify.
func ValidNotifyKind(kind Kind) bool {
	switch kind {
	case KindSuccess, KindError, KindWarning, KindInfo:
		return true
	default:
		return false
	}
}

// AutoDismissable reports whether dialogs of this kind close on their own.
// Only transient notifications qualify; errors and warnings stay up until
// acknowledged, and confirmations always require an explicit choice.
func (k Kind) AutoDismissable() bool {
	return k == KindSuccess || k == KindInfo
}

// DefaultTitle returns the title used when the caller supplies none.
func (k Kind) DefaultTitle() string {
	switch k {
	case KindSuccess:
		return "Success"
	case KindError:
		return "Error"
	case KindWarning:
		return "Warning"
	case KindConfirm:
		return "Confirm"
	default:
		return "Info"
	}
}

// Request is a snapshot of the pending dialog, safe to hand to the view layer.
type Request struct {
	ID             string
	Kind           Kind
	Title          string
	Message        string
	PrimaryLabel   string
	SecondaryLabel string
	// OwnerID scopes the dialog to the user whose action raised it. Empty
	// means application-wide.
	OwnerID     string
	AutoDismiss time.Duration
	IssuedAt    time.Time
}

// ResolvableBy reports whether the given user may see and resolve the
// request. Unowned requests are resolvable by anyone.
func (r Request) ResolvableBy(userID string) bool {
	return r.OwnerID == "" || r.OwnerID == userID
}

// Destructive reports whether the dialog should use destructive styling.
func (r Request) Destructive() bool {
	return r.Kind == KindError
}

// Ticket is the caller's handle on a Notify request. Done is closed when the
// notification is acknowledged, dismissed, or auto-dismissed. A superseded
// ticket is never settled.
type Ticket struct {
	done chan struct{}
}

func newTicket() *Ticket {
	return &Ticket{done: make(chan struct{})}
}

// Done returns a channel closed once the notification resolves.
func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

func (t *Ticket) settle() {
	close(t.done)
}

// Decision is the caller's handle on a Confirm request. Done yields exactly
// one value: true for the primary action, false for cancel or backdrop.
// A superseded decision is never settled.
type Decision struct {
	done chan bool
}

func newDecision() *Decision {
	return &Decision{done: make(chan bool, 1)}
}

// Done returns a channel that receives the user's choice.
func (d *Decision) Done() <-chan bool {
	return d.done
}

func (d *Decision) settle(confirmed bool) {
	d.done <- confirmed
	close(d.done)
}

func newRequestID() string {
	return uuid.NewString()
}
