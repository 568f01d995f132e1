package listview

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/angkasa-id/angkasa/internal/alert"
	"github.com/angkasa-id/angkasa/internal/metrics"
)

// Stream is a live full-snapshot subscription, as produced by the document
// and tree stores. Unsubscribe must be idempotent.
type Stream[T any] interface {
	Snapshots() <-chan []T
	Errs() <-chan error
	Unsubscribe()
}

// Controller binds one page's visible list to a Stream. Each emission
// replaces the items wholesale; search and facet state are local and never
// touch the backend. All methods are safe for concurrent use.
type Controller[T any] struct {
	name   string
	fields Fields[T]
	sortBy func(a, b T) bool
	alerts *alert.Orchestrator
	logger *slog.Logger

	mu        sync.Mutex
	items     []T
	search    string
	filters   map[string]string
	selection *T
	loading   bool

	stream   Stream[T]
	stop     chan struct{}
	stopOnce sync.Once
}

// Option configures a Controller.
type Option[T any] func(*Controller[T])

// WithSort orders every received snapshot with the given less function
// before it replaces the local items. Pages that show newest-first pass a
// timestamp comparison here; everything else keeps subscription order.
func WithSort[T any](less func(a, b T) bool) Option[T] {
	return func(c *Controller[T]) {
		c.sortBy = less
	}
}

// WithAlerts wires the confirmation/notification orchestrator used by
// PerformGuardedAction.
func WithAlerts[T any](o *alert.Orchestrator) Option[T] {
	return func(c *Controller[T]) {
		c.alerts = o
	}
}

// WithLogger sets the structured logger.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(c *Controller[T]) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewController creates a controller in the loading state. The name labels
// log records and metrics.
func NewController[T any](name string, fields Fields[T], opts ...Option[T]) *Controller[T] {
	c := &Controller[T]{
		name:    name,
		fields:  fields,
		logger:  slog.Default(),
		items:   []T{},
		filters: make(map[string]string),
		loading: true,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run consumes the stream until Close is called or the stream ends. Stream
// errors are logged and leave items at their last known value.
func (c *Controller[T]) Run(stream Stream[T]) {
	c.mu.Lock()
	c.stream = stream
	c.mu.Unlock()

	go func() {
		snapshots := stream.Snapshots()
		errs := stream.Errs()
		for {
			select {
			case snap, ok := <-snapshots:
				if !ok {
					return
				}
				c.applySnapshot(snap)
			case err, ok := <-errs:
				if !ok {
					errs = nil
					continue
				}
				c.logger.Error("list subscription error", "list", c.name, "error", err)
			case <-c.stop:
				return
			}
		}
	}()
}

// Close unsubscribes from the stream. Safe to call more than once; the
// underlying unsubscribe runs exactly once.
func (c *Controller[T]) Close() {
	c.stopOnce.Do(func() {
		close(c.stop)
		c.mu.Lock()
		stream := c.stream
		c.mu.Unlock()
		if stream != nil {
			stream.Unsubscribe()
		}
	})
}

func (c *Controller[T]) applySnapshot(snap []T) {
	if snap == nil {
		snap = []T{}
	}
	if c.sortBy != nil {
		sort.SliceStable(snap, func(i, j int) bool { return c.sortBy(snap[i], snap[j]) })
	}
	c.mu.Lock()
	c.items = snap
	c.loading = false
	c.mu.Unlock()
}

// Loading reports whether the first snapshot has not arrived yet. An empty
// list after the first emission is a distinct, non-loading state.
func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Items returns the mirrored collection.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items
}

// SetSearchText updates the local search text.
func (c *Controller[T]) SetSearchText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = text
}

// SearchText returns the current search text.
func (c *Controller[T]) SearchText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// ToggleFilter sets the facet value for a dimension, replaces a different
// value, or clears the dimension when the same value is toggled again.
func (c *Controller[T]) ToggleFilter(field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.filters[field] == value {
		delete(c.filters, field)
		return
	}
	c.filters[field] = value
}

// ActiveFilters returns the active facets in stable field order.
func (c *Controller[T]) ActiveFilters() []Facet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeFiltersLocked()
}

func (c *Controller[T]) activeFiltersLocked() []Facet {
	if len(c.filters) == 0 {
		return nil
	}
	facets := make([]Facet, 0, len(c.filters))
	for field, value := range c.filters {
		facets = append(facets, Facet{Field: field, Value: value})
	}
	sort.Slice(facets, func(i, j int) bool { return facets[i].Field < facets[j].Field })
	return facets
}

// Visible derives the filtered view from the current items, search text and
// facets. Recomputed on every call; no caching.
func (c *Controller[T]) Visible() []T {
	c.mu.Lock()
	items := c.items
	search := c.search
	filters := c.activeFiltersLocked()
	c.mu.Unlock()
	return DeriveVisible(items, search, filters, c.fields)
}

// Select remembers an item for a detail/edit view.
func (c *Controller[T]) Select(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = &item
}

// ClearSelection drops the remembered item.
func (c *Controller[T]) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection = nil
}

// Selection returns the remembered item, if any.
func (c *Controller[T]) Selection() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.selection == nil {
		var zero T
		return zero, false
	}
	return *c.selection, true
}

// GuardedAction is a mutating operation gated behind a confirmation dialog.
type GuardedAction struct {
	// Name labels metrics and logs.
	Name string
	// OwnerID scopes the confirmation and its outcome dialogs to the user
	// who initiated the action.
	OwnerID string
	// ConfirmMessage is shown in the confirmation dialog.
	ConfirmMessage string
	// SuccessMessage is shown after the action completes. Empty skips the
	// success notification.
	SuccessMessage string
	// FailureMessage replaces the generic failure notice. The underlying
	// error is logged, never shown.
	FailureMessage string
	// Run performs the single backend write.
	Run func(ctx context.Context) error
}

const defaultFailureMessage = "Something went wrong. Please try again."

// PerformGuardedAction asks for confirmation and, only on a positive answer,
// runs the action. A declined confirmation is a complete no-op. The outcome
// is reported through the orchestrator; the returned bool says whether the
// user confirmed.
func (c *Controller[T]) PerformGuardedAction(ctx context.Context, action GuardedAction) (bool, error) {
	if c.alerts == nil || action.Run == nil {
		return false, nil
	}

	decision := c.alerts.Confirm(action.ConfirmMessage, alert.WithOwner(action.OwnerID))
	var confirmed bool
	select {
	case confirmed = <-decision.Done():
	case <-ctx.Done():
		return false, ctx.Err()
	}

	if !confirmed {
		metrics.GuardedActionsTotal.WithLabelValues(action.Name, "cancelled").Inc()
		return false, nil
	}
	metrics.GuardedActionsTotal.WithLabelValues(action.Name, "confirmed").Inc()

	if err := action.Run(ctx); err != nil {
		c.logger.Error("guarded action failed", "list", c.name, "action", action.Name, "error", err)
		message := action.FailureMessage
		if message == "" {
			message = defaultFailureMessage
		}
		c.alerts.Notify(message, alert.KindError, alert.WithOwner(action.OwnerID))
		return true, err
	}

	if action.SuccessMessage != "" {
		c.alerts.Notify(action.SuccessMessage, alert.KindSuccess, alert.WithOwner(action.OwnerID))
	}
	return true, nil
}
