// Package treestore is the hierarchical-record backend: values addressed by
// slash-separated paths, read and removed by whole subtree, with live
// subtree subscriptions notified after every committed write.
package treestore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/angkasa-id/angkasa/internal/db"
)

// ErrInvalidPath rejects malformed paths before they reach the database.
var ErrInvalidPath = fmt.Errorf("invalid tree path")

// Node is one stored value together with its full path.
type Node struct {
	Path      string
	Data      map[string]any
	UpdatedAt time.Time
}

// String returns a string field of the node value, "" when absent.
func (n Node) String(field string) string {
	v, _ := n.Data[field].(string)
	return v
}

// Bool returns a boolean field of the node value, false when absent.
func (n Node) Bool(field string) bool {
	v, _ := n.Data[field].(bool)
	return v
}

// Time parses an RFC 3339 string field, returning the zero time on failure.
func (n Node) Time(field string) time.Time {
	ts, err := time.Parse(time.RFC3339, n.String(field))
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Store executes tree reads and writes and owns the watch hub.
type Store struct {
	db     db.DBTX
	hub    *watchHub
	logger *slog.Logger

	// mute suppresses fan-out; set on transaction-bound clones so watchers
	// never observe uncommitted state.
	mute bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Store over the given pool or transaction handle.
func New(dbtx db.DBTX, opts ...Option) *Store {
	s := &Store{
		db:     dbtx,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hub = newWatchHub(s.logger)
	return s
}

// WithTx returns a Store that runs its statements on tx while sharing the
// receiver's watch hub. Writes through the clone do not notify; call Refresh
// on the base store once the transaction commits.
func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{db: tx, hub: s.hub, logger: s.logger, mute: true}
}

// Refresh re-delivers the current subtree snapshots to every watcher covering
// path. Used after committing writes assembled via WithTx.
func (s *Store) Refresh(ctx context.Context, path string) {
	s.notify(ctx, path)
}

// Get reads the subtree rooted at path, the root node included when it holds
// a value. An empty subtree yields an empty, non-nil slice.
func (s *Store) Get(ctx context.Context, path string) ([]Node, error) {
	if !ValidPath(path) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	rows, err := s.db.Query(ctx, `
		SELECT path, data, updated_at FROM tree_nodes
		WHERE path = $1 OR path LIKE $1 || '/%'
		ORDER BY path`, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	nodes := []Node{}
	for rows.Next() {
		var n Node
		var raw []byte
		if err := rows.Scan(&n.Path, &raw, &n.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &n.Data); err != nil {
			return nil, fmt.Errorf("decode tree node %s: %w", n.Path, err)
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// Set writes the value at path, creating or replacing it, then notifies
// every watcher whose subtree covers the path.
func (s *Store) Set(ctx context.Context, path string, data map[string]any) error {
	if !ValidPath(path) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode tree node %s: %w", path, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO tree_nodes (path, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (path)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()`, path, raw)
	if err != nil {
		return err
	}
	s.notify(ctx, path)
	return nil
}

// Remove deletes the whole subtree rooted at path. Removing an absent
// subtree is not an error; watchers still get a fresh snapshot.
func (s *Store) Remove(ctx context.Context, path string) error {
	if !ValidPath(path) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	_, err := s.db.Exec(ctx, `
		DELETE FROM tree_nodes
		WHERE path = $1 OR path LIKE $1 || '/%'`, path)
	if err != nil {
		return err
	}
	s.notify(ctx, path)
	return nil
}

// OnValueChange opens a live subscription on the subtree rooted at path. The
// current snapshot is delivered first; every write or removal touching the
// subtree delivers a fresh full snapshot. Callers must Unsubscribe on
// teardown.
func (s *Store) OnValueChange(ctx context.Context, path string) (*Watch, error) {
	if !ValidPath(path) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	w := s.hub.watch(path)
	nodes, err := s.Get(ctx, path)
	if err != nil {
		w.Unsubscribe()
		return nil, err
	}
	w.push(nodes)
	return w, nil
}

// notify re-reads each affected watcher's subtree and fans out the snapshot.
func (s *Store) notify(ctx context.Context, changed string) {
	if s.mute {
		return
	}
	for _, w := range s.hub.affected(changed) {
		nodes, err := s.Get(ctx, w.base)
		if err != nil {
			s.logger.Error("tree snapshot read failed", "path", w.base, "error", err)
			w.pushErr(err)
			continue
		}
		w.push(nodes)
	}
}
