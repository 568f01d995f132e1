// Package docstore is the structured-record backend: documents addressed by
// collection and id, stored as jsonb, with live full-snapshot subscriptions
// fanned out in-process after every committed write.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/angkasa-id/angkasa/internal/db"
)

// ErrNotFound reports a missing document on point reads.
var ErrNotFound = errors.New("document not found")

// Document is one stored record.
type Document struct {
	Collection string
	ID         string
	Data       map[string]any
	UpdatedAt  time.Time
}

// String returns a jsonb string field, or "" when absent or not a string.
func (d Document) String(field string) string {
	v, _ := d.Data[field].(string)
	return v
}

// Time parses an RFC 3339 string field, returning the zero time on failure.
func (d Document) Time(field string) time.Time {
	ts, err := time.Parse(time.RFC3339, d.String(field))
	if err != nil {
		return time.Time{}
	}
	return ts
}

// Int returns a numeric field as int64; jsonb numbers decode as float64.
func (d Document) Int(field string) int64 {
	switch v := d.Data[field].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}

// Bool returns a boolean field, false when absent.
func (d Document) Bool(field string) bool {
	v, _ := d.Data[field].(bool)
	return v
}

// Store executes document reads and writes and owns the subscription hub.
type Store struct {
	db     db.DBTX
	hub    *hub
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
	s.hub = newHub("documents", s.logger)
	return s
}

// WithTx returns a Store that runs its statements on tx while sharing the
// receiver's subscription hub. Writes through the clone do not fan out; call
// Refresh on the base store once the transaction commits.
func (s *Store) WithTx(tx pgx.Tx) *Store {
	return &Store{db: tx, hub: s.hub, logger: s.logger, mute: true}
}

// Refresh fans the collection's current snapshot out to live subscribers.
// Used after committing writes assembled via WithTx.
func (s *Store) Refresh(ctx context.Context, collection string) {
	s.publish(ctx, collection)
}

// GetDocument is a point read.
func (s *Store) GetDocument(ctx context.Context, collection, id string) (Document, error) {
	row := s.db.QueryRow(ctx, `
		SELECT data, updated_at FROM documents
		WHERE collection = $1 AND doc_id = $2`, collection, id)

	var raw []byte
	doc := Document{Collection: collection, ID: id}
	if err := row.Scan(&raw, &doc.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if err := json.Unmarshal(raw, &doc.Data); err != nil {
		return Document{}, fmt.Errorf("decode document %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

// SetDocument creates or fully replaces a document, then fans out the new
// collection snapshot to live subscribers.
func (s *Store) SetDocument(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", collection, id, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO documents (collection, doc_id, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, doc_id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
		collection, id, raw)
	if err != nil {
		return err
	}
	s.publish(ctx, collection)
	return nil
}

// UpdateDocument patches an existing document. With merge the new fields are
// shallow-merged over the stored object; without it the behavior matches
// SetDocument but the document must already exist.
func (s *Store) UpdateDocument(ctx context.Context, collection, id string, data map[string]any, merge bool) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document %s/%s: %w", collection, id, err)
	}

	var tag string
	if merge {
		tag = `UPDATE documents SET data = data || $3::jsonb, updated_at = now()
			WHERE collection = $1 AND doc_id = $2`
	} else {
		tag = `UPDATE documents SET data = $3::jsonb, updated_at = now()
			WHERE collection = $1 AND doc_id = $2`
	}
	ct, err := s.db.Exec(ctx, tag, collection, id, raw)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	s.publish(ctx, collection)
	return nil
}

// DeleteDocument removes a document. Deleting a missing document is not an
// error; subscribers still get a fresh snapshot.
func (s *Store) DeleteDocument(ctx context.Context, collection, id string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM documents WHERE collection = $1 AND doc_id = $2`, collection, id)
	if err != nil {
		return err
	}
	s.publish(ctx, collection)
	return nil
}

// DeleteCollection removes every document in a collection with a single
// statement.
func (s *Store) DeleteCollection(ctx context.Context, collection string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM documents WHERE collection = $1`, collection)
	if err != nil {
		return err
	}
	s.publish(ctx, collection)
	return nil
}

// ScanOption adjusts collection scans.
type ScanOption func(*scanOptions)

type scanOptions struct {
	orderField string
}

// OrderByDesc orders the scan by a jsonb string field, descending. The empty
// default orders by doc_id ascending.
func OrderByDesc(field string) ScanOption {
	return func(o *scanOptions) {
		o.orderField = field
	}
}

// GetAllDocuments scans a whole collection. A missing collection yields an
// empty, non-nil slice.
func (s *Store) GetAllDocuments(ctx context.Context, collection string, opts ...ScanOption) ([]Document, error) {
	var so scanOptions
	for _, opt := range opts {
		opt(&so)
	}

	query := `SELECT doc_id, data, updated_at FROM documents WHERE collection = $1 ORDER BY doc_id`
	args := []any{collection}
	if so.orderField != "" {
		query = `SELECT doc_id, data, updated_at FROM documents
			WHERE collection = $1 ORDER BY data->>$2 DESC, doc_id`
		args = append(args, so.orderField)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		doc := Document{Collection: collection}
		var raw []byte
		if err := rows.Scan(&doc.ID, &raw, &doc.UpdatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &doc.Data); err != nil {
			return nil, fmt.Errorf("decode document %s/%s: %w", collection, doc.ID, err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// Watch opens a live subscription on a collection. The current snapshot is
// delivered first; every subsequent mutation of the collection delivers a
// fresh full snapshot. Callers must Unsubscribe exactly once on teardown.
func (s *Store) Watch(ctx context.Context, collection string, opts ...ScanOption) (*Subscription, error) {
	sub := s.hub.subscribe(collection, opts)
	docs, err := s.GetAllDocuments(ctx, collection, opts...)
	if err != nil {
		sub.Unsubscribe()
		return nil, err
	}
	sub.push(docs)
	return sub, nil
}

// publish re-reads the collection and fans the snapshot out to every live
// subscriber. Read failures are reported on the subscriptions' error
// channels; the subscribers keep their last known snapshot.
func (s *Store) publish(ctx context.Context, collection string) {
	if s.mute {
		return
	}
	for _, sub := range s.hub.subscribers(collection) {
		docs, err := s.GetAllDocuments(ctx, collection, sub.scanOpts...)
		if err != nil {
			s.logger.Error("document snapshot read failed", "collection", collection, "error", err)
			sub.pushErr(err)
			continue
		}
		sub.push(docs)
	}
}
