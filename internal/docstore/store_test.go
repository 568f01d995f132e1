package docstore

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// stubConn records executed statements and serves canned rows, standing in
// for the pool and for a transaction handle.
type stubConn struct {
	mu      sync.Mutex
	execSQL []string
	rows    []stubDoc
}

type stubDoc struct {
	id   string
	data string
	at   time.Time
}

func (c *stubConn) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.execSQL = append(c.execSQL, sql)
	return pgconn.NewCommandTag("DELETE 1"), nil
}

func (c *stubConn) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &stubRows{rows: c.rows}, nil
}

func (c *stubConn) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return noRow{}
}

func (c *stubConn) execCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.execSQL)
}

type noRow struct{}

func (noRow) Scan(...any) error { return pgx.ErrNoRows }

type stubRows struct {
	pgx.Rows
	rows []stubDoc
	i    int
}

func (r *stubRows) Next() bool { r.i++; return r.i <= len(r.rows) }

func (r *stubRows) Scan(dest ...any) error {
	row := r.rows[r.i-1]
	*(dest[0].(*string)) = row.id
	*(dest[1].(*[]byte)) = []byte(row.data)
	*(dest[2].(*time.Time)) = row.at
	return nil
}

func (r *stubRows) Close()     {}
func (r *stubRows) Err() error { return nil }

// stubTx satisfies pgx.Tx for the statement surface the store touches.
type stubTx struct {
	pgx.Tx
	conn *stubConn
}

func (t stubTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.conn.Exec(ctx, sql, args...)
}

func (t stubTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.conn.Query(ctx, sql, args...)
}

func (t stubTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.conn.QueryRow(ctx, sql, args...)
}

func TestDeleteCollectionIsOneStatement(t *testing.T) {
	t.Parallel()

	conn := &stubConn{}
	s := New(conn, WithLogger(quietLogger()))

	if err := s.DeleteCollection(context.Background(), "posts__replies__p1"); err != nil {
		t.Fatalf("DeleteCollection() = %v, want nil", err)
	}
	if got := conn.execCount(); got != 1 {
		t.Fatalf("statements executed = %d, want 1", got)
	}
	sql := conn.execSQL[0]
	if !strings.Contains(sql, "DELETE FROM documents WHERE collection = $1") {
		t.Fatalf("statement = %q, want a whole-collection delete", sql)
	}
	if strings.Contains(sql, "doc_id") {
		t.Fatalf("statement = %q, must not filter by doc_id", sql)
	}
}

// Writes through a WithTx clone reach the transaction handle but never fan
// out; subscribers see the result only after Refresh on the base store.
func TestWithTxMutesFanOutUntilRefresh(t *testing.T) {
	t.Parallel()

	pool := &stubConn{rows: []stubDoc{{id: "p2", data: `{"title":"kept"}`, at: time.Now()}}}
	base := New(pool, WithLogger(quietLogger()))
	sub := base.hub.subscribe("posts", nil)
	defer sub.Unsubscribe()

	txConn := &stubConn{}
	txStore := base.WithTx(stubTx{conn: txConn})

	if err := txStore.DeleteDocument(context.Background(), "posts", "p1"); err != nil {
		t.Fatalf("DeleteDocument() = %v, want nil", err)
	}
	if got := txConn.execCount(); got != 1 {
		t.Fatalf("tx statements = %d, want 1", got)
	}
	if got := pool.execCount(); got != 0 {
		t.Fatalf("pool statements = %d, want 0", got)
	}
	select {
	case snap := <-sub.Snapshots():
		t.Fatalf("uncommitted write fanned out snapshot %+v", snap)
	default:
	}

	base.Refresh(context.Background(), "posts")

	select {
	case snap := <-sub.Snapshots():
		if len(snap) != 1 || snap[0].ID != "p2" {
			t.Fatalf("snapshot after Refresh = %+v, want single p2", snap)
		}
	default:
		t.Fatal("no snapshot delivered after Refresh")
	}
}

func TestWithTxSharesTheHub(t *testing.T) {
	t.Parallel()

	base := New(&stubConn{}, WithLogger(quietLogger()))
	clone := base.WithTx(stubTx{conn: &stubConn{}})

	if clone.hub != base.hub {
		t.Fatal("WithTx clone does not share the subscription hub")
	}
	if !clone.mute {
		t.Fatal("WithTx clone must not fan out")
	}
}
