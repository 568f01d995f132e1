// Package db holds the hand-written query layer over pgx. The call surface
// mirrors a generated-queries package: one method per statement, pgx.ErrNoRows
// passed through untouched.
package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgxpool.Pool the queries need, so callers can pass a
// transaction where it matters.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ DBTX = (*pgxpool.Pool)(nil)

// Queries executes the application's SQL statements.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// AuthUser is one row of auth_users.
type AuthUser struct {
	ID            int64
	Email         string
	DisplayName   string
	PasswordHash  string
	Role          string
	IsActive      bool
	EmailVerified bool
	VerifyToken   pgtype.Text
	VerifySentAt  pgtype.Timestamptz
	Onboarded     bool
	CreatedAt     time.Time
	LastLoginAt   pgtype.Timestamptz
	LastLoginIp   string
}
