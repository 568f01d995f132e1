package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const authUserColumns = `id, email, display_name, password_hash, role, is_active,
	email_verified, verify_token, verify_sent_at, onboarded, created_at,
	last_login_at, coalesce(last_login_ip, '')`

func scanAuthUser(row interface{ Scan(dest ...any) error }) (AuthUser, error) {
	var u AuthUser
	err := row.Scan(
		&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.Role, &u.IsActive,
		&u.EmailVerified, &u.VerifyToken, &u.VerifySentAt, &u.Onboarded,
		&u.CreatedAt, &u.LastLoginAt, &u.LastLoginIp,
	)
	return u, err
}

func (q *Queries) GetAuthUser(ctx context.Context, id int64) (AuthUser, error) {
	row := q.db.QueryRow(ctx, `SELECT `+authUserColumns+` FROM auth_users WHERE id = $1`, id)
	return scanAuthUser(row)
}

func (q *Queries) GetAuthUserByEmail(ctx context.Context, email string) (AuthUser, error) {
	row := q.db.QueryRow(ctx, `SELECT `+authUserColumns+` FROM auth_users WHERE email = $1`, email)
	return scanAuthUser(row)
}

func (q *Queries) GetAuthUserByVerifyToken(ctx context.Context, token string) (AuthUser, error) {
	row := q.db.QueryRow(ctx, `SELECT `+authUserColumns+` FROM auth_users WHERE verify_token = $1`, token)
	return scanAuthUser(row)
}

func (q *Queries) CountAuthUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM auth_users`).Scan(&count)
	return count, err
}

func (q *Queries) CountAuthAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, `SELECT count(*) FROM auth_users WHERE role = 'admin' AND is_active`).Scan(&count)
	return count, err
}

type CreateAuthUserParams struct {
	Email         string
	DisplayName   string
	PasswordHash  string
	Role          string
	EmailVerified bool
}

func (q *Queries) CreateAuthUser(ctx context.Context, arg CreateAuthUserParams) (AuthUser, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO auth_users (email, display_name, password_hash, role, is_active, email_verified)
		VALUES ($1, $2, $3, $4, TRUE, $5)
		RETURNING `+authUserColumns,
		arg.Email, arg.DisplayName, arg.PasswordHash, arg.Role, arg.EmailVerified,
	)
	return scanAuthUser(row)
}

type UpdateAuthUserLoginMetaParams struct {
	ID          int64
	LastLoginAt pgtype.Timestamptz
	LastLoginIp string
}

func (q *Queries) UpdateAuthUserLoginMeta(ctx context.Context, arg UpdateAuthUserLoginMetaParams) error {
	_, err := q.db.Exec(ctx, `
		UPDATE auth_users SET last_login_at = $2, last_login_ip = $3 WHERE id = $1`,
		arg.ID, arg.LastLoginAt, arg.LastLoginIp,
	)
	return err
}

func (q *Queries) SetAuthUserActive(ctx context.Context, id int64, active bool) error {
	_, err := q.db.Exec(ctx, `UPDATE auth_users SET is_active = $2 WHERE id = $1`, id, active)
	return err
}

type SetAuthUserVerifyTokenParams struct {
	ID           int64
	VerifyToken  string
	VerifySentAt pgtype.Timestamptz
}

func (q *Queries) SetAuthUserVerifyToken(ctx context.Context, arg SetAuthUserVerifyTokenParams) error {
	_, err := q.db.Exec(ctx, `
		UPDATE auth_users SET verify_token = $2, verify_sent_at = $3 WHERE id = $1`,
		arg.ID, arg.VerifyToken, arg.VerifySentAt,
	)
	return err
}

func (q *Queries) MarkAuthUserVerified(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `
		UPDATE auth_users SET email_verified = TRUE, verify_token = NULL, verify_sent_at = NULL
		WHERE id = $1`, id)
	return err
}

func (q *Queries) MarkAuthUserOnboarded(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `UPDATE auth_users SET onboarded = TRUE WHERE id = $1`, id)
	return err
}

func (q *Queries) DeleteAuthUser(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM auth_users WHERE id = $1`, id)
	return err
}

func (q *Queries) ListAuthUsers(ctx context.Context) ([]AuthUser, error) {
	rows, err := q.db.Query(ctx, `SELECT `+authUserColumns+` FROM auth_users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []AuthUser
	for rows.Next() {
		u, err := scanAuthUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
