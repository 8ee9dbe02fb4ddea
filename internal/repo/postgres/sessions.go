package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seoule/salon/internal/domain/session"
	"github.com/seoule/salon/internal/observability"
)

type SessionsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewSessionsRepo(pool *pgxpool.Pool, prom *observability.Prom) *SessionsRepo {
	return &SessionsRepo{pool: pool, prom: prom}
}

func (r *SessionsRepo) Insert(ctx context.Context, userID, token string, expiresAt time.Time) (session.Session, error) {
	var s session.Session

	err := r.prom.ObserveDB("sessions.insert", func() error {
		return r.pool.QueryRow(ctx,
			`INSERT INTO sessions (user_id, token, expires_at)
			VALUES ($1::uuid, $2, $3)
			RETURNING id::text, user_id::text, token, expires_at, created_at`,
			userID, token, expiresAt,
		).Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt)
	})

	if err != nil {
		if isUniqueViolation(err) {
			return session.Session{}, ErrConflict
		}
		return session.Session{}, err
	}

	return s, nil
}

// FindValid returns the session for token only while expires_at is after now.
func (r *SessionsRepo) FindValid(ctx context.Context, token string, now time.Time) (session.Session, error) {
	var s session.Session

	err := r.prom.ObserveDB("sessions.find_valid", func() error {
		return r.pool.QueryRow(ctx,
			`SELECT id::text, user_id::text, token, expires_at, created_at
			FROM sessions
			WHERE token = $1 AND expires_at > $2`,
			token, now,
		).Scan(&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, err
	}

	return s, nil
}

// DeleteByToken is idempotent; deleting a missing token is not an error.
func (r *SessionsRepo) DeleteByToken(ctx context.Context, token string) error {
	return r.prom.ObserveDB("sessions.delete_by_token", func() error {
		_, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
		return err
	})
}

func (r *SessionsRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64

	err := r.prom.ObserveDB("sessions.delete_expired", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
		if err != nil {
			return err
		}
		n = tag.RowsAffected()
		return nil
	})

	return n, err
}
