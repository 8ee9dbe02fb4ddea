package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seoule/salon/internal/config"
	"github.com/seoule/salon/internal/domain/user"
	"github.com/seoule/salon/internal/security"
)

// EnsureAdminUser creates the configured admin account when it does not exist yet.
func EnsureAdminUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config, hasher *security.Hasher) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var dummy string

	err := pool.QueryRow(ctx, `SELECT id::text FROM users WHERE email = $1`, cfg.AdminEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := hasher.Hash(cfg.AdminPassword)

	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (email, password_hash, full_name, role, is_active)
		VALUES ($1, $2, $3, $4::user_role, TRUE)
		ON CONFLICT (email) DO NOTHING`,
		cfg.AdminEmail, hash, cfg.AdminName, string(user.RoleAdmin),
	)

	if err == nil {
		slog.Info("admin user ensured", "email", cfg.AdminEmail)
	}

	return err
}
