package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seoule/salon/internal/domain/member"
	"github.com/seoule/salon/internal/observability"
)

type MembersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewMembersRepo(pool *pgxpool.Pool, prom *observability.Prom) *MembersRepo {
	return &MembersRepo{pool: pool, prom: prom}
}

const memberColumns = `id::text, full_name, phone, email, status, created_at, updated_at`

func scanMember(row rowScanner) (member.Member, error) {
	var m member.Member

	if err := row.Scan(&m.ID, &m.FullName, &m.Phone, &m.Email, &m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return member.Member{}, err
	}
	return m, nil
}

func (r *MembersRepo) Create(ctx context.Context, req member.CreateMemberRequest) (member.Member, error) {
	var m member.Member

	err := r.prom.ObserveDB("members.create", func() error {
		var err error
		m, err = scanMember(r.pool.QueryRow(ctx,
			`INSERT INTO members (full_name, phone, email)
			VALUES ($1, $2, $3)
			RETURNING `+memberColumns,
			req.FullName, req.Phone, req.Email,
		))
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			return member.Member{}, ErrConflict
		}
		return member.Member{}, err
	}

	return m, nil
}

// List returns newest members first together with the total row count.
func (r *MembersRepo) List(ctx context.Context, f member.ListFilter) ([]member.Member, int, error) {
	output := make([]member.Member, 0, f.Limit)
	total := 0

	err := r.prom.ObserveDB("members.list", func() error {
		if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM members`).Scan(&total); err != nil {
			return err
		}
		if f.Offset >= total {
			return nil
		}

		rows, err := r.pool.Query(ctx,
			`SELECT `+memberColumns+`
			FROM members
			ORDER BY created_at DESC, id ASC
			LIMIT $1 OFFSET $2`,
			f.Limit, f.Offset,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			m, err := scanMember(rows)
			if err != nil {
				return err
			}
			output = append(output, m)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, 0, err
	}

	return output, total, nil
}

func (r *MembersRepo) GetByID(ctx context.Context, id string) (member.Member, error) {
	var m member.Member

	err := r.prom.ObserveDB("members.get_by_id", func() error {
		var err error
		m, err = scanMember(r.pool.QueryRow(ctx,
			`SELECT `+memberColumns+` FROM members WHERE id = $1::uuid`, id,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return member.Member{}, ErrNotFound
		}
		return member.Member{}, err
	}

	return m, nil
}

// Update applies only the fields present in req.
func (r *MembersRepo) Update(ctx context.Context, id string, req member.UpdateMemberRequest) (member.Member, error) {
	var m member.Member

	err := r.prom.ObserveDB("members.update", func() error {
		var err error
		m, err = scanMember(r.pool.QueryRow(ctx,
			`UPDATE members
			SET full_name = COALESCE($2, full_name),
				phone = COALESCE($3, phone),
				email = COALESCE($4, email),
				status = COALESCE($5, status),
				updated_at = NOW()
			WHERE id = $1::uuid
			RETURNING `+memberColumns,
			id, req.FullName, req.Phone, req.Email, req.Status,
		))
		return err
	})

	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows), isInvalidText(err):
			return member.Member{}, ErrNotFound
		case isUniqueViolation(err):
			return member.Member{}, ErrConflict
		}
		return member.Member{}, err
	}

	return m, nil
}
