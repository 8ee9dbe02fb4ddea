package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seoule/salon/internal/domain/staff"
	"github.com/seoule/salon/internal/observability"
)

type StaffRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewStaffRepo(pool *pgxpool.Pool, prom *observability.Prom) *StaffRepo {
	return &StaffRepo{pool: pool, prom: prom}
}

const staffColumns = `id::text, full_name, phone, email, position, hourly_rate::float8, status, created_at, updated_at`

func scanStaff(row rowScanner) (staff.Staff, error) {
	var s staff.Staff
	err := row.Scan(&s.ID, &s.FullName, &s.Phone, &s.Email, &s.Position, &s.HourlyRate, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *StaffRepo) Create(ctx context.Context, req staff.CreateStaffRequest) (staff.Staff, error) {
	var s staff.Staff

	err := r.prom.ObserveDB("staffs.create", func() error {
		var err error
		s, err = scanStaff(r.pool.QueryRow(ctx,
			`INSERT INTO staffs (full_name, phone, email, position, hourly_rate)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+staffColumns,
			req.FullName, req.Phone, req.Email, req.Position, req.HourlyRate,
		))
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			return staff.Staff{}, ErrConflict
		}
		return staff.Staff{}, err
	}

	return s, nil
}

func (r *StaffRepo) List(ctx context.Context) ([]staff.Staff, error) {
	output := make([]staff.Staff, 0)

	err := r.prom.ObserveDB("staffs.list", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+staffColumns+`
			FROM staffs
			ORDER BY full_name ASC, id ASC`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			s, err := scanStaff(rows)
			if err != nil {
				return err
			}
			output = append(output, s)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}
