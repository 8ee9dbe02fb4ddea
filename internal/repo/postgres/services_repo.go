package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seoule/salon/internal/domain/service"
	"github.com/seoule/salon/internal/observability"
)

type ServicesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewServicesRepo(pool *pgxpool.Pool, prom *observability.Prom) *ServicesRepo {
	return &ServicesRepo{pool: pool, prom: prom}
}

const serviceColumns = `id::text, name, slug, description, category, price::float8, duration, is_active, created_at, updated_at`

func scanService(row rowScanner) (service.Service, error) {
	var s service.Service
	err := row.Scan(&s.ID, &s.Name, &s.Slug, &s.Description, &s.Category, &s.Price, &s.Duration, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create stores a service under the slug derived from its name. A clashing slug is ErrConflict.
func (r *ServicesRepo) Create(ctx context.Context, req service.CreateServiceRequest) (service.Service, error) {
	var s service.Service

	err := r.prom.ObserveDB("services.create", func() error {
		var err error
		s, err = scanService(r.pool.QueryRow(ctx,
			`INSERT INTO services (name, slug, description, category, price, duration)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+serviceColumns,
			req.Name, service.SlugFor(req.Name), req.Description, req.Category, req.Price, req.Duration,
		))
		return err
	})

	if err != nil {
		if isUniqueViolation(err) {
			return service.Service{}, ErrConflict
		}
		return service.Service{}, err
	}

	return s, nil
}

// ListActive returns active services ordered by category then name.
func (r *ServicesRepo) ListActive(ctx context.Context, f service.ListFilter) ([]service.Service, error) {
	conds := []string{"is_active = TRUE"}
	var args []any

	argsPosition := 1

	if f.Category != nil {
		conds = append(conds, fmt.Sprintf("category = $%d", argsPosition))
		args = append(args, *f.Category)
		argsPosition++
	}

	query := `SELECT ` + serviceColumns + ` FROM services WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY category ASC, name ASC`

	output := make([]service.Service, 0)

	err := r.prom.ObserveDB("services.list_active", func() error {
		rows, err := r.pool.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			s, err := scanService(rows)
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
