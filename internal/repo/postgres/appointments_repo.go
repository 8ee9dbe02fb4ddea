package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/seoule/salon/internal/domain/appointment"
	"github.com/seoule/salon/internal/observability"
)

type AppointmentsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewAppointmentsRepo(pool *pgxpool.Pool, prom *observability.Prom) *AppointmentsRepo {
	return &AppointmentsRepo{pool: pool, prom: prom}
}

// appointmentSelect reads appointments from src (a table or CTE aliased as a)
// with the member, staff and service summaries left joined in.
func appointmentSelect(src string) string {
	return `SELECT a.id::text, a.member_id::text, a.staff_id::text, a.service_id::text,
		a.appointment_date, a.duration, a.status::text, a.total_price::float8, a.notes,
		a.created_at, a.updated_at,
		m.id::text, m.full_name, m.phone, m.email,
		st.id::text, st.full_name, st.phone, st.email, st.position,
		sv.id::text, sv.name, sv.description, sv.category, sv.price::float8
	FROM ` + src + ` a
	LEFT JOIN members m ON m.id = a.member_id
	LEFT JOIN staffs st ON st.id = a.staff_id
	LEFT JOIN services sv ON sv.id = a.service_id`
}

func scanAppointment(row rowScanner) (appointment.Appointment, error) {
	var a appointment.Appointment
	var status string

	var (
		memberID, memberName, memberPhone, memberEmail            *string
		staffID, staffName, staffPhone, staffEmail, staffPosition *string
		serviceID, serviceName, serviceDesc, serviceCategory      *string
		servicePrice                                              *float64
	)

	dest := []any{
		&a.ID, &a.MemberID, &a.StaffID, &a.ServiceID,
		&a.AppointmentDate, &a.Duration, &status, &a.TotalPrice, &a.Notes,
		&a.CreatedAt, &a.UpdatedAt,
		&memberID, &memberName, &memberPhone, &memberEmail,
		&staffID, &staffName, &staffPhone, &staffEmail, &staffPosition,
		&serviceID, &serviceName, &serviceDesc, &serviceCategory, &servicePrice,
	}

	if err := row.Scan(dest...); err != nil {
		return appointment.Appointment{}, err
	}

	a.Status = appointment.Status(status)

	if memberID != nil {
		a.Member = &appointment.MemberSummary{
			ID:       *memberID,
			FullName: deref(memberName),
			Phone:    deref(memberPhone),
			Email:    memberEmail,
		}
	}

	if staffID != nil {
		a.Staff = &appointment.StaffSummary{
			ID:       *staffID,
			FullName: deref(staffName),
			Phone:    deref(staffPhone),
			Email:    deref(staffEmail),
			Position: deref(staffPosition),
		}
	}

	if serviceID != nil {
		svc := &appointment.ServiceSummary{
			ID:          *serviceID,
			Name:        deref(serviceName),
			Description: serviceDesc,
			Category:    deref(serviceCategory),
		}
		if servicePrice != nil {
			svc.Price = *servicePrice
		}
		a.Service = svc
	}

	return a, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create books an appointment. total_price starts at the service's list price.
func (r *AppointmentsRepo) Create(ctx context.Context, req appointment.CreateAppointmentRequest) (appointment.Appointment, error) {
	var a appointment.Appointment

	err := r.prom.ObserveDB("appointments.create", func() error {
		var err error
		a, err = scanAppointment(r.pool.QueryRow(ctx,
			`WITH inserted AS (
				INSERT INTO appointments (member_id, staff_id, service_id, appointment_date, duration, notes, total_price)
				VALUES ($1::uuid, $2::uuid, $3::uuid, $4, $5, $6,
					(SELECT price FROM services WHERE id = $3::uuid))
				RETURNING *
			)
			`+appointmentSelect("inserted"),
			req.MemberID, req.StaffID, req.ServiceID, req.AppointmentDate.UTC(), req.Duration, req.Notes,
		))
		return err
	})

	if err != nil {
		return appointment.Appointment{}, err
	}

	return a, nil
}

type listQueries struct {
	count     string
	countArgs []any
	page      string
	pageArgs  []any
}

// appointmentListQueries builds the count and page queries for f. Both share
// the same WHERE clause and leading args.
func appointmentListQueries(f appointment.ListFilter) listQueries {
	var conds []string
	var args []any

	argsPosition := 1

	if f.Status != nil {
		conds = append(conds, fmt.Sprintf("a.status = $%d::appointment_status", argsPosition))
		args = append(args, string(*f.Status))
		argsPosition++
	}

	if f.From != nil {
		conds = append(conds, fmt.Sprintf("a.appointment_date >= $%d", argsPosition))
		args = append(args, *f.From)
		argsPosition++
	}

	if f.To != nil {
		conds = append(conds, fmt.Sprintf("a.appointment_date <= $%d", argsPosition))
		args = append(args, *f.To)
		argsPosition++
	}

	if f.StaffID != nil {
		conds = append(conds, fmt.Sprintf("a.staff_id = $%d::uuid", argsPosition))
		args = append(args, *f.StaffID)
		argsPosition++
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	// stable ordering for pagination
	page := appointmentSelect("appointments") + where +
		fmt.Sprintf(" ORDER BY a.appointment_date DESC, a.id ASC LIMIT $%d OFFSET $%d", argsPosition, argsPosition+1)

	return listQueries{
		count:     `SELECT COUNT(*) FROM appointments a` + where,
		countArgs: args,
		page:      page,
		pageArgs:  append(append([]any(nil), args...), f.Limit, f.Offset),
	}
}

// List returns appointments newest first, filtered by f, with the total number of matches.
func (r *AppointmentsRepo) List(ctx context.Context, f appointment.ListFilter) ([]appointment.Appointment, int, error) {
	q := appointmentListQueries(f)

	output := make([]appointment.Appointment, 0, f.Limit)
	total := 0

	err := r.prom.ObserveDB("appointments.list", func() error {
		// counted separately so a page past the end still reports the real total
		if err := r.pool.QueryRow(ctx, q.count, q.countArgs...).Scan(&total); err != nil {
			return err
		}
		if f.Offset >= total {
			return nil
		}

		rows, err := r.pool.Query(ctx, q.page, q.pageArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			a, err := scanAppointment(rows)
			if err != nil {
				return err
			}
			output = append(output, a)
		}
		return rows.Err()
	})

	if err != nil {
		if isInvalidText(err) {
			return output, 0, nil
		}
		return nil, 0, err
	}

	return output, total, nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointment.Appointment, error) {
	var a appointment.Appointment

	err := r.prom.ObserveDB("appointments.get_by_id", func() error {
		var err error
		a, err = scanAppointment(r.pool.QueryRow(ctx,
			appointmentSelect("appointments")+` WHERE a.id = $1::uuid`, id,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return appointment.Appointment{}, ErrNotFound
		}
		return appointment.Appointment{}, err
	}

	return a, nil
}

// Update applies only the fields present in req.
func (r *AppointmentsRepo) Update(ctx context.Context, id string, req appointment.UpdateAppointmentRequest) (appointment.Appointment, error) {
	var status *string
	if req.Status != nil {
		s := string(*req.Status)
		status = &s
	}

	var a appointment.Appointment

	err := r.prom.ObserveDB("appointments.update", func() error {
		var err error
		a, err = scanAppointment(r.pool.QueryRow(ctx,
			`WITH updated AS (
				UPDATE appointments
				SET staff_id = COALESCE($2::uuid, staff_id),
					service_id = COALESCE($3::uuid, service_id),
					appointment_date = COALESCE($4::timestamptz, appointment_date),
					duration = COALESCE($5::int, duration),
					status = COALESCE($6::appointment_status, status),
					total_price = COALESCE($7::numeric, total_price),
					notes = COALESCE($8::text, notes),
					updated_at = NOW()
				WHERE id = $1::uuid
				RETURNING *
			)
			`+appointmentSelect("updated"),
			id, req.StaffID, req.ServiceID, req.AppointmentDate, req.Duration, status, req.TotalPrice, req.Notes,
		))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return appointment.Appointment{}, ErrNotFound
		}
		return appointment.Appointment{}, err
	}

	return a, nil
}

func (r *AppointmentsRepo) UpdateStatus(ctx context.Context, id string, status appointment.Status) (appointment.Appointment, error) {
	return r.Update(ctx, id, appointment.UpdateAppointmentRequest{Status: &status})
}

func (r *AppointmentsRepo) Delete(ctx context.Context, id string) error {
	return r.prom.ObserveDB("appointments.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1::uuid`, id)

		if err != nil {
			if isInvalidText(err) {
				return ErrNotFound
			}
			return err
		}

		// if no rows were deleted as a result return a not found error
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		return nil
	})
}
