package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/seoule/salon/internal/domain/appointment"
)

func TestAppointmentListQueries_CountSharesFilter(t *testing.T) {
	status := appointment.StatusScheduled
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	staffID := "0f8fad5b-d9cb-469f-a165-70867728950e"

	q := appointmentListQueries(appointment.ListFilter{
		Status:  &status,
		From:    &from,
		StaffID: &staffID,
		Limit:   10,
		Offset:  980,
	})

	where := " WHERE a.status = $1::appointment_status AND a.appointment_date >= $2 AND a.staff_id = $3::uuid"

	if q.count != "SELECT COUNT(*) FROM appointments a"+where {
		t.Fatalf("unexpected count query %q", q.count)
	}
	if !strings.Contains(q.page, where+" ORDER BY") {
		t.Fatalf("page query must use the same filter: %q", q.page)
	}
	if !strings.HasSuffix(q.page, "LIMIT $4 OFFSET $5") {
		t.Fatalf("unexpected paging placeholders: %q", q.page)
	}
	if strings.Contains(q.count, "LIMIT") || strings.Contains(q.count, "OVER") {
		t.Fatalf("count must not depend on the page window: %q", q.count)
	}

	if len(q.countArgs) != 3 {
		t.Fatalf("count args = %v", q.countArgs)
	}
	if len(q.pageArgs) != 5 || q.pageArgs[3] != 10 || q.pageArgs[4] != 980 {
		t.Fatalf("page args = %v", q.pageArgs)
	}
}

func TestAppointmentListQueries_NoFilter(t *testing.T) {
	q := appointmentListQueries(appointment.ListFilter{Limit: 20})

	if q.count != "SELECT COUNT(*) FROM appointments a" {
		t.Fatalf("unexpected count query %q", q.count)
	}
	if len(q.countArgs) != 0 {
		t.Fatalf("count args = %v", q.countArgs)
	}
	if !strings.HasSuffix(q.page, "LIMIT $1 OFFSET $2") {
		t.Fatalf("unexpected page query %q", q.page)
	}
}
