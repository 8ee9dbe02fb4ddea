package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seoule/salon/internal/domain/appointment"
	"github.com/seoule/salon/internal/http/handlers"
	"github.com/seoule/salon/internal/repo/postgres"
)

type fakeAppointments struct {
	CreateFn       func(req appointment.CreateAppointmentRequest) (appointment.Appointment, error)
	ListFn         func(f appointment.ListFilter) ([]appointment.Appointment, int, error)
	GetByIDFn      func(id string) (appointment.Appointment, error)
	UpdateFn       func(id string, req appointment.UpdateAppointmentRequest) (appointment.Appointment, error)
	UpdateStatusFn func(id string, status appointment.Status) (appointment.Appointment, error)
	DeleteFn       func(id string) error
}

func (f *fakeAppointments) Create(_ context.Context, req appointment.CreateAppointmentRequest) (appointment.Appointment, error) {
	return f.CreateFn(req)
}

func (f *fakeAppointments) List(_ context.Context, flt appointment.ListFilter) ([]appointment.Appointment, int, error) {
	return f.ListFn(flt)
}

func (f *fakeAppointments) GetByID(_ context.Context, id string) (appointment.Appointment, error) {
	return f.GetByIDFn(id)
}

func (f *fakeAppointments) Update(_ context.Context, id string, req appointment.UpdateAppointmentRequest) (appointment.Appointment, error) {
	return f.UpdateFn(id, req)
}

func (f *fakeAppointments) UpdateStatus(_ context.Context, id string, status appointment.Status) (appointment.Appointment, error) {
	return f.UpdateStatusFn(id, status)
}

func (f *fakeAppointments) Delete(_ context.Context, id string) error {
	return f.DeleteFn(id)
}

const (
	apptID  = "3f1c1f3e-8d7a-4f57-9c55-2b8e7b7f0a01"
	staffID = "a2b7c0de-1111-4222-8333-944455556666"
)

func newAppointmentsRouter(repo *fakeAppointments) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handlers.RegisterValidators()

	h := handlers.NewAppointmentsHandler(repo)

	r := gin.New()
	r.GET("/appointments", h.ListAppointments)
	r.POST("/appointments", h.CreateAppointment)
	r.GET("/appointments/:id", h.GetAppointment)
	r.PUT("/appointments/:id", h.UpdateAppointment)
	r.PATCH("/appointments/:id/status", h.UpdateAppointmentStatus)
	r.DELETE("/appointments/:id", h.DeleteAppointment)
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListAppointments_FiltersAndPagination(t *testing.T) {
	var got appointment.ListFilter

	repo := &fakeAppointments{ListFn: func(f appointment.ListFilter) ([]appointment.Appointment, int, error) {
		got = f
		return []appointment.Appointment{{ID: apptID, Status: appointment.StatusConfirmed}}, 21, nil
	}}

	w := serve(newAppointmentsRouter(repo), http.MethodGet,
		"/appointments?page=3&limit=5&status=confirmed&startDate=2026-03-01&endDate=2026-03-31T23:59:59Z&staffId="+staffID, "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	if got.Limit != 5 || got.Offset != 10 {
		t.Fatalf("limit/offset = %d/%d, want 5/10", got.Limit, got.Offset)
	}
	if got.Status == nil || *got.Status != appointment.StatusConfirmed {
		t.Fatalf("status filter = %v", got.Status)
	}
	if got.From == nil || !got.From.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("from = %v", got.From)
	}
	if got.To == nil || got.To.Day() != 31 {
		t.Fatalf("to = %v", got.To)
	}
	if got.StaffID == nil || *got.StaffID != staffID {
		t.Fatalf("staff filter = %v", got.StaffID)
	}

	var body struct {
		Appointments []appointment.Appointment `json:"appointments"`
		Pagination   struct {
			Page       int `json:"page"`
			Limit      int `json:"limit"`
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if body.Pagination.Total != 21 || body.Pagination.TotalPages != 5 || body.Pagination.Page != 3 {
		t.Fatalf("unexpected pagination %+v", body.Pagination)
	}
	if len(body.Appointments) != 1 {
		t.Fatalf("unexpected appointments %+v", body.Appointments)
	}
}

func TestListAppointments_RejectsBadQuery(t *testing.T) {
	repo := &fakeAppointments{ListFn: func(appointment.ListFilter) ([]appointment.Appointment, int, error) {
		t.Fatalf("repository must not be called")
		return nil, 0, nil
	}}
	r := newAppointmentsRouter(repo)

	for _, q := range []string{
		"?status=teleported",
		"?startDate=yesterday",
		"?staffId=42",
		"?page=0",
		"?limit=500",
	} {
		if w := serve(r, http.MethodGet, "/appointments"+q, ""); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", q, w.Code)
		}
	}
}

func TestCreateAppointment(t *testing.T) {
	repo := &fakeAppointments{CreateFn: func(req appointment.CreateAppointmentRequest) (appointment.Appointment, error) {
		price := 35.0
		return appointment.Appointment{
			ID:              apptID,
			MemberID:        req.MemberID,
			StaffID:         req.StaffID,
			ServiceID:       req.ServiceID,
			AppointmentDate: req.AppointmentDate,
			Duration:        req.Duration,
			Status:          appointment.StatusScheduled,
			TotalPrice:      &price,
		}, nil
	}}

	body := `{"memberId":"` + staffID + `","staffId":"` + staffID + `","serviceId":"` + staffID +
		`","appointmentDate":"2026-03-02T10:00:00Z","duration":60}`

	w := serve(newAppointmentsRouter(repo), http.MethodPost, "/appointments", body)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte(`"status":"scheduled"`)) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestAppointmentByID_Errors(t *testing.T) {
	repo := &fakeAppointments{
		GetByIDFn: func(string) (appointment.Appointment, error) { return appointment.Appointment{}, postgres.ErrNotFound },
		DeleteFn:  func(string) error { return postgres.ErrNotFound },
	}
	r := newAppointmentsRouter(repo)

	if w := serve(r, http.MethodGet, "/appointments/not-a-uuid", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/appointments/"+apptID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d", w.Code)
	}
	if w := serve(r, http.MethodDelete, "/appointments/"+apptID, ""); w.Code != http.StatusNotFound {
		t.Fatalf("delete missing status = %d", w.Code)
	}
}

func TestUpdateAppointmentStatus(t *testing.T) {
	var gotStatus appointment.Status

	repo := &fakeAppointments{UpdateStatusFn: func(id string, s appointment.Status) (appointment.Appointment, error) {
		gotStatus = s
		return appointment.Appointment{ID: id, Status: s}, nil
	}}
	r := newAppointmentsRouter(repo)

	w := serve(r, http.MethodPatch, "/appointments/"+apptID+"/status", `{"status":"in_progress"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if gotStatus != appointment.StatusInProgress {
		t.Fatalf("repo got %q", gotStatus)
	}

	if w := serve(r, http.MethodPatch, "/appointments/"+apptID+"/status", `{"status":"done"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid status accepted: %d", w.Code)
	}
}

func TestUpdateAppointment_PartialFields(t *testing.T) {
	var got appointment.UpdateAppointmentRequest

	repo := &fakeAppointments{UpdateFn: func(id string, req appointment.UpdateAppointmentRequest) (appointment.Appointment, error) {
		got = req
		return appointment.Appointment{ID: id}, nil
	}}

	w := serve(newAppointmentsRouter(repo), http.MethodPut, "/appointments/"+apptID, `{"notes":"french tips","totalPrice":42.5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	if got.Notes == nil || *got.Notes != "french tips" || got.TotalPrice == nil || *got.TotalPrice != 42.5 {
		t.Fatalf("unexpected update %+v", got)
	}
	if got.StaffID != nil || got.Status != nil || got.AppointmentDate != nil {
		t.Fatalf("absent fields must stay nil: %+v", got)
	}
}
