package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seoule/salon/internal/domain/appointment"
)

type AppointmentsRepository interface {
	Create(ctx context.Context, req appointment.CreateAppointmentRequest) (appointment.Appointment, error)
	List(ctx context.Context, f appointment.ListFilter) ([]appointment.Appointment, int, error)
	GetByID(ctx context.Context, id string) (appointment.Appointment, error)
	Update(ctx context.Context, id string, req appointment.UpdateAppointmentRequest) (appointment.Appointment, error)
	UpdateStatus(ctx context.Context, id string, status appointment.Status) (appointment.Appointment, error)
	Delete(ctx context.Context, id string) error
}

type AppointmentsHandler struct {
	repo AppointmentsRepository
}

func NewAppointmentsHandler(repo AppointmentsRepository) *AppointmentsHandler {
	return &AppointmentsHandler{repo: repo}
}

// parseDateParam accepts RFC 3339 timestamps or plain dates (UTC midnight).
func parseDateParam(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}

	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, true
	}

	return time.Time{}, false
}

func (h *AppointmentsHandler) ListAppointments(ctx *gin.Context) {
	page, limit, ok := parsePage(ctx)
	if !ok {
		return
	}

	f := appointment.ListFilter{Limit: limit, Offset: (page - 1) * limit}

	if raw := ctx.Query("status"); raw != "" {
		s := appointment.Status(raw)
		if !s.Valid() {
			RespondBadRequest(ctx, "unknown appointment status", gin.H{"field": "status"})
			return
		}
		f.Status = &s
	}

	if raw := ctx.Query("startDate"); raw != "" {
		t, ok := parseDateParam(raw)
		if !ok {
			RespondBadRequest(ctx, "startDate must be a date or RFC 3339 timestamp", gin.H{"field": "startDate"})
			return
		}
		f.From = &t
	}

	if raw := ctx.Query("endDate"); raw != "" {
		t, ok := parseDateParam(raw)
		if !ok {
			RespondBadRequest(ctx, "endDate must be a date or RFC 3339 timestamp", gin.H{"field": "endDate"})
			return
		}
		f.To = &t
	}

	if raw := ctx.Query("staffId"); raw != "" {
		if !isUUID(raw) {
			RespondBadRequest(ctx, "staffId must be a valid UUID", gin.H{"field": "staffId"})
			return
		}
		f.StaffID = &raw
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	items, total, err := h.repo.List(cctx, f)
	if err != nil {
		respondRepoError(ctx, err, "appointment")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"appointments": items,
		"pagination":   newPagination(page, limit, total),
	})
}

func (h *AppointmentsHandler) CreateAppointment(ctx *gin.Context) {
	var req appointment.CreateAppointmentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	a, err := h.repo.Create(cctx, req)
	if err != nil {
		respondRepoError(ctx, err, "appointment")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"appointment": a})
}

// pathID reads :id and responds 400 when it is not a UUID.
func pathID(ctx *gin.Context) (string, bool) {
	id := ctx.Param("id")

	if !isUUID(id) {
		RespondBadRequest(ctx, "appointment id must be a valid UUID", gin.H{"field": "id"})
		return "", false
	}

	return id, true
}

func (h *AppointmentsHandler) GetAppointment(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	a, err := h.repo.GetByID(cctx, id)
	if err != nil {
		respondRepoError(ctx, err, "appointment")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"appointment": a})
}

func (h *AppointmentsHandler) UpdateAppointment(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req appointment.UpdateAppointmentRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	a, err := h.repo.Update(cctx, id, req)
	if err != nil {
		respondRepoError(ctx, err, "appointment")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"appointment": a})
}

func (h *AppointmentsHandler) UpdateAppointmentStatus(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req appointment.StatusUpdateRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	a, err := h.repo.UpdateStatus(cctx, id, req.Status)
	if err != nil {
		respondRepoError(ctx, err, "appointment")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"appointment": a})
}

func (h *AppointmentsHandler) DeleteAppointment(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.repo.Delete(cctx, id); err != nil {
		respondRepoError(ctx, err, "appointment")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
