package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seoule/salon/internal/domain/staff"
)

type StaffRepository interface {
	Create(ctx context.Context, req staff.CreateStaffRequest) (staff.Staff, error)
	List(ctx context.Context) ([]staff.Staff, error)
}

type StaffHandler struct {
	repo StaffRepository
}

func NewStaffHandler(repo StaffRepository) *StaffHandler {
	return &StaffHandler{repo: repo}
}

func (h *StaffHandler) ListStaff(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	items, err := h.repo.List(cctx)
	if err != nil {
		respondRepoError(ctx, err, "staff")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"staff": items})
}

func (h *StaffHandler) CreateStaff(ctx *gin.Context) {
	var req staff.CreateStaffRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	s, err := h.repo.Create(cctx, req)
	if err != nil {
		respondRepoError(ctx, err, "staff")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"staff": s})
}
