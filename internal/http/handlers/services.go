package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seoule/salon/internal/domain/service"
)

type ServicesRepository interface {
	Create(ctx context.Context, req service.CreateServiceRequest) (service.Service, error)
	ListActive(ctx context.Context, f service.ListFilter) ([]service.Service, error)
}

type ServicesHandler struct {
	repo ServicesRepository
}

func NewServicesHandler(repo ServicesRepository) *ServicesHandler {
	return &ServicesHandler{repo: repo}
}

func (h *ServicesHandler) ListServices(ctx *gin.Context) {
	var f service.ListFilter

	if c := ctx.Query("category"); c != "" {
		f.Category = &c
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	items, err := h.repo.ListActive(cctx, f)
	if err != nil {
		respondRepoError(ctx, err, "service")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"services": items})
}

func (h *ServicesHandler) CreateService(ctx *gin.Context) {
	var req service.CreateServiceRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	s, err := h.repo.Create(cctx, req)
	if err != nil {
		respondRepoError(ctx, err, "service")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"service": s})
}
