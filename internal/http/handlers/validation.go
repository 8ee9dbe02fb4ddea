package handlers

import (
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/seoule/salon/internal/domain/appointment"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags used by request types.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(jsonTagName)

		_ = v.RegisterValidation("apptstatus", func(fl validator.FieldLevel) bool {
			return appointment.Status(fl.Field().String()).Valid()
		})
	})
}

func appointmentStatusList() string {
	names := make([]string, 0, 6)
	for _, s := range appointment.Statuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func isUUID(s string) bool {
	return uuid.Validate(s) == nil
}

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// parsePage reads page and limit query params, responding 400 on bad input.
func parsePage(ctx *gin.Context) (page, limit int, ok bool) {
	page, limit = defaultPage, defaultLimit

	if raw := ctx.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondBadRequest(ctx, "page must be a positive integer", gin.H{"field": "page"})
			return 0, 0, false
		}
		page = n
	}

	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLimit {
			RespondBadRequest(ctx, "limit must be between 1 and 100", gin.H{"field": "limit"})
			return 0, 0, false
		}
		limit = n
	}

	return page, limit, true
}

func newPagination(page, limit, total int) pagination {
	return pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
}
