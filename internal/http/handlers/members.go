package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seoule/salon/internal/domain/member"
)

type MembersRepository interface {
	Create(ctx context.Context, req member.CreateMemberRequest) (member.Member, error)
	List(ctx context.Context, f member.ListFilter) ([]member.Member, int, error)
	GetByID(ctx context.Context, id string) (member.Member, error)
	Update(ctx context.Context, id string, req member.UpdateMemberRequest) (member.Member, error)
}

type MembersHandler struct {
	repo MembersRepository
}

func NewMembersHandler(repo MembersRepository) *MembersHandler {
	return &MembersHandler{repo: repo}
}

func (h *MembersHandler) ListMembers(ctx *gin.Context) {
	page, limit, ok := parsePage(ctx)
	if !ok {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	items, total, err := h.repo.List(cctx, member.ListFilter{Limit: limit, Offset: (page - 1) * limit})
	if err != nil {
		respondRepoError(ctx, err, "member")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"data":       items,
		"pagination": newPagination(page, limit, total),
	})
}

func (h *MembersHandler) CreateMember(ctx *gin.Context) {
	var req member.CreateMemberRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	m, err := h.repo.Create(cctx, req)
	if err != nil {
		respondRepoError(ctx, err, "member")
		return
	}

	ctx.JSON(http.StatusCreated, m)
}

func (h *MembersHandler) GetMember(ctx *gin.Context) {
	id := ctx.Param("id")

	if !isUUID(id) {
		RespondBadRequest(ctx, "member id must be a valid UUID", gin.H{"field": "id"})
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	m, err := h.repo.GetByID(cctx, id)
	if err != nil {
		respondRepoError(ctx, err, "member")
		return
	}

	ctx.JSON(http.StatusOK, m)
}

func (h *MembersHandler) UpdateMember(ctx *gin.Context) {
	id := ctx.Param("id")

	if !isUUID(id) {
		RespondBadRequest(ctx, "member id must be a valid UUID", gin.H{"field": "id"})
		return
	}

	var req member.UpdateMemberRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	m, err := h.repo.Update(cctx, id, req)
	if err != nil {
		respondRepoError(ctx, err, "member")
		return
	}

	ctx.JSON(http.StatusOK, m)
}
