package handler

import (
	"context"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"github.com/bitfantasy/nimo-mes/internal/mes/repository"
	"github.com/bitfantasy/nimo-mes/internal/mes/service"
	"github.com/gin-gonic/gin"
)

type WOHandler struct {
	svc *service.WOService
}

func NewWOHandler(svc *service.WOService) *WOHandler {
	return &WOHandler{svc: svc}
}

// Get GET /wos/:id
func (h *WOHandler) Get(c *gin.Context) {
	wo, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "工单不存在")
		return
	}
	Success(c, wo)
}

// List GET /wos
func (h *WOHandler) List(c *gin.Context) {
	page, size := GetPagination(c)
	params := repository.WOListParams{
		MOID:         c.Query("mo_id"),
		Status:       c.Query("status"),
		WorkCenterID: c.Query("work_center_id"),
		AssignedTo:   c.Query("assigned_to"),
		Page:         page,
		Size:         size,
	}
	wos, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": wos, "total": total, "page": page, "size": size})
}

// Start POST /wos/:id/start
func (h *WOHandler) Start(c *gin.Context) {
	h.transition(c, h.svc.Start)
}

// Pause POST /wos/:id/pause
func (h *WOHandler) Pause(c *gin.Context) {
	h.transition(c, h.svc.Pause)
}

// Resume POST /wos/:id/resume
func (h *WOHandler) Resume(c *gin.Context) {
	h.transition(c, h.svc.Resume)
}

// Complete POST /wos/:id/complete
func (h *WOHandler) Complete(c *gin.Context) {
	h.transition(c, h.svc.Complete)
}

// Cancel POST /wos/:id/cancel
func (h *WOHandler) Cancel(c *gin.Context) {
	h.transition(c, h.svc.Cancel)
}

func (h *WOHandler) transition(c *gin.Context, fn func(ctx context.Context, id string) (*entity.WorkOrder, error)) {
	wo, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, wo)
}
