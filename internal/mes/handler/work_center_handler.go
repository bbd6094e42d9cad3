package handler

import (
	"github.com/bitfantasy/nimo-mes/internal/mes/service"
	"github.com/gin-gonic/gin"
)

type WorkCenterHandler struct {
	svc *service.WorkCenterService
}

func NewWorkCenterHandler(svc *service.WorkCenterService) *WorkCenterHandler {
	return &WorkCenterHandler{svc: svc}
}

// Create POST /work-centers
func (h *WorkCenterHandler) Create(c *gin.Context) {
	var input service.WorkCenterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	wc, err := h.svc.Create(c.Request.Context(), &input)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, wc)
}

// Get GET /work-centers/:id
func (h *WorkCenterHandler) Get(c *gin.Context) {
	wc, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "工作中心不存在")
		return
	}
	Success(c, wc)
}

// List GET /work-centers
func (h *WorkCenterHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}

// Update PUT /work-centers/:id
func (h *WorkCenterHandler) Update(c *gin.Context) {
	var input service.WorkCenterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	wc, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, wc)
}

// Delete DELETE /work-centers/:id （管理员）
func (h *WorkCenterHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	NoContent(c)
}
