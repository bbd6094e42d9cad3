package handler

import (
	"github.com/bitfantasy/nimo-mes/internal/mes/repository"
	"github.com/bitfantasy/nimo-mes/internal/mes/service"
	"github.com/gin-gonic/gin"
)

type MOHandler struct {
	svc *service.MOService
}

func NewMOHandler(svc *service.MOService) *MOHandler {
	return &MOHandler{svc: svc}
}

// Create POST /mos
func (h *MOHandler) Create(c *gin.Context) {
	var input service.CreateMOInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	mo, err := h.svc.Create(c.Request.Context(), &input, GetUserID(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, mo)
}

// Get GET /mos/:id
func (h *MOHandler) Get(c *gin.Context) {
	mo, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "制造订单不存在")
		return
	}
	Success(c, mo)
}

// List GET /mos
func (h *MOHandler) List(c *gin.Context) {
	page, size := GetPagination(c)
	params := repository.MOListParams{
		Status:     c.Query("status"),
		ProductID:  c.Query("product_id"),
		AssigneeID: c.Query("assignee_id"),
		LateOnly:   c.Query("late") == "true",
		Page:       page,
		Size:       size,
	}
	mos, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": mos, "total": total, "page": page, "size": size})
}

// Confirm POST /mos/:id/confirm
func (h *MOHandler) Confirm(c *gin.Context) {
	mo, err := h.svc.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, mo)
}

// Start POST /mos/:id/start
func (h *MOHandler) Start(c *gin.Context) {
	mo, err := h.svc.Start(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, mo)
}

// Complete POST /mos/:id/complete
func (h *MOHandler) Complete(c *gin.Context) {
	mo, err := h.svc.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, mo)
}

// Cancel POST /mos/:id/cancel （管理员）
func (h *MOHandler) Cancel(c *gin.Context) {
	mo, err := h.svc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, mo)
}

// Delete DELETE /mos/:id （仅草稿）
func (h *MOHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	NoContent(c)
}

// Components GET /mos/:id/components （只读可用性检查，不做预留）
func (h *MOHandler) Components(c *gin.Context) {
	status, checks, err := h.svc.ComponentAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"status": status, "components": checks})
}
