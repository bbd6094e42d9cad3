package handler

import (
	"github.com/bitfantasy/nimo-mes/internal/mes/service"
	"github.com/gin-gonic/gin"
)

type BOMHandler struct {
	svc *service.BOMService
}

func NewBOMHandler(svc *service.BOMService) *BOMHandler {
	return &BOMHandler{svc: svc}
}

// Create POST /boms
func (h *BOMHandler) Create(c *gin.Context) {
	var input service.CreateBOMInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	bom, err := h.svc.Create(c.Request.Context(), &input, GetUserID(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, bom)
}

// Get GET /boms/:id
func (h *BOMHandler) Get(c *gin.Context) {
	bom, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "BOM不存在")
		return
	}
	Success(c, bom)
}

// List GET /boms?product_id=
func (h *BOMHandler) List(c *gin.Context) {
	boms, err := h.svc.List(c.Request.Context(), c.Query("product_id"))
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": boms})
}

// Delete DELETE /boms/:id （管理员）
func (h *BOMHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	NoContent(c)
}
