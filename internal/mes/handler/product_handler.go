package handler

import (
	"github.com/bitfantasy/nimo-mes/internal/mes/repository"
	"github.com/bitfantasy/nimo-mes/internal/mes/service"
	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// Create POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var input service.CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	p, err := h.svc.Create(c.Request.Context(), &input)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, p)
}

// Get GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		NotFound(c, "产品不存在")
		return
	}
	Success(c, p)
}

// List GET /products
func (h *ProductHandler) List(c *gin.Context) {
	page, size := GetPagination(c)
	params := repository.ProductListParams{
		Type:    c.Query("type"),
		Keyword: c.Query("keyword"),
		Page:    page,
		Size:    size,
	}
	items, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": items, "total": total, "page": page, "size": size})
}

// Update PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var input service.UpdateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, p)
}

// Delete DELETE /products/:id （管理员）
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	NoContent(c)
}
