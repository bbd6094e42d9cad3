package handler

import (
	"github.com/bitfantasy/nimo-mes/internal/mes/repository"
	"github.com/bitfantasy/nimo-mes/internal/mes/service"
	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// AddMovement POST /ledger/add —— 手工库存移动
func (h *InventoryHandler) AddMovement(c *gin.Context) {
	var req service.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request: "+err.Error())
		return
	}
	entry, inv, err := h.svc.AddMovement(c.Request.Context(), &req, GetUserID(c))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"entry": entry, "inventory": inv})
}

// ListLedger GET /ledger
func (h *InventoryHandler) ListLedger(c *gin.Context) {
	page, size := GetPagination(c)
	entries, total, err := h.svc.ListLedger(c.Request.Context(), c.Query("product_id"), page, size)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": entries, "total": total, "page": page, "size": size})
}

// List GET /inventory
func (h *InventoryHandler) List(c *gin.Context) {
	page, size := GetPagination(c)
	params := repository.InventoryListParams{
		ProductID: c.Query("product_id"),
		LowStock:  c.Query("low_stock") == "true",
		Page:      page,
		Size:      size,
	}
	items, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": items, "total": total, "page": page, "size": size})
}

// Alerts GET /inventory/alerts
func (h *InventoryHandler) Alerts(c *gin.Context) {
	alerts, err := h.svc.GetAlerts(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": alerts})
}
