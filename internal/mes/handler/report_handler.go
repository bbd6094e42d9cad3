package handler

import (
	"github.com/bitfantasy/nimo-mes/internal/mes/service"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// ProductionSummary GET /reports/production-summary
func (h *ReportHandler) ProductionSummary(c *gin.Context) {
	summary, err := h.svc.GetProductionSummary(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, summary)
}

// WorkCenterLoad GET /reports/work-center-load
func (h *ReportHandler) WorkCenterLoad(c *gin.Context) {
	loads, err := h.svc.GetWorkCenterLoad(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": loads})
}

// LowStock GET /reports/low-stock
func (h *ReportHandler) LowStock(c *gin.Context) {
	items, err := h.svc.GetLowStock(c.Request.Context())
	if err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"items": items})
}
