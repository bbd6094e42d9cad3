package service

import (
	"context"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"github.com/bitfantasy/nimo-mes/internal/mes/repository"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type ReportService struct {
	moRepo  *repository.MORepository
	woRepo  *repository.WORepository
	invRepo *repository.InventoryRepository
}

func NewReportService(moRepo *repository.MORepository, woRepo *repository.WORepository, invRepo *repository.InventoryRepository) *ReportService {
	return &ReportService{moRepo: moRepo, woRepo: woRepo, invRepo: invRepo}
}

// ProductionSummary 生产看板汇总
type ProductionSummary struct {
	ByStatus   map[string]int64 `json:"by_status"`
	Total      int64            `json:"total"`
	Late       int64            `json:"late"`
	Unassigned int64            `json:"unassigned"`
}

// GetProductionSummary 按状态统计制造订单，附带逾期与未分配数量
func (s *ReportService) GetProductionSummary(ctx context.Context) (*ProductionSummary, error) {
	byStatus, err := s.moRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	summary := &ProductionSummary{ByStatus: byStatus}
	for _, count := range byStatus {
		summary.Total += count
	}

	db := s.moRepo.DB().WithContext(ctx)
	if err := db.Model(&entity.ManufacturingOrder{}).
		Where("end_date < NOW() AND status NOT IN ?",
			[]string{entity.MOStatusDone, entity.MOStatusCancelled}).
		Count(&summary.Late).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.ManufacturingOrder{}).
		Where("assignee_id = '' AND status NOT IN ?",
			[]string{entity.MOStatusDone, entity.MOStatusCancelled}).
		Count(&summary.Unassigned).Error; err != nil {
		return nil, err
	}
	return summary, nil
}

// WorkCenterLoad 工作中心负载与成本
type WorkCenterLoad struct {
	WorkCenterID   string  `json:"work_center_id"`
	WorkCenterName string  `json:"work_center_name"`
	DoneCount      int     `json:"done_count"`
	ExpectedMins   float64 `json:"expected_mins"`
	RealMins       float64 `json:"real_mins"`
	Cost           string  `json:"cost"` // 实际工时 × 时费率
}

// GetWorkCenterLoad 按工作中心汇总已完成工单的工时与成本。
// 金额用decimal计算，避免浮点累计误差。
func (s *ReportService) GetWorkCenterLoad(ctx context.Context) ([]WorkCenterLoad, error) {
	wos, err := s.woRepo.ListDone(ctx)
	if err != nil {
		return nil, err
	}

	grouped := lo.GroupBy(wos, func(wo entity.WorkOrder) string { return wo.WorkCenterID })

	sixty := decimal.NewFromInt(60)
	loads := make([]WorkCenterLoad, 0, len(grouped))
	for wcID, group := range grouped {
		load := WorkCenterLoad{WorkCenterID: wcID, DoneCount: len(group)}

		rate := decimal.Zero
		if group[0].WorkCenter != nil {
			load.WorkCenterName = group[0].WorkCenter.Name
			rate = decimal.NewFromFloat(group[0].WorkCenter.CostPerHour)
		}

		load.ExpectedMins = lo.SumBy(group, func(wo entity.WorkOrder) float64 {
			return wo.ExpectedDurationMins
		})
		load.RealMins = lo.SumBy(group, func(wo entity.WorkOrder) float64 {
			if wo.RealDurationMins != nil {
				return *wo.RealDurationMins
			}
			return 0
		})

		cost := decimal.NewFromFloat(load.RealMins).Mul(rate).Div(sixty)
		load.Cost = cost.Round(2).String()
		loads = append(loads, load)
	}
	return loads, nil
}

// LowStockItem 低库存条目
type LowStockItem struct {
	ProductID    string  `json:"product_id"`
	SKU          string  `json:"sku"`
	Name         string  `json:"name"`
	Available    float64 `json:"available"`
	ReorderLevel float64 `json:"reorder_level"`
}

// GetLowStock 低于补货线的库存
func (s *ReportService) GetLowStock(ctx context.Context) ([]LowStockItem, error) {
	alerts, err := s.invRepo.GetAlerts(ctx)
	if err != nil {
		return nil, err
	}
	items := lo.Map(alerts, func(inv entity.Inventory, _ int) LowStockItem {
		item := LowStockItem{
			ProductID:    inv.ProductID,
			Available:    inv.QuantityAvailable,
			ReorderLevel: inv.ReorderLevel,
		}
		if inv.Product != nil {
			item.SKU = inv.Product.SKU
			item.Name = inv.Product.Name
		}
		return item
	})
	return items, nil
}
