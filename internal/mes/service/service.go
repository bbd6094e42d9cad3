package service

import (
	"errors"
	"fmt"

	"github.com/bitfantasy/nimo-mes/internal/mes/repository"
	"gorm.io/gorm"
)

// 错误定义
var (
	// ErrInvalidTransition 非法状态迁移（映射为409）
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ShortageError 组件缺料。预留事务整体回滚后返回，带第一个缺料的产品ID。
type ShortageError struct {
	ProductID string
}

func (e *ShortageError) Error() string {
	return fmt.Sprintf("component not available: %s", e.ProductID)
}

// Services MES 服务集合
type Services struct {
	Product    *ProductService
	BOM        *BOMService
	Inventory  *InventoryService
	MO         *MOService
	WO         *WOService
	WorkCenter *WorkCenterService
	Report     *ReportService
}

func NewServices(repos *repository.Repositories, db *gorm.DB) *Services {
	bomSvc := NewBOMService(repos.BOM, repos.Product)
	return &Services{
		Product:    NewProductService(repos.Product),
		BOM:        bomSvc,
		Inventory:  NewInventoryService(repos.Inventory, repos.Product, db),
		MO:         NewMOService(repos.MO, repos.Product, bomSvc, db),
		WO:         NewWOService(repos.WO, db),
		WorkCenter: NewWorkCenterService(repos.WorkCenter),
		Report:     NewReportService(repos.MO, repos.WO, repos.Inventory),
	}
}
