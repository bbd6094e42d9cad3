package repository

import (
	"errors"

	"gorm.io/gorm"
)

// Repositories MES 仓库集合
type Repositories struct {
	Product    *ProductRepository
	BOM        *BOMRepository
	Inventory  *InventoryRepository
	MO         *MORepository
	WO         *WORepository
	WorkCenter *WorkCenterRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Product:    NewProductRepository(db),
		BOM:        NewBOMRepository(db),
		Inventory:  NewInventoryRepository(db),
		MO:         NewMORepository(db),
		WO:         NewWORepository(db),
		WorkCenter: NewWorkCenterRepository(db),
	}
}

// IsNotFound 判断是否为记录不存在错误
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
