package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有MES表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 基础数据
		&Product{},
		&WorkCenter{},

		// BOM
		&BOM{},
		&BOMComponent{},
		&BOMOperation{},

		// 库存
		&Inventory{},
		&StockLedgerEntry{},

		// 生产
		&ManufacturingOrder{},
		&WorkOrder{},
	)
}
