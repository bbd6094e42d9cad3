package entity

import (
	"time"
)

// MovementType 库存流水方向
const (
	MovementIn  = "in"  // 入库
	MovementOut = "out" // 出库
)

// Inventory 库存（每个产品一行，首次移动时惰性创建）
type Inventory struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductID    string     `json:"product_id" gorm:"type:uuid;not null;uniqueIndex"`
	QuantityAvailable float64 `json:"quantity_available" gorm:"type:decimal(12,4);not null;default:0"`
	ReorderLevel float64    `json:"reorder_level" gorm:"type:decimal(12,4);default:0"`
	Location     string     `json:"location" gorm:"size:64"`
	LastUpdated  *time.Time `json:"last_updated"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (Inventory) TableName() string {
	return "mes_inventory"
}

// StockLedgerEntry 库存流水（只追加，不可变；同一事务内与库存行一起写入，
// 保证 Σin − Σout = quantity_available）
type StockLedgerEntry struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductID    string    `json:"product_id" gorm:"type:uuid;not null;index"`
	MovementType string    `json:"movement_type" gorm:"size:10;not null"`
	Quantity     float64   `json:"quantity" gorm:"type:decimal(12,4);not null"` // 恒为正，方向由movement_type表达
	Reference    string    `json:"reference" gorm:"size:128"`
	CreatedBy    string    `json:"created_by" gorm:"size:64"`
	CreatedAt    time.Time `json:"created_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (StockLedgerEntry) TableName() string {
	return "mes_stock_ledger"
}
