package entity

import (
	"time"
)

// ProductType 产品类型
const (
	ProductTypeRawMaterial  = "raw_material"  // 原材料
	ProductTypeSemiFinished = "semi_finished" // 半成品
	ProductTypeFinished     = "finished"      // 成品
)

// Product 产品主数据
type Product struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SKU       string     `json:"sku" gorm:"size:64;not null;uniqueIndex"`
	Name      string     `json:"name" gorm:"size:128;not null"`
	Type      string     `json:"type" gorm:"size:20;not null;default:raw_material"`
	Unit      string     `json:"unit" gorm:"size:20;not null;default:pcs"`
	UnitCost  float64    `json:"unit_cost" gorm:"type:decimal(12,4);default:0"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

func (Product) TableName() string {
	return "mes_products"
}

// ValidProductType 校验产品类型
func ValidProductType(t string) bool {
	switch t {
	case ProductTypeRawMaterial, ProductTypeSemiFinished, ProductTypeFinished:
		return true
	}
	return false
}
