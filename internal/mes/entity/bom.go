package entity

import (
	"time"
)

// BOM 物料清单（一个产品可有多个版本）
type BOM struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductID string    `json:"product_id" gorm:"type:uuid;not null;index"`
	Version   string    `json:"version" gorm:"size:32;not null;default:v1.0"`
	OutputQty float64   `json:"output_qty" gorm:"type:decimal(12,4);not null;default:1"`
	CreatedBy string    `json:"created_by" gorm:"size:64"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product    *Product       `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Components []BOMComponent `json:"components,omitempty" gorm:"foreignKey:BOMID"`
	Operations []BOMOperation `json:"operations,omitempty" gorm:"foreignKey:BOMID"`
}

func (BOM) TableName() string {
	return "mes_boms"
}

// BOMComponent BOM组件行（每产出一个批次所需数量）
type BOMComponent struct {
	ID                 string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	BOMID              string    `json:"bom_id" gorm:"type:uuid;not null;index"`
	ComponentProductID string    `json:"component_product_id" gorm:"type:uuid;not null;index"`
	Quantity           float64   `json:"quantity" gorm:"type:decimal(12,4);not null"`
	Sequence           int       `json:"sequence" gorm:"default:0"`
	CreatedAt          time.Time `json:"created_at"`

	ComponentProduct *Product `json:"component_product,omitempty" gorm:"foreignKey:ComponentProductID"`
}

func (BOMComponent) TableName() string {
	return "mes_bom_components"
}

// BOMOperation BOM工序行
type BOMOperation struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	BOMID         string    `json:"bom_id" gorm:"type:uuid;not null;index"`
	OperationName string    `json:"operation_name" gorm:"size:128;not null"`
	WorkCenterID  string    `json:"work_center_id" gorm:"type:uuid"`
	DurationMins  float64   `json:"duration_mins" gorm:"type:decimal(12,4);default:0"`
	Sequence      int       `json:"sequence" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`

	WorkCenter *WorkCenter `json:"work_center,omitempty" gorm:"foreignKey:WorkCenterID"`
}

func (BOMOperation) TableName() string {
	return "mes_bom_operations"
}
