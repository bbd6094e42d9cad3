package entity

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// MOStatus 制造订单状态
const (
	MOStatusDraft      = "draft"
	MOStatusConfirmed  = "confirmed"
	MOStatusInProgress = "in_progress"
	MOStatusToClose    = "to_close"
	MOStatusDone       = "done"
	MOStatusCancelled  = "cancelled"
)

// ComponentStatus 组件可用性
const (
	ComponentAvailable    = "available"
	ComponentNotAvailable = "not_available"
	ComponentUnknown      = "unknown"
)

// ManufacturingOrder 制造订单
// BOMID 在创建时解析并固定，后续不再重新解析（BOM编辑不影响在制订单）。
type ManufacturingOrder struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Seq             uint64     `json:"-" gorm:"autoIncrement;uniqueIndex"`
	// 编号在插入后由Seq回填，唯一性由Seq保证
	Reference       string     `json:"reference" gorm:"size:32;index"`
	ProductID       string     `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity        float64    `json:"quantity" gorm:"type:decimal(12,4);not null"`
	BOMID           *string    `json:"bom_id" gorm:"type:uuid;index"`
	Status          string     `json:"status" gorm:"size:20;not null;default:draft;index"`
	ComponentStatus string     `json:"component_status" gorm:"size:20;not null;default:unknown"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	AssigneeID      string     `json:"assignee_id" gorm:"size:64;index"`
	CreatedBy       string     `json:"created_by" gorm:"size:64;not null"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// 只读派生字段
	IsLate       bool `json:"is_late" gorm:"-"`
	IsUnassigned bool `json:"is_unassigned" gorm:"-"`

	Product    *Product    `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	BOM        *BOM        `json:"bom,omitempty" gorm:"foreignKey:BOMID"`
	WorkOrders []WorkOrder `json:"work_orders,omitempty" gorm:"foreignKey:MOID"`
}

func (ManufacturingOrder) TableName() string {
	return "mes_manufacturing_orders"
}

// AfterFind 计算派生字段
func (m *ManufacturingOrder) AfterFind(_ *gorm.DB) error {
	m.IsLate = m.EndDate != nil && m.EndDate.Before(time.Now()) && !m.IsTerminal()
	m.IsUnassigned = m.AssigneeID == ""
	return nil
}

// IsTerminal 是否终态
func (m *ManufacturingOrder) IsTerminal() bool {
	return m.Status == MOStatusDone || m.Status == MOStatusCancelled
}

// MOReference 生成制造订单编号
func MOReference(seq uint64) string {
	return fmt.Sprintf("MO-%06d", seq)
}

// ReservationReference 组件预留流水的引用串
func ReservationReference(moRef string) string {
	return moRef + "-RESERVE"
}
