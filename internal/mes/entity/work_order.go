package entity

import (
	"fmt"
	"time"
)

// WOStatus 工单状态
const (
	WOStatusPending    = "pending"
	WOStatusInProgress = "in_progress"
	WOStatusPaused     = "paused"
	WOStatusDone       = "done"
	WOStatusCancelled  = "cancelled"
)

// WorkOrder 工单（制造订单下的一道工序）
type WorkOrder struct {
	ID               string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Seq              uint64     `json:"-" gorm:"autoIncrement;uniqueIndex"`
	// 编号在插入后由Seq回填，唯一性由Seq保证
	Reference        string     `json:"reference" gorm:"size:32;index"`
	MOID             string     `json:"mo_id" gorm:"type:uuid;not null;index"`
	OperationName    string     `json:"operation_name" gorm:"size:128;not null"`
	Sequence         int        `json:"sequence" gorm:"default:0"`
	WorkCenterID     string     `json:"work_center_id" gorm:"type:uuid;index"`
	AssignedTo       string     `json:"assigned_to" gorm:"size:64"`
	Status           string     `json:"status" gorm:"size:20;not null;default:pending;index"`
	StartedAt        *time.Time `json:"started_at"`
	EndedAt          *time.Time `json:"ended_at"`
	RealDurationMins *float64   `json:"real_duration_mins" gorm:"type:decimal(12,4)"`
	ExpectedDurationMins float64 `json:"expected_duration_mins" gorm:"type:decimal(12,4);default:0"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	WorkCenter *WorkCenter `json:"work_center,omitempty" gorm:"foreignKey:WorkCenterID"`
}

func (WorkOrder) TableName() string {
	return "mes_work_orders"
}

// WOReference 生成工单编号
func WOReference(seq uint64) string {
	return fmt.Sprintf("WO-%06d", seq)
}
