package entity

import (
	"time"
)

// WorkCenter 工作中心（成本与产能核算用的参考数据）
type WorkCenter struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name            string     `json:"name" gorm:"size:128;not null;uniqueIndex"`
	CostPerHour     float64    `json:"cost_per_hour" gorm:"type:decimal(12,4);default:0"`
	CapacityPerHour float64    `json:"capacity_per_hour" gorm:"type:decimal(12,4);default:0"`
	Location        string     `json:"location" gorm:"size:64"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

func (WorkCenter) TableName() string {
	return "mes_work_centers"
}
