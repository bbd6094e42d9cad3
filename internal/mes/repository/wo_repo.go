package repository

import (
	"context"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WORepository struct {
	db *gorm.DB
}

func NewWORepository(db *gorm.DB) *WORepository {
	return &WORepository{db: db}
}

// FindByID 根据ID查找工单
func (r *WORepository) FindByID(ctx context.Context, id string) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	err := r.db.WithContext(ctx).Preload("WorkCenter").First(&wo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

// LockWOByID 在事务内锁定工单行
func LockWOByID(tx *gorm.DB, id string) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&wo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

type WOListParams struct {
	MOID         string
	Status       string
	WorkCenterID string
	AssignedTo   string
	Page         int
	Size         int
}

// List 工单列表
func (r *WORepository) List(ctx context.Context, params WOListParams) ([]entity.WorkOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.WorkOrder{})
	if params.MOID != "" {
		query = query.Where("mo_id = ?", params.MOID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.WorkCenterID != "" {
		query = query.Where("work_center_id = ?", params.WorkCenterID)
	}
	if params.AssignedTo != "" {
		query = query.Where("assigned_to = ?", params.AssignedTo)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.WorkOrder
	err := query.Preload("WorkCenter").Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

// ListDone 已完成工单（含工作中心，用于成本核算）
func (r *WORepository) ListDone(ctx context.Context) ([]entity.WorkOrder, error) {
	var wos []entity.WorkOrder
	err := r.db.WithContext(ctx).Preload("WorkCenter").
		Where("status = ?", entity.WOStatusDone).
		Find(&wos).Error
	return wos, err
}
