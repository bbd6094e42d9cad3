package repository

import (
	"context"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"gorm.io/gorm"
)

type WorkCenterRepository struct {
	db *gorm.DB
}

func NewWorkCenterRepository(db *gorm.DB) *WorkCenterRepository {
	return &WorkCenterRepository{db: db}
}

// Create 创建工作中心
func (r *WorkCenterRepository) Create(ctx context.Context, wc *entity.WorkCenter) error {
	return r.db.WithContext(ctx).Create(wc).Error
}

// FindByID 根据ID查找工作中心
func (r *WorkCenterRepository) FindByID(ctx context.Context, id string) (*entity.WorkCenter, error) {
	var wc entity.WorkCenter
	err := r.db.WithContext(ctx).First(&wc, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &wc, nil
}

// List 工作中心列表
func (r *WorkCenterRepository) List(ctx context.Context) ([]entity.WorkCenter, error) {
	var items []entity.WorkCenter
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}

// Update 更新工作中心
func (r *WorkCenterRepository) Update(ctx context.Context, wc *entity.WorkCenter) error {
	return r.db.WithContext(ctx).Save(wc).Error
}

// Delete 删除工作中心（参考数据，管理员操作）
func (r *WorkCenterRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.WorkCenter{}, "id = ?", id).Error
}
