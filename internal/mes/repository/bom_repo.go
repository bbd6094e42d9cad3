package repository

import (
	"context"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"gorm.io/gorm"
)

type BOMRepository struct {
	db *gorm.DB
}

func NewBOMRepository(db *gorm.DB) *BOMRepository {
	return &BOMRepository{db: db}
}

// Create 创建BOM（含组件行与工序行）
func (r *BOMRepository) Create(ctx context.Context, bom *entity.BOM) error {
	return r.db.WithContext(ctx).Create(bom).Error
}

// FindByID 根据ID查找BOM（含行项）
func (r *BOMRepository) FindByID(ctx context.Context, id string) (*entity.BOM, error) {
	var bom entity.BOM
	err := r.db.WithContext(ctx).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC, created_at ASC")
		}).
		Preload("Components.ComponentProduct").
		Preload("Operations", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC, created_at ASC")
		}).
		Preload("Operations.WorkCenter").
		First(&bom, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &bom, nil
}

// FindLatestByProduct 查找产品最新创建的BOM（含行项）
func (r *BOMRepository) FindLatestByProduct(ctx context.Context, productID string) (*entity.BOM, error) {
	var bom entity.BOM
	err := r.db.WithContext(ctx).
		Preload("Components", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC, created_at ASC")
		}).
		Preload("Operations", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC, created_at ASC")
		}).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		First(&bom).Error
	if err != nil {
		return nil, err
	}
	return &bom, nil
}

// ListByProduct 产品的BOM版本列表
func (r *BOMRepository) ListByProduct(ctx context.Context, productID string) ([]entity.BOM, error) {
	var boms []entity.BOM
	query := r.db.WithContext(ctx).Preload("Product")
	if productID != "" {
		query = query.Where("product_id = ?", productID)
	}
	err := query.Order("created_at DESC").Find(&boms).Error
	return boms, err
}

// Delete 删除BOM及其行项
func (r *BOMRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.BOMComponent{}, "bom_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&entity.BOMOperation{}, "bom_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.BOM{}, "id = ?", id).Error
	})
}
