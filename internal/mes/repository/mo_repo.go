package repository

import (
	"context"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MORepository struct {
	db *gorm.DB
}

func NewMORepository(db *gorm.DB) *MORepository {
	return &MORepository{db: db}
}

// DB 返回底层db用于事务
func (r *MORepository) DB() *gorm.DB {
	return r.db
}

// Create 创建制造订单及其工单，并在同一事务内回填编号
func (r *MORepository) Create(ctx context.Context, mo *entity.ManufacturingOrder, wos []entity.WorkOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(mo).Error; err != nil {
			return err
		}
		mo.Reference = entity.MOReference(mo.Seq)
		if err := tx.Model(mo).Update("reference", mo.Reference).Error; err != nil {
			return err
		}
		for i := range wos {
			wos[i].MOID = mo.ID
			if err := tx.Create(&wos[i]).Error; err != nil {
				return err
			}
			wos[i].Reference = entity.WOReference(wos[i].Seq)
			if err := tx.Model(&wos[i]).Update("reference", wos[i].Reference).Error; err != nil {
				return err
			}
		}
		mo.WorkOrders = wos
		return nil
	})
}

// FindByID 根据ID查找制造订单（含关联）
func (r *MORepository) FindByID(ctx context.Context, id string) (*entity.ManufacturingOrder, error) {
	var mo entity.ManufacturingOrder
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("WorkOrders", func(db *gorm.DB) *gorm.DB {
			return db.Order("sequence ASC, created_at ASC")
		}).
		First(&mo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &mo, nil
}

// LockByID 在事务内锁定制造订单行
func LockMOByID(tx *gorm.DB, id string) (*entity.ManufacturingOrder, error) {
	var mo entity.ManufacturingOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&mo, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &mo, nil
}

type MOListParams struct {
	Status     string
	ProductID  string
	AssigneeID string
	LateOnly   bool
	Page       int
	Size       int
}

// List 制造订单列表
func (r *MORepository) List(ctx context.Context, params MOListParams) ([]entity.ManufacturingOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.ManufacturingOrder{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.ProductID != "" {
		query = query.Where("product_id = ?", params.ProductID)
	}
	if params.AssigneeID != "" {
		query = query.Where("assignee_id = ?", params.AssigneeID)
	}
	if params.LateOnly {
		query = query.Where("end_date < NOW() AND status NOT IN ?",
			[]string{entity.MOStatusDone, entity.MOStatusCancelled})
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.ManufacturingOrder
	err := query.Preload("Product").Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

// Delete 删除制造订单及其工单（仅草稿，守卫在service层）
func (r *MORepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&entity.WorkOrder{}, "mo_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.ManufacturingOrder{}, "id = ?", id).Error
	})
}

// CountByStatus 按状态统计
func (r *MORepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&entity.ManufacturingOrder{}).
		Select("status, COUNT(*) as count").Group("status").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	result := make(map[string]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}
