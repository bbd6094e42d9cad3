package repository

import (
	"context"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// FindByProduct 获取产品库存行
func (r *InventoryRepository) FindByProduct(ctx context.Context, productID string) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.db.WithContext(ctx).First(&inv, "product_id = ?", productID).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// LockByProduct 在事务内按产品行加行锁（SELECT ... FOR UPDATE）
func LockByProduct(tx *gorm.DB, productID string) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, "product_id = ?", productID).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// LockByProducts 在事务内锁定一组产品的库存行，固定按product_id升序
// 加锁以避免并发预留之间的锁序死锁。缺行的产品不会出现在结果中。
func LockByProducts(tx *gorm.DB, productIDs []string) ([]entity.Inventory, error) {
	var rows []entity.Inventory
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id IN ?", productIDs).
		Order("product_id ASC").
		Find(&rows).Error
	return rows, err
}

type InventoryListParams struct {
	ProductID string
	LowStock  bool
	Page      int
	Size      int
}

// List 库存列表
func (r *InventoryRepository) List(ctx context.Context, params InventoryListParams) ([]entity.Inventory, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Inventory{})
	if params.ProductID != "" {
		query = query.Where("product_id = ?", params.ProductID)
	}
	if params.LowStock {
		query = query.Where("quantity_available < reorder_level AND reorder_level > 0")
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.Inventory
	err := query.Preload("Product").Order("updated_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

// GetAlerts 获取低库存预警列表
func (r *InventoryRepository) GetAlerts(ctx context.Context) ([]entity.Inventory, error) {
	var alerts []entity.Inventory
	err := r.db.WithContext(ctx).Preload("Product").
		Where("quantity_available < reorder_level AND reorder_level > 0").
		Find(&alerts).Error
	return alerts, err
}

// ListLedger 库存流水列表
func (r *InventoryRepository) ListLedger(ctx context.Context, productID string, page, size int) ([]entity.StockLedgerEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.StockLedgerEntry{})
	if productID != "" {
		query = query.Where("product_id = ?", productID)
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var entries []entity.StockLedgerEntry
	err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&entries).Error
	return entries, total, err
}

// LedgerBalance 按流水计算产品余额（Σin − Σout）
func (r *InventoryRepository) LedgerBalance(ctx context.Context, productID string) (float64, error) {
	var result struct{ Balance float64 }
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(CASE WHEN movement_type = 'in' THEN quantity ELSE -quantity END), 0) AS balance
		FROM mes_stock_ledger
		WHERE product_id = ?
	`, productID).Scan(&result).Error
	return result.Balance, err
}
