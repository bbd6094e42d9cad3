package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"github.com/bitfantasy/nimo-mes/internal/mes/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InventoryService struct {
	repo        *repository.InventoryRepository
	productRepo *repository.ProductRepository
	db          *gorm.DB
}

func NewInventoryService(repo *repository.InventoryRepository, productRepo *repository.ProductRepository, db *gorm.DB) *InventoryService {
	return &InventoryService{repo: repo, productRepo: productRepo, db: db}
}

type MovementRequest struct {
	ProductID    string  `json:"product_id" binding:"required"`
	MovementType string  `json:"movement_type" binding:"required,oneof=in out"`
	Quantity     float64 `json:"quantity" binding:"required,gt=0"`
	Reference    string  `json:"reference"`
	Location     string  `json:"location"`
}

// AddMovement 手工库存移动。流水与库存行在同一事务内写入，
// 保证账实一致；库存行在首次移动时惰性创建。
func (s *InventoryService) AddMovement(ctx context.Context, req *MovementRequest, userID string) (*entity.StockLedgerEntry, *entity.Inventory, error) {
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, nil, fmt.Errorf("产品不存在: %w", err)
	}

	var (
		entry *entity.StockLedgerEntry
		inv   *entity.Inventory
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()

		locked, err := repository.LockByProduct(tx, req.ProductID)
		if err != nil {
			if !repository.IsNotFound(err) {
				return err
			}
			locked = &entity.Inventory{
				ID:        uuid.New().String(),
				ProductID: req.ProductID,
				Location:  req.Location,
			}
			if err := tx.Create(locked).Error; err != nil {
				return fmt.Errorf("create inventory: %w", err)
			}
		}

		delta := req.Quantity
		if req.MovementType == entity.MovementOut {
			delta = -delta
		}
		locked.QuantityAvailable += delta
		locked.LastUpdated = &now
		if req.Location != "" {
			locked.Location = req.Location
		}
		if err := tx.Save(locked).Error; err != nil {
			return fmt.Errorf("update inventory: %w", err)
		}

		e := &entity.StockLedgerEntry{
			ID:           uuid.New().String(),
			ProductID:    req.ProductID,
			MovementType: req.MovementType,
			Quantity:     req.Quantity,
			Reference:    req.Reference,
			CreatedBy:    userID,
		}
		if err := tx.Create(e).Error; err != nil {
			return fmt.Errorf("create ledger entry: %w", err)
		}

		entry = e
		inv = locked
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return entry, inv, nil
}

// List 库存列表
func (s *InventoryService) List(ctx context.Context, params repository.InventoryListParams) ([]entity.Inventory, int64, error) {
	return s.repo.List(ctx, params)
}

// GetByProduct 获取产品库存
func (s *InventoryService) GetByProduct(ctx context.Context, productID string) (*entity.Inventory, error) {
	return s.repo.FindByProduct(ctx, productID)
}

// GetAlerts 低库存预警
func (s *InventoryService) GetAlerts(ctx context.Context) ([]entity.Inventory, error) {
	return s.repo.GetAlerts(ctx)
}

// ListLedger 库存流水
func (s *InventoryService) ListLedger(ctx context.Context, productID string, page, size int) ([]entity.StockLedgerEntry, int64, error) {
	return s.repo.ListLedger(ctx, productID, page, size)
}
