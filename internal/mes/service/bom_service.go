package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"github.com/bitfantasy/nimo-mes/internal/mes/repository"
	"github.com/google/uuid"
)

type BOMService struct {
	bomRepo     *repository.BOMRepository
	productRepo *repository.ProductRepository
}

func NewBOMService(bomRepo *repository.BOMRepository, productRepo *repository.ProductRepository) *BOMService {
	return &BOMService{bomRepo: bomRepo, productRepo: productRepo}
}

type BOMComponentInput struct {
	ComponentProductID string  `json:"component_product_id" binding:"required"`
	Quantity           float64 `json:"quantity" binding:"required,gt=0"`
	Sequence           int     `json:"sequence"`
}

type BOMOperationInput struct {
	OperationName string  `json:"operation_name" binding:"required"`
	WorkCenterID  string  `json:"work_center_id"`
	DurationMins  float64 `json:"duration_mins"`
	Sequence      int     `json:"sequence"`
}

type CreateBOMInput struct {
	ProductID  string              `json:"product_id" binding:"required"`
	Version    string              `json:"version"`
	OutputQty  float64             `json:"output_qty"`
	Components []BOMComponentInput `json:"components"`
	Operations []BOMOperationInput `json:"operations"`
}

// Create 创建BOM（含组件行与工序行）
func (s *BOMService) Create(ctx context.Context, input *CreateBOMInput, createdBy string) (*entity.BOM, error) {
	if _, err := s.productRepo.FindByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("产品不存在: %w", err)
	}

	bom := &entity.BOM{
		ID:        uuid.New().String(),
		ProductID: input.ProductID,
		Version:   input.Version,
		OutputQty: input.OutputQty,
		CreatedBy: createdBy,
	}
	if bom.Version == "" {
		bom.Version = "v1.0"
	}
	if bom.OutputQty <= 0 {
		bom.OutputQty = 1
	}

	for _, c := range input.Components {
		bom.Components = append(bom.Components, entity.BOMComponent{
			ID:                 uuid.New().String(),
			BOMID:              bom.ID,
			ComponentProductID: c.ComponentProductID,
			Quantity:           c.Quantity,
			Sequence:           c.Sequence,
		})
	}
	for _, op := range input.Operations {
		bom.Operations = append(bom.Operations, entity.BOMOperation{
			ID:            uuid.New().String(),
			BOMID:         bom.ID,
			OperationName: op.OperationName,
			WorkCenterID:  op.WorkCenterID,
			DurationMins:  op.DurationMins,
			Sequence:      op.Sequence,
		})
	}

	if err := s.bomRepo.Create(ctx, bom); err != nil {
		return nil, fmt.Errorf("create bom: %w", err)
	}
	return bom, nil
}

// Get 获取BOM详情（含行项）
func (s *BOMService) Get(ctx context.Context, id string) (*entity.BOM, error) {
	return s.bomRepo.FindByID(ctx, id)
}

// List 按产品列出BOM版本
func (s *BOMService) List(ctx context.Context, productID string) ([]entity.BOM, error) {
	return s.bomRepo.ListByProduct(ctx, productID)
}

// Delete 删除BOM
func (s *BOMService) Delete(ctx context.Context, id string) error {
	return s.bomRepo.Delete(ctx, id)
}

// ResolveEffective 解析生效BOM：指定ID优先，否则取产品最新创建的版本。
// 产品没有BOM时返回 (nil, nil)，调用方视为零组件需求而非错误。
func (s *BOMService) ResolveEffective(ctx context.Context, productID, explicitBOMID string) (*entity.BOM, error) {
	if explicitBOMID != "" {
		bom, err := s.bomRepo.FindByID(ctx, explicitBOMID)
		if err == nil {
			return bom, nil
		}
		if !repository.IsNotFound(err) {
			return nil, err
		}
		// 指定的BOM不存在，回退到最新版本
	}
	bom, err := s.bomRepo.FindLatestByProduct(ctx, productID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return bom, nil
}
