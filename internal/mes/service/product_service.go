package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"github.com/bitfantasy/nimo-mes/internal/mes/repository"
	"github.com/google/uuid"
)

type ProductService struct {
	repo *repository.ProductRepository
}

func NewProductService(repo *repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

type CreateProductInput struct {
	SKU      string  `json:"sku" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Type     string  `json:"type" binding:"required"`
	Unit     string  `json:"unit"`
	UnitCost float64 `json:"unit_cost"`
}

// Create 创建产品
func (s *ProductService) Create(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	if !entity.ValidProductType(input.Type) {
		return nil, fmt.Errorf("未知的产品类型: %s", input.Type)
	}
	unit := input.Unit
	if unit == "" {
		unit = "pcs"
	}
	p := &entity.Product{
		ID:       uuid.New().String(),
		SKU:      input.SKU,
		Name:     input.Name,
		Type:     input.Type,
		Unit:     unit,
		UnitCost: input.UnitCost,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// Get 获取产品
func (s *ProductService) Get(ctx context.Context, id string) (*entity.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// List 产品列表
func (s *ProductService) List(ctx context.Context, params repository.ProductListParams) ([]entity.Product, int64, error) {
	return s.repo.List(ctx, params)
}

type UpdateProductInput struct {
	Name     string   `json:"name"`
	Unit     string   `json:"unit"`
	UnitCost *float64 `json:"unit_cost"`
}

// Update 更新产品（SKU不可变，成本/单位可由管理员修改）
func (s *ProductService) Update(ctx context.Context, id string, input *UpdateProductInput) (*entity.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != "" {
		p.Name = input.Name
	}
	if input.Unit != "" {
		p.Unit = input.Unit
	}
	if input.UnitCost != nil {
		p.UnitCost = *input.UnitCost
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// Delete 删除产品
func (s *ProductService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
