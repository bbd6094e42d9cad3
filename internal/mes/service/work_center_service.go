package service

import (
	"context"
	"fmt"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"github.com/bitfantasy/nimo-mes/internal/mes/repository"
	"github.com/google/uuid"
)

type WorkCenterService struct {
	repo *repository.WorkCenterRepository
}

func NewWorkCenterService(repo *repository.WorkCenterRepository) *WorkCenterService {
	return &WorkCenterService{repo: repo}
}

type WorkCenterInput struct {
	Name            string  `json:"name" binding:"required"`
	CostPerHour     float64 `json:"cost_per_hour"`
	CapacityPerHour float64 `json:"capacity_per_hour"`
	Location        string  `json:"location"`
}

// Create 创建工作中心
func (s *WorkCenterService) Create(ctx context.Context, input *WorkCenterInput) (*entity.WorkCenter, error) {
	wc := &entity.WorkCenter{
		ID:              uuid.New().String(),
		Name:            input.Name,
		CostPerHour:     input.CostPerHour,
		CapacityPerHour: input.CapacityPerHour,
		Location:        input.Location,
	}
	if err := s.repo.Create(ctx, wc); err != nil {
		return nil, fmt.Errorf("create work center: %w", err)
	}
	return wc, nil
}

// Get 获取工作中心
func (s *WorkCenterService) Get(ctx context.Context, id string) (*entity.WorkCenter, error) {
	return s.repo.FindByID(ctx, id)
}

// List 工作中心列表
func (s *WorkCenterService) List(ctx context.Context) ([]entity.WorkCenter, error) {
	return s.repo.List(ctx)
}

// Update 更新工作中心
func (s *WorkCenterService) Update(ctx context.Context, id string, input *WorkCenterInput) (*entity.WorkCenter, error) {
	wc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wc.Name = input.Name
	wc.CostPerHour = input.CostPerHour
	wc.CapacityPerHour = input.CapacityPerHour
	wc.Location = input.Location
	if err := s.repo.Update(ctx, wc); err != nil {
		return nil, fmt.Errorf("update work center: %w", err)
	}
	return wc, nil
}

// Delete 删除工作中心
func (s *WorkCenterService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
