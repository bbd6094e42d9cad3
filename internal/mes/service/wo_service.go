package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"github.com/bitfantasy/nimo-mes/internal/mes/repository"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type WOService struct {
	woRepo *repository.WORepository
	db     *gorm.DB
}

func NewWOService(woRepo *repository.WORepository, db *gorm.DB) *WOService {
	return &WOService{woRepo: woRepo, db: db}
}

// Get 获取工单
func (s *WOService) Get(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return s.woRepo.FindByID(ctx, id)
}

// List 工单列表
func (s *WOService) List(ctx context.Context, params repository.WOListParams) ([]entity.WorkOrder, int64, error) {
	return s.woRepo.List(ctx, params)
}

// Start 开工：pending/paused→in_progress。started_at只在首次开工时写入，
// 重复开工为幂等no-op，不重置计时。
func (s *WOService) Start(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return s.transition(ctx, id, func(wo *entity.WorkOrder) (bool, error) {
		switch wo.Status {
		case entity.WOStatusInProgress:
			return false, nil // 幂等
		case entity.WOStatusPending, entity.WOStatusPaused:
			wo.Status = entity.WOStatusInProgress
			if wo.StartedAt == nil {
				now := time.Now()
				wo.StartedAt = &now
			}
			return true, nil
		default:
			return false, fmt.Errorf("工单状态不允许开工: %s: %w", wo.Status, ErrInvalidTransition)
		}
	})
}

// Pause 暂停：仅in_progress→paused，其余状态no-op
func (s *WOService) Pause(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return s.transition(ctx, id, func(wo *entity.WorkOrder) (bool, error) {
		if wo.Status != entity.WOStatusInProgress {
			return false, nil
		}
		wo.Status = entity.WOStatusPaused
		return true, nil
	})
}

// Resume 恢复：paused→in_progress
func (s *WOService) Resume(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return s.Start(ctx, id)
}

// Complete 完工：in_progress/paused→done。ended_at取当前时间；
// started_at存在时计算实际工时（分钟）。重复完工为no-op，不重算工时。
func (s *WOService) Complete(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return s.transition(ctx, id, func(wo *entity.WorkOrder) (bool, error) {
		switch wo.Status {
		case entity.WOStatusDone:
			return false, nil // 幂等
		case entity.WOStatusInProgress, entity.WOStatusPaused:
			now := time.Now()
			wo.Status = entity.WOStatusDone
			wo.EndedAt = &now
			if wo.StartedAt != nil {
				mins := now.Sub(*wo.StartedAt).Minutes()
				wo.RealDurationMins = &mins
			}
			return true, nil
		default:
			return false, fmt.Errorf("工单状态不允许完工: %s: %w", wo.Status, ErrInvalidTransition)
		}
	})
}

// Cancel 取消：done之外的任意状态可进入，吸收态
func (s *WOService) Cancel(ctx context.Context, id string) (*entity.WorkOrder, error) {
	return s.transition(ctx, id, func(wo *entity.WorkOrder) (bool, error) {
		switch wo.Status {
		case entity.WOStatusDone:
			return false, fmt.Errorf("已完工的工单不能取消: %w", ErrInvalidTransition)
		case entity.WOStatusCancelled:
			return false, nil
		default:
			wo.Status = entity.WOStatusCancelled
			return true, nil
		}
	})
}

// transition 在行锁下执行工单状态迁移，变更后同步父订单状态（同一事务）
func (s *WOService) transition(ctx context.Context, id string, fn func(*entity.WorkOrder) (bool, error)) (*entity.WorkOrder, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wo, err := repository.LockWOByID(tx, id)
		if err != nil {
			return err
		}
		changed, err := fn(wo)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		if err := tx.Save(wo).Error; err != nil {
			return err
		}
		return syncMOStatus(tx, wo.MOID)
	})
	if err != nil {
		return nil, err
	}
	return s.woRepo.FindByID(ctx, id)
}

// syncMOStatus 工单变更后从全部兄弟工单状态重算父订单状态。
// 订单级显式终态（done/cancelled）与草稿不被覆盖，cancelled恒优先。
func syncMOStatus(tx *gorm.DB, moID string) error {
	mo, err := repository.LockMOByID(tx, moID)
	if err != nil {
		return err
	}
	switch mo.Status {
	case entity.MOStatusDraft, entity.MOStatusDone, entity.MOStatusCancelled:
		return nil
	}

	var wos []entity.WorkOrder
	if err := tx.Where("mo_id = ?", moID).Find(&wos).Error; err != nil {
		return err
	}
	if len(wos) == 0 {
		return nil
	}

	computed := rollupStatus(mo.Status, wos)
	if computed == "" || computed == mo.Status {
		return nil
	}
	return tx.Model(mo).Update("status", computed).Error
}

// rollupStatus 聚合规则，首个命中生效：
//  1. 任一工单cancelled → cancelled
//  2. 全部done → to_close（仅当订单当前为confirmed/in_progress，
//     允许未显式开工的订单直接跳入to_close）
//  3. 任一in_progress/paused → in_progress
//  4. 全部pending → confirmed
func rollupStatus(current string, wos []entity.WorkOrder) string {
	if lo.SomeBy(wos, func(wo entity.WorkOrder) bool { return wo.Status == entity.WOStatusCancelled }) {
		return entity.MOStatusCancelled
	}
	if lo.EveryBy(wos, func(wo entity.WorkOrder) bool { return wo.Status == entity.WOStatusDone }) {
		if current == entity.MOStatusConfirmed || current == entity.MOStatusInProgress {
			return entity.MOStatusToClose
		}
		return ""
	}
	if lo.SomeBy(wos, func(wo entity.WorkOrder) bool {
		return wo.Status == entity.WOStatusInProgress || wo.Status == entity.WOStatusPaused
	}) {
		return entity.MOStatusInProgress
	}
	if lo.EveryBy(wos, func(wo entity.WorkOrder) bool { return wo.Status == entity.WOStatusPending }) {
		return entity.MOStatusConfirmed
	}
	return ""
}
