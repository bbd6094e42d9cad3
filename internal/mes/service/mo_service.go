package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"github.com/bitfantasy/nimo-mes/internal/mes/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MOService struct {
	moRepo      *repository.MORepository
	productRepo *repository.ProductRepository
	bomSvc      *BOMService
	db          *gorm.DB
}

func NewMOService(moRepo *repository.MORepository, productRepo *repository.ProductRepository, bomSvc *BOMService, db *gorm.DB) *MOService {
	return &MOService{moRepo: moRepo, productRepo: productRepo, bomSvc: bomSvc, db: db}
}

type CreateMOInput struct {
	ProductID  string  `json:"product_id" binding:"required"`
	Quantity   float64 `json:"quantity" binding:"required,gt=0"`
	BOMID      string  `json:"bom_id"`
	StartDate  string  `json:"start_date"` // YYYY-MM-DD
	EndDate    string  `json:"end_date"`
	AssigneeID string  `json:"assignee_id"`
}

// Create 创建草稿制造订单。生效BOM在创建时解析并固定到订单上，
// 之后编辑BOM不会改变在制订单的需求；工单按BOM工序行同时生成。
func (s *MOService) Create(ctx context.Context, input *CreateMOInput, userID string) (*entity.ManufacturingOrder, error) {
	if _, err := s.productRepo.FindByID(ctx, input.ProductID); err != nil {
		return nil, fmt.Errorf("产品不存在: %w", err)
	}

	bom, err := s.bomSvc.ResolveEffective(ctx, input.ProductID, input.BOMID)
	if err != nil {
		return nil, fmt.Errorf("resolve bom: %w", err)
	}

	mo := &entity.ManufacturingOrder{
		ID:              uuid.New().String(),
		ProductID:       input.ProductID,
		Quantity:        input.Quantity,
		Status:          entity.MOStatusDraft,
		ComponentStatus: entity.ComponentUnknown,
		AssigneeID:      input.AssigneeID,
		CreatedBy:       userID,
	}
	if bom != nil {
		mo.BOMID = &bom.ID
	}
	if input.StartDate != "" {
		if t, err := time.Parse("2006-01-02", input.StartDate); err == nil {
			mo.StartDate = &t
		}
	}
	if input.EndDate != "" {
		if t, err := time.Parse("2006-01-02", input.EndDate); err == nil {
			mo.EndDate = &t
		}
	}

	var wos []entity.WorkOrder
	if bom != nil {
		for _, op := range bom.Operations {
			wos = append(wos, entity.WorkOrder{
				ID:                   uuid.New().String(),
				OperationName:        op.OperationName,
				Sequence:             op.Sequence,
				WorkCenterID:         op.WorkCenterID,
				Status:               entity.WOStatusPending,
				ExpectedDurationMins: op.DurationMins,
			})
		}
	}

	if err := s.moRepo.Create(ctx, mo, wos); err != nil {
		return nil, fmt.Errorf("create manufacturing order: %w", err)
	}
	return mo, nil
}

// Get 获取制造订单
func (s *MOService) Get(ctx context.Context, id string) (*entity.ManufacturingOrder, error) {
	return s.moRepo.FindByID(ctx, id)
}

// List 制造订单列表
func (s *MOService) List(ctx context.Context, params repository.MOListParams) ([]entity.ManufacturingOrder, int64, error) {
	return s.moRepo.List(ctx, params)
}

// Confirm 确认制造订单：draft→confirmed。组件预留与状态写入在同一事务中，
// 缺料时整个事务回滚，订单保持draft，只记录component_status=not_available。
// 预留本身不幂等，由draft-only守卫保证只执行一次。
func (s *MOService) Confirm(ctx context.Context, id string) (*entity.ManufacturingOrder, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mo, err := repository.LockMOByID(tx, id)
		if err != nil {
			return err
		}
		if mo.Status != entity.MOStatusDraft {
			return fmt.Errorf("只有草稿状态的制造订单才能确认: %w", ErrInvalidTransition)
		}
		return s.reserveComponents(tx, mo)
	})

	var shortage *ShortageError
	if errors.As(err, &shortage) {
		// 预留已回滚，库存未动；单独记录缺料状态
		if noteErr := s.db.WithContext(ctx).Model(&entity.ManufacturingOrder{}).
			Where("id = ?", id).
			Update("component_status", entity.ComponentNotAvailable).Error; noteErr != nil {
			zap.L().Warn("Failed to record component shortage status",
				zap.String("mo_id", id), zap.Error(noteErr))
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return s.moRepo.FindByID(ctx, id)
}

// reserveComponents 在tx内执行组件可用性检查与预留。
// 库存行按product_id升序加锁，避免并发预留间的锁序死锁；
// 任一组件不足即返回ShortageError，由调用方回滚，绝不提交部分预留。
func (s *MOService) reserveComponents(tx *gorm.DB, mo *entity.ManufacturingOrder) error {
	required, err := requiredQuantities(tx, mo)
	if err != nil {
		return err
	}

	if len(required) == 0 {
		// 无BOM或BOM无组件行：零需求，平凡满足
		return tx.Model(mo).Updates(map[string]interface{}{
			"status":           entity.MOStatusConfirmed,
			"component_status": entity.ComponentAvailable,
		}).Error
	}

	productIDs := make([]string, 0, len(required))
	for pid := range required {
		productIDs = append(productIDs, pid)
	}
	sort.Strings(productIDs)

	rows, err := repository.LockByProducts(tx, productIDs)
	if err != nil {
		return err
	}
	byProduct := make(map[string]*entity.Inventory, len(rows))
	for i := range rows {
		byProduct[rows[i].ProductID] = &rows[i]
	}

	for _, pid := range productIDs {
		inv, ok := byProduct[pid]
		if !ok || inv.QuantityAvailable < required[pid] {
			return &ShortageError{ProductID: pid}
		}
	}

	now := time.Now()
	ref := entity.ReservationReference(mo.Reference)
	for _, pid := range productIDs {
		inv := byProduct[pid]
		inv.QuantityAvailable -= required[pid]
		inv.LastUpdated = &now
		if err := tx.Save(inv).Error; err != nil {
			return fmt.Errorf("decrement inventory: %w", err)
		}
		entry := &entity.StockLedgerEntry{
			ID:           uuid.New().String(),
			ProductID:    pid,
			MovementType: entity.MovementOut,
			Quantity:     required[pid],
			Reference:    ref,
			CreatedBy:    mo.CreatedBy,
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("create reservation ledger entry: %w", err)
		}
	}

	return tx.Model(mo).Updates(map[string]interface{}{
		"status":           entity.MOStatusConfirmed,
		"component_status": entity.ComponentAvailable,
	}).Error
}

// requiredQuantities 按固定BOM计算组件需求（行数量 × 订单批数），同产品行合并
func requiredQuantities(tx *gorm.DB, mo *entity.ManufacturingOrder) (map[string]float64, error) {
	if mo.BOMID == nil {
		return nil, nil
	}
	var lines []entity.BOMComponent
	if err := tx.Where("bom_id = ?", *mo.BOMID).Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("load bom components: %w", err)
	}
	required := make(map[string]float64, len(lines))
	for _, line := range lines {
		required[line.ComponentProductID] += line.Quantity * mo.Quantity
	}
	return required, nil
}

// ComponentCheck 只读可用性检查结果
type ComponentCheck struct {
	ProductID string  `json:"product_id"`
	Required  float64 `json:"required"`
	Available float64 `json:"available"`
	Missing   float64 `json:"missing"`
}

// ComponentAvailability 只读计算组件可用性，不加锁、不写库存
func (s *MOService) ComponentAvailability(ctx context.Context, id string) (string, []ComponentCheck, error) {
	mo, err := s.moRepo.FindByID(ctx, id)
	if err != nil {
		return "", nil, err
	}

	required, err := requiredQuantities(s.db.WithContext(ctx), mo)
	if err != nil {
		return "", nil, err
	}
	if len(required) == 0 {
		return entity.ComponentAvailable, []ComponentCheck{}, nil
	}

	productIDs := make([]string, 0, len(required))
	for pid := range required {
		productIDs = append(productIDs, pid)
	}
	sort.Strings(productIDs)

	var rows []entity.Inventory
	if err := s.db.WithContext(ctx).Where("product_id IN ?", productIDs).Find(&rows).Error; err != nil {
		return "", nil, err
	}
	available := make(map[string]float64, len(rows))
	for _, row := range rows {
		available[row.ProductID] = row.QuantityAvailable
	}

	status := entity.ComponentAvailable
	checks := make([]ComponentCheck, 0, len(productIDs))
	for _, pid := range productIDs {
		check := ComponentCheck{
			ProductID: pid,
			Required:  required[pid],
			Available: available[pid],
		}
		if check.Available < check.Required {
			check.Missing = check.Required - check.Available
			status = entity.ComponentNotAvailable
		}
		checks = append(checks, check)
	}
	return status, checks, nil
}

// Start 开工：confirmed→in_progress；对已在制的订单重复调用为幂等no-op
func (s *MOService) Start(ctx context.Context, id string) (*entity.ManufacturingOrder, error) {
	return s.transition(ctx, id, func(mo *entity.ManufacturingOrder) error {
		switch mo.Status {
		case entity.MOStatusInProgress:
			return nil // 幂等
		case entity.MOStatusConfirmed:
			mo.Status = entity.MOStatusInProgress
			return nil
		default:
			return fmt.Errorf("只有已确认的制造订单才能开工: %w", ErrInvalidTransition)
		}
	})
}

// Complete 完工：in_progress/to_close→done
func (s *MOService) Complete(ctx context.Context, id string) (*entity.ManufacturingOrder, error) {
	return s.transition(ctx, id, func(mo *entity.ManufacturingOrder) error {
		switch mo.Status {
		case entity.MOStatusInProgress, entity.MOStatusToClose:
			mo.Status = entity.MOStatusDone
			return nil
		default:
			return fmt.Errorf("只有在制或待关闭的制造订单才能完工: %w", ErrInvalidTransition)
		}
	})
}

// Cancel 取消（管理员操作）：done之后不可取消
func (s *MOService) Cancel(ctx context.Context, id string) (*entity.ManufacturingOrder, error) {
	return s.transition(ctx, id, func(mo *entity.ManufacturingOrder) error {
		switch mo.Status {
		case entity.MOStatusDone:
			return fmt.Errorf("已完工的制造订单不能取消: %w", ErrInvalidTransition)
		case entity.MOStatusCancelled:
			return nil // 幂等
		default:
			mo.Status = entity.MOStatusCancelled
			return nil
		}
	})
}

// transition 在行锁下执行一次状态迁移
func (s *MOService) transition(ctx context.Context, id string, fn func(*entity.ManufacturingOrder) error) (*entity.ManufacturingOrder, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mo, err := repository.LockMOByID(tx, id)
		if err != nil {
			return err
		}
		before := mo.Status
		if err := fn(mo); err != nil {
			return err
		}
		if mo.Status == before {
			return nil
		}
		return tx.Model(mo).Update("status", mo.Status).Error
	})
	if err != nil {
		return nil, err
	}
	return s.moRepo.FindByID(ctx, id)
}

// Delete 删除制造订单（仅草稿）
func (s *MOService) Delete(ctx context.Context, id string) error {
	mo, err := s.moRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if mo.Status != entity.MOStatusDraft {
		return fmt.Errorf("只有草稿状态的制造订单才能删除: %w", ErrInvalidTransition)
	}
	return s.moRepo.Delete(ctx, id)
}
