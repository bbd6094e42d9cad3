package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"github.com/bitfantasy/nimo-mes/internal/mes/repository"
	"github.com/bitfantasy/nimo-mes/internal/mes/testutil"
	"gorm.io/gorm"
)

// seedConfirmedMO 建一个带两道工序、无组件需求的已确认订单，返回订单与工单
func seedConfirmedMO(t *testing.T, db *gorm.DB, svc *Services, sku string) (*entity.ManufacturingOrder, []entity.WorkOrder) {
	t.Helper()
	ctx := context.Background()
	product := testutil.SeedProduct(t, db, sku, "Widget", entity.ProductTypeFinished)
	testutil.SeedBOM(t, db, product.ID, nil, "Cut", "Weld")

	mo, err := svc.MO.Create(ctx, &CreateMOInput{ProductID: product.ID, Quantity: 1}, "u1")
	if err != nil {
		t.Fatalf("create mo: %v", err)
	}
	if _, err := svc.MO.Confirm(ctx, mo.ID); err != nil {
		t.Fatalf("confirm mo: %v", err)
	}
	wos, _, err := svc.WO.List(ctx, repository.WOListParams{MOID: mo.ID})
	if err != nil {
		t.Fatalf("list wos: %v", err)
	}
	if len(wos) != 2 {
		t.Fatalf("expected 2 work orders, got %d", len(wos))
	}
	return mo, wos
}

func TestWOStartSetsStartedAtOnce(t *testing.T) {
	db, svc := setupMOTest(t)
	ctx := context.Background()
	_, wos := seedConfirmedMO(t, db, svc, "FG-101")

	started, err := svc.WO.Start(ctx, wos[0].ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != entity.WOStatusInProgress {
		t.Fatalf("expected in_progress, got %s", started.Status)
	}
	if started.StartedAt == nil {
		t.Fatal("expected started_at set")
	}
	first := *started.StartedAt

	// 暂停再恢复：started_at不变
	if _, err := svc.WO.Pause(ctx, wos[0].ID); err != nil {
		t.Fatalf("pause: %v", err)
	}
	resumed, err := svc.WO.Resume(ctx, wos[0].ID)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if resumed.StartedAt == nil || !resumed.StartedAt.Equal(first) {
		t.Errorf("expected started_at preserved, got %v", resumed.StartedAt)
	}

	// 重复开工no-op
	again, err := svc.WO.Start(ctx, wos[0].ID)
	if err != nil {
		t.Fatalf("idempotent start: %v", err)
	}
	if !again.StartedAt.Equal(first) {
		t.Errorf("expected started_at unchanged after re-start")
	}
}

func TestWOCompleteComputesDurationOnce(t *testing.T) {
	db, svc := setupMOTest(t)
	ctx := context.Background()
	_, wos := seedConfirmedMO(t, db, svc, "FG-102")

	if _, err := svc.WO.Start(ctx, wos[0].ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	done, err := svc.WO.Complete(ctx, wos[0].ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != entity.WOStatusDone {
		t.Fatalf("expected done, got %s", done.Status)
	}
	if done.EndedAt == nil || done.RealDurationMins == nil {
		t.Fatal("expected ended_at and real duration recorded")
	}
	first := *done.RealDurationMins

	// 重复完工no-op，工时不重算
	again, err := svc.WO.Complete(ctx, wos[0].ID)
	if err != nil {
		t.Fatalf("idempotent complete: %v", err)
	}
	if again.RealDurationMins == nil || *again.RealDurationMins != first {
		t.Errorf("expected duration unchanged, got %v", again.RealDurationMins)
	}

	// 完工后不可取消
	if _, err := svc.WO.Cancel(ctx, wos[0].ID); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected cancel after done to fail, got %v", err)
	}
}

func TestWOStartOnPendingAggregatesToInProgress(t *testing.T) {
	db, svc := setupMOTest(t)
	ctx := context.Background()
	mo, wos := seedConfirmedMO(t, db, svc, "FG-103")

	if _, err := svc.WO.Start(ctx, wos[0].ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	after, _ := svc.MO.Get(ctx, mo.ID)
	if after.Status != entity.MOStatusInProgress {
		t.Errorf("expected mo in_progress, got %s", after.Status)
	}

	// 混合[done, pending]不触发to_close，订单保持in_progress
	if _, err := svc.WO.Complete(ctx, wos[0].ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	after, _ = svc.MO.Get(ctx, mo.ID)
	if after.Status != entity.MOStatusInProgress {
		t.Errorf("expected mo still in_progress, got %s", after.Status)
	}
}

func TestAllWOsDoneMovesMOToClose(t *testing.T) {
	db, svc := setupMOTest(t)
	ctx := context.Background()
	mo, wos := seedConfirmedMO(t, db, svc, "FG-104")

	for _, wo := range wos {
		if _, err := svc.WO.Start(ctx, wo.ID); err != nil {
			t.Fatalf("start %s: %v", wo.OperationName, err)
		}
		if _, err := svc.WO.Complete(ctx, wo.ID); err != nil {
			t.Fatalf("complete %s: %v", wo.OperationName, err)
		}
	}

	after, _ := svc.MO.Get(ctx, mo.ID)
	if after.Status != entity.MOStatusToClose {
		t.Fatalf("expected to_close, got %s", after.Status)
	}

	// to_close→done走订单级完工
	done, err := svc.MO.Complete(ctx, mo.ID)
	if err != nil {
		t.Fatalf("mo complete: %v", err)
	}
	if done.Status != entity.MOStatusDone {
		t.Errorf("expected done, got %s", done.Status)
	}
}

func TestWOCancelCancelsMO(t *testing.T) {
	db, svc := setupMOTest(t)
	ctx := context.Background()
	mo, wos := seedConfirmedMO(t, db, svc, "FG-105")

	if _, err := svc.WO.Cancel(ctx, wos[1].ID); err != nil {
		t.Fatalf("cancel wo: %v", err)
	}
	after, _ := svc.MO.Get(ctx, mo.ID)
	if after.Status != entity.MOStatusCancelled {
		t.Errorf("expected mo cancelled, got %s", after.Status)
	}
}

func TestAggregatorSkipsDraftMO(t *testing.T) {
	db, svc := setupMOTest(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "FG-106", "Widget", entity.ProductTypeFinished)
	testutil.SeedBOM(t, db, product.ID, nil, "Cut")
	mo, err := svc.MO.Create(ctx, &CreateMOInput{ProductID: product.ID, Quantity: 1}, "u1")
	if err != nil {
		t.Fatalf("create mo: %v", err)
	}
	wos, _, _ := svc.WO.List(ctx, repository.WOListParams{MOID: mo.ID})

	// 草稿订单的工单直接开工：工单走，订单不动
	if _, err := svc.WO.Start(ctx, wos[0].ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	after, _ := svc.MO.Get(ctx, mo.ID)
	if after.Status != entity.MOStatusDraft {
		t.Errorf("expected draft preserved, got %s", after.Status)
	}
}

func TestPauseKeepsMOInProgress(t *testing.T) {
	db, svc := setupMOTest(t)
	ctx := context.Background()
	mo, wos := seedConfirmedMO(t, db, svc, "FG-107")

	svc.WO.Start(ctx, wos[0].ID)
	if _, err := svc.WO.Pause(ctx, wos[0].ID); err != nil {
		t.Fatalf("pause: %v", err)
	}
	// paused算作在制
	after, _ := svc.MO.Get(ctx, mo.ID)
	if after.Status != entity.MOStatusInProgress {
		t.Errorf("expected in_progress with paused wo, got %s", after.Status)
	}
}

func TestRollupStatusTable(t *testing.T) {
	wo := func(status string) entity.WorkOrder { return entity.WorkOrder{Status: status} }
	cases := []struct {
		name    string
		current string
		wos     []entity.WorkOrder
		want    string
	}{
		{"cancelled wins", entity.MOStatusInProgress,
			[]entity.WorkOrder{wo(entity.WOStatusDone), wo(entity.WOStatusCancelled)}, entity.MOStatusCancelled},
		{"all done from in_progress", entity.MOStatusInProgress,
			[]entity.WorkOrder{wo(entity.WOStatusDone), wo(entity.WOStatusDone)}, entity.MOStatusToClose},
		{"all done from confirmed", entity.MOStatusConfirmed,
			[]entity.WorkOrder{wo(entity.WOStatusDone)}, entity.MOStatusToClose},
		{"all done from to_close is stable", entity.MOStatusToClose,
			[]entity.WorkOrder{wo(entity.WOStatusDone)}, ""},
		{"any in_progress", entity.MOStatusConfirmed,
			[]entity.WorkOrder{wo(entity.WOStatusPending), wo(entity.WOStatusInProgress)}, entity.MOStatusInProgress},
		{"paused counts as active", entity.MOStatusConfirmed,
			[]entity.WorkOrder{wo(entity.WOStatusPaused), wo(entity.WOStatusDone)}, entity.MOStatusInProgress},
		{"all pending", entity.MOStatusInProgress,
			[]entity.WorkOrder{wo(entity.WOStatusPending), wo(entity.WOStatusPending)}, entity.MOStatusConfirmed},
		{"done plus pending is indeterminate", entity.MOStatusInProgress,
			[]entity.WorkOrder{wo(entity.WOStatusDone), wo(entity.WOStatusPending)}, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rollupStatus(tc.current, tc.wos); got != tc.want {
				t.Errorf("rollupStatus(%s, %v) = %q, want %q", tc.current, tc.wos, got, tc.want)
			}
		})
	}
}
