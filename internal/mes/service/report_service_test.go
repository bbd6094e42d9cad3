package service

import (
	"context"
	"testing"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"github.com/bitfantasy/nimo-mes/internal/mes/testutil"
	"github.com/google/uuid"
)

func TestProductionSummary(t *testing.T) {
	db, svc := setupMOTest(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "FG-401", "Widget", entity.ProductTypeFinished)

	// 一单逾期未分配，一单正常，一单已确认
	if _, err := svc.MO.Create(ctx, &CreateMOInput{
		ProductID: product.ID, Quantity: 1, EndDate: "2020-01-01",
	}, "u1"); err != nil {
		t.Fatalf("create late mo: %v", err)
	}
	if _, err := svc.MO.Create(ctx, &CreateMOInput{
		ProductID: product.ID, Quantity: 1, AssigneeID: "worker-1", EndDate: "2099-01-01",
	}, "u1"); err != nil {
		t.Fatalf("create mo: %v", err)
	}
	confirmed, err := svc.MO.Create(ctx, &CreateMOInput{
		ProductID: product.ID, Quantity: 1, AssigneeID: "worker-2",
	}, "u1")
	if err != nil {
		t.Fatalf("create mo: %v", err)
	}
	if _, err := svc.MO.Confirm(ctx, confirmed.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	summary, err := svc.Report.GetProductionSummary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Total != 3 {
		t.Errorf("expected total 3, got %d", summary.Total)
	}
	if summary.ByStatus[entity.MOStatusDraft] != 2 || summary.ByStatus[entity.MOStatusConfirmed] != 1 {
		t.Errorf("unexpected by_status: %v", summary.ByStatus)
	}
	if summary.Late != 1 {
		t.Errorf("expected 1 late, got %d", summary.Late)
	}
	if summary.Unassigned != 1 {
		t.Errorf("expected 1 unassigned, got %d", summary.Unassigned)
	}
}

func TestWorkCenterLoadCosting(t *testing.T) {
	db, svc := setupMOTest(t)
	ctx := context.Background()

	wc := &entity.WorkCenter{
		ID:          uuid.New().String(),
		Name:        "Assembly Line 1",
		CostPerHour: 120,
	}
	if err := db.Create(wc).Error; err != nil {
		t.Fatalf("seed work center: %v", err)
	}

	moID := uuid.New().String()
	mins1, mins2 := 30.0, 45.0
	wos := []entity.WorkOrder{
		{ID: uuid.New().String(), MOID: moID, OperationName: "Assemble",
			WorkCenterID: wc.ID, Status: entity.WOStatusDone,
			ExpectedDurationMins: 40, RealDurationMins: &mins1},
		{ID: uuid.New().String(), MOID: moID, OperationName: "Inspect",
			WorkCenterID: wc.ID, Status: entity.WOStatusDone,
			ExpectedDurationMins: 40, RealDurationMins: &mins2},
		{ID: uuid.New().String(), MOID: moID, OperationName: "Pack",
			WorkCenterID: wc.ID, Status: entity.WOStatusPending,
			ExpectedDurationMins: 10},
	}
	for i := range wos {
		if err := db.Create(&wos[i]).Error; err != nil {
			t.Fatalf("seed wo: %v", err)
		}
		db.Model(&wos[i]).Update("reference", entity.WOReference(wos[i].Seq))
	}

	loads, err := svc.Report.GetWorkCenterLoad(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loads) != 1 {
		t.Fatalf("expected 1 work center, got %d", len(loads))
	}
	load := loads[0]
	if load.DoneCount != 2 {
		t.Errorf("expected 2 done, got %d", load.DoneCount)
	}
	if load.RealMins != 75 {
		t.Errorf("expected 75 real mins, got %v", load.RealMins)
	}
	// 75分钟 × 120/小时 = 150
	if load.Cost != "150" {
		t.Errorf("expected cost 150, got %s", load.Cost)
	}
	if load.WorkCenterName != "Assembly Line 1" {
		t.Errorf("expected work center name resolved, got %s", load.WorkCenterName)
	}
}

func TestLowStockReport(t *testing.T) {
	db, svc := setupMOTest(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "RM-401", "Bolt", entity.ProductTypeRawMaterial)
	inv := testutil.SeedInventory(t, db, product.ID, 4)
	db.Model(inv).Update("reorder_level", 20)

	items, err := svc.Report.GetLowStock(ctx)
	if err != nil {
		t.Fatalf("low stock: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].SKU != "RM-401" || items[0].Available != 4 || items[0].ReorderLevel != 20 {
		t.Errorf("unexpected item: %+v", items[0])
	}
}
