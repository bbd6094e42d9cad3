package service

import (
	"context"
	"testing"
	"time"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"github.com/bitfantasy/nimo-mes/internal/mes/testutil"
)

func TestResolveEffectiveLatestWins(t *testing.T) {
	db, svc := setupMOTest(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "FG-201", "Widget", entity.ProductTypeFinished)
	oldBOM := testutil.SeedBOM(t, db, product.ID, nil)
	// created_at区分版本先后
	db.Model(oldBOM).Update("created_at", time.Now().Add(-time.Hour))
	newBOM := testutil.SeedBOM(t, db, product.ID, nil)

	got, err := svc.BOM.ResolveEffective(ctx, product.ID, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got == nil || got.ID != newBOM.ID {
		t.Errorf("expected latest bom %s, got %+v", newBOM.ID, got)
	}
}

func TestResolveEffectiveExplicitPreferred(t *testing.T) {
	db, svc := setupMOTest(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "FG-202", "Widget", entity.ProductTypeFinished)
	oldBOM := testutil.SeedBOM(t, db, product.ID, nil)
	db.Model(oldBOM).Update("created_at", time.Now().Add(-time.Hour))
	testutil.SeedBOM(t, db, product.ID, nil)

	got, err := svc.BOM.ResolveEffective(ctx, product.ID, oldBOM.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got == nil || got.ID != oldBOM.ID {
		t.Errorf("expected explicit bom %s, got %+v", oldBOM.ID, got)
	}
}

func TestResolveEffectiveMissingExplicitFallsBack(t *testing.T) {
	db, svc := setupMOTest(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "FG-203", "Widget", entity.ProductTypeFinished)
	bom := testutil.SeedBOM(t, db, product.ID, nil)

	got, err := svc.BOM.ResolveEffective(ctx, product.ID, "no-such-bom")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got == nil || got.ID != bom.ID {
		t.Errorf("expected fallback to %s, got %+v", bom.ID, got)
	}
}

func TestResolveEffectiveNoBOM(t *testing.T) {
	db, svc := setupMOTest(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "FG-204", "Widget", entity.ProductTypeFinished)

	got, err := svc.BOM.ResolveEffective(ctx, product.ID, "")
	if err != nil {
		t.Fatalf("expected nil error for product without bom, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil bom, got %+v", got)
	}
}

func TestBOMCreateDefaults(t *testing.T) {
	db, svc := setupMOTest(t)
	ctx := context.Background()

	product := testutil.SeedProduct(t, db, "FG-205", "Widget", entity.ProductTypeFinished)
	comp := testutil.SeedProduct(t, db, "RM-205", "Component", entity.ProductTypeRawMaterial)

	bom, err := svc.BOM.Create(ctx, &CreateBOMInput{
		ProductID:  product.ID,
		Components: []BOMComponentInput{{ComponentProductID: comp.ID, Quantity: 2}},
		Operations: []BOMOperationInput{{OperationName: "Assemble", DurationMins: 45, Sequence: 1}},
	}, "u1")
	if err != nil {
		t.Fatalf("create bom: %v", err)
	}
	if bom.Version != "v1.0" || bom.OutputQty != 1 {
		t.Errorf("expected defaults v1.0/1, got %s/%v", bom.Version, bom.OutputQty)
	}

	loaded, err := svc.BOM.Get(ctx, bom.ID)
	if err != nil {
		t.Fatalf("get bom: %v", err)
	}
	if len(loaded.Components) != 1 || len(loaded.Operations) != 1 {
		t.Errorf("expected 1 component and 1 operation, got %d/%d",
			len(loaded.Components), len(loaded.Operations))
	}
}
