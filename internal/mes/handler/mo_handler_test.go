package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/bitfantasy/nimo-mes/internal/mes/entity"
	"github.com/bitfantasy/nimo-mes/internal/mes/repository"
	"github.com/bitfantasy/nimo-mes/internal/mes/service"
	"github.com/bitfantasy/nimo-mes/internal/mes/testutil"
	"github.com/bitfantasy/nimo-mes/internal/middleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// setupHandlerTest 组装与生产环境相同的路由结构
func setupHandlerTest(t *testing.T) (*gorm.DB, *gin.Engine) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := service.NewServices(repos, db)
	h := NewHandlers(svc)

	r := testutil.SetupRouter()
	v1 := testutil.AuthGroup(r, "/api/v1/mes")
	admin := middleware.RequireRole("mes_admin")

	mos := v1.Group("/mos")
	{
		mos.GET("", h.MO.List)
		mos.POST("", h.MO.Create)
		mos.GET("/:id", h.MO.Get)
		mos.POST("/:id/confirm", h.MO.Confirm)
		mos.POST("/:id/start", h.MO.Start)
		mos.POST("/:id/complete", h.MO.Complete)
		mos.POST("/:id/cancel", admin, h.MO.Cancel)
		mos.DELETE("/:id", h.MO.Delete)
		mos.GET("/:id/components", h.MO.Components)
	}
	v1.POST("/ledger/add", h.Inventory.AddMovement)
	v1.POST("/products", h.Product.Create)

	return db, r
}

func createMO(t *testing.T, r *gin.Engine, token, productID string, qty float64) string {
	t.Helper()
	w := testutil.DoRequest(r, "POST", "/api/v1/mes/mos", gin.H{
		"product_id": productID,
		"quantity":   qty,
	}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create mo: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	return data["id"].(string)
}

func TestMOLifecycleOverHTTP(t *testing.T) {
	db, r := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	finished := testutil.SeedProduct(t, db, "FG-501", "Widget", entity.ProductTypeFinished)
	comp := testutil.SeedProduct(t, db, "RM-501", "Component", entity.ProductTypeRawMaterial)
	testutil.SeedBOM(t, db, finished.ID, map[string]float64{comp.ID: 2}, "Assemble")
	testutil.SeedInventory(t, db, comp.ID, 25)

	moID := createMO(t, r, token, finished.ID, 10)

	w := testutil.DoRequest(r, "POST", fmt.Sprintf("/api/v1/mes/mos/%s/confirm", moID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("confirm: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != entity.MOStatusConfirmed {
		t.Errorf("expected confirmed, got %v", data["status"])
	}
	if data["component_status"] != entity.ComponentAvailable {
		t.Errorf("expected component_status available, got %v", data["component_status"])
	}

	w = testutil.DoRequest(r, "POST", fmt.Sprintf("/api/v1/mes/mos/%s/start", moID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d", w.Code)
	}
	w = testutil.DoRequest(r, "POST", fmt.Sprintf("/api/v1/mes/mos/%s/complete", moID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("complete: expected 200, got %d", w.Code)
	}
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != entity.MOStatusDone {
		t.Errorf("expected done, got %v", data["status"])
	}
}

func TestConfirmShortageReturns409(t *testing.T) {
	db, r := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	finished := testutil.SeedProduct(t, db, "FG-502", "Widget", entity.ProductTypeFinished)
	comp := testutil.SeedProduct(t, db, "RM-502", "Component", entity.ProductTypeRawMaterial)
	testutil.SeedBOM(t, db, finished.ID, map[string]float64{comp.ID: 2})
	testutil.SeedInventory(t, db, comp.ID, 15)

	moID := createMO(t, r, token, finished.ID, 10)

	w := testutil.DoRequest(r, "POST", fmt.Sprintf("/api/v1/mes/mos/%s/confirm", moID), nil, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 40901 {
		t.Errorf("expected code 40901, got %v", resp["code"])
	}
	data := resp["data"].(map[string]interface{})
	if data["status"] != "not_available" || data["lacking"] != comp.ID {
		t.Errorf("unexpected shortage payload: %v", data)
	}

	// 订单仍为draft，可重试确认
	w = testutil.DoRequest(r, "GET", fmt.Sprintf("/api/v1/mes/mos/%s", moID), nil, token)
	data = testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != entity.MOStatusDraft {
		t.Errorf("expected draft after shortage, got %v", data["status"])
	}

	// 补货后重试成功
	w = testutil.DoRequest(r, "POST", "/api/v1/mes/ledger/add", gin.H{
		"product_id":    comp.ID,
		"movement_type": "in",
		"quantity":      10,
		"reference":     "PO-000002",
	}, token)
	if w.Code != http.StatusOK {
		t.Fatalf("ledger add: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	w = testutil.DoRequest(r, "POST", fmt.Sprintf("/api/v1/mes/mos/%s/confirm", moID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("retry confirm: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestComponentsEndpoint(t *testing.T) {
	db, r := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	finished := testutil.SeedProduct(t, db, "FG-503", "Widget", entity.ProductTypeFinished)
	comp := testutil.SeedProduct(t, db, "RM-503", "Component", entity.ProductTypeRawMaterial)
	testutil.SeedBOM(t, db, finished.ID, map[string]float64{comp.ID: 3})
	testutil.SeedInventory(t, db, comp.ID, 10)

	moID := createMO(t, r, token, finished.ID, 5)

	w := testutil.DoRequest(r, "GET", fmt.Sprintf("/api/v1/mes/mos/%s/components", moID), nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("components: expected 200, got %d", w.Code)
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != entity.ComponentNotAvailable {
		t.Errorf("expected not_available, got %v", data["status"])
	}
	components := data["components"].([]interface{})
	if len(components) != 1 {
		t.Fatalf("expected 1 component check, got %d", len(components))
	}
	check := components[0].(map[string]interface{})
	if check["required"].(float64) != 15 || check["missing"].(float64) != 5 {
		t.Errorf("unexpected check: %v", check)
	}
}

func TestDeleteDraftReturns204(t *testing.T) {
	db, r := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	finished := testutil.SeedProduct(t, db, "FG-504", "Widget", entity.ProductTypeFinished)
	moID := createMO(t, r, token, finished.ID, 1)

	w := testutil.DoRequest(r, "DELETE", fmt.Sprintf("/api/v1/mes/mos/%s", moID), nil, token)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	w = testutil.DoRequest(r, "GET", fmt.Sprintf("/api/v1/mes/mos/%s", moID), nil, token)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", w.Code)
	}
}

func TestCancelRequiresAdminRole(t *testing.T) {
	db, r := setupHandlerTest(t)
	admin := testutil.DefaultTestToken()
	operator := testutil.GenerateTestToken("op-001", "Operator", "op@test.com", []string{"mes_operator"})

	finished := testutil.SeedProduct(t, db, "FG-505", "Widget", entity.ProductTypeFinished)
	moID := createMO(t, r, admin, finished.ID, 1)

	w := testutil.DoRequest(r, "POST", fmt.Sprintf("/api/v1/mes/mos/%s/cancel", moID), nil, operator)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}

	w = testutil.DoRequest(r, "POST", fmt.Sprintf("/api/v1/mes/mos/%s/cancel", moID), nil, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", w.Code, w.Body.String())
	}
	data := testutil.ParseResponse(w)["data"].(map[string]interface{})
	if data["status"] != entity.MOStatusCancelled {
		t.Errorf("expected cancelled, got %v", data["status"])
	}
}

func TestDuplicateSKUReturns409(t *testing.T) {
	_, r := setupHandlerTest(t)
	token := testutil.DefaultTestToken()

	body := gin.H{"sku": "FG-506", "name": "Widget", "type": entity.ProductTypeFinished}
	w := testutil.DoRequest(r, "POST", "/api/v1/mes/products", body, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create product: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	// 唯一约束冲突映射为409，不落到500
	w = testutil.DoRequest(r, "POST", "/api/v1/mes/products", body, token)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate sku: expected 409, got %d: %s", w.Code, w.Body.String())
	}
	if testutil.ParseResponse(w)["code"].(float64) != 40900 {
		t.Errorf("expected code 40900, got %v", testutil.ParseResponse(w)["code"])
	}
}

func TestAuthRequired(t *testing.T) {
	_, r := setupHandlerTest(t)

	w := testutil.DoRequest(r, "GET", "/api/v1/mes/mos", nil, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}
