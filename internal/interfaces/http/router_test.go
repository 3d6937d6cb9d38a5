package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billstock-api/internal/application/analytics"
	"github.com/jhoicas/billstock-api/internal/application/billing"
	"github.com/jhoicas/billstock-api/internal/application/dto"
	"github.com/jhoicas/billstock-api/internal/application/inventory"
	"github.com/jhoicas/billstock-api/internal/application/payroll"
	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/infrastructure/cache"
	"github.com/jhoicas/billstock-api/internal/infrastructure/memory"
	"github.com/jhoicas/billstock-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/billstock-api/internal/interfaces/http"
)

// ─── fixture ──────────────────────────────────────────────────────────────────

type apiClient struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	store := memory.NewStore()
	c := cache.NewMemoryCache(256, time.Minute)
	log := zerolog.Nop()
	policies := domain.DefaultPolicies()

	stock := inventory.NewStockEngine(store.Products(), store.StockAdjustments(), policies, log)
	sales := billing.NewSalesRecorder(store.SalesRecords(), store.Products(), log)
	tracker := billing.NewPaymentTracker(store.Bills(), store.Payments(), c, log)
	engine := billing.NewBillEngine(store.Bills(), stock, sales, tracker, c,
		billing.EngineOptions{Policies: policies, CacheTTL: time.Minute}, log)

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
	apphttp.Router(app, apphttp.RouterDeps{
		BillEngine:     engine,
		PaymentTracker: tracker,
		BillPDF:        billing.NewPDFUseCase(store.Bills(), store.Payments(), pdf.NewMarotoPDFGenerator()),
		ProductUC:      inventory.NewProductUseCase(store.Products()),
		StockEngine:    stock,
		DashboardUC: analytics.NewDashboardUseCase(store.Products(), store.Bills(), store.Workers(), sales, c,
			5, time.Minute, log),
		WorkerUC:  payroll.NewWorkerUseCase(store.Workers(), c, log),
		JWTSecret: testJWTSecret,
		JWTIssuer: testIssuer,
	})
	return &apiClient{t: t, app: app, token: tokenFor(t, testTenantID)}
}

// do envía la petición; si out no es nil decodifica el cuerpo JSON.
func (a *apiClient) do(method, path string, body any, out any) int {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", a.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// list hace un GET de listado y devuelve el status y el header X-Total-Count.
func (a *apiClient) list(path string, out any) (int, string) {
	a.t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", a.token)
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	return resp.StatusCode, resp.Header.Get("X-Total-Count")
}

func (a *apiClient) createProduct(name string, stock int) dto.ProductResponse {
	a.t.Helper()
	var p dto.ProductResponse
	status := a.do(http.MethodPost, "/api/products", map[string]any{
		"name": name, "category": "calzado", "unit": "par", "unit_price": "50000", "stock_quantity": stock,
	}, &p)
	require.Equal(a.t, http.StatusCreated, status)
	return p
}

func sellBill(product string, qty int, total string) map[string]any {
	return map[string]any{
		"bill_number":  "F-001",
		"bill_title":   "Venta mostrador",
		"bill_date":    "2024-03-15",
		"bill_type":    "sell",
		"party_name":   "Cliente Demo",
		"total_amount": total,
		"payment_type": "partial",
		"paid_amount":  "0",
		"items": []map[string]any{
			{"product_name": product, "quantity": qty, "unit": "par", "unit_price": "50000"},
		},
	}
}

// ─── Bills ────────────────────────────────────────────────────────────────────

func TestBills_FlujoCompleto(t *testing.T) {
	api := newAPI(t)
	product := api.createProduct("Zapato Casual", 10)

	var bill dto.BillResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/bills", sellBill("zapato  casual", 3, "150000"), &bill))
	assert.Equal(t, "unpaid", bill.Status)

	var level dto.StockLevelResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/products/stock-level?name=Zapato%20Casual", nil, &level))
	assert.Equal(t, 7, level.StockQuantity)

	// Abono parcial y luego el saldo.
	var pay dto.RecordPaymentResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/bills/"+bill.ID+"/payments",
		map[string]any{"payment_amount": "50000", "payment_date": "2024-03-16", "payment_method": "cash"}, &pay))
	assert.Equal(t, "partially_paid", pay.Bill.Status)
	assert.True(t, pay.Bill.RemainingBalance.Equal(decimal.NewFromInt(100000)))

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/bills/"+bill.ID+"/payments",
		map[string]any{"payment_amount": "100001", "payment_date": "2024-03-16"}, &errBody))
	assert.Equal(t, "Payment amount exceeds bill total", errBody.Error)
	assert.Equal(t, domain.CodePaymentExceeds, errBody.Code)

	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/bills/"+bill.ID+"/payments",
		map[string]any{"payment_amount": "100000", "payment_date": "2024-03-17"}, &pay))
	assert.Equal(t, "paid", pay.Bill.Status)

	var detail dto.BillDetailResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/bills/"+bill.ID, nil, &detail))
	assert.Len(t, detail.Items, 1)
	assert.Len(t, detail.Payments, 2)
	assert.Equal(t, product.ID, detail.Items[0].ProductID)

	var ledger []dto.StockAdjustmentResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/products/"+product.ID+"/adjustments", nil, &ledger))
	require.Len(t, ledger, 1)
	assert.Equal(t, -3, ledger[0].QuantityChange)

	var stats dto.BillStatsResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/bills/stats", nil, &stats))
	assert.Equal(t, 1, stats.SellBills)
	assert.Equal(t, 1, stats.PaidCount)

	var msg dto.MessageResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/bills/"+bill.ID, nil, &msg))
	assert.Equal(t, "Bill deleted successfully", msg.Message)

	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/products/stock-level?name=zapato%20casual", nil, &level))
	assert.Equal(t, 10, level.StockQuantity)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/bills/"+bill.ID, nil, nil))
}

func TestBills_StockInsuficiente(t *testing.T) {
	api := newAPI(t)
	api.createProduct("Sandalia", 2)

	var errBody dto.ErrorResponse
	status := api.do(http.MethodPost, "/api/bills", sellBill("Sandalia", 5, "250000"), &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, domain.CodeInsufficientStock, errBody.Code)
	require.NotEmpty(t, errBody.Details)
	assert.Contains(t, errBody.Details[0], "required 5, available 2")

	var list []dto.BillResponse
	status, total := api.list("/api/bills", &list)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, list)
	assert.Equal(t, "0", total)
}

func TestBills_Validacion(t *testing.T) {
	api := newAPI(t)

	var errBody dto.ErrorResponse
	status := api.do(http.MethodPost, "/api/bills", map[string]any{"bill_type": "sell", "items": []any{}}, &errBody)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, domain.CodeValidation, errBody.Code)
	assert.Contains(t, errBody.Details, "Missing required fields: bill_number, bill_title, bill_date, party_name, total_amount")
	assert.Equal(t, http.StatusBadRequest, errBody.Status)
}

func TestBills_CuerpoInvalido(t *testing.T) {
	api := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/bills", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", api.token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBills_FiltrosYPDF(t *testing.T) {
	api := newAPI(t)
	api.createProduct("Bota", 10)

	var bill dto.BillResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/bills", sellBill("Bota", 1, "50000"), &bill))

	var list []dto.BillResponse
	status, total := api.list("/api/bills?bill_type=buy", &list)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, list)
	assert.Equal(t, "0", total)
	status, total = api.list("/api/bills?bill_type=sell&start_date=2024-03-01&end_date=2024-03-31&limit=10", &list)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list, 1)
	assert.Equal(t, bill.ID, list[0].ID)
	assert.Equal(t, "1", total)

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/bills?status=overdue", nil, &errBody))

	req := httptest.NewRequest(http.MethodGet, "/api/bills/"+bill.ID+"/pdf", nil)
	req.Header.Set("Authorization", api.token)
	resp, err := api.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "bill-F-001.pdf")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestBills_Items(t *testing.T) {
	api := newAPI(t)
	api.createProduct("Tenis", 10)

	var bill dto.BillResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/bills", sellBill("Tenis", 2, "100000"), &bill))
	var detail dto.BillDetailResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/bills/"+bill.ID, nil, &detail))
	itemID := detail.Items[0].ID

	var upd dto.BillItemUpdateResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPut, "/api/bills/"+bill.ID+"/items/"+itemID,
		map[string]any{"quantity": 3}, &upd))
	assert.Equal(t, 3, upd.Item.Quantity)
	assert.True(t, upd.Bill.TotalAmount.Equal(decimal.NewFromInt(150000)))
	assert.True(t, upd.Bill.RemainingBalance.Equal(decimal.NewFromInt(150000)))

	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodDelete, "/api/bills/"+bill.ID+"/items/"+itemID, nil, &errBody))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPut, "/api/bills/"+bill.ID+"/items/missing",
		map[string]any{"quantity": 1}, nil))
}

func TestBills_AislamientoPorTenant(t *testing.T) {
	api := newAPI(t)
	api.createProduct("Mocasín", 5)
	var bill dto.BillResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/bills", sellBill("Mocasín", 1, "50000"), &bill))

	other := *api
	other.token = tokenFor(t, "otro-tenant")
	assert.Equal(t, http.StatusNotFound, other.do(http.MethodGet, "/api/bills/"+bill.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, other.do(http.MethodDelete, "/api/bills/"+bill.ID, nil, nil))
}

// ─── Products / Dashboard / Workers ─────────────────────────────────────────

func TestProducts_Duplicado(t *testing.T) {
	api := newAPI(t)
	api.createProduct("Correa Negra", 1)

	var errBody dto.ErrorResponse
	status := api.do(http.MethodPost, "/api/products", map[string]any{"name": "  correa   NEGRA ", "unit_price": "1"}, &errBody)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, domain.CodeConflict, errBody.Code)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/products/stock-level", nil, nil))
	var level dto.StockLevelResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/products/stock-level?name=inexistente", nil, &level))
	assert.Equal(t, 0, level.StockQuantity)
}

func TestDashboard_ResumenYTop(t *testing.T) {
	api := newAPI(t)
	api.createProduct("Zapato", 10)
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/bills", sellBill("Zapato", 4, "200000"), nil))

	var summary dto.DashboardSummaryDTO
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/dashboard/summary", nil, &summary))
	assert.Equal(t, 1, summary.TotalProducts)
	assert.Equal(t, 6, summary.TotalStockUnits)
	assert.True(t, summary.TotalSales.Equal(decimal.NewFromInt(200000)))
	assert.True(t, summary.TotalOutstanding.Equal(decimal.NewFromInt(200000)))
	require.Len(t, summary.TopProducts, 1)

	var top []dto.TopProductDTO
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/dashboard/top-products?limit=3", nil, &top))
	require.Len(t, top, 1)
	assert.Equal(t, 4, top[0].TotalQuantitySold)
}

func TestWorkers_CRUDYPagos(t *testing.T) {
	api := newAPI(t)

	var w dto.WorkerResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/workers",
		map[string]any{"name": "Ana", "role": "vendedora", "salary": "1300000", "join_date": "2024-01-10"}, &w))
	assert.True(t, w.Active)

	var pay dto.WorkerPaymentResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/workers/"+w.ID+"/payments",
		map[string]any{"amount": "650000", "payment_date": "2024-02-15"}, &pay))
	assert.Equal(t, w.ID, pay.WorkerID)

	var payments []dto.WorkerPaymentResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/workers/"+w.ID+"/payments", nil, &payments))
	assert.Len(t, payments, 1)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/workers/"+w.ID+"/payments",
		map[string]any{"amount": "0", "payment_date": "2024-02-15"}, nil))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPost, "/api/workers/missing/payments",
		map[string]any{"amount": "10", "payment_date": "2024-02-15"}, nil))

	var updated dto.WorkerResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPut, "/api/workers/"+w.ID, map[string]any{"active": false}, &updated))
	assert.False(t, updated.Active)

	require.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/workers/"+w.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/workers/"+w.ID, nil, nil))
}

func TestRutaInexistente(t *testing.T) {
	api := newAPI(t)
	var errBody dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/nothing-here", nil, &errBody))
	assert.Equal(t, domain.CodeNotFound, errBody.Code)
}
