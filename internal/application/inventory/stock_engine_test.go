package inventory_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billstock-api/internal/application/inventory"
	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	domaininv "github.com/jhoicas/billstock-api/internal/domain/inventory"
	"github.com/jhoicas/billstock-api/internal/infrastructure/memory"
)

const tenantID = "tenant-1"

// ─── helpers ──────────────────────────────────────────────────────────────────

func newEngine(t *testing.T, policies domain.Policies) (*inventory.StockEngine, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return inventory.NewStockEngine(store.Products(), store.StockAdjustments(), policies, zerolog.Nop()), store
}

func seed(t *testing.T, store *memory.Store, name string, stock int) *entity.Product {
	t.Helper()
	p := &entity.Product{
		ID:            "prod-" + domaininv.NameKey(name),
		TenantID:      tenantID,
		Name:          name,
		NameKey:       domaininv.NameKey(name),
		UnitPrice:     decimal.NewFromInt(50),
		StockQuantity: stock,
	}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

func item(name string, qty int) *entity.BillItem {
	return &entity.BillItem{ProductName: name, Quantity: qty, Unit: "pcs", UnitPrice: decimal.NewFromInt(10)}
}

func stockOf(t *testing.T, store *memory.Store, id string) int {
	t.Helper()
	p, err := store.Products().GetByID(context.Background(), tenantID, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.StockQuantity
}

// ─── ValidateAvailability ─────────────────────────────────────────────────────

func TestValidateAvailability_Faltante(t *testing.T) {
	engine, store := newEngine(t, domain.DefaultPolicies())
	seed(t, store, "Widget", 2)

	res, err := engine.ValidateAvailability(context.Background(), tenantID, entity.BillTypeSell, []*entity.BillItem{item("widget", 5)})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "required 5, available 2")
}

func TestValidateAvailability_VentaProductoInexistenteEsError(t *testing.T) {
	engine, _ := newEngine(t, domain.DefaultPolicies())

	res, err := engine.ValidateAvailability(context.Background(), tenantID, entity.BillTypeSell, []*entity.BillItem{item("Ghost", 1)})
	require.NoError(t, err)
	assert.False(t, res.Valid)
}

func TestValidateAvailability_CompraProductoInexistentePermitida(t *testing.T) {
	engine, _ := newEngine(t, domain.DefaultPolicies())

	res, err := engine.ValidateAvailability(context.Background(), tenantID, entity.BillTypeBuy, []*entity.BillItem{item("Gadget", 20)})
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestValidateAvailability_ResuelveProductID(t *testing.T) {
	engine, store := newEngine(t, domain.DefaultPolicies())
	p := seed(t, store, "Widget", 10)
	it := item("  WIDGET ", 3)

	res, err := engine.ValidateAvailability(context.Background(), tenantID, entity.BillTypeSell, []*entity.BillItem{it})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, p.ID, it.ProductID)
}

// ─── AdjustStock ──────────────────────────────────────────────────────────────

func TestAdjustStock_CompraAumentaStock(t *testing.T) {
	engine, store := newEngine(t, domain.DefaultPolicies())
	p := seed(t, store, "Widget", 7)

	adjs, err := engine.AdjustStock(context.Background(), tenantID, "bill-1", entity.BillTypeBuy, []*entity.BillItem{item("Widget", 3)})
	require.NoError(t, err)
	require.Len(t, adjs, 1)
	assert.Equal(t, 7, adjs[0].PreviousQuantity)
	assert.Equal(t, 10, adjs[0].NewQuantity)
	assert.Greater(t, adjs[0].NewQuantity, adjs[0].PreviousQuantity)
	assert.Equal(t, 3, adjs[0].QuantityChange)
	assert.Equal(t, entity.OperationBuy, adjs[0].OperationType)
	assert.Equal(t, 10, stockOf(t, store, p.ID))
}

func TestAdjustStock_VentaDisminuyeStock(t *testing.T) {
	engine, store := newEngine(t, domain.DefaultPolicies())
	p := seed(t, store, "Widget", 10)

	adjs, err := engine.AdjustStock(context.Background(), tenantID, "bill-1", entity.BillTypeSell, []*entity.BillItem{item("Widget", 4)})
	require.NoError(t, err)
	require.Len(t, adjs, 1)
	assert.Equal(t, 10, adjs[0].PreviousQuantity)
	assert.Equal(t, 6, adjs[0].NewQuantity)
	assert.Equal(t, -4, adjs[0].QuantityChange)
	assert.Equal(t, 6, stockOf(t, store, p.ID))
}

func TestAdjustStock_CompraCreaProducto(t *testing.T) {
	engine, store := newEngine(t, domain.DefaultPolicies())
	it := item("Gadget", 20)

	adjs, err := engine.AdjustStock(context.Background(), tenantID, "bill-1", entity.BillTypeBuy, []*entity.BillItem{it})
	require.NoError(t, err)
	require.Len(t, adjs, 1)
	assert.Equal(t, 0, adjs[0].PreviousQuantity)
	assert.Equal(t, 20, adjs[0].NewQuantity)

	level, err := engine.GetStockLevel(context.Background(), tenantID, "gadget")
	require.NoError(t, err)
	assert.Equal(t, 20, level)
	assert.NotEmpty(t, it.ProductID)

	p, err := store.Products().GetByID(context.Background(), tenantID, it.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "Gadget", p.Name)
}

func TestAdjustStock_VentaProductoInexistente(t *testing.T) {
	t.Run("skip", func(t *testing.T) {
		engine, _ := newEngine(t, domain.DefaultPolicies())
		adjs, err := engine.AdjustStock(context.Background(), tenantID, "bill-1", entity.BillTypeSell, []*entity.BillItem{item("Ghost", 1)})
		require.NoError(t, err)
		assert.Empty(t, adjs)
	})
	t.Run("abort", func(t *testing.T) {
		policies := domain.DefaultPolicies()
		policies.MissingProduct = domain.PolicyAbort
		engine, _ := newEngine(t, policies)
		_, err := engine.AdjustStock(context.Background(), tenantID, "bill-1", entity.BillTypeSell, []*entity.BillItem{item("Ghost", 1)})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAdjustStock_CarreraRechazadaAlAplicar(t *testing.T) {
	engine, store := newEngine(t, domain.DefaultPolicies())
	p := seed(t, store, "Widget", 3)
	first := item("Widget", 2)

	adjs, err := engine.AdjustStock(context.Background(), tenantID, "bill-1", entity.BillTypeSell, []*entity.BillItem{item("Widget", 1), first, item("Widget", 5)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Len(t, adjs, 2, "los ajustes aplicados se devuelven para compensar")
	assert.Equal(t, 0, stockOf(t, store, p.ID))

	appErr := domain.AsAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Details[0], "available 0")
}

func TestAdjustStock_CarreraConPoliticaSkipNoTocaStock(t *testing.T) {
	policies := domain.DefaultPolicies()
	policies.StockApply = domain.PolicySkip
	engine, store := newEngine(t, policies)
	p := seed(t, store, "Widget", 3)

	adjs, err := engine.AdjustStock(context.Background(), tenantID, "bill-1", entity.BillTypeSell, []*entity.BillItem{item("Widget", 5)})
	require.NoError(t, err)
	assert.Empty(t, adjs)
	assert.Equal(t, 3, stockOf(t, store, p.ID))
}

// ─── Reversal ─────────────────────────────────────────────────────────────────

func TestReverseStockAdjustment_InversaExacta(t *testing.T) {
	for _, billType := range []string{entity.BillTypeSell, entity.BillTypeBuy} {
		t.Run(billType, func(t *testing.T) {
			engine, store := newEngine(t, domain.DefaultPolicies())
			a := seed(t, store, "Widget", 10)
			b := seed(t, store, "Bolt", 25)
			items := []*entity.BillItem{item("Widget", 4), item("Bolt", 9), item("widget", 1)}

			_, err := engine.AdjustStock(context.Background(), tenantID, "bill-1", billType, items)
			require.NoError(t, err)
			assert.NotEqual(t, 10, stockOf(t, store, a.ID))

			reversals, err := engine.ReverseStockAdjustment(context.Background(), tenantID, "bill-1", billType, items)
			require.NoError(t, err)
			assert.Len(t, reversals, 3)
			assert.Equal(t, entity.ReversalOperation(billType), reversals[0].OperationType)
			assert.Equal(t, 10, stockOf(t, store, a.ID))
			assert.Equal(t, 25, stockOf(t, store, b.ID))
		})
	}
}

func TestReverseAdjustments_DesdeElLibro(t *testing.T) {
	engine, store := newEngine(t, domain.DefaultPolicies())
	p := seed(t, store, "Widget", 10)

	_, err := engine.AdjustStock(context.Background(), tenantID, "bill-1", entity.BillTypeSell, []*entity.BillItem{item("Widget", 4)})
	require.NoError(t, err)

	ledger, err := engine.ListBillAdjustments(context.Background(), tenantID, "bill-1")
	require.NoError(t, err)
	_, err = engine.ReverseAdjustments(context.Background(), tenantID, ledger)
	require.NoError(t, err)
	assert.Equal(t, 10, stockOf(t, store, p.ID))

	// reversiones previas no se revierten otra vez
	ledger, err = engine.ListBillAdjustments(context.Background(), tenantID, "bill-1")
	require.NoError(t, err)
	require.Len(t, ledger, 2)
	reversals, err := engine.ReverseAdjustments(context.Background(), tenantID, ledger[1:])
	require.NoError(t, err)
	assert.Empty(t, reversals)
}

// ─── Consultas ────────────────────────────────────────────────────────────────

func TestGetStockLevel_ProductoInexistenteEsCero(t *testing.T) {
	engine, _ := newEngine(t, domain.DefaultPolicies())
	level, err := engine.GetStockLevel(context.Background(), tenantID, "nothing")
	require.NoError(t, err)
	assert.Equal(t, 0, level)
}

func TestListAdjustments_ProductoInexistente(t *testing.T) {
	engine, _ := newEngine(t, domain.DefaultPolicies())
	_, err := engine.ListAdjustments(context.Background(), tenantID, "nope", 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReverseBill_OmiteFilasYaRevertidas(t *testing.T) {
	engine, store := newEngine(t, domain.DefaultPolicies())
	a := seed(t, store, "Widget", 10)
	b := seed(t, store, "Bolt", 10)
	items := []*entity.BillItem{item("Widget", 4), item("Bolt", 2)}

	adjs, err := engine.AdjustStock(context.Background(), tenantID, "bill-1", entity.BillTypeSell, items)
	require.NoError(t, err)

	// borrado previo interrumpido: solo Widget alcanzó a revertirse
	_, err = engine.ReverseAdjustments(context.Background(), tenantID, adjs[:1])
	require.NoError(t, err)

	_, err = engine.ReverseBill(context.Background(), tenantID, "bill-1", entity.BillTypeSell, items)
	require.NoError(t, err)
	assert.Equal(t, 10, stockOf(t, store, a.ID))
	assert.Equal(t, 10, stockOf(t, store, b.ID))
}

func TestReverseBill_SinLibroUsaItems(t *testing.T) {
	engine, store := newEngine(t, domain.DefaultPolicies())
	p := seed(t, store, "Widget", 6)

	_, err := engine.ReverseBill(context.Background(), tenantID, "legacy-bill", entity.BillTypeSell, []*entity.BillItem{item("Widget", 4)})
	require.NoError(t, err)
	assert.Equal(t, 10, stockOf(t, store, p.ID))
}
