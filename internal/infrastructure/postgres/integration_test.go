package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/billstock-api/pkg/config"
)

// Contra una base real: BILLSTOCK_TEST_DATABASE_URL=postgres://... go test ./internal/infrastructure/postgres/
func openPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("BILLSTOCK_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("BILLSTOCK_TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 10, MinConns: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.EnsureSchema(ctx, pool))
	return pool
}

func seedProduct(t *testing.T, repo *postgres.ProductRepo, tenantID string, stock int) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID: uuid.New().String(), TenantID: tenantID, Name: "Zapato", NameKey: "zapato",
		UnitPrice: decimal.NewFromInt(100), StockQuantity: stock, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

// ─── Stock ────────────────────────────────────────────────────────────────────

func TestStockApply_Concurrente(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	tenantID := uuid.New().String()
	products := postgres.NewProductRepository(pool)
	adjustments := postgres.NewStockAdjustmentRepository(pool)
	p := seedProduct(t, products, tenantID, 10)

	assert.ErrorIs(t, products.Create(ctx, &entity.Product{
		ID: uuid.New().String(), TenantID: tenantID, Name: "ZAPATO", NameKey: "zapato",
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}), domain.ErrDuplicate)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok, short int
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := adjustments.Apply(ctx, &entity.StockAdjustment{
				ID: uuid.New().String(), TenantID: tenantID, ProductID: p.ID, ProductName: p.Name,
				OperationType: entity.OperationSell, QuantityChange: -1, CreatedAt: time.Now(),
			}, true)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				short++
			default:
				t.Errorf("apply: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 15, short)
	got, err := products.GetByID(ctx, tenantID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.StockQuantity)

	ledger, err := adjustments.ListByProduct(ctx, tenantID, p.ID, 100, 0)
	require.NoError(t, err)
	assert.Len(t, ledger, 10)

	err = adjustments.Apply(ctx, &entity.StockAdjustment{
		ID: uuid.New().String(), TenantID: tenantID, ProductID: uuid.New().String(),
		OperationType: entity.OperationBuy, QuantityChange: 1, CreatedAt: time.Now(),
	}, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Pagos ────────────────────────────────────────────────────────────────────

func TestAddPaid_Techo(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	tenantID := uuid.New().String()
	bills := postgres.NewBillRepository(pool)

	now := time.Now()
	b := &entity.Bill{
		ID: uuid.New().String(), TenantID: tenantID, BillNumber: "F-1", BillTitle: "Venta",
		BillDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), BillType: entity.BillTypeSell,
		PartyName: "Cliente", TotalAmount: decimal.NewFromInt(100), PaymentType: entity.PaymentTypePartial,
		CreatedAt: now, UpdatedAt: now,
	}
	b.RefreshBalance()
	require.NoError(t, bills.Create(ctx, b))

	updated, err := bills.AddPaid(ctx, tenantID, b.ID, decimal.NewFromInt(40))
	require.NoError(t, err)
	assert.Equal(t, entity.BillStatusPartiallyPaid, updated.Status)
	assert.True(t, updated.RemainingBalance.Equal(decimal.NewFromInt(60)))

	_, err = bills.AddPaid(ctx, tenantID, b.ID, decimal.NewFromInt(61))
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsTotal)

	updated, err = bills.AddPaid(ctx, tenantID, b.ID, decimal.NewFromInt(60))
	require.NoError(t, err)
	assert.Equal(t, entity.BillStatusPaid, updated.Status)

	_, err = bills.AddPaid(ctx, tenantID, uuid.New().String(), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, bills.Delete(ctx, tenantID, b.ID))
}

// ─── Borrado ──────────────────────────────────────────────────────────────────

func TestClaimDeletion_UnSoloGanador(t *testing.T) {
	pool := openPool(t)
	ctx := context.Background()
	tenantID := uuid.New().String()
	bills := postgres.NewBillRepository(pool)

	now := time.Now()
	b := &entity.Bill{
		ID: uuid.New().String(), TenantID: tenantID, BillNumber: "F-2", BillTitle: "Venta",
		BillDate: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), BillType: entity.BillTypeSell,
		PartyName: "Cliente", TotalAmount: decimal.NewFromInt(10), PaymentType: entity.PaymentTypePartial,
		CreatedAt: now, UpdatedAt: now,
	}
	b.RefreshBalance()
	require.NoError(t, bills.Create(ctx, b))

	const callers = 10
	results := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- bills.ClaimDeletion(ctx, tenantID, b.ID)
		}()
	}
	wg.Wait()
	close(results)

	var wins int
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.Equal(t, 1, wins)

	require.NoError(t, bills.ReleaseDeletion(ctx, tenantID, b.ID))
	require.NoError(t, bills.ClaimDeletion(ctx, tenantID, b.ID))
	require.NoError(t, bills.Delete(ctx, tenantID, b.ID))
}
