package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
	"github.com/jhoicas/billstock-api/internal/infrastructure/memory"
)

const tenant = "tenant-a"

func seedProduct(t *testing.T, s *memory.Store, id, name string, stock int) {
	t.Helper()
	require.NoError(t, s.Products().Create(context.Background(), &entity.Product{
		ID: id, TenantID: tenant, Name: name, NameKey: name, StockQuantity: stock, UnitPrice: decimal.NewFromInt(10),
	}))
}

func TestProductRepo_ClaveDuplicada(t *testing.T) {
	s := memory.NewStore()
	seedProduct(t, s, "p1", "widget", 1)

	err := s.Products().Create(context.Background(), &entity.Product{ID: "p2", TenantID: tenant, NameKey: "widget"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// otro tenant puede usar el mismo nombre
	err = s.Products().Create(context.Background(), &entity.Product{ID: "p3", TenantID: "tenant-b", NameKey: "widget"})
	assert.NoError(t, err)
}

func TestProductRepo_AislamientoPorTenant(t *testing.T) {
	s := memory.NewStore()
	seedProduct(t, s, "p1", "widget", 1)

	p, err := s.Products().GetByID(context.Background(), "tenant-b", "p1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestStockAdjustmentRepo_Aplica(t *testing.T) {
	s := memory.NewStore()
	seedProduct(t, s, "p1", "widget", 5)
	repo := s.StockAdjustments()

	adj := &entity.StockAdjustment{ID: "a1", TenantID: tenant, ProductID: "p1", BillID: "b1", OperationType: entity.OperationSell, QuantityChange: -3}
	require.NoError(t, repo.Apply(context.Background(), adj, true))
	assert.Equal(t, 5, adj.PreviousQuantity)
	assert.Equal(t, 2, adj.NewQuantity)

	err := repo.Apply(context.Background(), &entity.StockAdjustment{ID: "a2", TenantID: tenant, ProductID: "p1", QuantityChange: -3}, true)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	p, _ := s.Products().GetByID(context.Background(), tenant, "p1")
	assert.Equal(t, 2, p.StockQuantity)

	rows, err := repo.ListByBill(context.Background(), tenant, "b1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStockAdjustmentRepo_ProductoInexistente(t *testing.T) {
	s := memory.NewStore()
	err := s.StockAdjustments().Apply(context.Background(), &entity.StockAdjustment{TenantID: tenant, ProductID: "nope", QuantityChange: 1}, false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockAdjustmentRepo_ConcurrenteNuncaSobrevende(t *testing.T) {
	s := memory.NewStore()
	seedProduct(t, s, "p1", "widget", 10)
	repo := s.StockAdjustments()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.Apply(context.Background(), &entity.StockAdjustment{TenantID: tenant, ProductID: "p1", QuantityChange: -1}, true)
			if err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	p, _ := s.Products().GetByID(context.Background(), tenant, "p1")
	assert.Equal(t, 10, ok)
	assert.Equal(t, 0, p.StockQuantity)
}

func TestBillRepo_TechoDePagos(t *testing.T) {
	s := memory.NewStore()
	repo := s.Bills()
	require.NoError(t, repo.Create(context.Background(), &entity.Bill{
		ID: "b1", TenantID: tenant, TotalAmount: decimal.NewFromInt(100), RemainingBalance: decimal.NewFromInt(100), Status: entity.BillStatusUnpaid,
	}))

	b, err := repo.AddPaid(context.Background(), tenant, "b1", decimal.NewFromInt(60))
	require.NoError(t, err)
	assert.True(t, b.RemainingBalance.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, entity.BillStatusPartiallyPaid, b.Status)

	_, err = repo.AddPaid(context.Background(), tenant, "b1", decimal.NewFromInt(41))
	assert.ErrorIs(t, err, domain.ErrPaymentExceedsTotal)

	_, err = repo.AddPaid(context.Background(), "tenant-b", "b1", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBillRepo_ClaimDeletionExclusiva(t *testing.T) {
	s := memory.NewStore()
	repo := s.Bills()
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &entity.Bill{ID: "b1", TenantID: tenant, TotalAmount: decimal.NewFromInt(10)}))

	assert.ErrorIs(t, repo.ClaimDeletion(ctx, "tenant-b", "b1"), domain.ErrNotFound)

	const callers = 20
	var wins int32
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if repo.ClaimDeletion(ctx, tenant, "b1") == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins)

	require.NoError(t, repo.ReleaseDeletion(ctx, tenant, "b1"))
	require.NoError(t, repo.ClaimDeletion(ctx, tenant, "b1"))
	require.NoError(t, repo.Delete(ctx, tenant, "b1"))
	assert.ErrorIs(t, repo.ClaimDeletion(ctx, tenant, "b1"), domain.ErrNotFound)
}

func TestBillRepo_FiltrosYOrden(t *testing.T) {
	s := memory.NewStore()
	repo := s.Bills()
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	for i, bt := range []string{entity.BillTypeSell, entity.BillTypeBuy, entity.BillTypeSell} {
		require.NoError(t, repo.Create(context.Background(), &entity.Bill{
			ID: string(rune('a' + i)), TenantID: tenant, BillType: bt, BillDate: day(i + 1), Status: entity.BillStatusUnpaid,
		}))
	}

	from, to := day(1), day(2)
	list, total, err := repo.List(context.Background(), tenant, repository.BillFilter{StartDate: &from, EndDate: &to})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID, "bill_date descendente")

	list, total, err = repo.List(context.Background(), tenant, repository.BillFilter{BillType: entity.BillTypeSell, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, "c", list[0].ID)
}
