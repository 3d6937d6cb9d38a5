// Package analytics contiene los agregados de solo lectura del dashboard.
package analytics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/billstock-api/internal/application/dto"
	"github.com/jhoicas/billstock-api/internal/application/ports"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

const dashboardTopProducts = 5 // productos en el widget del resumen

// TopSellers fuente de los productos más vendidos (billing.SalesRecorder).
type TopSellers interface {
	GetTopSellingProducts(ctx context.Context, tenantID string, limit int) ([]dto.TopProductDTO, error)
}

// DashboardUseCase arma el resumen del tenant: catálogo, facturación, nómina y más vendidos.
// El resultado se cachea por tenant; las escrituras de facturas invalidan el prefijo del tenant.
type DashboardUseCase struct {
	products          repository.ProductRepository
	bills             repository.BillRepository
	workers           repository.WorkerRepository
	sellers           TopSellers
	cache             ports.Cache
	lowStockThreshold int
	ttl               time.Duration
	log               zerolog.Logger
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	products repository.ProductRepository,
	bills repository.BillRepository,
	workers repository.WorkerRepository,
	sellers TopSellers,
	cache ports.Cache,
	lowStockThreshold int,
	ttl time.Duration,
	log zerolog.Logger,
) *DashboardUseCase {
	return &DashboardUseCase{
		products:          products,
		bills:             bills,
		workers:           workers,
		sellers:           sellers,
		cache:             cache,
		lowStockThreshold: lowStockThreshold,
		ttl:               ttl,
		log:               log,
	}
}

// GetSummary construye el DashboardSummaryDTO del tenant.
//
// Cuatro consultas en paralelo:
//  1. Summary de productos   → conteos y valor de inventario
//  2. Stats de facturas      → ventas, compras y saldo pendiente
//  3. TotalPayments          → nómina pagada
//  4. GetTopSellingProducts  → top 5
func (uc *DashboardUseCase) GetSummary(ctx context.Context, tenantID string) (*dto.DashboardSummaryDTO, error) {
	key := ports.CacheKey(tenantID, "dashboard", "summary")
	var cached dto.DashboardSummaryDTO
	if found, err := uc.cache.Get(ctx, key, &cached); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("cache get")
	} else if found {
		return &cached, nil
	}

	var (
		inv     *entity.InventorySummary
		stats   *entity.BillStats
		payroll decimal.Decimal
		top     []dto.TopProductDTO
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if inv, err = uc.products.Summary(gctx, tenantID, uc.lowStockThreshold); err != nil {
			return fmt.Errorf("inventory summary: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if stats, err = uc.bills.Stats(gctx, tenantID, nil, nil); err != nil {
			return fmt.Errorf("bill stats: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if payroll, err = uc.workers.TotalPayments(gctx, tenantID); err != nil {
			return fmt.Errorf("worker payments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		top, err = uc.sellers.GetTopSellingProducts(gctx, tenantID, dashboardTopProducts)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}

	out := &dto.DashboardSummaryDTO{
		TotalProducts:       inv.TotalProducts,
		LowStockProducts:    inv.LowStockProducts,
		TotalStockUnits:     inv.TotalStockUnits,
		InventoryValue:      inv.InventoryValue.Round(2),
		TotalSales:          stats.TotalSales.Round(2),
		TotalPurchases:      stats.TotalPurchases.Round(2),
		TotalOutstanding:    stats.TotalOutstanding.Round(2),
		TotalWorkerPayments: payroll.Round(2),
		TopProducts:         top,
	}
	if out.TopProducts == nil {
		out.TopProducts = []dto.TopProductDTO{}
	}
	if err := uc.cache.Set(ctx, key, out, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("cache set")
	}
	return out, nil
}

// GetTopProducts ranking de productos más vendidos; limit fuera de 1..100 usa 10.
func (uc *DashboardUseCase) GetTopProducts(ctx context.Context, tenantID string, limit int) ([]dto.TopProductDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	key := ports.CacheKey(tenantID, "dashboard", "top", strconv.Itoa(limit))
	var cached []dto.TopProductDTO
	if found, err := uc.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, nil
	}
	top, err := uc.sellers.GetTopSellingProducts(ctx, tenantID, limit)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Set(ctx, key, top, uc.ttl); err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("cache set")
	}
	return top, nil
}
