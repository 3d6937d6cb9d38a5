package billing

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/billstock-api/internal/application/dto"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/inventory"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

// SalesRecorder mantiene los registros de venta derivados de las facturas de venta.
type SalesRecorder struct {
	records  repository.SalesRecordRepository
	products repository.ProductRepository
	log      zerolog.Logger
	now      func() time.Time
}

// NewSalesRecorder construye el registrador de ventas.
func NewSalesRecorder(records repository.SalesRecordRepository, products repository.ProductRepository, log zerolog.Logger) *SalesRecorder {
	return &SalesRecorder{records: records, products: products, log: log, now: time.Now}
}

// CreateSalesRecords inserta un registro por línea. La primera falla corta y se devuelve;
// los registros ya insertados quedan a cargo del llamador (ver DeleteSalesRecords).
func (s *SalesRecorder) CreateSalesRecords(ctx context.Context, tenantID, billID string, billDate time.Time, items []*entity.BillItem) ([]*entity.SalesRecord, error) {
	created := make([]*entity.SalesRecord, 0, len(items))
	for _, it := range items {
		rec := &entity.SalesRecord{
			ID:           uuid.New().String(),
			TenantID:     tenantID,
			BillID:       billID,
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			Category:     s.category(ctx, tenantID, it),
			QuantitySold: it.Quantity,
			UnitPrice:    it.UnitPrice,
			TotalRevenue: decimal.NewFromInt(int64(it.Quantity)).Mul(it.UnitPrice).Round(2),
			SaleDate:     billDate,
			CreatedAt:    s.now(),
		}
		if err := s.records.Create(ctx, rec); err != nil {
			return created, fmt.Errorf("create sales record %s: %w", it.ProductName, err)
		}
		created = append(created, rec)
	}
	return created, nil
}

// DeleteSalesRecords elimina los registros de la factura; sin registros no es error.
func (s *SalesRecorder) DeleteSalesRecords(ctx context.Context, tenantID, billID string) (int64, error) {
	n, err := s.records.DeleteByBill(ctx, tenantID, billID)
	if err != nil {
		return 0, fmt.Errorf("delete sales records: %w", err)
	}
	return n, nil
}

// GetTopSellingProducts agrega los registros del tenant por producto y devuelve los más vendidos
// (cantidad descendente, luego ingresos).
func (s *SalesRecorder) GetTopSellingProducts(ctx context.Context, tenantID string, limit int) ([]dto.TopProductDTO, error) {
	if limit <= 0 {
		limit = 10
	}
	records, err := s.records.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("top selling products: %w", err)
	}

	byKey := make(map[string]*dto.TopProductDTO)
	for _, r := range records {
		key := inventory.NameKey(r.ProductName)
		agg, ok := byKey[key]
		if !ok {
			agg = &dto.TopProductDTO{ProductName: r.ProductName, TotalRevenue: decimal.Zero}
			byKey[key] = agg
		}
		agg.TotalQuantitySold += r.QuantitySold
		agg.TotalRevenue = agg.TotalRevenue.Add(r.TotalRevenue)
	}

	out := make([]dto.TopProductDTO, 0, len(byKey))
	for _, agg := range byKey {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQuantitySold != out[j].TotalQuantitySold {
			return out[i].TotalQuantitySold > out[j].TotalQuantitySold
		}
		if c := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); c != 0 {
			return c > 0
		}
		return out[i].ProductName < out[j].ProductName
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// category toma la categoría del producto; una falla de lectura deja la categoría vacía.
func (s *SalesRecorder) category(ctx context.Context, tenantID string, it *entity.BillItem) string {
	if it.ProductID == "" {
		return ""
	}
	p, err := s.products.GetByID(ctx, tenantID, it.ProductID)
	if err != nil {
		s.log.Warn().Err(err).Str("tenant_id", tenantID).Str("product_id", it.ProductID).Msg("categoría no disponible")
		return ""
	}
	if p == nil {
		return ""
	}
	return p.Category
}
