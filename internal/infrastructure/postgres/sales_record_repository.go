package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

var _ repository.SalesRecordRepository = (*SalesRecordRepo)(nil)

const salesColumns = `id, tenant_id, bill_id, product_id, product_name, category, quantity_sold, unit_price, total_revenue, sale_date, created_at`

// SalesRecordRepo registros de venta derivados.
type SalesRecordRepo struct {
	q Querier
}

// NewSalesRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesRecordRepository(q Querier) *SalesRecordRepo {
	return &SalesRecordRepo{q: q}
}

func (r *SalesRecordRepo) Create(ctx context.Context, rec *entity.SalesRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales_records (`+salesColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.TenantID, rec.BillID, rec.ProductID, rec.ProductName, rec.Category,
		rec.QuantitySold, rec.UnitPrice, rec.TotalRevenue, rec.SaleDate, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sales record: %w", err)
	}
	return nil
}

func (r *SalesRecordRepo) DeleteByBill(ctx context.Context, tenantID, billID string) (int64, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales_records WHERE tenant_id = $1 AND bill_id = $2`, tenantID, billID)
	if err != nil {
		return 0, fmt.Errorf("delete sales records: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func (r *SalesRecordRepo) ListByBill(ctx context.Context, tenantID, billID string) ([]*entity.SalesRecord, error) {
	return r.list(ctx, `WHERE tenant_id = $1 AND bill_id = $2`, tenantID, billID)
}

func (r *SalesRecordRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.SalesRecord, error) {
	return r.list(ctx, `WHERE tenant_id = $1`, tenantID)
}

func (r *SalesRecordRepo) list(ctx context.Context, where string, args ...any) ([]*entity.SalesRecord, error) {
	var list []*entity.SalesRecord
	query := `SELECT ` + salesColumns + ` FROM sales_records ` + where + ` ORDER BY sale_date DESC, created_at DESC`
	if err := pgxscan.Select(ctx, r.q, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list sales records: %w", err)
	}
	return list, nil
}
