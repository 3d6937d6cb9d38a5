package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

const adjustmentColumns = `id, tenant_id, product_id, product_name, bill_id, operation_type, quantity_change, previous_quantity, new_quantity, created_at`

// StockAdjustmentRepo libro de ajustes; Apply muta el stock y agrega la fila en una transacción.
type StockAdjustmentRepo struct {
	db DB
	tx *TxRunner
}

// NewStockAdjustmentRepository construye el adaptador sobre el pool.
func NewStockAdjustmentRepository(db DB) *StockAdjustmentRepo {
	return &StockAdjustmentRepo{db: db, tx: NewTxRunner(db)}
}

// Apply suma el delta con un UPDATE condicionado (el guard evita stock negativo en ventas)
// y agrega la fila de auditoría con las cantidades devueltas por RETURNING.
func (r *StockAdjustmentRepo) Apply(ctx context.Context, adj *entity.StockAdjustment, requireAvailable bool) error {
	return r.tx.Run(ctx, func(q Querier) error {
		var newQty int
		err := q.QueryRow(ctx, `
			UPDATE products
			SET stock_quantity = stock_quantity + $3, updated_at = now()
			WHERE tenant_id = $1 AND id = $2 AND (NOT $4::boolean OR stock_quantity + $3 >= 0)
			RETURNING stock_quantity`,
			adj.TenantID, adj.ProductID, adj.QuantityChange, requireAvailable,
		).Scan(&newQty)
		if errors.Is(err, pgx.ErrNoRows) {
			var current int
			err := q.QueryRow(ctx, `SELECT stock_quantity FROM products WHERE tenant_id = $1 AND id = $2`,
				adj.TenantID, adj.ProductID).Scan(&current)
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			if err != nil {
				return fmt.Errorf("read stock: %w", err)
			}
			adj.PreviousQuantity = current
			adj.NewQuantity = current
			return domain.ErrInsufficientStock
		}
		if err != nil {
			return fmt.Errorf("update stock: %w", err)
		}
		adj.NewQuantity = newQty
		adj.PreviousQuantity = newQty - adj.QuantityChange

		_, err = q.Exec(ctx, `
			INSERT INTO stock_adjustments (`+adjustmentColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			adj.ID, adj.TenantID, adj.ProductID, adj.ProductName, adj.BillID, adj.OperationType,
			adj.QuantityChange, adj.PreviousQuantity, adj.NewQuantity, adj.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert stock adjustment: %w", err)
		}
		return nil
	})
}

// ListByBill filas de una factura en orden de registro.
func (r *StockAdjustmentRepo) ListByBill(ctx context.Context, tenantID, billID string) ([]*entity.StockAdjustment, error) {
	var list []*entity.StockAdjustment
	query := `SELECT ` + adjustmentColumns + ` FROM stock_adjustments WHERE tenant_id = $1 AND bill_id = $2 ORDER BY seq`
	if err := pgxscan.Select(ctx, r.db, &list, query, tenantID, billID); err != nil {
		return nil, fmt.Errorf("list bill adjustments: %w", err)
	}
	return list, nil
}

// ListByProduct filas de un producto, más reciente primero.
func (r *StockAdjustmentRepo) ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	var list []*entity.StockAdjustment
	query := `SELECT ` + adjustmentColumns + ` FROM stock_adjustments WHERE tenant_id = $1 AND product_id = $2 ORDER BY seq DESC LIMIT $3 OFFSET $4`
	if err := pgxscan.Select(ctx, r.db, &list, query, tenantID, productID, limit, offset); err != nil {
		return nil, fmt.Errorf("list product adjustments: %w", err)
	}
	return list, nil
}
