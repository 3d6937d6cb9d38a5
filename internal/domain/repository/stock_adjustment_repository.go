package repository

import (
	"context"

	"github.com/jhoicas/billstock-api/internal/domain/entity"
)

// StockAdjustmentRepository puerto del libro de ajustes de stock.
type StockAdjustmentRepository interface {
	// Apply suma adj.QuantityChange al stock del producto y agrega la fila de auditoría en una sola
	// operación atómica; completa adj.PreviousQuantity y adj.NewQuantity.
	// Con requireAvailable el cambio solo se aplica si el stock resultante no queda negativo
	// (domain.ErrInsufficientStock, con PreviousQuantity = stock vigente).
	// domain.ErrNotFound si el producto no existe.
	Apply(ctx context.Context, adj *entity.StockAdjustment, requireAvailable bool) error
	ListByBill(ctx context.Context, tenantID, billID string) ([]*entity.StockAdjustment, error)
	ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]*entity.StockAdjustment, error)
}
