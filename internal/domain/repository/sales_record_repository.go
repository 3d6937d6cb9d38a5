package repository

import (
	"context"

	"github.com/jhoicas/billstock-api/internal/domain/entity"
)

// SalesRecordRepository puerto de registros de venta derivados.
type SalesRecordRepository interface {
	Create(ctx context.Context, record *entity.SalesRecord) error
	// DeleteByBill es idempotente: sin filas no es error.
	DeleteByBill(ctx context.Context, tenantID, billID string) (int64, error)
	ListByBill(ctx context.Context, tenantID, billID string) ([]*entity.SalesRecord, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.SalesRecord, error)
}
