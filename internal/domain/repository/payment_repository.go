package repository

import (
	"context"

	"github.com/jhoicas/billstock-api/internal/domain/entity"
)

// PaymentRepository puerto de abonos a facturas (solo inserción).
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	ListByBill(ctx context.Context, tenantID, billID string) ([]*entity.Payment, error)
}
