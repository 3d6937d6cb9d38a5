package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billstock-api/internal/domain/entity"
)

// WorkerRepository puerto de empleados y pagos de nómina.
type WorkerRepository interface {
	Create(ctx context.Context, worker *entity.Worker) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Worker, error)
	List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Worker, int, error)
	Update(ctx context.Context, worker *entity.Worker) error
	// Delete elimina el empleado y sus pagos.
	Delete(ctx context.Context, tenantID, id string) error

	CreatePayment(ctx context.Context, payment *entity.WorkerPayment) error
	ListPayments(ctx context.Context, tenantID, workerID string) ([]*entity.WorkerPayment, error)
	TotalPayments(ctx context.Context, tenantID string) (decimal.Decimal, error)
}
