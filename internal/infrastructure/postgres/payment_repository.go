package postgres

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

const paymentColumns = `id, tenant_id, bill_id, amount, payment_date, payment_method, notes, created_at`

// PaymentRepo abonos a facturas (solo inserción).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO bill_payments (`+paymentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.TenantID, p.BillID, p.Amount, p.PaymentDate, p.PaymentMethod, p.Notes, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) ListByBill(ctx context.Context, tenantID, billID string) ([]*entity.Payment, error) {
	var list []*entity.Payment
	query := `SELECT ` + paymentColumns + ` FROM bill_payments WHERE tenant_id = $1 AND bill_id = $2 ORDER BY created_at`
	if err := pgxscan.Select(ctx, r.q, &list, query, tenantID, billID); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return list, nil
}
