package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

var _ repository.WorkerRepository = (*WorkerRepo)(nil)

const workerColumns = `id, tenant_id, name, phone, role, salary, COALESCE(join_date, DATE '0001-01-01') AS join_date, active, created_at, updated_at`

const workerPaymentColumns = `id, tenant_id, worker_id, amount, payment_date, payment_method, notes, created_at`

// WorkerRepo empleados y nómina.
type WorkerRepo struct {
	q Querier
}

// NewWorkerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewWorkerRepository(q Querier) *WorkerRepo {
	return &WorkerRepo{q: q}
}

func (r *WorkerRepo) Create(ctx context.Context, w *entity.Worker) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO workers (id, tenant_id, name, phone, role, salary, join_date, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		w.ID, w.TenantID, w.Name, w.Phone, w.Role, w.Salary, nullDate(w.JoinDate), w.Active, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert worker: %w", err)
	}
	return nil
}

func (r *WorkerRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Worker, error) {
	var w entity.Worker
	err := pgxscan.Get(ctx, r.q, &w, `SELECT `+workerColumns+` FROM workers WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get worker: %w", err)
	}
	return &w, nil
}

func (r *WorkerRepo) List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Worker, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM workers WHERE tenant_id = $1`, tenantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count workers: %w", err)
	}
	var list []*entity.Worker
	query := `SELECT ` + workerColumns + ` FROM workers WHERE tenant_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	if err := pgxscan.Select(ctx, r.q, &list, query, tenantID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list workers: %w", err)
	}
	return list, total, nil
}

func (r *WorkerRepo) Update(ctx context.Context, w *entity.Worker) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE workers SET name = $3, phone = $4, role = $5, salary = $6, join_date = $7, active = $8, updated_at = $9
		WHERE tenant_id = $1 AND id = $2`,
		w.TenantID, w.ID, w.Name, w.Phone, w.Role, w.Salary, nullDate(w.JoinDate), w.Active, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update worker: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el empleado; sus pagos caen por ON DELETE CASCADE.
func (r *WorkerRepo) Delete(ctx context.Context, tenantID, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM workers WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete worker: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreatePayment inserta el pago solo si el empleado existe en el tenant.
func (r *WorkerRepo) CreatePayment(ctx context.Context, p *entity.WorkerPayment) error {
	cmd, err := r.q.Exec(ctx, `
		INSERT INTO worker_payments (`+workerPaymentColumns+`)
		SELECT $1::text, $2::text, $3::text, $4::numeric, $5::date, $6::text, $7::text, $8::timestamptz
		WHERE EXISTS (SELECT 1 FROM workers WHERE tenant_id = $2 AND id = $3)`,
		p.ID, p.TenantID, p.WorkerID, p.Amount, p.PaymentDate, p.PaymentMethod, p.Notes, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert worker payment: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *WorkerRepo) ListPayments(ctx context.Context, tenantID, workerID string) ([]*entity.WorkerPayment, error) {
	var list []*entity.WorkerPayment
	query := `SELECT ` + workerPaymentColumns + ` FROM worker_payments WHERE tenant_id = $1 AND worker_id = $2 ORDER BY payment_date DESC, created_at DESC`
	if err := pgxscan.Select(ctx, r.q, &list, query, tenantID, workerID); err != nil {
		return nil, fmt.Errorf("list worker payments: %w", err)
	}
	return list, nil
}

func (r *WorkerRepo) TotalPayments(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM worker_payments WHERE tenant_id = $1`, tenantID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("total worker payments: %w", err)
	}
	return total, nil
}
