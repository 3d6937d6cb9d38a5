package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

var _ repository.WorkerRepository = (*WorkerRepo)(nil)

// WorkerRepo empleados y nómina en memoria.
type WorkerRepo struct {
	s *Store
}

func (r *WorkerRepo) Create(_ context.Context, worker *entity.Worker) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *worker
	r.s.workers[worker.ID] = &cp
	return nil
}

func (r *WorkerRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Worker, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.workers[id]
	if !ok || w.TenantID != tenantID {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *WorkerRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*entity.Worker, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Worker
	for _, w := range r.s.workers {
		if w.TenantID == tenantID {
			cp := *w
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), len(list), nil
}

func (r *WorkerRepo) Update(_ context.Context, worker *entity.Worker) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.workers[worker.ID]
	if !ok || w.TenantID != worker.TenantID {
		return domain.ErrNotFound
	}
	cp := *worker
	r.s.workers[worker.ID] = &cp
	return nil
}

func (r *WorkerRepo) Delete(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.workers[id]
	if !ok || w.TenantID != tenantID {
		return domain.ErrNotFound
	}
	delete(r.s.workers, id)
	for pid, p := range r.s.workerPayments {
		if p.WorkerID == id {
			delete(r.s.workerPayments, pid)
		}
	}
	return nil
}

func (r *WorkerRepo) CreatePayment(_ context.Context, payment *entity.WorkerPayment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if w, ok := r.s.workers[payment.WorkerID]; !ok || w.TenantID != payment.TenantID {
		return domain.ErrNotFound
	}
	cp := *payment
	r.s.workerPayments[payment.ID] = &cp
	return nil
}

func (r *WorkerRepo) ListPayments(_ context.Context, tenantID, workerID string) ([]*entity.WorkerPayment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.WorkerPayment
	for _, p := range r.s.workerPayments {
		if p.TenantID == tenantID && p.WorkerID == workerID {
			cp := *p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].PaymentDate.After(list[j].PaymentDate) })
	return list, nil
}

func (r *WorkerRepo) TotalPayments(_ context.Context, tenantID string) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, p := range r.s.workerPayments {
		if p.TenantID == tenantID {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}
