package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo abonos en memoria.
type PaymentRepo struct {
	s *Store
}

func (r *PaymentRepo) Create(_ context.Context, payment *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *payment
	r.s.payments[payment.ID] = &cp
	return nil
}

func (r *PaymentRepo) ListByBill(_ context.Context, tenantID, billID string) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Payment
	for _, p := range r.s.payments {
		if p.TenantID == tenantID && p.BillID == billID {
			cp := *p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}
