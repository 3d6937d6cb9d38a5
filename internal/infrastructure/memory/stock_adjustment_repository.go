package memory

import (
	"context"

	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

var _ repository.StockAdjustmentRepository = (*StockAdjustmentRepo)(nil)

// StockAdjustmentRepo libro de ajustes en memoria.
type StockAdjustmentRepo struct {
	s *Store
}

func (r *StockAdjustmentRepo) Apply(_ context.Context, adj *entity.StockAdjustment, requireAvailable bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[adj.ProductID]
	if !ok || p.TenantID != adj.TenantID {
		return domain.ErrNotFound
	}
	next := p.StockQuantity + adj.QuantityChange
	adj.PreviousQuantity = p.StockQuantity
	if requireAvailable && next < 0 {
		adj.NewQuantity = p.StockQuantity
		return domain.ErrInsufficientStock
	}
	adj.NewQuantity = next
	if adj.ProductName == "" {
		adj.ProductName = p.Name
	}
	if adj.CreatedAt.IsZero() {
		adj.CreatedAt = r.s.now()
	}
	p.StockQuantity = next
	p.UpdatedAt = adj.CreatedAt
	cp := *adj
	r.s.adjustments = append(r.s.adjustments, &cp)
	return nil
}

func (r *StockAdjustmentRepo) ListByBill(_ context.Context, tenantID, billID string) ([]*entity.StockAdjustment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockAdjustment
	for _, a := range r.s.adjustments {
		if a.TenantID == tenantID && a.BillID == billID {
			cp := *a
			list = append(list, &cp)
		}
	}
	return list, nil
}

func (r *StockAdjustmentRepo) ListByProduct(_ context.Context, tenantID, productID string, limit, offset int) ([]*entity.StockAdjustment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.StockAdjustment
	// más reciente primero
	for i := len(r.s.adjustments) - 1; i >= 0; i-- {
		a := r.s.adjustments[i]
		if a.TenantID == tenantID && a.ProductID == productID {
			cp := *a
			list = append(list, &cp)
		}
	}
	return page(list, limit, offset), nil
}
