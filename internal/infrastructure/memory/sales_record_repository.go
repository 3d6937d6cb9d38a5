package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

var _ repository.SalesRecordRepository = (*SalesRecordRepo)(nil)

// SalesRecordRepo registros de venta en memoria.
type SalesRecordRepo struct {
	s *Store
}

func (r *SalesRecordRepo) Create(_ context.Context, record *entity.SalesRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *record
	r.s.sales[record.ID] = &cp
	return nil
}

func (r *SalesRecordRepo) DeleteByBill(_ context.Context, tenantID, billID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, rec := range r.s.sales {
		if rec.TenantID == tenantID && rec.BillID == billID {
			delete(r.s.sales, id)
			n++
		}
	}
	return n, nil
}

func (r *SalesRecordRepo) ListByBill(_ context.Context, tenantID, billID string) ([]*entity.SalesRecord, error) {
	return r.list(func(rec *entity.SalesRecord) bool {
		return rec.TenantID == tenantID && rec.BillID == billID
	}), nil
}

func (r *SalesRecordRepo) ListByTenant(_ context.Context, tenantID string) ([]*entity.SalesRecord, error) {
	return r.list(func(rec *entity.SalesRecord) bool { return rec.TenantID == tenantID }), nil
}

func (r *SalesRecordRepo) list(keep func(*entity.SalesRecord) bool) []*entity.SalesRecord {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.SalesRecord
	for _, rec := range r.s.sales {
		if keep(rec) {
			cp := *rec
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].SaleDate.After(list[j].SaleDate) })
	return list
}
