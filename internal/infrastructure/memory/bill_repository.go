package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

var _ repository.BillRepository = (*BillRepo)(nil)

// BillRepo facturas y líneas en memoria.
type BillRepo struct {
	s *Store
}

func (r *BillRepo) Create(_ context.Context, bill *entity.Bill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bills[bill.ID]; ok {
		return domain.ErrDuplicate
	}
	cp := *bill
	r.s.bills[bill.ID] = &cp
	return nil
}

func (r *BillRepo) CreateItems(_ context.Context, items []*entity.BillItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, it := range items {
		if _, ok := r.s.bills[it.BillID]; !ok {
			return domain.ErrNotFound
		}
	}
	for _, it := range items {
		cp := *it
		r.s.items[it.ID] = &cp
	}
	return nil
}

func (r *BillRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Bill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bills[id]
	if !ok || b.TenantID != tenantID {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *BillRepo) List(_ context.Context, tenantID string, f repository.BillFilter) ([]*entity.Bill, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Bill
	for _, b := range r.s.bills {
		if b.TenantID != tenantID || !matches(b, f) {
			continue
		}
		cp := *b
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].BillDate.Equal(list[j].BillDate) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].BillDate.After(list[j].BillDate)
	})
	return page(list, f.Limit, f.Offset), len(list), nil
}

func matches(b *entity.Bill, f repository.BillFilter) bool {
	if f.BillType != "" && b.BillType != f.BillType {
		return false
	}
	if f.PaymentType != "" && b.PaymentType != f.PaymentType {
		return false
	}
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	return inRange(b.BillDate, f.StartDate, f.EndDate)
}

func inRange(d time.Time, from, to *time.Time) bool {
	if from != nil && d.Before(*from) {
		return false
	}
	if to != nil && d.After(*to) {
		return false
	}
	return true
}

func (r *BillRepo) UpdateHeader(_ context.Context, bill *entity.Bill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bills[bill.ID]
	if !ok || b.TenantID != bill.TenantID {
		return domain.ErrNotFound
	}
	b.BillNumber = bill.BillNumber
	b.BillTitle = bill.BillTitle
	b.BillDate = bill.BillDate
	b.PartyName = bill.PartyName
	b.PartyPhone = bill.PartyPhone
	b.PartyEmail = bill.PartyEmail
	b.PartyAddress = bill.PartyAddress
	b.Notes = bill.Notes
	b.UpdatedAt = bill.UpdatedAt
	return nil
}

func (r *BillRepo) UpdateTotals(_ context.Context, bill *entity.Bill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bills[bill.ID]
	if !ok || b.TenantID != bill.TenantID {
		return domain.ErrNotFound
	}
	// paid_amount lo maneja AddPaid; se conserva el valor vigente.
	if b.PaidAmount.GreaterThan(bill.TotalAmount) {
		return domain.ErrConflict
	}
	b.Subtotal = bill.Subtotal
	b.DiscountAmount = bill.DiscountAmount
	b.TotalAmount = bill.TotalAmount
	b.RefreshBalance()
	b.UpdatedAt = bill.UpdatedAt
	*bill = *b
	return nil
}

func (r *BillRepo) AddPaid(_ context.Context, tenantID, billID string, amount decimal.Decimal) (*entity.Bill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bills[billID]
	if !ok || b.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	paid := b.PaidAmount.Add(amount)
	if paid.GreaterThan(b.TotalAmount) {
		return nil, domain.ErrPaymentExceedsTotal
	}
	if paid.IsNegative() {
		return nil, domain.ErrConflict
	}
	b.PaidAmount = paid
	b.RefreshBalance()
	b.UpdatedAt = r.s.now()
	cp := *b
	return &cp, nil
}

func (r *BillRepo) ClaimDeletion(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bills[id]
	if !ok || b.TenantID != tenantID || r.s.deleting[id] {
		return domain.ErrNotFound
	}
	r.s.deleting[id] = true
	return nil
}

func (r *BillRepo) ReleaseDeletion(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.bills[id]; ok && b.TenantID == tenantID {
		delete(r.s.deleting, id)
	}
	return nil
}

func (r *BillRepo) Delete(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bills[id]
	if !ok || b.TenantID != tenantID {
		return nil
	}
	delete(r.s.bills, id)
	delete(r.s.deleting, id)
	for itemID, it := range r.s.items {
		if it.BillID == id {
			delete(r.s.items, itemID)
		}
	}
	for pid, p := range r.s.payments {
		if p.BillID == id {
			delete(r.s.payments, pid)
		}
	}
	return nil
}

func (r *BillRepo) GetItems(_ context.Context, tenantID, billID string) ([]*entity.BillItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.BillItem
	for _, it := range r.s.items {
		if it.TenantID == tenantID && it.BillID == billID {
			cp := *it
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *BillRepo) GetItem(_ context.Context, tenantID, billID, itemID string) (*entity.BillItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[itemID]
	if !ok || it.TenantID != tenantID || it.BillID != billID {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *BillRepo) UpdateItem(_ context.Context, item *entity.BillItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[item.ID]
	if !ok || it.TenantID != item.TenantID {
		return domain.ErrNotFound
	}
	cp := *item
	r.s.items[item.ID] = &cp
	return nil
}

func (r *BillRepo) DeleteItem(_ context.Context, tenantID, billID, itemID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[itemID]
	if !ok || it.TenantID != tenantID || it.BillID != billID {
		return domain.ErrNotFound
	}
	delete(r.s.items, itemID)
	return nil
}

func (r *BillRepo) SetItemProduct(_ context.Context, tenantID, itemID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[itemID]
	if !ok || it.TenantID != tenantID {
		return domain.ErrNotFound
	}
	it.ProductID = productID
	return nil
}

func (r *BillRepo) Stats(_ context.Context, tenantID string, from, to *time.Time) (*entity.BillStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st := &entity.BillStats{
		TotalSales:       decimal.Zero,
		TotalPurchases:   decimal.Zero,
		TotalPaid:        decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}
	for _, b := range r.s.bills {
		if b.TenantID != tenantID || !inRange(b.BillDate, from, to) {
			continue
		}
		st.TotalBills++
		switch b.BillType {
		case entity.BillTypeSell:
			st.SellBills++
			st.TotalSales = st.TotalSales.Add(b.TotalAmount)
		case entity.BillTypeBuy:
			st.BuyBills++
			st.TotalPurchases = st.TotalPurchases.Add(b.TotalAmount)
		}
		st.TotalPaid = st.TotalPaid.Add(b.PaidAmount)
		st.TotalOutstanding = st.TotalOutstanding.Add(b.RemainingBalance)
		switch b.Status {
		case entity.BillStatusPaid:
			st.PaidCount++
		case entity.BillStatusPartiallyPaid:
			st.PartiallyPaidCount++
		default:
			st.UnpaidCount++
		}
	}
	return st, nil
}
