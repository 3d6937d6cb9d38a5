package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	s *Store
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.TenantID == product.TenantID && p.NameKey == product.NameKey {
			return domain.ErrDuplicate
		}
	}
	cp := *product
	r.s.products[product.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *ProductRepo) GetByNameKey(_ context.Context, tenantID, nameKey string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.products {
		if p.TenantID == tenantID && p.NameKey == nameKey {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) List(_ context.Context, tenantID string, limit, offset int) ([]*entity.Product, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var list []*entity.Product
	for _, p := range r.s.products {
		if p.TenantID == tenantID {
			cp := *p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return page(list, limit, offset), len(list), nil
}

func (r *ProductRepo) Summary(_ context.Context, tenantID string, lowStockThreshold int) (*entity.InventorySummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sum := &entity.InventorySummary{InventoryValue: decimal.Zero}
	for _, p := range r.s.products {
		if p.TenantID != tenantID {
			continue
		}
		sum.TotalProducts++
		sum.TotalStockUnits += p.StockQuantity
		if p.StockQuantity <= lowStockThreshold {
			sum.LowStockProducts++
		}
		sum.InventoryValue = sum.InventoryValue.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
	}
	return sum, nil
}
