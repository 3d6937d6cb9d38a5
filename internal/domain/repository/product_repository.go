package repository

import (
	"context"

	"github.com/jhoicas/billstock-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product.
// Las lecturas devuelven (nil, nil) cuando el producto no existe en el tenant.
type ProductRepository interface {
	// Create devuelve domain.ErrDuplicate si ya existe un producto con el mismo NameKey en el tenant.
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	GetByNameKey(ctx context.Context, tenantID, nameKey string) (*entity.Product, error)
	List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, int, error)
	Summary(ctx context.Context, tenantID string, lowStockThreshold int) (*entity.InventorySummary, error)
}
