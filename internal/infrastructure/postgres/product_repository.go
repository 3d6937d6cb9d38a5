package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, tenant_id, name, name_key, category, unit, unit_price, stock_quantity, min_size, max_size, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un producto; la clave (tenant_id, name_key) es única.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.TenantID, p.Name, p.NameKey, p.Category, p.Unit, p.UnitPrice,
		p.StockQuantity, p.MinSize, p.MaxSize, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto del tenant.
func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

// GetByNameKey obtiene un producto por su clave canónica de nombre.
func (r *ProductRepo) GetByNameKey(ctx context.Context, tenantID, nameKey string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND name_key = $2`, tenantID, nameKey)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	var p entity.Product
	if err := pgxscan.Get(ctx, r.q, &p, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// List lista productos por nombre con paginación.
func (r *ProductRepo) List(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE tenant_id = $1`, tenantID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	var list []*entity.Product
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 ORDER BY name LIMIT $2 OFFSET $3`
	if err := pgxscan.Select(ctx, r.q, &list, query, tenantID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return list, total, nil
}

// Summary conteos y valor del inventario del tenant.
func (r *ProductRepo) Summary(ctx context.Context, tenantID string, lowStockThreshold int) (*entity.InventorySummary, error) {
	query := `
		SELECT COUNT(*)                                                  AS total_products,
		       COUNT(*) FILTER (WHERE stock_quantity <= $2)              AS low_stock_products,
		       COALESCE(SUM(stock_quantity), 0)                          AS total_stock_units,
		       COALESCE(SUM(stock_quantity * unit_price), 0)::NUMERIC(16,2) AS inventory_value
		FROM products WHERE tenant_id = $1`
	var s entity.InventorySummary
	if err := pgxscan.Get(ctx, r.q, &s, query, tenantID, lowStockThreshold); err != nil {
		return nil, fmt.Errorf("inventory summary: %w", err)
	}
	return &s, nil
}
