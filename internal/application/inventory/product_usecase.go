package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/billstock-api/internal/application/dto"
	"github.com/jhoicas/billstock-api/internal/domain"
	"github.com/jhoicas/billstock-api/internal/domain/entity"
	"github.com/jhoicas/billstock-api/internal/domain/inventory"
	"github.com/jhoicas/billstock-api/internal/domain/repository"
)

// ProductUseCase gestión del catálogo de productos.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create registra un producto. El nombre debe ser único por tenant según su clave canónica.
func (uc *ProductUseCase) Create(ctx context.Context, tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	key := inventory.NameKey(in.Name)
	if key == "" {
		return nil, domain.NewValidation("Product name is required")
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.NewValidation("Unit price cannot be negative")
	}
	if in.StockQuantity < 0 {
		return nil, domain.NewValidation("Stock quantity cannot be negative")
	}
	now := time.Now()
	p := &entity.Product{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		Name:          inventory.DisplayName(in.Name),
		NameKey:       key,
		Category:      in.Category,
		Unit:          in.Unit,
		UnitPrice:     in.UnitPrice.Round(2),
		StockQuantity: in.StockQuantity,
		MinSize:       in.MinSize,
		MaxSize:       in.MaxSize,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewConflict("Product already exists", err)
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	out := ToProductResponse(p)
	return &out, nil
}

// GetByID obtiene un producto del tenant.
func (uc *ProductUseCase) GetByID(ctx context.Context, tenantID, id string) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return nil, domain.NewNotFound("Product not found")
	}
	out := ToProductResponse(p)
	return &out, nil
}

// List lista productos paginados.
func (uc *ProductUseCase) List(ctx context.Context, tenantID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := &dto.ProductListResponse{
		Data: make([]dto.ProductResponse, 0, len(list)),
		Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, p := range list {
		out.Data = append(out.Data, ToProductResponse(p))
	}
	return out, nil
}

// ToProductResponse mapea la entidad a su DTO.
func ToProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID,
		TenantID:      p.TenantID,
		Name:          p.Name,
		Category:      p.Category,
		Unit:          p.Unit,
		UnitPrice:     p.UnitPrice,
		StockQuantity: p.StockQuantity,
		MinSize:       p.MinSize,
		MaxSize:       p.MaxSize,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
	}
}

// ToAdjustmentResponse mapea una fila del libro a su DTO.
func ToAdjustmentResponse(a *entity.StockAdjustment) dto.StockAdjustmentResponse {
	return dto.StockAdjustmentResponse{
		ID:               a.ID,
		ProductID:        a.ProductID,
		ProductName:      a.ProductName,
		BillID:           a.BillID,
		OperationType:    a.OperationType,
		QuantityChange:   a.QuantityChange,
		PreviousQuantity: a.PreviousQuantity,
		NewQuantity:      a.NewQuantity,
		CreatedAt:        a.CreatedAt.Format(time.RFC3339),
	}
}
