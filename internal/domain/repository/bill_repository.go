package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/billstock-api/internal/domain/entity"
)

// BillFilter filtros de listado; fechas inclusivas.
type BillFilter struct {
	BillType    string
	PaymentType string
	Status      string
	StartDate   *time.Time
	EndDate     *time.Time
	Limit       int
	Offset      int
}

// BillRepository puerto de persistencia de facturas y sus líneas.
// Las lecturas devuelven (nil, nil) cuando no existe la fila en el tenant.
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	CreateItems(ctx context.Context, items []*entity.BillItem) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Bill, error)
	// List ordena por bill_date descendente y devuelve además el total sin paginar.
	List(ctx context.Context, tenantID string, filter BillFilter) ([]*entity.Bill, int, error)
	UpdateHeader(ctx context.Context, bill *entity.Bill) error
	UpdateTotals(ctx context.Context, bill *entity.Bill) error
	// AddPaid suma amount a paid_amount solo si no supera total_amount y recalcula
	// remaining_balance y status. domain.ErrPaymentExceedsTotal si supera el total,
	// domain.ErrNotFound si la factura no existe.
	AddPaid(ctx context.Context, tenantID, billID string, amount decimal.Decimal) (*entity.Bill, error)
	// ClaimDeletion marca la factura como en borrado. Solo un llamador gana la marca:
	// domain.ErrNotFound si la factura no existe o si otro borrado ya la reclamó.
	ClaimDeletion(ctx context.Context, tenantID, id string) error
	// ReleaseDeletion quita la marca cuando el borrado se aborta.
	ReleaseDeletion(ctx context.Context, tenantID, id string) error
	// Delete elimina la factura y sus líneas.
	Delete(ctx context.Context, tenantID, id string) error

	GetItems(ctx context.Context, tenantID, billID string) ([]*entity.BillItem, error)
	GetItem(ctx context.Context, tenantID, billID, itemID string) (*entity.BillItem, error)
	UpdateItem(ctx context.Context, item *entity.BillItem) error
	DeleteItem(ctx context.Context, tenantID, billID, itemID string) error
	SetItemProduct(ctx context.Context, tenantID, itemID, productID string) error

	Stats(ctx context.Context, tenantID string, from, to *time.Time) (*entity.BillStats, error)
}
