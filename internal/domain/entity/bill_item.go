package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillItem línea de una factura. ProductID queda vacío hasta que el ítem resuelve a un producto;
// ProductName se conserva como nombre para mostrar.
type BillItem struct {
	ID          string          `db:"id"`
	TenantID    string          `db:"tenant_id"`
	BillID      string          `db:"bill_id"`
	ProductID   string          `db:"product_id"`
	ProductName string          `db:"product_name"`
	Quantity    int             `db:"quantity"`
	Unit        string          `db:"unit"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	MinSize     string          `db:"min_size"`
	MaxSize     string          `db:"max_size"`
	Total       decimal.Decimal `db:"total"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// ComputeTotal fija Total = Quantity × UnitPrice.
func (i *BillItem) ComputeTotal() {
	i.Total = decimal.NewFromInt(int64(i.Quantity)).Mul(i.UnitPrice).Round(2)
}
