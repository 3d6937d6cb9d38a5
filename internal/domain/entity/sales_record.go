package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecord registro derivado de una línea de factura de venta, solo para reportes.
type SalesRecord struct {
	ID           string          `db:"id"`
	TenantID     string          `db:"tenant_id"`
	BillID       string          `db:"bill_id"`
	ProductID    string          `db:"product_id"`
	ProductName  string          `db:"product_name"`
	Category     string          `db:"category"`
	QuantitySold int             `db:"quantity_sold"`
	UnitPrice    decimal.Decimal `db:"unit_price"`
	TotalRevenue decimal.Decimal `db:"total_revenue"`
	SaleDate     time.Time       `db:"sale_date"`
	CreatedAt    time.Time       `db:"created_at"`
}
