package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo del tenant.
// NameKey es la clave canónica del nombre (ver inventory.NameKey) y es única por tenant.
type Product struct {
	ID            string          `db:"id"`
	TenantID      string          `db:"tenant_id"`
	Name          string          `db:"name"`
	NameKey       string          `db:"name_key"`
	Category      string          `db:"category"`
	Unit          string          `db:"unit"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	StockQuantity int             `db:"stock_quantity"` // único campo que muta el motor de stock
	MinSize       string          `db:"min_size"`
	MaxSize       string          `db:"max_size"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// InventorySummary agregados del catálogo para el dashboard.
type InventorySummary struct {
	TotalProducts    int             `db:"total_products"`
	LowStockProducts int             `db:"low_stock_products"`
	TotalStockUnits  int             `db:"total_stock_units"`
	InventoryValue   decimal.Decimal `db:"inventory_value"`
}
