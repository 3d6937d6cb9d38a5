package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment abono registrado contra una factura (solo inserción).
type Payment struct {
	ID            string          `db:"id"`
	TenantID      string          `db:"tenant_id"`
	BillID        string          `db:"bill_id"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentDate   time.Time       `db:"payment_date"`
	PaymentMethod string          `db:"payment_method"`
	Notes         string          `db:"notes"`
	CreatedAt     time.Time       `db:"created_at"`
}
