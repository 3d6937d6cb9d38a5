package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Worker empleado del tenant.
type Worker struct {
	ID        string          `db:"id"`
	TenantID  string          `db:"tenant_id"`
	Name      string          `db:"name"`
	Phone     string          `db:"phone"`
	Role      string          `db:"role"`
	Salary    decimal.Decimal `db:"salary"`
	JoinDate  time.Time       `db:"join_date"`
	Active    bool            `db:"active"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// WorkerPayment pago de nómina a un empleado.
type WorkerPayment struct {
	ID            string          `db:"id"`
	TenantID      string          `db:"tenant_id"`
	WorkerID      string          `db:"worker_id"`
	Amount        decimal.Decimal `db:"amount"`
	PaymentDate   time.Time       `db:"payment_date"`
	PaymentMethod string          `db:"payment_method"`
	Notes         string          `db:"notes"`
	CreatedAt     time.Time       `db:"created_at"`
}
