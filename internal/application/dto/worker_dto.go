package dto

import "github.com/shopspring/decimal"

// CreateWorkerRequest body para POST /api/workers.
type CreateWorkerRequest struct {
	Name     string          `json:"name"`
	Phone    string          `json:"phone,omitempty"`
	Role     string          `json:"role,omitempty"`
	Salary   decimal.Decimal `json:"salary"`
	JoinDate string          `json:"join_date,omitempty"`
}

// UpdateWorkerRequest body para PUT /api/workers/:workerId.
type UpdateWorkerRequest struct {
	Name     *string          `json:"name,omitempty"`
	Phone    *string          `json:"phone,omitempty"`
	Role     *string          `json:"role,omitempty"`
	Salary   *decimal.Decimal `json:"salary,omitempty"`
	JoinDate *string          `json:"join_date,omitempty"`
	Active   *bool            `json:"active,omitempty"`
}

// WorkerResponse empleado en respuestas.
type WorkerResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone,omitempty"`
	Role      string          `json:"role,omitempty"`
	Salary    decimal.Decimal `json:"salary"`
	JoinDate  string          `json:"join_date,omitempty"`
	Active    bool            `json:"active"`
	CreatedAt string          `json:"created_at"`
}

// WorkerListResponse respuesta de GET /api/workers.
type WorkerListResponse struct {
	Data []WorkerResponse `json:"data"`
	Page PageResponse     `json:"page"`
}

// CreateWorkerPaymentRequest body para POST /api/workers/:workerId/payments.
type CreateWorkerPaymentRequest struct {
	Amount        *decimal.Decimal `json:"amount"`
	PaymentDate   string           `json:"payment_date"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

// WorkerPaymentResponse pago de nómina.
type WorkerPaymentResponse struct {
	ID            string          `json:"id"`
	WorkerID      string          `json:"worker_id"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   string          `json:"payment_date"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}
