package dto

import "github.com/shopspring/decimal"

// CreateBillRequest body para POST /api/bills.
// Los campos puntero son obligatorios y se distinguen de un cero explícito.
type CreateBillRequest struct {
	BillNumber      string            `json:"bill_number"`
	BillTitle       string            `json:"bill_title"`
	BillDate        string            `json:"bill_date"` // YYYY-MM-DD
	BillType        string            `json:"bill_type"` // sell | buy
	PartyName       string            `json:"party_name"`
	PartyPhone      string            `json:"party_phone,omitempty"`
	PartyEmail      string            `json:"party_email,omitempty"`
	PartyAddress    string            `json:"party_address,omitempty"`
	Subtotal        *decimal.Decimal  `json:"subtotal,omitempty"` // por defecto Σ ítems
	DiscountPercent *decimal.Decimal  `json:"discount_percent,omitempty"`
	DiscountAmount  *decimal.Decimal  `json:"discount_amount,omitempty"` // por defecto subtotal × % / 100
	TotalAmount     *decimal.Decimal  `json:"total_amount"`
	PaymentType     string            `json:"payment_type,omitempty"` // full | partial
	PaidAmount      *decimal.Decimal  `json:"paid_amount,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	Items           []BillItemRequest `json:"items"`
}

// BillItemRequest línea de factura en la creación.
type BillItemRequest struct {
	ProductName string           `json:"product_name"`
	Quantity    *int             `json:"quantity"`
	Unit        string           `json:"unit"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	MinSize     string           `json:"min_size,omitempty"`
	MaxSize     string           `json:"max_size,omitempty"`
}

// UpdateBillRequest body para PUT /api/bills/:billId (solo cabecera y contacto).
type UpdateBillRequest struct {
	BillNumber   *string `json:"bill_number,omitempty"`
	BillTitle    *string `json:"bill_title,omitempty"`
	BillDate     *string `json:"bill_date,omitempty"`
	PartyName    *string `json:"party_name,omitempty"`
	PartyPhone   *string `json:"party_phone,omitempty"`
	PartyEmail   *string `json:"party_email,omitempty"`
	PartyAddress *string `json:"party_address,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

// UpdateBillItemRequest body para PUT /api/bills/:billId/items/:itemId.
type UpdateBillItemRequest struct {
	ProductName *string          `json:"product_name,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	MinSize     *string          `json:"min_size,omitempty"`
	MaxSize     *string          `json:"max_size,omitempty"`
}

// BillFilterRequest query de GET /api/bills.
type BillFilterRequest struct {
	BillType    string `query:"bill_type"`
	PaymentType string `query:"payment_type"`
	Status      string `query:"status"`
	StartDate   string `query:"start_date"`
	EndDate     string `query:"end_date"`
	PageRequest
}

// RecordPaymentRequest body para POST /api/bills/:billId/payments.
type RecordPaymentRequest struct {
	PaymentAmount *decimal.Decimal `json:"payment_amount"`
	PaymentDate   string           `json:"payment_date"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	Notes         string           `json:"notes,omitempty"`
}

// BillResponse cabecera de factura.
type BillResponse struct {
	ID               string          `json:"id"`
	TenantID         string          `json:"tenant_id"`
	BillNumber       string          `json:"bill_number"`
	BillTitle        string          `json:"bill_title"`
	BillDate         string          `json:"bill_date"`
	BillType         string          `json:"bill_type"`
	PartyName        string          `json:"party_name"`
	PartyPhone       string          `json:"party_phone,omitempty"`
	PartyEmail       string          `json:"party_email,omitempty"`
	PartyAddress     string          `json:"party_address,omitempty"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountPercent  decimal.Decimal `json:"discount_percent"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	PaymentType      string          `json:"payment_type"`
	PaidAmount       decimal.Decimal `json:"paid_amount"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
	Status           string          `json:"status"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        string          `json:"created_at"`
	UpdatedAt        string          `json:"updated_at"`
}

// BillItemResponse línea de factura.
type BillItemResponse struct {
	ID          string          `json:"id"`
	BillID      string          `json:"bill_id"`
	ProductID   string          `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	MinSize     string          `json:"min_size,omitempty"`
	MaxSize     string          `json:"max_size,omitempty"`
	Total       decimal.Decimal `json:"total"`
}

// PaymentResponse abono registrado.
type PaymentResponse struct {
	ID            string          `json:"id"`
	BillID        string          `json:"bill_id"`
	Amount        decimal.Decimal `json:"payment_amount"`
	PaymentDate   string          `json:"payment_date"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

// BillDetailResponse respuesta de GET /api/bills/:billId.
type BillDetailResponse struct {
	Bill     BillResponse       `json:"bill"`
	Items    []BillItemResponse `json:"items"`
	Payments []PaymentResponse  `json:"payments"`
}

// BillListResponse respuesta de GET /api/bills.
type BillListResponse struct {
	Data []BillResponse `json:"data"`
	Page PageResponse   `json:"page"`
}

// BillItemUpdateResponse línea actualizada y cabecera con totales recalculados.
type BillItemUpdateResponse struct {
	Item BillItemResponse `json:"item"`
	Bill BillResponse     `json:"bill"`
}

// BillItemDeleteResponse mensaje y cabecera con totales recalculados.
type BillItemDeleteResponse struct {
	Message string       `json:"message"`
	Bill    BillResponse `json:"bill"`
}

// RecordPaymentResponse respuesta de POST /api/bills/:billId/payments.
type RecordPaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
	Bill    BillResponse    `json:"bill"`
}

// BillStatsResponse respuesta de GET /api/bills/stats.
type BillStatsResponse struct {
	StartDate          string          `json:"start_date,omitempty"`
	EndDate            string          `json:"end_date,omitempty"`
	TotalBills         int             `json:"total_bills"`
	SellBills          int             `json:"sell_bills"`
	BuyBills           int             `json:"buy_bills"`
	TotalSales         decimal.Decimal `json:"total_sales"`
	TotalPurchases     decimal.Decimal `json:"total_purchases"`
	TotalPaid          decimal.Decimal `json:"total_paid"`
	TotalOutstanding   decimal.Decimal `json:"total_outstanding"`
	PaidCount          int             `json:"paid_count"`
	PartiallyPaidCount int             `json:"partially_paid_count"`
	UnpaidCount        int             `json:"unpaid_count"`
}
