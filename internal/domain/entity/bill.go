package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de factura.
const (
	BillTypeSell = "sell" // venta: descuenta stock y genera registros de venta
	BillTypeBuy  = "buy"  // compra: suma stock y puede dar de alta el producto
)

// Tipos de pago.
const (
	PaymentTypeFull    = "full"
	PaymentTypePartial = "partial"
)

// Estados de pago, derivados de PaidAmount vs TotalAmount.
const (
	BillStatusUnpaid        = "unpaid"
	BillStatusPartiallyPaid = "partially_paid"
	BillStatusPaid          = "paid"
)

// Bill cabecera de una factura de venta o compra.
type Bill struct {
	ID               string          `db:"id"`
	TenantID         string          `db:"tenant_id"`
	BillNumber       string          `db:"bill_number"`
	BillTitle        string          `db:"bill_title"`
	BillDate         time.Time       `db:"bill_date"`
	BillType         string          `db:"bill_type"`
	PartyName        string          `db:"party_name"`
	PartyPhone       string          `db:"party_phone"`
	PartyEmail       string          `db:"party_email"`
	PartyAddress     string          `db:"party_address"`
	Subtotal         decimal.Decimal `db:"subtotal"`
	DiscountPercent  decimal.Decimal `db:"discount_percent"`
	DiscountAmount   decimal.Decimal `db:"discount_amount"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	PaymentType      string          `db:"payment_type"`
	PaidAmount       decimal.Decimal `db:"paid_amount"`
	RemainingBalance decimal.Decimal `db:"remaining_balance"`
	Status           string          `db:"status"`
	Notes            string          `db:"notes"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

// IsValidBillType indica si t es sell o buy.
func IsValidBillType(t string) bool {
	return t == BillTypeSell || t == BillTypeBuy
}

// IsValidPaymentType indica si t es full o partial.
func IsValidPaymentType(t string) bool {
	return t == PaymentTypeFull || t == PaymentTypePartial
}

// DeriveStatus calcula el estado a partir de lo pagado y el total.
func DeriveStatus(paid, total decimal.Decimal) string {
	switch {
	case paid.GreaterThanOrEqual(total):
		return BillStatusPaid
	case paid.GreaterThan(decimal.Zero):
		return BillStatusPartiallyPaid
	default:
		return BillStatusUnpaid
	}
}

// RefreshBalance recalcula RemainingBalance y Status desde PaidAmount y TotalAmount.
// Mantiene remaining_balance == total_amount - paid_amount.
func (b *Bill) RefreshBalance() {
	b.RemainingBalance = b.TotalAmount.Sub(b.PaidAmount)
	b.Status = DeriveStatus(b.PaidAmount, b.TotalAmount)
}

// BillStats agregados de facturas en un rango de fechas.
type BillStats struct {
	TotalBills         int             `db:"total_bills"`
	SellBills          int             `db:"sell_bills"`
	BuyBills           int             `db:"buy_bills"`
	TotalSales         decimal.Decimal `db:"total_sales"`
	TotalPurchases     decimal.Decimal `db:"total_purchases"`
	TotalPaid          decimal.Decimal `db:"total_paid"`
	TotalOutstanding   decimal.Decimal `db:"total_outstanding"`
	PaidCount          int             `db:"paid_count"`
	PartiallyPaidCount int             `db:"partially_paid_count"`
	UnpaidCount        int             `db:"unpaid_count"`
}
