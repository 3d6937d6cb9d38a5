package entity

import "time"

// Tipos de operación del libro de ajustes de stock.
const (
	OperationSell         = "sell"
	OperationBuy          = "buy"
	OperationSellReversal = "sell_reversal"
	OperationBuyReversal  = "buy_reversal"
)

// StockAdjustment fila de auditoría de un cambio de stock (solo inserción).
// QuantityChange es negativo en venta y positivo en compra.
type StockAdjustment struct {
	ID               string    `db:"id"`
	TenantID         string    `db:"tenant_id"`
	ProductID        string    `db:"product_id"`
	ProductName      string    `db:"product_name"`
	BillID           string    `db:"bill_id"`
	OperationType    string    `db:"operation_type"`
	QuantityChange   int       `db:"quantity_change"`
	PreviousQuantity int       `db:"previous_quantity"`
	NewQuantity      int       `db:"new_quantity"`
	CreatedAt        time.Time `db:"created_at"`
}

// ReversalOperation devuelve el tipo de operación que revierte op.
func ReversalOperation(op string) string {
	switch op {
	case OperationSell:
		return OperationSellReversal
	case OperationBuy:
		return OperationBuyReversal
	}
	return op
}

// IsForward indica si la fila corresponde a un ajuste original (no a una reversión).
func (a *StockAdjustment) IsForward() bool {
	return a.OperationType == OperationSell || a.OperationType == OperationBuy
}
