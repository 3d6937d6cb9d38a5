package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name          string          `json:"name"`
	Category      string          `json:"category,omitempty"`
	Unit          string          `json:"unit,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
	MinSize       string          `json:"min_size,omitempty"`
	MaxSize       string          `json:"max_size,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenant_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category,omitempty"`
	Unit          string          `json:"unit,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
	MinSize       string          `json:"min_size,omitempty"`
	MaxSize       string          `json:"max_size,omitempty"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

// ProductListResponse respuesta de GET /api/products.
type ProductListResponse struct {
	Data []ProductResponse `json:"data"`
	Page PageResponse      `json:"page"`
}

// StockLevelResponse respuesta de GET /api/products/stock-level.
type StockLevelResponse struct {
	ProductName   string `json:"product_name"`
	StockQuantity int    `json:"stock_quantity"`
}

// StockAdjustmentResponse fila del libro de ajustes.
type StockAdjustmentResponse struct {
	ID               string `json:"id"`
	ProductID        string `json:"product_id"`
	ProductName      string `json:"product_name"`
	BillID           string `json:"bill_id,omitempty"`
	OperationType    string `json:"operation_type"`
	QuantityChange   int    `json:"quantity_change"`
	PreviousQuantity int    `json:"previous_quantity"`
	NewQuantity      int    `json:"new_quantity"`
	CreatedAt        string `json:"created_at"`
}
