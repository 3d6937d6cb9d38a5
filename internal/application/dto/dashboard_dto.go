package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalProducts    int             `json:"total_products"`
	LowStockProducts int             `json:"low_stock_products"`
	TotalStockUnits  int             `json:"total_stock_units"`
	InventoryValue   decimal.Decimal `json:"inventory_value"`

	TotalSales          decimal.Decimal `json:"total_sales"`
	TotalPurchases      decimal.Decimal `json:"total_purchases"`
	TotalOutstanding    decimal.Decimal `json:"total_outstanding"` // saldo pendiente de todas las facturas
	TotalWorkerPayments decimal.Decimal `json:"total_worker_payments"`

	TopProducts []TopProductDTO `json:"top_products"`
}

// TopProductDTO producto más vendido (agregado desde registros de venta).
type TopProductDTO struct {
	ProductName       string          `json:"product_name"`
	TotalQuantitySold int             `json:"total_quantity_sold"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
}
