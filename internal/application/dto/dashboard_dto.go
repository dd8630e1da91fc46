package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	OrdersByStatus map[string]int `json:"orders_by_status"`
	OpenOrders     int            `json:"open_orders"` // open + in_progress

	// Órdenes completadas en el mes en curso (día 1 – hoy)
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`

	LowStockThreshold int               `json:"low_stock_threshold"`
	LowStockParts     []LowStockPartDTO `json:"low_stock_parts"`
	InventoryValue    decimal.Decimal   `json:"inventory_value"` // Σ stock × precio unitario

	DateLabel string `json:"date_label"` // ej: "Febrero 2026"
}

// LowStockPartDTO pieza en el widget de stock bajo.
type LowStockPartDTO struct {
	PartID        string `json:"part_id"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
}
