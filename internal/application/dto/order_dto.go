package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest una línea de la orden. Con from_stock y part_id la línea retiene stock.
// La validación de cantidad y precio la hace el dominio para reportar todas las líneas juntas.
type OrderItemRequest struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	PartID    string          `json:"part_id" validate:"omitempty,uuid"`
	FromStock bool            `json:"from_stock"`
}

// SaveOrderRequest entrada para crear o actualizar una orden de servicio.
type SaveOrderRequest struct {
	CustomerID         string             `json:"customer_id" validate:"required,uuid"`
	TechnicianID       string             `json:"technician_id" validate:"omitempty,uuid"`
	Status             string             `json:"status" validate:"omitempty,oneof=open in_progress completed cancelled"`
	ProblemDescription string             `json:"problem_description" validate:"required,min=1"`
	Diagnosis          string             `json:"diagnosis"`
	WorkPerformed      string             `json:"work_performed"`
	MaintenanceFee     decimal.Decimal    `json:"maintenance_fee"`
	Items              []OrderItemRequest `json:"items" validate:"dive"`
}

// OrderItemResponse línea de una orden.
type OrderItemResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	PartID    string          `json:"part_id,omitempty"`
	FromStock bool            `json:"from_stock"`
}

// OrderResponse salida de una orden de servicio con su total.
type OrderResponse struct {
	ID                 string              `json:"id"`
	CustomerID         string              `json:"customer_id"`
	TechnicianID       string              `json:"technician_id,omitempty"`
	Status             string              `json:"status"`
	ProblemDescription string              `json:"problem_description"`
	Diagnosis          string              `json:"diagnosis"`
	WorkPerformed      string              `json:"work_performed"`
	MaintenanceFee     decimal.Decimal     `json:"maintenance_fee"`
	Total              decimal.Decimal     `json:"total"`
	OpenedAt           time.Time           `json:"opened_at"`
	ClosedAt           *time.Time          `json:"closed_at,omitempty"`
	Items              []OrderItemResponse `json:"items"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de órdenes (sin líneas).
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// StockAdjustmentDTO ajuste aplicado al guardar una orden.
type StockAdjustmentDTO struct {
	PartID string `json:"part_id"`
	Delta  int    `json:"delta"`
	Stock  int    `json:"stock"`
}

// SaveOrderResponse orden guardada más los ajustes de stock que produjo.
type SaveOrderResponse struct {
	Order            OrderResponse        `json:"order"`
	ReconciliationID string               `json:"reconciliation_id"`
	Adjustments      []StockAdjustmentDTO `json:"adjustments"`
}
