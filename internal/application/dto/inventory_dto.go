package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento manual.
const (
	MovementTypeIn  = "IN"
	MovementTypeOut = "OUT"
)

// RegisterMovementRequest body para POST /api/parts/:id/stock.
// IN suma unidades (compra, devolución); OUT las retira (pérdida, uso interno).
type RegisterMovementRequest struct {
	Type     string `json:"type" validate:"required,oneof=IN OUT"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// StockMovementResponse un movimiento del libro de stock.
type StockMovementResponse struct {
	ID               string    `json:"id"`
	ReconciliationID string    `json:"reconciliation_id"`
	PartID           string    `json:"part_id"`
	OrderID          string    `json:"order_id,omitempty"`
	Delta            int       `json:"delta"`
	ResultingStock   int       `json:"resulting_stock"`
	Reason           string    `json:"reason"`
	CreatedAt        time.Time `json:"created_at"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para una pieza con stock bajo.
type ReplenishmentSuggestionDTO struct {
	PartID             string          `json:"part_id"`
	PartName           string          `json:"part_name"`
	CurrentStock       int             `json:"current_stock"`
	Threshold          int             `json:"threshold"`
	ConsumedLast90Days int             `json:"consumed_last_90d"`   // unidades retiradas por órdenes
	SuggestedOrderQty  int             `json:"suggested_order_qty"` // cubre el consumo del período
	UnitPrice          decimal.Decimal `json:"unit_price"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitPrice
	Priority           int             `json:"priority"`             // 1 = más urgente
}
