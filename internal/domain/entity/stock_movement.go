package entity

import "time"

// Motivos de movimiento de stock.
const (
	MovementReasonOrderSave   = "order_save"
	MovementReasonOrderDelete = "order_delete"
	MovementReasonManual      = "manual"
)

// StockMovement registro de auditoría de cada ajuste aplicado al libro de stock.
// (ReconciliationID, PartID) es único: repetir un ajuste con la misma clave no lo aplica dos veces.
type StockMovement struct {
	ID               string
	ReconciliationID string
	PartID           string
	OrderID          string // vacío en ajustes manuales
	Delta            int    // positivo = devuelve al stock, negativo = retira
	ResultingStock   int
	Reason           string
	CreatedAt        time.Time
}
