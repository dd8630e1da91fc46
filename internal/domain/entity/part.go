package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part representa una pieza de repuesto del inventario.
// StockQuantity solo se modifica a través del libro de stock (ajustes con movimiento).
type Part struct {
	ID               string
	Name             string
	Manufacturer     string // opcional
	Model            string // opcional
	ManufacturerCode string // opcional, código del fabricante
	UnitPrice        decimal.Decimal
	StockQuantity    int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
