package entity

import "github.com/shopspring/decimal"

// OrderItem línea de una orden de servicio. Si FromStock es true y PartID no está vacío,
// la línea retiene unidades del inventario; si no, es un ítem manual sin vínculo de stock.
type OrderItem struct {
	ID        string
	OrderID   string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	PartID    string // vacío = sin pieza
	FromStock bool   // is_from_estoque
}

// HoldsStock indica si la línea participa en la conciliación de stock.
func (i OrderItem) HoldsStock() bool {
	return i.FromStock && i.PartID != ""
}

// Subtotal cantidad × precio unitario.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
