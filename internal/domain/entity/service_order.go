package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la orden de servicio.
const (
	OrderStatusOpen       = "open"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// ValidOrderStatus indica si s es un estado conocido.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusOpen, OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// ServiceOrder orden de servicio (asistencia técnica) con sus líneas.
type ServiceOrder struct {
	ID                 string
	CustomerID         string
	TechnicianID       string // opcional
	Status             string
	ProblemDescription string
	Diagnosis          string
	WorkPerformed      string
	MaintenanceFee     decimal.Decimal
	OpenedAt           time.Time
	ClosedAt           *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Items              []OrderItem
}

// Total = tarifa de mantenimiento + Σ(cantidad × precio unitario).
func (o *ServiceOrder) Total() decimal.Decimal {
	total := o.MaintenanceFee
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// HoldsStock las órdenes canceladas no retienen unidades del inventario.
func (o *ServiceOrder) HoldsStock() bool {
	return o.Status != OrderStatusCancelled
}
