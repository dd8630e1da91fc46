package repository

import (
	"context"

	"github.com/jhoicas/assistencia-api/internal/domain/entity"
)

// ServiceOrderRepository define el puerto de persistencia para órdenes de servicio (sin ítems).
type ServiceOrderRepository interface {
	GetByID(ctx context.Context, id string) (*entity.ServiceOrder, error)
	// GetForUpdate bloquea la fila de la orden (SELECT FOR UPDATE). Devuelve nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.ServiceOrder, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.ServiceOrder, error)
	Upsert(ctx context.Context, order *entity.ServiceOrder) error
	Delete(ctx context.Context, id string) error
}

// OrderItemRepository define el puerto para las líneas de una orden.
// Las líneas se reemplazan completas en cada guardado.
type OrderItemRepository interface {
	ListByOrder(ctx context.Context, orderID string) ([]entity.OrderItem, error)
	ReplaceByOrder(ctx context.Context, orderID string, items []entity.OrderItem) error
	DeleteByOrder(ctx context.Context, orderID string) error
}
