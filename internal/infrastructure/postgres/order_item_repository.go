package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/assistencia-api/internal/domain/entity"
	"github.com/jhoicas/assistencia-api/internal/domain/repository"
)

var _ repository.OrderItemRepository = (*OrderItemRepo)(nil)

// OrderItemRepo persistencia de las líneas de una orden.
type OrderItemRepo struct {
	q Querier
}

// NewOrderItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderItemRepository(q Querier) *OrderItemRepo {
	return &OrderItemRepo{q: q}
}

// ListByOrder devuelve las líneas en el orden en que se guardaron.
func (r *OrderItemRepo) ListByOrder(ctx context.Context, orderID string) ([]entity.OrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, name, quantity, unit_price, COALESCE(part_id::text, ''), from_stock
		FROM order_items
		WHERE order_id = $1
		ORDER BY position`, orderID)
	if err != nil {
		return nil, persistenceErr("list order items", err)
	}
	defer rows.Close()
	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.Name, &it.Quantity, &it.UnitPrice, &it.PartID, &it.FromStock); err != nil {
			return nil, persistenceErr("scan order item", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ReplaceByOrder borra las líneas actuales e inserta las nuevas con un batch.
// Las líneas sin ID reciben uno nuevo en el mismo slice.
// Debe ejecutarse dentro de la transacción de la conciliación.
func (r *OrderItemRepo) ReplaceByOrder(ctx context.Context, orderID string, items []entity.OrderItem) error {
	if err := r.DeleteByOrder(ctx, orderID); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, it := range items {
		id := it.ID
		if id == "" {
			id = uuid.New().String()
			items[i].ID = id
		}
		batch.Queue(`
			INSERT INTO order_items (id, order_id, position, name, quantity, unit_price, part_id, from_stock)
			VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, $8)`,
			id, orderID, i, it.Name, it.Quantity, it.UnitPrice, it.PartID, it.FromStock)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range items {
		if _, err := br.Exec(); err != nil {
			return persistenceErr("insert order item", err)
		}
	}
	return nil
}

// DeleteByOrder borra todas las líneas de la orden.
func (r *OrderItemRepo) DeleteByOrder(ctx context.Context, orderID string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return persistenceErr("delete order items", err)
	}
	return nil
}
