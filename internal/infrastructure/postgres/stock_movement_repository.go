package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/assistencia-api/internal/domain"
	"github.com/jhoicas/assistencia-api/internal/domain/entity"
	"github.com/jhoicas/assistencia-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo historial de ajustes del libro de stock.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Find busca el movimiento con la clave (reconciliation_id, part_id). Devuelve nil, nil si no existe.
func (r *StockMovementRepo) Find(ctx context.Context, reconciliationID, partID string) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := r.q.QueryRow(ctx, `
		SELECT id, reconciliation_id, part_id, COALESCE(order_id::text, ''), delta, resulting_stock, reason, created_at
		FROM stock_movements
		WHERE reconciliation_id = $1 AND part_id = $2`,
		reconciliationID, partID).Scan(&m.ID, &m.ReconciliationID, &m.PartID, &m.OrderID, &m.Delta,
		&m.ResultingStock, &m.Reason, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistenceErr("find stock movement", err)
	}
	return &m, nil
}

// Record inserta el movimiento. La restricción única convierte un ajuste duplicado en ErrDuplicate.
func (r *StockMovementRepo) Record(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, reconciliation_id, part_id, order_id, delta, resulting_stock, reason, created_at)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, $6, $7, $8)`,
		m.ID, m.ReconciliationID, m.PartID, m.OrderID, m.Delta, m.ResultingStock, m.Reason, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return persistenceErr("insert stock movement", err)
	}
	return nil
}

// ListByPart historial de la pieza, más recientes primero.
func (r *StockMovementRepo) ListByPart(ctx context.Context, partID string, limit, offset int) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, reconciliation_id, part_id, COALESCE(order_id::text, ''), delta, resulting_stock, reason, created_at
		FROM stock_movements
		WHERE part_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, partID, limit, offset)
	if err != nil {
		return nil, persistenceErr("list stock movements", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ReconciliationID, &m.PartID, &m.OrderID, &m.Delta,
			&m.ResultingStock, &m.Reason, &m.CreatedAt); err != nil {
			return nil, persistenceErr("scan stock movement", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
