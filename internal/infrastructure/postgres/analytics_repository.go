package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/assistencia-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el dashboard y la reposición.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// CountOrdersByStatus cantidad de órdenes por estado.
func (r *AnalyticsRepo) CountOrdersByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM service_orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("analytics.CountOrdersByStatus: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("analytics.CountOrdersByStatus scan: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

// GetCompletedRevenue suma tarifa + líneas de las órdenes completadas cerradas en el rango.
// COALESCE devuelve cero si no hay órdenes en el período.
func (r *AnalyticsRepo) GetCompletedRevenue(ctx context.Context, startDate, endDate time.Time) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(o.maintenance_fee + COALESCE(l.lines_total, 0)), 0)
	FROM service_orders o
	LEFT JOIN (
	    SELECT order_id, SUM(quantity * unit_price) AS lines_total
	    FROM order_items
	    GROUP BY order_id
	) l ON l.order_id = o.id
	WHERE o.status = 'completed'
	  AND o.closed_at BETWEEN $1 AND $2`

	var total decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, startDate, endDate).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("analytics.GetCompletedRevenue: %w", err)
	}
	return total, nil
}

// GetLowStockParts piezas con stock <= threshold, de menor a mayor stock.
func (r *AnalyticsRepo) GetLowStockParts(ctx context.Context, threshold, limit int) ([]repository.LowStockPart, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, stock_quantity
		FROM parts
		WHERE stock_quantity <= $1
		ORDER BY stock_quantity, lower(name)
		LIMIT $2`, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetLowStockParts: %w", err)
	}
	defer rows.Close()
	var out []repository.LowStockPart
	for rows.Next() {
		var p repository.LowStockPart
		if err := rows.Scan(&p.PartID, &p.Name, &p.StockQuantity); err != nil {
			return nil, fmt.Errorf("analytics.GetLowStockParts scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetInventoryValue Σ(stock × precio unitario).
func (r *AnalyticsRepo) GetInventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(stock_quantity * unit_price), 0) FROM parts`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("analytics.GetInventoryValue: %w", err)
	}
	return total, nil
}

// GetPartConsumption unidades netas retiradas por órdenes en el rango (retiros menos devoluciones).
// Los movimientos manuales no cuentan como consumo.
func (r *AnalyticsRepo) GetPartConsumption(ctx context.Context, startDate, endDate time.Time) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT part_id, -SUM(delta)::int AS consumed
		FROM stock_movements
		WHERE reason IN ('order_save', 'order_delete')
		  AND created_at BETWEEN $1 AND $2
		GROUP BY part_id
		HAVING SUM(delta) < 0`, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetPartConsumption: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var (
			partID   string
			consumed int
		)
		if err := rows.Scan(&partID, &consumed); err != nil {
			return nil, fmt.Errorf("analytics.GetPartConsumption scan: %w", err)
		}
		out[partID] = consumed
	}
	return out, rows.Err()
}
