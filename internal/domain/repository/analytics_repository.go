package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LowStockPart pieza con stock igual o inferior al umbral configurado.
type LowStockPart struct {
	PartID        string
	Name          string
	StockQuantity int
}

// AnalyticsRepository define las consultas de lectura para el dashboard.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// CountOrdersByStatus devuelve la cantidad de órdenes por estado.
	CountOrdersByStatus(ctx context.Context) (map[string]int, error)

	// GetCompletedRevenue suma el total (tarifa + líneas) de las órdenes completadas
	// cuyo cierre cae en el rango dado. COALESCE devuelve cero si no hay órdenes.
	GetCompletedRevenue(ctx context.Context, startDate, endDate time.Time) (decimal.Decimal, error)

	// GetLowStockParts devuelve hasta limit piezas con stock <= threshold, de menor a mayor stock.
	GetLowStockParts(ctx context.Context, threshold, limit int) ([]LowStockPart, error)

	// GetInventoryValue Σ(stock × precio unitario) de todas las piezas.
	GetInventoryValue(ctx context.Context) (decimal.Decimal, error)

	// GetPartConsumption unidades retiradas por órdenes de servicio en el rango, por pieza.
	// Se calcula sobre stock_movements (deltas negativos netos de devoluciones).
	GetPartConsumption(ctx context.Context, startDate, endDate time.Time) (map[string]int, error)
}
