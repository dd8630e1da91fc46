package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/assistencia-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Parts     repository.PartRepository
	Orders    repository.ServiceOrderRepository
	Items     repository.OrderItemRepository
	Movements repository.StockMovementRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback de todo lo aplicado; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepos) error) error
}

// PartChanged evento publicado después de cada escritura exitosa en el libro de stock.
type PartChanged struct {
	PartID string    `json:"part_id"`
	Stock  int       `json:"stock"`
	At     time.Time `json:"at"`
}

// EventPublisher publica eventos de cambio de pieza (caché de listados, reportes).
// Desde el punto de vista del núcleo es fire-and-forget.
type EventPublisher interface {
	PublishPartChanged(ctx context.Context, evt PartChanged) error
}

// Metrics registra contadores de la conciliación.
type Metrics interface {
	ObserveReconciliation(operation, result string)
	ObserveAdjustment(delta int)
	ObserveRejection()
}

type nopPublisher struct{}

func (nopPublisher) PublishPartChanged(context.Context, PartChanged) error { return nil }

type nopMetrics struct{}

func (nopMetrics) ObserveReconciliation(string, string) {}
func (nopMetrics) ObserveAdjustment(int)                {}
func (nopMetrics) ObserveRejection()                    {}
