package repository

import (
	"context"

	"github.com/jhoicas/assistencia-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el historial de ajustes de stock.
type StockMovementRepository interface {
	// Find devuelve el ajuste ya registrado con esa clave de conciliación para la pieza, o nil, nil.
	Find(ctx context.Context, reconciliationID, partID string) (*entity.StockMovement, error)
	// Record inserta el movimiento; una clave repetida devuelve domain.ErrDuplicate.
	Record(ctx context.Context, movement *entity.StockMovement) error
	ListByPart(ctx context.Context, partID string, limit, offset int) ([]*entity.StockMovement, error)
}
