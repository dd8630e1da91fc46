package repository

import (
	"context"

	"github.com/jhoicas/assistencia-api/internal/domain/entity"
)

// PartRepository define el puerto de persistencia para piezas (DIP).
// StockQuantity no se modifica con Update: solo con AdjustStock.
type PartRepository interface {
	Create(ctx context.Context, part *entity.Part) error
	GetByID(ctx context.Context, id string) (*entity.Part, error)
	// GetForUpdate lee la pieza bloqueando la fila hasta el fin de la transacción. nil, nil si no existe.
	GetForUpdate(ctx context.Context, id string) (*entity.Part, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Part, error)
	List(ctx context.Context, search string, limit, offset int) ([]*entity.Part, error)
	Update(ctx context.Context, part *entity.Part) error
	Delete(ctx context.Context, id string) error
	// AdjustStock suma delta al stock solo si el resultado queda >= 0 (actualización condicional).
	// Devuelve el stock resultante, *domain.PartNotFoundError o *domain.InsufficientStockError.
	AdjustStock(ctx context.Context, id string, delta int) (int, error)
	// CountActiveHolders cuenta las líneas de órdenes no canceladas que retienen stock de la pieza.
	CountActiveHolders(ctx context.Context, id string) (int, error)
}
