package usecase

import (
	"context"

	"github.com/jhoicas/assistencia-api/internal/application/dto"
	"github.com/jhoicas/assistencia-api/internal/application/inventory"
)

// PartListCache caché de páginas del listado de piezas. Un miss o un error devuelven ok=false.
type PartListCache interface {
	GetList(ctx context.Context, search string, limit, offset int) (*dto.PartListResponse, bool)
	SetList(ctx context.Context, search string, limit, offset int, page *dto.PartListResponse)
	Invalidate(ctx context.Context) error
}

// Reconciler conciliación de stock de las órdenes (implementado por inventory.Orchestrator).
type Reconciler interface {
	ReconcileOnSave(ctx context.Context, in inventory.SaveInput) (*inventory.SaveResult, error)
	ReconcileOnDelete(ctx context.Context, orderID string) error
}
