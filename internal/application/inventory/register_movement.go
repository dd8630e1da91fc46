package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/assistencia-api/internal/application/dto"
	"github.com/jhoicas/assistencia-api/internal/domain"
	"github.com/jhoicas/assistencia-api/internal/domain/entity"
	"github.com/jhoicas/assistencia-api/internal/domain/repository"
)

// RegisterMovementUseCase entradas y salidas manuales de stock (compras, pérdidas).
// Pasa por el libro igual que las órdenes, así queda el rastro en stock_movements.
type RegisterMovementUseCase struct {
	ledger    *Ledger
	movements repository.StockMovementRepository
}

// NewRegisterMovementUseCase construye el caso de uso de movimientos manuales.
func NewRegisterMovementUseCase(ledger *Ledger, movements repository.StockMovementRepository) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{ledger: ledger, movements: movements}
}

// RegisterMovement aplica el movimiento y devuelve el stock resultante.
// idempotencyKey vacío genera una clave nueva; repetir la misma clave no vuelve a aplicar el delta.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, partID, idempotencyKey string, in dto.RegisterMovementRequest) (int, error) {
	if in.Quantity <= 0 {
		return 0, fmt.Errorf("cantidad debe ser mayor a cero: %w", domain.ErrInvalidInput)
	}
	var delta int
	switch in.Type {
	case dto.MovementTypeIn:
		delta = in.Quantity
	case dto.MovementTypeOut:
		delta = -in.Quantity
	default:
		return 0, fmt.Errorf("tipo de movimiento %q: %w", in.Type, domain.ErrInvalidInput)
	}
	if idempotencyKey == "" {
		idempotencyKey = uuid.New().String()
	}
	return uc.ledger.AdjustStock(ctx, AdjustRequest{
		PartID:           partID,
		Delta:            delta,
		ReconciliationID: "manual:" + idempotencyKey,
		Reason:           entity.MovementReasonManual,
	})
}

// ListMovements historial del libro para una pieza, más recientes primero.
func (uc *RegisterMovementUseCase) ListMovements(ctx context.Context, partID string, limit int) ([]dto.StockMovementResponse, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	list, err := uc.movements.ListByPart(ctx, partID, limit, 0)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID:               m.ID,
			ReconciliationID: m.ReconciliationID,
			PartID:           m.PartID,
			OrderID:          m.OrderID,
			Delta:            m.Delta,
			ResultingStock:   m.ResultingStock,
			Reason:           m.Reason,
			CreatedAt:        m.CreatedAt,
		})
	}
	return out, nil
}
