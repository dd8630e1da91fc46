package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/assistencia-api/internal/application/dto"
	"github.com/jhoicas/assistencia-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición de piezas.
// Combina el stock bajo con el consumo de los últimos 90 días por órdenes de servicio.
type ReplenishmentUseCase struct {
	parts         repository.PartRepository
	analyticsRepo repository.AnalyticsRepository
	threshold     int
	now           func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	parts repository.PartRepository,
	analyticsRepo repository.AnalyticsRepository,
	threshold int,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		parts:         parts,
		analyticsRepo: analyticsRepo,
		threshold:     threshold,
		now:           time.Now,
	}
}

// GenerateReplenishmentList devuelve las piezas con stock <= umbral, con la cantidad sugerida
// para cubrir el consumo reciente y la prioridad (1 = más urgente).
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Piezas bajo el umbral
	low, err := uc.analyticsRepo.GetLowStockParts(ctx, uc.threshold, 500)
	if err != nil {
		return nil, err
	}
	if len(low) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Consumo por pieza (últimos 90 días). Sin historial se sugiere solo volver al umbral.
	end := uc.now()
	start := end.AddDate(0, 0, -90)
	consumption, err := uc.analyticsRepo.GetPartConsumption(ctx, start, end)
	if err != nil {
		consumption = map[string]int{}
	}

	ids := make([]string, 0, len(low))
	for _, l := range low {
		ids = append(ids, l.PartID)
	}
	parts, err := uc.parts.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// 3. Sugerencias
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(low))
	for _, l := range low {
		consumed := consumption[l.PartID]
		target := uc.threshold + consumed
		suggested := target - l.StockQuantity
		if suggested < 0 {
			suggested = 0
		}
		price := decimal.Zero
		if p, ok := parts[l.PartID]; ok && p != nil {
			price = p.UnitPrice
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			PartID:             l.PartID,
			PartName:           l.Name,
			CurrentStock:       l.StockQuantity,
			Threshold:          uc.threshold,
			ConsumedLast90Days: consumed,
			SuggestedOrderQty:  suggested,
			UnitPrice:          price,
			EstimatedOrderCost: price.Mul(decimal.NewFromInt(int64(suggested))),
		})
	}

	// 4. Ordenar: primero sin stock, luego mayor consumo, luego menor stock.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if (a.CurrentStock == 0) != (b.CurrentStock == 0) {
			return a.CurrentStock == 0
		}
		if a.ConsumedLast90Days != b.ConsumedLast90Days {
			return a.ConsumedLast90Days > b.ConsumedLast90Days
		}
		if a.CurrentStock != b.CurrentStock {
			return a.CurrentStock < b.CurrentStock
		}
		return a.PartID < b.PartID
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
