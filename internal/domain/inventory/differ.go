package inventory

import (
	"sort"

	"github.com/jhoicas/assistencia-api/internal/domain/entity"
)

// Adjustment ajuste de stock requerido para una pieza.
// Delta positivo devuelve unidades al stock; negativo las retira.
type Adjustment struct {
	PartID string
	Delta  int
}

// Held suma, por pieza, las unidades retenidas por las líneas vinculadas al inventario.
// Los ítems manuales (o sin pieza) se ignoran aunque traigan un PartID viejo.
func Held(items []entity.OrderItem) map[string]int {
	held := make(map[string]int)
	for _, it := range items {
		if !it.HoldsStock() {
			continue
		}
		held[it.PartID] += it.Quantity
	}
	return held
}

// Diff calcula el conjunto mínimo de ajustes que lleva el libro de stock de ser consistente
// con original a ser consistente con updated. Función pura, sin I/O.
//
//   - pieza solo en original: +cantidad original (devolución total)
//   - pieza solo en updated:  -cantidad nueva (retiro total)
//   - pieza en ambos:         original - nueva, omitido si es cero
//
// El resultado se ordena por PartID para que los bloqueos en la BD sigan siempre el mismo orden.
func Diff(original, updated []entity.OrderItem) []Adjustment {
	before := Held(original)
	after := Held(updated)

	adjustments := make([]Adjustment, 0, len(before)+len(after))
	for partID, qty := range before {
		newQty, ok := after[partID]
		if !ok {
			adjustments = append(adjustments, Adjustment{PartID: partID, Delta: qty})
			continue
		}
		if delta := qty - newQty; delta != 0 {
			adjustments = append(adjustments, Adjustment{PartID: partID, Delta: delta})
		}
	}
	for partID, qty := range after {
		if _, ok := before[partID]; !ok {
			adjustments = append(adjustments, Adjustment{PartID: partID, Delta: -qty})
		}
	}

	sort.Slice(adjustments, func(i, j int) bool {
		return adjustments[i].PartID < adjustments[j].PartID
	})
	return adjustments
}
