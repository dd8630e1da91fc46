package inventory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/assistencia-api/internal/domain/entity"
)

// Tipos de violación.
const (
	ViolationStructural  = "structural"
	ViolationStock       = "stock"
	ViolationMissingPart = "missing_part"
)

// Violation una regla incumplida por una línea (o por un grupo de líneas de la misma pieza).
type Violation struct {
	Index     int    // posición de la línea; -1 para violaciones agregadas por pieza
	Kind      string // structural, stock, missing_part
	PartID    string
	Available int
	Requested int
	Message   string
}

// ValidateItem valida una línea. Devuelve nil si es válida.
// parts es el conjunto de piezas conocidas; su StockQuantity se toma como disponible.
func ValidateItem(item entity.OrderItem, parts map[string]*entity.Part) *Violation {
	name := strings.TrimSpace(item.Name)
	switch {
	case name == "":
		return &Violation{Index: -1, Kind: ViolationStructural, Message: "el nombre del ítem es obligatorio"}
	case item.Quantity <= 0:
		return &Violation{Index: -1, Kind: ViolationStructural,
			Message: fmt.Sprintf("%s: la cantidad debe ser mayor que cero", name)}
	case item.UnitPrice.LessThan(decimal.Zero):
		return &Violation{Index: -1, Kind: ViolationStructural,
			Message: fmt.Sprintf("%s: el precio unitario no puede ser negativo", name)}
	}
	if !item.HoldsStock() {
		return nil
	}
	part, ok := parts[item.PartID]
	if !ok || part == nil {
		return &Violation{Index: -1, Kind: ViolationMissingPart, PartID: item.PartID,
			Message: fmt.Sprintf("%s: la pieza %s no existe", name, item.PartID)}
	}
	if part.StockQuantity < item.Quantity {
		return &Violation{Index: -1, Kind: ViolationStock, PartID: item.PartID,
			Available: part.StockQuantity, Requested: item.Quantity,
			Message: fmt.Sprintf("%s: stock insuficiente (disponible %d, solicitado %d)", name, part.StockQuantity, item.Quantity)}
	}
	return nil
}

// ValidateItems valida todas las líneas y devuelve TODAS las violaciones, no solo la primera.
// Además suma las cantidades de líneas que repiten pieza y marca el total si supera el stock
// (una vez por pieza y solo si ninguna línea de esa pieza fue marcada individualmente).
func ValidateItems(items []entity.OrderItem, parts map[string]*entity.Part) []Violation {
	var violations []Violation
	flagged := make(map[string]bool)
	sums := make(map[string]int)
	counts := make(map[string]int)

	for i, it := range items {
		if v := ValidateItem(it, parts); v != nil {
			v.Index = i
			violations = append(violations, *v)
			if v.PartID != "" {
				flagged[v.PartID] = true
			}
			continue
		}
		if it.HoldsStock() {
			sums[it.PartID] += it.Quantity
			counts[it.PartID]++
		}
	}

	partIDs := make([]string, 0, len(sums))
	for id := range sums {
		partIDs = append(partIDs, id)
	}
	sort.Strings(partIDs)
	for _, id := range partIDs {
		if counts[id] < 2 || flagged[id] {
			continue
		}
		part := parts[id]
		if sums[id] > part.StockQuantity {
			violations = append(violations, Violation{
				Index: -1, Kind: ViolationStock, PartID: id,
				Available: part.StockQuantity, Requested: sums[id],
				Message: fmt.Sprintf("%s: la pieza aparece en varias líneas y el total (%d) supera el stock (%d)",
					part.Name, sums[id], part.StockQuantity),
			})
		}
	}
	return violations
}

// Messages devuelve solo los mensajes, en el mismo orden.
func Messages(violations []Violation) []string {
	out := make([]string, 0, len(violations))
	for _, v := range violations {
		out = append(out, v.Message)
	}
	return out
}

// Structural filtra las violaciones estructurales (nombre, cantidad, precio).
func Structural(violations []Violation) []Violation {
	var out []Violation
	for _, v := range violations {
		if v.Kind == ViolationStructural {
			out = append(out, v)
		}
	}
	return out
}
