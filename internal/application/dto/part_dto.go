package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePartRequest entrada para crear una pieza del inventario.
type CreatePartRequest struct {
	Name             string          `json:"name" validate:"required,min=1,max=200"`
	Manufacturer     string          `json:"manufacturer" validate:"max=120"`
	Model            string          `json:"model" validate:"max=120"`
	ManufacturerCode string          `json:"manufacturer_code" validate:"max=100"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	StockQuantity    int             `json:"stock_quantity" validate:"min=0"`
}

// UpdatePartRequest entrada para actualizar una pieza. El stock no se edita aquí:
// solo cambia por órdenes de servicio o por movimientos manuales.
type UpdatePartRequest struct {
	Name             *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Manufacturer     *string          `json:"manufacturer" validate:"omitempty,max=120"`
	Model            *string          `json:"model" validate:"omitempty,max=120"`
	ManufacturerCode *string          `json:"manufacturer_code" validate:"omitempty,max=100"`
	UnitPrice        *decimal.Decimal `json:"unit_price"`
}

// PartResponse salida de una pieza.
type PartResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Manufacturer     string          `json:"manufacturer"`
	Model            string          `json:"model"`
	ManufacturerCode string          `json:"manufacturer_code"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	StockQuantity    int             `json:"stock_quantity"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// PartListResponse lista paginada de piezas.
type PartListResponse struct {
	Items []PartResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
