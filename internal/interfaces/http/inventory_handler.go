package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/assistencia-api/internal/application/dto"
	"github.com/jhoicas/assistencia-api/internal/application/inventory"
	"github.com/jhoicas/assistencia-api/internal/domain"
)

// InventoryHandler movimientos manuales de stock y lista de reposición (protegido).
type InventoryHandler struct {
	uc            *inventory.RegisterMovementUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.RegisterMovementUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, replenishment: replenishment}
}

// RegisterMovement godoc
// @Summary      Entrada o salida manual de stock
// @Description  Pasa por el libro de stock. Repetir la misma Idempotency-Key no vuelve a aplicar el movimiento.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path    string                       true   "ID de la pieza"
// @Param        Idempotency-Key  header  string                       false  "Clave del movimiento"
// @Param        body             body    dto.RegisterMovementRequest  true   "type (IN|OUT) y quantity"
// @Success      201  {object}  map[string]int
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/parts/{id}/stock [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if e := bindBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	id, e := pathID(c)
	if e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	stock, err := h.uc.RegisterMovement(c.Context(), id, c.Get(HeaderIdempotencyKey), in)
	if err != nil {
		// Aquí la pieza es el recurso de la ruta: 404 y no 422.
		var missing *domain.PartNotFoundError
		if errors.As(err, &missing) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "pieza no encontrada"})
		}
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"stock_quantity": stock})
}

// ListMovements godoc
// @Summary      Historial del libro de stock de una pieza
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID de la pieza"
// @Param        limit  query  int     false  "Límite"  default(50)
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/parts/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	list, err := h.uc.ListMovements(c.Context(), id, c.QueryInt("limit", 50))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Piezas con stock igual o menor al umbral, con la cantidad sugerida según el consumo
//
//	de los últimos 90 días en órdenes de servicio.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/parts/replenishment [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":          len(list),
		"replenishments": list,
	})
}
