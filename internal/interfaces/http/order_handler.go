package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/assistencia-api/internal/application/dto"
)

// orderService contrato que el handler necesita; lo implementa *usecase.OrderUseCase.
type orderService interface {
	Create(ctx context.Context, in dto.SaveOrderRequest, idempotencyKey string) (*dto.SaveOrderResponse, error)
	Update(ctx context.Context, id string, in dto.SaveOrderRequest, idempotencyKey string) (*dto.SaveOrderResponse, error)
	Get(ctx context.Context, id string) (*dto.OrderResponse, error)
	List(ctx context.Context, status string, limit, offset int) (*dto.OrderListResponse, error)
	Delete(ctx context.Context, id string) error
}

// OrderHandler maneja las órdenes de servicio. Todo guardado concilia el stock de las piezas.
type OrderHandler struct {
	uc orderService
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc orderService) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Crear orden de servicio
// @Description  Retira del stock las piezas de las líneas con from_stock. Si alguna línea es inválida
//
//	o falta stock no se guarda nada.
//
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                true  "Clave del guardado; repetirla no duplica la orden ni el retiro"
// @Param        body             body    dto.SaveOrderRequest  true  "Orden y líneas"
// @Success      201  {object}  dto.SaveOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.SaveOrderRequest
	if e := bindBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.uc.Create(c.Context(), in, c.Get(HeaderIdempotencyKey))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar orden de servicio
// @Description  Concilia solo la diferencia entre las líneas guardadas y las nuevas. Cancelar devuelve todo el stock.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id               path    string                true   "ID de la orden"
// @Param        Idempotency-Key  header  string                false  "Clave del guardado"
// @Param        body             body    dto.SaveOrderRequest  true   "Estado completo de la orden"
// @Success      200  {object}  dto.SaveOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [put]
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.SaveOrderRequest
	if e := bindBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	id, e := pathID(c)
	if e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.uc.Update(c.Context(), id, in, c.Get(HeaderIdempotencyKey))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden con líneas y total
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar órdenes
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "open | in_progress | completed | cancelled"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.OrderListResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Context(), c.Query("status"), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar orden
// @Description  Devuelve al stock lo que la orden retenía y la elimina.
// @Tags         orders
// @Security     Bearer
// @Param        id   path  string  true  "ID de la orden"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
