package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/assistencia-api/internal/application/dto"
	"github.com/jhoicas/assistencia-api/internal/application/usecase"
)

// TechnicianHandler maneja las peticiones HTTP de técnicos (protegido).
type TechnicianHandler struct {
	uc *usecase.TechnicianUseCase
}

func NewTechnicianHandler(uc *usecase.TechnicianUseCase) *TechnicianHandler {
	return &TechnicianHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar técnico
// @Tags         technicians
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTechnicianRequest  true  "Datos del técnico"
// @Success      201   {object}  dto.TechnicianResponse
// @Router       /api/technicians [post]
func (h *TechnicianHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTechnicianRequest
	if e := bindBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener técnico
// @Tags         technicians
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del técnico"
// @Success      200  {object}  dto.TechnicianResponse
// @Router       /api/technicians/{id} [get]
func (h *TechnicianHandler) GetByID(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "técnico no encontrado"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar técnicos
// @Tags         technicians
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "Solo activos"
// @Success      200     {array}  dto.TechnicianResponse
// @Router       /api/technicians [get]
func (h *TechnicianHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.uc.List(c.Context(), c.QueryBool("active", false), limit, offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar técnico
// @Tags         technicians
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del técnico"
// @Param        body  body  dto.UpdateTechnicianRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.TechnicianResponse
// @Router       /api/technicians/{id} [put]
func (h *TechnicianHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateTechnicianRequest
	if e := bindBody(c, &in); e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	id, e := pathID(c)
	if e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "técnico no encontrado"})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar técnico
// @Tags         technicians
// @Security     Bearer
// @Param        id   path  string  true  "ID del técnico"
// @Success      204
// @Router       /api/technicians/{id} [delete]
func (h *TechnicianHandler) Delete(c *fiber.Ctx) error {
	id, e := pathID(c)
	if e != nil {
		return c.Status(fiber.StatusBadRequest).JSON(e)
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
