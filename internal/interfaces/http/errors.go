package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/assistencia-api/internal/application/dto"
	"github.com/jhoicas/assistencia-api/internal/domain"
	"github.com/jhoicas/assistencia-api/pkg/validator"
)

// HeaderIdempotencyKey el cliente la repite al reintentar un guardado; se usa como clave de conciliación.
const HeaderIdempotencyKey = "Idempotency-Key"

// writeError traduce errores de dominio a respuestas HTTP.
//
//	ValidationError / ErrInvalidInput → 400 VALIDATION (details con todas las violaciones)
//	InsufficientStockError            → 409 INSUFFICIENT_STOCK (details con cada pieza)
//	PartNotFoundError                 → 422 PART_NOT_FOUND
//	IdempotencyKeyReusedError         → 422 IDEMPOTENCY_KEY_REUSED
//	ErrNotFound                       → 404
//	ErrConflict / ErrDuplicate        → 409
//	PersistenceError                  → 503 si es de transporte, 400 si el dato es inválido, 500 si no
func writeError(c *fiber.Ctx, err error) error {
	var (
		verr         *domain.ValidationError
		insufficient *domain.InsufficientStockError
		missingPart  *domain.PartNotFoundError
		reused       *domain.IdempotencyKeyReusedError
		perr         *domain.PersistenceError
	)
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code: "VALIDATION", Message: "la orden tiene líneas inválidas", Details: verr.Violations,
		})
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente", Details: insufficientDetails(err),
		})
	case errors.As(err, &missingPart):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "PART_NOT_FOUND", Message: missingPart.Error(),
		})
	case errors.As(err, &reused):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "IDEMPOTENCY_KEY_REUSED", Message: "la Idempotency-Key ya se usó con otro contenido",
		})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.As(err, &perr):
		switch perr.Kind {
		case domain.PersistenceTransport:
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code: "UNAVAILABLE", Message: "base de datos no disponible, intente más tarde",
			})
		case domain.PersistenceInvalid:
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: "dato inválido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PERSISTENCE", Message: perr.Op})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// insufficientDetails un mensaje por pieza; errors.Join agrupa los faltantes de un mismo guardado.
func insufficientDetails(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			var ie *domain.InsufficientStockError
			if errors.As(e, &ie) {
				out = append(out, ie.Error())
			}
		}
		return out
	}
	return []string{err.Error()}
}

// bindBody parsea y valida el cuerpo. Devuelve nil si todo está bien.
func bindBody(c *fiber.Ctx, in any) *dto.ErrorResponse {
	if err := c.BodyParser(in); err != nil {
		return &dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"}
	}
	if err := validator.Validate(in); err != nil {
		return &dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Details: validator.Details(err)}
	}
	return nil
}

// pathID el :id de la ruta; todos los recursos usan UUID.
func pathID(c *fiber.Ctx) (string, *dto.ErrorResponse) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", &dto.ErrorResponse{Code: "INVALID_ID", Message: "id inválido: se espera un UUID"}
	}
	return id, nil
}

// pageParams limit/offset de la query con los mismos topes en todos los listados.
func pageParams(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
