package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrPartNotFound      = errors.New("pieza no encontrada")
	ErrPersistence       = errors.New("error de persistencia")
)

// ValidationError agrupa todas las violaciones encontradas en los ítems de una orden.
// Nunca contiene solo la primera: el cliente muestra la lista completa.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validación: " + strings.Join(e.Violations, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// InsufficientStockError rechazo del libro de stock: la pieza no tiene unidades suficientes.
type InsufficientStockError struct {
	PartID    string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para la pieza %s: disponible %d, solicitado %d", e.PartID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// PartNotFoundError la pieza referenciada ya no existe.
// Es fatal al guardar una orden y se ignora (con warning) al eliminarla.
type PartNotFoundError struct {
	PartID string
}

func (e *PartNotFoundError) Error() string {
	return fmt.Sprintf("pieza %s no encontrada", e.PartID)
}

func (e *PartNotFoundError) Unwrap() error { return ErrPartNotFound }

// IdempotencyKeyReusedError la clave de conciliación ya se usó para la pieza con otro contenido
// (otra orden u otro delta). Reintentar con la misma clave nunca vuelve a aplicar el ajuste.
type IdempotencyKeyReusedError struct {
	ReconciliationID string
	PartID           string
}

func (e *IdempotencyKeyReusedError) Error() string {
	return fmt.Sprintf("clave de idempotencia %q reutilizada con otro contenido (pieza %s)", e.ReconciliationID, e.PartID)
}

func (e *IdempotencyKeyReusedError) Unwrap() error { return ErrConflict }

// Tipos de falla de persistencia.
const (
	PersistenceNotFound   = "not_found"
	PersistenceConstraint = "constraint"
	PersistenceInvalid    = "invalid"
	PersistenceTransport  = "transport"
)

// PersistenceError falla de lectura/escritura contra la base de datos.
type PersistenceError struct {
	Op   string // operación, ej. "adjust stock"
	Kind string // not_found, constraint, invalid, transport
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

// Unwrap permite errors.Is(err, ErrPersistence) y también llegar al error del driver.
func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }
