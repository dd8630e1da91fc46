package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/assistencia-api/internal/domain"
)

// Códigos SQLSTATE usados por los repositorios.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"

	classDataException = "22"
	classIntegrity     = "23"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// persistenceErr clasifica un error del driver en not_found / constraint / invalid / transport.
// Clase 22 (data exception, ej. 22P02 UUID mal formado) es un dato inválido: reintentar no sirve.
// Clase 23 es una restricción de integridad. El resto (conexión, cancelación, serialización) es transporte.
func persistenceErr(op string, err error) error {
	if err == nil {
		return nil
	}
	kind := domain.PersistenceTransport
	code := pgCode(err)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		kind = domain.PersistenceNotFound
	case strings.HasPrefix(code, classIntegrity):
		kind = domain.PersistenceConstraint
	case strings.HasPrefix(code, classDataException):
		kind = domain.PersistenceInvalid
	}
	return &domain.PersistenceError{Op: op, Kind: kind, Err: err}
}
