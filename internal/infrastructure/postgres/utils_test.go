package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/assistencia-api/internal/domain"
)

func TestPersistenceErr_ClasificaPorCodigo(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind string
	}{
		{"sin filas", pgx.ErrNoRows, domain.PersistenceNotFound},
		{"único", &pgconn.PgError{Code: codeUniqueViolation}, domain.PersistenceConstraint},
		{"llave foránea", fmt.Errorf("wrap: %w", &pgconn.PgError{Code: codeForeignKeyViolation}), domain.PersistenceConstraint},
		{"check", &pgconn.PgError{Code: codeCheckViolation}, domain.PersistenceConstraint},
		{"not null", &pgconn.PgError{Code: "23502"}, domain.PersistenceConstraint},
		{"uuid mal formado", &pgconn.PgError{Code: "22P02"}, domain.PersistenceInvalid},
		{"fuera de rango", &pgconn.PgError{Code: "22003"}, domain.PersistenceInvalid},
		{"consulta cancelada", &pgconn.PgError{Code: "57014"}, domain.PersistenceTransport},
		{"transporte", errors.New("connection reset by peer"), domain.PersistenceTransport},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := persistenceErr("op", tc.err)

			var perr *domain.PersistenceError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tc.kind, perr.Kind)
			assert.ErrorIs(t, err, domain.ErrPersistence)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestPersistenceErr_NilEsNil(t *testing.T) {
	assert.NoError(t, persistenceErr("op", nil))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
}
