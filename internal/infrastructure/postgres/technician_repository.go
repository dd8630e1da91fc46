package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/assistencia-api/internal/domain"
	"github.com/jhoicas/assistencia-api/internal/domain/entity"
	"github.com/jhoicas/assistencia-api/internal/domain/repository"
)

var _ repository.TechnicianRepository = (*TechnicianRepo)(nil)

const technicianColumns = `id, name, specialty, phone, email, active, created_at, updated_at`

// TechnicianRepo persistencia de técnicos.
type TechnicianRepo struct {
	q Querier
}

// NewTechnicianRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTechnicianRepository(q Querier) *TechnicianRepo {
	return &TechnicianRepo{q: q}
}

func scanTechnician(row pgx.Row) (*entity.Technician, error) {
	var t entity.Technician
	if err := row.Scan(&t.ID, &t.Name, &t.Specialty, &t.Phone, &t.Email, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TechnicianRepo) Create(ctx context.Context, t *entity.Technician) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO technicians (`+technicianColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.Name, t.Specialty, t.Phone, t.Email, t.Active, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return persistenceErr("insert technician", err)
	}
	return nil
}

func (r *TechnicianRepo) GetByID(ctx context.Context, id string) (*entity.Technician, error) {
	t, err := scanTechnician(r.q.QueryRow(ctx, `SELECT `+technicianColumns+` FROM technicians WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistenceErr("get technician", err)
	}
	return t, nil
}

func (r *TechnicianRepo) List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Technician, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+technicianColumns+` FROM technicians
		WHERE NOT $1 OR active
		ORDER BY lower(name), id LIMIT $2 OFFSET $3`, onlyActive, limit, offset)
	if err != nil {
		return nil, persistenceErr("list technicians", err)
	}
	defer rows.Close()
	var list []*entity.Technician
	for rows.Next() {
		t, err := scanTechnician(rows)
		if err != nil {
			return nil, persistenceErr("scan technician", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *TechnicianRepo) Update(ctx context.Context, t *entity.Technician) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE technicians SET name = $2, specialty = $3, phone = $4, email = $5, active = $6, updated_at = $7
		WHERE id = $1`,
		t.ID, t.Name, t.Specialty, t.Phone, t.Email, t.Active, t.UpdatedAt,
	)
	if err != nil {
		return persistenceErr("update technician", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina el técnico; las órdenes que lo referenciaban quedan sin técnico (ON DELETE SET NULL).
func (r *TechnicianRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM technicians WHERE id = $1`, id)
	if err != nil {
		return persistenceErr("delete technician", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
