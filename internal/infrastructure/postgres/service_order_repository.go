package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/assistencia-api/internal/domain"
	"github.com/jhoicas/assistencia-api/internal/domain/entity"
	"github.com/jhoicas/assistencia-api/internal/domain/repository"
)

var _ repository.ServiceOrderRepository = (*ServiceOrderRepo)(nil)

const orderColumns = `id, customer_id, COALESCE(technician_id::text, ''), status, problem_description, diagnosis,
	work_performed, maintenance_fee, opened_at, closed_at, created_at, updated_at`

// ServiceOrderRepo persistencia de la cabecera de las órdenes de servicio.
type ServiceOrderRepo struct {
	q Querier
}

// NewServiceOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewServiceOrderRepository(q Querier) *ServiceOrderRepo {
	return &ServiceOrderRepo{q: q}
}

func scanOrder(row pgx.Row) (*entity.ServiceOrder, error) {
	var o entity.ServiceOrder
	err := row.Scan(&o.ID, &o.CustomerID, &o.TechnicianID, &o.Status, &o.ProblemDescription,
		&o.Diagnosis, &o.WorkPerformed, &o.MaintenanceFee, &o.OpenedAt, &o.ClosedAt,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID obtiene la orden sin sus líneas. Devuelve nil, nil si no existe.
func (r *ServiceOrderRepo) GetByID(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM service_orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistenceErr("get order", err)
	}
	return o, nil
}

// GetForUpdate como GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *ServiceOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.ServiceOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+` FROM service_orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistenceErr("lock order", err)
	}
	return o, nil
}

// List lista órdenes (más recientes primero). status vacío = todas.
func (r *ServiceOrderRepo) List(ctx context.Context, status string, limit, offset int) ([]*entity.ServiceOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM service_orders
		WHERE $1 = '' OR status = $1
		ORDER BY opened_at DESC, id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, persistenceErr("list orders", err)
	}
	defer rows.Close()
	var list []*entity.ServiceOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, persistenceErr("scan order", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// Upsert inserta o actualiza la cabecera de la orden (las líneas van por OrderItemRepo).
func (r *ServiceOrderRepo) Upsert(ctx context.Context, o *entity.ServiceOrder) error {
	query := `
		INSERT INTO service_orders (id, customer_id, technician_id, status, problem_description, diagnosis,
		                            work_performed, maintenance_fee, opened_at, closed_at, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			technician_id = EXCLUDED.technician_id,
			status = EXCLUDED.status,
			problem_description = EXCLUDED.problem_description,
			diagnosis = EXCLUDED.diagnosis,
			work_performed = EXCLUDED.work_performed,
			maintenance_fee = EXCLUDED.maintenance_fee,
			closed_at = EXCLUDED.closed_at,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.CustomerID, o.TechnicianID, o.Status, o.ProblemDescription, o.Diagnosis,
		o.WorkPerformed, o.MaintenanceFee, o.OpenedAt, o.ClosedAt, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.PersistenceError{Op: "upsert order", Kind: domain.PersistenceConstraint, Err: err}
		}
		return persistenceErr("upsert order", err)
	}
	return nil
}

// Delete elimina la cabecera de la orden.
func (r *ServiceOrderRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM service_orders WHERE id = $1`, id)
	if err != nil {
		return persistenceErr("delete order", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
