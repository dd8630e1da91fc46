package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/assistencia-api/internal/domain"
	"github.com/jhoicas/assistencia-api/internal/domain/entity"
	"github.com/jhoicas/assistencia-api/internal/domain/repository"
)

var _ repository.PartRepository = (*PartRepo)(nil)

const partColumns = `id, name, manufacturer, model, manufacturer_code, unit_price, stock_quantity, created_at, updated_at`

// PartRepo implementación del puerto PartRepository sobre PostgreSQL (usable con pool o tx).
type PartRepo struct {
	q Querier
}

// NewPartRepository construye el adaptador de persistencia para piezas. Pasar pool o tx (Querier).
func NewPartRepository(q Querier) *PartRepo {
	return &PartRepo{q: q}
}

func scanPart(row pgx.Row) (*entity.Part, error) {
	var p entity.Part
	err := row.Scan(&p.ID, &p.Name, &p.Manufacturer, &p.Model, &p.ManufacturerCode,
		&p.UnitPrice, &p.StockQuantity, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste una nueva pieza con su stock inicial.
func (r *PartRepo) Create(ctx context.Context, part *entity.Part) error {
	query := `
		INSERT INTO parts (` + partColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		part.ID, part.Name, part.Manufacturer, part.Model, part.ManufacturerCode,
		part.UnitPrice, part.StockQuantity, part.CreatedAt, part.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return persistenceErr("insert part", err)
	}
	return nil
}

// GetByID obtiene una pieza por ID. Devuelve nil, nil si no existe.
func (r *PartRepo) GetByID(ctx context.Context, id string) (*entity.Part, error) {
	p, err := scanPart(r.q.QueryRow(ctx, `SELECT `+partColumns+` FROM parts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistenceErr("get part", err)
	}
	return p, nil
}

// GetForUpdate obtiene la pieza con SELECT ... FOR UPDATE (solo tiene sentido dentro de una tx).
// Un guardado de orden que retira stock actualiza la misma fila, así que queda serializado con quien la bloquea.
func (r *PartRepo) GetForUpdate(ctx context.Context, id string) (*entity.Part, error) {
	p, err := scanPart(r.q.QueryRow(ctx, `SELECT `+partColumns+` FROM parts WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistenceErr("get part for update", err)
	}
	return p, nil
}

// GetByIDs obtiene varias piezas en una sola consulta; las inexistentes no aparecen en el mapa.
func (r *PartRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Part, error) {
	out := make(map[string]*entity.Part, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+partColumns+` FROM parts WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, persistenceErr("get parts", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, persistenceErr("scan part", err)
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("get parts", err)
	}
	return out, nil
}

// List lista piezas ordenadas por nombre. search filtra por nombre, fabricante, modelo o código.
func (r *PartRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Part, error) {
	query := `
		SELECT ` + partColumns + `
		FROM parts
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%' OR manufacturer ILIKE '%' || $1 || '%'
		   OR model ILIKE '%' || $1 || '%' OR manufacturer_code ILIKE '%' || $1 || '%'
		ORDER BY lower(name), id
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, search, limit, offset)
	if err != nil {
		return nil, persistenceErr("list parts", err)
	}
	defer rows.Close()
	var list []*entity.Part
	for rows.Next() {
		p, err := scanPart(rows)
		if err != nil {
			return nil, persistenceErr("scan part", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Update actualiza los datos descriptivos y el precio. El stock no se toca aquí.
func (r *PartRepo) Update(ctx context.Context, part *entity.Part) error {
	query := `
		UPDATE parts SET name = $2, manufacturer = $3, model = $4, manufacturer_code = $5,
		       unit_price = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		part.ID, part.Name, part.Manufacturer, part.Model, part.ManufacturerCode,
		part.UnitPrice, part.UpdatedAt,
	)
	if err != nil {
		return persistenceErr("update part", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una pieza.
func (r *PartRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM parts WHERE id = $1`, id)
	if err != nil {
		return persistenceErr("delete part", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AdjustStock actualización condicional: la suma y la verificación de no-negativo ocurren
// en la misma sentencia, así dos sesiones concurrentes nunca dejan el stock bajo cero.
func (r *PartRepo) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	var stock int
	err := r.q.QueryRow(ctx, `
		UPDATE parts
		SET stock_quantity = stock_quantity + $2, updated_at = now()
		WHERE id = $1 AND stock_quantity + $2 >= 0
		RETURNING stock_quantity`, id, delta).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, persistenceErr("adjust stock", err)
	}

	// Sin filas: o la pieza no existe o el stock no alcanza.
	var current int
	err = r.q.QueryRow(ctx, `SELECT stock_quantity FROM parts WHERE id = $1`, id).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, &domain.PartNotFoundError{PartID: id}
		}
		return 0, persistenceErr("adjust stock", err)
	}
	return 0, &domain.InsufficientStockError{PartID: id, Available: current, Requested: -delta}
}

// CountActiveHolders cuenta las líneas de órdenes no canceladas que retienen stock de la pieza.
func (r *PartRepo) CountActiveHolders(ctx context.Context, id string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM order_items i
		JOIN service_orders o ON o.id = i.order_id
		WHERE i.part_id = $1 AND i.from_stock AND o.status <> 'cancelled'`, id).Scan(&n)
	if err != nil {
		return 0, persistenceErr("count part holders", err)
	}
	return n, nil
}
