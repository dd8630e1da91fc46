package repository

import (
	"context"

	"github.com/jhoicas/assistencia-api/internal/domain/entity"
)

// TechnicianRepository define el puerto de persistencia para técnicos.
type TechnicianRepository interface {
	Create(ctx context.Context, technician *entity.Technician) error
	GetByID(ctx context.Context, id string) (*entity.Technician, error)
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Technician, error)
	Update(ctx context.Context, technician *entity.Technician) error
	Delete(ctx context.Context, id string) error
}
