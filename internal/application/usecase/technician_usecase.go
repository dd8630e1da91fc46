package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/assistencia-api/internal/application/dto"
	"github.com/jhoicas/assistencia-api/internal/domain"
	"github.com/jhoicas/assistencia-api/internal/domain/entity"
	"github.com/jhoicas/assistencia-api/internal/domain/repository"
)

// TechnicianUseCase casos de uso CRUD para técnicos.
type TechnicianUseCase struct {
	repo repository.TechnicianRepository
}

// NewTechnicianUseCase construye el caso de uso.
func NewTechnicianUseCase(repo repository.TechnicianRepository) *TechnicianUseCase {
	return &TechnicianUseCase{repo: repo}
}

func (uc *TechnicianUseCase) Create(ctx context.Context, in dto.CreateTechnicianRequest) (*dto.TechnicianResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	t := &entity.Technician{
		ID:        uuid.New().String(),
		Name:      name,
		Specialty: in.Specialty,
		Phone:     in.Phone,
		Email:     in.Email,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return toTechnicianResponse(t), nil
}

func (uc *TechnicianUseCase) GetByID(ctx context.Context, id string) (*dto.TechnicianResponse, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}
	return toTechnicianResponse(t), nil
}

func (uc *TechnicianUseCase) Update(ctx context.Context, id string, in dto.UpdateTechnicianRequest) (*dto.TechnicianResponse, error) {
	t, err := uc.repo.GetByID(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.Specialty != nil {
		t.Specialty = *in.Specialty
	}
	if in.Phone != nil {
		t.Phone = *in.Phone
	}
	if in.Email != nil {
		t.Email = *in.Email
	}
	if in.Active != nil {
		t.Active = *in.Active
	}
	t.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return toTechnicianResponse(t), nil
}

// List lista técnicos; onlyActive oculta los dados de baja.
func (uc *TechnicianUseCase) List(ctx context.Context, onlyActive bool, limit, offset int) ([]dto.TechnicianResponse, error) {
	list, err := uc.repo.List(ctx, onlyActive, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TechnicianResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toTechnicianResponse(t))
	}
	return out, nil
}

func (uc *TechnicianUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func toTechnicianResponse(t *entity.Technician) *dto.TechnicianResponse {
	return &dto.TechnicianResponse{
		ID:        t.ID,
		Name:      t.Name,
		Specialty: t.Specialty,
		Phone:     t.Phone,
		Email:     t.Email,
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
