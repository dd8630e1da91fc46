package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/assistencia-api/internal/application/dto"
	"github.com/jhoicas/assistencia-api/internal/application/inventory"
	"github.com/jhoicas/assistencia-api/internal/domain"
	"github.com/jhoicas/assistencia-api/internal/domain/entity"
	"github.com/jhoicas/assistencia-api/internal/domain/repository"
)

// PartUseCase casos de uso CRUD para piezas. El stock solo cambia vía el libro (órdenes o movimientos).
type PartUseCase struct {
	repo      repository.PartRepository
	txRunner  inventory.TxRunner
	cache     PartListCache
	publisher inventory.EventPublisher
	log       zerolog.Logger
}

// NewPartUseCase construye el caso de uso. cache y publisher pueden ser nil.
func NewPartUseCase(
	repo repository.PartRepository,
	txRunner inventory.TxRunner,
	cache PartListCache,
	publisher inventory.EventPublisher,
	log zerolog.Logger,
) *PartUseCase {
	return &PartUseCase{repo: repo, txRunner: txRunner, cache: cache, publisher: publisher, log: log}
}

// Create crea una pieza con su stock inicial.
func (uc *PartUseCase) Create(ctx context.Context, in dto.CreatePartRequest) (*dto.PartResponse, error) {
	if strings.TrimSpace(in.Name) == "" || in.StockQuantity < 0 || in.UnitPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	part := &entity.Part{
		ID:               uuid.New().String(),
		Name:             strings.TrimSpace(in.Name),
		Manufacturer:     in.Manufacturer,
		Model:            in.Model,
		ManufacturerCode: in.ManufacturerCode,
		UnitPrice:        in.UnitPrice,
		StockQuantity:    in.StockQuantity,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, part); err != nil {
		return nil, err
	}
	uc.changed(ctx, part)
	return toPartResponse(part), nil
}

// GetByID obtiene una pieza. Devuelve nil, nil si no existe.
func (uc *PartUseCase) GetByID(ctx context.Context, id string) (*dto.PartResponse, error) {
	part, err := uc.repo.GetByID(ctx, id)
	if err != nil || part == nil {
		return nil, err
	}
	return toPartResponse(part), nil
}

// Update actualiza datos descriptivos y precio. El stock no se edita aquí.
func (uc *PartUseCase) Update(ctx context.Context, id string, in dto.UpdatePartRequest) (*dto.PartResponse, error) {
	part, err := uc.repo.GetByID(ctx, id)
	if err != nil || part == nil {
		return nil, err
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.ErrInvalidInput
		}
		part.Name = strings.TrimSpace(*in.Name)
	}
	if in.Manufacturer != nil {
		part.Manufacturer = *in.Manufacturer
	}
	if in.Model != nil {
		part.Model = *in.Model
	}
	if in.ManufacturerCode != nil {
		part.ManufacturerCode = *in.ManufacturerCode
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		part.UnitPrice = *in.UnitPrice
	}
	part.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, part); err != nil {
		return nil, err
	}
	uc.changed(ctx, part)
	return toPartResponse(part), nil
}

// List lista piezas con paginación; las páginas se sirven desde la caché cuando hay.
func (uc *PartUseCase) List(ctx context.Context, search string, limit, offset int) (*dto.PartListResponse, error) {
	search = strings.TrimSpace(search)
	if uc.cache != nil {
		if page, ok := uc.cache.GetList(ctx, search, limit, offset); ok {
			return page, nil
		}
	}
	list, err := uc.repo.List(ctx, search, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PartResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPartResponse(p))
	}
	page := &dto.PartListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	if uc.cache != nil {
		uc.cache.SetList(ctx, search, limit, offset, page)
	}
	return page, nil
}

// Delete elimina una pieza. Se rechaza con ErrConflict mientras alguna orden activa la retenga.
// El conteo y el borrado corren en la misma tx con la fila de la pieza bloqueada: un guardado de
// orden que la retira espera al borrado (y falla con PartNotFound) o termina antes y se cuenta.
func (uc *PartUseCase) Delete(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos inventory.TxRepos) error {
		part, err := repos.Parts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if part == nil {
			return domain.ErrNotFound
		}
		holders, err := repos.Parts.CountActiveHolders(ctx, id)
		if err != nil {
			return err
		}
		if holders > 0 {
			return fmt.Errorf("la pieza está en %d línea(s) de órdenes activas: %w", holders, domain.ErrConflict)
		}
		return repos.Parts.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.changed(ctx, &entity.Part{ID: id})
	return nil
}

// changed publica el cambio (el suscriptor invalida la caché de listados).
func (uc *PartUseCase) changed(ctx context.Context, part *entity.Part) {
	if uc.publisher == nil {
		if uc.cache != nil {
			if err := uc.cache.Invalidate(ctx); err != nil {
				uc.log.Warn().Err(err).Str("part_id", part.ID).Msg("no se pudo invalidar la caché de piezas")
			}
		}
		return
	}
	evt := inventory.PartChanged{PartID: part.ID, Stock: part.StockQuantity, At: time.Now()}
	if err := uc.publisher.PublishPartChanged(ctx, evt); err != nil {
		uc.log.Warn().Err(err).Str("part_id", part.ID).Msg("no se pudo publicar PartChanged")
	}
}

func toPartResponse(p *entity.Part) *dto.PartResponse {
	return &dto.PartResponse{
		ID:               p.ID,
		Name:             p.Name,
		Manufacturer:     p.Manufacturer,
		Model:            p.Model,
		ManufacturerCode: p.ManufacturerCode,
		UnitPrice:        p.UnitPrice,
		StockQuantity:    p.StockQuantity,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}
