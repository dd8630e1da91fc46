package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/assistencia-api/internal/application/dto"
	"github.com/jhoicas/assistencia-api/internal/application/inventory"
	"github.com/jhoicas/assistencia-api/internal/domain"
	"github.com/jhoicas/assistencia-api/internal/domain/entity"
	"github.com/jhoicas/assistencia-api/internal/domain/repository"
)

// orderKeySpace espacio de nombres para derivar el ID de una orden desde la Idempotency-Key.
var orderKeySpace = uuid.MustParse("6f1c8a52-3d0e-4b7a-9c61-2f8e5b4d7a10")

// OrderUseCase casos de uso de órdenes de servicio. Todo guardado pasa por la conciliación de stock.
type OrderUseCase struct {
	orders      repository.ServiceOrderRepository
	items       repository.OrderItemRepository
	customers   repository.CustomerRepository
	technicians repository.TechnicianRepository
	reconciler  Reconciler
	now         func() time.Time
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	orders repository.ServiceOrderRepository,
	items repository.OrderItemRepository,
	customers repository.CustomerRepository,
	technicians repository.TechnicianRepository,
	reconciler Reconciler,
) *OrderUseCase {
	return &OrderUseCase{
		orders:      orders,
		items:       items,
		customers:   customers,
		technicians: technicians,
		reconciler:  reconciler,
		now:         time.Now,
	}
}

// Create crea una orden y retira del stock lo que sus líneas consumen.
// Con idempotencyKey el ID de la orden se deriva de la clave: un reintento devuelve la orden ya creada.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.SaveOrderRequest, idempotencyKey string) (*dto.SaveOrderResponse, error) {
	id := uuid.New().String()
	reconciliationID := ""
	if key := strings.TrimSpace(idempotencyKey); key != "" {
		id = uuid.NewSHA1(orderKeySpace, []byte(key)).String()
		reconciliationID = saveKey(id, key)
		existing, err := uc.Get(ctx, id)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return &dto.SaveOrderResponse{Order: *existing, ReconciliationID: reconciliationID, Adjustments: []dto.StockAdjustmentDTO{}}, nil
		}
	}
	if err := uc.checkRefs(ctx, in); err != nil {
		return nil, err
	}

	now := uc.now()
	order := &entity.ServiceOrder{
		ID:        id,
		OpenedAt:  now,
		CreatedAt: now,
	}
	applyOrderRequest(order, in, now)

	res, err := uc.reconciler.ReconcileOnSave(ctx, inventory.SaveInput{
		Order:            order,
		ReconciliationID: reconciliationID,
	})
	if err != nil {
		return nil, err
	}
	return toSaveOrderResponse(order, res), nil
}

// Update reemplaza la orden con el nuevo estado y concilia solo la diferencia de stock.
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.SaveOrderRequest, idempotencyKey string) (*dto.SaveOrderResponse, error) {
	current, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrNotFound
	}
	originalItems, err := uc.items.ListByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.checkRefs(ctx, in); err != nil {
		return nil, err
	}

	order := &entity.ServiceOrder{
		ID:        current.ID,
		OpenedAt:  current.OpenedAt,
		ClosedAt:  current.ClosedAt,
		CreatedAt: current.CreatedAt,
	}
	applyOrderRequest(order, in, uc.now())

	reconciliationID := ""
	if key := strings.TrimSpace(idempotencyKey); key != "" {
		reconciliationID = saveKey(order.ID, key)
	}
	res, err := uc.reconciler.ReconcileOnSave(ctx, inventory.SaveInput{
		Order:            order,
		OriginalStatus:   current.Status,
		OriginalItems:    originalItems,
		ReconciliationID: reconciliationID,
	})
	if err != nil {
		return nil, err
	}
	return toSaveOrderResponse(order, res), nil
}

// saveKey clave de conciliación de un guardado: la misma Idempotency-Key en otra orden es otra clave.
func saveKey(orderID, key string) string {
	return "order:" + orderID + ":" + key
}

// Get obtiene una orden con sus líneas y total. Devuelve domain.ErrNotFound si no existe.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.items.ListByOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return toOrderResponse(order), nil
}

// List lista órdenes filtrando opcionalmente por estado. No incluye líneas.
func (uc *OrderUseCase) List(ctx context.Context, status string, limit, offset int) (*dto.OrderListResponse, error) {
	if status != "" && !entity.ValidOrderStatus(status) {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.orders.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o))
	}
	return &dto.OrderListResponse{Items: out, Page: dto.PageResponse{Limit: limit, Offset: offset}}, nil
}

// Delete devuelve al stock lo retenido por la orden y la elimina.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	return uc.reconciler.ReconcileOnDelete(ctx, id)
}

func (uc *OrderUseCase) checkRefs(ctx context.Context, in dto.SaveOrderRequest) error {
	if in.Status != "" && !entity.ValidOrderStatus(in.Status) {
		return &domain.ValidationError{Violations: []string{fmt.Sprintf("estado desconocido: %s", in.Status)}}
	}
	if in.MaintenanceFee.LessThan(decimal.Zero) {
		return &domain.ValidationError{Violations: []string{"la tarifa de mantenimiento no puede ser negativa"}}
	}
	customer, err := uc.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return err
	}
	if customer == nil {
		return &domain.ValidationError{Violations: []string{fmt.Sprintf("el cliente %s no existe", in.CustomerID)}}
	}
	if in.TechnicianID == "" {
		return nil
	}
	tech, err := uc.technicians.GetByID(ctx, in.TechnicianID)
	if err != nil {
		return err
	}
	if tech == nil {
		return &domain.ValidationError{Violations: []string{fmt.Sprintf("el técnico %s no existe", in.TechnicianID)}}
	}
	return nil
}

// applyOrderRequest copia los campos editables y ajusta closed_at según el estado.
func applyOrderRequest(order *entity.ServiceOrder, in dto.SaveOrderRequest, now time.Time) {
	status := in.Status
	if status == "" {
		status = entity.OrderStatusOpen
	}
	order.CustomerID = in.CustomerID
	order.TechnicianID = in.TechnicianID
	order.Status = status
	order.ProblemDescription = strings.TrimSpace(in.ProblemDescription)
	order.Diagnosis = in.Diagnosis
	order.WorkPerformed = in.WorkPerformed
	order.MaintenanceFee = in.MaintenanceFee
	order.UpdatedAt = now

	switch status {
	case entity.OrderStatusCompleted, entity.OrderStatusCancelled:
		if order.ClosedAt == nil {
			closed := now
			order.ClosedAt = &closed
		}
	default:
		order.ClosedAt = nil
	}

	order.Items = make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		order.Items = append(order.Items, entity.OrderItem{
			OrderID:   order.ID,
			Name:      strings.TrimSpace(it.Name),
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			PartID:    it.PartID,
			FromStock: it.FromStock,
		})
	}
}

func toOrderResponse(o *entity.ServiceOrder) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
			PartID:    it.PartID,
			FromStock: it.FromStock,
		})
	}
	return &dto.OrderResponse{
		ID:                 o.ID,
		CustomerID:         o.CustomerID,
		TechnicianID:       o.TechnicianID,
		Status:             o.Status,
		ProblemDescription: o.ProblemDescription,
		Diagnosis:          o.Diagnosis,
		WorkPerformed:      o.WorkPerformed,
		MaintenanceFee:     o.MaintenanceFee,
		Total:              o.Total(),
		OpenedAt:           o.OpenedAt,
		ClosedAt:           o.ClosedAt,
		Items:              items,
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

func toSaveOrderResponse(order *entity.ServiceOrder, res *inventory.SaveResult) *dto.SaveOrderResponse {
	adjustments := make([]dto.StockAdjustmentDTO, 0, len(res.Adjustments))
	for _, adj := range res.Adjustments {
		adjustments = append(adjustments, dto.StockAdjustmentDTO{
			PartID: adj.PartID,
			Delta:  adj.Delta,
			Stock:  res.Stock[adj.PartID],
		})
	}
	return &dto.SaveOrderResponse{
		Order:            *toOrderResponse(order),
		ReconciliationID: res.ReconciliationID,
		Adjustments:      adjustments,
	}
}
