package inventory

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/assistencia-api/internal/domain"
	"github.com/jhoicas/assistencia-api/internal/domain/entity"
	invdomain "github.com/jhoicas/assistencia-api/internal/domain/inventory"
	"github.com/jhoicas/assistencia-api/internal/domain/repository"
)

// Operaciones y resultados para métricas.
const (
	OperationSave   = "save"
	OperationDelete = "delete"

	ResultOK           = "ok"
	ResultInvalid      = "invalid"
	ResultInsufficient = "insufficient_stock"
	ResultConflict     = "conflict"
	ResultError        = "error"
)

// Orchestrator conciliación de stock al guardar o eliminar una orden de servicio.
type Orchestrator struct {
	txRunner TxRunner
	parts    repository.PartRepository
	orders   repository.ServiceOrderRepository
	items    repository.OrderItemRepository
	ledger   *Ledger
	metrics  Metrics
	log      zerolog.Logger
}

// NewOrchestrator construye el orquestador. metrics puede ser nil.
func NewOrchestrator(
	txRunner TxRunner,
	parts repository.PartRepository,
	orders repository.ServiceOrderRepository,
	items repository.OrderItemRepository,
	ledger *Ledger,
	metrics Metrics,
	log zerolog.Logger,
) *Orchestrator {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Orchestrator{
		txRunner: txRunner,
		parts:    parts,
		orders:   orders,
		items:    items,
		ledger:   ledger,
		metrics:  metrics,
		log:      log,
	}
}

// SaveInput estado anterior y nuevo de una orden.
// Order.Items son las líneas nuevas. OriginalStatus vacío significa orden nueva.
type SaveInput struct {
	Order            *entity.ServiceOrder
	OriginalStatus   string
	OriginalItems    []entity.OrderItem
	ReconciliationID string
}

// SaveResult ajustes aplicados y stock resultante por pieza.
type SaveResult struct {
	ReconciliationID string
	Adjustments      []invdomain.Adjustment
	Stock            map[string]int
}

// ReconcileOnSave valida las líneas nuevas, aplica los ajustes de stock y persiste la orden,
// todo en una transacción: si un ajuste falla no queda ninguno aplicado ni la orden guardada.
func (o *Orchestrator) ReconcileOnSave(ctx context.Context, in SaveInput) (*SaveResult, error) {
	res, err := o.reconcileOnSave(ctx, in)
	o.metrics.ObserveReconciliation(OperationSave, resultOf(err))
	return res, err
}

func (o *Orchestrator) reconcileOnSave(ctx context.Context, in SaveInput) (*SaveResult, error) {
	if in.Order == nil || in.Order.ID == "" {
		return nil, domain.ErrInvalidInput
	}
	order := in.Order
	newItems := order.Items

	// 1. Validación estructural de TODAS las líneas antes de tocar el libro.
	if structural := invdomain.Structural(invdomain.ValidateItems(newItems, nil)); len(structural) > 0 {
		return nil, &domain.ValidationError{Violations: invdomain.Messages(structural)}
	}

	// Las órdenes canceladas no retienen stock: pasar a cancelada devuelve todo y salir de
	// cancelada vuelve a retirar.
	var effectiveOriginal, effectiveNew []entity.OrderItem
	if in.OriginalStatus != entity.OrderStatusCancelled {
		effectiveOriginal = in.OriginalItems
	}
	if order.HoldsStock() {
		effectiveNew = newItems
	}

	// 2. Piezas referenciadas por las líneas nuevas: una pieza inexistente es fatal.
	parts, err := o.loadParts(ctx, effectiveNew)
	if err != nil {
		return nil, err
	}

	// 3. Chequeo consultivo sobre el aumento neto: el disponible incluye lo que la orden ya retiene.
	// El libro vuelve a verificar al escribir.
	if err := checkStock(effectiveOriginal, effectiveNew, parts); err != nil {
		o.log.Info().Err(err).Str("order_id", order.ID).Msg("guardado rechazado por stock")
		return nil, err
	}

	// 4. Ajustes mínimos.
	adjustments := invdomain.Diff(effectiveOriginal, effectiveNew)

	reconciliationID := in.ReconciliationID
	if reconciliationID == "" {
		reconciliationID = uuid.New().String()
	}
	result := &SaveResult{
		ReconciliationID: reconciliationID,
		Adjustments:      adjustments,
		Stock:            make(map[string]int, len(adjustments)),
	}
	changed := make([]string, 0, len(adjustments))

	// 5. Una sola transacción: bloqueo de la orden, ajustes y después las filas de la orden.
	err = o.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		changed = changed[:0]
		current, err := repos.Orders.GetForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}
		if err := ensureUnchanged(ctx, repos, current, in); err != nil {
			return err
		}
		for _, adj := range adjustments {
			stock, applied, err := o.ledger.adjustInTx(ctx, repos, AdjustRequest{
				PartID:           adj.PartID,
				Delta:            adj.Delta,
				ReconciliationID: reconciliationID,
				OrderID:          order.ID,
				Reason:           entity.MovementReasonOrderSave,
			})
			if err != nil {
				return err
			}
			// El reintento de un guardado confirmado llega con el diff vacío: una clave ya
			// registrada aquí es una clave reutilizada para otro cambio.
			if !applied {
				return &domain.IdempotencyKeyReusedError{ReconciliationID: reconciliationID, PartID: adj.PartID}
			}
			result.Stock[adj.PartID] = stock
			changed = append(changed, adj.PartID)
		}
		if err := repos.Orders.Upsert(ctx, order); err != nil {
			return err
		}
		return repos.Items.ReplaceByOrder(ctx, order.ID, newItems)
	})
	if err != nil {
		o.log.Warn().Err(err).
			Str("order_id", order.ID).
			Str("reconciliation_id", reconciliationID).
			Msg("conciliación de stock revertida")
		return nil, err
	}

	// 6. Después del commit: notificar cada pieza modificada.
	for _, partID := range changed {
		o.ledger.publish(ctx, partID, result.Stock[partID])
	}
	o.log.Info().
		Str("order_id", order.ID).
		Str("reconciliation_id", reconciliationID).
		Int("adjustments", len(adjustments)).
		Msg("orden guardada y stock conciliado")
	return result, nil
}

// ReconcileOnDelete devuelve al stock lo retenido por la orden y la elimina.
// Es permisivo: una devolución que falla se registra y se omite, la eliminación siempre sigue.
// La clave de conciliación es fija por orden, así un reintento no devuelve dos veces.
func (o *Orchestrator) ReconcileOnDelete(ctx context.Context, orderID string) error {
	err := o.reconcileOnDelete(ctx, orderID)
	o.metrics.ObserveReconciliation(OperationDelete, resultOf(err))
	return err
}

func (o *Orchestrator) reconcileOnDelete(ctx context.Context, orderID string) error {
	if orderID == "" {
		return domain.ErrInvalidInput
	}
	order, err := o.orders.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return domain.ErrNotFound
	}
	items, err := o.items.ListByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	if order.HoldsStock() {
		reconciliationID := "delete:" + orderID
		for _, adj := range invdomain.Diff(items, nil) {
			_, err := o.ledger.AdjustStock(ctx, AdjustRequest{
				PartID:           adj.PartID,
				Delta:            adj.Delta,
				ReconciliationID: reconciliationID,
				OrderID:          orderID,
				Reason:           entity.MovementReasonOrderDelete,
			})
			if err == nil {
				continue
			}
			var notFound *domain.PartNotFoundError
			if errors.As(err, &notFound) {
				o.log.Warn().Str("order_id", orderID).Str("part_id", adj.PartID).
					Msg("pieza eliminada, no se devuelve stock")
				continue
			}
			o.log.Warn().Err(err).Str("order_id", orderID).Str("part_id", adj.PartID).Int("delta", adj.Delta).
				Msg("no se pudo devolver stock, se continúa con la eliminación")
		}
	}

	return o.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		if err := repos.Items.DeleteByOrder(ctx, orderID); err != nil {
			return err
		}
		return repos.Orders.Delete(ctx, orderID)
	})
}

func (o *Orchestrator) loadParts(ctx context.Context, items []entity.OrderItem) (map[string]*entity.Part, error) {
	held := invdomain.Held(items)
	if len(held) == 0 {
		return map[string]*entity.Part{}, nil
	}
	ids := make([]string, 0, len(held))
	for id := range held {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	parts, err := o.parts.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if p, ok := parts[id]; !ok || p == nil {
			return nil, &domain.PartNotFoundError{PartID: id}
		}
	}
	return parts, nil
}

// checkStock valida las líneas nuevas contra stock actual + lo retenido por las originales,
// o sea, solo el aumento neto tiene que caber en el stock.
func checkStock(original, updated []entity.OrderItem, parts map[string]*entity.Part) error {
	if len(updated) == 0 {
		return nil
	}
	held := invdomain.Held(original)
	available := make(map[string]*entity.Part, len(parts))
	for id, p := range parts {
		cp := *p
		cp.StockQuantity += held[id]
		available[id] = &cp
	}

	var errs []error
	reported := make(map[string]bool)
	for _, v := range invdomain.ValidateItems(updated, available) {
		if v.Kind != invdomain.ViolationStock || reported[v.PartID] {
			continue
		}
		reported[v.PartID] = true
		errs = append(errs, &domain.InsufficientStockError{
			PartID:    v.PartID,
			Available: parts[v.PartID].StockQuantity,
			Requested: v.Requested - held[v.PartID],
		})
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return errors.Join(errs...)
}

// ensureUnchanged verifica que la orden persistida siga en el estado que el caller usó como
// original; si otra sesión la guardó antes, el diff calculado ya no es válido.
func ensureUnchanged(ctx context.Context, repos TxRepos, current *entity.ServiceOrder, in SaveInput) error {
	if current == nil {
		if in.OriginalStatus != "" {
			return domain.ErrNotFound
		}
		return nil
	}
	if in.OriginalStatus == "" || current.Status != in.OriginalStatus {
		return domain.ErrConflict
	}
	persisted, err := repos.Items.ListByOrder(ctx, current.ID)
	if err != nil {
		return err
	}
	if !sameHeld(invdomain.Held(persisted), invdomain.Held(in.OriginalItems)) {
		return domain.ErrConflict
	}
	return nil
}

func sameHeld(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for id, qty := range a {
		if b[id] != qty {
			return false
		}
	}
	return true
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrInsufficientStock):
		return ResultInsufficient
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrPartNotFound):
		return ResultInvalid
	case errors.Is(err, domain.ErrConflict):
		return ResultConflict
	}
	return ResultError
}
