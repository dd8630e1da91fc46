package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/assistencia-api/internal/domain"
	"github.com/jhoicas/assistencia-api/internal/domain/entity"
)

// AdjustRequest un ajuste sobre el libro de stock de una pieza.
type AdjustRequest struct {
	PartID           string
	Delta            int // positivo = devuelve al stock, negativo = retira
	ReconciliationID string
	OrderID          string
	Reason           string
}

// Ledger acceso al libro de stock de las piezas.
// Cada ajuste es una actualización condicional (stock + delta >= 0 verificado en la BD)
// más un registro en stock_movements con clave (conciliación, pieza) para que un reintento
// no aplique dos veces el mismo delta.
type Ledger struct {
	txRunner  TxRunner
	publisher EventPublisher
	metrics   Metrics
	log       zerolog.Logger
	now       func() time.Time
}

// NewLedger construye el acceso al libro. publisher y metrics pueden ser nil.
func NewLedger(txRunner TxRunner, publisher EventPublisher, metrics Metrics, log zerolog.Logger) *Ledger {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Ledger{
		txRunner:  txRunner,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// AdjustStock aplica un ajuste en su propia transacción y devuelve el stock resultante.
// Errores: *domain.InsufficientStockError, *domain.PartNotFoundError o *domain.PersistenceError.
func (l *Ledger) AdjustStock(ctx context.Context, req AdjustRequest) (int, error) {
	if req.PartID == "" {
		return 0, domain.ErrInvalidInput
	}
	if req.ReconciliationID == "" {
		req.ReconciliationID = uuid.New().String()
	}
	var (
		stock   int
		applied bool
	)
	err := l.txRunner.Run(ctx, func(ctx context.Context, repos TxRepos) error {
		var err error
		stock, applied, err = l.adjustInTx(ctx, repos, req)
		return err
	})
	if err != nil {
		return 0, err
	}
	if applied {
		l.publish(ctx, req.PartID, stock)
	}
	return stock, nil
}

// adjustInTx aplica el ajuste con los repositorios de la transacción del caller.
// applied es false cuando la clave ya estaba registrada (reintento) o el delta es cero.
func (l *Ledger) adjustInTx(ctx context.Context, repos TxRepos, req AdjustRequest) (stock int, applied bool, err error) {
	prev, err := repos.Movements.Find(ctx, req.ReconciliationID, req.PartID)
	if err != nil {
		return 0, false, err
	}
	if prev != nil && (prev.OrderID != req.OrderID || prev.Delta != req.Delta) {
		return 0, false, &domain.IdempotencyKeyReusedError{ReconciliationID: req.ReconciliationID, PartID: req.PartID}
	}
	if prev != nil || req.Delta == 0 {
		part, err := repos.Parts.GetByID(ctx, req.PartID)
		if err != nil {
			return 0, false, err
		}
		if part == nil {
			return 0, false, &domain.PartNotFoundError{PartID: req.PartID}
		}
		if prev != nil {
			l.log.Debug().
				Str("part_id", req.PartID).
				Str("reconciliation_id", req.ReconciliationID).
				Msg("ajuste ya aplicado, se omite")
		}
		return part.StockQuantity, false, nil
	}

	stock, err = repos.Parts.AdjustStock(ctx, req.PartID, req.Delta)
	if err != nil {
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			l.metrics.ObserveRejection()
		}
		return 0, false, err
	}

	mov := &entity.StockMovement{
		ID:               uuid.New().String(),
		ReconciliationID: req.ReconciliationID,
		PartID:           req.PartID,
		OrderID:          req.OrderID,
		Delta:            req.Delta,
		ResultingStock:   stock,
		Reason:           req.Reason,
		CreatedAt:        l.now(),
	}
	if err := repos.Movements.Record(ctx, mov); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Otra sesión aplicó la misma clave en paralelo; el rollback deshace este ajuste.
			return 0, false, fmt.Errorf("ajuste %s/%s concurrente: %w", req.ReconciliationID, req.PartID, domain.ErrConflict)
		}
		return 0, false, err
	}
	l.metrics.ObserveAdjustment(req.Delta)
	return stock, true, nil
}

// publish notifica el cambio; un fallo se registra y nunca se propaga al caller.
func (l *Ledger) publish(ctx context.Context, partID string, stock int) {
	evt := PartChanged{PartID: partID, Stock: stock, At: l.now()}
	if err := l.publisher.PublishPartChanged(ctx, evt); err != nil {
		l.log.Warn().Err(err).Str("part_id", partID).Msg("no se pudo publicar PartChanged")
	}
}
