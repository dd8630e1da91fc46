package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/assistencia-api/internal/application/inventory"
	"github.com/jhoicas/assistencia-api/internal/domain"
)

func TestAdjustStock_RetiroDevuelveStockResultante(t *testing.T) {
	h := newHarness()
	h.store.addPart(partA, 10)

	stock, err := h.ledger.AdjustStock(context.Background(), inventory.AdjustRequest{PartID: partA, Delta: -4, ReconciliationID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, 6, stock)
	assert.Equal(t, 1, h.metrics.adjustments)
	require.Len(t, h.publisher.events, 1)
	assert.Equal(t, 6, h.publisher.events[0].Stock)
}

func TestAdjustStock_NuncaQuedaNegativo(t *testing.T) {
	h := newHarness()
	h.store.addPart(partA, 2)

	_, err := h.ledger.AdjustStock(context.Background(), inventory.AdjustRequest{PartID: partA, Delta: -3, ReconciliationID: "r1"})

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 2, h.store.stock(partA))
	assert.Empty(t, h.store.movements)
	assert.Equal(t, 1, h.metrics.rejections)
}

func TestAdjustStock_PiezaInexistente(t *testing.T) {
	h := newHarness()

	_, err := h.ledger.AdjustStock(context.Background(), inventory.AdjustRequest{PartID: partA, Delta: 1, ReconciliationID: "r1"})
	assert.ErrorIs(t, err, domain.ErrPartNotFound)
}

func TestAdjustStock_MismaClaveSeAplicaUnaVez(t *testing.T) {
	h := newHarness()
	h.store.addPart(partA, 1)
	req := inventory.AdjustRequest{PartID: partA, Delta: 4, ReconciliationID: "delete:" + orderID}

	first, err := h.ledger.AdjustStock(context.Background(), req)
	require.NoError(t, err)
	second, err := h.ledger.AdjustStock(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 5, first)
	assert.Equal(t, 5, second)
	assert.Equal(t, 5, h.store.stock(partA))
	assert.Len(t, h.publisher.events, 1, "el reintento no publica de nuevo")
}

func TestAdjustStock_FalloAlPublicarNoSePropaga(t *testing.T) {
	h := newHarness()
	h.store.addPart(partA, 1)
	h.publisher.err = errors.New("bus cerrado")

	stock, err := h.ledger.AdjustStock(context.Background(), inventory.AdjustRequest{PartID: partA, Delta: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, stock)
}

func TestAdjustStock_MismaClaveConOtroDeltaEsConflicto(t *testing.T) {
	h := newHarness()
	h.store.addPart(partA, 10)
	ctx := context.Background()

	_, err := h.ledger.AdjustStock(ctx, inventory.AdjustRequest{PartID: partA, Delta: -2, ReconciliationID: "manual:k1"})
	require.NoError(t, err)
	_, err = h.ledger.AdjustStock(ctx, inventory.AdjustRequest{PartID: partA, Delta: -5, ReconciliationID: "manual:k1"})

	var reused *domain.IdempotencyKeyReusedError
	require.True(t, errors.As(err, &reused))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 8, h.store.stock(partA))
}

func TestAdjustStock_MismaClaveConOtraOrdenEsConflicto(t *testing.T) {
	h := newHarness()
	h.store.addPart(partA, 10)
	ctx := context.Background()

	_, err := h.ledger.AdjustStock(ctx, inventory.AdjustRequest{PartID: partA, Delta: 3, ReconciliationID: "r1", OrderID: orderID})
	require.NoError(t, err)
	_, err = h.ledger.AdjustStock(ctx, inventory.AdjustRequest{PartID: partA, Delta: 3, ReconciliationID: "r1", OrderID: "00000000-0000-0000-0000-000000000999"})

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 13, h.store.stock(partA))
}
