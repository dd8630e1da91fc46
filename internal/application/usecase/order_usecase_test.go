package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/assistencia-api/internal/application/dto"
	"github.com/jhoicas/assistencia-api/internal/application/usecase"
	"github.com/jhoicas/assistencia-api/internal/domain"
	"github.com/jhoicas/assistencia-api/internal/domain/entity"
)

type orderHarness struct {
	uc         *usecase.OrderUseCase
	orders     *fakeOrders
	items      *fakeItems
	reconciler *fakeReconciler
}

func newOrderHarness() *orderHarness {
	orders := &fakeOrders{orders: map[string]*entity.ServiceOrder{}}
	items := &fakeItems{items: map[string][]entity.OrderItem{}}
	customers := &fakeCustomers{customers: map[string]*entity.Customer{"c1": {ID: "c1", Name: "Ana"}}}
	techs := &fakeTechnicians{technicians: map[string]*entity.Technician{"t1": {ID: "t1", Name: "Luis", Active: true}}}
	rec := &fakeReconciler{orders: orders, items: items}
	return &orderHarness{
		uc:         usecase.NewOrderUseCase(orders, items, customers, techs, rec),
		orders:     orders,
		items:      items,
		reconciler: rec,
	}
}

func stockLine(partID string, qty int) dto.OrderItemRequest {
	return dto.OrderItemRequest{Name: "pieza " + partID, Quantity: qty, UnitPrice: decimal.NewFromInt(10), PartID: partID, FromStock: true}
}

func TestOrderUseCase_CreateCalculaTotalYAjustes(t *testing.T) {
	h := newOrderHarness()

	res, err := h.uc.Create(context.Background(), dto.SaveOrderRequest{
		CustomerID:         "c1",
		ProblemDescription: "no enfría",
		MaintenanceFee:     decimal.NewFromInt(50),
		Items: []dto.OrderItemRequest{
			stockLine("p1", 2),
			{Name: "mano de obra extra", Quantity: 1, UnitPrice: decimal.NewFromInt(15)},
		},
	}, "")

	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusOpen, res.Order.Status)
	assert.True(t, decimal.NewFromInt(85).Equal(res.Order.Total), "50 + 2×10 + 15")
	assert.Nil(t, res.Order.ClosedAt)
	require.Len(t, res.Adjustments, 1)
	assert.Equal(t, dto.StockAdjustmentDTO{PartID: "p1", Delta: -2, Stock: 98}, res.Adjustments[0])
	require.Len(t, h.reconciler.saves, 1)
	assert.Empty(t, h.reconciler.saves[0].OriginalStatus)
}

func TestOrderUseCase_CreateConClienteInexistenteEsValidacion(t *testing.T) {
	h := newOrderHarness()

	_, err := h.uc.Create(context.Background(), dto.SaveOrderRequest{CustomerID: "zz", ProblemDescription: "x"}, "")

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, h.reconciler.saves)
}

func TestOrderUseCase_CreateConTecnicoInexistenteEsValidacion(t *testing.T) {
	h := newOrderHarness()

	_, err := h.uc.Create(context.Background(), dto.SaveOrderRequest{CustomerID: "c1", TechnicianID: "t9", ProblemDescription: "x"}, "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrderUseCase_CreateIdempotenteDevuelveLaMismaOrden(t *testing.T) {
	h := newOrderHarness()
	ctx := context.Background()
	req := dto.SaveOrderRequest{CustomerID: "c1", ProblemDescription: "x", Items: []dto.OrderItemRequest{stockLine("p1", 1)}}

	first, err := h.uc.Create(ctx, req, "clave-1")
	require.NoError(t, err)
	second, err := h.uc.Create(ctx, req, "clave-1")
	require.NoError(t, err)

	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.Len(t, h.reconciler.saves, 1, "el reintento no vuelve a conciliar")
	assert.Empty(t, second.Adjustments)
	assert.Equal(t, "order:"+first.Order.ID+":clave-1", first.ReconciliationID)
}

func TestOrderUseCase_UpdatePasaEstadoOriginal(t *testing.T) {
	h := newOrderHarness()
	ctx := context.Background()
	created, err := h.uc.Create(ctx, dto.SaveOrderRequest{
		CustomerID: "c1", ProblemDescription: "x", Items: []dto.OrderItemRequest{stockLine("p1", 3)},
	}, "")
	require.NoError(t, err)

	res, err := h.uc.Update(ctx, created.Order.ID, dto.SaveOrderRequest{
		CustomerID: "c1", ProblemDescription: "x", Status: entity.OrderStatusCompleted,
		Items: []dto.OrderItemRequest{stockLine("p1", 1)},
	}, "")

	require.NoError(t, err)
	in := h.reconciler.saves[1]
	assert.Equal(t, entity.OrderStatusOpen, in.OriginalStatus)
	require.Len(t, in.OriginalItems, 1)
	assert.Equal(t, 3, in.OriginalItems[0].Quantity)
	assert.Equal(t, created.Order.OpenedAt, res.Order.OpenedAt)
	require.NotNil(t, res.Order.ClosedAt)
	require.Len(t, res.Adjustments, 1)
	assert.Equal(t, 2, res.Adjustments[0].Delta)
}

func TestOrderUseCase_UpdateAcotaLaClaveALaOrden(t *testing.T) {
	h := newOrderHarness()
	ctx := context.Background()
	req := dto.SaveOrderRequest{CustomerID: "c1", ProblemDescription: "x", Items: []dto.OrderItemRequest{stockLine("p1", 1)}}
	a, err := h.uc.Create(ctx, req, "")
	require.NoError(t, err)
	b, err := h.uc.Create(ctx, req, "")
	require.NoError(t, err)

	_, err = h.uc.Update(ctx, a.Order.ID, req, "k")
	require.NoError(t, err)
	_, err = h.uc.Update(ctx, b.Order.ID, req, "k")
	require.NoError(t, err)

	require.Len(t, h.reconciler.saves, 4)
	assert.Equal(t, "order:"+a.Order.ID+":k", h.reconciler.saves[2].ReconciliationID)
	assert.Equal(t, "order:"+b.Order.ID+":k", h.reconciler.saves[3].ReconciliationID)
}

func TestOrderUseCase_ReabrirLimpiaFechaDeCierre(t *testing.T) {
	h := newOrderHarness()
	closed := time.Now().Add(-time.Hour)
	h.orders.orders["o1"] = &entity.ServiceOrder{ID: "o1", CustomerID: "c1", Status: entity.OrderStatusCompleted, ClosedAt: &closed}

	res, err := h.uc.Update(context.Background(), "o1", dto.SaveOrderRequest{
		CustomerID: "c1", ProblemDescription: "x", Status: entity.OrderStatusInProgress,
	}, "")

	require.NoError(t, err)
	assert.Nil(t, res.Order.ClosedAt)
}

func TestOrderUseCase_UpdateInexistente(t *testing.T) {
	h := newOrderHarness()

	_, err := h.uc.Update(context.Background(), "nope", dto.SaveOrderRequest{CustomerID: "c1"}, "")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderUseCase_GetIncluyeLineasYTotal(t *testing.T) {
	h := newOrderHarness()
	h.orders.orders["o1"] = &entity.ServiceOrder{ID: "o1", CustomerID: "c1", Status: entity.OrderStatusOpen, MaintenanceFee: decimal.NewFromInt(5)}
	h.items.items["o1"] = []entity.OrderItem{{ID: "i1", Name: "tornillo", Quantity: 4, UnitPrice: decimal.NewFromInt(2)}}

	res, err := h.uc.Get(context.Background(), "o1")

	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.True(t, decimal.NewFromInt(8).Equal(res.Items[0].Subtotal))
	assert.True(t, decimal.NewFromInt(13).Equal(res.Total))
}

func TestOrderUseCase_ListRechazaEstadoDesconocido(t *testing.T) {
	h := newOrderHarness()

	_, err := h.uc.List(context.Background(), "archived", 20, 0)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOrderUseCase_DeleteDelegaEnConciliacion(t *testing.T) {
	h := newOrderHarness()

	require.NoError(t, h.uc.Delete(context.Background(), "o1"))

	assert.Equal(t, []string{"o1"}, h.reconciler.deletes)
}
