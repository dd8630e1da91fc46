package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/assistencia-api/internal/application/dto"
	"github.com/jhoicas/assistencia-api/internal/domain"
)

type stubOrders struct {
	err     error
	lastKey string
	lastIn  dto.SaveOrderRequest
	calls   int
}

func (s *stubOrders) Create(_ context.Context, in dto.SaveOrderRequest, key string) (*dto.SaveOrderResponse, error) {
	s.lastIn, s.lastKey = in, key
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SaveOrderResponse{Order: dto.OrderResponse{ID: "o1", CustomerID: in.CustomerID}, ReconciliationID: "order:" + key}, nil
}

func (s *stubOrders) Update(_ context.Context, id string, in dto.SaveOrderRequest, key string) (*dto.SaveOrderResponse, error) {
	s.calls++
	s.lastIn, s.lastKey = in, key
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SaveOrderResponse{Order: dto.OrderResponse{ID: id}}, nil
}

func (s *stubOrders) Get(_ context.Context, id string) (*dto.OrderResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &dto.OrderResponse{ID: id}, nil
}

func (s *stubOrders) List(context.Context, string, int, int) (*dto.OrderListResponse, error) {
	return &dto.OrderListResponse{}, s.err
}

func (s *stubOrders) Delete(context.Context, string) error {
	s.calls++
	return s.err
}

const orderUUID = "750e8400-e29b-41d4-a716-446655440000"

const validOrderBody = `{"customer_id":"550e8400-e29b-41d4-a716-446655440000","problem_description":"no enciende",
"items":[{"name":"fuente","quantity":1,"unit_price":"40","part_id":"650e8400-e29b-41d4-a716-446655440000","from_stock":true}]}`

func orderApp(svc orderService) *fiber.App {
	app := fiber.New()
	h := NewOrderHandler(svc)
	app.Post("/orders", h.Create)
	app.Put("/orders/:id", h.Update)
	app.Get("/orders/:id", h.GetByID)
	app.Delete("/orders/:id", h.Delete)
	return app
}

func send(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (int, dto.ErrorResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out dto.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestOrderHandler_CreatePasaIdempotencyKey(t *testing.T) {
	svc := &stubOrders{}
	status, _ := send(t, orderApp(svc), http.MethodPost, "/orders", validOrderBody, map[string]string{HeaderIdempotencyKey: "k-1"})

	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "k-1", svc.lastKey)
	require.Len(t, svc.lastIn.Items, 1)
	assert.True(t, svc.lastIn.Items[0].FromStock)
	assert.Equal(t, "40", svc.lastIn.Items[0].UnitPrice.String())
}

func TestOrderHandler_CuerpoSinClienteEs400(t *testing.T) {
	status, body := send(t, orderApp(&stubOrders{}), http.MethodPost, "/orders", `{"problem_description":"x"}`, nil)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Details, "customer_id: es obligatorio")
}

func TestOrderHandler_MapeoDeErrores(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validacion", &domain.ValidationError{Violations: []string{"a", "b"}}, http.StatusBadRequest, "VALIDATION"},
		{"stock insuficiente", &domain.InsufficientStockError{PartID: "p1", Available: 1, Requested: 3}, http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"pieza inexistente", &domain.PartNotFoundError{PartID: "p9"}, http.StatusUnprocessableEntity, "PART_NOT_FOUND"},
		{"no encontrada", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"conflicto", domain.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"bd caida", &domain.PersistenceError{Op: "adjust stock", Kind: domain.PersistenceTransport, Err: errors.New("dial")}, http.StatusServiceUnavailable, "UNAVAILABLE"},
		{"clave reutilizada", &domain.IdempotencyKeyReusedError{ReconciliationID: "order:x:k", PartID: "p1"}, http.StatusUnprocessableEntity, "IDEMPOTENCY_KEY_REUSED"},
		{"dato invalido", &domain.PersistenceError{Op: "get order", Kind: domain.PersistenceInvalid, Err: errors.New("22P02")}, http.StatusBadRequest, "INVALID_INPUT"},
		{"constraint", &domain.PersistenceError{Op: "upsert order", Kind: domain.PersistenceConstraint, Err: errors.New("fk")}, http.StatusInternalServerError, "PERSISTENCE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := send(t, orderApp(&stubOrders{err: tc.err}), http.MethodPut, "/orders/"+orderUUID, validOrderBody, nil)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.code, body.Code)
		})
	}
}

func TestOrderHandler_ValidacionDevuelveTodasLasViolaciones(t *testing.T) {
	svc := &stubOrders{err: &domain.ValidationError{Violations: []string{"línea 1", "línea 2"}}}

	_, body := send(t, orderApp(svc), http.MethodPost, "/orders", validOrderBody, nil)

	assert.Equal(t, []string{"línea 1", "línea 2"}, body.Details)
}

func TestOrderHandler_VariosFaltantesEnDetails(t *testing.T) {
	svc := &stubOrders{err: errors.Join(
		&domain.InsufficientStockError{PartID: "p1", Available: 0, Requested: 1},
		&domain.InsufficientStockError{PartID: "p2", Available: 1, Requested: 2},
	)}

	status, body := send(t, orderApp(svc), http.MethodPost, "/orders", validOrderBody, nil)

	assert.Equal(t, http.StatusConflict, status)
	require.Len(t, body.Details, 2)
	assert.Contains(t, body.Details[1], "p2")
}

func TestOrderHandler_DeleteDevuelve204(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/orders/"+orderUUID, nil)
	resp, err := orderApp(&stubOrders{}).Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestOrderHandler_IDQueNoEsUUIDEs400(t *testing.T) {
	cases := []struct {
		method string
		body   string
	}{
		{http.MethodGet, ""},
		{http.MethodPut, validOrderBody},
		{http.MethodDelete, ""},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			svc := &stubOrders{}
			status, body := send(t, orderApp(svc), tc.method, "/orders/no-es-uuid", tc.body, nil)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "INVALID_ID", body.Code)
			assert.Zero(t, svc.calls)
		})
	}
}
