package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-pos-service/internal/auth"
	catalogdto "github.com/fekuna/omnipos-pos-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/session"
	"github.com/fekuna/omnipos-pos-service/internal/terminal/usecase"
	"github.com/fekuna/omnipos-pos-service/pkg/i18n"
	"github.com/fekuna/omnipos-pos-service/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/pkg/metrics"
	"github.com/fekuna/omnipos-pos-service/pkg/middleware"
)

type fakeSessions struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func (f *fakeSessions) Init(ctx context.Context, terminalID, token string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token != "good" {
		return nil, session.ErrInvalidToken
	}
	s := &model.Session{TerminalID: terminalID, Token: token, Employee: model.Employee{ID: "e1", Name: "Lan"}}
	f.sessions[terminalID] = s
	return s, nil
}

func (f *fakeSessions) Current(ctx context.Context, terminalID string) (*model.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[terminalID]
	if !ok {
		return nil, session.ErrSessionRequired
	}
	return s, nil
}

func (f *fakeSessions) Clear(ctx context.Context, terminalID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, terminalID)
	return nil
}

type fakeCatalog struct{}

func (fakeCatalog) LookupByCode(ctx context.Context, code string) (*model.ProductLookup, error) {
	return &model.ProductLookup{Product: model.Product{ID: "p-" + code, ProductCode: code, Name: code, BasePrice: 10000, AvailableStock: 5}}, nil
}

func (fakeCatalog) ListProducts(ctx context.Context, f *catalogdto.ProductFilters) ([]model.Product, *model.Pagination, error) {
	return nil, nil, nil
}

func (fakeCatalog) FetchBatches(ctx context.Context, productID string) ([]model.Batch, error) {
	return nil, nil
}

func (fakeCatalog) InvalidateListCache(ctx context.Context) error { return nil }

type fakeOrders struct {
	tokens []string
}

func (f *fakeOrders) Create(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	f.tokens = append(f.tokens, auth.GetToken(ctx))
	return &model.Order{ID: "o1", Status: req.Status}, nil
}

type fakeSettings struct{}

func (fakeSettings) ListDiscounts(ctx context.Context) ([]model.CustomerDiscount, error) {
	return nil, nil
}

func (fakeSettings) DiscountTable(ctx context.Context) (model.DiscountTable, error) {
	return model.DiscountTable{model.CustomerVIP: 10}, nil
}

func (fakeSettings) UpdateDiscount(ctx context.Context, ct model.CustomerType, pct float64) (*model.CustomerDiscount, error) {
	return nil, nil
}

type server struct {
	e      *echo.Echo
	orders *fakeOrders
}

func newServer(t *testing.T) *server {
	t.Helper()
	i18n.Init()
	log := logger.NewNop()
	orders := &fakeOrders{}
	sessions := &fakeSessions{sessions: map[string]*model.Session{}}
	uc := usecase.NewTerminalUseCase(fakeCatalog{}, orders, fakeSettings{}, usecase.Options{}, metrics.NewNop(), log)

	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	api := e.Group("/api/v1")
	secured := api.Group("", RequireTerminal(), RequireSession(sessions))
	NewTerminalHandler(uc, sessions, log).Register(api, secured)

	return &server{e: e, orders: orders}
}

func (s *server) do(method, path, terminalID, body string) *httptest.ResponseRecorder {
	return s.doWithToken(method, path, terminalID, "good", body)
}

func (s *server) doWithToken(method, path, terminalID, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if terminalID != "" {
		req.Header.Set(auth.HeaderTerminalID, terminalID)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func login(t *testing.T, s *server, terminalID string) {
	t.Helper()
	rec := s.do(http.MethodPost, "/api/v1/sessions", terminalID, `{"token":"good"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestRequiresTerminalID(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/api/v1/cart", "", "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "terminal.required", errorCode(t, rec))
}

func TestRequiresSession(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodGet, "/api/v1/cart", "T1", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "session.required", errorCode(t, rec))
}

func TestSecuredRoutesNeedSessionToken(t *testing.T) {
	s := newServer(t)
	login(t, s, "T1")

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"read cart", http.MethodGet, "/api/v1/cart", ""},
		{"add item", http.MethodPost, "/api/v1/cart/items", `{"productCode":"MILK"}`},
		{"checkout", http.MethodPost, "/api/v1/cart/checkout", ""},
		{"logout", http.MethodDelete, "/api/v1/sessions", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.doWithToken(tt.method, tt.path, "T1", "", tt.body)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "session.required", errorCode(t, rec))

			rec = s.doWithToken(tt.method, tt.path, "T1", "someone-else", tt.body)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "session.invalid_token", errorCode(t, rec))
		})
	}

	assert.Empty(t, s.orders.tokens)
	rec := s.do(http.MethodGet, "/api/v1/cart", "T1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"lines":[]`)
}

func TestLoginRejectsBadToken(t *testing.T) {
	s := newServer(t)

	rec := s.do(http.MethodPost, "/api/v1/sessions", "T1", `{"token":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "session.invalid_token", errorCode(t, rec))

	rec = s.do(http.MethodPost, "/api/v1/sessions", "T1", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartFlow(t *testing.T) {
	s := newServer(t)
	login(t, s, "T1")

	rec := s.do(http.MethodPost, "/api/v1/cart/items", "T1", `{"productCode":"MILK"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var added struct {
		Outcome string `json:"outcome"`
		Line    struct {
			Key string `json:"key"`
		} `json:"line"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, "added", added.Outcome)
	assert.Equal(t, "p-MILK", added.Line.Key)

	rec = s.do(http.MethodPatch, "/api/v1/cart/items/p-MILK", "T1", `{"quantity":4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPatch, "/api/v1/cart/items/p-MILK", "T1", `{"quantity":9}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "cart.exceeds_stock", errorCode(t, rec))

	rec = s.do(http.MethodPut, "/api/v1/cart/customer", "T1", `{"customer":{"id":"c1","customerType":"vip"}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/v1/cart", "T1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		ItemCount int `json:"itemCount"`
		Totals    struct {
			Subtotal float64 `json:"subtotal"`
			Discount float64 `json:"discount"`
			Total    float64 `json:"total"`
		} `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, 4, view.ItemCount)
	assert.Equal(t, 40000.0, view.Totals.Subtotal)
	assert.Equal(t, 4000.0, view.Totals.Discount)
	assert.Equal(t, 36000.0, view.Totals.Total)

	rec = s.do(http.MethodDelete, "/api/v1/cart", "T1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "cart.clear_not_confirmed", errorCode(t, rec))

	rec = s.do(http.MethodDelete, "/api/v1/cart?confirm=true", "T1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAddItemValidation(t *testing.T) {
	s := newServer(t)
	login(t, s, "T1")

	rec := s.do(http.MethodPost, "/api/v1/cart/items", "T1", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "request.invalid", errorCode(t, rec))

	rec = s.do(http.MethodPost, "/api/v1/cart/items", "T1", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, "/api/v1/cart/items/p-MILK", "T1", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutForwardsToken(t *testing.T) {
	s := newServer(t)
	login(t, s, "T1")

	rec := s.do(http.MethodPost, "/api/v1/cart/checkout", "T1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "cart.empty", errorCode(t, rec))

	rec = s.do(http.MethodPost, "/api/v1/cart/scan", "T1", `{"code":"MILK"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/v1/cart/checkout", "T1", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"good"}, s.orders.tokens)

	rec = s.do(http.MethodGet, "/api/v1/cart", "T1", "")
	assert.Contains(t, rec.Body.String(), `"lines":[]`)
}

func TestSelectionRoutes(t *testing.T) {
	s := newServer(t)
	login(t, s, "T1")

	rec := s.do(http.MethodGet, "/api/v1/cart/selection", "T1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"state":"idle"`)

	rec = s.do(http.MethodPost, "/api/v1/cart/selection/confirm", "T1", `{"batchId":"b1","quantity":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "selection.not_presenting", errorCode(t, rec))

	rec = s.do(http.MethodDelete, "/api/v1/cart/selection", "T1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutClearsCartAndSession(t *testing.T) {
	s := newServer(t)
	login(t, s, "T1")
	rec := s.do(http.MethodPost, "/api/v1/cart/items", "T1", `{"productCode":"MILK"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodDelete, "/api/v1/sessions", "T1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/cart", "T1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	login(t, s, "T1")
	rec = s.do(http.MethodGet, "/api/v1/cart", "T1", "")
	assert.Contains(t, rec.Body.String(), `"lines":[]`)
}
