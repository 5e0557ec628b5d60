package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/settings/usecase"
	"github.com/fekuna/omnipos-pos-service/pkg/i18n"
	"github.com/fekuna/omnipos-pos-service/pkg/logger"
	"github.com/fekuna/omnipos-pos-service/pkg/middleware"
)

type memoryRepository struct {
	rows map[model.CustomerType]model.CustomerDiscount
}

func (r *memoryRepository) FindAll(ctx context.Context) ([]model.CustomerDiscount, error) {
	out := make([]model.CustomerDiscount, 0, len(r.rows))
	for _, d := range r.rows {
		out = append(out, d)
	}
	return out, nil
}

func (r *memoryRepository) Upsert(ctx context.Context, d *model.CustomerDiscount) error {
	r.rows[d.CustomerType] = *d
	return nil
}

func newEcho(repo *memoryRepository) *echo.Echo {
	i18n.Init()
	log := logger.NewNop()
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler(log)
	NewSettingsHandler(usecase.NewSettingsUseCase(repo, log), log).Register(e.Group("/api/v1"))
	return e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestListDiscounts(t *testing.T) {
	repo := &memoryRepository{rows: map[model.CustomerType]model.CustomerDiscount{
		model.CustomerVIP: {CustomerType: model.CustomerVIP, Percentage: 15},
	}}
	e := newEcho(repo)

	rec := do(e, http.MethodGet, "/api/v1/settings/customer-discounts", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []model.CustomerDiscount
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, len(model.CustomerTypes))
	assert.Equal(t, model.CustomerGuest, rows[0].CustomerType)
	assert.Equal(t, model.CustomerVIP, rows[3].CustomerType)
	assert.Equal(t, 15.0, rows[3].Percentage)
}

func TestUpdateDiscount(t *testing.T) {
	repo := &memoryRepository{rows: map[model.CustomerType]model.CustomerDiscount{}}
	e := newEcho(repo)

	rec := do(e, http.MethodPut, "/api/v1/settings/customer-discounts/wholesale", `{"percentage":7.5}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 7.5, repo.rows[model.CustomerWholesale].Percentage)
}

func TestUpdateDiscountRejected(t *testing.T) {
	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   string
	}{
		{"missing percentage", "/api/v1/settings/customer-discounts/vip", `{}`, http.StatusBadRequest, middleware.CodeRequestInvalid},
		{"out of range", "/api/v1/settings/customer-discounts/vip", `{"percentage":120}`, http.StatusUnprocessableEntity, "settings.invalid_percentage"},
		{"guest", "/api/v1/settings/customer-discounts/guest", `{"percentage":5}`, http.StatusUnprocessableEntity, "settings.guest_fixed"},
		{"unknown type", "/api/v1/settings/customer-discounts/staff", `{"percentage":5}`, http.StatusUnprocessableEntity, "settings.unknown_customer_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memoryRepository{rows: map[model.CustomerType]model.CustomerDiscount{}}
			e := newEcho(repo)

			rec := do(e, http.MethodPut, tt.target, tt.body)

			assert.Equal(t, tt.status, rec.Code)
			var body middleware.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Empty(t, repo.rows)
		})
	}
}
