package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/settings"
	"github.com/fekuna/omnipos-pos-service/pkg/logger"
)

type SettingsHandler struct {
	uc     settings.UseCase
	logger logger.ZapLogger
}

func NewSettingsHandler(uc settings.UseCase, log logger.ZapLogger) *SettingsHandler {
	return &SettingsHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *SettingsHandler) Register(g *echo.Group) {
	g.GET("/settings/customer-discounts", h.ListDiscounts)
	g.PUT("/settings/customer-discounts/:type", h.UpdateDiscount)
}

func (h *SettingsHandler) ListDiscounts(c echo.Context) error {
	rows, err := h.uc.ListDiscounts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

type updateDiscountRequest struct {
	Percentage *float64 `json:"percentage"`
}

func (h *SettingsHandler) UpdateDiscount(c echo.Context) error {
	var req updateDiscountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Percentage == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "percentage is required")
	}

	customerType := model.CustomerType(c.Param("type"))
	d, err := h.uc.UpdateDiscount(c.Request().Context(), customerType, *req.Percentage)
	if err != nil {
		logger.FromContext(c.Request().Context(), h.logger).Debug("discount update rejected",
			zap.String("customer_type", string(customerType)),
			zap.Error(err),
		)
		return err
	}
	return c.JSON(http.StatusOK, d)
}
