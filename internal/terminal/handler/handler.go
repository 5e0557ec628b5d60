package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-pos-service/internal/auth"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/internal/terminal"
	"github.com/fekuna/omnipos-pos-service/internal/terminal/dto"
	"github.com/fekuna/omnipos-pos-service/pkg/logger"
)

type TerminalHandler struct {
	uc       terminal.UseCase
	sessions Sessions
	logger   logger.ZapLogger
}

func NewTerminalHandler(uc terminal.UseCase, sessions Sessions, log logger.ZapLogger) *TerminalHandler {
	return &TerminalHandler{
		uc:       uc,
		sessions: sessions,
		logger:   log,
	}
}

// Register mounts the session routes on api and the cart routes on secured,
// a group that already runs RequireTerminal and RequireSession.
func (h *TerminalHandler) Register(api, secured *echo.Group) {
	sessions := api.Group("/sessions", RequireTerminal())
	sessions.POST("", h.Login)
	sessions.DELETE("", h.Logout, RequireSession(h.sessions))

	secured.GET("/cart", h.GetCart)
	secured.DELETE("/cart", h.ClearCart)
	secured.POST("/cart/items", h.AddItem)
	secured.PATCH("/cart/items/:key", h.UpdateItem)
	secured.DELETE("/cart/items/:key", h.RemoveItem)
	secured.POST("/cart/scan", h.Scan)
	secured.GET("/cart/selection", h.GetSelection)
	secured.POST("/cart/selection/confirm", h.ConfirmSelection)
	secured.DELETE("/cart/selection", h.CancelSelection)
	secured.PUT("/cart/customer", h.SetCustomer)
	secured.POST("/cart/checkout", h.Checkout)
}

func (h *TerminalHandler) log(c echo.Context) logger.ZapLogger {
	return logger.FromContext(c.Request().Context(), h.logger)
}

func terminalID(c echo.Context) string {
	return auth.GetTerminalID(c.Request().Context())
}

func bind(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func (h *TerminalHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}

	s, err := h.sessions.Init(c.Request().Context(), terminalID(c), req.Token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s)
}

// Logout ends the session and drops the terminal's cart.
func (h *TerminalHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.sessions.Clear(ctx, terminalID(c)); err != nil {
		return err
	}
	h.uc.Reset(ctx, terminalID(c))
	return c.NoContent(http.StatusNoContent)
}

func (h *TerminalHandler) GetCart(c echo.Context) error {
	view, err := h.uc.Cart(c.Request().Context(), terminalID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *TerminalHandler) ClearCart(c echo.Context) error {
	confirmed, _ := strconv.ParseBool(c.QueryParam("confirm"))
	view, err := h.uc.Clear(c.Request().Context(), terminalID(c), confirmed)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *TerminalHandler) AddItem(c echo.Context) error {
	var req dto.AddItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.ProductCode == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "productCode is required")
	}

	res, err := h.uc.AddProduct(c.Request().Context(), terminalID(c), req.ProductCode)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *TerminalHandler) UpdateItem(c echo.Context) error {
	var req dto.UpdateQuantityRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Quantity == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "quantity is required")
	}

	view, err := h.uc.UpdateQuantity(c.Request().Context(), terminalID(c), c.Param("key"), *req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *TerminalHandler) RemoveItem(c echo.Context) error {
	view, err := h.uc.RemoveLine(c.Request().Context(), terminalID(c), c.Param("key"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *TerminalHandler) Scan(c echo.Context) error {
	var req dto.ScanRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	res, err := h.uc.Scan(c.Request().Context(), terminalID(c), req.Code)
	if err != nil {
		h.log(c).Debug("scan rejected", zap.String("code", req.Code), zap.Error(err))
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *TerminalHandler) GetSelection(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Selection(c.Request().Context(), terminalID(c)))
}

func (h *TerminalHandler) ConfirmSelection(c echo.Context) error {
	var req dto.ConfirmSelectionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	if req.BatchID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "batchId is required")
	}

	view, err := h.uc.ConfirmSelection(c.Request().Context(), terminalID(c), req.BatchID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *TerminalHandler) CancelSelection(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.CancelSelection(c.Request().Context(), terminalID(c)))
}

func (h *TerminalHandler) SetCustomer(c echo.Context) error {
	var req dto.SetCustomerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	view, err := h.uc.SetCustomer(c.Request().Context(), terminalID(c), req.Customer)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

func (h *TerminalHandler) Checkout(c echo.Context) error {
	res, err := h.uc.Checkout(c.Request().Context(), terminalID(c))
	if err != nil {
		return err
	}

	if s, ok := c.Get(sessionKey).(*model.Session); ok {
		h.log(c).Info("checkout by employee",
			zap.String("employee_id", s.Employee.ID),
			zap.String("order_id", res.Order.ID),
		)
	}
	return c.JSON(http.StatusCreated, res)
}
