package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fekuna/omnipos-pos-service/internal/catalog"
	"github.com/fekuna/omnipos-pos-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-pos-service/internal/model"
	"github.com/fekuna/omnipos-pos-service/pkg/logger"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CatalogHandler) Register(g *echo.Group) {
	g.GET("/products", h.ListProducts)
}

type listResponse struct {
	Products   []model.Product   `json:"products"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
}

func (h *CatalogHandler) ListProducts(c echo.Context) error {
	filters := &dto.ProductFilters{
		Category:  c.QueryParam("category"),
		Search:    c.QueryParam("search"),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
		Page:      1,
		Limit:     defaultLimit,
	}

	if v := c.QueryParam("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "page must be a positive integer")
		}
		filters.Page = page
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		filters.Limit = limit
	}

	products, page, err := h.uc.ListProducts(c.Request().Context(), filters)
	if err != nil {
		return err
	}
	if products == nil {
		products = []model.Product{}
	}
	return c.JSON(http.StatusOK, listResponse{Products: products, Pagination: page})
}
