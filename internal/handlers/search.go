package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fatihashop/storefront/internal/service/search"
	"github.com/fatihashop/storefront/internal/util"
)

type SearchHandler struct {
	Service *search.Service
}

func (h *SearchHandler) Handler(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing search query")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	from, size := util.Calculate(page, shopPageSize)

	total, products, err := h.Service.Search(c.Request().Context(), q, from, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "search unavailable").SetInternal(err)
	}

	return render(c, http.StatusOK, "search.html", "Search", map[string]any{
		"Query":    q,
		"Total":    total,
		"Products": products,
	})
}
