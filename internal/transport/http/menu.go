package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/swingeats/swingeats/internal/models"
	"github.com/swingeats/swingeats/internal/util"
	"github.com/swingeats/swingeats/pkg/logging"
)

type MenuSearcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []models.MenuItem, error)
}

func (h *OrdersHTTP) ListMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.list")

	items, err := h.Svc.ListMenu(ctx)
	if err != nil {
		return fail(l, "list_menu_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

type SearchHTTP struct {
	Menu MenuSearcher
}

func (h *SearchHTTP) SearchMenu(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "menu.search")

	if h == nil || h.Menu == nil {
		l.Warn("search_menu_error", "status", 503, "reason", "search not configured")
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		l.Warn("search_menu_error", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, items, err := h.Menu.Search(ctx, q, from, limit)
	if err != nil {
		l.Error("search_menu_error", "status", 502, "reason", "search backend failed", "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "search failed")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(from+limit) < total,
		},
	})
}
