package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swingeats/swingeats/pkg/logging"
)

func (h *OrdersHTTP) ListBays(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bay.list")

	bays, err := h.Svc.ListBays(ctx)
	if err != nil {
		return fail(l, "list_bays_error", err)
	}
	return c.JSON(http.StatusOK, bays)
}

func (h *OrdersHTTP) GetBay(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bay.get")

	id, err := parseID(c)
	if err != nil {
		l.Warn("get_bay_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	bay, err := h.Svc.GetBay(ctx, id)
	if err != nil {
		return fail(l, "get_bay_error", err)
	}
	return c.JSON(http.StatusOK, bay)
}

func (h *OrdersHTTP) GetBayOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bay.orders")

	id, err := parseID(c)
	if err != nil {
		l.Warn("get_bay_orders_error", "status", 400, "reason", "bad id", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	orders, err := h.Svc.GetOrdersByBay(ctx, id)
	if err != nil {
		return fail(l, "get_bay_orders_error", err)
	}
	return c.JSON(http.StatusOK, orders)
}
